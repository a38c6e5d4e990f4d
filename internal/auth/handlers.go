package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AttendFlow/AF-Backend/internal/store"
	"github.com/AttendFlow/AF-Backend/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 6 * time.Hour

// Handler owns the auth routes. The store is injected at startup; handlers
// never consult a global data layer.
type Handler struct {
	Store store.Store
}

// ListUsersHandler backs the login account picker. Password hashes are never
// serialized (json:"-" on the model).
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers()
	if err != nil {
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(users); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// LoginHandler establishes a session for the selected account.
//
// Demo trust boundary: accounts seeded without a password hash log in with no
// credential check, matching the original account-picker flow. Accounts that
// do carry a hash must present the matching password.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID   string `json:"user_id"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if input.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	user, err := h.Store.FindUserByID(input.UserID)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if user.HashedPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
	}

	sessionID := uuid.NewString()
	if err := h.Store.CreateSession(store.Session{
		SessionID: sessionID,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	})

	_ = h.Store.AppendAuditLog(store.AuditLog{
		ID:          uuid.NewString(),
		Action:      "USER_LOGIN",
		PerformedBy: user.Name,
		Timestamp:   time.Now(),
		Details:     fmt.Sprintf("User %s logged in successfully.", user.Email),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("session_id")
	if err != nil {
		http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
		return
	}

	if err := h.Store.DeleteSession(cookie.Value); err != nil {
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   "session_id",
		Value:  "",
		MaxAge: 0,
		Path:   "/",
	})

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logout successful")
}

func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	user, err := h.Store.FindUserByID(userID)
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
