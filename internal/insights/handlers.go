package insights

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/AttendFlow/AF-Backend/internal/dashboard"
	"github.com/AttendFlow/AF-Backend/internal/store"
	"github.com/AttendFlow/AF-Backend/internal/utils"
	"golang.org/x/time/rate"
)

// Handler answers natural-language questions about attendance. Client may be
// nil, in which case queries get a canned degraded answer instead of an error.
type Handler struct {
	Store   store.Store
	Client  *GeminiClient
	Now     func() time.Time
	limiter *rate.Limiter
}

// NewHandler wires the shared per-process limiter: 1 request per second with
// a burst of 3, protecting the upstream API quota.
func NewHandler(s store.Store, client *GeminiClient) *Handler {
	return &Handler{
		Store:   s,
		Client:  client,
		limiter: rate.NewLimiter(rate.Limit(1), 3),
	}
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type queryRequest struct {
	Question string `json:"question"`
}

type queryResponse struct {
	Answer string `json:"answer"`
}

// QueryHandler builds a role-scoped data context, renders the prompt, and
// forwards it to the model.
func (h *Handler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}
	user, err := h.Store.FindUserByID(userID)
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusUnauthorized)
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		http.Error(w, "Question is required", http.StatusBadRequest)
		return
	}

	if !h.limiter.Allow() {
		w.Header().Set("Retry-After", "1")
		http.Error(w, "Too many insight queries, slow down", http.StatusTooManyRequests)
		return
	}

	if h.Client == nil {
		writeAnswer(w, "Insights are not configured on this server. Ask an administrator to set GEMINI_API_KEY.")
		return
	}

	records, err := h.Store.ListAttendance()
	if err != nil {
		http.Error(w, "Failed to list attendance", http.StatusInternalServerError)
		return
	}
	scoped := dashboard.FilterByScope(records, user.Role, user.Department, user.ID)

	var logs []store.AuditLog
	if user.Role == store.RoleSuperAdmin {
		if logs, err = h.Store.ListAuditLogs(); err != nil {
			http.Error(w, "Failed to list audit logs", http.StatusInternalServerError)
			return
		}
	}

	prompt, err := BuildPrompt(BuildDataContext(scoped, logs, user.Role, h.now()), req.Question)
	if err != nil {
		http.Error(w, "Failed to build prompt", http.StatusInternalServerError)
		return
	}

	answer, err := h.Client.GenerateContent(r.Context(), prompt)
	if err != nil {
		http.Error(w, "Insight generation failed", http.StatusBadGateway)
		return
	}
	writeAnswer(w, answer)
}

func writeAnswer(w http.ResponseWriter, answer string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(queryResponse{Answer: answer})
}
