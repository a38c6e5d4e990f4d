package audit

import (
	"encoding/json"
	"net/http"

	"github.com/AttendFlow/AF-Backend/internal/store"
)

// Handler serves the audit trail. Listing is super-admin only; writes happen
// through the store from whichever handler performed the action.
type Handler struct {
	Store store.Store
}

// ListHandler returns all audit entries, newest first.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Store.ListAuditLogs()
	if err != nil {
		http.Error(w, "Failed to list audit logs", http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []store.AuditLog{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(logs); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
