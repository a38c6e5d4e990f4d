package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/AttendFlow/AF-Backend/internal/store"
	"github.com/AttendFlow/AF-Backend/internal/utils"
)

// Handler serves the chart-ready view models. Now is injectable for the
// month/year defaults and the month-over-month window.
type Handler struct {
	Store store.Store
	Now   func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Summary is the full dashboard payload for one slicer selection.
type Summary struct {
	Individual bool  `json:"individual"`
	Stats      Stats `json:"stats"`

	CurrentMonth  Stats `json:"current_month"`
	PreviousMonth Stats `json:"previous_month"`
	TrendPercent  int   `json:"trend_percent"`

	Arrival     []ArrivalPoint `json:"arrival,omitempty"`
	Calendar    []CalendarCell `json:"calendar,omitempty"`
	Departments map[string]int `json:"departments,omitempty"`
}

// SummaryHandler computes the dashboard for the session user and the
// user/month/year query slicers. Students are always pinned to their own
// individual view.
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
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

	now := h.now()
	sel := Selection{
		UserID: ScopeAll,
		Month:  int(now.Month()) - 1,
		Year:   now.Year(),
	}
	if v := r.URL.Query().Get("user_id"); v != "" {
		sel.UserID = v
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 0 && m <= 11 {
			sel.Month = m
		}
	}
	if v := r.URL.Query().Get("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			sel.Year = y
		}
	}
	if user.Role == store.RoleStudent {
		sel.UserID = user.ID
	}

	records, err := h.Store.ListAttendance()
	if err != nil {
		http.Error(w, "Failed to list attendance", http.StatusInternalServerError)
		return
	}
	scoped := FilterByScope(records, user.Role, user.Department, user.ID)

	individual := sel.UserID != ScopeAll
	selected := FilterBySelection(scoped, sel)

	currentIdx := int(now.Month()) - 1
	previousIdx := (currentIdx + 11) % 12
	current, previous := MonthOverMonth(scoped, currentIdx, previousIdx)

	summary := Summary{
		Individual:    individual,
		CurrentMonth:  current,
		PreviousMonth: previous,
		TrendPercent:  current.Rate - previous.Rate,
	}

	if individual {
		summary.Stats = ComputeStats(selected)
		summary.Arrival = ArrivalTimeSeries(selected)
		summary.Calendar = CalendarCells(selected, sel.Month, sel.Year)
	} else {
		// Aggregate cards mirror the current-month subset.
		summary.Stats = current
		summary.Departments = DepartmentBreakdown(scoped)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ViewsHandler returns which client views the session user may open, driven
// by the declarative role table.
func (h *Handler) ViewsHandler(w http.ResponseWriter, r *http.Request) {
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

	views := map[string]bool{}
	for view := range viewRoles {
		views[view] = CanAccessView(user.Role, view)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}
