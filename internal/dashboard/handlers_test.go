package dashboard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AttendFlow/AF-Backend/internal/dashboard"
	"github.com/AttendFlow/AF-Backend/internal/store"
	"github.com/AttendFlow/AF-Backend/internal/utils"
)

func newDashboardHandler(now time.Time) *dashboard.Handler {
	users := []store.User{
		{ID: "u1", Name: "Eleanor Rigby", Role: store.RoleSuperAdmin, Department: store.DeptAll},
		{ID: "u5", Name: "Dana Park", Role: store.RoleStudent, Department: store.DeptCS},
		{ID: "u6", Name: "Sam Reyes", Role: store.RoleStudent, Department: store.DeptEE},
	}
	records := []store.AttendanceRecord{
		record("r1", "u5", store.DeptCS, "2026-03-02", "PRESENT", at("2026-03-02", 7, 45)),
		record("r2", "u5", store.DeptCS, "2026-03-03", "LATE", at("2026-03-03", 9, 30)),
		record("r3", "u5", store.DeptCS, "2026-03-04", "ABSENT", time.Time{}),
		record("r4", "u6", store.DeptEE, "2026-03-02", "PRESENT", at("2026-03-02", 7, 50)),
		record("r5", "u6", store.DeptEE, "2026-02-10", "PRESENT", at("2026-02-10", 7, 50)),
	}
	s := store.NewMemoryStore(users, records, nil)
	return &dashboard.Handler{Store: s, Now: func() time.Time { return now }}
}

func getSummary(t *testing.T, h *dashboard.Handler, asUser, query string) dashboard.Summary {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/summary"+query, nil)
	req = req.WithContext(context.WithValue(req.Context(), utils.ContextUserIDKey, asUser))
	rec := httptest.NewRecorder()
	h.SummaryHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var summary dashboard.Summary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	return summary
}

// TestSummaryStudentPinnedToSelf verifies a student always gets their own
// individual view, even when requesting the aggregate.
func TestSummaryStudentPinnedToSelf(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	h := newDashboardHandler(now)

	summary := getSummary(t, h, "u5", "?user_id=ALL&month=2&year=2026")
	if !summary.Individual {
		t.Fatal("student summary should be individual")
	}
	if summary.Stats.Present != 1 || summary.Stats.Late != 1 || summary.Stats.Absent != 1 {
		t.Errorf("stats = %+v, want 1/1/1", summary.Stats)
	}
	if summary.Stats.Rate != 67 {
		t.Errorf("rate = %d, want 67", summary.Stats.Rate)
	}
	if len(summary.Arrival) != 2 {
		t.Errorf("arrival points = %d, want 2", len(summary.Arrival))
	}
	if len(summary.Calendar) != 31 {
		t.Errorf("calendar cells = %d, want 31 for March", len(summary.Calendar))
	}
	if summary.Departments != nil {
		t.Error("individual view should not include a department breakdown")
	}
}

// TestSummaryAggregateView checks the super-admin ALL view: current-month
// cards, department breakdown, and the month-over-month trend.
func TestSummaryAggregateView(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	h := newDashboardHandler(now)

	summary := getSummary(t, h, "u1", "?month=2&year=2026")
	if summary.Individual {
		t.Fatal("ALL summary should be aggregate")
	}
	// March: 3 present-or-late of 4 records.
	if summary.CurrentMonth.Rate != 75 {
		t.Errorf("current month rate = %d, want 75", summary.CurrentMonth.Rate)
	}
	// February: 1 of 1.
	if summary.PreviousMonth.Rate != 100 {
		t.Errorf("previous month rate = %d, want 100", summary.PreviousMonth.Rate)
	}
	if summary.TrendPercent != -25 {
		t.Errorf("trend = %d, want -25", summary.TrendPercent)
	}
	if summary.Departments[store.DeptCS] != 2 || summary.Departments[store.DeptEE] != 2 {
		t.Errorf("departments = %v, want CS 2 and EE 2", summary.Departments)
	}
}

// TestSummarySelectedUser verifies admins can slice down to one user in their
// scope.
func TestSummarySelectedUser(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	h := newDashboardHandler(now)

	summary := getSummary(t, h, "u1", "?user_id=u6&month=2&year=2026")
	if !summary.Individual {
		t.Fatal("selected-user summary should be individual")
	}
	if summary.Stats.Present != 1 || summary.Stats.Rate != 100 {
		t.Errorf("stats = %+v, want 1 present at 100%%", summary.Stats)
	}
}

// TestViewsHandler returns the full view grant map for the session user.
func TestViewsHandler(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	h := newDashboardHandler(now)

	req := httptest.NewRequest(http.MethodGet, "/views", nil)
	req = req.WithContext(context.WithValue(req.Context(), utils.ContextUserIDKey, "u5"))
	rec := httptest.NewRecorder()
	h.ViewsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var views map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&views); err != nil {
		t.Fatalf("decoding views: %v", err)
	}
	if !views[dashboard.ViewDashboard] {
		t.Error("student should access the dashboard view")
	}
	if views[dashboard.ViewAudit] {
		t.Error("student should not access the audit view")
	}
}
