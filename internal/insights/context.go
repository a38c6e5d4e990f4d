package insights

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/AttendFlow/AF-Backend/internal/dashboard"
	"github.com/AttendFlow/AF-Backend/internal/store"
)

const (
	maxSampleRecords = 30
	maxRecentLogs    = 10
)

// WindowStats summarizes one rolling time window of attendance records.
type WindowStats struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
	Rate    int `json:"rate"`
}

// DataContext is the structured snapshot serialized into the model prompt.
// It carries only records the asking user is allowed to see.
type DataContext struct {
	GeneratedAt time.Time `json:"generated_at"`
	ViewerRole  string    `json:"viewer_role"`

	Today  WindowStats `json:"today"`
	Last7  WindowStats `json:"last_7_days"`
	Last30 WindowStats `json:"last_30_days"`

	Departments   map[string]int           `json:"department_breakdown"`
	SampleRecords []store.AttendanceRecord `json:"sample_records"`
	RecentLogs    []store.AuditLog         `json:"recent_logs,omitempty"`
}

func windowStats(records []store.AttendanceRecord) WindowStats {
	s := dashboard.ComputeStats(records)
	return WindowStats{
		Total:   len(records),
		Present: s.Present,
		Late:    s.Late,
		Absent:  s.Absent,
		Rate:    s.Rate,
	}
}

// inWindow keeps records whose date falls in (now-days, now], inclusive of
// today. Unparsable dates are skipped.
func inWindow(records []store.AttendanceRecord, now time.Time, days int) []store.AttendanceRecord {
	cutoff := now.AddDate(0, 0, -days).Format("2006-01-02")
	today := now.Format("2006-01-02")
	out := []store.AttendanceRecord{}
	for _, r := range records {
		if r.Date > cutoff && r.Date <= today {
			out = append(out, r)
		}
	}
	return out
}

// BuildDataContext assembles the prompt snapshot from already-scoped records.
// Logs are included only for super admins, matching the audit view guard.
func BuildDataContext(records []store.AttendanceRecord, logs []store.AuditLog, viewerRole string, now time.Time) DataContext {
	todays := inWindow(records, now, 1)

	ctx := DataContext{
		GeneratedAt: now,
		ViewerRole:  viewerRole,
		Today:       windowStats(todays),
		Last7:       windowStats(inWindow(records, now, 7)),
		Last30:      windowStats(inWindow(records, now, 30)),
		Departments: dashboard.DepartmentBreakdown(records),
	}

	sample := inWindow(records, now, 30)
	if len(sample) > maxSampleRecords {
		sample = sample[:maxSampleRecords]
	}
	ctx.SampleRecords = sample

	if viewerRole == store.RoleSuperAdmin {
		if len(logs) > maxRecentLogs {
			logs = logs[:maxRecentLogs]
		}
		ctx.RecentLogs = logs
	}
	return ctx
}

// BuildPrompt renders the final prompt: instructions, the JSON snapshot, and
// the user's question.
func BuildPrompt(dc DataContext, question string) (string, error) {
	snapshot, err := json.MarshalIndent(dc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding data context: %w", err)
	}
	return fmt.Sprintf(`You are an attendance analytics assistant for a campus dashboard.
Answer the question using only the JSON snapshot below. Be concise and
concrete: cite counts and percentages from the data. If the snapshot does not
contain enough information to answer, say so plainly.

Attendance snapshot:
%s

Question: %s`, snapshot, question), nil
}
