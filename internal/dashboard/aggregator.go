package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/AttendFlow/AF-Backend/internal/geofence"
	"github.com/AttendFlow/AF-Backend/internal/store"
)

// ScopeAll selects the aggregate view instead of a single user.
const ScopeAll = "ALL"

// Selection is the slicer state a dashboard computation runs under. Month is
// 0-11, matching the web client's month index.
type Selection struct {
	UserID string
	Month  int
	Year   int
}

// Stats are the summary-card numbers for one record subset.
type Stats struct {
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
	Rate    int `json:"rate"`
}

// recordDate parses the YYYY-MM-DD partition key. Records with an unparsable
// date are skipped by the builders rather than failing the projection.
func recordDate(r store.AttendanceRecord) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FilterByScope narrows records to what the viewing role may see: students
// their own records, department roles their department, super admins
// everything.
func FilterByScope(records []store.AttendanceRecord, role, department, userID string) []store.AttendanceRecord {
	switch role {
	case store.RoleStudent:
		return filter(records, func(r store.AttendanceRecord) bool { return r.UserID == userID })
	case store.RoleTeacher, store.RoleAdmin, store.RoleHOD:
		return filter(records, func(r store.AttendanceRecord) bool { return r.Department == department })
	default:
		return append([]store.AttendanceRecord(nil), records...)
	}
}

// FilterBySelection applies the user/month/year slicers. A ScopeAll user ID
// skips the user narrowing.
func FilterBySelection(records []store.AttendanceRecord, sel Selection) []store.AttendanceRecord {
	return filter(records, func(r store.AttendanceRecord) bool {
		if sel.UserID != ScopeAll && r.UserID != sel.UserID {
			return false
		}
		d, ok := recordDate(r)
		if !ok {
			return false
		}
		return int(d.Month())-1 == sel.Month && d.Year() == sel.Year
	})
}

func filter(records []store.AttendanceRecord, keep func(store.AttendanceRecord) bool) []store.AttendanceRecord {
	out := []store.AttendanceRecord{}
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// StatusCounts tallies records by status.
func StatusCounts(records []store.AttendanceRecord) (present, late, absent int) {
	for _, r := range records {
		switch geofence.Status(r.Status) {
		case geofence.StatusPresent:
			present++
		case geofence.StatusLate:
			late++
		case geofence.StatusAbsent:
			absent++
		}
	}
	return present, late, absent
}

// Rate is the attendance percentage: round(100 * (present+late) / total),
// 0 for an empty subset.
func Rate(records []store.AttendanceRecord) int {
	if len(records) == 0 {
		return 0
	}
	present, late, _ := StatusCounts(records)
	return int(math.Round(float64(present+late) / float64(len(records)) * 100))
}

// ComputeStats bundles counts and rate for one subset.
func ComputeStats(records []store.AttendanceRecord) Stats {
	present, late, absent := StatusCounts(records)
	return Stats{Present: present, Late: late, Absent: absent, Rate: Rate(records)}
}

// MonthOverMonth computes independent stats for two month indices (0-11,
// matched across all years, as the aggregate trend chart always compared
// "this month" to "last month" regardless of year). Trend percentage is
// current.Rate - previous.Rate.
func MonthOverMonth(records []store.AttendanceRecord, currentIdx, previousIdx int) (current, previous Stats) {
	byMonth := func(idx int) []store.AttendanceRecord {
		return filter(records, func(r store.AttendanceRecord) bool {
			d, ok := recordDate(r)
			return ok && int(d.Month())-1 == idx
		})
	}
	return ComputeStats(byMonth(currentIdx)), ComputeStats(byMonth(previousIdx))
}

// ArrivalPoint is one plotted arrival: day of month and the check-in instant
// as a decimal hour (8.5 == 08:30).
type ArrivalPoint struct {
	Day    int     `json:"day"`
	Hour   float64 `json:"hour"`
	Status string  `json:"status"`
}

// ArrivalTimeSeries projects non-absent records into arrival points ordered
// by date ascending. Duplicate dates (an upstream integrity violation)
// collapse to the record with the most recent check-in time.
func ArrivalTimeSeries(records []store.AttendanceRecord) []ArrivalPoint {
	chosen := dedupeByDate(records)

	dates := make([]string, 0, len(chosen))
	for date := range chosen {
		dates = append(dates, date)
	}
	sort.Strings(dates) // YYYY-MM-DD sorts chronologically

	points := []ArrivalPoint{}
	for _, date := range dates {
		r := chosen[date]
		if geofence.Status(r.Status) == geofence.StatusAbsent {
			continue
		}
		d, ok := recordDate(r)
		if !ok {
			continue
		}
		points = append(points, ArrivalPoint{
			Day:    d.Day(),
			Hour:   float64(r.CheckInTime.Hour()) + float64(r.CheckInTime.Minute())/60,
			Status: r.Status,
		})
	}
	return points
}

// CalendarCell is one day of the calendar heatmap. Status is empty for days
// without a record; weekends are flagged but carry the same "no record"
// semantics.
type CalendarCell struct {
	Day     int    `json:"day"`
	Status  string `json:"status,omitempty"`
	Weekend bool   `json:"weekend"`
}

// CalendarCells returns exactly one cell per calendar day of (month 0-11,
// year), ascending. Duplicate dates collapse to the most recent check-in.
func CalendarCells(records []store.AttendanceRecord, month, year int) []CalendarCell {
	chosen := dedupeByDate(records)

	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]CalendarCell, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
		cell := CalendarCell{
			Day:     day,
			Weekend: date.Weekday() == time.Saturday || date.Weekday() == time.Sunday,
		}
		if r, ok := chosen[date.Format("2006-01-02")]; ok {
			cell.Status = r.Status
		}
		cells = append(cells, cell)
	}
	return cells
}

// DepartmentBreakdown counts non-absent records per department, for the
// aggregate leaderboard view.
func DepartmentBreakdown(records []store.AttendanceRecord) map[string]int {
	out := map[string]int{}
	for _, r := range records {
		if geofence.Status(r.Status) == geofence.StatusAbsent {
			continue
		}
		out[r.Department]++
	}
	return out
}

// dedupeByDate picks one record per date: the most recent CheckInTime, with
// the record ID as a deterministic tie-break.
func dedupeByDate(records []store.AttendanceRecord) map[string]store.AttendanceRecord {
	chosen := map[string]store.AttendanceRecord{}
	for _, r := range records {
		cur, ok := chosen[r.Date]
		if !ok {
			chosen[r.Date] = r
			continue
		}
		if r.CheckInTime.After(cur.CheckInTime) ||
			(r.CheckInTime.Equal(cur.CheckInTime) && r.ID > cur.ID) {
			chosen[r.Date] = r
		}
	}
	return chosen
}
