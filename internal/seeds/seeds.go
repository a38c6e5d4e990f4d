package seeds

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/AttendFlow/AF-Backend/internal/geofence"
	"github.com/AttendFlow/AF-Backend/internal/store"
)

// Department sizes for the demo roster. Bigger departments contribute
// proportionally more records to the aggregate charts.
var deptSizes = []struct {
	Code string
	Name string
	Size int
}{
	{"CS", store.DeptCS, 25},
	{"EE", store.DeptEE, 15},
	{"ME", store.DeptME, 10},
	{"BA", store.DeptBA, 8},
}

var firstNames = []string{
	"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Avery", "Quinn", "Sage", "River",
	"Emma", "Liam", "Olivia", "Noah", "Ava", "Ethan", "Sophia", "Mason", "Isabella", "Lucas",
	"Mia", "Jackson", "Charlotte", "Aiden", "Amelia", "Caden", "Harper", "Logan", "Evelyn", "Maya",
	"James", "Benjamin", "Henry", "Alexander", "Michael", "Daniel", "Matthew", "David", "Joseph", "William",
	"Emily", "Madison", "Abigail", "Chloe", "Elizabeth", "Samantha", "Grace", "Natalie", "Victoria", "Hannah",
	"Ryan", "Tyler", "Brandon", "Jake", "Connor", "Nathan", "Dylan", "Cameron", "Hunter", "Zachary",
	"Jessica", "Ashley", "Brittany", "Amanda", "Melissa", "Nicole", "Stephanie", "Rachel", "Lauren", "Michelle",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
	"Hernandez", "Lopez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee",
	"Thompson", "White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker", "Young",
	"Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores", "Green", "Adams",
	"Nelson", "Baker", "Hall", "Rivera", "Campbell", "Mitchell", "Carter", "Roberts", "Gomez", "Phillips",
	"Evans", "Turner", "Diaz", "Parker", "Cruz", "Edwards", "Collins", "Reyes", "Stewart", "Morris",
}

// studentName derives a stable name from the student's ordinal, so the same
// roster slot always gets the same name.
func studentName(ordinal int) string {
	first := firstNames[ordinal%len(firstNames)]
	last := lastNames[(ordinal*7)%len(lastNames)]
	return first + " " + last
}

// Staff accounts present on every seeded install. Passwords are unset; the
// demo login trusts the picked identity.
func staffUsers() []store.User {
	return []store.User{
		{ID: "u1", Name: "Eleanor Rigby", Email: "super@attendflow.edu", Role: store.RoleSuperAdmin, Department: store.DeptAll},
		{ID: "u2", Name: "John Doe", Email: "admin.cs@attendflow.edu", Role: store.RoleAdmin, Department: store.DeptCS},
		{ID: "u3", Name: "Sarah Smith", Email: "hod.cs@attendflow.edu", Role: store.RoleHOD, Department: store.DeptCS},
		{ID: "u4", Name: "Mike Ross", Email: "teacher.cs@attendflow.edu", Role: store.RoleTeacher, Department: store.DeptCS},
	}
}

const historyDays = 60

// Generate builds the full demo dataset anchored at "now": the fixed staff
// accounts, a student roster per department, and roughly 60 weekdays of
// attendance history per student. The same now yields the same dataset, so
// repeated in-memory startups look identical.
func Generate(now time.Time, fence geofence.Config) ([]store.User, []store.AttendanceRecord, []store.AuditLog) {
	rng := rand.New(rand.NewSource(now.Truncate(24 * time.Hour).Unix()))

	users := staffUsers()
	records := []store.AttendanceRecord{}

	ordinal := 0
	for _, dept := range deptSizes {
		for s := 1; s <= dept.Size; s++ {
			ordinal++
			name := studentName(ordinal)
			userID := fmt.Sprintf("mock-%s-%d", dept.Code, s)
			users = append(users, store.User{
				ID:         userID,
				Name:       name,
				Email:      strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@attendflow.edu",
				Role:       store.RoleStudent,
				Department: dept.Name,
			})
			records = append(records, studentHistory(rng, userID, name, dept.Name, now, fence, s == 1)...)
		}
	}

	logs := []store.AuditLog{{
		ID:          "l1",
		Action:      "SYSTEM_INIT",
		PerformedBy: "System",
		Timestamp:   now.Add(-24 * time.Hour),
		Details:     "Demo dataset seeded.",
	}}

	return users, records, logs
}

// studentHistory emits one student's records for the trailing window,
// skipping weekends. The first student of each department gets no record for
// today so a live check-in can be demonstrated against a clean slate.
func studentHistory(rng *rand.Rand, userID, name, dept string, now time.Time, fence geofence.Config, firstOfDept bool) []store.AttendanceRecord {
	out := []store.AttendanceRecord{}

	for i := 0; i < historyDays; i++ {
		day := now.AddDate(0, 0, -i)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		isToday := i == 0

		status := geofence.StatusPresent
		if isToday {
			if firstOfDept {
				continue
			}
			// Half the roster hasn't arrived yet.
			if rng.Float64() > 0.5 {
				continue
			}
			if rng.Float64() > 0.9 {
				status = geofence.StatusLate
			}
		} else {
			switch r := rng.Float64(); {
			case r > 0.92:
				status = geofence.StatusAbsent
			case r > 0.80:
				status = geofence.StatusLate
			}
		}

		rec := store.AttendanceRecord{
			ID:         fmt.Sprintf("seed-%s-%s", userID, day.Format("2006-01-02")),
			UserID:     userID,
			UserName:   name,
			Department: dept,
			Date:       day.Format("2006-01-02"),
			Status:     string(status),
			Location: store.Location{
				Lat: fence.Lat + rng.Float64()*0.01,
				Lng: fence.Lng + rng.Float64()*0.01,
			},
		}

		if status == geofence.StatusAbsent {
			// Absent records keep the zero check-in time; the charts
			// exclude them from arrival plots anyway.
			rec.CheckInTime = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		} else {
			// Present arrivals land before the 08:00 cutoff, late ones
			// one to two hours after, matching the check-in engine.
			offset := -rng.Float64() * 0.5
			if status == geofence.StatusLate {
				offset = 1 + rng.Float64()
			}
			checkIn := time.Date(day.Year(), day.Month(), day.Day(), 8, 0, 0, 0, day.Location()).
				Add(time.Duration(offset * float64(time.Hour)))
			rec.CheckInTime = checkIn

			if !isToday {
				checkOut := checkIn.Add(time.Duration((8 + rng.Float64()*2 - 1) * float64(time.Hour)))
				rec.CheckOutTime = &checkOut
			}
		}

		out = append(out, rec)
	}
	return out
}
