package geofence_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/AttendFlow/AF-Backend/internal/geofence"
)

var testCfg = geofence.Config{
	Name:             "Main Campus",
	Lat:              37.7749,
	Lng:              -122.4194,
	RadiusMeters:     2000,
	LateCutoffHour:   8,
	LateCutoffMinute: 0,
}

// pointAtMeters returns a coordinate the given number of meters due north of
// the fence center, using the same sphere radius as the engine.
func pointAtMeters(cfg geofence.Config, meters float64) geofence.Position {
	dLat := (meters / 6371000) * (180 / math.Pi)
	return geofence.Position{Lat: cfg.Lat + dLat, Lng: cfg.Lng}
}

// TestDistance_IdenticalPoints verifies distance(p, p) == 0 with no NaN.
func TestDistance_IdenticalPoints(t *testing.T) {
	points := []geofence.Position{
		{Lat: 0, Lng: 0},
		{Lat: 37.7749, Lng: -122.4194},
		{Lat: -89.9, Lng: 179.9},
	}
	for _, p := range points {
		d := geofence.Distance(p.Lat, p.Lng, p.Lat, p.Lng)
		if d != 0 {
			t.Errorf("distance(%v, %v) to itself = %v, want 0", p.Lat, p.Lng, d)
		}
	}
}

// TestDistance_Symmetry verifies distance(a, b) == distance(b, a).
func TestDistance_Symmetry(t *testing.T) {
	a := geofence.Position{Lat: 37.7749, Lng: -122.4194}
	b := geofence.Position{Lat: 40.7128, Lng: -74.0060}

	ab := geofence.Distance(a.Lat, a.Lng, b.Lat, b.Lng)
	ba := geofence.Distance(b.Lat, b.Lng, a.Lat, a.Lng)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: ab=%v ba=%v", ab, ba)
	}
	if ab < 4_000_000 || ab > 4_300_000 {
		t.Errorf("SF->NYC distance = %v m, expected roughly 4.13e6 m", ab)
	}
}

// TestDistance_Antipodal verifies antipodal points produce a finite distance,
// not NaN from floating point drift past a == 1.
func TestDistance_Antipodal(t *testing.T) {
	d := geofence.Distance(90, 0, -90, 0)
	if math.IsNaN(d) {
		t.Fatal("antipodal distance is NaN")
	}
	// Half the Earth's circumference at R = 6,371,000 m.
	want := math.Pi * 6371000
	if math.Abs(d-want) > 1000 {
		t.Errorf("antipodal distance = %v, want ~%v", d, want)
	}
}

// TestEvaluatePosition_RadiusBoundary verifies a point just inside the radius
// is a real in-bounds evaluation and one meter beyond falls back to the
// simulated path.
func TestEvaluatePosition_RadiusBoundary(t *testing.T) {
	nearRadius := pointAtMeters(testCfg, testCfg.RadiusMeters-1)
	eval, err := geofence.EvaluatePosition(&nearRadius, testCfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eval.WithinBounds || eval.Simulated {
		t.Errorf("near-radius point: got within=%v simulated=%v, want within=true simulated=false",
			eval.WithinBounds, eval.Simulated)
	}
	if math.Abs(eval.DistanceMeters-(testCfg.RadiusMeters-1)) > 0.5 {
		t.Errorf("near-radius distance = %v, want ~%v", eval.DistanceMeters, testCfg.RadiusMeters-1)
	}

	beyond := pointAtMeters(testCfg, testCfg.RadiusMeters+1)
	eval, err = geofence.EvaluatePosition(&beyond, testCfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eval.Simulated {
		t.Error("out-of-range point should fall back to the simulated path")
	}
	if eval.Position.Lat != testCfg.Lat || eval.Position.Lng != testCfg.Lng {
		t.Errorf("simulated position = %v, want fence center", eval.Position)
	}
}

// TestEvaluatePosition_NilReading verifies an unavailable position takes the
// simulated fallback rather than failing.
func TestEvaluatePosition_NilReading(t *testing.T) {
	eval, err := geofence.EvaluatePosition(nil, testCfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eval.Simulated || !eval.WithinBounds {
		t.Errorf("nil reading: got within=%v simulated=%v, want both true", eval.WithinBounds, eval.Simulated)
	}
}

// TestEvaluatePosition_InvalidReading verifies malformed coordinates are the
// one hard failure.
func TestEvaluatePosition_InvalidReading(t *testing.T) {
	bad := []geofence.Position{
		{Lat: math.NaN(), Lng: 0},
		{Lat: 0, Lng: math.Inf(1)},
		{Lat: 91, Lng: 0},
		{Lat: 0, Lng: -181},
	}
	for _, p := range bad {
		if _, err := geofence.EvaluatePosition(&p, testCfg); !errors.Is(err, geofence.ErrInvalidReading) {
			t.Errorf("EvaluatePosition(%+v) error = %v, want ErrInvalidReading", p, err)
		}
	}
}

func onCampusEval() geofence.Evaluation {
	return geofence.Evaluation{
		Position:     geofence.Position{Lat: testCfg.Lat, Lng: testCfg.Lng},
		WithinBounds: true,
	}
}

var testUser = geofence.Identity{UserID: "u9", UserName: "Dana Cruz", Department: "Computer Science"}

// TestCheckInOrOut_NewRecordOnTime verifies the NO_RECORD -> OPEN transition
// before the cutoff yields a PRESENT creation with no checkout.
func TestCheckInOrOut_NewRecordOnTime(t *testing.T) {
	now := time.Date(2024, 3, 4, 7, 45, 0, 0, time.UTC)

	mut, err := geofence.CheckInOrOut(testUser, nil, onCampusEval(), testCfg, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mut.Kind != geofence.MutationCreate {
		t.Fatalf("kind = %v, want MutationCreate", mut.Kind)
	}
	if mut.Status != geofence.StatusPresent {
		t.Errorf("status = %q, want PRESENT", mut.Status)
	}
	if mut.Date != "2024-03-04" {
		t.Errorf("date = %q, want 2024-03-04", mut.Date)
	}
	if !mut.CheckInTime.Equal(now) {
		t.Errorf("check-in time = %v, want %v", mut.CheckInTime, now)
	}
	if !mut.CheckOutTime.IsZero() {
		t.Error("creation must not carry a checkout time")
	}
}

// TestCheckInOrOut_LateCutoff verifies the status flips to LATE strictly past
// the cutoff; a check-in exactly at 08:00 is still PRESENT.
func TestCheckInOrOut_LateCutoff(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want geofence.Status
	}{
		{"just before cutoff", time.Date(2024, 3, 4, 7, 59, 59, 0, time.UTC), geofence.StatusPresent},
		{"exactly at cutoff", time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), geofence.StatusPresent},
		{"past cutoff", time.Date(2024, 3, 4, 8, 0, 1, 0, time.UTC), geofence.StatusLate},
		{"mid-morning", time.Date(2024, 3, 4, 9, 15, 0, 0, time.UTC), geofence.StatusLate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mut, err := geofence.CheckInOrOut(testUser, nil, onCampusEval(), testCfg, tc.now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mut.Status != tc.want {
				t.Errorf("status = %q, want %q", mut.Status, tc.want)
			}
		})
	}
}

// TestCheckInOrOut_OpenRecord verifies the OPEN -> CLOSED transition targets
// the existing record by ID and touches nothing else.
func TestCheckInOrOut_OpenRecord(t *testing.T) {
	now := time.Date(2024, 3, 4, 17, 2, 0, 0, time.UTC)
	existing := &geofence.RecordState{ID: "rec-1", Date: "2024-03-04", HasCheckOut: false}

	mut, err := geofence.CheckInOrOut(testUser, existing, onCampusEval(), testCfg, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mut.Kind != geofence.MutationCheckOut {
		t.Fatalf("kind = %v, want MutationCheckOut", mut.Kind)
	}
	if mut.RecordID != "rec-1" {
		t.Errorf("record ID = %q, want rec-1", mut.RecordID)
	}
	if !mut.CheckOutTime.Equal(now) {
		t.Errorf("checkout time = %v, want %v", mut.CheckOutTime, now)
	}
	if mut.Status != "" || !mut.CheckInTime.IsZero() {
		t.Error("checkout mutation must not carry creation fields")
	}
}

// TestCheckInOrOut_AlreadyCompleted verifies a closed record for today is
// terminal.
func TestCheckInOrOut_AlreadyCompleted(t *testing.T) {
	now := time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)
	existing := &geofence.RecordState{ID: "rec-1", Date: "2024-03-04", HasCheckOut: true}

	_, err := geofence.CheckInOrOut(testUser, existing, onCampusEval(), testCfg, now)
	if !errors.Is(err, geofence.ErrAlreadyCompleted) {
		t.Errorf("error = %v, want ErrAlreadyCompleted", err)
	}
}

// TestCheckInOrOut_StaleRecord verifies yesterday's record does not block a
// fresh check-in today.
func TestCheckInOrOut_StaleRecord(t *testing.T) {
	now := time.Date(2024, 3, 5, 7, 30, 0, 0, time.UTC)
	existing := &geofence.RecordState{ID: "rec-1", Date: "2024-03-04", HasCheckOut: true}

	mut, err := geofence.CheckInOrOut(testUser, existing, onCampusEval(), testCfg, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mut.Kind != geofence.MutationCreate {
		t.Errorf("kind = %v, want MutationCreate for a new day", mut.Kind)
	}
}
