package geofence

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrInvalidReading marks a malformed coordinate pair; callers must not
	// persist anything derived from it.
	ErrInvalidReading = errors.New("invalid position reading")

	// ErrAlreadyCompleted signals a check-in attempt after today's record has
	// both timestamps set. The day is terminal; the UI renders a no-op state.
	ErrAlreadyCompleted = errors.New("attendance already completed for today")
)

// Status of an attendance record, assigned at check-in and never changed by
// check-out.
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusLate    Status = "LATE"
	StatusAbsent  Status = "ABSENT"
)

// Position is a latitude/longitude pair in degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the position is a usable coordinate pair.
func (p Position) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

const earthRadiusMeters = 6371000

// Distance returns the great-circle distance in meters between two points
// using the haversine formula. Identical points yield exactly 0.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	// Clamp guards against a drifting past 1 for near-antipodal points,
	// which would make Sqrt(1-a) NaN.
	if a > 1 {
		a = 1
	}

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// Evaluation is the outcome of checking a reading against the fence.
type Evaluation struct {
	Position       Position `json:"position"`
	DistanceMeters float64  `json:"distance_meters"`
	WithinBounds   bool     `json:"within_bounds"`

	// Simulated is true when no real in-bounds reading was available and the
	// fence center was substituted. The caller must disclose it.
	Simulated bool `json:"simulated"`
}

// EvaluatePosition decides whether a reading satisfies the campus fence.
// A nil reading (no positioning capability, permission denied, timeout) or a
// reading outside the radius falls back to a simulated success at the fence
// center so a live demo never dead-ends; the Simulated flag records that the
// position was substituted rather than measured. A malformed reading is the
// one hard failure.
func EvaluatePosition(reading *Position, cfg Config) (Evaluation, error) {
	if reading == nil {
		return simulated(cfg), nil
	}
	if !reading.Valid() {
		return Evaluation{}, ErrInvalidReading
	}

	dist := Distance(reading.Lat, reading.Lng, cfg.Lat, cfg.Lng)
	if dist > cfg.RadiusMeters {
		return simulated(cfg), nil
	}

	return Evaluation{
		Position:       *reading,
		DistanceMeters: dist,
		WithinBounds:   true,
	}, nil
}

func simulated(cfg Config) Evaluation {
	return Evaluation{
		Position:     Position{Lat: cfg.Lat, Lng: cfg.Lng},
		WithinBounds: true,
		Simulated:    true,
	}
}

// Identity carries the denormalized user fields stamped onto new records.
type Identity struct {
	UserID     string
	UserName   string
	Department string
}

// RecordState is the caller-supplied view of the user's most recent record
// for today, if any. The engine never queries storage itself.
type RecordState struct {
	ID          string
	Date        string // YYYY-MM-DD local
	HasCheckOut bool
}

// MutationKind distinguishes the two intents the engine can emit.
type MutationKind int

const (
	MutationCreate MutationKind = iota
	MutationCheckOut
)

// Mutation is the intent object returned by CheckInOrOut. Persistence, audit
// logging and broadcast are external concerns.
type Mutation struct {
	Kind MutationKind

	// Create fields.
	User        Identity
	Status      Status
	CheckInTime time.Time
	Position    Position
	Simulated   bool
	Date        string

	// CheckOut fields.
	RecordID     string
	CheckOutTime time.Time
}

// IsLate reports whether t is past the configured punctuality cutoff.
func (cfg Config) IsLate(t time.Time) bool {
	cutoff := time.Date(t.Year(), t.Month(), t.Day(), cfg.LateCutoffHour, cfg.LateCutoffMinute, 0, 0, t.Location())
	return t.After(cutoff)
}

// DateKey formats t as the YYYY-MM-DD partition key records are grouped by.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// CheckInOrOut runs the per-user per-day state machine:
//
//	NO_RECORD -> OPEN   (create, PRESENT or LATE by cutoff, no checkout)
//	OPEN      -> CLOSED (set CheckOutTime on the existing record)
//	CLOSED    -> rejected with ErrAlreadyCompleted
//
// A record from a previous day is treated as NO_RECORD for today.
func CheckInOrOut(user Identity, existing *RecordState, eval Evaluation, cfg Config, now time.Time) (Mutation, error) {
	today := DateKey(now)

	if existing != nil && existing.Date == today {
		if existing.HasCheckOut {
			return Mutation{}, ErrAlreadyCompleted
		}
		return Mutation{
			Kind:         MutationCheckOut,
			RecordID:     existing.ID,
			CheckOutTime: now,
		}, nil
	}

	status := StatusPresent
	if cfg.IsLate(now) {
		status = StatusLate
	}

	return Mutation{
		Kind:        MutationCreate,
		User:        user,
		Status:      status,
		CheckInTime: now,
		Position:    eval.Position,
		Simulated:   eval.Simulated,
		Date:        today,
	}, nil
}
