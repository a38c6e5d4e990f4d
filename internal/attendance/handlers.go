package attendance

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/AttendFlow/AF-Backend/internal/geofence"
	"github.com/AttendFlow/AF-Backend/internal/store"
	"github.com/AttendFlow/AF-Backend/internal/utils"
	"github.com/google/uuid"
)

// Handler wires the check-in engine to the data store. Now is injectable so
// the cutoff and date-partition logic can be tested at fixed instants.
type Handler struct {
	Store store.Store
	Fence geofence.Config
	Now   func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type checkInRequest struct {
	Position *geofence.Position `json:"position"`
}

type checkInResponse struct {
	Record         store.AttendanceRecord `json:"record"`
	Action         string                 `json:"action"` // CHECK_IN or CHECK_OUT
	Simulated      bool                   `json:"simulated"`
	DistanceMeters float64                `json:"distance_meters"`
}

// CheckInHandler runs one check-in/check-out action for the session user:
// evaluate the position against the fence, feed today's record state through
// the engine, persist the resulting mutation, audit-log it.
func (h *Handler) CheckInHandler(w http.ResponseWriter, r *http.Request) {
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

	// An empty body means "no position available" and takes the simulated
	// fallback; anything else malformed is a bad request.
	var input checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	eval, err := geofence.EvaluatePosition(input.Position, h.Fence)
	if errors.Is(err, geofence.ErrInvalidReading) {
		http.Error(w, "Invalid position reading", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Failed to evaluate position", http.StatusInternalServerError)
		return
	}

	now := h.now()
	today := geofence.DateKey(now)

	var existing *geofence.RecordState
	var existingRec store.AttendanceRecord
	existingRec, err = h.Store.LatestForUserDate(user.ID, today)
	switch {
	case err == nil:
		existing = &geofence.RecordState{
			ID:          existingRec.ID,
			Date:        existingRec.Date,
			HasCheckOut: !existingRec.Open(),
		}
	case errors.Is(err, store.ErrNotFound):
		// First action of the day.
	default:
		http.Error(w, "Failed to look up today's record", http.StatusInternalServerError)
		return
	}

	identity := geofence.Identity{UserID: user.ID, UserName: user.Name, Department: user.Department}
	mut, err := geofence.CheckInOrOut(identity, existing, eval, h.Fence, now)
	if errors.Is(err, geofence.ErrAlreadyCompleted) {
		http.Error(w, "Attendance already completed for today", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "Check-in failed", http.StatusInternalServerError)
		return
	}

	resp := checkInResponse{Simulated: eval.Simulated, DistanceMeters: eval.DistanceMeters}

	switch mut.Kind {
	case geofence.MutationCreate:
		rec := store.AttendanceRecord{
			ID:          uuid.NewString(),
			UserID:      mut.User.UserID,
			UserName:    mut.User.UserName,
			Department:  mut.User.Department,
			CheckInTime: mut.CheckInTime,
			Location:    store.Location{Lat: mut.Position.Lat, Lng: mut.Position.Lng},
			Date:        mut.Date,
			Status:      string(mut.Status),
			Simulated:   mut.Simulated,
		}
		if err := h.Store.CreateAttendance(rec); err != nil {
			http.Error(w, "Failed to save attendance", http.StatusInternalServerError)
			return
		}
		h.appendAudit(user.Name, "ATTENDANCE_CHECKIN",
			fmt.Sprintf("Check-in at %v, %v", rec.Location.Lat, rec.Location.Lng), now)

		resp.Record = rec
		resp.Action = "CHECK_IN"

	case geofence.MutationCheckOut:
		checkOut := mut.CheckOutTime
		existingRec.CheckOutTime = &checkOut
		if err := h.Store.UpdateAttendance(existingRec); err != nil {
			http.Error(w, "Failed to save attendance", http.StatusInternalServerError)
			return
		}
		h.appendAudit(user.Name, "ATTENDANCE_CHECKOUT",
			fmt.Sprintf("Check-out at %s", checkOut.Format(time.Kitchen)), now)

		resp.Record = existingRec
		resp.Action = "CHECK_OUT"
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) appendAudit(performedBy, action, details string, now time.Time) {
	// Audit failures are logged by the store; they never fail the check-in.
	_ = h.Store.AppendAuditLog(store.AuditLog{
		ID:          uuid.NewString(),
		Action:      action,
		PerformedBy: performedBy,
		Timestamp:   now,
		Details:     details,
	})
}

// visibleRecords applies role scoping: students see their own records,
// department roles see their department, super admins see everything.
func (h *Handler) visibleRecords(user store.User) ([]store.AttendanceRecord, error) {
	switch user.Role {
	case store.RoleStudent:
		all, err := h.Store.ListAttendance()
		if err != nil {
			return nil, err
		}
		var own []store.AttendanceRecord
		for _, r := range all {
			if r.UserID == user.ID {
				own = append(own, r)
			}
		}
		return own, nil
	case store.RoleTeacher, store.RoleAdmin, store.RoleHOD:
		return h.Store.ListAttendanceByDepartments([]string{user.Department})
	default:
		return h.Store.ListAttendance()
	}
}

func (h *Handler) sessionUser(r *http.Request) (store.User, error) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return store.User{}, errors.New("missing user ID in context")
	}
	return h.Store.FindUserByID(userID)
}

// ListHandler returns the session user's visible records, check-in time
// descending.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := h.visibleRecords(user)
	if err != nil {
		http.Error(w, "Failed to list attendance", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []store.AttendanceRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ExportCSVHandler streams the visible records as a CSV report, same column
// set the web client's export produced.
func (h *Handler) ExportCSVHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := h.visibleRecords(user)
	if err != nil {
		http.Error(w, "Failed to list attendance", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("AttendFlow_Attendance_Report_%s.csv", geofence.DateKey(h.now()))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"User", "Department", "Date", "Status", "Check In", "Check Out", "Latitude", "Longitude"})
	for _, rec := range records {
		checkOut := ""
		if rec.CheckOutTime != nil {
			checkOut = rec.CheckOutTime.Format(time.RFC3339)
		}
		_ = cw.Write([]string{
			rec.UserName,
			rec.Department,
			rec.Date,
			rec.Status,
			rec.CheckInTime.Format(time.RFC3339),
			checkOut,
			strconv.FormatFloat(rec.Location.Lat, 'f', -1, 64),
			strconv.FormatFloat(rec.Location.Lng, 'f', -1, 64),
		})
	}
	cw.Flush()
}
