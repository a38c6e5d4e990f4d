package store

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by lookups for missing users, records or sessions.
var ErrNotFound = errors.New("store: not found")

// Store is the data-access contract consumed by the handlers. It is selected
// once at process start (Postgres when DATABASE_URL is set, in-memory demo
// data otherwise) and passed in explicitly; core packages never reach for a
// global handle.
type Store interface {
	ListUsers() ([]User, error)
	FindUserByID(id string) (User, error)

	CreateAttendance(rec AttendanceRecord) error
	// UpdateAttendance sets the record's check-out time; all other fields are
	// immutable after creation.
	UpdateAttendance(rec AttendanceRecord) error
	// ListAttendance returns all records ordered by check-in time descending.
	ListAttendance() ([]AttendanceRecord, error)
	// ListAttendanceByDepartments narrows to the given departments, same order.
	ListAttendanceByDepartments(departments []string) ([]AttendanceRecord, error)
	// LatestForUserDate returns the most recent record for (userID, date), or
	// ErrNotFound. This is the "is there already a record today" lookup the
	// check-in engine is fed with.
	LatestForUserDate(userID, date string) (AttendanceRecord, error)

	AppendAuditLog(entry AuditLog) error
	// ListAuditLogs returns entries ordered by timestamp descending.
	ListAuditLogs() ([]AuditLog, error)

	CreateSession(s Session) error
	FindSessionByID(id string) (Session, error)
	DeleteSession(id string) error

	// Subscribe registers a callback invoked after every attendance create or
	// update. The returned function unsubscribes.
	Subscribe(fn func(AttendanceRecord)) (unsubscribe func())
}

// broadcaster fans attendance mutations out to subscribers. Both store
// implementations embed it; callbacks run synchronously on the writing
// goroutine.
type broadcaster struct {
	mu   sync.Mutex
	subs map[int]func(AttendanceRecord)
	next int
}

func (b *broadcaster) Subscribe(fn func(AttendanceRecord)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]func(AttendanceRecord))
	}
	id := b.next
	b.next++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *broadcaster) publish(rec AttendanceRecord) {
	b.mu.Lock()
	fns := make([]func(AttendanceRecord), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(rec)
	}
}
