package store

import (
	"sort"
	"sync"
)

// MemoryStore is the fallback data layer used when no DATABASE_URL is
// configured. It serves a seeded demo dataset and keeps all mutations
// in-process, mirroring the Postgres store's ordering guarantees.
type MemoryStore struct {
	broadcaster

	mu      sync.RWMutex
	users   []User
	records []AttendanceRecord
	logs    []AuditLog
	session map[string]Session // keyed by session ID
}

func NewMemoryStore(users []User, records []AttendanceRecord, logs []AuditLog) *MemoryStore {
	return &MemoryStore{
		users:   append([]User(nil), users...),
		records: append([]AttendanceRecord(nil), records...),
		logs:    append([]AuditLog(nil), logs...),
		session: make(map[string]Session),
	}
}

func (s *MemoryStore) ListUsers() ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := append([]User(nil), s.users...)
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (s *MemoryStore) FindUserByID(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *MemoryStore) CreateAttendance(rec AttendanceRecord) error {
	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	s.publish(rec)
	return nil
}

func (s *MemoryStore) UpdateAttendance(rec AttendanceRecord) error {
	s.mu.Lock()
	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i].CheckOutTime = rec.CheckOutTime
			rec = s.records[i]
			break
		}
	}
	s.mu.Unlock()

	s.publish(rec)
	return nil
}

func (s *MemoryStore) ListAttendance() ([]AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByCheckInDesc(s.records), nil
}

func (s *MemoryStore) ListAttendanceByDepartments(departments []string) ([]AttendanceRecord, error) {
	want := make(map[string]struct{}, len(departments))
	for _, d := range departments {
		want[d] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []AttendanceRecord
	for _, r := range s.records {
		if _, ok := want[r.Department]; ok {
			out = append(out, r)
		}
	}
	return sortedByCheckInDesc(out), nil
}

func (s *MemoryStore) LatestForUserDate(userID, date string) (AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *AttendanceRecord
	for i := range s.records {
		r := s.records[i]
		if r.UserID != userID || r.Date != date {
			continue
		}
		if found == nil || r.CheckInTime.After(found.CheckInTime) {
			found = &r
		}
	}
	if found == nil {
		return AttendanceRecord{}, ErrNotFound
	}
	return *found, nil
}

func (s *MemoryStore) AppendAuditLog(entry AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	return nil
}

func (s *MemoryStore) ListAuditLogs() ([]AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := append([]AuditLog(nil), s.logs...)
	sort.Slice(logs, func(i, j int) bool { return logs[i].Timestamp.After(logs[j].Timestamp) })
	return logs, nil
}

func (s *MemoryStore) CreateSession(session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// One session per user.
	for id, existing := range s.session {
		if existing.UserID == session.UserID {
			delete(s.session, id)
		}
	}
	s.session[session.SessionID] = session
	return nil
}

func (s *MemoryStore) FindSessionByID(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.session[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (s *MemoryStore) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.session, id)
	return nil
}

func sortedByCheckInDesc(records []AttendanceRecord) []AttendanceRecord {
	out := append([]AttendanceRecord(nil), records...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CheckInTime.After(out[j].CheckInTime)
	})
	return out
}
