package store

import (
	"errors"
	"fmt"
	"log"

	"github.com/AttendFlow/AF-Backend/internal/db"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormStore persists through Postgres via the shared GORM handle.
type GormStore struct {
	broadcaster
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Init ensures the attendflow schema and tables exist. Fatal on failure,
// matching the startup behavior of the other feature packages.
func Init(d *gorm.DB) {
	if err := db.EnsureSchema(d, "attendflow"); err != nil {
		log.Fatal("Failed to ensure schema attendflow: ", err)
	}
	if err := d.AutoMigrate(&User{}, &Session{}, &AttendanceRecord{}, &AuditLog{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}

func (s *GormStore) ListUsers() ([]User, error) {
	var users []User
	if err := s.db.Order("name asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *GormStore) FindUserByID(id string) (User, error) {
	var user User
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *GormStore) CreateAttendance(rec AttendanceRecord) error {
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	s.publish(rec)
	return nil
}

func (s *GormStore) UpdateAttendance(rec AttendanceRecord) error {
	err := s.db.Model(&AttendanceRecord{ID: rec.ID}).
		Update("check_out_time", rec.CheckOutTime).Error
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	s.publish(rec)
	return nil
}

func (s *GormStore) ListAttendance() ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	if err := s.db.Order("check_in_time desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

func (s *GormStore) ListAttendanceByDepartments(departments []string) ([]AttendanceRecord, error) {
	if len(departments) == 0 {
		return []AttendanceRecord{}, nil
	}

	var records []AttendanceRecord
	err := s.db.Raw(`
		SELECT * FROM attendflow.attendance_records
		WHERE department = ANY(?)
		ORDER BY check_in_time DESC
	`, pq.Array(departments)).Scan(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list attendance by departments: %w", err)
	}
	return records, nil
}

func (s *GormStore) LatestForUserDate(userID, date string) (AttendanceRecord, error) {
	var rec AttendanceRecord
	err := s.db.Where("user_id = ? AND date = ?", userID, date).
		Order("check_in_time desc").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceRecord{}, ErrNotFound
	}
	if err != nil {
		return AttendanceRecord{}, fmt.Errorf("latest attendance for user/date: %w", err)
	}
	return rec, nil
}

func (s *GormStore) AppendAuditLog(entry AuditLog) error {
	if err := s.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

func (s *GormStore) ListAuditLogs() ([]AuditLog, error) {
	var logs []AuditLog
	if err := s.db.Order("timestamp desc").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

func (s *GormStore) CreateSession(session Session) error {
	// One session per user: replace any existing row.
	var existing Session
	err := s.db.Where("user_id = ?", session.UserID).First(&existing).Error
	if err == nil {
		return s.db.Model(&existing).Updates(Session{
			SessionID: session.SessionID,
			ExpiresAt: session.ExpiresAt,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find existing session: %w", err)
	}
	if err := s.db.Create(&session).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *GormStore) FindSessionByID(id string) (Session, error) {
	var session Session
	err := s.db.First(&session, "session_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("find session: %w", err)
	}
	return session, nil
}

func (s *GormStore) DeleteSession(id string) error {
	if err := s.db.Where("session_id = ?", id).Delete(&Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
