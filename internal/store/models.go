package store

import "time"

// Role values carried on users and checked by route guards.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN" // department admin
	RoleHOD        = "HOD"
	RoleTeacher    = "TEACHER"
	RoleStudent    = "STUDENT"
)

// Department display names, denormalized onto attendance records.
const (
	DeptCS  = "Computer Science"
	DeptEE  = "Electrical Engineering"
	DeptME  = "Mechanical Engineering"
	DeptBA  = "Business Administration"
	DeptAll = "All Departments"
)

type User struct {
	ID             string `gorm:"primaryKey" json:"id"`
	Name           string `json:"name"`
	Email          string `gorm:"uniqueIndex" json:"email"`
	Role           string `json:"role"`
	Department     string `json:"department"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	HashedPassword string `json:"-"`
}

type Session struct {
	SessionID string    `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"not null;unique" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
}

// Location is the coordinate pair captured at check-in time only.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// AttendanceRecord is one user-day of attendance. CheckOutTime stays nil while
// the record is open; Status is assigned at check-in and never changed by
// check-out. At most one record per (UserID, Date) is treated as active.
type AttendanceRecord struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	UserID       string     `gorm:"index:idx_attendance_user_date" json:"user_id"`
	UserName     string     `json:"user_name"`
	Department   string     `gorm:"index" json:"department"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	Location     Location   `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Date         string     `gorm:"index:idx_attendance_user_date" json:"date"` // YYYY-MM-DD local
	Status       string     `json:"status"`

	// Simulated records that the position was substituted by the demo
	// fallback rather than measured. Kept explicit on purpose.
	Simulated bool `json:"simulated"`
}

// Open reports whether the record is awaiting a check-out.
func (r AttendanceRecord) Open() bool { return r.CheckOutTime == nil }

type AuditLog struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Action      string    `json:"action"`
	PerformedBy string    `json:"performed_by"`
	Timestamp   time.Time `json:"timestamp"`
	Details     string    `json:"details"`
}

func (User) TableName() string             { return "attendflow.users" }
func (Session) TableName() string          { return "attendflow.sessions" }
func (AttendanceRecord) TableName() string { return "attendflow.attendance_records" }
func (AuditLog) TableName() string         { return "attendflow.audit_logs" }
