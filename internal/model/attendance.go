package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// CheckType kind of attendance punch
type CheckType string

const (
	CheckIn  CheckType = "check-in"
	CheckOut CheckType = "check-out"
)

// AttendanceStatus derived presence for a day
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
)

// AttendanceRecord geolocation-stamped punch (table attendance_records)
// Rows are append-only: never updated, never deleted.
type AttendanceRecord struct {
	RecordID       string    `gorm:"type:char(26);primaryKey"   json:"record_id"`
	OperatorID     string    `gorm:"type:uuid;not null"         json:"operator_id"`
	EventID        string    `gorm:"type:uuid;not null"         json:"event_id"`
	Type           CheckType `gorm:"type:varchar(10);not null"  json:"type"`
	Timestamp      time.Time `gorm:"not null"                   json:"timestamp"`
	Latitude       float64   `gorm:"not null"                   json:"latitude"`
	Longitude      float64   `gorm:"not null"                   json:"longitude"`
	Accuracy       float64   `gorm:"not null"                   json:"accuracy"`
	DistanceMeters *float64  `json:"distance_meters,omitempty"`
	Attempts       int       `gorm:"type:smallint;not null;default:1" json:"attempts"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AttendanceRecord) TableName() string { return "attendance_records" }

// BeforeCreate assigns a time-ordered ULID
func (r *AttendanceRecord) BeforeCreate(_ *gorm.DB) error {
	if r.RecordID == "" {
		r.RecordID = NewRecordID(r.Timestamp)
	}
	return nil
}

// NewRecordID returns a ULID whose time component is t
func NewRecordID(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}
