package dto

import (
	"time"

	"staffdesk/internal/attendance"
)

// ── Attendance ──

// ReadingRequest one client-side geolocation sample
type ReadingRequest struct {
	Latitude  float64 `json:"latitude"  binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
	Accuracy  float64 `json:"accuracy"  binding:"min=0"`
}

// CheckRequest check-in/out; the type is decided by the server. Readings are
// the samples the device took, in order.
type CheckRequest struct {
	EventID  string           `json:"event_id" binding:"required,uuid"`
	Readings []ReadingRequest `json:"readings" binding:"omitempty,max=10,dive"`
}

// AttendanceQuery list filter
type AttendanceQuery struct {
	DateRangeQuery
	EventID string `form:"event_id" binding:"omitempty,uuid"`
}

// AttendanceRecordResponse one punch
type AttendanceRecordResponse struct {
	ID             string    `json:"id"`
	OperatorID     string    `json:"operator_id"`
	EventID        string    `json:"event_id"`
	Type           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Accuracy       float64   `json:"accuracy"`
	DistanceMeters *float64  `json:"distance_meters,omitempty"`
	Attempts       int       `json:"attempts"`
}

// CheckResponse the written record and the reconciled day
type CheckResponse struct {
	Record   AttendanceRecordResponse `json:"record"`
	Accurate bool                     `json:"accurate"`
	Day      attendance.Day           `json:"day"`
}

// AttendanceStatusResponse next action and today's state for one event
type AttendanceStatusResponse struct {
	EventID string           `json:"event_id"`
	Today   attendance.Day   `json:"today"`
	Days    []attendance.Day `json:"days"`
}
