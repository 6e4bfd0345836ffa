package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventStatus lifecycle of an event (and of every assignment on it)
type EventStatus string

const (
	EventUpcoming   EventStatus = "upcoming"
	EventInProgress EventStatus = "in_progress"
	EventCompleted  EventStatus = "completed"
	EventCancelled  EventStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s EventStatus) Valid() bool {
	switch s {
	case EventUpcoming, EventInProgress, EventCompleted, EventCancelled:
		return true
	}
	return false
}

// Event a gig staffed with operators (table events)
type Event struct {
	EventID         string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	ClientID        string           `gorm:"type:uuid;not null"                             json:"client_id"`
	Title           string           `gorm:"type:varchar(200);not null"                     json:"title"`
	Venue           string           `gorm:"type:varchar(255)"                              json:"venue,omitempty"`
	VenueLat        *float64         `json:"venue_lat,omitempty"`
	VenueLon        *float64         `json:"venue_lon,omitempty"`
	StartDate       time.Time        `gorm:"not null"                                       json:"start_date"`
	EndDate         time.Time        `gorm:"not null"                                       json:"end_date"`
	HourlyRateCost  decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"          json:"hourly_rate_cost"`
	HourlyRateSell  *decimal.Decimal `gorm:"type:numeric(12,2)"                             json:"hourly_rate_sell,omitempty"`
	GrossHours      *float64         `gorm:"type:numeric(6,2)"                              json:"gross_hours,omitempty"`
	NetHours        *float64         `gorm:"type:numeric(6,2)"                              json:"net_hours,omitempty"`
	PersonnelCounts RoleCounts       `gorm:"type:jsonb"                                     json:"personnel_counts,omitempty"`
	Status          EventStatus      `gorm:"type:varchar(20);not null;default:'upcoming'"   json:"status"`
	VersionedModel

	Client      *Client      `gorm:"foreignKey:ClientID;references:ClientID" json:"client,omitempty"`
	Assignments []Assignment `gorm:"foreignKey:EventID"                      json:"assignments,omitempty"`
}

func (Event) TableName() string { return "events" }

// EffectiveStatus applies the read-time correction: an event whose end has
// passed is completed unless it was cancelled.
func (e *Event) EffectiveStatus(now time.Time) EventStatus {
	return CorrectStatus(e.Status, e.EndDate, now)
}

// HasVenueCoordinates reports whether the venue can be used for distance checks
func (e *Event) HasVenueCoordinates() bool {
	return e.VenueLat != nil && e.VenueLon != nil
}

// CorrectStatus is the status correction shared by events and payroll records.
func CorrectStatus(stored EventStatus, end, now time.Time) EventStatus {
	if stored != EventCancelled && !end.IsZero() && end.Before(now) {
		return EventCompleted
	}
	if stored == "" {
		return EventUpcoming
	}
	return stored
}
