package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Events ──

// CreateEventRequest new event
type CreateEventRequest struct {
	ClientID        string           `json:"client_id"        binding:"required,uuid"`
	Title           string           `json:"title"            binding:"required,min=1,max=200"`
	Venue           string           `json:"venue"            binding:"omitempty,max=255"`
	VenueLat        *float64         `json:"venue_lat"        binding:"omitempty,min=-90,max=90"`
	VenueLon        *float64         `json:"venue_lon"        binding:"omitempty,min=-180,max=180"`
	StartDate       time.Time        `json:"start_date"       binding:"required"`
	EndDate         time.Time        `json:"end_date"         binding:"required"`
	HourlyRateCost  decimal.Decimal  `json:"hourly_rate_cost"`
	HourlyRateSell  *decimal.Decimal `json:"hourly_rate_sell"`
	GrossHours      *float64         `json:"gross_hours"      binding:"omitempty,min=0"`
	NetHours        *float64         `json:"net_hours"        binding:"omitempty,min=0"`
	PersonnelCounts map[string]int   `json:"personnel_counts"`
}

// UpdateEventRequest partial update; Version must match the stored row
type UpdateEventRequest struct {
	Version         int              `json:"version"          binding:"required,min=1"`
	ClientID        *string          `json:"client_id"        binding:"omitempty,uuid"`
	Title           *string          `json:"title"            binding:"omitempty,min=1,max=200"`
	Venue           *string          `json:"venue"            binding:"omitempty,max=255"`
	VenueLat        *float64         `json:"venue_lat"        binding:"omitempty,min=-90,max=90"`
	VenueLon        *float64         `json:"venue_lon"        binding:"omitempty,min=-180,max=180"`
	StartDate       *time.Time       `json:"start_date"`
	EndDate         *time.Time       `json:"end_date"`
	HourlyRateCost  *decimal.Decimal `json:"hourly_rate_cost"`
	HourlyRateSell  *decimal.Decimal `json:"hourly_rate_sell"`
	GrossHours      *float64         `json:"gross_hours"      binding:"omitempty,min=0"`
	NetHours        *float64         `json:"net_hours"        binding:"omitempty,min=0"`
	PersonnelCounts map[string]int   `json:"personnel_counts"`
	Status          *string          `json:"status"           binding:"omitempty,oneof=upcoming in_progress completed cancelled"`
}

// EventListRequest list query
type EventListRequest struct {
	PaginationRequest
	DateRangeQuery
	ClientID string `form:"client_id"`
	Status   string `form:"status" binding:"omitempty,oneof=upcoming in_progress completed cancelled"`
	Keyword  string `form:"keyword"`
}

// RoleCoverage required vs assigned head count for a role
type RoleCoverage struct {
	Role     string `json:"role"`
	Required int    `json:"required"`
	Assigned int    `json:"assigned"`
}

// EventResponse event view. Status is the effective status; hours are
// resolved from the stored values or the time span.
type EventResponse struct {
	ID              string           `json:"id"`
	ClientID        string           `json:"client_id"`
	ClientName      string           `json:"client_name"`
	Title           string           `json:"title"`
	Venue           string           `json:"venue,omitempty"`
	VenueLat        *float64         `json:"venue_lat,omitempty"`
	VenueLon        *float64         `json:"venue_lon,omitempty"`
	StartDate       time.Time        `json:"start_date"`
	EndDate         time.Time        `json:"end_date"`
	HourlyRateCost  decimal.Decimal  `json:"hourly_rate_cost"`
	HourlyRateSell  *decimal.Decimal `json:"hourly_rate_sell,omitempty"`
	GrossHours      float64          `json:"gross_hours"`
	NetHours        float64          `json:"net_hours"`
	PersonnelCounts map[string]int   `json:"personnel_counts"`
	Staffing        []RoleCoverage   `json:"staffing,omitempty"`
	Status          string           `json:"status"`
	Version         int              `json:"version"`
}

// CloseEventResponse result of closing an event
type CloseEventResponse struct {
	Event           EventResponse     `json:"event"`
	PaymentsCreated int               `json:"payments_created"`
	Payments        []PaymentResponse `json:"payments"`
}
