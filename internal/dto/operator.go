package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Operators ──

// CreateOperatorRequest new operator
type CreateOperatorRequest struct {
	FirstName   string           `json:"first_name"   binding:"required,min=1,max=100"`
	LastName    string           `json:"last_name"    binding:"required,min=1,max=100"`
	Email       string           `json:"email"        binding:"omitempty,email,max=255"`
	Phone       string           `json:"phone"        binding:"omitempty,max=40"`
	FiscalCode  string           `json:"fiscal_code"  binding:"omitempty,max=32"`
	GrossSalary *decimal.Decimal `json:"gross_salary"`
}

// UpdateOperatorRequest partial update; Version must match the stored row
type UpdateOperatorRequest struct {
	Version          int              `json:"version"      binding:"required,min=1"`
	FirstName        *string          `json:"first_name"   binding:"omitempty,min=1,max=100"`
	LastName         *string          `json:"last_name"    binding:"omitempty,min=1,max=100"`
	Email            *string          `json:"email"        binding:"omitempty,email,max=255"`
	Phone            *string          `json:"phone"        binding:"omitempty,max=40"`
	FiscalCode       *string          `json:"fiscal_code"  binding:"omitempty,max=32"`
	GrossSalary      *decimal.Decimal `json:"gross_salary"`
	ClearGrossSalary bool             `json:"clear_gross_salary"`
	IsActive         *bool            `json:"is_active"`
}

// OperatorListRequest list query
type OperatorListRequest struct {
	PaginationRequest
	Keyword    string `form:"keyword"`
	ActiveOnly bool   `form:"active_only"`
}

// OperatorResponse operator view
type OperatorResponse struct {
	ID          string           `json:"id"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	FullName    string           `json:"full_name"`
	Email       string           `json:"email,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	FiscalCode  string           `json:"fiscal_code,omitempty"`
	GrossSalary *decimal.Decimal `json:"gross_salary,omitempty"`
	IsActive    bool             `json:"is_active"`
	Version     int              `json:"version"`
}

// PaymentResponse payment history entry
type PaymentResponse struct {
	ID              string          `json:"id"`
	OperatorID      string          `json:"operator_id"`
	EventID         string          `json:"event_id"`
	EventTitle      string          `json:"event_title,omitempty"`
	Hours           float64         `json:"hours"`
	HourlyRate      decimal.Decimal `json:"hourly_rate"`
	Compensation    decimal.Decimal `json:"compensation"`
	MealAllowance   decimal.Decimal `json:"meal_allowance"`
	TravelAllowance decimal.Decimal `json:"travel_allowance"`
	Total           decimal.Decimal `json:"total"`
	RecordedAt      time.Time       `json:"recorded_at"`
}

// ShiftResponse an operator's assignment as seen by the operator
type ShiftResponse struct {
	AssignmentID string    `json:"assignment_id"`
	EventID      string    `json:"event_id"`
	Title        string    `json:"title"`
	Venue        string    `json:"venue,omitempty"`
	Role         string    `json:"role,omitempty"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Status       string    `json:"status"`
}
