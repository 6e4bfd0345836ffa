package dto

import (
	"github.com/shopspring/decimal"

	"staffdesk/internal/payroll"
)

// ── Assignments ──

// CreateAssignmentRequest assign an operator to an event
type CreateAssignmentRequest struct {
	OperatorID     string           `json:"operator_id"      binding:"required,uuid"`
	Role           string           `json:"role"             binding:"omitempty,max=50"`
	HourlyRate     *decimal.Decimal `json:"hourly_rate"`
	HourlyRateSell *decimal.Decimal `json:"hourly_rate_sell"`
}

// Override field names accepted by AdjustAssignmentRequest.Clear
const (
	FieldHourlyRateSell  = "hourly_rate_sell"
	FieldTotalHours      = "total_hours"
	FieldNetHours        = "net_hours"
	FieldActualHours     = "actual_hours"
	FieldCompensation    = "compensation"
	FieldMealAllowance   = "meal_allowance"
	FieldTravelAllowance = "travel_allowance"
	FieldRevenue         = "revenue"
)

// AdjustAssignmentRequest sets payroll overrides. Fields listed in Clear are
// reset so the value is derived again.
type AdjustAssignmentRequest struct {
	Version         int              `json:"version"          binding:"required,min=1"`
	Role            *string          `json:"role"             binding:"omitempty,max=50"`
	HourlyRate      *decimal.Decimal `json:"hourly_rate"`
	HourlyRateSell  *decimal.Decimal `json:"hourly_rate_sell"`
	TotalHours      *float64         `json:"total_hours"      binding:"omitempty,min=0,max=48"`
	NetHours        *float64         `json:"net_hours"        binding:"omitempty,min=0,max=48"`
	ActualHours     *float64         `json:"actual_hours"     binding:"omitempty,min=0,max=48"`
	Compensation    *decimal.Decimal `json:"compensation"`
	MealAllowance   *decimal.Decimal `json:"meal_allowance"`
	TravelAllowance *decimal.Decimal `json:"travel_allowance"`
	Revenue         *decimal.Decimal `json:"revenue"`
	Clear           []string         `json:"clear"            binding:"omitempty,dive,oneof=hourly_rate_sell total_hours net_hours actual_hours compensation meal_allowance travel_allowance revenue"`
}

// AssignmentResponse stored assignment plus its derived payroll record
type AssignmentResponse struct {
	ID              string           `json:"id"`
	EventID         string           `json:"event_id"`
	OperatorID      string           `json:"operator_id"`
	OperatorName    string           `json:"operator_name,omitempty"`
	Role            string           `json:"role"`
	HourlyRate      decimal.Decimal  `json:"hourly_rate"`
	HourlyRateSell  *decimal.Decimal `json:"hourly_rate_sell,omitempty"`
	TotalHours      *float64         `json:"total_hours,omitempty"`
	NetHours        *float64         `json:"net_hours,omitempty"`
	ActualHours     *float64         `json:"actual_hours,omitempty"`
	Compensation    *decimal.Decimal `json:"compensation,omitempty"`
	MealAllowance   *decimal.Decimal `json:"meal_allowance,omitempty"`
	TravelAllowance *decimal.Decimal `json:"travel_allowance,omitempty"`
	Revenue         *decimal.Decimal `json:"revenue,omitempty"`
	Version         int              `json:"version"`
	Payroll         *payroll.Record  `json:"payroll,omitempty"`
}
