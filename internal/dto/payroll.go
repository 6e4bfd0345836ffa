package dto

import "staffdesk/internal/payroll"

// ── Payroll ──

// PayrollRequest filter for records, summary and exports
type PayrollRequest struct {
	DateRangeQuery
	EventID    string `form:"event_id"    binding:"omitempty,uuid"`
	OperatorID string `form:"operator_id" binding:"omitempty,uuid"`
}

// PayrollResponse records with their summary
type PayrollResponse struct {
	Currency string           `json:"currency"`
	Records  []payroll.Record `json:"records"`
	Summary  payroll.Summary  `json:"summary"`
}

// PayrollSummaryResponse summary only
type PayrollSummaryResponse struct {
	Currency string          `json:"currency"`
	Summary  payroll.Summary `json:"summary"`
}
