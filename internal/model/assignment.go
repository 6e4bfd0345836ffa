package model

import "github.com/shopspring/decimal"

// Assignment one operator's participation in one event (table assignments)
// Pointer fields are explicit payroll overrides; nil means "derive".
type Assignment struct {
	AssignmentID    string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	EventID         string           `gorm:"type:uuid;not null"                             json:"event_id"`
	OperatorID      string           `gorm:"type:uuid;not null"                             json:"operator_id"`
	Role            string           `gorm:"type:varchar(50);not null;default:''"           json:"role"`
	HourlyRate      decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"          json:"hourly_rate"`
	HourlyRateSell  *decimal.Decimal `gorm:"type:numeric(12,2)"                             json:"hourly_rate_sell,omitempty"`
	TotalHours      *float64         `gorm:"type:numeric(6,2)"                              json:"total_hours,omitempty"`
	NetHours        *float64         `gorm:"type:numeric(6,2)"                              json:"net_hours,omitempty"`
	ActualHours     *float64         `gorm:"type:numeric(6,2)"                              json:"actual_hours,omitempty"`
	Compensation    *decimal.Decimal `gorm:"type:numeric(12,2)"                             json:"compensation,omitempty"`
	MealAllowance   *decimal.Decimal `gorm:"type:numeric(12,2)"                             json:"meal_allowance,omitempty"`
	TravelAllowance *decimal.Decimal `gorm:"type:numeric(12,2)"                             json:"travel_allowance,omitempty"`
	Revenue         *decimal.Decimal `gorm:"type:numeric(12,2)"                             json:"revenue,omitempty"`
	VersionedModel

	Event    *Event    `gorm:"foreignKey:EventID;references:EventID"       json:"event,omitempty"`
	Operator *Operator `gorm:"foreignKey:OperatorID;references:OperatorID" json:"operator,omitempty"`
}

func (Assignment) TableName() string { return "assignments" }
