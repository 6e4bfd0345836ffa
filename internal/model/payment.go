package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperatorPayment payment history entry written when an event closes (table
// operator_payments). Append-only, one row per (operator, event).
type OperatorPayment struct {
	PaymentID       string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"payment_id"`
	OperatorID      string          `gorm:"type:uuid;not null"                             json:"operator_id"`
	EventID         string          `gorm:"type:uuid;not null"                             json:"event_id"`
	Hours           float64         `gorm:"type:numeric(6,2);not null"                     json:"hours"`
	HourlyRate      decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"hourly_rate"`
	Compensation    decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"compensation"`
	MealAllowance   decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"meal_allowance"`
	TravelAllowance decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"travel_allowance"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"total"`
	RecordedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"recorded_at"`

	Event *Event `gorm:"foreignKey:EventID;references:EventID" json:"event,omitempty"`
}

func (OperatorPayment) TableName() string { return "operator_payments" }
