package model

import "github.com/shopspring/decimal"

// Operator field staff member (table operators)
type Operator struct {
	OperatorID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"operator_id"`
	FirstName  string `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName   string `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email      string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Phone      string `gorm:"type:varchar(40)"                               json:"phone,omitempty"`
	FiscalCode string `gorm:"type:varchar(32)"                               json:"fiscal_code,omitempty"`
	// GrossSalary is the contract hourly rate; when set it overrides the
	// rate stored on each assignment.
	GrossSalary *decimal.Decimal `gorm:"type:numeric(12,2)" json:"gross_salary,omitempty"`
	IsActive    bool             `gorm:"not null;default:true" json:"is_active"`
	VersionedModel

	Assignments []Assignment `gorm:"foreignKey:OperatorID" json:"assignments,omitempty"`
}

func (Operator) TableName() string { return "operators" }

// FullName display name
func (o *Operator) FullName() string {
	if o.LastName == "" {
		return o.FirstName
	}
	return o.FirstName + " " + o.LastName
}
