package model

// Roles
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User login account (table users)
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string  `gorm:"type:varchar(100);not null"                     json:"username"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'operator'"   json:"role"`
	OperatorID   *string `gorm:"type:uuid"                                      json:"operator_id,omitempty"`
	VersionedModel

	Operator *Operator `gorm:"foreignKey:OperatorID;references:OperatorID" json:"operator,omitempty"`
}

func (User) TableName() string { return "users" }
