package model

// Client customer that commissions events (table clients)
type Client struct {
	ClientID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"client_id"`
	Name      string `gorm:"type:varchar(150);not null"                     json:"name"`
	VATNumber string `gorm:"column:vat_number;type:varchar(32)"             json:"vat_number,omitempty"`
	Email     string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Phone     string `gorm:"type:varchar(40)"                               json:"phone,omitempty"`
	Address   string `gorm:"type:varchar(255)"                              json:"address,omitempty"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

func (Client) TableName() string { return "clients" }
