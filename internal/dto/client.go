package dto

import "time"

// ── Clients ──

// CreateClientRequest new client
type CreateClientRequest struct {
	Name      string `json:"name"       binding:"required,min=1,max=150"`
	VATNumber string `json:"vat_number" binding:"omitempty,max=32"`
	Email     string `json:"email"      binding:"omitempty,email,max=255"`
	Phone     string `json:"phone"      binding:"omitempty,max=40"`
	Address   string `json:"address"    binding:"omitempty,max=255"`
}

// UpdateClientRequest partial update; Version must match the stored row
type UpdateClientRequest struct {
	Version   int     `json:"version"    binding:"required,min=1"`
	Name      *string `json:"name"       binding:"omitempty,min=1,max=150"`
	VATNumber *string `json:"vat_number" binding:"omitempty,max=32"`
	Email     *string `json:"email"      binding:"omitempty,email,max=255"`
	Phone     *string `json:"phone"      binding:"omitempty,max=40"`
	Address   *string `json:"address"    binding:"omitempty,max=255"`
	IsActive  *bool   `json:"is_active"`
}

// ClientListRequest list query
type ClientListRequest struct {
	PaginationRequest
	Keyword    string `form:"keyword"`
	ActiveOnly bool   `form:"active_only"`
}

// ClientResponse client view
type ClientResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	VATNumber   string    `json:"vat_number,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	IsActive    bool      `json:"is_active"`
	EventsCount int64     `json:"events_count"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
