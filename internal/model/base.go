package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ── JSONB role → count map ──

// RoleCounts maps a staffing role to the number of operators required.
// Stored as JSONB; a malformed stored value scans as an empty map instead of
// failing the whole row.
type RoleCounts map[string]int

// Scan implements sql.Scanner.
func (r *RoleCounts) Scan(src interface{}) error {
	if src == nil {
		*r = RoleCounts{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("RoleCounts.Scan: unsupported type %T", src)
	}
	out := RoleCounts{}
	if err := json.Unmarshal(raw, &out); err != nil {
		*r = RoleCounts{}
		return nil
	}
	*r = out
	return nil
}

// Value implements driver.Valuer.
func (r RoleCounts) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[string]int(r))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Total sums the required head count across roles
func (r RoleCounts) Total() int {
	n := 0
	for _, c := range r {
		n += c
	}
	return n
}

// BaseModel audit columns shared by every business table
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel audit columns with soft delete
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"     json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel soft delete plus optimistic-lock version
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}
