package model

import (
	"encoding/json"
	"time"
)

// OutboxStatus replication state of an outbox entry
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxDone    OutboxStatus = "done"
	OutboxFailed  OutboxStatus = "failed"
)

// Collections mirrored to the remote store
const (
	CollectionClients    = "clients"
	CollectionEvents     = "events"
	CollectionOperators  = "operators"
	CollectionAssignment = "assignments"
	CollectionAttendance = "attendance"
	CollectionPayments   = "operator_payments"
)

// OutboxEntry pending write to the remote mirror (table sync_outbox)
type OutboxEntry struct {
	OutboxID      string          `gorm:"type:uuid;primaryKey"                      json:"outbox_id"`
	Collection    string          `gorm:"type:varchar(40);not null"                 json:"collection"`
	EntityID      string          `gorm:"type:varchar(64);not null"                 json:"entity_id"`
	Revision      int64           `gorm:"not null"                                  json:"revision"`
	Payload       json.RawMessage `gorm:"type:jsonb;not null"                       json:"payload"`
	Status        OutboxStatus    `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`
	Attempts      int             `gorm:"not null;default:0"                        json:"attempts"`
	NextAttemptAt time.Time       `gorm:"not null"                                  json:"next_attempt_at"`
	LastError     string          `gorm:"type:text"                                 json:"last_error,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"        json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"        json:"updated_at"`
}

func (OutboxEntry) TableName() string { return "sync_outbox" }
