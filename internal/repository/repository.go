package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregate of every collection repository
type Repository struct {
	db *gorm.DB

	Client     ClientRepository
	Event      EventRepository
	Operator   OperatorRepository
	Assignment AssignmentRepository
	Attendance AttendanceRepository
	Payment    PaymentRepository
	Outbox     OutboxRepository
	User       UserRepository
}

// NewRepository builds the aggregate on db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		Client:     NewClientRepo(db),
		Event:      NewEventRepo(db),
		Operator:   NewOperatorRepo(db),
		Assignment: NewAssignmentRepo(db),
		Attendance: NewAttendanceRepo(db),
		Payment:    NewPaymentRepo(db),
		Outbox:     NewOutboxRepo(db),
		User:       NewUserRepo(db),
	}
}

// Transaction runs fn against a transaction-bound aggregate, committing when
// fn returns nil and rolling back otherwise.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ── shared helpers ──

// Page offset/limit pair
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	return db
}
