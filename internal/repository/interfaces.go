// Package repository declares the persistence ports of the service. The
// memory package implements them with maps for tests and single-instance
// deployments; the postgres and redis packages implement them for production.
package repository

import (
	"context"
	"errors"
	"time"

	"policeapp/internal/domain/entities"
)

var (
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict is returned when a unique field (email, phone) is taken.
	ErrConflict = errors.New("repository: conflict")
)

type UserRepository interface {
	// Create stores u and assigns u.ID.
	Create(ctx context.Context, u *entities.User) error
	GetByID(ctx context.Context, id int64) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByPhone(ctx context.Context, phone string) (*entities.User, error)
	Update(ctx context.Context, u *entities.User) error
}

type ReportRepository interface {
	Create(ctx context.Context, r *entities.Report) error
	// ListByUser returns the user's reports, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*entities.Report, error)
	// ListInCells returns every report whose geohash starts with one of the
	// given cell prefixes. All prefixes must have the same length.
	ListInCells(ctx context.Context, cells []string) ([]*entities.Report, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, f *entities.Feedback) error
	ListByUser(ctx context.Context, userID int64) ([]*entities.Feedback, error)
}

// LockManager hands out named locks that expire on their own. It backs the
// report cooldown: a lock is taken per user and crime type and simply left to
// expire.
type LockManager interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
	IsLocked(ctx context.Context, key string) (bool, error)
	// TTL returns how long the lock on key is still held, or 0 if it is free.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
