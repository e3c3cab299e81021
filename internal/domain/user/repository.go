package user

import (
	"context"
)

// Repository defines the operations for persisting and retrieving User entities.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	Delete(ctx context.Context, telegramID int64) error
	ListAll(ctx context.Context) ([]*User, error)
	// SetLastNotifiedWeek advances last_notified_week to the given value.
	// The write is atomic and monotonic: a value lower than or equal to the
	// stored one leaves the row unchanged, so calling it twice with the same
	// week is idempotent.
	SetLastNotifiedWeek(ctx context.Context, telegramID int64, week int) error
}
