package repositories

import (
	"context"
	"time"

	"github.com/sitecrew/daily_report_app/internal/core/domain"
)

// UserRepositoryFacade is the persistence port for user accounts.
type UserRepositoryFacade interface {
	// SaveUser inserts a new user. A duplicate email returns
	// apperrors.ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID returns the user, or apperrors.ErrNotFound.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail returns the user with the given (lowercased) email, or
	// apperrors.ErrNotFound.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateLastLogin records a successful login.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID string, passwordHash string, updatedAt time.Time) error
}

// PasswordResetRepositoryFacade is the persistence port for single-use
// password reset tokens.
type PasswordResetRepositoryFacade interface {
	// SaveReset stores a new reset token hash.
	SaveReset(ctx context.Context, reset domain.PasswordReset) error

	// FindActiveReset returns the unused, unexpired reset for the token hash,
	// or apperrors.ErrNotFound.
	FindActiveReset(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordReset, error)

	// MarkUsed consumes the token so it cannot be replayed.
	MarkUsed(ctx context.Context, tokenHash string, usedAt time.Time) error
}
