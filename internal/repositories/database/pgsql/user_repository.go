package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitecrew/daily_report_app/internal/apperrors"
	"github.com/sitecrew/daily_report_app/internal/core/domain"
	portsrepo "github.com/sitecrew/daily_report_app/internal/core/ports/repositories"
	"github.com/sitecrew/daily_report_app/internal/models"
	"github.com/sitecrew/daily_report_app/internal/utils/mapping"
)

// PgxUserRepository persists user accounts.
type PgxUserRepository struct {
	BaseRepository
}

// NewUserRepository creates a new repository for user data.
func NewUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `
	user_id, email, password_hash, first_name, last_name,
	auth_provider, is_active, last_login_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanUser(row scannable) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Email,
		&m.PasswordHash,
		&m.FirstName,
		&m.LastName,
		&m.AuthProvider,
		&m.IsActive,
		&m.LastLoginAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveUser inserts a new user row. The unique index on email reports a
// duplicate as apperrors.ErrDuplicate.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (
			user_id, email, password_hash, first_name, last_name,
			auth_provider, is_active, last_login_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.Email,
		m.PasswordHash,
		m.FirstName,
		m.LastName,
		m.AuthProvider,
		m.IsActive,
		m.LastLoginAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if translated := translateError(err); errors.Is(translated, apperrors.ErrDuplicate) {
			return translated
		}
		return fmt.Errorf("failed to save user %s: %w", m.UserID, err)
	}
	return nil
}

// FindUserByID retrieves a user by primary key.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	m, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

// FindUserByEmail retrieves a user by email. The lookup is case-insensitive
// to match the lowercasing done on registration.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1);`
	m, err := scanUser(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

// UpdateLastLogin records a successful login.
func (r *PgxUserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	query := `UPDATE users SET last_login_at = $2, last_updated_at = $2, last_updated_by = $1 WHERE user_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, userID, at)
	if err != nil {
		return fmt.Errorf("failed to update last login for %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *PgxUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string, updatedAt time.Time) error {
	query := `UPDATE users SET password_hash = $2, last_updated_at = $3, last_updated_by = $1 WHERE user_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, userID, passwordHash, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update password for %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
