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
)

// PgxPasswordResetRepository persists single-use password reset tokens.
type PgxPasswordResetRepository struct {
	BaseRepository
}

// NewPasswordResetRepository creates a new repository for reset tokens.
func NewPasswordResetRepository(pool *pgxpool.Pool) portsrepo.PasswordResetRepositoryFacade {
	return &PgxPasswordResetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PasswordResetRepositoryFacade = (*PgxPasswordResetRepository)(nil)

// SaveReset stores a new reset token hash.
func (r *PgxPasswordResetRepository) SaveReset(ctx context.Context, reset domain.PasswordReset) error {
	query := `
		INSERT INTO password_resets (token_hash, user_id, expires_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query, reset.TokenHash, reset.UserID, reset.ExpiresAt, reset.UsedAt, reset.CreatedAt)
	if err != nil {
		if translated := translateError(err); errors.Is(translated, apperrors.ErrDuplicate) {
			return translated
		}
		return fmt.Errorf("failed to save password reset: %w", err)
	}
	return nil
}

// FindActiveReset returns the unused, unexpired reset for the token hash.
func (r *PgxPasswordResetRepository) FindActiveReset(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordReset, error) {
	query := `
		SELECT token_hash, user_id, expires_at, used_at, created_at
		FROM password_resets
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > $2;
	`
	var m models.PasswordReset
	err := r.Pool.QueryRow(ctx, query, tokenHash, now).Scan(&m.TokenHash, &m.UserID, &m.ExpiresAt, &m.UsedAt, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find password reset: %w", err)
	}
	reset := domain.PasswordReset{
		TokenHash: m.TokenHash,
		UserID:    m.UserID,
		ExpiresAt: m.ExpiresAt,
		UsedAt:    m.UsedAt,
		CreatedAt: m.CreatedAt,
	}
	return &reset, nil
}

// MarkUsed consumes the token. The used_at IS NULL guard makes the consume
// single-shot even under concurrent resets with the same token.
func (r *PgxPasswordResetRepository) MarkUsed(ctx context.Context, tokenHash string, usedAt time.Time) error {
	query := `UPDATE password_resets SET used_at = $2 WHERE token_hash = $1 AND used_at IS NULL;`
	tag, err := r.Pool.Exec(ctx, query, tokenHash, usedAt)
	if err != nil {
		return fmt.Errorf("failed to mark password reset used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
