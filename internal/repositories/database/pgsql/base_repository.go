package pgsql

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitecrew/daily_report_app/internal/apperrors"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// BaseRepository provides common functionality for all repositories. Every
// write in this package is a single statement (the report upserts are atomic
// by construction), so there is no transaction helper here.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// translateError maps driver-level errors onto the application taxonomy.
func translateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.ErrDuplicate
	}
	return err
}
