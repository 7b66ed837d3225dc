package repositories

import (
	"context"
	"time"

	"github.com/sitecrew/daily_report_app/internal/core/domain"
)

// ReportRepositoryFacade is the persistence port for daily reports. day
// arguments are always canonical UTC-midnight keys produced by dateutil;
// implementations match them with a half-open [day, day+24h) range to
// tolerate residual sub-day precision in stored instants.
type ReportRepositoryFacade interface {
	// FindByProjectAndDay returns the single report for the key, or
	// apperrors.ErrNotFound.
	FindByProjectAndDay(ctx context.Context, projectName string, day time.Time) (*domain.Report, error)

	// FindLatestBeforeOrOn returns the project's most recent report with
	// reportDate <= day, or apperrors.ErrNotFound. Calendar gaps are allowed;
	// the result is the rolling-totals baseline, not necessarily yesterday.
	FindLatestBeforeOrOn(ctx context.Context, projectName string, day time.Time) (*domain.Report, error)

	// FindLatestByDay returns the most recently created report on the given
	// day across all projects, or apperrors.ErrNotFound.
	FindLatestByDay(ctx context.Context, day time.Time) (*domain.Report, error)

	// ListReports returns all reports ordered by day descending, optionally
	// filtered to one project.
	ListReports(ctx context.Context, projectName *string) ([]domain.Report, error)

	// UpsertDraft atomically inserts the report or, when a draft row already
	// exists for (projectName, reportDate), replaces its mutable fields in
	// place. Never creates a second row for the key and never touches status
	// or submittedAt; when the stored row is already submitted it is left
	// untouched and apperrors.ErrAlreadySubmitted is returned. Returns the
	// stored row.
	UpsertDraft(ctx context.Context, report domain.Report) (*domain.Report, error)

	// MarkSubmitted atomically transitions the report for the key to
	// submitted, creating a default draft row first if none exists. Already
	// submitted rows are left untouched, preserving the original submittedAt.
	// Returns the stored row.
	MarkSubmitted(ctx context.Context, projectName string, day time.Time, reportID string, submittedAt time.Time, userID string) (*domain.Report, error)
}
