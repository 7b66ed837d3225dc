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
	"github.com/sitecrew/daily_report_app/internal/utils/dateutil"
	"github.com/sitecrew/daily_report_app/internal/utils/mapping"
)

// PgxReportRepository persists daily reports. It is the sole owner of the
// daily_reports table; the unique index on (project_name, report_date) plus
// the ON CONFLICT upserts below are what make concurrent save/submit on the
// same key safe without a read-then-write sequence.
type PgxReportRepository struct {
	BaseRepository
}

// NewReportRepository creates a new repository for daily report data.
func NewReportRepository(pool *pgxpool.Pool) portsrepo.ReportRepositoryFacade {
	return &PgxReportRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportRepositoryFacade = (*PgxReportRepository)(nil)

const reportColumns = `
	report_id, project_name, report_date,
	weather_am, weather_pm, temp_am, temp_pm, current_period,
	activity_today, work_plan_next_day,
	management_team, working_team, materials, machinery,
	status, submitted_at,
	created_at, created_by, last_updated_at, last_updated_by`

// scannable is satisfied by both pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanReport(row scannable) (models.Report, error) {
	var m models.Report
	err := row.Scan(
		&m.ReportID,
		&m.ProjectName,
		&m.ReportDate,
		&m.WeatherAM,
		&m.WeatherPM,
		&m.TempAM,
		&m.TempPM,
		&m.CurrentPeriod,
		&m.ActivityToday,
		&m.WorkPlanNextDay,
		&m.ManagementTeam,
		&m.WorkingTeam,
		&m.Materials,
		&m.Machinery,
		&m.Status,
		&m.SubmittedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindByProjectAndDay retrieves the single report for (projectName, day).
// The lookup is a half-open range [day, day+24h) so that rows persisted with
// residual time-of-day still resolve to their calendar day.
func (r *PgxReportRepository) FindByProjectAndDay(ctx context.Context, projectName string, day time.Time) (*domain.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM daily_reports
		WHERE project_name = $1 AND report_date >= $2 AND report_date < $3
		LIMIT 1;
	`
	m, err := scanReport(r.Pool.QueryRow(ctx, query, projectName, day, dateutil.NextDay(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find report for %s on %s: %w", projectName, dateutil.FormatDay(day), err)
	}
	report := mapping.ToDomainReport(m)
	return &report, nil
}

// FindLatestBeforeOrOn retrieves the project's most recent report with
// reportDate on or before day. Gaps between report days are expected; the
// caller treats the result as the rolling-totals baseline.
func (r *PgxReportRepository) FindLatestBeforeOrOn(ctx context.Context, projectName string, day time.Time) (*domain.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM daily_reports
		WHERE project_name = $1 AND report_date < $2
		ORDER BY report_date DESC
		LIMIT 1;
	`
	m, err := scanReport(r.Pool.QueryRow(ctx, query, projectName, dateutil.NextDay(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest report for %s before %s: %w", projectName, dateutil.FormatDay(day), err)
	}
	report := mapping.ToDomainReport(m)
	return &report, nil
}

// FindLatestByDay retrieves the most recently created report on the given
// day across all projects.
func (r *PgxReportRepository) FindLatestByDay(ctx context.Context, day time.Time) (*domain.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM daily_reports
		WHERE report_date >= $1 AND report_date < $2
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanReport(r.Pool.QueryRow(ctx, query, day, dateutil.NextDay(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find report on %s: %w", dateutil.FormatDay(day), err)
	}
	report := mapping.ToDomainReport(m)
	return &report, nil
}

// ListReports retrieves all reports ordered by day descending, optionally
// filtered to one project.
func (r *PgxReportRepository) ListReports(ctx context.Context, projectName *string) ([]domain.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM daily_reports
	`
	args := []any{}
	if projectName != nil {
		query += ` WHERE project_name = $1`
		args = append(args, *projectName)
	}
	query += ` ORDER BY report_date DESC, created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		m, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}
	return mapping.ToDomainReportSlice(reports), nil
}

// UpsertDraft atomically inserts the draft or replaces the mutable fields of
// the existing row for (project_name, report_date). The update list is an
// explicit whitelist: status, submitted_at, report_id and the created_*
// audit columns are never overwritten by a draft save. The conflict branch
// only fires while the row is still a draft, so a save racing a submit on
// the same key returns apperrors.ErrAlreadySubmitted instead of touching the
// submitted row. A lost uniqueness race surfaces as apperrors.ErrDuplicate.
func (r *PgxReportRepository) UpsertDraft(ctx context.Context, report domain.Report) (*domain.Report, error) {
	m := mapping.ToModelReport(report)
	query := `
		INSERT INTO daily_reports (
			report_id, project_name, report_date,
			weather_am, weather_pm, temp_am, temp_pm, current_period,
			activity_today, work_plan_next_day,
			management_team, working_team, materials, machinery,
			status, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (project_name, report_date) DO UPDATE SET
			weather_am         = EXCLUDED.weather_am,
			weather_pm         = EXCLUDED.weather_pm,
			temp_am            = EXCLUDED.temp_am,
			temp_pm            = EXCLUDED.temp_pm,
			current_period     = EXCLUDED.current_period,
			activity_today     = EXCLUDED.activity_today,
			work_plan_next_day = EXCLUDED.work_plan_next_day,
			management_team    = EXCLUDED.management_team,
			working_team       = EXCLUDED.working_team,
			materials          = EXCLUDED.materials,
			machinery          = EXCLUDED.machinery,
			last_updated_at    = EXCLUDED.last_updated_at,
			last_updated_by    = EXCLUDED.last_updated_by
		WHERE daily_reports.status = 'draft'
		RETURNING ` + reportColumns + `;
	`
	stored, err := scanReport(r.Pool.QueryRow(ctx, query,
		m.ReportID,
		m.ProjectName,
		m.ReportDate,
		m.WeatherAM,
		m.WeatherPM,
		m.TempAM,
		m.TempPM,
		m.CurrentPeriod,
		m.ActivityToday,
		m.WorkPlanNextDay,
		m.ManagementTeam,
		m.WorkingTeam,
		m.Materials,
		m.Machinery,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The conflict branch declined to update: the row is submitted.
			return nil, apperrors.ErrAlreadySubmitted
		}
		if translated := translateError(err); errors.Is(translated, apperrors.ErrDuplicate) {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to upsert draft for %s on %s: %w", m.ProjectName, dateutil.FormatDay(m.ReportDate), err)
	}
	result := mapping.ToDomainReport(stored)
	return &result, nil
}

// MarkSubmitted atomically transitions the report for (projectName, day) to
// submitted, inserting a default empty report when none exists. COALESCE on
// submitted_at makes the operation idempotent: a second submit keeps the
// original timestamp and is not an error.
func (r *PgxReportRepository) MarkSubmitted(ctx context.Context, projectName string, day time.Time, reportID string, submittedAt time.Time, userID string) (*domain.Report, error) {
	query := `
		INSERT INTO daily_reports (
			report_id, project_name, report_date,
			management_team, working_team, materials, machinery,
			status, submitted_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, '[]'::jsonb, '[]'::jsonb, '[]'::jsonb, '[]'::jsonb, 'submitted', $4, $4, $5, $4, $5)
		ON CONFLICT (project_name, report_date) DO UPDATE SET
			status          = 'submitted',
			submitted_at    = COALESCE(daily_reports.submitted_at, EXCLUDED.submitted_at),
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		RETURNING ` + reportColumns + `;
	`
	stored, err := scanReport(r.Pool.QueryRow(ctx, query, reportID, projectName, day, submittedAt, userID))
	if err != nil {
		if translated := translateError(err); errors.Is(translated, apperrors.ErrDuplicate) {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to mark report submitted for %s on %s: %w", projectName, dateutil.FormatDay(day), err)
	}
	result := mapping.ToDomainReport(stored)
	return &result, nil
}
