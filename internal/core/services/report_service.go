package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sitecrew/daily_report_app/internal/apperrors"
	"github.com/sitecrew/daily_report_app/internal/core/domain"
	portsrepo "github.com/sitecrew/daily_report_app/internal/core/ports/repositories"
	portssvc "github.com/sitecrew/daily_report_app/internal/core/ports/services"
	"github.com/sitecrew/daily_report_app/internal/dto"
	"github.com/sitecrew/daily_report_app/internal/middleware"
	"github.com/sitecrew/daily_report_app/internal/utils/dateutil"
	"github.com/sitecrew/daily_report_app/internal/utils/rolling"
)

// reportService provides the daily report lifecycle: draft saves with
// rolling-total recomputation, idempotent submission, and lookups.
type reportService struct {
	reportRepo portsrepo.ReportRepositoryFacade
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo portsrepo.ReportRepositoryFacade) portssvc.ReportSvcFacade {
	return &reportService{reportRepo: reportRepo}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

// SaveDraft validates and persists a draft report for (projectName, day).
// Rolling totals are recomputed from the latest strictly earlier report on
// every save, so re-saving the same day never compounds its own totals.
func (s *reportService) SaveDraft(ctx context.Context, req dto.SaveReportRequest, userID string) (*domain.Report, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	projectName := strings.TrimSpace(req.ProjectName)
	if projectName == "" {
		return nil, fmt.Errorf("%w: projectName must not be blank", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.ActivityToday) == "" {
		return nil, fmt.Errorf("%w: activityToday must not be blank", apperrors.ErrValidation)
	}

	day, err := dateutil.ParseDay(req.ReportDate)
	if err != nil {
		return nil, err
	}

	existing, err := s.reportRepo.FindByProjectAndDay(ctx, projectName, day)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing report: %w", err)
	}
	if existing != nil && existing.Status == domain.StatusSubmitted {
		return nil, apperrors.ErrAlreadySubmitted
	}

	// Baseline is the latest report strictly before the day being saved.
	// Using the day itself would make a re-save of an existing draft feed its
	// own accumulated totals back into Prev.
	var baseline *domain.Report
	baseline, err = s.reportRepo.FindLatestBeforeOrOn(ctx, projectName, dateutil.PrevDay(day))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to find baseline report: %w", err)
		}
		baseline = nil
	}

	now := time.Now()
	report := domain.Report{
		ReportID:        uuid.NewString(),
		ProjectName:     projectName,
		ReportDate:      day,
		WeatherAM:       req.WeatherAM,
		WeatherPM:       req.WeatherPM,
		TempAM:          req.TempAM,
		TempPM:          req.TempPM,
		CurrentPeriod:   domain.PeriodAM,
		ActivityToday:   req.ActivityToday,
		WorkPlanNextDay: req.WorkPlanNextDay,
		Status:          domain.StatusDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.CurrentPeriod != "" {
		report.CurrentPeriod = domain.WeatherPeriod(req.CurrentPeriod)
	}

	var prevMgmt, prevWork, prevMat, prevMach []domain.LineItem
	if baseline != nil {
		prevMgmt = baseline.ManagementTeam
		prevWork = baseline.WorkingTeam
		prevMat = baseline.Materials
		prevMach = baseline.Machinery
	}
	report.ManagementTeam = rolling.ComputeRolling(dto.ToLineItemInputs(req.ManagementTeam), prevMgmt)
	report.WorkingTeam = rolling.ComputeRolling(dto.ToLineItemInputs(req.WorkingTeam), prevWork)
	report.Materials = rolling.ComputeRolling(dto.ToLineItemInputs(req.Materials), prevMat)
	report.Machinery = rolling.ComputeRolling(dto.ToLineItemInputs(req.Machinery), prevMach)

	saved, err := s.reportRepo.UpsertDraft(ctx, report)
	if err != nil {
		// A submit can land between the status check above and the upsert;
		// the store refuses to touch the submitted row.
		if errors.Is(err, apperrors.ErrAlreadySubmitted) {
			return nil, err
		}
		logger.Error("Failed to save draft report",
			slog.String("project_name", projectName),
			slog.String("report_date", dateutil.FormatDay(day)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to save draft report: %w", err)
	}

	logger.Info("Draft report saved",
		slog.String("report_id", saved.ReportID),
		slog.String("project_name", projectName),
		slog.String("report_date", dateutil.FormatDay(day)),
	)
	return saved, nil
}

// Submit marks the report for (projectName, date) submitted. When no draft
// was ever saved a default report is created in the same statement, so two
// racing submitters converge on one row. Re-submitting is a no-op that
// returns the stored report with its original submittedAt.
func (s *reportService) Submit(ctx context.Context, projectName, date string, userID string) (*domain.Report, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return nil, fmt.Errorf("%w: projectName must not be blank", apperrors.ErrValidation)
	}
	day, err := dateutil.ParseDay(date)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	submitted, err := s.reportRepo.MarkSubmitted(ctx, projectName, day, uuid.NewString(), now, userID)
	if err != nil {
		logger.Error("Failed to submit report",
			slog.String("project_name", projectName),
			slog.String("report_date", dateutil.FormatDay(day)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to submit report: %w", err)
	}

	logger.Info("Report submitted",
		slog.String("report_id", submitted.ReportID),
		slog.String("project_name", projectName),
		slog.String("report_date", dateutil.FormatDay(day)),
	)
	return submitted, nil
}

// GetAll returns reports ordered by day descending, optionally filtered to
// one project.
func (s *reportService) GetAll(ctx context.Context, projectName *string) ([]domain.Report, error) {
	reports, err := s.reportRepo.ListReports(ctx, projectName)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	if reports == nil {
		return []domain.Report{}, nil
	}
	return reports, nil
}

// GetByDay returns the report for (projectName, date).
func (s *reportService) GetByDay(ctx context.Context, projectName, date string) (*domain.Report, error) {
	day, err := dateutil.ParseDay(date)
	if err != nil {
		return nil, err
	}
	report, err := s.reportRepo.FindByProjectAndDay(ctx, projectName, day)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get report by day: %w", err)
	}
	return report, nil
}

// GetLatestByDay returns the most recently created report on the given day,
// across projects.
func (s *reportService) GetLatestByDay(ctx context.Context, date string) (*domain.Report, error) {
	day, err := dateutil.ParseDay(date)
	if err != nil {
		return nil, err
	}
	report, err := s.reportRepo.FindLatestByDay(ctx, day)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get latest report by day: %w", err)
	}
	return report, nil
}
