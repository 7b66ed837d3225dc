package services

import (
	"context"

	"github.com/sitecrew/daily_report_app/internal/core/domain"
	"github.com/sitecrew/daily_report_app/internal/dto"
)

// ReportSvcFacade orchestrates the daily report lifecycle: draft saves with
// rolling-total recomputation, submission, and lookups. Date parameters are
// raw strings; normalization happens inside the service before any store
// access.
type ReportSvcFacade interface {
	// SaveDraft validates the payload, normalizes the day, recomputes rolling
	// totals from the latest strictly earlier report, and atomically upserts
	// the draft. Rejected with apperrors.ErrAlreadySubmitted once the key has
	// been submitted.
	SaveDraft(ctx context.Context, req dto.SaveReportRequest, userID string) (*domain.Report, error)

	// Submit marks the report for the key submitted, creating a default
	// report when no draft was ever saved. Idempotent: re-submitting returns
	// the existing document with its original submittedAt.
	Submit(ctx context.Context, projectName, date string, userID string) (*domain.Report, error)

	// GetAll returns reports ordered by day descending, optionally filtered
	// to one project.
	GetAll(ctx context.Context, projectName *string) ([]domain.Report, error)

	// GetByDay returns the report for (projectName, day).
	GetByDay(ctx context.Context, projectName, date string) (*domain.Report, error)

	// GetLatestByDay returns the most recently created report on the day,
	// across projects.
	GetLatestByDay(ctx context.Context, date string) (*domain.Report, error)
}

// ExportSvcFacade renders reports into downloadable documents.
type ExportSvcFacade interface {
	// RenderExcel renders one report as an .xlsx workbook.
	RenderExcel(ctx context.Context, report *domain.Report) ([]byte, error)
}
