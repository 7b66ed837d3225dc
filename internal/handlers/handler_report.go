package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitecrew/daily_report_app/internal/apperrors"
	portssvc "github.com/sitecrew/daily_report_app/internal/core/ports/services"
	"github.com/sitecrew/daily_report_app/internal/dto"
	"github.com/sitecrew/daily_report_app/internal/middleware"
	"github.com/sitecrew/daily_report_app/internal/utils/dateutil"
)

// reportHandler handles HTTP requests for daily reports.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
	exportService portssvc.ExportSvcFacade
}

func newReportHandler(rs portssvc.ReportSvcFacade, es portssvc.ExportSvcFacade) *reportHandler {
	return &reportHandler{
		reportService: rs,
		exportService: es,
	}
}

// RegisterReportRoutes registers routes related to daily reports.
func RegisterReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade, exportService portssvc.ExportSvcFacade) {
	h := newReportHandler(reportService, exportService)

	reports := rg.Group("/daily-reports")
	{
		reports.GET("", h.listReports)
		reports.POST("/save", h.saveDraft)
		reports.POST("/submit", h.submitReport)
		reports.GET("/date/:date", h.getLatestByDay)
		reports.GET("/project/:projectName/date/:date", h.getByDay)
		reports.GET("/project/:projectName/date/:date/export", h.exportReport)
	}
}

// reportErrorResponse translates service errors to HTTP responses.
func reportErrorResponse(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report date"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": "Report has already been submitted"})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Report was created concurrently, please retry the save"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// listReports godoc
// @Summary List daily reports
// @Description Returns reports ordered by day descending, optionally filtered by project
// @Tags daily-reports
// @Produce json
// @Param projectName query string false "Filter by project name"
// @Success 200 {array} dto.ReportResponse
// @Failure 500 {object} map[string]string "Failed to list reports"
// @Security BearerAuth
// @Router /daily-reports [get]
func (h *reportHandler) listReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var projectName *string
	if v, ok := c.GetQuery("projectName"); ok && v != "" {
		projectName = &v
	}

	reports, err := h.reportService.GetAll(c.Request.Context(), projectName)
	if err != nil {
		reportErrorResponse(c, logger, err, "list reports")
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponses(reports))
}

// saveDraft godoc
// @Summary Save a draft report
// @Description Creates or updates the draft for (projectName, reportDate), recomputing rolling totals
// @Tags daily-reports
// @Accept json
// @Produce json
// @Param report body dto.SaveReportRequest true "Report details"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Report already submitted"
// @Failure 500 {object} map[string]string "Failed to save report"
// @Security BearerAuth
// @Router /daily-reports/save [post]
func (h *reportHandler) saveDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SaveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.reportService.SaveDraft(c.Request.Context(), req, userID)
	if err != nil {
		reportErrorResponse(c, logger, err, "save report")
		return
	}

	logger.Info("Draft report saved",
		slog.String("report_id", report.ReportID),
		slog.String("project_name", report.ProjectName),
	)
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// submitReport godoc
// @Summary Submit a daily report
// @Description Marks the report for (projectName, date) submitted; idempotent
// @Tags daily-reports
// @Accept json
// @Produce json
// @Param submission body dto.SubmitReportRequest true "Submission key"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to submit report"
// @Security BearerAuth
// @Router /daily-reports/submit [post]
func (h *reportHandler) submitReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.reportService.Submit(c.Request.Context(), req.ProjectName, req.Date, userID)
	if err != nil {
		reportErrorResponse(c, logger, err, "submit report")
		return
	}

	logger.Info("Report submitted",
		slog.String("report_id", report.ReportID),
		slog.String("project_name", report.ProjectName),
	)
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// getLatestByDay godoc
// @Summary Get the latest report on a day
// @Description Returns the most recently created report on the given day, across projects
// @Tags daily-reports
// @Produce json
// @Param date path string true "Report date (YYYY-MM-DD or ISO datetime)"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "Report not found"
// @Security BearerAuth
// @Router /daily-reports/date/{date} [get]
func (h *reportHandler) getLatestByDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.reportService.GetLatestByDay(c.Request.Context(), c.Param("date"))
	if err != nil {
		reportErrorResponse(c, logger, err, "get report")
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// getByDay godoc
// @Summary Get a project's report for a day
// @Description Returns the report for (projectName, date)
// @Tags daily-reports
// @Produce json
// @Param projectName path string true "Project name"
// @Param date path string true "Report date (YYYY-MM-DD or ISO datetime)"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "Report not found"
// @Security BearerAuth
// @Router /daily-reports/project/{projectName}/date/{date} [get]
func (h *reportHandler) getByDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.reportService.GetByDay(c.Request.Context(), c.Param("projectName"), c.Param("date"))
	if err != nil {
		reportErrorResponse(c, logger, err, "get report")
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// exportReport godoc
// @Summary Export a report as Excel
// @Description Renders the report for (projectName, date) as an .xlsx download
// @Tags daily-reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param projectName path string true "Project name"
// @Param date path string true "Report date (YYYY-MM-DD or ISO datetime)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "Report not found"
// @Security BearerAuth
// @Router /daily-reports/project/{projectName}/date/{date}/export [get]
func (h *reportHandler) exportReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.reportService.GetByDay(c.Request.Context(), c.Param("projectName"), c.Param("date"))
	if err != nil {
		reportErrorResponse(c, logger, err, "get report")
		return
	}

	workbook, err := h.exportService.RenderExcel(c.Request.Context(), report)
	if err != nil {
		logger.Error("Failed to render report workbook", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export report"})
		return
	}

	filename := fmt.Sprintf("daily_report_%s_%s.xlsx", report.ProjectName, dateutil.FormatDay(report.ReportDate))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}
