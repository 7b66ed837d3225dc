package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitecrew/daily_report_app/internal/core/domain"
)

// LineItemInput is one resource row as supplied by the caller. Prev and
// accumulated amounts are never accepted from input; the server recomputes
// them from the stored baseline.
type LineItemInput struct {
	Description string          `json:"description" binding:"required"`
	Unit        string          `json:"unit"`
	Today       decimal.Decimal `json:"today"`
}

// SaveReportRequest is the payload for saving (creating or updating) a draft
// report. ReportDate accepts a date or datetime string; it is normalized to
// the canonical UTC day key server-side.
type SaveReportRequest struct {
	ProjectName string `json:"projectName" binding:"required"`
	ReportDate  string `json:"reportDate" binding:"required"`

	WeatherAM     string `json:"weatherAM"`
	WeatherPM     string `json:"weatherPM"`
	TempAM        string `json:"tempAM"`
	TempPM        string `json:"tempPM"`
	CurrentPeriod string `json:"currentPeriod" binding:"omitempty,period"`

	ActivityToday   string `json:"activityToday" binding:"required"`
	WorkPlanNextDay string `json:"workPlanNextDay"`

	ManagementTeam []LineItemInput `json:"managementTeam" binding:"omitempty,dive"`
	WorkingTeam    []LineItemInput `json:"workingTeam" binding:"omitempty,dive"`
	Materials      []LineItemInput `json:"materials" binding:"omitempty,dive"`
	Machinery      []LineItemInput `json:"machinery" binding:"omitempty,dive"`
}

// SubmitReportRequest is the payload for submitting a report.
type SubmitReportRequest struct {
	ProjectName string `json:"projectName" binding:"required"`
	Date        string `json:"date" binding:"required"`
}

// LineItemResponse is one resource row with computed rolling totals.
type LineItemResponse struct {
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Prev        decimal.Decimal `json:"prev"`
	Today       decimal.Decimal `json:"today"`
	Accumulated decimal.Decimal `json:"accumulated"`
}

// ReportResponse is the full report as returned to clients.
type ReportResponse struct {
	ReportID        string             `json:"reportID"`
	ProjectName     string             `json:"projectName"`
	ReportDate      time.Time          `json:"reportDate"`
	WeatherAM       string             `json:"weatherAM"`
	WeatherPM       string             `json:"weatherPM"`
	TempAM          string             `json:"tempAM"`
	TempPM          string             `json:"tempPM"`
	CurrentPeriod   string             `json:"currentPeriod"`
	ActivityToday   string             `json:"activityToday"`
	WorkPlanNextDay string             `json:"workPlanNextDay"`
	ManagementTeam  []LineItemResponse `json:"managementTeam"`
	WorkingTeam     []LineItemResponse `json:"workingTeam"`
	Materials       []LineItemResponse `json:"materials"`
	Machinery       []LineItemResponse `json:"machinery"`
	Status          string             `json:"status"`
	SubmittedAt     *time.Time         `json:"submittedAt,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
}

// ToLineItemInputs converts caller line items into domain items with zeroed
// computed fields, ready for the rolling calculator.
func ToLineItemInputs(items []LineItemInput) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, it := range items {
		out[i] = domain.LineItem{
			Description: it.Description,
			Unit:        it.Unit,
			Today:       it.Today,
		}
	}
	return out
}

func toLineItemResponses(items []domain.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, it := range items {
		out[i] = LineItemResponse{
			Description: it.Description,
			Unit:        it.Unit,
			Prev:        it.Prev,
			Today:       it.Today,
			Accumulated: it.Accumulated,
		}
	}
	return out
}

// ToReportResponse converts a domain Report to its response DTO.
func ToReportResponse(r *domain.Report) ReportResponse {
	return ReportResponse{
		ReportID:        r.ReportID,
		ProjectName:     r.ProjectName,
		ReportDate:      r.ReportDate,
		WeatherAM:       r.WeatherAM,
		WeatherPM:       r.WeatherPM,
		TempAM:          r.TempAM,
		TempPM:          r.TempPM,
		CurrentPeriod:   string(r.CurrentPeriod),
		ActivityToday:   r.ActivityToday,
		WorkPlanNextDay: r.WorkPlanNextDay,
		ManagementTeam:  toLineItemResponses(r.ManagementTeam),
		WorkingTeam:     toLineItemResponses(r.WorkingTeam),
		Materials:       toLineItemResponses(r.Materials),
		Machinery:       toLineItemResponses(r.Machinery),
		Status:          string(r.Status),
		SubmittedAt:     r.SubmittedAt,
		CreatedAt:       r.CreatedAt,
		LastUpdatedAt:   r.LastUpdatedAt,
	}
}

// ToReportResponses converts a slice of domain Reports.
func ToReportResponses(rs []domain.Report) []ReportResponse {
	out := make([]ReportResponse, len(rs))
	for i := range rs {
		out[i] = ToReportResponse(&rs[i])
	}
	return out
}
