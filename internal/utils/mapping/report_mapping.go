package mapping

import (
	"github.com/sitecrew/daily_report_app/internal/core/domain"
	"github.com/sitecrew/daily_report_app/internal/models"
)

// ToModelLineItems converts a domain line item group to its model form.
func ToModelLineItems(items []domain.LineItem) []models.LineItem {
	out := make([]models.LineItem, len(items))
	for i, it := range items {
		out[i] = models.LineItem{
			Description: it.Description,
			Unit:        it.Unit,
			Prev:        it.Prev,
			Today:       it.Today,
			Accumulated: it.Accumulated,
		}
	}
	return out
}

// ToDomainLineItems converts a model line item group to its domain form.
func ToDomainLineItems(items []models.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, it := range items {
		out[i] = domain.LineItem{
			Description: it.Description,
			Unit:        it.Unit,
			Prev:        it.Prev,
			Today:       it.Today,
			Accumulated: it.Accumulated,
		}
	}
	return out
}

// ToModelReport converts a domain Report to a model Report.
func ToModelReport(d domain.Report) models.Report {
	return models.Report{
		ReportID:        d.ReportID,
		ProjectName:     d.ProjectName,
		ReportDate:      d.ReportDate,
		WeatherAM:       d.WeatherAM,
		WeatherPM:       d.WeatherPM,
		TempAM:          d.TempAM,
		TempPM:          d.TempPM,
		CurrentPeriod:   string(d.CurrentPeriod),
		ActivityToday:   d.ActivityToday,
		WorkPlanNextDay: d.WorkPlanNextDay,
		ManagementTeam:  ToModelLineItems(d.ManagementTeam),
		WorkingTeam:     ToModelLineItems(d.WorkingTeam),
		Materials:       ToModelLineItems(d.Materials),
		Machinery:       ToModelLineItems(d.Machinery),
		Status:          models.ReportStatus(d.Status),
		SubmittedAt:     d.SubmittedAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReport converts a model Report to a domain Report.
func ToDomainReport(m models.Report) domain.Report {
	return domain.Report{
		ReportID:        m.ReportID,
		ProjectName:     m.ProjectName,
		ReportDate:      m.ReportDate,
		WeatherAM:       m.WeatherAM,
		WeatherPM:       m.WeatherPM,
		TempAM:          m.TempAM,
		TempPM:          m.TempPM,
		CurrentPeriod:   domain.WeatherPeriod(m.CurrentPeriod),
		ActivityToday:   m.ActivityToday,
		WorkPlanNextDay: m.WorkPlanNextDay,
		ManagementTeam:  ToDomainLineItems(m.ManagementTeam),
		WorkingTeam:     ToDomainLineItems(m.WorkingTeam),
		Materials:       ToDomainLineItems(m.Materials),
		Machinery:       ToDomainLineItems(m.Machinery),
		Status:          domain.ReportStatus(m.Status),
		SubmittedAt:     m.SubmittedAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReportSlice converts a slice of model Reports.
func ToDomainReportSlice(ms []models.Report) []domain.Report {
	out := make([]domain.Report, len(ms))
	for i, m := range ms {
		out[i] = ToDomainReport(m)
	}
	return out
}
