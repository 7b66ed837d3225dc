package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportStatus indicates the lifecycle state of a daily report row.
type ReportStatus string

const (
	StatusDraft     ReportStatus = "draft"
	StatusSubmitted ReportStatus = "submitted"
)

// LineItem is the persisted shape of one resource row inside a jsonb group
// column. The json tags are the storage format.
type LineItem struct {
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Prev        decimal.Decimal `json:"prev"`
	Today       decimal.Decimal `json:"today"`
	Accumulated decimal.Decimal `json:"accumulated"`
}

// Report mirrors one row of the daily_reports table. The four line item
// groups live in jsonb columns; report_date always holds the canonical
// UTC-midnight instant and is unique per project.
type Report struct {
	ReportID    string    `json:"reportID" db:"report_id"`
	ProjectName string    `json:"projectName" db:"project_name"`
	ReportDate  time.Time `json:"reportDate" db:"report_date"`

	WeatherAM     string `json:"weatherAM" db:"weather_am"`
	WeatherPM     string `json:"weatherPM" db:"weather_pm"`
	TempAM        string `json:"tempAM" db:"temp_am"`
	TempPM        string `json:"tempPM" db:"temp_pm"`
	CurrentPeriod string `json:"currentPeriod" db:"current_period"`

	ActivityToday   string `json:"activityToday" db:"activity_today"`
	WorkPlanNextDay string `json:"workPlanNextDay" db:"work_plan_next_day"`

	ManagementTeam []LineItem `json:"managementTeam" db:"management_team"`
	WorkingTeam    []LineItem `json:"workingTeam" db:"working_team"`
	Materials      []LineItem `json:"materials" db:"materials"`
	Machinery      []LineItem `json:"machinery" db:"machinery"`

	Status      ReportStatus `json:"status" db:"status"`
	SubmittedAt *time.Time   `json:"submittedAt,omitempty" db:"submitted_at"`

	AuditFields
}
