package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportStatus indicates the lifecycle state of a daily report.
type ReportStatus string

const (
	StatusDraft     ReportStatus = "draft"
	StatusSubmitted ReportStatus = "submitted"
)

// WeatherPeriod distinguishes the morning and afternoon halves of a report day.
type WeatherPeriod string

const (
	PeriodAM WeatherPeriod = "AM"
	PeriodPM WeatherPeriod = "PM"
)

// LineItem is one tracked resource (a team role, a material, a machine) on a
// report day. Prev carries the accumulated quantity from the latest earlier
// report whose item has the same description; Accumulated = Prev + Today and
// is always recomputed server-side, never taken from input.
type LineItem struct {
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Prev        decimal.Decimal `json:"prev"`
	Today       decimal.Decimal `json:"today"`
	Accumulated decimal.Decimal `json:"accumulated"`
}

// Report is the per-project, per-day record of site activity and resource
// usage. Exactly one report exists per (ProjectName, ReportDate) pair;
// ReportDate is always the canonical UTC-midnight instant of its calendar day.
type Report struct {
	ReportID    string    `json:"reportID"` // Primary key (UUID)
	ProjectName string    `json:"projectName"`
	ReportDate  time.Time `json:"reportDate"`

	WeatherAM     string        `json:"weatherAM"`
	WeatherPM     string        `json:"weatherPM"`
	TempAM        string        `json:"tempAM"`
	TempPM        string        `json:"tempPM"`
	CurrentPeriod WeatherPeriod `json:"currentPeriod"`

	ActivityToday   string `json:"activityToday"`
	WorkPlanNextDay string `json:"workPlanNextDay"`

	ManagementTeam []LineItem `json:"managementTeam"`
	WorkingTeam    []LineItem `json:"workingTeam"`
	Materials      []LineItem `json:"materials"`
	Machinery      []LineItem `json:"machinery"`

	Status      ReportStatus `json:"status"`
	SubmittedAt *time.Time   `json:"submittedAt,omitempty"`

	AuditFields
}
