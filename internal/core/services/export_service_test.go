package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sitecrew/daily_report_app/internal/core/domain"
	"github.com/sitecrew/daily_report_app/internal/core/services"
)

func exportReport() *domain.Report {
	submittedAt := time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC)
	return &domain.Report{
		ReportID:      "r-1",
		ProjectName:   "Bridge A",
		ReportDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		WeatherAM:     "Sunny",
		WeatherPM:     "Cloudy",
		TempAM:        "18C",
		TempPM:        "24C",
		ActivityToday: "Poured foundation",
		Status:        domain.StatusSubmitted,
		SubmittedAt:   &submittedAt,
		Materials: []domain.LineItem{
			{Description: "Cement", Unit: "bags", Prev: decimal.NewFromInt(10), Today: decimal.NewFromInt(5), Accumulated: decimal.NewFromInt(15)},
			{Description: "Sand", Unit: "m3", Prev: decimal.Zero, Today: decimal.NewFromInt(4), Accumulated: decimal.NewFromInt(4)},
		},
	}
}

func TestRenderExcel_ProducesReadableWorkbook(t *testing.T) {
	svc := services.NewExportService()

	data, err := svc.RenderExcel(context.Background(), exportReport())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Daily Report"}, f.GetSheetList())

	title, err := f.GetCellValue("Daily Report", "A1")
	require.NoError(t, err)
	require.Equal(t, "DAILY CONSTRUCTION REPORT", title)

	project, err := f.GetCellValue("Daily Report", "A3")
	require.NoError(t, err)
	require.Equal(t, "Project Name : Bridge A", project)
}

func TestRenderExcel_LineItemTablesCarryFormulas(t *testing.T) {
	svc := services.NewExportService()

	data, err := svc.RenderExcel(context.Background(), exportReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	// Materials is the third group. Groups with no items occupy four rows
	// (title, headers, TOTAL, spacer), so the Materials title lands on row 18
	// and its first data row on row 20.
	desc, err := f.GetCellValue("Daily Report", "A20")
	require.NoError(t, err)
	require.Equal(t, "Cement", desc)

	total, err := f.GetCellFormula("Daily Report", "E20")
	require.NoError(t, err)
	require.Equal(t, "C20+D20", total)

	sum, err := f.GetCellFormula("Daily Report", "C22")
	require.NoError(t, err)
	require.Equal(t, "SUM(C20:C21)", sum)
}

func TestRenderExcel_EmptyGroupsStillRender(t *testing.T) {
	svc := services.NewExportService()

	report := exportReport()
	report.Materials = nil

	data, err := svc.RenderExcel(context.Background(), report)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}
