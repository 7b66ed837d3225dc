package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sitecrew/daily_report_app/internal/core/domain"
	portssvc "github.com/sitecrew/daily_report_app/internal/core/ports/services"
)

const reportSheet = "Daily Report"

// exportService renders reports as .xlsx workbooks.
type exportService struct{}

// NewExportService creates a new ExportService.
func NewExportService() portssvc.ExportSvcFacade {
	return &exportService{}
}

var _ portssvc.ExportSvcFacade = (*exportService)(nil)

// RenderExcel renders one report as an .xlsx workbook: a header block with
// project, weather and date, the activity texts, and one table per line item
// group with a TOTAL row.
func (s *exportService) RenderExcel(ctx context.Context, report *domain.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), reportSheet)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    boxBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10, Family: "Arial"},
		Border: boxBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cell style: %w", err)
	}
	numStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    boxBorder(),
		CustomNumFmt: func() *string {
			fmtStr := `#,##0.##;(#,##0.##);"-"`
			return &fmtStr
		}(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create number style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    boxBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create total style: %w", err)
	}

	if err := f.SetColWidth(reportSheet, "A", "A", 42); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(reportSheet, "B", "E", 14); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.MergeCell(reportSheet, "A1", "E1"); err != nil {
		return nil, fmt.Errorf("failed to merge title cells: %w", err)
	}
	f.SetCellValue(reportSheet, "A1", "DAILY CONSTRUCTION REPORT")
	f.SetCellStyle(reportSheet, "A1", "E1", titleStyle)

	f.SetCellValue(reportSheet, "A3", fmt.Sprintf("Project Name : %s", report.ProjectName))
	f.SetCellValue(reportSheet, "A4", fmt.Sprintf("Weather : AM %s  |  PM %s", report.WeatherAM, report.WeatherPM))
	f.SetCellValue(reportSheet, "A5", fmt.Sprintf("Temperature : AM %s  |  PM %s", report.TempAM, report.TempPM))
	f.SetCellValue(reportSheet, "E3", report.ReportDate.Format("Monday, January 02, 2006"))
	f.SetCellValue(reportSheet, "E4", fmt.Sprintf("Status: %s", report.Status))

	f.SetCellValue(reportSheet, "A7", "Activities Today")
	f.SetCellStyle(reportSheet, "A7", "A7", headerStyle)
	f.SetCellValue(reportSheet, "A8", report.ActivityToday)
	f.SetCellValue(reportSheet, "D7", "Work Plan Next Day")
	f.SetCellStyle(reportSheet, "D7", "D7", headerStyle)
	f.SetCellValue(reportSheet, "D8", report.WorkPlanNextDay)

	row := 10
	groups := []struct {
		title string
		items []domain.LineItem
	}{
		{"Management Team", report.ManagementTeam},
		{"Working Team", report.WorkingTeam},
		{"Materials", report.Materials},
		{"Machinery", report.Machinery},
	}
	for _, g := range groups {
		var err error
		row, err = writeLineItemTable(f, row, g.title, g.items, headerStyle, cellStyle, numStyle, totalStyle)
		if err != nil {
			return nil, fmt.Errorf("failed to write %s table: %w", g.title, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func boxBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
}

// writeLineItemTable writes one group table starting at startRow and returns
// the row index following the table. The Total column carries a formula so
// the workbook stays live when edited, matching the numbers stored upstream.
func writeLineItemTable(f *excelize.File, startRow int, title string, items []domain.LineItem, headerStyle, cellStyle, numStyle, totalStyle int) (int, error) {
	r := startRow
	if err := f.MergeCell(reportSheet, fmt.Sprintf("A%d", r), fmt.Sprintf("E%d", r)); err != nil {
		return 0, err
	}
	f.SetCellValue(reportSheet, fmt.Sprintf("A%d", r), title)
	f.SetCellStyle(reportSheet, fmt.Sprintf("A%d", r), fmt.Sprintf("E%d", r), headerStyle)
	r++

	headers := []string{"Description", "Unit", "Previous", "Today", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, r)
		f.SetCellValue(reportSheet, cell, h)
	}
	f.SetCellStyle(reportSheet, fmt.Sprintf("A%d", r), fmt.Sprintf("E%d", r), headerStyle)
	r++

	firstDataRow := r
	for _, item := range items {
		f.SetCellValue(reportSheet, fmt.Sprintf("A%d", r), item.Description)
		f.SetCellValue(reportSheet, fmt.Sprintf("B%d", r), item.Unit)
		prev, _ := item.Prev.Float64()
		today, _ := item.Today.Float64()
		f.SetCellValue(reportSheet, fmt.Sprintf("C%d", r), prev)
		f.SetCellValue(reportSheet, fmt.Sprintf("D%d", r), today)
		if err := f.SetCellFormula(reportSheet, fmt.Sprintf("E%d", r), fmt.Sprintf("C%d+D%d", r, r)); err != nil {
			return 0, err
		}
		f.SetCellStyle(reportSheet, fmt.Sprintf("A%d", r), fmt.Sprintf("B%d", r), cellStyle)
		f.SetCellStyle(reportSheet, fmt.Sprintf("C%d", r), fmt.Sprintf("E%d", r), numStyle)
		r++
	}

	f.SetCellValue(reportSheet, fmt.Sprintf("A%d", r), "TOTAL")
	f.SetCellStyle(reportSheet, fmt.Sprintf("A%d", r), fmt.Sprintf("B%d", r), totalStyle)
	if r > firstDataRow {
		for _, col := range []string{"C", "D", "E"} {
			formula := fmt.Sprintf("SUM(%s%d:%s%d)", col, firstDataRow, col, r-1)
			if err := f.SetCellFormula(reportSheet, fmt.Sprintf("%s%d", col, r), formula); err != nil {
				return 0, err
			}
		}
	}
	f.SetCellStyle(reportSheet, fmt.Sprintf("C%d", r), fmt.Sprintf("E%d", r), totalStyle)

	return r + 2, nil
}
