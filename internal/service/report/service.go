package report

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/checkclock"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Check Clocks"

var headers = []string{
	"ID",
	"Employee Name",
	"Position",
	"Date",
	"Check In Time",
	"Check Out Time",
	"Work Hours",
	"Status",
	"Approved",
	"Location",
	"Address",
	"Latitude",
	"Longitude",
}

var columnWidths = map[string]float64{
	"A": 38, "B": 25, "C": 20, "D": 12, "E": 14, "F": 15, "G": 12,
	"H": 18, "I": 12, "J": 20, "K": 40, "L": 14, "M": 14,
}

type ReportServiceImpl struct {
	checkClockService checkclock.CheckClockService
	now               func() time.Time
}

func NewReportService(checkClockService checkclock.CheckClockService, loc *time.Location) report.ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportServiceImpl{
		checkClockService: checkClockService,
		now:               func() time.Time { return time.Now().In(loc) },
	}
}

// ExportCheckClocks implements report.ReportService.
func (s *ReportServiceImpl) ExportCheckClocks(ctx context.Context, companyID string, filter checkclock.RangeFilter) (report.ExportFile, error) {
	view, err := s.checkClockService.RangeView(ctx, companyID, filter)
	if err != nil {
		return report.ExportFile{}, err
	}

	content, err := renderWorkbook(view.CheckClocks)
	if err != nil {
		slog.Error("Failed to render check clock export", "error", err, "company_id", companyID)
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}

	return report.ExportFile{
		FileName:    exportFileName(s.now(), filter, view.FiltersApplied),
		ContentType: report.ContentTypeXLSX,
		Content:     content,
	}, nil
}

// exportFileName is check_clocks_<timestamp>.xlsx, with a _YYYY-MM suffix when
// the caller asked for a specific month.
func exportFileName(now time.Time, filter checkclock.RangeFilter, applied checkclock.FiltersApplied) string {
	name := "check_clocks_" + now.Format("2006-01-02_15-04-05")
	if filter.Month != "" && filter.Year != "" && applied.Month != nil && applied.Year != nil {
		name += fmt.Sprintf("_%04d-%02d", *applied.Year, *applied.Month)
	}
	return name + ".xlsx"
}

func renderWorkbook(rows []checkclock.AttendanceRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1E3A5F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    borders("#000000"),
	})
	if err != nil {
		return nil, err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    borders("#CCCCCC"),
	})
	if err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for r, row := range rows {
		values := exportValues(row)
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}
	if len(rows) > 0 {
		end, _ := excelize.CoordinatesToCellName(len(headers), len(rows)+1)
		if err := f.SetCellStyle(sheetName, "A2", end, dataStyle); err != nil {
			return nil, err
		}
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func borders(color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: 1},
		{Type: "top", Color: color, Style: 1},
		{Type: "right", Color: color, Style: 1},
		{Type: "bottom", Color: color, Style: 1},
	}
}

// exportValues flattens a row in header order. Missing values render as "-".
func exportValues(row checkclock.AttendanceRow) []string {
	workHours := "-"
	if row.WorkDuration != nil {
		workHours = row.WorkDuration.String()
	}

	return []string{
		orDash(row.ID),
		dash(row.EmployeeName),
		orDash(row.Position),
		dash(row.Date),
		orDash(row.ClockIn),
		orDash(row.ClockOut),
		workHours,
		dash(string(row.Status)),
		string(row.ApprovalLabel),
		orDash(row.Location),
		orDash(row.Address),
		floatOrDash(row.Latitude),
		floatOrDash(row.Longitude),
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return dash(*s)
}

func floatOrDash(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
