package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/checkclock"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubCheckClockService struct {
	checkclock.CheckClockService
	view       checkclock.RangeViewResponse
	err        error
	lastFilter checkclock.RangeFilter
}

func (s *stubCheckClockService) RangeView(_ context.Context, _ string, filter checkclock.RangeFilter) (checkclock.RangeViewResponse, error) {
	s.lastFilter = filter
	return s.view, s.err
}

func ptr[T any](v T) *T { return &v }

func newTestService(stub *stubCheckClockService) *ReportServiceImpl {
	svc := NewReportService(stub, time.UTC).(*ReportServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 5, 20, 14, 30, 5, 0, time.UTC) }
	return svc
}

func readRows(t *testing.T, content []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	return rows
}

func TestExportCheckClocks(t *testing.T) {
	month, year := 5, 2024
	stub := &stubCheckClockService{view: checkclock.RangeViewResponse{
		CheckClocks: []checkclock.AttendanceRow{
			{
				ID:            ptr("cc-1"),
				EmployeeID:    "emp-1",
				EmployeeName:  "Alice",
				Position:      ptr("Engineer"),
				Date:          "2024-05-20",
				ClockIn:       ptr("08:05:00"),
				ClockOut:      ptr("17:35:00"),
				WorkDuration:  &checkclock.WorkDuration{Hours: 9, Minutes: 30},
				Approved:      ptr(true),
				ApprovalLabel: checkclock.ApprovalApproved,
				Status:        checkclock.StatusLate,
				Location:      ptr("Head Office"),
				Address:       ptr("Jl. Merdeka 1"),
				Latitude:      ptr(-6.2),
				Longitude:     ptr(106.816666),
			},
			{
				ID:            ptr("cc-2"),
				EmployeeID:    "emp-2",
				EmployeeName:  "Bob",
				Date:          "2024-05-19",
				ClockIn:       ptr("09:00:00"),
				ApprovalLabel: checkclock.ApprovalPending,
				Status:        checkclock.StatusOnTime,
			},
		},
		FiltersApplied: checkclock.FiltersApplied{
			StartDate: "2024-05-01",
			EndDate:   "2024-05-31",
			Month:     &month,
			Year:      &year,
		},
	}}

	file, err := newTestService(stub).ExportCheckClocks(context.Background(), "company-1", checkclock.RangeFilter{Month: "5", Year: "2024"})
	require.NoError(t, err)

	assert.Equal(t, "check_clocks_2024-05-20_14-30-05_2024-05.xlsx", file.FileName)
	assert.Equal(t, report.ContentTypeXLSX, file.ContentType)
	assert.Equal(t, "5", stub.lastFilter.Month)

	rows := readRows(t, file.Content)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, []string{
		"cc-1", "Alice", "Engineer", "2024-05-20", "08:05:00", "17:35:00", "9h 30m",
		"Late", "Approved", "Head Office", "Jl. Merdeka 1", "-6.2", "106.816666",
	}, rows[1])
	assert.Equal(t, []string{
		"cc-2", "Bob", "-", "2024-05-19", "09:00:00", "-", "-",
		"On Time", "Pending", "-", "-", "-", "-",
	}, rows[2])
}

func TestExportCheckClocks_FileNameWithoutMonth(t *testing.T) {
	month, year := 5, 2024
	tests := []struct {
		name   string
		filter checkclock.RangeFilter
	}{
		{name: "default month", filter: checkclock.RangeFilter{}},
		{name: "month only", filter: checkclock.RangeFilter{Month: "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubCheckClockService{view: checkclock.RangeViewResponse{
				CheckClocks:    []checkclock.AttendanceRow{},
				FiltersApplied: checkclock.FiltersApplied{Month: &month, Year: &year},
			}}

			file, err := newTestService(stub).ExportCheckClocks(context.Background(), "company-1", tt.filter)
			require.NoError(t, err)
			assert.Equal(t, "check_clocks_2024-05-20_14-30-05.xlsx", file.FileName)
		})
	}
}

func TestExportCheckClocks_DateRange(t *testing.T) {
	stub := &stubCheckClockService{view: checkclock.RangeViewResponse{
		CheckClocks:    []checkclock.AttendanceRow{},
		FiltersApplied: checkclock.FiltersApplied{StartDate: "2024-05-01", EndDate: "2024-05-07"},
	}}

	file, err := newTestService(stub).ExportCheckClocks(context.Background(), "company-1", checkclock.RangeFilter{
		StartDate: "2024-05-01",
		EndDate:   "2024-05-07",
		Month:     "5",
		Year:      "2024",
	})
	require.NoError(t, err)
	assert.Equal(t, "check_clocks_2024-05-20_14-30-05.xlsx", file.FileName)

	rows := readRows(t, file.Content)
	require.Len(t, rows, 1)
	assert.Equal(t, headers, rows[0])
}

func TestExportCheckClocks_RangeViewError(t *testing.T) {
	boom := errors.New("boom")
	stub := &stubCheckClockService{err: boom}

	_, err := newTestService(stub).ExportCheckClocks(context.Background(), "company-1", checkclock.RangeFilter{})
	assert.ErrorIs(t, err, boom)
}
