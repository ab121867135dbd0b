package checkclock

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/checkclock"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/employee"
	"golang.org/x/sync/errgroup"
)

// Aggregator turns raw ledger rows into one row per employee per day. It only
// reads from the store.
type Aggregator struct {
	checkClockRepo checkclock.CheckClockRepository
	employeeRepo   employee.EmployeeRepository
}

func NewAggregator(checkClockRepo checkclock.CheckClockRepository, employeeRepo employee.EmployeeRepository) *Aggregator {
	return &Aggregator{
		checkClockRepo: checkClockRepo,
		employeeRepo:   employeeRepo,
	}
}

// BuildDailyView pairs every check-in on date with its check-out, then appends an
// Absent row for each active employee with no event at all on date. A non-empty
// employeeFilter restricts both kinds of rows. Malformed ids in it are ignored.
func (a *Aggregator) BuildDailyView(ctx context.Context, companyID string, date time.Time, employeeFilter []string) ([]checkclock.AttendanceRow, error) {
	allowed := toSet(checkclock.NormalizeEmployeeIDs(employeeFilter))
	keep := func(employeeID string) bool {
		return len(allowed) == 0 || allowed[employeeID]
	}

	var (
		rows      []checkclock.AttendanceRow
		absentees []employee.Employee
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Check-ins paired with their check-outs
	g.Go(func() error {
		checkIns, err := a.checkClockRepo.FindCheckInsByDateRange(gCtx, companyID, date, date, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to load check-ins: %w", err)
		}

		var present []checkclock.CheckClock
		for _, c := range checkIns {
			if keep(c.EmployeeID) {
				present = append(present, c)
			}
		}

		rows, err = a.pair(gCtx, companyID, date, date, present)
		return err
	})

	// 2. Active employees with no event on date
	g.Go(func() error {
		withEvents, err := a.checkClockRepo.FindEmployeeIDsWithEvents(gCtx, companyID, date)
		if err != nil {
			return fmt.Errorf("failed to load employees with events: %w", err)
		}

		absentees, err = a.employeeRepo.FindActiveEmployees(gCtx, companyID, withEvents)
		if err != nil {
			return fmt.Errorf("failed to load active employees: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, emp := range absentees {
		if !keep(emp.ID) {
			continue
		}
		rows = append(rows, absentRow(emp, date))
	}

	return rows, nil
}

// BuildRangeView pairs every check-in in the resolved range. Position and status
// filters apply to the check-in query. No absentee rows are synthesized.
func (a *Aggregator) BuildRangeView(ctx context.Context, companyID string, r checkclock.ResolvedRange) ([]checkclock.AttendanceRow, error) {
	checkIns, err := a.checkClockRepo.FindCheckInsByDateRange(ctx, companyID, r.Start, r.End, r.Positions, r.Statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	return a.pair(ctx, companyID, r.Start, r.End, checkIns)
}

func (a *Aggregator) pair(ctx context.Context, companyID string, start, end time.Time, checkIns []checkclock.CheckClock) ([]checkclock.AttendanceRow, error) {
	rows := make([]checkclock.AttendanceRow, 0, len(checkIns))
	if len(checkIns) == 0 {
		return rows, nil
	}

	checkOuts, err := a.checkClockRepo.FindCheckOutsByDateRange(ctx, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-outs: %w", err)
	}

	byDay := make(map[string][]checkclock.CheckClock, len(checkOuts))
	for _, out := range checkOuts {
		key := dayKey(out.EmployeeID, out.Date)
		byDay[key] = append(byDay[key], out)
	}

	for _, in := range checkIns {
		candidates := byDay[dayKey(in.EmployeeID, in.Date)]
		if len(candidates) > 1 {
			return nil, fmt.Errorf("%w: employee %s on %s", checkclock.ErrMultipleCheckOuts, in.EmployeeID, in.Date.Format(checkclock.DateLayout))
		}

		var out *checkclock.CheckClock
		if len(candidates) == 1 {
			out = &candidates[0]
		}
		rows = append(rows, buildRow(in, out))
	}

	return rows, nil
}

// buildRow renders an event, and the check-out paired with it if any, as a row.
func buildRow(in checkclock.CheckClock, out *checkclock.CheckClock) checkclock.AttendanceRow {
	id := in.ID
	clockType := in.Type

	clockOut := in.CheckOutTime
	if out != nil {
		clockOut = out.CheckOutTime
	}

	return checkclock.AttendanceRow{
		ID:            &id,
		EmployeeID:    in.EmployeeID,
		EmployeeName:  in.EmployeeName,
		Position:      in.PositionName,
		Type:          &clockType,
		Date:          in.Date.Format(checkclock.DateLayout),
		ClockIn:       in.ClockTime,
		ClockOut:      clockOut,
		WorkDuration:  ComputeWorkDuration(in.ClockTime, clockOut),
		Approved:      in.Approved,
		ApprovalLabel: checkclock.ApprovalLabelOf(in.Approved),
		Status:        in.StatusOrNone(),
		StartDate:     formatDate(in.StartDate),
		EndDate:       formatDate(in.EndDate),
		Location:      in.Location,
		Address:       in.Address,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		Photo:         in.Photo,
	}
}

func absentRow(emp employee.Employee, date time.Time) checkclock.AttendanceRow {
	return checkclock.AttendanceRow{
		EmployeeID:    emp.ID,
		EmployeeName:  emp.FullName,
		Position:      emp.PositionName,
		Date:          date.Format(checkclock.DateLayout),
		ApprovalLabel: checkclock.ApprovalLabelOf(nil),
		Status:        checkclock.StatusAbsent,
	}
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format(checkclock.DateLayout)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(checkclock.DateLayout)
	return &s
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
