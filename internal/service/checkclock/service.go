package checkclock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/checkclock"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/setting"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/repository/postgresql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/cmlabs-hris/hris-checkclock-go/internal/service/checkclock")

type checkClockServiceImpl struct {
	checkClockRepo checkclock.CheckClockRepository
	employeeRepo   employee.EmployeeRepository
	settingRepo    setting.SettingRepository
	windowRepo     setting.WindowRepository
	publisher      checkclock.DecisionPublisher
	engine         *RuleEngine
	aggregator     *Aggregator
	now            func() time.Time
}

func NewCheckClockService(
	checkClockRepo checkclock.CheckClockRepository,
	employeeRepo employee.EmployeeRepository,
	settingRepo setting.SettingRepository,
	windowRepo setting.WindowRepository,
	aggregator *Aggregator,
	publisher checkclock.DecisionPublisher,
	loc *time.Location,
) checkclock.CheckClockService {
	return newCheckClockService(checkClockRepo, employeeRepo, settingRepo, windowRepo, aggregator, publisher, loc)
}

func newCheckClockService(
	checkClockRepo checkclock.CheckClockRepository,
	employeeRepo employee.EmployeeRepository,
	settingRepo setting.SettingRepository,
	windowRepo setting.WindowRepository,
	aggregator *Aggregator,
	publisher checkclock.DecisionPublisher,
	loc *time.Location,
) *checkClockServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &checkClockServiceImpl{
		checkClockRepo: checkClockRepo,
		employeeRepo:   employeeRepo,
		settingRepo:    settingRepo,
		windowRepo:     windowRepo,
		publisher:      publisher,
		engine:         NewRuleEngine(),
		aggregator:     aggregator,
		now:            func() time.Time { return time.Now().In(loc) },
	}
}

// DailyView implements checkclock.CheckClockService.
func (s *checkClockServiceImpl) DailyView(ctx context.Context, companyID string, filter checkclock.DailyFilter) (checkclock.DailyViewResponse, error) {
	ctx, span := startSpan(ctx, "CheckClockService.DailyView", companyID)
	defer span.End()

	date := filter.ResolveDate(s.now())
	rows, err := s.aggregator.BuildDailyView(ctx, companyID, date, filter.EmployeeIDs)
	if err != nil {
		recordError(span, err)
		return checkclock.DailyViewResponse{}, err
	}

	return checkclock.DailyViewResponse{
		Date:        date.Format(checkclock.DateLayout),
		CheckClocks: rows,
	}, nil
}

// RangeView implements checkclock.CheckClockService.
func (s *checkClockServiceImpl) RangeView(ctx context.Context, companyID string, filter checkclock.RangeFilter) (checkclock.RangeViewResponse, error) {
	ctx, span := startSpan(ctx, "CheckClockService.RangeView", companyID)
	defer span.End()

	resolved := filter.Resolve(s.now())
	rows, err := s.aggregator.BuildRangeView(ctx, companyID, resolved)
	if err != nil {
		recordError(span, err)
		return checkclock.RangeViewResponse{}, err
	}

	return checkclock.RangeViewResponse{
		CheckClocks:    rows,
		FiltersApplied: resolved.FiltersApplied(),
	}, nil
}

// Create implements checkclock.CheckClockService.
func (s *checkClockServiceImpl) Create(ctx context.Context, companyID string, req checkclock.CreateCheckClockRequest) (checkclock.AttendanceRow, error) {
	ctx, span := startSpan(ctx, "CheckClockService.Create", companyID)
	defer span.End()

	if err := req.Validate(); err != nil {
		return checkclock.AttendanceRow{}, err
	}
	span.SetAttributes(
		attribute.String("app.employeeId", req.EmployeeID),
		attribute.String("app.checkClockType", req.Type),
	)

	date, _ := validator.IsValidDateIn(req.Date, s.now().Location())

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return checkclock.AttendanceRow{}, err
		}
		recordError(span, err)
		return checkclock.AttendanceRow{}, fmt.Errorf("failed to get employee: %w", err)
	}

	entry := checkclock.CheckClock{
		CompanyID:    companyID,
		EmployeeID:   emp.ID,
		SettingID:    nonEmpty(req.SettingID),
		BranchID:     nonEmpty(req.BranchID),
		Type:         checkclock.ClockType(req.Type),
		Date:         date,
		Location:     req.Location,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Photo:        req.Photo,
		EmployeeName: emp.FullName,
		PositionName: emp.PositionName,
	}
	if err := s.verifyPlacement(ctx, &entry, emp); err != nil {
		recordError(span, err)
		return checkclock.AttendanceRow{}, err
	}
	if entry.BranchID == nil {
		entry.BranchID = emp.BranchID
	}

	var created checkclock.CheckClock
	switch entry.Type {
	case checkclock.TypeCheckIn:
		created, err = s.checkIn(ctx, entry, req)
	case checkclock.TypeCheckOut:
		created, err = s.checkOut(ctx, entry, req)
	default:
		created, err = s.submitLeave(ctx, entry, req)
	}
	if err != nil {
		recordError(span, err)
		return checkclock.AttendanceRow{}, err
	}

	created.EmployeeName = emp.FullName
	created.PositionName = emp.PositionName
	return buildRow(created, nil), nil
}

func (s *checkClockServiceImpl) checkIn(ctx context.Context, entry checkclock.CheckClock, req checkclock.CreateCheckClockRequest) (checkclock.CheckClock, error) {
	existing, err := s.checkClockRepo.FindByEmployeeAndDate(ctx, entry.CompanyID, entry.EmployeeID, entry.Date)
	if err != nil {
		return checkclock.CheckClock{}, fmt.Errorf("failed to check existing records: %w", err)
	}
	if len(existing) > 0 {
		return checkclock.CheckClock{}, checkclock.ErrAlreadyCheckedIn
	}

	if entry.SettingID == nil {
		settingID, err := s.resolveSettingID(ctx, entry.CompanyID, entry.BranchID)
		if err != nil {
			return checkclock.CheckClock{}, err
		}
		entry.SettingID = settingID
	}

	clock, _ := utils.NormalizeClockTime(*req.Time)
	classification, err := s.classify(ctx, entry.CompanyID, entry.SettingID, entry.Date, clock)
	if err != nil {
		return checkclock.CheckClock{}, err
	}
	if !classification.Scheduled {
		slog.Warn("No schedule window applied, check-in defaulted to On Time",
			"company_id", entry.CompanyID,
			"employee_id", entry.EmployeeID,
			"setting_id", entry.SettingID,
			"date", entry.Date.Format(checkclock.DateLayout),
		)
	}

	entry.ClockTime = &clock
	entry.Status = &classification.Status

	created, err := s.checkClockRepo.Create(ctx, entry)
	if err != nil {
		if postgresql.IsUniqueViolation(err) {
			return checkclock.CheckClock{}, checkclock.ErrAlreadyCheckedIn
		}
		return checkclock.CheckClock{}, fmt.Errorf("failed to create check-in: %w", err)
	}
	return created, nil
}

func (s *checkClockServiceImpl) checkOut(ctx context.Context, entry checkclock.CheckClock, req checkclock.CreateCheckClockRequest) (checkclock.CheckClock, error) {
	existing, err := s.checkClockRepo.FindByEmployeeAndDate(ctx, entry.CompanyID, entry.EmployeeID, entry.Date)
	if err != nil {
		return checkclock.CheckClock{}, fmt.Errorf("failed to check existing records: %w", err)
	}

	var checkIn *checkclock.CheckClock
	for i := range existing {
		switch existing[i].Type {
		case checkclock.TypeCheckOut:
			return checkclock.CheckClock{}, checkclock.ErrAlreadyCheckedOut
		case checkclock.TypeCheckIn:
			if checkIn == nil {
				checkIn = &existing[i]
			}
		}
	}
	if checkIn == nil {
		return checkclock.CheckClock{}, checkclock.ErrCheckInRequired
	}

	clock, _ := utils.NormalizeClockTime(*req.Time)
	status := s.engine.ClassifyCheckOut(nil, entry.Date, clock, checkIn.StatusOrNone())

	entry.ClockTime = checkIn.ClockTime
	entry.CheckOutTime = &clock
	entry.Status = &status
	entry.Approved = coalesce(req.Approved, checkIn.Approved)
	entry.SettingID = coalesce(entry.SettingID, checkIn.SettingID)
	entry.BranchID = coalesce(nonEmpty(req.BranchID), checkIn.BranchID)
	entry.Location = coalesce(entry.Location, checkIn.Location)
	entry.Address = coalesce(entry.Address, checkIn.Address)
	entry.Latitude = coalesce(entry.Latitude, checkIn.Latitude)
	entry.Longitude = coalesce(entry.Longitude, checkIn.Longitude)
	entry.Photo = coalesce(entry.Photo, checkIn.Photo)

	created, err := s.checkClockRepo.Create(ctx, entry)
	if err != nil {
		if postgresql.IsUniqueViolation(err) {
			return checkclock.CheckClock{}, checkclock.ErrAlreadyCheckedOut
		}
		return checkclock.CheckClock{}, fmt.Errorf("failed to create check-out: %w", err)
	}
	return created, nil
}

func (s *checkClockServiceImpl) submitLeave(ctx context.Context, entry checkclock.CheckClock, req checkclock.CreateCheckClockRequest) (checkclock.CheckClock, error) {
	status := checkclock.StatusWaitingApproval
	if req.Approved != nil {
		if *req.Approved {
			status = checkclock.DecidedLeaveStatus(entry.Type)
		} else {
			status = checkclock.StatusNone
		}
	}

	entry.Status = &status
	entry.Approved = req.Approved
	entry.StartDate = parseDatePtr(req.StartDate, entry.Date.Location())
	entry.EndDate = parseDatePtr(req.EndDate, entry.Date.Location())
	if req.Time != nil {
		if clock, ok := utils.NormalizeClockTime(*req.Time); ok {
			entry.ClockTime = &clock
		}
	}

	created, err := s.checkClockRepo.Create(ctx, entry)
	if err != nil {
		return checkclock.CheckClock{}, fmt.Errorf("failed to create %s request: %w", entry.Type, err)
	}
	return created, nil
}

// GetByID implements checkclock.CheckClockService.
func (s *checkClockServiceImpl) GetByID(ctx context.Context, companyID string, id string) (checkclock.AttendanceRow, error) {
	entry, err := s.checkClockRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return checkclock.AttendanceRow{}, err
	}
	return s.rowFor(ctx, entry)
}

// Approve implements checkclock.CheckClockService.
func (s *checkClockServiceImpl) Approve(ctx context.Context, companyID string, id string) (checkclock.AttendanceRow, error) {
	ctx, span := startSpan(ctx, "CheckClockService.Approve", companyID)
	defer span.End()

	entry, err := s.checkClockRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return checkclock.AttendanceRow{}, err
	}
	if entry.Approved != nil && !*entry.Approved {
		return checkclock.AttendanceRow{}, checkclock.ErrAlreadyDecided
	}

	var status checkclock.Status
	switch entry.Type {
	case checkclock.TypeCheckIn, checkclock.TypeCheckOut:
		clock := ""
		if entry.ClockTime != nil {
			clock = *entry.ClockTime
		}
		classification, err := s.classify(ctx, entry.CompanyID, entry.SettingID, entry.Date, clock)
		if err != nil {
			recordError(span, err)
			return checkclock.AttendanceRow{}, err
		}
		status = classification.Status
	default:
		status = checkclock.DecidedLeaveStatus(entry.Type)
	}

	return s.decide(ctx, span, entry, true, status)
}

// Reject implements checkclock.CheckClockService.
func (s *checkClockServiceImpl) Reject(ctx context.Context, companyID string, id string) (checkclock.AttendanceRow, error) {
	ctx, span := startSpan(ctx, "CheckClockService.Reject", companyID)
	defer span.End()

	entry, err := s.checkClockRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return checkclock.AttendanceRow{}, err
	}

	return s.decide(ctx, span, entry, false, checkclock.StatusNone)
}

func (s *checkClockServiceImpl) decide(ctx context.Context, span trace.Span, entry checkclock.CheckClock, approved bool, status checkclock.Status) (checkclock.AttendanceRow, error) {
	if err := s.checkClockRepo.UpdateDecision(ctx, entry.ID, entry.CompanyID, approved, status); err != nil {
		if errors.Is(err, checkclock.ErrCheckClockNotFound) {
			return checkclock.AttendanceRow{}, err
		}
		recordError(span, err)
		return checkclock.AttendanceRow{}, fmt.Errorf("failed to update check clock decision: %w", err)
	}
	entry.Approved = &approved
	entry.Status = &status

	if s.publisher != nil {
		event := checkclock.DecisionEvent{
			EventID:    entry.ID,
			CompanyID:  entry.CompanyID,
			EmployeeID: entry.EmployeeID,
			Type:       entry.Type,
			Date:       entry.Date.Format(checkclock.DateLayout),
			Approved:   approved,
			Status:     status,
			DecidedAt:  s.now(),
		}
		if err := s.publisher.PublishDecision(ctx, event); err != nil {
			slog.Error("Failed to publish check clock decision", "error", err, "check_clock_id", entry.ID)
		}
	}

	return s.rowFor(ctx, entry)
}

// Delete implements checkclock.CheckClockService.
func (s *checkClockServiceImpl) Delete(ctx context.Context, companyID string, id string) error {
	return s.checkClockRepo.SoftDelete(ctx, id, companyID)
}

// ListEmployees implements checkclock.CheckClockService.
func (s *checkClockServiceImpl) ListEmployees(ctx context.Context, companyID string) ([]employee.Option, error) {
	employees, err := s.employeeRepo.FindActiveEmployees(ctx, companyID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	options := make([]employee.Option, 0, len(employees))
	for _, e := range employees {
		options = append(options, e.ToOption())
	}
	return options, nil
}

// rowFor pairs a check-in with its check-out before rendering.
func (s *checkClockServiceImpl) rowFor(ctx context.Context, entry checkclock.CheckClock) (checkclock.AttendanceRow, error) {
	if entry.Type != checkclock.TypeCheckIn {
		return buildRow(entry, nil), nil
	}

	checkOuts, err := s.checkClockRepo.FindCheckOuts(ctx, entry.CompanyID, entry.EmployeeID, entry.Date)
	if err != nil {
		return checkclock.AttendanceRow{}, fmt.Errorf("failed to load check-out: %w", err)
	}
	switch len(checkOuts) {
	case 0:
		return buildRow(entry, nil), nil
	case 1:
		return buildRow(entry, &checkOuts[0]), nil
	default:
		return checkclock.AttendanceRow{}, checkclock.ErrMultipleCheckOuts
	}
}

// resolveSettingID picks the branch setting, falling back to the head office.
func (s *checkClockServiceImpl) resolveSettingID(ctx context.Context, companyID string, branchID *string) (*string, error) {
	candidates := []*string{nil}
	if branchID != nil {
		candidates = []*string{branchID, nil}
	}

	for _, candidate := range candidates {
		found, err := s.settingRepo.GetByBranch(ctx, companyID, candidate)
		if err == nil {
			return &found.ID, nil
		}
		if !errors.Is(err, setting.ErrSettingNotFound) {
			return nil, fmt.Errorf("failed to resolve check clock setting: %w", err)
		}
	}
	return nil, nil
}

// verifyPlacement rejects a setting or branch supplied by the client that does not
// belong to the company.
func (s *checkClockServiceImpl) verifyPlacement(ctx context.Context, entry *checkclock.CheckClock, emp employee.Employee) error {
	if entry.SettingID != nil {
		ls, err := s.settingRepo.GetByID(ctx, *entry.SettingID, entry.CompanyID)
		if err != nil {
			if errors.Is(err, setting.ErrSettingNotFound) {
				return err
			}
			return fmt.Errorf("failed to get check clock setting: %w", err)
		}
		if entry.BranchID == nil {
			entry.BranchID = ls.BranchID
		}
	}

	if entry.BranchID == nil || (emp.BranchID != nil && *emp.BranchID == *entry.BranchID) {
		return nil
	}
	// a foreign branch is only known through a setting of this company
	if _, err := s.settingRepo.GetByBranch(ctx, entry.CompanyID, entry.BranchID); err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) {
			return checkclock.ErrBranchNotFound
		}
		return fmt.Errorf("failed to verify branch: %w", err)
	}
	return nil
}

// classify evaluates clock against the company's setting. A setting that no longer
// exists classifies as unscheduled.
func (s *checkClockServiceImpl) classify(ctx context.Context, companyID string, settingID *string, date time.Time, clock string) (Classification, error) {
	if settingID == nil {
		return s.engine.Classify(nil, date, clock), nil
	}

	schedule, err := s.settingRepo.GetByID(ctx, *settingID, companyID)
	if err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) {
			return s.engine.Classify(nil, date, clock), nil
		}
		return Classification{}, fmt.Errorf("failed to load check clock setting: %w", err)
	}

	window, err := s.windowRepo.FindScheduleWindow(ctx, schedule.ID, setting.DayOf(date))
	if err != nil {
		return Classification{}, fmt.Errorf("failed to load schedule window: %w", err)
	}
	schedule.Windows = nil
	if window != nil {
		schedule.Windows = []setting.ScheduleWindow{*window}
	}
	return s.engine.Classify(&schedule, date, clock), nil
}

func startSpan(ctx context.Context, name string, companyID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("app.companyId", companyID)))
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func coalesce[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func parseDatePtr(s *string, loc *time.Location) *time.Time {
	if s == nil {
		return nil
	}
	d, ok := validator.IsValidDateIn(*s, loc)
	if !ok {
		return nil
	}
	return &d
}
