package checkclock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/checkclock"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/setting"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func sameDay(a, b time.Time) bool {
	return a.Format(checkclock.DateLayout) == b.Format(checkclock.DateLayout)
}

// memCheckClockRepo mirrors the partial unique index on
// (employee_id, check_clock_date, check_clock_type) for check-in/check-out rows.
type memCheckClockRepo struct {
	mu        sync.Mutex
	rows      []checkclock.CheckClock
	employees map[string]employee.Employee

	// hideExisting makes FindByEmployeeAndDate return nothing, simulating a
	// concurrent writer that inserts between the read and the write.
	hideExisting bool
}

func newMemCheckClockRepo(employees ...employee.Employee) *memCheckClockRepo {
	r := &memCheckClockRepo{employees: map[string]employee.Employee{}}
	for _, e := range employees {
		r.employees[e.ID] = e
	}
	return r
}

func (r *memCheckClockRepo) join(c checkclock.CheckClock) checkclock.CheckClock {
	if e, ok := r.employees[c.EmployeeID]; ok {
		c.EmployeeName = e.FullName
		c.PositionName = e.PositionName
	}
	return c
}

// seed inserts rows directly, skipping the unique check.
func (r *memCheckClockRepo) seed(rows ...checkclock.CheckClock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range rows {
		if c.ID == "" {
			c.ID = newID()
		}
		r.rows = append(r.rows, c)
	}
}

func (r *memCheckClockRepo) live() []checkclock.CheckClock {
	var out []checkclock.CheckClock
	for _, c := range r.rows {
		if c.DeletedAt == nil {
			out = append(out, c)
		}
	}
	return out
}

func (r *memCheckClockRepo) Create(ctx context.Context, c checkclock.CheckClock) (checkclock.CheckClock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.Type == checkclock.TypeCheckIn || c.Type == checkclock.TypeCheckOut {
		for _, existing := range r.live() {
			if existing.CompanyID == c.CompanyID && existing.EmployeeID == c.EmployeeID &&
				existing.Type == c.Type && sameDay(existing.Date, c.Date) {
				return checkclock.CheckClock{}, &pgconn.PgError{Code: "23505", ConstraintName: "uq_check_clocks_employee_date_type"}
			}
		}
	}

	c.ID = newID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.rows = append(r.rows, c)
	return r.join(c), nil
}

func (r *memCheckClockRepo) GetByID(ctx context.Context, id string, companyID string) (checkclock.CheckClock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.live() {
		if c.ID == id && c.CompanyID == companyID {
			return r.join(c), nil
		}
	}
	return checkclock.CheckClock{}, checkclock.ErrCheckClockNotFound
}

func (r *memCheckClockRepo) UpdateDecision(ctx context.Context, id string, companyID string, approved bool, status checkclock.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		c := &r.rows[i]
		if c.ID == id && c.CompanyID == companyID && c.DeletedAt == nil {
			c.Approved = &approved
			c.Status = &status
			return nil
		}
	}
	return checkclock.ErrCheckClockNotFound
}

func (r *memCheckClockRepo) SoftDelete(ctx context.Context, id string, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		c := &r.rows[i]
		if c.ID == id && c.CompanyID == companyID && c.DeletedAt == nil {
			now := time.Now()
			c.DeletedAt = &now
			return nil
		}
	}
	return checkclock.ErrCheckClockNotFound
}

func (r *memCheckClockRepo) find(companyID string, match func(checkclock.CheckClock) bool) []checkclock.CheckClock {
	var out []checkclock.CheckClock
	for _, c := range r.live() {
		if c.CompanyID == companyID && match(c) {
			out = append(out, r.join(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func inRange(d, start, end time.Time) bool {
	day := d.Format(checkclock.DateLayout)
	return day >= start.Format(checkclock.DateLayout) && day <= end.Format(checkclock.DateLayout)
}

func (r *memCheckClockRepo) FindCheckInsByDateRange(ctx context.Context, companyID string, start, end time.Time, positions []string, statuses []string) ([]checkclock.CheckClock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	positionSet, statusSet := toSet(positions), toSet(statuses)
	return r.find(companyID, func(c checkclock.CheckClock) bool {
		if c.Type != checkclock.TypeCheckIn || !inRange(c.Date, start, end) {
			return false
		}
		if len(statusSet) > 0 && !statusSet[string(c.StatusOrNone())] {
			return false
		}
		if len(positionSet) > 0 {
			pos := r.join(c).PositionName
			if pos == nil || !positionSet[*pos] {
				return false
			}
		}
		return true
	}), nil
}

func (r *memCheckClockRepo) FindCheckOutsByDateRange(ctx context.Context, companyID string, start, end time.Time) ([]checkclock.CheckClock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(companyID, func(c checkclock.CheckClock) bool {
		return c.Type == checkclock.TypeCheckOut && inRange(c.Date, start, end)
	}), nil
}

func (r *memCheckClockRepo) FindCheckOuts(ctx context.Context, companyID string, employeeID string, date time.Time) ([]checkclock.CheckClock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(companyID, func(c checkclock.CheckClock) bool {
		return c.Type == checkclock.TypeCheckOut && c.EmployeeID == employeeID && sameDay(c.Date, date)
	}), nil
}

func (r *memCheckClockRepo) FindByEmployeeAndDate(ctx context.Context, companyID string, employeeID string, date time.Time) ([]checkclock.CheckClock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideExisting {
		return nil, nil
	}
	return r.find(companyID, func(c checkclock.CheckClock) bool {
		return c.EmployeeID == employeeID && sameDay(c.Date, date)
	}), nil
}

func (r *memCheckClockRepo) FindEmployeeIDsWithEvents(ctx context.Context, companyID string, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	var ids []string
	for _, c := range r.find(companyID, func(c checkclock.CheckClock) bool { return sameDay(c.Date, date) }) {
		if !seen[c.EmployeeID] {
			seen[c.EmployeeID] = true
			ids = append(ids, c.EmployeeID)
		}
	}
	return ids, nil
}

type memEmployeeRepo struct {
	employees []employee.Employee
}

func (r *memEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *memEmployeeRepo) FindActiveEmployees(ctx context.Context, companyID string, excluding []string) ([]employee.Employee, error) {
	skip := toSet(excluding)
	var out []employee.Employee
	for _, e := range r.employees {
		if e.CompanyID == companyID && e.EmploymentStatus == employee.EmploymentStatusActive && !skip[e.ID] {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

type memSettingRepo struct {
	settings []setting.LocationSetting
}

func (r *memSettingRepo) Create(ctx context.Context, s setting.LocationSetting) (setting.LocationSetting, error) {
	s.ID = newID()
	r.settings = append(r.settings, s)
	return s, nil
}

func (r *memSettingRepo) Update(ctx context.Context, s setting.LocationSetting) error {
	for i := range r.settings {
		if r.settings[i].ID == s.ID {
			r.settings[i] = s
			return nil
		}
	}
	return setting.ErrSettingNotFound
}

func (r *memSettingRepo) GetByID(ctx context.Context, id string, companyID string) (setting.LocationSetting, error) {
	for _, s := range r.settings {
		if s.ID == id && s.CompanyID == companyID {
			return s, nil
		}
	}
	return setting.LocationSetting{}, setting.ErrSettingNotFound
}

func (r *memSettingRepo) GetByBranch(ctx context.Context, companyID string, branchID *string) (setting.LocationSetting, error) {
	for _, s := range r.settings {
		if s.CompanyID != companyID {
			continue
		}
		if (branchID == nil && s.BranchID == nil) || (branchID != nil && s.BranchID != nil && *branchID == *s.BranchID) {
			return s, nil
		}
	}
	return setting.LocationSetting{}, setting.ErrSettingNotFound
}

func (r *memSettingRepo) List(ctx context.Context, companyID string) ([]setting.LocationSetting, error) {
	var out []setting.LocationSetting
	for _, s := range r.settings {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSettingRepo) SoftDelete(ctx context.Context, id string, companyID string) error {
	for i, s := range r.settings {
		if s.ID == id && s.CompanyID == companyID {
			r.settings = append(r.settings[:i], r.settings[i+1:]...)
			return nil
		}
	}
	return setting.ErrSettingNotFound
}

type memWindowRepo struct {
	windows map[string][]setting.ScheduleWindow
}

func newMemWindowRepo() *memWindowRepo {
	return &memWindowRepo{windows: map[string][]setting.ScheduleWindow{}}
}

func (r *memWindowRepo) CreateBatch(ctx context.Context, settingID string, windows []setting.ScheduleWindow) ([]setting.ScheduleWindow, error) {
	for i := range windows {
		windows[i].ID = newID()
		windows[i].SettingID = settingID
	}
	r.windows[settingID] = append(r.windows[settingID], windows...)
	return windows, nil
}

func (r *memWindowRepo) DeleteBySetting(ctx context.Context, settingID string) error {
	delete(r.windows, settingID)
	return nil
}

func (r *memWindowRepo) SoftDeleteBySetting(ctx context.Context, settingID string) error {
	delete(r.windows, settingID)
	return nil
}

func (r *memWindowRepo) ListBySetting(ctx context.Context, settingID string) ([]setting.ScheduleWindow, error) {
	return r.windows[settingID], nil
}

func (r *memWindowRepo) FindScheduleWindow(ctx context.Context, settingID string, day setting.Day) (*setting.ScheduleWindow, error) {
	for _, w := range r.windows[settingID] {
		if w.Day == day {
			w := w
			return &w, nil
		}
	}
	return nil, nil
}

type recordingPublisher struct {
	events []checkclock.DecisionEvent
	err    error
}

func (p *recordingPublisher) PublishDecision(ctx context.Context, event checkclock.DecisionEvent) error {
	p.events = append(p.events, event)
	return p.err
}
