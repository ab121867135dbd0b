package checkclock

import (
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/validator"
)

const DateLayout = "2006-01-02"

type CreateCheckClockRequest struct {
	EmployeeID string   `json:"employee_id"`
	SettingID  *string  `json:"ck_settings_id"`
	BranchID   *string  `json:"branch_id"`
	Type       string   `json:"check_clock_type"`
	Date       string   `json:"check_clock_date"`
	Time       *string  `json:"check_clock_time"`
	StartDate  *string  `json:"start_date"`
	EndDate    *string  `json:"end_date"`
	Approved   *bool    `json:"approved"`
	Location   *string  `json:"location"`
	Address    *string  `json:"address"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Photo      *string  `json:"photo"`
}

func (r *CreateCheckClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if r.SettingID != nil && *r.SettingID != "" && !validator.IsValidUUID(*r.SettingID) {
		errs = append(errs, validator.ValidationError{Field: "ck_settings_id", Message: "ck_settings_id must be a valid UUID"})
	}
	if r.BranchID != nil && *r.BranchID != "" && !validator.IsValidUUID(*r.BranchID) {
		errs = append(errs, validator.ValidationError{Field: "branch_id", Message: "branch_id must be a valid UUID"})
	}

	if !validator.IsInSlice(r.Type, ClockTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_clock_type",
			Message: "check_clock_type must be one of: " + strings.Join(ClockTypeValues, ", "),
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "check_clock_date", Message: "check_clock_date must be in YYYY-MM-DD format"})
	}

	clockType := ClockType(r.Type)
	if clockType == TypeCheckIn || clockType == TypeCheckOut {
		if r.Time == nil || validator.IsEmpty(*r.Time) {
			errs = append(errs, validator.ValidationError{Field: "check_clock_time", Message: "check_clock_time is required"})
		} else if _, ok := utils.ParseClockTime(*r.Time); !ok {
			errs = append(errs, validator.ValidationError{Field: "check_clock_time", Message: "check_clock_time must be in HH:MM or HH:MM:SS format"})
		}
	}

	if clockType == TypeAnnualLeave || clockType == TypeSickLeave {
		start, startOK := parseOptionalDate(r.StartDate)
		end, endOK := parseOptionalDate(r.EndDate)
		if !startOK {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date is required in YYYY-MM-DD format"})
		}
		if !endOK {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date is required in YYYY-MM-DD format"})
		}
		if startOK && endOK && end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be on or after start_date"})
		}
	}

	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func parseOptionalDate(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	return validator.IsValidDate(*s)
}

// DailyFilter selects the day shown on the live dashboard. A missing or
// malformed Date means today.
type DailyFilter struct {
	Date        string
	EmployeeIDs []string
}

// NormalizeEmployeeIDs keeps the distinct well-formed ids. Nil means no filter.
func NormalizeEmployeeIDs(in []string) []string {
	var out []string
	for _, id := range in {
		id = strings.TrimSpace(id)
		if validator.IsValidUUID(id) && !validator.IsInSlice(id, out) {
			out = append(out, id)
		}
	}
	return out
}

// ResolveDate returns the requested day at midnight in now's location.
func (f DailyFilter) ResolveDate(now time.Time) time.Time {
	if d, ok := validator.IsValidDateIn(f.Date, now.Location()); ok {
		return d
	}
	return utils.StartOfDay(now)
}

// RangeFilter is the historical report filter. Malformed values are dropped
// instead of rejected.
type RangeFilter struct {
	StartDate string
	EndDate   string
	Month     string
	Year      string
	Positions []string
	Statuses  []string
}

type ResolvedRange struct {
	Start       time.Time
	End         time.Time
	MonthScoped bool
	Month       time.Month
	Year        int
	Positions   []string
	Statuses    []string
}

// Resolve picks the date range in priority order: explicit start/end, then
// month/year, then the month containing now.
func (f RangeFilter) Resolve(now time.Time) ResolvedRange {
	loc := now.Location()
	resolved := ResolvedRange{
		Positions: normalizePositions(f.Positions),
		Statuses:  normalizeStatuses(f.Statuses),
	}

	start, startOK := validator.IsValidDateIn(f.StartDate, loc)
	end, endOK := validator.IsValidDateIn(f.EndDate, loc)
	if startOK && endOK && !end.Before(start) {
		resolved.Start, resolved.End = start, end
		return resolved
	}

	year, month := now.Year(), now.Month()
	m, mErr := strconv.Atoi(strings.TrimSpace(f.Month))
	y, yErr := strconv.Atoi(strings.TrimSpace(f.Year))
	if mErr == nil && yErr == nil && m >= 1 && m <= 12 && y >= 1900 && y <= 9999 {
		year, month = y, time.Month(m)
	}

	resolved.MonthScoped = true
	resolved.Year, resolved.Month = year, month
	resolved.Start, resolved.End = utils.MonthBounds(year, month, loc)
	return resolved
}

func normalizePositions(in []string) []string {
	var out []string
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeStatuses(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if validator.IsInSlice(s, StatusValues) && !validator.IsInSlice(s, out) {
			out = append(out, s)
		}
	}
	return out
}

type FiltersApplied struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Month     *int     `json:"month,omitempty"`
	Year      *int     `json:"year,omitempty"`
	Positions []string `json:"positions"`
	Statuses  []string `json:"statuses"`
}

func (r ResolvedRange) FiltersApplied() FiltersApplied {
	applied := FiltersApplied{
		StartDate: r.Start.Format(DateLayout),
		EndDate:   r.End.Format(DateLayout),
		Positions: r.Positions,
		Statuses:  r.Statuses,
	}
	if applied.Positions == nil {
		applied.Positions = []string{}
	}
	if applied.Statuses == nil {
		applied.Statuses = []string{}
	}
	if r.MonthScoped {
		month, year := int(r.Month), r.Year
		applied.Month, applied.Year = &month, &year
	}
	return applied
}

type DailyViewResponse struct {
	Date        string          `json:"date"`
	CheckClocks []AttendanceRow `json:"check_clocks"`
}

type RangeViewResponse struct {
	CheckClocks    []AttendanceRow `json:"check_clocks"`
	FiltersApplied FiltersApplied  `json:"filters_applied"`
}
