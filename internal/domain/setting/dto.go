package setting

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/validator"
)

type WindowRequest struct {
	Day                string `json:"day"`
	ClockInStart       string `json:"clock_in_start"`
	ClockInEnd         string `json:"clock_in_end"`
	ClockInOnTimeLimit string `json:"clock_in_on_time_limit"`
	ClockOutStart      string `json:"clock_out_start"`
	ClockOutEnd        string `json:"clock_out_end"`
	WorkDay            *bool  `json:"work_day"`
}

type SaveSettingRequest struct {
	BranchID     *string         `json:"branch_id"`
	LocationName *string         `json:"location_name"`
	Latitude     *float64        `json:"latitude"`
	Longitude    *float64        `json:"longitude"`
	Radius       *int            `json:"radius"`
	Times        []WindowRequest `json:"times"`
}

func (r *SaveSettingRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BranchID != nil && *r.BranchID != "" && !validator.IsValidUUID(*r.BranchID) {
		errs = append(errs, validator.ValidationError{
			Field:   "branch_id",
			Message: "branch_id must be a valid UUID",
		})
	}
	if r.LocationName != nil && len(*r.LocationName) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "location_name",
			Message: "location_name must not exceed 255 characters",
		})
	}

	if r.Latitude == nil {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude is required"})
	} else if *r.Latitude < -90 || *r.Latitude > 90 {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}

	if r.Longitude == nil {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude is required"})
	} else if *r.Longitude < -180 || *r.Longitude > 180 {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}

	if r.Radius == nil {
		errs = append(errs, validator.ValidationError{Field: "radius", Message: "radius is required"})
	} else if *r.Radius < 1 || *r.Radius > 10000 {
		errs = append(errs, validator.ValidationError{Field: "radius", Message: "radius must be between 1 and 10000 meters"})
	}

	if len(r.Times) == 0 {
		errs = append(errs, validator.ValidationError{Field: "times", Message: "at least one schedule window is required"})
	}

	seen := make(map[string]bool, len(r.Times))
	for i, w := range r.Times {
		prefix := fmt.Sprintf("times.%d.", i)

		if !validator.IsInSlice(w.Day, DayValues) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "day",
				Message: "day must be one of: " + strings.Join(DayValues, ", "),
			})
		} else if seen[w.Day] {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "day",
				Message: "day " + w.Day + " is configured more than once",
			})
		}
		seen[w.Day] = true

		if w.WorkDay == nil {
			errs = append(errs, validator.ValidationError{Field: prefix + "work_day", Message: "work_day is required"})
		}

		fields := []struct {
			name  string
			value string
		}{
			{"clock_in_start", w.ClockInStart},
			{"clock_in_end", w.ClockInEnd},
			{"clock_in_on_time_limit", w.ClockInOnTimeLimit},
			{"clock_out_start", w.ClockOutStart},
			{"clock_out_end", w.ClockOutEnd},
		}
		parsed := make(map[string]utils.ClockTime, len(fields))
		for _, f := range fields {
			c, ok := utils.ParseClockTime(f.value)
			if !ok {
				errs = append(errs, validator.ValidationError{
					Field:   prefix + f.name,
					Message: f.name + " must be a time in HH:MM format",
				})
				continue
			}
			parsed[f.name] = c
		}
		if len(parsed) != len(fields) {
			continue
		}

		if parsed["clock_in_start"] > parsed["clock_in_on_time_limit"] || parsed["clock_in_on_time_limit"] > parsed["clock_in_end"] {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "clock_in_on_time_limit",
				Message: "clock_in_on_time_limit must be between clock_in_start and clock_in_end",
			})
		}
		if parsed["clock_out_start"] > parsed["clock_out_end"] {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "clock_out_end",
				Message: "clock_out_end must not be before clock_out_start",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToWindows converts the validated request windows, normalising times to HH:MM:SS.
func (r *SaveSettingRequest) ToWindows() []ScheduleWindow {
	windows := make([]ScheduleWindow, 0, len(r.Times))
	for _, w := range r.Times {
		window := ScheduleWindow{
			Day:                Day(w.Day),
			ClockInStart:       normalize(w.ClockInStart),
			ClockInEnd:         normalize(w.ClockInEnd),
			ClockInOnTimeLimit: normalize(w.ClockInOnTimeLimit),
			ClockOutStart:      normalize(w.ClockOutStart),
			ClockOutEnd:        normalize(w.ClockOutEnd),
		}
		if w.WorkDay != nil {
			window.WorkDay = *w.WorkDay
		}
		windows = append(windows, window)
	}
	return windows
}

// ResolveLocationName falls back to the head/branch office label.
func (r *SaveSettingRequest) ResolveLocationName() string {
	if r.LocationName != nil && strings.TrimSpace(*r.LocationName) != "" {
		return strings.TrimSpace(*r.LocationName)
	}
	if r.NormalizedBranchID() != nil {
		return DefaultBranchOfficeName
	}
	return DefaultHeadOfficeName
}

// NormalizedBranchID treats an empty branch id as the head office.
func (r *SaveSettingRequest) NormalizedBranchID() *string {
	if r.BranchID == nil || *r.BranchID == "" {
		return nil
	}
	return r.BranchID
}

func normalize(s string) string {
	n, _ := utils.NormalizeClockTime(s)
	return n
}

type WindowResponse struct {
	ID                 string `json:"id"`
	Day                string `json:"day"`
	ClockInStart       string `json:"clock_in_start"`
	ClockInEnd         string `json:"clock_in_end"`
	ClockInOnTimeLimit string `json:"clock_in_on_time_limit"`
	ClockOutStart      string `json:"clock_out_start"`
	ClockOutEnd        string `json:"clock_out_end"`
	WorkDay            bool   `json:"work_day"`
}

type SettingResponse struct {
	ID           string           `json:"id"`
	CompanyID    string           `json:"company_id"`
	BranchID     *string          `json:"branch_id"`
	LocationName string           `json:"location_name"`
	Latitude     float64          `json:"latitude"`
	Longitude    float64          `json:"longitude"`
	Radius       int              `json:"radius"`
	Times        []WindowResponse `json:"times"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
}

func NewSettingResponse(s LocationSetting) SettingResponse {
	times := make([]WindowResponse, 0, len(s.Windows))
	for _, w := range s.Windows {
		times = append(times, WindowResponse{
			ID:                 w.ID,
			Day:                string(w.Day),
			ClockInStart:       w.ClockInStart,
			ClockInEnd:         w.ClockInEnd,
			ClockInOnTimeLimit: w.ClockInOnTimeLimit,
			ClockOutStart:      w.ClockOutStart,
			ClockOutEnd:        w.ClockOutEnd,
			WorkDay:            w.WorkDay,
		})
	}
	return SettingResponse{
		ID:           s.ID,
		CompanyID:    s.CompanyID,
		BranchID:     s.BranchID,
		LocationName: s.LocationName,
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
		Radius:       s.Radius,
		Times:        times,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    s.UpdatedAt.Format(time.RFC3339),
	}
}
