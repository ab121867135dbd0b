package setting

import "time"

// Day is an English weekday name as stored in check_clock_setting_times.day.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var DayValues = []string{
	string(Monday),
	string(Tuesday),
	string(Wednesday),
	string(Thursday),
	string(Friday),
	string(Saturday),
	string(Sunday),
}

// DayOf returns the weekday of date.
func DayOf(date time.Time) Day {
	return Day(date.Weekday().String())
}

const (
	DefaultHeadOfficeName   = "Head Office"
	DefaultBranchOfficeName = "Branch Office"
	DefaultRadius           = 100
)

// LocationSetting is the check-clock configuration of one company/branch pair.
// A nil BranchID is the company's head office.
type LocationSetting struct {
	ID           string
	CompanyID    string
	BranchID     *string
	LocationName string
	Latitude     float64
	Longitude    float64
	Radius       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time

	Windows []ScheduleWindow
}

// Window returns the window configured for day, or nil.
func (s *LocationSetting) Window(day Day) *ScheduleWindow {
	if s == nil {
		return nil
	}
	for i := range s.Windows {
		if s.Windows[i].Day == day {
			return &s.Windows[i]
		}
	}
	return nil
}

// ScheduleWindow holds the clock-in/out bounds of one weekday. Times are "HH:MM:SS".
type ScheduleWindow struct {
	ID                 string
	SettingID          string
	Day                Day
	ClockInStart       string
	ClockInEnd         string
	ClockInOnTimeLimit string
	ClockOutStart      string
	ClockOutEnd        string
	WorkDay            bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time
}

// DefaultWindows is the schedule given to a company that never configured one:
// weekdays 07:00-09:00 in (08:00 on time), 17:00-19:00 out; weekends are
// non-work days one hour later.
func DefaultWindows() []ScheduleWindow {
	windows := make([]ScheduleWindow, 0, len(Days))
	for _, day := range Days {
		if day == Saturday || day == Sunday {
			windows = append(windows, ScheduleWindow{
				Day:                day,
				ClockInStart:       "08:00:00",
				ClockInEnd:         "10:00:00",
				ClockInOnTimeLimit: "09:00:00",
				ClockOutStart:      "17:00:00",
				ClockOutEnd:        "19:00:00",
				WorkDay:            false,
			})
			continue
		}
		windows = append(windows, ScheduleWindow{
			Day:                day,
			ClockInStart:       "07:00:00",
			ClockInEnd:         "09:00:00",
			ClockInOnTimeLimit: "08:00:00",
			ClockOutStart:      "17:00:00",
			ClockOutEnd:        "19:00:00",
			WorkDay:            true,
		})
	}
	return windows
}
