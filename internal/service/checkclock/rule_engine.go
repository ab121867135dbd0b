package checkclock

import (
	"time"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/checkclock"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/setting"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/utils"
)

// Classification is the outcome of evaluating a check-in. Scheduled is false when
// no usable work-day window applied and the status fell back to On Time.
type Classification struct {
	Status    checkclock.Status
	Scheduled bool
}

// RuleEngine evaluates clock events against per-weekday schedule windows. It holds
// no state and performs no I/O.
type RuleEngine struct {
}

func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

// ClassifyCheckIn resolves the status of a check-in at clock on date.
func (e *RuleEngine) ClassifyCheckIn(schedule *setting.LocationSetting, date time.Time, clock string) checkclock.Status {
	return e.Classify(schedule, date, clock).Status
}

// Classify is ClassifyCheckIn with the fallback made visible.
func (e *RuleEngine) Classify(schedule *setting.LocationSetting, date time.Time, clock string) Classification {
	return e.ClassifyWindow(schedule.Window(setting.DayOf(date)), clock)
}

// ClassifyWindow evaluates clock against an already resolved window.
func (e *RuleEngine) ClassifyWindow(window *setting.ScheduleWindow, clock string) Classification {
	permissive := Classification{Status: checkclock.StatusOnTime}

	if window == nil || !window.WorkDay {
		return permissive
	}

	t, ok := utils.ParseClockTime(clock)
	if !ok {
		return permissive
	}
	end, endOK := utils.ParseClockTime(window.ClockInEnd)
	limit, limitOK := utils.ParseClockTime(window.ClockInOnTimeLimit)
	if !endOK || !limitOK {
		return permissive
	}

	switch {
	case t > end:
		return Classification{Status: checkclock.StatusAbsent, Scheduled: true}
	case t > limit:
		return Classification{Status: checkclock.StatusLate, Scheduled: true}
	default:
		return Classification{Status: checkclock.StatusOnTime, Scheduled: true}
	}
}

// ClassifyCheckOut never revises the status set at check-in.
func (e *RuleEngine) ClassifyCheckOut(schedule *setting.LocationSetting, date time.Time, clock string, prior checkclock.Status) checkclock.Status {
	return prior
}

// ComputeWorkDuration returns the whole hours and minutes between two times of day
// on the same date, or nil when either is missing or checkOut is not after checkIn.
func ComputeWorkDuration(checkIn, checkOut *string) *checkclock.WorkDuration {
	in, inOK := utils.ParseClockTimePtr(checkIn)
	out, outOK := utils.ParseClockTimePtr(checkOut)
	if !inOK || !outOK || out <= in {
		return nil
	}

	elapsed := int(out - in)
	return &checkclock.WorkDuration{
		Hours:   elapsed / 3600,
		Minutes: elapsed % 3600 / 60,
	}
}
