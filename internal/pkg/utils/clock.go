package utils

import (
	"fmt"
	"strings"
	"time"
)

// ClockTime is a time of day expressed as seconds after midnight.
type ClockTime int

var clockLayouts = []string{"15:04:05", "15:04"}

// ParseClockTime parses "HH:MM:SS" or "HH:MM". The second return value is false
// when the input is empty or malformed.
func ParseClockTime(s string) (ClockTime, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second()), true
		}
	}
	return 0, false
}

// ParseClockTimePtr is ParseClockTime for nullable columns.
func ParseClockTimePtr(s *string) (ClockTime, bool) {
	if s == nil {
		return 0, false
	}
	return ParseClockTime(*s)
}

// NormalizeClockTime returns s in "HH:MM:SS" form.
func NormalizeClockTime(s string) (string, bool) {
	c, ok := ParseClockTime(s)
	if !ok {
		return "", false
	}
	return c.String(), true
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)%3600/60, int(c)%60)
}

// ClockTimeOf returns the wall-clock part of t.
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MonthBounds returns the first and last day of the given month.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return first, first.AddDate(0, 1, -1)
}
