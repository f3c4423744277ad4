/*
clock.go - Time-of-day windows that may wrap past midnight

PURPOSE:
  Centralizes ALL overnight arithmetic. Every other file in this engine that
  needs to compare a clock time against a window, count minutes across
  midnight, or anchor a time-of-day onto a calendar date goes through these
  functions. No ad hoc +1 day patches anywhere else.

KEY CONCEPTS:
  - ClockTime: minute-of-day in [0, 1440); ClockUnset marks a missing value
  - Window [start, end): half-open; end < start means the window wraps
    midnight and covers [start, 24:00) plus [00:00, end)
  - The 24h wrap is applied exactly once. A span that would exceed 24 hours
    is a data error (ErrSpanExceeds24h), never wrapped twice.

SEE ALSO:
  - config.go: ShiftConfig durations are derived through these functions
  - classifier.go: lateness/earliness/overtime math anchors clocks here
*/
package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// CLOCK TIME - minute of day
// =============================================================================

// ClockTime is a time of day expressed as minutes since midnight.
type ClockTime int

// ClockUnset marks an absent clock time (e.g. a shift with no rest window).
const ClockUnset ClockTime = -1

const minutesPerDay = 24 * 60

// NewClock builds a ClockTime from an hour and minute.
func NewClock(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClock parses "HH:MM" into a ClockTime.
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return ClockUnset, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ClockUnset, fmt.Errorf("clock time %q out of range", s)
	}
	return NewClock(h, m), nil
}

// ClockOf extracts the time-of-day from a timestamp.
func ClockOf(t time.Time) ClockTime {
	return NewClock(t.Hour(), t.Minute())
}

func (c ClockTime) IsSet() bool  { return c >= 0 && c < minutesPerDay }
func (c ClockTime) Hour() int    { return int(c) / 60 }
func (c ClockTime) Minute() int  { return int(c) % 60 }

func (c ClockTime) String() string {
	if !c.IsSet() {
		return "--:--"
	}
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// AtDate anchors the clock time onto a calendar date in the date's location.
func (c ClockTime) AtDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), 0, 0, date.Location())
}

// =============================================================================
// WINDOW OPERATIONS
// =============================================================================

// Contains reports whether t falls inside the half-open window [start, end).
// If end < start the window wraps midnight: it covers [start, 24:00) plus
// [00:00, end). An empty window (start == end) contains nothing.
func Contains(t, start, end ClockTime) bool {
	if !t.IsSet() || !start.IsSet() || !end.IsSet() {
		return false
	}
	if start == end {
		return false
	}
	if end < start {
		return t >= start || t < end
	}
	return t >= start && t < end
}

// MinutesBetween returns the minute count from a to b. When b precedes a and
// allowWrap is true, b is treated as falling on the following day (adds 24h
// exactly once). When wrap is disallowed a negative interval is an error.
func MinutesBetween(a, b ClockTime, allowWrap bool) (int, error) {
	if !a.IsSet() || !b.IsSet() {
		return 0, ErrClockUnset
	}
	if b >= a {
		return int(b - a), nil
	}
	if !allowWrap {
		return 0, ErrNegativeInterval
	}
	return int(b) + minutesPerDay - int(a), nil
}

// IsOvernight reports whether two actual timestamps span a calendar date
// boundary. This compares dates, not times-of-day; use it only once real
// clock-in/out instants are known.
func IsOvernight(start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	return sy != ey || sm != em || sd != ed
}

// NormalizeWindow resolves an (anchor date, start clock, end clock) triple
// into concrete start/end timestamps, rolling the end forward one day when
// the window wraps midnight. The wrap is applied at most once.
func NormalizeWindow(date time.Time, start, end ClockTime) (time.Time, time.Time, error) {
	if !start.IsSet() || !end.IsSet() {
		return time.Time{}, time.Time{}, ErrClockUnset
	}
	s := start.AtDate(date)
	e := end.AtDate(date)
	if !e.After(s) {
		e = e.AddDate(0, 0, 1)
	}
	return s, e, nil
}

// SpanMinutes returns the whole-minute span from start to end.
// Spans over 24 hours are rejected: a shift longer than a day is a data
// error, not something to silently wrap a second time.
func SpanMinutes(start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, ErrClockUnset
	}
	d := end.Sub(start)
	if d < 0 {
		return 0, ErrNegativeInterval
	}
	if d > 24*time.Hour {
		return 0, ErrSpanExceeds24h
	}
	return int(d.Minutes()), nil
}

// DateOnly truncates a timestamp to its calendar date (midnight, same location).
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports whether two timestamps fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// DaysBetween returns the whole-day offset from a's date to b's date.
// Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
