/*
projection.go - Read-model summaries derived from schedule instances

PURPOSE:
  Pure projections for display and reporting. ScheduleSummary is the
  per-instance view (current phase, worked duration, flags); DaySummary
  aggregates one calendar date across a team. Projections never mutate the
  instances they read.

PHASE vs STATUS:
  Status is the persisted lifecycle value. Phase is a derived, time-dependent
  answer to "where is this schedule right now" - the same instance is
  not_started in the morning, working at noon, resting during the break, and
  ended after the window closes. Phase is computed, never stored.
*/
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PHASE
// =============================================================================

type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseWorking    Phase = "working"
	PhaseResting    Phase = "resting"
	PhaseEnded      Phase = "ended"
	PhaseCancelled  Phase = "cancelled"
	PhaseOnLeave    Phase = "on_leave"
	PhaseAbsent     Phase = "absent"
)

// PhaseAt derives the instance's phase at the given instant. Terminal and
// leave statuses dominate; otherwise the expected windows decide.
func PhaseAt(s RotationSchedule, now time.Time) Phase {
	switch {
	case s.Status.IsTerminal():
		return PhaseCancelled
	case s.Status == ScheduleOnLeave:
		return PhaseOnLeave
	case s.Status == ScheduleAbsent || s.Attendance == AttendanceAbsent:
		return PhaseAbsent
	}

	if s.ExpectedWorkStart.IsZero() || s.ExpectedWorkEnd.IsZero() {
		return PhaseNotStarted
	}
	if now.Before(s.ExpectedWorkStart) {
		return PhaseNotStarted
	}
	if !now.Before(s.ExpectedWorkEnd) {
		return PhaseEnded
	}
	if s.ActualClockOut != nil && now.After(*s.ActualClockOut) {
		return PhaseEnded
	}
	if s.ExpectedRestStart != nil && s.ExpectedRestEnd != nil &&
		!now.Before(*s.ExpectedRestStart) && now.Before(*s.ExpectedRestEnd) {
		return PhaseResting
	}
	return PhaseWorking
}

// =============================================================================
// SCHEDULE SUMMARY
// =============================================================================

// ScheduleSummary is the per-instance read model.
type ScheduleSummary struct {
	ScheduleID   ScheduleID
	EmployeeID   EmployeeID
	DepartmentID DepartmentID
	ScheduleDate time.Time

	ShiftName string
	ShiftType ShiftType

	Phase      Phase
	Status     ScheduleStatus
	Attendance AttendanceStatus

	ExpectedWorkStart time.Time
	ExpectedWorkEnd   time.Time
	ActualClockIn     *time.Time
	ActualClockOut    *time.Time

	// WorkedDuration is the net worked span formatted "9h30m"; WorkedHours is
	// the same value as decimal hours for payroll arithmetic.
	WorkedDuration string
	WorkedHours    decimal.Decimal

	LateMinutes       int
	EarlyLeaveMinutes int
	OvertimeMinutes   int

	RequiresHandover bool
	HandoverComplete bool
	AlertCount       int
}

// Summarize projects one instance at the given instant.
func Summarize(s RotationSchedule, now time.Time) ScheduleSummary {
	worked := workedMinutes(s)
	return ScheduleSummary{
		ScheduleID:   s.ScheduleID,
		EmployeeID:   s.EmployeeID,
		DepartmentID: s.DepartmentID,
		ScheduleDate: DateOnly(s.ScheduleDate),

		ShiftName: s.ShiftName,
		ShiftType: s.ShiftType,

		Phase:      PhaseAt(s, now),
		Status:     s.Status,
		Attendance: s.Attendance,

		ExpectedWorkStart: s.ExpectedWorkStart,
		ExpectedWorkEnd:   s.ExpectedWorkEnd,
		ActualClockIn:     s.ActualClockIn,
		ActualClockOut:    s.ActualClockOut,

		WorkedDuration: FormatMinutes(worked),
		WorkedHours:    MinutesToHours(worked),

		LateMinutes:       s.LateMinutes,
		EarlyLeaveMinutes: s.EarlyLeaveMinutes,
		OvertimeMinutes:   s.OvertimeMinutes,

		RequiresHandover: s.RequiresHandover(),
		HandoverComplete: s.HandoverComplete(),
		AlertCount:       len(s.Alerts),
	}
}

func workedMinutes(s RotationSchedule) int {
	if s.ActualClockIn == nil || s.ActualClockOut == nil {
		return 0
	}
	m, err := SpanMinutes(*s.ActualClockIn, *s.ActualClockOut)
	if err != nil {
		return 0
	}
	return m
}

// =============================================================================
// DAY SUMMARY
// =============================================================================

// DaySummary aggregates one calendar date across a set of instances.
type DaySummary struct {
	Date  time.Time
	Total int

	ByStatus     map[ScheduleStatus]int
	ByAttendance map[AttendanceStatus]int
	ByShiftType  map[ShiftType]int

	LateCount        int
	AbsentCount      int
	OvertimeCount    int
	PendingHandovers int

	// AttendanceRate is attended instances over expected instances as a
	// percentage with two decimal places. Terminal instances are excluded
	// from the denominator.
	AttendanceRate decimal.Decimal
}

// SummarizeDay aggregates the instances of one date. Instances from other
// dates are skipped, so callers can pass an unfiltered list.
func SummarizeDay(date time.Time, schedules []RotationSchedule) DaySummary {
	sum := DaySummary{
		Date:         DateOnly(date),
		ByStatus:     make(map[ScheduleStatus]int),
		ByAttendance: make(map[AttendanceStatus]int),
		ByShiftType:  make(map[ShiftType]int),
	}

	expected, attended := 0, 0
	for _, s := range schedules {
		if !SameDate(s.ScheduleDate, date) {
			continue
		}
		sum.Total++
		sum.ByStatus[s.Status]++
		sum.ByAttendance[s.Attendance]++
		sum.ByShiftType[s.ShiftType]++

		if s.LateMinutes > 0 {
			sum.LateCount++
		}
		if s.Attendance == AttendanceAbsent {
			sum.AbsentCount++
		}
		if s.OvertimeMinutes > 0 {
			sum.OvertimeCount++
		}
		if s.RequiresHandover() && !s.HandoverComplete() {
			sum.PendingHandovers++
		}

		if s.Status.IsTerminal() {
			continue
		}
		expected++
		if s.ActualClockIn != nil {
			attended++
		}
	}

	if expected > 0 {
		sum.AttendanceRate = decimal.NewFromInt(int64(attended)).
			Div(decimal.NewFromInt(int64(expected))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return sum
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatMinutes renders a minute count as "9h30m", "45m", or "0m".
func FormatMinutes(m int) string {
	if m <= 0 {
		return "0m"
	}
	h, rem := m/60, m%60
	if h == 0 {
		return fmt.Sprintf("%dm", rem)
	}
	return fmt.Sprintf("%dh%dm", h, rem)
}

// MinutesToHours converts whole minutes to decimal hours, two places.
func MinutesToHours(m int) decimal.Decimal {
	return decimal.NewFromInt(int64(m)).Div(decimal.NewFromInt(60)).Round(2)
}
