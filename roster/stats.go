/*
stats.go - Per-employee range statistics

PURPOSE:
  Aggregates one employee's schedule instances over a date range into counts,
  a shift-type distribution, and decimal ratios (attendance rate, average
  lateness). The computation is pure; Reporter wires it to a store.
*/
package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/rotation-engine/engine"
)

// EmployeeStats summarizes one employee over [From, To].
type EmployeeStats struct {
	EmployeeID engine.EmployeeID
	From, To   time.Time

	TotalDays     int // calendar days in the range
	WorkDays      int // non-terminal scheduled instances
	RestDays      int // calendar days with no active instance
	LeaveDays     int
	CancelledDays int

	AbsentCount     int
	LateCount       int
	EarlyLeaveCount int
	OvertimeCount   int

	TotalWorkMinutes     int
	TotalOvertimeMinutes int

	ByShiftType map[engine.ShiftType]int

	// AttendanceRate is attended over expected work days, percent, two
	// decimals. AvgLateMinutes averages over late instances only.
	AttendanceRate decimal.Decimal
	AvgLateMinutes decimal.Decimal
}

// ComputeStats aggregates the given instances over the range. Instances
// outside the range or belonging to other employees are skipped, so callers
// can pass an unfiltered list.
func ComputeStats(emp engine.EmployeeID, from, to time.Time, schedules []engine.RotationSchedule) EmployeeStats {
	from, to = engine.DateOnly(from), engine.DateOnly(to)
	stats := EmployeeStats{
		EmployeeID:  emp,
		From:        from,
		To:          to,
		TotalDays:   engine.DaysBetween(from, to) + 1,
		ByShiftType: make(map[engine.ShiftType]int),
	}

	attended, lateMinutesTotal := 0, 0
	activeDays := make(map[string]bool)

	for _, s := range schedules {
		if s.EmployeeID != emp {
			continue
		}
		d := engine.DateOnly(s.ScheduleDate)
		if d.Before(from) || d.After(to) {
			continue
		}

		switch {
		case s.Status.IsTerminal():
			stats.CancelledDays++
			continue
		case s.Status == engine.ScheduleOnLeave:
			stats.LeaveDays++
			activeDays[d.Format("2006-01-02")] = true
			continue
		}

		stats.WorkDays++
		stats.ByShiftType[s.ShiftType]++
		activeDays[d.Format("2006-01-02")] = true

		if s.Attendance == engine.AttendanceAbsent {
			stats.AbsentCount++
		}
		if s.ActualClockIn != nil {
			attended++
		}
		if s.LateMinutes > 0 {
			stats.LateCount++
			lateMinutesTotal += s.LateMinutes
		}
		if s.EarlyLeaveMinutes > 0 {
			stats.EarlyLeaveCount++
		}
		if s.OvertimeMinutes > 0 {
			stats.OvertimeCount++
			stats.TotalOvertimeMinutes += s.OvertimeMinutes
		}
		if s.ActualClockIn != nil && s.ActualClockOut != nil {
			if m, err := engine.SpanMinutes(*s.ActualClockIn, *s.ActualClockOut); err == nil {
				stats.TotalWorkMinutes += m
			}
		}
	}

	stats.RestDays = stats.TotalDays - len(activeDays)
	if stats.RestDays < 0 {
		stats.RestDays = 0
	}

	if stats.WorkDays > 0 {
		stats.AttendanceRate = decimal.NewFromInt(int64(attended)).
			Div(decimal.NewFromInt(int64(stats.WorkDays))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	if stats.LateCount > 0 {
		stats.AvgLateMinutes = decimal.NewFromInt(int64(lateMinutesTotal)).
			Div(decimal.NewFromInt(int64(stats.LateCount))).
			Round(2)
	}
	return stats
}

// Reporter serves statistics from a schedule store.
type Reporter struct {
	Schedules engine.ScheduleStore
}

// EmployeeStats loads the employee's instances and aggregates them.
func (r *Reporter) EmployeeStats(ctx context.Context, emp engine.EmployeeID, from, to time.Time) (*EmployeeStats, error) {
	schedules, err := r.Schedules.ListByEmployee(ctx, emp, from, to)
	if err != nil {
		return nil, fmt.Errorf("list schedules for %s: %w", emp, err)
	}
	stats := ComputeStats(emp, from, to, schedules)
	return &stats, nil
}

// DaySummary projects one date across the whole store.
func (r *Reporter) DaySummary(ctx context.Context, date time.Time) (*engine.DaySummary, error) {
	schedules, err := r.Schedules.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list schedules for %s: %w", date.Format("2006-01-02"), err)
	}
	sum := engine.SummarizeDay(date, schedules)
	return &sum, nil
}
