/*
schedule.go - Schedule instances: one employee, one date, one resolved shift

PURPOSE:
  RotationSchedule is the concrete assignment produced when a rotation is
  applied to an employee/date (by catalog resolution or manual assignment).
  It carries the resolved shift by value (IDs and expected times copied in),
  the actual punch results, and any handover/task/alert attachments.

LIFECYCLE:
  Created by the planner or manual assignment; mutated by punch ingestion
  (the classifier's verdict is written back by the caller) and by
  exchange/leave/cancel operations. Never physically deleted - cancelled and
  exchanged are terminal STATUS values, not removals.
*/
package engine

import "time"

// =============================================================================
// ROTATION SCHEDULE - The schedule instance
// =============================================================================

type RotationSchedule struct {
	ScheduleID       ScheduleID
	RotationSystemID SystemID
	ShiftID          ShiftID
	ShiftName        string
	ShiftType        ShiftType

	EmployeeID   EmployeeID
	DepartmentID DepartmentID
	ScheduleDate time.Time // calendar date, midnight-anchored

	ExpectedWorkStart time.Time
	ExpectedWorkEnd   time.Time
	ExpectedRestStart *time.Time
	ExpectedRestEnd   *time.Time

	ActualClockIn  *time.Time
	ActualClockOut *time.Time

	Status     ScheduleStatus
	Attendance AttendanceStatus

	LateMinutes       int
	EarlyLeaveMinutes int
	OvertimeMinutes   int

	// Exchange/leave metadata; set by the corresponding operations.
	LeaveType       string
	ExchangedWith   EmployeeID
	ExchangeRef     string

	Handover *HandoverInfo
	Tasks    []WorkTask
	Alerts   []AlertInfo

	Priority   int
	CreateTime time.Time
	UpdateTime time.Time
}

// Validate enforces the instance invariants: identity fields always present,
// and normalized windows ordered start <= end.
func (s *RotationSchedule) Validate() error {
	if s.ScheduleID == "" || s.EmployeeID == "" || s.ScheduleDate.IsZero() {
		return ErrInvalidRule
	}
	if !s.ExpectedWorkStart.IsZero() && !s.ExpectedWorkEnd.IsZero() {
		if s.ExpectedWorkEnd.Before(s.ExpectedWorkStart) {
			return ErrNegativeInterval
		}
		if s.ExpectedWorkEnd.Sub(s.ExpectedWorkStart) > 24*time.Hour {
			return ErrSpanExceeds24h
		}
	}
	if s.ExpectedRestStart != nil && s.ExpectedRestEnd != nil &&
		s.ExpectedRestEnd.Before(*s.ExpectedRestStart) {
		return ErrNegativeInterval
	}
	return nil
}

// IsOvernightWork reports whether the expected work window spans two
// calendar dates.
func (s *RotationSchedule) IsOvernightWork() bool {
	return IsOvernight(s.ExpectedWorkStart, s.ExpectedWorkEnd)
}

// RequiresHandover reports whether this instance mandates a handover:
// night/graveyard shift type or an overnight work window.
func (s *RotationSchedule) RequiresHandover() bool {
	return s.ShiftType.RequiresHandover() || s.IsOvernightWork()
}

// HandoverComplete reports whether a completed handover record is attached.
func (s *RotationSchedule) HandoverComplete() bool {
	return s.Handover != nil && s.Handover.Status == HandoverCompleted
}

// ApplyVerdict copies an evaluation verdict onto the instance. The engine
// itself never persists; write-back through a ScheduleStore is the caller's
// transaction boundary.
func (s *RotationSchedule) ApplyVerdict(v AttendanceVerdict, at time.Time) {
	s.Attendance = v.Status
	s.LateMinutes = v.LateMinutes
	s.EarlyLeaveMinutes = v.EarlyLeaveMinutes
	s.OvertimeMinutes = v.OvertimeMinutes
	s.ActualClockIn = v.ClockInAt
	s.ActualClockOut = v.ClockOutAt
	s.mergeAlerts(v.Alerts)
	s.UpdateTime = at

	switch v.Status {
	case AttendanceAbsent:
		s.Status = ScheduleAbsent
	case AttendanceClockedOut, AttendanceOvertime:
		s.Status = ScheduleCompleted
	case AttendanceClockedIn:
		s.Status = ScheduleInProgress
	}
}

// mergeAlerts adds verdict alerts, skipping IDs already attached. Alert IDs
// are deterministic per schedule and type, so re-evaluation converges instead
// of accumulating duplicates.
func (s *RotationSchedule) mergeAlerts(alerts []AlertInfo) {
	seen := make(map[AlertID]bool, len(s.Alerts))
	for _, a := range s.Alerts {
		seen[a.ID] = true
	}
	for _, a := range alerts {
		if seen[a.ID] {
			continue
		}
		s.Alerts = append(s.Alerts, a)
		seen[a.ID] = true
	}
}
