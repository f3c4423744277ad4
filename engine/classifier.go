/*
classifier.go - The attendance classification algorithm

PURPOSE:
  Evaluate() is the core of the engine: given a schedule instance, its
  resolved shift, the day's punch events, and the governing rule, it produces
  an AttendanceVerdict - status, lateness/earliness/overtime minute counts,
  net work duration, handover requirement, and generated alerts.

STATE MODEL:
  PENDING -> CLOCKED_IN -> {CLOCKED_OUT | OVERTIME | EXCEPTION}
  ABSENT is reachable directly from PENDING when an end-of-day closeout runs
  with no punches. LATE and EARLY_LEAVE are flags carried alongside the
  status, not exclusive states: a punch can be both clocked-in and late.

PUNCH POLICY (explicit, deliberate):
  Punches are sorted by timestamp first, so partitioning is deterministic
  regardless of input order. With duplicate punches - common in real
  deployments - the FIRST accepted "in" and the LAST accepted "out" win.

PURITY:
  No I/O, no hidden clock. The evaluation instant arrives as input.Now and
  is used only to timestamp generated alerts; two calls with identical
  inputs yield identical verdicts, so batch re-evaluation is idempotent.

SEE ALSO:
  - clock.go: all overnight arithmetic
  - geofence.go: the three-valued GPS check
*/
package engine

import (
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// INPUT / OUTPUT
// =============================================================================

// EvaluationInput carries everything one evaluation needs. All data is
// fetched by the caller beforehand; the classifier performs no lookups.
type EvaluationInput struct {
	Schedule RotationSchedule
	Shift    *ShiftConfig // nil when resolution failed
	Punches  []PunchEvent
	Rule     RuleConfig

	// Closeout marks an end-of-day invocation: with no punches the verdict
	// becomes ABSENT unless OnApprovedLeave suppresses it. The engine has no
	// timers; the flag always comes from the batch driver.
	Closeout        bool
	OnApprovedLeave bool

	// Now is the evaluation instant, used only to timestamp alerts.
	Now time.Time
}

// RejectedPunch records a punch excluded from classification and why.
// Rejected punches never update the accepted clock-in/out times.
type RejectedPunch struct {
	Punch  PunchEvent
	Reason string
}

// Verdict reason codes.
const (
	ReasonNoApplicableRule = "NO_APPLICABLE_RULE"
	ReasonNoPunches        = "NO_PUNCHES"
	ReasonOnApprovedLeave  = "ON_APPROVED_LEAVE"
	ReasonSpanExceeds24h   = "SPAN_EXCEEDS_24H"
	ReasonOvertimeCeiling  = "OVERTIME_CEILING_EXCEEDED"
)

// AttendanceVerdict is the classification output for one employee-day.
// Persisting it onto the schedule row is the caller's responsibility.
type AttendanceVerdict struct {
	Status AttendanceStatus
	Reason string

	IsLate       bool
	IsEarlyLeave bool
	IsOvertime   bool

	LateMinutes         int
	EarlyLeaveMinutes   int
	OvertimeMinutes     int
	WorkDurationMinutes int

	ClockInAt  *time.Time
	ClockOutAt *time.Time

	Geofence         GeofenceOutcome
	RequiresHandover bool

	Rejected []RejectedPunch
	Alerts   []AlertInfo
}

// =============================================================================
// EVALUATE
// =============================================================================

// Evaluate classifies one employee-day. Pure: identical inputs produce
// identical verdicts.
func Evaluate(in EvaluationInput) AttendanceVerdict {
	v := AttendanceVerdict{
		Status:   AttendancePending,
		Geofence: GeofenceNotApplicable,
	}

	if in.Shift == nil {
		v.Status = AttendanceException
		v.Reason = ReasonNoApplicableRule
		v.Alerts = append(v.Alerts, alert(in, AlertHigh, AlertNoApplicableRule,
			"no rotation rule resolved for this schedule"))
		return v
	}

	expStart, expEnd := expectedWindow(in.Schedule, *in.Shift)

	clockIn, clockOut := partitionPunches(in, &v)

	v.ClockInAt = clockIn
	v.ClockOutAt = clockOut

	if clockIn == nil && clockOut == nil {
		if in.Closeout {
			if in.OnApprovedLeave {
				v.Reason = ReasonOnApprovedLeave
			} else {
				v.Status = AttendanceAbsent
				v.Reason = ReasonNoPunches
			}
		}
		finishHandover(in, &v, clockIn, clockOut)
		return v
	}

	if clockIn != nil {
		late := minutesAfter(expStart, *clockIn)
		v.LateMinutes = late
		v.IsLate = late > in.Rule.LateToleranceMinutes
		v.Status = AttendanceClockedIn
	}

	if clockOut != nil {
		early := minutesAfter(*clockOut, expEnd)
		v.EarlyLeaveMinutes = early
		v.IsEarlyLeave = early > in.Rule.EarlyLeaveToleranceMinutes
		v.Status = AttendanceClockedOut
	}

	ceilingExceeded := false
	if clockOut != nil && in.Rule.Overtime.AllowOvertime {
		threshold := expEnd.Add(time.Duration(in.Rule.Overtime.ApprovalGraceMinutes) * time.Minute)
		ot := minutesAfter(threshold, *clockOut)
		v.OvertimeMinutes = ot
		v.IsOvertime = ot > 0
		if max := in.Rule.Overtime.MaxDailyMinutes; max > 0 && ot > max {
			ceilingExceeded = true
			v.Alerts = append(v.Alerts, alert(in, AlertHigh, AlertOvertimeCeiling,
				fmt.Sprintf("overtime %dm exceeds ceiling %dm", ot, max)))
		}
	}

	if clockIn != nil && clockOut != nil {
		span, err := SpanMinutes(*clockIn, *clockOut)
		if err != nil {
			v.Status = AttendanceException
			v.Reason = ReasonSpanExceeds24h
			v.Alerts = append(v.Alerts, alert(in, AlertCritical, "DATA_CONSISTENCY",
				"work span exceeds 24 hours"))
			finishHandover(in, &v, clockIn, clockOut)
			return v
		}
		v.WorkDurationMinutes = span - restOverlapMinutes(in.Schedule, *in.Shift, expStart, *clockIn, *clockOut)
	}

	switch {
	case ceilingExceeded:
		v.Status = AttendanceException
		v.Reason = ReasonOvertimeCeiling
	case v.IsOvertime:
		v.Status = AttendanceOvertime
	}

	finishHandover(in, &v, clockIn, clockOut)
	return v
}

// =============================================================================
// PUNCH PARTITIONING
// =============================================================================

// partitionPunches sorts, validates, and geofence-checks the punches, then
// applies the first-in/last-out policy over the accepted ones.
func partitionPunches(in EvaluationInput, v *AttendanceVerdict) (clockIn, clockOut *time.Time) {
	punches := make([]PunchEvent, len(in.Punches))
	copy(punches, in.Punches)
	sort.SliceStable(punches, func(i, j int) bool { return punches[i].At.Before(punches[j].At) })

	checked := false
	var ins, outs []PunchEvent
	for _, p := range punches {
		if p.At.IsZero() {
			reject(in, v, p, "missing or unparseable timestamp", AlertInvalidPunch, AlertMedium)
			continue
		}
		if in.Rule.GPSValidationEnabled {
			checked = true
			res := Validate(in.Rule.Fence, p.Location, true)
			if !res.WithinRange() {
				v.Geofence = GeofenceFailed
				reject(in, v, p,
					fmt.Sprintf("outside geofence (%.0fm)", res.DistanceMeters),
					AlertGeofenceRejected, AlertHigh)
				continue
			}
		}
		switch p.Direction {
		case PunchIn:
			ins = append(ins, p)
		case PunchOut:
			outs = append(outs, p)
		default:
			reject(in, v, p, "unknown punch direction", AlertInvalidPunch, AlertMedium)
		}
	}

	if checked && v.Geofence != GeofenceFailed {
		v.Geofence = GeofencePassed
	}

	// First-in / last-out policy over accepted punches.
	if len(ins) > 0 {
		t := ins[0].At
		clockIn = &t
	}
	if len(outs) > 0 {
		t := outs[len(outs)-1].At
		if clockIn != nil && !t.After(*clockIn) {
			reject(in, v, outs[len(outs)-1], "clock-out precedes clock-in", AlertInvalidPunch, AlertMedium)
		} else {
			clockOut = &t
		}
	}
	return clockIn, clockOut
}

func reject(in EvaluationInput, v *AttendanceVerdict, p PunchEvent, reason, alertType string, level AlertLevel) {
	v.Rejected = append(v.Rejected, RejectedPunch{Punch: p, Reason: reason})
	v.Alerts = append(v.Alerts, alert(in, level, alertType,
		fmt.Sprintf("punch rejected: %s", reason)))
}

// =============================================================================
// TIME HELPERS - all overnight math delegates to clock.go
// =============================================================================

// expectedWindow prefers the expected datetimes materialized on the instance
// and falls back to anchoring the shift's clocks onto the schedule date.
func expectedWindow(s RotationSchedule, shift ShiftConfig) (time.Time, time.Time) {
	if !s.ExpectedWorkStart.IsZero() && !s.ExpectedWorkEnd.IsZero() {
		return s.ExpectedWorkStart, s.ExpectedWorkEnd
	}
	start, end, err := NormalizeWindow(DateOnly(s.ScheduleDate), shift.WorkStart, shift.WorkEnd)
	if err != nil {
		return time.Time{}, time.Time{}
	}
	return start, end
}

// minutesAfter returns the whole minutes by which b trails a, clamped at 0.
func minutesAfter(a, b time.Time) int {
	d := b.Sub(a)
	if d <= 0 {
		return 0
	}
	return int(d.Minutes())
}

// restOverlapMinutes returns the rest-window minutes to subtract from the
// worked span: the full rest duration when both rest bounds lie strictly
// inside the actual (clock-in, clock-out) window, zero otherwise.
func restOverlapMinutes(s RotationSchedule, shift ShiftConfig, expStart, clockIn, clockOut time.Time) int {
	var restStart, restEnd time.Time
	switch {
	case s.ExpectedRestStart != nil && s.ExpectedRestEnd != nil:
		restStart, restEnd = *s.ExpectedRestStart, *s.ExpectedRestEnd
	case shift.HasRest():
		rs, re, err := NormalizeWindow(DateOnly(expStart), shift.RestStart, shift.RestEnd)
		if err != nil {
			return 0
		}
		// An overnight shift's rest window may fall past midnight.
		if rs.Before(expStart) {
			rs = rs.AddDate(0, 0, 1)
			re = re.AddDate(0, 0, 1)
		}
		restStart, restEnd = rs, re
	default:
		return 0
	}

	if restStart.After(clockIn) && restEnd.Before(clockOut) {
		return int(restEnd.Sub(restStart).Minutes())
	}
	return 0
}

// finishHandover applies classification step 7: handover is required for
// night/graveyard shift types or when the actual punches span midnight, and
// a missing or incomplete handover record raises an alert.
func finishHandover(in EvaluationInput, v *AttendanceVerdict, clockIn, clockOut *time.Time) {
	required := in.Shift != nil && in.Shift.Type.RequiresHandover()
	if !required && clockIn != nil && clockOut != nil {
		required = IsOvernight(*clockIn, *clockOut)
	}
	if !required {
		required = in.Schedule.RequiresHandover()
	}
	v.RequiresHandover = required

	if required && !in.Schedule.HandoverComplete() {
		v.Alerts = append(v.Alerts, alert(in, AlertMedium, AlertHandoverPending,
			"handover pending for "+string(in.Schedule.ScheduleID)))
	}
}

// alert builds a deterministic alert: the ID derives from the schedule, type,
// and position so that re-evaluating identical inputs yields identical output.
func alert(in EvaluationInput, level AlertLevel, alertType, message string) AlertInfo {
	return AlertInfo{
		ID:        AlertID(fmt.Sprintf("%s-%s", in.Schedule.ScheduleID, alertType)),
		Level:     level,
		Type:      alertType,
		Message:   message,
		CreatedAt: in.Now,
	}
}
