package engine_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/warp/rotation-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Note: at(), date(), clock(), and the config fixtures live in clock_test.go
// and catalog_test.go.

func graveyardShift() *engine.ShiftConfig {
	return &engine.ShiftConfig{
		ShiftID: "graveyard", Name: "Graveyard", Type: engine.ShiftGraveyard,
		WorkStart: clock(22, 0), WorkEnd: clock(6, 0),
		RestStart: engine.ClockUnset, RestEnd: engine.ClockUnset,
	}
}

func dayShift() *engine.ShiftConfig {
	return &engine.ShiftConfig{
		ShiftID: "day", Name: "Day", Type: engine.ShiftMorning,
		WorkStart: clock(9, 0), WorkEnd: clock(18, 0),
		RestStart: clock(12, 0), RestEnd: clock(13, 0),
	}
}

func scheduleFor(t *testing.T, shift *engine.ShiftConfig, day time.Time) engine.RotationSchedule {
	t.Helper()
	start, end, err := engine.NormalizeWindow(day, shift.WorkStart, shift.WorkEnd)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return engine.RotationSchedule{
		ScheduleID:   "sch-1",
		EmployeeID:   "emp-1",
		ScheduleDate: day,
		ShiftID:      shift.ShiftID,
		ShiftName:    shift.Name,
		ShiftType:    shift.Type,

		ExpectedWorkStart: start,
		ExpectedWorkEnd:   end,
		Status:            engine.ScheduleScheduled,
		Attendance:        engine.AttendancePending,
	}
}

func punch(t *testing.T, dir engine.PunchDirection, ts string) engine.PunchEvent {
	t.Helper()
	return engine.PunchEvent{EmployeeID: "emp-1", Direction: dir, At: at(t, ts)}
}

var lenientRule = engine.RuleConfig{
	LateToleranceMinutes:       10,
	EarlyLeaveToleranceMinutes: 10,
}

// =============================================================================
// OVERNIGHT GRAVEYARD SHIFT
// =============================================================================

func TestEvaluate_GraveyardOvernight(t *testing.T) {
	// GIVEN: 22:00-06:00 graveyard, clock-in 21:55, clock-out 06:05 next day
	// THEN: Not late, not early-leave, 490 worked minutes, handover required
	sched := scheduleFor(t, graveyardShift(), date(2026, time.March, 1))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched,
		Shift:    graveyardShift(),
		Rule:     lenientRule,
		Punches: []engine.PunchEvent{
			punch(t, engine.PunchIn, "2026-03-01 21:55"),
			punch(t, engine.PunchOut, "2026-03-02 06:05"),
		},
		Now: at(t, "2026-03-02 07:00"),
	})

	if v.IsLate || v.LateMinutes != 0 {
		t.Errorf("early arrival must not be late: %+v", v)
	}
	if v.IsEarlyLeave || v.EarlyLeaveMinutes != 0 {
		t.Errorf("leaving after end must not be early-leave: %+v", v)
	}
	if v.WorkDurationMinutes != 490 {
		t.Errorf("expected 490 worked minutes, got %d", v.WorkDurationMinutes)
	}
	if v.Status != engine.AttendanceClockedOut {
		t.Errorf("expected clocked_out, got %s", v.Status)
	}
	if !v.RequiresHandover {
		t.Error("graveyard shift must require handover")
	}
	if len(v.Alerts) != 1 || v.Alerts[0].Type != engine.AlertHandoverPending {
		t.Errorf("expected one handover-pending alert, got %+v", v.Alerts)
	}
}

func TestEvaluate_HandoverCompleteSuppressesAlert(t *testing.T) {
	sched := scheduleFor(t, graveyardShift(), date(2026, time.March, 1))
	sched.Handover = &engine.HandoverInfo{
		Status:       engine.HandoverCompleted,
		FromEmployee: "emp-1",
		ToEmployee:   "emp-2",
		Confirmed:    true,
	}
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched,
		Shift:    graveyardShift(),
		Rule:     lenientRule,
		Punches: []engine.PunchEvent{
			punch(t, engine.PunchIn, "2026-03-01 22:00"),
			punch(t, engine.PunchOut, "2026-03-02 06:00"),
		},
		Now: at(t, "2026-03-02 07:00"),
	})
	if !v.RequiresHandover {
		t.Error("handover still required")
	}
	if len(v.Alerts) != 0 {
		t.Errorf("completed handover must not alert: %+v", v.Alerts)
	}
}

// =============================================================================
// LATENESS BOUNDARY
// =============================================================================

func TestEvaluate_LatenessToleranceIsInclusive(t *testing.T) {
	// GIVEN: 09:00 start with 10-minute tolerance
	// THEN: Exactly 10 minutes late is within tolerance; 11 is not
	cases := []struct {
		in          string
		lateMinutes int
		isLate      bool
	}{
		{"2026-03-02 08:55", 0, false},
		{"2026-03-02 09:00", 0, false},
		{"2026-03-02 09:09", 9, false},
		{"2026-03-02 09:10", 10, false},
		{"2026-03-02 09:11", 11, true},
		{"2026-03-02 09:30", 30, true},
	}
	for _, c := range cases {
		sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
		v := engine.Evaluate(engine.EvaluationInput{
			Schedule: sched,
			Shift:    dayShift(),
			Rule:     lenientRule,
			Punches:  []engine.PunchEvent{punch(t, engine.PunchIn, c.in)},
			Now:      at(t, "2026-03-02 10:00"),
		})
		if v.LateMinutes != c.lateMinutes || v.IsLate != c.isLate {
			t.Errorf("in %s: got late=%d/%v, want %d/%v",
				c.in, v.LateMinutes, v.IsLate, c.lateMinutes, c.isLate)
		}
		if v.Status != engine.AttendanceClockedIn {
			t.Errorf("in-only punch must be clocked_in, got %s", v.Status)
		}
	}
}

func TestEvaluate_LatenessIsMonotonic(t *testing.T) {
	// Later arrival never yields fewer late minutes.
	prev := -1
	for minute := 0; minute <= 120; minute += 7 {
		sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
		in := sched.ExpectedWorkStart.Add(time.Duration(minute) * time.Minute)
		v := engine.Evaluate(engine.EvaluationInput{
			Schedule: sched,
			Shift:    dayShift(),
			Rule:     lenientRule,
			Punches:  []engine.PunchEvent{{EmployeeID: "emp-1", Direction: engine.PunchIn, At: in}},
			Now:      at(t, "2026-03-02 23:00"),
		})
		if v.LateMinutes < prev {
			t.Fatalf("lateness decreased: %d after %d", v.LateMinutes, prev)
		}
		prev = v.LateMinutes
	}
}

// =============================================================================
// OVERTIME AND REST DEDUCTION
// =============================================================================

func TestEvaluate_OvertimeWithRestDeduction(t *testing.T) {
	// GIVEN: 09:00-18:00 with 12:00-13:00 rest, overtime allowed, zero grace
	// WHEN: In 09:00, out 19:30
	// THEN: Net 570 minutes (630 minus rest), 90 overtime minutes
	rule := lenientRule
	rule.Overtime = engine.OvertimeConfig{AllowOvertime: true}

	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched,
		Shift:    dayShift(),
		Rule:     rule,
		Punches: []engine.PunchEvent{
			punch(t, engine.PunchIn, "2026-03-02 09:00"),
			punch(t, engine.PunchOut, "2026-03-02 19:30"),
		},
		Now: at(t, "2026-03-02 20:00"),
	})

	if v.WorkDurationMinutes != 570 {
		t.Errorf("expected 570 net minutes, got %d", v.WorkDurationMinutes)
	}
	if v.OvertimeMinutes != 90 || !v.IsOvertime {
		t.Errorf("expected 90 overtime minutes, got %d (%v)", v.OvertimeMinutes, v.IsOvertime)
	}
	if v.Status != engine.AttendanceOvertime {
		t.Errorf("expected overtime status, got %s", v.Status)
	}
}

func TestEvaluate_OvertimeRequiresEnablement(t *testing.T) {
	// Same punches with overtime disallowed: zero overtime, clocked_out.
	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched,
		Shift:    dayShift(),
		Rule:     lenientRule,
		Punches: []engine.PunchEvent{
			punch(t, engine.PunchIn, "2026-03-02 09:00"),
			punch(t, engine.PunchOut, "2026-03-02 19:30"),
		},
		Now: at(t, "2026-03-02 20:00"),
	})
	if v.OvertimeMinutes != 0 || v.IsOvertime {
		t.Errorf("overtime must be zero when disallowed, got %d", v.OvertimeMinutes)
	}
	if v.Status != engine.AttendanceClockedOut {
		t.Errorf("expected clocked_out, got %s", v.Status)
	}
}

func TestEvaluate_GraceShiftsOvertimeThreshold(t *testing.T) {
	rule := lenientRule
	rule.Overtime = engine.OvertimeConfig{AllowOvertime: true, ApprovalGraceMinutes: 30}

	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched,
		Shift:    dayShift(),
		Rule:     rule,
		Punches: []engine.PunchEvent{
			punch(t, engine.PunchIn, "2026-03-02 09:00"),
			punch(t, engine.PunchOut, "2026-03-02 19:30"),
		},
		Now: at(t, "2026-03-02 20:00"),
	})
	if v.OvertimeMinutes != 60 {
		t.Errorf("expected 60 overtime minutes past 18:30, got %d", v.OvertimeMinutes)
	}
}

func TestEvaluate_OvertimeCeilingBreachIsException(t *testing.T) {
	rule := lenientRule
	rule.Overtime = engine.OvertimeConfig{AllowOvertime: true, MaxDailyMinutes: 60}

	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched,
		Shift:    dayShift(),
		Rule:     rule,
		Punches: []engine.PunchEvent{
			punch(t, engine.PunchIn, "2026-03-02 09:00"),
			punch(t, engine.PunchOut, "2026-03-02 19:30"),
		},
		Now: at(t, "2026-03-02 20:00"),
	})
	if v.Status != engine.AttendanceException {
		t.Errorf("ceiling breach must be exception, got %s", v.Status)
	}
	if !hasAlert(v.Alerts, engine.AlertOvertimeCeiling) {
		t.Errorf("expected overtime-ceiling alert, got %+v", v.Alerts)
	}
}

func hasAlert(alerts []engine.AlertInfo, alertType string) bool {
	for _, a := range alerts {
		if a.Type == alertType {
			return true
		}
	}
	return false
}

// =============================================================================
// GPS VALIDATION
// =============================================================================

func TestEvaluate_GeofenceRejectionNeverUpdatesClockTimes(t *testing.T) {
	// GIVEN: GPS validation enabled with a 200m fence
	rule := lenientRule
	rule.GPSValidationEnabled = true
	rule.Fence = testFence

	far := &engine.Coordinate{Latitude: 31.2394, Longitude: 121.4737}
	p := punch(t, engine.PunchIn, "2026-03-02 09:00")
	p.Location = far

	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched,
		Shift:    dayShift(),
		Rule:     rule,
		Punches:  []engine.PunchEvent{p},
		Now:      at(t, "2026-03-02 10:00"),
	})

	if v.ClockInAt != nil {
		t.Error("rejected punch must not set clock-in")
	}
	if v.Status != engine.AttendancePending {
		t.Errorf("expected pending, got %s", v.Status)
	}
	if v.Geofence != engine.GeofenceFailed {
		t.Errorf("expected geofence failed, got %s", v.Geofence)
	}
	if len(v.Rejected) != 1 || !hasAlert(v.Alerts, engine.AlertGeofenceRejected) {
		t.Errorf("expected rejection record plus alert: %+v / %+v", v.Rejected, v.Alerts)
	}
}

func TestEvaluate_MissingLocationFailsClosed(t *testing.T) {
	rule := lenientRule
	rule.GPSValidationEnabled = true
	rule.Fence = testFence

	p := punch(t, engine.PunchIn, "2026-03-02 09:00") // no Location
	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched, Shift: dayShift(), Rule: rule,
		Punches: []engine.PunchEvent{p},
		Now:     at(t, "2026-03-02 10:00"),
	})
	if v.ClockInAt != nil || v.Geofence != engine.GeofenceFailed {
		t.Errorf("punch without GPS fix under an enabled rule must fail closed: %+v", v)
	}
}

func TestEvaluate_GeofenceDisabledAcceptsAnyLocation(t *testing.T) {
	p := punch(t, engine.PunchIn, "2026-03-02 09:00")
	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched, Shift: dayShift(), Rule: lenientRule,
		Punches: []engine.PunchEvent{p},
		Now:     at(t, "2026-03-02 10:00"),
	})
	if v.Geofence != engine.GeofenceNotApplicable {
		t.Errorf("disabled GPS must report not_applicable, got %s", v.Geofence)
	}
	if v.ClockInAt == nil {
		t.Error("punch must be accepted when GPS is disabled")
	}
}

// =============================================================================
// PUNCH POLICY
// =============================================================================

func TestEvaluate_FirstInLastOutWithDuplicates(t *testing.T) {
	// Punches arrive out of order and duplicated; first in / last out win.
	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched, Shift: dayShift(), Rule: lenientRule,
		Punches: []engine.PunchEvent{
			punch(t, engine.PunchOut, "2026-03-02 17:50"),
			punch(t, engine.PunchIn, "2026-03-02 09:02"),
			punch(t, engine.PunchIn, "2026-03-02 08:58"),
			punch(t, engine.PunchOut, "2026-03-02 18:01"),
		},
		Now: at(t, "2026-03-02 19:00"),
	})
	if v.ClockInAt == nil || !v.ClockInAt.Equal(at(t, "2026-03-02 08:58")) {
		t.Errorf("expected first in 08:58, got %v", v.ClockInAt)
	}
	if v.ClockOutAt == nil || !v.ClockOutAt.Equal(at(t, "2026-03-02 18:01")) {
		t.Errorf("expected last out 18:01, got %v", v.ClockOutAt)
	}
}

func TestEvaluate_OutBeforeInIsRejected(t *testing.T) {
	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched, Shift: dayShift(), Rule: lenientRule,
		Punches: []engine.PunchEvent{
			punch(t, engine.PunchIn, "2026-03-02 09:00"),
			punch(t, engine.PunchOut, "2026-03-02 08:30"),
		},
		Now: at(t, "2026-03-02 10:00"),
	})
	if v.ClockOutAt != nil {
		t.Error("out preceding in must be rejected")
	}
	if v.Status != engine.AttendanceClockedIn {
		t.Errorf("expected clocked_in, got %s", v.Status)
	}
	if len(v.Rejected) != 1 {
		t.Errorf("expected one rejected punch, got %d", len(v.Rejected))
	}
}

func TestEvaluate_SpanOver24hIsException(t *testing.T) {
	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched, Shift: dayShift(), Rule: lenientRule,
		Punches: []engine.PunchEvent{
			punch(t, engine.PunchIn, "2026-03-02 09:00"),
			punch(t, engine.PunchOut, "2026-03-03 10:00"),
		},
		Now: at(t, "2026-03-03 11:00"),
	})
	if v.Status != engine.AttendanceException || v.Reason != engine.ReasonSpanExceeds24h {
		t.Errorf("25h span must be a data-error exception, got %s/%s", v.Status, v.Reason)
	}
}

// =============================================================================
// CLOSEOUT AND ABSENCE
// =============================================================================

func TestEvaluate_CloseoutMarksAbsent(t *testing.T) {
	// GIVEN: No punches and an end-of-day closeout
	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched, Shift: dayShift(), Rule: lenientRule,
		Closeout: true,
		Now:      at(t, "2026-03-02 23:00"),
	})
	if v.Status != engine.AttendanceAbsent || v.Reason != engine.ReasonNoPunches {
		t.Errorf("expected absent/no-punches, got %s/%s", v.Status, v.Reason)
	}
}

func TestEvaluate_ApprovedLeaveSuppressesAbsence(t *testing.T) {
	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched, Shift: dayShift(), Rule: lenientRule,
		Closeout: true, OnApprovedLeave: true,
		Now: at(t, "2026-03-02 23:00"),
	})
	if v.Status != engine.AttendancePending || v.Reason != engine.ReasonOnApprovedLeave {
		t.Errorf("approved leave must suppress absence, got %s/%s", v.Status, v.Reason)
	}
}

func TestEvaluate_NoPunchesWithoutCloseoutStaysPending(t *testing.T) {
	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched, Shift: dayShift(), Rule: lenientRule,
		Now: at(t, "2026-03-02 10:00"),
	})
	if v.Status != engine.AttendancePending {
		t.Errorf("mid-day absence of punches must stay pending, got %s", v.Status)
	}
}

// =============================================================================
// RESOLUTION FAILURE AND IDEMPOTENCE
// =============================================================================

func TestEvaluate_NilShiftIsException(t *testing.T) {
	sched := scheduleFor(t, dayShift(), date(2026, time.March, 2))
	v := engine.Evaluate(engine.EvaluationInput{
		Schedule: sched, Rule: lenientRule,
		Now: at(t, "2026-03-02 10:00"),
	})
	if v.Status != engine.AttendanceException || v.Reason != engine.ReasonNoApplicableRule {
		t.Errorf("nil shift must be exception/no-applicable-rule, got %s/%s", v.Status, v.Reason)
	}
	if !hasAlert(v.Alerts, engine.AlertNoApplicableRule) {
		t.Error("expected no-applicable-rule alert")
	}
}

func TestEvaluate_IsIdempotent(t *testing.T) {
	// Two evaluations of identical input produce identical verdicts,
	// including alert IDs and timestamps.
	rule := lenientRule
	rule.Overtime = engine.OvertimeConfig{AllowOvertime: true, MaxDailyMinutes: 30}

	input := engine.EvaluationInput{
		Schedule: scheduleFor(t, dayShift(), date(2026, time.March, 2)),
		Shift:    dayShift(),
		Rule:     rule,
		Punches: []engine.PunchEvent{
			punch(t, engine.PunchIn, "2026-03-02 09:30"),
			punch(t, engine.PunchOut, "2026-03-02 20:00"),
		},
		Now: at(t, "2026-03-02 21:00"),
	}

	v1 := engine.Evaluate(input)
	v2 := engine.Evaluate(input)
	if !reflect.DeepEqual(v1, v2) {
		t.Errorf("verdicts differ:\n%+v\n%+v", v1, v2)
	}
}

func TestEvaluate_DoesNotMutateInputPunches(t *testing.T) {
	punches := []engine.PunchEvent{
		punch(t, engine.PunchOut, "2026-03-02 18:00"),
		punch(t, engine.PunchIn, "2026-03-02 09:00"),
	}
	engine.Evaluate(engine.EvaluationInput{
		Schedule: scheduleFor(t, dayShift(), date(2026, time.March, 2)),
		Shift:    dayShift(),
		Rule:     lenientRule,
		Punches:  punches,
		Now:      at(t, "2026-03-02 19:00"),
	})
	if !punches[0].At.Equal(at(t, "2026-03-02 18:00")) {
		t.Error("input slice was reordered")
	}
}
