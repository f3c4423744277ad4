package engine_test

import (
	"testing"

	"github.com/warp/rotation-engine/engine"
)

func instance(t *testing.T, id engine.ScheduleID, emp engine.EmployeeID, start, end string) engine.RotationSchedule {
	t.Helper()
	s := at(t, start)
	return engine.RotationSchedule{
		ScheduleID:        id,
		EmployeeID:        emp,
		ScheduleDate:      engine.DateOnly(s),
		ShiftName:         string(id),
		ExpectedWorkStart: s,
		ExpectedWorkEnd:   at(t, end),
		Status:            engine.ScheduleScheduled,
	}
}

// =============================================================================
// TIME OVERLAP
// =============================================================================

func TestDetectConflicts_OverlappingPair(t *testing.T) {
	// GIVEN: One employee with 09:00-18:00 and 14:00-22:00 on the same day
	schedules := []engine.RotationSchedule{
		instance(t, "a", "emp-1", "2026-03-02 09:00", "2026-03-02 18:00"),
		instance(t, "b", "emp-1", "2026-03-02 14:00", "2026-03-02 22:00"),
	}

	conflicts := engine.DetectConflicts(schedules, engine.HandoverConfig{})
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d: %+v", len(conflicts), conflicts)
	}
	c := conflicts[0]
	if c.Type != engine.ConflictTimeOverlap {
		t.Errorf("expected time_overlap, got %s", c.Type)
	}
	if c.ScheduleA != "a" || c.ScheduleB != "b" {
		t.Errorf("expected pair a/b, got %s/%s", c.ScheduleA, c.ScheduleB)
	}
}

func TestDetectConflicts_InputOrderDoesNotMatter(t *testing.T) {
	a := instance(t, "a", "emp-1", "2026-03-02 09:00", "2026-03-02 18:00")
	b := instance(t, "b", "emp-1", "2026-03-02 14:00", "2026-03-02 22:00")

	c1 := engine.DetectConflicts([]engine.RotationSchedule{a, b}, engine.HandoverConfig{})
	c2 := engine.DetectConflicts([]engine.RotationSchedule{b, a}, engine.HandoverConfig{})
	if len(c1) != 1 || len(c2) != 1 || c1[0] != c2[0] {
		t.Errorf("detection must be order-independent: %+v vs %+v", c1, c2)
	}
}

func TestDetectConflicts_BackToBackIsNotOverlap(t *testing.T) {
	// Half-open windows: 06:00-14:00 then 14:00-22:00 do not intersect.
	schedules := []engine.RotationSchedule{
		instance(t, "a", "emp-1", "2026-03-02 06:00", "2026-03-02 14:00"),
		instance(t, "b", "emp-1", "2026-03-02 14:00", "2026-03-02 22:00"),
	}
	if conflicts := engine.DetectConflicts(schedules, engine.HandoverConfig{}); len(conflicts) != 0 {
		t.Errorf("back-to-back schedules must not conflict: %+v", conflicts)
	}
}

func TestDetectConflicts_DifferentEmployeesNeverOverlap(t *testing.T) {
	schedules := []engine.RotationSchedule{
		instance(t, "a", "emp-1", "2026-03-02 09:00", "2026-03-02 18:00"),
		instance(t, "b", "emp-2", "2026-03-02 09:00", "2026-03-02 18:00"),
	}
	if conflicts := engine.DetectConflicts(schedules, engine.HandoverConfig{}); len(conflicts) != 0 {
		t.Errorf("same window on different employees is fine: %+v", conflicts)
	}
}

func TestDetectConflicts_TerminalStatusesExcluded(t *testing.T) {
	// GIVEN: The overlapping instance was cancelled
	a := instance(t, "a", "emp-1", "2026-03-02 09:00", "2026-03-02 18:00")
	b := instance(t, "b", "emp-1", "2026-03-02 14:00", "2026-03-02 22:00")
	b.Status = engine.ScheduleCancelled

	if conflicts := engine.DetectConflicts([]engine.RotationSchedule{a, b}, engine.HandoverConfig{}); len(conflicts) != 0 {
		t.Errorf("cancelled instances must be excluded: %+v", conflicts)
	}

	b.Status = engine.ScheduleExchanged
	if conflicts := engine.DetectConflicts([]engine.RotationSchedule{a, b}, engine.HandoverConfig{}); len(conflicts) != 0 {
		t.Errorf("exchanged instances must be excluded: %+v", conflicts)
	}
}

func TestDetectConflicts_OvernightWindowsCrossDateBoundary(t *testing.T) {
	// Graveyard ending 06:00 overlaps a morning starting 05:00 the same day.
	schedules := []engine.RotationSchedule{
		instance(t, "night", "emp-1", "2026-03-01 22:00", "2026-03-02 06:00"),
		instance(t, "early", "emp-1", "2026-03-02 05:00", "2026-03-02 13:00"),
	}
	conflicts := engine.DetectConflicts(schedules, engine.HandoverConfig{})
	if len(conflicts) != 1 || conflicts[0].Type != engine.ConflictTimeOverlap {
		t.Fatalf("overnight overlap must be detected: %+v", conflicts)
	}
}

// =============================================================================
// DANGLING HANDOVER
// =============================================================================

func TestDetectConflicts_DanglingHandover(t *testing.T) {
	// GIVEN: A graveyard shift ending 06:00 with nobody taking over
	night := instance(t, "night", "emp-1", "2026-03-01 22:00", "2026-03-02 06:00")
	night.ShiftType = engine.ShiftGraveyard

	conflicts := engine.DetectConflicts([]engine.RotationSchedule{night},
		engine.HandoverConfig{WindowMinutes: 30})
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d: %+v", len(conflicts), conflicts)
	}
	if conflicts[0].Type != engine.ConflictDanglingHandover {
		t.Errorf("expected dangling_handover, got %s", conflicts[0].Type)
	}
}

func TestDetectConflicts_SuccessorWithinWindowClearsHandover(t *testing.T) {
	// GIVEN: A different employee starts 15 minutes after the night shift ends
	night := instance(t, "night", "emp-1", "2026-03-01 22:00", "2026-03-02 06:00")
	night.ShiftType = engine.ShiftGraveyard
	morning := instance(t, "morning", "emp-2", "2026-03-02 06:15", "2026-03-02 14:00")

	conflicts := engine.DetectConflicts([]engine.RotationSchedule{night, morning},
		engine.HandoverConfig{WindowMinutes: 30})
	if len(conflicts) != 0 {
		t.Errorf("successor within window must clear the handover: %+v", conflicts)
	}
}

func TestDetectConflicts_SelfSuccessorDoesNotCount(t *testing.T) {
	// The same employee continuing is not a handover target.
	night := instance(t, "night", "emp-1", "2026-03-01 22:00", "2026-03-02 06:00")
	night.ShiftType = engine.ShiftGraveyard
	same := instance(t, "morning", "emp-1", "2026-03-02 06:15", "2026-03-02 14:00")

	conflicts := engine.DetectConflicts([]engine.RotationSchedule{night, same},
		engine.HandoverConfig{WindowMinutes: 30})
	found := false
	for _, c := range conflicts {
		if c.Type == engine.ConflictDanglingHandover {
			found = true
		}
	}
	if !found {
		t.Error("self-succession must still leave a dangling handover")
	}
}

func TestDetectConflicts_CompletedHandoverNotFlagged(t *testing.T) {
	night := instance(t, "night", "emp-1", "2026-03-01 22:00", "2026-03-02 06:00")
	night.ShiftType = engine.ShiftGraveyard
	night.Handover = &engine.HandoverInfo{Status: engine.HandoverCompleted}

	conflicts := engine.DetectConflicts([]engine.RotationSchedule{night},
		engine.HandoverConfig{WindowMinutes: 30})
	if len(conflicts) != 0 {
		t.Errorf("completed handover must not be flagged: %+v", conflicts)
	}
}

// =============================================================================
// DETERMINISM
// =============================================================================

func TestDetectConflicts_OutputIsDeterministic(t *testing.T) {
	schedules := []engine.RotationSchedule{
		instance(t, "c", "emp-2", "2026-03-02 09:00", "2026-03-02 18:00"),
		instance(t, "d", "emp-2", "2026-03-02 10:00", "2026-03-02 19:00"),
		instance(t, "a", "emp-1", "2026-03-02 09:00", "2026-03-02 18:00"),
		instance(t, "b", "emp-1", "2026-03-02 10:00", "2026-03-02 19:00"),
	}
	c1 := engine.DetectConflicts(schedules, engine.HandoverConfig{})
	// Reversed input
	rev := make([]engine.RotationSchedule, len(schedules))
	for i, s := range schedules {
		rev[len(schedules)-1-i] = s
	}
	c2 := engine.DetectConflicts(rev, engine.HandoverConfig{})

	if len(c1) != 2 || len(c2) != 2 {
		t.Fatalf("expected 2 conflicts each, got %d and %d", len(c1), len(c2))
	}
	for i := range c1 {
		if c1[i] != c2[i] {
			t.Errorf("ordering differs at %d: %+v vs %+v", i, c1[i], c2[i])
		}
	}
}
