/*
scenarios_test.go - Tests for demo scenario loaders

Each scenario must leave the database in a coherent, fully-seeded state:
systems saved, instances planned, punches recorded, elapsed days closed out.
*/
package api

import (
	"net/http"
	"testing"
	"time"
)

func loadScenario(t *testing.T, router http.Handler, id string) {
	t.Helper()
	rec := doJSON(t, router, "POST", "/api/scenarios/load", map[string]string{"scenario_id": id})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 loading %s, got %d: %s", id, rec.Code, rec.Body.String())
	}
}

func TestListScenarios(t *testing.T) {
	_, router := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/scenarios/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	list := decodeBody[[]ScenarioDTO](t, rec)
	if len(list) != 3 {
		t.Fatalf("Expected 3 scenarios, got %d", len(list))
	}
}

func TestLoadScenario_UnknownID(t *testing.T) {
	_, router := newTestRouter(t)
	rec := doJSON(t, router, "POST", "/api/scenarios/load", map[string]string{"scenario_id": "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestLoadPlantThreeShiftScenario(t *testing.T) {
	_, router := newTestRouter(t)
	loadScenario(t, router, "plant-three-shift")

	rec := doJSON(t, router, "GET", "/api/scenarios/current", nil)
	current := decodeBody[ScenarioDTO](t, rec)
	if current.ID != "plant-three-shift" {
		t.Errorf("Expected current scenario plant-three-shift, got %s", current.ID)
	}

	rec = doJSON(t, router, "GET", "/api/systems", nil)
	systems := decodeBody[[]SystemDTO](t, rec)
	if len(systems) != 1 || systems[0].ID != "sys-plant" {
		t.Fatalf("Expected sys-plant, got %+v", systems)
	}

	// Day 1 is closed out: all three punched, emp-park was late.
	day1 := scenarioAnchor().Format(dateLayout)
	rec = doJSON(t, router, "GET", "/api/schedules/?date="+day1, nil)
	schedules := decodeBody[[]ScheduleDTO](t, rec)
	if len(schedules) != 3 {
		t.Fatalf("Expected 3 instances on day 1, got %d", len(schedules))
	}
	var lateSeen bool
	for _, s := range schedules {
		if s.ActualClockIn == nil {
			t.Errorf("Expected %s clocked in on day 1", s.EmployeeID)
		}
		if s.EmployeeID == "emp-park" && s.LateMinutes == 25 {
			lateSeen = true
		}
	}
	if !lateSeen {
		t.Error("Expected emp-park 25 minutes late on day 1")
	}

	// Day 2 is closed out: emp-ito no-showed.
	day2 := scenarioAnchor().AddDate(0, 0, 1).Format(dateLayout)
	rec = doJSON(t, router, "GET", "/api/summary/day?date="+day2, nil)
	sum := decodeBody[DaySummaryDTO](t, rec)
	if sum.AbsentCount != 1 {
		t.Errorf("Expected 1 absent on day 2, got %d", sum.AbsentCount)
	}
}

func TestLoadFourCrewScenario(t *testing.T) {
	_, router := newTestRouter(t)
	loadScenario(t, router, "four-crew")

	rec := doJSON(t, router, "GET", "/api/systems", nil)
	systems := decodeBody[[]SystemDTO](t, rec)
	if len(systems) != 4 {
		t.Fatalf("Expected 4 crew systems, got %d", len(systems))
	}

	// Staggered crews: on the anchor day all four are on shift, with crew-d
	// holding the graveyard slot.
	date := scenarioAnchor().Format(dateLayout)
	rec = doJSON(t, router, "GET", "/api/schedules/?date="+date, nil)
	schedules := decodeBody[[]ScheduleDTO](t, rec)
	if len(schedules) != 4 {
		t.Fatalf("Expected all 4 crews on shift, got %d", len(schedules))
	}
	byCrew := map[string]string{}
	for _, s := range schedules {
		byCrew[s.EmployeeID] = s.ShiftID
	}
	if len(byCrew) != 4 {
		t.Error("Expected each instance to belong to a distinct crew")
	}
	if byCrew["crew-d"] != "graveyard" {
		t.Errorf("Expected crew-d on graveyard, got %s", byCrew["crew-d"])
	}
}

func TestLoadOfficeScenario(t *testing.T) {
	_, router := newTestRouter(t)
	loadScenario(t, router, "office-standard")

	day1 := scenarioAnchor().Format(dateLayout)
	rec := doJSON(t, router, "GET",
		"/api/employees/emp-kim/schedules?from="+day1+"&to="+day1, nil)
	schedules := decodeBody[[]ScheduleDTO](t, rec)
	if len(schedules) != 1 {
		t.Fatalf("Expected 1 instance, got %d", len(schedules))
	}
	// 20:30 out against an 18:00 end with no grace: 150 overtime minutes.
	if schedules[0].OvertimeMinutes != 150 {
		t.Errorf("Expected 150 overtime minutes, got %d", schedules[0].OvertimeMinutes)
	}
	if schedules[0].Attendance != "overtime" {
		t.Errorf("Expected overtime attendance, got %s", schedules[0].Attendance)
	}
}

func TestResetClearsScenario(t *testing.T) {
	_, router := newTestRouter(t)
	loadScenario(t, router, "office-standard")

	rec := doJSON(t, router, "POST", "/api/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, router, "GET", "/api/systems", nil)
	systems := decodeBody[[]SystemDTO](t, rec)
	if len(systems) != 0 {
		t.Errorf("Expected no systems after reset, got %d", len(systems))
	}
}

// Guards the anchor arithmetic the loaders rely on: the anchor sits three
// days back at midnight, so day 1 and day 2 are always closeable.
func TestScenarioAnchorIsMidnightInThePast(t *testing.T) {
	a := scenarioAnchor()
	if a.Hour() != 0 || a.Minute() != 0 {
		t.Errorf("Anchor must be midnight, got %v", a)
	}
	if !a.Before(time.Now().AddDate(0, 0, -2)) {
		t.Errorf("Anchor must be at least 3 days back, got %v", a)
	}
}
