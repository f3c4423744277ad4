/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates rotation systems,
	planned schedules, and punches that demonstrate specific features.

AVAILABLE SCENARIOS:

	plant-three-shift: Classic three-shift plant rotation with a closeout
	four-crew:         Four staggered crews covering every slot continuously
	office-standard:   09:00-18:00 office hours with lunch rest and overtime

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create rotation systems via factory presets
 3. Plan schedule instances over a short range
 4. Record punches (on-time, late, overnight, no-show)
 5. Run the closeout for the already-elapsed dates

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "plant-three-shift"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
  - factory/presets.go: Canned system definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/rotation-engine/engine"
	"github.com/warp/rotation-engine/factory"
	"github.com/warp/rotation-engine/roster"
)

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "plant-three-shift",
		Name:        "Plant Three-Shift",
		Description: "Morning/afternoon/graveyard over a 4-day cycle, with late arrivals, an overnight handover, and a no-show",
		Category:    "rotation",
	},
	{
		ID:          "four-crew",
		Name:        "Four-Crew Rotation",
		Description: "Four staggered crews over a 6-day cycle covering every slot",
		Category:    "rotation",
	},
	{
		ID:          "office-standard",
		Name:        "Standard Office",
		Description: "09:00-18:00 with lunch rest and an evening of overtime",
		Category:    "office",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "plant-three-shift":
		err = h.loadPlantThreeShiftScenario(ctx)
	case "four-crew":
		err = h.loadFourCrewScenario(ctx)
	case "office-standard":
		err = h.loadOfficeScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// scenarioAnchor places the demo range so the last two planned days are
// already in the past and can be closed out.
func scenarioAnchor() time.Time {
	return engine.DateOnly(time.Now().AddDate(0, 0, -3))
}

// loadPlantThreeShiftScenario: three workers rotating over four days.
// Worker 1 is punctual, worker 2 arrives late once, worker 3 no-shows the
// graveyard shift. The first two elapsed days are closed out.
func (h *Handler) loadPlantThreeShiftScenario(ctx context.Context) error {
	start := scenarioAnchor()

	cfg, err := h.Factory.ParseSystem(factory.ThreeShiftJSON("sys-plant", "Plant Three-Shift", start))
	if err != nil {
		return err
	}
	if err := h.Store.SaveConfig(ctx, *cfg); err != nil {
		return err
	}

	employees := []engine.EmployeeID{"emp-chen", "emp-park", "emp-ito"}
	_, err = h.planner.GeneratePlan(ctx, roster.PlanRequest{
		SystemID:  cfg.SystemID,
		Employees: employees,
		From:      start,
		To:        start.AddDate(0, 0, 3),
	})
	if err != nil {
		return err
	}

	// Punches for day 1 (morning 06:00-14:00): on time, 25 late, on time.
	day1 := start
	for i, emp := range employees {
		inAt := day1.Add(time.Duration(5*60+55) * time.Minute)
		if i == 1 {
			inAt = day1.Add(time.Duration(6*60+25) * time.Minute)
		}
		if err := h.Store.RecordPunches(ctx, day1,
			engine.PunchEvent{EmployeeID: emp, At: inAt, Direction: engine.PunchIn, Method: "terminal"},
			engine.PunchEvent{EmployeeID: emp, At: day1.Add(14*time.Hour + 2*time.Minute), Direction: engine.PunchOut, Method: "terminal"},
		); err != nil {
			return err
		}
	}

	// Day 2 (afternoon 14:00-22:00): emp-ito never shows up.
	day2 := start.AddDate(0, 0, 1)
	for _, emp := range employees[:2] {
		if err := h.Store.RecordPunches(ctx, day2,
			engine.PunchEvent{EmployeeID: emp, At: day2.Add(13*time.Hour + 50*time.Minute), Direction: engine.PunchIn, Method: "mobile"},
			engine.PunchEvent{EmployeeID: emp, At: day2.Add(22*time.Hour + 5*time.Minute), Direction: engine.PunchOut, Method: "mobile"},
		); err != nil {
			return err
		}
	}

	closeout := &roster.Closeout{Schedules: h.Store, Configs: h.Store, Punches: h.Store, Leave: h.Store}
	for _, d := range []time.Time{day1, day2} {
		if _, err := closeout.Run(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// loadFourCrewScenario: four crews, each with its own staggered config, so
// every day has morning/afternoon/graveyard covered.
func (h *Handler) loadFourCrewScenario(ctx context.Context) error {
	start := scenarioAnchor()
	crews := []engine.EmployeeID{"crew-a", "crew-b", "crew-c", "crew-d"}

	for i, crew := range crews {
		id := fmt.Sprintf("sys-crew-%c", 'a'+i)
		cfg, err := h.Factory.ParseSystem(factory.FourShiftJSON(id, fmt.Sprintf("Crew %c", 'A'+i), start, i))
		if err != nil {
			return err
		}
		cfg.EmployeeIDs = []engine.EmployeeID{crew}
		if err := h.Store.SaveConfig(ctx, *cfg); err != nil {
			return err
		}

		if _, err := h.planner.GeneratePlan(ctx, roster.PlanRequest{
			SystemID:  cfg.SystemID,
			Employees: []engine.EmployeeID{crew},
			From:      start,
			To:        start.AddDate(0, 0, 5),
		}); err != nil {
			return err
		}
	}
	return nil
}

// loadOfficeScenario: one office worker, with a long evening producing
// overtime past the grace window.
func (h *Handler) loadOfficeScenario(ctx context.Context) error {
	start := scenarioAnchor()

	cfg, err := h.Factory.ParseSystem(factory.StandardOfficeJSON("sys-office", "Standard Office"))
	if err != nil {
		return err
	}
	if err := h.Store.SaveConfig(ctx, *cfg); err != nil {
		return err
	}

	if _, err := h.planner.GeneratePlan(ctx, roster.PlanRequest{
		SystemID:  cfg.SystemID,
		Employees: []engine.EmployeeID{"emp-kim"},
		From:      start,
		To:        start.AddDate(0, 0, 2),
	}); err != nil {
		return err
	}

	// Day 1: 09:00 in, 20:30 out, 150 minutes past the shift end.
	if err := h.Store.RecordPunches(ctx, start,
		engine.PunchEvent{EmployeeID: "emp-kim", At: start.Add(8*time.Hour + 58*time.Minute), Direction: engine.PunchIn, Method: "terminal"},
		engine.PunchEvent{EmployeeID: "emp-kim", At: start.Add(20*time.Hour + 30*time.Minute), Direction: engine.PunchOut, Method: "terminal"},
	); err != nil {
		return err
	}

	closeout := &roster.Closeout{Schedules: h.Store, Configs: h.Store, Punches: h.Store, Leave: h.Store}
	_, err = closeout.Run(ctx, start)
	return err
}
