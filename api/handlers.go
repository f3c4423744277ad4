/*
handlers.go - HTTP API handlers for the rotation attendance system

PURPOSE:
  Exposes the rotation engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Systems:
    GET    /api/systems                List rotation systems
    POST   /api/systems                Create system from JSON config
    GET    /api/systems/{id}           Get system config

  Planning:
    POST   /api/plan                   Materialize schedule instances

  Schedules:
    GET    /api/schedules?date=        List one date's instances
    GET    /api/schedules/{id}         Get one instance
    POST   /api/schedules/{id}/evaluate  Classify from recorded punches
    POST   /api/schedules/{id}/exchange  Swap to another employee
    POST   /api/schedules/{id}/cancel    Cancel (terminal, never deleted)
    POST   /api/schedules/{id}/leave     Mark on leave
    POST   /api/schedules/{id}/handover  Complete handover
    GET    /api/employees/{id}/schedules?from=&to=

  Attendance:
    POST   /api/punches                Record punches under a business date
    POST   /api/closeout               End-of-day batch evaluation
    POST   /api/leave                  Record an approved leave day

  Reporting:
    GET    /api/conflicts?date=        Detect conflicts on a date
    GET    /api/summary/day?date=      Day-level aggregate
    GET    /api/employees/{id}/stats?from=&to=

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access (implements every engine port)
  - Factory: JSON to rotation config conversion
  - Planner/Exchanger/Reporter: roster operations over the store

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (planner, classifier, detector, projection)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Invalid lifecycle transition
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/rotation-engine/engine"
	"github.com/warp/rotation-engine/factory"
	"github.com/warp/rotation-engine/roster"
	"github.com/warp/rotation-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Factory *factory.SystemFactory

	planner   *roster.Planner
	exchanger *roster.Exchanger
	reporter  *roster.Reporter

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:     store,
		Factory:   factory.NewSystemFactory(),
		planner:   &roster.Planner{Schedules: store, Configs: store},
		exchanger: &roster.Exchanger{Schedules: store},
		reporter:  &roster.Reporter{Schedules: store},
	}
}

// =============================================================================
// SYSTEM HANDLERS
// =============================================================================

// ListSystems returns all rotation system configs.
func (h *Handler) ListSystems(w http.ResponseWriter, r *http.Request) {
	configs, err := h.Store.ListConfigs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list systems", err)
		return
	}

	dtos := make([]SystemDTO, len(configs))
	for i := range configs {
		dtos[i] = h.toSystemDTO(&configs[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSystem returns a single rotation system config.
func (h *Handler) GetSystem(w http.ResponseWriter, r *http.Request) {
	id := engine.SystemID(chi.URLParam(r, "id"))

	cfg, err := h.Store.GetConfig(r.Context(), id)
	if errors.Is(err, engine.ErrConfigNotFound) {
		writeError(w, http.StatusNotFound, "System not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get system", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toSystemDTO(cfg))
}

// CreateSystem creates a rotation system from a JSON config document.
func (h *Handler) CreateSystem(w http.ResponseWriter, r *http.Request) {
	var req CreateSystemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg, err := h.Factory.FromJSON(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid system config", err)
		return
	}

	if err := h.Store.SaveConfig(r.Context(), *cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save system", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toSystemDTO(cfg))
}

func (h *Handler) toSystemDTO(cfg *engine.RotationSystemConfig) SystemDTO {
	return SystemDTO{
		ID:         string(cfg.SystemID),
		Name:       cfg.Name,
		SystemType: string(cfg.Type),
		Status:     string(cfg.Status),
		Priority:   cfg.Priority,
		Config:     h.Factory.ToJSON(cfg),
	}
}

// =============================================================================
// PLANNING
// =============================================================================

// GeneratePlan materializes schedule instances for a system over a range.
func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}

	employees := make([]engine.EmployeeID, len(req.Employees))
	for i, e := range req.Employees {
		employees[i] = engine.EmployeeID(e)
	}

	result, err := h.planner.GeneratePlan(r.Context(), roster.PlanRequest{
		SystemID:     engine.SystemID(req.SystemID),
		DepartmentID: engine.DepartmentID(req.DepartmentID),
		Employees:    employees,
		From:         from,
		To:           to,
	})
	if errors.Is(err, engine.ErrConfigNotFound) {
		writeError(w, http.StatusNotFound, "System not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Plan generation failed", err)
		return
	}

	now := time.Now()
	dto := PlanResultDTO{RestDays: result.RestDays, Skipped: result.Skipped}
	for _, s := range result.Created {
		dto.Created = append(dto.Created, toScheduleDTO(s, now))
	}
	writeJSON(w, http.StatusCreated, dto)
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// ListSchedulesByDate returns all instances for one calendar date.
func (h *Handler) ListSchedulesByDate(w http.ResponseWriter, r *http.Request) {
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}

	schedules, err := h.Store.ListByDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list schedules", err)
		return
	}

	now := time.Now()
	dtos := make([]ScheduleDTO, len(schedules))
	for i, s := range schedules {
		dtos[i] = toScheduleDTO(s, now)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSchedule returns a single schedule instance.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id := engine.ScheduleID(chi.URLParam(r, "id"))

	sched, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, engine.ErrScheduleNotFound) {
		writeError(w, http.StatusNotFound, "Schedule not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTO(*sched, time.Now()))
}

// ListEmployeeSchedules returns an employee's instances over a range.
func (h *Handler) ListEmployeeSchedules(w http.ResponseWriter, r *http.Request) {
	emp := engine.EmployeeID(chi.URLParam(r, "id"))
	from, ok := queryDate(w, r, "from")
	if !ok {
		return
	}
	to, ok := queryDate(w, r, "to")
	if !ok {
		return
	}

	schedules, err := h.Store.ListByEmployee(r.Context(), emp, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list schedules", err)
		return
	}

	now := time.Now()
	dtos := make([]ScheduleDTO, len(schedules))
	for i, s := range schedules {
		dtos[i] = toScheduleDTO(s, now)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// RecordPunches files punch events under a business date.
func (h *Handler) RecordPunches(w http.ResponseWriter, r *http.Request) {
	var req RecordPunchesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	businessDate, err := time.Parse(dateLayout, req.BusinessDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid business_date (use YYYY-MM-DD)", err)
		return
	}
	if len(req.Punches) == 0 {
		writeError(w, http.StatusBadRequest, "No punches in request", nil)
		return
	}

	events := make([]engine.PunchEvent, len(req.Punches))
	for i, p := range req.Punches {
		e, err := toPunchEvent(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid punch timestamp %q", p.At), err)
			return
		}
		events[i] = e
	}

	if err := h.Store.RecordPunches(r.Context(), businessDate, events...); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record punches", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"recorded": len(events)})
}

// EvaluateSchedule classifies one instance from its recorded punches and
// persists the verdict. Re-running converges: alert IDs are deterministic.
func (h *Handler) EvaluateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := engine.ScheduleID(chi.URLParam(r, "id"))
	closeout := r.URL.Query().Get("closeout") == "true"

	sched, err := h.Store.Get(ctx, id)
	if errors.Is(err, engine.ErrScheduleNotFound) {
		writeError(w, http.StatusNotFound, "Schedule not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get schedule", err)
		return
	}
	if sched.Status.IsTerminal() || sched.Status == engine.ScheduleOnLeave {
		writeError(w, http.StatusConflict, "Schedule is not evaluable", nil)
		return
	}

	configs, err := h.Store.ListConfigs(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load configs", err)
		return
	}
	catalog := engine.NewCatalog(configs)

	shift, rule := resolveForEvaluation(catalog, *sched)

	punches, err := h.Store.PunchesFor(ctx, sched.EmployeeID, sched.ScheduleDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load punches", err)
		return
	}
	onLeave, err := h.Store.IsOnApprovedLeave(ctx, sched.EmployeeID, sched.ScheduleDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check leave", err)
		return
	}

	now := time.Now()
	verdict := engine.Evaluate(engine.EvaluationInput{
		Schedule:        *sched,
		Shift:           shift,
		Punches:         punches,
		Rule:            rule,
		Closeout:        closeout,
		OnApprovedLeave: onLeave,
		Now:             now,
	})

	sched.ApplyVerdict(verdict, now)
	if err := h.Store.Save(ctx, *sched); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist verdict", err)
		return
	}
	writeJSON(w, http.StatusOK, toVerdictDTO(id, verdict))
}

// resolveForEvaluation finds the shift template and rule for an instance:
// the instance's own system/shift snapshot first, then fresh catalog
// resolution. A nil shift classifies as EXCEPTION downstream.
func resolveForEvaluation(catalog *engine.Catalog, sched engine.RotationSchedule) (*engine.ShiftConfig, engine.RuleConfig) {
	for _, cfg := range catalog.Configs() {
		if cfg.SystemID == sched.RotationSystemID {
			if shift := cfg.ShiftByID(sched.ShiftID); shift != nil {
				return shift, cfg.Rule
			}
		}
	}
	shift, cfg, err := catalog.ResolveApplicableShift(sched.EmployeeID, sched.DepartmentID, sched.ScheduleDate)
	if err != nil || cfg == nil {
		return nil, engine.RuleConfig{}
	}
	return shift, cfg.Rule
}

// RunCloseout runs the end-of-day batch for one date.
func (h *Handler) RunCloseout(w http.ResponseWriter, r *http.Request) {
	var req CloseoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	closeout := &roster.Closeout{
		Schedules: h.Store,
		Configs:   h.Store,
		Punches:   h.Store,
		Leave:     h.Store,
	}
	report, err := closeout.Run(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Closeout failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toCloseoutReportDTO(*report))
}

// RecordLeave records an approved leave day for an employee.
func (h *Handler) RecordLeave(w http.ResponseWriter, r *http.Request) {
	var req LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", nil)
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	rec := sqlite.LeaveRecord{
		ID:         fmt.Sprintf("lv-%s-%s", req.EmployeeID, req.Date),
		EmployeeID: engine.EmployeeID(req.EmployeeID),
		Date:       date,
		LeaveType:  req.LeaveType,
		ApprovedBy: req.ApprovedBy,
	}
	if err := h.Store.SaveLeave(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record leave", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": rec.ID})
}

// =============================================================================
// LIFECYCLE HANDLERS
// =============================================================================

// ExchangeSchedule swaps an instance to another employee.
func (h *Handler) ExchangeSchedule(w http.ResponseWriter, r *http.Request) {
	id := engine.ScheduleID(chi.URLParam(r, "id"))

	var req ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.WithEmployee == "" {
		writeError(w, http.StatusBadRequest, "with_employee is required", nil)
		return
	}

	replacement, err := h.exchanger.Exchange(r.Context(), id, engine.EmployeeID(req.WithEmployee), req.Ref)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toScheduleDTO(*replacement, time.Now()))
}

// CancelSchedule cancels an instance. Terminal, never deleted.
func (h *Handler) CancelSchedule(w http.ResponseWriter, r *http.Request) {
	id := engine.ScheduleID(chi.URLParam(r, "id"))

	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.exchanger.Cancel(r.Context(), id, req.Reason); err != nil {
		writeLifecycleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkScheduleOnLeave marks an instance on leave.
func (h *Handler) MarkScheduleOnLeave(w http.ResponseWriter, r *http.Request) {
	id := engine.ScheduleID(chi.URLParam(r, "id"))

	var req LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.exchanger.MarkOnLeave(r.Context(), id, req.LeaveType); err != nil {
		writeLifecycleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompleteHandover completes the handover on an instance.
func (h *Handler) CompleteHandover(w http.ResponseWriter, r *http.Request) {
	id := engine.ScheduleID(chi.URLParam(r, "id"))

	var req HandoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ToEmployee == "" {
		writeError(w, http.StatusBadRequest, "to_employee is required", nil)
		return
	}

	if err := h.exchanger.CompleteHandover(r.Context(), id, engine.EmployeeID(req.ToEmployee), req.Content); err != nil {
		writeLifecycleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORTING HANDLERS
// =============================================================================

// ListConflicts detects conflicts among one date's instances.
func (h *Handler) ListConflicts(w http.ResponseWriter, r *http.Request) {
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}

	schedules, err := h.Store.ListByDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list schedules", err)
		return
	}

	handover := h.handoverConfigFor(r, schedules)
	conflicts := engine.DetectConflicts(schedules, handover)

	dtos := make([]ConflictDTO, len(conflicts))
	for i, c := range conflicts {
		dtos[i] = toConflictDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// handoverConfigFor picks the handover window: the first referenced system's
// config, falling back to exact adjacency.
func (h *Handler) handoverConfigFor(r *http.Request, schedules []engine.RotationSchedule) engine.HandoverConfig {
	for _, s := range schedules {
		if s.RotationSystemID == "" {
			continue
		}
		cfg, err := h.Store.GetConfig(r.Context(), s.RotationSystemID)
		if err == nil {
			return cfg.Handover
		}
	}
	return engine.HandoverConfig{}
}

// GetDaySummary aggregates one date across the board.
func (h *Handler) GetDaySummary(w http.ResponseWriter, r *http.Request) {
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}

	sum, err := h.reporter.DaySummary(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to summarize day", err)
		return
	}
	writeJSON(w, http.StatusOK, toDaySummaryDTO(*sum))
}

// GetEmployeeStats aggregates one employee over a date range.
func (h *Handler) GetEmployeeStats(w http.ResponseWriter, r *http.Request) {
	emp := engine.EmployeeID(chi.URLParam(r, "id"))
	from, ok := queryDate(w, r, "from")
	if !ok {
		return
	}
	to, ok := queryDate(w, r, "to")
	if !ok {
		return
	}

	stats, err := h.reporter.EmployeeStats(r.Context(), emp, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(*stats))
}

// =============================================================================
// ADMIN
// =============================================================================

// ResetDatabase clears all data (dev only).
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func queryDate(w http.ResponseWriter, r *http.Request, param string) (time.Time, bool) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Missing %s parameter (use YYYY-MM-DD)", param), nil)
		return time.Time{}, false
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s parameter (use YYYY-MM-DD)", param), err)
		return time.Time{}, false
	}
	return date, true
}

func writeLifecycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrScheduleNotFound):
		writeError(w, http.StatusNotFound, "Schedule not found", err)
	case errors.Is(err, roster.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "Invalid schedule transition", err)
	default:
		writeError(w, http.StatusInternalServerError, "Operation failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
