/*
Package factory provides JSON to Go rotation-system conversion.

PURPOSE:
  Converts JSON rotation system definitions into engine.RotationSystemConfig
  values. This enables rotation configuration without code changes - HR and
  operations can define systems in JSON, stored in the database or edited in
  an admin UI, and the factory creates the proper Go structs.

JSON SCHEMA:
  {
    "id": "sys-three",
    "name": "Plant Three-Shift",
    "system_type": "three_shift",
    "cycle_type": "custom_days",
    "cycle_days": 4,
    "cycle_start_date": "2026-03-01",
    "shifts": [
      {"id": "morning", "name": "Morning", "type": "morning",
       "work_start": "06:00", "work_end": "14:00"},
      {"id": "graveyard", "name": "Graveyard", "type": "graveyard",
       "work_start": "22:00", "work_end": "06:00"}
    ],
    "sequence": ["morning", "graveyard", ""],
    "rule": {
      "late_tolerance_minutes": 10,
      "early_leave_tolerance_minutes": 10,
      "gps_validation": true,
      "fence": {"latitude": 31.2304, "longitude": 121.4737, "radius_meters": 200},
      "overtime": {"allow": true, "grace_minutes": 30, "max_daily_minutes": 180}
    },
    "handover": {"window_minutes": 30},
    "priority": 10,
    "status": "active"
  }

  An empty string in "sequence" marks a rest day. Work/rest times are "HH:MM"
  and may wrap past midnight (work_end <= work_start means overnight).

USAGE:
  factory := NewSystemFactory()
  cfg, err := factory.ParseSystem(jsonString)       // from a JSON document
  cfg, err = factory.ParseSystem(ThreeShiftJSON(...)) // from a preset

SEE ALSO:
  - engine/config.go: RotationSystemConfig definition and invariants
  - presets.go: canned three-shift / four-three / office systems
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/warp/rotation-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// SystemJSON is the JSON representation of a rotation system config.
type SystemJSON struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	SystemType     string      `json:"system_type"`
	CycleType      string      `json:"cycle_type,omitempty"`
	CycleDays      int         `json:"cycle_days,omitempty"`
	CycleStartDate string      `json:"cycle_start_date,omitempty"` // YYYY-MM-DD
	Shifts         []ShiftJSON `json:"shifts"`
	Sequence       []string    `json:"sequence,omitempty"` // "" marks a rest day

	Rule     *RuleJSON     `json:"rule,omitempty"`
	Rules    *RulesJSON    `json:"rotation_rules,omitempty"`
	Handover *HandoverJSON `json:"handover,omitempty"`

	Departments []string `json:"departments,omitempty"`
	Employees   []string `json:"employees,omitempty"`

	Priority      int    `json:"priority,omitempty"`
	EffectiveDate string `json:"effective_date,omitempty"`
	ExpiryDate    string `json:"expiry_date,omitempty"`
	Status        string `json:"status,omitempty"` // default active
}

// ShiftJSON represents one shift template.
type ShiftJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	WorkStart    string `json:"work_start"` // HH:MM
	WorkEnd      string `json:"work_end"`
	RestStart    string `json:"rest_start,omitempty"`
	RestEnd      string `json:"rest_end,omitempty"`
	MinHeadcount int    `json:"min_headcount,omitempty"`
	MaxHeadcount int    `json:"max_headcount,omitempty"`
}

// RuleJSON represents the attendance rule attached to a system.
type RuleJSON struct {
	LateToleranceMinutes       int           `json:"late_tolerance_minutes"`
	EarlyLeaveToleranceMinutes int           `json:"early_leave_tolerance_minutes"`
	GPSValidation              bool          `json:"gps_validation,omitempty"`
	Fence                      *FenceJSON    `json:"fence,omitempty"`
	Overtime                   *OvertimeJSON `json:"overtime,omitempty"`
}

// FenceJSON represents a geofence: circle plus optional polygon.
type FenceJSON struct {
	Name         string      `json:"name,omitempty"`
	Latitude     float64     `json:"latitude"`
	Longitude    float64     `json:"longitude"`
	RadiusMeters float64     `json:"radius_meters"`
	Vertices     []PointJSON `json:"vertices,omitempty"`
}

type PointJSON struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OvertimeJSON represents the overtime sub-rule.
type OvertimeJSON struct {
	Allow           bool `json:"allow"`
	GraceMinutes    int  `json:"grace_minutes,omitempty"`
	MaxDailyMinutes int  `json:"max_daily_minutes,omitempty"`
}

// RulesJSON represents the system-wide rotation constraints.
type RulesJSON struct {
	MaxConsecutiveWorkDays int `json:"max_consecutive_work_days,omitempty"`
	MinRestDays            int `json:"min_rest_days,omitempty"`
	MinNightShiftGapDays   int `json:"min_night_shift_gap_days,omitempty"`
}

// HandoverJSON represents the handover sub-rule.
type HandoverJSON struct {
	WindowMinutes    int      `json:"window_minutes,omitempty"`
	RequiredForTypes []string `json:"required_for_types,omitempty"`
}

// =============================================================================
// SYSTEM FACTORY
// =============================================================================

// SystemFactory converts JSON rotation systems to Go structs.
type SystemFactory struct{}

// NewSystemFactory creates a new system factory.
func NewSystemFactory() *SystemFactory {
	return &SystemFactory{}
}

// ParseSystem parses a JSON string into a validated RotationSystemConfig.
func (f *SystemFactory) ParseSystem(jsonStr string) (*engine.RotationSystemConfig, error) {
	var sj SystemJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return nil, fmt.Errorf("failed to parse system JSON: %w", err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts SystemJSON to a validated RotationSystemConfig.
func (f *SystemFactory) FromJSON(sj SystemJSON) (*engine.RotationSystemConfig, error) {
	cfg := &engine.RotationSystemConfig{
		SystemID:  engine.SystemID(sj.ID),
		Name:      sj.Name,
		Type:      engine.SystemType(sj.SystemType),
		CycleType: parseCycleType(sj.CycleType),
		CycleDays: sj.CycleDays,
		Priority:  sj.Priority,
		Status:    parseStatus(sj.Status),
	}

	if sj.CycleStartDate != "" {
		d, err := time.Parse("2006-01-02", sj.CycleStartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid cycle_start_date: %w", err)
		}
		cfg.CycleStartDate = d
	}
	if sj.EffectiveDate != "" {
		d, err := time.Parse("2006-01-02", sj.EffectiveDate)
		if err != nil {
			return nil, fmt.Errorf("invalid effective_date: %w", err)
		}
		cfg.EffectiveDate = &d
	}
	if sj.ExpiryDate != "" {
		d, err := time.Parse("2006-01-02", sj.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry_date: %w", err)
		}
		cfg.ExpiryDate = &d
	}

	for _, shj := range sj.Shifts {
		shift, err := parseShift(shj)
		if err != nil {
			return nil, err
		}
		cfg.Shifts = append(cfg.Shifts, shift)
	}
	for _, id := range sj.Sequence {
		cfg.Sequence = append(cfg.Sequence, engine.ShiftID(id))
	}

	if sj.Rule != nil {
		cfg.Rule = parseRule(*sj.Rule)
	}
	if sj.Rules != nil {
		cfg.Rules = engine.RotationRules{
			MaxConsecutiveWorkDays: sj.Rules.MaxConsecutiveWorkDays,
			MinRestDays:            sj.Rules.MinRestDays,
			MinNightShiftGapDays:   sj.Rules.MinNightShiftGapDays,
		}
	}
	if sj.Handover != nil {
		cfg.Handover = engine.HandoverConfig{WindowMinutes: sj.Handover.WindowMinutes}
		for _, t := range sj.Handover.RequiredForTypes {
			cfg.Handover.RequiredForTypes = append(cfg.Handover.RequiredForTypes, engine.ShiftType(t))
		}
	}

	for _, d := range sj.Departments {
		cfg.DepartmentIDs = append(cfg.DepartmentIDs, engine.DepartmentID(d))
	}
	for _, e := range sj.Employees {
		cfg.EmployeeIDs = append(cfg.EmployeeIDs, engine.EmployeeID(e))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToJSON converts a RotationSystemConfig back to its JSON representation.
func (f *SystemFactory) ToJSON(cfg *engine.RotationSystemConfig) SystemJSON {
	sj := SystemJSON{
		ID:         string(cfg.SystemID),
		Name:       cfg.Name,
		SystemType: string(cfg.Type),
		CycleType:  string(cfg.CycleType),
		CycleDays:  cfg.CycleDays,
		Priority:   cfg.Priority,
		Status:     string(cfg.Status),
	}
	if !cfg.CycleStartDate.IsZero() {
		sj.CycleStartDate = cfg.CycleStartDate.Format("2006-01-02")
	}
	if cfg.EffectiveDate != nil {
		sj.EffectiveDate = cfg.EffectiveDate.Format("2006-01-02")
	}
	if cfg.ExpiryDate != nil {
		sj.ExpiryDate = cfg.ExpiryDate.Format("2006-01-02")
	}

	for _, s := range cfg.Shifts {
		shj := ShiftJSON{
			ID:           string(s.ShiftID),
			Name:         s.Name,
			Type:         string(s.Type),
			WorkStart:    s.WorkStart.String(),
			WorkEnd:      s.WorkEnd.String(),
			MinHeadcount: s.MinHeadcount,
			MaxHeadcount: s.MaxHeadcount,
		}
		if s.HasRest() {
			shj.RestStart = s.RestStart.String()
			shj.RestEnd = s.RestEnd.String()
		}
		sj.Shifts = append(sj.Shifts, shj)
	}
	for _, id := range cfg.Sequence {
		sj.Sequence = append(sj.Sequence, string(id))
	}

	sj.Rule = &RuleJSON{
		LateToleranceMinutes:       cfg.Rule.LateToleranceMinutes,
		EarlyLeaveToleranceMinutes: cfg.Rule.EarlyLeaveToleranceMinutes,
		GPSValidation:              cfg.Rule.GPSValidationEnabled,
	}
	if fence := cfg.Rule.Fence; fence != nil {
		fj := &FenceJSON{
			Name:         fence.Name,
			Latitude:     fence.Center.Latitude,
			Longitude:    fence.Center.Longitude,
			RadiusMeters: fence.RadiusMeters,
		}
		for _, v := range fence.Vertices {
			fj.Vertices = append(fj.Vertices, PointJSON{Latitude: v.Latitude, Longitude: v.Longitude})
		}
		sj.Rule.Fence = fj
	}
	if cfg.Rule.Overtime.AllowOvertime {
		sj.Rule.Overtime = &OvertimeJSON{
			Allow:           true,
			GraceMinutes:    cfg.Rule.Overtime.ApprovalGraceMinutes,
			MaxDailyMinutes: cfg.Rule.Overtime.MaxDailyMinutes,
		}
	}

	for _, d := range cfg.DepartmentIDs {
		sj.Departments = append(sj.Departments, string(d))
	}
	for _, e := range cfg.EmployeeIDs {
		sj.Employees = append(sj.Employees, string(e))
	}
	return sj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseShift(shj ShiftJSON) (engine.ShiftConfig, error) {
	shift := engine.ShiftConfig{
		ShiftID:      engine.ShiftID(shj.ID),
		Name:         shj.Name,
		Type:         engine.ShiftType(shj.Type),
		RestStart:    engine.ClockUnset,
		RestEnd:      engine.ClockUnset,
		MinHeadcount: shj.MinHeadcount,
		MaxHeadcount: shj.MaxHeadcount,
	}

	var err error
	if shift.WorkStart, err = engine.ParseClock(shj.WorkStart); err != nil {
		return shift, fmt.Errorf("shift %s work_start: %w", shj.ID, err)
	}
	if shift.WorkEnd, err = engine.ParseClock(shj.WorkEnd); err != nil {
		return shift, fmt.Errorf("shift %s work_end: %w", shj.ID, err)
	}
	if shj.RestStart != "" {
		if shift.RestStart, err = engine.ParseClock(shj.RestStart); err != nil {
			return shift, fmt.Errorf("shift %s rest_start: %w", shj.ID, err)
		}
	}
	if shj.RestEnd != "" {
		if shift.RestEnd, err = engine.ParseClock(shj.RestEnd); err != nil {
			return shift, fmt.Errorf("shift %s rest_end: %w", shj.ID, err)
		}
	}
	return shift, nil
}

func parseRule(rj RuleJSON) engine.RuleConfig {
	rule := engine.RuleConfig{
		LateToleranceMinutes:       rj.LateToleranceMinutes,
		EarlyLeaveToleranceMinutes: rj.EarlyLeaveToleranceMinutes,
		GPSValidationEnabled:       rj.GPSValidation,
	}
	if rj.Fence != nil {
		fence := &engine.Geofence{
			Name:         rj.Fence.Name,
			Center:       engine.Coordinate{Latitude: rj.Fence.Latitude, Longitude: rj.Fence.Longitude},
			RadiusMeters: rj.Fence.RadiusMeters,
		}
		for _, v := range rj.Fence.Vertices {
			fence.Vertices = append(fence.Vertices, engine.Coordinate{Latitude: v.Latitude, Longitude: v.Longitude})
		}
		rule.Fence = fence
	}
	if rj.Overtime != nil {
		rule.Overtime = engine.OvertimeConfig{
			AllowOvertime:        rj.Overtime.Allow,
			ApprovalGraceMinutes: rj.Overtime.GraceMinutes,
			MaxDailyMinutes:      rj.Overtime.MaxDailyMinutes,
		}
	}
	return rule
}

func parseCycleType(s string) engine.CycleType {
	switch s {
	case "daily":
		return engine.CycleDaily
	case "weekly":
		return engine.CycleWeekly
	case "monthly":
		return engine.CycleMonthly
	case "custom_days":
		return engine.CycleCustomDays
	default:
		// Unspecified cycles run continuously over the sequence length.
		return engine.CycleContinuous
	}
}

func parseStatus(s string) engine.ConfigStatus {
	switch s {
	case "draft":
		return engine.ConfigDraft
	case "suspended":
		return engine.ConfigSuspended
	case "expired":
		return engine.ConfigExpired
	case "archived":
		return engine.ConfigArchived
	default:
		return engine.ConfigActive
	}
}
