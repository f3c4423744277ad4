/*
catalog.go - Rotation catalog: resolve the applicable shift for a date

PURPOSE:
  Holds an immutable snapshot of rotation system configs and answers "which
  shift and which rule govern this employee on this date". Resolution is a
  pure function of the snapshot; callers re-snapshot from storage whenever
  they want fresher data.

RESOLUTION ORDER:
  1. Filter to ACTIVE configs whose validity window contains the date and
     whose department/employee scope (when non-empty) includes the target.
  2. Pick the numerically highest Priority; tie-break by the most recently
     created config.
  3. Within the winner, index the cycle pattern:
     dayOffset = (date - cycleStartDate) mod cycleDays, into the shift
     sequence. A rest-day slot resolves to NotFound for that date.
*/
package engine

import "time"

// Catalog is an immutable snapshot of rotation system configs.
type Catalog struct {
	configs []RotationSystemConfig
}

// NewCatalog builds a catalog from a config snapshot. The slice is copied;
// later mutation of the input does not affect the catalog.
func NewCatalog(configs []RotationSystemConfig) *Catalog {
	cp := make([]RotationSystemConfig, len(configs))
	copy(cp, configs)
	return &Catalog{configs: cp}
}

// Configs returns a copy of the snapshot.
func (c *Catalog) Configs() []RotationSystemConfig {
	cp := make([]RotationSystemConfig, len(c.configs))
	copy(cp, c.configs)
	return cp
}

// ResolveApplicableShift returns the shift and config governing the
// employee/department on the date, or a ResolutionError wrapping
// ErrNoApplicableRule when no active config applies or the winning config
// schedules a rest day. The caller falls back to its no-schedule policy.
func (c *Catalog) ResolveApplicableShift(emp EmployeeID, dept DepartmentID, date time.Time) (*ShiftConfig, *RotationSystemConfig, error) {
	var winner *RotationSystemConfig
	for i := range c.configs {
		cfg := &c.configs[i]
		if !cfg.AppliesTo(emp, dept, date) {
			continue
		}
		if winner == nil ||
			cfg.Priority > winner.Priority ||
			(cfg.Priority == winner.Priority && cfg.CreateTime.After(winner.CreateTime)) {
			winner = cfg
		}
	}
	if winner == nil {
		return nil, nil, &ResolutionError{EmployeeID: emp, DepartmentID: dept, Date: date}
	}

	shift := winner.ShiftForDate(date)
	if shift == nil {
		// Rest day under the winning cycle.
		return nil, winner, &ResolutionError{EmployeeID: emp, DepartmentID: dept, Date: date}
	}
	return shift, winner, nil
}

// ResolveRule returns the rule config governing the employee-day, falling
// back to a zero rule (no tolerances, GPS disabled) when resolution fails.
func (c *Catalog) ResolveRule(emp EmployeeID, dept DepartmentID, date time.Time) RuleConfig {
	_, cfg, err := c.ResolveApplicableShift(emp, dept, date)
	if err != nil || cfg == nil {
		return RuleConfig{}
	}
	return cfg.Rule
}
