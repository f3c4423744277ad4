/*
config.go - Rotation system and shift definitions

PURPOSE:
  RotationSystemConfig is a named policy: a shift catalog, a repeating cycle
  pattern, attendance rules, and a validity window, scoped to departments
  and/or employees. ShiftConfig is one shift template within it.

VALUE-BASED RELATIONSHIPS:
  Schedule instances reference configs by SystemID/ShiftID value, never by
  pointer. Editing or archiving a config does not retroactively mutate
  historical schedules.

INVARIANTS (enforced by Validate):
  - effectiveDate <= expiryDate when both set
  - cycleDays > 0 when set
  - every shift carries a non-empty name and both work start/end times
  - a non-overnight shift has workEnd > workStart
  - a rest window, if present, falls inside the (possibly wrapped) work window
*/
package engine

import "time"

// =============================================================================
// SHIFT CONFIG
// =============================================================================

// ShiftConfig is one shift template: a work window, an optional rest window,
// and headcount limits. Clock times may wrap past midnight.
type ShiftConfig struct {
	ShiftID   ShiftID
	Name      string
	Type      ShiftType
	WorkStart ClockTime
	WorkEnd   ClockTime
	RestStart ClockTime // ClockUnset when the shift has no rest window
	RestEnd   ClockTime
	Priority  int
	MinHeadcount int
	MaxHeadcount int
}

// IsOvernight reports whether the work end time-of-day numerically precedes
// the start, i.e. the shift spans two calendar dates.
func (s ShiftConfig) IsOvernight() bool {
	return s.WorkStart.IsSet() && s.WorkEnd.IsSet() && s.WorkEnd <= s.WorkStart
}

// HasRest reports whether a rest window is configured.
func (s ShiftConfig) HasRest() bool {
	return s.RestStart.IsSet() && s.RestEnd.IsSet()
}

// WorkDurationMinutes is the scheduled work span, wrapping midnight once for
// overnight shifts.
func (s ShiftConfig) WorkDurationMinutes() int {
	m, err := MinutesBetween(s.WorkStart, s.WorkEnd, true)
	if err != nil {
		return 0
	}
	if m == 0 && s.WorkStart == s.WorkEnd {
		return minutesPerDay
	}
	return m
}

// RestDurationMinutes is the scheduled rest span, zero when absent.
func (s ShiftConfig) RestDurationMinutes() int {
	if !s.HasRest() {
		return 0
	}
	m, err := MinutesBetween(s.RestStart, s.RestEnd, true)
	if err != nil {
		return 0
	}
	return m
}

// NetWorkMinutes is work duration minus the rest window.
func (s ShiftConfig) NetWorkMinutes() int {
	return s.WorkDurationMinutes() - s.RestDurationMinutes()
}

func (s ShiftConfig) validate(systemID SystemID) error {
	if s.Name == "" {
		return &RuleValidationError{SystemID: systemID, Field: "shift.name", Detail: "must not be empty"}
	}
	if !s.WorkStart.IsSet() || !s.WorkEnd.IsSet() {
		return &RuleValidationError{SystemID: systemID, Field: "shift." + s.Name, Detail: "work start and end times are required"}
	}
	if s.RestStart.IsSet() != s.RestEnd.IsSet() {
		return &RuleValidationError{SystemID: systemID, Field: "shift." + s.Name, Detail: "rest window must set both bounds"}
	}
	if s.HasRest() {
		// Rest bounds must sit inside the (possibly wrapped) work window.
		if !Contains(s.RestStart, s.WorkStart, s.WorkEnd) {
			return &RuleValidationError{SystemID: systemID, Field: "shift." + s.Name, Detail: "rest start outside work window"}
		}
		if s.RestEnd != s.WorkEnd && !Contains(s.RestEnd, s.WorkStart, s.WorkEnd) {
			return &RuleValidationError{SystemID: systemID, Field: "shift." + s.Name, Detail: "rest end outside work window"}
		}
	}
	return nil
}

// =============================================================================
// ROTATION SYSTEM CONFIG
// =============================================================================

type SystemType string

const (
	SystemTwoShift   SystemType = "two_shift"
	SystemThreeShift SystemType = "three_shift"
	SystemFourShift  SystemType = "four_shift"
	SystemStandard   SystemType = "standard"
	SystemFlexible   SystemType = "flexible"
)

var systemTypeDescriptions = map[SystemType]string{
	SystemTwoShift:   "Two-Shift Rotation",
	SystemThreeShift: "Three-Shift Rotation",
	SystemFourShift:  "Four-Shift Three-Rotation",
	SystemStandard:   "Standard Office Hours",
	SystemFlexible:   "Flexible Schedule",
}

func (st SystemType) Description() string {
	if d, ok := systemTypeDescriptions[st]; ok {
		return d
	}
	return string(st)
}

type CycleType string

const (
	CycleDaily      CycleType = "daily"
	CycleWeekly     CycleType = "weekly"
	CycleMonthly    CycleType = "monthly"
	CycleCustomDays CycleType = "custom_days"
	CycleContinuous CycleType = "continuous"
)

type ConfigStatus string

const (
	ConfigDraft     ConfigStatus = "draft"
	ConfigActive    ConfigStatus = "active"
	ConfigSuspended ConfigStatus = "suspended"
	ConfigExpired   ConfigStatus = "expired"
	ConfigArchived  ConfigStatus = "archived"
)

// RestDay marks a rest-day slot in a cycle sequence.
const RestDay ShiftID = ""

// RotationSystemConfig is a named rotation policy.
type RotationSystemConfig struct {
	SystemID SystemID
	Name     string
	Type     SystemType

	CycleType      CycleType
	CycleDays      int
	CycleStartDate time.Time

	// Shifts is the shift catalog; Sequence orders shift IDs over the cycle,
	// with RestDay entries for rest days. An empty Sequence defaults to the
	// catalog order.
	Shifts   []ShiftConfig
	Sequence []ShiftID

	Rule     RuleConfig
	Rules    RotationRules
	Handover HandoverConfig
	Rest     RestConfig

	// Scope: empty slices mean "applies to everyone".
	DepartmentIDs []DepartmentID
	EmployeeIDs   []EmployeeID

	Priority      int
	EffectiveDate *time.Time
	ExpiryDate    *time.Time
	Status        ConfigStatus
	CreateTime    time.Time
}

// Validate enforces the config invariants.
func (c *RotationSystemConfig) Validate() error {
	if c.SystemID == "" {
		return &RuleValidationError{SystemID: c.SystemID, Field: "systemId", Detail: "must not be empty"}
	}
	if c.EffectiveDate != nil && c.ExpiryDate != nil && c.ExpiryDate.Before(*c.EffectiveDate) {
		return &RuleValidationError{SystemID: c.SystemID, Field: "expiryDate", Detail: "precedes effectiveDate"}
	}
	if c.CycleDays < 0 || (c.CycleType == CycleCustomDays && c.CycleDays == 0) {
		return &RuleValidationError{SystemID: c.SystemID, Field: "cycleDays", Detail: "must be positive when set"}
	}
	if len(c.Shifts) == 0 {
		return &RuleValidationError{SystemID: c.SystemID, Field: "shifts", Detail: "at least one shift is required"}
	}
	for _, s := range c.Shifts {
		if err := s.validate(c.SystemID); err != nil {
			return err
		}
	}
	for _, id := range c.Sequence {
		if id == RestDay {
			continue
		}
		if c.ShiftByID(id) == nil {
			return &RuleValidationError{SystemID: c.SystemID, Field: "sequence", Detail: "references unknown shift " + string(id)}
		}
	}
	return nil
}

// ShiftByID looks up a shift in the catalog. Nil when absent.
func (c *RotationSystemConfig) ShiftByID(id ShiftID) *ShiftConfig {
	for i := range c.Shifts {
		if c.Shifts[i].ShiftID == id {
			return &c.Shifts[i]
		}
	}
	return nil
}

// AppliesTo reports whether this config governs the employee/department on
// the given date: status active, validity window contains the date, and the
// scope lists (when non-empty) include the target.
func (c *RotationSystemConfig) AppliesTo(emp EmployeeID, dept DepartmentID, date time.Time) bool {
	if c.Status != ConfigActive {
		return false
	}
	d := DateOnly(date)
	if c.EffectiveDate != nil && d.Before(DateOnly(*c.EffectiveDate)) {
		return false
	}
	if c.ExpiryDate != nil && d.After(DateOnly(*c.ExpiryDate)) {
		return false
	}
	if len(c.EmployeeIDs) > 0 && !containsEmployee(c.EmployeeIDs, emp) {
		return false
	}
	if len(c.DepartmentIDs) > 0 && !containsDepartment(c.DepartmentIDs, dept) {
		return false
	}
	return true
}

func containsEmployee(ids []EmployeeID, id EmployeeID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsDepartment(ids []DepartmentID, id DepartmentID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// cycleLength is the effective cycle length in days.
func (c *RotationSystemConfig) cycleLength() int {
	if c.CycleDays > 0 {
		return c.CycleDays
	}
	switch c.CycleType {
	case CycleDaily:
		return 1
	case CycleWeekly:
		return 7
	case CycleMonthly:
		return 31
	default:
		if n := len(c.sequence()); n > 0 {
			return n
		}
		return 1
	}
}

func (c *RotationSystemConfig) sequence() []ShiftID {
	if len(c.Sequence) > 0 {
		return c.Sequence
	}
	seq := make([]ShiftID, len(c.Shifts))
	for i, s := range c.Shifts {
		seq[i] = s.ShiftID
	}
	return seq
}

// ShiftForDate resolves which shift (if any) the cycle schedules on a date.
// dayOffset = (date - cycleStartDate) mod cycleDays indexes into the shift
// sequence; offsets past the sequence, RestDay entries, and dates resolving
// to no slot are rest days (nil, no error). Monthly cycles index by
// day-of-month instead of the rolling offset.
func (c *RotationSystemConfig) ShiftForDate(date time.Time) *ShiftConfig {
	seq := c.sequence()
	if len(seq) == 0 {
		return nil
	}

	var offset int
	if c.CycleType == CycleMonthly {
		offset = date.Day() - 1
	} else {
		start := c.CycleStartDate
		if start.IsZero() && c.EffectiveDate != nil {
			start = *c.EffectiveDate
		}
		offset = DaysBetween(start, date)
	}

	n := c.cycleLength()
	offset = ((offset % n) + n) % n
	if offset >= len(seq) {
		return nil
	}
	id := seq[offset]
	if id == RestDay {
		return nil
	}
	return c.ShiftByID(id)
}
