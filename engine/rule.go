/*
rule.go - Attendance rules, rotation rules, and sub-policies

PURPOSE:
  Defines the caller-supplied configuration that governs classification:
  late/early tolerances, overtime policy, GPS validation, handover and rest
  requirements. Nothing here is read from the environment; every value
  arrives embedded in the rule structs, never as ambient global state.

TOLERANCE BOUNDARY:
  The tolerance comparison is INCLUSIVE: a clock-in exactly at the tolerance
  is not late (lateMinutes > LateToleranceMinutes triggers the flag). This
  is a pinned product decision, not an implementation accident.
*/
package engine

// =============================================================================
// RULE CONFIG - Governs one evaluation
// =============================================================================

// RuleConfig is the complete rule set applied to a single employee-day
// evaluation. It is resolved by the Rotation Catalog alongside the shift.
type RuleConfig struct {
	// Inclusive tolerances: lateness/earliness up to and including the
	// tolerance is not flagged.
	LateToleranceMinutes       int
	EarlyLeaveToleranceMinutes int

	// GPS validation. When disabled, geofence checks report not-applicable.
	GPSValidationEnabled bool
	Fence                *Geofence

	Overtime OvertimeConfig
}

// OvertimeConfig controls overtime recognition.
type OvertimeConfig struct {
	// AllowOvertime gates all overtime accounting; when false the verdict's
	// overtime minutes are always zero.
	AllowOvertime bool

	// ApprovalGraceMinutes past the shift end before minutes start counting
	// as overtime.
	ApprovalGraceMinutes int

	// MaxDailyMinutes is the unapproved-overtime ceiling. Work beyond it is
	// flagged as an exception rather than silently accepted. Zero means no
	// ceiling.
	MaxDailyMinutes int
}

// =============================================================================
// ROTATION RULES - System-wide constraints
// =============================================================================

// RotationRules are the system-wide scheduling constraints carried by a
// RotationSystemConfig. The engine reports violations; enforcement during
// plan construction is the planner's job.
type RotationRules struct {
	MaxConsecutiveWorkDays    int
	MinRestDays               int
	MaxWeeklyOvertimeMinutes  int
	MaxMonthlyOvertimeMinutes int
	MinNightShiftGapDays      int

	Holiday   HolidayRule
	Emergency EmergencyRule
}

// HolidayRule is the holiday sub-rule of a rotation system.
type HolidayRule struct {
	ScheduleOnHolidays bool
	PayMultiplier      float64
}

// EmergencyRule is the emergency-staffing sub-rule of a rotation system.
type EmergencyRule struct {
	AllowEmergencyOverride bool
	MaxOverrideHours       int
}

// =============================================================================
// HANDOVER / REST CONFIG
// =============================================================================

// HandoverConfig controls when a handover record is mandated and how wide
// the adjoining-shift window is when pairing outgoing and incoming shifts.
type HandoverConfig struct {
	// Extra shift types (beyond night/graveyard) that mandate a handover.
	RequiredForTypes []ShiftType

	// WindowMinutes around a shift boundary within which an adjoining shift
	// counts as the handover counterpart. Zero means exact adjacency.
	WindowMinutes int
}

// RequiresHandoverFor reports whether the config mandates a handover for the
// given shift type, in addition to the built-in night/graveyard rule.
func (hc HandoverConfig) RequiresHandoverFor(st ShiftType) bool {
	if st.RequiresHandover() {
		return true
	}
	for _, t := range hc.RequiredForTypes {
		if t == st {
			return true
		}
	}
	return false
}

// RestConfig controls rest-window accounting.
type RestConfig struct {
	// MinRestMinutesBetweenShifts between the end of one shift and the start
	// of the next for the same employee.
	MinRestMinutesBetweenShifts int
}
