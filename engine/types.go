/*
Package engine provides the core rotation shift and attendance evaluation engine.

PURPOSE:
  This package contains the domain types and pure algorithms for modeling
  recurring multi-shift rotation systems and for classifying raw punch events
  into attendance outcomes (on-time, late, early-leave, overtime, absent,
  GPS-rejected). Everything here is deterministic and side-effect free:
  callers fetch configs, schedule instances, and punches up front and pass
  them in as plain values.

KEY CONCEPTS IN THIS FILE (types.go):
  - Typed identifiers: EmployeeID, ScheduleID, ShiftID, SystemID
  - Closed enum types with description lookup tables (never reflection)
  - Value structs owned by composition: HandoverInfo, WorkTask, AlertInfo
  - PunchEvent: the raw external input this engine consumes

DESIGN PRINCIPLES:
  1. Purity: no hidden clock, no I/O; "now" is always an explicit parameter
  2. Value semantics: schedules reference configs by ID, never by pointer,
     so editing a config never retroactively mutates historical schedules
  3. Type safety: strong typing for IDs prevents mixing employee/shift IDs
  4. Fail closed: degenerate input classifies as a rejection, not a panic

SEE ALSO:
  - clock.go: all wrapped-midnight time arithmetic lives there, nowhere else
  - config.go: RotationSystemConfig and ShiftConfig definitions
  - classifier.go: the attendance classification algorithm
*/
package engine

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type DepartmentID string
type ScheduleID string
type ShiftID string
type SystemID string
type AlertID string

// =============================================================================
// SHIFT TYPE
// =============================================================================

type ShiftType string

const (
	ShiftEarly     ShiftType = "early"
	ShiftMorning   ShiftType = "morning"
	ShiftAfternoon ShiftType = "afternoon"
	ShiftEvening   ShiftType = "evening"
	ShiftNight     ShiftType = "night"
	ShiftGraveyard ShiftType = "graveyard"
	ShiftFlexible  ShiftType = "flexible"
	ShiftCustom    ShiftType = "custom"
)

var shiftTypeDescriptions = map[ShiftType]string{
	ShiftEarly:     "Early Shift",
	ShiftMorning:   "Morning Shift",
	ShiftAfternoon: "Afternoon Shift",
	ShiftEvening:   "Evening Shift",
	ShiftNight:     "Night Shift",
	ShiftGraveyard: "Graveyard Shift",
	ShiftFlexible:  "Flexible Shift",
	ShiftCustom:    "Custom Shift",
}

// Description returns the display string for the shift type.
func (st ShiftType) Description() string {
	if d, ok := shiftTypeDescriptions[st]; ok {
		return d
	}
	return string(st)
}

// RequiresHandover reports whether this shift type mandates a handover record
// between the outgoing and incoming occupant.
func (st ShiftType) RequiresHandover() bool {
	return st == ShiftNight || st == ShiftGraveyard
}

// =============================================================================
// SCHEDULE STATUS - Lifecycle of a schedule instance
// =============================================================================

type ScheduleStatus string

const (
	ScheduleScheduled  ScheduleStatus = "scheduled"
	ScheduleConfirmed  ScheduleStatus = "confirmed"
	ScheduleInProgress ScheduleStatus = "in_progress"
	ScheduleCompleted  ScheduleStatus = "completed"
	ScheduleCancelled  ScheduleStatus = "cancelled"
	ScheduleExchanged  ScheduleStatus = "exchanged"
	ScheduleAbsent     ScheduleStatus = "absent"
	ScheduleOnLeave    ScheduleStatus = "on_leave"
)

var scheduleStatusDescriptions = map[ScheduleStatus]string{
	ScheduleScheduled:  "Scheduled",
	ScheduleConfirmed:  "Confirmed",
	ScheduleInProgress: "In Progress",
	ScheduleCompleted:  "Completed",
	ScheduleCancelled:  "Cancelled",
	ScheduleExchanged:  "Exchanged",
	ScheduleAbsent:     "Absent",
	ScheduleOnLeave:    "On Leave",
}

func (ss ScheduleStatus) Description() string {
	if d, ok := scheduleStatusDescriptions[ss]; ok {
		return d
	}
	return string(ss)
}

// IsTerminal reports whether the schedule has left the active lifecycle.
// Cancelled and exchanged instances are terminal status values, never
// physically deleted; they are excluded from conflict detection.
func (ss ScheduleStatus) IsTerminal() bool {
	return ss == ScheduleCancelled || ss == ScheduleExchanged
}

// =============================================================================
// ATTENDANCE STATUS
// =============================================================================

type AttendanceStatus string

const (
	AttendancePending    AttendanceStatus = "pending"
	AttendanceClockedIn  AttendanceStatus = "clocked_in"
	AttendanceClockedOut AttendanceStatus = "clocked_out"
	AttendanceAbsent     AttendanceStatus = "absent"
	AttendanceLate       AttendanceStatus = "late"
	AttendanceEarlyLeave AttendanceStatus = "early_leave"
	AttendanceOvertime   AttendanceStatus = "overtime"
	AttendanceException  AttendanceStatus = "exception"
)

var attendanceStatusDescriptions = map[AttendanceStatus]string{
	AttendancePending:    "Pending",
	AttendanceClockedIn:  "Clocked In",
	AttendanceClockedOut: "Clocked Out",
	AttendanceAbsent:     "Absent",
	AttendanceLate:       "Late",
	AttendanceEarlyLeave: "Early Leave",
	AttendanceOvertime:   "Overtime",
	AttendanceException:  "Exception",
}

func (as AttendanceStatus) Description() string {
	if d, ok := attendanceStatusDescriptions[as]; ok {
		return d
	}
	return string(as)
}

// =============================================================================
// HANDOVER
// =============================================================================

type HandoverStatus string

const (
	HandoverNotRequired HandoverStatus = "not_required"
	HandoverPending     HandoverStatus = "pending"
	HandoverInProgress  HandoverStatus = "in_progress"
	HandoverCompleted   HandoverStatus = "completed"
	HandoverFailed      HandoverStatus = "failed"
	HandoverException   HandoverStatus = "exception"
)

var handoverStatusDescriptions = map[HandoverStatus]string{
	HandoverNotRequired: "Not Required",
	HandoverPending:     "Pending",
	HandoverInProgress:  "In Progress",
	HandoverCompleted:   "Completed",
	HandoverFailed:      "Failed",
	HandoverException:   "Exception",
}

func (hs HandoverStatus) Description() string {
	if d, ok := handoverStatusDescriptions[hs]; ok {
		return d
	}
	return string(hs)
}

// HandoverInfo is the hand-off record between the outgoing and incoming
// occupant of a night/graveyard or overnight shift.
type HandoverInfo struct {
	Status       HandoverStatus
	FromEmployee EmployeeID
	ToEmployee   EmployeeID
	At           time.Time
	Content      string
	Confirmed    bool
}

// =============================================================================
// ALERTS
// =============================================================================

type AlertLevel string

const (
	AlertLow      AlertLevel = "low"
	AlertMedium   AlertLevel = "medium"
	AlertHigh     AlertLevel = "high"
	AlertCritical AlertLevel = "critical"
)

// Alert type codes generated by the classifier and detector.
const (
	AlertGeofenceRejected = "GEOFENCE_REJECTED"
	AlertInvalidPunch     = "INVALID_PUNCH"
	AlertHandoverPending  = "HANDOVER_PENDING"
	AlertOvertimeCeiling  = "OVERTIME_CEILING_EXCEEDED"
	AlertNoApplicableRule = "NO_APPLICABLE_RULE"
)

// AlertInfo is a generated alert attached to a verdict or schedule instance.
// Delivery (notification channels) is a collaborator concern.
type AlertInfo struct {
	ID        AlertID
	Level     AlertLevel
	Type      string
	Message   string
	CreatedAt time.Time
}

// =============================================================================
// WORK TASKS
// =============================================================================

// WorkTask is a unit of work attached to a schedule instance.
type WorkTask struct {
	TaskID    string
	Name      string
	Completed bool
}

// =============================================================================
// PUNCH EVENTS - External input, not persisted by this engine
// =============================================================================

type PunchDirection string

const (
	PunchIn  PunchDirection = "in"
	PunchOut PunchDirection = "out"
)

// Coordinate is a WGS84 point. Valid latitudes are [-90, 90] and valid
// longitudes [-180, 180]; anything else fails geofence validation closed.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the coordinate is inside the WGS84 domain.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// PunchEvent is one raw clock-in/out event from a device or mobile client.
// Identity and location are assumed already verified upstream; this engine
// only validates the location against the geofence rule.
type PunchEvent struct {
	EmployeeID EmployeeID
	At         time.Time
	Direction  PunchDirection
	Location   *Coordinate // nil when the device had no GPS fix
	Method     string      // e.g. "mobile", "terminal", "face"
	PhotoRef   string
}
