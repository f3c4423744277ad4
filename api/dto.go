/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Systems:
    SystemDTO (wraps factory.SystemJSON), CreateSystemRequest

  Schedules:
    ScheduleDTO, PlanRequestDTO, PlanResultDTO

  Attendance:
    PunchDTO, RecordPunchesRequest, VerdictDTO, CloseoutRequest,
    CloseoutReportDTO

  Lifecycle:
    ExchangeRequest, CancelRequest, LeaveRequest, HandoverRequest

  Reporting:
    ConflictDTO, DaySummaryDTO, EmployeeStatsDTO

DATE FORMATS:
  Calendar dates are "YYYY-MM-DD"; instants are RFC3339. Decimal rates are
  serialized as strings ("66.67") to avoid float drift in clients.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/system.go: SystemJSON type
*/
package api

import (
	"time"

	"github.com/warp/rotation-engine/engine"
	"github.com/warp/rotation-engine/factory"
	"github.com/warp/rotation-engine/roster"
)

const dateLayout = "2006-01-02"

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// SYSTEMS
// =============================================================================

// SystemDTO represents a rotation system in API responses.
type SystemDTO struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	SystemType string             `json:"system_type"`
	Status     string             `json:"status"`
	Priority   int                `json:"priority"`
	Config     factory.SystemJSON `json:"config"`
}

// CreateSystemRequest is the request to create a rotation system.
type CreateSystemRequest struct {
	Config factory.SystemJSON `json:"config"`
}

// =============================================================================
// SCHEDULES
// =============================================================================

// ScheduleDTO represents a schedule instance in API responses.
type ScheduleDTO struct {
	ScheduleID   string `json:"schedule_id"`
	SystemID     string `json:"system_id"`
	ShiftID      string `json:"shift_id"`
	ShiftName    string `json:"shift_name,omitempty"`
	ShiftType    string `json:"shift_type"`
	EmployeeID   string `json:"employee_id"`
	DepartmentID string `json:"department_id,omitempty"`
	ScheduleDate string `json:"schedule_date"`

	ExpectedWorkStart string  `json:"expected_work_start,omitempty"`
	ExpectedWorkEnd   string  `json:"expected_work_end,omitempty"`
	ActualClockIn     *string `json:"actual_clock_in,omitempty"`
	ActualClockOut    *string `json:"actual_clock_out,omitempty"`

	Status     string `json:"status"`
	Attendance string `json:"attendance"`
	Phase      string `json:"phase,omitempty"`

	LateMinutes       int `json:"late_minutes"`
	EarlyLeaveMinutes int `json:"early_leave_minutes"`
	OvertimeMinutes   int `json:"overtime_minutes"`

	WorkedDuration string `json:"worked_duration,omitempty"`
	WorkedHours    string `json:"worked_hours,omitempty"`

	RequiresHandover bool `json:"requires_handover"`
	HandoverComplete bool `json:"handover_complete"`
	AlertCount       int  `json:"alert_count"`

	Alerts []AlertDTO `json:"alerts,omitempty"`
}

// AlertDTO represents an alert attached to a schedule.
type AlertDTO struct {
	ID        string `json:"id"`
	Level     string `json:"level"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// PlanRequestDTO is the request to materialize schedule instances.
type PlanRequestDTO struct {
	SystemID     string   `json:"system_id"`
	DepartmentID string   `json:"department_id,omitempty"`
	Employees    []string `json:"employees"`
	From         string   `json:"from"`
	To           string   `json:"to"`
}

// PlanResultDTO reports what a plan run produced.
type PlanResultDTO struct {
	Created  []ScheduleDTO `json:"created"`
	RestDays int           `json:"rest_days"`
	Skipped  int           `json:"skipped"`
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// PunchDTO is one raw punch event.
type PunchDTO struct {
	EmployeeID string   `json:"employee_id"`
	At         string   `json:"at"` // RFC3339
	Direction  string   `json:"direction"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Method     string   `json:"method,omitempty"`
	PhotoRef   string   `json:"photo_ref,omitempty"`
}

// RecordPunchesRequest files punch events under a business date.
type RecordPunchesRequest struct {
	BusinessDate string     `json:"business_date"`
	Punches      []PunchDTO `json:"punches"`
}

// VerdictDTO is the classification result for one schedule instance.
type VerdictDTO struct {
	ScheduleID string `json:"schedule_id"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`

	IsLate       bool `json:"is_late"`
	IsEarlyLeave bool `json:"is_early_leave"`
	IsOvertime   bool `json:"is_overtime"`

	LateMinutes         int `json:"late_minutes"`
	EarlyLeaveMinutes   int `json:"early_leave_minutes"`
	OvertimeMinutes     int `json:"overtime_minutes"`
	WorkDurationMinutes int `json:"work_duration_minutes"`

	ClockInAt  *string `json:"clock_in_at,omitempty"`
	ClockOutAt *string `json:"clock_out_at,omitempty"`

	Geofence         string `json:"geofence"`
	RequiresHandover bool   `json:"requires_handover"`

	RejectedPunches []RejectedPunchDTO `json:"rejected_punches,omitempty"`
	Alerts          []AlertDTO         `json:"alerts,omitempty"`
}

// RejectedPunchDTO records an excluded punch and why.
type RejectedPunchDTO struct {
	At        string `json:"at"`
	Direction string `json:"direction"`
	Reason    string `json:"reason"`
}

// CloseoutRequest triggers the end-of-day batch for one date.
type CloseoutRequest struct {
	Date string `json:"date"`
}

// CloseoutReportDTO summarizes one closeout run.
type CloseoutReportDTO struct {
	Date      string   `json:"date"`
	Evaluated int      `json:"evaluated"`
	Absent    int      `json:"absent"`
	Skipped   int      `json:"skipped"`
	Failures  []string `json:"failures,omitempty"`
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// ExchangeRequest swaps a schedule instance to another employee.
type ExchangeRequest struct {
	WithEmployee string `json:"with_employee"`
	Ref          string `json:"ref,omitempty"`
}

// CancelRequest cancels a schedule instance.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// LeaveRequest marks a schedule instance on leave, or records an approved
// leave day when posted to /api/leave.
type LeaveRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Date       string `json:"date,omitempty"`
	LeaveType  string `json:"leave_type"`
	ApprovedBy string `json:"approved_by,omitempty"`
}

// HandoverRequest completes a handover on a schedule instance.
type HandoverRequest struct {
	ToEmployee string `json:"to_employee"`
	Content    string `json:"content,omitempty"`
}

// =============================================================================
// REPORTING
// =============================================================================

// ConflictDTO represents a detected scheduling conflict.
type ConflictDTO struct {
	Type       string `json:"type"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	ScheduleA  string `json:"schedule_a"`
	ScheduleB  string `json:"schedule_b,omitempty"`
	Detail     string `json:"detail"`
}

// DaySummaryDTO aggregates one date across the board.
type DaySummaryDTO struct {
	Date  string `json:"date"`
	Total int    `json:"total"`

	ByStatus     map[string]int `json:"by_status"`
	ByAttendance map[string]int `json:"by_attendance"`
	ByShiftType  map[string]int `json:"by_shift_type"`

	LateCount        int    `json:"late_count"`
	AbsentCount      int    `json:"absent_count"`
	OvertimeCount    int    `json:"overtime_count"`
	PendingHandovers int    `json:"pending_handovers"`
	AttendanceRate   string `json:"attendance_rate"`
}

// EmployeeStatsDTO aggregates one employee over a date range.
type EmployeeStatsDTO struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`

	TotalDays     int `json:"total_days"`
	WorkDays      int `json:"work_days"`
	RestDays      int `json:"rest_days"`
	LeaveDays     int `json:"leave_days"`
	CancelledDays int `json:"cancelled_days"`

	AbsentCount     int `json:"absent_count"`
	LateCount       int `json:"late_count"`
	EarlyLeaveCount int `json:"early_leave_count"`
	OvertimeCount   int `json:"overtime_count"`

	TotalWorkMinutes     int `json:"total_work_minutes"`
	TotalOvertimeMinutes int `json:"total_overtime_minutes"`

	ByShiftType map[string]int `json:"by_shift_type"`

	AttendanceRate string `json:"attendance_rate"`
	AvgLateMinutes string `json:"avg_late_minutes"`
}

// =============================================================================
// DTO BUILDERS
// =============================================================================

func toScheduleDTO(s engine.RotationSchedule, now time.Time) ScheduleDTO {
	sum := engine.Summarize(s, now)
	dto := ScheduleDTO{
		ScheduleID:        string(s.ScheduleID),
		SystemID:          string(s.RotationSystemID),
		ShiftID:           string(s.ShiftID),
		ShiftName:         s.ShiftName,
		ShiftType:         string(s.ShiftType),
		EmployeeID:        string(s.EmployeeID),
		DepartmentID:      string(s.DepartmentID),
		ScheduleDate:      s.ScheduleDate.Format(dateLayout),
		Status:            string(s.Status),
		Attendance:        string(s.Attendance),
		Phase:             string(sum.Phase),
		LateMinutes:       s.LateMinutes,
		EarlyLeaveMinutes: s.EarlyLeaveMinutes,
		OvertimeMinutes:   s.OvertimeMinutes,
		WorkedDuration:    sum.WorkedDuration,
		WorkedHours:       sum.WorkedHours.StringFixed(2),
		RequiresHandover:  sum.RequiresHandover,
		HandoverComplete:  sum.HandoverComplete,
		AlertCount:        sum.AlertCount,
	}
	if !s.ExpectedWorkStart.IsZero() {
		dto.ExpectedWorkStart = s.ExpectedWorkStart.Format(time.RFC3339)
	}
	if !s.ExpectedWorkEnd.IsZero() {
		dto.ExpectedWorkEnd = s.ExpectedWorkEnd.Format(time.RFC3339)
	}
	dto.ActualClockIn = formatInstant(s.ActualClockIn)
	dto.ActualClockOut = formatInstant(s.ActualClockOut)
	for _, a := range s.Alerts {
		dto.Alerts = append(dto.Alerts, toAlertDTO(a))
	}
	return dto
}

func toAlertDTO(a engine.AlertInfo) AlertDTO {
	return AlertDTO{
		ID:        string(a.ID),
		Level:     string(a.Level),
		Type:      a.Type,
		Message:   a.Message,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func toVerdictDTO(id engine.ScheduleID, v engine.AttendanceVerdict) VerdictDTO {
	dto := VerdictDTO{
		ScheduleID:          string(id),
		Status:              string(v.Status),
		Reason:              v.Reason,
		IsLate:              v.IsLate,
		IsEarlyLeave:        v.IsEarlyLeave,
		IsOvertime:          v.IsOvertime,
		LateMinutes:         v.LateMinutes,
		EarlyLeaveMinutes:   v.EarlyLeaveMinutes,
		OvertimeMinutes:     v.OvertimeMinutes,
		WorkDurationMinutes: v.WorkDurationMinutes,
		Geofence:            string(v.Geofence),
		RequiresHandover:    v.RequiresHandover,
		ClockInAt:           formatInstant(v.ClockInAt),
		ClockOutAt:          formatInstant(v.ClockOutAt),
	}
	for _, r := range v.Rejected {
		dto.RejectedPunches = append(dto.RejectedPunches, RejectedPunchDTO{
			At:        r.Punch.At.Format(time.RFC3339),
			Direction: string(r.Punch.Direction),
			Reason:    r.Reason,
		})
	}
	for _, a := range v.Alerts {
		dto.Alerts = append(dto.Alerts, toAlertDTO(a))
	}
	return dto
}

func toConflictDTO(c engine.Conflict) ConflictDTO {
	return ConflictDTO{
		Type:       string(c.Type),
		EmployeeID: string(c.EmployeeID),
		Date:       c.Date.Format(dateLayout),
		ScheduleA:  string(c.ScheduleA),
		ScheduleB:  string(c.ScheduleB),
		Detail:     c.Detail,
	}
}

func toDaySummaryDTO(s engine.DaySummary) DaySummaryDTO {
	dto := DaySummaryDTO{
		Date:             s.Date.Format(dateLayout),
		Total:            s.Total,
		ByStatus:         map[string]int{},
		ByAttendance:     map[string]int{},
		ByShiftType:      map[string]int{},
		LateCount:        s.LateCount,
		AbsentCount:      s.AbsentCount,
		OvertimeCount:    s.OvertimeCount,
		PendingHandovers: s.PendingHandovers,
		AttendanceRate:   s.AttendanceRate.StringFixed(2),
	}
	for k, v := range s.ByStatus {
		dto.ByStatus[string(k)] = v
	}
	for k, v := range s.ByAttendance {
		dto.ByAttendance[string(k)] = v
	}
	for k, v := range s.ByShiftType {
		dto.ByShiftType[string(k)] = v
	}
	return dto
}

func toStatsDTO(s roster.EmployeeStats) EmployeeStatsDTO {
	dto := EmployeeStatsDTO{
		EmployeeID:           string(s.EmployeeID),
		From:                 s.From.Format(dateLayout),
		To:                   s.To.Format(dateLayout),
		TotalDays:            s.TotalDays,
		WorkDays:             s.WorkDays,
		RestDays:             s.RestDays,
		LeaveDays:            s.LeaveDays,
		CancelledDays:        s.CancelledDays,
		AbsentCount:          s.AbsentCount,
		LateCount:            s.LateCount,
		EarlyLeaveCount:      s.EarlyLeaveCount,
		OvertimeCount:        s.OvertimeCount,
		TotalWorkMinutes:     s.TotalWorkMinutes,
		TotalOvertimeMinutes: s.TotalOvertimeMinutes,
		ByShiftType:          map[string]int{},
		AttendanceRate:       s.AttendanceRate.StringFixed(2),
		AvgLateMinutes:       s.AvgLateMinutes.StringFixed(2),
	}
	for k, v := range s.ByShiftType {
		dto.ByShiftType[string(k)] = v
	}
	return dto
}

func toCloseoutReportDTO(r roster.Report) CloseoutReportDTO {
	dto := CloseoutReportDTO{
		Date:      r.Date.Format(dateLayout),
		Evaluated: r.Evaluated,
		Absent:    r.Absent,
		Skipped:   r.Skipped,
	}
	for _, f := range r.Failures {
		dto.Failures = append(dto.Failures, f.Error())
	}
	return dto
}

func toPunchEvent(p PunchDTO) (engine.PunchEvent, error) {
	at, err := time.Parse(time.RFC3339, p.At)
	if err != nil {
		return engine.PunchEvent{}, err
	}
	e := engine.PunchEvent{
		EmployeeID: engine.EmployeeID(p.EmployeeID),
		At:         at,
		Direction:  engine.PunchDirection(p.Direction),
		Method:     p.Method,
		PhotoRef:   p.PhotoRef,
	}
	if p.Latitude != nil && p.Longitude != nil {
		e.Location = &engine.Coordinate{Latitude: *p.Latitude, Longitude: *p.Longitude}
	}
	return e, nil
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
