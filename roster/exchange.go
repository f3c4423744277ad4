/*
exchange.go - Shift exchange, cancellation, leave, and handover transitions

PURPOSE:
  Status transitions on schedule instances. Instances are never deleted:
  an exchange marks the original EXCHANGED and creates a replacement for the
  counterpart; a cancellation marks CANCELLED. Both are terminal.

TRANSITION RULES:
  - Exchange and cancel apply only to instances that have not completed and
    are not already terminal.
  - Leave applies while the instance is still pending or scheduled.
  - Handover completion requires the instance to mandate a handover.
*/
package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warp/rotation-engine/engine"
)

// ErrInvalidTransition marks a status transition the lifecycle forbids.
var ErrInvalidTransition = errors.New("invalid schedule transition")

// Exchanger applies lifecycle transitions to stored instances.
type Exchanger struct {
	Schedules engine.ScheduleStore

	// Now supplies transition timestamps; defaults to time.Now.
	Now func() time.Time
}

// Exchange marks the instance EXCHANGED and creates a replacement instance
// for the counterpart employee over the same window. Returns the replacement.
func (e *Exchanger) Exchange(ctx context.Context, id engine.ScheduleID,
	with engine.EmployeeID, ref string) (*engine.RotationSchedule, error) {

	sched, err := e.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if with == "" || with == sched.EmployeeID {
		return nil, fmt.Errorf("exchange counterpart %q: %w", with, ErrInvalidTransition)
	}
	if sched.Status == engine.ScheduleInProgress || sched.Status == engine.ScheduleCompleted {
		return nil, fmt.Errorf("exchange after work started: %w", ErrInvalidTransition)
	}

	now := e.now()

	replacement := *sched
	replacement.ScheduleID = NewScheduleID(sched.ScheduleDate)
	replacement.EmployeeID = with
	replacement.ExchangedWith = sched.EmployeeID
	replacement.ExchangeRef = ref
	replacement.Status = engine.ScheduleScheduled
	replacement.Attendance = engine.AttendancePending
	replacement.ActualClockIn, replacement.ActualClockOut = nil, nil
	replacement.LateMinutes, replacement.EarlyLeaveMinutes, replacement.OvertimeMinutes = 0, 0, 0
	replacement.Alerts = nil
	replacement.CreateTime, replacement.UpdateTime = now, now
	if replacement.RequiresHandover() {
		replacement.Handover = &engine.HandoverInfo{Status: engine.HandoverPending, FromEmployee: with}
	}

	sched.Status = engine.ScheduleExchanged
	sched.ExchangedWith = with
	sched.ExchangeRef = ref
	sched.UpdateTime = now

	if err := e.Schedules.Save(ctx, *sched); err != nil {
		return nil, fmt.Errorf("save exchanged original: %w", err)
	}
	if err := e.Schedules.Save(ctx, replacement); err != nil {
		return nil, fmt.Errorf("save replacement: %w", err)
	}
	return &replacement, nil
}

// Cancel marks the instance CANCELLED.
func (e *Exchanger) Cancel(ctx context.Context, id engine.ScheduleID, reason string) error {
	sched, err := e.loadActive(ctx, id)
	if err != nil {
		return err
	}
	if sched.Status == engine.ScheduleCompleted {
		return fmt.Errorf("cancel completed schedule: %w", ErrInvalidTransition)
	}

	sched.Status = engine.ScheduleCancelled
	sched.UpdateTime = e.now()
	if reason != "" {
		sched.Alerts = append(sched.Alerts, engine.AlertInfo{
			ID:        engine.AlertID(string(id) + "-CANCELLED"),
			Level:     engine.AlertLow,
			Type:      "CANCELLED",
			Message:   reason,
			CreatedAt: sched.UpdateTime,
		})
	}
	return e.Schedules.Save(ctx, *sched)
}

// MarkOnLeave puts the instance into ON_LEAVE with the given leave type.
// A later closeout skips on-leave instances entirely.
func (e *Exchanger) MarkOnLeave(ctx context.Context, id engine.ScheduleID, leaveType string) error {
	sched, err := e.loadActive(ctx, id)
	if err != nil {
		return err
	}
	if sched.Status != engine.ScheduleScheduled && sched.Status != engine.ScheduleConfirmed {
		return fmt.Errorf("leave on %s schedule: %w", sched.Status, ErrInvalidTransition)
	}

	sched.Status = engine.ScheduleOnLeave
	sched.LeaveType = leaveType
	sched.UpdateTime = e.now()
	return e.Schedules.Save(ctx, *sched)
}

// CompleteHandover records a completed handover on the instance.
func (e *Exchanger) CompleteHandover(ctx context.Context, id engine.ScheduleID,
	to engine.EmployeeID, content string) error {

	sched, err := e.loadActive(ctx, id)
	if err != nil {
		return err
	}
	if !sched.RequiresHandover() {
		return fmt.Errorf("schedule %s needs no handover: %w", id, ErrInvalidTransition)
	}

	sched.Handover = &engine.HandoverInfo{
		Status:       engine.HandoverCompleted,
		FromEmployee: sched.EmployeeID,
		ToEmployee:   to,
		At:           e.now(),
		Content:      content,
		Confirmed:    true,
	}
	sched.UpdateTime = sched.Handover.At
	return e.Schedules.Save(ctx, *sched)
}

func (e *Exchanger) loadActive(ctx context.Context, id engine.ScheduleID) (*engine.RotationSchedule, error) {
	sched, err := e.Schedules.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sched.Status.IsTerminal() {
		return nil, fmt.Errorf("schedule %s is %s: %w", id, sched.Status, ErrInvalidTransition)
	}
	return sched, nil
}

func (e *Exchanger) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
