/*
Package roster builds on the pure engine: plan generation, batch closeout,
status transitions, and range statistics. This is the layer that talks to
stores and generates IDs; everything it computes delegates to engine.

planner.go - Materialize schedule instances from a rotation config

PURPOSE:
  GeneratePlan walks a date range and, for every employee and non-rest date,
  creates one RotationSchedule with the expected work/rest windows anchored
  onto the calendar. Planning is idempotent: dates already holding an active
  instance for the employee are skipped, so re-planning after a config tweak
  only fills gaps.
*/
package roster

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/warp/rotation-engine/engine"
)

// Planner materializes schedule instances from rotation configs.
type Planner struct {
	Schedules engine.ScheduleStore
	Configs   engine.CatalogStore

	// Now supplies the creation timestamp; defaults to time.Now.
	Now func() time.Time
}

// PlanRequest names the config, the employees to cover, and the date range
// (inclusive on both ends).
type PlanRequest struct {
	SystemID     engine.SystemID
	DepartmentID engine.DepartmentID
	Employees    []engine.EmployeeID
	From         time.Time
	To           time.Time
}

// PlanResult reports what a plan run produced.
type PlanResult struct {
	Created  []engine.RotationSchedule
	RestDays int
	Skipped  int // dates already holding an active instance
}

// GeneratePlan creates schedule instances for each employee/date in the range.
func (p *Planner) GeneratePlan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	if req.From.IsZero() || req.To.IsZero() || req.To.Before(req.From) {
		return nil, fmt.Errorf("plan range invalid: %w", engine.ErrNegativeInterval)
	}
	if len(req.Employees) == 0 {
		return nil, fmt.Errorf("plan needs at least one employee: %w", engine.ErrInvalidRule)
	}

	cfg, err := p.Configs.GetConfig(ctx, req.SystemID)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", req.SystemID, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := p.now()
	result := &PlanResult{}

	for _, emp := range req.Employees {
		existing, err := p.existingDates(ctx, emp, req.From, req.To)
		if err != nil {
			return nil, err
		}

		for d := engine.DateOnly(req.From); !d.After(req.To); d = d.AddDate(0, 0, 1) {
			shift := cfg.ShiftForDate(d)
			if shift == nil {
				result.RestDays++
				continue
			}
			if existing[d.Format("2006-01-02")] {
				result.Skipped++
				continue
			}

			sched, err := buildInstance(cfg, shift, emp, req.DepartmentID, d, now)
			if err != nil {
				return nil, err
			}
			if err := p.Schedules.Save(ctx, sched); err != nil {
				return nil, fmt.Errorf("save %s: %w", sched.ScheduleID, err)
			}
			result.Created = append(result.Created, sched)
		}
	}

	log.Printf("[Planner] system=%s employees=%d range=%s..%s created=%d rest=%d skipped=%d",
		req.SystemID, len(req.Employees),
		req.From.Format("2006-01-02"), req.To.Format("2006-01-02"),
		len(result.Created), result.RestDays, result.Skipped)
	return result, nil
}

// existingDates collects the dates already holding a non-terminal instance.
func (p *Planner) existingDates(ctx context.Context, emp engine.EmployeeID, from, to time.Time) (map[string]bool, error) {
	current, err := p.Schedules.ListByEmployee(ctx, emp, from, to)
	if err != nil {
		return nil, fmt.Errorf("list existing for %s: %w", emp, err)
	}
	out := make(map[string]bool, len(current))
	for _, s := range current {
		if s.Status.IsTerminal() {
			continue
		}
		out[engine.DateOnly(s.ScheduleDate).Format("2006-01-02")] = true
	}
	return out, nil
}

func buildInstance(cfg *engine.RotationSystemConfig, shift *engine.ShiftConfig,
	emp engine.EmployeeID, dept engine.DepartmentID, date, now time.Time) (engine.RotationSchedule, error) {

	workStart, workEnd, err := engine.NormalizeWindow(date, shift.WorkStart, shift.WorkEnd)
	if err != nil {
		return engine.RotationSchedule{}, fmt.Errorf("shift %s window: %w", shift.ShiftID, err)
	}

	sched := engine.RotationSchedule{
		ScheduleID:       NewScheduleID(date),
		RotationSystemID: cfg.SystemID,
		ShiftID:          shift.ShiftID,
		ShiftName:        shift.Name,
		ShiftType:        shift.Type,

		EmployeeID:   emp,
		DepartmentID: dept,
		ScheduleDate: date,

		ExpectedWorkStart: workStart,
		ExpectedWorkEnd:   workEnd,

		Status:     engine.ScheduleScheduled,
		Attendance: engine.AttendancePending,
		Priority:   cfg.Priority,
		CreateTime: now,
		UpdateTime: now,
	}

	if shift.HasRest() {
		rs, re, err := engine.NormalizeWindow(date, shift.RestStart, shift.RestEnd)
		if err != nil {
			return engine.RotationSchedule{}, fmt.Errorf("shift %s rest window: %w", shift.ShiftID, err)
		}
		// An overnight shift's rest window may fall past midnight.
		if rs.Before(workStart) {
			rs = rs.AddDate(0, 0, 1)
			re = re.AddDate(0, 0, 1)
		}
		sched.ExpectedRestStart, sched.ExpectedRestEnd = &rs, &re
	}

	if sched.RequiresHandover() {
		sched.Handover = &engine.HandoverInfo{Status: engine.HandoverPending, FromEmployee: emp}
	}

	return sched, nil
}

// NewScheduleID generates a date-prefixed unique schedule ID, e.g.
// "SCH-20260301-1a2b3c4d".
func NewScheduleID(date time.Time) engine.ScheduleID {
	return engine.ScheduleID(fmt.Sprintf("SCH-%s-%s",
		date.Format("20060102"), uuid.NewString()[:8]))
}

func (p *Planner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
