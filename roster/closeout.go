/*
closeout.go - End-of-day batch evaluation

PURPOSE:
  Closeout re-evaluates every schedule instance of one calendar date with the
  closeout flag set, so employees with no punches become ABSENT unless an
  approved leave suppresses it. Evaluation is idempotent, so re-running a
  closeout (after late punch syncs, say) converges instead of compounding.

CONCURRENCY:
  A bounded worker pool fans the employee-days out. One failing instance
  never aborts the batch; failures are collected per-instance into the
  report and the rest of the day completes.
*/
package roster

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/warp/rotation-engine/engine"
)

const defaultCloseoutWorkers = 8

// Closeout drives the nightly batch evaluation for one date.
type Closeout struct {
	Schedules engine.ScheduleStore
	Configs   engine.CatalogStore
	Punches   engine.PunchSource
	Leave     engine.LeaveChecker

	// Workers bounds the pool; zero means defaultCloseoutWorkers.
	Workers int

	// Now supplies the evaluation instant; defaults to time.Now.
	Now func() time.Time
}

// ItemError ties a failure to the instance that produced it.
type ItemError struct {
	ScheduleID engine.ScheduleID
	Err        error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("schedule %s: %v", e.ScheduleID, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// Report summarizes one closeout run.
type Report struct {
	Date      time.Time
	Evaluated int
	Absent    int
	Skipped   int // terminal or on-leave instances left untouched
	Failures  []ItemError
}

// Run closes out one calendar date. The returned error covers setup failures
// only; per-instance failures land in Report.Failures.
func (c *Closeout) Run(ctx context.Context, date time.Time) (*Report, error) {
	schedules, err := c.Schedules.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list schedules for %s: %w", date.Format("2006-01-02"), err)
	}
	configs, err := c.Configs.ListConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load configs: %w", err)
	}
	catalog := engine.NewCatalog(configs)
	now := c.nowFn()()

	report := &Report{Date: engine.DateOnly(date)}
	var mu sync.Mutex

	jobs := make(chan engine.RotationSchedule)
	var wg sync.WaitGroup
	for i := 0; i < c.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sched := range jobs {
				absent, err := c.closeOne(ctx, catalog, sched, now)
				mu.Lock()
				if err != nil {
					report.Failures = append(report.Failures, ItemError{ScheduleID: sched.ScheduleID, Err: err})
				} else {
					report.Evaluated++
					if absent {
						report.Absent++
					}
				}
				mu.Unlock()
			}
		}()
	}

	for _, sched := range schedules {
		if sched.Status.IsTerminal() || sched.Status == engine.ScheduleOnLeave {
			report.Skipped++
			continue
		}
		jobs <- sched
	}
	close(jobs)
	wg.Wait()

	log.Printf("[Closeout] date=%s evaluated=%d absent=%d skipped=%d failed=%d",
		report.Date.Format("2006-01-02"), report.Evaluated, report.Absent,
		report.Skipped, len(report.Failures))
	return report, nil
}

// closeOne evaluates and persists one instance. Reports whether the verdict
// was ABSENT.
func (c *Closeout) closeOne(ctx context.Context, catalog *engine.Catalog,
	sched engine.RotationSchedule, now time.Time) (bool, error) {

	shift, cfg := resolveShift(catalog, sched)

	punches, err := c.Punches.PunchesFor(ctx, sched.EmployeeID, sched.ScheduleDate)
	if err != nil {
		return false, fmt.Errorf("fetch punches: %w", err)
	}

	onLeave := false
	if c.Leave != nil {
		onLeave, err = c.Leave.IsOnApprovedLeave(ctx, sched.EmployeeID, sched.ScheduleDate)
		if err != nil {
			return false, fmt.Errorf("leave lookup: %w", err)
		}
	}

	var rule engine.RuleConfig
	if cfg != nil {
		rule = cfg.Rule
	}

	verdict := engine.Evaluate(engine.EvaluationInput{
		Schedule:        sched,
		Shift:           shift,
		Punches:         punches,
		Rule:            rule,
		Closeout:        true,
		OnApprovedLeave: onLeave,
		Now:             now,
	})

	sched.ApplyVerdict(verdict, now)
	if err := c.Schedules.Save(ctx, sched); err != nil {
		return false, fmt.Errorf("save verdict: %w", err)
	}
	return verdict.Status == engine.AttendanceAbsent, nil
}

// resolveShift finds the instance's own shift in the snapshot first, falling
// back to fresh catalog resolution when the config or shift disappeared.
func resolveShift(catalog *engine.Catalog, sched engine.RotationSchedule) (*engine.ShiftConfig, *engine.RotationSystemConfig) {
	for _, cfg := range catalog.Configs() {
		if cfg.SystemID != sched.RotationSystemID {
			continue
		}
		if shift := cfg.ShiftByID(sched.ShiftID); shift != nil {
			c := cfg
			return shift, &c
		}
	}
	shift, cfg, err := catalog.ResolveApplicableShift(sched.EmployeeID, sched.DepartmentID, sched.ScheduleDate)
	if err != nil {
		return nil, cfg
	}
	return shift, cfg
}

func (c *Closeout) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return defaultCloseoutWorkers
}

func (c *Closeout) nowFn() func() time.Time {
	if c.Now != nil {
		return c.Now
	}
	return time.Now
}
