/*
scheduler.go - Automated end-of-day closeout scheduler

PURPOSE:
  Periodically checks whether the previous calendar day still has open
  schedule instances and runs the closeout batch for it: no-shows become
  ABSENT, worked instances get their final verdict.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Closes out the PREVIOUS day, never the current one (punches for an
    overnight shift keep arriving until the morning after)
  - Tracks the last closed date so repeated ticks within the same day skip
  - Closeout itself is idempotent (deterministic alert IDs), so a missed
    skip is converging, not corrupting

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewCloseoutScheduler(store)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RunCloseout endpoint (manual closeout)
  - roster/closeout.go: The batch itself
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/rotation-engine/engine"
	"github.com/warp/rotation-engine/roster"
	"github.com/warp/rotation-engine/store/sqlite"
)

// CloseoutScheduler handles automated end-of-day closeout.
type CloseoutScheduler struct {
	Store         *sqlite.Store
	CheckInterval time.Duration
	Enabled       bool

	ticker     *time.Ticker
	stop       chan bool
	wg         sync.WaitGroup
	mu         sync.Mutex
	lastClosed time.Time
}

// NewCloseoutScheduler creates a new scheduler.
func NewCloseoutScheduler(store *sqlite.Store) *CloseoutScheduler {
	return &CloseoutScheduler{
		Store:         store,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (cs *CloseoutScheduler) Start() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !cs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	cs.ticker = time.NewTicker(cs.CheckInterval)
	cs.wg.Add(1)

	go cs.run()

	log.Printf("[Scheduler] Started with check interval: %v", cs.CheckInterval)
}

// Stop stops the scheduler.
func (cs *CloseoutScheduler) Stop() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.ticker != nil {
		cs.ticker.Stop()
		close(cs.stop)
		cs.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (cs *CloseoutScheduler) run() {
	defer cs.wg.Done()

	// Run immediately on start
	cs.checkAndProcess()

	for {
		select {
		case <-cs.ticker.C:
			cs.checkAndProcess()
		case <-cs.stop:
			return
		}
	}
}

func (cs *CloseoutScheduler) checkAndProcess() {
	ctx := context.Background()
	target := engine.DateOnly(time.Now().AddDate(0, 0, -1))

	cs.mu.Lock()
	alreadyDone := !cs.lastClosed.Before(target)
	cs.mu.Unlock()
	if alreadyDone {
		return
	}

	log.Printf("[Scheduler] Closing out %s", target.Format("2006-01-02"))

	closeout := &roster.Closeout{
		Schedules: cs.Store,
		Configs:   cs.Store,
		Punches:   cs.Store,
		Leave:     cs.Store,
	}
	report, err := closeout.Run(ctx, target)
	if err != nil {
		log.Printf("[Scheduler] Closeout for %s failed: %v", target.Format("2006-01-02"), err)
		return
	}

	for _, f := range report.Failures {
		log.Printf("[Scheduler] Closeout item failed: %v", f)
	}
	log.Printf("[Scheduler] Completed %s: %d evaluated, %d absent, %d skipped, %d failed",
		target.Format("2006-01-02"), report.Evaluated, report.Absent, report.Skipped, len(report.Failures))

	cs.mu.Lock()
	cs.lastClosed = target
	cs.mu.Unlock()
}

// RunNow triggers an immediate check (for testing/admin).
func (cs *CloseoutScheduler) RunNow() {
	cs.checkAndProcess()
}

// GetNextRunTime returns when the next scheduled check will occur.
func (cs *CloseoutScheduler) GetNextRunTime() time.Time {
	return time.Now().Add(cs.CheckInterval)
}
