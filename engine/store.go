/*
store.go - Persistence ports for schedule instances and config snapshots

PURPOSE:
  Defines the narrow interfaces between the pure engine and persistence.
  The engine itself never touches these during classification - callers
  fetch through the ports, pass plain values in, and write verdicts back.
  Different implementations use SQLite or in-memory storage.

NO-DELETE CONTRACT:
  ScheduleStore has no Delete. Cancelled and exchanged schedules are
  terminal status values written through Save; history is never removed.

SNAPSHOT SEMANTICS:
  ListConfigs feeds NewCatalog with a point-in-time snapshot of active
  configs. The engine does not cache internally; callers decide when to
  re-snapshot, which avoids cache-invalidation races entirely.

IMPLEMENTATIONS:
  - engine/store/memory.go: in-memory, for tests and dev
  - store/sqlite/sqlite.go:  production SQLite
*/
package engine

import (
	"context"
	"time"
)

// =============================================================================
// SCHEDULE STORE - Port for schedule instance persistence
// =============================================================================

// ScheduleStore persists schedule instances. Save is an upsert keyed by
// ScheduleID; there is no delete.
type ScheduleStore interface {
	// Save inserts or replaces a schedule instance.
	Save(ctx context.Context, schedule RotationSchedule) error

	// Get returns the instance by ID, or ErrScheduleNotFound.
	Get(ctx context.Context, id ScheduleID) (*RotationSchedule, error)

	// ListByEmployee returns instances for an employee with schedule dates
	// in [from, to], ordered by date.
	ListByEmployee(ctx context.Context, emp EmployeeID, from, to time.Time) ([]RotationSchedule, error)

	// ListByDate returns all instances for one calendar date.
	ListByDate(ctx context.Context, date time.Time) ([]RotationSchedule, error)
}

// =============================================================================
// CATALOG STORE - Port for rotation system configs
// =============================================================================

// CatalogStore persists rotation system configs and serves catalog snapshots.
type CatalogStore interface {
	// SaveConfig inserts or replaces a config.
	SaveConfig(ctx context.Context, config RotationSystemConfig) error

	// GetConfig returns the config by ID, or ErrConfigNotFound.
	GetConfig(ctx context.Context, id SystemID) (*RotationSystemConfig, error)

	// ListConfigs returns every stored config. Callers filter by status when
	// building a catalog snapshot.
	ListConfigs(ctx context.Context) ([]RotationSystemConfig, error)
}

// =============================================================================
// COLLABORATOR PORTS
// =============================================================================

// LeaveChecker is the approved-leave lookup supplied by the leave-application
// collaborator. A closeout never marks an employee absent on an approved
// leave day.
type LeaveChecker interface {
	IsOnApprovedLeave(ctx context.Context, emp EmployeeID, date time.Time) (bool, error)
}

// PunchSource supplies the raw punch events for an employee-day, fetched by
// the device-ingestion or mobile-sync collaborator.
type PunchSource interface {
	PunchesFor(ctx context.Context, emp EmployeeID, date time.Time) ([]PunchEvent, error)
}
