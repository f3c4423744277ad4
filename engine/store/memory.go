/*
Package store provides the in-memory implementation of the engine's
persistence ports.

PURPOSE:
  A thread-safe map-backed ScheduleStore and CatalogStore for tests, local
  development, and embedding the engine without a database. Production
  deployments use store/sqlite instead.

CONCURRENCY:
  A single RWMutex per store. Reads return copies, so callers can never
  mutate stored state through a returned value.
*/
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/rotation-engine/engine"
)

// =============================================================================
// SCHEDULE STORE
// =============================================================================

// MemoryScheduleStore is an in-memory engine.ScheduleStore with secondary
// indexes by employee and by date.
type MemoryScheduleStore struct {
	mu         sync.RWMutex
	byID       map[engine.ScheduleID]engine.RotationSchedule
	byEmployee map[engine.EmployeeID][]engine.ScheduleID
	byDate     map[string][]engine.ScheduleID // key: YYYY-MM-DD
}

func NewMemoryScheduleStore() *MemoryScheduleStore {
	return &MemoryScheduleStore{
		byID:       make(map[engine.ScheduleID]engine.RotationSchedule),
		byEmployee: make(map[engine.EmployeeID][]engine.ScheduleID),
		byDate:     make(map[string][]engine.ScheduleID),
	}
}

func dateKey(t time.Time) string {
	return engine.DateOnly(t).Format("2006-01-02")
}

// Save upserts a schedule instance and maintains both indexes.
func (m *MemoryScheduleStore) Save(_ context.Context, s engine.RotationSchedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.byID[s.ScheduleID]; ok {
		// Re-save with a changed employee or date must move the index entries.
		if old.EmployeeID != s.EmployeeID {
			m.byEmployee[old.EmployeeID] = removeID(m.byEmployee[old.EmployeeID], s.ScheduleID)
		}
		if dateKey(old.ScheduleDate) != dateKey(s.ScheduleDate) {
			m.byDate[dateKey(old.ScheduleDate)] = removeID(m.byDate[dateKey(old.ScheduleDate)], s.ScheduleID)
		}
	}
	if !containsID(m.byEmployee[s.EmployeeID], s.ScheduleID) {
		m.byEmployee[s.EmployeeID] = append(m.byEmployee[s.EmployeeID], s.ScheduleID)
	}
	if !containsID(m.byDate[dateKey(s.ScheduleDate)], s.ScheduleID) {
		m.byDate[dateKey(s.ScheduleDate)] = append(m.byDate[dateKey(s.ScheduleDate)], s.ScheduleID)
	}
	m.byID[s.ScheduleID] = s
	return nil
}

// Get returns a copy of the instance, or engine.ErrScheduleNotFound.
func (m *MemoryScheduleStore) Get(_ context.Context, id engine.ScheduleID) (*engine.RotationSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, engine.ErrScheduleNotFound
	}
	cp := s
	return &cp, nil
}

// ListByEmployee returns the employee's instances with dates in [from, to],
// ordered by date.
func (m *MemoryScheduleStore) ListByEmployee(_ context.Context, emp engine.EmployeeID, from, to time.Time) ([]engine.RotationSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fromD, toD := engine.DateOnly(from), engine.DateOnly(to)
	var out []engine.RotationSchedule
	for _, id := range m.byEmployee[emp] {
		s := m.byID[id]
		d := engine.DateOnly(s.ScheduleDate)
		if d.Before(fromD) || d.After(toD) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduleDate.Before(out[j].ScheduleDate) })
	return out, nil
}

// ListByDate returns every instance on one calendar date, ordered by
// expected start then ID for determinism.
func (m *MemoryScheduleStore) ListByDate(_ context.Context, date time.Time) ([]engine.RotationSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []engine.RotationSchedule
	for _, id := range m.byDate[dateKey(date)] {
		out = append(out, m.byID[id])
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpectedWorkStart.Equal(out[j].ExpectedWorkStart) {
			return out[i].ExpectedWorkStart.Before(out[j].ExpectedWorkStart)
		}
		return out[i].ScheduleID < out[j].ScheduleID
	})
	return out, nil
}

func removeID(ids []engine.ScheduleID, id engine.ScheduleID) []engine.ScheduleID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsID(ids []engine.ScheduleID, id engine.ScheduleID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// =============================================================================
// CATALOG STORE
// =============================================================================

// MemoryCatalogStore is an in-memory engine.CatalogStore.
type MemoryCatalogStore struct {
	mu      sync.RWMutex
	configs map[engine.SystemID]engine.RotationSystemConfig
}

func NewMemoryCatalogStore() *MemoryCatalogStore {
	return &MemoryCatalogStore{configs: make(map[engine.SystemID]engine.RotationSystemConfig)}
}

// SaveConfig validates and upserts a rotation system config.
func (m *MemoryCatalogStore) SaveConfig(_ context.Context, c engine.RotationSystemConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[c.SystemID] = c
	return nil
}

// GetConfig returns a copy of the config, or engine.ErrConfigNotFound.
func (m *MemoryCatalogStore) GetConfig(_ context.Context, id engine.SystemID) (*engine.RotationSystemConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.configs[id]
	if !ok {
		return nil, engine.ErrConfigNotFound
	}
	cp := c
	return &cp, nil
}

// ListConfigs returns all configs ordered by SystemID.
func (m *MemoryCatalogStore) ListConfigs(_ context.Context) ([]engine.RotationSystemConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.RotationSystemConfig, 0, len(m.configs))
	for _, c := range m.configs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SystemID < out[j].SystemID })
	return out, nil
}

// =============================================================================
// COLLABORATOR FAKES - useful beyond tests for embedding without collaborators
// =============================================================================

// StaticLeaveChecker answers approved-leave lookups from a fixed set.
type StaticLeaveChecker struct {
	mu    sync.RWMutex
	leave map[string]bool // key: employee|date
}

func NewStaticLeaveChecker() *StaticLeaveChecker {
	return &StaticLeaveChecker{leave: make(map[string]bool)}
}

func leaveKey(emp engine.EmployeeID, date time.Time) string {
	return string(emp) + "|" + dateKey(date)
}

// Grant records an approved leave day.
func (l *StaticLeaveChecker) Grant(emp engine.EmployeeID, date time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.leave[leaveKey(emp, date)] = true
}

func (l *StaticLeaveChecker) IsOnApprovedLeave(_ context.Context, emp engine.EmployeeID, date time.Time) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.leave[leaveKey(emp, date)], nil
}

// MemoryPunchSource serves recorded punch events by employee-day.
type MemoryPunchSource struct {
	mu      sync.RWMutex
	punches map[string][]engine.PunchEvent
}

func NewMemoryPunchSource() *MemoryPunchSource {
	return &MemoryPunchSource{punches: make(map[string][]engine.PunchEvent)}
}

// Record files punch events under the given business date. Overnight
// clock-outs carry next-day timestamps but still belong to the schedule
// date they close.
func (p *MemoryPunchSource) Record(businessDate time.Time, events ...engine.PunchEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range events {
		k := leaveKey(e.EmployeeID, businessDate)
		p.punches[k] = append(p.punches[k], e)
	}
}

func (p *MemoryPunchSource) PunchesFor(_ context.Context, emp engine.EmployeeID, date time.Time) ([]engine.PunchEvent, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	src := p.punches[leaveKey(emp, date)]
	out := make([]engine.PunchEvent, len(src))
	copy(out, src)
	return out, nil
}
