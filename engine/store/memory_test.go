package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/rotation-engine/engine"
	"github.com/warp/rotation-engine/engine/store"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func sched(id engine.ScheduleID, emp engine.EmployeeID, d int) engine.RotationSchedule {
	start := day(d).Add(9 * time.Hour)
	return engine.RotationSchedule{
		ScheduleID:        id,
		EmployeeID:        emp,
		ScheduleDate:      day(d),
		ExpectedWorkStart: start,
		ExpectedWorkEnd:   start.Add(9 * time.Hour),
		Status:            engine.ScheduleScheduled,
		Attendance:        engine.AttendancePending,
	}
}

func TestMemoryScheduleStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryScheduleStore()

	require.NoError(t, s.Save(ctx, sched("s1", "emp-1", 2)))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, engine.EmployeeID("emp-1"), got.EmployeeID)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, engine.ErrScheduleNotFound)
}

func TestMemoryScheduleStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryScheduleStore()
	require.NoError(t, s.Save(ctx, sched("s1", "emp-1", 2)))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	got.EmployeeID = "tampered"

	again, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, engine.EmployeeID("emp-1"), again.EmployeeID)
}

func TestMemoryScheduleStore_SaveValidates(t *testing.T) {
	s := store.NewMemoryScheduleStore()
	err := s.Save(context.Background(), engine.RotationSchedule{ScheduleID: "s1"})
	assert.Error(t, err, "missing employee and date must be rejected")
}

func TestMemoryScheduleStore_ListByEmployee_RangeInclusive(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryScheduleStore()
	for d := 1; d <= 5; d++ {
		require.NoError(t, s.Save(ctx, sched(engine.ScheduleID(fmt.Sprintf("s%d", d)), "emp-1", d)))
	}
	require.NoError(t, s.Save(ctx, sched("other", "emp-2", 3)))

	out, err := s.ListByEmployee(ctx, "emp-1", day(2), day(4))
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.True(t, out[0].ScheduleDate.Before(out[1].ScheduleDate))
	assert.True(t, out[1].ScheduleDate.Before(out[2].ScheduleDate))
}

func TestMemoryScheduleStore_ListByDate(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryScheduleStore()
	require.NoError(t, s.Save(ctx, sched("s1", "emp-1", 2)))
	require.NoError(t, s.Save(ctx, sched("s2", "emp-2", 2)))
	require.NoError(t, s.Save(ctx, sched("s3", "emp-3", 3)))

	out, err := s.ListByDate(ctx, day(2))
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestMemoryScheduleStore_UpsertMovesIndexes(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryScheduleStore()
	require.NoError(t, s.Save(ctx, sched("s1", "emp-1", 2)))

	// Re-save the same ID on a different employee and date.
	moved := sched("s1", "emp-2", 3)
	require.NoError(t, s.Save(ctx, moved))

	old, err := s.ListByEmployee(ctx, "emp-1", day(1), day(5))
	require.NoError(t, err)
	assert.Empty(t, old)

	onDate, err := s.ListByDate(ctx, day(2))
	require.NoError(t, err)
	assert.Empty(t, onDate)

	now, err := s.ListByEmployee(ctx, "emp-2", day(1), day(5))
	require.NoError(t, err)
	require.Len(t, now, 1)
	assert.Equal(t, engine.ScheduleID("s1"), now[0].ScheduleID)
}

func TestMemoryCatalogStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryCatalogStore()

	cfg := engine.RotationSystemConfig{
		SystemID: "sys-1",
		Name:     "Test",
		Shifts: []engine.ShiftConfig{
			{ShiftID: "day", Name: "Day",
				WorkStart: engine.NewClock(9, 0), WorkEnd: engine.NewClock(18, 0),
				RestStart: engine.ClockUnset, RestEnd: engine.ClockUnset},
		},
		Status: engine.ConfigActive,
	}
	require.NoError(t, s.SaveConfig(ctx, cfg))

	got, err := s.GetConfig(ctx, "sys-1")
	require.NoError(t, err)
	assert.Equal(t, "Test", got.Name)

	_, err = s.GetConfig(ctx, "missing")
	assert.ErrorIs(t, err, engine.ErrConfigNotFound)

	all, err := s.ListConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryCatalogStore_SaveValidates(t *testing.T) {
	err := store.NewMemoryCatalogStore().SaveConfig(context.Background(),
		engine.RotationSystemConfig{SystemID: "bad"})
	assert.ErrorIs(t, err, engine.ErrInvalidRule)
}

func TestStaticLeaveChecker(t *testing.T) {
	lc := store.NewStaticLeaveChecker()
	lc.Grant("emp-1", day(2))

	on, err := lc.IsOnApprovedLeave(context.Background(), "emp-1", day(2))
	require.NoError(t, err)
	assert.True(t, on)

	off, err := lc.IsOnApprovedLeave(context.Background(), "emp-1", day(3))
	require.NoError(t, err)
	assert.False(t, off)
}

func TestMemoryPunchSource_KeyedByBusinessDate(t *testing.T) {
	ps := store.NewMemoryPunchSource()
	// Overnight clock-out on March 3rd filed under March 2nd.
	ps.Record(day(2),
		engine.PunchEvent{EmployeeID: "emp-1", Direction: engine.PunchIn, At: day(2).Add(22 * time.Hour)},
		engine.PunchEvent{EmployeeID: "emp-1", Direction: engine.PunchOut, At: day(3).Add(6 * time.Hour)},
	)

	punches, err := ps.PunchesFor(context.Background(), "emp-1", day(2))
	require.NoError(t, err)
	assert.Len(t, punches, 2)

	none, err := ps.PunchesFor(context.Background(), "emp-1", day(3))
	require.NoError(t, err)
	assert.Empty(t, none)
}
