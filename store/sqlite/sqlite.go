/*
Package sqlite provides a SQLite-backed implementation of the storage ports.

PURPOSE:
  Implements the persistence ports defined in the engine package using
  SQLite. In production, the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  engine.ScheduleStore: Schedule instance persistence
  engine.CatalogStore:  Rotation system configs
  engine.LeaveChecker:  Approved leave lookups
  engine.PunchSource:   Raw punch events keyed by business date

NO-DELETE ENFORCEMENT:
  The schedule table enforces the no-delete contract:
  - No DELETE statements on the schedules table (Reset excepted, test-only)
  - Cancelled/exchanged instances are terminal STATUS values written
    through Save

KEY TABLES:
  schedules:     Schedule instances with embedded verdict fields
  configs:       Rotation system configs (scalar columns + JSON document)
  leave_records: Approved leave days per employee
  punches:       Raw punch events, keyed by BUSINESS date (an overnight
                 clock-out is filed under the schedule's date, not the
                 calendar date it occurred on)

JSON COLUMNS:
  Nested value structs (handover, tasks, alerts, punch location) are stored
  as JSON documents. They are read and written whole, never queried into,
  so a document column beats a table per struct.

INDEXES:
  - idx_schedules_employee_date: ListByEmployee (hot path for stats)
  - idx_schedules_date:          ListByDate (closeout and conflict scans)
  - idx_punches_employee_date:   PunchesFor
  - idx_leave_unique:            One leave record per employee-day

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/rotation.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/store.go: Port definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/rotation-engine/engine"
)

const dateLayout = "2006-01-02"

// Store implements all storage ports using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Schedule instances (no DELETE; cancelled/exchanged are statuses)
	CREATE TABLE IF NOT EXISTS schedules (
		schedule_id TEXT PRIMARY KEY,
		system_id TEXT NOT NULL,
		shift_id TEXT NOT NULL,
		shift_name TEXT,
		shift_type TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		department_id TEXT,
		schedule_date TEXT NOT NULL,
		expected_work_start TEXT,
		expected_work_end TEXT,
		expected_rest_start TEXT,
		expected_rest_end TEXT,
		actual_clock_in TEXT,
		actual_clock_out TEXT,
		status TEXT NOT NULL,
		attendance TEXT NOT NULL,
		late_minutes INTEGER DEFAULT 0,
		early_leave_minutes INTEGER DEFAULT 0,
		overtime_minutes INTEGER DEFAULT 0,
		leave_type TEXT,
		exchanged_with TEXT,
		exchange_ref TEXT,
		handover_json TEXT,
		tasks_json TEXT,
		alerts_json TEXT,
		priority INTEGER DEFAULT 0,
		create_time TEXT NOT NULL,
		update_time TEXT NOT NULL
	);

	-- Employee timeline queries (stats, per-employee listings)
	CREATE INDEX IF NOT EXISTS idx_schedules_employee_date
		ON schedules(employee_id, schedule_date);

	-- Whole-day scans (closeout, conflict detection, day summaries)
	CREATE INDEX IF NOT EXISTS idx_schedules_date
		ON schedules(schedule_date);

	CREATE INDEX IF NOT EXISTS idx_schedules_status
		ON schedules(status);

	-- Rotation system configs
	CREATE TABLE IF NOT EXISTS configs (
		system_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		system_type TEXT,
		status TEXT NOT NULL,
		priority INTEGER DEFAULT 0,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_configs_status
		ON configs(status);

	-- Approved leave days
	CREATE TABLE IF NOT EXISTS leave_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		leave_date TEXT NOT NULL,
		leave_type TEXT,
		approved_by TEXT,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_leave_unique
		ON leave_records(employee_id, leave_date);

	-- Raw punch events, keyed by business date
	CREATE TABLE IF NOT EXISTS punches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		business_date TEXT NOT NULL,
		punched_at TEXT NOT NULL,
		direction TEXT NOT NULL,
		latitude REAL,
		longitude REAL,
		method TEXT,
		photo_ref TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_punches_employee_date
		ON punches(employee_id, business_date, punched_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCHEDULE STORE (engine.ScheduleStore interface)
// =============================================================================

const scheduleColumns = `schedule_id, system_id, shift_id, shift_name, shift_type,
	employee_id, department_id, schedule_date,
	expected_work_start, expected_work_end, expected_rest_start, expected_rest_end,
	actual_clock_in, actual_clock_out, status, attendance,
	late_minutes, early_leave_minutes, overtime_minutes,
	leave_type, exchanged_with, exchange_ref,
	handover_json, tasks_json, alerts_json, priority, create_time, update_time`

// Save inserts or replaces a schedule instance.
func (s *Store) Save(ctx context.Context, sched engine.RotationSchedule) error {
	if err := sched.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	handoverJSON, err := marshalNullable(sched.Handover)
	if err != nil {
		return fmt.Errorf("failed to encode handover: %w", err)
	}
	tasksJSON, err := marshalNullable(sched.Tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	alertsJSON, err := marshalNullable(sched.Alerts)
	if err != nil {
		return fmt.Errorf("failed to encode alerts: %w", err)
	}

	query := `
		INSERT INTO schedules (` + scheduleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(schedule_id) DO UPDATE SET
			system_id = excluded.system_id,
			shift_id = excluded.shift_id,
			shift_name = excluded.shift_name,
			shift_type = excluded.shift_type,
			employee_id = excluded.employee_id,
			department_id = excluded.department_id,
			schedule_date = excluded.schedule_date,
			expected_work_start = excluded.expected_work_start,
			expected_work_end = excluded.expected_work_end,
			expected_rest_start = excluded.expected_rest_start,
			expected_rest_end = excluded.expected_rest_end,
			actual_clock_in = excluded.actual_clock_in,
			actual_clock_out = excluded.actual_clock_out,
			status = excluded.status,
			attendance = excluded.attendance,
			late_minutes = excluded.late_minutes,
			early_leave_minutes = excluded.early_leave_minutes,
			overtime_minutes = excluded.overtime_minutes,
			leave_type = excluded.leave_type,
			exchanged_with = excluded.exchanged_with,
			exchange_ref = excluded.exchange_ref,
			handover_json = excluded.handover_json,
			tasks_json = excluded.tasks_json,
			alerts_json = excluded.alerts_json,
			priority = excluded.priority,
			update_time = excluded.update_time
	`

	createTime := sched.CreateTime
	if createTime.IsZero() {
		createTime = time.Now().UTC()
	}
	updateTime := sched.UpdateTime
	if updateTime.IsZero() {
		updateTime = createTime
	}

	_, err = s.db.ExecContext(ctx, query,
		sched.ScheduleID,
		sched.RotationSystemID,
		sched.ShiftID,
		sched.ShiftName,
		sched.ShiftType,
		sched.EmployeeID,
		sched.DepartmentID,
		engine.DateOnly(sched.ScheduleDate).Format(dateLayout),
		formatTime(sched.ExpectedWorkStart),
		formatTime(sched.ExpectedWorkEnd),
		formatTimePtr(sched.ExpectedRestStart),
		formatTimePtr(sched.ExpectedRestEnd),
		formatTimePtr(sched.ActualClockIn),
		formatTimePtr(sched.ActualClockOut),
		sched.Status,
		sched.Attendance,
		sched.LateMinutes,
		sched.EarlyLeaveMinutes,
		sched.OvertimeMinutes,
		sched.LeaveType,
		sched.ExchangedWith,
		sched.ExchangeRef,
		handoverJSON,
		tasksJSON,
		alertsJSON,
		sched.Priority,
		createTime.Format(time.RFC3339),
		updateTime.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

// Get returns the instance by ID, or engine.ErrScheduleNotFound.
func (s *Store) Get(ctx context.Context, id engine.ScheduleID) (*engine.RotationSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+scheduleColumns+" FROM schedules WHERE schedule_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, engine.ErrScheduleNotFound
	}
	sched, err := scanSchedule(rows)
	if err != nil {
		return nil, err
	}
	return &sched, rows.Err()
}

// ListByEmployee returns instances for an employee with schedule dates in
// [from, to], ordered by date.
func (s *Store) ListByEmployee(ctx context.Context, emp engine.EmployeeID, from, to time.Time) ([]engine.RotationSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE employee_id = ? AND schedule_date >= ? AND schedule_date <= ?
		ORDER BY schedule_date ASC, expected_work_start ASC, schedule_id ASC
	`

	return s.querySchedules(ctx, query, emp,
		engine.DateOnly(from).Format(dateLayout),
		engine.DateOnly(to).Format(dateLayout))
}

// ListByDate returns all instances for one calendar date.
func (s *Store) ListByDate(ctx context.Context, date time.Time) ([]engine.RotationSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE schedule_date = ?
		ORDER BY expected_work_start ASC, schedule_id ASC
	`

	return s.querySchedules(ctx, query, engine.DateOnly(date).Format(dateLayout))
}

func (s *Store) querySchedules(ctx context.Context, query string, args ...any) ([]engine.RotationSchedule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []engine.RotationSchedule
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, sched)
	}
	return schedules, rows.Err()
}

func scanSchedule(rows *sql.Rows) (engine.RotationSchedule, error) {
	var (
		sched        engine.RotationSchedule
		scheduleDate string
		workStart    sql.NullString
		workEnd      sql.NullString
		restStart    sql.NullString
		restEnd      sql.NullString
		clockIn      sql.NullString
		clockOut     sql.NullString
		departmentID sql.NullString
		shiftName    sql.NullString
		leaveType    sql.NullString
		exchanged    sql.NullString
		exchangeRef  sql.NullString
		handoverJSON sql.NullString
		tasksJSON    sql.NullString
		alertsJSON   sql.NullString
		createTime   string
		updateTime   string
	)

	err := rows.Scan(
		&sched.ScheduleID, &sched.RotationSystemID, &sched.ShiftID, &shiftName, &sched.ShiftType,
		&sched.EmployeeID, &departmentID, &scheduleDate,
		&workStart, &workEnd, &restStart, &restEnd,
		&clockIn, &clockOut, &sched.Status, &sched.Attendance,
		&sched.LateMinutes, &sched.EarlyLeaveMinutes, &sched.OvertimeMinutes,
		&leaveType, &exchanged, &exchangeRef,
		&handoverJSON, &tasksJSON, &alertsJSON, &sched.Priority, &createTime, &updateTime,
	)
	if err != nil {
		return sched, fmt.Errorf("failed to scan schedule: %w", err)
	}

	sched.ShiftName = shiftName.String
	sched.DepartmentID = engine.DepartmentID(departmentID.String)
	sched.LeaveType = leaveType.String
	sched.ExchangedWith = engine.EmployeeID(exchanged.String)
	sched.ExchangeRef = exchangeRef.String

	sched.ScheduleDate, _ = time.ParseInLocation(dateLayout, scheduleDate, time.UTC)
	sched.ExpectedWorkStart = parseTime(workStart)
	sched.ExpectedWorkEnd = parseTime(workEnd)
	sched.ExpectedRestStart = parseTimePtr(restStart)
	sched.ExpectedRestEnd = parseTimePtr(restEnd)
	sched.ActualClockIn = parseTimePtr(clockIn)
	sched.ActualClockOut = parseTimePtr(clockOut)
	sched.CreateTime, _ = time.Parse(time.RFC3339, createTime)
	sched.UpdateTime, _ = time.Parse(time.RFC3339, updateTime)

	if handoverJSON.Valid && handoverJSON.String != "" {
		var h engine.HandoverInfo
		if err := json.Unmarshal([]byte(handoverJSON.String), &h); err != nil {
			return sched, fmt.Errorf("failed to decode handover: %w", err)
		}
		sched.Handover = &h
	}
	if tasksJSON.Valid && tasksJSON.String != "" {
		if err := json.Unmarshal([]byte(tasksJSON.String), &sched.Tasks); err != nil {
			return sched, fmt.Errorf("failed to decode tasks: %w", err)
		}
	}
	if alertsJSON.Valid && alertsJSON.String != "" {
		if err := json.Unmarshal([]byte(alertsJSON.String), &sched.Alerts); err != nil {
			return sched, fmt.Errorf("failed to decode alerts: %w", err)
		}
	}

	return sched, nil
}

// =============================================================================
// CATALOG STORE (engine.CatalogStore interface)
// =============================================================================

// SaveConfig inserts or replaces a rotation system config.
func (s *Store) SaveConfig(ctx context.Context, config engine.RotationSystemConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	configJSON, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	query := `
		INSERT INTO configs (system_id, name, system_type, status, priority, config_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(system_id) DO UPDATE SET
			name = excluded.name,
			system_type = excluded.system_type,
			status = excluded.status,
			priority = excluded.priority,
			config_json = excluded.config_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, query,
		config.SystemID, config.Name, config.Type, config.Status,
		config.Priority, string(configJSON), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// GetConfig returns the config by ID, or engine.ErrConfigNotFound.
func (s *Store) GetConfig(ctx context.Context, id engine.SystemID) (*engine.RotationSystemConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var configJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT config_json FROM configs WHERE system_id = ?", id,
	).Scan(&configJSON)

	if err == sql.ErrNoRows {
		return nil, engine.ErrConfigNotFound
	}
	if err != nil {
		return nil, err
	}

	var config engine.RotationSystemConfig
	if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &config, nil
}

// ListConfigs returns every stored config ordered by system ID.
func (s *Store) ListConfigs(ctx context.Context) ([]engine.RotationSystemConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT config_json FROM configs ORDER BY system_id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []engine.RotationSystemConfig
	for rows.Next() {
		var configJSON string
		if err := rows.Scan(&configJSON); err != nil {
			return nil, err
		}
		var config engine.RotationSystemConfig
		if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
		configs = append(configs, config)
	}
	return configs, rows.Err()
}

// =============================================================================
// LEAVE RECORDS (engine.LeaveChecker interface)
// =============================================================================

// LeaveRecord is one approved leave day.
type LeaveRecord struct {
	ID         string
	EmployeeID engine.EmployeeID
	Date       time.Time
	LeaveType  string
	ApprovedBy string
}

// SaveLeave records an approved leave day. Saving the same employee-day
// again updates the type and approver.
func (s *Store) SaveLeave(ctx context.Context, rec LeaveRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO leave_records (id, employee_id, leave_date, leave_type, approved_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, leave_date) DO UPDATE SET
			leave_type = excluded.leave_type,
			approved_by = excluded.approved_by
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.EmployeeID,
		engine.DateOnly(rec.Date).Format(dateLayout),
		rec.LeaveType, rec.ApprovedBy,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// IsOnApprovedLeave reports whether the employee has an approved leave
// record on the date.
func (s *Store) IsOnApprovedLeave(ctx context.Context, emp engine.EmployeeID, date time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM leave_records WHERE employee_id = ? AND leave_date = ?",
		emp, engine.DateOnly(date).Format(dateLayout),
	).Scan(&count)
	return count > 0, err
}

// =============================================================================
// PUNCH EVENTS (engine.PunchSource interface)
// =============================================================================

// RecordPunches stores punch events under the given BUSINESS date. For an
// overnight shift the clock-out happens on the next calendar day but belongs
// to the schedule's date; the ingestion layer passes that date here.
func (s *Store) RecordPunches(ctx context.Context, businessDate time.Time, events ...engine.PunchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO punches (employee_id, business_date, punched_at, direction, latitude, longitude, method, photo_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	day := engine.DateOnly(businessDate).Format(dateLayout)
	for _, e := range events {
		var lat, lon any
		if e.Location != nil {
			lat, lon = e.Location.Latitude, e.Location.Longitude
		}
		if _, err := tx.ExecContext(ctx, query,
			e.EmployeeID, day, e.At.Format(time.RFC3339),
			e.Direction, lat, lon, e.Method, e.PhotoRef,
		); err != nil {
			return fmt.Errorf("failed to record punch: %w", err)
		}
	}
	return tx.Commit()
}

// PunchesFor returns the punch events filed under an employee's business
// date, ordered by punch time.
func (s *Store) PunchesFor(ctx context.Context, emp engine.EmployeeID, date time.Time) ([]engine.PunchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT employee_id, punched_at, direction, latitude, longitude, method, photo_ref
		FROM punches
		WHERE employee_id = ? AND business_date = ?
		ORDER BY punched_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, emp, engine.DateOnly(date).Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []engine.PunchEvent
	for rows.Next() {
		var (
			e         engine.PunchEvent
			punchedAt string
			lat, lon  sql.NullFloat64
			method    sql.NullString
			photoRef  sql.NullString
		)
		if err := rows.Scan(&e.EmployeeID, &punchedAt, &e.Direction, &lat, &lon, &method, &photoRef); err != nil {
			return nil, err
		}
		e.At, _ = time.Parse(time.RFC3339, punchedAt)
		if lat.Valid && lon.Valid {
			e.Location = &engine.Coordinate{Latitude: lat.Float64, Longitude: lon.Float64}
		}
		e.Method = method.String
		e.PhotoRef = photoRef.String
		events = append(events, e)
	}
	return events, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"schedules", "configs", "leave_records", "punches"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func marshalNullable(v any) (sql.NullString, error) {
	switch val := v.(type) {
	case *engine.HandoverInfo:
		if val == nil {
			return sql.NullString{}, nil
		}
	case []engine.WorkTask:
		if len(val) == 0 {
			return sql.NullString{}, nil
		}
	case []engine.AlertInfo:
		if len(val) == 0 {
			return sql.NullString{}, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func formatTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func formatTimePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return formatTime(*t)
}

func parseTime(ns sql.NullString) time.Time {
	if !ns.Valid || ns.String == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, ns.String)
	return t
}

func parseTimePtr(ns sql.NullString) *time.Time {
	t := parseTime(ns)
	if t.IsZero() {
		return nil
	}
	return &t
}
