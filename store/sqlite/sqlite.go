/*
Package sqlite provides a SQLite-backed implementation of the engine's
collaborator interfaces.

INTERFACES IMPLEMENTED:
  workforce.Directory:       employees, stations, requirements, leave
  workforce.AssignmentStore: shift assignments

KEY TABLES:
  employees:         roster, read-only to the engine
  banchine:          stations (work stations / docks)
  requirements:      station -> role, `position` keeps catalog order
  leave_requests:    inclusive date ranges with status
  shift_assignments: one row per (employee_id, work_date)

REPLACE SEMANTICS:
  idx_assignments_employee_day is UNIQUE, and SaveAssignment is an upsert
  on it, so a second assignment for the same employee and day replaces the
  first and keeps its id.

DATES:
  Stored as TEXT "YYYY-MM-DD". Parsing goes through calendar.ParseDate so
  no timezone conversion ever shifts a day.

USAGE:
  store, err := sqlite.New("./data/shifts.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - workforce/store.go: interface definitions
  - store/memory/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/shift-engine/calendar"
	"github.com/warp/shift-engine/workforce"
)

// Store implements the directory and assignment store on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ workforce.Directory       = (*Store)(nil)
	_ workforce.AssignmentStore = (*Store)(nil)
)

// New opens (and migrates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		department_id TEXT,
		department_name TEXT,
		manager_id TEXT,
		co_manager_id TEXT,
		default_banchina_id TEXT,
		current_role TEXT,
		secondary_role TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_manager ON employees(manager_id);
	CREATE INDEX IF NOT EXISTS idx_employees_co_manager ON employees(co_manager_id);

	CREATE TABLE IF NOT EXISTS banchine (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		name TEXT
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_banchine_code ON banchine(code COLLATE NOCASE);

	CREATE TABLE IF NOT EXISTS requirements (
		id TEXT PRIMARY KEY,
		banchina_id TEXT NOT NULL REFERENCES banchine(id),
		role_name TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_requirements_banchina ON requirements(banchina_id, position);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL,
		leave_type TEXT,
		CHECK (start_date <= end_date)
	);

	CREATE INDEX IF NOT EXISTS idx_leave_employee_range ON leave_requests(employee_id, start_date, end_date);

	CREATE TABLE IF NOT EXISTS shift_assignments (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		work_date TEXT NOT NULL,
		shift_type TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		requirement_id TEXT,
		notes TEXT,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_employee_day
		ON shift_assignments(employee_id, work_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset deletes every row. Dev and tests only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"shift_assignments", "leave_requests", "requirements", "banchine", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, e workforce.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, first_name, last_name, department_id, department_name,
			manager_id, co_manager_id, default_banchina_id, current_role, secondary_role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			department_id = excluded.department_id,
			department_name = excluded.department_name,
			manager_id = excluded.manager_id,
			co_manager_id = excluded.co_manager_id,
			default_banchina_id = excluded.default_banchina_id,
			current_role = excluded.current_role,
			secondary_role = excluded.secondary_role
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.FirstName, e.LastName,
		nullString(string(e.DepartmentID)), nullString(e.DepartmentName),
		nullString(string(e.ManagerID)), nullString(string(e.CoManagerID)),
		nullString(string(e.DefaultBanchinaID)),
		nullString(e.CurrentRole), nullString(e.SecondaryRole),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

const employeeColumns = `id, first_name, last_name, department_id, department_name,
	manager_id, co_manager_id, default_banchina_id, current_role, secondary_role`

func (s *Store) GetEmployee(ctx context.Context, id workforce.EmployeeID) (workforce.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)
	if err != nil {
		return workforce.Employee{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return workforce.Employee{}, err
		}
		return workforce.Employee{}, fmt.Errorf("%w: %s", workforce.ErrEmployeeNotFound, id)
	}
	return scanEmployee(rows)
}

func (s *Store) ListEmployees(ctx context.Context, filter workforce.EmployeeFilter) ([]workforce.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.ManagerID != "" {
		where = append(where, "(manager_id = ? OR co_manager_id = ?)")
		args = append(args, filter.ManagerID, filter.ManagerID)
	}
	if filter.DepartmentID != "" {
		where = append(where, "department_id = ?")
		args = append(args, filter.DepartmentID)
	}
	query := "SELECT " + employeeColumns + " FROM employees"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY last_name, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workforce.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEmployee(rows *sql.Rows) (workforce.Employee, error) {
	var (
		e                                        workforce.Employee
		deptID, deptName, manager, coManager     sql.NullString
		defaultBanchina, currentRole, secondRole sql.NullString
	)
	if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &deptID, &deptName,
		&manager, &coManager, &defaultBanchina, &currentRole, &secondRole); err != nil {
		return workforce.Employee{}, err
	}
	e.DepartmentID = workforce.DepartmentID(deptID.String)
	e.DepartmentName = deptName.String
	e.ManagerID = workforce.EmployeeID(manager.String)
	e.CoManagerID = workforce.EmployeeID(coManager.String)
	e.DefaultBanchinaID = workforce.BanchinaID(defaultBanchina.String)
	e.CurrentRole = currentRole.String
	e.SecondaryRole = secondRole.String
	return e, nil
}

// =============================================================================
// STATIONS AND REQUIREMENTS
// =============================================================================

func (s *Store) SaveBanchina(ctx context.Context, b workforce.Banchina) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO banchine (id, code, name) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET code = excluded.code, name = excluded.name
	`, b.ID, b.Code, nullString(b.Name))
	return err
}

func (s *Store) ListBanchine(ctx context.Context) ([]workforce.Banchina, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, code, name FROM banchine ORDER BY code")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workforce.Banchina
	for rows.Next() {
		var b workforce.Banchina
		var name sql.NullString
		if err := rows.Scan(&b.ID, &b.Code, &name); err != nil {
			return nil, err
		}
		b.Name = name.String
		out = append(out, b)
	}
	return out, rows.Err()
}

// SaveRequirement appends r at the end of its station's catalog order,
// or updates it in place when it already exists.
func (s *Store) SaveRequirement(ctx context.Context, r workforce.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requirements (id, banchina_id, role_name, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM requirements))
		ON CONFLICT(id) DO UPDATE SET
			banchina_id = excluded.banchina_id,
			role_name = excluded.role_name
	`, r.ID, r.BanchinaID, r.RoleName)
	return err
}

func (s *Store) ListRequirements(ctx context.Context) ([]workforce.Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, banchina_id, role_name FROM requirements ORDER BY position, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workforce.Requirement
	for rows.Next() {
		var r workforce.Requirement
		if err := rows.Scan(&r.ID, &r.BanchinaID, &r.RoleName); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// LEAVE
// =============================================================================

func (s *Store) SaveLeave(ctx context.Context, l workforce.LeaveRequest) error {
	if !l.HasDates() {
		return fmt.Errorf("leave %s: start_date and end_date are required", l.ID)
	}
	if !l.Valid() {
		return fmt.Errorf("leave %s: start %s after end %s", l.ID, l.StartDate, l.EndDate)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_requests (id, employee_id, start_date, end_date, status, leave_type)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status,
			leave_type = excluded.leave_type
	`, l.ID, l.EmployeeID, l.StartDate.String(), l.EndDate.String(), string(l.Status), nullString(l.LeaveType))
	return err
}

// ListLeaves returns requests overlapping [from, to]. ISO dates compare
// correctly as text.
func (s *Store) ListLeaves(ctx context.Context, from, to calendar.Date) ([]workforce.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, start_date, end_date, status, leave_type
		FROM leave_requests
		WHERE start_date <= ? AND end_date >= ?
		ORDER BY start_date, id
	`, to.String(), from.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workforce.LeaveRequest
	for rows.Next() {
		var (
			l          workforce.LeaveRequest
			start, end string
			status     string
			leaveType  sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.EmployeeID, &start, &end, &status, &leaveType); err != nil {
			return nil, err
		}
		if l.StartDate, err = calendar.ParseDate(start); err != nil {
			return nil, fmt.Errorf("leave %s: %w", l.ID, err)
		}
		if l.EndDate, err = calendar.ParseDate(end); err != nil {
			return nil, fmt.Errorf("leave %s: %w", l.ID, err)
		}
		l.Status = workforce.LeaveStatus(status)
		l.LeaveType = leaveType.String
		out = append(out, l)
	}
	return out, rows.Err()
}

// =============================================================================
// SHIFT ASSIGNMENTS
// =============================================================================

// SaveAssignment upserts on (employee_id, work_date). The stored row, with
// its id, is returned.
func (s *Store) SaveAssignment(ctx context.Context, a workforce.ShiftAssignment) (workforce.ShiftAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shift_assignments (id, employee_id, work_date, shift_type, start_time, end_time,
			requirement_id, notes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, work_date) DO UPDATE SET
			shift_type = excluded.shift_type,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			requirement_id = excluded.requirement_id,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`,
		a.ID, a.EmployeeID, a.WorkDate.String(), string(a.ShiftType),
		clockString(a.StartTime), clockString(a.EndTime),
		nullString(string(a.RequirementID)), nullString(a.Notes),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return workforce.ShiftAssignment{}, err
	}

	var id string
	err = s.db.QueryRowContext(ctx,
		"SELECT id FROM shift_assignments WHERE employee_id = ? AND work_date = ?",
		a.EmployeeID, a.WorkDate.String(),
	).Scan(&id)
	if err != nil {
		return workforce.ShiftAssignment{}, err
	}
	a.ID = id
	return a, nil
}

const assignmentColumns = `id, employee_id, work_date, shift_type, start_time, end_time, requirement_id, notes`

func (s *Store) GetAssignment(ctx context.Context, employeeID workforce.EmployeeID, day calendar.Date) (*workforce.ShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+assignmentColumns+" FROM shift_assignments WHERE employee_id = ? AND work_date = ?",
		employeeID, day.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	a, err := scanAssignment(rows)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListAssignments(ctx context.Context, employeeID workforce.EmployeeID, from, to calendar.Date) ([]workforce.ShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+assignmentColumns+` FROM shift_assignments
		WHERE employee_id = ? AND work_date BETWEEN ? AND ?
		ORDER BY work_date`,
		employeeID, from.String(), to.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workforce.ShiftAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAssignment(rows *sql.Rows) (workforce.ShiftAssignment, error) {
	var (
		a                      workforce.ShiftAssignment
		workDate, shiftType    string
		start, end, req, notes sql.NullString
	)
	if err := rows.Scan(&a.ID, &a.EmployeeID, &workDate, &shiftType, &start, &end, &req, &notes); err != nil {
		return a, err
	}
	day, err := calendar.ParseDate(workDate)
	if err != nil {
		return a, fmt.Errorf("assignment %s: %w", a.ID, err)
	}
	a.WorkDate = day
	a.ShiftType = workforce.ShiftType(shiftType)
	a.RequirementID = workforce.RequirementID(req.String)
	a.Notes = notes.String
	if a.StartTime, err = parseClock(start); err != nil {
		return a, fmt.Errorf("assignment %s: %w", a.ID, err)
	}
	if a.EndTime, err = parseClock(end); err != nil {
		return a, fmt.Errorf("assignment %s: %w", a.ID, err)
	}
	return a, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func clockString(c *workforce.ClockTime) sql.NullString {
	if c == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: c.String(), Valid: true}
}

func parseClock(ns sql.NullString) (*workforce.ClockTime, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	c, err := workforce.ParseClockTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// IsUniqueConstraintError reports SQLite unique index violations.
func IsUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsNotFound reports whether err is a missing-record error from this store.
func IsNotFound(err error) bool {
	return errors.Is(err, workforce.ErrEmployeeNotFound)
}
