// Package memory provides in-memory Directory and AssignmentStore
// implementations (for testing/dev).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/warp/shift-engine/calendar"
	"github.com/warp/shift-engine/workforce"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	employees    map[workforce.EmployeeID]workforce.Employee
	stations     []workforce.Banchina
	requirements []workforce.Requirement
	leaves       []workforce.LeaveRequest
	assignments  map[workforce.AssignmentKey]workforce.ShiftAssignment

	// FailOn makes SaveAssignment fail for matching keys. Test hook.
	FailOn func(workforce.ShiftAssignment) error
}

var (
	_ workforce.Directory       = (*Memory)(nil)
	_ workforce.AssignmentStore = (*Memory)(nil)
)

func New() *Memory {
	return &Memory{
		employees:   make(map[workforce.EmployeeID]workforce.Employee),
		assignments: make(map[workforce.AssignmentKey]workforce.ShiftAssignment),
	}
}

// =============================================================================
// SEEDING
// =============================================================================

func (m *Memory) PutEmployee(e workforce.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
}

func (m *Memory) PutBanchina(b workforce.Banchina) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stations = append(m.stations, b)
}

func (m *Memory) PutRequirement(r workforce.Requirement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requirements = append(m.requirements, r)
}

func (m *Memory) PutLeave(l workforce.LeaveRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves = append(m.leaves, l)
}

// Save* mirror the SQLite store so fixtures can seed either one.

func (m *Memory) SaveEmployee(_ context.Context, e workforce.Employee) error {
	m.PutEmployee(e)
	return nil
}

func (m *Memory) SaveBanchina(_ context.Context, b workforce.Banchina) error {
	m.PutBanchina(b)
	return nil
}

func (m *Memory) SaveRequirement(_ context.Context, r workforce.Requirement) error {
	m.PutRequirement(r)
	return nil
}

func (m *Memory) SaveLeave(_ context.Context, l workforce.LeaveRequest) error {
	if !l.Valid() {
		return fmt.Errorf("leave %s: invalid range %s..%s", l.ID, l.StartDate, l.EndDate)
	}
	m.PutLeave(l)
	return nil
}

// =============================================================================
// DIRECTORY
// =============================================================================

func (m *Memory) GetEmployee(_ context.Context, id workforce.EmployeeID) (workforce.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return workforce.Employee{}, workforce.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *Memory) ListEmployees(_ context.Context, filter workforce.EmployeeFilter) ([]workforce.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []workforce.Employee
	for _, e := range m.employees {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) ListBanchine(_ context.Context) ([]workforce.Banchina, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]workforce.Banchina(nil), m.stations...), nil
}

func (m *Memory) ListRequirements(_ context.Context) ([]workforce.Requirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]workforce.Requirement(nil), m.requirements...), nil
}

func (m *Memory) ListLeaves(_ context.Context, from, to calendar.Date) ([]workforce.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	window := calendar.Period{Start: from, End: to}
	var out []workforce.LeaveRequest
	for _, l := range m.leaves {
		if _, ok := l.Period().Intersect(window); ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// =============================================================================
// ASSIGNMENTS - one per (employee, date), last write wins
// =============================================================================

func (m *Memory) SaveAssignment(_ context.Context, a workforce.ShiftAssignment) (workforce.ShiftAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailOn != nil {
		if err := m.FailOn(a); err != nil {
			return workforce.ShiftAssignment{}, err
		}
	}
	if prev, ok := m.assignments[a.Key()]; ok {
		a.ID = prev.ID
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	m.assignments[a.Key()] = a
	return a, nil
}

func (m *Memory) GetAssignment(_ context.Context, employeeID workforce.EmployeeID, day calendar.Date) (*workforce.ShiftAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[workforce.AssignmentKey{EmployeeID: employeeID, WorkDate: day}]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *Memory) ListAssignments(_ context.Context, employeeID workforce.EmployeeID, from, to calendar.Date) ([]workforce.ShiftAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	window := calendar.Period{Start: from, End: to}
	var out []workforce.ShiftAssignment
	for k, a := range m.assignments {
		if k.EmployeeID == employeeID && window.Contains(k.WorkDate) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkDate.Before(out[j].WorkDate) })
	return out, nil
}

// Count returns the number of stored assignments.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.assignments)
}
