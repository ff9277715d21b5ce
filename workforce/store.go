package workforce

import (
	"context"

	"github.com/warp/shift-engine/calendar"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// EmployeeFilter narrows ListEmployees. Zero value lists everybody.
type EmployeeFilter struct {
	// ManagerID matches either the manager or the co-manager pointer.
	ManagerID    EmployeeID
	DepartmentID DepartmentID
}

// Matches applies the filter to one employee.
func (f EmployeeFilter) Matches(e Employee) bool {
	if f.ManagerID != "" && !e.ReportsTo(f.ManagerID) {
		return false
	}
	if f.DepartmentID != "" && e.DepartmentID != f.DepartmentID {
		return false
	}
	return true
}

// Directory is the read side: the engine only ever reads these records.
type Directory interface {
	// GetEmployee returns ErrEmployeeNotFound when the id is unknown.
	GetEmployee(ctx context.Context, id EmployeeID) (Employee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error)

	ListBanchine(ctx context.Context) ([]Banchina, error)

	// ListRequirements returns requirements in catalog order.
	ListRequirements(ctx context.Context) ([]Requirement, error)

	// ListLeaves returns leave requests overlapping [from, to], any status.
	ListLeaves(ctx context.Context, from, to calendar.Date) ([]LeaveRequest, error)
}

// AssignmentSink accepts one assignment at a time.
// Saving an existing (employee, date) key replaces the stored assignment.
type AssignmentSink interface {
	SaveAssignment(ctx context.Context, a ShiftAssignment) (ShiftAssignment, error)
}

// AssignmentStore adds the lookups needed to edit existing assignments.
// No delete: removal belongs to other collaborators.
type AssignmentStore interface {
	AssignmentSink

	// GetAssignment returns (nil, nil) when nothing is stored for the key.
	GetAssignment(ctx context.Context, employeeID EmployeeID, day calendar.Date) (*ShiftAssignment, error)

	ListAssignments(ctx context.Context, employeeID EmployeeID, from, to calendar.Date) ([]ShiftAssignment, error)
}
