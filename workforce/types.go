/*
Package workforce holds the records exchanged between the shift engine and
its collaborators.

PURPOSE:
  The engine reads employees, leave requests, stations (banchine) and
  station requirements from an external directory, and emits shift
  assignments to an external store. This package defines those records,
  the error taxonomy shared by every engine package, and the collaborator
  interfaces (store.go).

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee:        read-only roster entry with default station and role labels
  - LeaveRequest:    inclusive date range with an approval status
  - Banchina:        a physical work station or dock
  - Requirement:     "this station needs this role"
  - ShiftAssignment: one employee on one day, unique per (employee, date)

SEE ALSO:
  - errors.go: validation, resolution, conflict and persistence errors
  - store.go:  Directory and AssignmentStore interfaces
*/
package workforce

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/shift-engine/calendar"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type BanchinaID string
type RequirementID string
type DepartmentID string

// =============================================================================
// EMPLOYEE
// =============================================================================

type Employee struct {
	ID             EmployeeID
	FirstName      string
	LastName       string
	DepartmentID   DepartmentID
	DepartmentName string

	// Reporting-line pointers, used for filtering only.
	ManagerID   EmployeeID
	CoManagerID EmployeeID

	DefaultBanchinaID BanchinaID // empty = no default station

	// Free-text role labels.
	CurrentRole   string
	SecondaryRole string
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// RoleLabels returns the non-empty role labels, primary first.
func (e Employee) RoleLabels() []string {
	var labels []string
	for _, l := range []string{e.CurrentRole, e.SecondaryRole} {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}

// ReportsTo reports whether managerID is the employee's manager or co-manager.
func (e Employee) ReportsTo(managerID EmployeeID) bool {
	return managerID != "" && (e.ManagerID == managerID || e.CoManagerID == managerID)
}

// =============================================================================
// LEAVE REQUEST
// =============================================================================

type LeaveStatus string

const (
	LeavePending   LeaveStatus = "pending"
	LeaveApproved  LeaveStatus = "approved"
	LeaveRejected  LeaveStatus = "rejected"
	LeaveCancelled LeaveStatus = "cancelled"
)

type LeaveRequest struct {
	ID         string
	EmployeeID EmployeeID
	StartDate  calendar.Date // inclusive
	EndDate    calendar.Date // inclusive
	Status     LeaveStatus
	LeaveType  string
}

func (l LeaveRequest) Period() calendar.Period {
	return calendar.Period{Start: l.StartDate, End: l.EndDate}
}

// HasDates reports whether both ends of the range are set.
func (l LeaveRequest) HasDates() bool { return !l.StartDate.IsZero() && !l.EndDate.IsZero() }

// Valid reports whether both dates are set and StartDate <= EndDate.
func (l LeaveRequest) Valid() bool { return l.HasDates() && l.Period().Valid() }

func (l LeaveRequest) IsApproved() bool { return l.Status == LeaveApproved }

// Covers reports whether d falls inside the request range.
func (l LeaveRequest) Covers(d calendar.Date) bool { return l.Period().Contains(d) }

// =============================================================================
// STATIONS AND REQUIREMENTS
// =============================================================================

// FallbackStationCode is the well-known yard used when an employee has no default station.
const FallbackStationCode = "CORTILE"

// Banchina is a work station or dock.
type Banchina struct {
	ID   BanchinaID
	Code string
	Name string
}

// DisplayName prefers the name, falling back to the code.
func (b Banchina) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return b.Code
}

// Requirement states that a station needs a role. Role names are free text.
type Requirement struct {
	ID         RequirementID
	BanchinaID BanchinaID
	RoleName   string
}

// =============================================================================
// SHIFT ASSIGNMENT
// =============================================================================

type ShiftType string

const (
	ShiftMorning   ShiftType = "morning"
	ShiftAfternoon ShiftType = "afternoon"
	ShiftNight     ShiftType = "night"
	ShiftManual    ShiftType = "manual"
	ShiftOff       ShiftType = "off"
)

var shiftTypes = map[ShiftType]bool{
	ShiftMorning: true, ShiftAfternoon: true, ShiftNight: true, ShiftManual: true, ShiftOff: true,
}

func (s ShiftType) Valid() bool { return shiftTypes[s] }

// ParseShiftType is case-insensitive.
func ParseShiftType(s string) (ShiftType, bool) {
	st := ShiftType(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

// StandardTimes returns the fixed start/end of a standard shift.
// Manual and off shifts have none.
func (s ShiftType) StandardTimes() (start, end ClockTime, ok bool) {
	switch s {
	case ShiftMorning:
		return ClockTime{Hour: 6}, ClockTime{Hour: 14}, true
	case ShiftAfternoon:
		return ClockTime{Hour: 14}, ClockTime{Hour: 22}, true
	case ShiftNight:
		return ClockTime{Hour: 22}, ClockTime{Hour: 6}, true
	default:
		return ClockTime{}, ClockTime{}, false
	}
}

// ShiftAssignment binds an employee to a requirement on one day.
// At most one exists per (EmployeeID, WorkDate); saving a second one replaces the first.
type ShiftAssignment struct {
	ID         string
	EmployeeID EmployeeID
	WorkDate   calendar.Date
	ShiftType  ShiftType

	// Only set when ShiftType == ShiftManual.
	StartTime *ClockTime
	EndTime   *ClockTime

	// Empty only when ShiftType == ShiftOff.
	RequirementID RequirementID

	Notes string
}

// Key is the uniqueness key of an assignment.
func (a ShiftAssignment) Key() AssignmentKey {
	return AssignmentKey{EmployeeID: a.EmployeeID, WorkDate: a.WorkDate}
}

type AssignmentKey struct {
	EmployeeID EmployeeID
	WorkDate   calendar.Date
}

// Hours returns the scheduled duration. Night shifts cross midnight.
func (a ShiftAssignment) Hours() decimal.Decimal {
	switch a.ShiftType {
	case ShiftOff:
		return decimal.Zero
	case ShiftManual:
		if a.StartTime == nil || a.EndTime == nil {
			return decimal.Zero
		}
		return minutesToHours(a.EndTime.Minutes() - a.StartTime.Minutes())
	}
	start, end, ok := a.ShiftType.StandardTimes()
	if !ok {
		return decimal.Zero
	}
	minutes := end.Minutes() - start.Minutes()
	if minutes <= 0 {
		minutes += 24 * 60
	}
	return minutesToHours(minutes)
}

func minutesToHours(m int) decimal.Decimal {
	return decimal.NewFromInt(int64(m)).Div(decimal.NewFromInt(60))
}
