/*
Package factory converts JSON roster fixtures into workforce records.

PURPOSE:
  Seeds a store (SQLite or memory) with employees, stations, station
  requirements and leave requests from a single JSON document. Used by the
  `seed` command and by tests that need a realistic roster.

JSON SCHEMA:
  {
    "banchine": [{"id": "b1", "code": "B01", "name": "Banchina 1"}],
    "requirements": [{"id": "r1", "banchina_id": "b1", "role_name": "Carrellista"}],
    "employees": [{
      "id": "e1", "first_name": "Mario", "last_name": "Rossi",
      "manager_id": "m1", "default_banchina_id": "b1",
      "current_role": "Carrellista", "secondary_role": "Operatore"
    }],
    "leaves": [{
      "employee_id": "e1", "start_date": "2024-06-10", "end_date": "2024-06-14",
      "status": "approved", "leave_type": "ferie"
    }]
  }

KEY FEATURES:
  - Requirement order in the document is catalog order
  - Missing leave status defaults to approved
  - Cross-references are checked (requirement -> banchina, leave -> employee)

USAGE:
  f := factory.NewRosterFactory()
  roster, err := f.ParseRoster(jsonString)
  err = roster.Apply(ctx, store)

SEE ALSO:
  - workforce/types.go: record definitions
  - store/sqlite/sqlite.go: main RosterWriter implementation
*/
package factory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/warp/shift-engine/calendar"
	"github.com/warp/shift-engine/workforce"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type RosterJSON struct {
	Banchine     []BanchinaJSON    `json:"banchine"`
	Requirements []RequirementJSON `json:"requirements"`
	Employees    []EmployeeJSON    `json:"employees"`
	Leaves       []LeaveJSON       `json:"leaves,omitempty"`
}

type BanchinaJSON struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

type RequirementJSON struct {
	ID         string `json:"id"`
	BanchinaID string `json:"banchina_id"`
	RoleName   string `json:"role_name"`
}

type EmployeeJSON struct {
	ID                string `json:"id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	DepartmentID      string `json:"department_id,omitempty"`
	DepartmentName    string `json:"department_name,omitempty"`
	ManagerID         string `json:"manager_id,omitempty"`
	CoManagerID       string `json:"co_manager_id,omitempty"`
	DefaultBanchinaID string `json:"default_banchina_id,omitempty"`
	CurrentRole       string `json:"current_role,omitempty"`
	SecondaryRole     string `json:"secondary_role,omitempty"`
}

type LeaveJSON struct {
	ID         string        `json:"id,omitempty"`
	EmployeeID string        `json:"employee_id"`
	StartDate  calendar.Date `json:"start_date"`
	EndDate    calendar.Date `json:"end_date"`
	Status     string        `json:"status,omitempty"` // default approved
	LeaveType  string        `json:"leave_type,omitempty"`
}

// =============================================================================
// ROSTER
// =============================================================================

// Roster is a parsed, cross-checked fixture.
type Roster struct {
	Banchine     []workforce.Banchina
	Requirements []workforce.Requirement
	Employees    []workforce.Employee
	Leaves       []workforce.LeaveRequest
}

// RosterWriter is implemented by the stores.
type RosterWriter interface {
	SaveBanchina(ctx context.Context, b workforce.Banchina) error
	SaveRequirement(ctx context.Context, r workforce.Requirement) error
	SaveEmployee(ctx context.Context, e workforce.Employee) error
	SaveLeave(ctx context.Context, l workforce.LeaveRequest) error
}

// Apply writes the roster in dependency order: stations, requirements,
// employees, leave.
func (r *Roster) Apply(ctx context.Context, w RosterWriter) error {
	for _, b := range r.Banchine {
		if err := w.SaveBanchina(ctx, b); err != nil {
			return fmt.Errorf("banchina %s: %w", b.ID, err)
		}
	}
	for _, req := range r.Requirements {
		if err := w.SaveRequirement(ctx, req); err != nil {
			return fmt.Errorf("requirement %s: %w", req.ID, err)
		}
	}
	for _, e := range r.Employees {
		if err := w.SaveEmployee(ctx, e); err != nil {
			return fmt.Errorf("employee %s: %w", e.ID, err)
		}
	}
	for _, l := range r.Leaves {
		if err := w.SaveLeave(ctx, l); err != nil {
			return fmt.Errorf("leave %s: %w", l.ID, err)
		}
	}
	return nil
}

// =============================================================================
// ROSTER FACTORY
// =============================================================================

type RosterFactory struct{}

func NewRosterFactory() *RosterFactory {
	return &RosterFactory{}
}

// ParseRoster parses and checks a JSON roster document.
func (f *RosterFactory) ParseRoster(jsonStr string) (*Roster, error) {
	var rj RosterJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return nil, fmt.Errorf("failed to parse roster JSON: %w", err)
	}
	return f.FromJSON(rj)
}

// FromJSON converts RosterJSON to workforce records.
func (f *RosterFactory) FromJSON(rj RosterJSON) (*Roster, error) {
	roster := &Roster{}

	stations := make(map[string]bool, len(rj.Banchine))
	for _, bj := range rj.Banchine {
		if bj.ID == "" || bj.Code == "" {
			return nil, fmt.Errorf("banchina requires id and code: %+v", bj)
		}
		stations[bj.ID] = true
		roster.Banchine = append(roster.Banchine, workforce.Banchina{
			ID:   workforce.BanchinaID(bj.ID),
			Code: strings.TrimSpace(bj.Code),
			Name: bj.Name,
		})
	}

	for _, reqj := range rj.Requirements {
		if reqj.ID == "" || strings.TrimSpace(reqj.RoleName) == "" {
			return nil, fmt.Errorf("requirement requires id and role_name: %+v", reqj)
		}
		if !stations[reqj.BanchinaID] {
			return nil, fmt.Errorf("requirement %s: unknown banchina %q", reqj.ID, reqj.BanchinaID)
		}
		roster.Requirements = append(roster.Requirements, workforce.Requirement{
			ID:         workforce.RequirementID(reqj.ID),
			BanchinaID: workforce.BanchinaID(reqj.BanchinaID),
			RoleName:   reqj.RoleName,
		})
	}

	employees := make(map[string]bool, len(rj.Employees))
	for _, ej := range rj.Employees {
		if ej.ID == "" {
			return nil, fmt.Errorf("employee requires id: %+v", ej)
		}
		if ej.DefaultBanchinaID != "" && !stations[ej.DefaultBanchinaID] {
			return nil, fmt.Errorf("employee %s: unknown default banchina %q", ej.ID, ej.DefaultBanchinaID)
		}
		employees[ej.ID] = true
		roster.Employees = append(roster.Employees, workforce.Employee{
			ID:                workforce.EmployeeID(ej.ID),
			FirstName:         ej.FirstName,
			LastName:          ej.LastName,
			DepartmentID:      workforce.DepartmentID(ej.DepartmentID),
			DepartmentName:    ej.DepartmentName,
			ManagerID:         workforce.EmployeeID(ej.ManagerID),
			CoManagerID:       workforce.EmployeeID(ej.CoManagerID),
			DefaultBanchinaID: workforce.BanchinaID(ej.DefaultBanchinaID),
			CurrentRole:       ej.CurrentRole,
			SecondaryRole:     ej.SecondaryRole,
		})
	}

	for _, lj := range rj.Leaves {
		if !employees[lj.EmployeeID] {
			return nil, fmt.Errorf("leave for unknown employee %q", lj.EmployeeID)
		}
		status, err := parseLeaveStatus(lj.Status)
		if err != nil {
			return nil, err
		}
		id := lj.ID
		if id == "" {
			id = uuid.NewString()
		}
		l := workforce.LeaveRequest{
			ID:         id,
			EmployeeID: workforce.EmployeeID(lj.EmployeeID),
			StartDate:  lj.StartDate,
			EndDate:    lj.EndDate,
			Status:     status,
			LeaveType:  lj.LeaveType,
		}
		if !l.HasDates() {
			return nil, fmt.Errorf("leave %s: start_date and end_date are required", id)
		}
		if !l.Valid() {
			return nil, fmt.Errorf("leave %s: start %s after end %s", id, l.StartDate, l.EndDate)
		}
		roster.Leaves = append(roster.Leaves, l)
	}

	return roster, nil
}

// ToJSON converts a roster back to its document form.
func (f *RosterFactory) ToJSON(r *Roster) RosterJSON {
	var rj RosterJSON
	for _, b := range r.Banchine {
		rj.Banchine = append(rj.Banchine, BanchinaJSON{ID: string(b.ID), Code: b.Code, Name: b.Name})
	}
	for _, req := range r.Requirements {
		rj.Requirements = append(rj.Requirements, RequirementJSON{
			ID: string(req.ID), BanchinaID: string(req.BanchinaID), RoleName: req.RoleName,
		})
	}
	for _, e := range r.Employees {
		rj.Employees = append(rj.Employees, EmployeeJSON{
			ID:                string(e.ID),
			FirstName:         e.FirstName,
			LastName:          e.LastName,
			DepartmentID:      string(e.DepartmentID),
			DepartmentName:    e.DepartmentName,
			ManagerID:         string(e.ManagerID),
			CoManagerID:       string(e.CoManagerID),
			DefaultBanchinaID: string(e.DefaultBanchinaID),
			CurrentRole:       e.CurrentRole,
			SecondaryRole:     e.SecondaryRole,
		})
	}
	for _, l := range r.Leaves {
		rj.Leaves = append(rj.Leaves, LeaveJSON{
			ID:         l.ID,
			EmployeeID: string(l.EmployeeID),
			StartDate:  l.StartDate,
			EndDate:    l.EndDate,
			Status:     string(l.Status),
			LeaveType:  l.LeaveType,
		})
	}
	return rj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseLeaveStatus(s string) (workforce.LeaveStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "approved":
		return workforce.LeaveApproved, nil
	case "pending":
		return workforce.LeavePending, nil
	case "rejected":
		return workforce.LeaveRejected, nil
	case "cancelled", "canceled":
		return workforce.LeaveCancelled, nil
	default:
		return "", fmt.Errorf("unknown leave status: %s", s)
	}
}
