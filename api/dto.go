/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures of the REST surface. Domain records never leave the
  package directly; every response goes through a *DTO.

NAMING CONVENTION:
  - *DTO:      response types returned to clients
  - *Request:  request body types from clients
  - *Response: wrappers combining several DTOs

VALIDATION:
  Request shape (required fields, lengths) is checked with validator struct
  tags. Scheduling rules (manual times, resolution) are the planner's job
  and come back as planner validation codes.

SEE ALSO:
  - handlers.go: uses these types
  - planner/planner.go: Plan, Skip, Warning
*/
package api

import (
	"github.com/warp/shift-engine/calendar"
	"github.com/warp/shift-engine/planner"
	"github.com/warp/shift-engine/workforce"
)

// =============================================================================
// REQUESTS
// =============================================================================

// PlanRequest is the body of both the dry-run and the commit endpoints.
type PlanRequest struct {
	ShiftType     string `json:"shift_type" validate:"required"`
	Date          string `json:"date" validate:"required"`
	WholeWeek     bool   `json:"whole_week"`
	BanchinaID    string `json:"banchina_id,omitempty"`
	RequirementID string `json:"requirement_id,omitempty"`
	StartTime     string `json:"start_time,omitempty" validate:"omitempty,len=5"`
	EndTime       string `json:"end_time,omitempty" validate:"omitempty,len=5"`
	Notes         string `json:"notes,omitempty" validate:"max=1000"`
	OverrideLeave bool   `json:"override_leave"`

	// ActorRole is the role of the person planning, checked against the horizon.
	ActorRole string `json:"actor_role,omitempty"`
}

// =============================================================================
// DIRECTORY VIEWS
// =============================================================================

type EmployeeDTO struct {
	ID                string   `json:"id"`
	FullName          string   `json:"full_name"`
	DepartmentID      string   `json:"department_id,omitempty"`
	DepartmentName    string   `json:"department_name,omitempty"`
	ManagerID         string   `json:"manager_id,omitempty"`
	CoManagerID       string   `json:"co_manager_id,omitempty"`
	DefaultBanchinaID string   `json:"default_banchina_id,omitempty"`
	Roles             []string `json:"roles"`
}

type RequirementDTO struct {
	ID           string `json:"id"`
	BanchinaID   string `json:"banchina_id"`
	BanchinaName string `json:"banchina_name,omitempty"`
	RoleName     string `json:"role_name"`
}

type HolidayDTO struct {
	Date  calendar.Date `json:"date"`
	Label string        `json:"label"`
}

type HorizonDTO struct {
	Role        string        `json:"role"`
	WeekStart   calendar.Date `json:"week_start"`
	Today       calendar.Date `json:"today"`
	Constrained bool          `json:"constrained"`
	CanAdvance  bool          `json:"can_advance"`
	Reachable   bool          `json:"reachable"`
	Limit       calendar.Date `json:"limit"`
}

// =============================================================================
// PLANS AND ASSIGNMENTS
// =============================================================================

type AssignmentDTO struct {
	ID            string        `json:"id,omitempty"`
	EmployeeID    string        `json:"employee_id"`
	WorkDate      calendar.Date `json:"work_date"`
	ShiftType     string        `json:"shift_type"`
	StartTime     string        `json:"start_time,omitempty"`
	EndTime       string        `json:"end_time,omitempty"`
	RequirementID string        `json:"requirement_id,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	Hours         string        `json:"hours"`
}

type SkipDTO struct {
	Date   calendar.Date `json:"date"`
	Reason string        `json:"reason"`
	Detail string        `json:"detail,omitempty"`
}

type WarningDTO struct {
	Date    calendar.Date `json:"date"`
	Message string        `json:"message"`
}

type ConflictDTO struct {
	Date      calendar.Date `json:"date"`
	LeaveID   string        `json:"leave_id"`
	LeaveType string        `json:"leave_type,omitempty"`
	StartDate calendar.Date `json:"start_date"`
	EndDate   calendar.Date `json:"end_date"`
}

type PlanDTO struct {
	State         string          `json:"state"`
	EmployeeID    string          `json:"employee_id"`
	ShiftType     string          `json:"shift_type"`
	WholeWeek     bool            `json:"whole_week"`
	BanchinaID    string          `json:"banchina_id,omitempty"`
	StationSource string          `json:"station_source,omitempty"`
	RequirementID string          `json:"requirement_id,omitempty"`
	MatchTier     string          `json:"match_tier,omitempty"`
	Assignments   []AssignmentDTO `json:"assignments"`
	Skipped       []SkipDTO       `json:"skipped"`
	SkippedCounts map[string]int  `json:"skipped_counts,omitempty"`
	Warnings      []WarningDTO    `json:"warnings"`
	TotalHours    string          `json:"total_hours"`
	Conflict      *ConflictDTO    `json:"conflict,omitempty"`
}

type CommitResultDTO struct {
	Date       calendar.Date  `json:"date"`
	Status     string         `json:"status"` // saved, failed, cancelled
	Assignment *AssignmentDTO `json:"assignment,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type CommitResponse struct {
	Plan      PlanDTO           `json:"plan"`
	Results   []CommitResultDTO `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`

	// Set for planner validation failures.
	Code       string `json:"code,omitempty"`
	Field      string `json:"field,omitempty"`
	Unresolved bool   `json:"unresolved,omitempty"`

	Plan *PlanDTO `json:"plan,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toEmployeeDTO(e workforce.Employee) EmployeeDTO {
	roles := e.RoleLabels()
	if roles == nil {
		roles = []string{}
	}
	return EmployeeDTO{
		ID:                string(e.ID),
		FullName:          e.FullName(),
		DepartmentID:      string(e.DepartmentID),
		DepartmentName:    e.DepartmentName,
		ManagerID:         string(e.ManagerID),
		CoManagerID:       string(e.CoManagerID),
		DefaultBanchinaID: string(e.DefaultBanchinaID),
		Roles:             roles,
	}
}

func toAssignmentDTO(a workforce.ShiftAssignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:            a.ID,
		EmployeeID:    string(a.EmployeeID),
		WorkDate:      a.WorkDate,
		ShiftType:     string(a.ShiftType),
		RequirementID: string(a.RequirementID),
		Notes:         a.Notes,
		Hours:         a.Hours().StringFixed(2),
	}
	if a.StartTime != nil {
		dto.StartTime = a.StartTime.String()
	}
	if a.EndTime != nil {
		dto.EndTime = a.EndTime.String()
	}
	return dto
}

func toAssignmentDTOs(as []workforce.ShiftAssignment) []AssignmentDTO {
	out := make([]AssignmentDTO, 0, len(as))
	for _, a := range as {
		out = append(out, toAssignmentDTO(a))
	}
	return out
}

func toPlanDTO(p *planner.Plan) PlanDTO {
	dto := PlanDTO{
		State:         string(p.State),
		EmployeeID:    string(p.EmployeeID),
		ShiftType:     string(p.ShiftType),
		WholeWeek:     p.WholeWeek,
		BanchinaID:    string(p.BanchinaID),
		StationSource: string(p.StationSource),
		RequirementID: string(p.RequirementID),
		MatchTier:     string(p.MatchTier),
		Assignments:   toAssignmentDTOs(p.Assignments),
		Skipped:       make([]SkipDTO, 0, len(p.Skipped)),
		Warnings:      make([]WarningDTO, 0, len(p.Warnings)),
		TotalHours:    p.TotalHours().StringFixed(2),
	}
	for _, s := range p.Skipped {
		dto.Skipped = append(dto.Skipped, SkipDTO{Date: s.Date, Reason: string(s.Reason), Detail: s.Detail})
	}
	if len(p.Skipped) > 0 {
		dto.SkippedCounts = make(map[string]int)
		for reason, n := range p.SkippedByReason() {
			dto.SkippedCounts[string(reason)] = n
		}
	}
	for _, w := range p.Warnings {
		dto.Warnings = append(dto.Warnings, WarningDTO{Date: w.Date, Message: w.Message})
	}
	if c := p.Conflict; c != nil {
		dto.Conflict = &ConflictDTO{
			Date:      c.Date,
			LeaveID:   c.Leave.ID,
			LeaveType: c.Leave.LeaveType,
			StartDate: c.Leave.StartDate,
			EndDate:   c.Leave.EndDate,
		}
	}
	return dto
}

func toCommitResponse(p *planner.Plan, report *planner.CommitReport) CommitResponse {
	resp := CommitResponse{
		Plan:      toPlanDTO(p),
		Results:   make([]CommitResultDTO, 0, len(report.Results)+len(report.Cancelled)),
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
	}
	for _, res := range report.Results {
		r := CommitResultDTO{Date: res.Date, Status: "saved"}
		if res.Err != nil {
			r.Status = "failed"
			r.Error = res.Err.Error()
		} else if res.Assignment != nil {
			a := toAssignmentDTO(*res.Assignment)
			r.Assignment = &a
		}
		resp.Results = append(resp.Results, r)
	}
	for _, d := range report.Cancelled {
		resp.Results = append(resp.Results, CommitResultDTO{Date: d, Status: "cancelled"})
	}
	return resp
}
