/*
Package planner turns a planning request into shift assignment drafts.

PURPOSE:
  One call plans one employee for one day or one whole week. The planner
  validates the request, resolves station and requirement when the
  operator left them empty, filters the candidate dates against holidays
  and approved leave, and returns a Plan. It never writes; Commit does.

STATE MODEL (per call):
  Drafting -> Validated -> Confirmed
                     \-> PendingConfirmation   (single day on approved leave)
  Drafting -> Rejected                         (ValidationError)

SINGLE DAY vs WHOLE WEEK:
  The two modes treat leave differently and are kept as separate paths.
  Single day: approved leave pauses the plan until the caller re-plans
  with OverrideLeave. Whole week: Saturdays, Sundays, holidays and leave
  days are dropped into Skipped and the rest get identical assignments.

EXAMPLE:
  snap, _ := planner.LoadSnapshot(ctx, dir, planner.PeriodFor(day, true))
  p := planner.New(snap, calendar.NewCalendar(), planner.Options{})
  plan, err := p.Plan(planner.Request{Employee: emp, ShiftType: workforce.ShiftMorning, Date: day, WholeWeek: true})
  report, err := planner.Commit(ctx, store, plan)

SEE ALSO:
  - matching: station and role resolution
  - commit.go: per-date persistence report
*/
package planner

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/shift-engine/calendar"
	"github.com/warp/shift-engine/matching"
	"github.com/warp/shift-engine/workforce"
)

// =============================================================================
// REQUEST
// =============================================================================

// Request is one planning call. Empty BanchinaID/RequirementID mean "resolve
// automatically".
type Request struct {
	Employee  workforce.Employee
	ShiftType workforce.ShiftType

	// Date is the target day, or any day of the target week when WholeWeek is set.
	Date      calendar.Date
	WholeWeek bool

	BanchinaID    workforce.BanchinaID
	RequirementID workforce.RequirementID

	// Required for ShiftManual, ignored otherwise.
	StartTime *workforce.ClockTime
	EndTime   *workforce.ClockTime

	Notes string

	// Existing is the stored assignment being edited, if any.
	Existing *workforce.ShiftAssignment

	// OverrideLeave acknowledges a single-day leave conflict.
	OverrideLeave bool
}

// =============================================================================
// PLAN
// =============================================================================

type State string

const (
	StateDrafting            State = "drafting"
	StateValidated           State = "validated"
	StatePendingConfirmation State = "pending_confirmation"
	StateConfirmed           State = "confirmed"
	StateRejected            State = "rejected"
)

type SkipReason string

const (
	SkipSaturday SkipReason = "saturday"
	SkipSunday   SkipReason = "sunday"
	SkipHoliday  SkipReason = "holiday"
	SkipLeave    SkipReason = "leave"
)

// Skip is one date dropped from a whole-week plan.
type Skip struct {
	Date   calendar.Date
	Reason SkipReason
	Detail string // holiday label or leave type
}

// Warning is non-blocking information for single-day plans.
type Warning struct {
	Date    calendar.Date
	Message string
}

type Plan struct {
	State      State
	EmployeeID workforce.EmployeeID
	ShiftType  workforce.ShiftType
	WholeWeek  bool

	BanchinaID    workforce.BanchinaID
	StationSource matching.StationSource
	RequirementID workforce.RequirementID
	MatchTier     matching.Tier

	Assignments []workforce.ShiftAssignment
	Skipped     []Skip
	Warnings    []Warning

	// Conflict is set when State is StatePendingConfirmation.
	Conflict *workforce.LeaveConflictError

	// Rejection is set when State is StateRejected.
	Rejection *workforce.ValidationError
}

func (p *Plan) Confirmed() bool { return p != nil && p.State == StateConfirmed }

// TotalHours sums the scheduled hours of every assignment.
func (p *Plan) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Assignments {
		total = total.Add(a.Hours())
	}
	return total
}

// SkippedByReason counts skipped dates for a single aggregate warning.
func (p *Plan) SkippedByReason() map[SkipReason]int {
	out := make(map[SkipReason]int)
	for _, s := range p.Skipped {
		out[s.Reason]++
	}
	return out
}

// =============================================================================
// PLANNER
// =============================================================================

type Options struct {
	FallbackStationCode string
	GenericRoleTokens   []string
}

type Planner struct {
	snapshot *Snapshot
	calendar *calendar.Calendar
	stations *matching.StationResolver
	roles    *matching.RoleMatcher
}

func New(s *Snapshot, cal *calendar.Calendar, opts Options) *Planner {
	if cal == nil {
		cal = calendar.NewCalendar()
	}
	return &Planner{
		snapshot: s,
		calendar: cal,
		stations: matching.NewStationResolver(s.Catalog, opts.FallbackStationCode),
		roles:    matching.NewRoleMatcher(s.Catalog, opts.GenericRoleTokens),
	}
}

// Plan runs one planning call. A rejected plan is returned together with its
// *workforce.ValidationError.
func (pl *Planner) Plan(req Request) (*Plan, error) {
	plan := &Plan{
		State:      StateDrafting,
		EmployeeID: req.Employee.ID,
		ShiftType:  req.ShiftType,
		WholeWeek:  req.WholeWeek,
	}

	if err := pl.validate(plan, &req); err != nil {
		return reject(plan, err)
	}
	plan.State = StateValidated

	if req.WholeWeek {
		pl.planWeek(plan, req)
	} else {
		pl.planDay(plan, req)
	}
	return plan, nil
}

func reject(plan *Plan, err *workforce.ValidationError) (*Plan, error) {
	plan.State = StateRejected
	plan.Rejection = err
	return plan, err
}

// validate checks the shift type and manual times before any resolution,
// then resolves station and requirement into plan.
func (pl *Planner) validate(plan *Plan, req *Request) *workforce.ValidationError {
	if !req.ShiftType.Valid() {
		return workforce.NewValidationError(workforce.CodeInvalidShiftType, "shift_type",
			fmt.Sprintf("unknown shift type %q", req.ShiftType))
	}

	if req.ShiftType == workforce.ShiftManual {
		if req.StartTime == nil || req.EndTime == nil {
			return workforce.NewValidationError(workforce.CodeMissingManualTimes, "start_time",
				"manual shift requires start_time and end_time")
		}
		if !req.StartTime.Before(*req.EndTime) {
			return workforce.NewValidationError(workforce.CodeInvalidTimeRange, "end_time",
				fmt.Sprintf("start %s must be before end %s", req.StartTime, req.EndTime))
		}
	} else {
		req.StartTime, req.EndTime = nil, nil
	}

	if req.ShiftType == workforce.ShiftOff {
		return nil
	}
	return pl.resolve(plan, *req)
}

func (pl *Planner) resolve(plan *Plan, req Request) *workforce.ValidationError {
	cat := pl.snapshot.Catalog

	if req.RequirementID != "" {
		owner, ok := cat.BanchinaOf(req.RequirementID)
		if !ok {
			return workforce.NewValidationError(workforce.CodeUnknownRequirement, "requirement_id",
				fmt.Sprintf("requirement %s not in catalog", req.RequirementID))
		}
		if req.BanchinaID != "" && req.BanchinaID != owner {
			return workforce.NewValidationError(workforce.CodeRequirementMismatch, "requirement_id",
				fmt.Sprintf("requirement %s belongs to banchina %s, not %s", req.RequirementID, owner, req.BanchinaID))
		}
		plan.BanchinaID, plan.StationSource = owner, matching.SourceExplicit
		plan.RequirementID, plan.MatchTier = req.RequirementID, matching.TierExplicit
		return nil
	}

	station := matching.StationResolution{BanchinaID: req.BanchinaID, Source: matching.SourceExplicit}
	if req.BanchinaID == "" {
		station = pl.stations.Resolve(req.Employee, req.Existing)
	}
	if !station.Resolved() {
		return workforce.NewResolutionFailure(workforce.CodeMissingBanchina, "banchina_id",
			"no default station and no fallback yard; select a banchina")
	}

	sel := matching.NewSelection(pl.roles, req.Employee)
	sel.SetBanchina(station.BanchinaID)
	if existing := req.Existing; existing != nil && existing.RequirementID != "" {
		if owner, ok := cat.BanchinaOf(existing.RequirementID); ok && owner == station.BanchinaID {
			sel.ChooseRequirement(existing.RequirementID)
		}
	}
	if sel.Requirement() == "" {
		return workforce.NewResolutionFailure(workforce.CodeMissingRequirement, "requirement_id",
			fmt.Sprintf("banchina %s has no requirement for this employee; select one", station.BanchinaID))
	}

	plan.BanchinaID, plan.StationSource = station.BanchinaID, station.Source
	plan.RequirementID, plan.MatchTier = sel.Requirement(), sel.Tier()
	return nil
}

// planDay is the single-day path: leave asks for confirmation, non-working
// days only warn.
func (pl *Planner) planDay(plan *Plan, req Request) {
	day := req.Date
	plan.Assignments = []workforce.ShiftAssignment{pl.assignment(plan, req, day)}

	if label, ok := pl.calendar.Holiday(day); ok {
		plan.Warnings = append(plan.Warnings, Warning{Date: day, Message: "holiday: " + label})
	} else if day.IsSunday() {
		plan.Warnings = append(plan.Warnings, Warning{Date: day, Message: "sunday"})
	}

	if lr := pl.snapshot.Leaves.IsOnLeave(req.Employee.ID, day); lr != nil {
		conflict := &workforce.LeaveConflictError{EmployeeID: req.Employee.ID, Date: day, Leave: *lr}
		if !req.OverrideLeave {
			plan.State = StatePendingConfirmation
			plan.Conflict = conflict
			return
		}
		plan.Warnings = append(plan.Warnings, Warning{Date: day, Message: "leave overridden: " + conflict.Error()})
	}
	plan.State = StateConfirmed
}

// planWeek is the whole-week path: excluded dates are skipped silently.
func (pl *Planner) planWeek(plan *Plan, req Request) {
	for _, day := range calendar.WeekOf(req.Date).Days() {
		if skip, ok := pl.skipReason(req.Employee.ID, day); ok {
			plan.Skipped = append(plan.Skipped, skip)
			continue
		}
		plan.Assignments = append(plan.Assignments, pl.assignment(plan, req, day))
	}
	plan.State = StateConfirmed
}

func (pl *Planner) skipReason(emp workforce.EmployeeID, day calendar.Date) (Skip, bool) {
	switch {
	case day.IsSaturday():
		return Skip{Date: day, Reason: SkipSaturday}, true
	case day.IsSunday():
		return Skip{Date: day, Reason: SkipSunday}, true
	}
	if label, ok := pl.calendar.Holiday(day); ok {
		return Skip{Date: day, Reason: SkipHoliday, Detail: label}, true
	}
	if lr := pl.snapshot.Leaves.IsOnLeave(emp, day); lr != nil {
		return Skip{Date: day, Reason: SkipLeave, Detail: lr.LeaveType}, true
	}
	return Skip{}, false
}

func (pl *Planner) assignment(plan *Plan, req Request, day calendar.Date) workforce.ShiftAssignment {
	a := workforce.ShiftAssignment{
		EmployeeID:    req.Employee.ID,
		WorkDate:      day,
		ShiftType:     req.ShiftType,
		RequirementID: plan.RequirementID,
		Notes:         req.Notes,
	}
	if req.ShiftType == workforce.ShiftManual {
		start, end := *req.StartTime, *req.EndTime
		a.StartTime, a.EndTime = &start, &end
	}
	if req.Existing != nil && req.Existing.WorkDate == day && req.Existing.EmployeeID == req.Employee.ID {
		a.ID = req.Existing.ID
	}
	return a
}
