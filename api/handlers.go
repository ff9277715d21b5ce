/*
handlers.go - HTTP API handlers for the shift engine

PURPOSE:
  Exposes planning and the read-only directory views over REST. Handles
  request parsing, loads a snapshot per call, delegates to the planner and
  serializes the plan.

ENDPOINTS:
  Calendar:
    GET    /api/holidays?year=                       Holidays of a year

  Directory:
    GET    /api/employees?manager_id=&department_id=  Employee list
    GET    /api/employees/{id}                        One employee
    GET    /api/requirements?banchina_id=             Requirement catalog

  Assignments:
    GET    /api/employees/{id}/assignments?from=&to=  Stored assignments
    POST   /api/employees/{id}/plan                   Dry run, no writes
    POST   /api/employees/{id}/assignments            Plan and commit

  Horizon:
    GET    /api/horizon?role=&week_start=&today=      Navigation guard

REQUEST FLOW (plan / commit):
  1. Look up the employee
  2. Check the planning horizon for the actor role
  3. Load the existing assignment (single day) and a snapshot
  4. Plan
  5. Commit (assignments endpoint only)

ERROR HANDLING:
  - 400: bad input, planner validation (code, field, unresolved)
  - 403: week beyond the actor's planning horizon
  - 404: unknown employee
  - 409: single day on approved leave without override_leave
  - 207: some dates of a commit failed, see results
  - 500: directory or store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/warp/shift-engine/calendar"
	"github.com/warp/shift-engine/horizon"
	"github.com/warp/shift-engine/pkg/logger"
	"github.com/warp/shift-engine/planner"
	"github.com/warp/shift-engine/workforce"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Directory   workforce.Directory
	Assignments workforce.AssignmentStore
	Calendar    *calendar.Calendar
	Guard       horizon.Guard
	Options     planner.Options

	// Now is the clock used for "today". Defaults to time.Now.
	Now func() time.Time

	validate *validator.Validate
}

// NewHandler creates a handler. dir and store are usually the same value.
func NewHandler(dir workforce.Directory, store workforce.AssignmentStore, guard horizon.Guard, opts planner.Options) *Handler {
	return &Handler{
		Directory:   dir,
		Assignments: store,
		Calendar:    calendar.NewCalendar(),
		Guard:       guard,
		Options:     opts,
		Now:         time.Now,
		validate:    validator.New(),
	}
}

func (h *Handler) today() calendar.Date {
	if h.Now == nil {
		return calendar.Today()
	}
	return calendar.DateOf(h.Now())
}

// =============================================================================
// CALENDAR
// =============================================================================

// ListHolidays returns the holiday entries of a year.
// GET /api/holidays?year=2024
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := h.today().Year
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1583 || y > 9999 {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = y
	}

	holidays := calendar.Holidays(year)
	dtos := make([]HolidayDTO, len(holidays))
	for i, hd := range holidays {
		dtos[i] = HolidayDTO{Date: hd.Date, Label: hd.Label}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// DIRECTORY
// =============================================================================

// ListEmployees returns employees, optionally filtered by reporting line.
// GET /api/employees?manager_id=
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := workforce.EmployeeFilter{
		ManagerID:    workforce.EmployeeID(q.Get("manager_id")),
		DepartmentID: workforce.DepartmentID(q.Get("department_id")),
	}
	employees, err := h.Directory.ListEmployees(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// ListRequirements returns the requirement catalog, optionally for one station.
// GET /api/requirements?banchina_id=
func (h *Handler) ListRequirements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stations, err := h.Directory.ListBanchine(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list banchine", err)
		return
	}
	reqs, err := h.Directory.ListRequirements(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requirements", err)
		return
	}
	snap := planner.NewSnapshot(calendar.Period{}, stations, reqs, nil)

	list := snap.Catalog.Requirements()
	if id := r.URL.Query().Get("banchina_id"); id != "" {
		list = snap.Catalog.RequirementsFor(workforce.BanchinaID(id))
	}

	dtos := make([]RequirementDTO, 0, len(list))
	for _, req := range list {
		dto := RequirementDTO{ID: string(req.ID), BanchinaID: string(req.BanchinaID), RoleName: req.RoleName}
		if b, ok := snap.Catalog.Station(req.BanchinaID); ok {
			dto.BanchinaName = b.DisplayName()
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HORIZON
// =============================================================================

// GetHorizon answers whether a role may plan a week.
// GET /api/horizon?role=coordinator&week_start=2026-10-19&today=2026-10-14
func (h *Handler) GetHorizon(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	today := h.today()
	if s := q.Get("today"); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid today", err)
			return
		}
		today = d
	}
	weekStart := calendar.WeekStart(today)
	if s := q.Get("week_start"); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid week_start", err)
			return
		}
		weekStart = calendar.WeekStart(d)
	}

	role := q.Get("role")
	writeJSON(w, http.StatusOK, HorizonDTO{
		Role:        role,
		WeekStart:   weekStart,
		Today:       today,
		Constrained: h.Guard.Constrained(role),
		CanAdvance:  h.Guard.CanAdvance(role, weekStart, today),
		Reachable:   h.Guard.Reachable(role, weekStart, today),
		Limit:       h.Guard.Limit(today),
	})
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// GetAssignments returns stored assignments in [from, to], default the current week.
// GET /api/employees/{id}/assignments?from=2024-06-10&to=2024-06-16
func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	period := calendar.WeekOf(h.today())
	q := r.URL.Query()
	if s := q.Get("from"); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date", err)
			return
		}
		period.Start = d
		period.End = d.AddDays(6)
	}
	if s := q.Get("to"); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date", err)
			return
		}
		period.End = d
	}
	if !period.Valid() {
		writeError(w, http.StatusBadRequest, "from must not be after to", nil)
		return
	}

	list, err := h.Assignments.ListAssignments(r.Context(), emp.ID, period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTOs(list))
}

// PreviewPlan builds a plan without writing anything.
// POST /api/employees/{id}/plan
func (h *Handler) PreviewPlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.buildPlan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// CreateAssignments plans and commits. A single day on approved leave needs
// override_leave=true and is answered with 409 otherwise.
// POST /api/employees/{id}/assignments
func (h *Handler) CreateAssignments(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.buildPlan(w, r)
	if !ok {
		return
	}
	log := logger.From(r.Context())

	if plan.State == planner.StatePendingConfirmation {
		dto := toPlanDTO(plan)
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   "Employee is on approved leave; resubmit with override_leave",
			Details: plan.Conflict.Error(),
			Plan:    &dto,
		})
		return
	}

	report, err := planner.Commit(r.Context(), h.Assignments, plan)
	if err != nil {
		writeError(w, http.StatusConflict, "Plan is not confirmed", err)
		return
	}

	log.Info("assignments committed",
		"employee_id", plan.EmployeeID,
		"shift_type", plan.ShiftType,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"cancelled", len(report.Cancelled),
		"skipped", len(plan.Skipped),
	)
	if err := report.Err(); err != nil {
		log.Error("assignment writes failed", "employee_id", plan.EmployeeID, "error", err)
	}

	status := http.StatusCreated
	if !report.Complete() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, toCommitResponse(plan, report))
}

// buildPlan runs steps 1-4 of the request flow. It writes the error response
// itself and reports ok=false when it did.
func (h *Handler) buildPlan(w http.ResponseWriter, r *http.Request) (*planner.Plan, bool) {
	ctx := r.Context()

	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return nil, false
	}

	var body PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}
	if err := h.validator().Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}

	req, err := toPlannerRequest(emp, body)
	if err != nil {
		var ve *workforce.ValidationError
		if errors.As(err, &ve) {
			writeValidation(w, ve, nil)
		} else {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
		}
		return nil, false
	}

	today := h.today()
	if week := calendar.WeekStart(req.Date); !h.Guard.Reachable(body.ActorRole, week, today) {
		writeError(w, http.StatusForbidden,
			fmt.Sprintf("Week of %s is beyond the planning horizon for %s", week, body.ActorRole), nil)
		return nil, false
	}

	if !req.WholeWeek {
		existing, err := h.Assignments.GetAssignment(ctx, emp.ID, req.Date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load assignment", err)
			return nil, false
		}
		req.Existing = existing
	}

	snap, err := planner.LoadSnapshot(ctx, h.Directory, planner.PeriodFor(req.Date, req.WholeWeek))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load planning data", err)
		return nil, false
	}

	plan, err := planner.New(snap, h.Calendar, h.Options).Plan(req)
	if err != nil {
		var ve *workforce.ValidationError
		if errors.As(err, &ve) {
			dto := toPlanDTO(plan)
			writeValidation(w, ve, &dto)
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Planning failed", err)
		return nil, false
	}

	logger.From(ctx).Debug("plan built",
		"employee_id", plan.EmployeeID,
		"state", plan.State,
		"banchina_id", plan.BanchinaID,
		"requirement_id", plan.RequirementID,
		"match_tier", plan.MatchTier,
		"assignments", len(plan.Assignments),
		"skipped", len(plan.Skipped),
	)
	return plan, true
}

func (h *Handler) loadEmployee(w http.ResponseWriter, r *http.Request) (workforce.Employee, bool) {
	id := workforce.EmployeeID(chi.URLParam(r, "id"))
	emp, err := h.Directory.GetEmployee(r.Context(), id)
	if err != nil {
		if errors.Is(err, workforce.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, "Employee not found", err)
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to load employee", err)
		}
		return workforce.Employee{}, false
	}
	return emp, true
}

func (h *Handler) validator() *validator.Validate {
	if h.validate == nil {
		h.validate = validator.New()
	}
	return h.validate
}

// toPlannerRequest converts the body. Malformed clock times come back as a
// *workforce.ValidationError; every other rule is left to the planner.
func toPlannerRequest(emp workforce.Employee, body PlanRequest) (planner.Request, error) {
	day, err := calendar.ParseDate(body.Date)
	if err != nil {
		return planner.Request{}, err
	}

	shiftType := workforce.ShiftType(body.ShiftType)
	if st, ok := workforce.ParseShiftType(body.ShiftType); ok {
		shiftType = st
	}

	req := planner.Request{
		Employee:      emp,
		ShiftType:     shiftType,
		Date:          day,
		WholeWeek:     body.WholeWeek,
		BanchinaID:    workforce.BanchinaID(body.BanchinaID),
		RequirementID: workforce.RequirementID(body.RequirementID),
		Notes:         body.Notes,
		OverrideLeave: body.OverrideLeave,
	}
	for _, f := range []struct {
		field string
		raw   string
		dst   **workforce.ClockTime
	}{
		{"start_time", body.StartTime, &req.StartTime},
		{"end_time", body.EndTime, &req.EndTime},
	} {
		if f.raw == "" {
			continue
		}
		ct, err := workforce.ParseClockTime(f.raw)
		if err != nil {
			return planner.Request{}, workforce.NewValidationError(workforce.CodeInvalidTimeRange, f.field, err.Error())
		}
		*f.dst = &ct
	}
	return req, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeValidation(w http.ResponseWriter, ve *workforce.ValidationError, plan *PlanDTO) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:      "Validation failed",
		Details:    ve.Error(),
		Code:       string(ve.Code),
		Field:      ve.Field,
		Unresolved: ve.Unresolved,
		Plan:       plan,
	})
}
