/*
handlers_test.go - HTTP tests for the planning API

Runs the chi router against the in-memory store seeded with the demo roster:
  - e-rossi:   default B01, "Carrellista", approved leave on 2024-06-12
  - e-bianchi: default B02, "Magazziniere"
  - e-verdi:   no default station, "Addetto"
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-engine/calendar"
	"github.com/warp/shift-engine/factory"
	"github.com/warp/shift-engine/horizon"
	"github.com/warp/shift-engine/planner"
	"github.com/warp/shift-engine/store/memory"
	"github.com/warp/shift-engine/workforce"
)

type testServer struct {
	store   *memory.Memory
	handler *Handler
	router  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	roster, err := factory.NewRosterFactory().ParseRoster(factory.DemoRosterJSON)
	require.NoError(t, err)
	require.NoError(t, roster.Apply(context.Background(), store))

	h := NewHandler(store, store, horizon.NewGuard("coordinator", 10), planner.Options{
		FallbackStationCode: workforce.FallbackStationCode,
	})
	// Wednesday
	h.Now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }

	return &testServer{store: store, handler: h, router: NewRouter(h, nil)}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// =============================================================================
// DIRECTORY AND CALENDAR
// =============================================================================

func TestListHolidays(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/holidays?year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	holidays := decode[[]HolidayDTO](t, rec)
	require.Len(t, holidays, 12)
	assert.Equal(t, calendar.NewDate(2024, 1, 1), holidays[0].Date)
	assert.Equal(t, calendar.NewDate(2024, 12, 26), holidays[11].Date)

	rec = s.do(t, http.MethodGet, "/api/holidays?year=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEmployees_ByManager(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/employees/?manager_id=m-bruno", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	emps := decode[[]EmployeeDTO](t, rec)
	require.Len(t, emps, 2)
	assert.Equal(t, "e-bianchi", emps[0].ID, "co-manager counts, sorted by last name")
	assert.Equal(t, []string{"Magazziniere", "Carrellista"}, emps[0].Roles)
}

func TestGetEmployee_NotFound(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/employees/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRequirements_ByStation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/requirements?banchina_id=b-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	reqs := decode[[]RequirementDTO](t, rec)
	require.Len(t, reqs, 2)
	assert.Equal(t, "r-01-carr", reqs[0].ID)
	assert.Equal(t, "Banchina 1", reqs[0].BanchinaName)

	rec = s.do(t, http.MethodGet, "/api/requirements", nil)
	assert.Len(t, decode[[]RequirementDTO](t, rec), 5)
}

// =============================================================================
// HORIZON
// =============================================================================

func TestGetHorizon(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		query      string
		canAdvance bool
		reachable  bool
	}{
		{"coordinator, next week", "role=coordinator&week_start=2026-10-19", true, true},
		{"coordinator, week after next", "role=coordinator&week_start=2026-10-26", false, true},
		{"coordinator, three weeks out", "role=coordinator&week_start=2026-11-02", false, false},
		{"manager is unconstrained", "role=manager&week_start=2026-11-02", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/horizon?"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			got := decode[HorizonDTO](t, rec)
			assert.Equal(t, tt.canAdvance, got.CanAdvance)
			assert.Equal(t, tt.reachable, got.Reachable)
			assert.Equal(t, calendar.NewDate(2026, 10, 24), got.Limit)
		})
	}
}

// =============================================================================
// PLANNING
// =============================================================================

func TestPreviewPlan_WholeWeekSkipsLeave(t *testing.T) {
	s := newTestServer(t)

	// GIVEN e-rossi with approved leave on Wednesday 2024-06-12
	// WHEN planning the whole week as a dry run
	rec := s.do(t, http.MethodPost, "/api/employees/e-rossi/plan", PlanRequest{
		ShiftType: "morning", Date: "2024-06-13", WholeWeek: true,
	})

	// THEN Mon, Tue, Thu, Fri are planned and nothing is written
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	plan := decode[PlanDTO](t, rec)
	assert.Equal(t, string(planner.StateConfirmed), plan.State)
	assert.Len(t, plan.Assignments, 4)
	assert.Len(t, plan.Skipped, 3)
	assert.Equal(t, map[string]int{"leave": 1, "saturday": 1, "sunday": 1}, plan.SkippedCounts)
	assert.Equal(t, "r-01-carr", plan.RequirementID)
	assert.Equal(t, "stemmed", plan.MatchTier)
	assert.Equal(t, "32.00", plan.TotalHours)
	assert.Equal(t, 0, s.store.Count())
}

func TestPreviewPlan_FallbackYardAndGenericTier(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/employees/e-verdi/plan", PlanRequest{ShiftType: "night", Date: "2024-06-11"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	plan := decode[PlanDTO](t, rec)
	assert.Equal(t, "b-cortile", plan.BanchinaID)
	assert.Equal(t, "fallback", plan.StationSource)
	assert.Equal(t, "r-cortile-op", plan.RequirementID)
	assert.Equal(t, "generic", plan.MatchTier)
}

func TestPreviewPlan_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		body  PlanRequest
		code  string
		field string
	}{
		{"manual end before start", PlanRequest{ShiftType: "manual", Date: "2024-06-11", StartTime: "09:00", EndTime: "08:00"}, "invalid_time_range", "end_time"},
		{"manual without times", PlanRequest{ShiftType: "manual", Date: "2024-06-11"}, "missing_manual_times", "start_time"},
		{"malformed clock", PlanRequest{ShiftType: "manual", Date: "2024-06-11", StartTime: "9h:00", EndTime: "10:00"}, "invalid_time_range", "start_time"},
		{"unknown shift type", PlanRequest{ShiftType: "evening", Date: "2024-06-11"}, "invalid_shift_type", "shift_type"},
		{"unknown requirement", PlanRequest{ShiftType: "morning", Date: "2024-06-11", RequirementID: "r-nope"}, "unknown_requirement", "requirement_id"},
		{"requirement of another station", PlanRequest{ShiftType: "morning", Date: "2024-06-11", BanchinaID: "b-02", RequirementID: "r-01-carr"}, "requirement_mismatch", "requirement_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/employees/e-rossi/plan", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.field, resp.Field)
		})
	}
}

func TestPreviewPlan_BadBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/employees/e-rossi/plan", map[string]any{"date": "2024-06-11"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "shift_type is required")

	rec = s.do(t, http.MethodPost, "/api/employees/e-rossi/plan", PlanRequest{ShiftType: "morning", Date: "11/06/2024"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/employees/ghost/plan", PlanRequest{ShiftType: "morning", Date: "2024-06-11"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreviewPlan_HorizonForbidden(t *testing.T) {
	s := newTestServer(t)

	// GIVEN today is 2026-10-14, a coordinator cannot reach the week of 2026-11-02
	rec := s.do(t, http.MethodPost, "/api/employees/e-rossi/plan", PlanRequest{
		ShiftType: "morning", Date: "2026-11-03", ActorRole: "coordinator",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// a manager can
	rec = s.do(t, http.MethodPost, "/api/employees/e-rossi/plan", PlanRequest{
		ShiftType: "morning", Date: "2026-11-03", ActorRole: "manager",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

// =============================================================================
// COMMIT
// =============================================================================

func TestCreateAssignments_LeaveConflictNeedsOverride(t *testing.T) {
	s := newTestServer(t)
	body := PlanRequest{ShiftType: "afternoon", Date: "2024-06-12"}

	// WHEN assigning e-rossi on his leave day without override
	rec := s.do(t, http.MethodPost, "/api/employees/e-rossi/assignments", body)

	// THEN the plan is held for confirmation and nothing is written
	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	require.NotNil(t, resp.Plan)
	assert.Equal(t, string(planner.StatePendingConfirmation), resp.Plan.State)
	require.NotNil(t, resp.Plan.Conflict)
	assert.Equal(t, "l-rossi-summer", resp.Plan.Conflict.LeaveID)
	assert.Equal(t, 0, s.store.Count())

	// WHEN resubmitting with override
	body.OverrideLeave = true
	rec = s.do(t, http.MethodPost, "/api/employees/e-rossi/assignments", body)

	// THEN it is stored
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	commit := decode[CommitResponse](t, rec)
	assert.Equal(t, 1, commit.Succeeded)
	assert.Equal(t, 1, s.store.Count())
}

func TestCreateAssignments_ReplacesExisting(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/employees/e-bianchi/assignments", PlanRequest{ShiftType: "morning", Date: "2024-06-11"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[CommitResponse](t, rec)
	require.Len(t, first.Results, 1)
	require.NotNil(t, first.Results[0].Assignment)

	rec = s.do(t, http.MethodPost, "/api/employees/e-bianchi/assignments", PlanRequest{ShiftType: "manual", Date: "2024-06-11", StartTime: "07:30", EndTime: "11:30"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	second := decode[CommitResponse](t, rec)

	assert.Equal(t, first.Results[0].Assignment.ID, second.Results[0].Assignment.ID)
	assert.Equal(t, "4.00", second.Results[0].Assignment.Hours)
	assert.Equal(t, 1, s.store.Count())

	rec = s.do(t, http.MethodGet, "/api/employees/e-bianchi/assignments?from=2024-06-10&to=2024-06-16", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[[]AssignmentDTO](t, rec)
	require.Len(t, stored, 1)
	assert.Equal(t, "manual", stored[0].ShiftType)
	assert.Equal(t, "07:30", stored[0].StartTime)
	assert.Equal(t, "r-02-mag", stored[0].RequirementID)
}

func TestCreateAssignments_PartialFailure(t *testing.T) {
	s := newTestServer(t)
	thursday := calendar.NewDate(2024, 6, 13)
	s.store.FailOn = func(a workforce.ShiftAssignment) error {
		if a.WorkDate == thursday {
			return errors.New("disk full")
		}
		return nil
	}

	rec := s.do(t, http.MethodPost, "/api/employees/e-rossi/assignments", PlanRequest{
		ShiftType: "night", Date: "2024-06-10", WholeWeek: true,
	})

	require.Equal(t, http.StatusMultiStatus, rec.Code, rec.Body.String())
	resp := decode[CommitResponse](t, rec)
	assert.Equal(t, 3, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	for _, r := range resp.Results {
		if r.Date == thursday {
			assert.Equal(t, "failed", r.Status)
			assert.Contains(t, r.Error, "disk full")
		} else {
			assert.Equal(t, "saved", r.Status)
		}
	}
	assert.Equal(t, 3, s.store.Count(), "earlier writes are kept")
}

func TestGetAssignments_BadRange(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/employees/e-rossi/assignments?from=2024-06-16&to=2024-06-10", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
