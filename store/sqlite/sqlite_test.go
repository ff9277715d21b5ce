package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-engine/calendar"
	"github.com/warp/shift-engine/store/sqlite"
	"github.com/warp/shift-engine/workforce"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_AssignmentUpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	day := calendar.NewDate(2024, 6, 10)

	// GIVEN a stored morning shift
	first, err := s.SaveAssignment(ctx, workforce.ShiftAssignment{
		EmployeeID: "e1", WorkDate: day, ShiftType: workforce.ShiftMorning, RequirementID: "r1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	// WHEN a manual shift is saved for the same employee and day
	start, end := workforce.MustParseClockTime("08:30"), workforce.MustParseClockTime("12:00")
	second, err := s.SaveAssignment(ctx, workforce.ShiftAssignment{
		EmployeeID: "e1", WorkDate: day, ShiftType: workforce.ShiftManual,
		StartTime: &start, EndTime: &end, RequirementID: "r2", Notes: "cover",
	})
	require.NoError(t, err)

	// THEN the row is replaced in place
	assert.Equal(t, first.ID, second.ID)

	got, err := s.GetAssignment(ctx, "e1", day)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, workforce.ShiftManual, got.ShiftType)
	assert.Equal(t, workforce.RequirementID("r2"), got.RequirementID)
	require.NotNil(t, got.StartTime)
	assert.Equal(t, "08:30", got.StartTime.String())
	assert.Equal(t, "cover", got.Notes)

	all, err := s.ListAssignments(ctx, "e1", day, day)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLite_GetAssignmentMissing(t *testing.T) {
	s := newStore(t)
	got, err := s.GetAssignment(context.Background(), "e1", calendar.NewDate(2024, 1, 1))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_ListAssignmentsRange(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	monday := calendar.NewDate(2024, 6, 10)
	for i := 0; i < 5; i++ {
		_, err := s.SaveAssignment(ctx, workforce.ShiftAssignment{
			EmployeeID: "e1", WorkDate: monday.AddDays(i), ShiftType: workforce.ShiftNight, RequirementID: "r1",
		})
		require.NoError(t, err)
	}
	_, err := s.SaveAssignment(ctx, workforce.ShiftAssignment{EmployeeID: "e2", WorkDate: monday, ShiftType: workforce.ShiftOff})
	require.NoError(t, err)

	got, err := s.ListAssignments(ctx, "e1", monday.AddDays(1), monday.AddDays(3))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, monday.AddDays(1), got[0].WorkDate)
	assert.Equal(t, monday.AddDays(3), got[2].WorkDate)
	assert.Nil(t, got[0].StartTime)

	off, err := s.ListAssignments(ctx, "e2", monday, monday)
	require.NoError(t, err)
	require.Len(t, off, 1)
	assert.Empty(t, off[0].RequirementID)
}

func TestSQLite_EmployeesAndFilter(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveEmployee(ctx, workforce.Employee{ID: "e1", FirstName: "Mario", LastName: "Rossi", ManagerID: "boss", CurrentRole: "Carrellista"}))
	require.NoError(t, s.SaveEmployee(ctx, workforce.Employee{ID: "e2", FirstName: "Anna", LastName: "Bianchi", CoManagerID: "boss"}))
	require.NoError(t, s.SaveEmployee(ctx, workforce.Employee{ID: "e3", FirstName: "Luca", LastName: "Verdi", DepartmentID: "d1"}))

	got, err := s.ListEmployees(ctx, workforce.EmployeeFilter{ManagerID: "boss"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, workforce.EmployeeID("e2"), got[0].ID)

	byDept, err := s.ListEmployees(ctx, workforce.EmployeeFilter{DepartmentID: "d1"})
	require.NoError(t, err)
	require.Len(t, byDept, 1)
	assert.Equal(t, "Luca Verdi", byDept[0].FullName())

	e, err := s.GetEmployee(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Carrellista", e.CurrentRole)

	_, err = s.GetEmployee(ctx, "nobody")
	assert.ErrorIs(t, err, workforce.ErrEmployeeNotFound)
	assert.True(t, sqlite.IsNotFound(err))
}

func TestSQLite_RequirementsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveBanchina(ctx, workforce.Banchina{ID: "b1", Code: "B01"}))
	require.NoError(t, s.SaveRequirement(ctx, workforce.Requirement{ID: "z", BanchinaID: "b1", RoleName: "Carrellista"}))
	require.NoError(t, s.SaveRequirement(ctx, workforce.Requirement{ID: "a", BanchinaID: "b1", RoleName: "Operatore"}))

	// updating an existing requirement does not move it
	require.NoError(t, s.SaveRequirement(ctx, workforce.Requirement{ID: "z", BanchinaID: "b1", RoleName: "Mulettista"}))

	reqs, err := s.ListRequirements(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, workforce.RequirementID("z"), reqs[0].ID)
	assert.Equal(t, "Mulettista", reqs[0].RoleName)
	assert.Equal(t, workforce.RequirementID("a"), reqs[1].ID)
}

func TestSQLite_StationCodeUnique(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveBanchina(ctx, workforce.Banchina{ID: "b1", Code: "CORTILE"}))

	err := s.SaveBanchina(ctx, workforce.Banchina{ID: "b2", Code: "cortile"})
	require.Error(t, err)
	assert.True(t, sqlite.IsUniqueConstraintError(err))
}

func TestSQLite_LeavesOverlap(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveLeave(ctx, workforce.LeaveRequest{
		EmployeeID: "e1", StartDate: calendar.NewDate(2024, 6, 10), EndDate: calendar.NewDate(2024, 6, 14),
		Status: workforce.LeaveApproved, LeaveType: "ferie",
	}))
	require.NoError(t, s.SaveLeave(ctx, workforce.LeaveRequest{
		EmployeeID: "e1", StartDate: calendar.NewDate(2024, 7, 1), EndDate: calendar.NewDate(2024, 7, 1),
		Status: workforce.LeavePending,
	}))

	got, err := s.ListLeaves(ctx, calendar.NewDate(2024, 6, 14), calendar.NewDate(2024, 6, 20))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, calendar.NewDate(2024, 6, 10), got[0].StartDate)
	assert.True(t, got[0].IsApproved())
	assert.NotEmpty(t, got[0].ID)

	err = s.SaveLeave(ctx, workforce.LeaveRequest{
		EmployeeID: "e1", StartDate: calendar.NewDate(2024, 6, 14), EndDate: calendar.NewDate(2024, 6, 10),
	})
	assert.Error(t, err)
}

func TestSQLite_LeaveRequiresBothDates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	// WHEN a leave without a start date is saved
	err := s.SaveLeave(ctx, workforce.LeaveRequest{
		EmployeeID: "e1", EndDate: calendar.NewDate(2024, 6, 14), Status: workforce.LeaveApproved,
	})

	// THEN it is rejected and nothing is stored
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date and end_date are required")

	err = s.SaveLeave(ctx, workforce.LeaveRequest{EmployeeID: "e1", StartDate: calendar.NewDate(2024, 6, 10)})
	require.Error(t, err)

	// AND reading the week still works
	got, err := s.ListLeaves(ctx, calendar.NewDate(2024, 6, 10), calendar.NewDate(2024, 6, 16))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_Reset(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveEmployee(ctx, workforce.Employee{ID: "e1", LastName: "Rossi"}))
	_, err := s.SaveAssignment(ctx, workforce.ShiftAssignment{EmployeeID: "e1", WorkDate: calendar.NewDate(2024, 6, 10), ShiftType: workforce.ShiftOff})
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	emps, err := s.ListEmployees(ctx, workforce.EmployeeFilter{})
	require.NoError(t, err)
	assert.Empty(t, emps)
}
