package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ems/condb/condbtest"
	"ems/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(condbtest.New(t))
}

func createEmployee(t *testing.T, s *Store, email string, deptID *string) *models.Employee {
	t.Helper()
	e, err := s.CreateEmployee(context.Background(), models.EmployeeReq{
		FirstName:    "Test",
		LastName:     email,
		Email:        email,
		DepartmentID: deptID,
		HireDate:     "2026-01-05",
		BaseSalary:   3000000,
	})
	require.NoError(t, err)
	return e
}

func TestWithTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx *Store) error {
		if _, err := tx.CreateDepartment(ctx, models.DepartmentReq{Name: "Engineering"}); err != nil {
			return err
		}
		return tx.WithTx(ctx, func(inner *Store) error { return boom })
	})
	assert.ErrorIs(t, err, boom)

	list, err := s.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.PanicsWithValue(t, "boom", func() {
		_ = s.WithTx(ctx, func(tx *Store) error {
			if _, err := tx.CreateDepartment(ctx, models.DepartmentReq{Name: "Engineering"}); err != nil {
				return err
			}
			panic("boom")
		})
	})

	// the single sqlite connection must be free again
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	list, err := s.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmployeeNumbers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	no, err := s.GenerateNextEmployeeNo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", no)

	var last *models.Employee
	for i := 1; i <= 10; i++ {
		last = createEmployee(t, s, fmt.Sprintf("e%d@example.com", i), nil)
	}
	assert.Equal(t, "EMP010", last.EmployeeNo)

	no, err = s.GenerateNextEmployeeNo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EMP011", no)
}

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	createEmployee(t, s, "ana@example.com", nil)

	_, err := s.CreateEmployee(context.Background(), models.EmployeeReq{
		FirstName: "Ana", LastName: "Again", Email: "ana@example.com",
	})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestListEmployeesFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dept, err := s.CreateDepartment(ctx, models.DepartmentReq{Name: "Finance"})
	require.NoError(t, err)

	a := createEmployee(t, s, "ana@example.com", &dept.ID)
	createEmployee(t, s, "ben@example.com", nil)
	c := createEmployee(t, s, "cara@example.com", &dept.ID)
	require.NoError(t, s.SetEmployeeStatus(ctx, c.ID, models.EmployeeTerminated))

	tests := []struct {
		name   string
		filter models.EmployeeFilter
		want   []string
	}{
		{"all", models.EmployeeFilter{}, []string{"EMP001", "EMP002", "EMP003"}},
		{"department", models.EmployeeFilter{DepartmentID: dept.ID}, []string{"EMP001", "EMP003"}},
		{"status", models.EmployeeFilter{Status: models.EmployeeTerminated}, []string{"EMP003"}},
		{"search email", models.EmployeeFilter{Query: "BEN@"}, []string{"EMP002"}},
		{"search number", models.EmployeeFilter{Query: "emp001"}, []string{"EMP001"}},
		{"page", models.EmployeeFilter{Limit: 1, Offset: 1}, []string{"EMP002"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := s.ListEmployees(ctx, tt.filter)
			require.NoError(t, err)
			var got []string
			for _, e := range list {
				got = append(got, e.EmployeeNo)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	ids, err := s.ActiveEmployeeIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Equal(t, a.ID, ids[0])
}

func TestDepartmentLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dept, err := s.CreateDepartment(ctx, models.DepartmentReq{Name: "Operations"})
	require.NoError(t, err)
	_, err = s.CreateDepartment(ctx, models.DepartmentReq{Name: "Operations"})
	assert.ErrorIs(t, err, models.ErrConflict)

	e := createEmployee(t, s, "ana@example.com", &dept.ID)

	got, err := s.GetDepartment(ctx, dept.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Headcount)

	assert.ErrorIs(t, s.DeleteDepartment(ctx, dept.ID), models.ErrConflict)

	req := models.EmployeeReq{FirstName: e.FirstName, LastName: e.LastName, Email: e.Email}
	require.NoError(t, s.UpdateEmployee(ctx, e.ID, req))
	require.NoError(t, s.DeleteDepartment(ctx, dept.ID))

	_, err = s.GetDepartment(ctx, dept.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, s.DeleteDepartment(ctx, dept.ID), models.ErrNotFound)
}

func TestAttendanceSaveAndReview(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	e := createEmployee(t, s, "ana@example.com", nil)

	in := time.Date(2026, 10, 5, 0, 5, 0, 0, time.UTC)
	selfie := "https://cdn.example.com/s.jpg"
	a := &models.Attendance{
		EmployeeID:       e.ID,
		WorkDate:         "2026-10-05",
		MorningIn:        &in,
		MorningSelfieURL: &selfie,
		Status:           models.AttendancePending,
	}
	require.NoError(t, s.SaveAttendance(ctx, a))
	require.NotEmpty(t, a.ID)

	dup := &models.Attendance{EmployeeID: e.ID, WorkDate: "2026-10-05", Status: models.AttendanceApproved}
	assert.ErrorIs(t, s.SaveAttendance(ctx, dup), models.ErrConflict)
	assert.Empty(t, dup.ID)

	out := in.Add(4 * time.Hour)
	a.MorningOut = &out
	require.NoError(t, s.SaveAttendance(ctx, a))

	got, err := s.GetAttendanceByDate(ctx, e.ID, "2026-10-05")
	require.NoError(t, err)
	require.NotNil(t, got.MorningOut)
	assert.True(t, got.MorningOut.Equal(out))
	assert.Equal(t, 240, got.WorkedMinutes())

	require.NoError(t, s.ReviewAttendance(ctx, a.ID, models.AttendanceApproved, "reviewer", "ok"))
	assert.ErrorIs(t, s.ReviewAttendance(ctx, a.ID, models.AttendanceRejected, "reviewer", ""), models.ErrInvalidState)
	assert.ErrorIs(t, s.ReviewAttendance(ctx, "missing", models.AttendanceApproved, "reviewer", ""), models.ErrNotFound)

	rows, err := s.ListAttendance(ctx, models.AttendanceFilter{EmployeeID: e.ID, From: "2026-10-01", To: "2026-10-31"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.AttendanceApproved, rows[0].Status)

	n, err := s.CountPresentOn(ctx, "2026-10-05")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLeaveRequests(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	e := createEmployee(t, s, "ana@example.com", nil)

	vacation, err := s.CreateLeaveType(ctx, models.LeaveTypeReq{Name: "Vacation", AnnualQuota: 10, Paid: true})
	require.NoError(t, err)

	lr := &models.LeaveRequest{EmployeeID: e.ID, LeaveTypeID: vacation.ID, StartDate: "2026-10-05", EndDate: "2026-10-07", Days: 3}
	require.NoError(t, s.CreateLeaveRequest(ctx, lr))
	assert.Equal(t, models.LeavePending, lr.Status)

	n, err := s.CountOverlappingLeave(ctx, e.ID, "2026-10-07", "2026-10-09")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.CountOverlappingLeave(ctx, e.ID, "2026-10-08", "2026-10-09")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	reviewer := "hr-user"
	require.NoError(t, s.TransitionLeave(ctx, lr.ID, models.LeavePending, models.LeaveApproved, &reviewer, "enjoy"))
	assert.ErrorIs(t, s.TransitionLeave(ctx, lr.ID, models.LeavePending, models.LeaveCancelled, nil, ""), models.ErrInvalidState)

	days, err := s.LeaveDaysByStatus(ctx, e.ID, vacation.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, map[models.LeaveStatus]int{models.LeaveApproved: 3}, days)

	spans, err := s.ApprovedLeaveBetween(ctx, e.ID, "2026-10-01", "2026-10-31")
	require.NoError(t, err)
	assert.Equal(t, []ApprovedLeave{{StartDate: "2026-10-05", EndDate: "2026-10-07", Paid: true}}, spans)

	assert.ErrorIs(t, s.DeleteLeaveType(ctx, vacation.ID), models.ErrConflict)
}

func TestPayslipLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	e := createEmployee(t, s, "ana@example.com", nil)

	p := &models.Payslip{
		EmployeeID: e.ID,
		Period:     "2026-10",
		BaseSalary: 3000000,
		Gross:      3000000,
		Net:        2800000,
		Currency:   "PHP",
		LineItems:  []models.LineItem{{Kind: models.LineEarning, Code: "BASE", Label: "Base salary", Amount: 3000000}},
	}
	require.NoError(t, s.InsertPayslip(ctx, p))
	assert.Equal(t, models.PayslipDraft, p.Status)

	dup := &models.Payslip{EmployeeID: e.ID, Period: "2026-10", Currency: "PHP"}
	assert.ErrorIs(t, s.InsertPayslip(ctx, dup), models.ErrConflict)

	got, err := s.GetPayslip(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.LineItems, got.LineItems)

	exists, err := s.PayslipExists(ctx, e.ID, "2026-10")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.FinalizePayslip(ctx, p.ID))
	assert.ErrorIs(t, s.FinalizePayslip(ctx, p.ID), models.ErrInvalidState)
	assert.ErrorIs(t, s.DeleteDraftPayslip(ctx, p.ID), models.ErrInvalidState)
	assert.ErrorIs(t, s.DeleteDraftPayslip(ctx, "missing"), models.ErrNotFound)

	list, err := s.ListPayslips(ctx, models.PayslipFilter{Period: "2026-10", Status: models.PayslipFinalized})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].FinalizedAt)
}

func TestApplicantStages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	posting, err := s.CreateJobPosting(ctx, models.JobPostingReq{Title: "Accountant", EmploymentType: "full_time", Status: models.JobOpen})
	require.NoError(t, err)

	a, err := s.CreateApplicant(ctx, posting.ID, models.ApplicantReq{Name: "Dana Reyes", Email: "dana@example.com"})
	require.NoError(t, err)
	_, err = s.CreateApplicant(ctx, posting.ID, models.ApplicantReq{Name: "Dana Again", Email: "dana@example.com"})
	assert.ErrorIs(t, err, models.ErrConflict)

	require.NoError(t, s.MoveApplicant(ctx, a.ID, models.StageApplied, models.StageScreening, "phone screen", nil))
	assert.ErrorIs(t, s.MoveApplicant(ctx, a.ID, models.StageApplied, models.StageRejected, "", nil), models.ErrInvalidState)

	got, err := s.GetJobPosting(ctx, posting.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Applicants)
	assert.ErrorIs(t, s.DeleteJobPosting(ctx, posting.ID), models.ErrConflict)
}

func TestActiveAnnouncements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	create := func(title string, pinned bool, published, expires *time.Time) {
		_, err := s.CreateAnnouncement(ctx, "author", models.AnnouncementReq{
			Title: title, Body: "body", Pinned: pinned, PublishedAt: published, ExpiresAt: expires,
		})
		require.NoError(t, err)
	}
	create("older", false, at(-48*time.Hour), nil)
	create("newer", false, at(-time.Hour), nil)
	create("pinned", true, at(-72*time.Hour), at(24*time.Hour))
	create("draft", false, nil, nil)
	create("expired", false, at(-72*time.Hour), at(-time.Hour))
	create("scheduled", false, at(time.Hour), nil)

	active, err := s.ListAnnouncements(ctx, &now)
	require.NoError(t, err)
	var titles []string
	for _, a := range active {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"pinned", "newer", "older"}, titles)

	all, err := s.ListAnnouncements(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}
