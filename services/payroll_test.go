package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"ems/models"
	"ems/utils"
)

// approveFullMonth stores approved two-session rows for every weekday of period.
func approveFullMonth(t *testing.T, e *env, employeeID, period string) {
	t.Helper()
	first, last, err := utils.ParsePeriod(period)
	require.NoError(t, err)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if !utils.IsWeekday(d) {
			continue
		}
		at := func(h int) *time.Time {
			v := time.Date(d.Year(), d.Month(), d.Day(), h, 0, 0, 0, manila).UTC()
			return &v
		}
		row := &models.Attendance{
			EmployeeID:   employeeID,
			WorkDate:     utils.FormatDate(d),
			MorningIn:    at(8),
			MorningOut:   at(12),
			AfternoonIn:  at(13),
			AfternoonOut: at(17),
			Status:       models.AttendanceApproved,
		}
		require.NoError(t, e.store.SaveAttendance(context.Background(), row))
	}
}

func TestGenerateFinalizeRecompute(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	emp := e.employee(t, "ana@example.com", 3000000, 200000)
	approveFullMonth(t, e, emp.ID, "2026-10")

	preview, err := e.Payroll.Preview(ctx, self(emp.ID), emp.ID, "2026-10")
	require.NoError(t, err)
	assert.Empty(t, preview.ID)
	assert.Equal(t, int64(2824245), preview.Net)

	p, err := e.Payroll.Generate(ctx, emp.ID, "2026-10")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.PayslipDraft, p.Status)
	assert.Equal(t, preview.Net, p.Net)
	assert.Equal(t, float64(1), testutil.ToFloat64(e.metrics.PayslipsGenerated))

	_, err = e.Payroll.Generate(ctx, emp.ID, "2026-10")
	assert.ErrorIs(t, err, models.ErrConflict)

	// a salary change shows up after recompute
	_, err = e.Employees.Update(ctx, emp.ID, models.EmployeeReq{
		FirstName: emp.FirstName, LastName: emp.LastName, Email: emp.Email, BaseSalary: 3000000,
	})
	require.NoError(t, err)
	p2, err := e.Payroll.Recompute(ctx, p.ID)
	require.NoError(t, err)
	assert.NotEqual(t, p.ID, p2.ID)
	assert.Equal(t, int64(0), p2.Allowance)
	assert.Less(t, p2.Net, p.Net)

	_, err = e.Payroll.Get(ctx, staff(), p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	final, err := e.Payroll.Finalize(ctx, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayslipFinalized, final.Status)
	require.NotNil(t, final.FinalizedAt)

	_, err = e.Payroll.Recompute(ctx, p2.ID)
	assert.ErrorIs(t, err, models.ErrInvalidState)
	assert.ErrorIs(t, e.Payroll.Delete(ctx, p2.ID), models.ErrInvalidState)

	got, err := e.Payroll.Get(ctx, self(emp.ID), p2.ID)
	require.NoError(t, err)
	assert.Equal(t, final.Net, got.Net)
	assert.NotEmpty(t, got.LineItems)
}

func TestGenerateRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	emp := e.employee(t, "ana@example.com", 3000000, 0)
	other := e.employee(t, "ben@example.com", 3000000, 0)

	_, err := e.Payroll.Generate(ctx, emp.ID, "2026-13")
	assertValidation(t, err, "period")
	_, err = e.Payroll.Generate(ctx, "missing", "2026-10")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// hired 2026-01-05
	_, err = e.Payroll.Generate(ctx, emp.ID, "2025-12")
	assert.ErrorIs(t, err, models.ErrInvalidState)

	_, err = e.Payroll.Preview(ctx, self(other.ID), emp.ID, "2026-10")
	assert.ErrorIs(t, err, models.ErrForbidden)

	p, err := e.Payroll.Generate(ctx, emp.ID, "2026-10")
	require.NoError(t, err)
	_, err = e.Payroll.Get(ctx, self(other.ID), p.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	mine, err := e.Payroll.List(ctx, self(other.ID), models.PayslipFilter{})
	require.NoError(t, err)
	assert.Empty(t, mine)

	require.NoError(t, e.Payroll.Delete(ctx, p.ID))
	assert.ErrorIs(t, e.Payroll.Delete(ctx, p.ID), models.ErrNotFound)
}

func TestPayrollRun(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var ids []string
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com", "d@example.com", "e@example.com"} {
		ids = append(ids, e.employee(t, email, 2500000, 0).ID)
	}
	approveFullMonth(t, e, ids[0], "2026-10")

	_, err := e.Payroll.Generate(ctx, ids[1], "2026-10")
	require.NoError(t, err)
	require.NoError(t, e.Employees.Terminate(ctx, ids[2]))

	late, err := e.Employees.Create(ctx, models.EmployeeReq{
		FirstName: "Late", LastName: "Joiner", Email: "late@example.com", HireDate: "2026-11-02",
	})
	require.NoError(t, err)

	resp, err := e.Payroll.Run(ctx, "2026-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-10", resp.Period)
	assert.Equal(t, 3, resp.Generated)
	assert.Equal(t, 2, resp.Skipped)
	assert.Empty(t, resp.Failed)

	exists, err := e.store.PayslipExists(ctx, late.ID, "2026-10")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = e.store.PayslipExists(ctx, ids[2], "2026-10")
	require.NoError(t, err)
	assert.False(t, exists)

	again, err := e.Payroll.Run(ctx, "2026-10")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Generated)
	assert.Equal(t, 5, again.Skipped)

	_, err = e.Payroll.Run(ctx, "soon")
	assertValidation(t, err, "period")

	list, err := e.Payroll.List(ctx, staff(), models.PayslipFilter{Period: "2026-10"})
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestPayrollRunCancelled(t *testing.T) {
	e := newEnv(t)
	e.employee(t, "a@example.com", 2500000, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Payroll.Run(ctx, "2026-10")
	assert.ErrorIs(t, err, context.Canceled)
}
