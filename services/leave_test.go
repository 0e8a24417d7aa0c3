package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ems/models"
)

func TestFileLeave(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	emp := e.employee(t, "ana@example.com", 0, 0)
	other := e.employee(t, "ben@example.com", 0, 0)

	vacation, err := e.Leave.CreateType(ctx, models.LeaveTypeReq{Name: "Vacation", AnnualQuota: 5, Paid: true})
	require.NoError(t, err)
	unpaid, err := e.Leave.CreateType(ctx, models.LeaveTypeReq{Name: "Unpaid"})
	require.NoError(t, err)

	file := func(actor string, typ, start, end string) (*models.LeaveRequest, error) {
		return e.Leave.File(ctx, self(actor), models.LeaveReq{
			EmployeeID: emp.ID, LeaveTypeID: typ, StartDate: start, EndDate: end, Reason: "trip",
		})
	}

	// Saturday to Sunday spans no working day
	_, err = file(emp.ID, vacation.ID, "2026-10-10", "2026-10-11")
	assertValidation(t, err, "start_date")
	_, err = file(emp.ID, vacation.ID, "2026-10-09", "2026-10-05")
	assertValidation(t, err, "end_date")
	_, err = file(emp.ID, vacation.ID, "2026-12-31", "2027-01-04")
	assertValidation(t, err, "end_date")
	_, err = file(emp.ID, "missing", "2026-10-05", "2026-10-05")
	assertValidation(t, err, "leave_type_id")
	_, err = file(other.ID, vacation.ID, "2026-10-05", "2026-10-05")
	assert.ErrorIs(t, err, models.ErrForbidden)

	week, err := file(emp.ID, vacation.ID, "2026-10-05", "2026-10-11")
	require.NoError(t, err)
	assert.Equal(t, 5, week.Days)
	assert.Equal(t, models.LeavePending, week.Status)

	_, err = file(emp.ID, unpaid.ID, "2026-10-09", "2026-10-13")
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = file(emp.ID, vacation.ID, "2026-10-19", "2026-10-19")
	assert.ErrorIs(t, err, models.ErrInvalidState)

	// unlimited quota
	long, err := file(emp.ID, unpaid.ID, "2026-10-19", "2026-10-30")
	require.NoError(t, err)
	assert.Equal(t, 10, long.Days)

	_, err = e.Leave.Reject(ctx, week.ID, "hr-user", "busy week")
	require.NoError(t, err)

	// the rejected week no longer counts against the quota or overlaps
	retry, err := file(emp.ID, vacation.ID, "2026-10-06", "2026-10-07")
	require.NoError(t, err)

	approved, err := e.Leave.Approve(ctx, retry.ID, "hr-user", "")
	require.NoError(t, err)
	assert.Equal(t, models.LeaveApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, "hr-user", *approved.ReviewedBy)

	_, err = e.Leave.Approve(ctx, retry.ID, "hr-user", "")
	assert.ErrorIs(t, err, models.ErrInvalidState)

	balance, err := e.Leave.Balance(ctx, self(emp.ID), emp.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, []models.LeaveBalance{
		{LeaveTypeID: unpaid.ID, LeaveTypeName: "Unpaid", Pending: 10},
		{LeaveTypeID: vacation.ID, LeaveTypeName: "Vacation", Paid: true, Quota: 5, Taken: 2, Remaining: 3},
	}, balance)

	_, err = e.Leave.Balance(ctx, self(other.ID), emp.ID, 2026)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestCancelLeave(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	emp := e.employee(t, "ana@example.com", 0, 0)
	other := e.employee(t, "ben@example.com", 0, 0)

	sick, err := e.Leave.CreateType(ctx, models.LeaveTypeReq{Name: "Sick", AnnualQuota: 10, Paid: true})
	require.NoError(t, err)

	lr, err := e.Leave.File(ctx, staff(), models.LeaveReq{
		EmployeeID: emp.ID, LeaveTypeID: sick.ID, StartDate: "2026-10-05", EndDate: "2026-10-05",
	})
	require.NoError(t, err)

	_, err = e.Leave.Cancel(ctx, self(other.ID), lr.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	cancelled, err := e.Leave.Cancel(ctx, self(emp.ID), lr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaveCancelled, cancelled.Status)

	_, err = e.Leave.Cancel(ctx, self(emp.ID), lr.ID)
	assert.ErrorIs(t, err, models.ErrInvalidState)
	_, err = e.Leave.Cancel(ctx, staff(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	list, err := e.Leave.List(ctx, self(emp.ID), models.LeaveFilter{Year: 2026})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = e.Leave.List(ctx, self(other.ID), models.LeaveFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, e.Leave.DeleteType(ctx, sick.ID), models.ErrConflict)
}
