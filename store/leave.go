package store

import (
	"context"
	"fmt"
	"strings"

	"ems/models"
)

const leaveTypeColumns = `id, name, annual_quota, paid, created_at`

const leaveRequestColumns = `id, employee_id, leave_type_id, start_date, end_date, days, reason, status,
	reviewed_by, review_note, reviewed_at, created_at, updated_at`

func (s *Store) CreateLeaveType(ctx context.Context, req models.LeaveTypeReq) (*models.LeaveType, error) {
	lt := models.LeaveType{
		ID:          newID(),
		Name:        req.Name,
		AnnualQuota: req.AnnualQuota,
		Paid:        req.Paid,
		CreatedAt:   s.timestamp(),
	}
	_, err := s.exec(ctx,
		`INSERT INTO leave_types (id, name, annual_quota, paid, created_at) VALUES (?, ?, ?, ?, ?)`,
		lt.ID, lt.Name, lt.AnnualQuota, lt.Paid, lt.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert leave type: %w", err)
	}
	return &lt, nil
}

func (s *Store) GetLeaveType(ctx context.Context, id string) (*models.LeaveType, error) {
	var lt models.LeaveType
	if err := s.get(ctx, &lt, `SELECT `+leaveTypeColumns+` FROM leave_types WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to get leave type: %w", err)
	}
	return &lt, nil
}

func (s *Store) ListLeaveTypes(ctx context.Context) ([]models.LeaveType, error) {
	types := []models.LeaveType{}
	if err := s.selectAll(ctx, &types, `SELECT `+leaveTypeColumns+` FROM leave_types ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	return types, nil
}

func (s *Store) UpdateLeaveType(ctx context.Context, id string, req models.LeaveTypeReq) error {
	err := s.execOne(ctx, `UPDATE leave_types SET name = ?, annual_quota = ?, paid = ? WHERE id = ?`,
		req.Name, req.AnnualQuota, req.Paid, id)
	if err != nil {
		return fmt.Errorf("failed to update leave type: %w", err)
	}
	return nil
}

func (s *Store) DeleteLeaveType(ctx context.Context, id string) error {
	return s.WithTx(ctx, func(tx *Store) error {
		n, err := tx.count(ctx, `SELECT COUNT(*) FROM leave_requests WHERE leave_type_id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to count leave requests: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: leave type is used by %d requests", models.ErrConflict, n)
		}
		if err := tx.execOne(ctx, `DELETE FROM leave_types WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete leave type: %w", err)
		}
		return nil
	})
}

func (s *Store) CreateLeaveRequest(ctx context.Context, lr *models.LeaveRequest) error {
	now := s.timestamp()
	lr.ID = newID()
	lr.Status = models.LeavePending
	lr.CreatedAt = now
	lr.UpdatedAt = now

	_, err := s.exec(ctx,
		`INSERT INTO leave_requests (id, employee_id, leave_type_id, start_date, end_date, days, reason, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lr.ID, lr.EmployeeID, lr.LeaveTypeID, lr.StartDate, lr.EndDate, lr.Days, lr.Reason, string(lr.Status), lr.CreatedAt, lr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert leave request: %w", err)
	}
	return nil
}

func (s *Store) GetLeaveRequest(ctx context.Context, id string) (*models.LeaveRequest, error) {
	var lr models.LeaveRequest
	if err := s.get(ctx, &lr, `SELECT `+leaveRequestColumns+` FROM leave_requests WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to get leave request: %w", err)
	}
	return &lr, nil
}

func (s *Store) ListLeaveRequests(ctx context.Context, f models.LeaveFilter) ([]models.LeaveRequest, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.EmployeeID != "" {
		where = append(where, "employee_id = ?")
		args = append(args, f.EmployeeID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Year > 0 {
		where = append(where, "start_date >= ? AND start_date <= ?")
		args = append(args, fmt.Sprintf("%04d-01-01", f.Year), fmt.Sprintf("%04d-12-31", f.Year))
	}

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_date DESC"

	requests := []models.LeaveRequest{}
	if err := s.selectAll(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

// CountOverlappingLeave counts the employee's live requests intersecting [start, end].
func (s *Store) CountOverlappingLeave(ctx context.Context, employeeID, start, end string) (int, error) {
	return s.count(ctx,
		`SELECT COUNT(*) FROM leave_requests
		 WHERE employee_id = ? AND status IN ('pending', 'approved') AND start_date <= ? AND end_date >= ?`,
		employeeID, end, start)
}

// LeaveDaysByStatus sums request days of one type in a year, keyed by status.
func (s *Store) LeaveDaysByStatus(ctx context.Context, employeeID, leaveTypeID string, year int) (map[models.LeaveStatus]int, error) {
	var rows []struct {
		Status models.LeaveStatus `db:"status"`
		Days   int                `db:"days"`
	}
	err := s.selectAll(ctx, &rows,
		`SELECT status, SUM(days) AS days FROM leave_requests
		 WHERE employee_id = ? AND leave_type_id = ? AND start_date >= ? AND start_date <= ?
		 GROUP BY status`,
		employeeID, leaveTypeID, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum leave days: %w", err)
	}
	out := make(map[models.LeaveStatus]int, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Days
	}
	return out, nil
}

// TransitionLeave moves a request from one status to another, reporting
// models.ErrInvalidState when it is no longer in from.
func (s *Store) TransitionLeave(ctx context.Context, id string, from, to models.LeaveStatus, reviewerID *string, note string) error {
	now := s.timestamp()
	n, err := s.exec(ctx,
		`UPDATE leave_requests SET status = ?, reviewed_by = ?, review_note = ?, reviewed_at = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		string(to), reviewerID, note, now, now, id, string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if n == 0 {
		if _, err := s.GetLeaveRequest(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: leave request is not %s", models.ErrInvalidState, from)
	}
	return nil
}

// ApprovedLeave is an approved request with its type's paid flag.
type ApprovedLeave struct {
	StartDate string `db:"start_date"`
	EndDate   string `db:"end_date"`
	Paid      bool   `db:"paid"`
}

func (s *Store) ApprovedLeaveBetween(ctx context.Context, employeeID, from, to string) ([]ApprovedLeave, error) {
	leaves := []ApprovedLeave{}
	err := s.selectAll(ctx, &leaves,
		`SELECT r.start_date, r.end_date, t.paid
		 FROM leave_requests r JOIN leave_types t ON t.id = r.leave_type_id
		 WHERE r.employee_id = ? AND r.status = 'approved' AND r.start_date <= ? AND r.end_date >= ?
		 ORDER BY r.start_date`,
		employeeID, to, from,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	return leaves, nil
}

func (s *Store) CountLeaveByStatus(ctx context.Context, status models.LeaveStatus) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status = ?`, string(status))
}
