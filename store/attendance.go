package store

import (
	"context"
	"fmt"
	"strings"

	"ems/models"
)

const attendanceColumns = `id, employee_id, work_date, morning_in, morning_out, afternoon_in, afternoon_out,
	morning_selfie_url, afternoon_selfie_url, late_minutes, status, reviewed_by, review_note, created_at, updated_at`

func (s *Store) GetAttendance(ctx context.Context, id string) (*models.Attendance, error) {
	var a models.Attendance
	if err := s.get(ctx, &a, `SELECT `+attendanceColumns+` FROM attendance WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &a, nil
}

func (s *Store) GetAttendanceByDate(ctx context.Context, employeeID, workDate string) (*models.Attendance, error) {
	var a models.Attendance
	err := s.get(ctx, &a,
		`SELECT `+attendanceColumns+` FROM attendance WHERE employee_id = ? AND work_date = ?`,
		employeeID, workDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &a, nil
}

// SaveAttendance inserts the row when ID is empty, otherwise rewrites its
// clock fields.
func (s *Store) SaveAttendance(ctx context.Context, a *models.Attendance) error {
	now := s.timestamp()
	a.UpdatedAt = now

	if a.ID == "" {
		a.ID = newID()
		a.CreatedAt = now
		_, err := s.exec(ctx,
			`INSERT INTO attendance (id, employee_id, work_date, morning_in, morning_out, afternoon_in, afternoon_out,
				morning_selfie_url, afternoon_selfie_url, late_minutes, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.EmployeeID, a.WorkDate, a.MorningIn, a.MorningOut, a.AfternoonIn, a.AfternoonOut,
			a.MorningSelfieURL, a.AfternoonSelfieURL, a.LateMinutes, string(a.Status), a.CreatedAt, a.UpdatedAt,
		)
		if err != nil {
			a.ID = ""
			return fmt.Errorf("failed to insert attendance: %w", err)
		}
		return nil
	}

	err := s.execOne(ctx,
		`UPDATE attendance SET morning_in = ?, morning_out = ?, afternoon_in = ?, afternoon_out = ?,
			morning_selfie_url = ?, afternoon_selfie_url = ?, late_minutes = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		a.MorningIn, a.MorningOut, a.AfternoonIn, a.AfternoonOut,
		a.MorningSelfieURL, a.AfternoonSelfieURL, a.LateMinutes, string(a.Status), a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	return nil
}

// ReviewAttendance moves a pending row to status. Rows that are no longer
// pending are left alone and reported as models.ErrInvalidState.
func (s *Store) ReviewAttendance(ctx context.Context, id string, status models.AttendanceStatus, reviewerID, note string) error {
	n, err := s.exec(ctx,
		`UPDATE attendance SET status = ?, reviewed_by = ?, review_note = ?, updated_at = ?
		 WHERE id = ? AND status = 'pending'`,
		string(status), reviewerID, note, s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to review attendance: %w", err)
	}
	if n == 0 {
		if _, err := s.GetAttendance(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: attendance is not pending", models.ErrInvalidState)
	}
	return nil
}

func (s *Store) ListAttendance(ctx context.Context, f models.AttendanceFilter) ([]models.Attendance, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.EmployeeID != "" {
		where = append(where, "employee_id = ?")
		args = append(args, f.EmployeeID)
	}
	if f.From != "" {
		where = append(where, "work_date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		where = append(where, "work_date <= ?")
		args = append(args, f.To)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendance`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY work_date DESC, employee_id ASC"

	rows := []models.Attendance{}
	if err := s.selectAll(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return rows, nil
}

func (s *Store) CountPresentOn(ctx context.Context, workDate string) (int, error) {
	return s.count(ctx,
		`SELECT COUNT(*) FROM attendance WHERE work_date = ? AND (morning_in IS NOT NULL OR afternoon_in IS NOT NULL)`,
		workDate)
}

func (s *Store) CountAttendanceByStatus(ctx context.Context, status models.AttendanceStatus) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM attendance WHERE status = ?`, string(status))
}
