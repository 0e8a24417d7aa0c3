package store

import (
	"context"
	"fmt"

	"ems/models"
)

const departmentColumns = `d.id, d.name, d.description, d.head_employee_id, d.created_at, d.updated_at,
	(SELECT COUNT(*) FROM employees e WHERE e.department_id = d.id AND e.status <> 'terminated') AS headcount`

func (s *Store) CreateDepartment(ctx context.Context, req models.DepartmentReq) (*models.Department, error) {
	now := s.timestamp()
	d := models.Department{
		ID:             newID(),
		Name:           req.Name,
		Description:    req.Description,
		HeadEmployeeID: req.HeadEmployeeID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := s.exec(ctx,
		`INSERT INTO departments (id, name, description, head_employee_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Description, d.HeadEmployeeID, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert department: %w", err)
	}
	return &d, nil
}

func (s *Store) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	var d models.Department
	if err := s.get(ctx, &d, `SELECT `+departmentColumns+` FROM departments d WHERE d.id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &d, nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]models.Department, error) {
	departments := []models.Department{}
	if err := s.selectAll(ctx, &departments, `SELECT `+departmentColumns+` FROM departments d ORDER BY d.name ASC`); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

func (s *Store) UpdateDepartment(ctx context.Context, id string, req models.DepartmentReq) error {
	err := s.execOne(ctx,
		`UPDATE departments SET name = ?, description = ?, head_employee_id = ?, updated_at = ? WHERE id = ?`,
		req.Name, req.Description, req.HeadEmployeeID, s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}
	return nil
}

// DeleteDepartment refuses while any employee row still references it.
func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	return s.WithTx(ctx, func(tx *Store) error {
		n, err := tx.count(ctx, `SELECT COUNT(*) FROM employees WHERE department_id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: department still has %d employees", models.ErrConflict, n)
		}
		if _, err := tx.exec(ctx, `UPDATE job_postings SET department_id = NULL WHERE department_id = ?`, id); err != nil {
			return fmt.Errorf("failed to detach job postings: %w", err)
		}
		if err := tx.execOne(ctx, `DELETE FROM departments WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete department: %w", err)
		}
		return nil
	})
}
