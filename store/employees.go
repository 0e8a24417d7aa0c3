package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ems/models"
)

const employeeColumns = `id, employee_no, first_name, last_name, email, phone, address, position,
	department_id, status, hire_date, base_salary, allowance, created_at, updated_at`

// GenerateNextEmployeeNo returns EMP001 for an empty table, otherwise the
// highest existing number plus one.
func (s *Store) GenerateNextEmployeeNo(ctx context.Context) (string, error) {
	var lastNo string
	err := s.get(ctx, &lastNo,
		`SELECT employee_no
		 FROM employees
		 WHERE employee_no LIKE 'EMP%'
		 ORDER BY LENGTH(employee_no) DESC, employee_no DESC
		 LIMIT 1`,
	)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "EMP001", nil
		}
		return "", err
	}

	num, err := strconv.Atoi(strings.TrimPrefix(lastNo, "EMP"))
	if err != nil {
		return "", fmt.Errorf("invalid employee_no format: %v", err)
	}
	return fmt.Sprintf("EMP%03d", num+1), nil
}

// CreateEmployee inserts with the next employee number, retrying when a
// concurrent insert took the same number. Inside a transaction the conflict
// is returned instead, since Postgres aborts the transaction on it.
func (s *Store) CreateEmployee(ctx context.Context, req models.EmployeeReq) (*models.Employee, error) {
	now := s.timestamp()
	e := models.Employee{
		ID:           newID(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Position:     req.Position,
		DepartmentID: req.DepartmentID,
		Status:       models.EmployeeActive,
		HireDate:     req.HireDate,
		BaseSalary:   req.BaseSalary,
		Allowance:    req.Allowance,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if e.HireDate == "" {
		e.HireDate = now.Format(models.DateLayout)
	}

	for attempt := 0; ; attempt++ {
		no, err := s.GenerateNextEmployeeNo(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate employee_no: %w", err)
		}
		e.EmployeeNo = no

		_, err = s.exec(ctx,
			`INSERT INTO employees (id, employee_no, first_name, last_name, email, phone, address, position,
				department_id, status, hire_date, base_salary, allowance, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.EmployeeNo, e.FirstName, e.LastName, e.Email, e.Phone, e.Address, e.Position,
			e.DepartmentID, string(e.Status), e.HireDate, e.BaseSalary, e.Allowance, e.CreatedAt, e.UpdatedAt,
		)
		if err == nil {
			return &e, nil
		}
		if errors.Is(err, models.ErrConflict) && !s.inTx && attempt < 5 && !s.emailTaken(ctx, e.Email) {
			continue
		}
		return nil, fmt.Errorf("failed to insert employee: %w", err)
	}
}

func (s *Store) emailTaken(ctx context.Context, email string) bool {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM employees WHERE email = ?`, email)
	return err != nil || n > 0
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	var e models.Employee
	if err := s.get(ctx, &e, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context, f models.EmployeeFilter) ([]models.Employee, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.DepartmentID != "" {
		where = append(where, "department_id = ?")
		args = append(args, f.DepartmentID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		where = append(where, "(LOWER(first_name || ' ' || last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(employee_no) LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY employee_no ASC"
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	employees := []models.Employee{}
	if err := s.selectAll(ctx, &employees, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// UpdateEmployee writes the editable fields. A blank status or hire date keeps
// the stored value.
func (s *Store) UpdateEmployee(ctx context.Context, id string, req models.EmployeeReq) error {
	err := s.execOne(ctx,
		`UPDATE employees SET first_name = ?, last_name = ?, email = ?, phone = ?, address = ?, position = ?,
			department_id = ?, status = COALESCE(NULLIF(?, ''), status), hire_date = COALESCE(NULLIF(?, ''), hire_date),
			base_salary = ?, allowance = ?, updated_at = ?
		 WHERE id = ?`,
		req.FirstName, req.LastName, req.Email, req.Phone, req.Address, req.Position,
		req.DepartmentID, string(req.Status), req.HireDate, req.BaseSalary, req.Allowance, s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return nil
}

func (s *Store) SetEmployeeStatus(ctx context.Context, id string, status models.EmployeeStatus) error {
	err := s.execOne(ctx, `UPDATE employees SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), s.timestamp(), id)
	if err != nil {
		return fmt.Errorf("failed to update employee status: %w", err)
	}
	return nil
}

func (s *Store) ActiveEmployeeIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	if err := s.selectAll(ctx, &ids, `SELECT id FROM employees WHERE status <> 'terminated' ORDER BY employee_no`); err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	return ids, nil
}
