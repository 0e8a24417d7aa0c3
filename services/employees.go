package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ems/models"
	"ems/store"
	"ems/utils"
)

// EmployeeService manages employee records and the departments they belong to.
type EmployeeService struct {
	store *store.Store
	log   *zap.Logger
}

func NewEmployeeService(st *store.Store, log *zap.Logger) *EmployeeService {
	return &EmployeeService{store: st, log: log}
}

func checkDepartment(ctx context.Context, st *store.Store, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := st.GetDepartment(ctx, *id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Invalid("department_id", "does not exist")
		}
		return err
	}
	return nil
}

func (s *EmployeeService) Create(ctx context.Context, req models.EmployeeReq) (*models.Employee, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := checkDepartment(ctx, s.store, req.DepartmentID); err != nil {
		return nil, err
	}
	e, err := s.store.CreateEmployee(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("employee created", zap.String("employee_id", e.ID), zap.String("employee_no", e.EmployeeNo))
	return e, nil
}

func (s *EmployeeService) Get(ctx context.Context, actor *utils.Claims, id string) (*models.Employee, error) {
	if err := ownOrStaff(actor, id); err != nil {
		return nil, err
	}
	return s.store.GetEmployee(ctx, id)
}

func (s *EmployeeService) List(ctx context.Context, f models.EmployeeFilter) ([]models.Employee, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, models.Invalid("limit", "limit and offset must not be negative")
	}
	return s.store.ListEmployees(ctx, f)
}

func (s *EmployeeService) Update(ctx context.Context, id string, req models.EmployeeReq) (*models.Employee, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := checkDepartment(ctx, s.store, req.DepartmentID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateEmployee(ctx, id, req); err != nil {
		return nil, err
	}
	return s.store.GetEmployee(ctx, id)
}

// Terminate is the soft delete: the row stays for payroll and attendance history.
func (s *EmployeeService) Terminate(ctx context.Context, id string) error {
	if err := s.store.SetEmployeeStatus(ctx, id, models.EmployeeTerminated); err != nil {
		return err
	}
	s.log.Info("employee terminated", zap.String("employee_id", id))
	return nil
}

func (s *EmployeeService) CreateDepartment(ctx context.Context, req models.DepartmentReq) (*models.Department, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkHead(ctx, req.HeadEmployeeID); err != nil {
		return nil, err
	}
	return s.store.CreateDepartment(ctx, req)
}

func (s *EmployeeService) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	return s.store.GetDepartment(ctx, id)
}

func (s *EmployeeService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return s.store.ListDepartments(ctx)
}

func (s *EmployeeService) UpdateDepartment(ctx context.Context, id string, req models.DepartmentReq) (*models.Department, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkHead(ctx, req.HeadEmployeeID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateDepartment(ctx, id, req); err != nil {
		return nil, err
	}
	return s.store.GetDepartment(ctx, id)
}

func (s *EmployeeService) DeleteDepartment(ctx context.Context, id string) error {
	return s.store.DeleteDepartment(ctx, id)
}

func (s *EmployeeService) checkHead(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	e, err := s.store.GetEmployee(ctx, *id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Invalid("head_employee_id", "does not exist")
		}
		return err
	}
	if e.Status == models.EmployeeTerminated {
		return fmt.Errorf("%w: head employee is terminated", models.ErrInvalidState)
	}
	return nil
}
