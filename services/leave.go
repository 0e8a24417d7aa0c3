package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ems/models"
	"ems/store"
	"ems/utils"
)

type LeaveService struct {
	store *store.Store
	clock utils.Clock
	log   *zap.Logger
}

func NewLeaveService(st *store.Store, clock utils.Clock, log *zap.Logger) *LeaveService {
	return &LeaveService{store: st, clock: clock, log: log}
}

func (s *LeaveService) CreateType(ctx context.Context, req models.LeaveTypeReq) (*models.LeaveType, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.store.CreateLeaveType(ctx, req)
}

func (s *LeaveService) ListTypes(ctx context.Context) ([]models.LeaveType, error) {
	return s.store.ListLeaveTypes(ctx)
}

func (s *LeaveService) UpdateType(ctx context.Context, id string, req models.LeaveTypeReq) (*models.LeaveType, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateLeaveType(ctx, id, req); err != nil {
		return nil, err
	}
	return s.store.GetLeaveType(ctx, id)
}

func (s *LeaveService) DeleteType(ctx context.Context, id string) error {
	return s.store.DeleteLeaveType(ctx, id)
}

// File validates and stores a pending request. A quota of 0 means unlimited.
func (s *LeaveService) File(ctx context.Context, actor *utils.Claims, req models.LeaveReq) (*models.LeaveRequest, error) {
	if err := ownOrStaff(actor, req.EmployeeID); err != nil {
		return nil, err
	}
	if req.EmployeeID == "" {
		return nil, models.Invalid("employee_id", "is required")
	}
	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, models.Invalid("start_date", err.Error())
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return nil, models.Invalid("end_date", err.Error())
	}
	if end.Before(start) {
		return nil, models.Invalid("end_date", "must not be before start_date")
	}
	if start.Year() != end.Year() {
		return nil, models.Invalid("end_date", "must be in the same calendar year as start_date")
	}
	days := utils.Weekdays(start, end)
	if days == 0 {
		return nil, models.Invalid("start_date", "range contains no working days")
	}

	lr := &models.LeaveRequest{
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Days:        days,
		Reason:      strings.TrimSpace(req.Reason),
	}
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		e, err := tx.GetEmployee(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if e.Status == models.EmployeeTerminated {
			return fmt.Errorf("%w: employee is terminated", models.ErrInvalidState)
		}
		lt, err := tx.GetLeaveType(ctx, req.LeaveTypeID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.Invalid("leave_type_id", "does not exist")
			}
			return err
		}

		n, err := tx.CountOverlappingLeave(ctx, req.EmployeeID, req.StartDate, req.EndDate)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: overlaps an existing leave request", models.ErrConflict)
		}

		if lt.AnnualQuota > 0 {
			used, err := tx.LeaveDaysByStatus(ctx, req.EmployeeID, lt.ID, start.Year())
			if err != nil {
				return err
			}
			committed := used[models.LeaveApproved] + used[models.LeavePending]
			if committed+days > lt.AnnualQuota {
				return fmt.Errorf("%w: insufficient %s balance, %d of %d days left",
					models.ErrInvalidState, lt.Name, max(lt.AnnualQuota-committed, 0), lt.AnnualQuota)
			}
		}
		return tx.CreateLeaveRequest(ctx, lr)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("leave filed",
		zap.String("leave_id", lr.ID),
		zap.String("employee_id", lr.EmployeeID),
		zap.Int("days", lr.Days),
	)
	return lr, nil
}

func (s *LeaveService) Approve(ctx context.Context, id, reviewerID, note string) (*models.LeaveRequest, error) {
	return s.review(ctx, id, models.LeaveApproved, reviewerID, note)
}

func (s *LeaveService) Reject(ctx context.Context, id, reviewerID, note string) (*models.LeaveRequest, error) {
	return s.review(ctx, id, models.LeaveRejected, reviewerID, note)
}

func (s *LeaveService) review(ctx context.Context, id string, to models.LeaveStatus, reviewerID, note string) (*models.LeaveRequest, error) {
	if err := s.store.TransitionLeave(ctx, id, models.LeavePending, to, &reviewerID, note); err != nil {
		return nil, err
	}
	s.log.Info("leave reviewed", zap.String("leave_id", id), zap.String("status", string(to)), zap.String("reviewer_id", reviewerID))
	return s.store.GetLeaveRequest(ctx, id)
}

// Cancel withdraws a pending request. Only its owner or staff may cancel.
func (s *LeaveService) Cancel(ctx context.Context, actor *utils.Claims, id string) (*models.LeaveRequest, error) {
	lr, err := s.store.GetLeaveRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownOrStaff(actor, lr.EmployeeID); err != nil {
		return nil, err
	}
	var by *string
	if actor != nil {
		uid := actor.UserID()
		by = &uid
	}
	if err := s.store.TransitionLeave(ctx, id, models.LeavePending, models.LeaveCancelled, by, ""); err != nil {
		return nil, err
	}
	return s.store.GetLeaveRequest(ctx, id)
}

func (s *LeaveService) Get(ctx context.Context, actor *utils.Claims, id string) (*models.LeaveRequest, error) {
	lr, err := s.store.GetLeaveRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownOrStaff(actor, lr.EmployeeID); err != nil {
		return nil, err
	}
	return lr, nil
}

func (s *LeaveService) List(ctx context.Context, actor *utils.Claims, f models.LeaveFilter) ([]models.LeaveRequest, error) {
	employeeID, err := scopeEmployee(actor, f.EmployeeID)
	if err != nil {
		return nil, err
	}
	f.EmployeeID = employeeID
	return s.store.ListLeaveRequests(ctx, f)
}

// Balance reports per leave type how many days of year are taken, pending
// and remaining. Year 0 means the current year.
func (s *LeaveService) Balance(ctx context.Context, actor *utils.Claims, employeeID string, year int) ([]models.LeaveBalance, error) {
	if err := ownOrStaff(actor, employeeID); err != nil {
		return nil, err
	}
	if year == 0 {
		year = s.clock.Now().Year()
	}
	if year < 1 || year > 9999 {
		return nil, models.Invalid("year", "is out of range")
	}
	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	types, err := s.store.ListLeaveTypes(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.LeaveBalance, 0, len(types))
	for _, lt := range types {
		used, err := s.store.LeaveDaysByStatus(ctx, employeeID, lt.ID, year)
		if err != nil {
			return nil, err
		}
		b := models.LeaveBalance{
			LeaveTypeID:   lt.ID,
			LeaveTypeName: lt.Name,
			Paid:          lt.Paid,
			Quota:         lt.AnnualQuota,
			Taken:         used[models.LeaveApproved],
			Pending:       used[models.LeavePending],
		}
		if lt.AnnualQuota > 0 {
			b.Remaining = max(lt.AnnualQuota-b.Taken-b.Pending, 0)
		}
		out = append(out, b)
	}
	return out, nil
}
