package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ems/models"
	"ems/store"
)

type RecruitmentService struct {
	store *store.Store
	log   *zap.Logger
}

func NewRecruitmentService(st *store.Store, log *zap.Logger) *RecruitmentService {
	return &RecruitmentService{store: st, log: log}
}

func (s *RecruitmentService) CreatePosting(ctx context.Context, req models.JobPostingReq) (*models.JobPosting, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := checkDepartment(ctx, s.store, req.DepartmentID); err != nil {
		return nil, err
	}
	return s.store.CreateJobPosting(ctx, req)
}

func (s *RecruitmentService) GetPosting(ctx context.Context, id string) (*models.JobPosting, error) {
	return s.store.GetJobPosting(ctx, id)
}

func (s *RecruitmentService) ListPostings(ctx context.Context, status models.JobStatus) ([]models.JobPosting, error) {
	switch status {
	case "", models.JobOpen, models.JobClosed:
	default:
		return nil, models.Invalid("status", "must be open or closed")
	}
	return s.store.ListJobPostings(ctx, status)
}

func (s *RecruitmentService) UpdatePosting(ctx context.Context, id string, req models.JobPostingReq) (*models.JobPosting, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := checkDepartment(ctx, s.store, req.DepartmentID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateJobPosting(ctx, id, req); err != nil {
		return nil, err
	}
	return s.store.GetJobPosting(ctx, id)
}

func (s *RecruitmentService) DeletePosting(ctx context.Context, id string) error {
	return s.store.DeleteJobPosting(ctx, id)
}

// Apply adds an applicant to an open posting.
func (s *RecruitmentService) Apply(ctx context.Context, postingID string, req models.ApplicantReq) (*models.Applicant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	posting, err := s.store.GetJobPosting(ctx, postingID)
	if err != nil {
		return nil, err
	}
	if posting.Status != models.JobOpen {
		return nil, fmt.Errorf("%w: job posting is closed", models.ErrInvalidState)
	}
	a, err := s.store.CreateApplicant(ctx, postingID, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("applicant added", zap.String("applicant_id", a.ID), zap.String("job_posting_id", postingID))
	return a, nil
}

func (s *RecruitmentService) ListApplicants(ctx context.Context, postingID string) ([]models.Applicant, error) {
	if _, err := s.store.GetJobPosting(ctx, postingID); err != nil {
		return nil, err
	}
	return s.store.ListApplicants(ctx, postingID)
}

func (s *RecruitmentService) GetApplicant(ctx context.Context, id string) (*models.Applicant, error) {
	return s.store.GetApplicant(ctx, id)
}

// Move advances or rejects an applicant. Hiring goes through Hire.
func (s *RecruitmentService) Move(ctx context.Context, id string, req models.StageReq) (*models.Applicant, error) {
	if !req.Stage.Valid() {
		return nil, models.Invalid("stage", "is not a known stage")
	}
	a, err := s.store.GetApplicant(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Stage.CanMoveTo(req.Stage) {
		return nil, fmt.Errorf("%w: cannot move applicant from %s to %s", models.ErrInvalidState, a.Stage, req.Stage)
	}
	notes := a.Notes
	if n := strings.TrimSpace(req.Notes); n != "" {
		notes = n
	}
	if err := s.store.MoveApplicant(ctx, id, a.Stage, req.Stage, notes, nil); err != nil {
		return nil, err
	}
	s.log.Info("applicant moved", zap.String("applicant_id", id), zap.String("from", string(a.Stage)), zap.String("to", string(req.Stage)))
	return s.store.GetApplicant(ctx, id)
}

// Hire turns an applicant at the offer stage into an employee in the
// posting's department, in one transaction.
func (s *RecruitmentService) Hire(ctx context.Context, id string, req models.HireReq) (*models.Employee, error) {
	var e *models.Employee
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		a, err := tx.GetApplicant(ctx, id)
		if err != nil {
			return err
		}
		if a.Stage != models.StageOffer {
			return fmt.Errorf("%w: applicant must be at the offer stage to hire, is %s", models.ErrInvalidState, a.Stage)
		}
		posting, err := tx.GetJobPosting(ctx, a.JobPostingID)
		if err != nil {
			return err
		}

		first, last := req.FirstName, req.LastName
		if strings.TrimSpace(first) == "" && strings.TrimSpace(last) == "" {
			first, last = splitName(a.Name)
		}
		position := strings.TrimSpace(req.Position)
		if position == "" {
			position = posting.Title
		}
		er := models.EmployeeReq{
			FirstName:    first,
			LastName:     last,
			Email:        a.Email,
			Phone:        a.Phone,
			Position:     position,
			DepartmentID: posting.DepartmentID,
			HireDate:     req.HireDate,
			BaseSalary:   req.BaseSalary,
			Allowance:    req.Allowance,
		}
		if err := er.Validate(); err != nil {
			return err
		}
		if e, err = tx.CreateEmployee(ctx, er); err != nil {
			return err
		}
		return tx.MoveApplicant(ctx, a.ID, models.StageOffer, models.StageHired, a.Notes, &e.ID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("applicant hired",
		zap.String("applicant_id", id),
		zap.String("employee_id", e.ID),
		zap.String("employee_no", e.EmployeeNo),
	)
	return e, nil
}

// splitName takes the last word as the last name. A single word fills both.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}
