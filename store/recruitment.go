package store

import (
	"context"
	"fmt"

	"ems/models"
)

const jobPostingColumns = `p.id, p.title, p.department_id, p.description, p.employment_type, p.status, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM applicants a WHERE a.job_posting_id = p.id) AS applicants`

const applicantColumns = `id, job_posting_id, name, email, phone, resume_url, stage, notes, hired_employee_id, created_at, updated_at`

func (s *Store) CreateJobPosting(ctx context.Context, req models.JobPostingReq) (*models.JobPosting, error) {
	now := s.timestamp()
	p := models.JobPosting{
		ID:             newID(),
		Title:          req.Title,
		DepartmentID:   req.DepartmentID,
		Description:    req.Description,
		EmploymentType: req.EmploymentType,
		Status:         req.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err := s.exec(ctx,
		`INSERT INTO job_postings (id, title, department_id, description, employment_type, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.DepartmentID, p.Description, p.EmploymentType, string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert job posting: %w", err)
	}
	return &p, nil
}

func (s *Store) GetJobPosting(ctx context.Context, id string) (*models.JobPosting, error) {
	var p models.JobPosting
	if err := s.get(ctx, &p, `SELECT `+jobPostingColumns+` FROM job_postings p WHERE p.id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return &p, nil
}

func (s *Store) ListJobPostings(ctx context.Context, status models.JobStatus) ([]models.JobPosting, error) {
	query := `SELECT ` + jobPostingColumns + ` FROM job_postings p`
	var args []interface{}
	if status != "" {
		query += ` WHERE p.status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY p.created_at DESC`

	postings := []models.JobPosting{}
	if err := s.selectAll(ctx, &postings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	return postings, nil
}

func (s *Store) UpdateJobPosting(ctx context.Context, id string, req models.JobPostingReq) error {
	err := s.execOne(ctx,
		`UPDATE job_postings SET title = ?, department_id = ?, description = ?, employment_type = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		req.Title, req.DepartmentID, req.Description, req.EmploymentType, string(req.Status), s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job posting: %w", err)
	}
	return nil
}

func (s *Store) DeleteJobPosting(ctx context.Context, id string) error {
	return s.WithTx(ctx, func(tx *Store) error {
		n, err := tx.count(ctx, `SELECT COUNT(*) FROM applicants WHERE job_posting_id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to count applicants: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: job posting has %d applicants, close it instead", models.ErrConflict, n)
		}
		if err := tx.execOne(ctx, `DELETE FROM job_postings WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete job posting: %w", err)
		}
		return nil
	})
}

func (s *Store) CountJobPostings(ctx context.Context, status models.JobStatus) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM job_postings WHERE status = ?`, string(status))
}

func (s *Store) CreateApplicant(ctx context.Context, postingID string, req models.ApplicantReq) (*models.Applicant, error) {
	now := s.timestamp()
	a := models.Applicant{
		ID:           newID(),
		JobPostingID: postingID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		ResumeURL:    req.ResumeURL,
		Stage:        models.StageApplied,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := s.exec(ctx,
		`INSERT INTO applicants (id, job_posting_id, name, email, phone, resume_url, stage, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, '', ?, ?)`,
		a.ID, a.JobPostingID, a.Name, a.Email, a.Phone, a.ResumeURL, string(a.Stage), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert applicant: %w", err)
	}
	return &a, nil
}

func (s *Store) GetApplicant(ctx context.Context, id string) (*models.Applicant, error) {
	var a models.Applicant
	if err := s.get(ctx, &a, `SELECT `+applicantColumns+` FROM applicants WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to get applicant: %w", err)
	}
	return &a, nil
}

func (s *Store) ListApplicants(ctx context.Context, postingID string) ([]models.Applicant, error) {
	applicants := []models.Applicant{}
	err := s.selectAll(ctx, &applicants,
		`SELECT `+applicantColumns+` FROM applicants WHERE job_posting_id = ? ORDER BY created_at ASC`, postingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	return applicants, nil
}

// MoveApplicant changes stage only if the applicant is still in from.
func (s *Store) MoveApplicant(ctx context.Context, id string, from, to models.Stage, notes string, hiredEmployeeID *string) error {
	n, err := s.exec(ctx,
		`UPDATE applicants SET stage = ?, notes = ?, hired_employee_id = ?, updated_at = ? WHERE id = ? AND stage = ?`,
		string(to), notes, hiredEmployeeID, s.timestamp(), id, string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to update applicant: %w", err)
	}
	if n == 0 {
		if _, err := s.GetApplicant(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: applicant moved concurrently", models.ErrInvalidState)
	}
	return nil
}
