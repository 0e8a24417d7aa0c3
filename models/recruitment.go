package models

import (
	"strings"
	"time"
)

type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

type JobPosting struct {
	ID             string    `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	DepartmentID   *string   `db:"department_id" json:"department_id,omitempty"`
	Description    string    `db:"description" json:"description"`
	EmploymentType string    `db:"employment_type" json:"employment_type"`
	Status         JobStatus `db:"status" json:"status"`
	Applicants     int       `db:"applicants" json:"applicants"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type JobPostingReq struct {
	Title          string    `json:"title"`
	DepartmentID   *string   `json:"department_id"`
	Description    string    `json:"description"`
	EmploymentType string    `json:"employment_type"`
	Status         JobStatus `json:"status"`
}

func (r *JobPostingReq) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return Invalid("title", "is required")
	}
	switch r.EmploymentType {
	case "":
		r.EmploymentType = "full_time"
	case "full_time", "part_time", "contract", "intern":
	default:
		return Invalid("employment_type", "must be full_time, part_time, contract or intern")
	}
	switch r.Status {
	case "":
		r.Status = JobOpen
	case JobOpen, JobClosed:
	default:
		return Invalid("status", "must be open or closed")
	}
	if r.DepartmentID != nil && strings.TrimSpace(*r.DepartmentID) == "" {
		r.DepartmentID = nil
	}
	return nil
}

type Stage string

const (
	StageApplied   Stage = "applied"
	StageScreening Stage = "screening"
	StageInterview Stage = "interview"
	StageOffer     Stage = "offer"
	StageHired     Stage = "hired"
	StageRejected  Stage = "rejected"
)

var stageOrder = map[Stage]int{
	StageApplied:   0,
	StageScreening: 1,
	StageInterview: 2,
	StageOffer:     3,
	StageHired:     4,
}

func (s Stage) Valid() bool {
	_, ok := stageOrder[s]
	return ok || s == StageRejected
}

func (s Stage) Terminal() bool {
	return s == StageHired || s == StageRejected
}

// CanMoveTo allows one step forward along the pipeline or rejection from
// any non-terminal stage. Hiring goes through Hire, not a stage move.
func (s Stage) CanMoveTo(next Stage) bool {
	if s.Terminal() {
		return false
	}
	if next == StageRejected {
		return true
	}
	if next == StageHired {
		return false
	}
	cur, ok1 := stageOrder[s]
	nxt, ok2 := stageOrder[next]
	return ok1 && ok2 && nxt == cur+1
}

type Applicant struct {
	ID              string    `db:"id" json:"id"`
	JobPostingID    string    `db:"job_posting_id" json:"job_posting_id"`
	Name            string    `db:"name" json:"name"`
	Email           string    `db:"email" json:"email"`
	Phone           string    `db:"phone" json:"phone"`
	ResumeURL       string    `db:"resume_url" json:"resume_url"`
	Stage           Stage     `db:"stage" json:"stage"`
	Notes           string    `db:"notes" json:"notes"`
	HiredEmployeeID *string   `db:"hired_employee_id" json:"hired_employee_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type ApplicantReq struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	ResumeURL string `json:"resume_url"`
}

func (r *ApplicantReq) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Name == "" {
		return Invalid("name", "is required")
	}
	if !validEmail(r.Email) {
		return Invalid("email", "is not a valid address")
	}
	return nil
}

type StageReq struct {
	Stage Stage  `json:"stage"`
	Notes string `json:"notes"`
}

type HireReq struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	BaseSalary int64  `json:"base_salary"`
	Allowance  int64  `json:"allowance"`
	HireDate   string `json:"hire_date"`
}
