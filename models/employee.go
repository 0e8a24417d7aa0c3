package models

import (
	"strings"
	"time"
)

type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "active"
	EmployeeOnLeave    EmployeeStatus = "on_leave"
	EmployeeTerminated EmployeeStatus = "terminated"
)

type Employee struct {
	ID           string         `db:"id" json:"id"`
	EmployeeNo   string         `db:"employee_no" json:"employee_no"`
	FirstName    string         `db:"first_name" json:"first_name"`
	LastName     string         `db:"last_name" json:"last_name"`
	Email        string         `db:"email" json:"email"`
	Phone        string         `db:"phone" json:"phone"`
	Address      string         `db:"address" json:"address"`
	Position     string         `db:"position" json:"position"`
	DepartmentID *string        `db:"department_id" json:"department_id,omitempty"`
	Status       EmployeeStatus `db:"status" json:"status"`
	HireDate     string         `db:"hire_date" json:"hire_date"`
	BaseSalary   int64          `db:"base_salary" json:"base_salary"` // cents per month
	Allowance    int64          `db:"allowance" json:"allowance"`     // cents per month
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// EmployeeReq is the create/update body. Status is ignored on create.
type EmployeeReq struct {
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address"`
	Position     string         `json:"position"`
	DepartmentID *string        `json:"department_id"`
	Status       EmployeeStatus `json:"status"`
	HireDate     string         `json:"hire_date"`
	BaseSalary   int64          `json:"base_salary"`
	Allowance    int64          `json:"allowance"`
}

func (r *EmployeeReq) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if r.FirstName == "" {
		return Invalid("first_name", "is required")
	}
	if r.LastName == "" {
		return Invalid("last_name", "is required")
	}
	if !validEmail(r.Email) {
		return Invalid("email", "is not a valid address")
	}
	if r.BaseSalary < 0 {
		return Invalid("base_salary", "must not be negative")
	}
	if r.Allowance < 0 {
		return Invalid("allowance", "must not be negative")
	}
	if r.HireDate != "" {
		if _, err := time.Parse(DateLayout, r.HireDate); err != nil {
			return Invalid("hire_date", "must be YYYY-MM-DD")
		}
	}
	switch r.Status {
	case "", EmployeeActive, EmployeeOnLeave, EmployeeTerminated:
	default:
		return Invalid("status", "must be active, on_leave or terminated")
	}
	if r.DepartmentID != nil && strings.TrimSpace(*r.DepartmentID) == "" {
		r.DepartmentID = nil
	}
	return nil
}

type EmployeeFilter struct {
	DepartmentID string
	Status       EmployeeStatus
	Query        string
	Limit        int
	Offset       int
}
