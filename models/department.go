package models

import (
	"strings"
	"time"
)

type Department struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
	HeadEmployeeID *string   `db:"head_employee_id" json:"head_employee_id,omitempty"`
	Headcount      int       `db:"headcount" json:"headcount"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type DepartmentReq struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	HeadEmployeeID *string `json:"head_employee_id"`
}

func (r *DepartmentReq) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return Invalid("name", "is required")
	}
	if r.HeadEmployeeID != nil && strings.TrimSpace(*r.HeadEmployeeID) == "" {
		r.HeadEmployeeID = nil
	}
	return nil
}
