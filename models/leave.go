package models

import (
	"strings"
	"time"
)

type LeaveStatus string

const (
	LeavePending   LeaveStatus = "pending"
	LeaveApproved  LeaveStatus = "approved"
	LeaveRejected  LeaveStatus = "rejected"
	LeaveCancelled LeaveStatus = "cancelled"
)

type LeaveType struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	AnnualQuota int       `db:"annual_quota" json:"annual_quota"`
	Paid        bool      `db:"paid" json:"paid"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type LeaveTypeReq struct {
	Name        string `json:"name"`
	AnnualQuota int    `json:"annual_quota"`
	Paid        bool   `json:"paid"`
}

func (r *LeaveTypeReq) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return Invalid("name", "is required")
	}
	if r.AnnualQuota < 0 {
		return Invalid("annual_quota", "must not be negative")
	}
	return nil
}

type LeaveRequest struct {
	ID          string      `db:"id" json:"id"`
	EmployeeID  string      `db:"employee_id" json:"employee_id"`
	LeaveTypeID string      `db:"leave_type_id" json:"leave_type_id"`
	StartDate   string      `db:"start_date" json:"start_date"`
	EndDate     string      `db:"end_date" json:"end_date"`
	Days        int         `db:"days" json:"days"`
	Reason      string      `db:"reason" json:"reason"`
	Status      LeaveStatus `db:"status" json:"status"`
	ReviewedBy  *string     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewNote  *string     `db:"review_note" json:"review_note,omitempty"`
	ReviewedAt  *time.Time  `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

type LeaveReq struct {
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`
}

type LeaveFilter struct {
	EmployeeID string
	Status     LeaveStatus
	Year       int
}

type LeaveBalance struct {
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name"`
	Paid          bool   `json:"paid"`
	Quota         int    `json:"quota"`
	Taken         int    `json:"taken"`
	Pending       int    `json:"pending"`
	Remaining     int    `json:"remaining"`
}
