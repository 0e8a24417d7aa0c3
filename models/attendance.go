package models

import "time"

type AttendanceStatus string

const (
	AttendancePending  AttendanceStatus = "pending"
	AttendanceApproved AttendanceStatus = "approved"
	AttendanceRejected AttendanceStatus = "rejected"
)

type Session string

const (
	SessionMorning   Session = "morning"
	SessionAfternoon Session = "afternoon"
)

// Attendance is one employee's work date with both clock sessions.
type Attendance struct {
	ID                 string           `db:"id" json:"id"`
	EmployeeID         string           `db:"employee_id" json:"employee_id"`
	WorkDate           string           `db:"work_date" json:"work_date"`
	MorningIn          *time.Time       `db:"morning_in" json:"morning_in"`
	MorningOut         *time.Time       `db:"morning_out" json:"morning_out"`
	AfternoonIn        *time.Time       `db:"afternoon_in" json:"afternoon_in"`
	AfternoonOut       *time.Time       `db:"afternoon_out" json:"afternoon_out"`
	MorningSelfieURL   *string          `db:"morning_selfie_url" json:"morning_selfie_url,omitempty"`
	AfternoonSelfieURL *string          `db:"afternoon_selfie_url" json:"afternoon_selfie_url,omitempty"`
	LateMinutes        int              `db:"late_minutes" json:"late_minutes"`
	Status             AttendanceStatus `db:"status" json:"status"`
	ReviewedBy         *string          `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewNote         *string          `db:"review_note" json:"review_note,omitempty"`
	CreatedAt          time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time        `db:"updated_at" json:"updated_at"`
}

// CompletedSessions counts sessions with both a clock-in and clock-out.
func (a Attendance) CompletedSessions() int {
	n := 0
	if a.MorningIn != nil && a.MorningOut != nil {
		n++
	}
	if a.AfternoonIn != nil && a.AfternoonOut != nil {
		n++
	}
	return n
}

// WorkedMinutes sums the closed sessions.
func (a Attendance) WorkedMinutes() int {
	total := 0
	if a.MorningIn != nil && a.MorningOut != nil {
		total += int(a.MorningOut.Sub(*a.MorningIn) / time.Minute)
	}
	if a.AfternoonIn != nil && a.AfternoonOut != nil {
		total += int(a.AfternoonOut.Sub(*a.AfternoonIn) / time.Minute)
	}
	return total
}

type ClockReq struct {
	Action     string  `json:"action"` // in, out
	SelfieURL  *string `json:"selfie_url"`
	EmployeeID string  `json:"employee_id"`
}

type ClockResp struct {
	Session    Session     `json:"session"`
	Action     string      `json:"action"`
	At         time.Time   `json:"at"`
	LateBy     int         `json:"late_by_minutes"`
	Attendance *Attendance `json:"attendance"`
}

type ReviewReq struct {
	Note string `json:"note"`
}

type AttendanceFilter struct {
	EmployeeID string
	From       string
	To         string
	Status     AttendanceStatus
}

type AttendanceSummary struct {
	EmployeeID     string  `json:"employee_id"`
	Month          string  `json:"month"`
	WorkingDays    int     `json:"working_days"`
	DaysPresent    int     `json:"days_present"`
	HalfDays       int     `json:"half_days"`
	LateCount      int     `json:"late_count"`
	LateMinutes    int     `json:"late_minutes"`
	WorkedMinutes  int     `json:"worked_minutes"`
	AbsentDays     float64 `json:"absent_days"`
	AttendanceRate float64 `json:"attendance_rate"`
}
