package models

import "time"

type PayslipStatus string

const (
	PayslipDraft     PayslipStatus = "draft"
	PayslipFinalized PayslipStatus = "finalized"
)

const (
	LineEarning   = "earning"
	LineDeduction = "deduction"
)

// LineItem is one named amount on a payslip. Deductions are positive amounts.
type LineItem struct {
	Kind   string `json:"kind"`
	Code   string `json:"code"`
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// Payslip is the payroll result for one employee and one period. Money is in cents.
type Payslip struct {
	ID               string        `db:"id" json:"id"`
	EmployeeID       string        `db:"employee_id" json:"employee_id"`
	Period           string        `db:"period" json:"period"`
	WorkingDays      int           `db:"working_days" json:"working_days"`
	CreditedHalfDays int           `db:"credited_half_days" json:"credited_half_days"`
	AbsentHalfDays   int           `db:"absent_half_days" json:"absent_half_days"`
	LateMinutes      int           `db:"late_minutes" json:"late_minutes"`
	BaseSalary       int64         `db:"base_salary" json:"base_salary"`
	Allowance        int64         `db:"allowance" json:"allowance"`
	DailyRate        int64         `db:"daily_rate" json:"daily_rate"`
	AbsenceDeduction int64         `db:"absence_deduction" json:"absence_deduction"`
	LateDeduction    int64         `db:"late_deduction" json:"late_deduction"`
	Gross            int64         `db:"gross" json:"gross"`
	Contributions    int64         `db:"contributions" json:"contributions"`
	Taxable          int64         `db:"taxable" json:"taxable"`
	Tax              int64         `db:"tax" json:"tax"`
	Net              int64         `db:"net" json:"net"`
	Currency         string        `db:"currency" json:"currency"`
	LineItemsJSON    string        `db:"line_items" json:"-"`
	LineItems        []LineItem    `db:"-" json:"line_items"`
	Status           PayslipStatus `db:"status" json:"status"`
	GeneratedAt      time.Time     `db:"generated_at" json:"generated_at"`
	FinalizedAt      *time.Time    `db:"finalized_at" json:"finalized_at,omitempty"`
}

type PayslipReq struct {
	EmployeeID string `json:"employee_id"`
	Period     string `json:"period"`
}

type PayrollRunReq struct {
	Period string `json:"period"`
}

type PayrollRunResp struct {
	Period    string   `json:"period"`
	Generated int      `json:"generated"`
	Skipped   int      `json:"skipped"`
	Failed    []string `json:"failed,omitempty"`
}

type PayslipFilter struct {
	EmployeeID string
	Period     string
	Status     PayslipStatus
}
