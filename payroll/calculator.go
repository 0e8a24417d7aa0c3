// Package payroll computes payslips. Computation is a pure function of the
// employee's salary, the period's attendance and leave, and the deduction
// tables from config; persistence lives in the services package.
package payroll

import (
	"fmt"
	"strings"
	"time"

	"ems/config"
	"ems/models"
	"ems/utils"
)

// minutes in a standard 8 hour working day
const dayMinutes = 480

// LeaveSpan is an approved leave covering [Start, End] (YYYY-MM-DD).
type LeaveSpan struct {
	Start string
	End   string
	Paid  bool
}

// Input is everything the calculator needs for one employee and one period.
type Input struct {
	EmployeeID string
	Period     string
	BaseSalary int64
	Allowance  int64
	Attendance []models.Attendance
	Leaves     []LeaveSpan
}

type Calculator struct {
	currency      string
	contributions []config.ContributionRule
	taxBrackets   []config.TaxBracket
}

func NewCalculator(cfg config.PayrollConfig) *Calculator {
	return &Calculator{
		currency:      cfg.Currency,
		contributions: cfg.Contributions,
		taxBrackets:   cfg.TaxBrackets,
	}
}

// Compute returns an unsaved draft payslip. ID, status and timestamps are
// left for the caller.
func (c *Calculator) Compute(in Input) (*models.Payslip, error) {
	first, last, err := utils.ParsePeriod(in.Period)
	if err != nil {
		return nil, err
	}
	if in.BaseSalary < 0 || in.Allowance < 0 {
		return nil, fmt.Errorf("salary must not be negative")
	}

	cr := creditDays(first, last, in.Attendance, in.Leaves)

	workingDays := utils.Weekdays(first, last)
	p := &models.Payslip{
		EmployeeID:       in.EmployeeID,
		Period:           in.Period,
		WorkingDays:      workingDays,
		CreditedHalfDays: cr.halfDays,
		AbsentHalfDays:   2*workingDays - cr.halfDays,
		LateMinutes:      cr.lateMinutes,
		BaseSalary:       in.BaseSalary,
		Allowance:        in.Allowance,
		Currency:         c.currency,
	}

	items := []models.LineItem{
		{Kind: models.LineEarning, Code: "BASE", Label: "Base salary", Amount: in.BaseSalary},
	}
	if in.Allowance > 0 {
		items = append(items, models.LineItem{Kind: models.LineEarning, Code: "ALLOWANCE", Label: "Allowance", Amount: in.Allowance})
	}

	if workingDays > 0 {
		wd := int64(workingDays)
		p.DailyRate = mulDiv(in.BaseSalary, 1, wd)
		p.AbsenceDeduction = min(mulDiv(p.DailyRate, int64(p.AbsentHalfDays), 2), in.BaseSalary)
		p.LateDeduction = min(mulDiv(p.DailyRate, int64(p.LateMinutes), dayMinutes), in.BaseSalary-p.AbsenceDeduction)
	}
	if p.AbsenceDeduction > 0 {
		items = append(items, models.LineItem{Kind: models.LineDeduction, Code: "ABSENCE", Label: "Absences", Amount: p.AbsenceDeduction})
	}
	if p.LateDeduction > 0 {
		items = append(items, models.LineItem{Kind: models.LineDeduction, Code: "LATE", Label: "Tardiness", Amount: p.LateDeduction})
	}

	p.Gross = in.BaseSalary + in.Allowance - p.AbsenceDeduction - p.LateDeduction
	if p.Gross < 0 {
		p.Gross = 0
	}

	// contributions come out of gross in rule order and never exceed it
	room := p.Gross
	for _, rule := range c.contributions {
		amt := Contribution(rule, in.BaseSalary)
		if amt > room {
			amt = room
		}
		room -= amt
		p.Contributions += amt
		if amt > 0 {
			items = append(items, models.LineItem{
				Kind:   models.LineDeduction,
				Code:   "CONTRIB_" + strings.ToUpper(rule.Name),
				Label:  rule.Name + " contribution",
				Amount: amt,
			})
		}
	}

	p.Taxable = p.Gross - p.Contributions
	p.Tax = WithholdingTax(c.taxBrackets, p.Taxable)
	if p.Tax > 0 {
		items = append(items, models.LineItem{Kind: models.LineDeduction, Code: "TAX", Label: "Withholding tax", Amount: p.Tax})
	}

	p.Net = p.Taxable - p.Tax
	p.LineItems = items
	return p, nil
}

// Contribution computes the employee share of one rule for a monthly base salary.
func Contribution(rule config.ContributionRule, base int64) int64 {
	if base <= 0 {
		return 0
	}
	switch rule.Kind {
	case "rate":
		b := clamp(base, rule.MinBase, rule.MaxBase)
		if rule.Step > 0 {
			b = mulDiv(b, 1, rule.Step) * rule.Step
		}
		return mulDiv(b, rule.RateBP, 10000)
	case "bracket":
		for _, bk := range rule.Brackets {
			if bk.UpTo != 0 && base > bk.UpTo {
				continue
			}
			if bk.Amount > 0 {
				return bk.Amount
			}
			return mulDiv(clamp(base, 0, rule.MaxBase), bk.RateBP, 10000)
		}
	}
	return 0
}

// WithholdingTax applies the highest bracket whose threshold is below taxable.
func WithholdingTax(brackets []config.TaxBracket, taxable int64) int64 {
	var tax int64
	for _, b := range brackets {
		if taxable <= b.Over {
			break
		}
		tax = b.BaseTax + mulDiv(taxable-b.Over, b.RateBP, 10000)
	}
	return tax
}

type credit struct {
	halfDays    int
	lateMinutes int
}

// creditDays walks the weekdays of the period. Paid leave credits a full day,
// unpaid leave none, otherwise approved attendance credits each closed session
// as half a day.
func creditDays(from, to time.Time, rows []models.Attendance, leaves []LeaveSpan) credit {
	var out credit

	byDate := make(map[string]models.Attendance, len(rows))
	for _, r := range rows {
		if r.Status != models.AttendanceApproved {
			continue
		}
		byDate[r.WorkDate] = r
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !utils.IsWeekday(d) {
			continue
		}
		date := utils.FormatDate(d)
		if paid, ok := leaveOn(leaves, date); ok {
			if paid {
				out.halfDays += 2
			}
			continue
		}
		if r, ok := byDate[date]; ok {
			out.halfDays += r.CompletedSessions()
			out.lateMinutes += r.LateMinutes
		}
	}
	return out
}

func leaveOn(leaves []LeaveSpan, date string) (paid bool, ok bool) {
	for _, l := range leaves {
		if l.Start <= date && date <= l.End {
			return l.Paid, true
		}
	}
	return false, false
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		v = lo
	}
	if hi > 0 && v > hi {
		v = hi
	}
	return v
}

// mulDiv returns a*b/c rounded half up. Inputs are non-negative.
func mulDiv(a, b, c int64) int64 {
	if c == 0 {
		return 0
	}
	return (a*b + c/2) / c
}
