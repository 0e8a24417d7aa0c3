package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ems/models"
)

const payslipColumns = `id, employee_id, period, working_days, credited_half_days, absent_half_days, late_minutes,
	base_salary, allowance, daily_rate, absence_deduction, late_deduction, gross, contributions, taxable, tax, net,
	currency, line_items, status, generated_at, finalized_at`

// InsertPayslip stores a computed payslip as a draft. A second payslip for
// the same employee and period is a models.ErrConflict.
func (s *Store) InsertPayslip(ctx context.Context, p *models.Payslip) error {
	items, err := json.Marshal(p.LineItems)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}
	p.ID = newID()
	p.Status = models.PayslipDraft
	p.GeneratedAt = s.timestamp()
	p.LineItemsJSON = string(items)

	_, err = s.exec(ctx,
		`INSERT INTO payslips (`+payslipColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.EmployeeID, p.Period, p.WorkingDays, p.CreditedHalfDays, p.AbsentHalfDays, p.LateMinutes,
		p.BaseSalary, p.Allowance, p.DailyRate, p.AbsenceDeduction, p.LateDeduction, p.Gross, p.Contributions,
		p.Taxable, p.Tax, p.Net, p.Currency, p.LineItemsJSON, string(p.Status), p.GeneratedAt, p.FinalizedAt,
	)
	if err != nil {
		p.ID = ""
		return fmt.Errorf("failed to insert payslip: %w", err)
	}
	return nil
}

func (s *Store) GetPayslip(ctx context.Context, id string) (*models.Payslip, error) {
	var p models.Payslip
	if err := s.get(ctx, &p, `SELECT `+payslipColumns+` FROM payslips WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to get payslip: %w", err)
	}
	if err := decodeLineItems(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListPayslips(ctx context.Context, f models.PayslipFilter) ([]models.Payslip, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.EmployeeID != "" {
		where = append(where, "employee_id = ?")
		args = append(args, f.EmployeeID)
	}
	if f.Period != "" {
		where = append(where, "period = ?")
		args = append(args, f.Period)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}

	query := `SELECT ` + payslipColumns + ` FROM payslips`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY period DESC, employee_id ASC"

	payslips := []models.Payslip{}
	if err := s.selectAll(ctx, &payslips, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	for i := range payslips {
		if err := decodeLineItems(&payslips[i]); err != nil {
			return nil, err
		}
	}
	return payslips, nil
}

func (s *Store) PayslipExists(ctx context.Context, employeeID, period string) (bool, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM payslips WHERE employee_id = ? AND period = ?`, employeeID, period)
	if err != nil {
		return false, fmt.Errorf("failed to check payslip: %w", err)
	}
	return n > 0, nil
}

func (s *Store) FinalizePayslip(ctx context.Context, id string) error {
	now := s.timestamp()
	n, err := s.exec(ctx,
		`UPDATE payslips SET status = 'finalized', finalized_at = ? WHERE id = ? AND status = 'draft'`, now, id)
	if err != nil {
		return fmt.Errorf("failed to finalize payslip: %w", err)
	}
	if n == 0 {
		return s.notDraft(ctx, id)
	}
	return nil
}

// DeleteDraftPayslip removes a payslip that has not been finalized.
func (s *Store) DeleteDraftPayslip(ctx context.Context, id string) error {
	n, err := s.exec(ctx, `DELETE FROM payslips WHERE id = ? AND status = 'draft'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payslip: %w", err)
	}
	if n == 0 {
		return s.notDraft(ctx, id)
	}
	return nil
}

func (s *Store) notDraft(ctx context.Context, id string) error {
	if _, err := s.GetPayslip(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: payslip is finalized", models.ErrInvalidState)
}

func (s *Store) CountPayslips(ctx context.Context, period string) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM payslips WHERE period = ?`, period)
}

func decodeLineItems(p *models.Payslip) error {
	p.LineItems = []models.LineItem{}
	if p.LineItemsJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(p.LineItemsJSON), &p.LineItems); err != nil {
		return fmt.Errorf("failed to decode line items: %w", err)
	}
	return nil
}
