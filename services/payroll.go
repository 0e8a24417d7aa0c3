package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ems/config"
	"ems/metrics"
	"ems/models"
	"ems/payroll"
	"ems/store"
	"ems/utils"
)

type PayrollService struct {
	store   *store.Store
	calc    *payroll.Calculator
	workers int
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewPayrollService(st *store.Store, cfg config.PayrollConfig, m *metrics.Metrics, log *zap.Logger) *PayrollService {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &PayrollService{
		store:   st,
		calc:    payroll.NewCalculator(cfg),
		workers: workers,
		metrics: m,
		log:     log,
	}
}

// compute gathers the period's attendance and approved leave and runs the
// calculator. Nothing is stored.
func (s *PayrollService) compute(ctx context.Context, st *store.Store, employeeID, period string) (*models.Payslip, error) {
	first, last, err := utils.ParsePeriod(period)
	if err != nil {
		return nil, models.Invalid("period", err.Error())
	}
	e, err := st.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if e.HireDate > utils.FormatDate(last) {
		return nil, fmt.Errorf("%w: employee was hired after %s", models.ErrInvalidState, period)
	}

	from, to := utils.FormatDate(first), utils.FormatDate(last)
	rows, err := st.ListAttendance(ctx, models.AttendanceFilter{EmployeeID: employeeID, From: from, To: to})
	if err != nil {
		return nil, err
	}
	approved, err := st.ApprovedLeaveBetween(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	leaves := make([]payroll.LeaveSpan, 0, len(approved))
	for _, l := range approved {
		leaves = append(leaves, payroll.LeaveSpan{Start: l.StartDate, End: l.EndDate, Paid: l.Paid})
	}

	return s.calc.Compute(payroll.Input{
		EmployeeID: employeeID,
		Period:     period,
		BaseSalary: e.BaseSalary,
		Allowance:  e.Allowance,
		Attendance: rows,
		Leaves:     leaves,
	})
}

// Preview computes a payslip without persisting it.
func (s *PayrollService) Preview(ctx context.Context, actor *utils.Claims, employeeID, period string) (*models.Payslip, error) {
	if err := ownOrStaff(actor, employeeID); err != nil {
		return nil, err
	}
	return s.compute(ctx, s.store, employeeID, period)
}

// Generate computes and stores a draft payslip. A payslip already present
// for the period is a models.ErrConflict.
func (s *PayrollService) Generate(ctx context.Context, employeeID, period string) (*models.Payslip, error) {
	p, err := s.generate(ctx, s.store, employeeID, period)
	if err != nil {
		return nil, err
	}
	s.log.Info("payslip generated",
		zap.String("payslip_id", p.ID),
		zap.String("employee_id", employeeID),
		zap.String("period", period),
		zap.Int64("net", p.Net),
	)
	return p, nil
}

func (s *PayrollService) generate(ctx context.Context, st *store.Store, employeeID, period string) (*models.Payslip, error) {
	p, err := s.compute(ctx, st, employeeID, period)
	if err != nil {
		return nil, err
	}
	if err := st.InsertPayslip(ctx, p); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.PayslipsGenerated.Inc()
	}
	return p, nil
}

// Recompute replaces a draft payslip with a fresh computation.
func (s *PayrollService) Recompute(ctx context.Context, id string) (*models.Payslip, error) {
	var p *models.Payslip
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		old, err := tx.GetPayslip(ctx, id)
		if err != nil {
			return err
		}
		if old.Status != models.PayslipDraft {
			return fmt.Errorf("%w: payslip is finalized", models.ErrInvalidState)
		}
		if err := tx.DeleteDraftPayslip(ctx, id); err != nil {
			return err
		}
		p, err = s.generate(ctx, tx, old.EmployeeID, old.Period)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("payslip recomputed", zap.String("payslip_id", p.ID), zap.String("replaced", id))
	return p, nil
}

func (s *PayrollService) Finalize(ctx context.Context, id string) (*models.Payslip, error) {
	if err := s.store.FinalizePayslip(ctx, id); err != nil {
		return nil, err
	}
	s.log.Info("payslip finalized", zap.String("payslip_id", id))
	return s.store.GetPayslip(ctx, id)
}

func (s *PayrollService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteDraftPayslip(ctx, id)
}

func (s *PayrollService) Get(ctx context.Context, actor *utils.Claims, id string) (*models.Payslip, error) {
	p, err := s.store.GetPayslip(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownOrStaff(actor, p.EmployeeID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PayrollService) List(ctx context.Context, actor *utils.Claims, f models.PayslipFilter) ([]models.Payslip, error) {
	employeeID, err := scopeEmployee(actor, f.EmployeeID)
	if err != nil {
		return nil, err
	}
	f.EmployeeID = employeeID
	if f.Period != "" {
		if _, _, err := utils.ParsePeriod(f.Period); err != nil {
			return nil, models.Invalid("period", err.Error())
		}
	}
	return s.store.ListPayslips(ctx, f)
}

// Run drafts payslips for every non-terminated employee that has none for
// period yet, with at most workers computations in flight.
func (s *PayrollService) Run(ctx context.Context, period string) (*models.PayrollRunResp, error) {
	if _, _, err := utils.ParsePeriod(period); err != nil {
		return nil, models.Invalid("period", err.Error())
	}
	ids, err := s.store.ActiveEmployeeIDs(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp := &models.PayrollRunResp{Period: period}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			exists, err := s.store.PayslipExists(gctx, id, period)
			if err == nil && !exists {
				_, err = s.generate(gctx, s.store, id, period)
			}

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && exists, errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrInvalidState):
				resp.Skipped++
			case err == nil:
				resp.Generated++
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			default:
				resp.Failed = append(resp.Failed, id)
				s.log.Error("payslip generation failed",
					zap.String("employee_id", id),
					zap.String("period", period),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("payroll run interrupted: %w", err)
	}
	slices.Sort(resp.Failed)

	s.log.Info("payroll run finished",
		zap.String("period", period),
		zap.Int("generated", resp.Generated),
		zap.Int("skipped", resp.Skipped),
		zap.Int("failed", len(resp.Failed)),
		zap.Duration("took", time.Since(start)),
	)
	return resp, nil
}
