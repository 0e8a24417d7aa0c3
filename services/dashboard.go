package services

import (
	"context"
	"fmt"
	"time"

	"ems/models"
	"ems/store"
	"ems/utils"
)

type DashboardService struct {
	store *store.Store
	loc   *time.Location
	clock utils.Clock
}

func NewDashboardService(st *store.Store, loc *time.Location, clock utils.Clock) *DashboardService {
	return &DashboardService{store: st, loc: loc, clock: clock}
}

func (s *DashboardService) Get(ctx context.Context) (*models.Dashboard, error) {
	now := s.clock.Now().In(s.loc)
	d := &models.Dashboard{
		Date:   now.Format(models.DateLayout),
		Period: now.Format(models.PeriodLayout),
	}

	ids, err := s.store.ActiveEmployeeIDs(ctx)
	if err != nil {
		return nil, err
	}
	d.ActiveEmployees = len(ids)

	counts := []struct {
		dst *int
		fn  func() (int, error)
	}{
		{&d.PresentToday, func() (int, error) { return s.store.CountPresentOn(ctx, d.Date) }},
		{&d.PendingAttendance, func() (int, error) { return s.store.CountAttendanceByStatus(ctx, models.AttendancePending) }},
		{&d.PendingLeave, func() (int, error) { return s.store.CountLeaveByStatus(ctx, models.LeavePending) }},
		{&d.OpenJobPostings, func() (int, error) { return s.store.CountJobPostings(ctx, models.JobOpen) }},
		{&d.PayslipsThisPeriod, func() (int, error) { return s.store.CountPayslips(ctx, d.Period) }},
	}
	for _, c := range counts {
		n, err := c.fn()
		if err != nil {
			return nil, fmt.Errorf("failed to build dashboard: %w", err)
		}
		*c.dst = n
	}
	return d, nil
}
