// Package services holds the business rules between the HTTP handlers and
// the store.
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ems/config"
	"ems/metrics"
	"ems/store"
	"ems/utils"
)

type Services struct {
	Auth          *AuthService
	Employees     *EmployeeService
	Attendance    *AttendanceService
	Leave         *LeaveService
	Payroll       *PayrollService
	Recruitment   *RecruitmentService
	Announcements *AnnouncementService
	Dashboard     *DashboardService

	store *store.Store
}

// Ping checks the database connection.
func (s *Services) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// New wires every service to one store. m may be nil.
func New(st *store.Store, cfg *config.Config, clock utils.Clock, m *metrics.Metrics, log *zap.Logger) (*Services, error) {
	attendance, err := NewAttendanceService(st, cfg.Attendance, clock, m, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance service: %w", err)
	}
	issuer := utils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	return &Services{
		Auth:          NewAuthService(st, issuer, cfg.Auth.TOTPIssuer, clock, log),
		Employees:     NewEmployeeService(st, log),
		Attendance:    attendance,
		Leave:         NewLeaveService(st, clock, log),
		Payroll:       NewPayrollService(st, cfg.Payroll, m, log),
		Recruitment:   NewRecruitmentService(st, log),
		Announcements: NewAnnouncementService(st, clock),
		Dashboard:     NewDashboardService(st, cfg.Attendance.Location(), clock),
		store:         st,
	}, nil
}
