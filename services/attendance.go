package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"ems/config"
	"ems/metrics"
	"ems/models"
	"ems/store"
	"ems/utils"
)

type AttendanceService struct {
	store          *store.Store
	clock          utils.Clock
	metrics        *metrics.Metrics
	log            *zap.Logger
	loc            *time.Location
	morningStart   int
	afternoonStart int
	cutoff         int
	grace          int
	requireSelfie  bool
}

func NewAttendanceService(st *store.Store, cfg config.AttendanceConfig, clock utils.Clock, m *metrics.Metrics, log *zap.Logger) (*AttendanceService, error) {
	s := &AttendanceService{
		store:         st,
		clock:         clock,
		metrics:       m,
		log:           log,
		loc:           cfg.Location(),
		grace:         cfg.GraceMinutes,
		requireSelfie: cfg.RequireSelfie,
	}
	var err error
	if s.morningStart, err = config.ParseClock(cfg.MorningStart); err != nil {
		return nil, fmt.Errorf("invalid morning start: %w", err)
	}
	if s.afternoonStart, err = config.ParseClock(cfg.AfternoonStart); err != nil {
		return nil, fmt.Errorf("invalid afternoon start: %w", err)
	}
	if s.cutoff, err = config.ParseClock(cfg.SessionCutoff); err != nil {
		return nil, fmt.Errorf("invalid session cutoff: %w", err)
	}
	return s, nil
}

// lateBy returns minutes after the session start, or 0 within the grace window.
func (s *AttendanceService) lateBy(minute, start int) int {
	if minute <= start+s.grace {
		return 0
	}
	return minute - start
}

// Clock records a clock-in or clock-out for employeeID at the current time.
func (s *AttendanceService) Clock(ctx context.Context, employeeID string, req models.ClockReq) (*models.ClockResp, error) {
	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action != "in" && action != "out" {
		return nil, models.Invalid("action", "must be in or out")
	}
	selfie := req.SelfieURL
	if selfie != nil && strings.TrimSpace(*selfie) == "" {
		selfie = nil
	}
	if action == "in" && s.requireSelfie && selfie == nil {
		return nil, models.Invalid("selfie_url", "is required to clock in")
	}

	now := s.clock.Now().In(s.loc)
	workDate := now.Format(models.DateLayout)
	minute := now.Hour()*60 + now.Minute()
	at := now.UTC()

	resp := &models.ClockResp{Action: action, At: at}
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		e, err := tx.GetEmployee(ctx, employeeID)
		if err != nil {
			return err
		}
		if e.Status == models.EmployeeTerminated {
			return fmt.Errorf("%w: employee is terminated", models.ErrInvalidState)
		}

		row, err := tx.GetAttendanceByDate(ctx, employeeID, workDate)
		switch {
		case errors.Is(err, models.ErrNotFound):
			row = &models.Attendance{EmployeeID: employeeID, WorkDate: workDate, Status: models.AttendanceApproved}
		case err != nil:
			return err
		}

		if action == "in" {
			if err := s.clockIn(row, resp, minute, at, selfie); err != nil {
				return err
			}
		} else if err := clockOut(row, resp, at); err != nil {
			return err
		}

		if err := tx.SaveAttendance(ctx, row); err != nil {
			return err
		}
		resp.Attendance = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ClockEvents.WithLabelValues(string(resp.Session), action).Inc()
	}
	s.log.Info("attendance clock",
		zap.String("employee_id", employeeID),
		zap.String("work_date", workDate),
		zap.String("session", string(resp.Session)),
		zap.String("action", action),
		zap.Int("late_by", resp.LateBy),
	)
	return resp, nil
}

func (s *AttendanceService) clockIn(row *models.Attendance, resp *models.ClockResp, minute int, at time.Time, selfie *string) error {
	if minute < s.cutoff {
		resp.Session = models.SessionMorning
		if row.MorningIn != nil {
			return fmt.Errorf("%w: already clocked in for the morning session", models.ErrConflict)
		}
		row.MorningIn = &at
		row.MorningSelfieURL = selfie
		resp.LateBy = s.lateBy(minute, s.morningStart)
	} else {
		resp.Session = models.SessionAfternoon
		if row.AfternoonIn != nil {
			return fmt.Errorf("%w: already clocked in for the afternoon session", models.ErrConflict)
		}
		if row.MorningIn != nil && row.MorningOut == nil {
			return fmt.Errorf("%w: clock out of the morning session first", models.ErrInvalidState)
		}
		row.AfternoonIn = &at
		row.AfternoonSelfieURL = selfie
		resp.LateBy = s.lateBy(minute, s.afternoonStart)
	}

	row.LateMinutes += resp.LateBy
	if selfie != nil {
		row.Status = models.AttendancePending
		row.ReviewedBy = nil
		row.ReviewNote = nil
	}
	return nil
}

func clockOut(row *models.Attendance, resp *models.ClockResp, at time.Time) error {
	switch {
	case row.AfternoonIn != nil && row.AfternoonOut == nil:
		resp.Session = models.SessionAfternoon
		row.AfternoonOut = &at
	case row.MorningIn != nil && row.MorningOut == nil:
		resp.Session = models.SessionMorning
		row.MorningOut = &at
	default:
		return fmt.Errorf("%w: no open session to clock out of", models.ErrInvalidState)
	}
	return nil
}

func (s *AttendanceService) Review(ctx context.Context, id string, approve bool, reviewerID, note string) (*models.Attendance, error) {
	status := models.AttendanceRejected
	if approve {
		status = models.AttendanceApproved
	}
	if !approve && strings.TrimSpace(note) == "" {
		return nil, models.Invalid("note", "is required when rejecting")
	}
	if err := s.store.ReviewAttendance(ctx, id, status, reviewerID, note); err != nil {
		return nil, err
	}
	s.log.Info("attendance reviewed", zap.String("attendance_id", id), zap.String("status", string(status)))
	return s.store.GetAttendance(ctx, id)
}

func (s *AttendanceService) List(ctx context.Context, actor *utils.Claims, f models.AttendanceFilter) ([]models.Attendance, error) {
	employeeID, err := scopeEmployee(actor, f.EmployeeID)
	if err != nil {
		return nil, err
	}
	f.EmployeeID = employeeID
	for field, v := range map[string]string{"from": f.From, "to": f.To} {
		if v == "" {
			continue
		}
		if _, err := utils.ParseDate(v); err != nil {
			return nil, models.Invalid(field, err.Error())
		}
	}
	switch f.Status {
	case "", models.AttendancePending, models.AttendanceApproved, models.AttendanceRejected:
	default:
		return nil, models.Invalid("status", "must be pending, approved or rejected")
	}
	return s.store.ListAttendance(ctx, f)
}

// Today returns the employee's row for the current local date, or nil.
func (s *AttendanceService) Today(ctx context.Context, employeeID string) (*models.Attendance, error) {
	workDate := s.clock.Now().In(s.loc).Format(models.DateLayout)
	row, err := s.store.GetAttendanceByDate(ctx, employeeID, workDate)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	return row, err
}

// Summary aggregates one month. In the current month only working days up
// to today count; rejected rows are ignored.
func (s *AttendanceService) Summary(ctx context.Context, actor *utils.Claims, employeeID, month string) (*models.AttendanceSummary, error) {
	if err := ownOrStaff(actor, employeeID); err != nil {
		return nil, err
	}
	first, last, err := utils.ParsePeriod(month)
	if err != nil {
		return nil, models.Invalid("month", err.Error())
	}
	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	now := s.clock.Now().In(s.loc)
	today, _ := utils.ParseDate(now.Format(models.DateLayout))
	until := last
	if today.Before(until) {
		until = today
	}

	rows, err := s.store.ListAttendance(ctx, models.AttendanceFilter{
		EmployeeID: employeeID,
		From:       utils.FormatDate(first),
		To:         utils.FormatDate(last),
	})
	if err != nil {
		return nil, err
	}

	sum := &models.AttendanceSummary{EmployeeID: employeeID, Month: month}
	if !until.Before(first) {
		sum.WorkingDays = utils.Weekdays(first, until)
	}

	credited := 0
	for _, r := range rows {
		if r.Status == models.AttendanceRejected {
			continue
		}
		switch r.CompletedSessions() {
		case 2:
			sum.DaysPresent++
		case 1:
			sum.HalfDays++
		}
		if d, err := utils.ParseDate(r.WorkDate); err == nil && utils.IsWeekday(d) {
			credited += r.CompletedSessions()
		}
		if r.LateMinutes > 0 {
			sum.LateCount++
			sum.LateMinutes += r.LateMinutes
		}
		sum.WorkedMinutes += r.WorkedMinutes()
	}

	if absent := float64(2*sum.WorkingDays-credited) / 2; absent > 0 {
		sum.AbsentDays = absent
	}
	if sum.WorkingDays > 0 {
		rate := float64(credited) / float64(2*sum.WorkingDays) * 100
		sum.AttendanceRate = math.Round(math.Min(rate, 100)*100) / 100
	}
	return sum, nil
}
