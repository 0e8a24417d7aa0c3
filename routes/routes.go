package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"ems/controllers"
	"ems/metrics"
	"ems/middleware"
	"ems/models"
	"ems/utils"
)

func RegisterRoutes(app *fiber.App, h *controllers.Handler, issuer *utils.TokenIssuer, m *metrics.Metrics) {
	app.Get("/health", h.Health)
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	api := app.Group("/api/v1")

	// Login
	api.Post("/auth/login", h.Login)
	api.Post("/auth/logout", h.Logout)

	protected := api.Group("", middleware.JWTMiddleware(issuer))
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleHR)
	admin := middleware.RequireRole(models.RoleAdmin)

	protected.Get("/auth/me", h.Me)
	protected.Post("/auth/totp/setup", h.SetupTOTP)
	protected.Post("/auth/totp/verify", h.VerifyTOTP)

	// users
	protected.Get("/users", admin, h.GetUsers)
	protected.Post("/users", admin, h.CreateUser)

	// departments
	protected.Get("/departments", h.GetDepartments)
	protected.Get("/departments/:department_id", h.GetDepartmentByID)
	protected.Post("/departments", staff, h.CreateDepartment)
	protected.Put("/departments/:department_id", staff, h.UpdateDepartment)
	protected.Delete("/departments/:department_id", staff, h.DeleteDepartment)

	// Emp
	protected.Get("/employees", staff, h.GetEmployees)
	protected.Get("/employees/:employee_id", h.GetEmployeeByID)
	protected.Post("/employees", staff, h.CreateEmployee)
	protected.Put("/employees/:employee_id", staff, h.UpdateEmployee)
	protected.Delete("/employees/:employee_id", staff, h.DeleteEmployee)

	// attendance
	protected.Post("/attendance/clock", h.Clock)
	protected.Get("/attendance", h.GetAttendance)
	protected.Get("/attendance/today", h.GetTodayAttendance)
	protected.Get("/attendance/summary", h.GetAttendanceSummary)
	protected.Patch("/attendance/:attendance_id/approve", staff, h.ApproveAttendance)
	protected.Patch("/attendance/:attendance_id/reject", staff, h.RejectAttendance)

	// leave
	protected.Get("/leave/types", h.GetLeaveTypes)
	protected.Post("/leave/types", staff, h.CreateLeaveType)
	protected.Put("/leave/types/:type_id", staff, h.UpdateLeaveType)
	protected.Delete("/leave/types/:type_id", staff, h.DeleteLeaveType)
	protected.Get("/leave/balance", h.GetLeaveBalance)
	protected.Post("/leave", h.CreateLeave)
	protected.Get("/leave", h.GetLeaves)
	protected.Get("/leave/:leave_id", h.GetLeaveByID)
	protected.Patch("/leave/:leave_id/approve", staff, h.ApproveLeave)
	protected.Patch("/leave/:leave_id/reject", staff, h.RejectLeave)
	protected.Patch("/leave/:leave_id/cancel", h.CancelLeave)

	// payroll
	protected.Post("/payroll/runs", staff, h.RunPayroll)
	protected.Get("/payroll/preview", h.PreviewPayslip)
	protected.Get("/payroll/payslips", h.GetPayslips)
	protected.Post("/payroll/payslips", staff, h.CreatePayslip)
	protected.Get("/payroll/payslips/:payslip_id", h.GetPayslipByID)
	protected.Post("/payroll/payslips/:payslip_id/recompute", staff, h.RecomputePayslip)
	protected.Post("/payroll/payslips/:payslip_id/finalize", staff, h.FinalizePayslip)
	protected.Delete("/payroll/payslips/:payslip_id", staff, h.DeletePayslip)

	// recruitment
	protected.Get("/jobs", h.GetJobPostings)
	protected.Get("/jobs/:job_id", h.GetJobPostingByID)
	protected.Post("/jobs", staff, h.CreateJobPosting)
	protected.Put("/jobs/:job_id", staff, h.UpdateJobPosting)
	protected.Delete("/jobs/:job_id", staff, h.DeleteJobPosting)
	protected.Get("/jobs/:job_id/applicants", staff, h.GetApplicants)
	protected.Post("/jobs/:job_id/applicants", staff, h.CreateApplicant)
	protected.Get("/applicants/:applicant_id", staff, h.GetApplicantByID)
	protected.Patch("/applicants/:applicant_id/stage", staff, h.MoveApplicant)
	protected.Post("/applicants/:applicant_id/hire", staff, h.HireApplicant)

	// announcements
	protected.Get("/announcements", h.GetAnnouncements)
	protected.Get("/announcements/:announcement_id", h.GetAnnouncementByID)
	protected.Post("/announcements", staff, h.CreateAnnouncement)
	protected.Put("/announcements/:announcement_id", staff, h.UpdateAnnouncement)
	protected.Delete("/announcements/:announcement_id", staff, h.DeleteAnnouncement)

	protected.Get("/dashboard", staff, h.GetDashboard)
}
