package controllers

import (
	"github.com/gofiber/fiber/v2"

	"ems/models"
)

func (h *Handler) Clock(c *fiber.Ctx) error {
	var req models.ClockReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	employeeID, err := ownEmployeeID(c, req.EmployeeID)
	if err != nil {
		return h.fail(c, err)
	}

	resp, err := h.svc.Attendance.Clock(c.UserContext(), employeeID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

func (h *Handler) GetAttendance(c *fiber.Ctx) error {
	rows, err := h.svc.Attendance.List(c.UserContext(), claims(c), models.AttendanceFilter{
		EmployeeID: c.Query("employee_id"),
		From:       c.Query("from"),
		To:         c.Query("to"),
		Status:     models.AttendanceStatus(c.Query("status")),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rows)
}

func (h *Handler) GetTodayAttendance(c *fiber.Ctx) error {
	employeeID, err := ownEmployeeID(c, c.Query("employee_id"))
	if err != nil {
		return h.fail(c, err)
	}
	row, err := h.svc.Attendance.Today(c.UserContext(), employeeID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"attendance": row})
}

func (h *Handler) GetAttendanceSummary(c *fiber.Ctx) error {
	employeeID, err := ownEmployeeID(c, c.Query("employee_id"))
	if err != nil {
		return h.fail(c, err)
	}
	sum, err := h.svc.Attendance.Summary(c.UserContext(), claims(c), employeeID, c.Query("month"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sum)
}

func (h *Handler) ApproveAttendance(c *fiber.Ctx) error {
	return h.reviewAttendance(c, true)
}

func (h *Handler) RejectAttendance(c *fiber.Ctx) error {
	return h.reviewAttendance(c, false)
}

func (h *Handler) reviewAttendance(c *fiber.Ctx, approve bool) error {
	var req models.ReviewReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c)
		}
	}
	row, err := h.svc.Attendance.Review(c.UserContext(), c.Params("attendance_id"), approve, claims(c).UserID(), req.Note)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(row)
}
