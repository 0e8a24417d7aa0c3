package controllers

import (
	"github.com/gofiber/fiber/v2"

	"ems/models"
)

func (h *Handler) GetLeaveTypes(c *fiber.Ctx) error {
	types, err := h.svc.Leave.ListTypes(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(types)
}

func (h *Handler) CreateLeaveType(c *fiber.Ctx) error {
	var req models.LeaveTypeReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	lt, err := h.svc.Leave.CreateType(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lt)
}

func (h *Handler) UpdateLeaveType(c *fiber.Ctx) error {
	var req models.LeaveTypeReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	lt, err := h.svc.Leave.UpdateType(c.UserContext(), c.Params("type_id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(lt)
}

func (h *Handler) DeleteLeaveType(c *fiber.Ctx) error {
	if err := h.svc.Leave.DeleteType(c.UserContext(), c.Params("type_id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) CreateLeave(c *fiber.Ctx) error {
	var req models.LeaveReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	employeeID, err := ownEmployeeID(c, req.EmployeeID)
	if err != nil {
		return h.fail(c, err)
	}
	req.EmployeeID = employeeID

	lr, err := h.svc.Leave.File(c.UserContext(), claims(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lr)
}

func (h *Handler) GetLeaves(c *fiber.Ctx) error {
	list, err := h.svc.Leave.List(c.UserContext(), claims(c), models.LeaveFilter{
		EmployeeID: c.Query("employee_id"),
		Status:     models.LeaveStatus(c.Query("status")),
		Year:       c.QueryInt("year"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) GetLeaveByID(c *fiber.Ctx) error {
	lr, err := h.svc.Leave.Get(c.UserContext(), claims(c), c.Params("leave_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(lr)
}

func (h *Handler) ApproveLeave(c *fiber.Ctx) error {
	var req models.ReviewReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c)
		}
	}
	lr, err := h.svc.Leave.Approve(c.UserContext(), c.Params("leave_id"), claims(c).UserID(), req.Note)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(lr)
}

func (h *Handler) RejectLeave(c *fiber.Ctx) error {
	var req models.ReviewReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c)
		}
	}
	lr, err := h.svc.Leave.Reject(c.UserContext(), c.Params("leave_id"), claims(c).UserID(), req.Note)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(lr)
}

func (h *Handler) CancelLeave(c *fiber.Ctx) error {
	lr, err := h.svc.Leave.Cancel(c.UserContext(), claims(c), c.Params("leave_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(lr)
}

func (h *Handler) GetLeaveBalance(c *fiber.Ctx) error {
	employeeID, err := ownEmployeeID(c, c.Query("employee_id"))
	if err != nil {
		return h.fail(c, err)
	}
	balance, err := h.svc.Leave.Balance(c.UserContext(), claims(c), employeeID, c.QueryInt("year"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(balance)
}
