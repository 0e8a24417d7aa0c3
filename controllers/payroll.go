package controllers

import (
	"github.com/gofiber/fiber/v2"

	"ems/models"
)

func (h *Handler) RunPayroll(c *fiber.Ctx) error {
	var req models.PayrollRunReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	resp, err := h.svc.Payroll.Run(c.UserContext(), req.Period)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

func (h *Handler) PreviewPayslip(c *fiber.Ctx) error {
	employeeID, err := ownEmployeeID(c, c.Query("employee_id"))
	if err != nil {
		return h.fail(c, err)
	}
	p, err := h.svc.Payroll.Preview(c.UserContext(), claims(c), employeeID, c.Query("period"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) CreatePayslip(c *fiber.Ctx) error {
	var req models.PayslipReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if req.EmployeeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "employee_id is required"})
	}
	p, err := h.svc.Payroll.Generate(c.UserContext(), req.EmployeeID, req.Period)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) GetPayslips(c *fiber.Ctx) error {
	list, err := h.svc.Payroll.List(c.UserContext(), claims(c), models.PayslipFilter{
		EmployeeID: c.Query("employee_id"),
		Period:     c.Query("period"),
		Status:     models.PayslipStatus(c.Query("status")),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) GetPayslipByID(c *fiber.Ctx) error {
	p, err := h.svc.Payroll.Get(c.UserContext(), claims(c), c.Params("payslip_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) RecomputePayslip(c *fiber.Ctx) error {
	p, err := h.svc.Payroll.Recompute(c.UserContext(), c.Params("payslip_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) FinalizePayslip(c *fiber.Ctx) error {
	p, err := h.svc.Payroll.Finalize(c.UserContext(), c.Params("payslip_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) DeletePayslip(c *fiber.Ctx) error {
	if err := h.svc.Payroll.Delete(c.UserContext(), c.Params("payslip_id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
