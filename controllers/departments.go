package controllers

import (
	"github.com/gofiber/fiber/v2"

	"ems/models"
)

func (h *Handler) GetDepartments(c *fiber.Ctx) error {
	departments, err := h.svc.Employees.ListDepartments(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(departments)
}

func (h *Handler) GetDepartmentByID(c *fiber.Ctx) error {
	d, err := h.svc.Employees.GetDepartment(c.UserContext(), c.Params("department_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(d)
}

func (h *Handler) CreateDepartment(c *fiber.Ctx) error {
	var req models.DepartmentReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	d, err := h.svc.Employees.CreateDepartment(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

func (h *Handler) UpdateDepartment(c *fiber.Ctx) error {
	var req models.DepartmentReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	d, err := h.svc.Employees.UpdateDepartment(c.UserContext(), c.Params("department_id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(d)
}

func (h *Handler) DeleteDepartment(c *fiber.Ctx) error {
	if err := h.svc.Employees.DeleteDepartment(c.UserContext(), c.Params("department_id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
