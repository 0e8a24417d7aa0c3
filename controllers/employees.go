package controllers

import (
	"github.com/gofiber/fiber/v2"

	"ems/models"
)

func (h *Handler) GetEmployees(c *fiber.Ctx) error {
	employees, err := h.svc.Employees.List(c.UserContext(), models.EmployeeFilter{
		DepartmentID: c.Query("department_id"),
		Status:       models.EmployeeStatus(c.Query("status")),
		Query:        c.Query("q"),
		Limit:        c.QueryInt("limit"),
		Offset:       c.QueryInt("offset"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(employees)
}

func (h *Handler) GetEmployeeByID(c *fiber.Ctx) error {
	emp, err := h.svc.Employees.Get(c.UserContext(), claims(c), c.Params("employee_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(emp)
}

func (h *Handler) CreateEmployee(c *fiber.Ctx) error {
	var req models.EmployeeReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	emp, err := h.svc.Employees.Create(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(emp)
}

func (h *Handler) UpdateEmployee(c *fiber.Ctx) error {
	employeeID := c.Params("employee_id")
	if employeeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "employee_id is required"})
	}

	var updateData models.EmployeeReq
	if err := c.BodyParser(&updateData); err != nil {
		return badRequest(c)
	}

	emp, err := h.svc.Employees.Update(c.UserContext(), employeeID, updateData)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(emp)
}

func (h *Handler) DeleteEmployee(c *fiber.Ctx) error {
	if err := h.svc.Employees.Terminate(c.UserContext(), c.Params("employee_id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Employee terminated"})
}
