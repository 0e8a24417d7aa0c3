package controllers

import "github.com/gofiber/fiber/v2"

func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	d, err := h.svc.Dashboard.Get(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(d)
}
