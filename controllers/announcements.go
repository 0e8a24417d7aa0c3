package controllers

import (
	"github.com/gofiber/fiber/v2"

	"ems/models"
)

func (h *Handler) GetAnnouncements(c *fiber.Ctx) error {
	all := c.QueryBool("all") && claims(c).Role.Staff()
	list, err := h.svc.Announcements.List(c.UserContext(), all)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) GetAnnouncementByID(c *fiber.Ctx) error {
	a, err := h.svc.Announcements.Get(c.UserContext(), c.Params("announcement_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(a)
}

func (h *Handler) CreateAnnouncement(c *fiber.Ctx) error {
	var req models.AnnouncementReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	a, err := h.svc.Announcements.Create(c.UserContext(), claims(c).UserID(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (h *Handler) UpdateAnnouncement(c *fiber.Ctx) error {
	var req models.AnnouncementReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	a, err := h.svc.Announcements.Update(c.UserContext(), c.Params("announcement_id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(a)
}

func (h *Handler) DeleteAnnouncement(c *fiber.Ctx) error {
	if err := h.svc.Announcements.Delete(c.UserContext(), c.Params("announcement_id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
