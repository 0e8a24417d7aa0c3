package controllers

import (
	"github.com/gofiber/fiber/v2"

	"ems/models"
	"ems/utils"
)

func (h *Handler) Login(c *fiber.Ctx) error {
	var U models.User_input
	if err := c.BodyParser(&U); err != nil {
		return badRequest(c)
	}

	token, user, err := h.svc.Auth.Login(c.UserContext(), U)
	if err != nil {
		return h.fail(c, err)
	}

	utils.SetJWTCookie(c, token, h.svc.Auth.Issuer().TTL())

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	utils.ClearJWTCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.svc.Auth.Me(c.UserContext(), claims(c).UserID())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(user)
}

func (h *Handler) SetupTOTP(c *fiber.Ctx) error {
	secret, url, err := h.svc.Auth.SetupTOTP(c.UserContext(), claims(c).UserID())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"secret": secret, "otpauth_url": url})
}

func (h *Handler) VerifyTOTP(c *fiber.Ctx) error {
	var body struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c)
	}
	if err := h.svc.Auth.VerifyTOTP(c.UserContext(), claims(c).UserID(), body.Code); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Two-factor authentication enabled"})
}

func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var req models.CreateUserReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	user, err := h.svc.Auth.CreateUser(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *Handler) GetUsers(c *fiber.Ctx) error {
	users, err := h.svc.Auth.ListUsers(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(users)
}
