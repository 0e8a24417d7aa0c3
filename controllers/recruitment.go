package controllers

import (
	"github.com/gofiber/fiber/v2"

	"ems/models"
)

func (h *Handler) GetJobPostings(c *fiber.Ctx) error {
	list, err := h.svc.Recruitment.ListPostings(c.UserContext(), models.JobStatus(c.Query("status")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) GetJobPostingByID(c *fiber.Ctx) error {
	p, err := h.svc.Recruitment.GetPosting(c.UserContext(), c.Params("job_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) CreateJobPosting(c *fiber.Ctx) error {
	var req models.JobPostingReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	p, err := h.svc.Recruitment.CreatePosting(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) UpdateJobPosting(c *fiber.Ctx) error {
	var req models.JobPostingReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	p, err := h.svc.Recruitment.UpdatePosting(c.UserContext(), c.Params("job_id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) DeleteJobPosting(c *fiber.Ctx) error {
	if err := h.svc.Recruitment.DeletePosting(c.UserContext(), c.Params("job_id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) CreateApplicant(c *fiber.Ctx) error {
	var req models.ApplicantReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	a, err := h.svc.Recruitment.Apply(c.UserContext(), c.Params("job_id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (h *Handler) GetApplicants(c *fiber.Ctx) error {
	list, err := h.svc.Recruitment.ListApplicants(c.UserContext(), c.Params("job_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) GetApplicantByID(c *fiber.Ctx) error {
	a, err := h.svc.Recruitment.GetApplicant(c.UserContext(), c.Params("applicant_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(a)
}

func (h *Handler) MoveApplicant(c *fiber.Ctx) error {
	var req models.StageReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	a, err := h.svc.Recruitment.Move(c.UserContext(), c.Params("applicant_id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(a)
}

func (h *Handler) HireApplicant(c *fiber.Ctx) error {
	var req models.HireReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	emp, err := h.svc.Recruitment.Hire(c.UserContext(), c.Params("applicant_id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(emp)
}
