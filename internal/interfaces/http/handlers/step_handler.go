package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/funnelmanager/funnel-composer-api/internal/application/usecases"
	"github.com/gofiber/fiber/v2"
)

type StepHandler struct {
	stepUseCase usecases.StepUseCase
}

func NewStepHandler(stepUseCase usecases.StepUseCase) *StepHandler {
	return &StepHandler{stepUseCase}
}

// stepRequest keeps the JSON payloads raw so the use case validates them
// without interpreting their schema.
type stepRequest struct {
	StepURL      string          `json:"step_url"`
	ShoppingCart json.RawMessage `json:"shopping_cart,omitempty"`
	PostMessage  bool            `json:"post_message"`
	StepCode     *string         `json:"step_code,omitempty"`
	GTMReference json.RawMessage `json:"gtm_reference,omitempty"`
}

func (r stepRequest) toInput() usecases.StepInput {
	return usecases.StepInput{
		StepURL:      r.StepURL,
		ShoppingCart: r.ShoppingCart,
		PostMessage:  r.PostMessage,
		StepCode:     r.StepCode,
		GTMReference: r.GTMReference,
	}
}

func (h *StepHandler) CreateStep(c *fiber.Ctx) error {
	var req stepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	step, err := h.stepUseCase.CreateStep(req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": step,
	})
}

func (h *StepHandler) UpdateStep(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid step id",
		})
	}

	var req stepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	step, err := h.stepUseCase.UpdateStep(id, req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data": step,
	})
}

func (h *StepHandler) DeleteStep(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid step id",
		})
	}

	if err := h.stepUseCase.DeleteStep(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *StepHandler) GetSteps(c *fiber.Ctx) error {
	steps, err := h.stepUseCase.ListSteps()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data": steps,
		"meta": fiber.Map{
			"total": len(steps),
		},
	})
}

func (h *StepHandler) GetStepsForWorkflow(c *fiber.Ctx) error {
	workflowID, err := strconv.ParseInt(c.Params("workflow_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid workflow id",
		})
	}

	steps, err := h.stepUseCase.ListStepsForWorkflow(workflowID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data": steps,
		"meta": fiber.Map{
			"total": len(steps),
		},
	})
}
