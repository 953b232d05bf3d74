package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/funnelmanager/funnel-composer-api/internal/application/usecases"
	"github.com/gofiber/fiber/v2"
)

type RouteHandler struct {
	routeUseCase usecases.RouteUseCase
}

func NewRouteHandler(routeUseCase usecases.RouteUseCase) *RouteHandler {
	return &RouteHandler{routeUseCase}
}

type routeRequest struct {
	FromStepID  *int64          `json:"from_step_id"`
	ToStepID    int64           `json:"to_step_id"`
	RouteConfig json.RawMessage `json:"route_config,omitempty"`
}

func (h *RouteHandler) CreateRoute(c *fiber.Ctx) error {
	workflowID, err := strconv.ParseInt(c.Params("workflow_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid workflow id",
		})
	}

	var req routeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.ToStepID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "to_step_id is required",
		})
	}

	route, err := h.routeUseCase.CreateRoute(workflowID, req.FromStepID, req.ToStepID, req.RouteConfig)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": route,
	})
}

func (h *RouteHandler) GetRoutesForWorkflow(c *fiber.Ctx) error {
	workflowID, err := strconv.ParseInt(c.Params("workflow_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid workflow id",
		})
	}

	routes, err := h.routeUseCase.ListRoutesForWorkflow(workflowID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data": routes,
		"meta": fiber.Map{
			"total": len(routes),
		},
	})
}

func (h *RouteHandler) DeleteRoute(c *fiber.Ctx) error {
	routeID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid route id",
		})
	}

	if err := h.routeUseCase.DeleteRoute(routeID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
