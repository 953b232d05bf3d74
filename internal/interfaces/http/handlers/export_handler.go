package handlers

import (
	"strconv"

	"github.com/funnelmanager/funnel-composer-api/internal/application/usecases"
	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	exportUseCase usecases.ExportUseCase
}

func NewExportHandler(exportUseCase usecases.ExportUseCase) *ExportHandler {
	return &ExportHandler{exportUseCase}
}

func (h *ExportHandler) ExportFunnel(c *fiber.Ctx) error {
	funnelID, err := strconv.ParseInt(c.Params("funnel_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid funnel id",
		})
	}

	snapshot, err := h.exportUseCase.ExportFunnel(funnelID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data": snapshot,
	})
}

type importRequest struct {
	Snapshot       *usecases.FunnelSnapshot `json:"snapshot"`
	UpdateExisting bool                     `json:"update_existing"`
}

func (h *ExportHandler) ImportFunnel(c *fiber.Ctx) error {
	productID, err := strconv.ParseInt(c.Params("product_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid product id",
		})
	}

	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Snapshot == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "snapshot is required",
		})
	}

	result, err := h.exportUseCase.ImportFunnel(productID, req.Snapshot, usecases.ImportOptions{
		UpdateExisting: req.UpdateExisting,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": result,
	})
}
