package handlers

import (
	"strconv"

	"github.com/funnelmanager/funnel-composer-api/internal/application/usecases"
	"github.com/gofiber/fiber/v2"
)

type FunnelHandler struct {
	funnelUseCase usecases.FunnelUseCase
}

func NewFunnelHandler(funnelUseCase usecases.FunnelUseCase) *FunnelHandler {
	return &FunnelHandler{funnelUseCase}
}

func (h *FunnelHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.funnelUseCase.ListProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data": products,
		"meta": fiber.Map{
			"total": len(products),
		},
	})
}

type provisionRequest struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
}

func (h *FunnelHandler) ProvisionFunnel(c *fiber.Ctx) error {
	var req provisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.ProductID == 0 || req.ProductName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "product_id and product_name are required",
		})
	}

	result, err := h.funnelUseCase.ProvisionFunnel(req.ProductID, req.ProductName)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": result,
	})
}

// GetFunnelForProduct answers found=false with a 200 when the product has no
// funnel yet; the selection page uses that to offer provisioning.
func (h *FunnelHandler) GetFunnelForProduct(c *fiber.Ctx) error {
	productID, err := strconv.ParseInt(c.Params("product_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid product id",
		})
	}

	funnel, found, err := h.funnelUseCase.FindFunnelForProduct(productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  funnel,
		"found": found,
	})
}
