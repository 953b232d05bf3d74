package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/funnelmanager/funnel-composer-api/internal/application/usecases"
	"github.com/gofiber/fiber/v2"
)

type CompositionHandler struct {
	compositionUseCase usecases.CompositionUseCase
}

func NewCompositionHandler(compositionUseCase usecases.CompositionUseCase) *CompositionHandler {
	return &CompositionHandler{compositionUseCase}
}

func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	return id, err == nil
}

// optionalQueryID reads an optional scoping id (product_id, broker_id) from
// the query string.
func optionalQueryID(c *fiber.Ctx, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

type catalogRequest struct {
	SectionType   string `json:"section_type,omitempty"`
	ComponentType string `json:"component_type,omitempty"`
}

func (h *CompositionHandler) CreateSection(c *fiber.Ctx) error {
	var req catalogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	section, created, err := h.compositionUseCase.FindOrCreateSection(req.SectionType)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"data":    section,
		"created": created,
	})
}

func (h *CompositionHandler) GetSections(c *fiber.Ctx) error {
	sections, err := h.compositionUseCase.ListSections()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data": sections,
		"meta": fiber.Map{"total": len(sections)},
	})
}

func (h *CompositionHandler) CreateComponent(c *fiber.Ctx) error {
	var req catalogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	component, created, err := h.compositionUseCase.FindOrCreateComponent(req.ComponentType)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"data":    component,
		"created": created,
	})
}

func (h *CompositionHandler) GetComponents(c *fiber.Ctx) error {
	components, err := h.compositionUseCase.ListComponents()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data": components,
		"meta": fiber.Map{"total": len(components)},
	})
}

type attachSectionRequest struct {
	SectionID int64  `json:"section_id"`
	ProductID *int64 `json:"product_id,omitempty"`
	BrokerID  *int64 `json:"broker_id,omitempty"`
}

func (h *CompositionHandler) AttachSectionToStep(c *fiber.Ctx) error {
	stepID, ok := paramID(c, "step_id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid step id"})
	}

	var req attachSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	assoc, err := h.compositionUseCase.AttachSectionToStep(stepID, req.SectionID, req.ProductID, req.BrokerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": assoc,
	})
}

func (h *CompositionHandler) GetSectionsForStep(c *fiber.Ctx) error {
	stepID, ok := paramID(c, "step_id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid step id"})
	}

	assocs, err := h.compositionUseCase.SectionsForStep(stepID,
		optionalQueryID(c, "product_id"), optionalQueryID(c, "broker_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data": assocs,
		"meta": fiber.Map{"total": len(assocs)},
	})
}

func (h *CompositionHandler) DetachStepSection(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid step_section id"})
	}
	if err := h.compositionUseCase.DetachStepSection(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type attachComponentRequest struct {
	ComponentID int64 `json:"component_id"`
}

func (h *CompositionHandler) AttachComponentToSection(c *fiber.Ctx) error {
	sectionID, ok := paramID(c, "section_id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid section id"})
	}

	var req attachComponentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.compositionUseCase.AttachComponentToSection(sectionID, req.ComponentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": result,
	})
}

func (h *CompositionHandler) GetComponentsForSection(c *fiber.Ctx) error {
	sectionID, ok := paramID(c, "section_id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid section id"})
	}

	placements, err := h.compositionUseCase.ComponentsForSection(sectionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data": placements,
		"meta": fiber.Map{"total": len(placements)},
	})
}

func (h *CompositionHandler) DetachComponentSection(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid component_section id"})
	}
	if err := h.compositionUseCase.DetachComponentSection(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type reorderRequest struct {
	Kind     string `json:"kind"`
	ParentID int64  `json:"parent_id"`
	ItemID   int64  `json:"item_id"`
	NewOrder int    `json:"new_order"`
}

func (h *CompositionHandler) Reorder(c *fiber.Ctx) error {
	var req reorderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	err := h.compositionUseCase.Reorder(usecases.ReorderKind(req.Kind), req.ParentID, req.ItemID, req.NewOrder)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"reordered": true},
	})
}

type structureRequest struct {
	Data json.RawMessage `json:"data"`
}

func (h *CompositionHandler) UpdateStructure(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid structure id"})
	}

	var req structureRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	structure, err := h.compositionUseCase.UpdateStructureData(id, req.Data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data": structure,
	})
}

type cmsKeyRequest struct {
	Value json.RawMessage `json:"value"`
}

func (h *CompositionHandler) UpsertCmsKey(c *fiber.Ctx) error {
	id, ok := paramID(c, "scs_id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid structure_component_section id"})
	}

	var req cmsKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	key, err := h.compositionUseCase.UpsertCmsKey(id, req.Value)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data": key,
	})
}

func (h *CompositionHandler) GetCmsKey(c *fiber.Ctx) error {
	id, ok := paramID(c, "scs_id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid structure_component_section id"})
	}

	key, found, err := h.compositionUseCase.CmsKeyFor(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  key,
		"found": found,
	})
}
