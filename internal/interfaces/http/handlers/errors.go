package handlers

import (
	"errors"

	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"github.com/gofiber/fiber/v2"
)

// StatusForError maps a typed domain error onto the HTTP status the client
// renders feedback from. Raw storage text never leaves this layer: the
// response carries the typed message only.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, entities.ErrDuplicateFunnel),
		errors.Is(err, entities.ErrDuplicateStepURL),
		errors.Is(err, entities.ErrConstraintViolation):
		return fiber.StatusConflict
	case errors.Is(err, entities.ErrUnknownProduct),
		errors.Is(err, entities.ErrUnknownWorkflow),
		errors.Is(err, entities.ErrUnknownFunnel),
		errors.Is(err, entities.ErrUnknownStep),
		errors.Is(err, entities.ErrUnknownRoute),
		errors.Is(err, entities.ErrUnknownSection),
		errors.Is(err, entities.ErrUnknownComponent),
		errors.Is(err, entities.ErrUnknownStructure):
		return fiber.StatusNotFound
	case errors.Is(err, entities.ErrSelfRoute),
		errors.Is(err, entities.ErrCycleDetected),
		errors.Is(err, entities.ErrInvalidJSON):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := StatusForError(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = entities.ErrPersistence.Error()
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
