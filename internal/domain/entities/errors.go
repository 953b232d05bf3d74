package entities

import (
	"errors"
	"fmt"
)

// Typed domain errors. Use cases return these (usually wrapped with context)
// and the HTTP layer maps them onto statuses; raw storage errors never reach
// a response.
var (
	ErrDuplicateFunnel  = errors.New("funnel already exists")
	ErrDuplicateStepURL = errors.New("step url already exists")

	ErrUnknownProduct   = errors.New("product not found")
	ErrUnknownWorkflow  = errors.New("workflow not found")
	ErrUnknownFunnel    = errors.New("funnel not found")
	ErrUnknownStep      = errors.New("step not found")
	ErrUnknownRoute     = errors.New("route not found")
	ErrUnknownSection   = errors.New("section not found")
	ErrUnknownComponent = errors.New("component not found")
	ErrUnknownStructure = errors.New("structure not found")

	ErrSelfRoute     = errors.New("route cannot point a step at itself")
	ErrCycleDetected = errors.New("route would close a cycle")

	ErrInvalidJSON = errors.New("invalid json document")

	ErrConstraintViolation = errors.New("constraint violation")
	ErrPersistence         = errors.New("storage failure")
)

// Constraint refinements. Each wraps ErrConstraintViolation so callers can
// match the specific cause or the family.
var (
	ErrStepInUse            = fmt.Errorf("step is still referenced: %w", ErrConstraintViolation)
	ErrSectionInUse         = fmt.Errorf("section is still referenced: %w", ErrConstraintViolation)
	ErrComponentInUse       = fmt.Errorf("component is still referenced: %w", ErrConstraintViolation)
	ErrDuplicateRoute       = fmt.Errorf("route already exists: %w", ErrConstraintViolation)
	ErrDuplicateAssociation = fmt.Errorf("association already exists: %w", ErrConstraintViolation)
)
