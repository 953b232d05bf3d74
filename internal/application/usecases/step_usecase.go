package usecases

import (
	"errors"
	"fmt"
	"time"

	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"github.com/funnelmanager/funnel-composer-api/internal/domain/repositories"
	"github.com/funnelmanager/funnel-composer-api/internal/infrastructure/cache"
	"gorm.io/gorm"
)

// StepInput carries the user-supplied step fields. The JSON payloads arrive
// raw and are validated, never interpreted.
type StepInput struct {
	StepURL      string  `json:"step_url"`
	ShoppingCart []byte  `json:"shopping_cart,omitempty"`
	PostMessage  bool    `json:"post_message"`
	StepCode     *string `json:"step_code,omitempty"`
	GTMReference []byte  `json:"gtm_reference,omitempty"`
}

type StepUseCase interface {
	CreateStep(input StepInput) (*entities.Step, error)
	UpdateStep(id int64, input StepInput) (*entities.Step, error)
	DeleteStep(id int64) error
	ListSteps() ([]entities.Step, error)
	ListStepsForWorkflow(workflowID int64) ([]entities.Step, error)
}

type stepUseCase struct {
	db         *gorm.DB
	steps      repositories.StepRepository
	routes     repositories.RouteRepository
	sections   repositories.SectionRepository
	catalog    *cache.Cache
	catalogTTL time.Duration
}

func NewStepUseCase(db *gorm.DB, catalog *cache.Cache, catalogTTL time.Duration) StepUseCase {
	return &stepUseCase{
		db:         db,
		steps:      repositories.NewStepRepository(db),
		routes:     repositories.NewRouteRepository(db),
		sections:   repositories.NewSectionRepository(db),
		catalog:    catalog,
		catalogTTL: catalogTTL,
	}
}

func (uc *stepUseCase) CreateStep(input StepInput) (*entities.Step, error) {
	if input.StepURL == "" {
		return nil, fmt.Errorf("%w: step_url is required", entities.ErrConstraintViolation)
	}

	cart, err := entities.ParseDocument(input.ShoppingCart)
	if err != nil {
		return nil, fmt.Errorf("shopping_cart: %w", err)
	}
	gtm, err := entities.ParseDocument(input.GTMReference)
	if err != nil {
		return nil, fmt.Errorf("gtm_reference: %w", err)
	}

	// Advisory pre-check; the unique index settles races either way.
	if _, err := uc.steps.FindByURL(input.StepURL); err == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrDuplicateStepURL, input.StepURL)
	} else if !errors.Is(err, entities.ErrUnknownStep) {
		return nil, err
	}

	step := &entities.Step{
		StepURL:      input.StepURL,
		ShoppingCart: cart,
		PostMessage:  input.PostMessage,
		StepCode:     input.StepCode,
		GTMReference: gtm,
	}
	if err := uc.steps.Create(step); err != nil {
		return nil, err
	}

	uc.catalog.Invalidate(cache.KeySteps)
	return step, nil
}

func (uc *stepUseCase) UpdateStep(id int64, input StepInput) (*entities.Step, error) {
	step, err := uc.steps.FindByID(id)
	if err != nil {
		return nil, err
	}

	if input.StepURL != "" && input.StepURL != step.StepURL {
		if existing, err := uc.steps.FindByURL(input.StepURL); err == nil && existing.ID != id {
			return nil, fmt.Errorf("%w: %s", entities.ErrDuplicateStepURL, input.StepURL)
		} else if err != nil && !errors.Is(err, entities.ErrUnknownStep) {
			return nil, err
		}
		step.StepURL = input.StepURL
	}

	if input.ShoppingCart != nil {
		cart, err := entities.ParseDocument(input.ShoppingCart)
		if err != nil {
			return nil, fmt.Errorf("shopping_cart: %w", err)
		}
		step.ShoppingCart = cart
	}
	if input.GTMReference != nil {
		gtm, err := entities.ParseDocument(input.GTMReference)
		if err != nil {
			return nil, fmt.Errorf("gtm_reference: %w", err)
		}
		step.GTMReference = gtm
	}
	if input.StepCode != nil {
		step.StepCode = input.StepCode
	}
	step.PostMessage = input.PostMessage

	if err := uc.steps.Update(step); err != nil {
		return nil, err
	}

	uc.catalog.Invalidate(cache.KeySteps)
	return step, nil
}

// DeleteStep refuses to remove a step that any route or section placement
// still references; the caller must detach those first.
func (uc *stepUseCase) DeleteStep(id int64) error {
	if _, err := uc.steps.FindByID(id); err != nil {
		return err
	}

	routeRefs, err := uc.routes.CountForStep(id)
	if err != nil {
		return err
	}
	sectionRefs, err := uc.sections.CountStepSectionsForStep(id)
	if err != nil {
		return err
	}
	if routeRefs > 0 || sectionRefs > 0 {
		return fmt.Errorf("%w: %d routes, %d sections", entities.ErrStepInUse, routeRefs, sectionRefs)
	}

	if err := uc.steps.Delete(id); err != nil {
		return err
	}

	uc.catalog.Invalidate(cache.KeySteps)
	return nil
}

func (uc *stepUseCase) ListSteps() ([]entities.Step, error) {
	value, err := uc.catalog.GetOrLoad(cache.KeySteps, uc.catalogTTL, func() (interface{}, error) {
		return uc.steps.GetSteps()
	})
	if err != nil {
		return nil, err
	}
	return value.([]entities.Step), nil
}

func (uc *stepUseCase) ListStepsForWorkflow(workflowID int64) ([]entities.Step, error) {
	return uc.steps.GetStepsForWorkflow(workflowID)
}
