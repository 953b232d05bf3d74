package usecases

import (
	"fmt"

	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"github.com/funnelmanager/funnel-composer-api/internal/domain/repositories"
	"gorm.io/gorm"
)

type RouteUseCase interface {
	CreateRoute(workflowID int64, fromStepID *int64, toStepID int64, routeConfig []byte) (*entities.Route, error)
	ListRoutesForWorkflow(workflowID int64) ([]entities.RouteView, error)
	DeleteRoute(routeID int64) error
}

type routeUseCase struct {
	db      *gorm.DB
	routes  repositories.RouteRepository
	steps   repositories.StepRepository
	funnels repositories.FunnelRepository
}

func NewRouteUseCase(db *gorm.DB) RouteUseCase {
	return &routeUseCase{
		db:      db,
		routes:  repositories.NewRouteRepository(db),
		steps:   repositories.NewStepRepository(db),
		funnels: repositories.NewFunnelRepository(db),
	}
}

// CreateRoute validates the new edge against the workflow's route graph
// before inserting: endpoints must exist, the edge must not be a self-loop or
// a duplicate, and it must not close a cycle. An entry route (nil from) is
// always accepted.
func (uc *routeUseCase) CreateRoute(workflowID int64, fromStepID *int64, toStepID int64, routeConfig []byte) (*entities.Route, error) {
	if _, err := uc.funnels.FindWorkflowByID(workflowID); err != nil {
		return nil, err
	}

	if _, err := uc.steps.FindByID(toStepID); err != nil {
		return nil, fmt.Errorf("to step %d: %w", toStepID, err)
	}
	if fromStepID != nil {
		if _, err := uc.steps.FindByID(*fromStepID); err != nil {
			return nil, fmt.Errorf("from step %d: %w", *fromStepID, err)
		}
		if *fromStepID == toStepID {
			return nil, fmt.Errorf("%w: step %d", entities.ErrSelfRoute, toStepID)
		}
	}

	exists, err := uc.routes.EdgeExists(workflowID, fromStepID, toStepID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, entities.ErrDuplicateRoute
	}

	if fromStepID != nil {
		closes, err := uc.wouldCloseCycle(workflowID, *fromStepID, toStepID)
		if err != nil {
			return nil, err
		}
		if closes {
			return nil, fmt.Errorf("%w: %d -> %d", entities.ErrCycleDetected, *fromStepID, toStepID)
		}
	}

	config, err := entities.ParseDocument(routeConfig)
	if err != nil {
		return nil, fmt.Errorf("route_config: %w", err)
	}

	route := &entities.Route{
		WorkflowID:  workflowID,
		FromStepID:  fromStepID,
		ToStepID:    toStepID,
		RouteConfig: config,
	}
	if err := uc.routes.Create(route); err != nil {
		return nil, err
	}
	return route, nil
}

// wouldCloseCycle walks the persisted edges of the workflow from the new
// edge's destination; if the origin is reachable, adding from -> to would
// close a loop. Entry routes contribute no edge to the walk.
func (uc *routeUseCase) wouldCloseCycle(workflowID, fromStepID, toStepID int64) (bool, error) {
	existing, err := uc.routes.GetForWorkflow(workflowID)
	if err != nil {
		return false, err
	}

	adjacency := make(map[int64][]int64, len(existing))
	for _, route := range existing {
		if route.FromStepID == nil {
			continue
		}
		adjacency[*route.FromStepID] = append(adjacency[*route.FromStepID], route.ToStepID)
	}

	visited := map[int64]bool{toStepID: true}
	queue := []int64{toStepID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == fromStepID {
			return true, nil
		}
		for _, next := range adjacency[current] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false, nil
}

func (uc *routeUseCase) ListRoutesForWorkflow(workflowID int64) ([]entities.RouteView, error) {
	if _, err := uc.funnels.FindWorkflowByID(workflowID); err != nil {
		return nil, err
	}
	return uc.routes.GetViewsForWorkflow(workflowID)
}

// DeleteRoute is a leaf delete; routes have no dependents.
func (uc *routeUseCase) DeleteRoute(routeID int64) error {
	if _, err := uc.routes.FindByID(routeID); err != nil {
		return err
	}
	return uc.routes.Delete(routeID)
}
