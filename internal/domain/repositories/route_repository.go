package repositories

import (
	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"gorm.io/gorm"
)

type RouteRepository interface {
	Create(route *entities.Route) error
	Delete(id int64) error
	FindByID(id int64) (*entities.Route, error)
	GetForWorkflow(workflowID int64) ([]entities.Route, error)
	GetViewsForWorkflow(workflowID int64) ([]entities.RouteView, error)
	EdgeExists(workflowID int64, fromStepID *int64, toStepID int64) (bool, error)
	CountForStep(stepID int64) (int64, error)
	DeleteForWorkflow(workflowID int64) error
}

type routeRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) RouteRepository {
	return &routeRepository{db}
}

func (r *routeRepository) Create(route *entities.Route) error {
	return translateWrite(r.db.Create(route).Error, entities.ErrDuplicateRoute)
}

func (r *routeRepository) Delete(id int64) error {
	return translateWrite(r.db.Delete(&entities.Route{}, id).Error, entities.ErrConstraintViolation)
}

func (r *routeRepository) FindByID(id int64) (*entities.Route, error) {
	var route entities.Route
	err := r.db.First(&route, id).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownRoute)
	}
	return &route, nil
}

func (r *routeRepository) GetForWorkflow(workflowID int64) ([]entities.Route, error) {
	var routes []entities.Route
	err := r.db.Where("workflow_id = ?", workflowID).Order("id").Find(&routes).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrPersistence)
	}
	return routes, nil
}

// GetViewsForWorkflow resolves both endpoints for display, left-joining so
// entry routes (null from) still come back.
func (r *routeRepository) GetViewsForWorkflow(workflowID int64) ([]entities.RouteView, error) {
	var views []entities.RouteView
	err := r.db.Model(&entities.Route{}).
		Select(`route.*,
			from_step.step_url AS from_step_url, from_step.step_code AS from_step_code,
			to_step.step_url AS to_step_url, to_step.step_code AS to_step_code`).
		Joins("LEFT JOIN step AS from_step ON from_step.id = route.from_step_id").
		Joins("LEFT JOIN step AS to_step ON to_step.id = route.to_step_id").
		Where("route.workflow_id = ?", workflowID).
		Order("route.id").
		Scan(&views).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrPersistence)
	}
	return views, nil
}

func (r *routeRepository) EdgeExists(workflowID int64, fromStepID *int64, toStepID int64) (bool, error) {
	var count int64
	query := r.db.Model(&entities.Route{}).
		Where("workflow_id = ? AND to_step_id = ?", workflowID, toStepID)
	if fromStepID == nil {
		query = query.Where("from_step_id IS NULL")
	} else {
		query = query.Where("from_step_id = ?", *fromStepID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, translateRead(err, entities.ErrPersistence)
	}
	return count > 0, nil
}

// DeleteForWorkflow wipes a workflow's edge set; the importer uses it before
// rebuilding routes from a snapshot.
func (r *routeRepository) DeleteForWorkflow(workflowID int64) error {
	err := r.db.Where("workflow_id = ?", workflowID).Delete(&entities.Route{}).Error
	return translateWrite(err, entities.ErrConstraintViolation)
}

func (r *routeRepository) CountForStep(stepID int64) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Route{}).
		Where("from_step_id = ? OR to_step_id = ?", stepID, stepID).
		Count(&count).Error
	if err != nil {
		return 0, translateRead(err, entities.ErrPersistence)
	}
	return count, nil
}
