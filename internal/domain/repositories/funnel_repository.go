package repositories

import (
	"errors"

	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"gorm.io/gorm"
)

type FunnelRepository interface {
	CreateWorkflow(workflow *entities.Workflow) error
	CreateFunnel(funnel *entities.Funnel) error
	FindFunnelByProductID(productID int64) (*entities.Funnel, error)
	FindFunnelByID(id int64) (*entities.Funnel, error)
	FindWorkflowByID(id int64) (*entities.Workflow, error)
}

type funnelRepository struct {
	db *gorm.DB
}

func NewFunnelRepository(db *gorm.DB) FunnelRepository {
	return &funnelRepository{db}
}

func (r *funnelRepository) CreateWorkflow(workflow *entities.Workflow) error {
	return translateWrite(r.db.Create(workflow).Error, entities.ErrConstraintViolation)
}

func (r *funnelRepository) CreateFunnel(funnel *entities.Funnel) error {
	// The unique funnel name is the store-level guard against two users
	// provisioning the same product at once.
	return translateWrite(r.db.Create(funnel).Error, entities.ErrDuplicateFunnel)
}

// FindFunnelByProductID returns the funnel with its owning workflow, or
// ErrUnknownFunnel when the product has none yet.
func (r *funnelRepository) FindFunnelByProductID(productID int64) (*entities.Funnel, error) {
	var funnel entities.Funnel
	err := r.db.Preload("Workflow").
		Where("product_id = ?", productID).
		First(&funnel).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownFunnel)
	}
	return &funnel, nil
}

func (r *funnelRepository) FindFunnelByID(id int64) (*entities.Funnel, error) {
	var funnel entities.Funnel
	err := r.db.Preload("Workflow").First(&funnel, id).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownFunnel)
	}
	return &funnel, nil
}

func (r *funnelRepository) FindWorkflowByID(id int64) (*entities.Workflow, error) {
	var workflow entities.Workflow
	err := r.db.First(&workflow, id).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownWorkflow)
	}
	return &workflow, nil
}

// IsNotFound reports whether err is one of the unknown-entity kinds, used by
// callers that treat "missing" as a normal outcome rather than a failure.
func IsNotFound(err error) bool {
	return errors.Is(err, entities.ErrUnknownFunnel) ||
		errors.Is(err, entities.ErrUnknownWorkflow) ||
		errors.Is(err, entities.ErrUnknownProduct)
}
