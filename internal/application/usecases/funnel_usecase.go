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

// ProvisionResult is what a successful funnel provisioning returns.
type ProvisionResult struct {
	FunnelID            int64  `json:"funnel_id"`
	FunnelName          string `json:"funnel_name"`
	WorkflowID          int64  `json:"workflow_id"`
	WorkflowDescription string `json:"workflow_description"`
}

type FunnelUseCase interface {
	ListProducts() ([]entities.Product, error)
	ProvisionFunnel(productID int64, productName string) (*ProvisionResult, error)
	FindFunnelForProduct(productID int64) (*entities.Funnel, bool, error)
}

type funnelUseCase struct {
	db              *gorm.DB
	products        repositories.ProductRepository
	funnels         repositories.FunnelRepository
	catalog         *cache.Cache
	catalogTTL      time.Duration
	defaultBrokerID int64
}

func NewFunnelUseCase(db *gorm.DB, catalog *cache.Cache, catalogTTL time.Duration, defaultBrokerID int64) FunnelUseCase {
	return &funnelUseCase{
		db:              db,
		products:        repositories.NewProductRepository(db),
		funnels:         repositories.NewFunnelRepository(db),
		catalog:         catalog,
		catalogTTL:      catalogTTL,
		defaultBrokerID: defaultBrokerID,
	}
}

// ListProducts serves the product selection list through the catalog cache.
// Products are read-only here, so only their TTL refreshes the entry.
func (uc *funnelUseCase) ListProducts() ([]entities.Product, error) {
	value, err := uc.catalog.GetOrLoad(cache.KeyProducts, uc.catalogTTL, func() (interface{}, error) {
		return uc.products.GetProducts()
	})
	if err != nil {
		return nil, err
	}
	return value.([]entities.Product), nil
}

// ProvisionFunnel creates the workflow and funnel pair for a product inside
// one transaction. The advisory pre-check gives a friendly duplicate answer;
// the unique funnel name decides races.
func (uc *funnelUseCase) ProvisionFunnel(productID int64, productName string) (*ProvisionResult, error) {
	if _, err := uc.products.GetProduct(productID); err != nil {
		return nil, err
	}

	if _, found, err := uc.FindFunnelForProduct(productID); err != nil {
		return nil, err
	} else if found {
		return nil, fmt.Errorf("%w: product %d", entities.ErrDuplicateFunnel, productID)
	}

	workflow := &entities.Workflow{
		Description: "Workflow per " + productName,
	}
	funnel := &entities.Funnel{
		BrokerID:  uc.defaultBrokerID,
		Name:      "Funnel - " + productName,
		ProductID: productID,
	}

	err := uc.db.Transaction(func(tx *gorm.DB) error {
		funnels := repositories.NewFunnelRepository(tx)
		if err := funnels.CreateWorkflow(workflow); err != nil {
			return err
		}
		funnel.WorkflowID = workflow.ID
		return funnels.CreateFunnel(funnel)
	})
	if err != nil {
		return nil, err
	}

	return &ProvisionResult{
		FunnelID:            funnel.ID,
		FunnelName:          funnel.Name,
		WorkflowID:          workflow.ID,
		WorkflowDescription: workflow.Description,
	}, nil
}

// FindFunnelForProduct reports a missing funnel as found=false, not as an
// error; the selection page uses it to decide whether to offer provisioning.
func (uc *funnelUseCase) FindFunnelForProduct(productID int64) (*entities.Funnel, bool, error) {
	funnel, err := uc.funnels.FindFunnelByProductID(productID)
	if errors.Is(err, entities.ErrUnknownFunnel) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return funnel, true, nil
}
