package usecases

import (
	"testing"

	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"github.com/funnelmanager/funnel-composer-api/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisionFunnelCreatesWorkflowAndFunnel(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 101, "Travel Insurance")
	uc := NewFunnelUseCase(db, cache.New(), testTTL, 7)

	result, err := uc.ProvisionFunnel(101, "Travel Insurance")
	require.NoError(t, err)

	assert.Equal(t, "Funnel - Travel Insurance", result.FunnelName)
	assert.Equal(t, "Workflow per Travel Insurance", result.WorkflowDescription)
	assert.NotZero(t, result.FunnelID)
	assert.NotZero(t, result.WorkflowID)

	funnel, found, err := uc.FindFunnelForProduct(101)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, result.FunnelID, funnel.ID)
	assert.Equal(t, result.WorkflowID, funnel.WorkflowID)
	assert.Equal(t, int64(7), funnel.BrokerID)
	require.NotNil(t, funnel.Workflow)
	assert.Equal(t, "Workflow per Travel Insurance", funnel.Workflow.Description)
}

func TestProvisionFunnelRejectsSecondFunnelForProduct(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 101, "Travel Insurance")
	uc := NewFunnelUseCase(db, cache.New(), testTTL, 1)

	_, err := uc.ProvisionFunnel(101, "Travel Insurance")
	require.NoError(t, err)

	_, err = uc.ProvisionFunnel(101, "Travel Insurance")
	assert.ErrorIs(t, err, entities.ErrDuplicateFunnel)

	// Only the first pair survives.
	var funnelCount, workflowCount int64
	require.NoError(t, db.Model(&entities.Funnel{}).Count(&funnelCount).Error)
	require.NoError(t, db.Model(&entities.Workflow{}).Count(&workflowCount).Error)
	assert.Equal(t, int64(1), funnelCount)
	assert.Equal(t, int64(1), workflowCount)
}

func TestProvisionFunnelUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	uc := NewFunnelUseCase(db, cache.New(), testTTL, 1)

	_, err := uc.ProvisionFunnel(999, "Ghost")
	assert.ErrorIs(t, err, entities.ErrUnknownProduct)
}

func TestFindFunnelForProductReportsMissingAsNotFound(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 101, "Travel Insurance")
	uc := NewFunnelUseCase(db, cache.New(), testTTL, 1)

	funnel, found, err := uc.FindFunnelForProduct(101)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, funnel)
}

func TestListProductsServesThroughCache(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Alpha")
	uc := NewFunnelUseCase(db, cache.New(), testTTL, 1)

	products, err := uc.ListProducts()
	require.NoError(t, err)
	require.Len(t, products, 1)

	// The second read comes from the cache; a row added behind its back is
	// not visible until the TTL expires.
	seedProduct(t, db, 2, "Beta")
	products, err = uc.ListProducts()
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
