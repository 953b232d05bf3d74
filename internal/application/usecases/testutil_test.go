package usecases

import (
	"fmt"
	"testing"
	"time"

	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"github.com/funnelmanager/funnel-composer-api/internal/infrastructure/database/migrations"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testTTL = time.Minute

// newTestDB opens an isolated in-memory database with the full schema and
// the same error translation the production connection uses.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migrations.Migrate(db))
	require.NoError(t, migrations.AddIndexes(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, id int64, title string) entities.Product {
	t.Helper()

	product := entities.Product{
		ID:          id,
		ProductCode: fmt.Sprintf("P%d", id),
		TitleProd:   title,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedWorkflow(t *testing.T, db *gorm.DB, description string) entities.Workflow {
	t.Helper()

	workflow := entities.Workflow{Description: description}
	require.NoError(t, db.Create(&workflow).Error)
	return workflow
}

func mustCreateStep(t *testing.T, uc StepUseCase, url string) *entities.Step {
	t.Helper()

	step, err := uc.CreateStep(StepInput{StepURL: url})
	require.NoError(t, err)
	return step
}
