package migrations

import (
	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"gorm.io/gorm"
)

// Migrate creates or updates every table of the composition schema, including
// the read-only completeness tables (condition, route_condition,
// order_funnel). Unique indexes over non-null columns come from the model
// tags; the ones spanning nullable scope columns live in AddIndexes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Product{},
		&entities.Workflow{},
		&entities.Funnel{},
		&entities.Step{},
		&entities.Route{},
		&entities.Section{},
		&entities.Component{},
		&entities.Structure{},
		&entities.StepSection{},
		&entities.ComponentSection{},
		&entities.StructureComponentSection{},
		&entities.CmsKey{},
		&entities.Condition{},
		&entities.RouteCondition{},
		&entities.OrderFunnel{},
	)
}
