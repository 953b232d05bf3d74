package migrations

import (
	"log"

	"gorm.io/gorm"
)

// AddIndexes creates the lookup indexes the hot read paths rely on and the
// unique constraints that involve nullable columns. The latter cannot come
// from model tags: product, broker and route origin are NULL in their
// default scope, and a plain composite unique index never compares NULL
// rows, so the COALESCE forms below are what actually arbitrate races. All
// statements are IF NOT EXISTS so the function can run on every boot.
func AddIndexes(db *gorm.DB) error {
	indexes := []string{
		// One ordinal per (step, product, broker) scope, NULL scope included.
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_step_section_ordinal
			ON step_section (stepid, COALESCE(productid, 0), COALESCE(brokerid, 0), "order")`,
		// One edge per (workflow, from, to); entry routes have a NULL origin.
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_route_edge
			ON route (workflow_id, COALESCE(from_step_id, 0), to_step_id)`,
		// Route graph walks are always workflow-scoped.
		`CREATE INDEX IF NOT EXISTS idx_route_workflow ON route (workflow_id)`,
		`CREATE INDEX IF NOT EXISTS idx_route_from_step ON route (from_step_id)`,
		`CREATE INDEX IF NOT EXISTS idx_route_to_step ON route (to_step_id)`,
		// Funnel lookup by product backs the provision pre-check.
		`CREATE INDEX IF NOT EXISTS idx_funnel_product ON funnel (product_id)`,
		// Composition tree descents.
		`CREATE INDEX IF NOT EXISTS idx_step_section_step ON step_section (stepid)`,
		`CREATE INDEX IF NOT EXISTS idx_step_section_section ON step_section (sectionid)`,
		`CREATE INDEX IF NOT EXISTS idx_component_section_section ON component_section (sectionid)`,
		`CREATE INDEX IF NOT EXISTS idx_component_section_component ON component_section (componentid)`,
		`CREATE INDEX IF NOT EXISTS idx_scs_component_section ON structure_component_section (component_sectionid)`,
		`CREATE INDEX IF NOT EXISTS idx_cms_key_owner ON cms_key (structurecomponentsectionid)`,
	}

	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			log.Printf("index creation failed (%s): %v", stmt, err)
			return err
		}
	}

	return nil
}
