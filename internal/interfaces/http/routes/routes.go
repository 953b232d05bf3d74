package routes

import (
	"github.com/funnelmanager/funnel-composer-api/internal/application/usecases"
	"github.com/funnelmanager/funnel-composer-api/internal/config"
	"github.com/funnelmanager/funnel-composer-api/internal/infrastructure/cache"
	"github.com/funnelmanager/funnel-composer-api/internal/interfaces/http/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Add performance middleware
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Add ETag support for efficient caching
	app.Use(etag.New())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	catalog := cache.New()

	// Use Cases
	funnelUseCase := usecases.NewFunnelUseCase(db, catalog, cfg.CacheTTL, cfg.DefaultBrokerID)
	stepUseCase := usecases.NewStepUseCase(db, catalog, cfg.CacheTTL)
	routeUseCase := usecases.NewRouteUseCase(db)
	compositionUseCase := usecases.NewCompositionUseCase(db, catalog, cfg.CacheTTL)
	exportUseCase := usecases.NewExportUseCase(db, catalog, cfg.DefaultBrokerID)

	// Handlers
	funnelHandler := handlers.NewFunnelHandler(funnelUseCase)
	stepHandler := handlers.NewStepHandler(stepUseCase)
	routeHandler := handlers.NewRouteHandler(routeUseCase)
	compositionHandler := handlers.NewCompositionHandler(compositionUseCase)
	exportHandler := handlers.NewExportHandler(exportUseCase)

	api := app.Group("/api/v1")

	// Products and funnel provisioning
	api.Get("/products", funnelHandler.GetProducts)
	api.Get("/products/:product_id/funnel", funnelHandler.GetFunnelForProduct)
	api.Post("/funnels", funnelHandler.ProvisionFunnel)
	api.Get("/funnels/:funnel_id/export", exportHandler.ExportFunnel)
	api.Post("/products/:product_id/import", exportHandler.ImportFunnel)

	// Steps
	api.Get("/steps", stepHandler.GetSteps)
	api.Post("/steps", stepHandler.CreateStep)
	api.Put("/steps/:id", stepHandler.UpdateStep)
	api.Delete("/steps/:id", stepHandler.DeleteStep)

	// Workflow-scoped graph
	api.Get("/workflows/:workflow_id/steps", stepHandler.GetStepsForWorkflow)
	api.Get("/workflows/:workflow_id/routes", routeHandler.GetRoutesForWorkflow)
	api.Post("/workflows/:workflow_id/routes", routeHandler.CreateRoute)
	api.Delete("/routes/:id", routeHandler.DeleteRoute)

	// UI composition tree
	api.Get("/sections", compositionHandler.GetSections)
	api.Post("/sections", compositionHandler.CreateSection)
	api.Get("/components", compositionHandler.GetComponents)
	api.Post("/components", compositionHandler.CreateComponent)

	api.Get("/steps/:step_id/sections", compositionHandler.GetSectionsForStep)
	api.Post("/steps/:step_id/sections", compositionHandler.AttachSectionToStep)
	api.Delete("/step-sections/:id", compositionHandler.DetachStepSection)

	api.Get("/sections/:section_id/components", compositionHandler.GetComponentsForSection)
	api.Post("/sections/:section_id/components", compositionHandler.AttachComponentToSection)
	api.Delete("/component-sections/:id", compositionHandler.DetachComponentSection)

	api.Put("/reorder", compositionHandler.Reorder)
	api.Put("/structures/:id", compositionHandler.UpdateStructure)
	api.Get("/cms-keys/:scs_id", compositionHandler.GetCmsKey)
	api.Put("/cms-keys/:scs_id", compositionHandler.UpsertCmsKey)
}
