package usecases

import (
	"fmt"
	"time"

	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"github.com/funnelmanager/funnel-composer-api/internal/domain/repositories"
	"github.com/funnelmanager/funnel-composer-api/internal/infrastructure/cache"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FunnelSnapshot is the portable JSON form of one funnel: steps and routes
// keyed by step URL (ids never travel between environments) plus the design
// tree hanging off each step.
type FunnelSnapshot struct {
	ExportID   string          `json:"export_id"`
	ExportedAt time.Time       `json:"exported_at"`
	Funnel     FunnelExport    `json:"funnel"`
	Steps      []StepExport    `json:"steps"`
	Routes     []RouteExport   `json:"routes"`
	Sections   []SectionExport `json:"sections"`
}

type FunnelExport struct {
	Name                string `json:"name"`
	BrokerID            int64  `json:"broker_id"`
	ProductCode         string `json:"product_code"`
	ProductTitle        string `json:"product_title"`
	WorkflowDescription string `json:"workflow_description"`
}

type StepExport struct {
	StepURL      string         `json:"step_url"`
	StepCode     *string        `json:"step_code,omitempty"`
	PostMessage  bool           `json:"post_message"`
	ShoppingCart datatypes.JSON `json:"shopping_cart,omitempty"`
	GTMReference datatypes.JSON `json:"gtm_reference,omitempty"`
}

type RouteExport struct {
	FromStepURL *string        `json:"from_step_url"`
	ToStepURL   string         `json:"to_step_url"`
	RouteConfig datatypes.JSON `json:"route_config,omitempty"`
}

type SectionExport struct {
	SectionType   string            `json:"section_type"`
	StepURL       string            `json:"step_url"`
	Order         int               `json:"order"`
	ProductScoped bool              `json:"product_scoped"`
	Components    []ComponentExport `json:"components"`
}

type ComponentExport struct {
	ComponentType string         `json:"component_type"`
	Order         int            `json:"order"`
	KeyCMS        *string        `json:"key_cms,omitempty"`
	Structure     datatypes.JSON `json:"structure,omitempty"`
	CmsValue      datatypes.JSON `json:"cms_value,omitempty"`
}

// ImportOptions tunes ImportFunnel. UpdateExisting lets a snapshot replace
// the route graph of a product that already has a funnel.
type ImportOptions struct {
	UpdateExisting bool `json:"update_existing"`
}

// ImportResult summarizes what an import touched.
type ImportResult struct {
	FunnelID           int64 `json:"funnel_id"`
	WorkflowID         int64 `json:"workflow_id"`
	StepsCreated       int   `json:"steps_created"`
	StepsReused        int   `json:"steps_reused"`
	RoutesCreated      int   `json:"routes_created"`
	SectionsAttached   int   `json:"sections_attached"`
	ComponentsAttached int   `json:"components_attached"`
	CmsKeysWritten     int   `json:"cms_keys_written"`
}

type ExportUseCase interface {
	ExportFunnel(funnelID int64) (*FunnelSnapshot, error)
	ImportFunnel(productID int64, snapshot *FunnelSnapshot, opts ImportOptions) (*ImportResult, error)
}

type exportUseCase struct {
	db              *gorm.DB
	products        repositories.ProductRepository
	funnels         repositories.FunnelRepository
	steps           repositories.StepRepository
	routes          repositories.RouteRepository
	sections        repositories.SectionRepository
	components      repositories.ComponentRepository
	structures      repositories.StructureRepository
	cmsKeys         repositories.CmsKeyRepository
	catalog         *cache.Cache
	defaultBrokerID int64
}

func NewExportUseCase(db *gorm.DB, catalog *cache.Cache, defaultBrokerID int64) ExportUseCase {
	return &exportUseCase{
		db:              db,
		products:        repositories.NewProductRepository(db),
		funnels:         repositories.NewFunnelRepository(db),
		steps:           repositories.NewStepRepository(db),
		routes:          repositories.NewRouteRepository(db),
		sections:        repositories.NewSectionRepository(db),
		components:      repositories.NewComponentRepository(db),
		structures:      repositories.NewStructureRepository(db),
		cmsKeys:         repositories.NewCmsKeyRepository(db),
		catalog:         catalog,
		defaultBrokerID: defaultBrokerID,
	}
}

func (uc *exportUseCase) ExportFunnel(funnelID int64) (*FunnelSnapshot, error) {
	funnel, err := uc.funnels.FindFunnelByID(funnelID)
	if err != nil {
		return nil, err
	}
	product, err := uc.products.GetProduct(funnel.ProductID)
	if err != nil {
		return nil, err
	}

	snapshot := &FunnelSnapshot{
		ExportID:   uuid.NewString(),
		ExportedAt: time.Now().UTC(),
		Funnel: FunnelExport{
			Name:         funnel.Name,
			BrokerID:     funnel.BrokerID,
			ProductCode:  product.ProductCode,
			ProductTitle: product.DisplayTitle(),
		},
	}
	if funnel.Workflow != nil {
		snapshot.Funnel.WorkflowDescription = funnel.Workflow.Description
	}

	steps, err := uc.steps.GetStepsForWorkflow(funnel.WorkflowID)
	if err != nil {
		return nil, err
	}
	for _, step := range steps {
		snapshot.Steps = append(snapshot.Steps, StepExport{
			StepURL:      step.StepURL,
			StepCode:     step.StepCode,
			PostMessage:  step.PostMessage,
			ShoppingCart: step.ShoppingCart,
			GTMReference: step.GTMReference,
		})
	}

	views, err := uc.routes.GetViewsForWorkflow(funnel.WorkflowID)
	if err != nil {
		return nil, err
	}
	for _, view := range views {
		if view.ToStepURL == nil {
			continue
		}
		snapshot.Routes = append(snapshot.Routes, RouteExport{
			FromStepURL: view.FromStepURL,
			ToStepURL:   *view.ToStepURL,
			RouteConfig: view.RouteConfig,
		})
	}

	for _, step := range steps {
		placements, err := uc.sections.GetSectionsForStep(step.ID, &funnel.ProductID, nil)
		if err != nil {
			return nil, err
		}
		for _, placement := range placements {
			if placement.Section == nil {
				continue
			}
			sectionExport := SectionExport{
				SectionType:   placement.Section.SectionType,
				StepURL:       step.StepURL,
				Order:         placement.Order,
				ProductScoped: placement.ProductID != nil,
			}

			components, err := uc.components.GetComponentsForSection(placement.SectionID)
			if err != nil {
				return nil, err
			}
			for _, assoc := range components {
				if assoc.Component == nil {
					continue
				}
				componentExport := ComponentExport{
					ComponentType: assoc.Component.ComponentType,
					Order:         assoc.Order,
					KeyCMS:        assoc.KeyCMS,
				}
				slots, err := uc.structures.GetForComponentSection(assoc.ID)
				if err != nil {
					return nil, err
				}
				if len(slots) > 0 {
					structure, err := uc.structures.FindStructureByID(slots[0].StructureID)
					if err != nil {
						return nil, err
					}
					componentExport.Structure = structure.Data
					if key, found, err := uc.cmsKeys.FindByOwner(slots[0].ID); err != nil {
						return nil, err
					} else if found {
						componentExport.CmsValue = key.Value
					}
				}
				sectionExport.Components = append(sectionExport.Components, componentExport)
			}
			snapshot.Sections = append(snapshot.Sections, sectionExport)
		}
	}

	return snapshot, nil
}

// ImportFunnel rebuilds a snapshot under the given product inside one
// transaction. Steps are reused by URL when they already exist, so importing
// into an environment that shares steps never duplicates them.
func (uc *exportUseCase) ImportFunnel(productID int64, snapshot *FunnelSnapshot, opts ImportOptions) (*ImportResult, error) {
	if snapshot == nil || len(snapshot.Steps) == 0 {
		return nil, fmt.Errorf("%w: snapshot has no steps", entities.ErrInvalidJSON)
	}
	if err := validateSnapshotEdges(snapshot); err != nil {
		return nil, err
	}

	product, err := uc.products.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	err = uc.db.Transaction(func(tx *gorm.DB) error {
		funnels := repositories.NewFunnelRepository(tx)
		steps := repositories.NewStepRepository(tx)
		routes := repositories.NewRouteRepository(tx)

		funnel, err := funnels.FindFunnelByProductID(productID)
		switch {
		case err == nil:
			if !opts.UpdateExisting {
				return fmt.Errorf("%w: product %d", entities.ErrDuplicateFunnel, productID)
			}
			if err := routes.DeleteForWorkflow(funnel.WorkflowID); err != nil {
				return err
			}
		case repositories.IsNotFound(err):
			workflow := &entities.Workflow{Description: "Workflow per " + product.DisplayTitle()}
			if err := funnels.CreateWorkflow(workflow); err != nil {
				return err
			}
			brokerID := snapshot.Funnel.BrokerID
			if brokerID == 0 {
				brokerID = uc.defaultBrokerID
			}
			funnel = &entities.Funnel{
				WorkflowID: workflow.ID,
				BrokerID:   brokerID,
				Name:       "Funnel - " + product.DisplayTitle(),
				ProductID:  productID,
			}
			if err := funnels.CreateFunnel(funnel); err != nil {
				return err
			}
		default:
			return err
		}
		result.FunnelID = funnel.ID
		result.WorkflowID = funnel.WorkflowID

		stepIDs := make(map[string]int64, len(snapshot.Steps))
		for _, stepExport := range snapshot.Steps {
			existing, err := steps.FindByURL(stepExport.StepURL)
			if err == nil {
				stepIDs[stepExport.StepURL] = existing.ID
				result.StepsReused++
				continue
			}
			if !repositories.IsCatalogMiss(err) {
				return err
			}
			step := &entities.Step{
				StepURL:      stepExport.StepURL,
				StepCode:     stepExport.StepCode,
				PostMessage:  stepExport.PostMessage,
				ShoppingCart: stepExport.ShoppingCart,
				GTMReference: stepExport.GTMReference,
			}
			if err := steps.Create(step); err != nil {
				return err
			}
			stepIDs[stepExport.StepURL] = step.ID
			result.StepsCreated++
		}

		for _, routeExport := range snapshot.Routes {
			toID, ok := stepIDs[routeExport.ToStepURL]
			if !ok {
				return fmt.Errorf("%w: route target %q not in snapshot", entities.ErrUnknownStep, routeExport.ToStepURL)
			}
			var fromID *int64
			if routeExport.FromStepURL != nil {
				id, ok := stepIDs[*routeExport.FromStepURL]
				if !ok {
					return fmt.Errorf("%w: route origin %q not in snapshot", entities.ErrUnknownStep, *routeExport.FromStepURL)
				}
				fromID = &id
			}
			route := &entities.Route{
				WorkflowID:  funnel.WorkflowID,
				FromStepID:  fromID,
				ToStepID:    toID,
				RouteConfig: routeExport.RouteConfig,
			}
			if err := routes.Create(route); err != nil {
				return err
			}
			result.RoutesCreated++
		}

		if err := uc.importDesign(tx, snapshot, stepIDs, productID, result); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.catalog.Invalidate(cache.KeySteps, cache.KeySections, cache.KeyComponents)
	return result, nil
}

func (uc *exportUseCase) importDesign(tx *gorm.DB, snapshot *FunnelSnapshot, stepIDs map[string]int64, productID int64, result *ImportResult) error {
	sections := repositories.NewSectionRepository(tx)
	components := repositories.NewComponentRepository(tx)
	structures := repositories.NewStructureRepository(tx)
	cmsKeys := repositories.NewCmsKeyRepository(tx)

	for _, sectionExport := range snapshot.Sections {
		stepID, ok := stepIDs[sectionExport.StepURL]
		if !ok {
			return fmt.Errorf("%w: section step %q not in snapshot", entities.ErrUnknownStep, sectionExport.StepURL)
		}

		section, err := sections.FindSectionByType(sectionExport.SectionType)
		if repositories.IsCatalogMiss(err) {
			section = &entities.Section{SectionType: sectionExport.SectionType}
			if err := sections.CreateSection(section); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var scopeProduct *int64
		if sectionExport.ProductScoped {
			scopeProduct = &productID
		}

		exists, err := sections.StepSectionExists(stepID, section.ID, scopeProduct, nil)
		if err != nil {
			return err
		}
		if !exists {
			max, err := sections.MaxStepSectionOrder(stepID, scopeProduct, nil)
			if err != nil {
				return err
			}
			assoc := &entities.StepSection{
				StepID:     stepID,
				SectionID:  section.ID,
				ProductID:  scopeProduct,
				Order:      max + 1,
				Authorized: true,
			}
			if err := sections.CreateStepSection(assoc); err != nil {
				return err
			}
			result.SectionsAttached++
		}

		for _, componentExport := range sectionExport.Components {
			component, err := components.FindComponentByType(componentExport.ComponentType)
			if repositories.IsCatalogMiss(err) {
				component = &entities.Component{ComponentType: componentExport.ComponentType}
				if err := components.CreateComponent(component); err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			var slotID int64
			exists, err := components.ComponentSectionExists(section.ID, component.ID)
			if err != nil {
				return err
			}
			if exists {
				// Reuse the placement's structure slot for the CMS value.
				placements, err := components.GetComponentsForSection(section.ID)
				if err != nil {
					return err
				}
				for _, placement := range placements {
					if placement.ComponentID != component.ID {
						continue
					}
					slots, err := structures.GetForComponentSection(placement.ID)
					if err != nil {
						return err
					}
					if len(slots) > 0 {
						slotID = slots[0].ID
					}
				}
			} else {
				max, err := components.MaxComponentSectionOrder(section.ID)
				if err != nil {
					return err
				}
				assoc := &entities.ComponentSection{
					SectionID:   section.ID,
					ComponentID: component.ID,
					Order:       max + 1,
					KeyCMS:      componentExport.KeyCMS,
				}
				if err := components.CreateComponentSection(assoc); err != nil {
					return err
				}

				data := componentExport.Structure
				if data == nil {
					data = entities.EmptyDocument()
				}
				structure := &entities.Structure{Data: data}
				if err := structures.CreateStructure(structure); err != nil {
					return err
				}
				slot := &entities.StructureComponentSection{
					ComponentSectionID: assoc.ID,
					StructureID:        structure.ID,
					Order:              1,
				}
				if err := structures.CreateStructureComponentSection(slot); err != nil {
					return err
				}
				slotID = slot.ID
				result.ComponentsAttached++
			}

			if componentExport.CmsValue != nil && slotID != 0 {
				existing, found, err := cmsKeys.FindByOwner(slotID)
				if err != nil {
					return err
				}
				if found {
					if err := cmsKeys.UpdateValue(existing.ID, componentExport.CmsValue); err != nil {
						return err
					}
				} else {
					key := &entities.CmsKey{Value: componentExport.CmsValue, StructureComponentSectionID: slotID}
					if err := cmsKeys.Create(key); err != nil {
						return err
					}
				}
				result.CmsKeysWritten++
			}
		}
	}
	return nil
}

// validateSnapshotEdges rejects a snapshot whose route list is not a DAG, so
// a tampered file cannot sneak a cycle past the create-route guard.
func validateSnapshotEdges(snapshot *FunnelSnapshot) error {
	indegree := make(map[string]int)
	adjacency := make(map[string][]string)
	for _, step := range snapshot.Steps {
		indegree[step.StepURL] = 0
	}
	for _, route := range snapshot.Routes {
		if route.FromStepURL == nil {
			continue
		}
		if *route.FromStepURL == route.ToStepURL {
			return fmt.Errorf("%w: %s", entities.ErrSelfRoute, route.ToStepURL)
		}
		adjacency[*route.FromStepURL] = append(adjacency[*route.FromStepURL], route.ToStepURL)
		indegree[route.ToStepURL]++
	}

	queue := make([]string, 0, len(indegree))
	for url, degree := range indegree {
		if degree == 0 {
			queue = append(queue, url)
		}
	}
	seen := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		seen++
		for _, next := range adjacency[current] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if seen != len(indegree) {
		return fmt.Errorf("%w: snapshot route graph is cyclic", entities.ErrCycleDetected)
	}
	return nil
}
