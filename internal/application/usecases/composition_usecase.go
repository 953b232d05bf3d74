package usecases

import (
	"fmt"
	"time"

	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"github.com/funnelmanager/funnel-composer-api/internal/domain/repositories"
	"github.com/funnelmanager/funnel-composer-api/internal/infrastructure/cache"
	"gorm.io/gorm"
)

// ReorderKind selects which sibling set Reorder renumbers.
type ReorderKind string

const (
	ReorderStepSections  ReorderKind = "step_sections"
	ReorderComponentSect ReorderKind = "component_sections"
)

// ComponentPlacement is a component attached to a section together with its
// structure slot, as the configurator page consumes it.
type ComponentPlacement struct {
	entities.ComponentSection
	StructureComponentSectionID *int64           `json:"structure_component_section_id"`
	StructureID                 *int64           `json:"structure_id"`
	StructureData               interface{}      `json:"structure,omitempty"`
	CmsKey                      *entities.CmsKey `json:"cms_key,omitempty"`
}

// AttachComponentResult reports the three rows an attach creates.
type AttachComponentResult struct {
	ComponentSection            *entities.ComponentSection `json:"component_section"`
	StructureID                 int64                      `json:"structure_id"`
	StructureComponentSectionID int64                      `json:"structure_component_section_id"`
}

type CompositionUseCase interface {
	FindOrCreateSection(sectionType string) (*entities.Section, bool, error)
	FindOrCreateComponent(componentType string) (*entities.Component, bool, error)
	ListSections() ([]entities.Section, error)
	ListComponents() ([]entities.Component, error)

	AttachSectionToStep(stepID, sectionID int64, productID, brokerID *int64) (*entities.StepSection, error)
	SectionsForStep(stepID int64, productID, brokerID *int64) ([]entities.StepSection, error)
	DetachStepSection(stepSectionID int64) error

	AttachComponentToSection(sectionID, componentID int64) (*AttachComponentResult, error)
	ComponentsForSection(sectionID int64) ([]ComponentPlacement, error)
	DetachComponentSection(componentSectionID int64) error

	Reorder(kind ReorderKind, parentID, itemID int64, newOrder int) error

	UpdateStructureData(structureID int64, data []byte) (*entities.Structure, error)
	UpsertCmsKey(structureComponentSectionID int64, value []byte) (*entities.CmsKey, error)
	CmsKeyFor(structureComponentSectionID int64) (*entities.CmsKey, bool, error)
}

type compositionUseCase struct {
	db         *gorm.DB
	steps      repositories.StepRepository
	sections   repositories.SectionRepository
	components repositories.ComponentRepository
	structures repositories.StructureRepository
	cmsKeys    repositories.CmsKeyRepository
	catalog    *cache.Cache
	catalogTTL time.Duration
}

func NewCompositionUseCase(db *gorm.DB, catalog *cache.Cache, catalogTTL time.Duration) CompositionUseCase {
	return &compositionUseCase{
		db:         db,
		steps:      repositories.NewStepRepository(db),
		sections:   repositories.NewSectionRepository(db),
		components: repositories.NewComponentRepository(db),
		structures: repositories.NewStructureRepository(db),
		cmsKeys:    repositories.NewCmsKeyRepository(db),
		catalog:    catalog,
		catalogTTL: catalogTTL,
	}
}

// FindOrCreateSection returns the catalog entry for the label, creating it on
// first use. The second result reports whether a row was created.
func (uc *compositionUseCase) FindOrCreateSection(sectionType string) (*entities.Section, bool, error) {
	if sectionType == "" {
		return nil, false, fmt.Errorf("%w: section_type is required", entities.ErrConstraintViolation)
	}
	if existing, err := uc.sections.FindSectionByType(sectionType); err == nil {
		return existing, false, nil
	} else if !repositories.IsCatalogMiss(err) {
		return nil, false, err
	}

	section := &entities.Section{SectionType: sectionType}
	if err := uc.sections.CreateSection(section); err != nil {
		return nil, false, err
	}
	uc.catalog.Invalidate(cache.KeySections)
	return section, true, nil
}

func (uc *compositionUseCase) FindOrCreateComponent(componentType string) (*entities.Component, bool, error) {
	if componentType == "" {
		return nil, false, fmt.Errorf("%w: component_type is required", entities.ErrConstraintViolation)
	}
	if existing, err := uc.components.FindComponentByType(componentType); err == nil {
		return existing, false, nil
	} else if !repositories.IsCatalogMiss(err) {
		return nil, false, err
	}

	component := &entities.Component{ComponentType: componentType}
	if err := uc.components.CreateComponent(component); err != nil {
		return nil, false, err
	}
	uc.catalog.Invalidate(cache.KeyComponents)
	return component, true, nil
}

func (uc *compositionUseCase) ListSections() ([]entities.Section, error) {
	value, err := uc.catalog.GetOrLoad(cache.KeySections, uc.catalogTTL, func() (interface{}, error) {
		return uc.sections.GetSections()
	})
	if err != nil {
		return nil, err
	}
	return value.([]entities.Section), nil
}

func (uc *compositionUseCase) ListComponents() ([]entities.Component, error) {
	value, err := uc.catalog.GetOrLoad(cache.KeyComponents, uc.catalogTTL, func() (interface{}, error) {
		return uc.components.GetComponents()
	})
	if err != nil {
		return nil, err
	}
	return value.([]entities.Component), nil
}

// AttachSectionToStep places a section at the end of the step's sibling set
// for the given (product, broker) scope. The ordinal is computed here, never
// taken from the user, so scopes stay dense.
func (uc *compositionUseCase) AttachSectionToStep(stepID, sectionID int64, productID, brokerID *int64) (*entities.StepSection, error) {
	if _, err := uc.steps.FindByID(stepID); err != nil {
		return nil, err
	}
	if _, err := uc.sections.FindSectionByID(sectionID); err != nil {
		return nil, err
	}

	exists, err := uc.sections.StepSectionExists(stepID, sectionID, productID, brokerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, entities.ErrDuplicateAssociation
	}

	assoc := &entities.StepSection{
		StepID:     stepID,
		SectionID:  sectionID,
		ProductID:  productID,
		BrokerID:   brokerID,
		Authorized: true,
	}

	err = uc.db.Transaction(func(tx *gorm.DB) error {
		sections := repositories.NewSectionRepository(tx)
		max, err := sections.MaxStepSectionOrder(stepID, productID, brokerID)
		if err != nil {
			return err
		}
		assoc.Order = max + 1
		return sections.CreateStepSection(assoc)
	})
	if err != nil {
		return nil, err
	}
	return assoc, nil
}

func (uc *compositionUseCase) SectionsForStep(stepID int64, productID, brokerID *int64) ([]entities.StepSection, error) {
	if _, err := uc.steps.FindByID(stepID); err != nil {
		return nil, err
	}
	return uc.sections.GetSectionsForStep(stepID, productID, brokerID)
}

// DetachStepSection removes one placement. Components hang off sections in
// the catalog, not off this join row, so nothing cascades.
func (uc *compositionUseCase) DetachStepSection(stepSectionID int64) error {
	if _, err := uc.sections.FindStepSectionByID(stepSectionID); err != nil {
		return err
	}
	return uc.sections.DeleteStepSection(stepSectionID)
}

// AttachComponentToSection inserts the placement at the next ordinal and, in
// the same transaction, gives it an empty structure slot. The editor assumes
// a structure exists the moment the component appears.
func (uc *compositionUseCase) AttachComponentToSection(sectionID, componentID int64) (*AttachComponentResult, error) {
	if _, err := uc.sections.FindSectionByID(sectionID); err != nil {
		return nil, err
	}
	if _, err := uc.components.FindComponentByID(componentID); err != nil {
		return nil, err
	}

	exists, err := uc.components.ComponentSectionExists(sectionID, componentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, entities.ErrDuplicateAssociation
	}

	assoc := &entities.ComponentSection{
		SectionID:   sectionID,
		ComponentID: componentID,
	}
	structure := &entities.Structure{Data: entities.EmptyDocument()}
	slot := &entities.StructureComponentSection{Order: 1}

	err = uc.db.Transaction(func(tx *gorm.DB) error {
		components := repositories.NewComponentRepository(tx)
		structures := repositories.NewStructureRepository(tx)

		max, err := components.MaxComponentSectionOrder(sectionID)
		if err != nil {
			return err
		}
		assoc.Order = max + 1
		if err := components.CreateComponentSection(assoc); err != nil {
			return err
		}

		if err := structures.CreateStructure(structure); err != nil {
			return err
		}
		slot.ComponentSectionID = assoc.ID
		slot.StructureID = structure.ID
		return structures.CreateStructureComponentSection(slot)
	})
	if err != nil {
		return nil, err
	}

	return &AttachComponentResult{
		ComponentSection:            assoc,
		StructureID:                 structure.ID,
		StructureComponentSectionID: slot.ID,
	}, nil
}

func (uc *compositionUseCase) ComponentsForSection(sectionID int64) ([]ComponentPlacement, error) {
	if _, err := uc.sections.FindSectionByID(sectionID); err != nil {
		return nil, err
	}

	assocs, err := uc.components.GetComponentsForSection(sectionID)
	if err != nil {
		return nil, err
	}

	placements := make([]ComponentPlacement, 0, len(assocs))
	for _, assoc := range assocs {
		placement := ComponentPlacement{ComponentSection: assoc}

		slots, err := uc.structures.GetForComponentSection(assoc.ID)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			slot := slots[0]
			placement.StructureComponentSectionID = &slot.ID
			placement.StructureID = &slot.StructureID

			structure, err := uc.structures.FindStructureByID(slot.StructureID)
			if err != nil {
				return nil, err
			}
			placement.StructureData = structure.Data

			if key, found, err := uc.cmsKeys.FindByOwner(slot.ID); err != nil {
				return nil, err
			} else if found {
				placement.CmsKey = key
			}
		}
		placements = append(placements, placement)
	}
	return placements, nil
}

// DetachComponentSection removes the placement and everything hanging off it:
// CMS keys, structure slots, and the structures themselves.
func (uc *compositionUseCase) DetachComponentSection(componentSectionID int64) error {
	if _, err := uc.components.FindComponentSectionByID(componentSectionID); err != nil {
		return err
	}

	return uc.db.Transaction(func(tx *gorm.DB) error {
		components := repositories.NewComponentRepository(tx)
		structures := repositories.NewStructureRepository(tx)
		cmsKeys := repositories.NewCmsKeyRepository(tx)

		slots, err := structures.GetForComponentSection(componentSectionID)
		if err != nil {
			return err
		}
		for _, slot := range slots {
			if err := cmsKeys.DeleteByOwner(slot.ID); err != nil {
				return err
			}
			if err := structures.DeleteStructureComponentSection(slot.ID); err != nil {
				return err
			}
			if err := structures.DeleteStructure(slot.StructureID); err != nil {
				return err
			}
		}
		return components.DeleteComponentSection(componentSectionID)
	})
}

// Reorder moves one item to a new position among its siblings and renumbers
// the whole set to a dense 1..K sequence. The sibling set is shifted out of
// the ordinal index range first so intermediate states never collide.
func (uc *compositionUseCase) Reorder(kind ReorderKind, parentID, itemID int64, newOrder int) error {
	switch kind {
	case ReorderStepSections:
		return uc.reorderStepSections(parentID, itemID, newOrder)
	case ReorderComponentSect:
		return uc.reorderComponentSections(parentID, itemID, newOrder)
	default:
		return fmt.Errorf("%w: unknown reorder kind %q", entities.ErrConstraintViolation, kind)
	}
}

func (uc *compositionUseCase) reorderStepSections(stepID, stepSectionID int64, newOrder int) error {
	item, err := uc.sections.FindStepSectionByID(stepSectionID)
	if err != nil {
		return err
	}
	if item.StepID != stepID {
		return fmt.Errorf("%w: step_section %d does not belong to step %d", entities.ErrUnknownSection, stepSectionID, stepID)
	}

	return uc.db.Transaction(func(tx *gorm.DB) error {
		sections := repositories.NewSectionRepository(tx)
		siblings, err := sections.GetStepSectionSiblings(item.StepID, item.ProductID, item.BrokerID)
		if err != nil {
			return err
		}

		ids := make([]int64, len(siblings))
		for i, sibling := range siblings {
			ids[i] = sibling.ID
		}
		sequence := resequence(ids, stepSectionID, newOrder)

		if err := sections.ShiftStepSectionOrders(ids, len(ids)); err != nil {
			return err
		}
		for position, id := range sequence {
			if err := sections.UpdateStepSectionOrder(id, position+1); err != nil {
				return err
			}
		}
		return nil
	})
}

func (uc *compositionUseCase) reorderComponentSections(sectionID, componentSectionID int64, newOrder int) error {
	item, err := uc.components.FindComponentSectionByID(componentSectionID)
	if err != nil {
		return err
	}
	if item.SectionID != sectionID {
		return fmt.Errorf("%w: component_section %d does not belong to section %d", entities.ErrUnknownComponent, componentSectionID, sectionID)
	}

	return uc.db.Transaction(func(tx *gorm.DB) error {
		components := repositories.NewComponentRepository(tx)
		siblings, err := components.GetComponentSectionSiblings(sectionID)
		if err != nil {
			return err
		}

		ids := make([]int64, len(siblings))
		for i, sibling := range siblings {
			ids[i] = sibling.ID
		}
		sequence := resequence(ids, componentSectionID, newOrder)

		if err := components.ShiftComponentSectionOrders(ids, len(ids)); err != nil {
			return err
		}
		for position, id := range sequence {
			if err := components.UpdateComponentSectionOrder(id, position+1); err != nil {
				return err
			}
		}
		return nil
	})
}

// resequence returns the sibling ids in their target order: itemID moved to
// the 1-based newOrder position (clamped), everyone else keeping relative
// order.
func resequence(ids []int64, itemID int64, newOrder int) []int64 {
	rest := make([]int64, 0, len(ids)-1)
	for _, id := range ids {
		if id != itemID {
			rest = append(rest, id)
		}
	}

	if newOrder < 1 {
		newOrder = 1
	}
	if newOrder > len(ids) {
		newOrder = len(ids)
	}

	sequence := make([]int64, 0, len(ids))
	sequence = append(sequence, rest[:newOrder-1]...)
	sequence = append(sequence, itemID)
	sequence = append(sequence, rest[newOrder-1:]...)
	return sequence
}

func (uc *compositionUseCase) UpdateStructureData(structureID int64, data []byte) (*entities.Structure, error) {
	doc, err := entities.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("structure data: %w", err)
	}
	if doc == nil {
		doc = entities.EmptyDocument()
	}

	if err := uc.structures.UpdateStructureData(structureID, doc); err != nil {
		return nil, err
	}
	return uc.structures.FindStructureByID(structureID)
}

// UpsertCmsKey overwrites the value of the placement's key, or inserts one if
// the placement has none yet.
func (uc *compositionUseCase) UpsertCmsKey(structureComponentSectionID int64, value []byte) (*entities.CmsKey, error) {
	if _, err := uc.structures.FindStructureComponentSectionByID(structureComponentSectionID); err != nil {
		return nil, err
	}

	doc, err := entities.ParseDocument(value)
	if err != nil {
		return nil, fmt.Errorf("cms value: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: cms value is required", entities.ErrInvalidJSON)
	}

	existing, found, err := uc.cmsKeys.FindByOwner(structureComponentSectionID)
	if err != nil {
		return nil, err
	}
	if found {
		if err := uc.cmsKeys.UpdateValue(existing.ID, doc); err != nil {
			return nil, err
		}
		existing.Value = doc
		return existing, nil
	}

	key := &entities.CmsKey{
		Value:                       doc,
		StructureComponentSectionID: structureComponentSectionID,
	}
	if err := uc.cmsKeys.Create(key); err != nil {
		return nil, err
	}
	return key, nil
}

func (uc *compositionUseCase) CmsKeyFor(structureComponentSectionID int64) (*entities.CmsKey, bool, error) {
	return uc.cmsKeys.FindByOwner(structureComponentSectionID)
}
