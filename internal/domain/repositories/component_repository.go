package repositories

import (
	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"gorm.io/gorm"
)

type ComponentRepository interface {
	CreateComponent(component *entities.Component) error
	FindComponentByID(id int64) (*entities.Component, error)
	FindComponentByType(componentType string) (*entities.Component, error)
	GetComponents() ([]entities.Component, error)
	CountComponentSectionsForComponent(componentID int64) (int64, error)
	CountComponentSectionsForSection(sectionID int64) (int64, error)

	CreateComponentSection(assoc *entities.ComponentSection) error
	FindComponentSectionByID(id int64) (*entities.ComponentSection, error)
	DeleteComponentSection(id int64) error
	ComponentSectionExists(sectionID, componentID int64) (bool, error)
	MaxComponentSectionOrder(sectionID int64) (int, error)
	GetComponentSectionSiblings(sectionID int64) ([]entities.ComponentSection, error)
	GetComponentsForSection(sectionID int64) ([]entities.ComponentSection, error)
	UpdateComponentSectionOrder(id int64, order int) error
	ShiftComponentSectionOrders(ids []int64, offset int) error
}

type componentRepository struct {
	db *gorm.DB
}

func NewComponentRepository(db *gorm.DB) ComponentRepository {
	return &componentRepository{db}
}

func (r *componentRepository) CreateComponent(component *entities.Component) error {
	return translateWrite(r.db.Create(component).Error, entities.ErrConstraintViolation)
}

func (r *componentRepository) FindComponentByID(id int64) (*entities.Component, error) {
	var component entities.Component
	err := r.db.First(&component, id).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownComponent)
	}
	return &component, nil
}

func (r *componentRepository) FindComponentByType(componentType string) (*entities.Component, error) {
	var component entities.Component
	err := r.db.Where("component_type = ?", componentType).First(&component).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownComponent)
	}
	return &component, nil
}

func (r *componentRepository) GetComponents() ([]entities.Component, error) {
	var components []entities.Component
	err := r.db.Order("component_type").Find(&components).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrPersistence)
	}
	return components, nil
}

func (r *componentRepository) CountComponentSectionsForComponent(componentID int64) (int64, error) {
	var count int64
	err := r.db.Model(&entities.ComponentSection{}).Where("componentid = ?", componentID).Count(&count).Error
	if err != nil {
		return 0, translateRead(err, entities.ErrPersistence)
	}
	return count, nil
}

func (r *componentRepository) CountComponentSectionsForSection(sectionID int64) (int64, error) {
	var count int64
	err := r.db.Model(&entities.ComponentSection{}).Where("sectionid = ?", sectionID).Count(&count).Error
	if err != nil {
		return 0, translateRead(err, entities.ErrPersistence)
	}
	return count, nil
}

func (r *componentRepository) CreateComponentSection(assoc *entities.ComponentSection) error {
	return translateWrite(r.db.Create(assoc).Error, entities.ErrDuplicateAssociation)
}

func (r *componentRepository) FindComponentSectionByID(id int64) (*entities.ComponentSection, error) {
	var assoc entities.ComponentSection
	err := r.db.First(&assoc, id).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownComponent)
	}
	return &assoc, nil
}

func (r *componentRepository) DeleteComponentSection(id int64) error {
	return translateWrite(r.db.Delete(&entities.ComponentSection{}, id).Error, entities.ErrConstraintViolation)
}

func (r *componentRepository) ComponentSectionExists(sectionID, componentID int64) (bool, error) {
	var count int64
	err := r.db.Model(&entities.ComponentSection{}).
		Where("sectionid = ? AND componentid = ?", sectionID, componentID).
		Count(&count).Error
	if err != nil {
		return false, translateRead(err, entities.ErrPersistence)
	}
	return count > 0, nil
}

func (r *componentRepository) MaxComponentSectionOrder(sectionID int64) (int, error) {
	var max *int
	err := r.db.Model(&entities.ComponentSection{}).
		Where("sectionid = ?", sectionID).
		Select(`MAX("order")`).
		Scan(&max).Error
	if err != nil {
		return 0, translateRead(err, entities.ErrPersistence)
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *componentRepository) GetComponentSectionSiblings(sectionID int64) ([]entities.ComponentSection, error) {
	var siblings []entities.ComponentSection
	err := r.db.Where("sectionid = ?", sectionID).
		Order(`"order", id`).
		Find(&siblings).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrPersistence)
	}
	return siblings, nil
}

func (r *componentRepository) GetComponentsForSection(sectionID int64) ([]entities.ComponentSection, error) {
	var assocs []entities.ComponentSection
	err := r.db.Preload("Component").
		Where("sectionid = ?", sectionID).
		Order(`"order", id`).
		Find(&assocs).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrPersistence)
	}
	return assocs, nil
}

func (r *componentRepository) UpdateComponentSectionOrder(id int64, order int) error {
	err := r.db.Model(&entities.ComponentSection{}).
		Where("id = ?", id).
		Update("order", order).Error
	return translateWrite(err, entities.ErrConstraintViolation)
}

func (r *componentRepository) ShiftComponentSectionOrders(ids []int64, offset int) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.Model(&entities.ComponentSection{}).
		Where("id IN ?", ids).
		Update("order", gorm.Expr(`"order" + ?`, offset)).Error
	return translateWrite(err, entities.ErrConstraintViolation)
}
