package repositories

import (
	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"gorm.io/gorm"
)

type SectionRepository interface {
	CreateSection(section *entities.Section) error
	FindSectionByID(id int64) (*entities.Section, error)
	FindSectionByType(sectionType string) (*entities.Section, error)
	GetSections() ([]entities.Section, error)
	CountStepSectionsForSection(sectionID int64) (int64, error)

	CreateStepSection(assoc *entities.StepSection) error
	FindStepSectionByID(id int64) (*entities.StepSection, error)
	DeleteStepSection(id int64) error
	StepSectionExists(stepID, sectionID int64, productID, brokerID *int64) (bool, error)
	MaxStepSectionOrder(stepID int64, productID, brokerID *int64) (int, error)
	GetStepSectionSiblings(stepID int64, productID, brokerID *int64) ([]entities.StepSection, error)
	GetSectionsForStep(stepID int64, productID, brokerID *int64) ([]entities.StepSection, error)
	UpdateStepSectionOrder(id int64, order int) error
	ShiftStepSectionOrders(ids []int64, offset int) error
	CountStepSectionsForStep(stepID int64) (int64, error)
}

type sectionRepository struct {
	db *gorm.DB
}

func NewSectionRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db}
}

func (r *sectionRepository) CreateSection(section *entities.Section) error {
	return translateWrite(r.db.Create(section).Error, entities.ErrConstraintViolation)
}

func (r *sectionRepository) FindSectionByID(id int64) (*entities.Section, error) {
	var section entities.Section
	err := r.db.First(&section, id).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownSection)
	}
	return &section, nil
}

func (r *sectionRepository) FindSectionByType(sectionType string) (*entities.Section, error) {
	var section entities.Section
	err := r.db.Where("sectiontype = ?", sectionType).First(&section).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownSection)
	}
	return &section, nil
}

func (r *sectionRepository) GetSections() ([]entities.Section, error) {
	var sections []entities.Section
	err := r.db.Order("sectiontype").Find(&sections).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrPersistence)
	}
	return sections, nil
}

func (r *sectionRepository) CountStepSectionsForSection(sectionID int64) (int64, error) {
	var count int64
	err := r.db.Model(&entities.StepSection{}).Where("sectionid = ?", sectionID).Count(&count).Error
	if err != nil {
		return 0, translateRead(err, entities.ErrPersistence)
	}
	return count, nil
}

func (r *sectionRepository) CreateStepSection(assoc *entities.StepSection) error {
	return translateWrite(r.db.Create(assoc).Error, entities.ErrDuplicateAssociation)
}

func (r *sectionRepository) FindStepSectionByID(id int64) (*entities.StepSection, error) {
	var assoc entities.StepSection
	err := r.db.First(&assoc, id).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownSection)
	}
	return &assoc, nil
}

func (r *sectionRepository) DeleteStepSection(id int64) error {
	return translateWrite(r.db.Delete(&entities.StepSection{}, id).Error, entities.ErrConstraintViolation)
}

// scopeExact narrows a step_section query to one (step, product, broker)
// ordinal scope; a nil product or broker matches only NULL rows.
func scopeExact(query *gorm.DB, stepID int64, productID, brokerID *int64) *gorm.DB {
	query = query.Where("stepid = ?", stepID)
	if productID == nil {
		query = query.Where("productid IS NULL")
	} else {
		query = query.Where("productid = ?", *productID)
	}
	if brokerID == nil {
		query = query.Where("brokerid IS NULL")
	} else {
		query = query.Where("brokerid = ?", *brokerID)
	}
	return query
}

func (r *sectionRepository) StepSectionExists(stepID, sectionID int64, productID, brokerID *int64) (bool, error) {
	var count int64
	err := scopeExact(r.db.Model(&entities.StepSection{}), stepID, productID, brokerID).
		Where("sectionid = ?", sectionID).
		Count(&count).Error
	if err != nil {
		return false, translateRead(err, entities.ErrPersistence)
	}
	return count > 0, nil
}

func (r *sectionRepository) MaxStepSectionOrder(stepID int64, productID, brokerID *int64) (int, error) {
	var max *int
	err := scopeExact(r.db.Model(&entities.StepSection{}), stepID, productID, brokerID).
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

func (r *sectionRepository) GetStepSectionSiblings(stepID int64, productID, brokerID *int64) ([]entities.StepSection, error) {
	var siblings []entities.StepSection
	err := scopeExact(r.db, stepID, productID, brokerID).
		Order(`"order", id`).
		Find(&siblings).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrPersistence)
	}
	return siblings, nil
}

// GetSectionsForStep lists a step's sections for display: rows in the generic
// scope plus rows overridden for the given product/broker.
func (r *sectionRepository) GetSectionsForStep(stepID int64, productID, brokerID *int64) ([]entities.StepSection, error) {
	query := r.db.Preload("Section").Where("stepid = ?", stepID)
	if productID != nil {
		query = query.Where("productid IS NULL OR productid = ?", *productID)
	}
	if brokerID != nil {
		query = query.Where("brokerid IS NULL OR brokerid = ?", *brokerID)
	}
	var assocs []entities.StepSection
	err := query.Order(`"order", id`).Find(&assocs).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrPersistence)
	}
	return assocs, nil
}

func (r *sectionRepository) UpdateStepSectionOrder(id int64, order int) error {
	err := r.db.Model(&entities.StepSection{}).
		Where("id = ?", id).
		Update("order", order).Error
	return translateWrite(err, entities.ErrConstraintViolation)
}

// ShiftStepSectionOrders moves a whole sibling set out of the way so a dense
// renumbering never trips the composite unique ordinal index mid-flight.
func (r *sectionRepository) ShiftStepSectionOrders(ids []int64, offset int) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.Model(&entities.StepSection{}).
		Where("id IN ?", ids).
		Update("order", gorm.Expr(`"order" + ?`, offset)).Error
	return translateWrite(err, entities.ErrConstraintViolation)
}

func (r *sectionRepository) CountStepSectionsForStep(stepID int64) (int64, error) {
	var count int64
	err := r.db.Model(&entities.StepSection{}).Where("stepid = ?", stepID).Count(&count).Error
	if err != nil {
		return 0, translateRead(err, entities.ErrPersistence)
	}
	return count, nil
}
