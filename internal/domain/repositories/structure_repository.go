package repositories

import (
	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StructureRepository interface {
	CreateStructure(structure *entities.Structure) error
	FindStructureByID(id int64) (*entities.Structure, error)
	UpdateStructureData(id int64, data datatypes.JSON) error
	DeleteStructure(id int64) error

	CreateStructureComponentSection(assoc *entities.StructureComponentSection) error
	FindStructureComponentSectionByID(id int64) (*entities.StructureComponentSection, error)
	GetForComponentSection(componentSectionID int64) ([]entities.StructureComponentSection, error)
	DeleteStructureComponentSection(id int64) error
}

type structureRepository struct {
	db *gorm.DB
}

func NewStructureRepository(db *gorm.DB) StructureRepository {
	return &structureRepository{db}
}

func (r *structureRepository) CreateStructure(structure *entities.Structure) error {
	return translateWrite(r.db.Create(structure).Error, entities.ErrConstraintViolation)
}

func (r *structureRepository) FindStructureByID(id int64) (*entities.Structure, error) {
	var structure entities.Structure
	err := r.db.First(&structure, id).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownStructure)
	}
	return &structure, nil
}

// UpdateStructureData replaces the whole document; there is no partial merge.
func (r *structureRepository) UpdateStructureData(id int64, data datatypes.JSON) error {
	result := r.db.Model(&entities.Structure{}).Where("id = ?", id).Update("data", data)
	if result.Error != nil {
		return translateWrite(result.Error, entities.ErrConstraintViolation)
	}
	if result.RowsAffected == 0 {
		return entities.ErrUnknownStructure
	}
	return nil
}

func (r *structureRepository) DeleteStructure(id int64) error {
	return translateWrite(r.db.Delete(&entities.Structure{}, id).Error, entities.ErrConstraintViolation)
}

func (r *structureRepository) CreateStructureComponentSection(assoc *entities.StructureComponentSection) error {
	return translateWrite(r.db.Create(assoc).Error, entities.ErrConstraintViolation)
}

func (r *structureRepository) FindStructureComponentSectionByID(id int64) (*entities.StructureComponentSection, error) {
	var assoc entities.StructureComponentSection
	err := r.db.First(&assoc, id).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownStructure)
	}
	return &assoc, nil
}

func (r *structureRepository) GetForComponentSection(componentSectionID int64) ([]entities.StructureComponentSection, error) {
	var assocs []entities.StructureComponentSection
	err := r.db.Where("component_sectionid = ?", componentSectionID).
		Order(`"order", id`).
		Find(&assocs).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrPersistence)
	}
	return assocs, nil
}

func (r *structureRepository) DeleteStructureComponentSection(id int64) error {
	return translateWrite(r.db.Delete(&entities.StructureComponentSection{}, id).Error, entities.ErrConstraintViolation)
}
