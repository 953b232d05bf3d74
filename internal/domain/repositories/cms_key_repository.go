package repositories

import (
	"errors"

	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CmsKeyRepository interface {
	Create(key *entities.CmsKey) error
	FindByOwner(structureComponentSectionID int64) (*entities.CmsKey, bool, error)
	UpdateValue(id int64, value datatypes.JSON) error
	DeleteByOwner(structureComponentSectionID int64) error
}

type cmsKeyRepository struct {
	db *gorm.DB
}

func NewCmsKeyRepository(db *gorm.DB) CmsKeyRepository {
	return &cmsKeyRepository{db}
}

func (r *cmsKeyRepository) Create(key *entities.CmsKey) error {
	return translateWrite(r.db.Create(key).Error, entities.ErrConstraintViolation)
}

// FindByOwner looks up the key by its owning placement; CmsKey has no natural
// key of its own, so this is the upsert identity.
func (r *cmsKeyRepository) FindByOwner(structureComponentSectionID int64) (*entities.CmsKey, bool, error) {
	var key entities.CmsKey
	err := r.db.Where("structurecomponentsectionid = ?", structureComponentSectionID).First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, translateRead(err, entities.ErrPersistence)
	}
	return &key, true, nil
}

func (r *cmsKeyRepository) UpdateValue(id int64, value datatypes.JSON) error {
	err := r.db.Model(&entities.CmsKey{}).Where("id = ?", id).Update("value", value).Error
	return translateWrite(err, entities.ErrConstraintViolation)
}

func (r *cmsKeyRepository) DeleteByOwner(structureComponentSectionID int64) error {
	err := r.db.Where("structurecomponentsectionid = ?", structureComponentSectionID).
		Delete(&entities.CmsKey{}).Error
	return translateWrite(err, entities.ErrConstraintViolation)
}
