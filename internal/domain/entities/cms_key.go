package entities

import "gorm.io/datatypes"

// CmsKey carries CMS-overridable key/value data for one structure placement.
// The value is an opaque document; key-level granularity lives inside it.
type CmsKey struct {
	ID                          int64          `json:"id" gorm:"primaryKey;column:id"`
	Value                       datatypes.JSON `json:"value" gorm:"column:value;not null"`
	StructureComponentSectionID int64          `json:"structure_component_section_id" gorm:"column:structurecomponentsectionid;not null"`
}

func (CmsKey) TableName() string {
	return "cms_key"
}
