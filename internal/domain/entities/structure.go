package entities

import "gorm.io/datatypes"

// Structure holds the opaque JSON configuration for one component placement.
// Every placement gets an empty structure the moment the component is
// attached, so the editor always has a document to open.
type Structure struct {
	ID   int64          `json:"id" gorm:"primaryKey;column:id"`
	Data datatypes.JSON `json:"data" gorm:"column:data;not null"`
}

func (Structure) TableName() string {
	return "structure"
}

// StructureComponentSection joins a structure to a component placement. The
// composer creates exactly one per placement, but the schema permits several,
// ordered.
type StructureComponentSection struct {
	ID                 int64 `json:"id" gorm:"primaryKey;column:id"`
	ComponentSectionID int64 `json:"component_section_id" gorm:"column:component_sectionid;not null"`
	StructureID        int64 `json:"structure_id" gorm:"column:structureid;not null"`
	Order              int   `json:"order" gorm:"column:order;not null"`
}

func (StructureComponentSection) TableName() string {
	return "structure_component_section"
}
