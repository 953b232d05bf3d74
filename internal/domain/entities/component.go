package entities

// Component is a reusable catalog entry for a UI widget type.
type Component struct {
	ID            int64  `json:"id" gorm:"primaryKey;column:id"`
	ComponentType string `json:"component_type" gorm:"column:component_type;not null"`
}

func (Component) TableName() string {
	return "component"
}

// ComponentSection places a component inside a section, ordered among the
// siblings of that section.
type ComponentSection struct {
	ID          int64   `json:"id" gorm:"primaryKey;column:id"`
	ComponentID int64   `json:"component_id" gorm:"column:componentid;not null"`
	SectionID   int64   `json:"section_id" gorm:"column:sectionid;not null;uniqueIndex:ux_component_section_ordinal"`
	Order       int     `json:"order" gorm:"column:order;not null;uniqueIndex:ux_component_section_ordinal"`
	KeyCMS      *string `json:"key_cms,omitempty" gorm:"column:key_cms"`

	Component *Component `json:"component,omitempty" gorm:"foreignKey:ComponentID;references:ID"`
}

func (ComponentSection) TableName() string {
	return "component_section"
}
