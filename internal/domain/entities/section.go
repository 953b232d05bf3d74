package entities

import "gorm.io/datatypes"

// Section is a reusable catalog entry for a UI region type.
type Section struct {
	ID          int64  `json:"id" gorm:"primaryKey;column:id"`
	SectionType string `json:"section_type" gorm:"column:sectiontype;not null"`
}

func (Section) TableName() string {
	return "section"
}

// StepSection places a section on a step. The ordinal is scoped by the
// (step, product, broker) tuple so a product or broker can carry its own
// layout; within one scope ordinals are dense and unique. Product and broker
// are nullable, so the ordinal uniqueness lives in a COALESCE expression
// index (migrations.AddIndexes) rather than a tag here: a plain composite
// index would treat NULL scopes as always distinct.
type StepSection struct {
	ID                    int64          `json:"id" gorm:"primaryKey;column:id"`
	Order                 int            `json:"order" gorm:"column:order;not null"`
	SectionID             int64          `json:"section_id" gorm:"column:sectionid;not null"`
	StepID                int64          `json:"step_id" gorm:"column:stepid;not null"`
	ProductID             *int64         `json:"product_id" gorm:"column:productid"`
	BrokerID              *int64         `json:"broker_id" gorm:"column:brokerid"`
	OrderFieldsStepSchema datatypes.JSON `json:"order_fields_step_schema,omitempty" gorm:"column:orderfieldsstepschema"`
	Authorized            bool           `json:"authorized" gorm:"column:authorized;default:false"`

	Section *Section `json:"section,omitempty" gorm:"foreignKey:SectionID;references:ID"`
}

func (StepSection) TableName() string {
	return "step_section"
}
