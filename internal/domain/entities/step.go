package entities

import "gorm.io/datatypes"

// Step is a reusable URL-addressable stage. Steps are workflow-agnostic: the
// same row can appear in routes of several workflows.
type Step struct {
	ID           int64          `json:"id" gorm:"primaryKey;column:id"`
	StepURL      string         `json:"step_url" gorm:"column:step_url;size:255;not null;uniqueIndex"`
	ShoppingCart datatypes.JSON `json:"shopping_cart,omitempty" gorm:"column:shopping_cart"`
	PostMessage  bool           `json:"post_message" gorm:"column:post_message;default:false"`
	StepCode     *string        `json:"step_code,omitempty" gorm:"column:step_code"`
	GTMReference datatypes.JSON `json:"gtm_reference,omitempty" gorm:"column:gtm_reference"`
}

func (Step) TableName() string {
	return "step"
}
