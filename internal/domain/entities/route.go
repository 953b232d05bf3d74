package entities

import "gorm.io/datatypes"

// Route is a directed edge between two steps inside one workflow. A nil
// FromStepID marks an entry route. The edge set of a workflow must stay
// acyclic; the route use case enforces that before inserting. Edge
// uniqueness is a COALESCE expression index (migrations.AddIndexes) so that
// duplicate entry routes, whose origin is NULL, still collide.
type Route struct {
	ID          int64          `json:"id" gorm:"primaryKey;column:id"`
	WorkflowID  int64          `json:"workflow_id" gorm:"column:workflow_id"`
	FromStepID  *int64         `json:"from_step_id" gorm:"column:from_step_id"`
	ToStepID    int64          `json:"to_step_id" gorm:"column:to_step_id;not null"`
	RouteConfig datatypes.JSON `json:"route_config,omitempty" gorm:"column:route_config"`
}

func (Route) TableName() string {
	return "route"
}

// RouteView is a route with its endpoints resolved for display.
type RouteView struct {
	Route
	FromStepURL  *string `json:"from_step_url" gorm:"column:from_step_url"`
	FromStepCode *string `json:"from_step_code" gorm:"column:from_step_code"`
	ToStepURL    *string `json:"to_step_url" gorm:"column:to_step_url"`
	ToStepCode   *string `json:"to_step_code" gorm:"column:to_step_code"`
}
