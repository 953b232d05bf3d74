package entities

import "gorm.io/datatypes"

// Condition, RouteCondition and OrderFunnel complete the schema but have no
// mutation path in the composer: conditions are edited elsewhere and
// order_funnel is runtime execution state.

type Condition struct {
	ID   int64          `json:"id" gorm:"primaryKey;column:id"`
	Data datatypes.JSON `json:"data" gorm:"column:data"`
}

func (Condition) TableName() string {
	return "condition"
}

type RouteCondition struct {
	ID          int64  `json:"id" gorm:"primaryKey;column:id"`
	RouteID     int64  `json:"route_id" gorm:"column:route_id"`
	ConditionID int64  `json:"condition_id" gorm:"column:condition_id"`
	BrokerID    *int64 `json:"broker_id" gorm:"column:broker_id"`
	ProductID   *int64 `json:"product_id" gorm:"column:product_id"`
}

func (RouteCondition) TableName() string {
	return "route_condition"
}

type OrderFunnel struct {
	ID            int64          `json:"id" gorm:"primaryKey;column:id"`
	OrderID       string         `json:"order_id" gorm:"column:order_id;size:255;uniqueIndex"`
	FunnelID      int64          `json:"funnel_id" gorm:"column:funnel_id"`
	PreviousSteps datatypes.JSON `json:"previous_steps,omitempty" gorm:"column:previous_steps"`
	NextStep      *int64         `json:"next_step,omitempty" gorm:"column:next_step"`
}

func (OrderFunnel) TableName() string {
	return "order_funnel"
}
