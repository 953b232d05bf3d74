package entities

type Funnel struct {
	ID            int64  `json:"id" gorm:"primaryKey;column:id"`
	WorkflowID    int64  `json:"workflow_id" gorm:"column:workflow_id"`
	BrokerID      int64  `json:"broker_id" gorm:"column:broker_id"`
	Name          string `json:"name" gorm:"column:name;size:255;uniqueIndex"`
	FunnelProcess *int64 `json:"funnel_process,omitempty" gorm:"column:funnel_process"`
	Type          string `json:"type,omitempty" gorm:"column:type;size:255"`
	ProductID     int64  `json:"product_id" gorm:"column:product_id"`

	Workflow *Workflow `json:"workflow,omitempty" gorm:"foreignKey:WorkflowID;references:ID"`
}

func (Funnel) TableName() string {
	return "funnel"
}
