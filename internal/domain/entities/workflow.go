package entities

// Workflow owns the routes of one funnel. It is created together with its
// funnel and never edited afterwards.
type Workflow struct {
	ID          int64  `json:"id" gorm:"primaryKey;column:id"`
	Description string `json:"description" gorm:"column:description;size:255"`
}

func (Workflow) TableName() string {
	return "workflow"
}
