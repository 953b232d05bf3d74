package repositories

import (
	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"gorm.io/gorm"
)

type StepRepository interface {
	Create(step *entities.Step) error
	Update(step *entities.Step) error
	Delete(id int64) error
	FindByID(id int64) (*entities.Step, error)
	FindByURL(url string) (*entities.Step, error)
	GetSteps() ([]entities.Step, error)
	GetStepsForWorkflow(workflowID int64) ([]entities.Step, error)
}

type stepRepository struct {
	db *gorm.DB
}

func NewStepRepository(db *gorm.DB) StepRepository {
	return &stepRepository{db}
}

func (r *stepRepository) Create(step *entities.Step) error {
	return translateWrite(r.db.Create(step).Error, entities.ErrDuplicateStepURL)
}

func (r *stepRepository) Update(step *entities.Step) error {
	return translateWrite(r.db.Save(step).Error, entities.ErrDuplicateStepURL)
}

func (r *stepRepository) Delete(id int64) error {
	return translateWrite(r.db.Delete(&entities.Step{}, id).Error, entities.ErrConstraintViolation)
}

func (r *stepRepository) FindByID(id int64) (*entities.Step, error) {
	var step entities.Step
	err := r.db.First(&step, id).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownStep)
	}
	return &step, nil
}

// FindByURL is the advisory duplicate pre-check; the unique index on
// step_url remains the authoritative guard.
func (r *stepRepository) FindByURL(url string) (*entities.Step, error) {
	var step entities.Step
	err := r.db.Where("step_url = ?", url).First(&step).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrUnknownStep)
	}
	return &step, nil
}

func (r *stepRepository) GetSteps() ([]entities.Step, error) {
	var steps []entities.Step
	err := r.db.Order("step_url").Find(&steps).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrPersistence)
	}
	return steps, nil
}

// GetStepsForWorkflow returns the distinct steps reachable as either endpoint
// of a route belonging to the workflow.
func (r *stepRepository) GetStepsForWorkflow(workflowID int64) ([]entities.Step, error) {
	var steps []entities.Step
	err := r.db.Model(&entities.Step{}).
		Distinct("step.*").
		Joins("JOIN route ON route.from_step_id = step.id OR route.to_step_id = step.id").
		Where("route.workflow_id = ?", workflowID).
		Order("step.id").
		Find(&steps).Error
	if err != nil {
		return nil, translateRead(err, entities.ErrPersistence)
	}
	return steps, nil
}
