package usecases

import (
	"testing"

	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"github.com/funnelmanager/funnel-composer-api/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStepStoresOpaquePayloads(t *testing.T) {
	db := newTestDB(t)
	uc := NewStepUseCase(db, cache.New(), testTTL)

	code := "CHK"
	step, err := uc.CreateStep(StepInput{
		StepURL:      "/checkout",
		ShoppingCart: []byte(`{"items": []}`),
		PostMessage:  true,
		StepCode:     &code,
		GTMReference: []byte(`{"event": "checkout"}`),
	})
	require.NoError(t, err)
	assert.NotZero(t, step.ID)
	assert.Equal(t, "/checkout", step.StepURL)
	assert.True(t, step.PostMessage)
	assert.JSONEq(t, `{"items": []}`, string(step.ShoppingCart))

	found, err := NewStepUseCase(db, cache.New(), testTTL).ListSteps()
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, step.ID, found[0].ID)
}

func TestCreateStepRejectsDuplicateURL(t *testing.T) {
	db := newTestDB(t)
	uc := NewStepUseCase(db, cache.New(), testTTL)

	mustCreateStep(t, uc, "/checkout")

	// The URL is compared byte for byte; a different case is a new step.
	_, err := uc.CreateStep(StepInput{StepURL: "/checkout"})
	assert.ErrorIs(t, err, entities.ErrDuplicateStepURL)

	_, err = uc.CreateStep(StepInput{StepURL: "/Checkout"})
	assert.NoError(t, err)
}

func TestCreateStepRejectsMalformedJSON(t *testing.T) {
	db := newTestDB(t)
	uc := NewStepUseCase(db, cache.New(), testTTL)

	_, err := uc.CreateStep(StepInput{StepURL: "/a", ShoppingCart: []byte(`{"broken":`)})
	assert.ErrorIs(t, err, entities.ErrInvalidJSON)

	_, err = uc.CreateStep(StepInput{StepURL: "/a", GTMReference: []byte(`not json`)})
	assert.ErrorIs(t, err, entities.ErrInvalidJSON)

	// Nothing was written on either failure.
	steps, err := uc.ListSteps()
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestCreateStepRequiresURL(t *testing.T) {
	db := newTestDB(t)
	uc := NewStepUseCase(db, cache.New(), testTTL)

	_, err := uc.CreateStep(StepInput{})
	assert.ErrorIs(t, err, entities.ErrConstraintViolation)
}

func TestUpdateStepRejectsURLCollision(t *testing.T) {
	db := newTestDB(t)
	uc := NewStepUseCase(db, cache.New(), testTTL)

	first := mustCreateStep(t, uc, "/one")
	second := mustCreateStep(t, uc, "/two")

	_, err := uc.UpdateStep(second.ID, StepInput{StepURL: first.StepURL})
	assert.ErrorIs(t, err, entities.ErrDuplicateStepURL)

	updated, err := uc.UpdateStep(second.ID, StepInput{StepURL: "/three", PostMessage: true})
	require.NoError(t, err)
	assert.Equal(t, "/three", updated.StepURL)
	assert.True(t, updated.PostMessage)
}

func TestUpdateStepUnknown(t *testing.T) {
	db := newTestDB(t)
	uc := NewStepUseCase(db, cache.New(), testTTL)

	_, err := uc.UpdateStep(404, StepInput{StepURL: "/nope"})
	assert.ErrorIs(t, err, entities.ErrUnknownStep)
}

func TestDeleteStepRefusesWhileReferenced(t *testing.T) {
	db := newTestDB(t)
	uc := NewStepUseCase(db, cache.New(), testTTL)

	step := mustCreateStep(t, uc, "/checkout")
	workflow := seedWorkflow(t, db, "Workflow per Test")
	require.NoError(t, db.Create(&entities.Route{WorkflowID: workflow.ID, ToStepID: step.ID}).Error)

	err := uc.DeleteStep(step.ID)
	assert.ErrorIs(t, err, entities.ErrStepInUse)
	assert.ErrorIs(t, err, entities.ErrConstraintViolation)

	// Once the route is gone the step can go too.
	require.NoError(t, db.Where("to_step_id = ?", step.ID).Delete(&entities.Route{}).Error)
	require.NoError(t, uc.DeleteStep(step.ID))

	steps, err := uc.ListSteps()
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestDeleteStepRefusesWhileSectionsAttached(t *testing.T) {
	db := newTestDB(t)
	uc := NewStepUseCase(db, cache.New(), testTTL)
	composition := NewCompositionUseCase(db, cache.New(), testTTL)

	step := mustCreateStep(t, uc, "/landing")
	section, _, err := composition.FindOrCreateSection("hero")
	require.NoError(t, err)
	_, err = composition.AttachSectionToStep(step.ID, section.ID, nil, nil)
	require.NoError(t, err)

	err = uc.DeleteStep(step.ID)
	assert.ErrorIs(t, err, entities.ErrStepInUse)
}

func TestListStepsForWorkflowFollowsRoutes(t *testing.T) {
	db := newTestDB(t)
	uc := NewStepUseCase(db, cache.New(), testTTL)
	routeUC := NewRouteUseCase(db)

	a := mustCreateStep(t, uc, "/a")
	b := mustCreateStep(t, uc, "/b")
	mustCreateStep(t, uc, "/unrouted")
	workflow := seedWorkflow(t, db, "Workflow per Test")

	_, err := routeUC.CreateRoute(workflow.ID, nil, a.ID, nil)
	require.NoError(t, err)
	_, err = routeUC.CreateRoute(workflow.ID, &a.ID, b.ID, nil)
	require.NoError(t, err)

	steps, err := uc.ListStepsForWorkflow(workflow.ID)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	urls := []string{steps[0].StepURL, steps[1].StepURL}
	assert.ElementsMatch(t, []string{"/a", "/b"}, urls)
}

func TestStepWritesInvalidateStepCache(t *testing.T) {
	db := newTestDB(t)
	catalog := cache.New()
	uc := NewStepUseCase(db, catalog, testTTL)

	mustCreateStep(t, uc, "/a")
	steps, err := uc.ListSteps()
	require.NoError(t, err)
	require.Len(t, steps, 1)

	mustCreateStep(t, uc, "/b")
	steps, err = uc.ListSteps()
	require.NoError(t, err)
	assert.Len(t, steps, 2)
}
