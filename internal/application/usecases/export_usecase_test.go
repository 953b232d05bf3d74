package usecases

import (
	"testing"

	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"github.com/funnelmanager/funnel-composer-api/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type exportFixture struct {
	db       *gorm.DB
	funnels  FunnelUseCase
	steps    StepUseCase
	routes   RouteUseCase
	design   CompositionUseCase
	exporter ExportUseCase
}

// newExportFixture builds a funnel for product 101 with two routed steps and
// a designed landing step: a global hero section holding one component with
// structure data and a CMS value, plus a product-scoped FAQ section.
func newExportFixture(t *testing.T) (*exportFixture, int64) {
	t.Helper()

	db := newTestDB(t)
	catalog := cache.New()
	fixture := &exportFixture{
		db:       db,
		funnels:  NewFunnelUseCase(db, catalog, testTTL, 1),
		steps:    NewStepUseCase(db, catalog, testTTL),
		routes:   NewRouteUseCase(db),
		design:   NewCompositionUseCase(db, catalog, testTTL),
		exporter: NewExportUseCase(db, catalog, 1),
	}

	seedProduct(t, db, 101, "Travel Insurance")
	provisioned, err := fixture.funnels.ProvisionFunnel(101, "Travel Insurance")
	require.NoError(t, err)

	landing := mustCreateStep(t, fixture.steps, "/landing")
	checkout := mustCreateStep(t, fixture.steps, "/checkout")
	_, err = fixture.routes.CreateRoute(provisioned.WorkflowID, nil, landing.ID, nil)
	require.NoError(t, err)
	_, err = fixture.routes.CreateRoute(provisioned.WorkflowID, &landing.ID, checkout.ID, []byte(`{"condition": "paid"}`))
	require.NoError(t, err)

	hero, _, err := fixture.design.FindOrCreateSection("hero")
	require.NoError(t, err)
	_, err = fixture.design.AttachSectionToStep(landing.ID, hero.ID, nil, nil)
	require.NoError(t, err)

	headline, _, err := fixture.design.FindOrCreateComponent("headline")
	require.NoError(t, err)
	attached, err := fixture.design.AttachComponentToSection(hero.ID, headline.ID)
	require.NoError(t, err)
	_, err = fixture.design.UpdateStructureData(attached.StructureID, []byte(`{"fields": ["title"]}`))
	require.NoError(t, err)
	_, err = fixture.design.UpsertCmsKey(attached.StructureComponentSectionID, []byte(`{"title": "Welcome"}`))
	require.NoError(t, err)

	faq, _, err := fixture.design.FindOrCreateSection("faq")
	require.NoError(t, err)
	productID := int64(101)
	_, err = fixture.design.AttachSectionToStep(landing.ID, faq.ID, &productID, nil)
	require.NoError(t, err)

	return fixture, provisioned.FunnelID
}

func TestExportFunnelSnapshot(t *testing.T) {
	fixture, funnelID := newExportFixture(t)

	snapshot, err := fixture.exporter.ExportFunnel(funnelID)
	require.NoError(t, err)

	assert.NotEmpty(t, snapshot.ExportID)
	assert.Equal(t, "Funnel - Travel Insurance", snapshot.Funnel.Name)
	assert.Equal(t, "P101", snapshot.Funnel.ProductCode)
	assert.Equal(t, "Workflow per Travel Insurance", snapshot.Funnel.WorkflowDescription)

	require.Len(t, snapshot.Steps, 2)
	urls := []string{snapshot.Steps[0].StepURL, snapshot.Steps[1].StepURL}
	assert.ElementsMatch(t, []string{"/landing", "/checkout"}, urls)

	require.Len(t, snapshot.Routes, 2)
	var entry, inner *RouteExport
	for i := range snapshot.Routes {
		if snapshot.Routes[i].FromStepURL == nil {
			entry = &snapshot.Routes[i]
		} else {
			inner = &snapshot.Routes[i]
		}
	}
	require.NotNil(t, entry)
	require.NotNil(t, inner)
	assert.Equal(t, "/landing", entry.ToStepURL)
	assert.Equal(t, "/landing", *inner.FromStepURL)
	assert.Equal(t, "/checkout", inner.ToStepURL)
	assert.JSONEq(t, `{"condition": "paid"}`, string(inner.RouteConfig))

	require.Len(t, snapshot.Sections, 2)
	var hero, faq *SectionExport
	for i := range snapshot.Sections {
		switch snapshot.Sections[i].SectionType {
		case "hero":
			hero = &snapshot.Sections[i]
		case "faq":
			faq = &snapshot.Sections[i]
		}
	}
	require.NotNil(t, hero)
	require.NotNil(t, faq)
	assert.False(t, hero.ProductScoped)
	assert.True(t, faq.ProductScoped)

	require.Len(t, hero.Components, 1)
	component := hero.Components[0]
	assert.Equal(t, "headline", component.ComponentType)
	assert.JSONEq(t, `{"fields": ["title"]}`, string(component.Structure))
	assert.JSONEq(t, `{"title": "Welcome"}`, string(component.CmsValue))
}

func TestExportFunnelUnknown(t *testing.T) {
	fixture, _ := newExportFixture(t)

	_, err := fixture.exporter.ExportFunnel(999)
	assert.ErrorIs(t, err, entities.ErrUnknownFunnel)
}

func TestImportFunnelReusesStepsByURL(t *testing.T) {
	fixture, funnelID := newExportFixture(t)
	seedProduct(t, fixture.db, 202, "Home Insurance")

	snapshot, err := fixture.exporter.ExportFunnel(funnelID)
	require.NoError(t, err)

	result, err := fixture.exporter.ImportFunnel(202, snapshot, ImportOptions{})
	require.NoError(t, err)

	// Both environments share the step table, so nothing is duplicated.
	assert.Equal(t, 0, result.StepsCreated)
	assert.Equal(t, 2, result.StepsReused)
	assert.Equal(t, 2, result.RoutesCreated)
	// The global hero placement already exists; only the product-scoped FAQ
	// placement is recreated under the new product.
	assert.Equal(t, 1, result.SectionsAttached)
	assert.Equal(t, 0, result.ComponentsAttached)
	assert.Equal(t, 1, result.CmsKeysWritten)

	funnel, found, err := fixture.funnels.FindFunnelForProduct(202)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Funnel - Home Insurance", funnel.Name)
	assert.Equal(t, result.WorkflowID, funnel.WorkflowID)

	views, err := fixture.routes.ListRoutesForWorkflow(funnel.WorkflowID)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	var stepCount int64
	require.NoError(t, fixture.db.Model(&entities.Step{}).Count(&stepCount).Error)
	assert.Equal(t, int64(2), stepCount)
}

func TestImportFunnelRespectsExistingFunnel(t *testing.T) {
	fixture, funnelID := newExportFixture(t)
	seedProduct(t, fixture.db, 202, "Home Insurance")

	snapshot, err := fixture.exporter.ExportFunnel(funnelID)
	require.NoError(t, err)

	_, err = fixture.exporter.ImportFunnel(202, snapshot, ImportOptions{})
	require.NoError(t, err)

	_, err = fixture.exporter.ImportFunnel(202, snapshot, ImportOptions{})
	assert.ErrorIs(t, err, entities.ErrDuplicateFunnel)

	// UpdateExisting replaces the route graph instead of refusing.
	result, err := fixture.exporter.ImportFunnel(202, snapshot, ImportOptions{UpdateExisting: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.RoutesCreated)

	views, err := fixture.routes.ListRoutesForWorkflow(result.WorkflowID)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestImportFunnelRejectsBadSnapshots(t *testing.T) {
	fixture, _ := newExportFixture(t)
	seedProduct(t, fixture.db, 202, "Home Insurance")

	_, err := fixture.exporter.ImportFunnel(202, nil, ImportOptions{})
	assert.ErrorIs(t, err, entities.ErrInvalidJSON)

	_, err = fixture.exporter.ImportFunnel(202, &FunnelSnapshot{}, ImportOptions{})
	assert.ErrorIs(t, err, entities.ErrInvalidJSON)

	a, b := "/a", "/b"
	cyclic := &FunnelSnapshot{
		Steps: []StepExport{{StepURL: a}, {StepURL: b}},
		Routes: []RouteExport{
			{FromStepURL: &a, ToStepURL: b},
			{FromStepURL: &b, ToStepURL: a},
		},
	}
	_, err = fixture.exporter.ImportFunnel(202, cyclic, ImportOptions{})
	assert.ErrorIs(t, err, entities.ErrCycleDetected)

	selfLoop := &FunnelSnapshot{
		Steps:  []StepExport{{StepURL: a}},
		Routes: []RouteExport{{FromStepURL: &a, ToStepURL: a}},
	}
	_, err = fixture.exporter.ImportFunnel(202, selfLoop, ImportOptions{})
	assert.ErrorIs(t, err, entities.ErrSelfRoute)

	dangling := &FunnelSnapshot{
		Steps:  []StepExport{{StepURL: a}},
		Routes: []RouteExport{{ToStepURL: b}},
	}
	_, err = fixture.exporter.ImportFunnel(202, dangling, ImportOptions{})
	assert.ErrorIs(t, err, entities.ErrUnknownStep)

	_, err = fixture.exporter.ImportFunnel(999, &FunnelSnapshot{Steps: []StepExport{{StepURL: a}}}, ImportOptions{})
	assert.ErrorIs(t, err, entities.ErrUnknownProduct)
}
