package service

import (
	"context"
	"errors"
	"testing"

	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type poiFixture struct {
	svc   *POIService
	farms *mockFarmStore
	plots *mockPlotStore
}

func newPOIFixture() *poiFixture {
	farms := newMockFarmStore()
	plots := newMockPlotStore()
	return &poiFixture{
		svc:   NewPOIService(newMockPOIStore(), farms, plots),
		farms: farms,
		plots: plots,
	}
}

func (fx *poiFixture) seed(t *testing.T, tenantID uuid.UUID) (farmID, plotID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	f := &domain.Farm{FarmName: "Fixture Farm", OwnerReferenceID: uuid.New(), CountryCode: "KE", TenantID: tenantID}
	require.NoError(t, fx.farms.Create(ctx, f))
	p := &domain.Plot{FarmIdentifier: f.FarmIdentifier, Geometry: testPolygon(), TenantID: tenantID}
	require.NoError(t, fx.plots.Create(ctx, p))
	return f.FarmIdentifier, p.PlotIdentifier
}

func point(lon, lat float64) *orb.Point {
	p := orb.Point{lon, lat}
	return &p
}

func TestPOIService_CreateOnFarm(t *testing.T) {
	fx := newPOIFixture()
	tenantID := uuid.New()
	farmID, _ := fx.seed(t, tenantID)

	poi, err := fx.svc.Create(context.Background(), tenantID, CreatePOIInput{
		ParentEntityIdentifier: farmID,
		ParentEntityType:       domain.ParentFarm,
		POIName:                str("Borehole"),
		POIType:                domain.POIWaterSource,
		Coordinates:            point(36.067, -0.282),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, poi.POIIdentifier)
	assert.Equal(t, tenantID, poi.TenantID)
	assert.Equal(t, domain.ParentFarm, poi.ParentEntityType)
}

func TestPOIService_CreateOnPlot(t *testing.T) {
	fx := newPOIFixture()
	tenantID := uuid.New()
	_, plotID := fx.seed(t, tenantID)

	poi, err := fx.svc.Create(context.Background(), tenantID, CreatePOIInput{
		ParentEntityIdentifier: plotID,
		ParentEntityType:       domain.ParentPlot,
		POIType:                domain.POISoilSensor,
		Coordinates:            point(36.067, -0.282),
	})
	require.NoError(t, err)
	assert.Equal(t, plotID, poi.ParentEntityIdentifier)
}

func TestPOIService_CreateInvalidParentType(t *testing.T) {
	fx := newPOIFixture()
	tenantID := uuid.New()
	farmID, _ := fx.seed(t, tenantID)

	_, err := fx.svc.Create(context.Background(), tenantID, CreatePOIInput{
		ParentEntityIdentifier: farmID,
		ParentEntityType:       domain.ParentEntityType("FIELD"),
		POIType:                domain.POIOther,
		Coordinates:            point(36.067, -0.282),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestPOIService_CreateMissingParent(t *testing.T) {
	fx := newPOIFixture()
	tenantID := uuid.New()
	fx.seed(t, tenantID)

	for _, parentType := range []domain.ParentEntityType{domain.ParentFarm, domain.ParentPlot} {
		_, err := fx.svc.Create(context.Background(), tenantID, CreatePOIInput{
			ParentEntityIdentifier: uuid.New(),
			ParentEntityType:       parentType,
			POIType:                domain.POIOther,
			Coordinates:            point(36.067, -0.282),
		})
		assert.True(t, errors.Is(err, ErrNotFound), "parent type %s", parentType)
	}
}

func TestPOIService_CreateCrossTenantParent(t *testing.T) {
	fx := newPOIFixture()
	farmID, _ := fx.seed(t, uuid.New())

	_, err := fx.svc.Create(context.Background(), uuid.New(), CreatePOIInput{
		ParentEntityIdentifier: farmID,
		ParentEntityType:       domain.ParentFarm,
		POIType:                domain.POIOther,
		Coordinates:            point(36.067, -0.282),
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPOIService_CreateRequiresCoordinates(t *testing.T) {
	fx := newPOIFixture()
	tenantID := uuid.New()
	farmID, _ := fx.seed(t, tenantID)

	_, err := fx.svc.Create(context.Background(), tenantID, CreatePOIInput{
		ParentEntityIdentifier: farmID,
		ParentEntityType:       domain.ParentFarm,
		POIType:                domain.POIOther,
	})
	require.Error(t, err)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "coordinates")
}

func TestPOIService_UpdateKeepsParent(t *testing.T) {
	fx := newPOIFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	farmID, _ := fx.seed(t, tenantID)

	poi, err := fx.svc.Create(ctx, tenantID, CreatePOIInput{
		ParentEntityIdentifier: farmID,
		ParentEntityType:       domain.ParentFarm,
		POIName:                str("Old Gate"),
		POIType:                domain.POIAccessPoint,
		Coordinates:            point(36.067, -0.282),
	})
	require.NoError(t, err)

	newType := domain.POIHazard
	updated, err := fx.svc.Update(ctx, poi.POIIdentifier, tenantID, UpdatePOIInput{
		POIName: str("Washed-out Gate"),
		POIType: &newType,
	})
	require.NoError(t, err)
	assert.Equal(t, "Washed-out Gate", *updated.POIName)
	assert.Equal(t, domain.POIHazard, updated.POIType)
	assert.Equal(t, farmID, updated.ParentEntityIdentifier)
	assert.Equal(t, domain.ParentFarm, updated.ParentEntityType)
	assert.Equal(t, poi.Coordinates, updated.Coordinates)
}

func TestPOIService_ListByParentChecksParent(t *testing.T) {
	fx := newPOIFixture()
	tenantID := uuid.New()
	fx.seed(t, tenantID)

	_, _, err := fx.svc.ListByParentPaged(context.Background(), uuid.New(), domain.ParentFarm, tenantID, domain.PageRequest{})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = fx.svc.ListByParent(context.Background(), uuid.New(), domain.ParentFarm, tenantID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPOIService_ListByParent(t *testing.T) {
	fx := newPOIFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	farmID, plotID := fx.seed(t, tenantID)

	for _, in := range []CreatePOIInput{
		{ParentEntityIdentifier: farmID, ParentEntityType: domain.ParentFarm, POIType: domain.POIBuilding, Coordinates: point(36.06, -0.28)},
		{ParentEntityIdentifier: farmID, ParentEntityType: domain.ParentFarm, POIType: domain.POIWaterSource, Coordinates: point(36.07, -0.28)},
		{ParentEntityIdentifier: plotID, ParentEntityType: domain.ParentPlot, POIType: domain.POISoilSensor, Coordinates: point(36.08, -0.28)},
	} {
		_, err := fx.svc.Create(ctx, tenantID, in)
		require.NoError(t, err)
	}

	pois, total, err := fx.svc.ListByParentPaged(ctx, farmID, domain.ParentFarm, tenantID, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, pois, 2)

	// Unpaged variant sees the same rows.
	all, err := fx.svc.ListByParent(ctx, farmID, domain.ParentFarm, tenantID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPOIService_DeleteNotFound(t *testing.T) {
	fx := newPOIFixture()
	err := fx.svc.Delete(context.Background(), uuid.New(), uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
}
