package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testPolygon() orb.Polygon {
	return orb.Polygon{
		{{36.066, -0.283}, {36.068, -0.283}, {36.068, -0.281}, {36.066, -0.281}, {36.066, -0.283}},
	}
}

type plotFixture struct {
	svc     *PlotService
	plots   *mockPlotStore
	farms   *mockFarmStore
	tenures *mockLandTenureStore
}

func newPlotFixture() *plotFixture {
	farms := newMockFarmStore()
	plots := newMockPlotStore()
	tenures := newMockLandTenureStore()
	plots.tenures = tenures
	return &plotFixture{
		svc:     NewPlotService(plots, farms, tenures, zap.NewNop()),
		plots:   plots,
		farms:   farms,
		tenures: tenures,
	}
}

func (fx *plotFixture) createFarm(t *testing.T, tenantID uuid.UUID) uuid.UUID {
	t.Helper()
	f := &domain.Farm{
		FarmName:         "Fixture Farm",
		OwnerReferenceID: uuid.New(),
		CountryCode:      "KE",
		TenantID:         tenantID,
	}
	require.NoError(t, fx.farms.Create(context.Background(), f))
	return f.FarmIdentifier
}

func TestPlotService_Create(t *testing.T) {
	fx := newPlotFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	farmID := fx.createFarm(t, tenantID)

	p, err := fx.svc.Create(ctx, tenantID, CreatePlotInput{
		FarmIdentifier: farmID,
		PlotName:       str("North Plot"),
		Geometry:       testPolygon(),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.PlotIdentifier)
	assert.Equal(t, tenantID, p.TenantID)
	assert.NotNil(t, p.CalculatedAreaHectares)
	assert.Nil(t, p.LandTenureType)
}

func TestPlotService_CreateRequiresGeometry(t *testing.T) {
	fx := newPlotFixture()
	tenantID := uuid.New()
	farmID := fx.createFarm(t, tenantID)

	_, err := fx.svc.Create(context.Background(), tenantID, CreatePlotInput{
		FarmIdentifier: farmID,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestPlotService_CreateUnknownFarm(t *testing.T) {
	fx := newPlotFixture()
	farmID := uuid.New()

	_, err := fx.svc.Create(context.Background(), uuid.New(), CreatePlotInput{
		FarmIdentifier: farmID,
		Geometry:       testPolygon(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "Farm with identifier ["+farmID.String()+"]")
	assert.Empty(t, fx.plots.plots)
}

func TestPlotService_CreateCrossTenantFarm(t *testing.T) {
	fx := newPlotFixture()
	farmID := fx.createFarm(t, uuid.New())

	_, err := fx.svc.Create(context.Background(), uuid.New(), CreatePlotInput{
		FarmIdentifier: farmID,
		Geometry:       testPolygon(),
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPlotService_ListByFarmUnknownFarm(t *testing.T) {
	fx := newPlotFixture()

	_, _, err := fx.svc.ListByFarm(context.Background(), uuid.New(), uuid.New(), domain.PageRequest{})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPlotService_UpdatePartial(t *testing.T) {
	fx := newPlotFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	farmID := fx.createFarm(t, tenantID)

	p, err := fx.svc.Create(ctx, tenantID, CreatePlotInput{
		FarmIdentifier: farmID,
		PlotName:       str("North Plot"),
		Geometry:       testPolygon(),
	})
	require.NoError(t, err)

	cultivator := uuid.New()
	updated, err := fx.svc.Update(ctx, p.PlotIdentifier, tenantID, UpdatePlotInput{
		CultivatorReferenceID: &cultivator,
	})
	require.NoError(t, err)
	assert.Equal(t, "North Plot", *updated.PlotName)
	assert.Equal(t, cultivator, *updated.CultivatorReferenceID)
	assert.Equal(t, farmID, updated.FarmIdentifier)
}

func TestPlotService_DeleteCascadesTenure(t *testing.T) {
	fx := newPlotFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	farmID := fx.createFarm(t, tenantID)

	p, err := fx.svc.Create(ctx, tenantID, CreatePlotInput{
		FarmIdentifier: farmID,
		Geometry:       testPolygon(),
	})
	require.NoError(t, err)

	_, err = fx.svc.UpsertTenure(ctx, p.PlotIdentifier, tenantID, UpsertLandTenureInput{
		TenureType: domain.TenureOwned,
	})
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, p.PlotIdentifier, tenantID))
	assert.Empty(t, fx.tenures.tenures)
}

func TestPlotService_UpsertTenureCreatesThenUpdates(t *testing.T) {
	fx := newPlotFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	farmID := fx.createFarm(t, tenantID)

	p, err := fx.svc.Create(ctx, tenantID, CreatePlotInput{
		FarmIdentifier: farmID,
		Geometry:       testPolygon(),
	})
	require.NoError(t, err)

	first, err := fx.svc.UpsertTenure(ctx, p.PlotIdentifier, tenantID, UpsertLandTenureInput{
		TenureType:   domain.TenureOwned,
		OwnerDetails: str("the cooperative"),
	})
	require.NoError(t, err)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(2, 0, 0)
	second, err := fx.svc.UpsertTenure(ctx, p.PlotIdentifier, tenantID, UpsertLandTenureInput{
		TenureType:     domain.TenureLeased,
		LeaseStartDate: &start,
		LeaseEndDate:   &end,
	})
	require.NoError(t, err)

	// Same row, merged contents: fields omitted from the second request
	// keep their stored value.
	assert.Equal(t, first.LandTenureIdentifier, second.LandTenureIdentifier)
	assert.Equal(t, domain.TenureLeased, second.TenureType)
	require.NotNil(t, second.OwnerDetails)
	assert.Equal(t, "the cooperative", *second.OwnerDetails)
	require.NotNil(t, second.LeaseStartDate)
	assert.Equal(t, start, *second.LeaseStartDate)
	assert.Len(t, fx.tenures.tenures, 1)

	// Denormalized tag follows the tenure row.
	plot, err := fx.svc.Get(ctx, p.PlotIdentifier, tenantID)
	require.NoError(t, err)
	require.NotNil(t, plot.LandTenureType)
	assert.Equal(t, domain.TenureLeased, *plot.LandTenureType)
}

func TestPlotService_UpsertTenureKeepsOmittedFields(t *testing.T) {
	fx := newPlotFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	farmID := fx.createFarm(t, tenantID)

	p, err := fx.svc.Create(ctx, tenantID, CreatePlotInput{
		FarmIdentifier: farmID,
		Geometry:       testPolygon(),
	})
	require.NoError(t, err)

	_, err = fx.svc.UpsertTenure(ctx, p.PlotIdentifier, tenantID, UpsertLandTenureInput{
		TenureType:   domain.TenureLeased,
		OwnerDetails: str("Mr. John Doe"),
	})
	require.NoError(t, err)

	// Type-only upsert must not clear the stored owner details.
	second, err := fx.svc.UpsertTenure(ctx, p.PlotIdentifier, tenantID, UpsertLandTenureInput{
		TenureType: domain.TenureOwned,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TenureOwned, second.TenureType)
	require.NotNil(t, second.OwnerDetails)
	assert.Equal(t, "Mr. John Doe", *second.OwnerDetails)

	// A later upsert can still overwrite them.
	third, err := fx.svc.UpsertTenure(ctx, p.PlotIdentifier, tenantID, UpsertLandTenureInput{
		TenureType:   domain.TenureOwned,
		OwnerDetails: str("the estate"),
	})
	require.NoError(t, err)
	assert.Equal(t, "the estate", *third.OwnerDetails)
}

func TestPlotService_UpsertTenureUnknownType(t *testing.T) {
	fx := newPlotFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	farmID := fx.createFarm(t, tenantID)

	p, err := fx.svc.Create(ctx, tenantID, CreatePlotInput{
		FarmIdentifier: farmID,
		Geometry:       testPolygon(),
	})
	require.NoError(t, err)

	// UNKNOWN is a storable member of the enum, not a validation failure.
	lt, err := fx.svc.UpsertTenure(ctx, p.PlotIdentifier, tenantID, UpsertLandTenureInput{
		TenureType: domain.TenureUnknown,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TenureUnknown, lt.TenureType)

	plot, err := fx.svc.Get(ctx, p.PlotIdentifier, tenantID)
	require.NoError(t, err)
	require.NotNil(t, plot.LandTenureType)
	assert.Equal(t, domain.TenureUnknown, *plot.LandTenureType)
}

func TestPlotService_UpsertTenureInvalidType(t *testing.T) {
	fx := newPlotFixture()
	tenantID := uuid.New()
	farmID := fx.createFarm(t, tenantID)

	p, err := fx.svc.Create(context.Background(), tenantID, CreatePlotInput{
		FarmIdentifier: farmID,
		Geometry:       testPolygon(),
	})
	require.NoError(t, err)

	_, err = fx.svc.UpsertTenure(context.Background(), p.PlotIdentifier, tenantID, UpsertLandTenureInput{
		TenureType: domain.LandTenureType("SQUATTING"),
	})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestPlotService_UpsertTenureLeaseDateOrder(t *testing.T) {
	fx := newPlotFixture()
	tenantID := uuid.New()
	farmID := fx.createFarm(t, tenantID)

	p, err := fx.svc.Create(context.Background(), tenantID, CreatePlotInput{
		FarmIdentifier: farmID,
		Geometry:       testPolygon(),
	})
	require.NoError(t, err)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(-1, 0, 0)
	_, err = fx.svc.UpsertTenure(context.Background(), p.PlotIdentifier, tenantID, UpsertLandTenureInput{
		TenureType:     domain.TenureLeased,
		LeaseStartDate: &start,
		LeaseEndDate:   &end,
	})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestPlotService_GetTenureMissing(t *testing.T) {
	fx := newPlotFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	farmID := fx.createFarm(t, tenantID)

	p, err := fx.svc.Create(ctx, tenantID, CreatePlotInput{
		FarmIdentifier: farmID,
		Geometry:       testPolygon(),
	})
	require.NoError(t, err)

	_, err = fx.svc.GetTenure(ctx, p.PlotIdentifier, tenantID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "LandTenure for Plot")
}

func TestPlotService_GetTenureUnknownPlot(t *testing.T) {
	fx := newPlotFixture()
	plotID := uuid.New()

	_, err := fx.svc.GetTenure(context.Background(), plotID, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Plot with identifier ["+plotID.String()+"]")
}

func TestPlotService_DeleteTenureClearsTag(t *testing.T) {
	fx := newPlotFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	farmID := fx.createFarm(t, tenantID)

	p, err := fx.svc.Create(ctx, tenantID, CreatePlotInput{
		FarmIdentifier: farmID,
		Geometry:       testPolygon(),
	})
	require.NoError(t, err)

	_, err = fx.svc.UpsertTenure(ctx, p.PlotIdentifier, tenantID, UpsertLandTenureInput{
		TenureType: domain.TenureCommunalAccess,
	})
	require.NoError(t, err)

	require.NoError(t, fx.svc.DeleteTenure(ctx, p.PlotIdentifier, tenantID))

	plot, err := fx.svc.Get(ctx, p.PlotIdentifier, tenantID)
	require.NoError(t, err)
	assert.Nil(t, plot.LandTenureType)

	err = fx.svc.DeleteTenure(ctx, p.PlotIdentifier, tenantID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
