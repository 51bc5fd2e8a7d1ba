package service

import (
	"context"
	"sort"
	"time"

	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/agrienhance/farmplot/internal/store"
	"github.com/google/uuid"
)

// mockFarmStore implements domain.FarmStore for testing. When plots is set,
// Delete refuses to remove farms that still have plots, like the real
// schema's RESTRICT foreign key.
type mockFarmStore struct {
	farms map[uuid.UUID]*domain.Farm
	plots *mockPlotStore
}

func newMockFarmStore() *mockFarmStore {
	return &mockFarmStore{farms: make(map[uuid.UUID]*domain.Farm)}
}

func (m *mockFarmStore) Create(ctx context.Context, f *domain.Farm) error {
	f.FarmIdentifier = uuid.New()
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	cp := *f
	m.farms[f.FarmIdentifier] = &cp
	return nil
}

func (m *mockFarmStore) GetByID(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID) (*domain.Farm, error) {
	f, ok := m.farms[farmID]
	if !ok || f.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *mockFarmStore) List(ctx context.Context, tenantID uuid.UUID, page domain.PageRequest) ([]domain.Farm, int, error) {
	var out []domain.Farm
	for _, f := range m.farms {
		if f.TenantID == tenantID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FarmName < out[j].FarmName })
	return out, len(out), nil
}

func (m *mockFarmStore) Update(ctx context.Context, f *domain.Farm) error {
	existing, ok := m.farms[f.FarmIdentifier]
	if !ok || existing.TenantID != f.TenantID || existing.Version != f.Version {
		return store.ErrConflict
	}
	f.Version++
	f.UpdatedAt = time.Now()
	cp := *f
	m.farms[f.FarmIdentifier] = &cp
	return nil
}

func (m *mockFarmStore) Delete(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID) error {
	f, ok := m.farms[farmID]
	if !ok || f.TenantID != tenantID {
		return store.ErrNotFound
	}
	if m.plots != nil {
		for _, p := range m.plots.plots {
			if p.FarmIdentifier == farmID {
				return store.ErrConflict
			}
		}
	}
	delete(m.farms, farmID)
	return nil
}

func (m *mockFarmStore) Exists(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID) (bool, error) {
	f, ok := m.farms[farmID]
	return ok && f.TenantID == tenantID, nil
}

// mockPlotStore implements domain.PlotStore. When tenures is set, Delete
// cascades to the plot's tenure row like the real schema does.
type mockPlotStore struct {
	plots   map[uuid.UUID]*domain.Plot
	tenures *mockLandTenureStore
}

func newMockPlotStore() *mockPlotStore {
	return &mockPlotStore{plots: make(map[uuid.UUID]*domain.Plot)}
}

func (m *mockPlotStore) Create(ctx context.Context, p *domain.Plot) error {
	p.PlotIdentifier = uuid.New()
	area := 1.5
	p.CalculatedAreaHectares = &area
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.plots[p.PlotIdentifier] = &cp
	return nil
}

func (m *mockPlotStore) GetByID(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) (*domain.Plot, error) {
	p, ok := m.plots[plotID]
	if !ok || p.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPlotStore) List(ctx context.Context, tenantID uuid.UUID, page domain.PageRequest) ([]domain.Plot, int, error) {
	var out []domain.Plot
	for _, p := range m.plots {
		if p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (m *mockPlotStore) ListByFarm(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID, page domain.PageRequest) ([]domain.Plot, int, error) {
	var out []domain.Plot
	for _, p := range m.plots {
		if p.TenantID == tenantID && p.FarmIdentifier == farmID {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (m *mockPlotStore) Update(ctx context.Context, p *domain.Plot) error {
	existing, ok := m.plots[p.PlotIdentifier]
	if !ok || existing.TenantID != p.TenantID || existing.Version != p.Version {
		return store.ErrConflict
	}
	p.Version++
	p.UpdatedAt = time.Now()
	cp := *p
	m.plots[p.PlotIdentifier] = &cp
	return nil
}

func (m *mockPlotStore) SetLandTenureType(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID, tenureType *domain.LandTenureType) error {
	p, ok := m.plots[plotID]
	if !ok || p.TenantID != tenantID {
		return store.ErrNotFound
	}
	p.LandTenureType = tenureType
	p.Version++
	return nil
}

func (m *mockPlotStore) Delete(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) error {
	p, ok := m.plots[plotID]
	if !ok || p.TenantID != tenantID {
		return store.ErrNotFound
	}
	delete(m.plots, plotID)
	if m.tenures != nil {
		delete(m.tenures.tenures, plotID)
	}
	return nil
}

func (m *mockPlotStore) Exists(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) (bool, error) {
	p, ok := m.plots[plotID]
	return ok && p.TenantID == tenantID, nil
}

// mockLandTenureStore implements domain.LandTenureStore, keyed by plot to
// mirror the real unique constraint.
type mockLandTenureStore struct {
	tenures map[uuid.UUID]*domain.LandTenure
}

func newMockLandTenureStore() *mockLandTenureStore {
	return &mockLandTenureStore{tenures: make(map[uuid.UUID]*domain.LandTenure)}
}

func (m *mockLandTenureStore) Create(ctx context.Context, lt *domain.LandTenure) error {
	if _, ok := m.tenures[lt.PlotIdentifier]; ok {
		return store.ErrConflict
	}
	lt.LandTenureIdentifier = uuid.New()
	lt.CreatedAt = time.Now()
	lt.UpdatedAt = lt.CreatedAt
	cp := *lt
	m.tenures[lt.PlotIdentifier] = &cp
	return nil
}

func (m *mockLandTenureStore) GetByPlot(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) (*domain.LandTenure, error) {
	lt, ok := m.tenures[plotID]
	if !ok || lt.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	cp := *lt
	return &cp, nil
}

func (m *mockLandTenureStore) Update(ctx context.Context, lt *domain.LandTenure) error {
	existing, ok := m.tenures[lt.PlotIdentifier]
	if !ok || existing.TenantID != lt.TenantID || existing.Version != lt.Version {
		return store.ErrConflict
	}
	lt.Version++
	lt.UpdatedAt = time.Now()
	cp := *lt
	m.tenures[lt.PlotIdentifier] = &cp
	return nil
}

func (m *mockLandTenureStore) DeleteByPlot(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) error {
	lt, ok := m.tenures[plotID]
	if !ok || lt.TenantID != tenantID {
		return store.ErrNotFound
	}
	delete(m.tenures, plotID)
	return nil
}

// mockPOIStore implements domain.POIStore.
type mockPOIStore struct {
	pois map[uuid.UUID]*domain.PointOfInterest
}

func newMockPOIStore() *mockPOIStore {
	return &mockPOIStore{pois: make(map[uuid.UUID]*domain.PointOfInterest)}
}

func (m *mockPOIStore) Create(ctx context.Context, poi *domain.PointOfInterest) error {
	poi.POIIdentifier = uuid.New()
	poi.CreatedAt = time.Now()
	poi.UpdatedAt = poi.CreatedAt
	cp := *poi
	m.pois[poi.POIIdentifier] = &cp
	return nil
}

func (m *mockPOIStore) GetByID(ctx context.Context, poiID uuid.UUID, tenantID uuid.UUID) (*domain.PointOfInterest, error) {
	poi, ok := m.pois[poiID]
	if !ok || poi.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	cp := *poi
	return &cp, nil
}

func (m *mockPOIStore) ListByParent(ctx context.Context, parentID uuid.UUID, parentType domain.ParentEntityType, tenantID uuid.UUID) ([]domain.PointOfInterest, error) {
	var out []domain.PointOfInterest
	for _, poi := range m.pois {
		if poi.TenantID == tenantID && poi.ParentEntityIdentifier == parentID && poi.ParentEntityType == parentType {
			out = append(out, *poi)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockPOIStore) ListByParentPaged(ctx context.Context, parentID uuid.UUID, parentType domain.ParentEntityType, tenantID uuid.UUID, page domain.PageRequest) ([]domain.PointOfInterest, int, error) {
	out, err := m.ListByParent(ctx, parentID, parentType, tenantID)
	if err != nil {
		return nil, 0, err
	}
	return out, len(out), nil
}

func (m *mockPOIStore) Update(ctx context.Context, poi *domain.PointOfInterest) error {
	existing, ok := m.pois[poi.POIIdentifier]
	if !ok || existing.TenantID != poi.TenantID || existing.Version != poi.Version {
		return store.ErrConflict
	}
	poi.Version++
	poi.UpdatedAt = time.Now()
	cp := *poi
	m.pois[poi.POIIdentifier] = &cp
	return nil
}

func (m *mockPOIStore) Delete(ctx context.Context, poiID uuid.UUID, tenantID uuid.UUID) error {
	poi, ok := m.pois[poiID]
	if !ok || poi.TenantID != tenantID {
		return store.ErrNotFound
	}
	delete(m.pois, poiID)
	return nil
}

// mockTenantStore implements domain.TenantStore with a uniqueness check on
// the API key hash and realm.
type mockTenantStore struct {
	tenants map[uuid.UUID]*domain.Tenant
}

func newMockTenantStore() *mockTenantStore {
	return &mockTenantStore{tenants: make(map[uuid.UUID]*domain.Tenant)}
}

func (m *mockTenantStore) Create(ctx context.Context, t *domain.Tenant) error {
	for _, existing := range m.tenants {
		if existing.APIKeyHash == t.APIKeyHash || existing.RealmID == t.RealmID {
			return store.ErrConflict
		}
	}
	t.TenantID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	m.tenants[t.TenantID] = &cp
	return nil
}

func (m *mockTenantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t, ok := m.tenants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockTenantStore) GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*domain.Tenant, error) {
	for _, t := range m.tenants {
		if t.APIKeyHash == apiKeyHash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}
