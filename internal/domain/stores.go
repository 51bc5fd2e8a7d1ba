package domain

import (
	"context"

	"github.com/google/uuid"
)

type TenantStore interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*Tenant, error)
}

type FarmStore interface {
	Create(ctx context.Context, f *Farm) error
	GetByID(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID) (*Farm, error)
	List(ctx context.Context, tenantID uuid.UUID, page PageRequest) ([]Farm, int, error)
	// Update persists all mutable fields, guarded by the version read at load
	// time. A version mismatch on an existing row returns ErrConflict.
	Update(ctx context.Context, f *Farm) error
	Delete(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID) error
	Exists(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID) (bool, error)
}

type PlotStore interface {
	// Create persists the plot and reads back the storage-generated area.
	Create(ctx context.Context, p *Plot) error
	GetByID(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) (*Plot, error)
	List(ctx context.Context, tenantID uuid.UUID, page PageRequest) ([]Plot, int, error)
	ListByFarm(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID, page PageRequest) ([]Plot, int, error)
	Update(ctx context.Context, p *Plot) error
	// SetLandTenureType writes the denormalized tenure tag. It is the only
	// path that touches plots.land_tenure_type; nil clears it.
	SetLandTenureType(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID, tenureType *LandTenureType) error
	// Delete removes the plot and, through the schema, its land tenure row.
	Delete(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) error
	Exists(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) (bool, error)
}

type LandTenureStore interface {
	// Create returns ErrConflict when the plot already has a tenure row.
	Create(ctx context.Context, lt *LandTenure) error
	GetByPlot(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) (*LandTenure, error)
	Update(ctx context.Context, lt *LandTenure) error
	DeleteByPlot(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) error
}

type POIStore interface {
	Create(ctx context.Context, poi *PointOfInterest) error
	GetByID(ctx context.Context, poiID uuid.UUID, tenantID uuid.UUID) (*PointOfInterest, error)
	ListByParent(ctx context.Context, parentID uuid.UUID, parentType ParentEntityType, tenantID uuid.UUID) ([]PointOfInterest, error)
	ListByParentPaged(ctx context.Context, parentID uuid.UUID, parentType ParentEntityType, tenantID uuid.UUID, page PageRequest) ([]PointOfInterest, int, error)
	Update(ctx context.Context, poi *PointOfInterest) error
	Delete(ctx context.Context, poiID uuid.UUID, tenantID uuid.UUID) error
}

// IdentityProvider provisions per-tenant realms in the external identity
// system (Keycloak in production, a mock in tests and local dev).
type IdentityProvider interface {
	CreateRealm(ctx context.Context, realmID, displayName string) error
}
