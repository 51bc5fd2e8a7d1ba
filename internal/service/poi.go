package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/agrienhance/farmplot/internal/store"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

type POIService struct {
	pois  domain.POIStore
	farms domain.FarmStore
	plots domain.PlotStore
}

func NewPOIService(pois domain.POIStore, farms domain.FarmStore, plots domain.PlotStore) *POIService {
	return &POIService{pois: pois, farms: farms, plots: plots}
}

type CreatePOIInput struct {
	ParentEntityIdentifier uuid.UUID
	ParentEntityType       domain.ParentEntityType
	POIName                *string
	POIType                domain.POIType
	Coordinates            *orb.Point
	Notes                  *string
}

// UpdatePOIInput fields left nil keep their stored value. The parent linkage
// is immutable.
type UpdatePOIInput struct {
	POIName     *string
	POIType     *domain.POIType
	Coordinates *orb.Point
	Notes       *string
}

// checkParent dispatches the polymorphic parent reference to the owning
// table. There is no foreign key behind it, so this is the only guard.
func (s *POIService) checkParent(ctx context.Context, parentID uuid.UUID, parentType domain.ParentEntityType, tenantID uuid.UUID) error {
	var (
		ok  bool
		err error
	)
	switch parentType {
	case domain.ParentFarm:
		ok, err = s.farms.Exists(ctx, parentID, tenantID)
	case domain.ParentPlot:
		ok, err = s.plots.Exists(ctx, parentID, tenantID)
	default:
		return invalidFields(map[string]string{"parent_entity_type": "must be FARM or PLOT"})
	}
	if err != nil {
		return err
	}
	if !ok {
		return notFound(string(parentType), parentID)
	}
	return nil
}

func (s *POIService) Create(ctx context.Context, tenantID uuid.UUID, in CreatePOIInput) (*domain.PointOfInterest, error) {
	fields := map[string]string{}
	if in.Coordinates == nil {
		fields["coordinates"] = "must be a valid point"
	}
	if !domain.ValidPOIType(string(in.POIType)) {
		fields["poi_type"] = "must be a known point-of-interest type"
	}
	if len(fields) > 0 {
		return nil, invalidFields(fields)
	}

	if err := s.checkParent(ctx, in.ParentEntityIdentifier, in.ParentEntityType, tenantID); err != nil {
		return nil, err
	}

	poi := &domain.PointOfInterest{
		ParentEntityIdentifier: in.ParentEntityIdentifier,
		ParentEntityType:       in.ParentEntityType,
		POIName:                in.POIName,
		POIType:                in.POIType,
		Coordinates:            *in.Coordinates,
		Notes:                  in.Notes,
		TenantID:               tenantID,
	}
	if err := s.pois.Create(ctx, poi); err != nil {
		return nil, err
	}
	return poi, nil
}

func (s *POIService) Get(ctx context.Context, poiID uuid.UUID, tenantID uuid.UUID) (*domain.PointOfInterest, error) {
	poi, err := s.pois.GetByID(ctx, poiID, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("PointOfInterest", poiID)
		}
		return nil, err
	}
	return poi, nil
}

// ListByParent returns every point of interest under the parent, verifying
// the parent first so an unknown parent is a 404 rather than an empty list.
func (s *POIService) ListByParent(ctx context.Context, parentID uuid.UUID, parentType domain.ParentEntityType, tenantID uuid.UUID) ([]domain.PointOfInterest, error) {
	if err := s.checkParent(ctx, parentID, parentType, tenantID); err != nil {
		return nil, err
	}
	return s.pois.ListByParent(ctx, parentID, parentType, tenantID)
}

// ListByParentPaged is the paginated variant, with the same parent check.
func (s *POIService) ListByParentPaged(ctx context.Context, parentID uuid.UUID, parentType domain.ParentEntityType, tenantID uuid.UUID, page domain.PageRequest) ([]domain.PointOfInterest, int, error) {
	if err := s.checkParent(ctx, parentID, parentType, tenantID); err != nil {
		return nil, 0, err
	}
	return s.pois.ListByParentPaged(ctx, parentID, parentType, tenantID, page)
}

func (s *POIService) Update(ctx context.Context, poiID uuid.UUID, tenantID uuid.UUID, in UpdatePOIInput) (*domain.PointOfInterest, error) {
	poi, err := s.Get(ctx, poiID, tenantID)
	if err != nil {
		return nil, err
	}

	if in.POIName != nil {
		poi.POIName = in.POIName
	}
	if in.POIType != nil {
		if !domain.ValidPOIType(string(*in.POIType)) {
			return nil, invalidFields(map[string]string{"poi_type": "must be a known point-of-interest type"})
		}
		poi.POIType = *in.POIType
	}
	if in.Coordinates != nil {
		poi.Coordinates = *in.Coordinates
	}
	if in.Notes != nil {
		poi.Notes = in.Notes
	}

	if err := s.pois.Update(ctx, poi); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, &ConflictError{Message: fmt.Sprintf("PointOfInterest with identifier [%s] was modified concurrently", poiID)}
		}
		return nil, err
	}
	return poi, nil
}

func (s *POIService) Delete(ctx context.Context, poiID uuid.UUID, tenantID uuid.UUID) error {
	if err := s.pois.Delete(ctx, poiID, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("PointOfInterest", poiID)
		}
		return err
	}
	return nil
}
