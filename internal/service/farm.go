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

type FarmService struct {
	farms domain.FarmStore
}

func NewFarmService(farms domain.FarmStore) *FarmService {
	return &FarmService{farms: farms}
}

type CreateFarmInput struct {
	FarmName         string
	OwnerReferenceID uuid.UUID
	CountryCode      string
	Region           *string
	GeneralLocation  *orb.Point
	Notes            *string
}

// UpdateFarmInput fields left nil keep their stored value, except Notes:
// the notes column is written from the request as-is, so omitting notes
// clears them.
type UpdateFarmInput struct {
	FarmName        *string
	CountryCode     *string
	Region          *string
	GeneralLocation *orb.Point
	Notes           *string
}

func validateFarmCore(name, countryCode string, owner uuid.UUID) map[string]string {
	fields := map[string]string{}
	if name == "" {
		fields["farm_name"] = "must not be blank"
	}
	if len(countryCode) != 2 {
		fields["country_code"] = "must be a 2-letter ISO 3166-1 alpha-2 code"
	}
	if owner == uuid.Nil {
		fields["owner_reference_id"] = "must not be null"
	}
	return fields
}

func (s *FarmService) Create(ctx context.Context, tenantID uuid.UUID, in CreateFarmInput) (*domain.Farm, error) {
	if fields := validateFarmCore(in.FarmName, in.CountryCode, in.OwnerReferenceID); len(fields) > 0 {
		return nil, invalidFields(fields)
	}

	f := &domain.Farm{
		FarmName:         in.FarmName,
		OwnerReferenceID: in.OwnerReferenceID,
		CountryCode:      in.CountryCode,
		Region:           in.Region,
		GeneralLocation:  in.GeneralLocation,
		Notes:            in.Notes,
		TenantID:         tenantID,
	}
	if err := s.farms.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FarmService) Get(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID) (*domain.Farm, error) {
	f, err := s.farms.GetByID(ctx, farmID, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("Farm", farmID)
		}
		return nil, err
	}
	return f, nil
}

func (s *FarmService) List(ctx context.Context, tenantID uuid.UUID, page domain.PageRequest) ([]domain.Farm, int, error) {
	return s.farms.List(ctx, tenantID, page)
}

func (s *FarmService) Update(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID, in UpdateFarmInput) (*domain.Farm, error) {
	f, err := s.Get(ctx, farmID, tenantID)
	if err != nil {
		return nil, err
	}

	if in.FarmName != nil {
		f.FarmName = *in.FarmName
	}
	if in.CountryCode != nil {
		f.CountryCode = *in.CountryCode
	}
	if in.Region != nil {
		f.Region = in.Region
	}
	if in.GeneralLocation != nil {
		f.GeneralLocation = in.GeneralLocation
	}
	f.Notes = in.Notes

	if fields := validateFarmCore(f.FarmName, f.CountryCode, f.OwnerReferenceID); len(fields) > 0 {
		return nil, invalidFields(fields)
	}

	if err := s.farms.Update(ctx, f); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, &ConflictError{Message: fmt.Sprintf("Farm with identifier [%s] was modified concurrently", farmID)}
		}
		return nil, err
	}
	return f, nil
}

// Delete refuses to remove a farm that still has plots; the storage layer
// reports that as a conflict.
func (s *FarmService) Delete(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID) error {
	err := s.farms.Delete(ctx, farmID, tenantID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return notFound("Farm", farmID)
		case errors.Is(err, store.ErrConflict):
			return &ConflictError{Message: fmt.Sprintf("Farm with identifier [%s] still has plots and cannot be deleted", farmID)}
		}
		return err
	}
	return nil
}
