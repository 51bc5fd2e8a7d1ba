package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/agrienhance/farmplot/internal/store"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

type PlotService struct {
	plots   domain.PlotStore
	farms   domain.FarmStore
	tenures domain.LandTenureStore
	logger  *zap.Logger
}

func NewPlotService(plots domain.PlotStore, farms domain.FarmStore, tenures domain.LandTenureStore, logger *zap.Logger) *PlotService {
	return &PlotService{plots: plots, farms: farms, tenures: tenures, logger: logger}
}

type CreatePlotInput struct {
	FarmIdentifier        uuid.UUID
	PlotName              *string
	CultivatorReferenceID *uuid.UUID
	Geometry              orb.Polygon
}

// UpdatePlotInput fields left nil keep their stored value. The plot's farm
// is immutable; moving a plot means recreating it.
type UpdatePlotInput struct {
	PlotName              *string
	CultivatorReferenceID *uuid.UUID
	Geometry              orb.Polygon
}

func (s *PlotService) Create(ctx context.Context, tenantID uuid.UUID, in CreatePlotInput) (*domain.Plot, error) {
	if in.Geometry == nil {
		return nil, invalidFields(map[string]string{"plot_geometry": "must be a valid polygon"})
	}

	ok, err := s.farms.Exists(ctx, in.FarmIdentifier, tenantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("Farm", in.FarmIdentifier)
	}

	p := &domain.Plot{
		FarmIdentifier:        in.FarmIdentifier,
		PlotName:              in.PlotName,
		CultivatorReferenceID: in.CultivatorReferenceID,
		Geometry:              in.Geometry,
		TenantID:              tenantID,
	}
	if err := s.plots.Create(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("Farm", in.FarmIdentifier)
		}
		return nil, err
	}
	return p, nil
}

func (s *PlotService) Get(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) (*domain.Plot, error) {
	p, err := s.plots.GetByID(ctx, plotID, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("Plot", plotID)
		}
		return nil, err
	}
	return p, nil
}

func (s *PlotService) List(ctx context.Context, tenantID uuid.UUID, page domain.PageRequest) ([]domain.Plot, int, error) {
	return s.plots.List(ctx, tenantID, page)
}

// ListByFarm resolves the farm first so an unknown farm is a 404, not an
// empty page.
func (s *PlotService) ListByFarm(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID, page domain.PageRequest) ([]domain.Plot, int, error) {
	ok, err := s.farms.Exists(ctx, farmID, tenantID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, notFound("Farm", farmID)
	}
	return s.plots.ListByFarm(ctx, farmID, tenantID, page)
}

func (s *PlotService) Update(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID, in UpdatePlotInput) (*domain.Plot, error) {
	p, err := s.Get(ctx, plotID, tenantID)
	if err != nil {
		return nil, err
	}

	if in.PlotName != nil {
		p.PlotName = in.PlotName
	}
	if in.CultivatorReferenceID != nil {
		p.CultivatorReferenceID = in.CultivatorReferenceID
	}
	if in.Geometry != nil {
		p.Geometry = in.Geometry
	}

	if err := s.plots.Update(ctx, p); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, &ConflictError{Message: fmt.Sprintf("Plot with identifier [%s] was modified concurrently", plotID)}
		}
		return nil, err
	}
	return p, nil
}

func (s *PlotService) Delete(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) error {
	if err := s.plots.Delete(ctx, plotID, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Plot", plotID)
		}
		return err
	}
	return nil
}

// UpsertLandTenureInput carries a required tenure type; when a tenure record
// already exists, the remaining fields left nil keep their stored value.
type UpsertLandTenureInput struct {
	TenureType                 domain.LandTenureType
	LeaseStartDate             *time.Time
	LeaseEndDate               *time.Time
	OwnerDetails               *string
	AgreementDocumentReference *string
}

func tenureNotFound(plotID uuid.UUID) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("LandTenure for Plot with identifier [%s] not found", plotID)}
}

// UpsertTenure creates the plot's single tenure record, or partially updates
// the existing one: the tenure type is always written, any other field left
// nil keeps its stored value. The tenure type is then mirrored onto the plot
// row. The tenure row is the source of truth; the plot column is a
// read-optimization only this path writes.
func (s *PlotService) UpsertTenure(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID, in UpsertLandTenureInput) (*domain.LandTenure, error) {
	if !domain.ValidLandTenureType(string(in.TenureType)) {
		return nil, invalidFields(map[string]string{"tenure_type": "must be a known land tenure type"})
	}
	if in.LeaseStartDate != nil && in.LeaseEndDate != nil && in.LeaseEndDate.Before(*in.LeaseStartDate) {
		return nil, invalidFields(map[string]string{"lease_end_date": "must not precede lease_start_date"})
	}

	ok, err := s.plots.Exists(ctx, plotID, tenantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("Plot", plotID)
	}

	lt, err := s.tenures.GetByPlot(ctx, plotID, tenantID)
	switch {
	case err == nil:
		lt.TenureType = in.TenureType
		if in.LeaseStartDate != nil {
			lt.LeaseStartDate = in.LeaseStartDate
		}
		if in.LeaseEndDate != nil {
			lt.LeaseEndDate = in.LeaseEndDate
		}
		if in.OwnerDetails != nil {
			lt.OwnerDetails = in.OwnerDetails
		}
		if in.AgreementDocumentReference != nil {
			lt.AgreementDocumentReference = in.AgreementDocumentReference
		}
		if err := s.tenures.Update(ctx, lt); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return nil, &ConflictError{Message: fmt.Sprintf("LandTenure for Plot with identifier [%s] was modified concurrently", plotID)}
			}
			return nil, err
		}
	case errors.Is(err, store.ErrNotFound):
		lt = &domain.LandTenure{
			PlotIdentifier:             plotID,
			TenureType:                 in.TenureType,
			LeaseStartDate:             in.LeaseStartDate,
			LeaseEndDate:               in.LeaseEndDate,
			OwnerDetails:               in.OwnerDetails,
			AgreementDocumentReference: in.AgreementDocumentReference,
			TenantID:                   tenantID,
		}
		if err := s.tenures.Create(ctx, lt); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return nil, &ConflictError{Message: fmt.Sprintf("LandTenure for Plot with identifier [%s] already exists", plotID)}
			}
			return nil, err
		}
	default:
		return nil, err
	}

	// The mirror is best effort: the tenure row is already committed and
	// the next tenure write resyncs the column.
	if err := s.plots.SetLandTenureType(ctx, plotID, tenantID, &lt.TenureType); err != nil {
		s.logger.Warn("failed to mirror tenure type onto plot",
			zap.String("plot_id", plotID.String()), zap.Error(err))
	}
	return lt, nil
}

func (s *PlotService) GetTenure(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) (*domain.LandTenure, error) {
	ok, err := s.plots.Exists(ctx, plotID, tenantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("Plot", plotID)
	}

	lt, err := s.tenures.GetByPlot(ctx, plotID, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, tenureNotFound(plotID)
		}
		return nil, err
	}
	return lt, nil
}

// DeleteTenure removes the tenure record and clears the mirrored tenure type
// on the plot.
func (s *PlotService) DeleteTenure(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) error {
	ok, err := s.plots.Exists(ctx, plotID, tenantID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("Plot", plotID)
	}

	if err := s.tenures.DeleteByPlot(ctx, plotID, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return tenureNotFound(plotID)
		}
		return err
	}
	if err := s.plots.SetLandTenureType(ctx, plotID, tenantID, nil); err != nil {
		s.logger.Warn("failed to clear mirrored tenure type after delete",
			zap.String("plot_id", plotID.String()), zap.Error(err))
	}
	return nil
}
