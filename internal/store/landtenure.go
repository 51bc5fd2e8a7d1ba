package store

import (
	"context"
	"errors"

	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LandTenureStore struct {
	db *pgxpool.Pool
}

func NewLandTenureStore(db *pgxpool.Pool) *LandTenureStore {
	return &LandTenureStore{db: db}
}

// Create relies on the unique index over plot_identifier for the 1:1
// plot-to-tenure rule; a second insert for the same plot is a conflict.
func (s *LandTenureStore) Create(ctx context.Context, lt *domain.LandTenure) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO land_tenures (plot_identifier, tenure_type, lease_start_date, lease_end_date,
		                           owner_details, agreement_document_reference, tenant_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING land_tenure_identifier, created_at, updated_at, version`,
		lt.PlotIdentifier, lt.TenureType, lt.LeaseStartDate, lt.LeaseEndDate,
		lt.OwnerDetails, lt.AgreementDocumentReference, lt.TenantID,
	).Scan(&lt.LandTenureIdentifier, &lt.CreatedAt, &lt.UpdatedAt, &lt.Version)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (s *LandTenureStore) GetByPlot(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) (*domain.LandTenure, error) {
	lt := &domain.LandTenure{}
	err := s.db.QueryRow(ctx,
		`SELECT land_tenure_identifier, plot_identifier, tenure_type, lease_start_date, lease_end_date,
		        owner_details, agreement_document_reference, tenant_id, created_at, updated_at, version
		 FROM land_tenures WHERE plot_identifier = $1 AND tenant_id = $2`,
		plotID, tenantID,
	).Scan(&lt.LandTenureIdentifier, &lt.PlotIdentifier, &lt.TenureType, &lt.LeaseStartDate,
		&lt.LeaseEndDate, &lt.OwnerDetails, &lt.AgreementDocumentReference, &lt.TenantID,
		&lt.CreatedAt, &lt.UpdatedAt, &lt.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lt, nil
}

func (s *LandTenureStore) Update(ctx context.Context, lt *domain.LandTenure) error {
	err := s.db.QueryRow(ctx,
		`UPDATE land_tenures
		 SET tenure_type = $1, lease_start_date = $2, lease_end_date = $3,
		     owner_details = $4, agreement_document_reference = $5,
		     updated_at = NOW(), version = version + 1
		 WHERE land_tenure_identifier = $6 AND tenant_id = $7 AND version = $8
		 RETURNING updated_at, version`,
		lt.TenureType, lt.LeaseStartDate, lt.LeaseEndDate,
		lt.OwnerDetails, lt.AgreementDocumentReference,
		lt.LandTenureIdentifier, lt.TenantID, lt.Version,
	).Scan(&lt.UpdatedAt, &lt.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *LandTenureStore) DeleteByPlot(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM land_tenures WHERE plot_identifier = $1 AND tenant_id = $2`,
		plotID, tenantID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
