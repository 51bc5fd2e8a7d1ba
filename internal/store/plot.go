package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paulmach/orb/encoding/wkb"
)

var plotSortColumns = map[string]string{
	"plot_name":  "plot_name",
	"created_at": "created_at",
}

type PlotStore struct {
	db *pgxpool.Pool
}

func NewPlotStore(db *pgxpool.Pool) *PlotStore {
	return &PlotStore{db: db}
}

const plotColumns = `plot_identifier, farm_identifier, plot_name, cultivator_reference_id,
	ST_AsBinary(plot_geometry), calculated_area_hectares, land_tenure_type, tenant_id,
	created_at, updated_at, version`

func scanPlot(row pgx.Row) (*domain.Plot, error) {
	p := &domain.Plot{}
	geom := wkb.Scanner(&p.Geometry)
	var tenureType *string
	err := row.Scan(&p.PlotIdentifier, &p.FarmIdentifier, &p.PlotName, &p.CultivatorReferenceID,
		geom, &p.CalculatedAreaHectares, &tenureType, &p.TenantID,
		&p.CreatedAt, &p.UpdatedAt, &p.Version)
	if err != nil {
		return nil, err
	}
	if tenureType != nil {
		t := domain.LandTenureType(*tenureType)
		p.LandTenureType = &t
	}
	return p, nil
}

// Create persists the plot and reads the generated area column back so the
// caller sees the storage-computed value without a second round trip.
func (s *PlotStore) Create(ctx context.Context, p *domain.Plot) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO plots (farm_identifier, plot_name, cultivator_reference_id, plot_geometry, tenant_id)
		 VALUES ($1, $2, $3, ST_SetSRID(ST_GeomFromWKB($4), 4326), $5)
		 RETURNING plot_identifier, calculated_area_hectares, created_at, updated_at, version`,
		p.FarmIdentifier, p.PlotName, p.CultivatorReferenceID, polygonValue(p.Geometry), p.TenantID,
	).Scan(&p.PlotIdentifier, &p.CalculatedAreaHectares, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			// Farm vanished between the service's check and this insert.
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *PlotStore) GetByID(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) (*domain.Plot, error) {
	p, err := scanPlot(s.db.QueryRow(ctx,
		`SELECT `+plotColumns+` FROM plots WHERE plot_identifier = $1 AND tenant_id = $2`,
		plotID, tenantID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PlotStore) List(ctx context.Context, tenantID uuid.UUID, page domain.PageRequest) ([]domain.Plot, int, error) {
	return s.list(ctx, `tenant_id = $1`, []any{tenantID}, page)
}

func (s *PlotStore) ListByFarm(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID, page domain.PageRequest) ([]domain.Plot, int, error) {
	return s.list(ctx, `farm_identifier = $1 AND tenant_id = $2`, []any{farmID, tenantID}, page)
}

func (s *PlotStore) list(ctx context.Context, where string, args []any, page domain.PageRequest) ([]domain.Plot, int, error) {
	page = page.Normalize("plot_name")
	col, ok := plotSortColumns[page.Sort]
	if !ok {
		col = "plot_name"
	}
	dir := "ASC"
	if page.Desc {
		dir = "DESC"
	}

	var total int
	if err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM plots WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM plots WHERE %s ORDER BY %s %s NULLS LAST LIMIT $%d OFFSET $%d`,
		plotColumns, where, col, dir, len(args)+1, len(args)+2)
	rows, err := s.db.Query(ctx, query, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var plots []domain.Plot
	for rows.Next() {
		p, err := scanPlot(rows)
		if err != nil {
			return nil, 0, err
		}
		plots = append(plots, *p)
	}
	return plots, total, rows.Err()
}

// Update rewrites the mutable plot fields under the optimistic version guard.
// The generated area column is returned so geometry changes surface the new
// area immediately.
func (s *PlotStore) Update(ctx context.Context, p *domain.Plot) error {
	err := s.db.QueryRow(ctx,
		`UPDATE plots
		 SET plot_name = $1, cultivator_reference_id = $2,
		     plot_geometry = ST_SetSRID(ST_GeomFromWKB($3), 4326),
		     updated_at = NOW(), version = version + 1
		 WHERE plot_identifier = $4 AND tenant_id = $5 AND version = $6
		 RETURNING calculated_area_hectares, updated_at, version`,
		p.PlotName, p.CultivatorReferenceID, polygonValue(p.Geometry),
		p.PlotIdentifier, p.TenantID, p.Version,
	).Scan(&p.CalculatedAreaHectares, &p.UpdatedAt, &p.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// SetLandTenureType is the single write path for the denormalized tenure tag;
// nil clears it. No version guard: the land-tenure row is authoritative and
// this mirror write must not lose to an unrelated plot edit.
func (s *PlotStore) SetLandTenureType(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID, tenureType *domain.LandTenureType) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE plots SET land_tenure_type = $3, updated_at = NOW(), version = version + 1
		 WHERE plot_identifier = $1 AND tenant_id = $2`,
		plotID, tenantID, tenureType,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the plot; the land_tenures FK cascades so no orphan tenure
// row can survive.
func (s *PlotStore) Delete(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM plots WHERE plot_identifier = $1 AND tenant_id = $2`,
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

func (s *PlotStore) Exists(ctx context.Context, plotID uuid.UUID, tenantID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM plots WHERE plot_identifier = $1 AND tenant_id = $2)`,
		plotID, tenantID,
	).Scan(&exists)
	return exists, err
}
