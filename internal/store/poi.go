package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paulmach/orb/encoding/wkb"
)

type POIStore struct {
	db *pgxpool.Pool
}

func NewPOIStore(db *pgxpool.Pool) *POIStore {
	return &POIStore{db: db}
}

const poiColumns = `poi_identifier, parent_entity_identifier, parent_entity_type, poi_name, poi_type,
	ST_AsBinary(coordinates), notes, tenant_id, created_at, updated_at, version`

func scanPOI(row pgx.Row) (*domain.PointOfInterest, error) {
	poi := &domain.PointOfInterest{}
	geom := wkb.Scanner(&poi.Coordinates)
	err := row.Scan(&poi.POIIdentifier, &poi.ParentEntityIdentifier, &poi.ParentEntityType,
		&poi.POIName, &poi.POIType, geom, &poi.Notes, &poi.TenantID,
		&poi.CreatedAt, &poi.UpdatedAt, &poi.Version)
	if err != nil {
		return nil, err
	}
	return poi, nil
}

// Create has no FK behind the parent reference; the service has already
// validated the (identifier, type) pair against the right table.
func (s *POIStore) Create(ctx context.Context, poi *domain.PointOfInterest) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO points_of_interest
		     (parent_entity_identifier, parent_entity_type, poi_name, poi_type, coordinates, notes, tenant_id)
		 VALUES ($1, $2, $3, $4, ST_SetSRID(ST_GeomFromWKB($5), 4326), $6, $7)
		 RETURNING poi_identifier, created_at, updated_at, version`,
		poi.ParentEntityIdentifier, poi.ParentEntityType, poi.POIName, poi.POIType,
		wkb.Value(poi.Coordinates), poi.Notes, poi.TenantID,
	).Scan(&poi.POIIdentifier, &poi.CreatedAt, &poi.UpdatedAt, &poi.Version)
}

func (s *POIStore) GetByID(ctx context.Context, poiID uuid.UUID, tenantID uuid.UUID) (*domain.PointOfInterest, error) {
	poi, err := scanPOI(s.db.QueryRow(ctx,
		`SELECT `+poiColumns+` FROM points_of_interest WHERE poi_identifier = $1 AND tenant_id = $2`,
		poiID, tenantID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return poi, nil
}

func (s *POIStore) ListByParent(ctx context.Context, parentID uuid.UUID, parentType domain.ParentEntityType, tenantID uuid.UUID) ([]domain.PointOfInterest, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+poiColumns+` FROM points_of_interest
		 WHERE parent_entity_identifier = $1 AND parent_entity_type = $2 AND tenant_id = $3
		 ORDER BY created_at`,
		parentID, parentType, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pois []domain.PointOfInterest
	for rows.Next() {
		poi, err := scanPOI(rows)
		if err != nil {
			return nil, err
		}
		pois = append(pois, *poi)
	}
	return pois, rows.Err()
}

func (s *POIStore) ListByParentPaged(ctx context.Context, parentID uuid.UUID, parentType domain.ParentEntityType, tenantID uuid.UUID, page domain.PageRequest) ([]domain.PointOfInterest, int, error) {
	page = page.Normalize("created_at")
	dir := "ASC"
	if page.Desc {
		dir = "DESC"
	}

	var total int
	if err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM points_of_interest
		 WHERE parent_entity_identifier = $1 AND parent_entity_type = $2 AND tenant_id = $3`,
		parentID, parentType, tenantID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM points_of_interest
		 WHERE parent_entity_identifier = $1 AND parent_entity_type = $2 AND tenant_id = $3
		 ORDER BY created_at %s LIMIT $4 OFFSET $5`, poiColumns, dir),
		parentID, parentType, tenantID, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var pois []domain.PointOfInterest
	for rows.Next() {
		poi, err := scanPOI(rows)
		if err != nil {
			return nil, 0, err
		}
		pois = append(pois, *poi)
	}
	return pois, total, rows.Err()
}

// Update never touches the parent linkage or tenant; those are immutable
// after creation.
func (s *POIStore) Update(ctx context.Context, poi *domain.PointOfInterest) error {
	err := s.db.QueryRow(ctx,
		`UPDATE points_of_interest
		 SET poi_name = $1, poi_type = $2, coordinates = ST_SetSRID(ST_GeomFromWKB($3), 4326), notes = $4,
		     updated_at = NOW(), version = version + 1
		 WHERE poi_identifier = $5 AND tenant_id = $6 AND version = $7
		 RETURNING updated_at, version`,
		poi.POIName, poi.POIType, wkb.Value(poi.Coordinates), poi.Notes,
		poi.POIIdentifier, poi.TenantID, poi.Version,
	).Scan(&poi.UpdatedAt, &poi.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *POIStore) Delete(ctx context.Context, poiID uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM points_of_interest WHERE poi_identifier = $1 AND tenant_id = $2`,
		poiID, tenantID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
