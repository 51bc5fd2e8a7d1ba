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
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// Sortable columns are whitelisted; anything else falls back to the default.
var farmSortColumns = map[string]string{
	"farm_name":    "farm_name",
	"country_code": "country_code",
	"created_at":   "created_at",
}

type FarmStore struct {
	db *pgxpool.Pool
}

func NewFarmStore(db *pgxpool.Pool) *FarmStore {
	return &FarmStore{db: db}
}

const farmColumns = `farm_identifier, farm_name, owner_reference_id, country_code, region,
	ST_AsBinary(general_location), notes, tenant_id, created_at, updated_at, version`

func scanFarm(row pgx.Row) (*domain.Farm, error) {
	f := &domain.Farm{}
	loc := wkb.Scanner(nil)
	err := row.Scan(&f.FarmIdentifier, &f.FarmName, &f.OwnerReferenceID, &f.CountryCode,
		&f.Region, loc, &f.Notes, &f.TenantID, &f.CreatedAt, &f.UpdatedAt, &f.Version)
	if err != nil {
		return nil, err
	}
	if loc.Valid {
		if p, ok := loc.Geometry.(orb.Point); ok {
			f.GeneralLocation = &p
		}
	}
	return f, nil
}

func (s *FarmStore) Create(ctx context.Context, f *domain.Farm) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO farms (farm_name, owner_reference_id, country_code, region, general_location, notes, tenant_id)
		 VALUES ($1, $2, $3, $4, ST_SetSRID(ST_GeomFromWKB($5), 4326), $6, $7)
		 RETURNING farm_identifier, created_at, updated_at, version`,
		f.FarmName, f.OwnerReferenceID, f.CountryCode, f.Region, pointValue(f.GeneralLocation), f.Notes, f.TenantID,
	).Scan(&f.FarmIdentifier, &f.CreatedAt, &f.UpdatedAt, &f.Version)
}

func (s *FarmStore) GetByID(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID) (*domain.Farm, error) {
	f, err := scanFarm(s.db.QueryRow(ctx,
		`SELECT `+farmColumns+` FROM farms WHERE farm_identifier = $1 AND tenant_id = $2`,
		farmID, tenantID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *FarmStore) List(ctx context.Context, tenantID uuid.UUID, page domain.PageRequest) ([]domain.Farm, int, error) {
	page = page.Normalize("farm_name")
	col, ok := farmSortColumns[page.Sort]
	if !ok {
		col = "farm_name"
	}
	dir := "ASC"
	if page.Desc {
		dir = "DESC"
	}

	var total int
	if err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM farms WHERE tenant_id = $1`, tenantID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM farms WHERE tenant_id = $1 ORDER BY %s %s LIMIT $2 OFFSET $3`,
			farmColumns, col, dir),
		tenantID, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var farms []domain.Farm
	for rows.Next() {
		f, err := scanFarm(rows)
		if err != nil {
			return nil, 0, err
		}
		farms = append(farms, *f)
	}
	return farms, total, rows.Err()
}

// Update writes all mutable fields, guarded by the version the caller read.
// Zero rows on a row the caller just loaded means a concurrent writer won.
func (s *FarmStore) Update(ctx context.Context, f *domain.Farm) error {
	err := s.db.QueryRow(ctx,
		`UPDATE farms
		 SET farm_name = $1, country_code = $2, region = $3,
		     general_location = ST_SetSRID(ST_GeomFromWKB($4), 4326), notes = $5,
		     updated_at = NOW(), version = version + 1
		 WHERE farm_identifier = $6 AND tenant_id = $7 AND version = $8
		 RETURNING updated_at, version`,
		f.FarmName, f.CountryCode, f.Region, pointValue(f.GeneralLocation), f.Notes,
		f.FarmIdentifier, f.TenantID, f.Version,
	).Scan(&f.UpdatedAt, &f.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *FarmStore) Delete(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM farms WHERE farm_identifier = $1 AND tenant_id = $2`,
		farmID, tenantID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// Plots reference farms with ON DELETE RESTRICT.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FarmStore) Exists(ctx context.Context, farmID uuid.UUID, tenantID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM farms WHERE farm_identifier = $1 AND tenant_id = $2)`,
		farmID, tenantID,
	).Scan(&exists)
	return exists, err
}
