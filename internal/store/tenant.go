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

type TenantStore struct {
	db *pgxpool.Pool
}

func NewTenantStore(db *pgxpool.Pool) *TenantStore {
	return &TenantStore{db: db}
}

func (s *TenantStore) Create(ctx context.Context, t *domain.Tenant) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO tenants (name, realm_id, status, api_key_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING tenant_id, created_at, updated_at, version`,
		t.Name, t.RealmID, t.Status, t.APIKeyHash,
	).Scan(&t.TenantID, &t.CreatedAt, &t.UpdatedAt, &t.Version)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *TenantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := s.db.QueryRow(ctx,
		`SELECT tenant_id, name, realm_id, status, api_key_hash, created_at, updated_at, version
		 FROM tenants WHERE tenant_id = $1`,
		id,
	).Scan(&t.TenantID, &t.Name, &t.RealmID, &t.Status, &t.APIKeyHash, &t.CreatedAt, &t.UpdatedAt, &t.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TenantStore) GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := s.db.QueryRow(ctx,
		`SELECT tenant_id, name, realm_id, status, api_key_hash, created_at, updated_at, version
		 FROM tenants WHERE api_key_hash = $1`,
		apiKeyHash,
	).Scan(&t.TenantID, &t.Name, &t.RealmID, &t.Status, &t.APIKeyHash, &t.CreatedAt, &t.UpdatedAt, &t.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}
