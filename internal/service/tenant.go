package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/agrienhance/farmplot/internal/domain"
	"github.com/agrienhance/farmplot/internal/identity"
	"github.com/agrienhance/farmplot/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const apiKeyPrefix = "fp_"

var ErrInvalidAPIKey = errors.New("invalid API key")

type TenantService struct {
	tenants  domain.TenantStore
	provider domain.IdentityProvider
	logger   *zap.Logger
}

func NewTenantService(tenants domain.TenantStore, provider domain.IdentityProvider, logger *zap.Logger) *TenantService {
	return &TenantService{tenants: tenants, provider: provider, logger: logger}
}

// realmSlug derives a realm identifier from the tenant name: lowercase,
// alphanumeric runs joined by single hyphens.
func realmSlug(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func generateAPIKey() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return apiKeyPrefix + hex.EncodeToString(raw), nil
}

func hashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Provision creates the identity realm for a new tenant and then the tenant
// record itself. The plaintext API key is returned exactly once; only its
// hash is stored.
func (s *TenantService) Provision(ctx context.Context, name string) (*domain.Tenant, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", invalidFields(map[string]string{"name": "must not be blank"})
	}
	realmID := realmSlug(name)
	if realmID == "" {
		return nil, "", invalidFields(map[string]string{"name": "must contain at least one alphanumeric character"})
	}

	if err := s.provider.CreateRealm(ctx, realmID, name); err != nil {
		if errors.Is(err, identity.ErrRealmExists) {
			return nil, "", &ConflictError{Message: fmt.Sprintf("realm [%s] already exists", realmID)}
		}
		return nil, "", err
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return nil, "", err
	}

	t := &domain.Tenant{
		Name:       name,
		RealmID:    realmID,
		Status:     domain.TenantStatusActive,
		APIKeyHash: hashAPIKey(apiKey),
	}
	if err := s.tenants.Create(ctx, t); err != nil {
		// The realm outlives the failed tenant record and needs manual
		// cleanup before the same name can be provisioned again.
		s.logger.Warn("realm created but tenant persist failed",
			zap.String("realm", realmID), zap.Error(err))
		if errors.Is(err, store.ErrConflict) {
			return nil, "", &ConflictError{Message: fmt.Sprintf("tenant [%s] already exists", name)}
		}
		return nil, "", err
	}

	s.logger.Info("tenant provisioned",
		zap.String("tenant_id", t.TenantID.String()), zap.String("realm", realmID))
	return t, apiKey, nil
}

func (s *TenantService) Get(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("Tenant", tenantID)
		}
		return nil, err
	}
	return t, nil
}

// Authenticate resolves an API key to its tenant. Unknown keys return
// ErrInvalidAPIKey without revealing whether the key was ever issued.
func (s *TenantService) Authenticate(ctx context.Context, apiKey string) (*domain.Tenant, error) {
	if apiKey == "" || !strings.HasPrefix(apiKey, apiKeyPrefix) {
		return nil, ErrInvalidAPIKey
	}
	t, err := s.tenants.GetByAPIKeyHash(ctx, hashAPIKey(apiKey))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}
	return t, nil
}
