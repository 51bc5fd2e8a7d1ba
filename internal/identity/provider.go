package identity

import (
	"errors"
	"fmt"

	"github.com/agrienhance/farmplot/internal/domain"
)

// ErrRealmExists is returned when the identity system already has a realm
// with the requested identifier.
var ErrRealmExists = errors.New("realm already exists")

const (
	ProviderKeycloak = "keycloak"
	ProviderMock     = "mock"
)

// NewProvider creates an identity provider based on the provider name.
func NewProvider(provider, baseURL, adminUser, adminPassword string) (domain.IdentityProvider, error) {
	switch provider {
	case ProviderKeycloak:
		if baseURL == "" {
			return nil, fmt.Errorf("KEYCLOAK_BASE_URL is required for the keycloak provider")
		}
		if adminUser == "" || adminPassword == "" {
			return nil, fmt.Errorf("KEYCLOAK_ADMIN_USER and KEYCLOAK_ADMIN_PASSWORD are required for the keycloak provider")
		}
		return NewKeycloakClient(baseURL, adminUser, adminPassword), nil

	case ProviderMock:
		return NewMockProvider(), nil

	default:
		return nil, fmt.Errorf("unknown identity provider: %s (valid options: keycloak, mock)", provider)
	}
}
