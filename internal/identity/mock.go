package identity

import (
	"context"
	"sync"
)

// MockProvider is an in-memory identity provider for tests and local dev.
// Set CreateRealmError to force a failure.
type MockProvider struct {
	CreateRealmError error

	mu     sync.Mutex
	realms map[string]string
}

func NewMockProvider() *MockProvider {
	return &MockProvider{realms: map[string]string{}}
}

func (m *MockProvider) CreateRealm(ctx context.Context, realmID, displayName string) error {
	if m.CreateRealmError != nil {
		return m.CreateRealmError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.realms[realmID]; ok {
		return ErrRealmExists
	}
	m.realms[realmID] = displayName
	return nil
}

// Realms returns the provisioned realms for assertions.
func (m *MockProvider) Realms() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.realms))
	for k, v := range m.realms {
		out[k] = v
	}
	return out
}
