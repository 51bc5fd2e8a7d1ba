package domain

import (
	"time"

	"github.com/google/uuid"
)

const TenantStatusActive = "ACTIVE"

// Tenant is the isolation boundary. Every entity carries its TenantID and no
// query ever crosses tenants. RealmID names the identity-provider realm
// provisioned for the tenant.
type Tenant struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	Name       string    `json:"name"`
	RealmID    string    `json:"realm_id"`
	Status     string    `json:"status"`
	APIKeyHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Version    int64     `json:"version"`
}
