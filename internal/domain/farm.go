package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Farm is the top-level agricultural holding. Plots and POIs hang off it.
// GeneralLocation is a single WGS84 point (x=lon, y=lat), not a boundary.
type Farm struct {
	FarmIdentifier   uuid.UUID  `json:"farm_identifier"`
	FarmName         string     `json:"farm_name"`
	OwnerReferenceID uuid.UUID  `json:"owner_reference_id"`
	CountryCode      string     `json:"country_code"`
	Region           *string    `json:"region,omitempty"`
	GeneralLocation  *orb.Point `json:"-"`
	Notes            *string    `json:"notes,omitempty"`
	TenantID         uuid.UUID  `json:"tenant_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Version          int64      `json:"version"`
}
