package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Plot is a cultivated area inside a Farm, bounded by a WGS84 polygon.
//
// CalculatedAreaHectares is a generated column maintained by the database
// (ST_Area over geography); application code never writes it.
// LandTenureType mirrors the plot's LandTenure row and is only written by the
// land-tenure upsert/delete paths.
type Plot struct {
	PlotIdentifier         uuid.UUID       `json:"plot_identifier"`
	FarmIdentifier         uuid.UUID       `json:"farm_identifier"`
	PlotName               *string         `json:"plot_name,omitempty"`
	CultivatorReferenceID  *uuid.UUID      `json:"cultivator_reference_id,omitempty"`
	Geometry               orb.Polygon     `json:"-"`
	CalculatedAreaHectares *float64        `json:"calculated_area_hectares,omitempty"`
	LandTenureType         *LandTenureType `json:"land_tenure_type,omitempty"`
	TenantID               uuid.UUID       `json:"tenant_id"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
	Version                int64           `json:"version"`
}
