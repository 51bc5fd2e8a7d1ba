package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// ParentEntityType discriminates the polymorphic POI parent reference.
// There is deliberately no foreign key behind it; the service validates the
// parent at write time against the table the tag selects.
type ParentEntityType string

const (
	ParentFarm ParentEntityType = "FARM"
	ParentPlot ParentEntityType = "PLOT"
)

func ValidParentEntityType(t string) bool {
	switch ParentEntityType(t) {
	case ParentFarm, ParentPlot:
		return true
	}
	return false
}

type POIType string

const (
	POIWaterSource    POIType = "WATER_SOURCE"
	POIBuilding       POIType = "BUILDING"
	POIAccessPoint    POIType = "ACCESS_POINT"
	POIHazard         POIType = "HAZARD"
	POISoilSensor     POIType = "SOIL_SENSOR"
	POIWeatherStation POIType = "WEATHER_STATION"
	POIInfrastructure POIType = "INFRASTRUCTURE"
	POIOther          POIType = "OTHER"
	POIUnknown        POIType = "UNKNOWN"
)

func ValidPOIType(t string) bool {
	switch POIType(t) {
	case POIWaterSource, POIBuilding, POIAccessPoint, POIHazard, POISoilSensor,
		POIWeatherStation, POIInfrastructure, POIOther, POIUnknown:
		return true
	}
	return false
}

// ParsePOIType maps unrecognized input to POIUnknown.
func ParsePOIType(t string) POIType {
	if ValidPOIType(t) {
		return POIType(t)
	}
	return POIUnknown
}

// PointOfInterest marks a feature on a Farm or a Plot, identified by the
// (ParentEntityIdentifier, ParentEntityType) pair.
type PointOfInterest struct {
	POIIdentifier          uuid.UUID        `json:"poi_identifier"`
	ParentEntityIdentifier uuid.UUID        `json:"parent_entity_identifier"`
	ParentEntityType       ParentEntityType `json:"parent_entity_type"`
	POIName                *string          `json:"poi_name,omitempty"`
	POIType                POIType          `json:"poi_type"`
	Coordinates            orb.Point        `json:"-"`
	Notes                  *string          `json:"notes,omitempty"`
	TenantID               uuid.UUID        `json:"tenant_id"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
	Version                int64            `json:"version"`
}
