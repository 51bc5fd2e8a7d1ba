// Package geo converts between GeoJSON-style wire geometry and the planar
// orb values stored in PostGIS. All coordinates are WGS84 with longitude
// before latitude, matching GeoJSON; orb's x/y carry lon/lat directly.
package geo

import "github.com/paulmach/orb"

// PointGeometry is the wire form of a GeoJSON Point. Coordinates are
// [lon, lat] or [lon, lat, alt]; altitude is accepted and discarded.
type PointGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// PolygonGeometry is the wire form of a GeoJSON Polygon: a list of linear
// rings, the first being the exterior shell and the rest holes.
type PolygonGeometry struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

// DecodePoint returns nil when the input is nil or has fewer than two
// coordinates. That is not an error; callers that require a point must treat
// nil as a validation failure themselves.
func DecodePoint(dto *PointGeometry) *orb.Point {
	if dto == nil || len(dto.Coordinates) < 2 {
		return nil
	}
	p := orb.Point{dto.Coordinates[0], dto.Coordinates[1]}
	return &p
}

// EncodePoint emits exactly two coordinates; any altitude carried on the way
// in is gone by the time a point is encoded back out.
func EncodePoint(p *orb.Point) *PointGeometry {
	if p == nil {
		return nil
	}
	return &PointGeometry{
		Type:        "Point",
		Coordinates: []float64{p.X(), p.Y()},
	}
}

// DecodePolygon builds an orb.Polygon from the DTO's rings.
//
// Rings that are not closed are closed by appending a copy of their first
// point. A ring that still has fewer than 4 points invalidates the whole
// polygon when it is the exterior; an invalid interior ring is dropped and
// the remaining polygon kept. Returns nil when no valid exterior results.
func DecodePolygon(dto *PolygonGeometry) orb.Polygon {
	if dto == nil || len(dto.Coordinates) == 0 {
		return nil
	}

	var poly orb.Polygon
	for i, dtoRing := range dto.Coordinates {
		ring := make(orb.Ring, 0, len(dtoRing)+1)
		for _, c := range dtoRing {
			if len(c) < 2 {
				continue
			}
			ring = append(ring, orb.Point{c[0], c[1]})
		}
		if len(ring) > 0 && !ring[0].Equal(ring[len(ring)-1]) {
			ring = append(ring, ring[0])
		}
		if len(ring) < 4 {
			if i == 0 {
				return nil
			}
			continue
		}
		poly = append(poly, ring)
	}
	if len(poly) == 0 {
		return nil
	}
	return poly
}

// EncodePolygon is the inverse of DecodePolygon: exterior ring first, holes
// in their original order, 2D coordinates only.
func EncodePolygon(poly orb.Polygon) *PolygonGeometry {
	if len(poly) == 0 {
		return nil
	}

	rings := make([][][]float64, 0, len(poly))
	for _, ring := range poly {
		coords := make([][]float64, 0, len(ring))
		for _, p := range ring {
			coords = append(coords, []float64{p.X(), p.Y()})
		}
		rings = append(rings, coords)
	}
	return &PolygonGeometry{
		Type:        "Polygon",
		Coordinates: rings,
	}
}
