package store

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// Geometry columns travel as WKB: parameters go through ST_GeomFromWKB and
// results come back via ST_AsBinary, with orb's wkb codec on the Go side.

func pointValue(p *orb.Point) any {
	if p == nil {
		return nil
	}
	return wkb.Value(*p)
}

func polygonValue(poly orb.Polygon) any {
	if poly == nil {
		return nil
	}
	return wkb.Value(poly)
}
