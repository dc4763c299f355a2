package geo

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
	"github.com/twpayne/go-geom/xy"

	"github.com/stadslab/heat-readiness-map/apps/api/pkg/model"
)

// Parse decodes a WKT geometry string (lng/lat order, WGS84).
func Parse(s string) (geom.T, error) {
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("parse wkt: %w", err)
	}
	return g, nil
}

// Bounds reduces a geometry to its axis-aligned bounding rectangle.
func Bounds(g geom.T) model.BBox {
	b := g.Bounds()
	return model.BBox{
		West:  b.Min(0),
		South: b.Min(1),
		East:  b.Max(0),
		North: b.Max(1),
	}
}

// Centroid returns the centroid of a WKT geometry as lng, lat. Used as a
// position fallback for address rows that carry a polygon but no coordinates.
func Centroid(s string) (lng, lat float64, err error) {
	g, err := Parse(s)
	if err != nil {
		return 0, 0, err
	}
	c, err := xy.Centroid(g)
	if err != nil {
		return 0, 0, fmt.Errorf("centroid: %w", err)
	}
	return c.X(), c.Y(), nil
}
