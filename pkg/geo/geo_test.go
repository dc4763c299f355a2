package geo

import (
	"math"
	"testing"
)

const squareWKT = "POLYGON ((4.0 52.0, 4.2 52.0, 4.2 52.1, 4.0 52.1, 4.0 52.0))"

func TestParse(t *testing.T) {
	if _, err := Parse(squareWKT); err != nil {
		t.Fatalf("parse valid polygon: %v", err)
	}
	if _, err := Parse("POLYGON ((oops"); err == nil {
		t.Fatal("expected error for malformed wkt")
	}
}

func TestBounds(t *testing.T) {
	g, err := Parse(squareWKT)
	if err != nil {
		t.Fatal(err)
	}
	box := Bounds(g)
	if box.West != 4.0 || box.East != 4.2 || box.South != 52.0 || box.North != 52.1 {
		t.Errorf("bounds = %+v", box)
	}
}

func TestCentroid(t *testing.T) {
	lng, lat, err := Centroid(squareWKT)
	if err != nil {
		t.Fatalf("centroid: %v", err)
	}
	if math.Abs(lng-4.1) > 1e-9 || math.Abs(lat-52.05) > 1e-9 {
		t.Errorf("centroid = %v, %v; want 4.1, 52.05", lng, lat)
	}

	if _, _, err := Centroid("not wkt at all"); err == nil {
		t.Error("expected error for invalid wkt")
	}
}
