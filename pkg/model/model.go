package model

import "time"

// AddressRecord is one typed row of the source CSV extract. Optional fields use
// pointers: nil means the source cell was empty or unparsable. Boolean flags are
// never nil; a missing or non-numeric flag column reads as false, so callers must
// not treat false as "unknown" for those fields.
type AddressRecord struct {
	// BuildingKey is the building polygon WKT string, compared verbatim and used
	// as the surrogate building identity. Not serialized; the aggregate carries it.
	BuildingKey string `json:"-"`

	Address      string   `json:"address"`
	EnergyLabel  *string  `json:"energyLabel,omitempty"`
	BuildingYear *int     `json:"buildingYear,omitempty"`
	BusyRoad     bool     `json:"busyRoad"`
	NearGreen    bool     `json:"nearGreen"`
	NearTrees    bool     `json:"nearTrees"`
	Detached     bool     `json:"detached"`
	SlopeFactor  *float64 `json:"slopeFactor,omitempty"`
	SouthFactor  *float64 `json:"southFactor,omitempty"`
	WWR          *float64 `json:"wwr,omitempty"`
	Orientation  *bool    `json:"orientation,omitempty"`
	Neighborhood string   `json:"neighborhood"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// Building is the minimal per-building view used for bulk map rendering.
// Position fields come from the first-seen address record; the remaining fields
// are reductions over every record sharing the building key.
type Building struct {
	ID           int      `json:"id"`
	Polygon      string   `json:"polygon"`
	Latitude     *float64 `json:"lat"`
	Longitude    *float64 `json:"lng"`
	Neighborhood string   `json:"neighborhood"`
	AddressCount int      `json:"addressCount"`

	WorstEnergyRank int  `json:"worstEnergyRank"`
	OldestYear      int  `json:"oldestYear"`
	OnBusyRoad      bool `json:"onBusyRoad"`
	NearGreen       bool `json:"nearGreen"`

	MaxSlopeFactor *float64 `json:"maxSlopeFactor,omitempty"`
	MaxSouthFactor *float64 `json:"maxSouthFactor,omitempty"`
	MaxWWR         *float64 `json:"maxWwr,omitempty"`

	MissingEnergy bool `json:"missingEnergy"`
	MissingYear   bool `json:"missingYear"`
	MissingSlope  bool `json:"missingSlope"`
	MissingSouth  bool `json:"missingSouth"`
	MissingWWR    bool `json:"missingWwr"`
}

// Criteria configures the weighted binary scoring function. Operators are "<="
// or ">=". Weights are independent floats in [0,1]; keeping their sum at or
// below 1 is the caller's job, the scoring function does not normalize.
type Criteria struct {
	EnergyOp     string  `json:"energyOp"`
	EnergyLabel  string  `json:"energyLabel"`
	EnergyWeight float64 `json:"energyWeight"`

	YearOp     string  `json:"yearOp"`
	YearValue  int     `json:"yearValue"`
	YearWeight float64 `json:"yearWeight"`

	BusyRoadWeight float64 `json:"busyRoadWeight"`
}

// BBox is an axis-aligned bounding rectangle in WGS84 degrees.
type BBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// Contains reports whether the point falls inside the rectangle, edges included.
func (b BBox) Contains(lng, lat float64) bool {
	return lng >= b.West && lng <= b.East && lat >= b.South && lat <= b.North
}

// Region is a neighborhood boundary reduced to its bounding box. Buildings are
// bucketed by bounding-box containment only, so overlapping regions may both
// claim the same building.
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
	BBox BBox   `json:"bbox"`
}

// NeighborhoodStats aggregates scored buildings inside one region's bounding
// box. MeanScore is nil when no building fell inside the box, which is distinct
// from a region whose buildings average to zero.
type NeighborhoodStats struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Count     int      `json:"count"`
	MeanScore *float64 `json:"meanScore,omitempty"`
}

// LoadStats records counters for one CSV snapshot load.
type LoadStats struct {
	SnapshotID  string    `json:"snapshotId"`
	LoadedAt    time.Time `json:"loadedAt"`
	Rows        int       `json:"rows"`
	SkippedRows int       `json:"skippedRows"`
	Buildings   int       `json:"buildings"`
	Addresses   int       `json:"addresses"`
	DataHash    string    `json:"dataHash"`
}
