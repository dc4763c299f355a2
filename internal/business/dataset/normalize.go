package dataset

import (
	"strconv"
	"strings"

	"github.com/stadslab/heat-readiness-map/apps/api/pkg/model"
)

// Source CSV column names. Column order is irrelevant; lookup goes through the
// header index so extra or missing columns never abort parsing.
const (
	colPolygon      = "building_polygon_wkt"
	colAddress      = "full_address"
	colEnergyLabel  = "Energielabel"
	colBuildingYear = "Energielabels_Bouwjaar"
	colBusyRoad     = "busy_roads"
	colNearGreen    = "near_green"
	colNearTrees    = "near_trees"
	colDetached     = "detached"
	colSlopeFactor  = "slope_factor"
	colSouthFactor  = "south_factor"
	colWWR          = "wwr"
	colOrientation  = "orientation"
	colNeighborhood = "neighborhood"
	colLatitude     = "latitude"
	colLongitude    = "longitude"
)

// headerIndex maps column names to positions in a CSV row.
type headerIndex map[string]int

// newHeaderIndex builds the lookup from the header row. Duplicate column names
// keep the first occurrence.
func newHeaderIndex(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}
	return idx
}

// get returns the trimmed cell for a column, or "" when the column is absent or
// the row is short.
func (h headerIndex) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// NormalizeRow turns one raw CSV row into an AddressRecord. The second return
// is false when the row has no usable building key; such rows are skipped by
// the caller, never treated as an error. Malformed numeric cells degrade to nil
// (optional fields) or false (flags) and also never error.
func NormalizeRow(idx headerIndex, row []string) (model.AddressRecord, bool) {
	key := idx.get(row, colPolygon)
	if key == "" {
		return model.AddressRecord{}, false
	}

	neighborhood := idx.get(row, colNeighborhood)
	if neighborhood == "" {
		neighborhood = "Unknown"
	}

	return model.AddressRecord{
		BuildingKey:  key,
		Address:      idx.get(row, colAddress),
		EnergyLabel:  optionalString(idx.get(row, colEnergyLabel)),
		BuildingYear: optionalInt(idx.get(row, colBuildingYear)),
		BusyRoad:     flag(idx.get(row, colBusyRoad)),
		NearGreen:    flag(idx.get(row, colNearGreen)),
		NearTrees:    flag(idx.get(row, colNearTrees)),
		Detached:     flag(idx.get(row, colDetached)),
		SlopeFactor:  optionalFloat(idx.get(row, colSlopeFactor)),
		SouthFactor:  optionalFloat(idx.get(row, colSouthFactor)),
		WWR:          optionalFloat(idx.get(row, colWWR)),
		Orientation:  optionalFlag(idx.get(row, colOrientation)),
		Neighborhood: neighborhood,
		Latitude:     optionalFloat(idx.get(row, colLatitude)),
		Longitude:    optionalFloat(idx.get(row, colLongitude)),
	}, true
}

// flag parses an integer flag column: exactly 1 means true, everything else
// (including parse failure and the empty string) means false. Callers must not
// read false back as "unknown".
func flag(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n == 1
}

// optionalFlag is the tri-state variant: empty means nil, otherwise the flag
// rule applies.
func optionalFlag(s string) *bool {
	if s == "" {
		return nil
	}
	v := flag(s)
	return &v
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// optionalFloat maps empty and unparsable cells to nil rather than NaN so that
// downstream aggregation has a single "missing" representation.
func optionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
