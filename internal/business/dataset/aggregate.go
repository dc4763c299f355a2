package dataset

import (
	"github.com/stadslab/heat-readiness-map/apps/api/pkg/geo"
	"github.com/stadslab/heat-readiness-map/apps/api/pkg/model"
)

// Accumulator groups address records by building key in a single streaming
// pass. Each Add is O(1) amortized against a hash map; no second pass over the
// input is ever needed. The zero value is not usable, construct with
// NewAccumulator. All state is local to the value, nothing package-level.
type Accumulator struct {
	order   []string
	minimal map[string]*model.Building
	details map[string][]model.AddressRecord
	rows    int
	skipped int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		minimal: make(map[string]*model.Building),
		details: make(map[string][]model.AddressRecord),
	}
}

// Add folds one record into the accumulator. Records with an empty building key
// are counted as skipped and contribute to nothing.
func (a *Accumulator) Add(rec model.AddressRecord) {
	a.rows++
	if rec.BuildingKey == "" {
		a.skipped++
		return
	}

	b, ok := a.minimal[rec.BuildingKey]
	if !ok {
		b = newBuilding(rec)
		a.minimal[rec.BuildingKey] = b
		a.order = append(a.order, rec.BuildingKey)
	}
	reduce(b, rec)
	a.details[rec.BuildingKey] = append(a.details[rec.BuildingKey], rec)
}

// Skip counts a row that never produced a record (blank building key at parse
// time). Kept separate from Add so the normalizer's skip decision and the
// accumulator's bookkeeping stay in sync.
func (a *Accumulator) Skip() {
	a.rows++
	a.skipped++
}

// newBuilding seeds the aggregate from the first-seen record. Position and
// neighborhood are first-write-wins and are never touched again; geography does
// not vary across addresses within one building. When the record carries no
// coordinates the polygon centroid fills in.
func newBuilding(rec model.AddressRecord) *model.Building {
	lat, lng := rec.Latitude, rec.Longitude
	if lat == nil || lng == nil {
		if cLng, cLat, err := geo.Centroid(rec.BuildingKey); err == nil {
			lng, lat = &cLng, &cLat
		}
	}
	return &model.Building{
		Polygon:       rec.BuildingKey,
		Latitude:      lat,
		Longitude:     lng,
		Neighborhood:  rec.Neighborhood,
		MissingEnergy: true,
		MissingYear:   true,
		MissingSlope:  true,
		MissingSouth:  true,
		MissingWWR:    true,
	}
}

// reduce folds one record into the reduction fields. A nil incoming value never
// overwrites a present aggregate, and a present value moves the aggregate only
// when it strictly improves the min/max.
func reduce(b *model.Building, rec model.AddressRecord) {
	b.AddressCount++

	if rec.EnergyLabel != nil {
		rank := EnergyRank(*rec.EnergyLabel)
		if b.MissingEnergy || rank < b.WorstEnergyRank {
			b.WorstEnergyRank = rank
		}
		b.MissingEnergy = false
	}
	if rec.BuildingYear != nil {
		if b.MissingYear || *rec.BuildingYear < b.OldestYear {
			b.OldestYear = *rec.BuildingYear
		}
		b.MissingYear = false
	}

	b.OnBusyRoad = b.OnBusyRoad || rec.BusyRoad
	b.NearGreen = b.NearGreen || rec.NearGreen

	b.MaxSlopeFactor, b.MissingSlope = maxFold(b.MaxSlopeFactor, rec.SlopeFactor, b.MissingSlope)
	b.MaxSouthFactor, b.MissingSouth = maxFold(b.MaxSouthFactor, rec.SouthFactor, b.MissingSouth)
	b.MaxWWR, b.MissingWWR = maxFold(b.MaxWWR, rec.WWR, b.MissingWWR)
}

func maxFold(agg, incoming *float64, missing bool) (*float64, bool) {
	if incoming == nil {
		return agg, missing
	}
	if agg == nil || *incoming > *agg {
		v := *incoming
		return &v, false
	}
	return agg, false
}

// Buildings returns the minimal aggregates in first-appearance order of their
// keys, so the output is deterministic for a given input order. IDs are the
// ordinal positions in that order.
func (a *Accumulator) Buildings() []model.Building {
	out := make([]model.Building, 0, len(a.order))
	for i, key := range a.order {
		b := *a.minimal[key]
		b.ID = i
		out = append(out, b)
	}
	return out
}

// Details returns every record of one building in source row order. Unknown
// keys yield an empty slice, not an error.
func (a *Accumulator) Details(key string) []model.AddressRecord {
	return a.details[key]
}

// DetailMap exposes the full per-building record lists keyed by building key.
func (a *Accumulator) DetailMap() map[string][]model.AddressRecord {
	return a.details
}

// Rows returns the number of rows seen, Skipped the subset discarded for having
// no building key.
func (a *Accumulator) Rows() int    { return a.rows }
func (a *Accumulator) Skipped() int { return a.skipped }
