package dataset

import (
	"github.com/stadslab/heat-readiness-map/apps/api/pkg/model"
)

// AggregateByNeighborhood buckets scored buildings into neighborhood regions
// and computes the arithmetic mean score plus building count per region, keyed
// by region code.
//
// Containment is bounding-box only, never exact point-in-polygon. This is the
// historical behavior of the map: it is cheap, needs no polygon clipping, and
// changes results near region boundaries compared to an exact test. Overlapping
// boxes may each claim the same building, and a building can fall in no region
// at all. Regions with zero buildings report a nil mean, which callers must
// keep distinct from a mean of 0.
func AggregateByNeighborhood(buildings []model.Building, criteria model.Criteria, regions []model.Region) map[string]model.NeighborhoodStats {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket, len(regions))
	for _, r := range regions {
		buckets[r.Code] = &bucket{}
	}

	for _, b := range buildings {
		if b.Latitude == nil || b.Longitude == nil {
			continue
		}
		score := Score(b, criteria)
		for _, r := range regions {
			if r.BBox.Contains(*b.Longitude, *b.Latitude) {
				bk := buckets[r.Code]
				bk.sum += score
				bk.count++
			}
		}
	}

	out := make(map[string]model.NeighborhoodStats, len(regions))
	for _, r := range regions {
		bk := buckets[r.Code]
		stats := model.NeighborhoodStats{
			Code:  r.Code,
			Name:  r.Name,
			Count: bk.count,
		}
		if bk.count > 0 {
			mean := bk.sum / float64(bk.count)
			stats.MeanScore = &mean
		}
		out[r.Code] = stats
	}
	return out
}
