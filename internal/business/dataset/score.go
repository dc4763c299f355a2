package dataset

import (
	"fmt"

	"github.com/stadslab/heat-readiness-map/apps/api/pkg/model"
)

// Comparison operators accepted by Criteria.
const (
	OpAtMost  = "<="
	OpAtLeast = ">="
)

// energyRanks orders label strings on a comparable scale. Lower is worse.
var energyRanks = map[string]int{
	"A++++": 8,
	"A+++":  7,
	"A++":   6,
	"A+":    5,
	"A":     4,
	"B":     3,
	"C":     2,
	"D":     1,
	"E":     0,
	"F":     -1,
	"G":     -2,
}

// EnergyRank maps a label to its rank. Unrecognized or missing labels rank 0,
// the same as label E.
func EnergyRank(label string) int {
	return energyRanks[label]
}

// Score computes the weighted sum of binary criterion indicators for one
// building. Each criterion contributes its full weight or nothing; the result
// lies in [0, sum of weights] and is not normalized. Pure function, safe to
// call from anywhere.
func Score(b model.Building, c model.Criteria) float64 {
	var score float64
	if compare(b.WorstEnergyRank, EnergyRank(c.EnergyLabel), c.EnergyOp) {
		score += c.EnergyWeight
	}
	if compare(b.OldestYear, c.YearValue, c.YearOp) {
		score += c.YearWeight
	}
	if b.OnBusyRoad {
		score += c.BusyRoadWeight
	}
	return score
}

// compare applies a threshold operator. Unknown operators evaluate to false so
// a bad criteria set lowers scores instead of crashing a bulk render.
func compare(value, threshold int, op string) bool {
	switch op {
	case OpAtMost:
		return value <= threshold
	case OpAtLeast:
		return value >= threshold
	default:
		return false
	}
}

// ValidateCriteria rejects operator strings Score would silently ignore.
// Weight sums are deliberately not checked here; normalizing to [0,1] is a
// presentation concern.
func ValidateCriteria(c model.Criteria) error {
	for _, op := range []string{c.EnergyOp, c.YearOp} {
		if op != OpAtMost && op != OpAtLeast {
			return fmt.Errorf("invalid comparison operator %q (want %q or %q)", op, OpAtMost, OpAtLeast)
		}
	}
	return nil
}
