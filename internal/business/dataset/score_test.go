package dataset

import (
	"testing"

	"github.com/stadslab/heat-readiness-map/apps/api/pkg/model"
)

func TestEnergyRank(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"A++++", 8},
		{"A+++", 7},
		{"A++", 6},
		{"A+", 5},
		{"A", 4},
		{"B", 3},
		{"C", 2},
		{"D", 1},
		{"E", 0},
		{"F", -1},
		{"G", -2},
		{"", 0},
		{"Z", 0},
		{"a", 0}, // labels are case sensitive in the source data
	}
	for _, tt := range tests {
		if got := EnergyRank(tt.label); got != tt.want {
			t.Errorf("EnergyRank(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func TestScoreAllCriteriaMet(t *testing.T) {
	// Label D (rank 1) is at most C (rank 2), 1890 is at most 1900, and the
	// building is on a busy road: every indicator fires, score is the full
	// weight sum.
	b := model.Building{WorstEnergyRank: 1, OldestYear: 1890, OnBusyRoad: true}
	c := model.Criteria{
		EnergyOp: "<=", EnergyLabel: "C", EnergyWeight: 0.5,
		YearOp: "<=", YearValue: 1900, YearWeight: 0.3,
		BusyRoadWeight: 0.2,
	}
	if got := Score(b, c); got != 1.0 {
		t.Errorf("score = %v, want 1.0", got)
	}
}

func TestScore(t *testing.T) {
	base := model.Criteria{
		EnergyOp: "<=", EnergyLabel: "C", EnergyWeight: 0.5,
		YearOp: "<=", YearValue: 1900, YearWeight: 0.3,
		BusyRoadWeight: 0.2,
	}

	tests := []struct {
		name     string
		building model.Building
		criteria model.Criteria
		want     float64
	}{
		{
			name:     "no criterion met",
			building: model.Building{WorstEnergyRank: 4, OldestYear: 1995},
			criteria: base,
			want:     0,
		},
		{
			name:     "only busy road",
			building: model.Building{WorstEnergyRank: 4, OldestYear: 1995, OnBusyRoad: true},
			criteria: base,
			want:     0.2,
		},
		{
			name:     "threshold is inclusive",
			building: model.Building{WorstEnergyRank: 2, OldestYear: 1900},
			criteria: base,
			want:     0.8,
		},
		{
			name:     "at-least operator",
			building: model.Building{WorstEnergyRank: 5, OldestYear: 2000},
			criteria: model.Criteria{
				EnergyOp: ">=", EnergyLabel: "A", EnergyWeight: 0.4,
				YearOp: ">=", YearValue: 1990, YearWeight: 0.4,
			},
			want: 0.8,
		},
		{
			name:     "unknown threshold label ranks 0",
			building: model.Building{WorstEnergyRank: -1},
			criteria: model.Criteria{EnergyOp: "<=", EnergyLabel: "whatever", EnergyWeight: 1, YearOp: "<="},
			want:     1,
		},
		{
			name:     "unknown operator contributes nothing",
			building: model.Building{WorstEnergyRank: 1, OldestYear: 1890, OnBusyRoad: true},
			criteria: model.Criteria{
				EnergyOp: "<", EnergyLabel: "C", EnergyWeight: 0.5,
				YearOp: "==", YearValue: 1890, YearWeight: 0.3,
				BusyRoadWeight: 0.2,
			},
			want: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.building, tt.criteria)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreStaysWithinWeightSum(t *testing.T) {
	criteria := model.Criteria{
		EnergyOp: "<=", EnergyLabel: "A++++", EnergyWeight: 0.9,
		YearOp: "<=", YearValue: 3000, YearWeight: 0.8,
		BusyRoadWeight: 0.7,
	}
	weightSum := criteria.EnergyWeight + criteria.YearWeight + criteria.BusyRoadWeight

	buildings := []model.Building{
		{},
		{WorstEnergyRank: 8, OldestYear: 1600, OnBusyRoad: true},
		{WorstEnergyRank: -2, OldestYear: 2025},
	}
	for _, b := range buildings {
		got := Score(b, criteria)
		if got < 0 || got > weightSum {
			t.Errorf("score %v out of [0, %v] for %+v", got, weightSum, b)
		}
	}
}

func TestValidateCriteria(t *testing.T) {
	good := model.Criteria{EnergyOp: "<=", YearOp: ">="}
	if err := ValidateCriteria(good); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	bad := model.Criteria{EnergyOp: "<=", YearOp: "!="}
	if err := ValidateCriteria(bad); err == nil {
		t.Error("expected error for operator !=")
	}
}
