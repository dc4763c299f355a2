// Command export_scores scores a local CSV extract offline and writes the
// per-building results plus a neighborhood summary, for sanity-checking weight
// presets before they ship to the map.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/stadslab/heat-readiness-map/apps/api/internal/business/dataset"
	"github.com/stadslab/heat-readiness-map/apps/api/internal/platform/regions"
	"github.com/stadslab/heat-readiness-map/apps/api/pkg/colormap"
	"github.com/stadslab/heat-readiness-map/apps/api/pkg/model"
)

func main() {
	dataPath := flag.String("data", "", "Path to the address CSV extract (required)")
	regionsPath := flag.String("regions", "", "Path to the neighborhood GeoJSON (optional)")
	outPath := flag.String("out", "scored_buildings.csv", "Output CSV path")
	energyOp := flag.String("energy-op", "<=", "Energy comparison operator")
	energyLabel := flag.String("energy-label", "C", "Energy threshold label")
	energyWeight := flag.Float64("energy-weight", 0.5, "Energy criterion weight")
	yearOp := flag.String("year-op", "<=", "Year comparison operator")
	yearValue := flag.Int("year-value", 1945, "Year threshold")
	yearWeight := flag.Float64("year-weight", 0.3, "Year criterion weight")
	busyRoadWeight := flag.Float64("busy-road-weight", 0.2, "Busy road criterion weight")
	flag.Parse()

	_ = godotenv.Load(".env.local", ".env")

	if *dataPath == "" {
		log.Fatal("-data is required")
	}

	criteria := model.Criteria{
		EnergyOp:       *energyOp,
		EnergyLabel:    *energyLabel,
		EnergyWeight:   *energyWeight,
		YearOp:         *yearOp,
		YearValue:      *yearValue,
		YearWeight:     *yearWeight,
		BusyRoadWeight: *busyRoadWeight,
	}
	if err := dataset.ValidateCriteria(criteria); err != nil {
		log.Fatalf("criteria: %v", err)
	}

	ctx := context.Background()
	service := dataset.NewService(dataset.NewFileFetcher(*dataPath))
	stats, err := service.Load(ctx)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}
	log.Printf("loaded %d buildings from %d rows (%d skipped)", stats.Buildings, stats.Rows, stats.SkippedRows)

	snap, err := service.Snapshot()
	if err != nil {
		log.Fatalf("snapshot: %v", err)
	}
	buildings := snap.Buildings()

	if err := writeBuildingCSV(*outPath, buildings, criteria); err != nil {
		log.Fatalf("write output: %v", err)
	}
	log.Printf("wrote %d scored buildings to %s", len(buildings), *outPath)

	if *regionsPath != "" {
		printNeighborhoodSummary(*regionsPath, buildings, criteria)
	}
}

func writeBuildingCSV(path string, buildings []model.Building, criteria model.Criteria) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "neighborhood", "address_count", "worst_energy_rank", "oldest_year", "on_busy_road", "score", "color"}
	if err := writer.Write(header); err != nil {
		return err
	}

	weightSum := criteria.EnergyWeight + criteria.YearWeight + criteria.BusyRoadWeight
	for _, b := range buildings {
		score := dataset.Score(b, criteria)
		norm := score
		if weightSum > 0 {
			norm = score / weightSum
		}
		row := []string{
			strconv.Itoa(b.ID),
			b.Neighborhood,
			strconv.Itoa(b.AddressCount),
			strconv.Itoa(b.WorstEnergyRank),
			strconv.Itoa(b.OldestYear),
			strconv.FormatBool(b.OnBusyRoad),
			fmt.Sprintf("%.3f", score),
			colormap.Hex(norm),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Error()
}

func printNeighborhoodSummary(path string, buildings []model.Building, criteria model.Criteria) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open regions: %v", err)
	}
	defer f.Close()

	regionList, err := regions.Load(f)
	if err != nil {
		log.Fatalf("load regions: %v", err)
	}

	stats := dataset.AggregateByNeighborhood(buildings, criteria, regionList)
	codes := make([]string, 0, len(stats))
	for code := range stats {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	fmt.Println("\nNeighborhood summary:")
	for _, code := range codes {
		s := stats[code]
		if s.MeanScore == nil {
			fmt.Printf("  %-12s %-30s buildings=%-5d mean=n/a\n", s.Code, s.Name, s.Count)
			continue
		}
		fmt.Printf("  %-12s %-30s buildings=%-5d mean=%.3f\n", s.Code, s.Name, s.Count, *s.MeanScore)
	}
}
