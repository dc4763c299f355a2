package dataset

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

const sampleCSV = `building_polygon_wkt,full_address,Energielabel,Energielabels_Bouwjaar,busy_roads,near_green,near_trees,detached,slope_factor,south_factor,wwr,orientation,neighborhood,latitude,longitude
"POLYGON ((4.35 52.01, 4.36 52.01, 4.36 52.02, 4.35 52.01))",Dorpsstraat 1,C,1932,1,0,0,0,0.4,0.7,0.2,1,Binnenstad,52.01,4.35
"POLYGON ((4.35 52.01, 4.36 52.01, 4.36 52.02, 4.35 52.01))",Dorpsstraat 1a,,1928,0,1,0,0,0.6,,0.3,,Binnenstad,52.01,4.35
,Zwerfadres 9,A,2001,0,0,0,0,,,,,Noord,52.10,4.40
"POLYGON ((4.40 52.10, 4.41 52.10, 4.41 52.11, 4.40 52.10))",Kerkweg 12,A,2005,0,0,1,1,0.1,0.2,0.15,0,Noord,52.10,4.40
`

type stubFetcher struct {
	data string
	err  error
}

func (f *stubFetcher) Fetch(ctx context.Context) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.data)), nil
}

func TestServiceLoad(t *testing.T) {
	svc := NewService(&stubFetcher{data: sampleCSV})

	if _, err := svc.Snapshot(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("snapshot before load: err = %v, want ErrNotLoaded", err)
	}

	stats, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.Rows != 4 || stats.SkippedRows != 1 || stats.Buildings != 2 || stats.Addresses != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.SnapshotID == "" || stats.DataHash == "" {
		t.Error("snapshot id and data hash must be set")
	}

	snap, err := svc.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	buildings := snap.Buildings()
	if len(buildings) != 2 {
		t.Fatalf("buildings = %d, want 2", len(buildings))
	}

	first := buildings[0]
	if first.AddressCount != 2 {
		t.Errorf("first building addressCount = %d, want 2", first.AddressCount)
	}
	if first.WorstEnergyRank != 2 || first.MissingEnergy {
		t.Errorf("first building rank=%d missing=%v, want 2 false", first.WorstEnergyRank, first.MissingEnergy)
	}
	if first.OldestYear != 1928 {
		t.Errorf("first building oldestYear = %d, want 1928", first.OldestYear)
	}
	if !first.OnBusyRoad || !first.NearGreen {
		t.Error("first building must OR busy road and near green across rows")
	}
	if first.MaxSlopeFactor == nil || *first.MaxSlopeFactor != 0.6 {
		t.Errorf("first building maxSlope = %v, want 0.6", first.MaxSlopeFactor)
	}

	details := snap.Details(first.Polygon)
	if len(details) != 2 || details[0].Address != "Dorpsstraat 1" || details[1].Address != "Dorpsstraat 1a" {
		t.Errorf("details = %+v, want both Dorpsstraat rows in order", details)
	}
	if got := snap.Details("no such key"); len(got) != 0 {
		t.Errorf("unknown key details = %v, want empty", got)
	}
}

func TestServiceLoadIdempotent(t *testing.T) {
	svc := NewService(&stubFetcher{data: sampleCSV})
	ctx := context.Background()

	if _, err := svc.Load(ctx); err != nil {
		t.Fatal(err)
	}
	snap1, _ := svc.Snapshot()
	if _, err := svc.Load(ctx); err != nil {
		t.Fatal(err)
	}
	snap2, _ := svc.Snapshot()

	if !reflect.DeepEqual(snap1.Buildings(), snap2.Buildings()) {
		t.Error("same input must aggregate to identical buildings")
	}
	if snap1.Stats().DataHash != snap2.Stats().DataHash {
		t.Error("same bytes must hash identically")
	}
	if snap1.Stats().SnapshotID == snap2.Stats().SnapshotID {
		t.Error("each load gets a fresh snapshot id")
	}
}

func TestServiceLoadFailureKeepsSnapshot(t *testing.T) {
	fetcher := &stubFetcher{data: sampleCSV}
	svc := NewService(fetcher)
	ctx := context.Background()

	if _, err := svc.Load(ctx); err != nil {
		t.Fatal(err)
	}
	before, _ := svc.Snapshot()

	fetcher.err = errors.New("bucket unreachable")
	if _, err := svc.Load(ctx); err == nil {
		t.Fatal("expected load error")
	}

	after, err := svc.Snapshot()
	if err != nil {
		t.Fatalf("snapshot after failed reload: %v", err)
	}
	if after != before {
		t.Error("failed reload must leave the previous snapshot in place")
	}
}

func TestServiceLoadEmptyBody(t *testing.T) {
	svc := NewService(&stubFetcher{data: ""})
	if _, err := svc.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing header")
	}
}

func TestSnapshotSearch(t *testing.T) {
	svc := NewService(&stubFetcher{data: sampleCSV})
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	snap, _ := svc.Snapshot()

	tests := []struct {
		query string
		limit int
		want  int
	}{
		{"dorpsstraat", 0, 2},
		{"Dorpsstraat 1a", 0, 1},
		{"dorpsstraat", 1, 1},
		{"kerkweg", 0, 1},
		{"bestaat niet", 0, 0},
		{"  ", 0, 0},
	}
	for _, tt := range tests {
		if got := snap.Search(tt.query, tt.limit); len(got) != tt.want {
			t.Errorf("Search(%q, %d) = %d matches, want %d", tt.query, tt.limit, len(got), tt.want)
		}
	}
}
