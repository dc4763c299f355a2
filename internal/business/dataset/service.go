package dataset

import (
	"context"
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stadslab/heat-readiness-map/apps/api/pkg/model"
)

// ErrNotLoaded is returned when a read arrives before the first successful
// snapshot load.
var ErrNotLoaded = errors.New("dataset: no snapshot loaded")

// Snapshot is one immutable materialization of the CSV extract. Reads share it
// without locking; a reload builds a fresh one and swaps the pointer.
type Snapshot struct {
	stats     model.LoadStats
	buildings []model.Building
	details   map[string][]model.AddressRecord
}

// Buildings returns the minimal aggregates in first-appearance order.
func (s *Snapshot) Buildings() []model.Building {
	return s.buildings
}

// Details returns every address record of one building in source row order.
// Unknown keys yield an empty slice; lookup misses are not errors.
func (s *Snapshot) Details(buildingKey string) []model.AddressRecord {
	return s.details[buildingKey]
}

// Search returns the records whose address contains the query, case
// insensitively, capped at limit. A blank query matches nothing.
func (s *Snapshot) Search(query string, limit int) []model.AddressRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []model.AddressRecord
	for _, b := range s.buildings {
		for _, rec := range s.details[b.Polygon] {
			if strings.Contains(strings.ToLower(rec.Address), query) {
				out = append(out, rec)
				if limit > 0 && len(out) >= limit {
					return out
				}
			}
		}
	}
	return out
}

// Stats returns the load counters for this snapshot.
func (s *Snapshot) Stats() model.LoadStats {
	return s.stats
}

// Service owns the current snapshot and rebuilds it from the source on demand.
type Service struct {
	fetcher Fetcher

	mu   sync.RWMutex
	snap *Snapshot
}

func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Load fetches the CSV extract and replaces the current snapshot. The load is
// all-or-nothing: on any fetch or decode failure the previous snapshot stays in
// place and the error is surfaced to the caller. There are no retries.
func (s *Service) Load(ctx context.Context) (model.LoadStats, error) {
	body, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return model.LoadStats{}, fmt.Errorf("fetch source data: %w", err)
	}
	defer body.Close()

	snap, err := buildSnapshot(body)
	if err != nil {
		return model.LoadStats{}, err
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return snap.stats, nil
}

// Snapshot returns the current snapshot, or ErrNotLoaded before the first
// successful Load.
func (s *Service) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotLoaded
	}
	return s.snap, nil
}

// buildSnapshot streams CSV rows through the normalizer into an accumulator in
// one pass, hashing the raw bytes on the way for change detection.
func buildSnapshot(r io.Reader) (*Snapshot, error) {
	hasher := md5.New()
	reader := csv.NewReader(io.TeeReader(r, hasher))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := newHeaderIndex(header)

	acc := NewAccumulator()
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rec, ok := NormalizeRow(idx, row)
		if !ok {
			acc.Skip()
			continue
		}
		acc.Add(rec)
	}

	buildings := acc.Buildings()
	return &Snapshot{
		stats: model.LoadStats{
			SnapshotID:  uuid.NewString(),
			LoadedAt:    time.Now().UTC(),
			Rows:        acc.Rows(),
			SkippedRows: acc.Skipped(),
			Buildings:   len(buildings),
			Addresses:   acc.Rows() - acc.Skipped(),
			DataHash:    hex.EncodeToString(hasher.Sum(nil)),
		},
		buildings: buildings,
		details:   acc.DetailMap(),
	}, nil
}
