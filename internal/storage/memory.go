package storage

import (
	"context"
	"sort"
	"sync"

	"hpfold/internal/model"
)

type MemoryStore struct {
	mu        sync.RWMutex
	runs      map[string]model.RunRecord
	series    map[string]model.SeriesRecord
	snapshots map[string][]model.SnapshotRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = make(map[string]model.RunRecord)
	s.series = make(map[string]model.SeriesRecord)
	s.snapshots = make(map[string][]model.SnapshotRecord)
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	return s.Init(ctx)
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAtUTC == out[j].CreatedAtUTC {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAtUTC > out[j].CreatedAtUTC
	})
	return out, nil
}

func (s *MemoryStore) SaveSeries(_ context.Context, runID string, series model.SeriesRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	series.RunID = runID
	series.Energy = append([]float64(nil), series.Energy...)
	series.Compactness = append([]int(nil), series.Compactness...)
	series.Temperature = append([]float64(nil), series.Temperature...)
	s.series[runID] = series
	return nil
}

func (s *MemoryStore) GetSeries(_ context.Context, runID string) (model.SeriesRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.series[runID]
	if !ok {
		return model.SeriesRecord{}, false, nil
	}
	series.Energy = append([]float64(nil), series.Energy...)
	series.Compactness = append([]int(nil), series.Compactness...)
	series.Temperature = append([]float64(nil), series.Temperature...)
	return series, true, nil
}

func (s *MemoryStore) SaveSnapshots(_ context.Context, runID string, snapshots []model.SnapshotRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[runID] = append([]model.SnapshotRecord(nil), snapshots...)
	return nil
}

func (s *MemoryStore) GetSnapshots(_ context.Context, runID string) ([]model.SnapshotRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshots, ok := s.snapshots[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.SnapshotRecord(nil), snapshots...), true, nil
}
