package storage

import (
	"context"

	"hpfold/internal/model"
)

// Store defines persistence operations for folding runs and their series.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveSeries(ctx context.Context, runID string, series model.SeriesRecord) error
	GetSeries(ctx context.Context, runID string) (model.SeriesRecord, bool, error)
	SaveSnapshots(ctx context.Context, runID string, snapshots []model.SnapshotRecord) error
	GetSnapshots(ctx context.Context, runID string) ([]model.SnapshotRecord, bool, error)
}

// Resetter is implemented by stores that can drop all persisted runs.
type Resetter interface {
	Reset(ctx context.Context) error
}
