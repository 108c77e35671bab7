package model

import "hpfold/internal/lattice"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord is the persisted summary of one completed folding run.
type RunRecord struct {
	VersionedRecord
	ID             string       `json:"id"`
	Sequence       string       `json:"sequence"`
	Steps          int          `json:"steps"`
	Annealing      bool         `json:"annealing"`
	Temperature    float64      `json:"temperature"`
	Seed           int64        `json:"seed"`
	Snapshots      bool         `json:"snapshots"`
	CreatedAtUTC   string       `json:"created_at_utc"`
	FinalEnergy    float64      `json:"final_energy"`
	MinEnergy      float64      `json:"min_energy"`
	MaxCompactness int          `json:"max_compactness"`
	FinalFold      lattice.Fold `json:"final_fold"`
	MinEnergyFold  lattice.Fold `json:"min_energy_fold"`
	MaxCompactFold lattice.Fold `json:"max_compactness_fold"`
}

// SeriesRecord holds the per-step time series of one run; index 0 is the
// initial state before any move.
type SeriesRecord struct {
	VersionedRecord
	RunID       string    `json:"run_id"`
	Energy      []float64 `json:"energy"`
	Compactness []int     `json:"compactness"`
	Temperature []float64 `json:"temperature"`
}

// SnapshotRecord is one sparse accepted-fold entry of a run's snapshot log.
type SnapshotRecord struct {
	VersionedRecord
	Step int          `json:"step"`
	Fold lattice.Fold `json:"fold"`
}
