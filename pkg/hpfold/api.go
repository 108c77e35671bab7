// Package hpfold is the public client for running and inspecting HP-model
// lattice folding simulations.
package hpfold

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"hpfold/internal/evolve"
	"hpfold/internal/fold"
	"hpfold/internal/hp"
	"hpfold/internal/lattice"
	"hpfold/internal/model"
	"hpfold/internal/stats"
	"hpfold/internal/storage"
)

const (
	defaultBenchmarksDir = "benchmarks"
	defaultExportsDir    = "exports"
	defaultDBPath        = "hpfold.db"

	defaultSteps       = 10000
	defaultTemperature = 1.0
)

type Options struct {
	StoreKind     string
	DBPath        string
	BenchmarksDir string
	ExportsDir    string
}

type Client struct {
	store storage.Store

	benchmarksDir string
	exportsDir    string

	initialized bool
}

type RunRequest struct {
	Sequence        string
	InitialFold     [][2]int
	Steps           int
	Annealing       bool
	Temperature     float64
	BindingStrength float64
	Snapshots       bool
	Seed            int64
}

type RunSummary struct {
	RunID              string
	ArtifactsDir       string
	Sequence           string
	Seed               int64
	FinalEnergy        float64
	MinEnergy          float64
	MaxCompactness     int
	FinalFold          lattice.Fold
	MinEnergyFold      lattice.Fold
	MaxCompactnessFold lattice.Fold
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID          string
	CreatedAtUTC   string
	Sequence       string
	Steps          int
	Annealing      bool
	Temperature    float64
	Seed           int64
	FinalEnergy    float64
	MinEnergy      float64
	MaxCompactness int
}

type SeriesRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type SeriesResult struct {
	RunID                 string
	Energy                []float64
	Compactness           []int
	NormalizedCompactness []float64
	Temperature           []float64
}

type SnapshotsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	benchmarksDir := opts.BenchmarksDir
	if benchmarksDir == "" {
		benchmarksDir = defaultBenchmarksDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:         store,
		benchmarksDir: benchmarksDir,
		exportsDir:    exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

// Reset drops all persisted runs and reinitializes the store.
func (c *Client) Reset(ctx context.Context) error {
	if err := c.Init(ctx); err != nil {
		return err
	}
	if resetter, ok := c.store.(storage.Resetter); ok {
		return resetter.Reset(ctx)
	}
	return nil
}

// Run executes one complete folding simulation: construct the protein,
// evolve it for the configured number of Metropolis steps, persist the run
// and write its artifacts.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Steps <= 0 {
		req.Steps = defaultSteps
	}
	if req.Temperature <= 0 {
		req.Temperature = defaultTemperature
	}
	if req.BindingStrength <= 0 {
		req.BindingStrength = 1.0
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	seq, err := hp.Parse(req.Sequence)
	if err != nil {
		return RunSummary{}, err
	}
	initial := foldFromPairs(req.InitialFold)

	protein, err := fold.NewProtein(seq, initial)
	if err != nil {
		return RunSummary{}, err
	}

	rng := rand.New(rand.NewSource(req.Seed))
	controller, err := evolve.New(protein, evolve.Config{
		Steps:           req.Steps,
		Annealing:       req.Annealing,
		Temperature:     req.Temperature,
		BindingStrength: req.BindingStrength,
		Snapshots:       req.Snapshots,
		Rand:            rng,
	})
	if err != nil {
		return RunSummary{}, err
	}

	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}
	if err := controller.Run(ctx); err != nil {
		return RunSummary{}, err
	}

	now := time.Now().UTC()
	runID := fmt.Sprintf("%s-%d-%d", sequencePrefix(seq.String()), req.Seed, now.Unix())
	createdAt := now.Format(time.RFC3339Nano)

	summary := RunSummary{
		RunID:              runID,
		Sequence:           seq.String(),
		Seed:               req.Seed,
		FinalEnergy:        controller.EnergySeries()[req.Steps],
		MinEnergy:          controller.MinEnergy(),
		MaxCompactness:     controller.MaxCompactness(),
		FinalFold:          controller.Fold(),
		MinEnergyFold:      controller.MinEnergyFold(),
		MaxCompactnessFold: controller.MaxCompactnessFold(),
	}

	versioned := model.VersionedRecord{
		SchemaVersion: storage.CurrentSchemaVersion,
		CodecVersion:  storage.CurrentCodecVersion,
	}
	run := model.RunRecord{
		VersionedRecord: versioned,
		ID:              runID,
		Sequence:        seq.String(),
		Steps:           req.Steps,
		Annealing:       req.Annealing,
		Temperature:     req.Temperature,
		Seed:            req.Seed,
		Snapshots:       req.Snapshots,
		CreatedAtUTC:    createdAt,
		FinalEnergy:     summary.FinalEnergy,
		MinEnergy:       summary.MinEnergy,
		MaxCompactness:  summary.MaxCompactness,
		FinalFold:       summary.FinalFold,
		MinEnergyFold:   summary.MinEnergyFold,
		MaxCompactFold:  summary.MaxCompactnessFold,
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveSeries(ctx, runID, model.SeriesRecord{
		VersionedRecord: versioned,
		RunID:           runID,
		Energy:          controller.EnergySeries(),
		Compactness:     controller.CompactnessSeries(),
		Temperature:     controller.TemperatureSeries(),
	}); err != nil {
		return RunSummary{}, err
	}
	if req.Snapshots {
		snapshots := controller.Snapshots()
		records := make([]model.SnapshotRecord, len(snapshots))
		for i, s := range snapshots {
			records[i] = model.SnapshotRecord{VersionedRecord: versioned, Step: s.Step, Fold: s.Fold}
		}
		if err := c.store.SaveSnapshots(ctx, runID, records); err != nil {
			return RunSummary{}, err
		}
	}

	artifacts := stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:       runID,
			Sequence:    seq.String(),
			InputRaw:    req.Sequence,
			Steps:       req.Steps,
			Annealing:   req.Annealing,
			Temperature: req.Temperature,
			Seed:        req.Seed,
			Snapshots:   req.Snapshots,
			LinearStart: initial == nil,
		},
		Energy:             controller.EnergySeries(),
		Compactness:        controller.CompactnessSeries(),
		Temperature:        controller.TemperatureSeries(),
		FinalEnergy:        summary.FinalEnergy,
		MinEnergy:          summary.MinEnergy,
		MaxCompactness:     summary.MaxCompactness,
		FinalFold:          summary.FinalFold,
		MinEnergyFold:      summary.MinEnergyFold,
		MaxCompactnessFold: summary.MaxCompactnessFold,
	}
	for _, s := range controller.Snapshots() {
		artifacts.Snapshots = append(artifacts.Snapshots, stats.FoldSnapshot{Step: s.Step, Fold: s.Fold})
	}

	runDir, err := stats.WriteRunArtifacts(c.benchmarksDir, artifacts)
	if err != nil {
		return RunSummary{}, err
	}
	summary.ArtifactsDir = filepath.Clean(runDir)

	if err := stats.AppendRunIndex(c.benchmarksDir, stats.RunIndexEntry{
		RunID:          runID,
		Sequence:       seq.String(),
		Steps:          req.Steps,
		Annealing:      req.Annealing,
		Temperature:    req.Temperature,
		Seed:           req.Seed,
		FinalEnergy:    summary.FinalEnergy,
		MinEnergy:      summary.MinEnergy,
		MaxCompactness: summary.MaxCompactness,
		CreatedAtUTC:   createdAt,
	}); err != nil {
		return RunSummary{}, err
	}

	return summary, nil
}

func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListRunIndex(c.benchmarksDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:          e.RunID,
			CreatedAtUTC:   e.CreatedAtUTC,
			Sequence:       e.Sequence,
			Steps:          e.Steps,
			Annealing:      e.Annealing,
			Temperature:    e.Temperature,
			Seed:           e.Seed,
			FinalEnergy:    e.FinalEnergy,
			MinEnergy:      e.MinEnergy,
			MaxCompactness: e.MaxCompactness,
		})
	}
	return out, nil
}

func (c *Client) Series(ctx context.Context, req SeriesRequest) (SeriesResult, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return SeriesResult{}, err
	}
	if err := c.Init(ctx); err != nil {
		return SeriesResult{}, err
	}

	series, ok, err := c.store.GetSeries(ctx, runID)
	if err != nil {
		return SeriesResult{}, err
	}
	if !ok {
		return SeriesResult{}, fmt.Errorf("series not found for run id: %s", runID)
	}

	if req.Limit > 0 {
		if len(series.Energy) > req.Limit {
			series.Energy = series.Energy[:req.Limit]
		}
		if len(series.Compactness) > req.Limit {
			series.Compactness = series.Compactness[:req.Limit]
		}
		if len(series.Temperature) > req.Limit {
			series.Temperature = series.Temperature[:req.Limit]
		}
	}

	return SeriesResult{
		RunID:                 runID,
		Energy:                series.Energy,
		Compactness:           series.Compactness,
		NormalizedCompactness: stats.NormalizeCompactness(series.Compactness),
		Temperature:           series.Temperature,
	}, nil
}

func (c *Client) Snapshots(ctx context.Context, req SnapshotsRequest) ([]model.SnapshotRecord, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}

	snapshots, ok, err := c.store.GetSnapshots(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("snapshots not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(snapshots) > req.Limit {
		snapshots = snapshots[:req.Limit]
	}
	return snapshots, nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return ExportSummary{}, err
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	exportedDir, err := stats.ExportRunArtifacts(c.benchmarksDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveRunID(runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if runID != "" {
		return runID, nil
	}
	if !latest {
		return "", errors.New("run id or latest is required")
	}

	entries, err := stats.ListRunIndex(c.benchmarksDir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("no runs available")
	}
	return entries[0].RunID, nil
}

func foldFromPairs(pairs [][2]int) lattice.Fold {
	if pairs == nil {
		return nil
	}
	out := make(lattice.Fold, len(pairs))
	for i, pair := range pairs {
		out[i] = lattice.Coord{X: pair[0], Y: pair[1]}
	}
	return out
}

func sequencePrefix(seq string) string {
	const maxPrefix = 12
	if len(seq) <= maxPrefix {
		return seq
	}
	return seq[:maxPrefix]
}
