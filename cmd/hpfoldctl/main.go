package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"hpfold/internal/storage"
	foldapi "hpfold/pkg/hpfold"
)

const (
	benchmarksDir = "benchmarks"
	exportsDir    = "exports"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "series":
		return runSeries(ctx, args[1:])
	case "snapshots":
		return runSnapshots(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: hpfoldctl <init|reset|run|runs|series|snapshots|export> [flags]", msg)
}

func newClient(storeKind, dbPath string) (*foldapi.Client, error) {
	return foldapi.New(foldapi.Options{
		StoreKind:     storeKind,
		DBPath:        dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "hpfold.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "hpfold.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Reset(ctx); err != nil {
		return err
	}

	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config YAML path")
	sequence := fs.String("sequence", "", "protein sequence: H/P or one-letter amino acids")
	steps := fs.Int("steps", 0, "folding step count (0 uses default)")
	annealing := fs.Bool("annealing", false, "cool temperature linearly over the run")
	temperature := fs.Float64("temperature", 0, "starting temperature (0 uses default)")
	bindingStrength := fs.Float64("binding-strength", 0, "H-H contact energy magnitude (0 uses default)")
	snapshots := fs.Bool("snapshots", false, "record sparse fold snapshots of accepted moves")
	seed := fs.Int64("seed", 0, "rng seed (0 derives from current time)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "hpfold.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}
	overrideFromFlags(&req, setFlags, map[string]any{
		"sequence":         *sequence,
		"steps":            *steps,
		"annealing":        *annealing,
		"temperature":      *temperature,
		"binding-strength": *bindingStrength,
		"snapshots":        *snapshots,
		"seed":             *seed,
	})
	if req.Sequence == "" {
		return errors.New("run requires a sequence (flag or config)")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	fmt.Printf("starting sequence=%s steps=%d annealing=%t temperature=%g snapshots=%t seed=%d\n",
		req.Sequence, req.Steps, req.Annealing, req.Temperature, req.Snapshots, req.Seed)

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("run completed run_id=%s sequence=%s seed=%d\n", summary.RunID, summary.Sequence, summary.Seed)
	fmt.Printf("final_energy=%.6f min_energy=%.6f max_compactness=%d\n",
		summary.FinalEnergy, summary.MinEnergy, summary.MaxCompactness)
	fmt.Printf("artifacts_dir=%s\n", summary.ArtifactsDir)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := newClient("", "")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, foldapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	for _, item := range items {
		fmt.Printf("run_id=%s created_at=%s sequence=%s steps=%d annealing=%t temperature=%g seed=%d final_energy=%.6f min_energy=%.6f max_compactness=%d\n",
			item.RunID,
			item.CreatedAtUTC,
			item.Sequence,
			item.Steps,
			item.Annealing,
			item.Temperature,
			item.Seed,
			item.FinalEnergy,
			item.MinEnergy,
			item.MaxCompactness,
		)
	}
	return nil
}

func runSeries(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("series", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show series for the most recent run from run index")
	limit := fs.Int("limit", 50, "max steps to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit series as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "hpfold.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	series, err := client.Series(ctx, foldapi.SeriesRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(series)
	}

	for i := range series.Energy {
		temperatureDisplay := "n/a"
		if i < len(series.Temperature) {
			temperatureDisplay = fmt.Sprintf("%.6f", series.Temperature[i])
		}
		compactnessDisplay := "n/a"
		normalizedDisplay := "n/a"
		if i < len(series.Compactness) {
			compactnessDisplay = fmt.Sprintf("%d", series.Compactness[i])
			normalizedDisplay = fmt.Sprintf("%.6f", series.NormalizedCompactness[i])
		}
		fmt.Printf("step=%d energy=%.6f compactness=%s normalized_compactness=%s temperature=%s\n",
			i, series.Energy[i], compactnessDisplay, normalizedDisplay, temperatureDisplay)
	}
	return nil
}

func runSnapshots(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("snapshots", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show snapshots for the most recent run from run index")
	limit := fs.Int("limit", 50, "max snapshots to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit snapshots as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "hpfold.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	snapshots, err := client.Snapshots(ctx, foldapi.SnapshotsRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Println("no snapshots")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshots)
	}

	for _, s := range snapshots {
		fmt.Printf("step=%d fold=%v\n", s.Step, s.Fold)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run from run index")
	outDir := fs.String("out", exportsDir, "destination directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient("", "")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Export(ctx, foldapi.ExportRequest{
		RunID:  *runID,
		Latest: *latest,
		OutDir: *outDir,
	})
	if err != nil {
		return err
	}

	fmt.Printf("exported run_id=%s dir=%s\n", summary.RunID, summary.Directory)
	return nil
}
