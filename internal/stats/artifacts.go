// Package stats writes and reads per-run artifacts under a benchmarks
// directory: the run configuration, time series, best folds and the sparse
// snapshot log, plus a global run index. Plotting tools consume these files;
// none of the rendering lives here.
package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"hpfold/internal/lattice"
)

const runIndexFile = "run_index.json"

// normalizationEpsilon guards the running-max denominator against a
// zero-length interval.
const normalizationEpsilon = 1e-9

type RunConfig struct {
	RunID       string `json:"run_id"`
	Sequence    string `json:"sequence"`
	InputRaw    string `json:"input_raw,omitempty"`
	Steps       int    `json:"steps"`
	Annealing   bool   `json:"annealing"`
	Temperature float64 `json:"temperature"`
	Seed        int64  `json:"seed"`
	Snapshots   bool   `json:"snapshots"`
	LinearStart bool   `json:"linear_start"`
}

type FoldSnapshot struct {
	Step int          `json:"step"`
	Fold lattice.Fold `json:"fold"`
}

type RunArtifacts struct {
	Config             RunConfig      `json:"config"`
	Energy             []float64      `json:"energy"`
	Compactness        []int          `json:"compactness"`
	Temperature        []float64      `json:"temperature"`
	FinalEnergy        float64        `json:"final_energy"`
	MinEnergy          float64        `json:"min_energy"`
	MaxCompactness     int            `json:"max_compactness"`
	FinalFold          lattice.Fold   `json:"final_fold"`
	MinEnergyFold      lattice.Fold   `json:"min_energy_fold"`
	MaxCompactnessFold lattice.Fold   `json:"max_compactness_fold"`
	Snapshots          []FoldSnapshot `json:"snapshots,omitempty"`
}

type RunIndexEntry struct {
	RunID          string  `json:"run_id"`
	Sequence       string  `json:"sequence"`
	Steps          int     `json:"steps"`
	Annealing      bool    `json:"annealing"`
	Temperature    float64 `json:"temperature"`
	Seed           int64   `json:"seed"`
	FinalEnergy    float64 `json:"final_energy"`
	MinEnergy      float64 `json:"min_energy"`
	MaxCompactness int     `json:"max_compactness"`
	CreatedAtUTC   string  `json:"created_at_utc"`
}

func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "series.json"), map[string]any{
		"energy":      artifacts.Energy,
		"compactness": artifacts.Compactness,
		"temperature": artifacts.Temperature,
	}); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "best_folds.json"), map[string]any{
		"final_energy":         artifacts.FinalEnergy,
		"min_energy":           artifacts.MinEnergy,
		"max_compactness":      artifacts.MaxCompactness,
		"final_fold":           artifacts.FinalFold,
		"min_energy_fold":      artifacts.MinEnergyFold,
		"max_compactness_fold": artifacts.MaxCompactnessFold,
	}); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "snapshots.json"), artifacts.Snapshots); err != nil {
		return "", err
	}
	if err := writeSeriesCSV(runDir, artifacts); err != nil {
		return "", err
	}

	return runDir, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	files := []string{"config.json", "series.json", "best_folds.json", "snapshots.json", "series.csv"}
	for _, file := range files {
		srcPath := filepath.Join(src, file)
		if _, err := os.Stat(srcPath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", err
		}
		if err := copyFile(srcPath, filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}

	return dst, nil
}

func ReadRunConfig(baseDir, runID string) (RunConfig, bool, error) {
	path := filepath.Join(baseDir, runID, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return RunConfig{}, false, nil
		}
		return RunConfig{}, false, err
	}

	var cfg RunConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, false, err
	}
	return cfg, true, nil
}

func ReadSnapshots(baseDir, runID string) ([]FoldSnapshot, bool, error) {
	path := filepath.Join(baseDir, runID, "snapshots.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var snapshots []FoldSnapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, false, err
	}
	return snapshots, true, nil
}

// NormalizeCompactness rescales a compactness series by its running maximum
// into [0, 1]. An epsilon keeps the division defined while the running
// maximum is still zero (e.g. a linear fold).
func NormalizeCompactness(series []int) []float64 {
	out := make([]float64, len(series))
	runningMax := 0
	for i, value := range series {
		if value > runningMax {
			runningMax = value
		}
		out[i] = float64(value) / (float64(runningMax) + normalizationEpsilon)
	}
	return out
}

func writeSeriesCSV(runDir string, artifacts RunArtifacts) error {
	path := filepath.Join(runDir, "series.csv")
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"step", "energy", "compactness", "temperature"}); err != nil {
		return err
	}
	for i := range artifacts.Energy {
		record := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(artifacts.Energy[i], 'f', -1, 64),
			"",
			"",
		}
		if i < len(artifacts.Compactness) {
			record[2] = strconv.Itoa(artifacts.Compactness[i])
		}
		if i < len(artifacts.Temperature) {
			record[3] = strconv.FormatFloat(artifacts.Temperature[i], 'f', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
