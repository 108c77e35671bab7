package main

import (
	"os"
	"path/filepath"
	"testing"
)

const configFixture = `sequence: HPPHHPHPHPHHP
structure:
  use_structure: true
  coordinates:
    - [0, 0]
    - [0, 1]
    - [1, 1]
simulation:
  folding_steps: 5000
  annealing: true
  temperature: 1.5
  binding_strength: 2.0
snapshot:
  enable: true
seed: 123
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRunRequestFromConfig(t *testing.T) {
	req, err := loadRunRequestFromConfig(writeConfig(t, configFixture))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if req.Sequence != "HPPHHPHPHPHHP" {
		t.Fatalf("sequence %q", req.Sequence)
	}
	if req.Steps != 5000 || !req.Annealing || req.Temperature != 1.5 || req.BindingStrength != 2.0 {
		t.Fatalf("simulation config mismatch: %+v", req)
	}
	if !req.Snapshots || req.Seed != 123 {
		t.Fatalf("snapshot/seed mismatch: %+v", req)
	}
	if len(req.InitialFold) != 3 || req.InitialFold[2] != [2]int{1, 1} {
		t.Fatalf("initial fold mismatch: %v", req.InitialFold)
	}
}

func TestLoadRunRequestIgnoresStructureWhenDisabled(t *testing.T) {
	const fixture = `sequence: HPPH
structure:
  use_structure: false
  coordinates:
    - [0, 0]
    - [0, 1]
simulation:
  folding_steps: 10
`
	req, err := loadRunRequestFromConfig(writeConfig(t, fixture))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if req.InitialFold != nil {
		t.Fatalf("initial fold should be nil, got %v", req.InitialFold)
	}
}

func TestLoadOrDefaultRunRequest(t *testing.T) {
	req, err := loadOrDefaultRunRequest("")
	if err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if req.Sequence != "" {
		t.Fatalf("expected zero request, got %+v", req)
	}

	if _, err := loadOrDefaultRunRequest(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOverrideFromFlags(t *testing.T) {
	req, err := loadRunRequestFromConfig(writeConfig(t, configFixture))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	overrideFromFlags(&req, map[string]bool{"steps": true, "seed": true}, map[string]any{
		"steps": 99,
		"seed":  int64(7),
	})

	if req.Steps != 99 || req.Seed != 7 {
		t.Fatalf("overrides not applied: %+v", req)
	}
	if req.Sequence != "HPPHHPHPHPHHP" || req.Temperature != 1.5 {
		t.Fatalf("unset fields should keep config values: %+v", req)
	}
}
