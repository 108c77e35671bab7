package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	foldapi "hpfold/pkg/hpfold"
)

// runConfig is the YAML run configuration. Structure coordinates are
// optional; when use_structure is false the run starts from a linear fold.
type runConfig struct {
	Sequence  string `yaml:"sequence"`
	Structure struct {
		UseStructure bool     `yaml:"use_structure"`
		Coordinates  [][2]int `yaml:"coordinates"`
	} `yaml:"structure"`
	Simulation struct {
		FoldingSteps    int     `yaml:"folding_steps"`
		Annealing       bool    `yaml:"annealing"`
		Temperature     float64 `yaml:"temperature"`
		BindingStrength float64 `yaml:"binding_strength"`
	} `yaml:"simulation"`
	Snapshot struct {
		Enable bool `yaml:"enable"`
	} `yaml:"snapshot"`
	Seed int64 `yaml:"seed"`
}

func loadRunRequestFromConfig(path string) (foldapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return foldapi.RunRequest{}, err
	}

	var cfg runConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return foldapi.RunRequest{}, err
	}

	req := foldapi.RunRequest{
		Sequence:        cfg.Sequence,
		Steps:           cfg.Simulation.FoldingSteps,
		Annealing:       cfg.Simulation.Annealing,
		Temperature:     cfg.Simulation.Temperature,
		BindingStrength: cfg.Simulation.BindingStrength,
		Snapshots:       cfg.Snapshot.Enable,
		Seed:            cfg.Seed,
	}
	if cfg.Structure.UseStructure {
		req.InitialFold = cfg.Structure.Coordinates
	}
	return req, nil
}

func loadOrDefaultRunRequest(configPath string) (foldapi.RunRequest, error) {
	if configPath == "" {
		return foldapi.RunRequest{}, nil
	}
	req, err := loadRunRequestFromConfig(configPath)
	if err != nil {
		return foldapi.RunRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}

func overrideFromFlags(req *foldapi.RunRequest, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "sequence":
			req.Sequence = v.(string)
		case "steps":
			req.Steps = v.(int)
		case "annealing":
			req.Annealing = v.(bool)
		case "temperature":
			req.Temperature = v.(float64)
		case "binding-strength":
			req.BindingStrength = v.(float64)
		case "snapshots":
			req.Snapshots = v.(bool)
		case "seed":
			req.Seed = v.(int64)
		}
	}
}
