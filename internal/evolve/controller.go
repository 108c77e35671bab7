// Package evolve drives the Metropolis Monte-Carlo search over protein
// folds: one sequential Markov chain, optional simulated annealing, extrema
// tracking and sparse fold snapshots.
package evolve

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"hpfold/internal/fold"
	"hpfold/internal/lattice"
)

type Phase string

const (
	PhaseInitialized Phase = "initialized"
	PhaseRunning     Phase = "running"
	PhaseCompleted   Phase = "completed"
)

// TemperatureFloor is the smallest temperature the Metropolis formula is
// evaluated at; annealing never cools below it, keeping exp(-dE/T) finite.
const TemperatureFloor = 0.002

// SamplePolicy decides which accepted steps are recorded in the snapshot
// log. The controller calls it but does not own the cadence.
type SamplePolicy func(step int) bool

// DefaultSamplePolicy keeps every one of the first ten steps and then every
// steps/100-th step.
func DefaultSamplePolicy(steps int) SamplePolicy {
	interval := steps / 100
	if interval < 1 {
		interval = 1
	}
	return func(step int) bool {
		return step < 10 || step%interval == 0
	}
}

// Snapshot is one sparse (step, fold) entry of the snapshot log.
type Snapshot struct {
	Step int          `json:"step"`
	Fold lattice.Fold `json:"fold"`
}

type Config struct {
	Steps           int
	Annealing       bool
	Temperature     float64
	BindingStrength float64
	Snapshots       bool
	SamplePolicy    SamplePolicy
	Rand            *rand.Rand
}

// Controller owns a Protein for the duration of one run and mutates it step
// by step under the Metropolis rule. Time series carry one entry per step
// plus the initial state at index 0.
type Controller struct {
	protein *fold.Protein
	move    *fold.PivotMove
	cfg     Config
	phase   Phase

	minEnergy          float64
	maxCompactness     int
	minEnergyFold      lattice.Fold
	maxCompactnessFold lattice.Fold

	energySeries      []float64
	compactnessSeries []int
	temperatureSeries []float64
	snapshots         []Snapshot
}

// New validates the configuration and seeds the tracking series with the
// initial state.
func New(protein *fold.Protein, cfg Config) (*Controller, error) {
	if protein == nil {
		return nil, errors.New("protein is required")
	}
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("step count must be > 0, got %d", cfg.Steps)
	}
	if cfg.Temperature <= 0 {
		return nil, fmt.Errorf("starting temperature must be > 0, got %g", cfg.Temperature)
	}
	if cfg.Rand == nil {
		return nil, errors.New("random source is required")
	}
	if cfg.BindingStrength == 0 {
		cfg.BindingStrength = 1.0
	}
	if cfg.SamplePolicy == nil {
		cfg.SamplePolicy = DefaultSamplePolicy(cfg.Steps)
	}

	c := &Controller{
		protein: protein,
		move:    &fold.PivotMove{Rand: cfg.Rand},
		cfg:     cfg,
		phase:   PhaseInitialized,
	}

	energy := protein.Energy(cfg.BindingStrength)
	compactness := protein.Compactness()
	c.minEnergy = energy
	c.maxCompactness = compactness
	c.minEnergyFold = protein.Fold()
	c.maxCompactnessFold = protein.Fold()
	c.energySeries = append(c.energySeries, energy)
	c.compactnessSeries = append(c.compactnessSeries, compactness)
	c.temperatureSeries = append(c.temperatureSeries, cfg.Temperature)
	return c, nil
}

// Run executes exactly cfg.Steps Metropolis steps and leaves the controller
// in the completed phase. The run is not cancellable once started; the
// context is only consulted before the first step.
func (c *Controller) Run(ctx context.Context) error {
	if c.phase != PhaseInitialized {
		return fmt.Errorf("run already %s", c.phase)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.phase = PhaseRunning

	temperature := c.cfg.Temperature
	for step := 0; step < c.cfg.Steps; step++ {
		if c.cfg.Annealing {
			temperature = c.cfg.Temperature * (1 - float64(step)/float64(c.cfg.Steps))
			if temperature < TemperatureFloor {
				temperature = TemperatureFloor
			}
		}
		if err := c.step(temperature, step); err != nil {
			return err
		}
		c.temperatureSeries = append(c.temperatureSeries, temperature)
	}

	c.phase = PhaseCompleted
	return nil
}

func (c *Controller) step(temperature float64, step int) error {
	currentEnergy := c.protein.Energy(c.cfg.BindingStrength)

	candidate, err := c.move.Apply(c.protein)
	if err != nil {
		return err
	}
	candidateEnergy, _ := c.protein.EvaluateFold(candidate, c.cfg.BindingStrength)

	accepted := candidateEnergy < currentEnergy
	if !accepted {
		r := c.cfg.Rand.Float64()
		accepted = r < math.Exp(-(candidateEnergy-currentEnergy)/temperature)
	}

	energy := currentEnergy
	if accepted {
		if err := c.protein.SetFold(candidate); err != nil {
			return err
		}
		energy = candidateEnergy
	}

	c.energySeries = append(c.energySeries, energy)
	if energy < c.minEnergy {
		c.minEnergy = energy
		c.minEnergyFold = c.protein.Fold()
	}

	compactness := c.protein.Compactness()
	c.compactnessSeries = append(c.compactnessSeries, compactness)
	if compactness > c.maxCompactness {
		c.maxCompactness = compactness
		c.maxCompactnessFold = c.protein.Fold()
	}

	if c.cfg.Snapshots && accepted && c.cfg.SamplePolicy(step) {
		c.snapshots = append(c.snapshots, Snapshot{Step: step, Fold: c.protein.Fold()})
	}
	return nil
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// Fold returns a copy of the live fold.
func (c *Controller) Fold() lattice.Fold {
	return c.protein.Fold()
}

func (c *Controller) MinEnergy() float64 {
	return c.minEnergy
}

func (c *Controller) MaxCompactness() int {
	return c.maxCompactness
}

// MinEnergyFold returns a copy of the lowest-energy fold seen so far.
func (c *Controller) MinEnergyFold() lattice.Fold {
	return c.minEnergyFold.Clone()
}

// MaxCompactnessFold returns a copy of the most compact fold seen so far.
func (c *Controller) MaxCompactnessFold() lattice.Fold {
	return c.maxCompactnessFold.Clone()
}

func (c *Controller) EnergySeries() []float64 {
	return append([]float64(nil), c.energySeries...)
}

func (c *Controller) CompactnessSeries() []int {
	return append([]int(nil), c.compactnessSeries...)
}

func (c *Controller) TemperatureSeries() []float64 {
	return append([]float64(nil), c.temperatureSeries...)
}

// Snapshots returns the sparse accepted-fold log; empty unless snapshotting
// was enabled.
func (c *Controller) Snapshots() []Snapshot {
	out := make([]Snapshot, len(c.snapshots))
	for i, s := range c.snapshots {
		out[i] = Snapshot{Step: s.Step, Fold: s.Fold.Clone()}
	}
	return out
}
