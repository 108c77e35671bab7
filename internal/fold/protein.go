// Package fold holds the live folding state of a protein on the 2D lattice
// and the evaluators and move generator that operate on it.
package fold

import (
	"errors"
	"fmt"

	"hpfold/internal/hp"
	"hpfold/internal/lattice"
)

var (
	ErrLengthMismatch = errors.New("sequence and fold lengths do not match")
	ErrInvalidFold    = errors.New("fold is not a self-avoiding walk with unit bonds")
)

// Protein owns one sequence and its current fold, plus the site->index map
// that keeps occupancy lookups O(1). The fold invariant (self-avoiding walk,
// unit bonds) holds at every observable point: every assignment goes through
// SetFold, which rejects invalid candidates.
type Protein struct {
	seq   hp.Sequence
	fold  lattice.Fold
	index map[lattice.Coord]int
}

// NewProtein builds a protein from a sequence and an optional initial fold.
// A nil fold yields the linear fold (i, 0). A supplied fold must match the
// sequence length and pass validation.
func NewProtein(seq hp.Sequence, initial lattice.Fold) (*Protein, error) {
	if seq.Len() < hp.MinLength {
		return nil, fmt.Errorf("%w: got %d", hp.ErrSequenceTooShort, seq.Len())
	}
	fold := initial
	if fold == nil {
		fold = lattice.LinearFold(seq.Len())
	}
	if len(fold) != seq.Len() {
		return nil, fmt.Errorf("%w: sequence %d, fold %d", ErrLengthMismatch, seq.Len(), len(fold))
	}
	if !lattice.IsValidFold(fold) {
		return nil, ErrInvalidFold
	}
	return &Protein{
		seq:   seq,
		fold:  fold.Clone(),
		index: lattice.IndexByCoord(fold),
	}, nil
}

func (p *Protein) Sequence() hp.Sequence {
	return p.seq
}

func (p *Protein) Len() int {
	return p.seq.Len()
}

// Fold returns a copy of the current fold.
func (p *Protein) Fold() lattice.Fold {
	return p.fold.Clone()
}

// SetFold adopts a new fold as the live state, rebuilding the occupancy
// index. The candidate is re-checked so an invalid fold can never become
// observable.
func (p *Protein) SetFold(fold lattice.Fold) error {
	if len(fold) != p.seq.Len() {
		return fmt.Errorf("%w: sequence %d, fold %d", ErrLengthMismatch, p.seq.Len(), len(fold))
	}
	if !lattice.IsValidFold(fold) {
		return ErrInvalidFold
	}
	p.fold = fold.Clone()
	p.index = lattice.IndexByCoord(p.fold)
	return nil
}

// NeighborsOf returns the residues occupying the four lattice-adjacent sites
// of monomer i, excluding its backbone predecessor and successor.
func (p *Protein) NeighborsOf(i int) []byte {
	return neighborsOf(p.seq, p.fold, p.index, i)
}

// Energy is the HP contact energy of the live fold:
// -bindingStrength * (H-H contacts). Always <= 0.
func (p *Protein) Energy(bindingStrength float64) float64 {
	return energyOf(p.seq, p.fold, p.index, bindingStrength)
}

// Compactness counts all non-backbone adjacent monomer pairs, each pair seen
// from both endpoints. Always >= 0.
func (p *Protein) Compactness() int {
	return compactnessOf(p.seq, p.fold, p.index)
}

// EvaluateFold computes energy and compactness for a candidate fold without
// touching the live state.
func (p *Protein) EvaluateFold(fold lattice.Fold, bindingStrength float64) (energy float64, compactness int) {
	index := lattice.IndexByCoord(fold)
	return energyOf(p.seq, fold, index, bindingStrength), compactnessOf(p.seq, fold, index)
}

func neighborsOf(seq hp.Sequence, fold lattice.Fold, index map[lattice.Coord]int, i int) []byte {
	site := fold[i]
	adjacent := [4]lattice.Coord{
		{X: site.X - 1, Y: site.Y},
		{X: site.X + 1, Y: site.Y},
		{X: site.X, Y: site.Y - 1},
		{X: site.X, Y: site.Y + 1},
	}
	var out []byte
	for _, cell := range adjacent {
		j, occupied := index[cell]
		if !occupied || j == i-1 || j == i+1 {
			continue
		}
		out = append(out, seq.String()[j])
	}
	return out
}

func energyOf(seq hp.Sequence, fold lattice.Fold, index map[lattice.Coord]int, bindingStrength float64) float64 {
	contacts := 0
	for i := 0; i < seq.Len(); i++ {
		if !seq.IsHydrophobic(i) {
			continue
		}
		for _, residue := range neighborsOf(seq, fold, index, i) {
			if residue == hp.Hydrophobic {
				contacts++
			}
		}
	}
	// Each H-H contact is seen from both endpoints.
	return -bindingStrength * float64(contacts) / 2
}

func compactnessOf(seq hp.Sequence, fold lattice.Fold, index map[lattice.Coord]int) int {
	total := 0
	for i := 0; i < seq.Len(); i++ {
		total += len(neighborsOf(seq, fold, index, i))
	}
	return total
}
