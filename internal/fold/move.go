package fold

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"hpfold/internal/lattice"
)

// ErrSearchExhausted is returned when no valid candidate fold could be found
// within the retry budget; the chain geometry is pathological or degenerate.
var ErrSearchExhausted = errors.New("no valid candidate fold found")

// DefaultMaxAttempts bounds the candidate-retry loop of the pivot move.
const DefaultMaxAttempts = 100000

const sqrt2 = math.Sqrt2

// cornerFlipMethod is the conditional eighth move: a local diagonal
// relocation of the pivot monomer, available only when its backbone
// neighbors are diagonally adjacent to each other.
const cornerFlipMethod = lattice.RigidTransformCount + 1

// PivotMove generates candidate folds by applying a random rigid transform
// to the tail segment starting at a random interior pivot, plus the
// conditional corner flip. Every returned fold has passed validation.
//
// The random draws happen in a fixed order per attempt (pivot index, method,
// flip side) so a seeded source reproduces the same walk.
type PivotMove struct {
	Rand        *rand.Rand
	MaxAttempts int
}

func (m *PivotMove) Name() string {
	return "pivot_tail_fold"
}

// Apply produces a validated candidate fold from the protein's current fold.
// The live state is not modified.
func (m *PivotMove) Apply(p *Protein) (lattice.Fold, error) {
	if m == nil || m.Rand == nil {
		return nil, errors.New("random source is required")
	}
	n := p.Len()
	if n < 3 {
		return nil, fmt.Errorf("%w: sequence too short for a pivot move", ErrSearchExhausted)
	}
	maxAttempts := m.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	current := p.fold
	for attempt := 0; attempt < maxAttempts; attempt++ {
		// Endpoints are excluded: a single-monomer tail has no partner
		// to collide with, so pivoting there is a no-op.
		pivot := 1 + m.Rand.Intn(n-2)

		prev := current[pivot-1]
		succ := current[pivot+1]
		flipAllowed := math.Abs(lattice.Distance(prev, succ)-sqrt2) < 1e-9

		var method int
		if flipAllowed {
			method = 1 + m.Rand.Intn(cornerFlipMethod)
		} else {
			method = 1 + m.Rand.Intn(lattice.RigidTransformCount)
		}

		var candidate lattice.Fold
		if method == cornerFlipMethod {
			candidate = cornerFlip(current, pivot, m.Rand)
		} else {
			candidate = transformTail(current, pivot, lattice.Transform(method))
		}

		if lattice.IsValidFold(candidate) {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrSearchExhausted, maxAttempts)
}

// transformTail rotates or reflects fold[pivot:] around the pivot site.
func transformTail(fold lattice.Fold, pivot int, t lattice.Transform) lattice.Fold {
	origin := fold[pivot]
	candidate := make(lattice.Fold, len(fold))
	copy(candidate, fold[:pivot])
	for i := pivot; i < len(fold); i++ {
		shifted := lattice.Coord{X: fold[i].X - origin.X, Y: fold[i].Y - origin.Y}
		moved := t.Apply(shifted)
		candidate[i] = lattice.Coord{X: moved.X + origin.X, Y: moved.Y + origin.Y}
	}
	return candidate
}

// cornerFlip relocates only the pivot monomer to one of the two lattice
// sites simultaneously adjacent to its predecessor and successor. With the
// two diagonally adjacent, those sites are (prev.X, succ.Y) and
// (succ.X, prev.Y); the side is a uniform draw.
func cornerFlip(fold lattice.Fold, pivot int, rng *rand.Rand) lattice.Fold {
	prev := fold[pivot-1]
	succ := fold[pivot+1]
	targets := [2]lattice.Coord{
		{X: prev.X, Y: succ.Y},
		{X: succ.X, Y: prev.Y},
	}
	candidate := fold.Clone()
	candidate[pivot] = targets[rng.Intn(2)]
	return candidate
}
