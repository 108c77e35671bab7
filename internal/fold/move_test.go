package fold

import (
	"math/rand"
	"testing"

	"hpfold/internal/hp"
	"hpfold/internal/lattice"
)

func TestPivotMoveProducesValidFolds(t *testing.T) {
	p, err := NewProtein(benchSequence, compactFold())
	if err != nil {
		t.Fatalf("new protein: %v", err)
	}
	move := &PivotMove{Rand: rand.New(rand.NewSource(1))}

	for i := 0; i < 1000; i++ {
		candidate, err := move.Apply(p)
		if err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		if len(candidate) != p.Len() {
			t.Fatalf("move %d changed length: got %d, want %d", i, len(candidate), p.Len())
		}
		if !lattice.IsValidFold(candidate) {
			t.Fatalf("move %d produced invalid fold: %v", i, candidate)
		}
		if err := p.SetFold(candidate); err != nil {
			t.Fatalf("move %d: set fold: %v", i, err)
		}
	}
}

func TestPivotMoveFromLinearStart(t *testing.T) {
	p, err := NewProtein(hp.Sequence("HPHPHPHPHPHHHHHPPHPHPHPPHHPPPPHHPP"), nil)
	if err != nil {
		t.Fatalf("new protein: %v", err)
	}
	move := &PivotMove{Rand: rand.New(rand.NewSource(7))}

	for i := 0; i < 1000; i++ {
		candidate, err := move.Apply(p)
		if err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		if !lattice.IsValidFold(candidate) {
			t.Fatalf("move %d produced invalid fold", i)
		}
		if err := p.SetFold(candidate); err != nil {
			t.Fatalf("move %d: set fold: %v", i, err)
		}
	}
}

func TestPivotMoveIsDeterministicPerSeed(t *testing.T) {
	first, err := NewProtein(benchSequence, nil)
	if err != nil {
		t.Fatalf("new protein: %v", err)
	}
	second, err := NewProtein(benchSequence, nil)
	if err != nil {
		t.Fatalf("new protein: %v", err)
	}

	moveA := &PivotMove{Rand: rand.New(rand.NewSource(42))}
	moveB := &PivotMove{Rand: rand.New(rand.NewSource(42))}
	for i := 0; i < 50; i++ {
		a, err := moveA.Apply(first)
		if err != nil {
			t.Fatalf("move A %d: %v", i, err)
		}
		b, err := moveB.Apply(second)
		if err != nil {
			t.Fatalf("move B %d: %v", i, err)
		}
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("step %d diverged at monomer %d: %v vs %v", i, j, a[j], b[j])
			}
		}
		if err := first.SetFold(a); err != nil {
			t.Fatalf("set fold A: %v", err)
		}
		if err := second.SetFold(b); err != nil {
			t.Fatalf("set fold B: %v", err)
		}
	}
}

func TestPivotMoveLeavesHeadInPlace(t *testing.T) {
	p, err := NewProtein(benchSequence, compactFold())
	if err != nil {
		t.Fatalf("new protein: %v", err)
	}
	move := &PivotMove{Rand: rand.New(rand.NewSource(3))}

	before := p.Fold()
	candidate, err := move.Apply(p)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if candidate[0] != before[0] {
		t.Fatalf("first monomer moved: %v -> %v", before[0], candidate[0])
	}
	// Apply must not touch the live state.
	after := p.Fold()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("apply mutated live fold at %d", i)
		}
	}
}

func TestPivotMoveRequiresRandomSource(t *testing.T) {
	p, err := NewProtein(benchSequence, nil)
	if err != nil {
		t.Fatalf("new protein: %v", err)
	}
	move := &PivotMove{}
	if _, err := move.Apply(p); err == nil {
		t.Fatal("expected error without random source")
	}
}

func TestPivotMoveNonPositiveBudgetUsesDefault(t *testing.T) {
	p, err := NewProtein(benchSequence, nil)
	if err != nil {
		t.Fatalf("new protein: %v", err)
	}
	move := &PivotMove{Rand: rand.New(rand.NewSource(1)), MaxAttempts: -1}
	if _, err := move.Apply(p); err != nil {
		t.Fatalf("negative budget should fall back to default: %v", err)
	}
}

func TestPivotMoveName(t *testing.T) {
	move := &PivotMove{}
	if move.Name() != "pivot_tail_fold" {
		t.Fatalf("unexpected name %q", move.Name())
	}
}
