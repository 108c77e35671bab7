package lattice

import (
	"math"
	"testing"
)

var validFolds = []Fold{
	{{0, 0}, {0, 1}, {1, 1}, {1, 2}, {1, 3}, {2, 3}, {2, 2}, {2, 1}, {2, 0}, {2, -1}, {1, -1}, {0, -1}, {-1, -1}},
	{{0, 0}, {0, 1}, {1, 1}, {1, 2}, {1, 3}, {2, 3}, {2, 2}, {2, 1}, {2, 0}, {2, -1}, {2, -2}, {2, -3}, {2, -4}},
	{{0, 0}, {0, 1}, {1, 1}, {1, 2}, {1, 3}, {2, 3}},
	{{0, 0}, {1, 0}, {1, 1}, {1, 2}, {1, 3}, {2, 3}},
	{{0, 0}, {0, -1}, {1, -1}, {1, -2}, {1, -3}, {2, -3}},
	{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}, {2, 3}},
	{{0, 0}, {-1, 0}, {-1, 1}, {-1, 2}, {-1, 3}, {-2, 3}},
	{{0, 0}, {1, 0}, {1, 1}, {1, 2}, {1, 3}},
	{{0, 0}, {0, -1}, {1, -1}, {1, -2}, {1, -3}},
	{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {-1, 0}, {-1, 1}},
	{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	{{0, 0}, {0, -1}, {1, -1}, {1, -2}},
	{{0, 0}, {1, 0}, {2, 0}, {2, 1}},
}

var invalidFolds = []Fold{
	{{0, 0}, {0, 0}, {0, 1}, {0, 2}, {0, 3}, {1, 3}},
	{{0, 0}, {1, 1}, {1, 2}, {1, 3}, {2, 3}},
	{{0, 0}, {1, -1}, {1, -2}, {1, -3}, {2, -3}},
	{{0, 0}, {1, 0}, {3, 0}, {2, 1}, {2, 2}, {2, 3}},
	{{0, 0}, {-1, 0}, {-1, 1}, {-1, 2}, {-1, 1}, {0, 1}},
	{{0, 0}, {1, -1}, {1, -2}, {1, -3}},
	{{0, 0}, {1, 0}, {3, 0}, {2, 1}, {2, 3}},
}

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b Coord
		want float64
	}{
		{Coord{1, 1}, Coord{1, 1}, 0},
		{Coord{1, 1}, Coord{2, 1}, 1},
		{Coord{1, 1}, Coord{3, 1}, 2},
		{Coord{0, 0}, Coord{1, 1}, math.Sqrt2},
		{Coord{-1, 1}, Coord{1, 3}, 2 * math.Sqrt2},
	}
	for _, tc := range cases {
		got := Distance(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("distance %v-%v: got %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestLinearFold(t *testing.T) {
	fold := LinearFold(5)
	if len(fold) != 5 {
		t.Fatalf("expected 5 sites, got %d", len(fold))
	}
	for i, site := range fold {
		if site.X != i || site.Y != 0 {
			t.Fatalf("site %d: got %v, want (%d,0)", i, site, i)
		}
	}
	if !IsValidFold(fold) {
		t.Fatal("linear fold should be valid")
	}
}

func TestIsValidFoldAcceptsSelfAvoidingWalks(t *testing.T) {
	for i, fold := range validFolds {
		if !IsValidFold(fold) {
			t.Fatalf("fold %d should be valid: %v", i, fold)
		}
	}
}

func TestIsValidFoldRejectsBrokenWalks(t *testing.T) {
	for i, fold := range invalidFolds {
		if IsValidFold(fold) {
			t.Fatalf("fold %d should be invalid: %v", i, fold)
		}
	}
}

func TestIndexByCoord(t *testing.T) {
	fold := validFolds[0]
	index := IndexByCoord(fold)
	if len(index) != len(fold) {
		t.Fatalf("index size %d, want %d", len(index), len(fold))
	}
	for i, site := range fold {
		if got := index[site]; got != i {
			t.Fatalf("index[%v] = %d, want %d", site, got, i)
		}
	}
}

func TestFoldClone(t *testing.T) {
	fold := validFolds[2].Clone()
	clone := fold.Clone()
	clone[0] = Coord{X: 99, Y: 99}
	if fold[0] == clone[0] {
		t.Fatal("clone should not share backing storage")
	}
	if Fold(nil).Clone() != nil {
		t.Fatal("nil clone should stay nil")
	}
}
