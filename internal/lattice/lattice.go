package lattice

import "math"

// distanceTolerance absorbs floating-point error when comparing Euclidean
// distances of integer-coordinate points.
const distanceTolerance = 1e-9

// Coord is one site on the 2D integer lattice.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Fold is an ordered sequence of lattice sites, one per monomer.
type Fold []Coord

func (f Fold) Clone() Fold {
	if f == nil {
		return nil
	}
	return append(Fold(nil), f...)
}

// Distance returns the Euclidean distance between two lattice sites.
func Distance(a, b Coord) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// LinearFold places n monomers along the x-axis at (0,0), (1,0), ... (n-1,0).
func LinearFold(n int) Fold {
	fold := make(Fold, n)
	for i := range fold {
		fold[i] = Coord{X: i}
	}
	return fold
}

// IsValidFold reports whether the fold is a self-avoiding walk with unit
// bond lengths: all sites pairwise distinct and every consecutive pair at
// distance exactly 1.
func IsValidFold(fold Fold) bool {
	seen := make(map[Coord]struct{}, len(fold))
	for i, site := range fold {
		if _, occupied := seen[site]; occupied {
			return false
		}
		seen[site] = struct{}{}
		if i < len(fold)-1 {
			if math.Abs(Distance(site, fold[i+1])-1) > distanceTolerance {
				return false
			}
		}
	}
	return true
}

// IndexByCoord builds the site->monomer index map used for O(1) occupancy
// lookups. The fold is assumed self-avoiding.
func IndexByCoord(fold Fold) map[Coord]int {
	index := make(map[Coord]int, len(fold))
	for i, site := range fold {
		index[site] = i
	}
	return index
}
