package lattice

// Transform is one of the seven rigid symmetries of the lattice around the
// origin. The numeric codes match the move-method draw in the pivot move
// generator, so their order is load-bearing for seeded reproducibility.
type Transform int

const (
	RotateCW        Transform = iota + 1 // (x,y) -> (y,-x)
	RotateCCW                            // (x,y) -> (-y,x)
	Rotate180                            // (x,y) -> (-x,-y)
	ReflectX                             // (x,y) -> (x,-y)
	ReflectY                             // (x,y) -> (-x,y)
	ReflectDiag                          // (x,y) -> (-y,-x)
	ReflectAntiDiag                      // (x,y) -> (y,x)
)

// RigidTransformCount is the number of rigid transforms available to every
// pivot move; the diagonal corner flip is a separate, conditional eighth move.
const RigidTransformCount = 7

func (t Transform) String() string {
	switch t {
	case RotateCW:
		return "rotate_cw"
	case RotateCCW:
		return "rotate_ccw"
	case Rotate180:
		return "rotate_180"
	case ReflectX:
		return "reflect_x"
	case ReflectY:
		return "reflect_y"
	case ReflectDiag:
		return "reflect_diag"
	case ReflectAntiDiag:
		return "reflect_antidiag"
	default:
		return "unknown"
	}
}

// Apply maps one site through the transform.
func (t Transform) Apply(c Coord) Coord {
	switch t {
	case RotateCW:
		return Coord{X: c.Y, Y: -c.X}
	case RotateCCW:
		return Coord{X: -c.Y, Y: c.X}
	case Rotate180:
		return Coord{X: -c.X, Y: -c.Y}
	case ReflectX:
		return Coord{X: c.X, Y: -c.Y}
	case ReflectY:
		return Coord{X: -c.X, Y: c.Y}
	case ReflectDiag:
		return Coord{X: -c.Y, Y: -c.X}
	case ReflectAntiDiag:
		return Coord{X: c.Y, Y: c.X}
	default:
		return c
	}
}

// ApplyAll maps every site through the transform, returning a new slice.
func (t Transform) ApplyAll(sites Fold) Fold {
	out := make(Fold, len(sites))
	for i, site := range sites {
		out[i] = t.Apply(site)
	}
	return out
}
