package lattice

import (
	"math"
	"testing"
)

func allTransforms() []Transform {
	return []Transform{RotateCW, RotateCCW, Rotate180, ReflectX, ReflectY, ReflectDiag, ReflectAntiDiag}
}

func TestTransformApplyFixtures(t *testing.T) {
	in := Coord{X: 2, Y: 1}
	cases := []struct {
		transform Transform
		want      Coord
	}{
		{RotateCW, Coord{X: 1, Y: -2}},
		{RotateCCW, Coord{X: -1, Y: 2}},
		{Rotate180, Coord{X: -2, Y: -1}},
		{ReflectX, Coord{X: 2, Y: -1}},
		{ReflectY, Coord{X: -2, Y: 1}},
		{ReflectDiag, Coord{X: -1, Y: -2}},
		{ReflectAntiDiag, Coord{X: 1, Y: 2}},
	}
	for _, tc := range cases {
		if got := tc.transform.Apply(in); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.transform, got, tc.want)
		}
	}
}

func TestTransformsAreIsometries(t *testing.T) {
	a := Coord{X: 3, Y: -2}
	b := Coord{X: -1, Y: 4}
	want := Distance(a, b)
	for _, transform := range allTransforms() {
		got := Distance(transform.Apply(a), transform.Apply(b))
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("%s should preserve distances: got %v, want %v", transform, got, want)
		}
	}
}

func TestTransformsFixTheOrigin(t *testing.T) {
	origin := Coord{}
	for _, transform := range allTransforms() {
		if got := transform.Apply(origin); got != origin {
			t.Fatalf("%s should fix the origin, got %v", transform, got)
		}
	}
}

func TestApplyAllPreservesLength(t *testing.T) {
	fold := Fold{{0, 0}, {0, 1}, {1, 1}, {1, 2}}
	for _, transform := range allTransforms() {
		out := transform.ApplyAll(fold)
		if len(out) != len(fold) {
			t.Fatalf("%s changed length: got %d, want %d", transform, len(out), len(fold))
		}
	}
}

func TestTransformString(t *testing.T) {
	if RotateCW.String() != "rotate_cw" {
		t.Fatalf("unexpected name: %s", RotateCW)
	}
	if Transform(0).String() != "unknown" {
		t.Fatalf("zero transform should be unknown, got %s", Transform(0))
	}
}
