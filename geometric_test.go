package refine

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func apply(t *mat.Dense, v r3.Vec) r3.Vec {
	return r3.Vec{
		X: t.At(0, 0)*v.X + t.At(0, 1)*v.Y + t.At(0, 2)*v.Z + t.At(0, 3),
		Y: t.At(1, 0)*v.X + t.At(1, 1)*v.Y + t.At(1, 2)*v.Z + t.At(1, 3),
		Z: t.At(2, 0)*v.X + t.At(2, 1)*v.Y + t.At(2, 2)*v.Z + t.At(2, 3),
	}
}

func vecClose(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) < tol
}

//Planar quads with known torsions.
func TestDihedralAngle(Te *testing.T) {
	a := r3.Vec{X: 0, Y: 1, Z: 0}
	b := r3.Vec{X: 0, Y: 0, Z: 0}
	c := r3.Vec{X: 1, Y: 0, Z: 0}
	for _, tc := range []struct {
		d    r3.Vec
		want float64
	}{
		{r3.Vec{X: 1, Y: 1, Z: 0}, 0},
		{r3.Vec{X: 1, Y: -1, Z: 0}, math.Pi},
		{r3.Vec{X: 1, Y: 0, Z: 1}, math.Pi / 2},
		{r3.Vec{X: 1, Y: 0, Z: -1}, -math.Pi / 2},
	} {
		got := DihedralAngle(a, b, c, tc.d)
		if math.Abs(got-tc.want) > 1e-12 {
			Te.Errorf("d=%v: got %v, want %v", tc.d, got, tc.want)
		}
	}
}

func TestAngle(Te *testing.T) {
	x := r3.Vec{X: 1}
	y := r3.Vec{Y: 2}
	if a := Angle(x, y); math.Abs(a-math.Pi/2) > 1e-12 {
		Te.Errorf("orthogonal vectors: got %v", a)
	}
	if a := Angle(x, r3.Vec{X: 5}); a != 0 {
		Te.Errorf("parallel vectors: got %v", a)
	}
	anti := Angle(x, r3.Vec{X: -3})
	if math.Abs(anti-math.Pi) > 1e-12 {
		Te.Errorf("antiparallel vectors: got %v", anti)
	}
}

//Wrapping lands in (-pi, pi] with the boundary mapped to +pi.
func TestWrapToPi(Te *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{0.5, 0.5},
	} {
		if got := WrapToPi(tc.in); math.Abs(got-tc.want) > 1e-12 {
			Te.Errorf("wrap(%v): got %v, want %v", tc.in, got, tc.want)
		}
	}
}

//The cylinder transform maps the unit cylinder's end caps onto the
//two input points and scales the cross section to the radius.
func TestBondCylinderTransform(Te *testing.T) {
	c0 := r3.Vec{X: 1, Y: 2, Z: 3}
	c1 := r3.Vec{X: 4, Y: 2, Z: 3}
	t := BondCylinderTransform(c0, c1, 0.25, 1)
	if !vecClose(apply(t, r3.Vec{Z: -0.5}), c0, 1e-9) {
		Te.Errorf("bottom cap lands at %v, want %v", apply(t, r3.Vec{Z: -0.5}), c0)
	}
	if !vecClose(apply(t, r3.Vec{Z: 0.5}), c1, 1e-9) {
		Te.Errorf("top cap lands at %v, want %v", apply(t, r3.Vec{Z: 0.5}), c1)
	}
	mid := apply(t, r3.Vec{})
	if !vecClose(mid, r3.Vec{X: 2.5, Y: 2, Z: 3}, 1e-9) {
		Te.Errorf("center lands at %v", mid)
	}
	rim := apply(t, r3.Vec{X: 1})
	if math.Abs(r3.Norm(r3.Sub(rim, mid))-0.25) > 1e-9 {
		Te.Errorf("cross-section radius: got %v, want 0.25", r3.Norm(r3.Sub(rim, mid)))
	}
	//antiparallel to z exercises the degenerate rotation branch
	down := BondCylinderTransform(r3.Vec{Z: 1}, r3.Vec{Z: -1}, 0.1, 1)
	if !vecClose(apply(down, r3.Vec{Z: -0.5}), r3.Vec{Z: 1}, 1e-9) {
		Te.Error("antiparallel axis maps the bottom cap wrong")
	}
	if !vecClose(apply(down, r3.Vec{Z: 0.5}), r3.Vec{Z: -1}, 1e-9) {
		Te.Error("antiparallel axis maps the top cap wrong")
	}
}

//Length scaling stretches only the axis column.
func TestBondCylinderLengthScale(Te *testing.T) {
	c0 := r3.Vec{}
	c1 := r3.Vec{X: 2}
	t1 := BondCylinderTransform(c0, c1, 0.1, 1)
	t2 := BondCylinderTransform(c0, c1, 0.1, 2)
	for i := 0; i < 3; i++ {
		if math.Abs(t2.At(i, 2)-2*t1.At(i, 2)) > 1e-9 {
			Te.Errorf("axis column row %d not doubled", i)
		}
		if math.Abs(t2.At(i, 3)-t1.At(i, 3)) > 1e-9 {
			Te.Errorf("translation row %d changed by length scaling", i)
		}
	}
}

func TestTransformGL(Te *testing.T) {
	c0 := r3.Vec{X: 1, Y: 2, Z: 3}
	c1 := r3.Vec{X: 1, Y: 2, Z: 7}
	t := BondCylinderTransform(c0, c1, 0.5, 1)
	gl := TransformGL(t)
	//column-major: the translation sits in entries 12..14
	if gl[12] != 1 || gl[13] != 2 || gl[14] != 5 {
		Te.Errorf("translation entries: got %v %v %v", gl[12], gl[13], gl[14])
	}
	if gl[15] != 1 {
		Te.Errorf("homogeneous corner: got %v", gl[15])
	}
}
