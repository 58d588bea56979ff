//Package interp implements multilinear interpolation on regularly
//spaced N-dimensional grids. It is the numerical core behind the
//validation tables: a contour value is looked up by interpolating the
//precomputed probability grid at a residue's dihedral angles.
package interp

import (
	"fmt"

	"github.com/kaldera-bio/refine"
)

//RegularGridInterpolator performs multilinear interpolation of values
//tabulated on a regular grid with uniform per-axis spacing. It is
//read-only after construction and safe for concurrent use.
type RegularGridInterpolator struct {
	dim     int
	n       []int
	min     []float64
	max     []float64
	step    []float64
	jump    []int
	corners []int
	values  []float64
}

//New builds an interpolator over a dense grid. n gives the number of
//grid points per axis (at least 2 each), min and max the coordinates
//of the first and last point per axis, and values the grid data in
//row-major order (the last axis varies fastest). The length of values
//must be the product of n.
func New(n []int, min, max []float64, values []float64) (*RegularGridInterpolator, error) {
	dim := len(n)
	if dim < 1 {
		return nil, refine.NewConfigError("interpolator needs at least one axis", "interp.New")
	}
	if len(min) != dim || len(max) != dim {
		return nil, refine.NewConfigError("axis bounds must match the number of axes", "interp.New")
	}
	size := 1
	for i := 0; i < dim; i++ {
		if n[i] < 2 {
			return nil, refine.NewConfigError(fmt.Sprintf("axis %d needs at least 2 points", i), "interp.New")
		}
		if max[i] <= min[i] {
			return nil, refine.NewConfigError(fmt.Sprintf("axis %d: max must exceed min", i), "interp.New")
		}
		size *= n[i]
	}
	if len(values) != size {
		return nil, refine.NewConfigError(fmt.Sprintf("grid needs %d values, got %d", size, len(values)),
			"interp.New")
	}
	R := &RegularGridInterpolator{
		dim:    dim,
		n:      append([]int{}, n...),
		min:    append([]float64{}, min...),
		max:    append([]float64{}, max...),
		step:   make([]float64, dim),
		jump:   make([]int, dim),
		values: append([]float64{}, values...),
	}
	for i := 0; i < dim; i++ {
		R.step[i] = (max[i] - min[i]) / float64(n[i]-1)
	}
	R.jump[dim-1] = 1
	for i := dim - 2; i >= 0; i-- {
		R.jump[i] = R.jump[i+1] * n[i+1]
	}
	//offsets of the 2^dim cell corners relative to the lower corner,
	//with axis 0 in the most significant bit
	R.corners = make([]int, 1<<dim)
	for c := range R.corners {
		off := 0
		for axis := 0; axis < dim; axis++ {
			if c>>(dim-1-axis)&1 == 1 {
				off += R.jump[axis]
			}
		}
		R.corners[c] = off
	}
	return R, nil
}

//NewSparse builds an interpolator from scattered grid entries: every
//grid point not named in indices holds zero. Each row of indices is a
//full set of per-axis grid indices for the matching entry of vals.
//Duplicate indices are allowed, the last value wins.
func NewSparse(n []int, min, max []float64, indices [][]int, vals []float64) (*RegularGridInterpolator, error) {
	if len(indices) != len(vals) {
		return nil, refine.NewConfigError("each index row needs exactly one value", "interp.NewSparse")
	}
	size := 1
	for _, ni := range n {
		size *= ni
	}
	dense := make([]float64, size)
	R, err := New(n, min, max, dense)
	if err != nil {
		return nil, err
	}
	for i, idx := range indices {
		if len(idx) != R.dim {
			return nil, refine.NewConfigError(fmt.Sprintf("index row %d has %d entries, need %d",
				i, len(idx), R.dim), "interp.NewSparse")
		}
		flat := 0
		for axis, j := range idx {
			if j < 0 || j >= n[axis] {
				return nil, refine.NewConfigError(fmt.Sprintf("index row %d out of range on axis %d",
					i, axis), "interp.NewSparse")
			}
			flat += j * R.jump[axis]
		}
		R.values[flat] = vals[i]
	}
	return R, nil
}

//Dim returns the number of axes.
func (R *RegularGridInterpolator) Dim() int { return R.dim }

//Lengths returns the number of grid points per axis.
func (R *RegularGridInterpolator) Lengths() []int { return append([]int{}, R.n...) }

//Min returns the lower grid bound per axis.
func (R *RegularGridInterpolator) Min() []float64 { return append([]float64{}, R.min...) }

//Max returns the upper grid bound per axis.
func (R *RegularGridInterpolator) Max() []float64 { return append([]float64{}, R.max...) }

//Step returns the grid spacing per axis.
func (R *RegularGridInterpolator) Step() []float64 { return append([]float64{}, R.step...) }

//Values returns a copy of the grid data in row-major order.
func (R *RegularGridInterpolator) Values() []float64 { return append([]float64{}, R.values...) }

//Interpolate returns the multilinear interpolation of the grid at the
//given point. Coordinates outside the grid are clamped to its edges.
func (R *RegularGridInterpolator) Interpolate(point []float64) (float64, error) {
	if len(point) != R.dim {
		return 0, refine.NewConfigError(fmt.Sprintf("point has %d coordinates, grid has %d axes",
			len(point), R.dim), "Interpolate")
	}
	frac := make([]float64, R.dim)
	base := 0
	for axis := 0; axis < R.dim; axis++ {
		u := (point[axis] - R.min[axis]) / R.step[axis]
		low := int(u)
		switch {
		case u <= 0:
			low, frac[axis] = 0, 0
		case low >= R.n[axis]-1:
			low, frac[axis] = R.n[axis]-2, 1
		default:
			frac[axis] = u - float64(low)
		}
		base += low * R.jump[axis]
	}
	vals := make([]float64, len(R.corners))
	for i, off := range R.corners {
		vals[i] = R.values[base+off]
	}
	//collapse one axis per pass, last axis first: adjacent entries
	//differ only in the lowest remaining corner bit
	for axis := R.dim - 1; axis >= 0; axis-- {
		t := frac[axis]
		half := 1 << axis
		for i := 0; i < half; i++ {
			vals[i] = vals[2*i]*(1-t) + vals[2*i+1]*t
		}
	}
	return vals[0], nil
}

//InterpolateBatch interpolates many points at once, returning one
//value per point.
func (R *RegularGridInterpolator) InterpolateBatch(points [][]float64) ([]float64, error) {
	out := make([]float64, len(points))
	for i, p := range points {
		v, err := R.Interpolate(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
