/*
 * geometric.go, part of refine
 *
 * Copyright 2024 The refine developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package refine

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//Angle takes 2 vectors and calculates the angle in radians between
//them. It does not check for correctness or return errors!
func Angle(v1, v2 r3.Vec) float64 {
	normproduct := r3.Norm(v1) * r3.Norm(v2)
	argument := r3.Dot(v1, v2) / normproduct
	//Take care of floating point math errors
	if math.Abs(argument-1) <= appzero {
		argument = 1
	} else if math.Abs(argument+1) <= appzero {
		argument = -1
	}
	angle := math.Acos(argument)
	if math.Abs(angle) <= appzero {
		return 0.0
	}
	return angle
}

//DihedralAngle calculates the dihedral between the points a, b, c, d,
//in radians, where the first plane is defined by abc and the second
//by bcd. The result is in (-pi,pi].
func DihedralAngle(a, b, c, d r3.Vec) float64 {
	bma := r3.Sub(b, a)
	cmb := r3.Sub(c, b)
	dmc := r3.Sub(d, c)
	bmascaled := r3.Scale(r3.Norm(cmb), bma)
	first := r3.Dot(bmascaled, r3.Cross(cmb, dmc))
	second := r3.Dot(r3.Cross(bma, cmb), r3.Cross(cmb, dmc))
	return math.Atan2(first, second)
}

//WrapToPi wraps an angle in radians into (-pi,pi]. The wrapped value
//differs from the input by an integer multiple of 2*pi.
func WrapToPi(angle float64) float64 {
	w := math.Remainder(angle, twoPi)
	if w <= -math.Pi {
		w += twoPi
	}
	return w
}

//BondCylinderTransform returns the 4x4 homogeneous transform placing
//a unit cylinder (radius 1, length 1, centered on the origin with its
//axis along z) between c0 and c1, with the given radius, and with its
//length additionally multiplied by lengthScale. With lengthScale 1
//the cylinder exactly spans c0 to c1. The matrix is row-major; use
//TransformGL for the column-major float32 layout renderers expect.
func BondCylinderTransform(c0, c1 r3.Vec, radius, lengthScale float64) *mat.Dense {
	v := r3.Sub(c1, c0)
	d := r3.Norm(v)
	rot := rotationToZ(v, d)
	t := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		t.Set(i, 0, rot.At(i, 0)*radius)
		t.Set(i, 1, rot.At(i, 1)*radius)
		t.Set(i, 2, rot.At(i, 2)*d*lengthScale)
	}
	mid := r3.Scale(0.5, r3.Add(c0, c1))
	t.Set(0, 3, mid.X)
	t.Set(1, 3, mid.Y)
	t.Set(2, 3, mid.Z)
	t.Set(3, 3, 1)
	return t
}

//rotationToZ returns the rotation taking the z axis onto v/d.
func rotationToZ(v r3.Vec, d float64) *mat.Dense {
	rot := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	if d <= appzero {
		return rot
	}
	u := r3.Scale(1/d, v)
	axis := r3.Vec{X: -u.Y, Y: u.X, Z: 0} //z cross u
	s := r3.Norm(axis)
	c := u.Z
	if s <= appzero {
		if c < 0 { //antiparallel: half turn around x
			rot.Set(1, 1, -1)
			rot.Set(2, 2, -1)
		}
		return rot
	}
	a := r3.Scale(1/s, axis)
	k := 1 - c
	rot.Set(0, 0, c+a.X*a.X*k)
	rot.Set(0, 1, a.X*a.Y*k)
	rot.Set(0, 2, a.Y*s)
	rot.Set(1, 0, a.X*a.Y*k)
	rot.Set(1, 1, c+a.Y*a.Y*k)
	rot.Set(1, 2, -a.X*s)
	rot.Set(2, 0, -a.Y*s)
	rot.Set(2, 1, a.X*s)
	rot.Set(2, 2, c)
	return rot
}

//TransformGL flattens a 4x4 row-major transform into the column-major
//float32 array layout used by OpenGL-style renderers.
func TransformGL(t *mat.Dense) [16]float32 {
	var gl [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			gl[col*4+row] = float32(t.At(row, col))
		}
	}
	return gl
}
