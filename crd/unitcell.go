/*
 * unitcell.go, part of omm-cphmd.
 *
 * Copyright 2025 The omm-cphmd authors.
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

package crd

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// components closer than this to zero are set to exactly zero.
const tiny = 1e-6

// UnitCell is a periodic cell given by its 3 vectors, in A.
type UnitCell struct {
	A, B, C r3.Vec
}

func snap(f float64) float64 {
	if math.Abs(f) < tiny {
		return 0
	}
	return f
}

// NewUnitCell returns the cell with the given lengths and angles (in
// degrees). A lies on the x axis and B on the xy plane.
func NewUnitCell(a, b, c, alpha, beta, gamma float64) *UnitCell {
	al := alpha * math.Pi / 180
	be := beta * math.Pi / 180
	ga := gamma * math.Pi / 180
	U := &UnitCell{A: r3.Vec{X: a}}
	U.B = r3.Vec{X: snap(b * math.Cos(ga)), Y: snap(b * math.Sin(ga))}
	cx := c * math.Cos(be)
	cy := c * (math.Cos(al) - math.Cos(be)*math.Cos(ga)) / math.Sin(ga)
	cz := math.Sqrt(math.Abs(c*c - cx*cx - cy*cy))
	U.C = r3.Vec{X: snap(cx), Y: snap(cy), Z: snap(cz)}
	return U
}

// Lengths returns the lengths of the 3 cell vectors.
func (U *UnitCell) Lengths() (a, b, c float64) {
	return r3.Norm(U.A), r3.Norm(U.B), r3.Norm(U.C)
}

func angle(u, v r3.Vec) (float64, error) {
	nu, nv := r3.Norm(u), r3.Norm(v)
	if nu == 0 || nv == 0 {
		return 0, newError(BadCell, nil, "Angles")
	}
	cos := r3.Dot(u, v) / (nu * nv)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, nil
}

// Angles returns alpha (between B and C), beta (A, C) and gamma (A, B),
// in degrees. It fails if any vector is null.
func (U *UnitCell) Angles() (alpha, beta, gamma float64, err error) {
	if alpha, err = angle(U.B, U.C); err != nil {
		return
	}
	if beta, err = angle(U.A, U.C); err != nil {
		return
	}
	gamma, err = angle(U.A, U.B)
	return
}

// Volume returns the volume of the cell, in A³.
func (U *UnitCell) Volume() float64 {
	return math.Abs(r3.Dot(U.A, r3.Cross(U.B, U.C)))
}
