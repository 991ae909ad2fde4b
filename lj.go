/*
 * lj.go, part of omm-cphmd.
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

package amber

import "math"

// Below this, an A coefficient means the atom type has no van der Waals sphere.
const ljZeroA = 1e-10

// LJFromCoefficients returns the radius (Rmin/2) and well depth of the
// 12-6 potential A/r^12 - B/r^6 of a type with itself. Types with a null A
// coefficient get a radius of 0.5 and a zero well depth, so that nothing
// downstream divides by zero.
func LJFromCoefficients(a, b float64) (radius, epsilon float64) {
	if a < ljZeroA {
		return 0.5, 0
	}
	ratio := 2 * a / b //Rmin^6
	return 0.5 * math.Pow(ratio, 1.0/6.0), 0.5 * b / ratio
}

// DeriveLJ returns the radius and well depth of each of the ntypes atom types,
// from the self-interaction entries of the non-bonded index matrix (ntypes²
// 1-based indexes) and the A and B coefficient tables.
func DeriveLJ(ntypes int, nbIndex []int, acoef, bcoef []float64) (radii, epsilons []float64, err error) {
	if ntypes < 0 {
		return nil, nil, newParmError(ErrSection, "DeriveLJ", "negative number of atom types %d", ntypes)
	}
	if len(nbIndex) != ntypes*ntypes {
		return nil, nil, newParmError(ErrSection, "DeriveLJ", "NONBONDED_PARM_INDEX has %d values, want %d", len(nbIndex), ntypes*ntypes)
	}
	if len(acoef) != len(bcoef) {
		return nil, nil, newParmError(ErrSection, "DeriveLJ", "LENNARD_JONES_ACOEF has %d values but LENNARD_JONES_BCOEF has %d", len(acoef), len(bcoef))
	}
	radii = make([]float64, ntypes)
	epsilons = make([]float64, ntypes)
	for t := 0; t < ntypes; t++ {
		idx := nbIndex[t*ntypes+t] - 1
		if idx < 0 || idx >= len(acoef) {
			return nil, nil, newParmError(ErrSection, "DeriveLJ", "type %d: self-interaction index %d outside the %d coefficients", t+1, idx+1, len(acoef))
		}
		radii[t], epsilons[t] = LJFromCoefficients(acoef[idx], bcoef[idx])
	}
	return radii, epsilons, nil
}
