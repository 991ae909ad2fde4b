/*
 * units.go, part of omm-cphmd.
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

const (
	// ChargeScale converts prmtop charges to electron charge units
	// (the file stores q*18.2223, so that q²/r comes out in kcal/mol).
	ChargeScale = 18.2223

	DegreesPerRadian = 180 / math.Pi

	// 1-4 scaling factors used when the file doesn't give them.
	DefaultSCEE = 1.2
	DefaultSCNB = 2.0

	// Pairs of atoms up to this many bonds apart are excluded.
	ExclusionDepth = 2
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(f float64) float64 {
	return f / DegreesPerRadian
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(f float64) float64 {
	return f * DegreesPerRadian
}
