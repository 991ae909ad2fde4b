/*
 * doc.go, part of omm-cphmd.
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

/*
Package amber builds a validated molecular topology from an Amber
parameter/topology (prmtop) file.

	**Capabilities**

    Reads the atoms, with their charges (in electron units), masses,
	implicit solvent parameters and Lennard-Jones radius and well depth,
	derived from the pairwise A and B coefficient tables.

    Reads bonds, angles and dihedrals. The terms with and without
	hydrogens are merged in one list for each kind. Angles and phases
	are stored in degrees.

    Reads residue boundaries and labels, and the kind of periodic box.

    Builds the set of non-bonded exclusions (atoms 1 or 2 bonds away)
	and the list of scaled 1-4 pairs.

A Parm can also be built by hand, adding atoms in order and then
terms that refer to them. Every index is checked on insertion.

The raw records are read by the prmtop sub-package. Coordinates are
read by the crd sub-package.

	p, err := amber.ReadParm("system.prmtop")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(p.NAtoms(), p.IsExcluded(0, 2))
*/
package amber
