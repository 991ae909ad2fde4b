/*
 * exclusions.go, part of omm-cphmd.
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

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jchodera/omm-cphmd/chemgraph"
)

// Pair14 is a pair of atoms at the ends of a dihedral, whose non-bonded
// interaction is scaled instead of excluded.
type Pair14 struct {
	I, L       int //I < L
	SCEE, SCNB float64
}

// BondGraph returns the graph of the bonds in the topology.
func (P *Parm) BondGraph() (*chemgraph.Graph, error) {
	pairs := make([][2]int, len(P.bonds))
	for i, b := range P.bonds {
		pairs[i] = b.IDs
	}
	G, err := chemgraph.New(len(P.atoms), pairs)
	if err != nil {
		//can't happen if the bonds were added with AddBond
		return nil, newParmError(ErrOutOfRange, "BondGraph", "%s", err.Error())
	}
	return G, nil
}

// BuildExclusions builds the set of excluded atom pairs: those 1 or 2 bonds
// apart, plus the atoms in each angle term. 1-4 pairs are not excluded, see
// Exceptions. ParmFromData calls it, other builders need to call it after
// the last bond and angle has been added. Adding more bonds or angles
// clears the set.
func (P *Parm) BuildExclusions() error {
	G, err := P.BondGraph()
	if err != nil {
		return err
	}
	excl := make([][]int, len(P.atoms))
	for i := range excl {
		for _, j := range G.Within(i, ExclusionDepth) {
			if j > i {
				excl[i] = append(excl[i], j)
			}
		}
	}
	add := func(i, j int) {
		if i == j {
			return
		}
		if i > j {
			i, j = j, i
		}
		excl[i] = append(excl[i], j)
	}
	for _, a := range P.angles {
		add(a.IDs[0], a.IDs[1])
		add(a.IDs[0], a.IDs[2])
		add(a.IDs[1], a.IDs[2])
	}
	for i, v := range excl {
		slices.Sort(v)
		excl[i] = slices.Compact(v)
	}
	P.exclusions = excl
	return nil
}

// IsExcluded returns true if the direct non-bonded interaction between
// atoms i and j is to be skipped. An atom is always excluded from itself.
func (P *Parm) IsExcluded(i, j int) bool {
	if i == j {
		return true
	}
	if i > j {
		i, j = j, i
	}
	if i < 0 || i >= len(P.exclusions) {
		return false
	}
	_, found := slices.BinarySearch(P.exclusions[i], j)
	return found
}

// Exclusions returns, in increasing order, the atoms excluded from atom i.
func (P *Parm) Exclusions(i int) []int {
	if i < 0 || i >= len(P.exclusions) {
		return nil
	}
	ret := make([]int, 0, len(P.exclusions[i]))
	for j := 0; j < i; j++ {
		if _, found := slices.BinarySearch(P.exclusions[j], i); found {
			ret = append(ret, j)
		}
	}
	return append(ret, P.exclusions[i]...)
}

// PrintExclusions writes the atoms excluded from atom i to w, in one line.
func (P *Parm) PrintExclusions(w io.Writer, i int) error {
	if i < 0 || i >= len(P.atoms) {
		return newParmError(ErrOutOfRange, "PrintExclusions", "atom %d not in [0, %d)", i, len(P.atoms))
	}
	ex := P.Exclusions(i)
	s := make([]string, len(ex))
	for n, v := range ex {
		s[n] = fmt.Sprint(v)
	}
	_, err := fmt.Fprintf(w, "Atom %d (%s) excludes %d atoms: %s\n", i, P.atoms[i].Name, len(ex), strings.Join(s, " "))
	return err
}

// Exceptions returns the 1-4 pairs whose non-bonded interactions are to be
// computed with the scaling factors of their dihedral. Pairs from terms
// flagged with IgnoreEnd, and pairs that are already excluded, are left
// out. Each pair appears once, with the factors of its first dihedral.
func (P *Parm) Exceptions() []Pair14 {
	seen := make(map[[2]int]bool)
	var ret []Pair14
	for _, d := range P.dihedrals {
		if d.IgnoreEnd {
			continue
		}
		i, l := d.IDs[0], d.IDs[3]
		if i > l {
			i, l = l, i
		}
		if seen[[2]int{i, l}] || P.IsExcluded(i, l) {
			continue
		}
		seen[[2]int{i, l}] = true
		ret = append(ret, Pair14{I: i, L: l, SCEE: d.SCEE, SCNB: d.SCNB})
	}
	return ret
}
