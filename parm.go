/*
 * parm.go, part of omm-cphmd.
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
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Atom contains the per-atom parameters of a topology.
type Atom struct {
	Index     int //zero-based, equal to the order of insertion
	Name      string
	Type      string //force field atom type
	Element   int    //atomic number
	Mass      float64
	Charge    float64 //in electron charge units
	LJRadius  float64 //Rmin/2, A
	LJEpsilon float64 //well depth, kcal/mol
	GBRadius  float64
	GBScreen  float64
}

// Bond is a harmonic bond between 2 atoms.
type Bond struct {
	IDs [2]int
	K   float64
	Eq  float64 //A
}

// Angle is a harmonic angle term. IDs[1] is the central atom.
type Angle struct {
	IDs [3]int
	K   float64
	Eq  float64 //degrees
}

// Dihedral is one Fourier term of a proper or improper torsion.
type Dihedral struct {
	IDs         [4]int
	K           float64
	Phase       float64 //degrees
	Periodicity int
	SCEE        float64 //1-4 electrostatic scaling
	SCNB        float64 //1-4 van der Waals scaling
	IgnoreEnd   bool    //the 1-4 pair is handled elsewhere (another term or a ring)
}

// Box kinds, as given in the IFBOX pointer.
const (
	NoBox = iota
	RectangularBox
	OctahedralBox
)

// Parm is a molecular topology. Atoms must be added in order and terms
// can only refer to atoms that are already there. Once built, a Parm is
// meant to be read only, and all accessors return copies.
type Parm struct {
	Version string //as given after %VERSION in the prmtop file
	Title   string

	atoms     []Atom
	bonds     []Bond
	angles    []Angle
	dihedrals []Dihedral

	resPointers []int
	resLabels   []string
	ifbox       int
	box         []float64 //beta, a, b, c

	//exclusions[i] holds, sorted, the atoms j>i excluded from i.
	exclusions [][]int
}

// NewParm returns an empty topology.
func NewParm() *Parm {
	return new(Parm)
}

// NAtoms returns the number of atoms in the topology.
func (P *Parm) NAtoms() int {
	return len(P.atoms)
}

// AddAtom appends at to the topology. at.Index must be equal to the number of
// atoms already in the topology, otherwise ErrNonSequential is returned.
func (P *Parm) AddAtom(at Atom) error {
	if at.Index != len(P.atoms) {
		return newParmError(ErrNonSequential, "AddAtom", "atom with index %d added to a topology with %d atoms", at.Index, len(P.atoms))
	}
	P.atoms = append(P.atoms, at)
	return nil
}

// AppendAtom appends at to the topology, ignoring its index. It returns the
// index assigned to the new atom.
func (P *Parm) AppendAtom(at Atom) int {
	at.Index = len(P.atoms)
	P.atoms = append(P.atoms, at)
	return at.Index
}

// checkIDs returns an ErrOutOfRange error naming the term kind and the offending
// index if any element of ids is not the index of an atom in P.
func (P *Parm) checkIDs(kind, caller string, ids ...int) error {
	for n, v := range ids {
		if v < 0 || v >= len(P.atoms) {
			return newParmError(ErrOutOfRange, caller, "%s %d: atom %d (position %d) not in [0, %d)", kind, P.termCount(kind), v, n, len(P.atoms))
		}
	}
	return nil
}

func (P *Parm) termCount(kind string) int {
	switch kind {
	case "bond":
		return len(P.bonds)
	case "angle":
		return len(P.angles)
	}
	return len(P.dihedrals)
}

// AddBond adds b to the topology, after checking that its atoms exist.
// Repeated terms are kept.
func (P *Parm) AddBond(b Bond) error {
	if err := P.checkIDs("bond", "AddBond", b.IDs[:]...); err != nil {
		return err
	}
	P.bonds = append(P.bonds, b)
	P.exclusions = nil
	return nil
}

// AddBondTerm adds a bond between atoms i and j.
func (P *Parm) AddBondTerm(i, j int, k, eq float64) error {
	return P.AddBond(Bond{IDs: [2]int{i, j}, K: k, Eq: eq})
}

// AddAngle adds a to the topology, after checking that its atoms exist.
// Repeated terms are kept.
func (P *Parm) AddAngle(a Angle) error {
	if err := P.checkIDs("angle", "AddAngle", a.IDs[:]...); err != nil {
		return err
	}
	P.angles = append(P.angles, a)
	P.exclusions = nil
	return nil
}

// AddAngleTerm adds an angle i-j-k. eq is in degrees.
func (P *Parm) AddAngleTerm(i, j, k int, kf, eq float64) error {
	return P.AddAngle(Angle{IDs: [3]int{i, j, k}, K: kf, Eq: eq})
}

// AddDihedral adds d to the topology, after checking that its atoms exist.
// Repeated terms are kept.
func (P *Parm) AddDihedral(d Dihedral) error {
	if err := P.checkIDs("dihedral", "AddDihedral", d.IDs[:]...); err != nil {
		return err
	}
	P.dihedrals = append(P.dihedrals, d)
	return nil
}

// AddDihedralTerm adds a dihedral term i-j-k-l. phase is in degrees.
func (P *Parm) AddDihedralTerm(i, j, k, l int, kf, phase float64, per int, scee, scnb float64, ignoreEnd bool) error {
	return P.AddDihedral(Dihedral{
		IDs:         [4]int{i, j, k, l},
		K:           kf,
		Phase:       phase,
		Periodicity: per,
		SCEE:        scee,
		SCNB:        scnb,
		IgnoreEnd:   ignoreEnd,
	})
}

// SetResidues sets the residues of the topology. pointers contains the
// (zero-based) index of the first atom of each residue, and must start at 0
// and increase strictly. labels must have the same length.
func (P *Parm) SetResidues(pointers []int, labels []string) error {
	if len(pointers) != len(labels) {
		return newParmError(ErrSection, "SetResidues", "%d residue pointers but %d labels", len(pointers), len(labels))
	}
	for i, v := range pointers {
		switch {
		case i == 0 && v != 0:
			return newParmError(ErrReferential, "SetResidues", "first residue starts at atom %d, not 0", v)
		case v < 0 || v >= len(P.atoms):
			return newParmError(ErrOutOfRange, "SetResidues", "residue %d starts at atom %d, not in [0, %d)", i, v, len(P.atoms))
		case i > 0 && v <= pointers[i-1]:
			return newParmError(ErrReferential, "SetResidues", "residue %d starts at atom %d, before the end of residue %d", i, v, i-1)
		}
	}
	P.resPointers = append([]int(nil), pointers...)
	P.resLabels = append([]string(nil), labels...)
	return nil
}

// SetBox sets the kind of periodic box and, if not nil, its dimensions
// (beta angle in degrees, then the 3 lengths).
func (P *Parm) SetBox(kind int, dims []float64) error {
	if kind < NoBox || kind > OctahedralBox {
		return newParmError(ErrSection, "SetBox", "unknown box kind %d", kind)
	}
	if dims != nil && len(dims) != 4 {
		return newParmError(ErrSection, "SetBox", "box dimensions need 4 values, got %d", len(dims))
	}
	P.ifbox = kind
	P.box = append([]float64(nil), dims...)
	return nil
}

// Atom returns a copy of the atom i. It panics if i is out of range.
func (P *Parm) Atom(i int) Atom {
	return P.atoms[i]
}

// Atoms returns a copy of all the atoms, in order.
func (P *Parm) Atoms() []Atom {
	return append([]Atom(nil), P.atoms...)
}

// Bonds returns a copy of the bonds, in insertion order.
func (P *Parm) Bonds() []Bond {
	return append([]Bond(nil), P.bonds...)
}

// Angles returns a copy of the angles, in insertion order.
func (P *Parm) Angles() []Angle {
	return append([]Angle(nil), P.angles...)
}

// Dihedrals returns a copy of the dihedral terms, in insertion order.
func (P *Parm) Dihedrals() []Dihedral {
	return append([]Dihedral(nil), P.dihedrals...)
}

// Bond, Angle and Dihedral return a copy of the i-th term of their kind.
// They panic if i is out of range.
func (P *Parm) Bond(i int) Bond         { return P.bonds[i] }
func (P *Parm) Angle(i int) Angle       { return P.angles[i] }
func (P *Parm) Dihedral(i int) Dihedral { return P.dihedrals[i] }

func (P *Parm) NBonds() int     { return len(P.bonds) }
func (P *Parm) NAngles() int    { return len(P.angles) }
func (P *Parm) NDihedrals() int { return len(P.dihedrals) }

// NResidues returns the number of residues.
func (P *Parm) NResidues() int {
	return len(P.resPointers)
}

// ResiduePointers returns the index of the first atom of each residue.
func (P *Parm) ResiduePointers() []int {
	return append([]int(nil), P.resPointers...)
}

// ResidueLabels returns the name of each residue.
func (P *Parm) ResidueLabels() []string {
	return append([]string(nil), P.resLabels...)
}

// ResidueOf returns the residue that contains atom at, or -1 if there are no
// residues or at is not an atom of the topology.
func (P *Parm) ResidueOf(at int) int {
	if len(P.resPointers) == 0 || at < 0 || at >= len(P.atoms) {
		return -1
	}
	return sort.Search(len(P.resPointers), func(i int) bool { return P.resPointers[i] > at }) - 1
}

// IfBox returns the kind of periodic box: NoBox, RectangularBox or
// OctahedralBox.
func (P *Parm) IfBox() int {
	return P.ifbox
}

// IsPeriodic returns true if the system has a periodic box.
func (P *Parm) IsPeriodic() bool {
	return P.ifbox > NoBox
}

// BoxDimensions returns the beta angle and the a, b, c lengths of the box, or
// nil if they are not known.
func (P *Parm) BoxDimensions() []float64 {
	if P.box == nil {
		return nil
	}
	return append([]float64(nil), P.box...)
}

// Charges returns the charge of each atom, in electron units.
func (P *Parm) Charges() []float64 {
	ret := make([]float64, len(P.atoms))
	for i, v := range P.atoms {
		ret[i] = v.Charge
	}
	return ret
}

// Masses returns the mass of each atom.
func (P *Parm) Masses() []float64 {
	ret := make([]float64, len(P.atoms))
	for i, v := range P.atoms {
		ret[i] = v.Mass
	}
	return ret
}

// TotalCharge returns the net charge of the system.
func (P *Parm) TotalCharge() float64 {
	return floats.Sum(P.Charges())
}

// TotalMass returns the mass of the system.
func (P *Parm) TotalMass() float64 {
	return floats.Sum(P.Masses())
}

func (P *Parm) String() string {
	return fmt.Sprintf("Parm(%d atoms, %d residues, %d bonds, %d angles, %d dihedrals)",
		len(P.atoms), len(P.resPointers), len(P.bonds), len(P.angles), len(P.dihedrals))
}
