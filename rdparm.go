/*
 * rdparm.go, part of omm-cphmd.
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
	"errors"
	"fmt"

	"github.com/jchodera/omm-cphmd/prmtop"
)

// ReadParm reads the prmtop file filename (which can be gzip or zstd
// compressed, see prmtop.ReadFile) and returns the topology in it.
// No topology is returned if there is any problem with the file.
func ReadParm(filename string) (*Parm, error) {
	D, err := prmtop.ReadFile(filename)
	if err != nil {
		return nil, fromRecords(err, filename)
	}
	P, err := ParmFromData(D)
	if err != nil {
		var E *ParmError
		if errors.As(err, &E) {
			E.filename = filename
			E.Decorate("ReadParm")
		}
		return nil, err
	}
	return P, nil
}

// rawParm holds the sections of a prmtop file needed to build a topology,
// once it has been checked that they are all there, with the right lengths.
type rawParm struct {
	natom, ntypes int

	names, types   []string
	elements       []int
	masses, charge []float64
	radii, screen  []float64
	typeIndex      []int
	nbIndex        []int
	acoef, bcoef   []float64

	resPointers []int //1-based, as in the file. nil if absent
	resLabels   []string
	ifbox       int
	box         []float64

	bondsH, bonds []int
	bondK, bondEq []float64

	anglesH, angles []int
	angleK, angleEq []float64

	dihedralsH, dihedrals []int
	dihedralK, phase, per []float64
	scee, scnb            []float64
}

// ParmFromData builds a topology from the prmtop records in D. All the
// needed sections are checked before anything is built. The stages
// then go in order: Lennard-Jones parameters, atoms, residues and box,
// bonds, angles, dihedrals, exclusions.
func ParmFromData(D *prmtop.Data) (*Parm, error) {
	r, err := readRaw(D)
	if err != nil {
		return nil, err
	}
	P := &Parm{Version: D.Version, Title: D.Title()}
	if err := P.addAtoms(r); err != nil {
		return nil, err
	}
	if err := P.addResidues(r); err != nil {
		return nil, err
	}
	if err := P.addTerms(r); err != nil {
		return nil, err
	}
	if err := P.BuildExclusions(); err != nil {
		return nil, err
	}
	return P, nil
}

// section checks are all quite similar.

func sectionErr(format string, a ...any) *ParmError {
	return newParmError(ErrSection, "ParmFromData", format, a...)
}

func intSection(D *prmtop.Data, flag string, n int) ([]int, error) {
	v, ok := D.Ints(flag)
	if !ok {
		return nil, sectionErr("missing integer section %s", flag)
	}
	if n >= 0 && len(v) != n {
		return nil, sectionErr("%s has %d values, want %d", flag, len(v), n)
	}
	return v, nil
}

func floatSection(D *prmtop.Data, flag string, n int) ([]float64, error) {
	v, ok := D.Floats(flag)
	if !ok {
		return nil, sectionErr("missing floating point section %s", flag)
	}
	if n >= 0 && len(v) != n {
		return nil, sectionErr("%s has %d values, want %d", flag, len(v), n)
	}
	return v, nil
}

func stringSection(D *prmtop.Data, flag string, n int) ([]string, error) {
	v, ok := D.Strings(flag)
	if !ok {
		return nil, sectionErr("missing text section %s", flag)
	}
	if n >= 0 && len(v) != n {
		return nil, sectionErr("%s has %d values, want %d", flag, len(v), n)
	}
	return v, nil
}

// scaleSection returns the 1-4 scaling factors in flag or, if the
// section is not there, a table with the default value for all the
// n dihedral types.
func scaleSection(D *prmtop.Data, flag string, n int, def float64) ([]float64, error) {
	if !D.Has(flag) {
		ret := make([]float64, n)
		for i := range ret {
			ret[i] = def
		}
		return ret, nil
	}
	return floatSection(D, flag, n)
}

func readRaw(D *prmtop.Data) (*rawParm, error) {
	var err error
	c := make(map[prmtop.Pointer]int)
	for p := prmtop.NATOM; p <= prmtop.NPTRA; p++ {
		c[p], err = D.Pointer(p)
		if err != nil {
			return nil, sectionErr("%s", err.Error())
		}
		if c[p] < 0 {
			return nil, sectionErr("negative %s (%d) in %s", p, c[p], prmtop.PointersFlag)
		}
	}
	r := &rawParm{natom: c[prmtop.NATOM], ntypes: c[prmtop.NTYPES]}
	//old files don't always have the full POINTERS table.
	if ifbox, err := D.Pointer(prmtop.IFBOX); err == nil {
		r.ifbox = ifbox
	}
	n := r.natom
	if r.names, err = stringSection(D, "ATOM_NAME", n); err != nil {
		return nil, err
	}
	if r.types, err = stringSection(D, "AMBER_ATOM_TYPE", n); err != nil {
		return nil, err
	}
	if r.elements, err = intSection(D, "ATOMIC_NUMBER", n); err != nil {
		return nil, err
	}
	if r.masses, err = floatSection(D, "MASS", n); err != nil {
		return nil, err
	}
	if r.charge, err = floatSection(D, "CHARGE", n); err != nil {
		return nil, err
	}
	if r.radii, err = floatSection(D, "RADII", n); err != nil {
		return nil, err
	}
	if r.screen, err = floatSection(D, "SCREEN", n); err != nil {
		return nil, err
	}
	if r.typeIndex, err = intSection(D, "ATOM_TYPE_INDEX", n); err != nil {
		return nil, err
	}
	for i, t := range r.typeIndex {
		if t < 1 || t > r.ntypes {
			return nil, sectionErr("ATOM_TYPE_INDEX: atom %d has type %d, not in [1, %d]", i, t, r.ntypes)
		}
	}
	if r.nbIndex, err = intSection(D, "NONBONDED_PARM_INDEX", r.ntypes*r.ntypes); err != nil {
		return nil, err
	}
	ncoef := r.ntypes * (r.ntypes + 1) / 2
	if r.acoef, err = floatSection(D, "LENNARD_JONES_ACOEF", ncoef); err != nil {
		return nil, err
	}
	if r.bcoef, err = floatSection(D, "LENNARD_JONES_BCOEF", ncoef); err != nil {
		return nil, err
	}

	//residues are optional, but if present they have to make sense.
	if D.Has("RESIDUE_POINTER") || D.Has("RESIDUE_LABEL") {
		nres := c[prmtop.NRES]
		if r.resPointers, err = intSection(D, "RESIDUE_POINTER", nres); err != nil {
			return nil, err
		}
		if r.resLabels, err = stringSection(D, "RESIDUE_LABEL", nres); err != nil {
			return nil, err
		}
	}
	if D.Has("BOX_DIMENSIONS") {
		if r.box, err = floatSection(D, "BOX_DIMENSIONS", 4); err != nil {
			return nil, err
		}
	}

	if r.bondsH, err = intSection(D, "BONDS_INC_HYDROGEN", 3*c[prmtop.NBONH]); err != nil {
		return nil, err
	}
	if r.bonds, err = intSection(D, "BONDS_WITHOUT_HYDROGEN", 3*c[prmtop.MBONA]); err != nil {
		return nil, err
	}
	if r.bondK, err = floatSection(D, "BOND_FORCE_CONSTANT", c[prmtop.NUMBND]); err != nil {
		return nil, err
	}
	if r.bondEq, err = floatSection(D, "BOND_EQUIL_VALUE", c[prmtop.NUMBND]); err != nil {
		return nil, err
	}

	if r.anglesH, err = intSection(D, "ANGLES_INC_HYDROGEN", 4*c[prmtop.NTHETH]); err != nil {
		return nil, err
	}
	if r.angles, err = intSection(D, "ANGLES_WITHOUT_HYDROGEN", 4*c[prmtop.MTHETA]); err != nil {
		return nil, err
	}
	if r.angleK, err = floatSection(D, "ANGLE_FORCE_CONSTANT", c[prmtop.NUMANG]); err != nil {
		return nil, err
	}
	if r.angleEq, err = floatSection(D, "ANGLE_EQUIL_VALUE", c[prmtop.NUMANG]); err != nil {
		return nil, err
	}

	nptra := c[prmtop.NPTRA]
	if r.dihedralsH, err = intSection(D, "DIHEDRALS_INC_HYDROGEN", 5*c[prmtop.NPHIH]); err != nil {
		return nil, err
	}
	if r.dihedrals, err = intSection(D, "DIHEDRALS_WITHOUT_HYDROGEN", 5*c[prmtop.MPHIA]); err != nil {
		return nil, err
	}
	if r.dihedralK, err = floatSection(D, "DIHEDRAL_FORCE_CONSTANT", nptra); err != nil {
		return nil, err
	}
	if r.phase, err = floatSection(D, "DIHEDRAL_PHASE", nptra); err != nil {
		return nil, err
	}
	if r.per, err = floatSection(D, "DIHEDRAL_PERIODICITY", nptra); err != nil {
		return nil, err
	}
	if r.scee, err = scaleSection(D, "SCEE_SCALE_FACTOR", nptra, DefaultSCEE); err != nil {
		return nil, err
	}
	if r.scnb, err = scaleSection(D, "SCNB_SCALE_FACTOR", nptra, DefaultSCNB); err != nil {
		return nil, err
	}
	return r, nil
}

func (P *Parm) addAtoms(r *rawParm) error {
	radius, eps, err := DeriveLJ(r.ntypes, r.nbIndex, r.acoef, r.bcoef)
	if err != nil {
		return err
	}
	for i := 0; i < r.natom; i++ {
		t := r.typeIndex[i] - 1
		at := Atom{
			Index:     i,
			Name:      r.names[i],
			Type:      r.types[i],
			Element:   r.elements[i],
			Mass:      r.masses[i],
			Charge:    r.charge[i] / ChargeScale,
			LJRadius:  radius[t],
			LJEpsilon: eps[t],
			GBRadius:  r.radii[i],
			GBScreen:  r.screen[i],
		}
		if err := P.AddAtom(at); err != nil {
			return err
		}
	}
	return nil
}

func (P *Parm) addResidues(r *rawParm) error {
	if r.resPointers != nil {
		ptrs := make([]int, len(r.resPointers))
		for i, v := range r.resPointers {
			ptrs[i] = v - 1
		}
		if err := P.SetResidues(ptrs, r.resLabels); err != nil {
			return err
		}
	}
	return P.SetBox(r.ifbox, r.box)
}

// decodeAtom turns an atom position from the term sections, which is an offset
// in a coordinate array (3 values per atom), into an atom index.
func decodeAtom(raw int) int {
	return raw / 3
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// eachTerm calls add for each term in raw. A term is arity atom positions
// followed by a 1-based index into a parameter table of nparams entries. add
// gets the raw positions and the zero-based parameter index.
func eachTerm(raw []int, arity, nparams int, flag string, add func(pos []int, param int) error) error {
	width := arity + 1
	for t := 0; (t+1)*width <= len(raw); t++ {
		rec := raw[t*width : (t+1)*width]
		param := rec[arity] - 1
		if param < 0 || param >= nparams {
			return newParmError(ErrOutOfRange, "ParmFromData", "%s term %d: parameter index %d not in [1, %d]", flag, t, rec[arity], nparams)
		}
		if err := add(rec[:arity], param); err != nil {
			var E *ParmError
			if errors.As(err, &E) {
				E.Decorate(fmt.Sprintf("ParmFromData: %s term %d", flag, t))
			}
			return err
		}
	}
	return nil
}

// addTerms decodes the bonded terms. For each kind, the terms with hydrogen come first.
func (P *Parm) addTerms(r *rawParm) error {
	bond := func(pos []int, p int) error {
		return P.AddBondTerm(decodeAtom(pos[0]), decodeAtom(pos[1]), r.bondK[p], r.bondEq[p])
	}
	angle := func(pos []int, p int) error {
		return P.AddAngleTerm(decodeAtom(pos[0]), decodeAtom(pos[1]), decodeAtom(pos[2]), r.angleK[p], Rad2Deg(r.angleEq[p]))
	}
	dihedral := func(pos []int, p int) error {
		k, l := decodeAtom(pos[2]), decodeAtom(pos[3])
		ignore := k < 0 || l < 0
		return P.AddDihedralTerm(decodeAtom(pos[0]), decodeAtom(pos[1]), abs(k), abs(l),
			r.dihedralK[p], Rad2Deg(r.phase[p]), int(r.per[p]), r.scee[p], r.scnb[p], ignore)
	}
	kinds := []struct {
		flag    string
		raw     []int
		arity   int
		nparams int
		add     func([]int, int) error
	}{
		{"BONDS_INC_HYDROGEN", r.bondsH, 2, len(r.bondK), bond},
		{"BONDS_WITHOUT_HYDROGEN", r.bonds, 2, len(r.bondK), bond},
		{"ANGLES_INC_HYDROGEN", r.anglesH, 3, len(r.angleK), angle},
		{"ANGLES_WITHOUT_HYDROGEN", r.angles, 3, len(r.angleK), angle},
		{"DIHEDRALS_INC_HYDROGEN", r.dihedralsH, 4, len(r.dihedralK), dihedral},
		{"DIHEDRALS_WITHOUT_HYDROGEN", r.dihedrals, 4, len(r.dihedralK), dihedral},
	}
	for _, v := range kinds {
		if err := eachTerm(v.raw, v.arity, v.nparams, v.flag, v.add); err != nil {
			return err
		}
	}
	return nil
}
