/*
 * prmtop.go, part of omm-cphmd.
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

// Package prmtop reads and writes the raw records of Amber parameter/topology
// files. A file is a %VERSION line followed by sections, each introduced by a
// %FLAG line and a Fortran-style %FORMAT line, and holding fixed-width integer,
// floating point or text values. The package does not interpret the values,
// except for giving names to the offsets of the POINTERS section.
package prmtop

import (
	"fmt"
	"strings"
)

// Pointer is an offset in the POINTERS section.
type Pointer int

// Offsets in the POINTERS section, as given in the prmtop format
// description on ambermd.org
const (
	NATOM    Pointer = iota // total number of atoms
	NTYPES                  // total number of distinct atom types
	NBONH                   // number of bonds containing hydrogen
	MBONA                   // number of bonds not containing hydrogen
	NTHETH                  // number of angles containing hydrogen
	MTHETA                  // number of angles not containing hydrogen
	NPHIH                   // number of dihedrals containing hydrogen
	MPHIA                   // number of dihedrals not containing hydrogen
	NHPARM                  // currently not used
	NPARM                   // 1 if written by LES addles
	NNB                     // number of excluded atoms
	NRES                    // number of residues
	NBONA                   // MBONA + number of constraint bonds
	NTHETA                  // MTHETA + number of constraint angles
	NPHIA                   // MPHIA + number of constraint dihedrals
	NUMBND                  // number of unique bond types
	NUMANG                  // number of unique angle types
	NPTRA                   // number of unique dihedral types
	NATYP                   // number of atom types in parameter file
	NPHB                    // number of distinct 10-12 hydrogen bond pair types
	IFPERT                  // 1 if perturbation info is to be read in
	NBPER                   // number of bonds to be perturbed
	NGPER                   // number of angles to be perturbed
	NDPER                   // number of dihedrals to be perturbed
	MBPER                   // number of bonds with atoms completely in perturbed group
	MGPER                   // number of angles with atoms completely in perturbed group
	MDPER                   // number of dihedrals with atoms completely in perturbed groups
	IFBOX                   // 1 for a rectangular box, 2 for a truncated octahedron
	NMXRS                   // number of atoms in the largest residue
	IFCAP                   // 1 if the CAP option from edit was specified
	NUMEXTRA                // number of extra points
	NCOPY                   // number of PIMD slices or path integral beads
)

var pointerNames = []string{"NATOM", "NTYPES", "NBONH", "MBONA", "NTHETH", "MTHETA",
	"NPHIH", "MPHIA", "NHPARM", "NPARM", "NNB", "NRES", "NBONA", "NTHETA", "NPHIA",
	"NUMBND", "NUMANG", "NPTRA", "NATYP", "NPHB", "IFPERT", "NBPER", "NGPER", "NDPER",
	"MBPER", "MGPER", "MDPER", "IFBOX", "NMXRS", "IFCAP", "NUMEXTRA", "NCOPY"}

func (p Pointer) String() string {
	if p < 0 || int(p) >= len(pointerNames) {
		return fmt.Sprintf("POINTER(%d)", int(p))
	}
	return pointerNames[p]
}

// PointersFlag is the name of the section holding the counts.
const PointersFlag = "POINTERS"

// Kind is the type of the values held in a section.
type Kind int

const (
	Integer Kind = iota
	Float
	Text
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Text:
		return "text"
	}
	return "unknown"
}

// Section is one %FLAG block of the file. Only the slice that
// corresponds to its Kind is used.
type Section struct {
	Flag     string
	Comments []string
	Format   Format
	Ints     []int
	Floats   []float64
	Strings  []string
}

// Kind returns the type of the values in the section, as
// given by its format.
func (S *Section) Kind() Kind {
	return S.Format.Kind()
}

// Len returns the number of values in the section.
func (S *Section) Len() int {
	switch S.Kind() {
	case Integer:
		return len(S.Ints)
	case Float:
		return len(S.Floats)
	}
	return len(S.Strings)
}

// Data contains all the sections read from a prmtop file, in the
// order they were found.
type Data struct {
	Version  string
	flags    []string
	sections map[string]*Section
}

// NewData returns an empty Data with the given version string, which
// is what follows %VERSION in the first line of the file.
func NewData(version string) *Data {
	return &Data{Version: version, sections: make(map[string]*Section)}
}

// Flags returns the names of the sections in file order.
func (D *Data) Flags() []string {
	ret := make([]string, len(D.flags))
	copy(ret, D.flags)
	return ret
}

// Len returns the number of sections.
func (D *Data) Len() int {
	return len(D.flags)
}

// Has returns true if a section named flag is present.
func (D *Data) Has(flag string) bool {
	_, ok := D.sections[flag]
	return ok
}

// Section returns the section named flag and whether it was present.
func (D *Data) Section(flag string) (*Section, bool) {
	s, ok := D.sections[flag]
	return s, ok
}

// Ints returns the values of an integer section. The second value is
// false if the section is absent or does not contain integers.
func (D *Data) Ints(flag string) ([]int, bool) {
	s, ok := D.sections[flag]
	if !ok || s.Kind() != Integer {
		return nil, false
	}
	return s.Ints, true
}

// Floats returns the values of a floating point section. The second value is
// false if the section is absent or does not contain floats.
func (D *Data) Floats(flag string) ([]float64, bool) {
	s, ok := D.sections[flag]
	if !ok || s.Kind() != Float {
		return nil, false
	}
	return s.Floats, true
}

// Strings returns the values of a text section. The second value is
// false if the section is absent or does not contain text.
func (D *Data) Strings(flag string) ([]string, bool) {
	s, ok := D.sections[flag]
	if !ok || s.Kind() != Text {
		return nil, false
	}
	return s.Strings, true
}

// Pointers returns the whole POINTERS section.
func (D *Data) Pointers() ([]int, bool) {
	return D.Ints(PointersFlag)
}

// Pointer returns the value at offset p of the POINTERS section.
func (D *Data) Pointer(p Pointer) (int, error) {
	ptrs, ok := D.Pointers()
	if !ok {
		return 0, fmt.Errorf("missing %s section", PointersFlag)
	}
	if p < 0 || int(p) >= len(ptrs) {
		return 0, fmt.Errorf("%s section has %d values, %s is not among them", PointersFlag, len(ptrs), p)
	}
	return ptrs[p], nil
}

// Title returns the title of the system, from the TITLE section or, for
// CHAMBER-generated files, the CTITLE one.
func (D *Data) Title() string {
	s, ok := D.sections["TITLE"]
	if !ok {
		s, ok = D.sections["CTITLE"]
	}
	if !ok || s.Kind() != Text {
		return ""
	}
	//the title is one long string cut in fixed-width pieces.
	var b strings.Builder
	for _, v := range s.Strings {
		fmt.Fprintf(&b, "%-*s", s.Format.Width, v)
	}
	return strings.TrimSpace(b.String())
}

// add appends a section. It returns an error if a section with the same
// flag already exists.
func (D *Data) add(s *Section) error {
	if _, ok := D.sections[s.Flag]; ok {
		return fmt.Errorf("repeated section %s", s.Flag)
	}
	D.sections[s.Flag] = s
	D.flags = append(D.flags, s.Flag)
	return nil
}

func (D *Data) set(s *Section) {
	if _, ok := D.sections[s.Flag]; !ok {
		D.flags = append(D.flags, s.Flag)
	}
	D.sections[s.Flag] = s
}

// SetInts sets (adding it, if needed) an integer section, using the
// usual 10I8 format.
func (D *Data) SetInts(flag string, v []int) {
	D.set(&Section{Flag: flag, Format: IntFormat, Ints: v})
}

// SetFloats sets (adding it, if needed) a floating point section, using the
// usual 5E16.8 format.
func (D *Data) SetFloats(flag string, v []float64) {
	D.set(&Section{Flag: flag, Format: FloatFormat, Floats: v})
}

// SetStrings sets (adding it, if needed) a text section, using the
// usual 20a4 format.
func (D *Data) SetStrings(flag string, v []string) {
	D.set(&Section{Flag: flag, Format: TextFormat, Strings: v})
}

// Delete removes a section. It does nothing if the section is absent.
func (D *Data) Delete(flag string) {
	if _, ok := D.sections[flag]; !ok {
		return
	}
	delete(D.sections, flag)
	for i, v := range D.flags {
		if v == flag {
			D.flags = append(D.flags[:i], D.flags[i+1:]...)
			break
		}
	}
}
