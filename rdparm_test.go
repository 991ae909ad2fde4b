/*
 * rdparm_test.go, part of omm-cphmd.
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
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/jchodera/omm-cphmd/prmtop"
	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-6

// testTop describes a small synthetic topology. Atoms alternate between
// type 1 (A=B=1000) and type 2 (A=0). There is one bond type, one angle
// type and two dihedral types. The term slices hold raw (file) values.
type testTop struct {
	natom                 int
	bondsH, bonds         []int
	anglesH, angles       []int
	dihedralsH, dihedrals []int
	scee, scnb            []float64 //nil means the section is absent
	resPointers           []int     //1-based
	resLabels             []string
	ifbox                 int
	box                   []float64
}

func (T testTop) data() *prmtop.Data {
	D := prmtop.NewData("VERSION_STAMP = V0001.000  DATE = 01/01/25  00:00:00")
	D.SetStrings("TITLE", []string{"synt", "heti", "c"})
	ptrs := make([]int, 31)
	ptrs[prmtop.NATOM] = T.natom
	ptrs[prmtop.NTYPES] = 2
	ptrs[prmtop.NBONH] = len(T.bondsH) / 3
	ptrs[prmtop.MBONA] = len(T.bonds) / 3
	ptrs[prmtop.NTHETH] = len(T.anglesH) / 4
	ptrs[prmtop.MTHETA] = len(T.angles) / 4
	ptrs[prmtop.NPHIH] = len(T.dihedralsH) / 5
	ptrs[prmtop.MPHIA] = len(T.dihedrals) / 5
	ptrs[prmtop.NRES] = len(T.resPointers)
	ptrs[prmtop.NUMBND] = 1
	ptrs[prmtop.NUMANG] = 1
	ptrs[prmtop.NPTRA] = 2
	ptrs[prmtop.IFBOX] = T.ifbox
	D.SetInts(prmtop.PointersFlag, ptrs)
	names := make([]string, T.natom)
	types := make([]string, T.natom)
	elements := make([]int, T.natom)
	masses := make([]float64, T.natom)
	charges := make([]float64, T.natom)
	radii := make([]float64, T.natom)
	screen := make([]float64, T.natom)
	typeIndex := make([]int, T.natom)
	for i := 0; i < T.natom; i++ {
		names[i] = "C" + string(rune('A'+i))
		types[i] = "CT"
		elements[i] = 6
		masses[i] = 12.01
		charges[i] = 0.5 * ChargeScale
		if i%2 == 1 {
			charges[i] = -charges[i]
		}
		radii[i] = 1.7
		screen[i] = 0.72
		typeIndex[i] = 1 + i%2
	}
	D.SetStrings("ATOM_NAME", names)
	D.SetStrings("AMBER_ATOM_TYPE", types)
	D.SetInts("ATOMIC_NUMBER", elements)
	D.SetFloats("MASS", masses)
	D.SetFloats("CHARGE", charges)
	D.SetFloats("RADII", radii)
	D.SetFloats("SCREEN", screen)
	D.SetInts("ATOM_TYPE_INDEX", typeIndex)
	D.SetInts("NONBONDED_PARM_INDEX", []int{1, 2, 2, 3})
	D.SetFloats("LENNARD_JONES_ACOEF", []float64{1000, 0, 0})
	D.SetFloats("LENNARD_JONES_BCOEF", []float64{1000, 0, 0})
	if T.resPointers != nil {
		D.SetInts("RESIDUE_POINTER", T.resPointers)
		D.SetStrings("RESIDUE_LABEL", T.resLabels)
	}
	if T.box != nil {
		D.SetFloats("BOX_DIMENSIONS", T.box)
	}
	D.SetInts("BONDS_INC_HYDROGEN", T.bondsH)
	D.SetInts("BONDS_WITHOUT_HYDROGEN", T.bonds)
	D.SetFloats("BOND_FORCE_CONSTANT", []float64{10})
	D.SetFloats("BOND_EQUIL_VALUE", []float64{1.5})
	D.SetInts("ANGLES_INC_HYDROGEN", T.anglesH)
	D.SetInts("ANGLES_WITHOUT_HYDROGEN", T.angles)
	D.SetFloats("ANGLE_FORCE_CONSTANT", []float64{50})
	D.SetFloats("ANGLE_EQUIL_VALUE", []float64{math.Pi / 2})
	D.SetInts("DIHEDRALS_INC_HYDROGEN", T.dihedralsH)
	D.SetInts("DIHEDRALS_WITHOUT_HYDROGEN", T.dihedrals)
	D.SetFloats("DIHEDRAL_FORCE_CONSTANT", []float64{0.5, 1.0})
	D.SetFloats("DIHEDRAL_PHASE", []float64{0, math.Pi})
	D.SetFloats("DIHEDRAL_PERIODICITY", []float64{3, 2})
	if T.scee != nil {
		D.SetFloats("SCEE_SCALE_FACTOR", T.scee)
	}
	if T.scnb != nil {
		D.SetFloats("SCNB_SCALE_FACTOR", T.scnb)
	}
	return D
}

// a chain 0-1-2-3 with one of each term in each subset.
func chainTop() testTop {
	return testTop{
		natom:       4,
		bondsH:      []int{0, 3, 1},
		bonds:       []int{3, 6, 1, 6, 9, 1},
		anglesH:     []int{0, 3, 6, 1},
		angles:      []int{3, 6, 9, 1},
		dihedralsH:  []int{0, 3, 6, 9, 1},
		dihedrals:   []int{0, 3, -6, -9, 2},
		resPointers: []int{1, 3},
		resLabels:   []string{"ALA", "GLY"},
	}
}

func TestEndToEnd(Te *testing.T) {
	T := testTop{natom: 4, bonds: []int{0, 3, 1}}
	P, err := ParmFromData(T.data())
	if err != nil {
		Te.Fatal(err)
	}
	b := P.Bonds()
	if len(b) != 1 {
		Te.Fatalf("expected 1 bond, got %v", b)
	}
	if b[0].IDs != [2]int{0, 1} || b[0].K != 10.0 || b[0].Eq != 1.5 {
		Te.Errorf("bad bond %+v", b[0])
	}
	if P.NAtoms() != 4 || P.NAngles() != 0 || P.NDihedrals() != 0 {
		Te.Errorf("bad counts: %s", P)
	}
	for i, at := range P.Atoms() {
		if at.Index != i {
			Te.Errorf("atom %d has index %d", i, at.Index)
		}
	}
	if P.Title != "synthetic" || P.Version == "" {
		Te.Errorf("bad title %q or version %q", P.Title, P.Version)
	}
}

func TestAtomsFromData(Te *testing.T) {
	P, err := ParmFromData(chainTop().data())
	if err != nil {
		Te.Fatal(err)
	}
	a0, a1 := P.Atom(0), P.Atom(1)
	if !scalar.EqualWithinAbs(a0.Charge, 0.5, tol) || !scalar.EqualWithinAbs(a1.Charge, -0.5, tol) {
		Te.Errorf("bad charges %f %f", a0.Charge, a1.Charge)
	}
	if !scalar.EqualWithinAbs(a0.LJRadius, 0.5*math.Pow(2, 1.0/6.0), tol) || !scalar.EqualWithinAbs(a0.LJEpsilon, 0.25, tol) {
		Te.Errorf("bad LJ for type 1: %f %f", a0.LJRadius, a0.LJEpsilon)
	}
	if a1.LJRadius != 0.5 || a1.LJEpsilon != 0 {
		Te.Errorf("bad LJ for type 2: %f %f", a1.LJRadius, a1.LJEpsilon)
	}
	if a0.Name != "CA" || a0.Type != "CT" || a0.Element != 6 || a0.GBRadius != 1.7 || a0.GBScreen != 0.72 {
		Te.Errorf("bad atom %+v", a0)
	}
	if !scalar.EqualWithinAbs(P.TotalCharge(), 0, tol) || !scalar.EqualWithinAbs(P.TotalMass(), 4*12.01, tol) {
		Te.Errorf("bad totals %f %f", P.TotalCharge(), P.TotalMass())
	}
}

func TestTermsFromData(Te *testing.T) {
	P, err := ParmFromData(chainTop().data())
	if err != nil {
		Te.Fatal(err)
	}
	b := P.Bonds()
	if len(b) != 3 || b[0].IDs != [2]int{0, 1} || b[1].IDs != [2]int{1, 2} || b[2].IDs != [2]int{2, 3} {
		Te.Errorf("bad bonds (hydrogen ones go first) %v", b)
	}
	a := P.Angles()
	if len(a) != 2 || a[0].IDs != [3]int{0, 1, 2} || a[1].IDs != [3]int{1, 2, 3} {
		Te.Errorf("bad angles %v", a)
	}
	if !scalar.EqualWithinAbs(a[0].Eq, 90, tol) || a[0].K != 50 {
		Te.Errorf("bad angle parameters %+v", a[0])
	}
	d := P.Dihedrals()
	if len(d) != 2 {
		Te.Fatalf("bad dihedrals %v", d)
	}
	if d[0].IDs != [4]int{0, 1, 2, 3} || d[0].IgnoreEnd || d[0].Periodicity != 3 || d[0].Phase != 0 || d[0].K != 0.5 {
		Te.Errorf("bad first dihedral %+v", d[0])
	}
	if d[1].IDs != [4]int{0, 1, 2, 3} || !d[1].IgnoreEnd || d[1].Periodicity != 2 || !scalar.EqualWithinAbs(d[1].Phase, 180, tol) {
		Te.Errorf("bad second dihedral %+v", d[1])
	}
	for _, v := range d {
		if v.SCEE != DefaultSCEE || v.SCNB != DefaultSCNB {
			Te.Errorf("scaling factors should be the defaults: %+v", v)
		}
	}
}

func TestDihedralDecode(Te *testing.T) {
	T := testTop{natom: 7, dihedrals: []int{0, 3, -12, 18, 1}}
	P, err := ParmFromData(T.data())
	if err != nil {
		Te.Fatal(err)
	}
	d := P.Dihedrals()
	if len(d) != 1 || d[0].IDs != [4]int{0, 1, 4, 6} || !d[0].IgnoreEnd {
		Te.Errorf("bad decoded dihedral %v", d)
	}
	T = testTop{natom: 7, dihedrals: []int{0, 3, 12, -18, 1}}
	P, err = ParmFromData(T.data())
	if err != nil {
		Te.Fatal(err)
	}
	if d := P.Dihedral(0); d.IDs != [4]int{0, 1, 4, 6} || !d.IgnoreEnd {
		Te.Errorf("bad decoded dihedral %+v", d)
	}
}

func TestScaleFactors(Te *testing.T) {
	T := chainTop()
	T.scee = []float64{1.0, 1.5}
	T.scnb = []float64{1.0, 2.5}
	P, err := ParmFromData(T.data())
	if err != nil {
		Te.Fatal(err)
	}
	d := P.Dihedrals()
	if d[0].SCEE != 1.0 || d[0].SCNB != 1.0 || d[1].SCEE != 1.5 || d[1].SCNB != 2.5 {
		Te.Errorf("scaling factors not read: %v", d)
	}
	T.scee = []float64{1.0}
	if _, err := ParmFromData(T.data()); !errors.Is(err, ErrSection) {
		Te.Errorf("short SCEE_SCALE_FACTOR should be ErrSection, got %v", err)
	}
}

func TestResiduesAndBox(Te *testing.T) {
	T := chainTop()
	T.ifbox = OctahedralBox
	T.box = []float64{109.4712190, 30, 30, 30}
	P, err := ParmFromData(T.data())
	if err != nil {
		Te.Fatal(err)
	}
	if !slices.Equal(P.ResiduePointers(), []int{0, 2}) || !slices.Equal(P.ResidueLabels(), []string{"ALA", "GLY"}) {
		Te.Errorf("bad residues %v %v", P.ResiduePointers(), P.ResidueLabels())
	}
	want := []int{0, 0, 1, 1}
	for i, v := range want {
		if r := P.ResidueOf(i); r != v {
			Te.Errorf("atom %d in residue %d, want %d", i, r, v)
		}
	}
	if !P.IsPeriodic() || P.IfBox() != OctahedralBox || len(P.BoxDimensions()) != 4 {
		Te.Errorf("bad box %d %v", P.IfBox(), P.BoxDimensions())
	}
	T.resPointers = []int{1, 5}
	if _, err := ParmFromData(T.data()); !errors.Is(err, ErrReferential) {
		Te.Errorf("residue beyond the last atom should fail with ErrReferential, got %v", err)
	}
	T = chainTop()
	T.resLabels = []string{"ALA"}
	if _, err := ParmFromData(T.data()); !errors.Is(err, ErrSection) {
		Te.Errorf("short RESIDUE_LABEL should fail with ErrSection, got %v", err)
	}
	T = chainTop()
	T.resPointers, T.resLabels = nil, nil
	P, err = ParmFromData(T.data())
	if err != nil || P.NResidues() != 0 || P.ResidueOf(0) != -1 || P.IsPeriodic() {
		Te.Errorf("topology without residues: %v %v", P, err)
	}
}

func TestBadSections(Te *testing.T) {
	cases := []struct {
		name   string
		edit   func(D *prmtop.Data)
		target error
	}{
		{"missized bonds", func(D *prmtop.Data) { D.SetInts("BONDS_WITHOUT_HYDROGEN", []int{3, 6, 1, 6, 9, 1, 0}) }, ErrSection},
		{"missing mass", func(D *prmtop.Data) { D.Delete("MASS") }, ErrSection},
		{"short charges", func(D *prmtop.Data) { D.SetFloats("CHARGE", []float64{1, 2}) }, ErrSection},
		{"integer charges", func(D *prmtop.Data) { D.SetInts("CHARGE", []int{1, 2, 3, 4}) }, ErrSection},
		{"missing pointers", func(D *prmtop.Data) { D.Delete(prmtop.PointersFlag) }, ErrSection},
		{"short pointers", func(D *prmtop.Data) { D.SetInts(prmtop.PointersFlag, []int{4, 2, 1}) }, ErrSection},
		{"bad type index", func(D *prmtop.Data) { D.SetInts("ATOM_TYPE_INDEX", []int{1, 2, 3, 1}) }, ErrSection},
		{"short nonbonded index", func(D *prmtop.Data) { D.SetInts("NONBONDED_PARM_INDEX", []int{1, 2, 3}) }, ErrSection},
		{"short A coefficients", func(D *prmtop.Data) { D.SetFloats("LENNARD_JONES_ACOEF", []float64{1000, 0}) }, ErrSection},
		{"long B coefficients", func(D *prmtop.Data) { D.SetFloats("LENNARD_JONES_BCOEF", []float64{1000, 0, 0, 0}) }, ErrSection},
		{"missing A coefficients", func(D *prmtop.Data) { D.Delete("LENNARD_JONES_ACOEF") }, ErrSection},
		{"missing phase", func(D *prmtop.Data) { D.Delete("DIHEDRAL_PHASE") }, ErrSection},
		{"bond to nowhere", func(D *prmtop.Data) { D.SetInts("BONDS_WITHOUT_HYDROGEN", []int{3, 6, 1, 6, 30, 1}) }, ErrOutOfRange},
		{"bad bond parameter", func(D *prmtop.Data) { D.SetInts("BONDS_WITHOUT_HYDROGEN", []int{3, 6, 2, 6, 9, 1}) }, ErrOutOfRange},
		{"negative angle atom", func(D *prmtop.Data) { D.SetInts("ANGLES_WITHOUT_HYDROGEN", []int{-3, 6, 9, 1}) }, ErrReferential},
	}
	for _, c := range cases {
		D := chainTop().data()
		c.edit(D)
		P, err := ParmFromData(D)
		if P != nil {
			Te.Errorf("%s: a topology was returned with the error", c.name)
		}
		if !errors.Is(err, c.target) {
			Te.Errorf("%s: got %v, want %v", c.name, err, c.target)
		}
		var E Error
		if !errors.As(err, &E) || len(E.Decorate("")) == 0 {
			Te.Errorf("%s: error %v has no call trail", c.name, err)
		}
	}
}

func TestReadParm(Te *testing.T) {
	dir := Te.TempDir()
	name := filepath.Join(dir, "chain.prmtop")
	var buf bytes.Buffer
	if err := chainTop().data().Write(&buf); err != nil {
		Te.Fatal(err)
	}
	if err := os.WriteFile(name, buf.Bytes(), 0644); err != nil {
		Te.Fatal(err)
	}
	P, err := ReadParm(name)
	if err != nil {
		Te.Fatal(err)
	}
	if P.NAtoms() != 4 || P.NBonds() != 3 || !P.IsExcluded(0, 2) || P.IsExcluded(0, 3) {
		Te.Errorf("bad topology from file: %s", P)
	}
	_, err = ReadParm(filepath.Join(dir, "nothere.prmtop"))
	if !errors.Is(err, ErrSourceUnavailable) || !errors.Is(err, prmtop.ErrNoOpen) {
		Te.Errorf("missing file: got %v", err)
	}
	var E FileError
	if !errors.As(err, &E) || E.FileName() == "" {
		Te.Errorf("no file name in %v", err)
	}
	files := map[string]error{
		"noversion.prmtop": prmtop.ErrNoVersion,
		"empty.prmtop":     prmtop.ErrEmpty,
		"garbage.prmtop":   prmtop.ErrParse,
	}
	contents := map[string]string{
		"noversion.prmtop": "%FLAG TITLE\n%FORMAT(20a4)\nx\n",
		"empty.prmtop":     "",
		"garbage.prmtop":   "%VERSION x\n%FLAG POINTERS\n%FORMAT(10I8)\n     abc\n",
	}
	for f, status := range files {
		p := filepath.Join(dir, f)
		os.WriteFile(p, []byte(contents[f]), 0644)
		P, err := ReadParm(p)
		if P != nil || !errors.Is(err, ErrMalformedSource) || !errors.Is(err, status) {
			Te.Errorf("%s: got %v", f, err)
		}
	}
	//a well formed file without the topology sections
	p := filepath.Join(dir, "short.prmtop")
	os.WriteFile(p, []byte("%VERSION x\n%FLAG POINTERS\n%FORMAT(10I8)\n       1\n"), 0644)
	if _, err := ReadParm(p); !errors.Is(err, ErrSection) {
		Te.Errorf("short.prmtop: got %v", err)
	}
}
