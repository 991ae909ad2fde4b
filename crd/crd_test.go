/*
 * crd_test.go, part of omm-cphmd.
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
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const threeAtoms = `ACE
    3  0.1000000E+01
   1.0000000   2.0000000   3.0000000  -1.5000000   0.0000000  12.2500000
   4.0000000   5.0000000   6.0000000
`

func TestRead(Te *testing.T) {
	F, err := Read(strings.NewReader(threeAtoms))
	if err != nil {
		Te.Fatal(err)
	}
	if F.Title != "ACE" || F.NAtoms() != 3 || F.Time != 1 {
		Te.Errorf("bad header %q %d %f", F.Title, F.NAtoms(), F.Time)
	}
	want := mat.NewDense(3, 3, []float64{1, 2, 3, -1.5, 0, 12.25, 4, 5, 6})
	if !mat.EqualApprox(F.Coords, want, 1e-9) {
		Te.Errorf("bad coordinates\n%v", mat.Formatted(F.Coords))
	}
	if F.Vels != nil || F.Box != nil {
		Te.Errorf("no velocities or box expected")
	}
	for _, bad := range []string{
		"only a title\n",
		"t\nabc\n   1.0000000   2.0000000   3.0000000\n",
		"t\n    3\n   1.0000000   2.0000000   3.0000000\n",
		"t\n    1\n   1.0000000   2.00\n",
	} {
		if _, err := Read(strings.NewReader(bad)); err == nil {
			Te.Errorf("%q should not be read", bad)
		}
	}
}

func TestRoundTrip(Te *testing.T) {
	F := &Frame{Title: "two atoms", Time: 10.5}
	F.Coords = mat.NewDense(2, 3, []float64{0.5, -1, 2, 3.25, 4, -5})
	F.Vels = mat.NewDense(2, 3, []float64{1, 2, 3, -4, 5, 0})
	F.Box = NewUnitCell(30, 31, 32, 90, 90, 90)
	var buf bytes.Buffer
	if err := F.Write(&buf); err != nil {
		Te.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 5 {
		Te.Errorf("expected 5 lines, got %d:\n%s", n, buf.String())
	}
	G, err := Read(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if G.Title != F.Title || !scalar.EqualWithinAbs(G.Time, 10.5, 1e-6) {
		Te.Errorf("bad header after round trip %q %f", G.Title, G.Time)
	}
	if !mat.EqualApprox(F.Coords, G.Coords, 1e-6) {
		Te.Errorf("bad coordinates after round trip\n%v", mat.Formatted(G.Coords))
	}
	//velocities are written with 7 decimals in Amber units
	if G.Vels == nil || !mat.EqualApprox(F.Vels, G.Vels, 1e-5) {
		Te.Errorf("bad velocities after round trip\n%v", G.Vels)
	}
	if G.Box == nil {
		Te.Fatal("box lost")
	}
	a, b, c := G.Box.Lengths()
	if !scalar.EqualWithinAbs(a, 30, 1e-6) || !scalar.EqualWithinAbs(b, 31, 1e-6) || !scalar.EqualWithinAbs(c, 32, 1e-6) {
		Te.Errorf("bad box lengths %f %f %f", a, b, c)
	}
}

func TestReadFile(Te *testing.T) {
	dir := Te.TempDir()
	name := filepath.Join(dir, "ace.rst7")
	os.WriteFile(name, []byte(threeAtoms), 0644)
	F, err := ReadFile(name)
	if err != nil || F.NAtoms() != 3 {
		Te.Errorf("ReadFile: %v", err)
	}
	_, err = ReadFile(filepath.Join(dir, "nope.rst7"))
	var E *Error
	if !errors.As(err, &E) || E.FileName() == "" || !E.Critical() {
		Te.Errorf("missing file: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		Te.Errorf("the cause should be kept: %v", err)
	}
}

func TestUnitCell(Te *testing.T) {
	U := NewUnitCell(1, 1, 1, 90, 90, 90)
	if U.A != (r3.Vec{X: 1}) || U.B != (r3.Vec{Y: 1}) || U.C != (r3.Vec{Z: 1}) {
		Te.Errorf("cube vectors are not orthonormal: %v %v %v", U.A, U.B, U.C)
	}
	if r3.Dot(U.A, U.B) != 0 || r3.Dot(U.B, U.C) != 0 || !scalar.EqualWithinAbs(U.Volume(), 1, 1e-12) {
		Te.Errorf("bad cube")
	}
	//truncated octahedron
	oct := 109.4712190
	U = NewUnitCell(40, 40, 40, oct, oct, oct)
	al, be, ga, err := U.Angles()
	if err != nil {
		Te.Fatal(err)
	}
	for _, v := range []float64{al, be, ga} {
		if !scalar.EqualWithinAbs(v, oct, 1e-5) {
			Te.Errorf("bad octahedron angles %f %f %f", al, be, ga)
		}
	}
	a, _, c := U.Lengths()
	if !scalar.EqualWithinAbs(a, 40, 1e-9) || !scalar.EqualWithinAbs(c, 40, 1e-5) {
		Te.Errorf("bad lengths %f %f", a, c)
	}
	var Z UnitCell
	if _, _, _, err := Z.Angles(); err == nil {
		Te.Errorf("null cell should have no angles")
	}
	if math.IsNaN(U.Volume()) {
		Te.Errorf("bad volume")
	}
}

func TestSingleAtom(Te *testing.T) {
	const withVels = "t\n    1\n   1.0000000   2.0000000   3.0000000\n   0.1000000   0.2000000   0.3000000\n"
	F, err := Read(strings.NewReader(withVels))
	if err != nil {
		Te.Fatal(err)
	}
	if F.Vels == nil || F.Box != nil {
		Te.Fatalf("one atom with velocities read as vels %v box %v", F.Vels, F.Box)
	}
	if !scalar.EqualWithinAbs(F.Vels.At(0, 2), 0.3*AmberTimePerPS, 1e-9) {
		Te.Errorf("bad velocity %f", F.Vels.At(0, 2))
	}
	const withBox = "t\n    1\n   1.0000000   2.0000000   3.0000000\n  20.0000000  20.0000000  20.0000000  90.0000000  90.0000000  90.0000000\n"
	F, err = Read(strings.NewReader(withBox))
	if err != nil {
		Te.Fatal(err)
	}
	if F.Vels != nil || F.Box == nil {
		Te.Fatalf("one atom with a box read as vels %v box %v", F.Vels, F.Box)
	}
	//and both, written by Write
	F.Vels = mat.NewDense(1, 3, []float64{1, 2, 3})
	var buf bytes.Buffer
	if err := F.Write(&buf); err != nil {
		Te.Fatal(err)
	}
	G, err := Read(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if G.Vels == nil || G.Box == nil {
		Te.Errorf("one atom with velocities and box lost something")
	}
}
