/*
 * crd.go, part of omm-cphmd.
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

// Package crd reads and writes Amber coordinate files: ASCII inpcrd and
// restart (a.k.a. rst7) files, and NetCDF restarts and trajectories.
package crd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/mat"
)

// AmberTimePerPS converts velocities from A per Amber time unit to A/ps.
const AmberTimePerPS = 20.455

const fieldWidth = 12

// Frame is the contents of a coordinate file.
type Frame struct {
	Title  string
	Time   float64 //ps, 0 if not given
	Temp0  float64 //replica exchange temperature, 0 if not given
	Coords *mat.Dense
	Vels   *mat.Dense //A/ps, nil if absent
	Box    *UnitCell  //nil if absent
}

// NAtoms returns the number of atoms in the frame.
func (F *Frame) NAtoms() int {
	if F.Coords == nil {
		return 0
	}
	r, _ := F.Coords.Dims()
	return r
}

// ReadFile reads a coordinate file. Files ending in .gz are
// decompressed, and NetCDF files (see IsNetCDF) are read with
// ReadNetCDF.
func ReadFile(filename string) (*Frame, error) {
	if IsNetCDF(filename) {
		return ReadNetCDF(filename)
	}
	f, err := os.Open(filename)
	if err != nil {
		E := newError(UnableToOpen, err, "ReadFile")
		E.filename = filename
		return nil, E
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			E := newError(UnableToOpen, err, "ReadFile")
			E.filename = filename
			return nil, E
		}
		defer gz.Close()
		r = gz
	}
	F, err := Read(r)
	if err != nil {
		if E, ok := err.(*Error); ok {
			E.filename = filename
			E.Decorate("ReadFile")
		}
		return nil, err
	}
	return F, nil
}

// field returns the n-th 12-character number in line.
func field(line string, n int) (float64, error) {
	if len(line) < (n+1)*fieldWidth {
		return 0, fmt.Errorf("line too short for field %d: %q", n+1, line)
	}
	return strconv.ParseFloat(strings.TrimSpace(line[n*fieldWidth:(n+1)*fieldWidth]), 64)
}

// readPairs fills the N×3 matrix M from lines holding 2 atoms each, 6F12.7,
// multiplying every value by factor.
func readPairs(lines []string, M *mat.Dense, factor float64) error {
	natoms, _ := M.Dims()
	for i := 0; i < natoms; i++ {
		line := lines[i/2]
		for j := 0; j < 3; j++ {
			v, err := field(line, 3*(i%2)+j)
			if err != nil {
				return err
			}
			M.Set(i, j, v*factor)
		}
	}
	return nil
}

// Read reads a coordinate frame from r. Whether velocities and box are
// present is inferred from the number of lines.
func Read(r io.Reader) (*Frame, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, newError(WrongFormat, err, "Read")
	}
	for len(lines) > 2 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) < 2 {
		return nil, newError(TooFewLines, nil, "Read")
	}
	F := &Frame{Title: strings.TrimSpace(lines[0])}
	words := strings.Fields(lines[1])
	if len(words) == 0 {
		return nil, newError(WrongFormat, nil, "Read")
	}
	natoms, err := strconv.Atoi(words[0])
	if err != nil || natoms <= 0 {
		return nil, newError(WrongFormat+": bad number of atoms", err, "Read")
	}
	if len(words) > 1 {
		if F.Time, err = strconv.ParseFloat(words[1], 64); err != nil {
			return nil, newError(WrongFormat+": bad time", err, "Read")
		}
	}
	if len(words) > 2 {
		if F.Temp0, err = strconv.ParseFloat(words[2], 64); err != nil {
			return nil, newError(WrongFormat+": bad temperature", err, "Read")
		}
	}
	nl := (natoms + 1) / 2
	var vels, box bool
	switch n := len(lines); {
	case n == nl+2:
	case natoms == 1 && n == 4:
		//a velocity line or a box line, which has 6 numbers.
		if len(strings.Fields(lines[3])) >= 6 {
			box = true
		} else {
			vels = true
		}
	case n == nl+3:
		box = true
	case n == 2*nl+2:
		vels = true
	case n == 2*nl+3:
		vels, box = true, true
	default:
		return nil, newError(fmt.Sprintf("%s: %d lines for %d atoms", WrongLineCount, len(lines), natoms), nil, "Read")
	}
	cur := 2
	F.Coords = mat.NewDense(natoms, 3, nil)
	if err := readPairs(lines[cur:cur+nl], F.Coords, 1); err != nil {
		return nil, newError(WrongFormat, err, "Read")
	}
	cur += nl
	if vels {
		F.Vels = mat.NewDense(natoms, 3, nil)
		if err := readPairs(lines[cur:cur+nl], F.Vels, AmberTimePerPS); err != nil {
			return nil, newError(WrongFormat, err, "Read")
		}
		cur += nl
	}
	if box {
		var b [6]float64
		for i := range b {
			if b[i], err = field(lines[cur], i); err != nil {
				return nil, newError(WrongFormat+": bad box line", err, "Read")
			}
		}
		F.Box = NewUnitCell(b[0], b[1], b[2], b[3], b[4], b[5])
	}
	return F, nil
}

func writePairs(w io.Writer, M *mat.Dense, factor float64) error {
	natoms, _ := M.Dims()
	for i := 0; i < natoms; i++ {
		if _, err := fmt.Fprintf(w, "%12.7f%12.7f%12.7f", M.At(i, 0)*factor, M.At(i, 1)*factor, M.At(i, 2)*factor); err != nil {
			return err
		}
		if i%2 == 1 || i == natoms-1 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// Write writes the frame in restart format. Velocities and box are
// written only if present.
func (F *Frame) Write(w io.Writer) error {
	natoms := F.NAtoms()
	if natoms == 0 {
		return newError(WriteError+": no coordinates", nil, "Write")
	}
	if F.Vels != nil {
		if r, _ := F.Vels.Dims(); r != natoms {
			return newError(fmt.Sprintf("%s: %d velocities for %d atoms", WriteError, r, natoms), nil, "Write")
		}
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n%5d", F.Title, natoms)
	if F.Time != 0 || F.Temp0 != 0 {
		fmt.Fprintf(bw, "%15.7E", F.Time)
	}
	if F.Temp0 != 0 {
		fmt.Fprintf(bw, "%15.7E", F.Temp0)
	}
	fmt.Fprint(bw, "\n")
	if err := writePairs(bw, F.Coords, 1); err != nil {
		return newError(WriteError, err, "Write")
	}
	if F.Vels != nil {
		if err := writePairs(bw, F.Vels, 1/AmberTimePerPS); err != nil {
			return newError(WriteError, err, "Write")
		}
	}
	if F.Box != nil {
		a, b, c := F.Box.Lengths()
		al, be, ga, err := F.Box.Angles()
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "%12.7f%12.7f%12.7f%12.7f%12.7f%12.7f\n", a, b, c, al, be, ga)
	}
	if err := bw.Flush(); err != nil {
		return newError(WriteError, err, "Write")
	}
	return nil
}
