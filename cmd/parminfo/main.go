/*
 * main.go, part of omm-cphmd.
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

// Command parminfo reads Amber prmtop files and reports what is in them.
//
//	parminfo [-config file.toml] [-crd file.rst7|file.ncrst] [-plot q.png] [-scatter lj.png] [-bins n] [-excl i,j] prmtop...
//
// Several prmtop files are read in parallel. Coordinate files can be ASCII
// or, if their name ends in .nc, .ncrst, .ncdf or .netcdf, NetCDF.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	amber "github.com/jchodera/omm-cphmd"
	"github.com/jchodera/omm-cphmd/chemplot"
	"github.com/jchodera/omm-cphmd/crd"
	"gonum.org/v1/gonum/stat"
)

func main() {
	log := log.New(os.Stdout, "", log.LstdFlags)

	c, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(fmt.Errorf("parseArgs: %w", err))
	}
	if err := c.Start(log, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// Start processes every prmtop file. It returns the errors of all the
// files that failed.
func (c Config) Start(log *log.Logger, out io.Writer) error {
	errs := make([]error, len(c.Prmtops))
	var wg sync.WaitGroup
	for i, name := range c.Prmtops {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			if err := c.process(name, log, out); err != nil {
				errs[i] = fmt.Errorf("process %s: %w", name, err)
				log.Println(errs[i])
			}
		}(i, name)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (c Config) process(name string, log *log.Logger, out io.Writer) error {
	P, err := amber.ReadParm(name)
	if err != nil {
		return err
	}
	s, err := summary(P)
	if err != nil {
		return err
	}
	log.Printf("%s:\n%s", name, s)
	if c.Crd != "" {
		F, err := crd.ReadFile(c.Crd)
		if err != nil {
			return err
		}
		if F.NAtoms() != P.NAtoms() {
			return fmt.Errorf("%s has %d atoms, the topology has %d", c.Crd, F.NAtoms(), P.NAtoms())
		}
		msg := fmt.Sprintf("%s: %d atoms match the topology", c.Crd, F.NAtoms())
		if F.Vels != nil {
			msg += ", with velocities"
		}
		if F.Box != nil {
			a, b, cl := F.Box.Lengths()
			msg += fmt.Sprintf(", box %.3f x %.3f x %.3f", a, b, cl)
		}
		log.Println(msg)
	}
	if c.Plot != "" {
		if err := chemplot.ChargeHistogram(P, c.Bins, c.Plot); err != nil {
			return err
		}
		log.Println("charge histogram written to", c.Plot)
	}
	if c.Scatter != "" {
		groups := make([]int, P.NAtoms())
		for i := range groups {
			groups[i] = P.ResidueOf(i)
		}
		q := func(a amber.Atom) float64 { return a.Charge }
		r := func(a amber.Atom) float64 { return a.LJRadius }
		if err := chemplot.AtomScatter(P, q, r, groups, "LJ radius vs charge", "Charge (e)", "Rmin/2 (A)", c.Scatter); err != nil {
			return err
		}
		log.Println("scatter plot written to", c.Scatter)
	}
	for _, i := range c.Exclusions {
		if err := P.PrintExclusions(out, i); err != nil {
			return err
		}
	}
	return nil
}

var boxNames = map[int]string{
	amber.NoBox:          "none",
	amber.RectangularBox: "rectangular",
	amber.OctahedralBox:  "truncated octahedron",
}

// summary describes the topology in a few lines.
func summary(P *amber.Parm) (string, error) {
	var b strings.Builder
	if P.Title != "" {
		fmt.Fprintf(&b, "  title:      %s\n", P.Title)
	}
	fmt.Fprintf(&b, "  atoms:      %d in %d residues\n", P.NAtoms(), P.NResidues())
	fmt.Fprintf(&b, "  terms:      %d bonds, %d angles, %d dihedrals\n", P.NBonds(), P.NAngles(), P.NDihedrals())
	G, err := P.BondGraph()
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "  molecules:  %d\n", len(G.Components()))
	fmt.Fprintf(&b, "  1-4 pairs:  %d\n", len(P.Exceptions()))
	fmt.Fprintf(&b, "  charge:     %.4f e\n", P.TotalCharge())
	fmt.Fprintf(&b, "  mass:       %.3f\n", P.TotalMass())
	if P.NAtoms() > 1 {
		radii := make([]float64, P.NAtoms())
		for i := range radii {
			radii[i] = P.Atom(i).LJRadius
		}
		mean, std := stat.MeanStdDev(radii, nil)
		fmt.Fprintf(&b, "  LJ radius:  %.4f +/- %.4f A\n", mean, std)
	}
	fmt.Fprintf(&b, "  box:        %s", boxNames[P.IfBox()])
	if d := P.BoxDimensions(); d != nil {
		fmt.Fprintf(&b, " (%.3f x %.3f x %.3f, beta %.2f)", d[1], d[2], d[3], d[0])
	}
	b.WriteString("\n")
	return b.String(), nil
}
