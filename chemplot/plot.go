/*
 * plot.go, part of omm-cphmd.
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

// Package chemplot draws plots of per-atom topology parameters. The format
// of each file is given by the extension of its name (png, svg, pdf...).
package chemplot

import (
	"fmt"
	"image/color"
	"math"

	amber "github.com/jchodera/omm-cphmd"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Size of the saved plots.
var (
	Width  = 5 * vg.Inch
	Height = 4 * vg.Inch
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

// Histogram plots the distribution of values in bins bins and saves it to
// filename.
func Histogram(values []float64, bins int, title, xlabel, filename string) error {
	if len(values) == 0 {
		return fmt.Errorf("Histogram: no values to plot")
	}
	if bins < 1 {
		return fmt.Errorf("Histogram: need at least one bin, got %d", bins)
	}
	p := basicPlot(title, xlabel, "Count")
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return fmt.Errorf("Histogram: %w", err)
	}
	h.FillColor = color.RGBA{R: 80, G: 120, B: 220, A: 255}
	p.Add(h)
	if err := p.Save(Width, Height, filename); err != nil {
		return fmt.Errorf("Histogram: %w", err)
	}
	return nil
}

// AtomHistogram plots the distribution of the property prop over all the
// atoms in A.
func AtomHistogram(A amber.Atomer, prop func(amber.Atom) float64, bins int, title, xlabel, filename string) error {
	values := make([]float64, A.NAtoms())
	for i := range values {
		values[i] = prop(A.Atom(i))
	}
	return Histogram(values, bins, title, xlabel, filename)
}

// ChargeHistogram plots the distribution of partial charges in A.
func ChargeHistogram(A amber.Atomer, bins int, filename string) error {
	return AtomHistogram(A, func(at amber.Atom) float64 { return at.Charge }, bins, "Partial charges", "Charge (e)", filename)
}

// AtomScatter plots x against y for each atom in A. Atoms in the same group
// (for instance, residue) get the same color. groups can be nil.
func AtomScatter(A amber.Atomer, x, y func(amber.Atom) float64, groups []int, title, xlabel, ylabel, filename string) error {
	n := A.NAtoms()
	if n == 0 {
		return fmt.Errorf("AtomScatter: no atoms to plot")
	}
	if groups != nil && len(groups) != n {
		return fmt.Errorf("AtomScatter: %d groups for %d atoms", len(groups), n)
	}
	p := basicPlot(title, xlabel, ylabel)
	//points are grouped so each group is one plotter.
	byGroup := make(map[int]plotter.XYs)
	keys := make([]int, 0)
	for i := 0; i < n; i++ {
		g := 0
		if groups != nil {
			g = groups[i]
		}
		if _, ok := byGroup[g]; !ok {
			keys = append(keys, g)
		}
		at := A.Atom(i)
		byGroup[g] = append(byGroup[g], plotter.XY{X: x(at), Y: y(at)})
	}
	for k, g := range keys {
		s, err := plotter.NewScatter(byGroup[g])
		if err != nil {
			return fmt.Errorf("AtomScatter: %w", err)
		}
		r, gr, b := colors(k, len(keys))
		s.GlyphStyle.Color = color.RGBA{R: r, G: gr, B: b, A: 255}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
	}
	if err := p.Save(Width, Height, filename); err != nil {
		return fmt.Errorf("AtomScatter: %w", err)
	}
	return nil
}

// takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conversion), uint8(g * conversion), uint8(b * conversion)
}

// colors returns the color for the key-th of steps groups, going
// around the hue circle and skipping the yellows.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64(key)*norm + 20.0
	h := hp + 20.0
	if hp < 55 {
		h = hp - 20.0
	}
	return iHVS2RGB(h, 1, 1)
}
