/*
 * netcdf.go, part of omm-cphmd.
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
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
	"gonum.org/v1/gonum/mat"
)

// Values of the Conventions attribute of Amber NetCDF files.
const (
	TrajectoryConventions = "AMBER"
	RestartConventions    = "AMBERRESTART"
)

var netCDFSuffixes = []string{".nc", ".ncrst", ".ncdf", ".netcdf"}

// IsNetCDF returns true if the name of the file says it is in NetCDF format.
func IsNetCDF(filename string) bool {
	return slices.Contains(netCDFSuffixes, strings.ToLower(filepath.Ext(filename)))
}

// ncNumbers flattens a number, or nested slices of numbers, as the
// NetCDF reader returns them.
func ncNumbers(v reflect.Value) ([]float64, error) {
	var ret []float64
	var walk func(r reflect.Value) error
	walk = func(r reflect.Value) error {
		switch r.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < r.Len(); i++ {
				if err := walk(r.Index(i)); err != nil {
					return err
				}
			}
		case reflect.Float32, reflect.Float64:
			ret = append(ret, r.Float())
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
			ret = append(ret, float64(r.Int()))
		case reflect.Interface:
			return walk(r.Elem())
		default:
			return fmt.Errorf("unexpected %s value", r.Kind())
		}
		return nil
	}
	if err := walk(v); err != nil {
		return nil, err
	}
	return ret, nil
}

// ncVariable returns, flattened, the values of the variable name for the
// given frame. Variables without a frame dimension are returned whole.
// It returns nil and no error if the variable is not in the file.
func ncVariable(g api.Group, name string, frame int) ([]float64, *api.Variable, error) {
	if !slices.Contains(g.ListVariables(), name) {
		return nil, nil, nil
	}
	v, err := g.GetVariable(name)
	if err != nil {
		return nil, nil, fmt.Errorf("variable %s: %w", name, err)
	}
	val := reflect.ValueOf(v.Values)
	if len(v.Dimensions) > 0 && v.Dimensions[0] == "frame" {
		if val.Kind() != reflect.Slice || frame >= val.Len() {
			return nil, nil, fmt.Errorf("variable %s: frame %d out of range", name, frame)
		}
		val = val.Index(frame)
	}
	ret, err := ncNumbers(val)
	if err != nil {
		return nil, nil, fmt.Errorf("variable %s: %w", name, err)
	}
	return ret, v, nil
}

func textAttribute(m api.AttributeMap, key string) string {
	if m == nil {
		return ""
	}
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimRight(s, "\x00")
}

func numberAttribute(m api.AttributeMap, key string, def float64) float64 {
	if m == nil {
		return def
	}
	v, ok := m.Get(key)
	if !ok {
		return def
	}
	f, err := ncNumbers(reflect.ValueOf(v))
	if err != nil || len(f) == 0 {
		return def
	}
	return f[0]
}

// ReadNetCDF reads an Amber NetCDF restart, or the first frame of an Amber
// NetCDF trajectory.
func ReadNetCDF(filename string) (*Frame, error) {
	return ReadNetCDFFrame(filename, 0)
}

// ReadNetCDFFrame reads the given (0-based) frame of an Amber NetCDF file.
// Restarts only have frame 0. Velocities, box, time and temperature
// are read if the file has them.
func ReadNetCDFFrame(filename string, frame int) (*Frame, error) {
	fail := func(message string, err error) (*Frame, error) {
		E := newError(message, err, "ReadNetCDFFrame")
		E.filename = filename
		return nil, E
	}
	g, err := netcdf.Open(filename)
	if err != nil {
		return fail(UnableToOpen, err)
	}
	defer g.Close()
	conv := textAttribute(g.Attributes(), "Conventions")
	switch conv {
	case TrajectoryConventions:
	case RestartConventions:
		if frame != 0 {
			return fail(fmt.Sprintf("%s: frame %d requested from a restart", NotAmberNetCDF, frame), nil)
		}
	default:
		return fail(fmt.Sprintf("%s: Conventions is %q", NotAmberNetCDF, conv), nil)
	}
	if frame < 0 {
		return fail(fmt.Sprintf("%s: negative frame %d", WrongFormat, frame), nil)
	}
	coords, _, err := ncVariable(g, "coordinates", frame)
	if err != nil {
		return fail(WrongFormat, err)
	}
	if len(coords) == 0 || len(coords)%3 != 0 {
		return fail(fmt.Sprintf("%s: %d coordinate values", WrongFormat, len(coords)), nil)
	}
	natoms := len(coords) / 3
	F := &Frame{Title: textAttribute(g.Attributes(), "title")}
	F.Coords = mat.NewDense(natoms, 3, coords)

	vels, v, err := ncVariable(g, "velocities", frame)
	if err != nil {
		return fail(WrongFormat, err)
	}
	if vels != nil {
		if len(vels) != len(coords) {
			return fail(fmt.Sprintf("%s: %d velocity values for %d atoms", WrongFormat, len(vels), natoms), nil)
		}
		//stored in Amber units, scale_factor takes them to A/ps.
		scale := numberAttribute(v.Attributes, "scale_factor", AmberTimePerPS)
		F.Vels = mat.NewDense(natoms, 3, vels)
		F.Vels.Scale(scale, F.Vels)
	}

	lengths, _, err := ncVariable(g, "cell_lengths", frame)
	if err != nil {
		return fail(WrongFormat, err)
	}
	angles, _, err := ncVariable(g, "cell_angles", frame)
	if err != nil {
		return fail(WrongFormat, err)
	}
	if len(lengths) == 3 && len(angles) == 3 {
		F.Box = NewUnitCell(lengths[0], lengths[1], lengths[2], angles[0], angles[1], angles[2])
	}

	for _, s := range []struct {
		name string
		dest *float64
	}{{"time", &F.Time}, {"temp0", &F.Temp0}} {
		vals, _, err := ncVariable(g, s.name, frame)
		if err != nil {
			return fail(WrongFormat, err)
		}
		if len(vals) > 0 {
			*s.dest = vals[0]
		}
	}
	return F, nil
}

func rows(M *mat.Dense, factor float64) [][]float64 {
	r, c := M.Dims()
	ret := make([][]float64, r)
	for i := range ret {
		ret[i] = make([]float64, c)
		for j := range ret[i] {
			ret[i][j] = M.At(i, j) * factor
		}
	}
	return ret
}

// WriteNetCDF writes the frame as an Amber NetCDF restart.
func (F *Frame) WriteNetCDF(filename string) error {
	fail := func(err error) error {
		E := newError(WriteError, err, "WriteNetCDF")
		E.filename = filename
		return E
	}
	natoms := F.NAtoms()
	if natoms == 0 {
		return fail(fmt.Errorf("no coordinates"))
	}
	if F.Vels != nil {
		if r, _ := F.Vels.Dims(); r != natoms {
			return fail(fmt.Errorf("%d velocities for %d atoms", r, natoms))
		}
	}
	w, err := cdf.OpenWriter(filename)
	if err != nil {
		return fail(err)
	}
	global, err := util.NewOrderedMap(
		[]string{"title", "application", "program", "programVersion", "Conventions", "ConventionVersion"},
		map[string]any{
			"title":             F.Title,
			"application":       "AMBER",
			"program":           "omm-cphmd",
			"programVersion":    "1.0",
			"Conventions":       RestartConventions,
			"ConventionVersion": "1.0",
		})
	if err != nil {
		w.Close()
		return fail(err)
	}
	if err := w.AddGlobalAttrs(global); err != nil {
		w.Close()
		return fail(err)
	}
	type ncVar struct {
		name  string
		vals  any
		dims  []string
		units string
		scale float64
	}
	vars := []ncVar{
		{"time", F.Time, nil, "picosecond", 0},
		{"coordinates", rows(F.Coords, 1), []string{"atom", "spatial"}, "angstrom", 0},
	}
	if F.Vels != nil {
		vars = append(vars, ncVar{"velocities", rows(F.Vels, 1/AmberTimePerPS), []string{"atom", "spatial"}, "angstrom/picosecond", AmberTimePerPS})
	}
	if F.Box != nil {
		a, b, c := F.Box.Lengths()
		al, be, ga, err := F.Box.Angles()
		if err != nil {
			w.Close()
			return fail(err)
		}
		vars = append(vars,
			ncVar{"cell_lengths", []float64{a, b, c}, []string{"cell_spatial"}, "angstrom", 0},
			ncVar{"cell_angles", []float64{al, be, ga}, []string{"cell_angular"}, "degree", 0})
	}
	if F.Temp0 != 0 {
		vars = append(vars, ncVar{"temp0", F.Temp0, nil, "kelvin", 0})
	}
	for _, v := range vars {
		keys := []string{"units"}
		vals := map[string]any{"units": v.units}
		if v.scale != 0 {
			keys = append(keys, "scale_factor")
			vals["scale_factor"] = v.scale
		}
		attrs, err := util.NewOrderedMap(keys, vals)
		if err != nil {
			w.Close()
			return fail(err)
		}
		if err := w.AddVar(v.name, api.Variable{Values: v.vals, Dimensions: v.dims, Attributes: attrs}); err != nil {
			w.Close()
			return fail(fmt.Errorf("variable %s: %w", v.name, err))
		}
	}
	if err := w.Close(); err != nil {
		return fail(err)
	}
	return nil
}
