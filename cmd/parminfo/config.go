/*
 * config.go, part of omm-cphmd.
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

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml"
)

// Config holds what parminfo is to do. It can be read from a TOML file, and
// command line flags override the values in the file.
type Config struct {
	Prmtops    []string `toml:"prmtops"`
	Crd        string   `toml:"crd"`        // coordinate file to check against the topology
	Plot       string   `toml:"plot"`       // charge histogram
	Scatter    string   `toml:"scatter"`    // LJ radius vs charge, colored by residue
	Bins       int      `toml:"bins"`       // for the histogram
	Exclusions []int    `toml:"exclusions"` // atoms whose exclusions are printed
}

func defaultConfig() Config {
	return Config{Bins: 20}
}

// NewConfig reads a configuration file in TOML format. Values not in
// the file keep their defaults.
func NewConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg := defaultConfig()
	dec := toml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("Decode %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.Prmtops) == 0 {
		return fmt.Errorf("no prmtop file given")
	}
	if c.Bins < 1 {
		return fmt.Errorf("number of bins must be positive, got %d", c.Bins)
	}
	if len(c.Prmtops) > 1 && (c.Crd != "" || c.Plot != "" || c.Scatter != "" || len(c.Exclusions) > 0) {
		return fmt.Errorf("coordinates, plots and exclusions need exactly one prmtop file (%d given)", len(c.Prmtops))
	}
	return nil
}

// parseExcl reads a comma-separated list of atom indexes.
func parseExcl(s string) ([]int, error) {
	var ret []int
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("bad atom index %q", v)
		}
		ret = append(ret, i)
	}
	return ret, nil
}

// parseArgs builds the configuration from the command line.
func parseArgs(args []string) (Config, error) {
	fs := flag.NewFlagSet("parminfo", flag.ContinueOnError)
	cfgFile := fs.String("config", "", "TOML configuration file")
	crdFile := fs.String("crd", "", "Amber inpcrd/restart file (ASCII or NetCDF) to check against the topology")
	plot := fs.String("plot", "", "Write a histogram of the partial charges to this file")
	scatter := fs.String("scatter", "", "Write a plot of LJ radius against charge to this file")
	bins := fs.Int("bins", 0, "Number of bins for the charge histogram")
	excl := fs.String("excl", "", "Comma-separated atoms whose exclusions will be printed")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: parminfo [flags] prmtop...\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg := defaultConfig()
	var err error
	if *cfgFile != "" {
		if cfg, err = NewConfig(*cfgFile); err != nil {
			return Config{}, fmt.Errorf("NewConfig: %w", err)
		}
	}
	if fs.NArg() > 0 {
		cfg.Prmtops = fs.Args()
	}
	if *crdFile != "" {
		cfg.Crd = *crdFile
	}
	if *plot != "" {
		cfg.Plot = *plot
	}
	if *scatter != "" {
		cfg.Scatter = *scatter
	}
	if *bins != 0 {
		cfg.Bins = *bins
	}
	if *excl != "" {
		if cfg.Exclusions, err = parseExcl(*excl); err != nil {
			return Config{}, err
		}
	}
	return cfg, cfg.validate()
}
