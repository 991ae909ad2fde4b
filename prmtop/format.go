/*
 * format.go, part of omm-cphmd.
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

package prmtop

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Format is a Fortran edit descriptor such as 10I8 or 5E16.8: PerLine
// values per line, each Width characters wide.
type Format struct {
	PerLine   int
	Letter    byte
	Width     int
	Precision int
}

// The formats Amber programs write.
var (
	IntFormat   = Format{PerLine: 10, Letter: 'I', Width: 8}
	FloatFormat = Format{PerLine: 5, Letter: 'E', Width: 16, Precision: 8}
	TextFormat  = Format{PerLine: 20, Letter: 'a', Width: 4}
)

var formatRe = regexp.MustCompile(`^\(\s*(\d*)\s*([aAiIeEfFdDgG])\s*(\d+)(?:\.(\d+))?\s*\)`)

// ParseFormat reads a descriptor in the form it has after %FORMAT,
// i.e. "(10I8)".
func ParseFormat(s string) (Format, error) {
	m := formatRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Format{}, fmt.Errorf("can't understand format %q", s)
	}
	var F Format
	var err error
	F.PerLine = 1
	if m[1] != "" {
		F.PerLine, err = strconv.Atoi(m[1])
		if err != nil {
			return Format{}, err
		}
	}
	F.Letter = m[2][0]
	F.Width, err = strconv.Atoi(m[3])
	if err != nil {
		return Format{}, err
	}
	if m[4] != "" {
		F.Precision, err = strconv.Atoi(m[4])
		if err != nil {
			return Format{}, err
		}
	}
	if F.PerLine <= 0 || F.Width <= 0 {
		return Format{}, fmt.Errorf("format %q has no room for values", s)
	}
	return F, nil
}

// Kind returns the type of the values described by the format.
func (F Format) Kind() Kind {
	switch F.Letter {
	case 'i', 'I':
		return Integer
	case 'a', 'A':
		return Text
	}
	return Float
}

func (F Format) String() string {
	if F.Kind() == Float {
		return fmt.Sprintf("%d%c%d.%d", F.PerLine, F.Letter, F.Width, F.Precision)
	}
	return fmt.Sprintf("%d%c%d", F.PerLine, F.Letter, F.Width)
}

// fields cuts a data line in fixed-width pieces. Missing trailing
// pieces are not returned.
func (F Format) fields(line string) []string {
	ret := make([]string, 0, F.PerLine)
	for i := 0; i < F.PerLine && i*F.Width < len(line); i++ {
		end := (i + 1) * F.Width
		if end > len(line) {
			end = len(line)
		}
		ret = append(ret, line[i*F.Width:end])
	}
	return ret
}

// value formats v to fit the descriptor.
func (F Format) value(v any) (string, error) {
	switch F.Kind() {
	case Integer:
		s := fmt.Sprintf("%*d", F.Width, v.(int))
		if len(s) > F.Width {
			return "", fmt.Errorf("integer %d doesn't fit in %d columns", v.(int), F.Width)
		}
		return s, nil
	case Text:
		t := v.(string)
		if len(t) > F.Width {
			return "", fmt.Errorf("string %q doesn't fit in %d columns", t, F.Width)
		}
		return fmt.Sprintf("%-*s", F.Width, t), nil
	}
	var s string
	switch F.Letter {
	case 'f', 'F':
		s = fmt.Sprintf("%*.*f", F.Width, F.Precision, v.(float64))
	default:
		s = fmt.Sprintf("%*.*E", F.Width, F.Precision, v.(float64))
	}
	if len(s) > F.Width {
		return "", fmt.Errorf("number %g doesn't fit in %d columns", v.(float64), F.Width)
	}
	return s, nil
}

// parseLine appends the values in one data line to the section.
func (S *Section) parseLine(line string) error {
	for _, f := range S.Format.fields(line) {
		switch S.Kind() {
		case Text:
			//leading blanks are part of the text
			S.Strings = append(S.Strings, strings.TrimRight(f, " "))
		case Integer:
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			i, err := strconv.Atoi(f)
			if err != nil {
				return fmt.Errorf("section %s: bad integer %q", S.Flag, f)
			}
			S.Ints = append(S.Ints, i)
		case Float:
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			//Fortran double precision exponents
			f = strings.Map(func(r rune) rune {
				if r == 'D' || r == 'd' {
					return 'E'
				}
				return r
			}, f)
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return fmt.Errorf("section %s: bad number %q", S.Flag, f)
			}
			S.Floats = append(S.Floats, x)
		}
	}
	return nil
}
