/*
 * read.go, part of omm-cphmd.
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
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// prmtop lines are short, but some programs write the whole TITLE in one line.
const maxLine = 1 << 20

// ReadFile reads a prmtop file. Files ending in .gz or .zst are
// decompressed on the fly.
func ReadFile(filename string) (*Data, error) {
	f, err := os.Open(filename)
	if err != nil {
		E := newError(NoOpen, UnableToOpen, 0, err, "ReadFile")
		E.filename = filename
		return nil, E
	}
	defer f.Close()
	var r io.Reader = f
	switch {
	case strings.HasSuffix(filename, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			E := newError(NoOpen, UnableToOpen, 0, err, "ReadFile")
			E.filename = filename
			return nil, E
		}
		defer gz.Close()
		r = gz
	case strings.HasSuffix(filename, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			E := newError(NoOpen, UnableToOpen, 0, err, "ReadFile")
			E.filename = filename
			return nil, E
		}
		zrc := zr.IOReadCloser()
		defer zrc.Close()
		r = zrc
	}
	D, err := Read(r)
	if err != nil {
		if E, ok := err.(*Error); ok {
			E.filename = filename
			E.Decorate("ReadFile")
		}
		return nil, err
	}
	return D, nil
}

// Read reads prmtop records from r. The values of each section are
// stored as given by its %FORMAT line, nothing else is checked.
func Read(r io.Reader) (*Data, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	var D *Data
	var cur *Section
	formatted := false //whether cur already got its %FORMAT line
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if D == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !strings.HasPrefix(line, "%VERSION") {
				return nil, newError(NoVersion, MissingVersion, lineno, nil, "Read")
			}
			D = NewData(strings.TrimSpace(strings.TrimPrefix(line, "%VERSION")))
			continue
		}
		switch {
		case strings.HasPrefix(line, "%FLAG"):
			flag := strings.TrimSpace(strings.TrimPrefix(line, "%FLAG"))
			if flag == "" {
				return nil, newError(ParseError, WrongFormat+": %FLAG without a name", lineno, nil, "Read")
			}
			cur = &Section{Flag: flag}
			formatted = false
			if err := D.add(cur); err != nil {
				return nil, newError(ParseError, WrongFormat, lineno, err, "Read")
			}
		case strings.HasPrefix(line, "%COMMENT"):
			if cur != nil {
				cur.Comments = append(cur.Comments, strings.TrimSpace(strings.TrimPrefix(line, "%COMMENT")))
			}
		case strings.HasPrefix(line, "%FORMAT"):
			if cur == nil {
				return nil, newError(ParseError, WrongFormat+": %FORMAT before any %FLAG", lineno, nil, "Read")
			}
			F, err := ParseFormat(strings.TrimPrefix(line, "%FORMAT"))
			if err != nil {
				return nil, newError(ParseError, WrongFormat, lineno, err, "Read")
			}
			cur.Format = F
			formatted = true
		case strings.HasPrefix(line, "%"):
			//other directives are not used by anybody.
		default:
			if strings.TrimSpace(line) == "" {
				continue
			}
			if cur == nil || !formatted {
				return nil, newError(ParseError, WrongFormat+": data outside a formatted section", lineno, nil, "Read")
			}
			if err := cur.parseLine(line); err != nil {
				return nil, newError(ParseError, WrongFormat, lineno, err, "Read")
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, newError(ParseError, WrongFormat, lineno, err, "Read")
	}
	if D == nil || D.Len() == 0 {
		return nil, newError(Empty, EmptyFile, 0, nil, "Read")
	}
	return D, nil
}
