/*
 * errors.go, part of omm-cphmd.
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

import "fmt"

// Error is the general structure for coordinate file errors. It fullfills
// the Decorate-style error interface of the amber package.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
	err      error
}

func newError(message string, err error, caller string) *Error {
	return &Error{message: message, deco: []string{caller}, critical: true, err: err}
}

func (E *Error) Error() string {
	s := fmt.Sprintf("Amber coordinate file %s error: %s", E.filename, E.message)
	if E.err != nil {
		s += ": " + E.err.Error()
	}
	return s
}

func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func (E *Error) FileName() string { return E.filename }

func (E *Error) Format() string { return "Amber restart" }

func (E *Error) Critical() bool { return E.critical }

func (E *Error) Unwrap() error { return E.err }

const (
	UnableToOpen   = "Unable to open file"
	TooFewLines    = "Too few lines in inpcrd/restart"
	WrongFormat    = "Wrong format in the coordinate file"
	WrongLineCount = "Unknown number of lines in inpcrd/restart"
	BadCell        = "Cell vectors of 0 detected"
	WriteError     = "Error writing file"
	NotAmberNetCDF = "Not an Amber NetCDF coordinate file"
)
