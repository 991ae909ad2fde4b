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

package prmtop

import (
	"errors"
	"fmt"
)

// Status tells why reading a file failed.
type Status int

const (
	OK         Status = iota
	NoOpen            // the file could not be opened
	NoVersion         // the first line is not a %VERSION line
	Empty             // there is nothing in the file
	ParseError        // anything else
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case NoOpen:
		return "NoOpen"
	case NoVersion:
		return "NoVersion"
	case Empty:
		return "Empty"
	case ParseError:
		return "ParseError"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Sentinels that match, with errors.Is, any *Error with the corresponding status.
var (
	ErrNoOpen    = errors.New("prmtop: could not open file")
	ErrNoVersion = errors.New("prmtop: missing %VERSION")
	ErrEmpty     = errors.New("prmtop: empty file")
	ErrParse     = errors.New("prmtop: parse error")
)

// Error messages
const (
	UnableToOpen   = "Unable to open file"
	MissingVersion = "No %VERSION in file. Bad prmtop format"
	EmptyFile      = "File was empty"
	WrongFormat    = "Wrong format in prmtop file"
)

// Error is the error returned by the readers in this package. It
// can be decorated with the names of the functions it passed through.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	line     int    //0 if no particular line is at fault
	deco     []string
	status   Status
	err      error
}

func newError(status Status, message string, line int, err error, caller string) *Error {
	return &Error{message: message, line: line, deco: []string{caller}, status: status, err: err}
}

func (E *Error) Error() string {
	ret := "prmtop"
	if E.filename != "" {
		ret += " file " + E.filename
	}
	ret += " error: " + E.message
	if E.line > 0 {
		ret += fmt.Sprintf(" (line %d)", E.line)
	}
	if E.err != nil {
		ret += ": " + E.err.Error()
	}
	return ret
}

// Decorate adds the name of a caller to the error trail and returns
// the whole trail. An empty string only returns the trail.
func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// Status returns the reason of the failure.
func (E *Error) Status() Status { return E.status }

// FileName returns the name of the file being read, if known.
func (E *Error) FileName() string { return E.filename }

// Line returns the line at fault, or 0.
func (E *Error) Line() int { return E.line }

func (E *Error) Unwrap() error { return E.err }

// Is makes the Err* sentinels match errors with the same status.
func (E *Error) Is(target error) bool {
	switch target {
	case ErrNoOpen:
		return E.status == NoOpen
	case ErrNoVersion:
		return E.status == NoVersion
	case ErrEmpty:
		return E.status == Empty
	case ErrParse:
		return E.status == ParseError
	}
	return false
}
