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

package amber

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jchodera/omm-cphmd/prmtop"
)

// Kinds of failure. Every error returned by this package matches exactly
// one of them with errors.Is.
var (
	//the file could not be opened
	ErrSourceUnavailable = errors.New("source unavailable")
	//missing version, empty file or a syntax error in the records
	ErrMalformedSource = errors.New("malformed source")
	//a required section is missing, or has the wrong length or contents
	ErrSection = errors.New("missing or mis-sized section")
	//an index refers to something that doesn't exist
	ErrReferential = errors.New("referential violation")
)

// Refinements of ErrReferential.
var (
	ErrNonSequential = fmt.Errorf("non-sequential atom index: %w", ErrReferential)
	ErrOutOfRange    = fmt.Errorf("index out of range: %w", ErrReferential)
)

// ParmError is the error type of this package. It implements Error and
// FileError.
type ParmError struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	kind     error
	err      error
}

func newParmError(kind error, caller, format string, a ...any) *ParmError {
	return &ParmError{message: fmt.Sprintf(format, a...), kind: kind, deco: []string{caller}}
}

func (E *ParmError) Error() string {
	var b strings.Builder
	b.WriteString("amber: ")
	if E.filename != "" {
		b.WriteString(E.filename + ": ")
	}
	b.WriteString(E.kind.Error())
	if E.message != "" {
		b.WriteString(": " + E.message)
	}
	if E.err != nil {
		b.WriteString(": " + E.err.Error())
	}
	return b.String()
}

// Decorate adds deco to the list of callers, unless it is empty, and
// returns the list.
func (E *ParmError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// FileName returns the file being read when the error happened, if any.
func (E *ParmError) FileName() string {
	return E.filename
}

func (E *ParmError) Unwrap() []error {
	if E.err == nil {
		return []error{E.kind}
	}
	return []error{E.kind, E.err}
}

// fromRecords turns an error from the prmtop reader in one of the
// kinds of this package.
func fromRecords(err error, filename string) *ParmError {
	kind := ErrMalformedSource
	if errors.Is(err, prmtop.ErrNoOpen) {
		kind = ErrSourceUnavailable
	}
	E := &ParmError{filename: filename, kind: kind, err: err, deco: []string{"ReadParm"}}
	var P *prmtop.Error
	if errors.As(err, &P) {
		E.message = P.Status().String()
	}
	return E
}
