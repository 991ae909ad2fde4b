/*
 * write.go, part of omm-cphmd.
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
	"fmt"
	"io"
	"os"
	"strings"
)

// Write writes D in prmtop format to w. Sections are written in the
// order they were read or added.
func (D *Data) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%%VERSION %s\n", D.Version); err != nil {
		return fmt.Errorf("Write: %w", err)
	}
	for _, flag := range D.flags {
		if err := D.sections[flag].write(bw); err != nil {
			return fmt.Errorf("Write: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("Write: %w", err)
	}
	return nil
}

// WriteFile writes D to a new file with the given name.
func (D *Data) WriteFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("WriteFile: %w", err)
	}
	if err := D.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("WriteFile %s: %w", filename, err)
	}
	return f.Close()
}

func (S *Section) write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%%FLAG %s\n", S.Flag); err != nil {
		return err
	}
	for _, c := range S.Comments {
		if _, err := fmt.Fprintf(w, "%%COMMENT %s\n", c); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%%FORMAT(%s)\n", S.Format); err != nil {
		return err
	}
	n := S.Len()
	if n == 0 {
		_, err := io.WriteString(w, "\n")
		return err
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		var v any
		switch S.Kind() {
		case Integer:
			v = S.Ints[i]
		case Float:
			v = S.Floats[i]
		default:
			v = S.Strings[i]
		}
		s, err := S.Format.value(v)
		if err != nil {
			return fmt.Errorf("section %s: %w", S.Flag, err)
		}
		b.WriteString(s)
		if (i+1)%S.Format.PerLine == 0 || i == n-1 {
			b.WriteByte('\n')
			if _, err := io.WriteString(w, b.String()); err != nil {
				return err
			}
			b.Reset()
		}
	}
	return nil
}
