/*
 * read.go, part of mdconv.
 *
 * Copyright 2026 The mdconv Authors
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

package gro

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/mdconv/mdconv/internal/zio"
)

var (
	atomRe = regexp.MustCompile(`^\s*\d{0,5}.{5}.{5}\s*\d{0,5}(?:\s*-?\d+\.\d+){3}`)
	velRe  = regexp.MustCompile(`^(?:\s*-?\d+\.\d+){3}`)
	boxRe  = regexp.MustCompile(`^(?:\s*-?\d+\.\d+){3,}\s*$`)
)

// Column layout of an atom record. Velocities start at velStart and take
// velWidth columns each.
const (
	coordStart = 20
	coordWidth = 8
	velStart   = 44
	velWidth   = 8
)

const maxPrealloc = 1 << 20

type state int

const (
	expectTitle state = iota
	expectCount
	expectRecords
	expectEnd
)

// parser is the state machine that turns GRO lines into frames. Every
// frame is a title line, a count line, atom lines and a box line.
// Lines that are neither atoms nor a box are skipped.
type parser struct {
	filename string
	state    state
	line     int
	frames   []*Frame
	cur      *Frame
	skipped  int
}

func (p *parser) index() int {
	return len(p.frames) - 1
}

func (p *parser) errorf(kind Kind, field Field, wrapped error, format string, args ...interface{}) *Error {
	err := newError(kind, p.index(), field, fmt.Sprintf(format, args...), "parse")
	err.Line = p.line
	err.filename = p.filename
	err.err = wrapped
	return err
}

func (p *parser) parse(r io.Reader) ([]*Frame, error) {
	br := bufio.NewReader(r)
	for {
		s, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if s != "" {
			p.line++
			if perr := p.feed(strings.TrimRight(s, "\r\n")); perr != nil {
				return nil, perr
			}
		}
		if err == io.EOF {
			break
		}
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return p.frames, nil
}

func (p *parser) feed(line string) error {
	switch p.state {
	case expectTitle:
		p.cur = &Frame{Title: line}
		p.frames = append(p.frames, p.cur)
		p.state = expectCount
	case expectCount:
		if strings.TrimSpace(line) == "" && strings.TrimSpace(p.cur.Title) == "" {
			p.frames = p.frames[:len(p.frames)-1]
			p.state = expectEnd
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return p.errorf(ErrFormat, NoField, err, "atom count %q is not an integer", line)
		}
		if n < 0 {
			return p.errorf(ErrFormat, NoField, nil, "negative atom count %d", n)
		}
		p.cur.NAtoms = n
		p.cur.Atoms = make([]Atom, 0, min(n, maxPrealloc))
		p.state = expectRecords
	case expectRecords:
		if isAtomLine(line) {
			a, hasVel, err := parseAtom(line)
			if err != nil {
				return p.errorf(ErrFormat, err.Field, err.err, "%s", err.message)
			}
			if len(p.cur.Atoms) == 0 {
				p.cur.HasVel = hasVel
			} else if hasVel != p.cur.HasVel {
				return p.errorf(ErrFormat, Vel, nil, "atom %d has velocities %t, but the first atom of the frame %t", len(p.cur.Atoms)+1, hasVel, p.cur.HasVel)
			}
			p.cur.Atoms = append(p.cur.Atoms, a)
			return nil
		}
		if boxRe.MatchString(line) {
			fields := strings.Fields(line)
			if len(fields) > 9 {
				return p.errorf(ErrFormat, NoField, nil, "box line has %d values, at most 9 are allowed", len(fields))
			}
			box := make([]float64, len(fields))
			for i, v := range fields {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return p.errorf(ErrFormat, NoField, err, "box value %q", v)
				}
				box[i] = f
			}
			p.cur.Box = box
			if err := p.closeFrame(); err != nil {
				return err
			}
			p.state = expectTitle
			return nil
		}
		p.skipped++
	case expectEnd:
		if strings.TrimSpace(line) != "" {
			return p.errorf(ErrFormat, NoField, nil, "data after blank lines at the end of the trajectory")
		}
	}
	return nil
}

// closeFrame verifies the frame just read.
func (p *parser) closeFrame() error {
	if len(p.cur.Atoms) != p.cur.NAtoms {
		return p.errorf(ErrFormat, NoField, nil, "%d atoms declared, %d read", p.cur.NAtoms, len(p.cur.Atoms))
	}
	return nil
}

// finish deals with the end of the input. A frame without box is kept,
// trailing blank lines are dropped.
func (p *parser) finish() error {
	switch p.state {
	case expectCount:
		if strings.TrimSpace(p.cur.Title) == "" {
			p.frames = p.frames[:len(p.frames)-1]
			return nil
		}
		return p.errorf(ErrFormat, NoField, nil, "input ends after the title line")
	case expectRecords:
		return p.closeFrame()
	}
	return nil
}

// column returns line[a:b], clipped to the length of the line.
func column(line string, a, b int) string {
	if a > len(line) {
		return ""
	}
	if b > len(line) {
		b = len(line)
	}
	return line[a:b]
}

func isDigits(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isAtomLine tells atom records apart from the rest. The regular
// expression alone accepts some triclinic box lines, so the residue and
// atom number columns also have to be integers.
func isAtomLine(line string) bool {
	return atomRe.MatchString(line) && isDigits(column(line, 0, 5)) && isDigits(column(line, 15, 20))
}

// parseAtom reads an atom record. It returns whether the record has velocities.
func parseAtom(line string) (Atom, bool, *Error) {
	var a Atom
	var err error
	a.ResID, err = strconv.Atoi(strings.TrimSpace(column(line, 0, 5)))
	if err != nil {
		return a, false, &Error{Field: ResidueIndex, message: "residue number", err: err}
	}
	a.ResName = column(line, 5, 10)
	a.Name = column(line, 10, 15)
	a.ID, err = strconv.Atoi(strings.TrimSpace(column(line, 15, 20)))
	if err != nil {
		return a, false, &Error{Field: AtomIndex, message: "atom number", err: err}
	}
	for k := 0; k < 3; k++ {
		s := column(line, coordStart+k*coordWidth, coordStart+(k+1)*coordWidth)
		a.Pos[k], err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return a, false, &Error{Field: CoordX + Field(k), message: "coordinate", err: err}
		}
	}
	rest := column(line, velStart, len(line))
	if !velRe.MatchString(rest) {
		return a, false, nil
	}
	for k := 0; k < 3; k++ {
		s := column(rest, k*velWidth, (k+1)*velWidth)
		a.Vel[k], err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return a, false, &Error{Field: VelX + Field(k), message: "velocity", err: err}
		}
	}
	return a, true, nil
}

// Read parses GRO data from r into a new trajectory.
func Read(r io.Reader) (*Trajectory, error) {
	p := &parser{}
	frames, err := p.parse(r)
	if err != nil {
		return nil, err
	}
	return &Trajectory{frames: frames}, nil
}

// ReadFile reads the GRO file name into a new trajectory. Files ending in
// .gz or .zst are decompressed on the fly.
func ReadFile(name string) (*Trajectory, error) {
	T := New()
	if err := T.Load(name); err != nil {
		return nil, err
	}
	return T, nil
}

// Load replaces the frames of the receiver with those read from the GRO
// file name. If an error is returned, the receiver is not modified. Errors
// from opening the file are returned as they are.
func (T *Trajectory) Load(name string) error {
	f, err := zio.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	p := &parser{filename: name}
	frames, err := p.parse(f)
	if err != nil {
		return err
	}
	if p.skipped > 0 {
		log.Printf("gro: %d unrecognized lines skipped while reading %s", p.skipped, name)
	}
	T.filename = name
	T.frames = frames
	return nil
}
