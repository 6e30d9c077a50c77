/*
 * gro.go, part of mdconv.
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
	"fmt"
	"math"
	"strconv"
	"strings"

	v3 "github.com/mdconv/mdconv/v3"
)

// Atom is one atom record of a GRO frame. ResName and Name keep the
// raw 5-column fields, padding included. Vel is only meaningful if the
// frame that contains the atom has velocities.
type Atom struct {
	ResID   int
	ResName string
	Name    string
	ID      int
	Pos     [3]float64
	Vel     [3]float64
}

// Frame is one snapshot of a GRO trajectory.
type Frame struct {
	Title  string
	NAtoms int //as declared in the file
	Atoms  []Atom
	Box    []float64
	HasVel bool //all the atoms have velocities, or none has.
}

// Copy returns a deep copy of the frame.
func (F *Frame) Copy() *Frame {
	r := &Frame{Title: F.Title, NAtoms: F.NAtoms, HasVel: F.HasVel}
	r.Atoms = make([]Atom, len(F.Atoms))
	copy(r.Atoms, F.Atoms)
	if F.Box != nil {
		r.Box = make([]float64, len(F.Box))
		copy(r.Box, F.Box)
	}
	return r
}

// check verifies that the frame can be written as GRO.
func (F *Frame) check(index int, caller string) error {
	if strings.ContainsAny(F.Title, "\r\n") {
		return newError(ErrInvalidValue, index, NoField, "title contains a line break", caller)
	}
	if len(F.Atoms) != F.NAtoms {
		return newError(ErrFormat, index, NoField, fmt.Sprintf("%d atoms declared, %d present", F.NAtoms, len(F.Atoms)), caller)
	}
	if len(F.Box) != 0 {
		if err := checkBox(F.Box, index, caller); err != nil {
			return err
		}
	}
	for i, a := range F.Atoms {
		if len(a.ResName) > nameWidth {
			return newError(ErrInvalidValue, index, ResidueName, fmt.Sprintf("atom %d: %q is wider than %d columns", i, a.ResName, nameWidth), caller)
		}
		if len(a.Name) > nameWidth {
			return newError(ErrInvalidValue, index, AtomName, fmt.Sprintf("atom %d: %q is wider than %d columns", i, a.Name, nameWidth), caller)
		}
		for k, v := range a.Pos {
			if !fits(v, coordPrec, coordWidth) {
				return newError(ErrInvalidValue, index, CoordX+Field(k), fmt.Sprintf("atom %d: %g doesn't fit in %d columns", i, v, coordWidth), caller)
			}
		}
		if !F.HasVel {
			continue
		}
		for k, v := range a.Vel {
			if !fits(v, velPrec, velWidth) {
				return newError(ErrInvalidValue, index, VelX+Field(k), fmt.Sprintf("atom %d: %g doesn't fit in %d columns", i, v, velWidth), caller)
			}
		}
	}
	return nil
}

// fits returns whether v, printed with prec decimals, takes at most
// width columns.
func fits(v float64, prec, width int) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return len(strconv.FormatFloat(v, 'f', prec, 64)) <= width
}

// Box values are read as blank-separated fields, so each one must leave at
// least one blank in its column.
func checkBox(box []float64, index int, caller string) error {
	if len(box) < 3 || len(box) > 9 {
		return newError(ErrInvalidValue, index, NoField, fmt.Sprintf("a box needs between 3 and 9 values, got %d", len(box)), caller)
	}
	for k, v := range box {
		if !fits(v, boxPrec, boxWidth-1) {
			return newError(ErrInvalidValue, index, NoField, fmt.Sprintf("box value %d, %g, doesn't fit in %d columns", k, v, boxWidth), caller)
		}
	}
	return nil
}

// Trajectory is a sequence of GRO frames, in the order they were read
// or added.
type Trajectory struct {
	filename string
	frames   []*Frame
}

// New returns an empty trajectory. Frames can be added with Append.
func New() *Trajectory {
	return new(Trajectory)
}

// FileName returns the file the trajectory was loaded from, if any.
func (T *Trajectory) FileName() string {
	return T.filename
}

// Len returns the number of frames in the trajectory.
func (T *Trajectory) Len() int {
	return len(T.frames)
}

// FrameIndexes returns the indexes of all the frames, in order.
func (T *Trajectory) FrameIndexes() []int {
	r := make([]int, len(T.frames))
	for i := range r {
		r[i] = i
	}
	return r
}

func (T *Trajectory) frame(i int, field Field, caller string) (*Frame, error) {
	if i < 0 || i >= len(T.frames) {
		err := newError(ErrFrameRange, i, field, fmt.Sprintf("trajectory has %d frames", len(T.frames)), caller)
		err.filename = T.filename
		return nil, err
	}
	return T.frames[i], nil
}

// Frame returns the ith frame. Changes to the returned frame are
// changes to the trajectory.
func (T *Trajectory) Frame(i int) (*Frame, error) {
	return T.frame(i, NoField, "Frame")
}

// Append adds F at the end of the trajectory, after checking that the
// number of atoms matches the declared one, and that names and box fit
// the format. It returns the index of the new frame.
func (T *Trajectory) Append(F *Frame) (int, error) {
	if F == nil {
		return -1, newError(ErrInvalidValue, len(T.frames), NoField, "nil frame", "Append")
	}
	if err := F.check(len(T.frames), "Append"); err != nil {
		return -1, err
	}
	T.frames = append(T.frames, F)
	return len(T.frames) - 1, nil
}

// AddFrame appends a copy of the first frame with its coordinates
// replaced by coords, which must have one triple per atom. The title of
// the new frame records where it came from. It returns the index of
// the new frame.
func (T *Trajectory) AddFrame(coords [][3]float64) (int, error) {
	first, err := T.frame(0, Coord, "AddFrame")
	if err != nil {
		return -1, err
	}
	if len(coords) != len(first.Atoms) {
		return -1, shapeError(len(T.frames), Coord, len(first.Atoms), len(coords), "AddFrame")
	}
	F := first.Copy()
	for i := range F.Atoms {
		F.Atoms[i].Pos = coords[i]
	}
	index := len(T.frames)
	F.Title = fmt.Sprintf("%s copied by gro.AddFrame() -> frame %d", strings.TrimRight(F.Title, "\r\n"), index)
	T.frames = append(T.frames, F)
	return index, nil
}

// AddFrameMatrix is like AddFrame, with the coordinates given as a matrix.
func (T *Trajectory) AddFrameMatrix(coords *v3.Matrix) (int, error) {
	if coords == nil {
		return -1, newError(ErrInvalidValue, len(T.frames), Coord, "nil coordinates", "AddFrameMatrix")
	}
	i, err := T.AddFrame(coords.Vecs())
	if e, ok := err.(*Error); ok {
		e.Decorate("AddFrameMatrix")
	}
	return i, err
}

// Title returns the title of the ith frame.
func (T *Trajectory) Title(i int) (string, error) {
	F, err := T.frame(i, NoField, "Title")
	if err != nil {
		return "", err
	}
	return F.Title, nil
}

// Titles returns the titles of all frames.
func (T *Trajectory) Titles() []string {
	r := make([]string, 0, len(T.frames))
	for _, F := range T.frames {
		r = append(r, F.Title)
	}
	return r
}

// SetTitle sets the title of the ith frame. Line breaks are not allowed
// in titles.
func (T *Trajectory) SetTitle(i int, title string) error {
	F, err := T.frame(i, NoField, "SetTitle")
	if err != nil {
		return err
	}
	if strings.ContainsAny(title, "\r\n") {
		return newError(ErrInvalidValue, i, NoField, "title contains a line break", "SetTitle")
	}
	F.Title = title
	return nil
}

// NAtoms returns the declared number of atoms of the ith frame.
func (T *Trajectory) NAtoms(i int) (int, error) {
	F, err := T.frame(i, NoField, "NAtoms")
	if err != nil {
		return -1, err
	}
	return F.NAtoms, nil
}

// AtomCounts returns the declared number of atoms of every frame.
func (T *Trajectory) AtomCounts() []int {
	r := make([]int, 0, len(T.frames))
	for _, F := range T.frames {
		r = append(r, F.NAtoms)
	}
	return r
}

// SetNAtoms sets the declared number of atoms of the ith frame. The value
// is stored as given; a mismatch with the atom records will make the
// frame fail when it is written.
func (T *Trajectory) SetNAtoms(i, n int) error {
	F, err := T.frame(i, NoField, "SetNAtoms")
	if err != nil {
		return err
	}
	F.NAtoms = n
	return nil
}

// Box returns a copy of the box vector of the ith frame.
func (T *Trajectory) Box(i int) ([]float64, error) {
	F, err := T.frame(i, NoField, "Box")
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), F.Box...), nil
}

// Boxes returns copies of the box vectors of all frames.
func (T *Trajectory) Boxes() [][]float64 {
	r := make([][]float64, 0, len(T.frames))
	for _, F := range T.frames {
		r = append(r, append([]float64(nil), F.Box...))
	}
	return r
}

// SetBox sets the box of the ith frame. box must have between 3 and 9
// values. It is copied.
func (T *Trajectory) SetBox(i int, box []float64) error {
	F, err := T.frame(i, NoField, "SetBox")
	if err != nil {
		return err
	}
	if err := checkBox(box, i, "SetBox"); err != nil {
		return err
	}
	F.Box = append([]float64(nil), box...)
	return nil
}

// HasVel returns whether the atoms of the ith frame have velocities.
func (T *Trajectory) HasVel(i int) (bool, error) {
	F, err := T.frame(i, NoField, "HasVel")
	if err != nil {
		return false, err
	}
	return F.HasVel, nil
}
