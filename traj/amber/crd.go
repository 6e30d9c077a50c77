/*
 * crd.go, part of mdconv.
 *
 * Copyright 2026 The mdconv Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License  as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

// Package amber reads and writes ASCII AMBER trajectories (mdcrd). Each
// file starts with a title line, followed by the frames. A frame is the
// 3N coordinates of its atoms, in Angstrom, written with the Fortran
// format 10F8.3, plus, if the trajectory has a box, one more line with
// the box lengths. The files can be gzip or zstd compressed.
package amber

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mdconv/mdconv/internal/zio"
	v3 "github.com/mdconv/mdconv/v3"
)

const (
	fieldWidth   = 8
	perLine      = 10
	boxValues    = 3
	maxBoxValues = 6 //truncated octahedron boxes also carry the angles.
)

//Container for an ASCII AMBER trajectory file.
type CrdObj struct {
	natoms   int
	readable bool //Is it ready to be read?
	filename string
	title    string
	ioread   io.ReadCloser
	crd      *bufio.Reader
	line     int
	box      bool
	values   []float64 //buffer for one frame
}

//New opens an AMBER trajectory with ats atoms per frame. box tells whether
//each frame is followed by a box line.
func New(filename string, ats int, box bool) (*CrdObj, error) {
	if ats <= 0 {
		return nil, &Error{message: fmt.Sprintf("%s: %d atoms", WrongFormat, ats), filename: filename, deco: []string{"New"}, critical: true}
	}
	var err error
	traj := new(CrdObj)
	traj.ioread, err = zio.Open(filename)
	if err != nil {
		return nil, &Error{message: UnableToOpen, filename: filename, deco: []string{"New"}, critical: true, err: err}
	}
	traj.filename = filename
	traj.crd = bufio.NewReader(traj.ioread)
	title, err := traj.crd.ReadString('\n') //The first line is just a comment
	if err != nil && !(err == io.EOF && title != "") {
		traj.ioread.Close()
		return nil, &Error{message: "no title line", filename: filename, deco: []string{"New"}, critical: true, err: err}
	}
	traj.line = 1
	traj.title = strings.TrimRight(title, "\r\n")
	traj.natoms = ats
	traj.box = box
	traj.values = make([]float64, 0, 3*ats)
	traj.readable = true
	return traj, nil
}

//Title returns the title line of the trajectory.
func (C *CrdObj) Title() string {
	return C.title
}

//Readable returns true if the object is ready to be read from
//false otherwise. It doesnt guarantee that there is something
//to read.
func (C *CrdObj) Readable() bool {
	return C.readable
}

//HasBox returns whether the frames carry a box.
func (C *CrdObj) HasBox() bool {
	return C.box
}

//Len returns the number of atoms per frame.
func (C *CrdObj) Len() int {
	return C.natoms
}

//Close closes the underlying file. The object can't be read afterwards.
func (C *CrdObj) Close() error {
	C.readable = false
	if C.ioread == nil {
		return nil
	}
	err := C.ioread.Close()
	C.ioread = nil
	return err
}

//readLine returns the next line without its line break, and io.EOF
//only if there is nothing left.
func (C *CrdObj) readLine() (string, error) {
	s, err := C.crd.ReadString('\n')
	if err != nil && !(err == io.EOF && s != "") {
		return "", err
	}
	C.line++
	return strings.TrimRight(s, "\r\n"), nil
}

//fields parses the fixed-width values of a line. Neighbouring values can
//touch each other, so the line can't be split on spaces.
func fields(line string, dst []float64) ([]float64, error) {
	for a := 0; a < len(line); a += fieldWidth {
		b := a + fieldWidth
		if b > len(line) {
			b = len(line)
		}
		s := strings.TrimSpace(line[a:b])
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}

func (C *CrdObj) formatError(msg string, err error) *Error {
	C.readable = false
	return &Error{message: fmt.Sprintf("%s: line %d: %s", WrongFormat, C.line, msg), filename: C.filename, deco: []string{"Next"}, critical: true, err: err}
}

//Next Reads the next frame in the trajectory. If keep is not nil, the
//coordinates read are put in it, otherwise they are discarded. If a box
//slice is given, and the trajectory has boxes, the box lengths are
//copied into it. When there are no more frames, Next returns an error
//that implements mdconv.LastFrameError.
func (C *CrdObj) Next(keep *v3.Matrix, box ...[]float64) error {
	if !C.readable {
		return &Error{message: TrajUnIni, filename: C.filename, deco: []string{"Next"}, critical: true}
	}
	if keep != nil && keep.NVecs() != C.natoms {
		return &Error{message: fmt.Sprintf("%s: %d vectors for %d atoms", NotEnoughSpace, keep.NVecs(), C.natoms), filename: C.filename, deco: []string{"Next"}, critical: true}
	}
	want := 3 * C.natoms
	C.values = C.values[:0]
	for len(C.values) < want {
		l, err := C.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) && len(C.values) == 0 {
				C.readable = false
				return newlastFrameError(C.filename, "Next")
			}
			if errors.Is(err, io.EOF) {
				return C.formatError(fmt.Sprintf("truncated frame, %d of %d coordinates", len(C.values), want), err)
			}
			return &Error{message: ReadError, filename: C.filename, deco: []string{"Next"}, critical: true, err: err}
		}
		if len(C.values) == 0 && strings.TrimSpace(l) == "" {
			//blank lines at the end of the file.
			continue
		}
		C.values, err = fields(l, C.values)
		if err != nil {
			return C.formatError("unable to read coordinates", err)
		}
	}
	if len(C.values) != want {
		return C.formatError(fmt.Sprintf("%d values for a frame of %d coordinates", len(C.values), want), nil)
	}
	if keep != nil {
		for i := 0; i < C.natoms; i++ {
			keep.SetVec(i, [3]float64{C.values[3*i], C.values[3*i+1], C.values[3*i+2]})
		}
	}
	if !C.box {
		return nil
	}
	l, err := C.readLine()
	if err != nil {
		return C.formatError("missing box line", err)
	}
	b, err := fields(l, make([]float64, 0, maxBoxValues))
	if err != nil || (len(b) != boxValues && len(b) != maxBoxValues) {
		return C.formatError(fmt.Sprintf("wrong box line %q", l), err)
	}
	if len(box) > 0 && box[0] != nil {
		copy(box[0], b[:boxValues])
	}
	return nil
}
