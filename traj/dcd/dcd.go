/*
 * dcd.go, part of mdconv.
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

// Package dcd reads and writes CHARMM/NAMD binary trajectories. A DCD
// file is a sequence of Fortran unformatted records: a header, the
// titles, the number of atoms, and then, for each frame, an optional
// unit cell record followed by the X, Y and Z coordinates as float32,
// in Angstrom. Both byte orders are read. Files are written little
// endian, with the angles of the unit cell in degrees.
package dcd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/mdconv/mdconv/internal/zio"
	v3 "github.com/mdconv/mdconv/v3"
)

const (
	headerSize  = 84
	titleSize   = 80
	cellSize    = 48
	charmmIndex = 19 //position of the CHARMM version in the control block
	cellIndex   = 10
	fourDIndex  = 11
	fixedIndex  = 8
)

var magic = []byte("CORD")

//Container for an Charmm/NAMD binary trajectory file.
type DCDObj struct {
	natoms   int
	frames   int //as declared in the header
	readable bool
	filename string
	titles   []string
	cell     bool
	fourdim  bool
	endian   binary.ByteOrder
	ioread   io.ReadCloser
	dcd      *bufio.Reader
	blocks   [3][]float32
}

//New opens the DCD file filename and reads its header. Files ending in
//.gz or .zst are decompressed on the fly.
func New(filename string) (*DCDObj, error) {
	f, err := zio.Open(filename)
	if err != nil {
		return nil, newError(UnableToOpen, filename, "New", err)
	}
	D := &DCDObj{filename: filename, ioread: f, dcd: bufio.NewReader(f)}
	if err := D.initRead(); err != nil {
		f.Close()
		err.Decorate("New")
		return nil, err
	}
	for i := range D.blocks {
		D.blocks[i] = make([]float32, D.natoms)
	}
	D.readable = true
	return D, nil
}

//Readable returns true if the object is ready to be read from
//false otherwise. It doesnt guarantee that there is something
//to read.
func (D *DCDObj) Readable() bool {
	return D.readable
}

//HasBox returns whether the frames carry a unit cell.
func (D *DCDObj) HasBox() bool {
	return D.cell
}

//Len returns the number of atoms per frame.
func (D *DCDObj) Len() int {
	return D.natoms
}

//Frames returns the number of frames declared in the header. Some
//programs leave it at zero.
func (D *DCDObj) Frames() int {
	return D.frames
}

//Title returns the title records of the file, one per line.
func (D *DCDObj) Title() string {
	return strings.Join(D.titles, "\n")
}

//Close closes the underlying file. The object can't be read afterwards.
func (D *DCDObj) Close() error {
	D.readable = false
	if D.ioread == nil {
		return nil
	}
	err := D.ioread.Close()
	D.ioread = nil
	return err
}

func (D *DCDObj) read(data interface{}) error {
	return binary.Read(D.dcd, D.endian, data)
}

//closeRecord reads the marker at the end of a record, which must repeat
//the one at the beginning.
func (D *DCDObj) closeRecord(size int32, caller string) *Error {
	var check int32
	if err := D.read(&check); err != nil {
		return newError(ReadError, D.filename, caller, err)
	}
	if check != size {
		return newError(fmt.Sprintf("%s: record of %d bytes closed as %d", SecurityCheck, size, check), D.filename, caller, nil)
	}
	return nil
}

//initRead reads the header, titles and number of atoms.
func (D *DCDObj) initRead() *Error {
	var first [4]byte
	if _, err := io.ReadFull(D.dcd, first[:]); err != nil {
		return newError(ReadError, D.filename, "initRead", err)
	}
	switch {
	case binary.LittleEndian.Uint32(first[:]) == headerSize:
		D.endian = binary.LittleEndian
	case binary.BigEndian.Uint32(first[:]) == headerSize:
		D.endian = binary.BigEndian
	default:
		return newError(WrongFormat+": not a DCD header", D.filename, "initRead", nil)
	}
	head := make([]byte, 4)
	if err := D.read(head); err != nil {
		return newError(ReadError, D.filename, "initRead", err)
	}
	if string(head) != string(magic) {
		return newError(fmt.Sprintf("%s: magic %q", WrongFormat, head), D.filename, "initRead", nil)
	}
	var control [20]int32
	if err := D.read(&control); err != nil {
		return newError(ReadError, D.filename, "initRead", err)
	}
	D.frames = int(control[0])
	if control[charmmIndex] != 0 {
		D.cell = control[cellIndex] == 1
		D.fourdim = control[fourDIndex] == 1
	}
	if control[fixedIndex] != 0 {
		return newError(fmt.Sprintf("%s: %d fixed atoms are not supported", WrongFormat, control[fixedIndex]), D.filename, "initRead", nil)
	}
	if err := D.closeRecord(headerSize, "initRead"); err != nil {
		return err
	}
	//titles
	var size, ntitle int32
	if err := D.read(&size); err != nil {
		return newError(ReadError, D.filename, "initRead", err)
	}
	if err := D.read(&ntitle); err != nil {
		return newError(ReadError, D.filename, "initRead", err)
	}
	if ntitle < 0 || size != 4+ntitle*titleSize {
		return newError(fmt.Sprintf("%s: %d titles in a record of %d bytes", WrongFormat, ntitle, size), D.filename, "initRead", nil)
	}
	titles := make([]byte, ntitle*titleSize)
	if err := D.read(titles); err != nil {
		return newError(ReadError, D.filename, "initRead", err)
	}
	for i := 0; i < int(ntitle); i++ {
		t := titles[i*titleSize : (i+1)*titleSize]
		D.titles = append(D.titles, strings.TrimRight(string(t), " \x00"))
	}
	if err := D.closeRecord(size, "initRead"); err != nil {
		return err
	}
	//atoms
	var natoms int32
	if err := D.read(&size); err != nil {
		return newError(ReadError, D.filename, "initRead", err)
	}
	if size != 4 {
		return newError(fmt.Sprintf("%s: atom record of %d bytes", WrongFormat, size), D.filename, "initRead", nil)
	}
	if err := D.read(&natoms); err != nil {
		return newError(ReadError, D.filename, "initRead", err)
	}
	if natoms <= 0 {
		return newError(fmt.Sprintf("%s: %d atoms", WrongFormat, natoms), D.filename, "initRead", nil)
	}
	D.natoms = int(natoms)
	return D.closeRecord(4, "initRead")
}

//readFloat32Block reads a record of natoms float32 whose opening marker,
//size, has already been read.
func (D *DCDObj) readFloat32Block(size int32, block []float32) *Error {
	if int(size) != 4*len(block) {
		return newError(fmt.Sprintf("%s: coordinate record of %d bytes for %d atoms", WrongFormat, size, len(block)), D.filename, "readFloat32Block", nil)
	}
	if err := D.read(block); err != nil {
		return newError(ReadError, D.filename, "readFloat32Block", err)
	}
	return D.closeRecord(size, "readFloat32Block")
}

func (D *DCDObj) readCell() (Cell, *Error) {
	var r [6]float64
	if err := D.read(&r); err != nil {
		return Cell{}, newError(ReadError, D.filename, "readCell", err)
	}
	if err := D.closeRecord(cellSize, "readCell"); err != nil {
		return Cell{}, err
	}
	return cellFromRecord(r), nil
}

//nextRaw reads one frame into the blocks. It returns io.EOF only if the
//file ends right before the frame.
func (D *DCDObj) nextRaw() (*Cell, error) {
	var size int32
	if err := D.read(&size); err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, newError(ReadError, D.filename, "nextRaw", err)
	}
	var cell *Cell
	//Some programs only write the cell when it changes.
	if D.cell && size == cellSize {
		c, err := D.readCell()
		if err != nil {
			err.Decorate("nextRaw")
			return nil, err
		}
		cell = &c
		if err := D.read(&size); err != nil {
			return nil, newError(ReadError, D.filename, "nextRaw", err)
		}
	}
	for i, block := range D.blocks {
		if i > 0 {
			if err := D.read(&size); err != nil {
				return nil, newError(ReadError, D.filename, "nextRaw", err)
			}
		}
		if err := D.readFloat32Block(size, block); err != nil {
			err.Decorate("nextRaw")
			return nil, err
		}
	}
	if D.fourdim {
		if err := D.read(&size); err != nil {
			return nil, newError(ReadError, D.filename, "nextRaw", err)
		}
		if _, err := D.dcd.Discard(int(size)); err != nil {
			return nil, newError(ReadError, D.filename, "nextRaw", err)
		}
		if err := D.closeRecord(size, "nextRaw"); err != nil {
			return nil, err
		}
	}
	return cell, nil
}

//Next Reads the next frame in the trajectory. If keep is not nil, the
//coordinates read are put in it, otherwise they are discarded. If a box
//slice is given and the frame has a unit cell, the cell is copied into
//it in the GRO box layout, so the slice needs room for 9 values if the
//cell is not rectangular. When there are no more frames, Next returns an
//error that implements mdconv.LastFrameError.
func (D *DCDObj) Next(keep *v3.Matrix, box ...[]float64) error {
	if !D.readable {
		return newError(TrajUnIni, D.filename, "Next", nil)
	}
	if keep != nil && keep.NVecs() != D.natoms {
		return newError(fmt.Sprintf("%s: %d vectors for %d atoms", NotEnoughSpace, keep.NVecs(), D.natoms), D.filename, "Next", nil)
	}
	cell, err := D.nextRaw()
	if err != nil {
		D.readable = false
		if err == io.EOF {
			return newlastFrameError(D.filename, "Next")
		}
		if e, ok := err.(*Error); ok {
			e.Decorate("Next")
		}
		return err
	}
	if keep != nil {
		for i := 0; i < D.natoms; i++ {
			keep.SetVec(i, [3]float64{float64(D.blocks[0][i]), float64(D.blocks[1][i]), float64(D.blocks[2][i])})
		}
	}
	if cell != nil && len(box) > 0 && box[0] != nil {
		b := cell.Box()
		if len(box[0]) < len(b) {
			return newError(fmt.Sprintf("%s: box slice of %d values for %d", NotEnoughSpace, len(box[0]), len(b)), D.filename, "Next", nil)
		}
		copy(box[0], b)
	}
	return nil
}
