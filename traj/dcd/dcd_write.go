/*
 * dcd_write.go, part of mdconv.
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
 *
 */

package dcd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/mdconv/mdconv/internal/zio"
	v3 "github.com/mdconv/mdconv/v3"
)

const charmmVersion = 24

//Container for an Charmm/NAMD binary trajectory file
//opened for writing
type DCDWObj struct {
	natoms   int
	cell     bool
	writable bool
	filename string
	frames   int
	dcd      *os.File
	endian   binary.ByteOrder
	buf      bytes.Buffer
	blocks   [3][]float32
}

//NewWriter creates the DCD file filename and writes its header. Frames
//written need natoms atoms and, if box is true, a box. The title is
//split in records of 80 characters. DCD files need to be rewritten
//after each frame, so they can't be compressed.
func NewWriter(filename, title string, natoms int, box bool) (*DCDWObj, error) {
	return newWriter(filename, title, natoms, box, binary.LittleEndian)
}

func newWriter(filename, title string, natoms int, box bool, endian binary.ByteOrder) (*DCDWObj, error) {
	if natoms <= 0 {
		return nil, newError(fmt.Sprintf("%s: %d atoms", WrongFormat, natoms), filename, "NewWriter", nil)
	}
	if zio.Kind(filename) != zio.Plain {
		return nil, newError("DCD files can't be written compressed", filename, "NewWriter", nil)
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, newError(UnableToOpen, filename, "NewWriter", err)
	}
	D := &DCDWObj{natoms: natoms, cell: box, filename: filename, dcd: f, endian: endian}
	for i := range D.blocks {
		D.blocks[i] = make([]float32, natoms)
	}
	if err := D.initWrite(title); err != nil {
		f.Close()
		err.Decorate("NewWriter")
		return nil, err
	}
	D.writable = true
	return D, nil
}

//Len returns the number of atoms per frame.
func (D *DCDWObj) Len() int {
	return D.natoms
}

//Frames returns the number of frames written so far.
func (D *DCDWObj) Frames() int {
	return D.frames
}

func (D *DCDWObj) put(data interface{}) {
	//writes to a bytes.Buffer can't fail.
	binary.Write(&D.buf, D.endian, data)
}

//record adds a whole Fortran record, markers included, to the buffer.
func (D *DCDWObj) record(size int, data ...interface{}) {
	D.put(int32(size))
	for _, d := range data {
		D.put(d)
	}
	D.put(int32(size))
}

//flush writes the buffer to the file.
func (D *DCDWObj) flush(caller string) *Error {
	_, err := D.buf.WriteTo(D.dcd)
	D.buf.Reset()
	if err != nil {
		return newError(WriteError, D.filename, caller, err)
	}
	return nil
}

func titleRecords(title string) []byte {
	lines := strings.Split(title, "\n")
	var ret []byte
	for _, l := range lines {
		for {
			chunk := l
			if len(chunk) > titleSize {
				chunk = l[:titleSize]
			}
			rec := make([]byte, titleSize)
			copy(rec, chunk)
			for i := len(chunk); i < titleSize; i++ {
				rec[i] = ' '
			}
			ret = append(ret, rec...)
			l = l[len(chunk):]
			if l == "" {
				break
			}
		}
	}
	return ret
}

func (D *DCDWObj) initWrite(title string) *Error {
	var control [20]int32
	control[0] = 0 //frames, updated with each frame.
	control[2] = 1 //steps between frames
	control[charmmIndex] = charmmVersion
	if D.cell {
		control[cellIndex] = 1
	}
	D.record(headerSize, magic, control)
	titles := titleRecords(title)
	ntitle := len(titles) / titleSize
	D.record(4+len(titles), int32(ntitle), titles)
	D.record(4, int32(D.natoms))
	return D.flush("initWrite")
}

//WNext writes the next frame to the trajectory. If the trajectory has
//a unit cell, box must be given, with 3 to 9 values in the GRO layout.
func (D *DCDWObj) WNext(towrite *v3.Matrix, box ...[]float64) error {
	if !D.writable {
		return newError(TrajUnIni, D.filename, "WNext", nil)
	}
	if towrite == nil {
		return newError("got nil coordinates", D.filename, "WNext", nil)
	}
	if towrite.NVecs() != D.natoms {
		return newError(fmt.Sprintf("%s: %d vectors for %d atoms", WrongFormat, towrite.NVecs(), D.natoms), D.filename, "WNext", nil)
	}
	if D.cell {
		if len(box) == 0 || box[0] == nil {
			return newError("the trajectory needs a box for every frame", D.filename, "WNext", nil)
		}
		c, err := CellFromBox(box[0])
		if err != nil {
			return newError(WriteError, D.filename, "WNext", err)
		}
		D.record(cellSize, c.record())
	}
	for i := 0; i < D.natoms; i++ {
		v := towrite.Vec(i)
		for k := range D.blocks {
			D.blocks[k][i] = float32(v[k])
		}
	}
	for _, b := range D.blocks {
		D.record(4*D.natoms, b)
	}
	if err := D.flush("WNext"); err != nil {
		return err
	}
	D.frames++
	if err := D.updateFrames(); err != nil {
		err.Decorate("WNext")
		return err
	}
	return nil
}

//DCD requires the number of frames at the begining.
func (D *DCDWObj) updateFrames() *Error {
	//first marker and magic number.
	var n [4]byte
	D.endian.PutUint32(n[:], uint32(D.frames))
	if _, err := D.dcd.WriteAt(n[:], 8); err != nil {
		return newError(WriteError, D.filename, "updateFrames", err)
	}
	return nil
}

//Close closes the file. The writer can't be used afterwards.
func (D *DCDWObj) Close() error {
	if !D.writable {
		return nil
	}
	D.writable = false
	if err := D.dcd.Close(); err != nil {
		return newError(WriteError, D.filename, "Close", err)
	}
	return nil
}
