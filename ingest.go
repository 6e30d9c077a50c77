/*
 * ingest.go, part of mdconv.
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

package mdconv

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/mdconv/mdconv/gro"
	v3 "github.com/mdconv/mdconv/v3"
)

// FrameRange selects frames by their index in a trajectory: from Begin up
// to, but not including, End, one every Offset frames. An End of 0 or less
// means up to the last frame, and an Offset of 1 or less means every frame.
type FrameRange struct {
	Begin  int
	End    int
	Offset int
}

// Keep returns whether the ith frame is selected.
func (r FrameRange) Keep(i int) bool {
	if i < r.Begin || r.Done(i) {
		return false
	}
	if r.Offset <= 1 {
		return true
	}
	return (i-r.Begin)%r.Offset == 0
}

// Done returns whether no frame from the ith on is selected.
func (r FrameRange) Done(i int) bool {
	return r.End > 0 && i >= r.End
}

// Validate returns an error if the range can't select any frame.
func (r FrameRange) Validate() error {
	if r.Begin < 0 || r.Offset < 0 {
		return newCError(fmt.Sprintf("invalid frame range %+v", r), nil, "Validate")
	}
	if r.End > 0 && r.End <= r.Begin {
		return newCError(fmt.Sprintf("frame range %+v is empty", r), nil, "Validate")
	}
	return nil
}

func roundSlice(s []float64, decimals int) {
	p := math.Pow(10, float64(decimals))
	for i, v := range s {
		s[i] = math.Round(v*p) / p
	}
}

// boxLen returns 3 for rectangular boxes and 9 for triclinic ones.
func boxLen(box []float64) int {
	for _, v := range box[3:] {
		if v != 0 {
			return len(box)
		}
	}
	return 3
}

func isLastFrame(err error) bool {
	var l LastFrameError
	return errors.As(err, &l)
}

// Ingest reads the frames of src selected by r and stores them in dst.
// dst works as a template: it must have at least one frame, with as many
// atoms as src, which provides the titles, names and indexes for all the
// new frames. The first selected frame replaces the coordinates of the
// first frame of dst, and the following ones are added with AddFrame.
// Coordinates are multiplied by scale, and rounded to the precision of
// the GRO format. If src has boxes, they are scaled in the same way and
// set for each frame. Ingest returns the number of frames stored.
func Ingest(dst *gro.Trajectory, src Traj, scale float64, r FrameRange) (int, error) {
	n, err := IngestContext(context.Background(), dst, src, scale, r)
	return n, errDecorate(err, "Ingest")
}

// IngestContext is like Ingest, but stops before reading the next frame
// once ctx is done. The frames stored up to then are kept in dst, and
// the error returned wraps ctx.Err().
func IngestContext(ctx context.Context, dst *gro.Trajectory, src Traj, scale float64, r FrameRange) (int, error) {
	if err := r.Validate(); err != nil {
		return 0, errDecorate(err, "IngestContext")
	}
	natoms, err := dst.NAtoms(0)
	if err != nil {
		return 0, newCError("template has no frames", err, "IngestContext")
	}
	if src.Len() != natoms {
		return 0, newCError(fmt.Sprintf("template has %d atoms, trajectory has %d", natoms, src.Len()), nil, "IngestContext")
	}
	hasBox := false
	if b, ok := src.(Boxer); ok {
		hasBox = b.HasBox()
	}
	coords := v3.Zeros(natoms)
	box := make([]float64, 9)
	read := 0
	for i := 0; src.Readable() && !r.Done(i); i++ {
		if err := ctx.Err(); err != nil {
			return read, newCError(fmt.Sprintf("interrupted before frame %d", i), err, "IngestContext")
		}
		var out *v3.Matrix
		if r.Keep(i) {
			out = coords
		}
		for k := range box {
			box[k] = 0
		}
		err := src.Next(out, box)
		if err != nil {
			if isLastFrame(err) {
				break
			}
			return read, errDecorate(err, "IngestContext")
		}
		if out == nil {
			continue
		}
		coords.Scale(scale, coords.Dense)
		coords.Round(coords, CoordDecimals)
		index := 0
		if read == 0 {
			err = dst.SetCoordsMatrix(0, coords)
		} else {
			index, err = dst.AddFrameMatrix(coords)
		}
		if err != nil {
			return read, errDecorate(err, "IngestContext")
		}
		if hasBox {
			b := make([]float64, boxLen(box))
			for k := range b {
				b[k] = box[k] * scale
			}
			roundSlice(b, BoxDecimals)
			if err := dst.SetBox(index, b); err != nil {
				return read, errDecorate(err, "IngestContext")
			}
		}
		read++
	}
	if read == 0 {
		return 0, newCError(fmt.Sprintf("no frames selected with %+v", r), nil, "IngestContext")
	}
	return read, nil
}

// Export writes the frames of src selected by r to dst, with the
// coordinates and boxes multiplied by scale. Boxes are passed in the GRO
// layout, all their values included, and it is up to dst to write them
// in its own format. Export returns the number of frames written.
func Export(dst FrameWriter, src *gro.Trajectory, scale float64, r FrameRange) (int, error) {
	n, err := ExportContext(context.Background(), dst, src, scale, r)
	return n, errDecorate(err, "Export")
}

// ExportContext is like Export, but stops before writing the next frame
// once ctx is done. The error returned then wraps ctx.Err().
func ExportContext(ctx context.Context, dst FrameWriter, src *gro.Trajectory, scale float64, r FrameRange) (int, error) {
	if err := r.Validate(); err != nil {
		return 0, errDecorate(err, "ExportContext")
	}
	written := 0
	for _, i := range src.FrameIndexes() {
		if r.Done(i) {
			break
		}
		if !r.Keep(i) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return written, newCError(fmt.Sprintf("interrupted before frame %d", i), err, "ExportContext")
		}
		coords, err := src.CoordsMatrix(i)
		if err != nil {
			return written, errDecorate(err, "ExportContext")
		}
		if coords.NVecs() != dst.Len() {
			return written, newCError(fmt.Sprintf("frame %d has %d atoms, the output takes %d", i, coords.NVecs(), dst.Len()), nil, "ExportContext")
		}
		coords.Scale(scale, coords.Dense)
		box, _ := src.Box(i)
		for k := range box {
			box[k] *= scale
		}
		if len(box) == 0 {
			err = dst.WNext(coords)
		} else {
			err = dst.WNext(coords, box)
		}
		if err != nil {
			return written, errDecorate(err, "ExportContext")
		}
		written++
	}
	return written, nil
}
