package gro

import (
	"fmt"

	v3 "github.com/mdconv/mdconv/v3"
)

// FrameReader reads the frames of a Trajectory one at a time. It
// implements mdconv.Traj, so a GRO trajectory can be handled like any
// other trajectory format.
type FrameReader struct {
	traj *Trajectory
	next int
}

// NewFrameReader returns a reader positioned at the first frame.
func (T *Trajectory) NewFrameReader() *FrameReader {
	return &FrameReader{traj: T}
}

// Readable returns true if there are frames left to read.
func (R *FrameReader) Readable() bool {
	return R.next < R.traj.Len()
}

// Len returns the number of atoms in the first frame of the trajectory,
// or 0 if it has no frames.
func (R *FrameReader) Len() int {
	if R.traj.Len() == 0 {
		return 0
	}
	return len(R.traj.frames[0].Atoms)
}

// HasBox returns true if the first frame of the trajectory has a box.
func (R *FrameReader) HasBox() bool {
	return R.traj.Len() > 0 && len(R.traj.frames[0].Box) >= 3
}

// Next puts the positions of the next frame in output, which must have one
// vector per atom. If output is nil, the frame is skipped. If a box slice is
// given, the box of the frame is copied into it. When there are no frames
// left, Next returns an error implementing mdconv.LastFrameError.
func (R *FrameReader) Next(output *v3.Matrix, box ...[]float64) error {
	if !R.Readable() {
		return newlastFrameError(R.traj.filename, "Next")
	}
	i := R.next
	F := R.traj.frames[i]
	R.next++
	if output != nil {
		if n := output.NVecs(); n != len(F.Atoms) {
			err := newError(ErrShape, i, Coord, fmt.Sprintf("matrix has %d vectors for %d atoms", n, len(F.Atoms)), "Next")
			err.filename = R.traj.filename
			return err
		}
		for k, a := range F.Atoms {
			output.SetVec(k, a.Pos)
		}
	}
	if len(box) > 0 && box[0] != nil {
		copy(box[0], F.Box)
	}
	return nil
}
