package amber

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mdconv/mdconv/internal/zio"
	v3 "github.com/mdconv/mdconv/v3"
)

//CrdW writes ASCII AMBER trajectories.
type CrdW struct {
	natoms   int
	box      bool
	filename string
	w        io.WriteCloser
	frames   int
	buf      strings.Builder
	warned   bool
}

//NewWriter creates the file filename, which will be compressed if its
//name ends in .gz or .zst, and writes the title line to it. Frames
//written need natoms atoms, and, if box is true, a box.
func NewWriter(filename, title string, natoms int, box bool) (*CrdW, error) {
	if natoms <= 0 {
		return nil, &Error{message: fmt.Sprintf("%s: %d atoms", WrongFormat, natoms), filename: filename, deco: []string{"NewWriter"}, critical: true}
	}
	if strings.ContainsAny(title, "\r\n") {
		return nil, &Error{message: "title contains a line break", filename: filename, deco: []string{"NewWriter"}, critical: true}
	}
	w, err := zio.Create(filename)
	if err != nil {
		return nil, &Error{message: UnableToOpen, filename: filename, deco: []string{"NewWriter"}, critical: true, err: err}
	}
	W := &CrdW{natoms: natoms, box: box, filename: filename, w: w}
	if _, err := io.WriteString(w, title+"\n"); err != nil {
		w.Close()
		return nil, &Error{message: WriteError, filename: filename, deco: []string{"NewWriter"}, critical: true, err: err}
	}
	return W, nil
}

//Len returns the number of atoms per frame.
func (W *CrdW) Len() int {
	return W.natoms
}

//Frames returns the number of frames written so far.
func (W *CrdW) Frames() int {
	return W.frames
}

//put adds the values to the buffer, perLine per line.
func (W *CrdW) put(values []float64) error {
	for i, v := range values {
		s := fmt.Sprintf("%8.3f", v)
		if len(s) > fieldWidth {
			return &Error{message: fmt.Sprintf("%s: %g", OutOfRange, v), filename: W.filename, deco: []string{"WNext"}, critical: true}
		}
		W.buf.WriteString(s)
		if (i+1)%perLine == 0 || i == len(values)-1 {
			W.buf.WriteByte('\n')
		}
	}
	return nil
}

//WNext writes coords as the next frame. If the trajectory has boxes, the
//first three values of box are written as the box lengths. For triclinic
//GRO boxes, those are the lengths of the box vectors along the axes.
func (W *CrdW) WNext(coords *v3.Matrix, box ...[]float64) error {
	if W.w == nil {
		return &Error{message: "writer is closed", filename: W.filename, deco: []string{"WNext"}, critical: true}
	}
	if coords.NVecs() != W.natoms {
		return &Error{message: fmt.Sprintf("%s: %d vectors for %d atoms", WrongFormat, coords.NVecs(), W.natoms), filename: W.filename, deco: []string{"WNext"}, critical: true}
	}
	W.buf.Reset()
	values := make([]float64, 0, 3*W.natoms)
	for i := 0; i < W.natoms; i++ {
		v := coords.Vec(i)
		values = append(values, v[:]...)
	}
	if err := W.put(values); err != nil {
		return err
	}
	if W.box {
		if len(box) == 0 || len(box[0]) < boxValues {
			return &Error{message: "the trajectory needs a box for every frame", filename: W.filename, deco: []string{"WNext"}, critical: true}
		}
		if len(box[0]) > boxValues && !W.warned {
			log.Printf("amber: only the diagonal of the triclinic boxes will be written to %s", W.filename)
			W.warned = true
		}
		if err := W.put(box[0][:boxValues]); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(W.w, W.buf.String()); err != nil {
		return &Error{message: WriteError, filename: W.filename, deco: []string{"WNext"}, critical: true, err: err}
	}
	W.frames++
	return nil
}

//Close flushes and closes the file.
func (W *CrdW) Close() error {
	if W.w == nil {
		return nil
	}
	err := W.w.Close()
	W.w = nil
	if err != nil {
		return &Error{message: WriteError, filename: W.filename, deco: []string{"Close"}, critical: true, err: err}
	}
	return nil
}
