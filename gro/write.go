package gro

import (
	"fmt"
	"io"
	"strings"

	"github.com/mdconv/mdconv/internal/zio"
)

// Residue and atom numbers wrap around at this value, so they fit in
// their 5 columns.
const indexWrap = 100000

// Decimals written for coordinates, velocities and box values. Box
// values take boxWidth columns.
const (
	coordPrec = 3
	velPrec   = 4
	boxPrec   = 5
	boxWidth  = 10
)

// render writes the GRO text of F to b.
func (F *Frame) render(b *strings.Builder) {
	fmt.Fprintf(b, "%s\n", F.Title)
	fmt.Fprintf(b, "%d\n", F.NAtoms)
	for _, a := range F.Atoms {
		fmt.Fprintf(b, "%5d%-5s%-5s%5d%8.3f%8.3f%8.3f", a.ResID%indexWrap, a.ResName, a.Name, a.ID%indexWrap, a.Pos[0], a.Pos[1], a.Pos[2])
		if F.HasVel {
			fmt.Fprintf(b, "%8.4f%8.4f%8.4f", a.Vel[0], a.Vel[1], a.Vel[2])
		}
		b.WriteByte('\n')
	}
	for _, v := range F.Box {
		fmt.Fprintf(b, "%10.5f", v)
	}
	b.WriteByte('\n')
}

// RenderFrame returns the GRO text for the ith frame.
func (T *Trajectory) RenderFrame(i int) (string, error) {
	F, err := T.frame(i, NoField, "RenderFrame")
	if err != nil {
		return "", err
	}
	if err := F.check(i, "RenderFrame"); err != nil {
		return "", err
	}
	var b strings.Builder
	F.render(&b)
	return b.String(), nil
}

// Render returns the GRO text of every frame, one string per frame.
func (T *Trajectory) Render() ([]string, error) {
	ret := make([]string, 0, len(T.frames))
	for i := range T.frames {
		s, err := T.RenderFrame(i)
		if err != nil {
			err.(*Error).Decorate("Render")
			return nil, err
		}
		ret = append(ret, s)
	}
	return ret, nil
}

// WriteTo writes all the frames of the trajectory to w, in GRO format.
// It implements io.WriterTo.
func (T *Trajectory) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for i, F := range T.frames {
		if len(F.Box) == 0 && i < len(T.frames)-1 {
			return n, newError(ErrInvalidValue, i, NoField, "only the last frame can lack a box", "WriteTo")
		}
		s, err := T.RenderFrame(i)
		if err != nil {
			err.(*Error).Decorate("WriteTo")
			return n, err
		}
		m, err := io.WriteString(w, s)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteFile writes the trajectory to the file name, replacing its
// contents. The data is compressed if name ends in .gz or .zst.
func (T *Trajectory) WriteFile(name string) error {
	f, err := zio.Create(name)
	if err != nil {
		return err
	}
	_, err = T.WriteTo(f)
	if e, ok := err.(*Error); ok {
		e.filename = name
	}
	if err2 := f.Close(); err == nil {
		err = err2
	}
	return err
}
