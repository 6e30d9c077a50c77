package mdconv_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mdconv/mdconv"
	"github.com/mdconv/mdconv/gro"
	"github.com/mdconv/mdconv/traj/amber"
	v3 "github.com/mdconv/mdconv/v3"
)

const tmpl = `two atoms
2
    1ALA      N    1   0.000   0.000   0.000
    1ALA      C    2   0.000   0.000   0.000
   1.00000   1.00000   1.00000
`

//memTraj is a Traj that holds its frames in memory, in Angstrom.
type memTraj struct {
	frames [][][3]float64
	boxes  [][]float64
	next   int
}

type endError struct{}

func (endError) Error() string { return "EOF" }
func (endError) Decorate(string) []string { return nil }
func (endError) Critical() bool { return false }
func (endError) FileName() string { return "" }
func (endError) Format() string { return "memory" }
func (endError) NormalLastFrameTermination() {}

func (m *memTraj) Readable() bool { return m.next < len(m.frames) }
func (m *memTraj) Len() int { return len(m.frames[0]) }
func (m *memTraj) HasBox() bool { return m.boxes != nil }
func (m *memTraj) Next(out *v3.Matrix, box ...[]float64) error {
	if !m.Readable() {
		return endError{}
	}
	f := m.frames[m.next]
	if out != nil {
		for i, v := range f {
			out.SetVec(i, v)
		}
	}
	if m.boxes != nil && len(box) > 0 {
		copy(box[0], m.boxes[m.next])
	}
	m.next++
	return nil
}

func newMem(n int, box bool) *memTraj {
	m := &memTraj{}
	for f := 0; f < n; f++ {
		m.frames = append(m.frames, [][3]float64{{float64(f), 1.23449, 10}, {-5.5, float64(f) * 2, 0.0004}})
		if box {
			m.boxes = append(m.boxes, []float64{20, 20, 20 + float64(f)})
		}
	}
	return m
}

func template(Te *testing.T) *gro.Trajectory {
	T, err := gro.Read(strings.NewReader(tmpl))
	if err != nil {
		Te.Fatal(err)
	}
	return T
}

func TestIngest(Te *testing.T) {
	var _ mdconv.Traj = &memTraj{}
	T := template(Te)
	n, err := mdconv.Ingest(T, newMem(3, true), mdconv.A2nm, mdconv.FrameRange{})
	if err != nil {
		Te.Fatal(err)
	}
	if n != 3 || T.Len() != 3 {
		Te.Fatalf("ingested %d frames, trajectory has %d", n, T.Len())
	}
	c, _ := T.Coords(2)
	//coordinates are rounded to 3 decimals.
	if c[0] != [3]float64{0.2, 0.123, 1} || c[1] != [3]float64{-0.55, 0.4, 0} {
		Te.Errorf("unexpected coordinates %v", c)
	}
	if t, _ := T.Title(0); t != "two atoms" {
		Te.Errorf("first title changed to %q", t)
	}
	if b, _ := T.Box(2); len(b) != 3 || b[2] != 2.2 {
		Te.Errorf("unexpected box %v", b)
	}
}

func TestIngestRange(Te *testing.T) {
	T := template(Te)
	n, err := mdconv.Ingest(T, newMem(10, false), 1, mdconv.FrameRange{Begin: 2, End: 9, Offset: 3})
	if err != nil {
		Te.Fatal(err)
	}
	//frames 2, 5 and 8
	if n != 3 {
		Te.Fatalf("ingested %d frames", n)
	}
	for i, want := range []float64{2, 5, 8} {
		c, _ := T.Coords(i)
		if c[0][0] != want {
			Te.Errorf("frame %d comes from source frame %v, not %v", i, c[0][0], want)
		}
	}
	if b, _ := T.Box(1); b[0] != 1 {
		Te.Errorf("template box not kept: %v", b)
	}
	if _, err := mdconv.Ingest(template(Te), newMem(2, false), 1, mdconv.FrameRange{Begin: 5}); err == nil {
		Te.Error("expected an error when no frame is selected")
	}
	if _, err := mdconv.Ingest(template(Te), newMem(2, false), 1, mdconv.FrameRange{Begin: 3, End: 2}); err == nil {
		Te.Error("expected an error for an empty range")
	}
}

func TestIngestErrors(Te *testing.T) {
	m := newMem(2, false)
	m.frames[0] = append(m.frames[0], [3]float64{})
	m.frames[1] = append(m.frames[1], [3]float64{})
	if _, err := mdconv.Ingest(template(Te), m, 1, mdconv.FrameRange{}); err == nil {
		Te.Error("expected an error for a different number of atoms")
	}
	_, err := mdconv.Ingest(gro.New(), newMem(1, false), 1, mdconv.FrameRange{})
	if !errors.Is(err, gro.ErrFrameRange) {
		Te.Errorf("expected the frame range error of the empty template, got %v", err)
	}
}

func TestExport(Te *testing.T) {
	T := template(Te)
	if _, err := mdconv.Ingest(T, newMem(3, true), mdconv.A2nm, mdconv.FrameRange{}); err != nil {
		Te.Fatal(err)
	}
	name := filepath.Join(Te.TempDir(), "out.mdcrd")
	W, err := amber.NewWriter(name, "export", 2, true)
	if err != nil {
		Te.Fatal(err)
	}
	n, err := mdconv.Export(W, T, mdconv.Nm2A, mdconv.FrameRange{Begin: 1})
	if err != nil {
		Te.Fatal(err)
	}
	if err := W.Close(); err != nil {
		Te.Fatal(err)
	}
	if n != 2 {
		Te.Errorf("exported %d frames", n)
	}
	R, err := amber.New(name, 2, true)
	if err != nil {
		Te.Fatal(err)
	}
	defer R.Close()
	if n, err := mdconv.Ingest(template(Te), R, mdconv.A2nm, mdconv.FrameRange{}); err != nil || n != 2 {
		Te.Fatalf("read back %d frames: %v", n, err)
	}
}

//cancelTraj cancels its context after reading a number of frames.
type cancelTraj struct {
	*memTraj
	after  int
	cancel context.CancelFunc
}

func (c *cancelTraj) Next(out *v3.Matrix, box ...[]float64) error {
	err := c.memTraj.Next(out, box...)
	if c.memTraj.next == c.after {
		c.cancel()
	}
	return err
}

//countWriter is a FrameWriter that only counts the frames.
type countWriter struct {
	natoms int
	frames int
}

func (w *countWriter) Len() int { return w.natoms }
func (w *countWriter) WNext(*v3.Matrix, ...[]float64) error {
	w.frames++
	return nil
}

func TestCancel(Te *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := &cancelTraj{memTraj: newMem(5, true), after: 2, cancel: cancel}
	T := template(Te)
	n, err := mdconv.IngestContext(ctx, T, src, mdconv.A2nm, mdconv.FrameRange{})
	if !errors.Is(err, context.Canceled) {
		Te.Fatalf("expected a canceled error, got %v", err)
	}
	if n != 2 || T.Len() != 2 || src.next != 2 {
		Te.Errorf("stored %d frames (%d in the trajectory), read %d", n, T.Len(), src.next)
	}
	if tr := mdconv.Trace(err); !strings.Contains(tr, "IngestContext") {
		Te.Errorf("unexpected trace %q", tr)
	}
	W := &countWriter{natoms: 2}
	n, err = mdconv.ExportContext(ctx, W, T, mdconv.Nm2A, mdconv.FrameRange{})
	if !errors.Is(err, context.Canceled) || n != 0 || W.frames != 0 {
		Te.Errorf("exported %d frames (%d written) from a canceled context: %v", n, W.frames, err)
	}
	n, err = mdconv.ExportContext(context.Background(), W, T, mdconv.Nm2A, mdconv.FrameRange{})
	if err != nil || n != 2 || W.frames != 2 {
		Te.Errorf("exported %d frames (%d written): %v", n, W.frames, err)
	}
}

func TestTrace(Te *testing.T) {
	_, err := mdconv.Ingest(template(Te), newMem(1, false), 1, mdconv.FrameRange{Begin: -1})
	if err == nil {
		Te.Fatal("expected an error for a negative begin")
	}
	if tr := mdconv.Trace(err); !strings.Contains(tr, "Ingest") {
		Te.Errorf("unexpected trace %q", tr)
	}
}
