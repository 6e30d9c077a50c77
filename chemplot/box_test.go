package chemplot

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestBoxLengths(Te *testing.T) {
	l, err := BoxLengths([]float64{1, 2, 3})
	if err != nil || l != [3]float64{1, 2, 3} {
		Te.Errorf("rectangular box: got %v, %v", l, err)
	}
	//rhombic dodecahedron (xy-square) with 5 nm vectors.
	d := 5.0
	l, err = BoxLengths([]float64{d, d, d * math.Sqrt(2) / 2, 0, 0, 0, 0, d / 2, d / 2})
	if err != nil {
		Te.Fatal(err)
	}
	for k, v := range l {
		if math.Abs(v-d) > 1e-9 {
			Te.Errorf("vector %d: length %f", k, v)
		}
	}
	if _, err := BoxLengths([]float64{1, 2}); err == nil {
		Te.Error("expected an error for a 2-value box")
	}
}

func TestBoxPlot(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "box.png")
	boxes := [][]float64{{3, 3, 3}, {3.1, 3.05, 2.9}, nil, {3.2, 3.1, 2.95}}
	if err := BoxPlot(boxes, "Box", name); err != nil {
		Te.Fatal(err)
	}
	fi, err := os.Stat(name)
	if err != nil {
		Te.Fatal(err)
	}
	if fi.Size() == 0 {
		Te.Error("empty plot file")
	}
	if err := BoxPlot([][]float64{nil, nil}, "Box", name); err == nil {
		Te.Error("expected an error without boxes")
	}
}
