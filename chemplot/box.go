/*
 * box.go, part of mdconv.
 *
 * Copyright 2026 The mdconv Authors
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
*/

// Package chemplot draws plots of trajectory data with gonum/plot.
package chemplot

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//BoxLengths returns the lengths of the three box vectors of a GRO box.
//A box of 3 values is rectangular. For 9 values, the order is the one
//of the GRO format: v1(x) v2(y) v3(z) v1(y) v1(z) v2(x) v2(z) v3(x) v3(y).
func BoxLengths(box []float64) ([3]float64, error) {
	switch len(box) {
	case 3:
		return [3]float64{box[0], box[1], box[2]}, nil
	case 9:
		return [3]float64{
			math.Sqrt(box[0]*box[0] + box[3]*box[3] + box[4]*box[4]),
			math.Sqrt(box[5]*box[5] + box[1]*box[1] + box[6]*box[6]),
			math.Sqrt(box[7]*box[7] + box[8]*box[8] + box[2]*box[2]),
		}, nil
	}
	return [3]float64{}, fmt.Errorf("chemplot: a box has 3 or 9 values, got %d", len(box))
}

//BoxPlot plots the lengths of the box vectors against the frame index,
//and saves the plot as a PNG file in filename. Frames without box are
//left out. It returns an error if no frame has a box.
func BoxPlot(boxes [][]float64, title, filename string) error {
	series := [3]plotter.XYs{}
	for i, b := range boxes {
		if len(b) == 0 {
			continue
		}
		l, err := BoxLengths(b)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		for k := range series {
			series[k] = append(series[k], plotter.XY{X: float64(i), Y: l[k]})
		}
	}
	if len(series[0]) == 0 {
		return fmt.Errorf("chemplot: no frame has a box")
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Box vector length (nm)"
	p.Add(plotter.NewGrid())
	for k, name := range []string{"a", "b", "c"} {
		l, err := plotter.NewLine(series[k])
		if err != nil {
			return err
		}
		l.LineStyle.Width = vg.Points(1)
		l.LineStyle.Color = seriesColor(k, len(series))
		p.Add(l)
		p.Legend.Add(name, l)
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}
