package dcd

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	rightAngle = 90.0
	angleTol   = 1e-4
)

// Cell is a periodic box given by the lengths of its vectors and the
// angles between them, in degrees. Alpha is the angle between the
// second and third vectors, Beta between the first and third, and Gamma
// between the first and second.
type Cell struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
}

// Rectangular returns whether all the angles of the cell are right angles.
func (c Cell) Rectangular() bool {
	return math.Abs(c.Alpha-rightAngle) < angleTol && math.Abs(c.Beta-rightAngle) < angleTol && math.Abs(c.Gamma-rightAngle) < angleTol
}

// Box returns the cell in the GRO box layout: the three diagonal values
// for rectangular cells, and v1(x) v2(y) v3(z) v1(y) v1(z) v2(x) v2(z)
// v3(x) v3(y) otherwise. The first vector lies along x and the second
// one in the xy plane.
func (c Cell) Box() []float64 {
	if c.Rectangular() {
		return []float64{c.A, c.B, c.C}
	}
	rad := math.Pi / 180
	cosA, cosB := math.Cos(c.Alpha*rad), math.Cos(c.Beta*rad)
	sinG, cosG := math.Sincos(c.Gamma * rad)
	v2 := r3.Vec{X: c.B * cosG, Y: c.B * sinG}
	v3 := r3.Vec{X: c.C * cosB, Y: c.C * (cosA - cosB*cosG) / sinG}
	v3.Z = math.Sqrt(math.Max(c.C*c.C-v3.X*v3.X-v3.Y*v3.Y, 0))
	return []float64{c.A, v2.Y, v3.Z, 0, 0, v2.X, 0, v3.X, v3.Y}
}

func angle(p, q r3.Vec) float64 {
	cos := r3.Dot(p, q) / (r3.Norm(p) * r3.Norm(q))
	return math.Acos(math.Max(-1, math.Min(1, cos))) * 180 / math.Pi
}

// CellFromBox returns the cell for a GRO box of 3 to 9 values. Missing
// values are taken as zero.
func CellFromBox(box []float64) (Cell, error) {
	if len(box) < 3 || len(box) > 9 {
		return Cell{}, fmt.Errorf("a box needs between 3 and 9 values, got %d", len(box))
	}
	var b [9]float64
	copy(b[:], box)
	v1 := r3.Vec{X: b[0], Y: b[3], Z: b[4]}
	v2 := r3.Vec{X: b[5], Y: b[1], Z: b[6]}
	v3 := r3.Vec{X: b[7], Y: b[8], Z: b[2]}
	c := Cell{A: r3.Norm(v1), B: r3.Norm(v2), C: r3.Norm(v3)}
	if c.A == 0 || c.B == 0 || c.C == 0 {
		return Cell{}, fmt.Errorf("box %v has a zero-length vector", box)
	}
	c.Alpha = angle(v2, v3)
	c.Beta = angle(v1, v3)
	c.Gamma = angle(v1, v2)
	return c, nil
}

// record returns the cell in the order DCD files store it.
func (c Cell) record() [6]float64 {
	return [6]float64{c.A, c.Gamma, c.B, c.Beta, c.Alpha, c.C}
}

// cellFromRecord reads a unit cell record. Old CHARMM versions store the
// cosines of the angles instead of the angles.
func cellFromRecord(r [6]float64) Cell {
	c := Cell{A: r[0], Gamma: r[1], B: r[2], Beta: r[3], Alpha: r[4], C: r[5]}
	if math.Abs(c.Alpha) <= 1 && math.Abs(c.Beta) <= 1 && math.Abs(c.Gamma) <= 1 {
		c.Alpha = math.Acos(c.Alpha) * 180 / math.Pi
		c.Beta = math.Acos(c.Beta) * 180 / math.Pi
		c.Gamma = math.Acos(c.Gamma) * 180 / math.Pi
	}
	return c
}
