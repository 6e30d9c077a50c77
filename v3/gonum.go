/*
 * gonum.go, part of mdconv.
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

package v3

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const cols int = 3

// Matrix is a set of vectors in 3D space. Within the package a "vector" is
// a row of the matrix, i.e. the cartesian coordinates of one point.
type Matrix struct {
	*mat.Dense
}

// Matrix2Dense returns the gonum Dense underlying A.
func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

// Dense2Matrix wraps A in a Matrix. It panics if A doesn't have 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != cols {
		panic(ErrNotXx3Matrix)
	}
	return &Matrix{A}
}

// Zeros returns a zero-filled Matrix with vecs vectors. vecs must be
// larger than zero.
func Zeros(vecs int) *Matrix {
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

// NewMatrix returns a Matrix with 3 columns using data as backing slice.
func NewMatrix(data []float64) (*Matrix, error) {
	l := len(data)
	if l == 0 {
		return nil, Error{"empty data slice", []string{"NewMatrix"}, true}
	}
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

// FromVecs builds a new Matrix from a slice of triples. The data is copied.
func FromVecs(vecs [][3]float64) (*Matrix, error) {
	if len(vecs) == 0 {
		return nil, Error{"no vectors given", []string{"FromVecs"}, true}
	}
	data := make([]float64, 0, cols*len(vecs))
	for _, v := range vecs {
		data = append(data, v[0], v[1], v[2])
	}
	return NewMatrix(data)
}

// NVecs returns the number of vectors in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != cols {
		panic(ErrNotXx3Matrix)
	}
	return r
}

// VecView returns a view of the ith vector of F. Changes in the view
// are reflected in F and vice versa.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, cols).(*mat.Dense)
	return &Matrix{r}
}

// Vec returns a copy of the ith vector of F.
func (F *Matrix) Vec(i int) [3]float64 {
	return [3]float64{F.At(i, 0), F.At(i, 1), F.At(i, 2)}
}

// SetVec sets the ith vector of F to v.
func (F *Matrix) SetVec(i int, v [3]float64) {
	F.SetRow(i, v[:])
}

// Vecs returns the vectors of F as a slice of triples.
func (F *Matrix) Vecs() [][3]float64 {
	n := F.NVecs()
	ret := make([][3]float64, n)
	for i := range ret {
		ret[i] = F.Vec(i)
	}
	return ret
}

// Round puts in F the elements of A rounded to the given number of
// decimals. F and A must have the same dimensions, and can be the same
// matrix.
func (F *Matrix) Round(A *Matrix, decimals int) {
	ar, ac := A.Dims()
	fr, fc := F.Dims()
	if ar != fr || ac != fc {
		panic(ErrShape)
	}
	p := math.Pow(10, float64(decimals))
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			F.Set(i, j, math.Round(A.At(i, j)*p)/p)
		}
	}
}

// String returns a neat representation of the matrix.
func (F *Matrix) String() string {
	r, _ := F.Dims()
	v := make([]string, 0, r)
	for i := 0; i < r; i++ {
		v = append(v, fmt.Sprintf("%8.3f %8.3f %8.3f", F.At(i, 0), F.At(i, 1), F.At(i, 2)))
	}
	return "[" + strings.Join(v, "\n ") + "]"
}

//Errors

// Error is the error type of the package. It fulfills mdconv.Error, but is
// declared here to avoid a circular import.
type Error struct {
	message  string
	deco     []string
	critical bool
}

// Error returns a string with an error message.
func (err Error) Error() string {
	return "v3: " + err.message
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical return whether the error is critical or it can be ignored
func (err Error) Critical() bool { return err.critical }

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix = PanicMsg("mdconv/v3: A Matrix should have 3 columns")
	ErrShape        = PanicMsg("mdconv/v3: Dimension mismatch")
)
