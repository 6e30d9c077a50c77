package v3

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 2 {
		Te.Errorf("expected 2 vectors, got %d", A.NVecs())
	}
	if v := A.Vec(1); v != [3]float64{4, 5, 6} {
		Te.Errorf("unexpected second vector %v", v)
	}
	if _, err := NewMatrix([]float64{1, 2, 3, 4}); err == nil {
		Te.Error("expected an error for a slice not divisible by 3")
	}
	if _, err := NewMatrix(nil); err == nil {
		Te.Error("expected an error for an empty slice")
	}
}

func TestVecsRoundTrip(Te *testing.T) {
	in := [][3]float64{{1, 2, 3}, {-1.5, 0, 2.25}, {7, 8, 9}}
	A, err := FromVecs(in)
	if err != nil {
		Te.Fatal(err)
	}
	out := A.Vecs()
	for i := range in {
		if in[i] != out[i] {
			Te.Errorf("vector %d: got %v want %v", i, out[i], in[i])
		}
	}
	//FromVecs must copy.
	in[0][0] = 100
	if A.At(0, 0) != 1 {
		Te.Error("FromVecs shares memory with its input")
	}
}

func TestVecView(Te *testing.T) {
	A := Zeros(3)
	v := A.VecView(1)
	v.Set(0, 2, 42)
	if A.At(1, 2) != 42 {
		Te.Errorf("change in view not reflected, got %v", A.At(1, 2))
	}
	A.SetVec(2, [3]float64{1, 1, 1})
	if A.Vec(2) != [3]float64{1, 1, 1} {
		Te.Errorf("SetVec failed: %v", A.Vec(2))
	}
}

func TestRound(Te *testing.T) {
	A, _ := NewMatrix([]float64{1.23456, -2.0005, 3.9999, 0.0004, 10.1235, 5})
	A.Scale(0.1, A.Dense)
	A.Round(A, 3)
	want := []float64{0.123, -0.2, 0.4, 0, 1.012, 0.5}
	for i, w := range want {
		if got := A.At(i/3, i%3); got != w {
			Te.Errorf("element %d: got %v want %v", i, got, w)
		}
	}
}

func TestDense2Matrix(Te *testing.T) {
	defer func() {
		if r := recover(); r != ErrNotXx3Matrix {
			Te.Errorf("expected ErrNotXx3Matrix panic, got %v", r)
		}
	}()
	Dense2Matrix(mat.NewDense(2, 2, nil))
}
