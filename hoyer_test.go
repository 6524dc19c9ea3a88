package dnnwsp_test

import (
	"math"
	"testing"

	bs "github.com/123rugby/dnnwsp"
	"gonum.org/v1/gonum/mat"
)

func TestHoyer(t *testing.T) {
	cases := []struct {
		v    []float64
		want float64
	}{
		{[]float64{1, 0, 0}, 1},
		{[]float64{1, 1, 1}, 0},
		{[]float64{0, -3, 0, 0}, 1},
		{[]float64{-2, 2, 2, -2}, 0},
		{[]float64{1, 1, 0, 0}, (2 - math.Sqrt(2)) / (2 - 1)},
	}

	for _, c := range cases {
		h, err := bs.Hoyer(c.v)
		if err != nil {
			t.Errorf("Hoyer(%v): %v", c.v, err)
			continue
		}

		if math.Abs(h-c.want) > 1e-12 {
			t.Errorf("Hoyer(%v) = %v, want %v", c.v, h, c.want)
		}
	}
}

func TestHoyerBounds(t *testing.T) {
	vs := [][]float64{
		{0.3, -0.1, 2, 0.0001},
		{5, 5, 5, 5, 5, 5, 5, 5, 5},
		{-1, 1e-9, 0, 0, 0},
	}

	for _, v := range vs {
		h, err := bs.Hoyer(v)
		if err != nil {
			t.Fatal(err)
		}

		if h < 0 || h > 1 {
			t.Errorf("Hoyer(%v) = %v, outside of [0, 1]", v, h)
		}
	}
}

func TestHoyerErrors(t *testing.T) {
	_, err := bs.Hoyer([]float64{0, 0, 0})
	zn, ok := err.(*bs.ZeroNormError)
	if !ok {
		t.Fatalf("expected *ZeroNormError, got %v", err)
	}
	if zn.Layer != -1 || zn.Node != -1 || zn.Step != -1 {
		t.Errorf("positions should be unknown, got %+v", *zn)
	}

	if _, err = bs.Hoyer([]float64{1}); err == nil {
		t.Error("expected an error for a single value")
	}
}

func TestHoyerNonFinite(t *testing.T) {
	vs := [][]float64{
		{math.Inf(1), 1, 0},
		{1, math.Inf(-1), 0},
		{math.NaN(), 1, 0},
		{math.NaN(), 0, 0},
	}

	for _, v := range vs {
		h, err := bs.Hoyer(v)
		if _, ok := err.(*bs.NonFiniteError); !ok {
			t.Errorf("Hoyer(%v) = %v, %v; expected *NonFiniteError", v, h, err)
		}
	}

	w := mat.NewDense(2, 3, []float64{
		1, 0, 0.5,
		0, math.NaN(), 1,
	})

	_, err := bs.HoyerColumns(w)
	if nf, ok := err.(*bs.NonFiniteError); !ok || nf.Node != 1 {
		t.Errorf("expected *NonFiniteError at node 1, got %v", err)
	}

	if _, err = bs.HoyerMatrix(w); err == nil {
		t.Error("expected an error for a matrix with a NaN")
	}
}

func TestHoyerMatrix(t *testing.T) {
	w := mat.NewDense(2, 3, []float64{
		1, 0, 0,
		0, 0, 0,
	})

	h, err := bs.HoyerMatrix(w)
	if err != nil {
		t.Fatal(err)
	}
	if h != 1 {
		t.Errorf("HoyerMatrix = %v, want 1", h)
	}

	w = mat.NewDense(3, 2, []float64{
		1, 1,
		0, 1,
		0, 1,
	})

	hs, err := bs.HoyerColumns(w)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(hs[0]-1) > 1e-12 || math.Abs(hs[1]) > 1e-12 {
		t.Errorf("HoyerColumns = %v, want [1 0]", hs)
	}

	w.Set(0, 1, 0)
	w.Set(1, 1, 0)
	w.Set(2, 1, 0)

	_, err = bs.HoyerColumns(w)
	if zn, ok := err.(*bs.ZeroNormError); !ok || zn.Node != 1 {
		t.Errorf("expected *ZeroNormError at node 1, got %v", err)
	}
}
