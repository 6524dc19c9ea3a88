package dnnwsp

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Hoyer returns Hoyer's sparseness of v:
//
//	(√n - ‖v‖₁/‖v‖₂) / (√n - 1)
//
// which is 0 when every value has the same magnitude and 1 when exactly one value is nonzero.
//
// If v has an L2 norm of zero, Hoyer returns a *ZeroNormError with all positions set to -1. If any
// value of v is NaN or infinite, it returns a *NonFiniteError instead. v must have at least two
// values.
func Hoyer(v []float64) (float64, error) {
	n := len(v)
	if n < 2 {
		return 0, errors.Errorf("Can't get Hoyer's sparseness, need at least 2 values (have %d)", n)
	}

	if floats.HasNaN(v) || math.IsInf(floats.Max(v), 1) || math.IsInf(floats.Min(v), -1) {
		return 0, &NonFiniteError{Layer: -1, Node: -1, Step: -1}
	}

	// finite values can still overflow the norms
	l1, l2 := floats.Norm(v, 1), floats.Norm(v, 2)
	if math.IsInf(l1, 0) || math.IsInf(l2, 0) || math.IsNaN(l2) {
		return 0, &NonFiniteError{Layer: -1, Node: -1, Step: -1}
	} else if l2 == 0 {
		return 0, &ZeroNormError{Layer: -1, Node: -1, Step: -1}
	}

	sqrtN := math.Sqrt(float64(n))

	h := (sqrtN - l1/l2) / (sqrtN - 1)

	// floating point error can move h just outside of [0, 1]
	return math.Max(0, math.Min(1, h)), nil
}

// HoyerMatrix returns Hoyer's sparseness of all of the values of w, taken as a single vector.
func HoyerMatrix(w mat.Matrix) (float64, error) {
	return Hoyer(flatten(w))
}

// HoyerColumns returns Hoyer's sparseness of each column of w. A column with an L2 norm of zero
// results in a *ZeroNormError with Node set to its index, and a column with a value that is not
// finite in a *NonFiniteError, likewise.
func HoyerColumns(w mat.Matrix) ([]float64, error) {
	r, c := w.Dims()

	hs := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, w)

		h, err := Hoyer(col)
		if err != nil {
			switch e := err.(type) {
			case *ZeroNormError:
				e.Node = j
				return nil, e
			case *NonFiniteError:
				e.Node = j
				return nil, e
			}

			return nil, errors.Wrapf(err, "Can't get Hoyer's sparseness of column %d\n", j)
		}

		hs[j] = h
	}

	return hs, nil
}

// flatten returns the values of w in row-major order
func flatten(w mat.Matrix) []float64 {
	r, c := w.Dims()

	vs := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		vs = append(vs, mat.Row(nil, i, w)...)
	}

	return vs
}
