package costfuncs

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type crossEntropy int8

// CrossEntropy returns the softmax cross-entropy cost function. It takes raw outputs (logits),
// applies the softmax to each row, and averages the cross-entropy with the targets over the rows.
func CrossEntropy() crossEntropy {
	return crossEntropy(0)
}

// NegativeLog is a proxy for CrossEntropy
func NegativeLog() crossEntropy {
	return CrossEntropy()
}

func (c crossEntropy) TypeString() string {
	return "cross-entropy"
}

func (c crossEntropy) Cost(outs, targets mat.Matrix) float64 {
	r, cols := outs.Dims()

	row := make([]float64, cols)

	var sum float64
	for i := 0; i < r; i++ {
		mat.Row(row, i, outs)

		// log(softmax(x)_j) = x_j - logsumexp(x)
		lse := floats.LogSumExp(row)
		for j := 0; j < cols; j++ {
			if t := targets.At(i, j); t != 0 {
				sum -= t * (row[j] - lse)
			}
		}
	}

	return sum / float64(r)
}

func (c crossEntropy) Deriv(outs, targets mat.Matrix) *mat.Dense {
	r, _ := outs.Dims()

	ds := Softmax(outs)
	ds.Sub(ds, targets)
	ds.Scale(1/float64(r), ds)
	return ds
}

// Softmax returns the softmax of each row of m.
func Softmax(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()

	out := mat.NewDense(r, c, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)

		max := floats.Max(row)
		var sum float64
		for j := range row {
			row[j] = math.Exp(row[j] - max)
			sum += row[j]
		}

		floats.Scale(1/sum, row)
		out.SetRow(i, row)
	}

	return out
}
