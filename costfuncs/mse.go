package costfuncs

import (
	"gonum.org/v1/gonum/mat"
)

type mse int8

// MSE returns the mean squared error cost function, which implements dnnwsp.CostFunction. The
// squared errors are averaged over every value of the batch.
func MSE() mse {
	return mse(0)
}

// L2 is a proxy for MSE
func L2() mse {
	return MSE()
}

func (m mse) TypeString() string {
	return "mse"
}

func (m mse) Cost(outs, targets mat.Matrix) float64 {
	r, c := outs.Dims()

	var diff mat.Dense
	diff.Sub(outs, targets)

	n := mat.Norm(&diff, 2)
	return n * n / float64(r*c)
}

func (m mse) Deriv(outs, targets mat.Matrix) *mat.Dense {
	r, c := outs.Dims()

	ds := new(mat.Dense)
	ds.Sub(outs, targets)
	ds.Scale(2/float64(r*c), ds)
	return ds
}
