package operators

import (
	"math"
)

type logistic int8

// Logistic returns the logistic (sigmoid) function, which implements dnnwsp.Activation.
func Logistic() logistic {
	return logistic(0)
}

// Sigmoid is a proxy for Logistic
func Sigmoid() logistic {
	return Logistic()
}

func (t logistic) TypeString() string {
	return "logistic"
}

func (t logistic) Value(in float64) float64 {
	return 0.5 + 0.5*math.Tanh(0.5*in)
}

func (t logistic) Deriv(in, out float64) float64 {
	return out * (1 - out)
}
