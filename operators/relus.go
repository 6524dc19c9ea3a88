// relus.go contains all activation functions that are derivative of relu:
// * ReLU
// * Leaky ReLU
// * ELU
// * Softplus (because it's similar)
package operators

import (
	"math"
)

// ****************************************
// ReLU
// ****************************************

type relu int8

// ReLU returns the standard rectified linear unit, which implements
// dnnwsp.Activation.
func ReLU() relu {
	return relu(0)
}

func (t relu) TypeString() string {
	return "relu"
}

func (t relu) Value(in float64) float64 {
	return math.Max(in, 0)
}

func (t relu) Deriv(in, out float64) float64 {
	if in > 0 {
		return 1
	}
	return 0
}

// ****************************************
// Leaky ReLU
// ****************************************

type lrelu float64

const defaultLeak float64 = 0.01

// LeakyReLU returns a standard 'leaky ReLU', where the leaky factor is given by alpha.
func LeakyReLU(alpha float64) lrelu {
	return lrelu(alpha)
}

func (t lrelu) TypeString() string {
	return "leaky-relu"
}

func (t lrelu) Value(in float64) float64 {
	if in < 0 {
		return float64(t) * in
	}
	return in
}

func (t lrelu) Deriv(in, out float64) float64 {
	if in < 0 {
		return float64(t)
	}
	return 1
}

// ****************************************
// ELU
// ****************************************

type elu int8

// ELU (exponential linear unit) returns a smooth approximation of ReLU that tends towards -1 as
// inputs become infinitely negative.
func ELU() elu {
	return elu(0)
}

func (t elu) TypeString() string {
	return "elu"
}

func (t elu) Value(in float64) float64 {
	if in >= 0 {
		return in
	}
	return math.Exp(in) - 1
}

func (t elu) Deriv(in, out float64) float64 {
	if in < 0 {
		return out + 1
	}
	return 1
}

// ****************************************
// Softplus
// ****************************************

type softplus int8

// Softplus is a smooth approximation of ReLU that approaches 0 as inputs tend towards negative
// infinity.
func Softplus() softplus {
	return softplus(0)
}

func (t softplus) TypeString() string {
	return "softplus"
}

func (t softplus) Value(in float64) float64 {
	// log(1 + e^x), without overflowing for large x
	if in > 30 {
		return in
	}
	return math.Log1p(math.Exp(in))
}

func (t softplus) Deriv(in, out float64) float64 {
	// 1 / (1 + e^-x)
	return 1.0 / (1 + math.Exp(-in))
}
