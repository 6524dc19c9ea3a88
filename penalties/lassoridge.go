// Package penalties provides the weight penalties added to the loss during training: an L1 term
// whose coefficients are set by the sparsity controller, and a fixed L2 term.
package penalties

import (
	"math"

	bs "github.com/123rugby/dnnwsp"
	"gonum.org/v1/gonum/mat"
)

// scale returns the factor applied to sums over the weights of w
func scale(norm bs.Normalization, w mat.Matrix) float64 {
	if norm == bs.NormMean {
		r, c := w.Dims()
		return 1 / float64(r*c)
	}

	return 1
}

// coefAt returns the coefficient for column j. A single coefficient applies to every column.
func coefAt(coef []float64, j int) float64 {
	if len(coef) == 1 {
		return coef[0]
	}

	return coef[j]
}

// **********************************************
// L1 (Lasso)
// **********************************************

type l1 struct {
	norm bs.Normalization
}

// L1 returns the L1 penalty, weighted by the coefficients given to Cost and AddGrad. One
// coefficient applies to the entire layer; otherwise there must be one per column (node).
func L1(norm bs.Normalization) *l1 {
	return &l1{norm}
}

// Lasso is a proxy for L1
func Lasso(norm bs.Normalization) *l1 {
	return L1(norm)
}

func (p *l1) TypeString() string {
	return "l1-lasso"
}

func (p *l1) Cost(w mat.Matrix, coef []float64) float64 {
	r, c := w.Dims()

	var sum float64
	for j := 0; j < c; j++ {
		β := coefAt(coef, j)
		if β == 0 {
			continue
		}

		for i := 0; i < r; i++ {
			sum += β * math.Abs(w.At(i, j))
		}
	}

	return sum * scale(p.norm, w)
}

func (p *l1) AddGrad(w mat.Matrix, coef []float64, grad *mat.Dense) {
	r, c := w.Dims()
	s := scale(p.norm, w)

	for j := 0; j < c; j++ {
		β := coefAt(coef, j) * s
		if β == 0 {
			continue
		}

		for i := 0; i < r; i++ {
			if v := w.At(i, j); v != 0 {
				grad.Set(i, j, grad.At(i, j)+β*math.Copysign(1, v))
			}
		}
	}
}

// **********************************************
// L2 (Ridge)
// **********************************************

type l2 struct {
	λ    float64
	norm bs.Normalization
}

// L2 returns the L2 penalty λ·Σw². Its coefficient is fixed, so the coefficients given to Cost
// and AddGrad are ignored.
func L2(λ float64, norm bs.Normalization) *l2 {
	return &l2{λ, norm}
}

// Ridge is a proxy for L2
func Ridge(λ float64, norm bs.Normalization) *l2 {
	return L2(λ, norm)
}

func (p *l2) TypeString() string {
	return "l2-ridge"
}

func (p *l2) Cost(w mat.Matrix, coef []float64) float64 {
	if p.λ == 0 {
		return 0
	}

	sq := mat.Norm(w, 2)
	return p.λ * sq * sq * scale(p.norm, w)
}

func (p *l2) AddGrad(w mat.Matrix, coef []float64, grad *mat.Dense) {
	if p.λ == 0 {
		return
	}

	var scaled mat.Dense
	scaled.Scale(2*p.λ*scale(p.norm, w), w)
	grad.Add(grad, &scaled)
}
