// Package controllers provides the two sparsity Controllers: layer-wise, with a single
// regularization coefficient for each hidden layer, and node-wise, with one coefficient for each
// node of each hidden layer.
//
// Both move their coefficients with the same rule. With sparseness h and target t, each beta is
// updated by
//
//	beta = clamp(beta - step*sign(h - t), 0, max)
//
// so a layer that is less sparse than its target gets a stronger L1 penalty, and one that is more
// sparse gets a weaker one. When h is exactly t, beta is left alone.
package controllers

import (
	"math"
)

// update applies the rule to each beta, returning a new slice
func update(beta, h []float64, target, step, max float64) []float64 {
	next := make([]float64, len(beta))
	for i := range beta {
		next[i] = clamp(beta[i]-step*sign(h[i]-target), 0, max)
	}

	return next
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func clamp(x, lower, upper float64) float64 {
	return math.Min(upper, math.Max(lower, x))
}
