package hyperparams

import (
	"math"
)

type anneal struct {
	Begin int
	Decay float64
	Min   float64
}

// Anneal returns the annealing Scheduler: after each epoch e past begin, the learning rate is
// multiplied by
//
//	1 + decay*(begin - e)
//
// and kept from going below min. A begin of 0 disables annealing entirely.
func Anneal(begin int, decay, min float64) *anneal {
	return &anneal{begin, decay, min}
}

func (a *anneal) TypeString() string {
	return "anneal"
}

func (a *anneal) Next(epoch int, learningRate float64) float64 {
	if a.Begin == 0 || epoch <= a.Begin {
		return learningRate
	}

	factor := -a.Decay*float64(epoch) + 1 + a.Decay*float64(a.Begin)
	return math.Max(a.Min, factor*learningRate)
}
