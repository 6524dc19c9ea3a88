package dnnwsp

import (
	"gonum.org/v1/gonum/floats"
)

// CorrectHighest just returns whether or not the largest value in each is at the same index.
func CorrectHighest(outs, targets []float64) bool {
	if len(outs) == 0 || len(targets) == 0 {
		return false
	}

	return floats.MaxIdx(outs) == floats.MaxIdx(targets)
}

// Every returns a function that reports whether an epoch (or step) falls on the given frequency.
// A frequency < 1 never matches.
func Every(frequency int) func(int) bool {
	return func(iteration int) bool {
		return frequency > 0 && iteration%frequency == 0
	}
}
