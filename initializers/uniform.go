package initializers

import (
	"math/rand"
)

type uniform struct {
	src          *rand.Rand
	lower, upper float64
}

// Uniform returns an Initalizer that draws from a uniform random sample within a
// range, which can be set by Range. The defaults ("uniform-lower" and
// "uniform-upper") can be set by SetDefault
//
// The result of Uniform is a type that implements dnnwsp.Initializer.
func Uniform(src *rand.Rand) *uniform {
	return &uniform{src, defaultValue["uniform-lower"], defaultValue["uniform-upper"]}
}

// Range sets the Range of a Uniform Initializer, returning the same Initializer
func (u *uniform) Range(lower, upper float64) *uniform {
	u.lower = lower
	u.upper = upper
	return u
}

// Set fills ws, never with an exact zero: a column of zeros has no defined sparseness.
func (u *uniform) Set(fanIn, fanOut int, ws []float64) {
	if u.lower > u.upper {
		u.lower, u.upper = u.upper, u.lower
	}

	for i := 0; i < len(ws); i++ {
		w := u.src.Float64()*(u.upper-u.lower) + u.lower
		if w == 0 {
			// discard and try again
			i--
			continue
		}
		ws[i] = w
	}
}
