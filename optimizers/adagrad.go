package optimizers

import (
	"math"

	"github.com/pkg/errors"
)

// the starting value of each accumulated squared gradient
const adagradInitialAccumulator float64 = 0.1

type adagrad struct {
	accum []float64
}

// Adagrad returns the adaptive gradient algorithm, which scales the learning rate of each
// parameter by the inverse square root of the sum of its squared gradients.
func Adagrad() *adagrad {
	return &adagrad{}
}

func (a *adagrad) TypeString() string {
	return "adagrad"
}

func (a *adagrad) Run(size int, grad func(int) float64, add func(int, float64), learningRate float64) error {
	if a.accum == nil {
		a.accum = make([]float64, size)
		for i := range a.accum {
			a.accum[i] = adagradInitialAccumulator
		}
	} else if len(a.accum) != size {
		return errors.Errorf("Can't run adagrad optimizer, size changed (%d != %d)", size, len(a.accum))
	}

	for i := 0; i < size; i++ {
		g := grad(i)
		a.accum[i] += g * g
		add(i, -learningRate*g/math.Sqrt(a.accum[i]))
	}

	return nil
}
