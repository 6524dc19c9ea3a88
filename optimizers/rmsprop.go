package optimizers

import (
	"math"

	"github.com/pkg/errors"
)

type rmsprop struct {
	decay, ε float64
	ms       []float64
}

// RMSProp returns the RMSProp optimizer, with a decay of 0.9 for the moving average of squared
// gradients.
func RMSProp() *rmsprop {
	return &rmsprop{decay: 0.9, ε: 1e-10}
}

func (r *rmsprop) TypeString() string {
	return "rmsprop"
}

func (r *rmsprop) Run(size int, grad func(int) float64, add func(int, float64), learningRate float64) error {
	if r.ms == nil {
		r.ms = make([]float64, size)
	} else if len(r.ms) != size {
		return errors.Errorf("Can't run rmsprop optimizer, size changed (%d != %d)", size, len(r.ms))
	}

	for i := 0; i < size; i++ {
		g := grad(i)
		r.ms[i] = r.decay*r.ms[i] + (1-r.decay)*g*g
		add(i, -learningRate*g/math.Sqrt(r.ms[i]+r.ε))
	}

	return nil
}
