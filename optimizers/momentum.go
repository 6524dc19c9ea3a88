package optimizers

import (
	"github.com/pkg/errors"
)

type momentum struct {
	decay    float64
	velocity []float64
}

// Momentum returns gradient descent with momentum, where the given factor is the fraction of the
// previous update that is carried into the next.
func Momentum(factor float64) *momentum {
	return &momentum{decay: factor}
}

func (m *momentum) TypeString() string {
	return "momentum"
}

func (m *momentum) Run(size int, grad func(int) float64, add func(int, float64), learningRate float64) error {
	if m.velocity == nil {
		m.velocity = make([]float64, size)
	} else if len(m.velocity) != size {
		return errors.Errorf("Can't run momentum optimizer, size changed (%d != %d)", size, len(m.velocity))
	}

	for i := 0; i < size; i++ {
		m.velocity[i] = m.decay*m.velocity[i] + grad(i)
		add(i, -1*learningRate*m.velocity[i])
	}

	return nil
}
