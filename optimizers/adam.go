package optimizers

import (
	"math"

	"github.com/pkg/errors"
)

type adam struct {
	β1, β2, ε float64

	// the number of times Run has been called
	t int

	m, v []float64
}

// Adam returns the Adam optimizer with the usual parameters: β1 = 0.9, β2 = 0.999, ε = 1e-8.
func Adam() *adam {
	return &adam{β1: 0.9, β2: 0.999, ε: 1e-8}
}

func (a *adam) TypeString() string {
	return "adam"
}

func (a *adam) Run(size int, grad func(int) float64, add func(int, float64), learningRate float64) error {
	if a.m == nil {
		a.m = make([]float64, size)
		a.v = make([]float64, size)
	} else if len(a.m) != size {
		return errors.Errorf("Can't run adam optimizer, size changed (%d != %d)", size, len(a.m))
	}

	a.t++

	// bias correction is folded into the step size
	lr := learningRate * math.Sqrt(1-math.Pow(a.β2, float64(a.t))) / (1 - math.Pow(a.β1, float64(a.t)))

	for i := 0; i < size; i++ {
		g := grad(i)
		a.m[i] = a.β1*a.m[i] + (1-a.β1)*g
		a.v[i] = a.β2*a.v[i] + (1-a.β2)*g*g

		add(i, -lr*a.m[i]/(math.Sqrt(a.v[i])+a.ε))
	}

	return nil
}
