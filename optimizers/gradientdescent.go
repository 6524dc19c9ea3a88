package optimizers

type gradientdescent int8

// GradientDescent returns plain stochastic gradient descent, which implements dnnwsp.Optimizer.
func GradientDescent() gradientdescent {
	return gradientdescent(0)
}

// SGD is a proxy for GradientDescent
func SGD() gradientdescent {
	return GradientDescent()
}

func (g gradientdescent) TypeString() string {
	return "sgd"
}

func (g gradientdescent) Run(size int, grad func(int) float64, add func(int, float64), learningRate float64) error {

	for i := 0; i < size; i++ {
		add(i, -1*learningRate*grad(i))
	}

	return nil
}
