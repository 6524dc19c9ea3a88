package hyperparams

type constant float64

// Constant returns a Scheduler that always gives the same learning rate.
func Constant(value float64) *constant {
	c := constant(value)
	return &c
}

func (c constant) TypeString() string {
	return "constant"
}

func (c *constant) Next(epoch int, learningRate float64) float64 {
	return *(*float64)(c)
}
