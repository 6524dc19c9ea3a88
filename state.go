package dnnwsp

// TrainingState is everything that changes over the course of a training run, apart from the
// parameters of the Model itself. It is owned by Train and threaded through each step.
type TrainingState struct {
	// Epoch is the current epoch, starting at 1.
	Epoch int

	// Step is the number of mini-batch steps that have been completed.
	Step int

	// LearningRate is the rate used for the steps of the current epoch.
	LearningRate float64

	// Betas holds the regularization coefficients of each hidden layer. Each slice has length 1
	// in layer-wise mode, or one value per node in node-wise mode.
	Betas [][]float64

	// Sparseness holds the most recent measurement for each hidden layer, shaped like Betas.
	Sparseness [][]float64
}

// newTrainingState returns the state at the start of training: every beta is zero.
func newTrainingState(cfg Config, model Model, ctrl Controller) *TrainingState {
	s := &TrainingState{
		LearningRate: cfg.LRInit,
		Betas:        make([][]float64, cfg.Hidden()),
		Sparseness:   make([][]float64, cfg.Hidden()),
	}

	for l := range s.Betas {
		size := ctrl.Size(model.Weights(l))
		s.Betas[l] = make([]float64, size)
		s.Sparseness[l] = make([]float64, size)
	}

	return s
}

// copyNested returns a deep copy of vs
func copyNested(vs [][]float64) [][]float64 {
	c := make([][]float64, len(vs))
	for i := range vs {
		c[i] = make([]float64, len(vs[i]))
		copy(c[i], vs[i])
	}

	return c
}
