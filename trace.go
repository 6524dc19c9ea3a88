package dnnwsp

import (
	"github.com/pkg/errors"
)

// StepRecord is what is recorded for each mini-batch step.
type StepRecord struct {
	// Step starts at 1 and counts every step of the run.
	Step  int
	Epoch int

	LearningRate float64
	Cost         float64

	// Beta holds the coefficients of each hidden layer that were used for the loss of this step.
	Beta [][]float64

	// Sparseness holds the sparseness of each hidden layer, measured after this step's update.
	Sparseness [][]float64
}

// EpochRecord is what is recorded at the end of each epoch.
type EpochRecord struct {
	Epoch int

	// LearningRate is the rate used during the epoch.
	LearningRate float64

	// Cost is the average cost of the epoch's steps.
	Cost float64

	// Evaluated indicates whether TrainError (and TestError, if there is test data) were
	// calculated at the end of this epoch.
	Evaluated  bool
	HasTest    bool
	TrainError float64
	TestError  float64
}

// Trace is the append-only record of a training run. Records are kept in the order they were
// added, with exactly one StepRecord per step and one EpochRecord per epoch.
//
// Nothing reads a Trace during training; it is handed back by Train for export.
type Trace struct {
	steps  []StepRecord
	epochs []EpochRecord

	finalBeta       [][]float64
	finalSparseness [][]float64
}

// AddStep appends a record of a step. Steps must be added in order, starting at 1.
func (t *Trace) AddStep(r StepRecord) error {
	if r.Step != len(t.steps)+1 {
		return errors.Errorf("Can't add step %d to trace, expected step %d", r.Step, len(t.steps)+1)
	}

	r.Beta = copyNested(r.Beta)
	r.Sparseness = copyNested(r.Sparseness)

	t.steps = append(t.steps, r)
	return nil
}

// AddEpoch appends a record of an epoch. Epochs must be added in order, starting at 1.
func (t *Trace) AddEpoch(r EpochRecord) error {
	if r.Epoch != len(t.epochs)+1 {
		return errors.Errorf("Can't add epoch %d to trace, expected epoch %d", r.Epoch, len(t.epochs)+1)
	}

	t.epochs = append(t.epochs, r)
	return nil
}

func (t *Trace) finish(s *TrainingState) {
	t.finalBeta = copyNested(s.Betas)
	t.finalSparseness = copyNested(s.Sparseness)
}

// Steps returns a copy of the step records. The slices inside the records are shared; they
// should not be modified.
func (t *Trace) Steps() []StepRecord {
	rs := make([]StepRecord, len(t.steps))
	copy(rs, t.steps)
	return rs
}

// Epochs returns a copy of the epoch records.
func (t *Trace) Epochs() []EpochRecord {
	rs := make([]EpochRecord, len(t.epochs))
	copy(rs, t.epochs)
	return rs
}

// Len returns the number of recorded steps.
func (t *Trace) Len() int {
	return len(t.steps)
}

// Layers returns the number of hidden layers that have been recorded.
func (t *Trace) Layers() int {
	if len(t.steps) > 0 {
		return len(t.steps[0].Beta)
	}

	return len(t.finalBeta)
}

// LearningRates returns the learning rate of each step.
func (t *Trace) LearningRates() []float64 {
	return t.stepValues(func(r StepRecord) float64 { return r.LearningRate })
}

// Costs returns the cost of each step.
func (t *Trace) Costs() []float64 {
	return t.stepValues(func(r StepRecord) float64 { return r.Cost })
}

// Betas returns the coefficients of the given hidden layer at each step, indexed by
// [step][component].
func (t *Trace) Betas(layer int) [][]float64 {
	vs := make([][]float64, len(t.steps))
	for i, r := range t.steps {
		vs[i] = append([]float64(nil), r.Beta[layer]...)
	}

	return vs
}

// Sparseness returns the sparseness of the given hidden layer at each step, indexed by
// [step][component].
func (t *Trace) Sparseness(layer int) [][]float64 {
	vs := make([][]float64, len(t.steps))
	for i, r := range t.steps {
		vs[i] = append([]float64(nil), r.Sparseness[layer]...)
	}

	return vs
}

// EpochLearningRates returns the learning rate used during each epoch.
func (t *Trace) EpochLearningRates() []float64 {
	vs := make([]float64, len(t.epochs))
	for i, r := range t.epochs {
		vs[i] = r.LearningRate
	}

	return vs
}

// EpochCosts returns the average cost of each epoch.
func (t *Trace) EpochCosts() []float64 {
	vs := make([]float64, len(t.epochs))
	for i, r := range t.epochs {
		vs[i] = r.Cost
	}

	return vs
}

// TrainErrors returns the training error of each epoch that was evaluated, in order.
func (t *Trace) TrainErrors() []float64 {
	var vs []float64
	for _, r := range t.epochs {
		if r.Evaluated {
			vs = append(vs, r.TrainError)
		}
	}

	return vs
}

// TestErrors returns the test error of each epoch that was evaluated with test data, in order.
func (t *Trace) TestErrors() []float64 {
	var vs []float64
	for _, r := range t.epochs {
		if r.Evaluated && r.HasTest {
			vs = append(vs, r.TestError)
		}
	}

	return vs
}

// FinalBeta returns the coefficients of each hidden layer at the end of training.
func (t *Trace) FinalBeta() [][]float64 {
	return copyNested(t.finalBeta)
}

// FinalSparseness returns the last measured sparseness of each hidden layer.
func (t *Trace) FinalSparseness() [][]float64 {
	return copyNested(t.finalSparseness)
}

func (t *Trace) stepValues(f func(StepRecord) float64) []float64 {
	vs := make([]float64, len(t.steps))
	for i, r := range t.steps {
		vs[i] = f(r)
	}

	return vs
}
