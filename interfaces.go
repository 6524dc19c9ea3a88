package dnnwsp

import (
	"gonum.org/v1/gonum/mat"
)

// Batch is a set of samples handed to a Model in one call. Rows of X are samples.
type Batch struct {
	// X holds the inputs, one sample per row.
	X *mat.Dense

	// Y holds the one-hot encoded targets, one sample per row. Y is nil for autoencoders, which
	// reconstruct X.
	Y *mat.Dense

	// Labels holds the class index of each sample, or nil for autoencoders.
	Labels []int
}

// Size returns the number of samples in the Batch.
func (b Batch) Size() int {
	if b.X == nil {
		return 0
	}

	r, _ := b.X.Dims()
	return r
}

// Model is the network that is trained. Training only requires it to take a single step on a
// Batch and to show its weights afterwards.
type Model interface {
	// Step computes the regularized loss of the batch and updates the parameters of the Model
	// with a single gradient step at the given learning rate. betas holds one coefficient slice
	// per hidden layer: length 1 for layer-wise control, or one value per node (column) for
	// node-wise control.
	//
	// Step returns the loss computed before the update. The parameters must be settled by the
	// time Step returns, unless the Model also implements Synchronizer.
	Step(b Batch, learningRate float64, betas [][]float64) (float64, error)

	// Weights returns a copy of the weights of the given layer, with shape [inputs, outputs].
	// Layers are numbered from 0 (input to first hidden) to NumLayers()-1 (last hidden to output).
	Weights(layer int) *mat.Dense

	// Biases returns a copy of the biases of the given layer.
	Biases(layer int) []float64

	// NumLayers returns the number of weight matrices in the Model.
	NumLayers() int

	// Evaluate returns the error of the Model on the batch, without changing it. For classifiers
	// this is the fraction of misclassified samples; for autoencoders, the reconstruction error.
	Evaluate(b Batch) (float64, error)
}

// Synchronizer may be implemented by Models that dispatch their updates asynchronously. Sync
// must block until the most recent Step has been fully applied. It is called after every Step,
// before the weights are read.
type Synchronizer interface {
	Sync() error
}

// DataSupplier provides a data set for training or testing. One-hot encoding of labels is done
// by the DataSupplier, not by training.
type DataSupplier interface {
	// Len returns the number of input samples.
	Len() int

	// NumLabels returns the number of labels. It is 0 if the set is unlabelled.
	NumLabels() int

	// Width returns the number of values in each input sample.
	Width() int

	// Classes returns the number of distinct classes the labels are drawn from, or 0 if the set
	// is unlabelled.
	Classes() int

	// Batch assembles the samples at the given indices into a Batch, in order.
	Batch(indices []int) (Batch, error)
}

// Controller measures the sparseness of a weight matrix and updates the regularization
// coefficients (betas) of its layer to move that sparseness toward a target. The two
// implementations in the subpackage "controllers" differ in granularity: one value per layer,
// or one per node.
type Controller interface {
	// TypeString returns the name of the control mode, as used in configuration.
	TypeString() string

	// Size returns the number of coefficients that a layer with the given weights needs.
	Size(w mat.Matrix) int

	// Measure returns Hoyer's sparseness of the weights, with length Size(w). A zero-norm
	// vector results in a *ZeroNormError, and a NaN or infinite weight in a *NonFiniteError.
	Measure(w mat.Matrix) ([]float64, error)

	// Update returns the new coefficients, given the current coefficients, the measured
	// sparseness, the target sparseness, the step size, and the maximum coefficient. Every
	// returned value is in [0, max]. Update does not modify its arguments.
	Update(beta, h []float64, target, step, max float64) []float64
}

// Scheduler determines the learning rate from one epoch to the next.
type Scheduler interface {
	TypeString() string

	// Next returns the learning rate to use after the given (1-based) epoch has finished, given
	// the rate that was used during it.
	Next(epoch int, learningRate float64) float64
}

// Optimizer is an interface for gradient-based update rules. Each parameter group (a weight
// matrix, or a bias vector) gets its own Optimizer, so that Optimizers may keep state.
type Optimizer interface {
	// Run is called to suggest changes to each parameter, given:
	// number of parameters, gradient at parameter, function to add to parameters,
	// and a learning rate
	Run(int, func(int) float64, func(int, float64), float64) error
	// Run(size int, grad func(int) float64, add func(int, float64), learningRate float64) error

	// TypeString returns the string corresponding to the type of the Optimizer.
	// For example: the Optimizer "Adam" should return "adam", or something
	// to that effect.
	TypeString() string
}

// Activation is an element-wise function applied to the outputs of a hidden layer.
type Activation interface {
	TypeString() string

	// Value returns the activation of the given input.
	Value(in float64) float64

	// Deriv returns the derivative of the activation at the given input, which produced the
	// given output.
	Deriv(in, out float64) float64
}

// CostFunction measures the difference between the outputs of a Model and its targets. Both
// matrices have one sample per row.
type CostFunction interface {
	TypeString() string

	// Cost returns the average cost over the batch.
	Cost(outs, targets mat.Matrix) float64

	// Deriv returns the derivative of Cost w.r.t. each output.
	Deriv(outs, targets mat.Matrix) *mat.Dense
}

// Penalty is a regularization term on the weights of a single layer.
type Penalty interface {
	TypeString() string

	// Cost returns the value of the term, given the layer's coefficients.
	Cost(w mat.Matrix, coef []float64) float64

	// AddGrad adds the gradient of the term w.r.t. each weight to grad.
	AddGrad(w mat.Matrix, coef []float64, grad *mat.Dense)
}

// Initializer dictates how the weights of a layer are set, given the number of inputs and outputs
// of the layer and a blank slice to hold the weights.
type Initializer interface {
	Set(fanIn, fanOut int, ws []float64)
}
