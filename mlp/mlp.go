// Package mlp provides a fully-connected feed-forward network that implements dnnwsp.Model.
//
// Every hidden layer uses the same Activation; the output layer is linear. Classifiers are trained
// with softmax cross-entropy against one-hot targets, and autoencoders with the mean squared
// error of their reconstruction. The weights of each hidden layer carry an L1 penalty weighted by
// the betas given to Step, and the weights of every layer carry a fixed L2 penalty.
package mlp

import (
	"math/rand"

	bs "github.com/123rugby/dnnwsp"
	"github.com/123rugby/dnnwsp/costfuncs"
	"github.com/123rugby/dnnwsp/penalties"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	// the default activations, initializers, and optimizers
	_ "github.com/123rugby/dnnwsp/initializers"
	_ "github.com/123rugby/dnnwsp/operators"
	_ "github.com/123rugby/dnnwsp/optimizers"
)

// Network is a multi-layer perceptron. Its weights are stored with shape [inputs, outputs], so
// that column j of layer l holds the incoming weights of node j.
type Network struct {
	sizes       []int
	autoencoder bool

	ws     []*mat.Dense
	biases [][]float64

	act  bs.Activation
	cost bs.CostFunction
	l1   bs.Penalty
	l2   bs.Penalty

	// one optimizer per parameter group
	wOpts []bs.Optimizer
	bOpts []bs.Optimizer
}

// New creates a Network with the layer sizes, activation, initializer, optimizer, and penalties
// given by the Config. Weights are initialized using rng, which may be nil, in which case one is
// seeded with cfg.Seed. Biases start at zero.
func New(cfg bs.Config, rng *rand.Rand) (*Network, error) {
	if cfg.Hidden() < 1 {
		return nil, bs.ErrNoHiddenLayer
	}

	for i, s := range cfg.LayerSizes {
		if s < 1 {
			return nil, errors.Errorf("Can't create network, layer size %d is < 1 (%d)", i, s)
		}
	}

	if err := cfg.ValidateModel(); err != nil {
		return nil, errors.Wrapf(err, "Can't create network\n")
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	act, err := bs.NewActivation(cfg.Activation)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't create network\n")
	}

	ini, err := bs.NewInitializer(cfg.Initializer, rng)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't create network\n")
	}

	net := &Network{
		sizes:       append([]int(nil), cfg.LayerSizes...),
		autoencoder: cfg.Autoencoder,
		act:         act,
		l1:          penalties.L1(cfg.Normalization),
		l2:          penalties.L2(cfg.L2, cfg.Normalization),
	}

	if cfg.Autoencoder {
		net.cost = costfuncs.MSE()
	} else {
		net.cost = costfuncs.CrossEntropy()
	}

	layers := len(cfg.LayerSizes) - 1

	net.ws = make([]*mat.Dense, layers)
	net.biases = make([][]float64, layers)
	net.wOpts = make([]bs.Optimizer, layers)
	net.bOpts = make([]bs.Optimizer, layers)

	for l := 0; l < layers; l++ {
		in, out := cfg.LayerSizes[l], cfg.LayerSizes[l+1]

		data := make([]float64, in*out)
		ini.Set(in, out, data)

		net.ws[l] = mat.NewDense(in, out, data)
		net.biases[l] = make([]float64, out)

		if net.wOpts[l], err = bs.NewOptimizer(cfg.Optimizer, cfg); err != nil {
			return nil, errors.Wrapf(err, "Can't create network\n")
		}
		if net.bOpts[l], err = bs.NewOptimizer(cfg.Optimizer, cfg); err != nil {
			return nil, errors.Wrapf(err, "Can't create network\n")
		}
	}

	return net, nil
}

// NumLayers returns the number of weight matrices, which is one less than the number of layer
// sizes.
func (net *Network) NumLayers() int {
	return len(net.ws)
}

// Sizes returns the number of nodes in each layer, including input and output.
func (net *Network) Sizes() []int {
	return append([]int(nil), net.sizes...)
}

// Weights returns a copy of the weights of the given layer.
func (net *Network) Weights(layer int) *mat.Dense {
	return mat.DenseCopyOf(net.ws[layer])
}

// Biases returns a copy of the biases of the given layer.
func (net *Network) Biases(layer int) []float64 {
	return append([]float64(nil), net.biases[layer]...)
}

// SetParams replaces the weights and biases of a layer with copies of w and b. The shapes must
// match.
func (net *Network) SetParams(layer int, w mat.Matrix, b []float64) error {
	if layer < 0 || layer >= len(net.ws) {
		return errors.Errorf("Can't set parameters of layer %d, network has %d layers", layer, len(net.ws))
	}

	r, c := w.Dims()
	if wr, wc := net.ws[layer].Dims(); r != wr || c != wc {
		return errors.Errorf("Can't set weights of layer %d, shape [%d, %d] != [%d, %d]", layer, r, c, wr, wc)
	} else if len(b) != wc {
		return errors.Errorf("Can't set biases of layer %d, length %d != %d", layer, len(b), wc)
	}

	net.ws[layer].Copy(w)
	copy(net.biases[layer], b)
	return nil
}

// Outputs returns the raw (linear) outputs of the Network for each row of x.
func (net *Network) Outputs(x mat.Matrix) (*mat.Dense, error) {
	if _, c := x.Dims(); c != net.sizes[0] {
		return nil, errors.Errorf("Can't evaluate network, input width != input layer size (%d != %d)", c, net.sizes[0])
	}

	_, as := net.forward(x)
	return as[len(as)-1], nil
}
