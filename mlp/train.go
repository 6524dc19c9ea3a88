package mlp

import (
	"math"

	bs "github.com/123rugby/dnnwsp"
	"github.com/123rugby/dnnwsp/costfuncs"
	"github.com/123rugby/dnnwsp/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// forward returns the inputs to the activation of each layer (zs) and the outputs of each layer
// (as), where as[0] is x and the last of as is the linear output.
func (net *Network) forward(x mat.Matrix) (zs, as []*mat.Dense) {
	layers := len(net.ws)

	zs = make([]*mat.Dense, layers)
	as = make([]*mat.Dense, layers+1)
	as[0] = mat.DenseCopyOf(x)

	for l := 0; l < layers; l++ {
		b := net.biases[l]

		z := new(mat.Dense)
		z.Mul(as[l], net.ws[l])
		z.Apply(func(i, j int, v float64) float64 { return v + b[j] }, z)
		zs[l] = z

		if l == layers-1 {
			as[l+1] = z
			break
		}

		a := new(mat.Dense)
		a.Apply(func(i, j int, v float64) float64 { return net.act.Value(v) }, z)
		as[l+1] = a
	}

	return zs, as
}

// targets returns what the outputs of the Network are compared against for the batch
func (net *Network) targets(b bs.Batch) (*mat.Dense, error) {
	if b.Size() == 0 {
		return nil, errors.Errorf("Batch is empty")
	}

	if net.autoencoder {
		return b.X, nil
	} else if b.Y == nil {
		return nil, errors.Errorf("Batch has no targets")
	}

	if r, c := b.Y.Dims(); r != b.Size() || c != net.sizes[len(net.sizes)-1] {
		return nil, errors.Errorf("Batch targets have shape [%d, %d], expected [%d, %d]", r, c, b.Size(), net.sizes[len(net.sizes)-1])
	}

	return b.Y, nil
}

// Loss returns the regularized loss of the Network on the batch, without changing it.
func (net *Network) Loss(b bs.Batch, betas [][]float64) (float64, error) {
	targets, err := net.targets(b)
	if err != nil {
		return 0, err
	} else if err = net.checkBetas(betas); err != nil {
		return 0, err
	}

	_, as := net.forward(b.X)
	return net.cost.Cost(as[len(as)-1], targets) + net.penalty(betas), nil
}

// penalty returns the value of the L1 and L2 terms
func (net *Network) penalty(betas [][]float64) float64 {
	var sum float64
	for l, w := range net.ws {
		if l < len(betas) {
			sum += net.l1.Cost(w, betas[l])
		}
		sum += net.l2.Cost(w, nil)
	}

	return sum
}

func (net *Network) checkBetas(betas [][]float64) error {
	if len(betas) != len(net.ws)-1 {
		return errors.Errorf("Expected betas for %d hidden layers, got %d", len(net.ws)-1, len(betas))
	}

	for l, beta := range betas {
		if _, c := net.ws[l].Dims(); len(beta) != 1 && len(beta) != c {
			return errors.Errorf("Betas of hidden layer %d must have length 1 or %d (%d)", l, c, len(beta))
		}
	}

	return nil
}

// Step is the implementation of dnnwsp.Model. It runs backpropagation over the batch and has each
// optimizer update its parameter group. The returned cost includes the penalties. If the cost is
// NaN or infinite, the parameters are left unchanged and an error is returned.
func (net *Network) Step(b bs.Batch, learningRate float64, betas [][]float64) (float64, error) {
	targets, err := net.targets(b)
	if err != nil {
		return 0, errors.Wrapf(err, "Can't take step\n")
	} else if err = net.checkBetas(betas); err != nil {
		return 0, errors.Wrapf(err, "Can't take step\n")
	}

	layers := len(net.ws)

	zs, as := net.forward(b.X)
	out := as[layers]

	cost := net.cost.Cost(out, targets) + net.penalty(betas)
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return cost, errors.Errorf("Can't take step, loss is not finite (%v); training has diverged", cost)
	}

	gradW := make([]*mat.Dense, layers)
	gradB := make([][]float64, layers)

	delta := net.cost.Deriv(out, targets)
	for l := layers - 1; l >= 0; l-- {
		gw := new(mat.Dense)
		gw.Mul(as[l].T(), delta)

		if l < len(betas) {
			net.l1.AddGrad(net.ws[l], betas[l], gw)
		}
		net.l2.AddGrad(net.ws[l], nil, gw)

		n, c := delta.Dims()
		gb := make([]float64, c)
		col := make([]float64, n)
		for j := range gb {
			gb[j] = floats.Sum(mat.Col(col, j, delta))
		}

		gradW[l], gradB[l] = gw, gb

		if l == 0 {
			break
		}

		// propagate back through the activation of hidden layer l-1
		z, a := zs[l-1], as[l]

		prev := new(mat.Dense)
		prev.Mul(delta, net.ws[l].T())
		prev.Apply(func(i, j int, v float64) float64 {
			return v * net.act.Deriv(z.At(i, j), a.At(i, j))
		}, prev)

		delta = prev
	}

	// each layer has its own optimizers, so they can run at the same time
	err = utils.MultiThreadErr(0, layers, func(l int) error {
		w, gw := net.ws[l], gradW[l]
		r, c := w.Dims()

		err := net.wOpts[l].Run(r*c,
			func(i int) float64 { return gw.At(i/c, i%c) },
			func(i int, v float64) { w.Set(i/c, i%c, w.At(i/c, i%c)+v) },
			learningRate)
		if err != nil {
			return errors.Wrapf(err, "Failed to update weights of layer %d\n", l)
		}

		bias, gb := net.biases[l], gradB[l]
		err = net.bOpts[l].Run(len(bias),
			func(i int) float64 { return gb[i] },
			func(i int, v float64) { bias[i] += v },
			learningRate)
		if err != nil {
			return errors.Wrapf(err, "Failed to update biases of layer %d\n", l)
		}

		return nil
	}, 1, 1)

	if err != nil {
		return 0, err
	}

	return cost, nil
}

// Evaluate is the implementation of dnnwsp.Model. For classifiers, it returns the fraction of the
// batch where the highest output is not the target class. For autoencoders, it returns the mean
// squared error of the reconstruction.
func (net *Network) Evaluate(b bs.Batch) (float64, error) {
	targets, err := net.targets(b)
	if err != nil {
		return 0, errors.Wrapf(err, "Can't evaluate\n")
	}

	_, as := net.forward(b.X)
	out := as[len(as)-1]

	if net.autoencoder {
		return costfuncs.MSE().Cost(out, targets), nil
	}

	r, c := out.Dims()
	o := make([]float64, c)
	t := make([]float64, c)

	var wrong int
	for i := 0; i < r; i++ {
		mat.Row(o, i, out)
		mat.Row(t, i, targets)

		if !bs.CorrectHighest(o, t) {
			wrong++
		}
	}

	return float64(wrong) / float64(r), nil
}
