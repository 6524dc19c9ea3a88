package mlp

import (
	"math"
	"math/rand"
	"testing"

	bs "github.com/123rugby/dnnwsp"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func testConfig(sizes ...int) bs.Config {
	cfg := bs.DefaultConfig()
	cfg.LayerSizes = sizes
	cfg.Optimizer = "sgd"
	cfg.Activation = "tanh"
	cfg.Initializer = "uniform"
	cfg.L2 = 0.01
	return cfg
}

// two well separated clusters, labelled 0 and 1
func clusters(n int) bs.Batch {
	x := mat.NewDense(2*n, 2, nil)
	y := mat.NewDense(2*n, 2, nil)
	labels := make([]int, 2*n)

	for k := 0; k < n; k++ {
		dx, dy := 0.2*math.Sin(float64(k)), 0.2*math.Cos(float64(k))

		x.SetRow(2*k, []float64{-1 + dx, -1 + dy})
		y.Set(2*k, 0, 1)

		x.SetRow(2*k+1, []float64{1 + dx, 1 + dy})
		y.Set(2*k+1, 1, 1)
		labels[2*k+1] = 1
	}

	return bs.Batch{X: x, Y: y, Labels: labels}
}

func smallBatch() bs.Batch {
	x := mat.NewDense(5, 3, []float64{
		0.1, -0.4, 0.9,
		0.7, 0.2, -0.3,
		-0.5, 0.8, 0.05,
		0.3, 0.3, 0.3,
		-0.9, -0.1, 0.6,
	})
	y := mat.NewDense(5, 2, []float64{
		1, 0,
		0, 1,
		0, 1,
		1, 0,
		1, 0,
	})

	return bs.Batch{X: x, Y: y, Labels: []int{0, 1, 1, 0, 0}}
}

// The change made by a single step of SGD with a learning rate of 1 is the gradient. It should
// agree with a numerical derivative of Loss.
func TestGradient(t *testing.T) {
	const h = 1e-6

	cases := []struct {
		norm  bs.Normalization
		betas [][]float64
	}{
		{bs.NormSum, [][]float64{{0.05}}},
		{bs.NormSum, [][]float64{{0.01, 0.02, 0.03, 0.04}}},
		{bs.NormMean, [][]float64{{0.1, 0, 0.3, 0.2}}},
	}

	for _, c := range cases {
		cfg := testConfig(3, 4, 2)
		cfg.Normalization = c.norm

		net, err := New(cfg, rand.New(rand.NewSource(1)))
		if err != nil {
			t.Fatal(err)
		}

		b := smallBatch()

		ws := make([]*mat.Dense, net.NumLayers())
		biases := make([][]float64, net.NumLayers())
		for l := range ws {
			ws[l], biases[l] = net.Weights(l), net.Biases(l)
		}

		if _, err = net.Step(b, 1, c.betas); err != nil {
			t.Fatal(err)
		}

		for l := range ws {
			after := net.Weights(l)

			var grad mat.Dense
			grad.Sub(ws[l], after)

			// restore the original parameters
			for k := range ws {
				if err = net.SetParams(k, ws[k], biases[k]); err != nil {
					t.Fatal(err)
				}
			}

			r, cols := ws[l].Dims()
			for i := 0; i < r; i++ {
				for j := 0; j < cols; j++ {
					w := mat.DenseCopyOf(ws[l])

					w.Set(i, j, ws[l].At(i, j)+h)
					net.SetParams(l, w, biases[l])
					up, err := net.Loss(b, c.betas)
					if err != nil {
						t.Fatal(err)
					}

					w.Set(i, j, ws[l].At(i, j)-h)
					net.SetParams(l, w, biases[l])
					down, _ := net.Loss(b, c.betas)

					net.SetParams(l, ws[l], biases[l])

					want := (up - down) / (2 * h)
					if math.Abs(grad.At(i, j)-want) > 1e-5 {
						t.Errorf("%s %v: gradient of layer %d at (%d, %d) = %v, numerical is %v",
							c.norm, c.betas, l, i, j, grad.At(i, j), want)
					}
				}
			}

			// step again from the original parameters, to get the next layer's gradient
			if _, err = net.Step(b, 1, c.betas); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestStepReturnsLossBeforeUpdate(t *testing.T) {
	net, err := New(testConfig(3, 4, 2), rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatal(err)
	}

	b := smallBatch()
	betas := [][]float64{{0.02}}

	want, err := net.Loss(b, betas)
	if err != nil {
		t.Fatal(err)
	}

	got, err := net.Step(b, 0.1, betas)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Step returned %v, Loss before the step was %v", got, want)
	}
}

func TestClassifierLearns(t *testing.T) {
	cfg := testConfig(2, 6, 2)
	cfg.Activation = "sigmoid"
	cfg.L2 = 0.001

	net, err := New(cfg, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}

	b := clusters(20)
	betas := [][]float64{{0.001}}

	first, _ := net.Loss(b, betas)
	for i := 0; i < 300; i++ {
		if _, err = net.Step(b, 0.5, betas); err != nil {
			t.Fatal(err)
		}
	}
	last, _ := net.Loss(b, betas)

	if last >= first/2 {
		t.Errorf("loss went from %v to %v", first, last)
	}

	e, err := net.Evaluate(b)
	if err != nil {
		t.Fatal(err)
	}

	if e != 0 {
		t.Errorf("error rate is %v on separable data", e)
	}
}

func TestAutoencoder(t *testing.T) {
	cfg := testConfig(4, 3, 4)
	cfg.Autoencoder = true
	cfg.L2 = 0

	net, err := New(cfg, rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatal(err)
	}

	x := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0.5, 0.5, 0, 0,
	})
	b := bs.Batch{X: x}
	betas := [][]float64{{0, 0, 0}}

	first, err := net.Evaluate(b)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 500; i++ {
		if _, err = net.Step(b, 0.1, betas); err != nil {
			t.Fatal(err)
		}
	}

	last, _ := net.Evaluate(b)
	if last >= first {
		t.Errorf("reconstruction error went from %v to %v", first, last)
	}
}

func TestStepErrors(t *testing.T) {
	net, err := New(testConfig(3, 4, 2), nil)
	if err != nil {
		t.Fatal(err)
	}

	b := smallBatch()

	if _, err = net.Step(b, 0.1, nil); err == nil {
		t.Error("expected an error without betas")
	}

	if _, err = net.Step(b, 0.1, [][]float64{{0.1, 0.2}}); err == nil {
		t.Error("expected an error with the wrong number of betas")
	}

	if _, err = net.Step(bs.Batch{X: b.X}, 0.1, [][]float64{{0}}); err == nil {
		t.Error("expected an error without targets")
	}
}

func TestStepDiverged(t *testing.T) {
	net, err := New(testConfig(3, 4, 2), rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}

	w := net.Weights(1)
	w.Set(2, 0, math.Inf(1))
	if err = net.SetParams(1, w, net.Biases(1)); err != nil {
		t.Fatal(err)
	}

	before := net.Weights(0)

	if _, err = net.Step(smallBatch(), 0.1, [][]float64{{0.01}}); err == nil {
		t.Fatal("expected an error for a loss that isn't finite")
	}

	if !mat.Equal(before, net.Weights(0)) {
		t.Error("weights were updated by a step with a loss that isn't finite")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(testConfig(3, 2), nil); err != bs.ErrNoHiddenLayer {
		t.Errorf("expected ErrNoHiddenLayer, got %v", err)
	}

	cfg := testConfig(3, 4, 2)
	cfg.Activation = "nonexistent"
	cfg.Optimizer = "nonexistent"

	_, err := New(cfg, nil)
	if verr, ok := errors.Cause(err).(*bs.ValidationError); !ok || len(verr.Problems) != 2 {
		t.Errorf("expected both unknown names to be reported, got %v", err)
	}
}
