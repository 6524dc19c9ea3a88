package costfuncs

import (
	"math"
	"testing"

	bs "github.com/123rugby/dnnwsp"
	"gonum.org/v1/gonum/mat"
)

func checkDeriv(t *testing.T, f bs.CostFunction, outs, targets *mat.Dense) {
	const h = 1e-6

	ds := f.Deriv(outs, targets)
	r, c := outs.Dims()

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := outs.At(i, j)

			outs.Set(i, j, v+h)
			up := f.Cost(outs, targets)
			outs.Set(i, j, v-h)
			down := f.Cost(outs, targets)
			outs.Set(i, j, v)

			want := (up - down) / (2 * h)
			if math.Abs(ds.At(i, j)-want) > 1e-6 {
				t.Errorf("%s: derivative at (%d, %d) = %v, numerical is %v", f.TypeString(), i, j, ds.At(i, j), want)
			}
		}
	}
}

func TestMSE(t *testing.T) {
	outs := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	targets := mat.NewDense(2, 2, []float64{1, 0, 3, 5})

	// (0 + 4 + 0 + 1) / 4
	if got := MSE().Cost(outs, targets); math.Abs(got-1.25) > 1e-12 {
		t.Errorf("got %v, want 1.25", got)
	}

	checkDeriv(t, MSE(), outs, targets)
}

func TestCrossEntropy(t *testing.T) {
	outs := mat.NewDense(2, 3, []float64{
		0.5, -1, 2,
		0, 0, 0,
	})
	targets := mat.NewDense(2, 3, []float64{
		0, 0, 1,
		1, 0, 0,
	})

	// the second row is uniform, so its cost is log(3)
	lse := math.Log(math.Exp(0.5) + math.Exp(-1) + math.Exp(2))
	want := ((lse - 2) + math.Log(3)) / 2

	if got := CrossEntropy().Cost(outs, targets); math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}

	checkDeriv(t, CrossEntropy(), outs, targets)
}

func TestSoftmax(t *testing.T) {
	// large values shouldn't overflow
	s := Softmax(mat.NewDense(1, 3, []float64{1000, 1000, 1000}))

	for j := 0; j < 3; j++ {
		if math.Abs(s.At(0, j)-1.0/3) > 1e-12 {
			t.Errorf("softmax value %d = %v, want 1/3", j, s.At(0, j))
		}
	}
}
