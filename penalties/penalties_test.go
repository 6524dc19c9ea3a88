package penalties

import (
	"math"
	"testing"

	bs "github.com/123rugby/dnnwsp"
	"gonum.org/v1/gonum/mat"
)

func weights() *mat.Dense {
	return mat.NewDense(3, 2, []float64{
		0.5, -1.5,
		-2, 0.25,
		1, 3,
	})
}

func TestL1Cost(t *testing.T) {
	w := weights()

	// |col 0| = 3.5, |col 1| = 4.75
	cases := []struct {
		norm bs.Normalization
		coef []float64
		want float64
	}{
		{bs.NormSum, []float64{0.1}, 0.1 * 8.25},
		{bs.NormSum, []float64{0, 0.2}, 0.2 * 4.75},
		{bs.NormSum, []float64{0.1, 0.2}, 0.1*3.5 + 0.2*4.75},
		{bs.NormMean, []float64{0.1}, 0.1 * 8.25 / 6},
	}

	for _, c := range cases {
		if got := L1(c.norm).Cost(w, c.coef); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("L1(%s) with %v: got %v, want %v", c.norm, c.coef, got, c.want)
		}
	}
}

func TestL2Cost(t *testing.T) {
	w := weights()

	// Σw² = 0.25 + 2.25 + 4 + 0.0625 + 1 + 9
	const sq = 16.5625

	if got := L2(0.01, bs.NormSum).Cost(w, nil); math.Abs(got-0.01*sq) > 1e-12 {
		t.Errorf("got %v, want %v", got, 0.01*sq)
	}

	if got := L2(0.01, bs.NormMean).Cost(w, nil); math.Abs(got-0.01*sq/6) > 1e-12 {
		t.Errorf("got %v, want %v", got, 0.01*sq/6)
	}
}

// AddGrad should agree with a numerical derivative of Cost, away from zero
func TestGradients(t *testing.T) {
	const h = 1e-6

	pens := []bs.Penalty{L1(bs.NormSum), L1(bs.NormMean), L2(0.3, bs.NormSum), L2(0.3, bs.NormMean)}
	coef := []float64{0.7, 0.2}

	for _, p := range pens {
		w := weights()
		r, c := w.Dims()

		grad := mat.NewDense(r, c, nil)
		p.AddGrad(w, coef, grad)

		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				v := w.At(i, j)

				w.Set(i, j, v+h)
				up := p.Cost(w, coef)
				w.Set(i, j, v-h)
				down := p.Cost(w, coef)
				w.Set(i, j, v)

				want := (up - down) / (2 * h)
				if math.Abs(grad.At(i, j)-want) > 1e-5 {
					t.Errorf("%s: gradient at (%d, %d) = %v, numerical is %v", p.TypeString(), i, j, grad.At(i, j), want)
				}
			}
		}
	}
}

func TestAddGradAccumulates(t *testing.T) {
	w := weights()
	grad := mat.NewDense(3, 2, []float64{1, 1, 1, 1, 1, 1})

	L1(bs.NormSum).AddGrad(w, []float64{0.5}, grad)

	if got := grad.At(1, 0); got != 0.5 {
		t.Errorf("got %v, want 0.5", got)
	}
	if got := grad.At(2, 1); got != 1.5 {
		t.Errorf("got %v, want 1.5", got)
	}
}
