package dataset

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Gaussian generates a labelled Set of n samples drawn from one Gaussian cluster per class. The
// center of each cluster is drawn uniformly from [-1, 1] in every dimension, and samples are
// spread around it with the given standard deviation. Classes are assigned in turn, so their
// sizes differ by at most one.
func Gaussian(n, width, classes int, sd float64, rng *rand.Rand) (*Set, error) {
	if n < 1 || width < 1 || classes < 1 {
		return nil, errors.Errorf("Can't generate data, sizes must be >= 1 (n = %d, width = %d, classes = %d)", n, width, classes)
	} else if sd < 0 {
		return nil, errors.Errorf("Can't generate data, standard deviation must be >= 0 (%v)", sd)
	} else if rng == nil {
		return nil, errors.Errorf("Can't generate data, source of randomness is nil")
	}

	centers := make([][]float64, classes)
	for c := range centers {
		centers[c] = make([]float64, width)
		for j := range centers[c] {
			centers[c][j] = 2*rng.Float64() - 1
		}
	}

	x := mat.NewDense(n, width, nil)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		c := i % classes
		labels[i] = c

		for j := 0; j < width; j++ {
			x.Set(i, j, centers[c][j]+sd*rng.NormFloat64())
		}
	}

	return New(x, labels, classes)
}

// GaussianUnlabelled is Gaussian, without labels.
func GaussianUnlabelled(n, width, clusters int, sd float64, rng *rand.Rand) (*Set, error) {
	s, err := Gaussian(n, width, clusters, sd, rng)
	if err != nil {
		return nil, err
	}

	return Unlabelled(s.x)
}
