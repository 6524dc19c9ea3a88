// Package dataset provides an in-memory implementation of dnnwsp.DataSupplier, along with ways to
// load one from CSV files or generate one.
package dataset

import (
	bs "github.com/123rugby/dnnwsp"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Set is a data set held in memory. Inputs are stored one sample per row. A Set without labels
// is suitable for autoencoders.
type Set struct {
	x       *mat.Dense
	labels  []int
	classes int
}

// New returns a Set with the given inputs and class labels. There must be one label per row of x,
// each in the range [0, classes).
func New(x *mat.Dense, labels []int, classes int) (*Set, error) {
	if x == nil {
		return nil, errors.Errorf("Can't create data set, inputs are nil")
	}

	r, _ := x.Dims()
	if len(labels) != r {
		return nil, errors.Errorf("Can't create data set, number of labels != number of samples (%d != %d)", len(labels), r)
	} else if classes < 1 {
		return nil, errors.Errorf("Can't create data set, number of classes must be >= 1 (%d)", classes)
	}

	for i, l := range labels {
		if l < 0 || l >= classes {
			return nil, errors.Errorf("Can't create data set, label %d is out of bounds (%d not in [0, %d))", i, l, classes)
		}
	}

	return &Set{x, append([]int(nil), labels...), classes}, nil
}

// Unlabelled returns a Set of inputs without labels.
func Unlabelled(x *mat.Dense) (*Set, error) {
	if x == nil {
		return nil, errors.Errorf("Can't create data set, inputs are nil")
	}

	return &Set{x: x}, nil
}

// Len returns the number of samples
func (s *Set) Len() int {
	r, _ := s.x.Dims()
	return r
}

// NumLabels returns the number of labels, which is 0 if the Set is unlabelled.
func (s *Set) NumLabels() int {
	return len(s.labels)
}

// Width returns the number of values in each sample
func (s *Set) Width() int {
	_, c := s.x.Dims()
	return c
}

// Classes returns the number of classes that labels are drawn from.
func (s *Set) Classes() int {
	return s.classes
}

// Inputs returns the inputs of the Set. They should not be modified.
func (s *Set) Inputs() *mat.Dense {
	return s.x
}

// Labels returns a copy of the labels of the Set.
func (s *Set) Labels() []int {
	return append([]int(nil), s.labels...)
}

// Batch is the implementation of dnnwsp.DataSupplier. For labelled Sets, the targets are one-hot
// encoded with a width equal to the number of classes.
func (s *Set) Batch(indices []int) (bs.Batch, error) {
	n := s.Len()
	if len(indices) == 0 {
		return bs.Batch{}, errors.Errorf("Can't make batch, no indices given")
	}

	x := mat.NewDense(len(indices), s.Width(), nil)
	for i, idx := range indices {
		if idx < 0 || idx >= n {
			return bs.Batch{}, errors.Errorf("Can't make batch, index %d is out of bounds (%d not in [0, %d))", i, idx, n)
		}

		x.SetRow(i, s.x.RawRowView(idx))
	}

	if s.labels == nil {
		return bs.Batch{X: x}, nil
	}

	labels := make([]int, len(indices))
	for i, idx := range indices {
		labels[i] = s.labels[idx]
	}

	return bs.Batch{X: x, Y: OneHot(labels, s.classes), Labels: labels}, nil
}

// Subset returns a new Set containing the samples at the given indices, in order.
func (s *Set) Subset(indices []int) (*Set, error) {
	b, err := s.Batch(indices)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't make subset\n")
	}

	return &Set{b.X, b.Labels, s.classes}, nil
}

// Split shuffles the indices of the Set with the given permutation function (e.g. rand.Perm) and
// splits it in two, with the first Set holding n samples. Neither Set may be empty.
func (s *Set) Split(n int, perm func(int) []int) (*Set, *Set, error) {
	if n < 1 || n >= s.Len() {
		return nil, nil, errors.Errorf("Can't split %d samples from a set of %d", n, s.Len())
	}

	order := perm(s.Len())

	first, err := s.Subset(order[:n])
	if err != nil {
		return nil, nil, err
	}

	second, err := s.Subset(order[n:])
	if err != nil {
		return nil, nil, err
	}

	return first, second, nil
}

// OneHot returns a matrix with one row per label, where each row is all zeros except for a 1 in
// the column of the label.
func OneHot(labels []int, classes int) *mat.Dense {
	if len(labels) == 0 {
		return nil
	}

	y := mat.NewDense(len(labels), classes, nil)
	for i, l := range labels {
		y.Set(i, l, 1)
	}

	return y
}
