package hyperparams

import (
	"sort"

	"github.com/pkg/errors"
)

type step struct {
	Epoch int
	Val   float64
}

type stepper []step

// Step returns a Scheduler that starts at the base learning rate and switches to the rate of each
// added step once its epoch has finished.
func Step(base float64) *stepper {
	s := make([]step, 1)

	s[0] = step{0, base}

	st := stepper(s)
	return &st
}

// Add adds a step to the Scheduler.
func (s *stepper) Add(epoch int, value float64) *stepper {
	*s = append(*s, step{epoch, value})
	sort.SliceStable((*s)[1:], func(i, j int) bool { return (*s)[i+1].Epoch < (*s)[j+1].Epoch })
	return s
}

func (s *stepper) TypeString() string {
	return "step"
}

func (s *stepper) Next(epoch int, learningRate float64) float64 {
	sl := []step(*s)
	for i := 1; i < len(sl); i++ {
		if sl[i].Epoch > epoch {
			return sl[i-1].Val
		}
	}

	return sl[len(sl)-1].Val
}

func stepsFrom(base float64, pairs [][2]float64) (*stepper, error) {
	if len(pairs) == 0 {
		return nil, errors.Errorf("Can't make step schedule, no steps given")
	}

	s := Step(base)
	for _, p := range pairs {
		s.Add(int(p[0]), p[1])
	}

	return s, nil
}
