package hyperparams

import (
	"math"
	"testing"

	bs "github.com/123rugby/dnnwsp"
)

func TestAnnealHoldsUntilBegin(t *testing.T) {
	a := Anneal(20, 1e-4, 1e-4)

	for e := 1; e <= 20; e++ {
		if lr := a.Next(e, 0.01); lr != 0.01 {
			t.Errorf("epoch %d: learning rate changed to %v before annealing began", e, lr)
		}
	}
}

func TestAnnealDisabled(t *testing.T) {
	a := Anneal(0, 0.5, 0)

	for e := 1; e <= 50; e++ {
		if lr := a.Next(e, 0.01); lr != 0.01 {
			t.Errorf("epoch %d: learning rate changed to %v with annealing disabled", e, lr)
		}
	}
}

func TestAnnealDecays(t *testing.T) {
	const (
		begin = 2
		decay = 0.1
		min   = 0.001
	)

	a := Anneal(begin, decay, min)

	lr := 0.1
	for e := 1; e <= 40; e++ {
		next := a.Next(e, lr)

		if e > begin {
			want := math.Max(min, (-decay*float64(e)+1+decay*float64(begin))*lr)
			if math.Abs(next-want) > 1e-15 {
				t.Errorf("epoch %d: got %v, want %v", e, next, want)
			}
		}

		if next > lr {
			t.Errorf("epoch %d: learning rate increased from %v to %v", e, lr, next)
		}
		if next < min {
			t.Errorf("epoch %d: learning rate %v below minimum %v", e, next, min)
		}

		lr = next
	}

	if lr != min {
		t.Errorf("learning rate should have reached the minimum, ended at %v", lr)
	}
}

func TestStep(t *testing.T) {
	s := Step(1).Add(5, 0.1).Add(2, 0.5)

	cases := map[int]float64{1: 1, 2: 0.5, 4: 0.5, 5: 0.1, 100: 0.1}
	for e, want := range cases {
		if got := s.Next(e, 123); got != want {
			t.Errorf("epoch %d: got %v, want %v", e, got, want)
		}
	}
}

func TestConstant(t *testing.T) {
	if got := Constant(0.3).Next(7, 0.9); got != 0.3 {
		t.Errorf("got %v, want 0.3", got)
	}
}

func TestRegistered(t *testing.T) {
	cfg := bs.DefaultConfig()

	for _, name := range []string{"constant", "anneal"} {
		if _, err := bs.NewScheduler(name, cfg); err != nil {
			t.Errorf("schedule %q: %v", name, err)
		}
	}

	if _, err := bs.NewScheduler("step", cfg); err == nil {
		t.Error("step schedule without steps should fail")
	}

	cfg.LRSteps = [][2]float64{{3, 0.001}}
	s, err := bs.NewScheduler("step", cfg)
	if err != nil {
		t.Fatal(err)
	}

	if got := s.Next(3, cfg.LRInit); got != 0.001 {
		t.Errorf("got %v, want 0.001", got)
	}
}
