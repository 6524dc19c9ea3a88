package dnnwsp_test

import (
	"strings"
	"testing"

	bs "github.com/123rugby/dnnwsp"
	"github.com/123rugby/dnnwsp/dataset"
	"gonum.org/v1/gonum/mat"

	_ "github.com/123rugby/dnnwsp/controllers"
	_ "github.com/123rugby/dnnwsp/hyperparams"
	_ "github.com/123rugby/dnnwsp/mlp"
)

func validConfig() bs.Config {
	cfg := bs.DefaultConfig()
	cfg.LayerSizes = []int{4, 3, 2}
	cfg.MaxBeta = []float64{0.05}
	cfg.TargetSparseness = []float64{0.5}
	return cfg
}

func problems(t *testing.T, err error) []string {
	verr, ok := err.(*bs.ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}

	return verr.Problems
}

func TestValidConfig(t *testing.T) {
	if err := validConfig().Validate(nil, nil); err != nil {
		t.Errorf("valid configuration failed validation: %v", err)
	}
}

func TestNoHiddenLayer(t *testing.T) {
	cfg := validConfig()
	cfg.LayerSizes = []int{10, 2}
	cfg.MaxBeta = nil
	cfg.TargetSparseness = nil

	ps := problems(t, cfg.Validate(nil, nil))
	if len(ps) != 1 || !strings.Contains(ps[0], bs.ErrNoHiddenLayer.Error()) {
		t.Errorf("problems = %q", ps)
	}
}

func TestValidationAggregates(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = "edge"
	cfg.TargetSparseness = []float64{1.5}
	cfg.MaxBeta = []float64{0.1, 0.2}
	cfg.BatchSize = 0
	cfg.MinLR = 1

	ps := problems(t, cfg.Validate(nil, nil))

	want := []string{"mode", "target sparseness 0", "max beta values", "batch size", "minimum learning rate"}
	if len(ps) != len(want) {
		t.Errorf("got %d problems, want %d: %q", len(ps), len(want), ps)
	}

	for _, w := range want {
		found := false
		for _, p := range ps {
			found = found || strings.Contains(p, w)
		}

		if !found {
			t.Errorf("no problem mentions %q: %q", w, ps)
		}
	}
}

func TestValidateData(t *testing.T) {
	cfg := validConfig()
	cfg.BatchSize = 5

	x := mat.NewDense(4, 3, nil)
	train, err := dataset.New(x, []int{0, 1, 0, 1}, 2)
	if err != nil {
		t.Fatal(err)
	}

	ps := problems(t, cfg.Validate(train, nil))
	if len(ps) != 2 {
		t.Errorf("expected problems with input width and batch size, got %q", ps)
	}
}

// badSupplier has fewer labels than inputs
type badSupplier struct {
	n, labels int
}

func (s badSupplier) Len() int       { return s.n }
func (s badSupplier) NumLabels() int { return s.labels }
func (s badSupplier) Width() int     { return 4 }
func (s badSupplier) Classes() int   { return 2 }

func (s badSupplier) Batch(indices []int) (bs.Batch, error) {
	return bs.Batch{}, nil
}

func TestValidateLabelCounts(t *testing.T) {
	cfg := validConfig()
	cfg.BatchSize = 5

	ps := problems(t, cfg.Validate(badSupplier{n: 10, labels: 9}, badSupplier{n: 6, labels: 4}))
	if len(ps) != 2 {
		t.Fatalf("expected 2 problems, got %q", ps)
	}

	if !strings.Contains(ps[0], "training inputs and outputs") || !strings.Contains(ps[1], "test inputs and outputs") {
		t.Errorf("problems = %q", ps)
	}

	// autoencoders have no labels to count
	cfg.Autoencoder = true
	cfg.LayerSizes = []int{4, 3, 4}
	if err := cfg.Validate(badSupplier{n: 10}, nil); err != nil {
		t.Errorf("unlabelled data failed validation for an autoencoder: %v", err)
	}
}

func TestValidateModel(t *testing.T) {
	cfg := validConfig()
	cfg.Optimizer = "nonexistent"
	cfg.Initializer = "nonexistent"

	if err := cfg.Validate(nil, nil); err != nil {
		t.Errorf("Validate checked the names used by the Model: %v", err)
	}

	ps := problems(t, cfg.ValidateModel())
	if len(ps) != 2 || !strings.Contains(ps[0], "optimizer") || !strings.Contains(ps[1], "initializer") {
		t.Errorf("problems = %q", ps)
	}

	if err := validConfig().ValidateModel(); err != nil {
		t.Errorf("default names failed validation: %v", err)
	}
}

func TestMergeProblems(t *testing.T) {
	a := &bs.ValidationError{Problems: []string{"one", "two"}}
	b := &bs.ValidationError{Problems: []string{"two", "three"}}

	ps := problems(t, bs.MergeProblems(a, nil, b))
	if strings.Join(ps, ",") != "one,two,three" {
		t.Errorf("merged problems = %q", ps)
	}

	if err := bs.MergeProblems(nil, nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	other := bs.ErrNilData
	if err := bs.MergeProblems(a, other); err != other {
		t.Errorf("expected the other error to be returned, got %v", err)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := bs.ParseConfig(strings.NewReader(`{
		"layer_sizes": [784, 100, 10],
		"mode": "layer",
		"autoencoder": false,
		"max_beta": [0.1],
		"target_sparseness": [0.7]
	}`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Mode != bs.ModeLayer || cfg.Hidden() != 1 || cfg.HiddenSizes()[0] != 100 {
		t.Errorf("decoded %+v", cfg)
	}

	if cfg.Epochs != bs.DefaultConfig().Epochs {
		t.Errorf("defaults were not kept, epochs = %d", cfg.Epochs)
	}

	if _, err = bs.ParseConfig(strings.NewReader(`{"layer_size": [1, 2, 3]}`)); err == nil {
		t.Error("expected an error for an unknown field")
	}

	_, err = bs.ParseConfig(strings.NewReader(`{
		"layer_sizes": [4, 3, 4],
		"autoencoder": "yes",
		"max_beta": [0.1],
		"target_sparseness": [2]
	}`))

	ps := problems(t, err)
	if len(ps) != 2 {
		t.Errorf("expected problems with autoencoder and target sparseness, got %q", ps)
	}
}
