package dnnwsp

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// Mode is the granularity of sparsity control.
type Mode string

const (
	// ModeLayer controls one coefficient per hidden layer.
	ModeLayer Mode = "layer"
	// ModeNode controls one coefficient per hidden node.
	ModeNode Mode = "node"
)

// Normalization determines how L1 and L2 penalties are scaled with the size of the weight matrix.
type Normalization string

const (
	// NormSum applies penalties to the sum over the weights.
	NormSum Normalization = "sum"
	// NormMean applies penalties to the mean over the weights. Target sparseness values
	// calibrated under one normalization will generally not carry over to the other.
	NormMean Normalization = "mean"
)

// Config holds everything needed to set up a training run. The zero value is not usable;
// DefaultConfig provides the starting point that configuration files are decoded on top of.
type Config struct {
	// LayerSizes lists the number of nodes in the input, each hidden, and the output layer.
	LayerSizes []int `json:"layer_sizes"`

	Mode        Mode `json:"mode"`
	Autoencoder bool `json:"autoencoder"`

	Epochs    int `json:"epochs"`
	BatchSize int `json:"batch_size"`

	// BeginAnneal is the last epoch before the learning rate starts to decay. 0 disables
	// annealing.
	BeginAnneal int     `json:"begin_anneal"`
	DecayRate   float64 `json:"decay_rate"`
	LRInit      float64 `json:"lr_init"`
	MinLR       float64 `json:"min_lr"`

	// LRSteps is used by the "step" schedule: pairs of [epoch, learning rate], where the rate
	// applies after the given epoch has finished.
	LRSteps [][2]float64 `json:"lr_steps,omitempty"`

	// LRBeta is the step size of the sparsity controller.
	LRBeta float64 `json:"lr_beta"`
	L2     float64 `json:"l2_param"`

	// MaxBeta and TargetSparseness have one value per hidden layer. In node-wise mode, the
	// values are shared by every node of the layer.
	MaxBeta          []float64 `json:"max_beta"`
	TargetSparseness []float64 `json:"target_sparseness"`

	Normalization Normalization `json:"normalization"`

	Optimizer   string  `json:"optimizer"`
	Momentum    float64 `json:"momentum"`
	Activation  string  `json:"activation"`
	Initializer string  `json:"initializer"`
	Schedule    string  `json:"schedule"`

	// Shuffle indicates whether the training samples are presented in a new random order every
	// epoch.
	Shuffle bool `json:"shuffle"`

	// EvaluateEvery is the number of epochs between evaluations of the train and test error. 0
	// disables evaluation.
	EvaluateEvery int `json:"evaluate_every"`

	Seed int64 `json:"seed"`
}

// DefaultConfig returns a Config with every value except for the layer sizes, maximum betas, and
// target sparseness filled in.
func DefaultConfig() Config {
	return Config{
		Mode:          ModeNode,
		Epochs:        30,
		BatchSize:     100,
		BeginAnneal:   20,
		DecayRate:     1e-4,
		LRInit:        1e-2,
		MinLR:         1e-4,
		LRBeta:        1e-3,
		L2:            1e-5,
		Normalization: NormSum,
		Optimizer:     "adagrad",
		Momentum:      0.9,
		Activation:    "sigmoid",
		Initializer:   "he",
		Schedule:      "anneal",
		Shuffle:       true,
		EvaluateEvery: 1,
		Seed:          1234,
	}
}

// Hidden returns the number of hidden layers described by the Config. It may be negative for
// invalid configurations.
func (cfg Config) Hidden() int {
	return len(cfg.LayerSizes) - 2
}

// HiddenSizes returns the sizes of the hidden layers, or nil if there are none.
func (cfg Config) HiddenSizes() []int {
	if cfg.Hidden() < 1 {
		return nil
	}

	hs := make([]int, cfg.Hidden())
	copy(hs, cfg.LayerSizes[1:len(cfg.LayerSizes)-1])
	return hs
}

// fileConfig shadows Autoencoder so that a non-boolean value can be reported along with the other
// validation problems, instead of failing the decode.
type fileConfig struct {
	Config
	Autoencoder json.RawMessage `json:"autoencoder"`
}

// ParseConfig decodes a JSON configuration on top of DefaultConfig and validates it without
// data. If only validation fails, the decoded Config is returned along with a *ValidationError.
func ParseConfig(r io.Reader) (Config, error) {
	fc := fileConfig{Config: DefaultConfig()}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return Config{}, errors.Wrapf(err, "Failed to decode configuration\n")
	}

	cfg := fc.Config
	verr := new(ValidationError)

	if raw := bytes.TrimSpace(fc.Autoencoder); len(raw) != 0 {
		switch string(raw) {
		case "true":
			cfg.Autoencoder = true
		case "false":
			cfg.Autoencoder = false
		default:
			verr.add("autoencoder must be true or false (given %s)", raw)
		}
	}

	cfg.check(verr)
	return cfg, verr.orNil()
}

// LoadConfig opens the file at the given path and parses it with ParseConfig.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "Failed to open configuration file %q\n", path)
	}

	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		if _, ok := err.(*ValidationError); ok {
			return cfg, err
		}

		return cfg, errors.Wrapf(err, "Failed to load configuration from %q\n", path)
	}

	return cfg, nil
}

// Validate checks that the Config describes a run that can be carried out, along with the
// training and testing data. Either of the data sets may be nil, in which case only the Config
// is checked. All of the problems found are returned together as a *ValidationError. Names that
// are only used to build a Model are left to ValidateModel.
func (cfg Config) Validate(train, test DataSupplier) error {
	verr := new(ValidationError)

	cfg.check(verr)
	cfg.checkData(verr, "training", train)
	cfg.checkData(verr, "test", test)

	if train != nil && cfg.BatchSize > train.Len() {
		verr.add("batch size is larger than the training set (%d > %d); no step would be taken", cfg.BatchSize, train.Len())
	}

	return verr.orNil()
}

func (cfg Config) check(verr *ValidationError) {
	hidden := cfg.Hidden()

	if hidden < 1 {
		verr.add("%s (given %d layer sizes)", ErrNoHiddenLayer, len(cfg.LayerSizes))
	}

	for i, s := range cfg.LayerSizes {
		if s < 1 {
			verr.add("layer size %d must be >= 1 (%d)", i, s)
		}
	}

	switch cfg.Mode {
	case ModeLayer, ModeNode:
	default:
		verr.add("%s (given %q)", ErrUnknownMode, cfg.Mode)
	}

	if hidden >= 0 {
		if len(cfg.MaxBeta) != hidden {
			verr.add("number of max beta values does not match the number of hidden layers (%d != %d)", len(cfg.MaxBeta), hidden)
		}

		if len(cfg.TargetSparseness) != hidden {
			verr.add("number of target sparseness values does not match the number of hidden layers (%d != %d)", len(cfg.TargetSparseness), hidden)
		}
	}

	for i, t := range cfg.TargetSparseness {
		if !(t >= 0 && t <= 1) {
			verr.add("target sparseness %d must be in [0, 1] (%v)", i, t)
		}
	}

	for i, b := range cfg.MaxBeta {
		if !(b >= 0) || math.IsInf(b, 0) {
			verr.add("max beta %d must be finite and >= 0 (%v)", i, b)
		}
	}

	// Hoyer's sparseness divides by √n - 1, so every measured vector needs 2 or more values
	if hidden >= 1 {
		for i := 0; i < hidden; i++ {
			in, out := cfg.LayerSizes[i], cfg.LayerSizes[i+1]
			if cfg.Mode == ModeNode && in < 2 {
				verr.add("node-wise control of hidden layer %d needs at least 2 inputs per node (%d)", i, in)
			} else if cfg.Mode == ModeLayer && in*out < 2 {
				verr.add("layer-wise control of hidden layer %d needs at least 2 weights (%d)", i, in*out)
			}
		}
	}

	if cfg.Autoencoder && len(cfg.LayerSizes) >= 2 && cfg.LayerSizes[0] != cfg.LayerSizes[len(cfg.LayerSizes)-1] {
		verr.add("autoencoder output size must equal its input size (%d != %d)", cfg.LayerSizes[len(cfg.LayerSizes)-1], cfg.LayerSizes[0])
	}

	if cfg.Epochs < 1 {
		verr.add("number of epochs must be >= 1 (%d)", cfg.Epochs)
	}

	if cfg.BatchSize < 1 {
		verr.add("batch size must be >= 1 (%d)", cfg.BatchSize)
	}

	if !(cfg.LRInit > 0) {
		verr.add("initial learning rate must be > 0 (%v)", cfg.LRInit)
	}

	if !(cfg.MinLR >= 0) {
		verr.add("minimum learning rate must be >= 0 (%v)", cfg.MinLR)
	} else if cfg.MinLR > cfg.LRInit {
		verr.add("minimum learning rate is larger than the initial learning rate (%v > %v)", cfg.MinLR, cfg.LRInit)
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"controller step size (lr_beta)", cfg.LRBeta},
		{"L2 parameter", cfg.L2},
		{"decay rate", cfg.DecayRate},
		{"momentum", cfg.Momentum},
		{"begin anneal", float64(cfg.BeginAnneal)},
		{"evaluate every", float64(cfg.EvaluateEvery)},
	}
	for _, v := range nonNegative {
		if !(v.value >= 0) {
			verr.add("%s must be >= 0 (%v)", v.name, v.value)
		}
	}

	switch cfg.Normalization {
	case NormSum, NormMean:
	default:
		verr.add("normalization must be %q or %q (given %q)", NormSum, NormMean, cfg.Normalization)
	}

	if !registered(kindScheduler, cfg.Schedule) {
		verr.add("unknown %s %q (known: %v)", kindScheduler, cfg.Schedule, names(kindScheduler))
	}

	if cfg.Schedule == "step" && len(cfg.LRSteps) == 0 {
		verr.add("the step schedule needs at least one learning rate step (lr_steps)")
	}

	for i, s := range cfg.LRSteps {
		if s[0] < 1 || s[0] != math.Trunc(s[0]) {
			verr.add("learning rate step %d must start after a whole epoch >= 1 (%v)", i, s[0])
		}
		if !(s[1] > 0) {
			verr.add("learning rate step %d must have a rate > 0 (%v)", i, s[1])
		}
	}
}

// ValidateModel checks the parts of the Config that are only used to build a Model: the names of
// its optimizer, activation, and initializer. Train does not check these, because the Model is
// built before it is given to Train.
func (cfg Config) ValidateModel() error {
	verr := new(ValidationError)

	named := []struct {
		kind, name string
	}{
		{kindOptimizer, cfg.Optimizer},
		{kindActivation, cfg.Activation},
		{kindInitializer, cfg.Initializer},
	}
	for _, n := range named {
		if !registered(n.kind, n.name) {
			verr.add("unknown %s %q (known: %v)", n.kind, n.name, names(n.kind))
		}
	}

	return verr.orNil()
}

func (cfg Config) checkData(verr *ValidationError, name string, data DataSupplier) {
	if data == nil {
		return
	}

	if !cfg.Autoencoder && data.Len() != data.NumLabels() {
		verr.add("the sizes of the %s inputs and outputs don't match (%d != %d)", name, data.Len(), data.NumLabels())
	}

	if len(cfg.LayerSizes) > 0 && data.Width() != cfg.LayerSizes[0] {
		verr.add("the width of the %s inputs does not match the input layer (%d != %d)", name, data.Width(), cfg.LayerSizes[0])
	}

	if !cfg.Autoencoder && len(cfg.LayerSizes) > 0 && data.Classes() > cfg.LayerSizes[len(cfg.LayerSizes)-1] {
		verr.add("the %s set has more classes than the output layer has nodes (%d > %d)", name, data.Classes(), cfg.LayerSizes[len(cfg.LayerSizes)-1])
	}
}
