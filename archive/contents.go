// Package archive stores the results of a training run: the configuration, everything recorded in
// the Trace, and the final parameters of the Model. A run can be written as a directory of JSON
// files or into a SQLite database, and read back from either.
package archive

import (
	"strconv"
	"time"

	bs "github.com/123rugby/dnnwsp"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Run identifies an archived training run.
type Run struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Config  bs.Config `json:"config"`

	FinalBeta       [][]float64 `json:"final_beta"`
	FinalSparseness [][]float64 `json:"final_sparseness"`
}

// Step is the scalar part of a StepRecord
type Step struct {
	Step         int
	Epoch        int
	LearningRate float64
	Cost         float64
}

// Layer holds the parameters of one layer, with weights stored by row ([inputs][outputs]).
type Layer struct {
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`
}

// Contents is everything that is archived for a run.
type Contents struct {
	Run

	Steps  []Step
	Epochs []bs.EpochRecord

	// Beta and Sparseness are indexed by [hidden layer][step][component].
	Beta       [][][]float64
	Sparseness [][][]float64

	Params []Layer
}

// New collects the contents of a finished run, giving it a new ID. The model may be nil, in which
// case no parameters are stored.
func New(cfg bs.Config, trace *bs.Trace, model bs.Model) (*Contents, error) {
	if trace == nil {
		return nil, errors.Errorf("Can't archive run, trace is nil")
	}

	c := &Contents{
		Run: Run{
			ID:              uuid.New().String(),
			Created:         time.Now().UTC().Truncate(time.Second),
			Config:          cfg,
			FinalBeta:       trace.FinalBeta(),
			FinalSparseness: trace.FinalSparseness(),
		},
		Epochs: trace.Epochs(),
	}

	for _, r := range trace.Steps() {
		c.Steps = append(c.Steps, Step{r.Step, r.Epoch, r.LearningRate, r.Cost})
	}

	layers := trace.Layers()
	c.Beta = make([][][]float64, layers)
	c.Sparseness = make([][][]float64, layers)
	for l := 0; l < layers; l++ {
		c.Beta[l] = trace.Betas(l)
		c.Sparseness[l] = trace.Sparseness(l)
	}

	if model == nil {
		return c, nil
	}

	c.Params = make([]Layer, model.NumLayers())
	for l := range c.Params {
		w := model.Weights(l)
		r, _ := w.Dims()

		rows := make([][]float64, r)
		for i := range rows {
			rows[i] = append([]float64(nil), w.RawRowView(i)...)
		}

		c.Params[l] = Layer{rows, model.Biases(l)}
	}

	return c, nil
}

// StepsPerEpoch returns the number of steps in each epoch, or 0 if there are no epochs.
func (c *Contents) StepsPerEpoch() int {
	if len(c.Epochs) == 0 {
		return 0
	}

	return len(c.Steps) / len(c.Epochs)
}

// TrainErrors returns the epochs that were evaluated along with their training error.
func (c *Contents) TrainErrors() (epochs []int, errs []float64) {
	for _, e := range c.Epochs {
		if e.Evaluated {
			epochs = append(epochs, e.Epoch)
			errs = append(errs, e.TrainError)
		}
	}

	return
}

// TestErrors returns the epochs that were evaluated with test data along with their test error.
func (c *Contents) TestErrors() (epochs []int, errs []float64) {
	for _, e := range c.Epochs {
		if e.Evaluated && e.HasTest {
			epochs = append(epochs, e.Epoch)
			errs = append(errs, e.TestError)
		}
	}

	return
}

// DefaultName returns the name the original scripts gave to result files: "mlp_rst_" followed by
// the sizes of the hidden layers, separated by dashes.
func DefaultName(cfg bs.Config) string {
	name := "mlp_rst"
	for i, s := range cfg.HiddenSizes() {
		if i == 0 {
			name += "_"
		} else {
			name += "-"
		}

		name += strconv.Itoa(s)
	}

	return name
}
