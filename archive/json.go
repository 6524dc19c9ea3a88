package archive

import (
	"encoding/json"
	"os"
	"path/filepath"

	bs "github.com/123rugby/dnnwsp"
	"github.com/pkg/errors"
)

// the files written by WriteJSON
const (
	runFile          string = "run.json"
	learningRateFile string = "result_learningrate.json"
	costFile         string = "result_cost.json"
	betaFile         string = "result_beta.json"
	sparsenessFile   string = "result_hsp.json"
	trainErrorFile   string = "result_train_err.json"
	testErrorFile    string = "result_test_err.json"
	paramsFile       string = "params.json"
)

// series is a value recorded at every step and summarized at every epoch
type series struct {
	Step  []float64 `json:"step"`
	Epoch []float64 `json:"epoch"`
}

// errorSeries is a value recorded only at the epochs that were evaluated
type errorSeries struct {
	Epoch []int     `json:"epoch"`
	Error []float64 `json:"error"`
}

// WriteJSON writes the contents as a directory of JSON files. If the directory already exists, it
// is replaced only if overwrite is true.
func WriteJSON(dirPath string, c *Contents, overwrite bool) error {
	var err error

	if c == nil {
		return errors.Errorf("Can't write archive, contents are nil")
	}

	// check if the folder already exists
	if _, err = os.Stat(dirPath); err == nil {
		if !overwrite {
			return errors.Errorf("Can't write archive, folder %q already exists, and overwrite is not enabled", dirPath)
		}

		if err = os.RemoveAll(dirPath); err != nil {
			return errors.Wrapf(err, "Can't write archive, couldn't remove pre-existing folder to overwrite\n")
		}
	}

	if err = os.MkdirAll(dirPath, 0700); err != nil {
		return errors.Wrapf(err, "Couldn't make directory to write archive\n")
	}

	lr, cost := series{}, series{}
	for _, s := range c.Steps {
		lr.Step = append(lr.Step, s.LearningRate)
		cost.Step = append(cost.Step, s.Cost)
	}
	for _, e := range c.Epochs {
		lr.Epoch = append(lr.Epoch, e.LearningRate)
		cost.Epoch = append(cost.Epoch, e.Cost)
	}

	var trainErr, testErr errorSeries
	trainErr.Epoch, trainErr.Error = c.TrainErrors()
	testErr.Epoch, testErr.Error = c.TestErrors()

	files := []struct {
		name string
		v    interface{}
	}{
		{runFile, c.Run},
		{learningRateFile, lr},
		{costFile, cost},
		{betaFile, c.Beta},
		{sparsenessFile, c.Sparseness},
		{trainErrorFile, trainErr},
		{testErrorFile, testErr},
		{paramsFile, c.Params},
	}

	for _, f := range files {
		if err = writeFile(filepath.Join(dirPath, f.name), f.v); err != nil {
			return errors.Wrapf(err, "Failed to write archive to %q\n", dirPath)
		}
	}

	return nil
}

func writeFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Couldn't create file %s\n", filepath.Base(path))
	}

	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "\t")
	if err = enc.Encode(v); err != nil {
		return errors.Wrapf(err, "Couldn't encode %s\n", filepath.Base(path))
	}

	return f.Close()
}

func readFile(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "Couldn't open file %s\n", filepath.Base(path))
	}

	defer f.Close()

	if err = json.NewDecoder(f).Decode(v); err != nil {
		return errors.Wrapf(err, "Couldn't decode %s\n", filepath.Base(path))
	}

	return nil
}

// LoadJSON reads a directory written by WriteJSON.
func LoadJSON(dirPath string) (*Contents, error) {
	// check if the folder exists
	if _, err := os.Stat(dirPath); err != nil {
		return nil, errors.Errorf("Can't load archive, directory %q does not exist", dirPath)
	}

	c := new(Contents)

	var lr, cost series
	var trainErr, testErr errorSeries

	files := []struct {
		name string
		v    interface{}
	}{
		{runFile, &c.Run},
		{learningRateFile, &lr},
		{costFile, &cost},
		{betaFile, &c.Beta},
		{sparsenessFile, &c.Sparseness},
		{trainErrorFile, &trainErr},
		{testErrorFile, &testErr},
		{paramsFile, &c.Params},
	}

	for _, f := range files {
		if err := readFile(filepath.Join(dirPath, f.name), f.v); err != nil {
			return nil, errors.Wrapf(err, "Failed to load archive from %q\n", dirPath)
		}
	}

	if len(lr.Step) != len(cost.Step) || len(lr.Epoch) != len(cost.Epoch) {
		return nil, errors.Errorf("Can't load archive, learning rates and costs have different lengths")
	} else if len(trainErr.Epoch) != len(trainErr.Error) || len(testErr.Epoch) != len(testErr.Error) {
		return nil, errors.Errorf("Can't load archive, error series are malformed")
	}

	c.Epochs = make([]bs.EpochRecord, len(lr.Epoch))
	for i := range c.Epochs {
		c.Epochs[i] = bs.EpochRecord{Epoch: i + 1, LearningRate: lr.Epoch[i], Cost: cost.Epoch[i]}
	}

	var perEpoch int
	if len(lr.Epoch) > 0 {
		perEpoch = len(lr.Step) / len(lr.Epoch)
	}

	c.Steps = make([]Step, len(lr.Step))
	for i := range c.Steps {
		c.Steps[i] = Step{Step: i + 1, LearningRate: lr.Step[i], Cost: cost.Step[i]}
		if perEpoch > 0 {
			c.Steps[i].Epoch = i/perEpoch + 1
		}
	}

	for i, e := range trainErr.Epoch {
		if e < 1 || e > len(c.Epochs) {
			return nil, errors.Errorf("Can't load archive, training error recorded for epoch %d of %d", e, len(c.Epochs))
		}

		c.Epochs[e-1].Evaluated = true
		c.Epochs[e-1].TrainError = trainErr.Error[i]
	}

	for i, e := range testErr.Epoch {
		if e < 1 || e > len(c.Epochs) || !c.Epochs[e-1].Evaluated {
			return nil, errors.Errorf("Can't load archive, test error recorded for epoch %d, which was not evaluated", e)
		}

		c.Epochs[e-1].HasTest = true
		c.Epochs[e-1].TestError = testErr.Error[i]
	}

	return c, nil
}
