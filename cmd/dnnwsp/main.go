// Command dnnwsp trains a multi-layer perceptron while controlling the weight sparsity of its
// hidden layers, and archives the results.
//
// Usage:
//
//	dnnwsp -config run.json -train train.csv [-test test.csv] [-out dir] [-format json|sqlite]
//
// Without -train, a synthetic data set of gaussian clusters is generated to fit the configured
// layer sizes.
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	bs "github.com/123rugby/dnnwsp"
	"github.com/123rugby/dnnwsp/archive"
	"github.com/123rugby/dnnwsp/dataset"
	"github.com/123rugby/dnnwsp/mlp"
	"github.com/pkg/errors"

	// controllers and learning rate schedules
	_ "github.com/123rugby/dnnwsp/controllers"
	_ "github.com/123rugby/dnnwsp/hyperparams"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

type options struct {
	config    string
	train     string
	test      string
	out       string
	format    string
	overwrite bool
	seed      int64

	// csv
	scale  float64
	header bool

	// synthetic data
	samples int
	spread  float64
}

func parseFlags(args []string, output io.Writer) (options, map[string]bool, error) {
	var opts options

	fs := flag.NewFlagSet("dnnwsp", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.config, "config", "", "path to the JSON configuration (required)")
	fs.StringVar(&opts.train, "train", "", "CSV file of training samples; synthetic data is used if empty")
	fs.StringVar(&opts.test, "test", "", "CSV file of test samples")
	fs.StringVar(&opts.out, "out", "", "where to write results (default mlp_rst_<hidden sizes>)")
	fs.StringVar(&opts.format, "format", "json", "archive format: json or sqlite")
	fs.BoolVar(&opts.overwrite, "overwrite", false, "replace an existing JSON archive")
	fs.Int64Var(&opts.seed, "seed", 0, "overrides the seed in the configuration")
	fs.Float64Var(&opts.scale, "scale", 1, "CSV inputs are divided by this value")
	fs.BoolVar(&opts.header, "header", false, "CSV files start with a header line")
	fs.IntVar(&opts.samples, "samples", 1000, "number of synthetic training samples")
	fs.Float64Var(&opts.spread, "spread", 0.5, "standard deviation of the synthetic clusters")

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if opts.config == "" {
		return opts, nil, errors.Errorf("No configuration given (-config)")
	} else if opts.format != "json" && opts.format != "sqlite" {
		return opts, nil, errors.Errorf("Unknown archive format %q, expected json or sqlite", opts.format)
	}

	return opts, set, nil
}

func run(args []string, stdout io.Writer) error {
	opts, set, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}

	// problems with the configuration are held back until the data has been checked as well, so
	// that they can all be reported at once
	cfg, cfgErr := bs.LoadConfig(opts.config)
	if _, invalid := cfgErr.(*bs.ValidationError); cfgErr != nil && !invalid {
		return cfgErr
	}

	if set["seed"] {
		cfg.Seed = opts.seed
	}

	train, test, err := loadData(cfg, opts)
	if err != nil {
		if cfgErr != nil {
			return cfgErr
		}
		return err
	}

	// a nil *dataset.Set must not become a non-nil DataSupplier
	var trainData, testData bs.DataSupplier = train, nil
	if test != nil {
		testData = test
	}

	// nothing is written until everything has been checked
	if err = bs.MergeProblems(cfgErr, cfg.Validate(trainData, testData), cfg.ValidateModel()); err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		out = archive.DefaultName(cfg)
		if opts.format == "sqlite" {
			out += ".db"
		}
	}

	if opts.format == "json" && !opts.overwrite {
		if _, err = os.Stat(out); err == nil {
			return errors.Errorf("Output %q already exists, use -overwrite to replace it", out)
		}
	}

	net, err := mlp.New(cfg, nil)
	if err != nil {
		return errors.Wrapf(err, "Couldn't create network\n")
	}

	fmt.Fprintf(stdout, "Training %v network with %d samples...\n", cfg.LayerSizes, train.Len())

	trace, err := bs.Train(net, bs.TrainArgs{
		Config:    cfg,
		TrainData: trainData,
		TestData:  testData,
		Update:    printResult(stdout, cfg.Autoencoder),
	})
	if err != nil {
		return errors.Wrapf(err, "Training failed\n")
	}

	contents, err := archive.New(cfg, trace, net)
	if err != nil {
		return err
	}

	if opts.format == "sqlite" {
		err = archive.SaveSQLite(out, contents)
	} else {
		err = archive.WriteJSON(out, contents, opts.overwrite)
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Saved run %s to %s\n", contents.ID, out)
	return nil
}

// loadData returns the training and (possibly nil) test sets
func loadData(cfg bs.Config, opts options) (train, test *dataset.Set, err error) {
	if len(cfg.LayerSizes) < 2 {
		return nil, nil, errors.Errorf("Can't load data, configuration has %d layer sizes", len(cfg.LayerSizes))
	}

	classes := cfg.LayerSizes[len(cfg.LayerSizes)-1]
	csvOpts := dataset.CSVOptions{
		Labelled: !cfg.Autoencoder,
		Classes:  classes,
		Scale:    opts.scale,
		Header:   opts.header,
	}
	if cfg.Autoencoder {
		csvOpts.Classes = 0
	}

	if opts.train != "" {
		if train, err = dataset.LoadCSV(opts.train, csvOpts); err != nil {
			return nil, nil, errors.Wrapf(err, "Can't load training data\n")
		}
	} else {
		rng := rand.New(rand.NewSource(cfg.Seed))
		if train, err = synthetic(cfg, opts.samples, opts.spread, rng); err != nil {
			return nil, nil, errors.Wrapf(err, "Can't generate training data\n")
		}

		// hold out a fifth of the samples for testing, unless there's a test file
		if opts.test == "" && train.Len() >= 5 {
			return train.Split(train.Len()-train.Len()/5, rng.Perm)
		}
	}

	if opts.test != "" {
		if test, err = dataset.LoadCSV(opts.test, csvOpts); err != nil {
			return nil, nil, errors.Wrapf(err, "Can't load test data\n")
		}
	}

	return train, test, nil
}

func synthetic(cfg bs.Config, n int, sd float64, rng *rand.Rand) (*dataset.Set, error) {
	width := cfg.LayerSizes[0]
	classes := cfg.LayerSizes[len(cfg.LayerSizes)-1]

	if cfg.Autoencoder {
		return dataset.GaussianUnlabelled(n, width, 4, sd, rng)
	}

	return dataset.Gaussian(n, width, classes, sd, rng)
}

// printResult returns an Update function that prints one line per epoch
func printResult(w io.Writer, autoencoder bool) func(bs.Result) {
	// classification errors are shown as percentages
	scale := 100.0
	if autoencoder {
		scale = 1
	}

	return func(r bs.Result) {
		var b strings.Builder

		if r.Mode == bs.ModeNode {
			b.WriteString("Node-wise control, ")
		} else {
			b.WriteString("Layer-wise control, ")
		}

		fmt.Fprintf(&b, "epoch %d/%d, ", r.Epoch, r.Epochs)
		if r.Evaluated {
			fmt.Fprintf(&b, "Tr.err= %.2f, ", scale*r.TrainError)
			if r.HasTest {
				fmt.Fprintf(&b, "Ts.err= %.2f, ", scale*r.TestError)
			}
		}
		fmt.Fprintf(&b, "cost = %.4f, lr = %.6f", r.Cost, r.LearningRate)

		for l := range r.Sparseness {
			fmt.Fprintf(&b, ", hsp_l%d = %.2f/%.2f, beta_l%d = %.2f", l+1, r.Sparseness[l], r.Target[l], l+1, r.Beta[l])
		}

		fmt.Fprintln(w, b.String())
	}
}
