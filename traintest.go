package dnnwsp

import (
	"math/rand"

	"github.com/123rugby/dnnwsp/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Result is a summary of an epoch, sent back through TrainArgs.Update.
type Result struct {
	Epoch  int
	Epochs int

	// Steps is the total number of steps taken so far.
	Steps int

	// LearningRate is the rate used during the epoch; NextLearningRate is the rate for the next.
	LearningRate     float64
	NextLearningRate float64

	// Average cost over the steps of the epoch
	Cost float64

	// Whether or not the errors were calculated for this epoch. TestError is only set if there is
	// test data.
	Evaluated  bool
	HasTest    bool
	TrainError float64
	TestError  float64

	Mode Mode

	// The mean sparseness and beta of each hidden layer at the end of the epoch, along with its
	// target sparseness.
	Sparseness []float64
	Beta       []float64
	Target     []float64
}

// TrainArgs holds the arguments to Train
type TrainArgs struct {
	Config Config

	TrainData DataSupplier

	// TestData is used to calculate the test error when evaluating. It may be nil.
	TestData DataSupplier

	// Controller measures sparseness and updates betas. If nil, the Controller registered for
	// Config.Mode is used.
	Controller Controller

	// Schedule updates the learning rate after each epoch. If nil, the Scheduler registered as
	// Config.Schedule is used.
	Schedule Scheduler

	// Rand is used to shuffle the training data. If nil, one is seeded with Config.Seed.
	Rand *rand.Rand

	// Update is called at the end of each epoch. It may be left nil.
	Update func(Result)
}

// Train runs the training loop: for each epoch, every full mini-batch of the (optionally
// shuffled) training data is given to the Model for a single step, after which the sparseness of
// each hidden layer is measured and its betas are updated. At the end of each epoch the errors
// are optionally evaluated and the learning rate is updated.
//
// The number of steps per epoch is the size of the training set divided by the batch size,
// rounded down; any samples left over are not used in that epoch.
//
// The Config and data are validated before anything else is done. Any error from the Model or
// from measuring sparseness ends training. A weight vector with zero norm results in a
// *ZeroNormError naming the layer, node, and step; weights that are NaN or infinite result in a
// *NonFiniteError naming the same.
func Train(model Model, args TrainArgs) (*Trace, error) {
	// handle error cases and set defaults
	cfg := args.Config
	{
		if model == nil {
			return nil, ErrNilModel
		} else if args.TrainData == nil {
			return nil, ErrNilData
		}

		if err := cfg.Validate(args.TrainData, args.TestData); err != nil {
			return nil, err
		}

		if err := checkModel(model, cfg); err != nil {
			return nil, err
		}

		if args.Controller == nil {
			ctrl, err := NewController(cfg.Mode)
			if err != nil {
				return nil, errors.Wrapf(err, "No Controller given or registered for mode %q\n", cfg.Mode)
			}
			args.Controller = ctrl
		}

		if args.Schedule == nil {
			sch, err := NewScheduler(cfg.Schedule, cfg)
			if err != nil {
				return nil, errors.Wrapf(err, "No learning rate schedule given or available\n")
			}
			args.Schedule = sch
		}

		if args.Rand == nil {
			args.Rand = rand.New(rand.NewSource(cfg.Seed))
		}

		if args.Update == nil {
			args.Update = func(r Result) {}
		}
	}

	state := newTrainingState(cfg, model, args.Controller)
	trace := new(Trace)

	n := args.TrainData.Len()
	stepsPerEpoch := n / cfg.BatchSize

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	sync, _ := model.(Synchronizer)
	evaluateNow := Every(cfg.EvaluateEvery)

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		state.Epoch = epoch

		if cfg.Shuffle {
			order = args.Rand.Perm(n)
		}

		var epochCost float64
		for b := 0; b < stepsPerEpoch; b++ {
			batch, err := args.TrainData.Batch(order[b*cfg.BatchSize : (b+1)*cfg.BatchSize])
			if err != nil {
				return trace, errors.Wrapf(err, "Failed to get training batch on step %d\n", state.Step+1)
			}

			// the betas in use for this step; the controller replaces (not modifies) state.Betas
			betas := state.Betas

			cost, err := model.Step(batch, state.LearningRate, copyNested(betas))
			if err != nil {
				return trace, errors.Wrapf(err, "Model failed to take step %d\n", state.Step+1)
			}

			if sync != nil {
				if err = sync.Sync(); err != nil {
					return trace, errors.Wrapf(err, "Failed to synchronize Model after step %d\n", state.Step+1)
				}
			}

			state.Step++

			if err = state.control(model, args.Controller, cfg); err != nil {
				return trace, err
			}

			err = trace.AddStep(StepRecord{
				Step:         state.Step,
				Epoch:        epoch,
				LearningRate: state.LearningRate,
				Cost:         cost,
				Beta:         betas,
				Sparseness:   state.Sparseness,
			})
			if err != nil {
				return trace, err
			}

			epochCost += cost / float64(stepsPerEpoch)
		}

		rec := EpochRecord{
			Epoch:        epoch,
			LearningRate: state.LearningRate,
			Cost:         epochCost,
		}

		if evaluateNow(epoch) {
			if err := evaluate(model, args.TrainData, args.TestData, &rec); err != nil {
				return trace, errors.Wrapf(err, "Failed to evaluate on epoch %d\n", epoch)
			}
		}

		if err := trace.AddEpoch(rec); err != nil {
			return trace, err
		}

		next := args.Schedule.Next(epoch, state.LearningRate)

		args.Update(Result{
			Epoch:            epoch,
			Epochs:           cfg.Epochs,
			Steps:            state.Step,
			LearningRate:     state.LearningRate,
			NextLearningRate: next,
			Cost:             epochCost,
			Evaluated:        rec.Evaluated,
			HasTest:          rec.HasTest,
			TrainError:       rec.TrainError,
			TestError:        rec.TestError,
			Mode:             cfg.Mode,
			Sparseness:       means(state.Sparseness),
			Beta:             means(state.Betas),
			Target:           append([]float64(nil), cfg.TargetSparseness...),
		})

		state.LearningRate = next
	}

	trace.finish(state)
	return trace, nil
}

// control measures the sparseness of each hidden layer of the freshly updated Model and replaces
// the betas. Layers are handled in parallel; all have finished when control returns.
func (s *TrainingState) control(model Model, ctrl Controller, cfg Config) error {
	layers := len(s.Betas)

	betas := make([][]float64, layers)
	hs := make([][]float64, layers)

	err := utils.MultiThreadErr(0, layers, func(l int) error {
		h, err := ctrl.Measure(model.Weights(l))
		if err != nil {
			switch e := errors.Cause(err).(type) {
			case *ZeroNormError:
				e.Layer, e.Step = l, s.Step
				return e
			case *NonFiniteError:
				e.Layer, e.Step = l, s.Step
				return e
			}

			return errors.Wrapf(err, "Failed to measure sparseness of hidden layer %d on step %d\n", l, s.Step)
		} else if len(h) != len(s.Betas[l]) {
			return errors.Errorf("Sparseness of hidden layer %d has %d values, expected %d", l, len(h), len(s.Betas[l]))
		}

		betas[l] = ctrl.Update(s.Betas[l], h, cfg.TargetSparseness[l], cfg.LRBeta, cfg.MaxBeta[l])
		hs[l] = h
		return nil
	}, 1, 1)

	if err != nil {
		return err
	}

	s.Betas = betas
	s.Sparseness = hs
	return nil
}

// evaluate fills in the errors of the record
func evaluate(model Model, train, test DataSupplier, rec *EpochRecord) error {
	trainErr, err := evaluateAll(model, train)
	if err != nil {
		return errors.Wrapf(err, "Failed to evaluate training error\n")
	}

	rec.Evaluated = true
	rec.TrainError = trainErr

	if test == nil {
		return nil
	}

	testErr, err := evaluateAll(model, test)
	if err != nil {
		return errors.Wrapf(err, "Failed to evaluate test error\n")
	}

	rec.HasTest = true
	rec.TestError = testErr
	return nil
}

func evaluateAll(model Model, data DataSupplier) (float64, error) {
	all := make([]int, data.Len())
	for i := range all {
		all[i] = i
	}

	b, err := data.Batch(all)
	if err != nil {
		return 0, err
	}

	return model.Evaluate(b)
}

// checkModel makes sure that the Model has the shape described by the Config
func checkModel(model Model, cfg Config) error {
	if model.NumLayers() != len(cfg.LayerSizes)-1 {
		return errors.Errorf("Model has %d layers, configuration describes %d", model.NumLayers(), len(cfg.LayerSizes)-1)
	}

	for l := 0; l < model.NumLayers(); l++ {
		r, c := model.Weights(l).Dims()
		if r != cfg.LayerSizes[l] || c != cfg.LayerSizes[l+1] {
			return errors.Errorf("Weights of layer %d have shape [%d, %d], configuration describes [%d, %d]", l, r, c, cfg.LayerSizes[l], cfg.LayerSizes[l+1])
		}
	}

	return nil
}

// means returns the mean of each slice
func means(vs [][]float64) []float64 {
	ms := make([]float64, len(vs))
	for i, v := range vs {
		if len(v) != 0 {
			ms[i] = floats.Sum(v) / float64(len(v))
		}
	}

	return ms
}
