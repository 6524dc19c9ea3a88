// Package dnnwsp trains deep neural networks while controlling the weight sparsity of their hidden
// layers. Sparsity is measured with Hoyer's sparseness, and is pushed toward a target by adjusting
// the coefficient (beta) of an L1 penalty on the weights after every mini-batch step.
//
// Sparsity Control
//
// Hoyer's sparseness of a vector v with n values is:
//
//	(√n - ‖v‖₁/‖v‖₂) / (√n - 1)
//
// which is 0 when every value has the same magnitude and 1 when only one value is nonzero. It is
// provided here by Hoyer, HoyerMatrix, and HoyerColumns.
//
// After each step, the sparseness of each hidden layer is measured and its betas are moved by a
// fixed step size: down if the layer is sparser than its target, up if it is less sparse, and not
// at all if it is exactly on target. Betas never leave [0, max_beta]. Control is either
// layer-wise (one beta for every weight of the layer) or node-wise (one beta for the incoming
// weights of each node). Both are implemented in the subpackage "controllers", which must be
// imported for Train to find them:
//
//	import _ "github.com/123rugby/dnnwsp/controllers"
//
// Configuration
//
// Runs are described by a Config, usually read from a JSON file:
//
//	cfg, err := dnnwsp.LoadConfig("run.json")
//	if err != nil {
//		return err
//	}
//
// Validation collects every problem it finds into a single *ValidationError, so a configuration
// can be fixed in one pass. Validate also checks the Config against the data it will be used
// with.
//
// Training
//
// Training is done with the function Train, which takes any Model along with TrainArgs:
//
//	trace, err := dnnwsp.Train(net, dnnwsp.TrainArgs{
//		Config:    cfg,
//		TrainData: train,
//		TestData:  test,
//		Update:    func(r dnnwsp.Result) { fmt.Println(r.Epoch, r.Cost) },
//	})
//
// The subpackage "mlp" provides a Model: a fully-connected network using the activations,
// initializers, and optimizers registered by "operators", "initializers", and "optimizers".
// Learning rate schedules come from "hyperparams"; the default anneals the rate linearly once a
// given epoch has passed.
//
// Everything recorded during training is returned in the Trace: the learning rate, cost, betas,
// and sparseness at each step, along with per-epoch costs and errors. The subpackage "archive"
// writes a Trace and the final parameters of the Model to a directory of JSON files or to a
// SQLite database.
//
// Extending
//
// Optimizers, activations, initializers, schedules, and controllers are looked up by name from
// package-level registries, in the same way that database drivers are. Subpackages register
// their types in init(); others can be added with the Register functions, for example:
//
//	dnnwsp.RegisterOptimizer("my-sgd", func(cfg dnnwsp.Config) dnnwsp.Optimizer {
//		return mySGD{}
//	})
package dnnwsp
