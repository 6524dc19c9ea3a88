package dnnwsp

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// The registry maps the names used in configuration to the types that implement them. Types are
// registered by the init functions of their subpackages, so a subpackage must be imported
// (possibly with a blank import) for its names to be usable.

const (
	kindOptimizer   = "optimizer"
	kindActivation  = "activation"
	kindInitializer = "initializer"
	kindScheduler   = "schedule"
	kindController  = "mode"
)

var (
	registryMux sync.RWMutex
	registry    = map[string]map[string]interface{}{
		kindOptimizer:   make(map[string]interface{}),
		kindActivation:  make(map[string]interface{}),
		kindInitializer: make(map[string]interface{}),
		kindScheduler:   make(map[string]interface{}),
		kindController:  make(map[string]interface{}),
	}
)

func register(kind, name string, f interface{}) error {
	registryMux.Lock()
	defer registryMux.Unlock()

	if name == "" {
		return errors.Errorf("Can't register %s, name is empty", kind)
	} else if _, ok := registry[kind][name]; ok {
		return errors.Errorf("Can't register %s %q, name is already taken", kind, name)
	}

	registry[kind][name] = f
	return nil
}

func lookup(kind, name string) (interface{}, error) {
	registryMux.RLock()
	defer registryMux.RUnlock()

	f, ok := registry[kind][name]
	if !ok {
		return nil, errors.Errorf("Unknown %s %q", kind, name)
	}

	return f, nil
}

func registered(kind, name string) bool {
	_, err := lookup(kind, name)
	return err == nil
}

func names(kind string) []string {
	registryMux.RLock()
	defer registryMux.RUnlock()

	ns := make([]string, 0, len(registry[kind]))
	for n := range registry[kind] {
		ns = append(ns, n)
	}

	sort.Strings(ns)
	return ns
}

// RegisterOptimizer makes an Optimizer available under the given name. The function will be
// called once for each parameter group.
func RegisterOptimizer(name string, f func(Config) Optimizer) error {
	if f == nil {
		return NilArgError{"Optimizer constructor"}
	}

	return register(kindOptimizer, name, f)
}

// RegisterActivation makes an Activation available under the given name.
func RegisterActivation(name string, f func() Activation) error {
	if f == nil {
		return NilArgError{"Activation constructor"}
	}

	return register(kindActivation, name, f)
}

// RegisterInitializer makes an Initializer available under the given name. The provided source
// of randomness should be used for every random value.
func RegisterInitializer(name string, f func(*rand.Rand) Initializer) error {
	if f == nil {
		return NilArgError{"Initializer constructor"}
	}

	return register(kindInitializer, name, f)
}

// RegisterScheduler makes a learning rate Scheduler available under the given name.
func RegisterScheduler(name string, f func(Config) (Scheduler, error)) error {
	if f == nil {
		return NilArgError{"Scheduler constructor"}
	}

	return register(kindScheduler, name, f)
}

// RegisterController makes a Controller available for the given Mode.
func RegisterController(mode Mode, f func() Controller) error {
	if f == nil {
		return NilArgError{"Controller constructor"}
	}

	return register(kindController, string(mode), f)
}

// NewOptimizer returns a new Optimizer registered under the given name.
func NewOptimizer(name string, cfg Config) (Optimizer, error) {
	f, err := lookup(kindOptimizer, name)
	if err != nil {
		return nil, err
	}

	return f.(func(Config) Optimizer)(cfg), nil
}

// NewActivation returns the Activation registered under the given name.
func NewActivation(name string) (Activation, error) {
	f, err := lookup(kindActivation, name)
	if err != nil {
		return nil, err
	}

	return f.(func() Activation)(), nil
}

// NewInitializer returns the Initializer registered under the given name.
func NewInitializer(name string, rng *rand.Rand) (Initializer, error) {
	f, err := lookup(kindInitializer, name)
	if err != nil {
		return nil, err
	}

	return f.(func(*rand.Rand) Initializer)(rng), nil
}

// NewScheduler returns the Scheduler registered under the given name, set up from the Config.
func NewScheduler(name string, cfg Config) (Scheduler, error) {
	f, err := lookup(kindScheduler, name)
	if err != nil {
		return nil, err
	}

	return f.(func(Config) (Scheduler, error))(cfg)
}

// NewController returns the Controller registered for the given Mode.
func NewController(mode Mode) (Controller, error) {
	f, err := lookup(kindController, string(mode))
	if err != nil {
		return nil, err
	}

	return f.(func() Controller)(), nil
}
