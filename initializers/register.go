package initializers

import (
	"math"
	"math/rand"

	bs "github.com/123rugby/dnnwsp"
	"github.com/pkg/errors"
)

// default values, because 'default' is a keyword
var defaultValue map[string]float64

func init() {
	defaultValue = map[string]float64{
		"uniform-lower": -1,
		"uniform-upper": 1,
		"normal-mean":   0,
		"normal-sd":     1,
		"varscl-factor": 1,
	}

	list := map[string]func(*rand.Rand) bs.Initializer{
		"he":      func(src *rand.Rand) bs.Initializer { return He(src) },
		"xavier":  func(src *rand.Rand) bs.Initializer { return Xavier(src) },
		"glorot":  func(src *rand.Rand) bs.Initializer { return Glorot(src) },
		"lecun":   func(src *rand.Rand) bs.Initializer { return LeCun(src) },
		"uniform": func(src *rand.Rand) bs.Initializer { return Uniform(src) },
		"normal":  func(src *rand.Rand) bs.Initializer { return Random(Normal(src)) },
	}

	for s, f := range list {
		err := bs.RegisterInitializer(s, f)
		if err != nil {
			panic(err.Error())
		}
	}
}

// SetDefault sets one of the default values: "uniform-lower", "uniform-upper", "normal-mean",
// "normal-sd", or "varscl-factor". It only affects Initializers and RNGs created afterwards.
func SetDefault(name string, value float64) error {
	if _, ok := defaultValue[name]; !ok {
		return errors.Errorf("Value with name %q does not exist", name)
	} else if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Errorf("Value is invalid (%v)", value)
	}

	defaultValue[name] = value
	return nil
}
