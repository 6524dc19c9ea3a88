package operators

import (
	bs "github.com/123rugby/dnnwsp"
)

func init() {
	list := map[string]func() bs.Activation{
		"sigmoid":                 func() bs.Activation { return Sigmoid() },
		Logistic().TypeString():   func() bs.Activation { return Logistic() },
		Tanh().TypeString():       func() bs.Activation { return Tanh() },
		ReLU().TypeString():       func() bs.Activation { return ReLU() },
		LeakyReLU(0).TypeString(): func() bs.Activation { return LeakyReLU(defaultLeak) },
		ELU().TypeString():        func() bs.Activation { return ELU() },
		Softplus().TypeString():   func() bs.Activation { return Softplus() },
		Identity().TypeString():   func() bs.Activation { return Identity() },
	}

	for s, f := range list {
		err := bs.RegisterActivation(s, f)
		if err != nil {
			panic(err.Error())
		}
	}
}
