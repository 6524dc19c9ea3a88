package optimizers

import bs "github.com/123rugby/dnnwsp"

func init() {
	list := map[string]func(bs.Config) bs.Optimizer{
		SGD().TypeString():       func(bs.Config) bs.Optimizer { return SGD() },
		"gradient-descent":       func(bs.Config) bs.Optimizer { return GradientDescent() },
		Momentum(0).TypeString(): func(cfg bs.Config) bs.Optimizer { return Momentum(cfg.Momentum) },
		Adagrad().TypeString():   func(bs.Config) bs.Optimizer { return Adagrad() },
		Adam().TypeString():      func(bs.Config) bs.Optimizer { return Adam() },
		RMSProp().TypeString():   func(bs.Config) bs.Optimizer { return RMSProp() },
	}

	for s, f := range list {
		err := bs.RegisterOptimizer(s, f)
		if err != nil {
			panic(err.Error())
		}
	}
}
