package hyperparams

import (
	bs "github.com/123rugby/dnnwsp"
)

func init() {
	list := map[string]func(bs.Config) (bs.Scheduler, error){
		Constant(0).TypeString():     newConstant,
		Step(0).TypeString():         newStep,
		Anneal(0, 0, 0).TypeString(): newAnneal,
	}

	for s, f := range list {
		err := bs.RegisterScheduler(s, f)
		if err != nil {
			panic(err.Error())
		}
	}
}

func newConstant(cfg bs.Config) (bs.Scheduler, error) {
	return Constant(cfg.LRInit), nil
}

func newStep(cfg bs.Config) (bs.Scheduler, error) {
	s, err := stepsFrom(cfg.LRInit, cfg.LRSteps)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func newAnneal(cfg bs.Config) (bs.Scheduler, error) {
	return Anneal(cfg.BeginAnneal, cfg.DecayRate, cfg.MinLR), nil
}
