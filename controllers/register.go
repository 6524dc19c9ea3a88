package controllers

import (
	bs "github.com/123rugby/dnnwsp"
)

func init() {
	list := map[bs.Mode]func() bs.Controller{
		bs.ModeLayer: func() bs.Controller { return LayerWise() },
		bs.ModeNode:  func() bs.Controller { return NodeWise() },
	}

	for m, f := range list {
		err := bs.RegisterController(m, f)
		if err != nil {
			panic(err.Error())
		}
	}
}
