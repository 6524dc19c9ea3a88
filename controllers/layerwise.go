package controllers

import (
	bs "github.com/123rugby/dnnwsp"
	"gonum.org/v1/gonum/mat"
)

type layerwise int8

// LayerWise returns the Controller that treats each hidden layer's weights as a single vector,
// with one coefficient for the whole layer.
func LayerWise() layerwise {
	return layerwise(0)
}

func (c layerwise) TypeString() string {
	return string(bs.ModeLayer)
}

func (c layerwise) Size(w mat.Matrix) int {
	return 1
}

func (c layerwise) Measure(w mat.Matrix) ([]float64, error) {
	h, err := bs.HoyerMatrix(w)
	if err != nil {
		return nil, err
	}

	return []float64{h}, nil
}

func (c layerwise) Update(beta, h []float64, target, step, max float64) []float64 {
	return update(beta, h, target, step, max)
}
