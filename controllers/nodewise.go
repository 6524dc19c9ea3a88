package controllers

import (
	bs "github.com/123rugby/dnnwsp"
	"gonum.org/v1/gonum/mat"
)

type nodewise int8

// NodeWise returns the Controller that measures each node of a hidden layer separately, using
// the column of incoming weights to that node. The layer's target and maximum are shared by all
// of its nodes.
func NodeWise() nodewise {
	return nodewise(0)
}

func (c nodewise) TypeString() string {
	return string(bs.ModeNode)
}

// Size returns the number of nodes, which is the number of columns of w.
func (c nodewise) Size(w mat.Matrix) int {
	_, cols := w.Dims()
	return cols
}

func (c nodewise) Measure(w mat.Matrix) ([]float64, error) {
	return bs.HoyerColumns(w)
}

func (c nodewise) Update(beta, h []float64, target, step, max float64) []float64 {
	return update(beta, h, target, step, max)
}
