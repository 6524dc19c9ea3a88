package initializers

type random struct {
	RNG
}

// Random returns an Initializer that uses the provided RNG to generate the weights. There is no
// scaling beyond that of the RNG.
func Random(g RNG) random {
	return random{g}
}

// Set is the implementation of dnnwsp.Initializer
func (r random) Set(fanIn, fanOut int, ws []float64) {
	for i := 0; i < len(ws); i++ {
		ws[i] = r.Gen()
	}
}
