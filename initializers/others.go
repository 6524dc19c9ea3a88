package initializers

import (
	"math/rand"
)

type leCun struct {
	*varianceScaling
}

func LeCun(src *rand.Rand) leCun {
	return leCun{VarianceScaling(src).In()}
}

type he struct {
	*varianceScaling
}

func He(src *rand.Rand) he {
	return he{VarianceScaling(src).In().Factor(2)}
}

type xavier struct {
	*varianceScaling
}

func Xavier(src *rand.Rand) xavier {
	return xavier{VarianceScaling(src).Avg()}
}

func Glorot(src *rand.Rand) xavier {
	return Xavier(src)
}
