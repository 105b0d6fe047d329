package gmf

import "math"

const (
	// minNormal is the smallest positive normal float64.
	minNormal = 0x1p-1022

	// maxExpArg bounds arguments to math.Exp that stay finite.
	maxExpArg = 308 * math.Ln10
)

// sigmoid is the logistic transition 1/(1+exp(-(x-x0)/w)).
func sigmoid(x, x0, w float64) float64 {
	return 1 / (1 + math.Exp(-(x-x0)/w))
}

// deltaPhi is the unsigned angle between two azimuths, in [0, π].
func deltaPhi(a, b float64) float64 {
	c := math.Cos(b)*math.Cos(a) + math.Sin(b)*math.Sin(a)
	return math.Acos(math.Max(-1, math.Min(1, c)))
}
