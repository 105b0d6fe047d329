// Package units defines the canonical unit system used internally by the
// field models: kpc, microgauss and megayear are 1, angles are radians.
package units

import "math"

const (
	Kpc        = 1.0
	Microgauss = 1.0
	Megayear   = 1.0

	Pc  = 1e-3 * Kpc
	Gpc = 1e6 * Kpc

	Degree = math.Pi / 180

	Second    = Megayear / (1e6 * 60 * 60 * 24 * 365.25)
	Kilometer = Kpc / 3.0856775807e+16
)
