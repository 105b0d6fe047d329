package trace

import (
	"math"

	"github.com/san-kum/galmag/internal/geom"
)

// Dormand-Prince coefficients (RK45)
const (
	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// RK45 is an embedded Dormand-Prince 5(4) stepper with step-size control.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 5.0,
	}
}

// StepAdaptive takes one step of length ds. It returns the new point, the
// suggested next step and the ratio of the estimated local error to tol in
// kpc. The step should be retried with the suggested length when the ratio
// exceeds 1.
func (r *RK45) StepAdaptive(f Deriv, x geom.Vec3, ds, tol float64) (geom.Vec3, float64, float64, error) {
	k1, err := f(x)
	if err != nil {
		return geom.Zero, 0, 0, err
	}
	k2, err := f(x.Add(k1.Scale(ds * b21)))
	if err != nil {
		return geom.Zero, 0, 0, err
	}
	k3, err := f(x.Add(k1.Scale(ds * b31)).Add(k2.Scale(ds * b32)))
	if err != nil {
		return geom.Zero, 0, 0, err
	}
	k4, err := f(x.Add(k1.Scale(ds * b41)).Add(k2.Scale(ds * b42)).Add(k3.Scale(ds * b43)))
	if err != nil {
		return geom.Zero, 0, 0, err
	}
	k5, err := f(x.Add(k1.Scale(ds * b51)).Add(k2.Scale(ds * b52)).Add(k3.Scale(ds * b53)).Add(k4.Scale(ds * b54)))
	if err != nil {
		return geom.Zero, 0, 0, err
	}
	k6, err := f(x.Add(k1.Scale(ds * b61)).Add(k2.Scale(ds * b62)).Add(k3.Scale(ds * b63)).Add(k4.Scale(ds * b64)).Add(k5.Scale(ds * b65)))
	if err != nil {
		return geom.Zero, 0, 0, err
	}

	sum := k1.Scale(c1).Add(k3.Scale(c3)).Add(k4.Scale(c4)).Add(k5.Scale(c5)).Add(k6.Scale(c6))
	xNew := x.Add(sum.Scale(ds))

	k7, err := f(xNew)
	if err != nil {
		return geom.Zero, 0, 0, err
	}

	errEst := k1.Scale(dc1).Add(k3.Scale(dc3)).Add(k4.Scale(dc4)).Add(k5.Scale(dc5)).Add(k6.Scale(dc6)).Add(k7.Scale(dc7)).Scale(ds)
	errMax := math.Max(math.Abs(errEst.X), math.Max(math.Abs(errEst.Y), math.Abs(errEst.Z)))
	errRatio := errMax / tol

	var dsNew float64
	switch {
	case errRatio > 1:
		dsNew = ds * math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
	case errRatio > 0:
		dsNew = ds * math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
	default:
		dsNew = ds * r.maxScale
	}
	return xNew, dsNew, errRatio, nil
}
