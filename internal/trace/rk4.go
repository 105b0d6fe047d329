package trace

import "github.com/san-kum/galmag/internal/geom"

// Deriv is the right-hand side dx/ds of an autonomous system in 3D.
type Deriv func(x geom.Vec3) (geom.Vec3, error)

// RK4 is the classic fourth-order Runge-Kutta stepper.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (RK4) Step(f Deriv, x geom.Vec3, ds float64) (geom.Vec3, error) {
	k1, err := f(x)
	if err != nil {
		return geom.Zero, err
	}
	k2, err := f(x.Add(k1.Scale(ds * 0.5)))
	if err != nil {
		return geom.Zero, err
	}
	k3, err := f(x.Add(k2.Scale(ds * 0.5)))
	if err != nil {
		return geom.Zero, err
	}
	k4, err := f(x.Add(k3.Scale(ds)))
	if err != nil {
		return geom.Zero, err
	}
	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return x.Add(sum.Scale(ds / 6.0)), nil
}
