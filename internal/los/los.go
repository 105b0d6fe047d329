// Package los integrates field observables along straight sight lines that
// start at an observer inside the Galaxy and run out to the field's cutoff
// radius.
package los

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/galmag/internal/geom"
	"github.com/san-kum/galmag/internal/units"
)

// Sun is the default observer position in kpc.
var Sun = geom.New(-8.178, 0, 0)

// DefaultStep is the integration step in kpc.
const DefaultStep = 0.1

var ErrInvalidStep = errors.New("los: step must be positive and finite")

// Field is the part of *gmf.Field a sight line needs.
type Field interface {
	Evaluate(pos geom.Vec3) (geom.Vec3, error)
	MaxRadiusSquared() float64
}

// Direction returns the unit vector towards Galactic longitude l and
// latitude b, both in degrees. l = 0 points from the Sun to the Galactic
// center.
func Direction(l, b float64) geom.Vec3 {
	l *= units.Degree
	b *= units.Degree
	rxy := math.Cos(b)
	return geom.New(math.Cos(l)*rxy, math.Sin(l)*rxy, math.Sin(b))
}

// Walk samples f at from + dir·l for l = 0, step, 2·step, ... while the
// position stays strictly inside the cutoff radius.
func Walk(f Field, from, dir geom.Vec3, step float64, fn func(l float64, pos, b geom.Vec3) error) error {
	if !(step > 0) || math.IsInf(step, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidStep, step)
	}
	rMax2 := f.MaxRadiusSquared()
	pos := from
	for i := 0; pos.SquaredNorm() < rMax2; {
		l := float64(i) * step
		b, err := f.Evaluate(pos)
		if err != nil {
			return fmt.Errorf("los: at l = %g kpc: %w", l, err)
		}
		if err := fn(l, pos, b); err != nil {
			return err
		}
		i++
		pos = from.Add(dir.Scale(float64(i) * step))
	}
	return nil
}

// Integrate resets every observable and accumulates it along the sight line.
func Integrate(f Field, from, dir geom.Vec3, step float64, obs ...Observable) error {
	for _, o := range obs {
		o.Reset()
	}
	return Walk(f, from, dir, step, func(_ float64, _, b geom.Vec3) error {
		for _, o := range obs {
			o.Observe(b, dir, step)
		}
		return nil
	})
}

// Sample is one step of a sight-line profile.
type Sample struct {
	L           float64
	Pos         geom.Vec3
	B           geom.Vec3
	Parallel    float64
	PerpSquared float64
}

// Profile returns the field and its projections at every step.
func Profile(f Field, from, dir geom.Vec3, step float64) ([]Sample, error) {
	var out []Sample
	err := Walk(f, from, dir, step, func(l float64, pos, b geom.Vec3) error {
		par, perp2 := project(b, dir)
		out = append(out, Sample{L: l, Pos: pos, B: b, Parallel: par, PerpSquared: perp2})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// project splits b into the component along dir and the squared magnitude of
// the transverse part u×(b×u).
func project(b, dir geom.Vec3) (parallel, perpSquared float64) {
	return b.Dot(dir), dir.Cross(b.Cross(dir)).SquaredNorm()
}
