// Package trace follows magnetic field lines by integrating dx/ds = B/|B|
// with fixed RK4 steps or adaptive Dormand-Prince steps.
package trace

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/galmag/internal/geom"
)

// ErrNullField is returned by the direction field where B vanishes.
var ErrNullField = errors.New("trace: field vanishes")

// errOutside marks a stage point on or beyond the cutoff sphere.
var errOutside = errors.New("trace: outside cutoff radius")

// Field is the part of *gmf.Field the tracer needs.
type Field interface {
	Evaluate(pos geom.Vec3) (geom.Vec3, error)
	MaxRadiusSquared() float64
}

type Stop int

const (
	StopMaxSteps Stop = iota
	StopCutoff
	StopNullField
)

func (s Stop) String() string {
	switch s {
	case StopMaxSteps:
		return "max steps"
	case StopCutoff:
		return "left cutoff radius"
	case StopNullField:
		return "null field"
	}
	return fmt.Sprintf("Stop(%d)", int(s))
}

type Options struct {
	Step     float64 // kpc; the largest step when Tolerance is set
	MaxSteps int
	Backward bool // follow -B

	// Tolerance switches to adaptive RK45 stepping with this local error
	// bound in kpc. Zero keeps fixed RK4 steps.
	Tolerance float64
}

func DefaultOptions() Options {
	return Options{Step: 0.05, MaxSteps: 2000}
}

// Line is a traced field line, starting at the seed point.
type Line struct {
	Points []geom.Vec3
	Stop   Stop
}

// Length is the arc length covered in kpc.
func (l *Line) Length() float64 {
	var s float64
	for i := 1; i < len(l.Points); i++ {
		s += l.Points[i].Sub(l.Points[i-1]).Norm()
	}
	return s
}

// Trace integrates from seed until MaxSteps is reached, the line leaves the
// cutoff sphere, or the field vanishes.
func Trace(f Field, seed geom.Vec3, opts Options) (*Line, error) {
	if !(opts.Step > 0) || math.IsInf(opts.Step, 0) {
		return nil, fmt.Errorf("trace: invalid step %g", opts.Step)
	}
	if opts.MaxSteps <= 0 {
		return nil, fmt.Errorf("trace: invalid step count %d", opts.MaxSteps)
	}
	if opts.Tolerance < 0 || math.IsNaN(opts.Tolerance) {
		return nil, fmt.Errorf("trace: invalid tolerance %g", opts.Tolerance)
	}
	sign := 1.0
	if opts.Backward {
		sign = -1
	}
	rMax2 := f.MaxRadiusSquared()
	dir := func(x geom.Vec3) (geom.Vec3, error) {
		if x.SquaredNorm() >= rMax2 {
			return geom.Zero, errOutside
		}
		b, err := f.Evaluate(x)
		if err != nil {
			return geom.Zero, err
		}
		n := b.Norm()
		if n == 0 || !b.IsValid() {
			return geom.Zero, ErrNullField
		}
		return b.Scale(sign / n), nil
	}

	line := &Line{Points: []geom.Vec3{seed}, Stop: StopMaxSteps}
	if seed.SquaredNorm() >= rMax2 {
		line.Stop = StopCutoff
		return line, nil
	}

	step := fixedStep(opts.Step)
	if opts.Tolerance > 0 {
		step = adaptiveStep(opts.Step, opts.Tolerance)
	}
	x := seed
	for i := 0; i < opts.MaxSteps; i++ {
		next, err := step(dir, x)
		if errors.Is(err, errOutside) {
			line.Stop = StopCutoff
			return line, nil
		}
		if errors.Is(err, ErrNullField) {
			line.Stop = StopNullField
			return line, nil
		}
		if err != nil {
			return line, err
		}
		if next.SquaredNorm() >= rMax2 {
			line.Stop = StopCutoff
			return line, nil
		}
		line.Points = append(line.Points, next)
		x = next
	}
	return line, nil
}

type stepFunc func(f Deriv, x geom.Vec3) (geom.Vec3, error)

func fixedStep(ds float64) stepFunc {
	rk := NewRK4()
	return func(f Deriv, x geom.Vec3) (geom.Vec3, error) {
		return rk.Step(f, x, ds)
	}
}

// adaptiveStep retries rejected steps with the suggested shorter length.
// Steps never exceed maxDS and are accepted unconditionally once they would
// shrink below maxDS/minStepFraction.
func adaptiveStep(maxDS, tol float64) stepFunc {
	const minStepFraction = 1e6
	rk := NewRK45()
	ds := maxDS
	return func(f Deriv, x geom.Vec3) (geom.Vec3, error) {
		for {
			next, dsNew, ratio, err := rk.StepAdaptive(f, x, ds, tol)
			if err != nil {
				return geom.Zero, err
			}
			if ratio <= 1 || dsNew < maxDS/minStepFraction {
				ds = math.Min(dsNew, maxDS)
				return next, nil
			}
			ds = dsNew
		}
	}
}
