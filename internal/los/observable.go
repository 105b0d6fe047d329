package los

import "github.com/san-kum/galmag/internal/geom"

// Observable accumulates a sight-line integral.
type Observable interface {
	Name() string
	Observe(b, dir geom.Vec3, dl float64)
	Value() float64
	Reset()
}

// Parallel is ∫ B·u dl in µG kpc, the Faraday rotation integrand.
type Parallel struct {
	sum float64
}

func NewParallel() *Parallel { return &Parallel{} }

func (p *Parallel) Name() string { return "parallel" }

func (p *Parallel) Observe(b, dir geom.Vec3, dl float64) {
	p.sum += b.Dot(dir) * dl
}

func (p *Parallel) Value() float64 { return p.sum }

func (p *Parallel) Reset() { p.sum = 0 }

// PerpSquared is ∫ |B⊥|² dl in µG² kpc, the synchrotron intensity integrand.
type PerpSquared struct {
	sum float64
}

func NewPerpSquared() *PerpSquared { return &PerpSquared{} }

func (p *PerpSquared) Name() string { return "perp2" }

func (p *PerpSquared) Observe(b, dir geom.Vec3, dl float64) {
	_, perp2 := project(b, dir)
	p.sum += perp2 * dl
}

func (p *PerpSquared) Value() float64 { return p.sum }

func (p *PerpSquared) Reset() { p.sum = 0 }

// Magnitude is ∫ |B| dl in µG kpc.
type Magnitude struct {
	sum float64
}

func NewMagnitude() *Magnitude { return &Magnitude{} }

func (m *Magnitude) Name() string { return "magnitude" }

func (m *Magnitude) Observe(b, _ geom.Vec3, dl float64) {
	m.sum += b.Norm() * dl
}

func (m *Magnitude) Value() float64 { return m.sum }

func (m *Magnitude) Reset() { m.sum = 0 }

// Standard returns fresh instances of every built-in observable.
func Standard() []Observable {
	return []Observable{NewParallel(), NewPerpSquared(), NewMagnitude()}
}

// ByName returns a fresh observable for name, or nil.
func ByName(name string) Observable {
	switch name {
	case "parallel":
		return NewParallel()
	case "perp2":
		return NewPerpSquared()
	case "magnitude":
		return NewMagnitude()
	}
	return nil
}
