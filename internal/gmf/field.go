package gmf

import (
	"fmt"
	"math"

	"github.com/san-kum/galmag/internal/geom"
	"github.com/san-kum/galmag/internal/units"
)

// DefaultMaxRadius is the galactocentric radius in kpc beyond which the
// field is zero.
const DefaultMaxRadius = 30.0

// Field evaluates one model with its current parameter vector.
type Field struct {
	model Model
	maxR2 float64

	// phys is the vector last set, in physical units. p is derived from it.
	phys [NumParams]float64
	p    Parameters

	sinPitch float64
	cosPitch float64
	tanPitch float64
}

type Option func(*Field)

// WithMaxRadius sets the cutoff radius in kpc.
func WithMaxRadius(kpc float64) Option {
	return func(f *Field) {
		r := kpc * units.Kpc
		f.maxR2 = r * r
	}
}

// New builds the field of model m with its best-fit parameters.
func New(m Model, opts ...Option) (*Field, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownModel, m)
	}
	f := &Field{model: m}
	WithMaxRadius(DefaultMaxRadius)(f)
	for _, opt := range opts {
		opt(f)
	}
	f.phys = defaults(m)
	f.derive()
	return f, nil
}

// NewByName is New with the model resolved by ParseModel.
func NewByName(name string, opts ...Option) (*Field, error) {
	m, err := ParseModel(name)
	if err != nil {
		return nil, err
	}
	return New(m, opts...)
}

func (f *Field) derive() {
	f.p.fromPhysical(&f.phys)
	f.sinPitch = math.Sin(f.p[DiskPitch])
	f.cosPitch = math.Cos(f.p[DiskPitch])
	f.tanPitch = math.Tan(f.p[DiskPitch])
	if f.model == ExpX {
		// xi is fitted; the scale height follows from it.
		f.p[PoloidalZ] = f.p[PoloidalA] * math.Tan(f.p[PoloidalXi])
		f.phys[PoloidalZ] = f.p[PoloidalZ] / params[PoloidalZ].unit
	}
}

func (f *Field) Model() Model {
	return f.model
}

// MaxRadius is the cutoff radius in kpc.
func (f *Field) MaxRadius() float64 {
	return math.Sqrt(f.maxR2) / units.Kpc
}

// MaxRadiusSquared is the squared cutoff radius in kpc².
func (f *Field) MaxRadiusSquared() float64 {
	return f.maxR2 / (units.Kpc * units.Kpc)
}

// Parameters returns a copy of the parameter vector in physical units.
func (f *Field) Parameters() []float64 {
	v := make([]float64, NumParams)
	copy(v, f.phys[:])
	return v
}

// Param returns a single parameter in physical units.
func (f *Field) Param(p Param) float64 {
	if !p.Valid() {
		return math.NaN()
	}
	return f.phys[p]
}

// SetParameters replaces the whole parameter vector, given in physical
// units, and re-derives the pitch trigonometry. For ExpX the poloidal scale
// height is recomputed from PoloidalA and PoloidalXi, so the supplied
// PoloidalZ is ignored.
func (f *Field) SetParameters(v []float64) error {
	if len(v) != int(NumParams) {
		return fmt.Errorf("%w: got %d parameters, want %d", ErrDimensionMismatch, len(v), NumParams)
	}
	copy(f.phys[:], v)
	f.derive()
	return nil
}

// Clone returns an independent copy.
func (f *Field) Clone() *Field {
	c := *f
	return &c
}

// Evaluate returns the field in microgauss at pos, given in kpc. Outside the
// cutoff radius the field is zero.
func (f *Field) Evaluate(pos geom.Vec3) (geom.Vec3, error) {
	pos = pos.Scale(units.Kpc)
	if pos.SquaredNorm() > f.maxR2 {
		return geom.Zero, nil
	}
	disk := f.diskField(pos)
	halo, err := f.haloField(pos)
	if err != nil {
		return geom.Zero, &EvalError{Model: f.model, Pos: pos.Div(units.Kpc), Wrapped: err}
	}
	return disk.Add(halo).Div(units.Microgauss), nil
}

func (f *Field) diskField(pos geom.Vec3) geom.Vec3 {
	if shapes[f.model].disk == spurDisk {
		return f.spurField(pos.X, pos.Y, pos.Z)
	}
	return f.spiralField(pos.X, pos.Y, pos.Z)
}

func (f *Field) haloField(pos geom.Vec3) (geom.Vec3, error) {
	if shapes[f.model].halo == twistedHalo {
		return f.twistedHaloField(pos.X, pos.Y, pos.Z)
	}
	pol, err := f.poloidalHaloField(pos.X, pos.Y, pos.Z)
	if err != nil {
		return geom.Zero, err
	}
	return f.toroidalHaloField(pos.X, pos.Y, pos.Z).Add(pol), nil
}
