// Package covariance holds the fitted parameter covariance of the field models
// as a packed lower-triangular Cholesky factor L, and turns vectors of
// standard-normal draws into correlated parameter offsets L·n.
//
// The engine never draws random numbers itself; see package sampler for the
// Monte Carlo driver.
package covariance

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/galmag/internal/gmf"
)

// ErrNoFactor indicates that no fitted factor ships for a model. It matches
// gmf.ErrUnknownModel, since both are configuration errors.
var ErrNoFactor = fmt.Errorf("covariance: no fitted factor: %w", gmf.ErrUnknownModel)

// Covariance is immutable after construction and safe for concurrent use.
type Covariance struct {
	model   gmf.Model
	packed  []float64
	indices []gmf.Param
	l       *mat.TriDense
	v       *mat.SymDense
}

// New returns the covariance shipped for model.
func New(model gmf.Model) (*Covariance, error) {
	if !model.Valid() {
		return nil, fmt.Errorf("%w: %v", gmf.ErrUnknownModel, model)
	}
	f, ok := factors[model]
	if !ok {
		return nil, fmt.Errorf("%w for %v", ErrNoFactor, model)
	}
	return FromFactor(model, f.packed, f.indices)
}

// Available reports whether a fitted factor ships for model.
func Available(model gmf.Model) bool {
	_, ok := factors[model]
	return ok
}

// FromFactor builds a covariance from an externally supplied packed factor.
// The factor dimension is len(indices); packed must hold d(d+1)/2 values,
// row i of the lower triangle starting at i(i+1)/2.
func FromFactor(model gmf.Model, packed []float64, indices []gmf.Param) (*Covariance, error) {
	d := len(indices)
	if d == 0 {
		return nil, errors.New("covariance: empty index list")
	}
	if len(packed) != d*(d+1)/2 {
		return nil, fmt.Errorf("%w: factor has %d values, %d indices need %d",
			gmf.ErrDimensionMismatch, len(packed), d, d*(d+1)/2)
	}
	for _, p := range indices {
		if !p.Valid() {
			return nil, fmt.Errorf("covariance: invalid parameter index %d", int(p))
		}
	}

	c := &Covariance{
		model:   model,
		packed:  append([]float64(nil), packed...),
		indices: append([]gmf.Param(nil), indices...),
		l:       mat.NewTriDense(d, mat.Lower, nil),
	}
	for i := 0; i < d; i++ {
		for k := 0; k <= i; k++ {
			c.l.SetTri(i, k, c.packed[index(i, k)])
		}
	}
	c.v = mat.NewSymDense(d, nil)
	c.v.SymOuterK(1, c.l)
	return c, nil
}

func index(i, k int) int {
	return i*(i+1)/2 + k
}

func (c *Covariance) Model() gmf.Model {
	return c.model
}

// Dimension is the number of correlated parameters d.
func (c *Covariance) Dimension() int {
	return len(c.indices)
}

// Factor returns a copy of the packed factor.
func (c *Covariance) Factor() []float64 {
	return append([]float64(nil), c.packed...)
}

// Indices returns a copy of the row to parameter-slot map.
func (c *Covariance) Indices() []gmf.Param {
	return append([]gmf.Param(nil), c.indices...)
}

// Matrix returns a copy of V = L·Lᵀ.
func (c *Covariance) Matrix() *mat.SymDense {
	v := mat.NewSymDense(c.Dimension(), nil)
	v.CopySym(c.v)
	return v
}

// Offset returns L·n for a vector of d standard-normal draws.
func (c *Covariance) Offset(normals []float64) ([]float64, error) {
	d := c.Dimension()
	if len(normals) != d {
		return nil, fmt.Errorf("%w: got %d normals, want %d", gmf.ErrDimensionMismatch, len(normals), d)
	}
	out := mat.NewVecDense(d, nil)
	out.MulVec(c.l, mat.NewVecDense(d, append([]float64(nil), normals...)))
	return out.RawVector().Data, nil
}

// Apply adds an offset to a parameter vector in place. Rows sharing a slot
// accumulate.
func (c *Covariance) Apply(params, offset []float64) error {
	if len(params) != int(gmf.NumParams) || len(offset) != c.Dimension() {
		return fmt.Errorf("%w: %d parameters, %d offsets", gmf.ErrDimensionMismatch, len(params), len(offset))
	}
	for i, p := range c.indices {
		params[p] += offset[i]
	}
	return nil
}

// StdDevs returns sqrt(V[i][i]) for each row.
func (c *Covariance) StdDevs() []float64 {
	s := make([]float64, c.Dimension())
	for i := range s {
		s[i] = math.Sqrt(c.v.At(i, i))
	}
	return s
}

// Correlation returns V normalized to unit diagonal.
func (c *Covariance) Correlation() *mat.SymDense {
	s := c.StdDevs()
	d := len(s)
	r := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		r.SetSym(i, i, 1)
		for j := i + 1; j < d; j++ {
			r.SetSym(i, j, c.v.At(i, j)/(s[i]*s[j]))
		}
	}
	return r
}
