package gmf

import (
	"fmt"
	"math"

	"github.com/san-kum/galmag/internal/geom"
	"github.com/san-kum/galmag/internal/units"
)

// azimuth returns cos φ and sin φ, defaulting to φ = 0 on the axis.
func azimuth(x, y, r float64) (cosPhi, sinPhi float64) {
	if r > minNormal {
		return x / r, y / r
	}
	return 1, 0
}

// toroidalHaloField is Eq. (21): an azimuthal field with independent north
// and south amplitudes, switched on above the disk.
func (f *Field) toroidalHaloField(x, y, z float64) geom.Vec3 {
	p := &f.p
	r := math.Sqrt(x*x + y*y)
	absZ := math.Abs(z)

	b0 := p[ToroidalBS]
	if z >= 0 {
		b0 = p[ToroidalBN]
	}
	sigmoidR := sigmoid(r, p[ToroidalR], p[ToroidalW])
	sigmoidZ := sigmoid(absZ, p[DiskH], p[DiskW])
	bPhi := b0 * (1 - sigmoidR) * sigmoidZ * math.Exp(-absZ/p[ToroidalZ])

	cosPhi, sinPhi := azimuth(x, y, r)
	return geom.CylToCart(geom.Vec3{Y: bPhi}, cosPhi, sinPhi)
}

// poloidalHaloField is the X-shaped halo of Eqs. (28) to (36) with the
// field-line footpoint solved in closed form for arbitrary p.
func (f *Field) poloidalHaloField(x, y, z float64) (geom.Vec3, error) {
	p := &f.p
	r := math.Sqrt(x*x + y*y)
	pp := p[PoloidalP]

	c := math.Pow(p[PoloidalA]/p[PoloidalZ], pp)
	a0p := math.Pow(p[PoloidalA], pp)
	rp := math.Pow(r, pp)
	cabszp := c * math.Pow(math.Abs(z), pp)

	// sqrt(t0² + b) - t0 rewritten as b / (sqrt(t0² + b) + t0)
	t0 := a0p + cabszp - rp
	t1 := math.Sqrt(t0*t0 + 4*a0p*rp)
	ap := 2 * a0p * rp / (t1 + t0)

	var a float64
	if ap < 0 {
		if r > minNormal {
			return geom.Zero, fmt.Errorf("%w: a^p = %g", ErrNumericalInstability, ap)
		}
	} else {
		a = math.Pow(ap, 1/pp)
	}

	var radial float64
	if shapes[f.model].poloidal == exponentialProfile {
		radial = math.Exp(-a / p[PoloidalR])
	} else {
		radial = 1 - sigmoid(a, p[PoloidalR], p[PoloidalW])
	}
	bzz := p[PoloidalB] * radial

	rOverA := 1 / math.Pow(2*a0p/(t1+t0), 1/pp)

	signZ := 1.0
	if z < 0 {
		signZ = -1
	}
	br := bzz * c * a / rOverA * signZ * math.Pow(math.Abs(z), pp-1) / t1
	bz := bzz * math.Pow(rOverA, pp-2) * (ap + a0p) / t1

	if r < minNormal {
		return geom.Vec3{Z: bz}, nil
	}
	return geom.CylToCart(geom.Vec3{X: br, Z: bz}, x/r, y/r), nil
}

// twistedHaloField shears the poloidal field azimuthally by differential
// rotation acting over the twisting time (Eqs. 43 to 47).
func (f *Field) twistedHaloField(x, y, z float64) (geom.Vec3, error) {
	r := math.Sqrt(x*x + y*y)
	cosPhi, sinPhi := azimuth(x, y, r)

	bX, err := f.poloidalHaloField(x, y, z)
	if err != nil {
		return geom.Zero, err
	}
	bXCyl := geom.CartToCyl(bX, cosPhi, sinPhi)
	bR, bZ := bXCyl.X, bXCyl.Z

	var bPhi float64
	if tw := f.p[TwistingTime]; tw != 0 && r != 0 {
		// rotation curve fitted to Reid et al. 2014, vertical gradient of Levine et al. 2008
		const (
			v0 = -240 * units.Kilometer / units.Second
			r0 = 1.6 * units.Kpc
			z0 = 10 * units.Kpc
		)
		fr := 1 - math.Exp(-r/r0)
		arg := 2 * math.Abs(z) / z0
		if arg <= maxExpArg {
			t0 := math.Exp(arg)
			gz := 2 / (1 + t0)

			signZ := 1.0
			if z < 0 {
				signZ = -1
			}
			deltaZ := -signZ * v0 * fr / z0 * t0 * gz * gz
			deltaR := v0 * ((1-fr)/r0 - fr/r) * gz
			bPhi = (bZ*deltaZ + bR*deltaR) * tw
		}
	}
	return geom.CylToCart(geom.Vec3{X: bR, Y: bPhi, Z: bZ}, cosPhi, sinPhi), nil
}
