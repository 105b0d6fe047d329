package gmf

import (
	"math"

	"github.com/san-kum/galmag/internal/geom"
	"github.com/san-kum/galmag/internal/units"
)

// spiralField is the grand-design disk field (Eqs. 10 to 14): three azimuthal
// harmonics along logarithmic spirals, confined radially between two logistic
// edges and vertically by the disk transition.
func (f *Field) spiralField(x, y, z float64) geom.Vec3 {
	const (
		rRef   = 5 * units.Kpc
		rInner = 5 * units.Kpc
		wInner = 0.5 * units.Kpc
		rOuter = 20 * units.Kpc
		wOuter = 0.5 * units.Kpc
	)
	p := &f.p

	r2 := x*x + y*y
	if r2 == 0 {
		return geom.Zero
	}
	r := math.Sqrt(r2)
	phi := math.Atan2(y, x)

	hdz := 1 - sigmoid(math.Abs(z), p[DiskH], p[DiskW])

	rFacI := sigmoid(r, rInner, wInner)
	rFacO := 1 - sigmoid(r, rOuter, wOuter)

	// series expansion near the axis
	var rFac float64
	if r > 1e-5*units.Pc {
		rFac = (1 - math.Exp(-r*r)) / r
	} else {
		rFac = r * (1 - r*r/2)
	}
	gdr := rRef * rFac * rFacO * rFacI

	phi0 := phi - math.Log(r/rRef)/f.tanPitch

	b := p[DiskB1]*math.Cos(1*(phi0-p[DiskPhase1])) +
		p[DiskB2]*math.Cos(2*(phi0-p[DiskPhase2])) +
		p[DiskB3]*math.Cos(3*(phi0-p[DiskPhase3]))

	fac := hdz * gdr
	bCyl := geom.Vec3{X: b * fac * f.sinPitch, Y: b * fac * f.cosPitch}
	return geom.CylToCart(bCyl, x/r, y/r)
}

// spurField is a single arm segment near the solar circle (Eqs. 16 to 18).
// Only the spiral winding closest to the position, within one turn either
// way, contributes; further windings are zero.
func (f *Field) spurField(x, y, z float64) geom.Vec3 {
	const (
		rRef = 8.2 * units.Kpc
		wS   = 5 * units.Degree
	)
	p := &f.p

	r := math.Sqrt(x*x + y*y)
	if r < minNormal {
		return geom.Zero
	}

	phi := math.Atan2(y, x)
	if phi < 0 {
		phi += 2 * math.Pi
	}

	phase := p[DiskPhase1]
	iBest := -2
	bestDist := -1.0
	for i := -1; i <= 1; i++ {
		pphi := phi - phase + float64(i)*2*math.Pi
		rr := rRef * math.Exp(pphi*f.tanPitch)
		if d := math.Abs(r - rr); bestDist < 0 || d < bestDist {
			bestDist = d
			iBest = i
		}
	}
	if iBest != 0 {
		return geom.Zero
	}

	phi0 := phi - math.Log(r/rRef)/f.tanPitch
	delta := deltaPhi(phase, phi0) / p[SpurWidth]
	b := p[DiskB1] * math.Exp(-0.5*delta*delta)

	gS := 1 - sigmoid(math.Abs(deltaPhi(p[SpurCenter], phi)), p[SpurLength], wS)
	hd := 1 - sigmoid(math.Abs(z), p[DiskH], p[DiskW])

	bS := rRef / r * b * hd * gS
	bCyl := geom.Vec3{X: bS * f.sinPitch, Y: bS * f.cosPitch}
	return geom.CylToCart(bCyl, x/r, y/r)
}
