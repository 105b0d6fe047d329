// Package geom provides the 3D vector type shared by positions (kpc) and
// field values (microgauss), plus the cylindrical helpers the field models
// rely on.
package geom

import (
	"fmt"
	"math"
)

// Vec3 is a Cartesian triple in a galactocentric frame.
type Vec3 struct {
	X, Y, Z float64
}

func New(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Zero is the null vector.
var Zero = Vec3{}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

func (v Vec3) Div(f float64) Vec3 {
	return Vec3{v.X / f, v.Y / f, v.Z / f}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) SquaredNorm() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.SquaredNorm())
}

// Rho is the cylindrical radius sqrt(x²+y²).
func (v Vec3) Rho() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Phi is the azimuth atan2(y, x) in (-π, π].
func (v Vec3) Phi() float64 {
	return math.Atan2(v.Y, v.X)
}

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.4e, %.4e, %.4e)", v.X, v.Y, v.Z)
}

// CylToCart rotates a vector given as (radial, azimuthal, vertical)
// components at azimuth φ into Cartesian components.
func CylToCart(c Vec3, cosPhi, sinPhi float64) Vec3 {
	return Vec3{
		c.X*cosPhi - c.Y*sinPhi,
		c.X*sinPhi + c.Y*cosPhi,
		c.Z,
	}
}

// CartToCyl is the inverse of CylToCart.
func CartToCyl(v Vec3, cosPhi, sinPhi float64) Vec3 {
	return Vec3{
		v.X*cosPhi + v.Y*sinPhi,
		-v.X*sinPhi + v.Y*cosPhi,
		v.Z,
	}
}
