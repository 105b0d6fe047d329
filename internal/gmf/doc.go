// Package gmf evaluates the eight coherent Galactic magnetic field models of
// Unger & Farrar (arXiv:2311.12120) in a galactocentric frame: Galactic
// center at the origin, the Sun on the negative x-axis, north towards +z.
//
// A [Field] is built for one [Model] and answers position queries:
//
//	f, _ := gmf.New(gmf.Base)
//	b, _ := f.Evaluate(geom.New(1, 3, 2)) // microgauss
//
// The field is the sum of a disk and a halo component. The disk is either a
// logarithmic spiral with three azimuthal harmonics or, for [Spur], a single
// local arm segment. The halo is a toroidal plus a poloidal (X-shaped) field,
// or for [TwistX] a poloidal field twisted by differential rotation.
//
// # Parameters
//
// Each model carries a fixed vector of [NumParams] fitted constants, readable
// and replaceable as a whole through [Field.Parameters] and
// [Field.SetParameters] in the physical units reported by [Param.UnitName].
//
// # Thread Safety
//
// Evaluate may be called concurrently. SetParameters must not run
// concurrently with anything else on the same Field; use [Field.Clone] to
// give each goroutine its own copy.
package gmf
