package geom3

import "math"

func sincos(theta float64) (sin, cos float64) {
	return math.Sincos(theta)
}

// Rotor represents a rotation as a scalar plus bivector part, the rotor
// (spinor) form used for composing and applying rotations without the
// gimbal-lock and renormalization headaches of a raw matrix.
type Rotor struct {
	A float64
	B Vector
}

// UnitMakeRotor builds the rotor for a rotation of theta radians about
// unitBivector, which must already be normalized.
func UnitMakeRotor(unitBivector Vector, theta float64) Rotor {
	halfSin, halfCos := sincos(theta / 2)
	return Rotor{A: halfCos, B: unitBivector.Neg().Scale(halfSin)}
}

// MakeRotor builds the rotor for a rotation of theta radians about bivector,
// which need not be normalized.
func MakeRotor(bivector Vector, theta float64) Rotor {
	return UnitMakeRotor(bivector.Normalize(), theta)
}

// Normalize returns r scaled to unit norm.
func (r Rotor) Normalize() Rotor {
	invNorm := 1.0 / math.Sqrt(r.A*r.A+Dot(r.B, r.B))
	return Rotor{A: r.A * invNorm, B: r.B.Scale(invNorm)}
}

// Apply rotates v by r.
func (r Rotor) Apply(v Vector) Vector {
	bCrossV := Cross(r.B, v)
	return v.Scale(r.A * r.A).
		Sub(bCrossV.Scale(2 * r.A)).
		Add(Cross(r.B, bCrossV)).
		Add(r.B.Scale(Dot(r.B, v)))
}

// MulRotor composes two rotors: applying the result is equivalent to
// applying r2 then r1.
func MulRotor(r1, r2 Rotor) Rotor {
	return Rotor{
		A: r1.A*r2.A - Dot(r1.B, r2.B),
		B: r2.B.Scale(r1.A).Add(r1.B.Scale(r2.A)).Sub(Cross(r1.B, r2.B)),
	}
}

// Invert returns the inverse rotation of r.
func (r Rotor) Invert() Rotor {
	return Rotor{A: r.A, B: r.B.Neg()}
}
