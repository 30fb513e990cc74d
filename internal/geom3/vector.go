// Package geom3 implements the 3D floating-point geometry kernel used by the
// camera/projection pipeline: vectors, rotation matrices, rigid transforms,
// and rotors for axis-angle rotation. Mirrors the integer kernel in geom2,
// one level up in dimension and in the real numbers.
package geom3

import "math"

// Vector is a point or displacement in 3-space.
type Vector struct {
	X, Y, Z float64
}

// Add returns the elementwise sum.
func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the elementwise difference.
func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Neg returns the elementwise negation.
func (v Vector) Neg() Vector {
	return Vector{-v.X, -v.Y, -v.Z}
}

// Scale returns the vector scaled by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{v.X * s, v.Y * s, v.Z * s}
}

// Div returns the vector divided by s.
func (v Vector) Div(s float64) Vector {
	return v.Scale(1.0 / s)
}

// Magnitude returns the Euclidean length of v.
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns v scaled to unit length. The zero vector normalizes to
// NaN components, same as dividing by a zero magnitude.
func (v Vector) Normalize() Vector {
	return v.Div(v.Magnitude())
}

// Dot returns the dot product of a and b.
func Dot(a, b Vector) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product of a and b.
func Cross(a, b Vector) Vector {
	return Vector{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// UnitProject projects v onto a unit vector n.
func UnitProject(v, n Vector) Vector {
	return n.Scale(Dot(v, n))
}

// UnitReject returns the component of v orthogonal to the unit vector n.
func UnitReject(v, n Vector) Vector {
	return v.Sub(UnitProject(v, n))
}

// Project projects a onto b (b need not be unit length).
func Project(a, b Vector) Vector {
	return b.Scale(Dot(a, b) / Dot(b, b))
}

// Reject returns the component of a orthogonal to b.
func Reject(a, b Vector) Vector {
	return a.Sub(Project(a, b))
}

// Ray is a point and a direction.
type Ray struct {
	P, D Vector
}

// Ball is a sphere with center C and radius R.
type Ball struct {
	C Vector
	R float64
}

// Scale returns the ball scaled about the origin by s.
func (b Ball) Scale(s float64) Ball {
	return Ball{C: b.C.Scale(s), R: b.R * s}
}

// Translate returns the ball shifted by v.
func (b Ball) Translate(v Vector) Ball {
	return Ball{C: b.C.Add(v), R: b.R}
}
