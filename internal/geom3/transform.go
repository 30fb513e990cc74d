package geom3

// Transform is a rigid transform: a rotation matrix R composed with a
// translation t, applied as R*p + t.
type Transform struct {
	R Matrix
	T Vector
}

// IdentityTransform returns the identity transform.
func IdentityTransform() Transform {
	return Transform{R: Identity()}
}

// NewTransform builds a transform from a rotation matrix and translation.
func NewTransform(r Matrix, t Vector) Transform {
	return Transform{R: r, T: t}
}

// NewTransformBasis builds a transform whose rotation's columns are the
// given basis vectors, and whose translation is d.
func NewTransformBasis(i, j, k, d Vector) Transform {
	return Transform{R: NewMatrixColumns(i, j, k), T: d}
}

// Apply maps a point from the transform's local frame into its parent
// frame: R*p + t.
func (tf Transform) Apply(p Vector) Vector {
	return tf.R.Apply(p).Add(tf.T)
}

// Invert returns the inverse transform. Valid when R's columns are
// normalized and orthogonal (a pure rotation, no scale or shear).
func (tf Transform) Invert() Transform {
	rt := tf.R.T()
	return Transform{R: rt, T: rt.Apply(tf.T.Neg())}
}

// ComposeMatrix returns the transform T*M (right-multiplies the rotation by
// M, leaving the translation unchanged).
func (tf Transform) ComposeMatrix(m Matrix) Transform {
	return Transform{R: MulMatrix(tf.R, m), T: tf.T}
}

// PrecomposeMatrix returns the transform M*T (left-multiplies both the
// rotation and the translation by M).
func PrecomposeMatrix(m Matrix, tf Transform) Transform {
	return Transform{R: MulMatrix(m, tf.R), T: m.Apply(tf.T)}
}

// Compose returns the transform A*B: applying the result to a point is
// equivalent to applying B then A.
func Compose(a, b Transform) Transform {
	return Transform{R: MulMatrix(a.R, b.R), T: a.R.Apply(b.T).Add(a.T)}
}

// Translate returns tf with its translation offset by v.
func (tf Transform) Translate(v Vector) Transform {
	return Transform{R: tf.R, T: tf.T.Add(v)}
}
