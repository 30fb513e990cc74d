package geom3

// Matrix is a 3x3 matrix stored column-major, n[col][row], matching the way
// its columns double as basis vectors (Col(i) is the i-th basis vector of
// the transform the matrix represents).
type Matrix struct {
	n [3][3]float64
}

// Identity returns the 3x3 identity matrix.
func Identity() Matrix {
	return Matrix{n: [3][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}}
}

// NewMatrixColumns builds a matrix from three column vectors.
func NewMatrixColumns(a, b, c Vector) Matrix {
	return Matrix{n: [3][3]float64{
		{a.X, a.Y, a.Z},
		{b.X, b.Y, b.Z},
		{c.X, c.Y, c.Z},
	}}
}

// At returns the element at column i, row j.
func (m Matrix) At(i, j int) float64 { return m.n[i][j] }

// WithAt returns a copy of m with element (i, j) set to v.
func (m Matrix) WithAt(i, j int, v float64) Matrix {
	m.n[i][j] = v
	return m
}

// Col returns the i-th column as a vector.
func (m Matrix) Col(i int) Vector {
	return Vector{m.n[i][0], m.n[i][1], m.n[i][2]}
}

// T returns the transpose of m. When m's columns are normalized and
// orthogonal (a pure rotation), this is also its inverse.
func (m Matrix) T() Matrix {
	var r Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.n[j][i] = m.n[i][j]
		}
	}
	return r
}

// basisBivectors maps a rotation axis index to the two axes it rotates
// between: rotating about axis 0 (X) turns axis 1 (Y) toward axis 2 (Z), etc.
var basisBivectors = [3][2]int{{1, 2}, {2, 0}, {0, 1}}

// MakeRotation returns the rotation matrix for angle theta (radians) about
// the given axis index (0=X, 1=Y, 2=Z).
func MakeRotation(axisIdx int, theta float64) Matrix {
	s, c := sincos(theta)
	u, w := basisBivectors[axisIdx][0], basisBivectors[axisIdx][1]
	var m Matrix
	m.n[axisIdx][axisIdx] = 1
	m.n[u][u] = c
	m.n[u][w] = s
	m.n[w][u] = -s
	m.n[w][w] = c
	return m
}

// MulMatrix returns the matrix product A*B.
func MulMatrix(a, b Matrix) Matrix {
	var r Matrix
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a.n[k][row] * b.n[col][k]
			}
			r.n[col][row] = sum
		}
	}
	return r
}

// Apply returns M*v, treating v as a column vector.
func (m Matrix) Apply(v Vector) Vector {
	return Vector{
		m.n[0][0]*v.X + m.n[1][0]*v.Y + m.n[2][0]*v.Z,
		m.n[0][1]*v.X + m.n[1][1]*v.Y + m.n[2][1]*v.Z,
		m.n[0][2]*v.X + m.n[1][2]*v.Y + m.n[2][2]*v.Z,
	}
}

// DotApply returns M^T*v (the matrix applied via its rows rather than
// columns) — equivalent to m.T().Apply(v) but without building the
// transpose.
func DotApply(m Matrix, v Vector) Vector {
	return Vector{
		m.n[0][0]*v.X + m.n[0][1]*v.Y + m.n[0][2]*v.Z,
		m.n[1][0]*v.X + m.n[1][1]*v.Y + m.n[1][2]*v.Z,
		m.n[2][0]*v.X + m.n[2][1]*v.Y + m.n[2][2]*v.Z,
	}
}
