package math

import "github.com/chewxy/math32"

// Mat3 is a 3x3 matrix in column-major order.
type Mat3 [9]float32

// MulVec3 returns m * v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Column returns column i (0..2).
func (m Mat3) Column(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// ColumnLengths returns the Euclidean norm of each column, i.e. the axis
// scale factors of an affine transform.
func (m Mat3) ColumnLengths() Vec3 {
	return Vec3{m.Column(0).Length(), m.Column(1).Length(), m.Column(2).Length()}
}

// Determinant returns det(m).
func (m Mat3) Determinant() float32 {
	return m[0]*(m[4]*m[8]-m[7]*m[5]) -
		m[3]*(m[1]*m[8]-m[7]*m[2]) +
		m[6]*(m[1]*m[5]-m[4]*m[2])
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Inverse returns the inverse of m. A determinant whose magnitude is below
// eps is clamped to ±eps, so a degenerate matrix yields a large but finite
// result instead of Inf/NaN.
func (m Mat3) Inverse(eps float32) Mat3 {
	det := m.Determinant()
	if math32.Abs(det) < eps {
		if det < 0 {
			det = -eps
		} else {
			det = eps
		}
	}
	inv := 1 / det

	return Mat3{
		(m[4]*m[8] - m[7]*m[5]) * inv,
		(m[7]*m[2] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[4]*m[2]) * inv,
		(m[6]*m[5] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[6]*m[2]) * inv,
		(m[3]*m[2] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[6]*m[4]) * inv,
		(m[6]*m[1] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[3]*m[1]) * inv,
	}
}

// NormalMatrix returns the inverse transpose used to transform surface normals.
func (m Mat3) NormalMatrix(eps float32) Mat3 {
	return m.Inverse(eps).Transpose()
}
