package math

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// Matrix is a dense row-major matrix of float32 entries.
// len(data) == rows*cols holds for every Matrix produced by this package.
type Matrix struct {
	rows, cols int
	data       []float32
}

// NewMatrix returns a zero-filled rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("math: invalid matrix shape %dx%d", rows, cols))
	}
	return &Matrix{
		rows: rows,
		cols: cols,
		data: make([]float32, rows*cols),
	}
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// MatrixFromRows builds a matrix from row slices of equal length.
func MatrixFromRows(rows ...[]float32) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	m := NewMatrix(len(rows), len(rows[0]))
	for i, r := range rows {
		if len(r) != m.cols {
			return nil, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(r), m.cols, ErrDimensionMismatch)
		}
		copy(m.data[i*m.cols:], r)
	}
	return m, nil
}

// ColumnMatrix returns v as a 4x1 matrix.
func ColumnMatrix(v Vec4f) *Matrix {
	return &Matrix{rows: 4, cols: 1, data: []float32{v.X, v.Y, v.Z, v.W}}
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// At returns the entry at (row, col).
func (m *Matrix) At(row, col int) float32 {
	return m.data[m.index(row, col)]
}

// Set assigns the entry at (row, col).
func (m *Matrix) Set(row, col int, v float32) {
	m.data[m.index(row, col)] = v
}

func (m *Matrix) index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("math: index (%d,%d) out of range for %dx%d matrix", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := NewMatrix(m.rows, m.cols)
	copy(c.data, m.data)
	return c
}

// Mul returns m * other. m.Cols() must equal other.Rows().
func (m *Matrix) Mul(other *Matrix) (*Matrix, error) {
	if m.cols != other.rows {
		return nil, fmt.Errorf("multiply %dx%d by %dx%d: %w", m.rows, m.cols, other.rows, other.cols, ErrDimensionMismatch)
	}
	result := NewMatrix(m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < other.cols; j++ {
			var sum float32
			for k := 0; k < m.cols; k++ {
				sum += m.data[i*m.cols+k] * other.data[k*other.cols+j]
			}
			result.data[i*result.cols+j] = sum
		}
	}
	return result, nil
}

// MustMul is like Mul but panics on a shape mismatch.
// Use it only where both shapes are fixed by construction.
func (m *Matrix) MustMul(other *Matrix) *Matrix {
	result, err := m.Mul(other)
	if err != nil {
		panic(err)
	}
	return result
}

// MulVec4 returns m * v for a 4x4 matrix without allocating.
func (m *Matrix) MulVec4(v Vec4f) (Vec4f, error) {
	if m.rows != 4 || m.cols != 4 {
		return Vec4f{}, fmt.Errorf("multiply %dx%d by 4x1: %w", m.rows, m.cols, ErrDimensionMismatch)
	}
	d := m.data
	return Vec4f{
		d[0]*v.X + d[1]*v.Y + d[2]*v.Z + d[3]*v.W,
		d[4]*v.X + d[5]*v.Y + d[6]*v.Z + d[7]*v.W,
		d[8]*v.X + d[9]*v.Y + d[10]*v.Z + d[11]*v.W,
		d[12]*v.X + d[13]*v.Y + d[14]*v.Z + d[15]*v.W,
	}, nil
}

// MulVec3 returns m * v for a 3x3 matrix without allocating.
func (m *Matrix) MulVec3(v Vec3f) (Vec3f, error) {
	if m.rows != 3 || m.cols != 3 {
		return Vec3f{}, fmt.Errorf("multiply %dx%d by 3x1: %w", m.rows, m.cols, ErrDimensionMismatch)
	}
	d := m.data
	return Vec3f{
		d[0]*v.X + d[1]*v.Y + d[2]*v.Z,
		d[3]*v.X + d[4]*v.Y + d[5]*v.Z,
		d[6]*v.X + d[7]*v.Y + d[8]*v.Z,
	}, nil
}

// Transpose returns the transposed matrix.
func (m *Matrix) Transpose() *Matrix {
	result := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			result.data[j*result.cols+i] = m.data[i*m.cols+j]
		}
	}
	return result
}

// SetColumn writes v into column col, one component per row, for as many
// rows as the matrix has (up to four).
func (m *Matrix) SetColumn(col int, v Vec4f) {
	for i := 0; i < m.rows && i < 4; i++ {
		m.Set(i, col, v.At(i))
	}
}

// SetColumn3 writes v into the first three rows of column col.
func (m *Matrix) SetColumn3(col int, v Vec3f) {
	if m.rows < 3 {
		panic(fmt.Sprintf("math: SetColumn3 on %dx%d matrix", m.rows, m.cols))
	}
	m.Set(0, col, v.X)
	m.Set(1, col, v.Y)
	m.Set(2, col, v.Z)
}

// SetColumn2 writes v into the first two rows of column col.
func (m *Matrix) SetColumn2(col int, v Vec2f) {
	if m.rows < 2 {
		panic(fmt.Sprintf("math: SetColumn2 on %dx%d matrix", m.rows, m.cols))
	}
	m.Set(0, col, v.X)
	m.Set(1, col, v.Y)
}

// Column reads up to four rows of column col. Missing rows read as zero.
func (m *Matrix) Column(col int) Vec4f {
	var v Vec4f
	for i := 0; i < m.rows && i < 4; i++ {
		v.Set(i, m.At(i, col))
	}
	return v
}

// Column3 reads the first three rows of column col.
func (m *Matrix) Column3(col int) Vec3f {
	return m.Column(col).XYZ()
}

// Minor returns the submatrix with row p and column q removed.
func (m *Matrix) Minor(p, q int) *Matrix {
	if m.rows == 0 || m.cols == 0 {
		panic("math: minor of an empty matrix")
	}
	result := NewMatrix(m.rows-1, m.cols-1)
	k := 0
	for i := 0; i < m.rows; i++ {
		if i == p {
			continue
		}
		for j := 0; j < m.cols; j++ {
			if j == q {
				continue
			}
			result.data[k] = m.data[i*m.cols+j]
			k++
		}
	}
	return result
}

// Determinant returns the determinant of a square matrix.
// Sizes up to 4 use closed forms; larger sizes use cofactor expansion.
func (m *Matrix) Determinant() (float32, error) {
	if m.rows != m.cols {
		return 0, fmt.Errorf("determinant of %dx%d: %w", m.rows, m.cols, ErrNotSquare)
	}
	return m.det(), nil
}

// DeterminantExpansion computes the determinant by recursive cofactor
// expansion along the first row regardless of size.
func (m *Matrix) DeterminantExpansion() (float32, error) {
	if m.rows != m.cols {
		return 0, fmt.Errorf("determinant of %dx%d: %w", m.rows, m.cols, ErrNotSquare)
	}
	return m.expand(), nil
}

func (m *Matrix) det() float32 {
	d := m.data
	switch m.rows {
	case 0:
		return 1
	case 1:
		return d[0]
	case 2:
		return d[0]*d[3] - d[1]*d[2]
	case 3:
		return d[0]*(d[4]*d[8]-d[5]*d[7]) -
			d[1]*(d[3]*d[8]-d[5]*d[6]) +
			d[2]*(d[3]*d[7]-d[4]*d[6])
	case 4:
		// 2x2 sub-determinants of the bottom two rows.
		s0 := d[8]*d[13] - d[9]*d[12]
		s1 := d[8]*d[14] - d[10]*d[12]
		s2 := d[8]*d[15] - d[11]*d[12]
		s3 := d[9]*d[14] - d[10]*d[13]
		s4 := d[9]*d[15] - d[11]*d[13]
		s5 := d[10]*d[15] - d[11]*d[14]

		c0 := d[5]*s5 - d[6]*s4 + d[7]*s3
		c1 := d[4]*s5 - d[6]*s2 + d[7]*s1
		c2 := d[4]*s4 - d[5]*s2 + d[7]*s0
		c3 := d[4]*s3 - d[5]*s1 + d[6]*s0

		return d[0]*c0 - d[1]*c1 + d[2]*c2 - d[3]*c3
	}
	return m.expand()
}

func (m *Matrix) expand() float32 {
	switch m.rows {
	case 0:
		return 1
	case 1:
		return m.data[0]
	}
	var result float32
	sign := float32(1)
	for f := 0; f < m.cols; f++ {
		result += sign * m.data[f] * m.Minor(0, f).expand()
		sign = -sign
	}
	return result
}

// Adjugate returns the transpose of the signed cofactor matrix.
func (m *Matrix) Adjugate() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("adjugate of %dx%d: %w", m.rows, m.cols, ErrNotSquare)
	}
	n := m.rows
	if n == 1 {
		return Identity(1), nil
	}
	cofactors := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sign := float32(1)
			if (i+j)%2 != 0 {
				sign = -1
			}
			cofactors.data[i*n+j] = sign * m.Minor(i, j).det()
		}
	}
	return cofactors.Transpose(), nil
}

// Inverse returns adjugate / determinant. Singular and numerically
// near-singular matrices are rejected with ErrSingular (see IsSingular).
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("inverse of %dx%d: %w", m.rows, m.cols, ErrNotSquare)
	}
	det := m.det()
	if m.singular(det) {
		return nil, fmt.Errorf("inverse (det=%g): %w", det, ErrSingular)
	}
	adj, err := m.Adjugate()
	if err != nil {
		return nil, err
	}
	inv := 1 / det
	for i := range adj.data {
		adj.data[i] *= inv
	}
	return adj, nil
}

// IsSingular reports whether a square matrix is too close to singular to
// invert in float32. Non-square matrices report true.
func (m *Matrix) IsSingular() bool {
	if m.rows != m.cols {
		return true
	}
	return m.singular(m.det())
}

// singular compares det against the scale of the rows: |det| is bounded by
// the product of the row magnitudes, and float32 cofactor rounding grows
// with the same product.
func (m *Matrix) singular(det float32) bool {
	if math32.IsNaN(det) || math32.IsInf(det, 0) {
		return true
	}
	scale := float32(1)
	for i := 0; i < m.rows; i++ {
		var rowMax float32
		for _, v := range m.data[i*m.cols : (i+1)*m.cols] {
			rowMax = math32.Max(rowMax, math32.Abs(v))
		}
		scale *= rowMax
	}
	if scale == 0 {
		return true
	}
	return math32.Abs(det) <= SingularTolerance*float32(m.rows)*scale
}

// Equal reports whether both matrices have the same shape and every entry
// differs by at most tol.
func (m *Matrix) Equal(other *Matrix, tol float32) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i := range m.data {
		if math32.Abs(m.data[i]-other.data[i]) > tol {
			return false
		}
	}
	return true
}

// String formats the matrix one row per line.
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		sb.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.cols+j])
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
