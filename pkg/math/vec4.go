package math

// Vec4 is a homogeneous 4-component vector.
type Vec4[T Number] struct {
	X, Y, Z, W T
}

// Vec4f is a float32 4-component vector.
type Vec4f = Vec4[float32]

// V4 builds a Vec4.
func V4[T Number](x, y, z, w T) Vec4[T] {
	return Vec4[T]{x, y, z, w}
}

// At returns the i-th component.
func (v Vec4[T]) At(i int) T {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	case 3:
		return v.W
	}
	panic("math: Vec4 index out of range")
}

// Set assigns the i-th component.
func (v *Vec4[T]) Set(i int, val T) {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	case 2:
		v.Z = val
	case 3:
		v.W = val
	default:
		panic("math: Vec4 index out of range")
	}
}

// Add returns v + other.
func (v Vec4[T]) Add(other Vec4[T]) Vec4[T] {
	return Vec4[T]{v.X + other.X, v.Y + other.Y, v.Z + other.Z, v.W + other.W}
}

// Sub returns v - other.
func (v Vec4[T]) Sub(other Vec4[T]) Vec4[T] {
	return Vec4[T]{v.X - other.X, v.Y - other.Y, v.Z - other.Z, v.W - other.W}
}

// Scale returns v * scalar.
func (v Vec4[T]) Scale(s T) Vec4[T] {
	return Vec4[T]{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Dot returns the dot product.
func (v Vec4[T]) Dot(other Vec4[T]) T {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z + v.W*other.W
}

// Norm returns the Euclidean length.
func (v Vec4[T]) Norm() T {
	return sqrt(v.Dot(v))
}

// Normalize returns a unit vector. Panics on a zero vector.
func (v Vec4[T]) Normalize() Vec4[T] {
	n := v.Norm()
	if n == 0 {
		panic(ErrZeroVector)
	}
	return Vec4[T]{v.X / n, v.Y / n, v.Z / n, v.W / n}
}

// XYZ drops the W component.
func (v Vec4[T]) XYZ() Vec3[T] {
	return Vec3[T]{v.X, v.Y, v.Z}
}

// Dehomogenize divides every component by W.
// It refuses vectors whose |W| is below MinW instead of producing infinities.
func (v Vec4[T]) Dehomogenize() (Vec4[T], error) {
	if w := float64(v.W); w < MinW && w > -MinW {
		return Vec4[T]{}, ErrZeroW
	}
	return Vec4[T]{v.X / v.W, v.Y / v.W, v.Z / v.W, 1}, nil
}

// Vec4FromMatrix reads a 4x1 column matrix.
func Vec4FromMatrix(m *Matrix) (Vec4f, error) {
	if m.Rows() != 4 || m.Cols() != 1 {
		return Vec4f{}, ErrDimensionMismatch
	}
	return Vec4f{m.At(0, 0), m.At(1, 0), m.At(2, 0), m.At(3, 0)}, nil
}
