package math

// Vec3 is a 3D vector.
type Vec3[T Number] struct {
	X, Y, Z T
}

// Vec3f is a float32 3D vector.
type Vec3f = Vec3[float32]

// Vec3i is an int 3D vector.
type Vec3i = Vec3[int]

// V3 builds a Vec3.
func V3[T Number](x, y, z T) Vec3[T] {
	return Vec3[T]{x, y, z}
}

// At returns the i-th component.
func (v Vec3[T]) At(i int) T {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic("math: Vec3 index out of range")
}

// Set assigns the i-th component.
func (v *Vec3[T]) Set(i int, val T) {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	case 2:
		v.Z = val
	default:
		panic("math: Vec3 index out of range")
	}
}

// Add returns v + other.
func (v Vec3[T]) Add(other Vec3[T]) Vec3[T] {
	return Vec3[T]{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3[T]) Sub(other Vec3[T]) Vec3[T] {
	return Vec3[T]{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3[T]) Scale(s T) Vec3[T] {
	return Vec3[T]{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3[T]) Dot(other Vec3[T]) T {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3[T]) Cross(other Vec3[T]) Vec3[T] {
	return Vec3[T]{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Norm returns the Euclidean length.
func (v Vec3[T]) Norm() T {
	return sqrt(v.Dot(v))
}

// Normalize returns a unit vector. Panics on a zero vector.
func (v Vec3[T]) Normalize() Vec3[T] {
	return v.NormalizeTo(1)
}

// NormalizeTo returns v scaled to the given length. Panics on a zero vector.
func (v Vec3[T]) NormalizeTo(length T) Vec3[T] {
	n := v.Norm()
	if n == 0 {
		panic(ErrZeroVector)
	}
	return Vec3[T]{v.X * length / n, v.Y * length / n, v.Z * length / n}
}

// Extend returns the homogeneous vector (x, y, z, w).
func (v Vec3[T]) Extend(w T) Vec4[T] {
	return Vec4[T]{v.X, v.Y, v.Z, w}
}

// XY drops the Z component.
func (v Vec3[T]) XY() Vec2[T] {
	return Vec2[T]{v.X, v.Y}
}

// Vec3FromMatrix reads a 3x1 column matrix.
func Vec3FromMatrix(m *Matrix) (Vec3f, error) {
	if m.Rows() != 3 || m.Cols() != 1 {
		return Vec3f{}, ErrDimensionMismatch
	}
	return Vec3f{m.At(0, 0), m.At(1, 0), m.At(2, 0)}, nil
}
