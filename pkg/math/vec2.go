package math

// Vec2 is a 2D vector. X and Y double as the u and v texture coordinates.
type Vec2[T Number] struct {
	X, Y T
}

// Vec2f is a float32 2D vector.
type Vec2f = Vec2[float32]

// Vec2i is an int 2D vector.
type Vec2i = Vec2[int]

// V2 builds a Vec2.
func V2[T Number](x, y T) Vec2[T] {
	return Vec2[T]{x, y}
}

// At returns the i-th component.
func (v Vec2[T]) At(i int) T {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	panic("math: Vec2 index out of range")
}

// Set assigns the i-th component.
func (v *Vec2[T]) Set(i int, val T) {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		panic("math: Vec2 index out of range")
	}
}

// Add returns v + other.
func (v Vec2[T]) Add(other Vec2[T]) Vec2[T] {
	return Vec2[T]{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2[T]) Sub(other Vec2[T]) Vec2[T] {
	return Vec2[T]{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2[T]) Scale(s T) Vec2[T] {
	return Vec2[T]{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2[T]) Dot(other Vec2[T]) T {
	return v.X*other.X + v.Y*other.Y
}

// Norm returns the Euclidean length.
func (v Vec2[T]) Norm() T {
	return sqrt(v.Dot(v))
}

// Normalize returns a unit vector. Panics on a zero vector.
func (v Vec2[T]) Normalize() Vec2[T] {
	return v.NormalizeTo(1)
}

// NormalizeTo returns v scaled to the given length. Panics on a zero vector.
func (v Vec2[T]) NormalizeTo(length T) Vec2[T] {
	n := v.Norm()
	if n == 0 {
		panic(ErrZeroVector)
	}
	return Vec2[T]{v.X * length / n, v.Y * length / n}
}

// Vec2FromMatrix reads a 2x1 column matrix.
func Vec2FromMatrix(m *Matrix) (Vec2f, error) {
	if m.Rows() != 2 || m.Cols() != 1 {
		return Vec2f{}, ErrDimensionMismatch
	}
	return Vec2f{m.At(0, 0), m.At(1, 0)}, nil
}
