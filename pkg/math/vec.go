// Package math provides the vector and matrix types used by the software rasterizer.
package math

import "math"

// Number is the set of element types a vector can hold.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

func sqrt[T Number](v T) T {
	return T(math.Sqrt(float64(v)))
}
