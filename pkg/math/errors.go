package math

import "errors"

// SingularTolerance is the relative determinant magnitude below which a
// matrix is treated as singular. The determinant is compared against
// SingularTolerance * n * the product of each row's largest magnitude, so the
// test does not depend on the scale of the entries.
const SingularTolerance = 1e-6

// MinW is the smallest |w| that Dehomogenize accepts.
const MinW = 1e-6

var (
	ErrDimensionMismatch = errors.New("matrix dimension mismatch")
	ErrNotSquare         = errors.New("matrix is not square")
	ErrSingular          = errors.New("matrix is singular")
	ErrZeroW             = errors.New("homogeneous w is zero")
	ErrZeroVector        = errors.New("cannot normalize a zero vector")
)
