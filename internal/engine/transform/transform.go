// Package transform builds the view, projection and viewport matrices that
// take model-space positions to screen space.
package transform

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/softrender/pkg/math"
)

// DefaultDepth is the depth range the viewport maps [-1, 1] onto.
const DefaultDepth = 255

// ErrDegenerateBasis is returned when the camera basis cannot be built:
// eye and center coincide, or up is parallel to the view axis.
var ErrDegenerateBasis = errors.New("degenerate camera basis")

// LookAt returns the view matrix for a camera at eye looking at center.
//
// forward = normalize(eye - center), right = normalize(forward x up),
// trueUp = right x forward. The matrix translates by -center and then
// rotates into (right, trueUp, forward).
func LookAt(eye, center, up math.Vec3f) (*math.Matrix, error) {
	axis := eye.Sub(center)
	if axis.Norm() < math.MinW {
		return nil, fmt.Errorf("eye %v equals center: %w", eye, ErrDegenerateBasis)
	}
	forward := axis.Normalize()

	side := forward.Cross(up)
	if side.Norm() < math.MinW {
		return nil, fmt.Errorf("up %v parallel to view axis: %w", up, ErrDegenerateBasis)
	}
	right := side.Normalize()
	trueUp := right.Cross(forward)

	rotation := math.Identity(4)
	translation := math.Identity(4)
	for i := 0; i < 3; i++ {
		rotation.Set(0, i, right.At(i))
		rotation.Set(1, i, trueUp.At(i))
		rotation.Set(2, i, forward.At(i))
		translation.Set(i, 3, -center.At(i))
	}
	return rotation.MustMul(translation), nil
}

// Projection returns the identity with entry (3,2) set to coeff, so that
// the w produced for a view-space point is 1 + coeff*z.
func Projection(coeff float32) *math.Matrix {
	m := math.Identity(4)
	m.Set(3, 2, coeff)
	return m
}

// ProjectionCoeff returns -1/|eye - center|, the coefficient Projection
// expects for a camera at eye looking at center.
func ProjectionCoeff(eye, center math.Vec3f) float32 {
	d := eye.Sub(center).Norm()
	if d == 0 {
		return 0
	}
	return -1 / d
}

// Viewport maps the cube [-1,1]^3 onto the rectangle (x, y, w, h) and
// the depth range [0, depth].
func Viewport(x, y, w, h int, depth float32) *math.Matrix {
	m := math.Identity(4)
	m.Set(0, 3, float32(x)+float32(w)/2)
	m.Set(1, 3, float32(y)+float32(h)/2)
	m.Set(2, 3, depth/2)

	m.Set(0, 0, float32(w)/2)
	m.Set(1, 1, float32(h)/2)
	m.Set(2, 2, depth/2)
	return m
}

// Frame holds the standing transforms for one frame. It is built once by
// NewFrame and only read afterwards.
type Frame struct {
	Eye, Center, Up math.Vec3f
	Width, Height   int
	Depth           float32

	View       *math.Matrix
	Projection *math.Matrix
	Viewport   *math.Matrix

	projView *math.Matrix
}

// NewFrame builds the view, projection and viewport matrices for a camera
// and a width x height target.
func NewFrame(eye, center, up math.Vec3f, width, height int, depth float32) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if depth <= 0 || math32.IsNaN(depth) {
		depth = DefaultDepth
	}

	view, err := LookAt(eye, center, up)
	if err != nil {
		return nil, err
	}
	proj := Projection(ProjectionCoeff(eye, center))

	return &Frame{
		Eye:        eye,
		Center:     center,
		Up:         up,
		Width:      width,
		Height:     height,
		Depth:      depth,
		View:       view,
		Projection: proj,
		Viewport:   Viewport(0, 0, width, height, depth),
		projView:   proj.MustMul(view),
	}, nil
}

// ProjectionView returns Projection * View.
func (f *Frame) ProjectionView() *math.Matrix {
	return f.projView
}

// ToScreen maps a clip-space position to screen space. The result carries
// the dehomogenized x, y, z and keeps the clip-space w in W.
func (f *Frame) ToScreen(clip math.Vec4f) (math.Vec4f, error) {
	screen, err := f.Viewport.MulVec4(clip)
	if err != nil {
		return math.Vec4f{}, err
	}
	out, err := screen.Dehomogenize()
	if err != nil {
		return math.Vec4f{}, err
	}
	out.W = clip.W
	return out, nil
}
