package shader

import (
	"fmt"

	"github.com/Faultbox/softrender/internal/engine/transform"
	"github.com/Faultbox/softrender/pkg/math"
)

// Uniforms are the per-frame constants every shader reads.
type Uniforms struct {
	Frame *transform.Frame

	// MVP is Projection * View.
	MVP *math.Matrix
	// MVPIT is the inverse transpose of MVP, used for normals.
	MVPIT *math.Matrix
	// Light is the light direction carried through MVP and normalized.
	Light math.Vec3f
}

// NewUniforms derives the uniforms for frame and a world-space light direction.
func NewUniforms(frame *transform.Frame, light math.Vec3f) (*Uniforms, error) {
	mvp := frame.ProjectionView()
	inv, err := mvp.Inverse()
	if err != nil {
		return nil, fmt.Errorf("inverting projection*view: %w", err)
	}

	l, err := mvp.MulVec4(light.Extend(0))
	if err != nil {
		return nil, err
	}
	dir := l.XYZ()
	if dir.Norm() < math.MinW {
		return nil, fmt.Errorf("light direction %v vanishes under projection*view: %w", light, math.ErrZeroVector)
	}

	return &Uniforms{
		Frame: frame,
		MVP:   mvp,
		MVPIT: inv.Transpose(),
		Light: dir.Normalize(),
	}, nil
}
