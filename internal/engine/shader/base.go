package shader

import (
	"fmt"
	"image/color"

	"github.com/Faultbox/softrender/pkg/math"
)

// allSlots marks a triangle whose three vertices have been processed.
const allSlots = 0b111

// base holds the varying store shared by every lighting model. Each
// varying matrix has one column per triangle vertex.
type base struct {
	mesh Mesh
	u    *Uniforms
	maps Maps

	varyingUV     *math.Matrix // uv in rows 0-1
	varyingNormal *math.Matrix // normal through MVPIT
	varyingNDC    *math.Matrix // dehomogenized clip position

	filled uint8
}

func newBase(mesh Mesh, u *Uniforms, maps Maps) base {
	return base{
		mesh:          mesh,
		u:             u,
		maps:          maps,
		varyingUV:     math.NewMatrix(3, 3),
		varyingNormal: math.NewMatrix(3, 3),
		varyingNDC:    math.NewMatrix(3, 3),
	}
}

// vertex fills column nth of the varying store and returns the screen position.
func (b *base) vertex(face, nth int) (math.Vec4f, error) {
	if nth < 0 || nth > 2 {
		return math.Vec4f{}, fmt.Errorf("vertex slot %d out of range", nth)
	}
	if nth == 0 {
		b.filled = 0
	}

	vi := b.mesh.FaceVertices(face)[nth]
	ti := b.mesh.FaceTexCoords(face)[nth]
	ni := b.mesh.FaceNormals(face)[nth]

	uv := b.mesh.TexCoord(ti)
	b.varyingUV.SetColumn3(nth, math.Vec3f{X: uv.X, Y: uv.Y})

	n, err := b.u.MVPIT.MulVec4(b.mesh.Normal(ni).Extend(0))
	if err != nil {
		return math.Vec4f{}, err
	}
	b.varyingNormal.SetColumn3(nth, n.XYZ())

	clip, err := b.u.MVP.MulVec4(b.mesh.Vertex(vi).Extend(1))
	if err != nil {
		return math.Vec4f{}, err
	}
	ndc, err := clip.Dehomogenize()
	if err != nil {
		return math.Vec4f{}, fmt.Errorf("face %d vertex %d: %w", face, nth, err)
	}
	b.varyingNDC.SetColumn3(nth, ndc.XYZ())

	screen, err := b.u.Frame.ToScreen(clip)
	if err != nil {
		return math.Vec4f{}, fmt.Errorf("face %d vertex %d: %w", face, nth, err)
	}
	b.filled |= 1 << nth
	return screen, nil
}

// ready reports whether all three vertices of the current triangle are set.
func (b *base) ready() bool {
	return b.filled == allSlots
}

// uv interpolates the texture coordinate.
func (b *base) uv(bar math.Vec3f) math.Vec2f {
	v, _ := b.varyingUV.MulVec3(bar)
	return v.XY()
}

// normal interpolates and normalizes the vertex normal. ok is false when
// the interpolated normal has no direction.
func (b *base) normal(bar math.Vec3f) (math.Vec3f, bool) {
	n, _ := b.varyingNormal.MulVec3(bar)
	return unit(n)
}

// diffuse returns the diffuse texel under uv, or white without a map.
func (b *base) diffuse(uv math.Vec2f) color.RGBA {
	if b.maps.Diffuse == nil {
		return white
	}
	return Sample(b.maps.Diffuse, uv)
}

func unit(v math.Vec3f) (math.Vec3f, bool) {
	n := v.Norm()
	if !(n >= math.MinW) {
		return math.Vec3f{}, false
	}
	return v.Scale(1 / n), true
}
