// Package shader implements the vertex and fragment stages of the pipeline.
//
// A Shader processes one triangle at a time: Vertex is called for slots
// 0, 1 and 2 of a face, then Fragment once per covered pixel. Varying
// attributes written by Vertex are overwritten by the next face.
package shader

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/Faultbox/softrender/pkg/math"
)

// Kind names a lighting model.
type Kind string

const (
	// KindGouraud interpolates per-vertex Lambert intensity.
	KindGouraud Kind = "gouraud"
	// KindNormalMap applies a diffuse map and a tangent-space normal map.
	KindNormalMap Kind = "normalmap"
	// KindPhong adds a specular term to KindNormalMap.
	KindPhong Kind = "phong"
)

// Kinds lists the supported lighting models.
var Kinds = []Kind{KindGouraud, KindNormalMap, KindPhong}

var (
	ErrUnknownShader = errors.New("unknown shader")
	ErrNoMesh        = errors.New("shader needs a mesh")
)

// Mesh is the read-only geometry a shader pulls vertex data from.
// All indices are 0-based.
type Mesh interface {
	VertexCount() int
	FaceCount() int
	Vertex(i int) math.Vec3f
	TexCoord(i int) math.Vec2f
	Normal(i int) math.Vec3f
	FaceVertices(f int) [3]int
	FaceTexCoords(f int) [3]int
	FaceNormals(f int) [3]int
}

// Sampler is a readable image such as a diffuse or normal map.
type Sampler interface {
	Width() int
	Height() int
	At(x, y int) color.RGBA
}

// Maps holds the optional textures of a material. Nil fields are skipped.
type Maps struct {
	Diffuse  Sampler
	Normal   Sampler
	Specular Sampler
}

// Options tunes the lighting models.
type Options struct {
	// Ambient is added to every lit channel (0-255).
	Ambient float32
	// SpecularWeight scales the specular term.
	SpecularWeight float32
	// Shininess is the specular exponent when no specular map is bound.
	Shininess float32
}

// DefaultOptions returns the lighting constants used by the phong model.
func DefaultOptions() Options {
	return Options{
		Ambient:        5,
		SpecularWeight: 0.6,
		Shininess:      16,
	}
}

// Shader is the two-stage programmable part of the pipeline.
type Shader interface {
	// Vertex processes slot nth (0, 1 or 2) of face and returns its
	// screen-space position; W carries the clip-space w.
	Vertex(face, nth int) (math.Vec4f, error)
	// Fragment shades one pixel from its barycentric weights. Returning
	// true discards the pixel.
	Fragment(bar math.Vec3f) (color.RGBA, bool)
}

// New builds the shader for kind.
func New(kind Kind, mesh Mesh, u *Uniforms, maps Maps, opts Options) (Shader, error) {
	if mesh == nil {
		return nil, ErrNoMesh
	}
	if u == nil {
		return nil, errors.New("shader needs uniforms")
	}
	b := newBase(mesh, u, maps)
	switch kind {
	case KindGouraud:
		return &Gouraud{base: b}, nil
	case KindNormalMap:
		return &NormalMapped{base: b}, nil
	case KindPhong:
		return &Phong{NormalMapped: NormalMapped{base: b}, opts: opts}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShader, kind)
}

// ParseKind validates a lighting model name.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShader, name)
}
