package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/softrender/pkg/math"
)

// OBJ format errors.
var (
	ErrInvalidOBJ    = errors.New("invalid OBJ data")
	ErrOBJIndexRange = errors.New("OBJ index out of range")
	ErrEmptyMesh     = errors.New("OBJ mesh has no faces")
)

// OBJFace is one triangle. Each array holds 0-based indices into the
// matching attribute list of the owning OBJ.
type OBJFace struct {
	Vertices  [3]int
	TexCoords [3]int
	Normals   [3]int
}

// OBJ is a triangulated Wavefront mesh.
//
// Every face references valid entries of all three attribute lists:
// corners without a texture coordinate point at a shared (0, 0) entry and
// corners without a normal point at a synthesized flat face normal.
type OBJ struct {
	Vertices  []math.Vec3f
	TexCoords []math.Vec2f
	Normals   []math.Vec3f
	Faces     []OBJFace

	// Unsupported statements encountered while parsing, one per keyword.
	Skipped []string
}

// corner is a face corner as written in the file, before validation.
type corner struct {
	v, vt, vn int
	hasVT     bool
	hasVN     bool
}

type objParser struct {
	obj     *OBJ
	line    int
	zeroUV  int
	skipped map[string]bool
	// raw faces, resolved once every attribute has been read
	polys [][]corner
	lines []int
}

// ParseOBJ reads a Wavefront OBJ mesh. Polygons are fan-triangulated and
// indices are converted to 0-based; negative indices count back from the
// last attribute defined before the face.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	p := &objParser{
		obj:     &OBJ{},
		zeroUV:  -1,
		skipped: make(map[string]bool),
	}

	bufin := bufio.NewReader(r)
	for {
		line, err := bufin.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading OBJ: %w", err)
		}
		p.line++
		if perr := p.parseLine(line); perr != nil {
			return nil, perr
		}
		if err == io.EOF {
			break
		}
	}

	if err := p.resolve(); err != nil {
		return nil, err
	}
	if len(p.obj.Faces) == 0 {
		return nil, ErrEmptyMesh
	}
	return p.obj, nil
}

// LoadOBJ parses the OBJ file at path.
func LoadOBJ(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	defer f.Close()

	obj, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obj, nil
}

func (p *objParser) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := p.floats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.obj.Vertices = append(p.obj.Vertices, math.V3(v[0], v[1], v[2]))
	case "vt":
		v, err := p.floats(fields[1:], 2)
		if err != nil {
			return err
		}
		p.obj.TexCoords = append(p.obj.TexCoords, math.V2(v[0], v[1]))
	case "vn":
		v, err := p.floats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.obj.Normals = append(p.obj.Normals, math.V3(v[0], v[1], v[2]))
	case "f":
		return p.parseFace(fields[1:])
	default:
		if !p.skipped[fields[0]] {
			p.skipped[fields[0]] = true
			p.obj.Skipped = append(p.obj.Skipped, fields[0])
		}
	}
	return nil
}

// floats parses the first n fields. Extra fields (such as w) are ignored.
func (p *objParser) floats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, p.errorf("want %d coordinates, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		val, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, p.errorf("coordinate %q: %v", fields[i], err)
		}
		out[i] = float32(val)
	}
	return out, nil
}

// parseFace parses
// f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (p *objParser) parseFace(fields []string) error {
	if len(fields) < 3 {
		return p.errorf("face with %d corners", len(fields))
	}

	poly := make([]corner, len(fields))
	for i, f := range fields {
		parts := strings.Split(f, "/")
		if len(parts) > 3 {
			return p.errorf("face corner %q", f)
		}

		var c corner
		var err error
		if c.v, err = p.index(parts[0], len(p.obj.Vertices)); err != nil {
			return err
		}
		if len(parts) > 1 && parts[1] != "" {
			if c.vt, err = p.index(parts[1], len(p.obj.TexCoords)); err != nil {
				return err
			}
			c.hasVT = true
		}
		if len(parts) > 2 && parts[2] != "" {
			if c.vn, err = p.index(parts[2], len(p.obj.Normals)); err != nil {
				return err
			}
			c.hasVN = true
		}
		poly[i] = c
	}

	p.polys = append(p.polys, poly)
	p.lines = append(p.lines, p.line)
	return nil
}

// index converts a 1-based or negative (relative) index to 0-based.
// count is the number of attributes defined so far.
func (p *objParser) index(s string, count int) (int, error) {
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0, p.errorf("index %q: %v", s, err)
	}
	switch {
	case val > 0:
		return val - 1, nil
	case val < 0:
		return count + val, nil
	}
	return 0, p.errorf("index 0")
}

// resolve validates every corner and emits the triangle fan of each polygon.
func (p *objParser) resolve() error {
	obj := p.obj
	for i, poly := range p.polys {
		for _, c := range poly {
			if err := p.check(c, p.lines[i]); err != nil {
				return err
			}
		}
		for k := 1; k+1 < len(poly); k++ {
			obj.Faces = append(obj.Faces, p.triangle(poly[0], poly[k], poly[k+1]))
		}
	}
	return nil
}

func (p *objParser) check(c corner, line int) error {
	if c.v < 0 || c.v >= len(p.obj.Vertices) {
		return fmt.Errorf("line %d: vertex %d of %d: %w", line, c.v+1, len(p.obj.Vertices), ErrOBJIndexRange)
	}
	if c.hasVT && (c.vt < 0 || c.vt >= len(p.obj.TexCoords)) {
		return fmt.Errorf("line %d: texcoord %d of %d: %w", line, c.vt+1, len(p.obj.TexCoords), ErrOBJIndexRange)
	}
	if c.hasVN && (c.vn < 0 || c.vn >= len(p.obj.Normals)) {
		return fmt.Errorf("line %d: normal %d of %d: %w", line, c.vn+1, len(p.obj.Normals), ErrOBJIndexRange)
	}
	return nil
}

func (p *objParser) triangle(a, b, c corner) OBJFace {
	obj := p.obj
	corners := [3]corner{a, b, c}

	var face OBJFace
	flat := -1
	for i, cn := range corners {
		face.Vertices[i] = cn.v

		if cn.hasVT {
			face.TexCoords[i] = cn.vt
		} else {
			if p.zeroUV < 0 {
				p.zeroUV = len(obj.TexCoords)
				obj.TexCoords = append(obj.TexCoords, math.Vec2f{})
			}
			face.TexCoords[i] = p.zeroUV
		}

		if cn.hasVN {
			face.Normals[i] = cn.vn
		} else {
			if flat < 0 {
				flat = len(obj.Normals)
				obj.Normals = append(obj.Normals, faceNormal(
					obj.Vertices[a.v], obj.Vertices[b.v], obj.Vertices[c.v]))
			}
			face.Normals[i] = flat
		}
	}
	return face
}

// faceNormal returns the unit normal of a counter-clockwise triangle, or
// +Z when the triangle has no area.
func faceNormal(a, b, c math.Vec3f) math.Vec3f {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Norm() == 0 {
		return math.V3[float32](0, 0, 1)
	}
	return n.Normalize()
}

func (p *objParser) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s: %w", p.line, fmt.Sprintf(format, args...), ErrInvalidOBJ)
}

// VertexCount returns the number of vertex positions.
func (o *OBJ) VertexCount() int { return len(o.Vertices) }

// FaceCount returns the number of triangles.
func (o *OBJ) FaceCount() int { return len(o.Faces) }

// Vertex returns position i.
func (o *OBJ) Vertex(i int) math.Vec3f { return o.Vertices[i] }

// TexCoord returns texture coordinate i.
func (o *OBJ) TexCoord(i int) math.Vec2f { return o.TexCoords[i] }

// Normal returns normal i.
func (o *OBJ) Normal(i int) math.Vec3f { return o.Normals[i] }

// FaceVertices returns the position indices of face f.
func (o *OBJ) FaceVertices(f int) [3]int { return o.Faces[f].Vertices }

// FaceTexCoords returns the texture coordinate indices of face f.
func (o *OBJ) FaceTexCoords(f int) [3]int { return o.Faces[f].TexCoords }

// FaceNormals returns the normal indices of face f.
func (o *OBJ) FaceNormals(f int) [3]int { return o.Faces[f].Normals }

// Bounds returns the axis-aligned bounding box of the vertex positions.
func (o *OBJ) Bounds() (lo, hi math.Vec3f) {
	if len(o.Vertices) == 0 {
		return lo, hi
	}
	lo, hi = o.Vertices[0], o.Vertices[0]
	for _, v := range o.Vertices[1:] {
		lo = math.V3(min(lo.X, v.X), min(lo.Y, v.Y), min(lo.Z, v.Z))
		hi = math.V3(max(hi.X, v.X), max(hi.Y, v.Y), max(hi.Z, v.Z))
	}
	return lo, hi
}
