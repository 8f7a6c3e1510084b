package formats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/softrender/pkg/math"
)

const triangleOBJ = `# a single textured triangle
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`

func TestParseOBJ_Triangle(t *testing.T) {
	obj, err := ParseOBJ(strings.NewReader(triangleOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ() error = %v", err)
	}

	if obj.VertexCount() != 3 {
		t.Errorf("VertexCount() = %d, want 3", obj.VertexCount())
	}
	if obj.FaceCount() != 1 {
		t.Fatalf("FaceCount() = %d, want 1", obj.FaceCount())
	}
	if got := obj.FaceVertices(0); got != [3]int{0, 1, 2} {
		t.Errorf("FaceVertices(0) = %v, want [0 1 2]", got)
	}
	if got := obj.FaceTexCoords(0); got != [3]int{0, 1, 2} {
		t.Errorf("FaceTexCoords(0) = %v, want [0 1 2]", got)
	}
	if got := obj.FaceNormals(0); got != [3]int{0, 0, 0} {
		t.Errorf("FaceNormals(0) = %v, want [0 0 0]", got)
	}
	if got := obj.Vertex(1); got != math.V3[float32](1, 0, 0) {
		t.Errorf("Vertex(1) = %v", got)
	}
	if got := obj.TexCoord(2); got != math.V2[float32](0, 1) {
		t.Errorf("TexCoord(2) = %v", got)
	}
}

func TestParseOBJ_CornerForms(t *testing.T) {
	header := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0.5 0.5\nvn 0 0 -1\n"

	tests := []struct {
		name        string
		face        string
		wantUV      math.Vec2f
		wantNormalZ float32
	}{
		{"position only", "f 1 2 3", math.Vec2f{}, 1},
		{"position and uv", "f 1/1 2/1 3/1", math.V2[float32](0.5, 0.5), 1},
		{"position and normal", "f 1//1 2//1 3//1", math.Vec2f{}, -1},
		{"all three", "f 1/1/1 2/1/1 3/1/1", math.V2[float32](0.5, 0.5), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseOBJ(strings.NewReader(header + tt.face + "\n"))
			if err != nil {
				t.Fatalf("ParseOBJ() error = %v", err)
			}
			for nth := 0; nth < 3; nth++ {
				uv := obj.TexCoord(obj.FaceTexCoords(0)[nth])
				if uv != tt.wantUV {
					t.Errorf("corner %d uv = %v, want %v", nth, uv, tt.wantUV)
				}
				n := obj.Normal(obj.FaceNormals(0)[nth])
				if n.Z != tt.wantNormalZ {
					t.Errorf("corner %d normal = %v, want z %v", nth, n, tt.wantNormalZ)
				}
			}
		})
	}
}

func TestParseOBJ_NegativeIndices(t *testing.T) {
	data := `v 9 9 9
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
v 5 5 5
f -4 -1 -2
`
	obj, err := ParseOBJ(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseOBJ() error = %v", err)
	}
	if obj.FaceCount() != 2 {
		t.Fatalf("FaceCount() = %d, want 2", obj.FaceCount())
	}
	if got := obj.FaceVertices(0); got != [3]int{1, 2, 3} {
		t.Errorf("FaceVertices(0) = %v, want [1 2 3]", got)
	}
	// relative to the five vertices defined before the second face
	if got := obj.FaceVertices(1); got != [3]int{1, 4, 3} {
		t.Errorf("FaceVertices(1) = %v, want [1 4 3]", got)
	}
}

func TestParseOBJ_FanTriangulation(t *testing.T) {
	data := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v -1 1 0
f 1 2 3 4 5
`
	obj, err := ParseOBJ(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseOBJ() error = %v", err)
	}

	want := [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}}
	if obj.FaceCount() != len(want) {
		t.Fatalf("FaceCount() = %d, want %d", obj.FaceCount(), len(want))
	}
	for i, w := range want {
		if got := obj.FaceVertices(i); got != w {
			t.Errorf("FaceVertices(%d) = %v, want %v", i, got, w)
		}
	}
	// one zero uv shared by every face
	if len(obj.TexCoords) != 1 {
		t.Errorf("len(TexCoords) = %d, want 1", len(obj.TexCoords))
	}
}

func TestParseOBJ_SynthesizedNormal(t *testing.T) {
	data := "v 0 0 0\nv 2 0 0\nv 0 2 0\nf 1 2 3\nf 1 3 2\n"
	obj, err := ParseOBJ(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseOBJ() error = %v", err)
	}

	if got := obj.Normal(obj.FaceNormals(0)[0]); got != math.V3[float32](0, 0, 1) {
		t.Errorf("counter-clockwise normal = %v, want (0,0,1)", got)
	}
	if got := obj.Normal(obj.FaceNormals(1)[0]); got != math.V3[float32](0, 0, -1) {
		t.Errorf("clockwise normal = %v, want (0,0,-1)", got)
	}
}

func TestParseOBJ_DegenerateNormal(t *testing.T) {
	data := "v 0 0 0\nv 1 0 0\nv 2 0 0\nf 1 2 3\n"
	obj, err := ParseOBJ(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseOBJ() error = %v", err)
	}
	if got := obj.Normal(obj.FaceNormals(0)[0]); got != math.V3[float32](0, 0, 1) {
		t.Errorf("degenerate normal = %v, want (0,0,1)", got)
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"empty", "", ErrEmptyMesh},
		{"vertices only", "v 0 0 0\nv 1 0 0\n", ErrEmptyMesh},
		{"short vertex", "v 0 0\n", ErrInvalidOBJ},
		{"bad float", "v 0 x 0\n", ErrInvalidOBJ},
		{"two corners", "v 0 0 0\nf 1 1\n", ErrInvalidOBJ},
		{"zero index", "v 0 0 0\nf 0 1 1\n", ErrInvalidOBJ},
		{"bad index", "v 0 0 0\nf a 1 1\n", ErrInvalidOBJ},
		{"too many slashes", "v 0 0 0\nf 1/1/1/1 1 1\n", ErrInvalidOBJ},
		{"vertex past end", "v 0 0 0\nv 1 0 0\nf 1 2 3\n", ErrOBJIndexRange},
		{"relative before start", "v 0 0 0\nf -2 1 1\n", ErrOBJIndexRange},
		{"texcoord past end", "v 0 0 0\nvt 0 0\nf 1/2 1/1 1/1\n", ErrOBJIndexRange},
		{"normal past end", "v 0 0 0\nf 1//1 1//1 1//1\n", ErrOBJIndexRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseOBJ() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseOBJ_SkipsUnsupported(t *testing.T) {
	data := "mtllib head.mtl\no head\ng a\ng b\ns 1\n" + triangleOBJ
	obj, err := ParseOBJ(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseOBJ() error = %v", err)
	}
	want := []string{"mtllib", "o", "g", "s"}
	if strings.Join(obj.Skipped, ",") != strings.Join(want, ",") {
		t.Errorf("Skipped = %v, want %v", obj.Skipped, want)
	}
}

func TestParseOBJ_NoTrailingNewline(t *testing.T) {
	data := strings.TrimSuffix(triangleOBJ, "\n")
	obj, err := ParseOBJ(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseOBJ() error = %v", err)
	}
	if obj.FaceCount() != 1 {
		t.Errorf("FaceCount() = %d, want 1", obj.FaceCount())
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	if err := os.WriteFile(path, []byte(triangleOBJ), 0644); err != nil {
		t.Fatal(err)
	}

	obj, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ() error = %v", err)
	}
	lo, hi := obj.Bounds()
	if lo != (math.Vec3f{}) || hi != math.V3[float32](1, 1, 0) {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}

	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("LoadOBJ() on a missing file returned nil error")
	}
}
