// Package texture loads material images and exposes them to the shaders.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
	"golang.org/x/image/draw"

	"github.com/Faultbox/softrender/internal/engine/shader"
	"github.com/Faultbox/softrender/pkg/math"
)

// Texture is a decoded image with top-left origin.
type Texture struct {
	Name string
	img  *image.RGBA
}

// Load decodes the image at path. TGA files use the built-in decoder;
// every other format goes through the registered image decoders.
func Load(path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &Texture{Name: filepath.Base(path), img: img}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t := FromImage(img)
	t.Name = filepath.Base(path)
	return t, nil
}

// FromImage wraps img, converting it to RGBA when needed.
func FromImage(img image.Image) *Texture {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return &Texture{img: rgba}
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &Texture{img: rgba}
}

// Width returns the width in texels.
func (t *Texture) Width() int { return t.img.Rect.Dx() }

// Height returns the height in texels.
func (t *Texture) Height() int { return t.img.Rect.Dy() }

// At returns the texel at (x, y). Row 0 is the top of the image.
func (t *Texture) At(x, y int) color.RGBA { return t.img.RGBAAt(x, y) }

// Image returns the underlying pixels.
func (t *Texture) Image() *image.RGBA { return t.img }

// Sample returns the texel under uv, with v pointing up.
func (t *Texture) Sample(uv math.Vec2f) color.RGBA { return shader.Sample(t, uv) }

// NormalAt decodes the texel under uv as a tangent-space normal.
func (t *Texture) NormalAt(uv math.Vec2f) math.Vec3f { return shader.SampleNormal(t, uv) }

// Paths names the material images of a mesh. Empty fields are unset.
type Paths struct {
	Diffuse  string
	Normal   string
	Specular string
}

// Discovery suffixes, appended to the mesh path without its extension.
var (
	DiffuseSuffix  = "_diffuse"
	NormalSuffix   = "_nm"
	SpecularSuffix = "_spec"
)

// Extensions tried by Discover, in order.
var Extensions = []string{".tga", ".png", ".jpg", ".bmp", ".tif", ".webp"}

// Discover looks for material images next to meshPath, for example
// head_diffuse.tga and head_nm.tga beside head.obj. Fields already set in
// p are kept.
func Discover(meshPath string, p Paths) Paths {
	base := strings.TrimSuffix(meshPath, filepath.Ext(meshPath))
	if p.Diffuse == "" {
		p.Diffuse = find(base + DiffuseSuffix)
	}
	if p.Normal == "" {
		p.Normal = find(base + NormalSuffix)
	}
	if p.Specular == "" {
		p.Specular = find(base + SpecularSuffix)
	}
	return p
}

func find(stem string) string {
	for _, ext := range Extensions {
		if info, err := os.Stat(stem + ext); err == nil && !info.IsDir() {
			return stem + ext
		}
	}
	return ""
}

// LoadMaps loads every set path of p. A map that fails to load is left
// unbound and its error is returned alongside the maps that did load.
func LoadMaps(p Paths) (shader.Maps, error) {
	var (
		maps shader.Maps
		errs []error
	)
	load := func(path string) shader.Sampler {
		if path == "" {
			return nil
		}
		tex, err := Load(path)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		return tex
	}
	maps.Diffuse = load(p.Diffuse)
	maps.Normal = load(p.Normal)
	maps.Specular = load(p.Specular)
	return maps, errors.Join(errs...)
}
