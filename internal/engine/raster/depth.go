package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

// DepthBuffer stores one depth per pixel. Larger values are nearer.
type DepthBuffer struct {
	width, height int
	data          []float32
}

// NewDepthBuffer returns a width x height buffer cleared to -Inf.
func NewDepthBuffer(width, height int) *DepthBuffer {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("raster: invalid depth buffer size %dx%d", width, height))
	}
	d := &DepthBuffer{
		width:  width,
		height: height,
		data:   make([]float32, width*height),
	}
	d.Reset()
	return d
}

// Width returns the buffer width.
func (d *DepthBuffer) Width() int { return d.width }

// Height returns the buffer height.
func (d *DepthBuffer) Height() int { return d.height }

// Reset clears every pixel to -Inf.
func (d *DepthBuffer) Reset() {
	inf := math32.Inf(-1)
	for i := range d.data {
		d.data[i] = inf
	}
}

// At returns the depth stored at (x, y).
func (d *DepthBuffer) At(x, y int) float32 {
	return d.data[d.index(x, y)]
}

// Set stores z at (x, y) unconditionally.
func (d *DepthBuffer) Set(x, y int, z float32) {
	d.data[d.index(x, y)] = z
}

// TestAndSet stores z at (x, y) if it is strictly greater than the current
// value and reports whether it did.
func (d *DepthBuffer) TestAndSet(x, y int, z float32) bool {
	i := d.index(x, y)
	if !(z > d.data[i]) {
		return false
	}
	d.data[i] = z
	return true
}

// Covered returns how many pixels hold a finite depth.
func (d *DepthBuffer) Covered() int {
	n := 0
	for _, z := range d.data {
		if !math32.IsInf(z, -1) {
			n++
		}
	}
	return n
}

func (d *DepthBuffer) index(x, y int) int {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		panic(fmt.Sprintf("raster: depth index (%d,%d) out of range %dx%d", x, y, d.width, d.height))
	}
	return y*d.width + x
}

// Image renders the buffer as grayscale, mapping [0, maxDepth] to [0, 255].
// Untouched pixels are black. Rows are flipped like the color output.
func (d *DepthBuffer) Image(maxDepth float32) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, d.width, d.height))
	if maxDepth <= 0 {
		return img
	}
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			z := d.data[y*d.width+x]
			if math32.IsInf(z, -1) {
				continue
			}
			v := math32.Max(0, math32.Min(255, z/maxDepth*255))
			img.SetGray(x, d.height-1-y, color.Gray{Y: uint8(v)})
		}
	}
	return img
}
