// Package framebuffer holds the color buffer the rasterizer writes into and
// the OpenGL target used to put it on screen.
package framebuffer

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Framebuffer is a CPU-side RGBA color buffer with top-left origin.
type Framebuffer struct {
	img   *image.RGBA
	clear color.RGBA
}

// New creates a framebuffer filled with the clear color.
func New(width, height int, clear color.RGBA) *Framebuffer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	fb := &Framebuffer{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		clear: clear,
	}
	fb.Clear()
	return fb
}

// Width returns the width in pixels.
func (fb *Framebuffer) Width() int { return fb.img.Rect.Dx() }

// Height returns the height in pixels.
func (fb *Framebuffer) Height() int { return fb.img.Rect.Dy() }

// SetColor writes one pixel. Writes outside the buffer are dropped.
func (fb *Framebuffer) SetColor(x, y int, c color.RGBA) {
	fb.img.SetRGBA(x, y, c)
}

// At returns the pixel at (x, y).
func (fb *Framebuffer) At(x, y int) color.RGBA {
	return fb.img.RGBAAt(x, y)
}

// ClearColor returns the color Clear fills with.
func (fb *Framebuffer) ClearColor() color.RGBA { return fb.clear }

// SetClearColor changes the color used by the next Clear.
func (fb *Framebuffer) SetClearColor(c color.RGBA) { fb.clear = c }

// Clear fills the buffer with the clear color.
func (fb *Framebuffer) Clear() {
	draw.Draw(fb.img, fb.img.Rect, image.NewUniform(fb.clear), image.Point{}, draw.Src)
}

// Resize reallocates the buffer if the size changed. Contents are cleared
// either way.
func (fb *Framebuffer) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width != fb.Width() || height != fb.Height() {
		fb.img = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	fb.Clear()
}

// Image returns the pixels. The image is shared with the framebuffer.
func (fb *Framebuffer) Image() *image.RGBA {
	return fb.img
}
