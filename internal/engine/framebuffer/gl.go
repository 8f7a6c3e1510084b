package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Target is an OpenGL texture wrapped in a read framebuffer. A Framebuffer
// is uploaded into it and then blitted onto the default framebuffer.
// Requires a current GL context.
type Target struct {
	fbo          uint32
	colorTexture uint32
	width        int32
	height       int32
}

// NewTarget creates a target with the specified dimensions.
func NewTarget(width, height int32) (*Target, error) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	t := &Target{
		width:  width,
		height: height,
	}

	if err := t.create(); err != nil {
		return nil, fmt.Errorf("creating framebuffer target: %w", err)
	}

	return t, nil
}

func (t *Target) create() error {
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	gl.GenTextures(1, &t.colorTexture)
	gl.BindTexture(gl.TEXTURE_2D, t.colorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, t.width, t.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.colorTexture, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Destroy()
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return nil
}

// Size returns the target dimensions.
func (t *Target) Size() (width, height int32) {
	return t.width, t.height
}

// Upload copies fb into the target texture, resizing it to match.
func (t *Target) Upload(fb *Framebuffer) {
	img := fb.Image()
	w, h := int32(fb.Width()), int32(fb.Height())

	gl.BindTexture(gl.TEXTURE_2D, t.colorTexture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	if w != t.width || h != t.height {
		t.width, t.height = w, h
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Blit copies the target onto the default framebuffer, stretched to
// dstWidth x dstHeight. Rows are flipped because the uploaded image has a
// top-left origin while GL uses bottom-left.
func (t *Target) Blit(dstWidth, dstHeight int32) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)

	gl.Viewport(0, 0, dstWidth, dstHeight)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.BlitFramebuffer(
		0, 0, t.width, t.height,
		0, dstHeight, dstWidth, 0,
		gl.COLOR_BUFFER_BIT, gl.NEAREST,
	)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
}

// Destroy releases all OpenGL resources.
func (t *Target) Destroy() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.colorTexture != 0 {
		gl.DeleteTextures(1, &t.colorTexture)
		t.colorTexture = 0
	}
}
