package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/Faultbox/softrender/internal/engine/shader"
	"github.com/Faultbox/softrender/internal/logger"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks the settings that would otherwise fail deep inside the
// pipeline. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		bad("render size %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.Depth < 0 {
		bad("render depth %g", c.Render.Depth)
	}
	if _, err := shader.ParseKind(c.Render.Shader); err != nil {
		bad("render shader %q", c.Render.Shader)
	}
	if _, err := ParseColor(c.Render.Clear); err != nil {
		bad("render clear: %v", err)
	}
	if c.Camera.Eye == c.Camera.Center {
		bad("camera eye equals center")
	}
	if c.Camera.Up == (Vec3{}) {
		bad("camera up is zero")
	}
	if c.Light.Direction == (Vec3{}) {
		bad("light direction is zero")
	}
	if c.Assets.Mesh == "" {
		bad("no mesh")
	}
	if c.Output.Headless && c.Output.Path == "" {
		bad("headless output needs a path")
	}
	if c.Window.FrameDelay < 0 {
		bad("window frame delay %v", c.Window.FrameDelay)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		bad("logging: %v", err)
	}

	return errors.Join(errs...)
}

// ParseColor accepts a CSS color name such as "midnightblue" or a hex
// value "#rrggbb". The result is opaque.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok && len(hex) == 6 {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
		}
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

// ClearColor returns the parsed background color, black when invalid.
func (r RenderConfig) ClearColor() color.RGBA {
	c, err := ParseColor(r.Clear)
	if err != nil {
		return colornames.Black
	}
	return c
}

// ShaderOptions returns the lighting constants.
func (r RenderConfig) ShaderOptions() shader.Options {
	return shader.Options{
		Ambient:        r.Ambient,
		SpecularWeight: r.SpecularWeight,
		Shininess:      r.Shininess,
	}
}
