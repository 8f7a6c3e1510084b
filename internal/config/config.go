// Package config handles renderer configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/softrender/pkg/math"
)

// Config holds all renderer settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Light   LightConfig   `yaml:"light"`
	Assets  AssetsConfig  `yaml:"assets"`
	Window  WindowConfig  `yaml:"window"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// Vec3 is a vector written as a three element YAML sequence.
type Vec3 [3]float32

// Vec returns v as a math vector.
func (v Vec3) Vec() math.Vec3f {
	return math.V3(v[0], v[1], v[2])
}

// RenderConfig holds rasterization and shading settings.
type RenderConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Depth  float32 `yaml:"depth"`
	// Shader is one of gouraud, normalmap or phong.
	Shader             string `yaml:"shader"`
	PerspectiveCorrect bool   `yaml:"perspective_correct"`
	FlipX              bool   `yaml:"flip_x"`
	ShowBounds         bool   `yaml:"show_bounds"`
	// Clear is a CSS color name or #rrggbb.
	Clear          string  `yaml:"clear"`
	Ambient        float32 `yaml:"ambient"`
	SpecularWeight float32 `yaml:"specular_weight"`
	Shininess      float32 `yaml:"shininess"`
}

// CameraConfig holds the camera placement.
type CameraConfig struct {
	Eye    Vec3 `yaml:"eye"`
	Center Vec3 `yaml:"center"`
	Up     Vec3 `yaml:"up"`
	// OrbitSpeed is in radians per second; 0 keeps the camera still.
	OrbitSpeed float32 `yaml:"orbit_speed"`
}

// LightConfig holds the directional light.
type LightConfig struct {
	Direction Vec3 `yaml:"direction"`
}

// AssetsConfig holds mesh and texture paths.
type AssetsConfig struct {
	Mesh     string `yaml:"mesh"`
	Diffuse  string `yaml:"diffuse"`
	Normal   string `yaml:"normal"`
	Specular string `yaml:"specular"`
	// Discover looks for <mesh>_diffuse, <mesh>_nm and <mesh>_spec images
	// next to the mesh when a path is not set.
	Discover bool `yaml:"discover"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string        `yaml:"title"`
	Fullscreen bool          `yaml:"fullscreen"`
	VSync      bool          `yaml:"vsync"`
	FrameDelay time.Duration `yaml:"frame_delay"`
}

// OutputConfig holds headless output settings.
type OutputConfig struct {
	// Headless renders one frame to Path instead of opening a window.
	Headless  bool   `yaml:"headless"`
	Path      string `yaml:"path"`
	DepthPath string `yaml:"depth_path"`
	Progress  bool   `yaml:"progress"`
	// ScreenshotDir receives F12 snapshots in windowed mode.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:          700,
			Height:         700,
			Depth:          255,
			Shader:         "normalmap",
			FlipX:          true,
			Clear:          "black",
			Ambient:        5,
			SpecularWeight: 0.6,
			Shininess:      16,
		},
		Camera: CameraConfig{
			Eye:    Vec3{1, 1, 3},
			Center: Vec3{0, 0, 0},
			Up:     Vec3{0, 1, 0},
		},
		Light: LightConfig{
			Direction: Vec3{1, 1, -1},
		},
		Assets: AssetsConfig{
			Mesh:     "obj/african_head.obj",
			Discover: true,
		},
		Window: WindowConfig{
			Title:      "softrender",
			Fullscreen: false,
			VSync:      true,
			FrameDelay: 16 * time.Millisecond,
		},
		Output: OutputConfig{
			Headless:      false,
			Path:          "output.png",
			Progress:      true,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
