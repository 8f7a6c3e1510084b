package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// vec3Flag parses "x,y,z" and remembers whether it was given.
type vec3Flag struct {
	v   Vec3
	set bool
}

func (f *vec3Flag) String() string {
	if f == nil || !f.set {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", f.v[0], f.v[1], f.v[2])
}

func (f *vec3Flag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("want x,y,z, got %q", s)
	}
	var v Vec3
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = float32(n)
	}
	f.v, f.set = v, true
	return nil
}

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagWidth       = flag.Int("width", 0, "Output width")
	flagHeight      = flag.Int("height", 0, "Output height")
	flagShader      = flag.String("shader", "", "Shader: gouraud, normalmap or phong")
	flagHeadless    = flag.Bool("headless", false, "Render one frame to -o and exit")
	flagWindowed    = flag.Bool("windowed", false, "Open a window even if the config says headless")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagOutput      = flag.String("o", "", "Output image path (implies -headless)")
	flagDepthOutput = flag.String("depth", "", "Also write the depth buffer to this path")
	flagPerspective = flag.Bool("perspective", false, "Perspective-correct attribute interpolation")
	flagBounds      = flag.Bool("bounds", false, "Overlay the mesh bounding box")
	flagNoProgress  = flag.Bool("no-progress", false, "Hide the progress bar")
	flagOrbit       = flag.Float64("orbit", 0, "Orbit speed in radians per second")
	flagDiffuse     = flag.String("diffuse", "", "Diffuse texture path")
	flagNormal      = flag.String("normal", "", "Tangent-space normal map path")
	flagSpecular    = flag.String("specular", "", "Specular map path")
	flagClear       = flag.String("clear", "", "Background color name or #rrggbb")
	flagSaveConfig  = flag.Bool("save-config", false, "Write the effective config to the user config directory")

	flagEye    = new(vec3Flag)
	flagCenter = new(vec3Flag)
	flagUp     = new(vec3Flag)
	flagLight  = new(vec3Flag)
)

func init() {
	flag.Var(flagEye, "eye", "Camera position x,y,z")
	flag.Var(flagCenter, "center", "Camera target x,y,z")
	flag.Var(flagUp, "up", "Camera up vector x,y,z")
	flag.Var(flagLight, "light", "Light direction x,y,z")
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether -save-config was given.
func SaveRequested() bool {
	return *flagSaveConfig
}

// MeshPath returns the positional mesh argument, if any.
func MeshPath() string {
	return flag.Arg(0)
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Render.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Render.Height = *flagHeight
	}
	if *flagShader != "" {
		cfg.Render.Shader = *flagShader
	}
	if *flagHeadless {
		cfg.Output.Headless = true
	}
	if *flagOutput != "" {
		cfg.Output.Path = *flagOutput
		cfg.Output.Headless = true
	}
	if *flagWindowed {
		cfg.Output.Headless = false
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagDepthOutput != "" {
		cfg.Output.DepthPath = *flagDepthOutput
	}
	if *flagPerspective {
		cfg.Render.PerspectiveCorrect = true
	}
	if *flagBounds {
		cfg.Render.ShowBounds = true
	}
	if *flagNoProgress {
		cfg.Output.Progress = false
	}
	if *flagOrbit != 0 {
		cfg.Camera.OrbitSpeed = float32(*flagOrbit)
	}
	if *flagDiffuse != "" {
		cfg.Assets.Diffuse = *flagDiffuse
	}
	if *flagNormal != "" {
		cfg.Assets.Normal = *flagNormal
	}
	if *flagSpecular != "" {
		cfg.Assets.Specular = *flagSpecular
	}
	if *flagClear != "" {
		cfg.Render.Clear = *flagClear
	}
	if flagEye.set {
		cfg.Camera.Eye = flagEye.v
	}
	if flagCenter.set {
		cfg.Camera.Center = flagCenter.v
	}
	if flagUp.set {
		cfg.Camera.Up = flagUp.v
	}
	if flagLight.set {
		cfg.Light.Direction = flagLight.v
	}
	if mesh := MeshPath(); mesh != "" {
		cfg.Assets.Mesh = mesh
	}
}
