package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/softrender/internal/engine/camera"
	"github.com/Faultbox/softrender/internal/engine/renderer"
	"github.com/Faultbox/softrender/internal/engine/shader"
	"github.com/Faultbox/softrender/pkg/formats"
	"github.com/Faultbox/softrender/pkg/math"
)

const triangle = `v -0.5 -0.5 0
v 0.5 -0.5 0
v 0 0.5 0
f 1 2 3
`

func testScene(t *testing.T) *scene {
	t.Helper()
	obj, err := formats.ParseOBJ(strings.NewReader(triangle))
	require.NoError(t, err)

	r, err := renderer.New(renderer.Config{
		Width:   24,
		Height:  24,
		Depth:   255,
		Shader:  shader.KindGouraud,
		Options: shader.DefaultOptions(),
		Light:   math.V3[float32](0, 0, 1),
	}, obj, shader.Maps{})
	require.NoError(t, err)

	cam := camera.NewOrbitCamera(math.V3[float32](0, 0, 3), math.Vec3f{}, math.V3[float32](0, 1, 0))
	return newScene(r, cam)
}

func TestSceneDrawsOnceUntilDirty(t *testing.T) {
	s := testScene(t)
	ctx := context.Background()

	drawn, err := s.draw(ctx)
	require.NoError(t, err)
	assert.True(t, drawn)
	assert.Positive(t, s.last.Shaded)

	drawn, err = s.draw(ctx)
	require.NoError(t, err)
	assert.False(t, drawn, "nothing changed")

	s.update(0.1)
	assert.False(t, s.dirty, "still camera does not dirty")

	s.camera.OrbitSpeed = 1
	s.update(0.1)
	assert.True(t, s.dirty)
	drawn, err = s.draw(ctx)
	require.NoError(t, err)
	assert.True(t, drawn)
}

func TestSceneResize(t *testing.T) {
	s := testScene(t)
	_, err := s.draw(context.Background())
	require.NoError(t, err)

	s.resize(24, 24)
	assert.False(t, s.dirty, "same size")
	s.resize(0, 10)
	assert.False(t, s.dirty, "invalid size")

	s.resize(40, 30)
	assert.True(t, s.dirty)
	w, h := s.renderer.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 30, h)
}

func TestSceneSkipsDegenerateCamera(t *testing.T) {
	s := testScene(t)
	s.camera.Eye = math.V3[float32](0, 3, 0)

	drawn, err := s.draw(context.Background())
	require.NoError(t, err, "up parallel to view direction is skipped")
	assert.False(t, drawn)
	assert.False(t, s.dirty)
}

func TestSceneCancelled(t *testing.T) {
	s := testScene(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.draw(ctx)
	assert.True(t, cancelled(err))
}
