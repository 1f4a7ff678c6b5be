package testbed

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/spaghettifunk/anima-gallery/engine"
	"github.com/spaghettifunk/anima-gallery/engine/config"
	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/gallery"
	"github.com/spaghettifunk/anima-gallery/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func run(t *testing.T, cfg *config.Config, scene string) (*TestGame, *renderer.Recorder) {
	t.Helper()
	tg, err := NewTestGame(cfg, scene, gallery.DefaultRegistry())
	require.NoError(t, err)
	rec := renderer.NewRecorder()
	eng, err := engine.New(tg.Game, rec)
	require.NoError(t, err)
	require.NoError(t, eng.Initialize())
	require.NoError(t, eng.Run(context.Background()))
	require.NoError(t, eng.Shutdown())
	return tg, rec
}

func TestRunsSceneForConfiguredFrames(t *testing.T) {
	cfg := config.Default()
	cfg.Application.Frames = 4
	_, rec := run(t, cfg, "skeleton")

	assert.Equal(t, 4, rec.Count(renderer.OpBeginFrame, 0))
	assert.Equal(t, 4, rec.CountMesh(renderer.MeshGrid))
	assert.Equal(t, 4, rec.Count(renderer.OpClearDepth, 0))
}

func TestScriptedToggleHidesOverlay(t *testing.T) {
	cfg := config.Default()
	cfg.Application.Frames = 4
	cfg.Input = []config.ScriptedKey{{Frame: 2, Key: "space"}}
	_, rec := run(t, cfg, "skeleton")

	// frames 0 and 1 draw the overlay, 2 and 3 do not
	assert.Equal(t, 2, rec.Count(renderer.OpClearDepth, 0))
	assert.Len(t, rec.Texts(), 8)
}

func TestUnknownSceneFailsEarly(t *testing.T) {
	_, err := NewTestGame(config.Default(), "selected", gallery.DefaultRegistry())
	assert.ErrorIs(t, err, core.ErrUnknownScene)
}

func TestReloadAppliesBetweenFrames(t *testing.T) {
	cfg := config.Default()
	cfg.Application.Frames = 3
	tg, err := NewTestGame(cfg, "skeleton", gallery.DefaultRegistry())
	require.NoError(t, err)
	rec := renderer.NewRecorder()
	eng, err := engine.New(tg.Game, rec)
	require.NoError(t, err)
	require.NoError(t, eng.Initialize())

	reloaded := false
	eng.Bus().Register(core.EVENT_CODE_CONFIG_RELOADED, t, func(core.SystemEventCode, interface{}, interface{}, core.EventContext) bool {
		reloaded = true
		return false
	})
	next := config.Default()
	next.Skeleton.Names = false
	eng.Defer(func() { tg.Reload(next) })

	require.NoError(t, eng.Run(context.Background()))
	assert.True(t, reloaded)
	assert.Empty(t, rec.Texts())
}
