package testbed

import (
	"fmt"

	"github.com/spaghettifunk/anima-gallery/engine"
	"github.com/spaghettifunk/anima-gallery/engine/config"
	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/gallery"
	"github.com/spaghettifunk/anima-gallery/engine/renderer/components"
)

// TestGame runs one gallery scene inside the engine loop.
type TestGame struct {
	*engine.Game
}

type gameState struct {
	Config      *config.Config
	SceneName   string
	Scene       gallery.Scene
	WorldCamera *components.Camera

	ctx *gallery.Context
	bus *core.EventBus
}

// NewTestGame resolves sceneName once, up front, so an unknown name fails
// before anything is initialized.
func NewTestGame(cfg *config.Config, sceneName string, registry *gallery.Registry) (*TestGame, error) {
	s, err := registry.New(sceneName)
	if err != nil {
		return nil, err
	}
	script := make([]engine.ScriptedKey, 0, len(cfg.Input))
	for _, in := range cfg.Input {
		key, err := core.ParseKeyCode(in.Key)
		if err != nil {
			return nil, fmt.Errorf("scripted input at frame %d: %w", in.Frame, err)
		}
		script = append(script, engine.ScriptedKey{Frame: in.Frame, Key: key})
	}

	app := cfg.Application
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:        fmt.Sprintf("%s [%s]", app.Name, sceneName),
				StartWidth:  app.Width,
				StartHeight: app.Height,
				LogLevel:    cfg.LogLevel(),
				Frames:      app.Frames,
				FixedDelta:  app.FixedDelta,
				InputQueue:  app.InputQueue,
				ClearColour: gallery.ClearColour,
				Script:      script,
			},
			State: &gameState{
				Config:    cfg,
				SceneName: sceneName,
				Scene:     s,
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	state := g.state()
	core.LogDebug("creating scene %q", state.SceneName)

	w, h := e.GetFramebufferSize()
	state.WorldCamera = components.NewCamera(w, h)
	state.bus = e.Bus()
	state.ctx = &gallery.Context{
		Config:  state.Config,
		Backend: e.Backend(),
		Camera:  state.WorldCamera,
		Bus:     e.Bus(),
		Input:   e.Input(),
	}
	if err := state.Scene.Create(state.ctx); err != nil {
		return fmt.Errorf("create scene %q: %w", state.SceneName, err)
	}
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	if u, ok := g.state().Scene.(gallery.Updater); ok {
		return u.Update(deltaTime)
	}
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	state := g.state()
	return state.Scene.RenderFrame(&gallery.Frame{
		Delta:  deltaTime,
		Drawer: state.ctx.Backend,
		Camera: state.WorldCamera,
	})
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	if cam := g.state().WorldCamera; cam != nil {
		cam.Resize(width, height)
	}
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogDebug("scene %q shut down", g.state().SceneName)
	return nil
}

// Reload hands a new configuration to the scene. It must run on the engine
// goroutine, between frames.
func (g *TestGame) Reload(cfg *config.Config) {
	state := g.state()
	state.Config = cfg
	core.SetLogLevel(cfg.LogLevel())
	if r, ok := state.Scene.(gallery.Reconfigurable); ok {
		r.ApplyConfig(cfg)
	}
	if state.bus != nil {
		state.bus.Fire(core.EVENT_CODE_CONFIG_RELOADED, g, core.EventContext{})
	}
}
