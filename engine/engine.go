package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/renderer"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has released everything
	EngineStageShutdown
)

/**
 * @brief Engine drives a Game frame by frame against a renderer backend.
 * Every frame runs in the same order: advance the clock, apply queued
 * input, update, render, record metrics.
 */
type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	isSuspended  bool
	backend      renderer.RendererBackend
	bus          *core.EventBus
	input        *core.Input
	clock        *core.FrameClock
	frameTimer   *core.Clock
	metrics      *core.Metrics
	width        uint32
	height       uint32

	// work posted from other goroutines, run at the start of the next frame
	mu       sync.Mutex
	deferred []func()
}

func New(g *Game, backend renderer.RendererBackend) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("game has no application config: %w", core.ErrInvalidConfig)
	}
	if backend == nil {
		return nil, errors.New("renderer backend is nil")
	}
	cfg := g.ApplicationConfig
	if cfg.InputQueue <= 0 {
		cfg.InputQueue = 64
	}
	bus := core.NewEventBus()
	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		backend:      backend,
		bus:          bus,
		input:        core.NewInput(bus, cfg.InputQueue),
		clock:        core.NewFrameClock(cfg.FixedDelta),
		frameTimer:   core.NewClock(),
		metrics:      core.NewMetrics(),
		width:        cfg.StartWidth,
		height:       cfg.StartHeight,
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Bus() *core.EventBus {
	return e.bus
}

func (e *Engine) Input() *core.Input {
	return e.input
}

func (e *Engine) Backend() renderer.RendererBackend {
	return e.backend
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

func (e *Engine) Clock() *core.FrameClock {
	return e.clock
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine initialized twice")
	}
	e.currentStage = EngineStageInitializing
	core.SetLogLevel(e.gameInstance.ApplicationConfig.LogLevel)

	// register some events
	e.bus.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.bus.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.bus.Register(core.EVENT_CODE_KEY_RELEASED, e, e.onKey)
	e.bus.Register(core.EVENT_CODE_RESIZED, e, e.onResized)

	if err := e.backend.Resized(e.width, e.height); err != nil {
		return err
	}
	if err := e.gameInstance.FnInitialize(e); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}
	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized at %dx%d", e.gameInstance.ApplicationConfig.Name, e.width, e.height)
	return nil
}

// Defer queues fn to run on the engine goroutine at the start of the next
// frame. Safe to call from any goroutine.
func (e *Engine) Defer(fn func()) {
	e.mu.Lock()
	e.deferred = append(e.deferred, fn)
	e.mu.Unlock()
}

func (e *Engine) runDeferred() {
	e.mu.Lock()
	pending := e.deferred
	e.deferred = nil
	e.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

// Run drives frames until the configured frame count is reached, the quit
// event fires or ctx is cancelled. Cancellation is a normal stop.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine run before initialize")
	}
	e.currentStage = EngineStageRunning
	e.isRunning = true

	cfg := e.gameInstance.ApplicationConfig
	e.clock.Start()

	for frame := 0; e.isRunning; frame++ {
		if cfg.Frames > 0 && frame >= cfg.Frames {
			break
		}
		select {
		case <-ctx.Done():
			core.LogInfo("run cancelled after %d frames", frame)
			e.isRunning = false
			continue
		default:
		}

		e.frameTimer.Start()
		delta := e.clock.Tick()

		e.runDeferred()
		e.pushScript(frame)
		e.input.Drain()

		if !e.isSuspended {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				e.isRunning = false
				return fmt.Errorf("frame %d update: %w", frame, err)
			}
			if err := e.renderFrame(delta); err != nil {
				e.isRunning = false
				return fmt.Errorf("frame %d render: %w", frame, err)
			}
		}

		e.frameTimer.Update()
		e.metrics.Update(e.frameTimer.Elapsed())

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		e.input.Update()
	}
	e.isRunning = false

	fps, ms := e.metrics.Frame()
	core.LogInfo("rendered %d frames over %.2fs (last %.0f fps, avg %.3f ms)",
		e.metrics.TotalFrames, e.clock.Total(), fps, ms)
	return nil
}

func (e *Engine) renderFrame(delta float64) error {
	if err := e.backend.BeginFrame(e.gameInstance.ApplicationConfig.ClearColour); err != nil {
		return err
	}
	if err := e.gameInstance.FnRender(delta); err != nil {
		return err
	}
	return e.backend.EndFrame(delta)
}

func (e *Engine) pushScript(frame int) {
	for _, s := range e.gameInstance.ApplicationConfig.Script {
		switch frame {
		case s.Frame:
			e.pushKey(s.Key, true)
		case s.Frame + 1:
			e.pushKey(s.Key, false)
		}
	}
}

func (e *Engine) pushKey(key core.KeyCode, pressed bool) {
	if err := e.input.Push(key, pressed); err != nil {
		core.LogWarn("%s", err.Error())
	}
}

// Resize feeds a viewport change through the event bus.
func (e *Engine) Resize(width, height uint32) {
	ctx := core.EventContext{}
	ctx.Data.U32[0] = width
	ctx.Data.U32[1] = height
	e.bus.Fire(core.EVENT_CODE_RESIZED, e, ctx)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	var err error
	if e.gameInstance.FnShutdown != nil {
		err = e.gameInstance.FnShutdown()
	}
	e.bus.Shutdown()
	e.currentStage = EngineStageShutdown
	return err
}

// GetFramebufferSize returns the width and height (in this order)
// of the application framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	if code == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	key := core.KeyCode(context.Data.U16[0])
	if code == core.EVENT_CODE_KEY_PRESSED {
		if key == core.KEY_ESCAPE {
			// NOTE: Technically firing an event to itself, but there may be other listeners.
			e.bus.Fire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
			// Block anything else from processing this.
			return true
		}
		core.LogDebug("key %d pressed", key)
	} else {
		core.LogDebug("key %d released", key)
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	width := context.Data.U32[0]
	height := context.Data.U32[1]

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("Viewport resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Viewport minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Viewport restored, resuming application.")
		e.isSuspended = false
	}
	if err := e.backend.Resized(width, height); err != nil {
		core.LogError("%s", err.Error())
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError("%s", err.Error())
	}
	return true
}
