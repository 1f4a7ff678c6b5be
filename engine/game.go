package engine

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func(e *Engine) error
type Update func(deltaTime float64) error
type Render func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
