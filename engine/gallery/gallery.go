package gallery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spaghettifunk/anima-gallery/engine/config"
	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/renderer"
	"github.com/spaghettifunk/anima-gallery/engine/renderer/components"
)

// Context carries what a scene may wire during Create.
type Context struct {
	Config  *config.Config
	Backend renderer.RendererBackend
	Camera  *components.Camera
	Bus     *core.EventBus
	Input   *core.Input
}

// Frame is handed to RenderFrame once per engine frame.
type Frame struct {
	Delta  float64
	Drawer renderer.Drawer
	Camera *components.Camera
}

// Scene is one entry of the gallery.
type Scene interface {
	Create(ctx *Context) error
	RenderFrame(f *Frame) error
}

// Updater is implemented by scenes that move between frames. Update runs
// after input is applied and before RenderFrame.
type Updater interface {
	Update(delta float64) error
}

// Reconfigurable scenes accept a reloaded configuration between frames.
type Reconfigurable interface {
	ApplyConfig(cfg *config.Config)
}

type Factory func() Scene

// Registry maps scene names to factories. It is filled once at startup
// and only read afterwards.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry holds every built-in scene.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("simple", func() Scene { return &SimpleScene{} })
	r.MustRegister("shapekeys", func() Scene { return &ShapekeysScene{} })
	r.MustRegister("skeleton", func() Scene { return &SkeletonScene{} })
	r.MustRegister("animation", func() Scene { return &AnimationScene{} })
	r.MustRegister("animation_shapekeys", func() Scene { return &AnimationShapekeysScene{} })
	r.MustRegister("complex", func() Scene { return &ComplexScene{} })
	return r
}

func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("scene %q: empty name or factory: %w", name, core.ErrInvalidConfig)
	}
	if _, dup := r.factories[name]; dup {
		return fmt.Errorf("scene %q registered twice: %w", name, core.ErrInvalidConfig)
	}
	r.factories[name] = f
	return nil
}

func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Names returns the registered scene names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New builds a fresh, not yet created, scene.
func (r *Registry) New(name string) (Scene, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%q (have %s): %w", name, strings.Join(r.Names(), ", "), core.ErrUnknownScene)
	}
	return f(), nil
}
