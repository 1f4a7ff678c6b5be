package morph

import (
	"fmt"
	"sort"

	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/math"
)

// Evaluator deforms one mesh from named weights. Calculate must only be
// called after every weight of the frame is set.
type Evaluator interface {
	HasKey(name string) bool
	SetKey(name string, weight float32) error
	Calculate()
}

// Binding ties one target mesh to its evaluator and the channel values
// assigned this frame.
type Binding struct {
	Mesh      string
	Evaluator Evaluator
	Channels  map[string]float32
}

// Driver collects channel values during a frame and evaluates each touched
// mesh exactly once on Flush.
type Driver struct {
	bindings map[string]*Binding
	touched  []string
}

func NewDriver() *Driver {
	return &Driver{bindings: make(map[string]*Binding)}
}

// Bind registers ev as the evaluator of mesh, replacing any previous one.
// Values already set for mesh this frame are discarded with the old binding.
func (d *Driver) Bind(mesh string, ev Evaluator) {
	for i, m := range d.touched {
		if m == mesh {
			d.touched = append(d.touched[:i], d.touched[i+1:]...)
			break
		}
	}
	d.bindings[mesh] = &Binding{
		Mesh:      mesh,
		Evaluator: ev,
		Channels:  make(map[string]float32),
	}
}

// Set assigns a channel value for this frame, clamped to [0, 1]. Unknown
// meshes and channels are errors.
func (d *Driver) Set(mesh, channel string, value float32) error {
	b, ok := d.bindings[mesh]
	if !ok {
		return fmt.Errorf("morph target %q: %w", mesh, core.ErrMeshNotFound)
	}
	if !b.Evaluator.HasKey(channel) {
		return fmt.Errorf("morph target %q channel %q: %w", mesh, channel, core.ErrChannelNotFound)
	}
	if len(b.Channels) == 0 && !d.isTouched(mesh) {
		d.touched = append(d.touched, mesh)
	}
	b.Channels[channel] = math.Clamp(value, 0, 1)
	return nil
}

func (d *Driver) isTouched(mesh string) bool {
	for _, m := range d.touched {
		if m == mesh {
			return true
		}
	}
	return false
}

// Flush hands each touched mesh its channel values and evaluates it once,
// in the order meshes were first touched. It returns the number evaluated.
func (d *Driver) Flush() (int, error) {
	n := 0
	for _, mesh := range d.touched {
		b := d.bindings[mesh]
		names := make([]string, 0, len(b.Channels))
		for name := range b.Channels {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := b.Evaluator.SetKey(name, b.Channels[name]); err != nil {
				return n, fmt.Errorf("morph target %q: %w", mesh, err)
			}
		}
		b.Evaluator.Calculate()
		b.Channels = make(map[string]float32, len(names))
		n++
	}
	d.touched = d.touched[:0]
	return n, nil
}

// Meshes returns the bound mesh names, sorted.
func (d *Driver) Meshes() []string {
	out := make([]string, 0, len(d.bindings))
	for m := range d.bindings {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
