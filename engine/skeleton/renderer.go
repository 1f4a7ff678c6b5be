package skeleton

import (
	"fmt"

	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/geometry"
	"github.com/spaghettifunk/anima-gallery/engine/renderer"
	"github.com/spaghettifunk/anima-gallery/engine/scene"
)

// Visibility is the debug overlay state.
type Visibility uint8

const (
	Visible Visibility = iota
	Hidden
)

func (v Visibility) String() string {
	if v == Hidden {
		return "hidden"
	}
	return "visible"
}

// Flags selects what the overlay draws.
type Flags struct {
	Bones     bool
	Axes      bool
	Names     bool
	Relations bool
	// RootBones also draws a bone and a relation line from the armature
	// origin to each of its direct children.
	RootBones     bool
	BoneThickness float32
}

func DefaultFlags() Flags {
	return Flags{
		Bones:         true,
		Axes:          true,
		Names:         true,
		Relations:     true,
		BoneThickness: DefaultBoneThickness,
	}
}

// RelationColour is used for parent to child lines.
var RelationColour = geometry.ColourYellow

// Renderer draws a joint subtree as a debug overlay. It owns the
// visibility state; the caller owns everything else.
type Renderer struct {
	state Visibility
}

func NewRenderer() *Renderer {
	return &Renderer{state: Visible}
}

func (r *Renderer) State() Visibility {
	return r.state
}

// Toggle flips the visibility and returns the new state.
func (r *Renderer) Toggle() Visibility {
	if r.state == Visible {
		r.state = Hidden
	} else {
		r.state = Visible
	}
	core.LogDebug("skeleton overlay %s", r.state)
	return r.state
}

// Listen toggles the renderer whenever EVENT_CODE_TOGGLE_SKELETON fires on bus.
func (r *Renderer) Listen(bus *core.EventBus) bool {
	return bus.Register(core.EVENT_CODE_TOGGLE_SKELETON, r, func(_ core.SystemEventCode, _, _ interface{}, _ core.EventContext) bool {
		r.Toggle()
		return false
	})
}

/**
 * @brief Draws the overlay for armature's subtree. Opaque scene geometry
 * must already be drawn and world transforms recomputed for this frame.
 *
 * Pass A draws axis gizmos and bone boxes depth tested against the scene.
 * BeginOverlayPass then clears depth so that pass B, the relation lines,
 * is never hidden. Pass C draws joint names in screen space. When hidden
 * nothing is issued at all.
 */
func (r *Renderer) Render(armature *scene.Joint, cam renderer.Camera, d renderer.Drawer, flags Flags) error {
	return r.RenderAll([]*scene.Joint{armature}, cam, d, flags)
}

// RenderAll draws several armatures with a single depth clear: pass A runs
// for every armature first, so each bone box is tested against the scene.
func (r *Renderer) RenderAll(armatures []*scene.Joint, cam renderer.Camera, d renderer.Drawer, flags Flags) error {
	if r.state == Hidden || len(armatures) == 0 {
		return nil
	}
	walks := make([][]*scene.Joint, len(armatures))
	for i, a := range armatures {
		if a == nil {
			return core.ErrNilArmature
		}
		walks[i] = WalkIterative(a)
	}
	thickness := flags.BoneThickness
	if thickness <= 0 {
		thickness = DefaultBoneThickness
	}

	err := runPass(d, renderer.PassWorld, func() error {
		for i, armature := range armatures {
			for _, j := range walks[i] {
				if flags.Axes {
					if err := d.DrawMesh(renderer.MeshAxes, j.World); err != nil {
						return fmt.Errorf("axes for %q: %w", j.ID, err)
					}
				}
				if flags.Bones && hasBoneParent(armature, j, flags.RootBones) {
					if err := d.DrawMesh(renderer.MeshBone, BoneTransform(j.Parent, j, thickness)); err != nil {
						return fmt.Errorf("bone for %q: %w", j.ID, err)
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := r.BeginOverlayPass(d); err != nil {
		return err
	}

	err = runPass(d, renderer.PassOverlay, func() error {
		if !flags.Relations {
			return nil
		}
		for i, armature := range armatures {
			for _, j := range walks[i] {
				if !hasBoneParent(armature, j, flags.RootBones) {
					continue
				}
				if err := d.DrawLine(j.Parent.World.Translation(), j.World.Translation(), RelationColour); err != nil {
					return fmt.Errorf("relation for %q: %w", j.ID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return runPass(d, renderer.PassScreen, func() error {
		if !flags.Names {
			return nil
		}
		for _, joints := range walks {
			for _, j := range joints {
				if err := d.DrawText(j.ID, cam.Project(j.World.Translation())); err != nil {
					return fmt.Errorf("label for %q: %w", j.ID, err)
				}
			}
		}
		return nil
	})
}

// BeginOverlayPass clears depth, and only depth, so that everything drawn
// afterwards sits on top of the scene and the bone boxes.
func (r *Renderer) BeginOverlayPass(d renderer.Drawer) error {
	if err := d.ClearDepth(); err != nil {
		return fmt.Errorf("begin overlay pass: %w", err)
	}
	return nil
}

func hasBoneParent(armature, j *scene.Joint, rootBones bool) bool {
	if j.Parent == nil {
		return false
	}
	return rootBones || j.Parent != armature
}

// runPass wraps fn in Begin/End. The pass is closed even when fn fails so
// the drawer is left usable; fn's error wins.
func runPass(d renderer.Drawer, kind renderer.PassKind, fn func() error) error {
	if err := d.Begin(kind); err != nil {
		return fmt.Errorf("begin %s pass: %w", kind, err)
	}
	if err := fn(); err != nil {
		_ = d.End()
		return fmt.Errorf("%s pass: %w", kind, err)
	}
	if err := d.End(); err != nil {
		return fmt.Errorf("end %s pass: %w", kind, err)
	}
	return nil
}
