package gallery

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/anima-gallery/engine/math"
	"github.com/spaghettifunk/anima-gallery/engine/scene"
)

// swing rocks one joint around an axis relative to its rest rotation.
type swing struct {
	joint     *scene.Joint
	rest      math.Quaternion
	axis      math.Vec3
	amplitude float32
	omega     float32
	phase     float32
}

// SwingAnimator poses joints procedurally. Each swing is
// rest * axisAngle(amplitude * sin(omega*t + phase)).
type SwingAnimator struct {
	swings []swing
	t      float64
}

func NewSwingAnimator() *SwingAnimator {
	return &SwingAnimator{}
}

// Add rocks joint by up to amplitude radians around axis.
func (a *SwingAnimator) Add(joint *scene.Joint, axis math.Vec3, amplitude, omega, phase float32) {
	a.swings = append(a.swings, swing{
		joint:     joint,
		rest:      joint.Local.Rotation,
		axis:      axis.Normalized(),
		amplitude: amplitude,
		omega:     omega,
		phase:     phase,
	})
}

// Update advances time and writes the local rotations. World transforms
// are left for the hierarchy to recompute.
func (a *SwingAnimator) Update(delta float64) error {
	if delta > 0 {
		a.t += delta
	}
	for _, s := range a.swings {
		angle := s.amplitude * math32.Sin(s.omega*float32(a.t)+s.phase)
		s.joint.Local.SetRotation(s.rest.Mul(math.NewQuatFromAxisAngle(s.axis, angle, true)))
	}
	return nil
}

func (a *SwingAnimator) Time() float64 {
	return a.t
}
