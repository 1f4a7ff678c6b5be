package morph

import (
	stdmath "math"

	"github.com/spaghettifunk/anima-gallery/engine/math"
)

// DefaultOmega gives a two second period.
const DefaultOmega = math.K_PI

// Signal is a smooth 0..1 oscillation of accumulated frame time. It only
// moves forward; start over by making a new one.
type Signal struct {
	Omega float32
	t     float64
}

// NewSignal returns a signal at t = 0 oscillating at omega radians per second.
func NewSignal(omega float32) *Signal {
	if omega == 0 {
		omega = DefaultOmega
	}
	return &Signal{Omega: omega}
}

// NewSignalWithPeriod returns a signal completing one cycle every period seconds.
func NewSignalWithPeriod(period float32) *Signal {
	if period <= 0 {
		return NewSignal(DefaultOmega)
	}
	return NewSignal(math.K_PI_2 / period)
}

// Advance adds delta seconds. Negative deltas are ignored.
func (s *Signal) Advance(delta float64) {
	if delta > 0 {
		s.t += delta
	}
}

// Time returns the accumulated seconds.
func (s *Signal) Time() float64 {
	return s.t
}

// Value returns (sin(t*omega)+1)/2. The phase stays in float64 so long
// runs keep moving smoothly.
func (s *Signal) Value() float32 {
	v := float32((stdmath.Sin(s.t*float64(s.Omega)) + 1) / 2)
	return math.Clamp(v, 0, 1)
}
