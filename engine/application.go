package engine

import (
	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/renderer"
)

type ApplicationConfig struct {
	// The application name used in logs and capture file names.
	Name string
	// Starting viewport width.
	StartWidth uint32
	// Starting viewport height.
	StartHeight uint32
	LogLevel    core.LogLevel
	// Frames to run before stopping. Zero runs until the context is cancelled.
	Frames int
	// FixedDelta in seconds. Zero measures the wall clock.
	FixedDelta float64
	// Capacity of the pending key event queue.
	InputQueue  int
	ClearColour renderer.Colour
	// Key presses injected at fixed frames for headless runs.
	Script []ScriptedKey
}

// ScriptedKey presses Key at the start of Frame and releases it on the next one.
type ScriptedKey struct {
	Frame int
	Key   core.KeyCode
}
