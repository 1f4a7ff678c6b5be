package core

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spaghettifunk/anima-gallery/engine/containers"
)

// Key code definitions
type KeyCode uint16

const (
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_SHIFT     KeyCode = 0x10
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_A         KeyCode = 0x41
	KEY_B         KeyCode = 0x42
	KEY_C         KeyCode = 0x43
	KEY_D         KeyCode = 0x44
	KEY_E         KeyCode = 0x45
	KEY_F         KeyCode = 0x46
	KEY_G         KeyCode = 0x47
	KEY_H         KeyCode = 0x48
	KEY_I         KeyCode = 0x49
	KEY_J         KeyCode = 0x4A
	KEY_K         KeyCode = 0x4B
	KEY_L         KeyCode = 0x4C
	KEY_M         KeyCode = 0x4D
	KEY_N         KeyCode = 0x4E
	KEY_O         KeyCode = 0x4F
	KEY_P         KeyCode = 0x50
	KEY_Q         KeyCode = 0x51
	KEY_R         KeyCode = 0x52
	KEY_S         KeyCode = 0x53
	KEY_T         KeyCode = 0x54
	KEY_U         KeyCode = 0x55
	KEY_V         KeyCode = 0x56
	KEY_W         KeyCode = 0x57
	KEY_X         KeyCode = 0x58
	KEY_Y         KeyCode = 0x59
	KEY_Z         KeyCode = 0x5A
	KEY_F1        KeyCode = 0x70
	KEY_F2        KeyCode = 0x71
	KEY_F3        KeyCode = 0x72
	KEY_F4        KeyCode = 0x73
	KEYS_MAX_KEYS KeyCode = 0xFF
)

var keyNames = map[string]KeyCode{
	"backspace": KEY_BACKSPACE,
	"tab":       KEY_TAB,
	"enter":     KEY_ENTER,
	"shift":     KEY_SHIFT,
	"escape":    KEY_ESCAPE,
	"space":     KEY_SPACE,
	"left":      KEY_LEFT,
	"up":        KEY_UP,
	"right":     KEY_RIGHT,
	"down":      KEY_DOWN,
	"f1":        KEY_F1,
	"f2":        KEY_F2,
	"f3":        KEY_F3,
	"f4":        KEY_F4,
}

// ParseKeyCode resolves a key name such as "space", "escape" or "s".
func ParseKeyCode(name string) (KeyCode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNames[n]; ok {
		return k, nil
	}
	if len(n) == 1 && n[0] >= 'a' && n[0] <= 'z' {
		return KEY_A + KeyCode(n[0]-'a'), nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// Keyboard state structure
type KeyboardState struct {
	Keys [256]bool
}

// KeyEvent is a raw key transition waiting to be applied.
type KeyEvent struct {
	Key     KeyCode
	Pressed bool
}

// Input holds current and previous keyboard states. Key transitions may be
// pushed from any goroutine; they are buffered and only applied by Drain,
// which the engine calls once per frame before update and render.
type Input struct {
	mu      sync.Mutex
	pending *containers.RingQueue[KeyEvent]

	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState

	bus *EventBus
}

func NewInput(bus *EventBus, queueSize int) *Input {
	in := &Input{
		pending: containers.NewRingQueue[KeyEvent](queueSize),
		bus:     bus,
	}
	LogDebug("Input subsystem initialized.")
	return in
}

// Push buffers a key transition. It fails when the buffer is full.
func (in *Input) Push(key KeyCode, pressed bool) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if err := in.pending.Enqueue(KeyEvent{Key: key, Pressed: pressed}); err != nil {
		return fmt.Errorf("input: dropping key %d: %w", key, err)
	}
	return nil
}

// Drain applies every buffered transition in arrival order and returns how
// many were applied.
func (in *Input) Drain() int {
	in.mu.Lock()
	events := make([]KeyEvent, 0, in.pending.Len())
	for !in.pending.IsEmpty() {
		e, _ := in.pending.Dequeue()
		events = append(events, e)
	}
	in.mu.Unlock()

	for _, e := range events {
		in.ProcessKey(e.Key, e.Pressed)
	}
	return len(events)
}

// Update copies the current state into the previous one. Called at the end
// of every frame.
func (in *Input) Update() {
	in.KeyboardPrevious = in.KeyboardCurrent
}

func (in *Input) IsKeyDown(key KeyCode) bool {
	return key < KEYS_MAX_KEYS && in.KeyboardCurrent.Keys[key]
}

func (in *Input) IsKeyUp(key KeyCode) bool {
	return !in.IsKeyDown(key)
}

func (in *Input) WasKeyDown(key KeyCode) bool {
	return key < KEYS_MAX_KEYS && in.KeyboardPrevious.Keys[key]
}

func (in *Input) WasKeyUp(key KeyCode) bool {
	return !in.WasKeyDown(key)
}

// IsKeyJustPressed reports a press edge: down this frame, up the last one.
func (in *Input) IsKeyJustPressed(key KeyCode) bool {
	return in.IsKeyDown(key) && in.WasKeyUp(key)
}

func (in *Input) ProcessKey(key KeyCode, pressed bool) {
	if key >= KEYS_MAX_KEYS {
		LogWarn("ignoring out of range key code %d", key)
		return
	}
	// Only handle this if the state actually changed.
	if in.KeyboardCurrent.Keys[key] == pressed {
		return
	}
	in.KeyboardCurrent.Keys[key] = pressed

	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}

	if in.bus != nil {
		ctx := EventContext{}
		ctx.Data.U16[0] = uint16(key)
		in.bus.Fire(code, in, ctx)
	}
}
