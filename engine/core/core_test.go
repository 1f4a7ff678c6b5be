package core

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, LogLevelWarn, lvl)

	_, err = ParseLogLevel("loud")
	assert.Error(t, err)
}

func TestEventBusDispatchOrderAndHandled(t *testing.T) {
	bus := NewEventBus()
	var calls []string

	a, b := "a", "b"
	require.True(t, bus.Register(EVENT_CODE_TOGGLE_SKELETON, a, func(_ SystemEventCode, _, l interface{}, _ EventContext) bool {
		calls = append(calls, l.(string))
		return false
	}))
	require.True(t, bus.Register(EVENT_CODE_TOGGLE_SKELETON, b, func(_ SystemEventCode, _, l interface{}, _ EventContext) bool {
		calls = append(calls, l.(string))
		return true
	}))
	assert.False(t, bus.Register(EVENT_CODE_TOGGLE_SKELETON, a, nil))

	assert.True(t, bus.Fire(EVENT_CODE_TOGGLE_SKELETON, nil, EventContext{}))
	assert.Equal(t, []string{"a", "b"}, calls)

	assert.True(t, bus.Unregister(EVENT_CODE_TOGGLE_SKELETON, b))
	assert.False(t, bus.Unregister(EVENT_CODE_TOGGLE_SKELETON, b))
	assert.False(t, bus.Fire(EVENT_CODE_TOGGLE_SKELETON, nil, EventContext{}))
	assert.False(t, bus.Fire(EVENT_CODE_RESIZED, nil, EventContext{}))
}

func TestInputEdgeTriggeredOncePerPress(t *testing.T) {
	bus := NewEventBus()
	pressed := 0
	bus.Register(EVENT_CODE_KEY_PRESSED, t, func(_ SystemEventCode, _, _ interface{}, ctx EventContext) bool {
		assert.Equal(t, uint16(KEY_SPACE), ctx.Data.U16[0])
		pressed++
		return true
	})

	in := NewInput(bus, 8)
	edges := 0
	frame := func() {
		in.Drain()
		if in.IsKeyJustPressed(KEY_SPACE) {
			edges++
		}
		in.Update()
	}

	require.NoError(t, in.Push(KEY_SPACE, true))
	frame()
	// held down across frames: no new edge
	frame()
	frame()
	require.NoError(t, in.Push(KEY_SPACE, false))
	frame()
	require.NoError(t, in.Push(KEY_SPACE, true))
	frame()

	assert.Equal(t, 2, edges)
	assert.Equal(t, 2, pressed)
}

func TestInputQueueOverflow(t *testing.T) {
	in := NewInput(nil, 1)
	require.NoError(t, in.Push(KEY_A, true))
	assert.Error(t, in.Push(KEY_B, true))
	assert.Equal(t, 1, in.Drain())
	assert.True(t, in.IsKeyDown(KEY_A))
	assert.Equal(t, 0, in.Drain())
}

func TestParseKeyCode(t *testing.T) {
	tests := []struct {
		name string
		want KeyCode
	}{
		{"space", KEY_SPACE},
		{"SPACE", KEY_SPACE},
		{"s", KEY_S},
		{" escape ", KEY_ESCAPE},
	}
	for _, tt := range tests {
		got, err := ParseKeyCode(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
	_, err := ParseKeyCode("hyper")
	assert.Error(t, err)
}

func TestFrameClockFixedStep(t *testing.T) {
	fc := NewFrameClock(0.5)
	fc.Start()
	assert.Equal(t, 0.5, fc.Tick())
	assert.Equal(t, 0.5, fc.Tick())
	assert.Equal(t, 1.0, fc.Total())
	assert.Equal(t, uint64(2), fc.Frame())
}

func TestClockMeasuresInjectedTime(t *testing.T) {
	now := time.Unix(100, 0)
	c := &Clock{now: func() time.Time { return now }}
	c.Update()
	assert.Zero(t, c.Elapsed())

	c.Start()
	now = now.Add(1500 * time.Millisecond)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)

	c.Stop()
	now = now.Add(time.Second)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)
}

func TestMetricsAverage(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.010)
	}
	_, avg := m.Frame()
	assert.InDelta(t, 10.0, avg, 1e-9)
	assert.Equal(t, uint64(AVG_COUNT), m.TotalFrames)
}
