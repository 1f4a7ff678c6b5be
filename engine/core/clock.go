package core

import "time"

// Clock measures wall time between Start and the latest Update.
type Clock struct {
	startTime time.Time
	elapsed   time.Duration
	now       func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if !c.startTime.IsZero() {
		c.elapsed = c.now().Sub(c.startTime)
	}
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = c.now()
	c.elapsed = 0
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.startTime = time.Time{}
}

// Elapsed returns the seconds between Start and the last Update.
func (c *Clock) Elapsed() float64 {
	return c.elapsed.Seconds()
}

// FrameClock hands out per-frame deltas. With a positive fixed step every
// frame advances by exactly that step, which keeps headless renders
// reproducible; otherwise deltas are measured from the wall clock.
type FrameClock struct {
	clock      *Clock
	fixedStep  float64
	lastTime   float64
	total      float64
	frameCount uint64
}

func NewFrameClock(fixedStep float64) *FrameClock {
	return &FrameClock{
		clock:     NewClock(),
		fixedStep: fixedStep,
	}
}

func (fc *FrameClock) Start() {
	fc.clock.Start()
	fc.clock.Update()
	fc.lastTime = fc.clock.Elapsed()
}

// Tick advances the clock by one frame and returns the frame delta in seconds.
func (fc *FrameClock) Tick() float64 {
	var delta float64
	if fc.fixedStep > 0 {
		delta = fc.fixedStep
	} else {
		fc.clock.Update()
		current := fc.clock.Elapsed()
		delta = current - fc.lastTime
		fc.lastTime = current
	}
	fc.total += delta
	fc.frameCount++
	return delta
}

// Total returns the accumulated time in seconds.
func (fc *FrameClock) Total() float64 {
	return fc.total
}

// Frame returns how many frames have been ticked.
func (fc *FrameClock) Frame() uint64 {
	return fc.frameCount
}

func (fc *FrameClock) Stop() {
	fc.clock.Stop()
}
