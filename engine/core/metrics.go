package core

const AVG_COUNT uint8 = 30

// Metrics keeps a rolling frame time average and a frames-per-second count.
type Metrics struct {
	FrameAVGCounter    uint8
	MStimes            [AVG_COUNT]float64
	MSavg              float64
	Frames             int32
	AccumulatedFrameMS float64
	FPS                float64
	TotalFrames        uint64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Update records one frame that took frameElapsedTime seconds.
func (m *Metrics) Update(frameElapsedTime float64) {
	// Calculate frame ms average
	frameMS := frameElapsedTime * 1000.0
	m.MStimes[m.FrameAVGCounter] = frameMS
	if m.FrameAVGCounter == AVG_COUNT-1 {
		sum := 0.0
		for i := uint8(0); i < AVG_COUNT; i++ {
			sum += m.MStimes[i]
		}
		m.MSavg = sum / float64(AVG_COUNT)
	}
	m.FrameAVGCounter++
	m.FrameAVGCounter %= AVG_COUNT

	// Calculate Frames per second.
	m.AccumulatedFrameMS += frameMS
	if m.AccumulatedFrameMS > 1000 {
		m.FPS = float64(m.Frames)
		m.AccumulatedFrameMS -= 1000
		m.Frames = 0
	}

	m.Frames++
	m.TotalFrames++
}

func (m *Metrics) FPSValue() float64 {
	return m.FPS
}

func (m *Metrics) FrameTime() float64 {
	return m.MSavg
}

// Frame returns the last FPS count and average frame time in milliseconds.
func (m *Metrics) Frame() (float64, float64) {
	return m.FPS, m.MSavg
}
