package ui

import "time"

// fpsWindow is how often the displayed frame rate is recomputed.
const fpsWindow = 500 * time.Millisecond

// FrameTimer averages the frame rate over short windows so the readout
// does not flicker every frame.
type FrameTimer struct {
	frames    uint64
	frameTime time.Duration
	accum     time.Duration
	count     int
	fps       float64
}

// Tick records one frame that took dt.
func (t *FrameTimer) Tick(dt time.Duration) {
	t.frames++
	t.frameTime = dt
	t.accum += dt
	t.count++

	if t.accum >= fpsWindow {
		t.fps = float64(t.count) / t.accum.Seconds()
		t.accum = 0
		t.count = 0
	}
}

func (t *FrameTimer) FPS() float64             { return t.fps }
func (t *FrameTimer) FrameTime() time.Duration { return t.frameTime }
func (t *FrameTimer) Frames() uint64           { return t.frames }
