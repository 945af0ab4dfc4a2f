// Package platform declares the window, input and presentation services the
// engine consumes. Implementations live in the window, input and ui packages.
package platform

// Key identifies a keyboard key the engine reacts to.
type Key int

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyX
	KeyEscape
	KeyShift
)

// Input is the keyboard and mouse state for the current frame.
type Input interface {
	KeyDown(k Key) bool
	// MouseDelta is the cursor movement since the previous frame in pixels.
	MouseDelta() (dx, dy float32)
	MouseLeftDown() bool
}

// Window is the surface the frame is shown in.
type Window interface {
	Size() (width, height int)
	ShouldQuit() bool
	Quit()
}

// SwapChain presents a finished frame.
type SwapChain interface {
	Present()
}

// AspectRatio returns width/height of w, or 1 for a degenerate size.
func AspectRatio(w Window) float32 {
	width, height := w.Size()
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// StaticInput is an Input with fixed values, for tests and replays.
type StaticInput struct {
	Keys      map[Key]bool
	DX, DY    float32
	LeftMouse bool
}

func (s StaticInput) KeyDown(k Key) bool           { return s.Keys[k] }
func (s StaticInput) MouseDelta() (dx, dy float32) { return s.DX, s.DY }
func (s StaticInput) MouseLeftDown() bool          { return s.LeftMouse }
