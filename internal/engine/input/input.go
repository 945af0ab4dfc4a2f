// Package input turns SDL2 events into the per-frame keyboard and mouse
// state the camera reads.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/lumen/internal/engine/platform"
)

var keyMap = map[sdl.Scancode]platform.Key{
	sdl.SCANCODE_W:      platform.KeyW,
	sdl.SCANCODE_A:      platform.KeyA,
	sdl.SCANCODE_S:      platform.KeyS,
	sdl.SCANCODE_D:      platform.KeyD,
	sdl.SCANCODE_SPACE:  platform.KeySpace,
	sdl.SCANCODE_X:      platform.KeyX,
	sdl.SCANCODE_ESCAPE: platform.KeyEscape,
	sdl.SCANCODE_LSHIFT: platform.KeyShift,
	sdl.SCANCODE_RSHIFT: platform.KeyShift,
}

// Input holds the state accumulated from the events of the current frame.
type Input struct {
	keys      map[platform.Key]bool
	dx, dy    float32
	leftMouse bool

	quit          bool
	resized       bool
	width, height int
	pressed       map[platform.Key]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		keys:    make(map[platform.Key]bool),
		pressed: make(map[platform.Key]bool),
	}
}

// Update polls SDL events. It reports true when the window was asked to close.
func (i *Input) Update() bool {
	i.beginFrame()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.handle(event)
	}
	return i.quit
}

func (i *Input) beginFrame() {
	i.dx, i.dy = 0, 0
	i.resized = false
	clear(i.pressed)
}

func (i *Input) handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.quit = true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.resized = true
			i.width, i.height = int(e.Data1), int(e.Data2)
		}

	case *sdl.KeyboardEvent:
		k, ok := keyMap[e.Keysym.Scancode]
		if !ok {
			return
		}
		down := e.Type == sdl.KEYDOWN
		if down && !i.keys[k] {
			i.pressed[k] = true
		}
		i.keys[k] = down

	case *sdl.MouseMotionEvent:
		i.dx += float32(e.XRel)
		i.dy += float32(e.YRel)

	case *sdl.MouseButtonEvent:
		if e.Button == sdl.BUTTON_LEFT {
			i.leftMouse = e.Type == sdl.MOUSEBUTTONDOWN
		}
	}
}

func (i *Input) KeyDown(k platform.Key) bool  { return i.keys[k] }
func (i *Input) MouseDelta() (dx, dy float32) { return i.dx, i.dy }
func (i *Input) MouseLeftDown() bool          { return i.leftMouse }

// KeyPressed reports whether k went down during the last Update.
func (i *Input) KeyPressed(k platform.Key) bool { return i.pressed[k] }

// Resized returns the new window size if it changed during the last Update.
func (i *Input) Resized() (width, height int, ok bool) {
	return i.width, i.height, i.resized
}
