package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/lumen/internal/engine/platform"
)

var keyMap = map[platform.Key][]imgui.Key{
	platform.KeyW:      {imgui.KeyW},
	platform.KeyA:      {imgui.KeyA},
	platform.KeyS:      {imgui.KeyS},
	platform.KeyD:      {imgui.KeyD},
	platform.KeySpace:  {imgui.KeySpace},
	platform.KeyX:      {imgui.KeyX},
	platform.KeyEscape: {imgui.KeyEscape},
	platform.KeyShift:  {imgui.KeyLeftShift, imgui.KeyRightShift},
}

// Input reads keyboard and mouse state from ImGui. Keys and the mouse are
// reported as released while an ImGui widget captures them, so dragging a
// slider does not also turn the camera.
type Input struct {
	keys      map[platform.Key]bool
	last      imgui.Vec2
	hasLast   bool
	dx, dy    float32
	leftMouse bool

	rightDown    bool
	rightClicked bool
}

// NewInput creates an input source with nothing pressed.
func NewInput() *Input {
	return &Input{keys: make(map[platform.Key]bool)}
}

// Poll samples ImGui. Call once per frame inside the ImGui frame.
func (i *Input) Poll() {
	io := imgui.CurrentIO()
	keyboard := !io.WantCaptureKeyboard()
	mouse := !io.WantCaptureMouse()

	down := func(k imgui.Key) bool { return keyboard && imgui.IsKeyDown(k) }
	i.update(down, imgui.MousePos(),
		mouse && imgui.IsMouseDown(imgui.MouseButtonLeft),
		mouse && imgui.IsMouseDown(imgui.MouseButtonRight))
}

func (i *Input) update(down func(imgui.Key) bool, pos imgui.Vec2, left, right bool) {
	for k, codes := range keyMap {
		pressed := false
		for _, c := range codes {
			pressed = pressed || down(c)
		}
		i.keys[k] = pressed
	}

	i.dx, i.dy = 0, 0
	if i.hasLast {
		i.dx = pos.X - i.last.X
		i.dy = pos.Y - i.last.Y
	}
	i.last, i.hasLast = pos, true
	i.leftMouse = left
	i.rightClicked = right && !i.rightDown
	i.rightDown = right
}

func (i *Input) KeyDown(k platform.Key) bool  { return i.keys[k] }
func (i *Input) MouseDelta() (dx, dy float32) { return i.dx, i.dy }
func (i *Input) MouseLeftDown() bool          { return i.leftMouse }

// RightClicked reports whether the right button went down this frame.
func (i *Input) RightClicked() bool { return i.rightClicked }

// MousePos returns the cursor position in pixels.
func (i *Input) MousePos() (x, y float32) { return i.last.X, i.last.Y }

var _ platform.Input = (*Input)(nil)
