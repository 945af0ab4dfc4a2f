// Package ui provides the ImGui debug interface: the SDL backend that owns
// the window, an ImGui-backed input source and the scene panel.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/platform"
	"github.com/Faultbox/lumen/internal/logger"
)

// Backend wraps the ImGui SDL backend. It owns the window and the GL
// context, and satisfies platform.Window.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	quit    bool
	log     *zap.Logger
}

// NewBackend creates the window and initializes OpenGL on it.
func NewBackend(title string, width, height int) (*Backend, error) {
	b := &Backend{log: logger.Named("ui")}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(title, width, height)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}

	b.log.Info("imgui backend created", zap.String("title", title),
		zap.Int("width", width), zap.Int("height", height))
	return b, nil
}

// Run starts the main loop. frame is called once per ImGui frame.
func (b *Backend) Run(frame func()) {
	b.backend.Run(frame)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// Size returns the drawable size in pixels.
func (b *Backend) Size() (int, int) {
	w, h := b.backend.DisplaySize()
	return int(w), int(h)
}

func (b *Backend) ShouldQuit() bool { return b.quit }

// Quit asks the backend to leave Run after the current frame.
func (b *Backend) Quit() {
	b.quit = true
	b.backend.SetShouldClose(true)
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}

var _ platform.Window = (*Backend)(nil)
