package postprocess

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/logger"
)

// Target is the off-screen color and depth buffer the scene renders into.
type Target struct {
	dev    gfx.Device
	target gfx.ColorTarget
}

// NewTarget creates a width x height target.
func NewTarget(dev gfx.Device, width, height int) (*Target, error) {
	t := &Target{dev: dev}
	if err := t.Resize(width, height); err != nil {
		return nil, err
	}
	return t, nil
}

// Resize recreates the target when the size changed. The old target is
// kept on failure.
func (t *Target) Resize(width, height int) error {
	if t.target != nil && t.target.Width() == width && t.target.Height() == height {
		return nil
	}
	next, err := t.dev.CreateColorTarget(width, height)
	if err != nil {
		return fmt.Errorf("creating post-process target %dx%d: %w", width, height, err)
	}
	if t.target != nil {
		t.target.Release()
	}
	t.target = next
	logger.Named("postprocess").Debug("target created", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// Bind makes the target current and sets the viewport to cover it.
func (t *Target) Bind(ctx gfx.Context) {
	ctx.BindColorTarget(t.target)
	ctx.SetViewport(gfx.Viewport{Width: t.target.Width(), Height: t.target.Height()})
}

func (t *Target) ColorTarget() gfx.ColorTarget { return t.target }
func (t *Target) Color() gfx.Texture           { return t.target.Color() }
func (t *Target) Depth() gfx.Texture           { return t.target.Depth() }
func (t *Target) Width() int                   { return t.target.Width() }
func (t *Target) Height() int                  { return t.target.Height() }

// Release frees the GPU target.
func (t *Target) Release() {
	if t.target != nil {
		t.target.Release()
		t.target = nil
	}
}
