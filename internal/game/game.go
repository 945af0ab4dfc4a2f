// Package game builds the demo scene and runs the frame loop, either inside
// the ImGui debug interface or in a bare SDL window.
package game

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/assets"
	"github.com/Faultbox/lumen/internal/config"
	"github.com/Faultbox/lumen/internal/engine/gfx/glgfx"
	"github.com/Faultbox/lumen/internal/engine/input"
	"github.com/Faultbox/lumen/internal/engine/platform"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/ui"
	"github.com/Faultbox/lumen/internal/engine/window"
	"github.com/Faultbox/lumen/internal/logger"
)

// Title is the window title.
const Title = "Lumen"

// Game owns the window, the device, the renderer and the demo scene.
type Game struct {
	cfg      *config.Config
	assets   *assets.Manager
	dev      *glgfx.Device
	renderer *renderer.Renderer
	demo     *Demo

	// Debug UI host.
	backend *ui.Backend
	uiInput *ui.Input
	panel   *ui.Panel

	// Bare SDL host, used with -no-ui.
	window *window.Window
	input  *input.Input

	last time.Time
	err  error
	log  *zap.Logger
}

// New creates the window and GL device and builds the demo scene.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{cfg: cfg, log: logger.Named("game")}
	g.log.Info("initializing",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("debug_ui", cfg.Graphics.DebugUI),
	)

	if err := g.init(); err != nil {
		g.Close()
		return nil, err
	}

	g.log.Info("initialized successfully")
	return g, nil
}

func (g *Game) init() error {
	g.assets = assets.NewManager()
	if dir := g.cfg.Scene.AssetsDir; dir != "" {
		if err := g.assets.AddDir(dir); err != nil {
			g.log.Warn("assets directory unavailable, using built-in stand-ins",
				zap.String("dir", dir), zap.Error(err))
		}
	}

	var swap platform.SwapChain
	width, height := g.cfg.Graphics.Width, g.cfg.Graphics.Height
	if g.cfg.Graphics.DebugUI {
		b, err := ui.NewBackend(Title, width, height)
		if err != nil {
			return fmt.Errorf("creating debug UI: %w", err)
		}
		g.backend = b
		g.uiInput = ui.NewInput()
	} else {
		w, err := window.New(window.Config{
			Title:      Title,
			Width:      width,
			Height:     height,
			Fullscreen: g.cfg.Graphics.Fullscreen,
			VSync:      g.cfg.Graphics.VSync,
		})
		if err != nil {
			return fmt.Errorf("creating window: %w", err)
		}
		g.window = w
		g.input = input.New()
		swap = w
		if err := gl.Init(); err != nil {
			return fmt.Errorf("init opengl: %w", err)
		}
		width, height = w.Size()
	}

	dev, err := glgfx.New(width, height)
	if err != nil {
		return fmt.Errorf("creating device: %w", err)
	}
	g.dev = dev

	rcfg, err := RendererConfig(g.cfg, g.backend != nil)
	if err != nil {
		return err
	}
	rcfg.Width, rcfg.Height = width, height
	g.renderer, err = renderer.New(dev, swap, rcfg)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	g.demo, err = BuildDemo(dev, g.assets, g.cfg, float32(width)/float32(height))
	if err != nil {
		return fmt.Errorf("building demo scene: %w", err)
	}

	if g.backend != nil {
		g.panel = ui.NewPanel(g.renderer, g.demo.Scene, rcfg.Shadow)
		g.panel.OnSave = g.save
	}
	return nil
}

// Run blocks until the window is closed or Escape is pressed.
func (g *Game) Run() error {
	g.log.Info("starting frame loop")
	g.last = time.Now()

	if g.backend != nil {
		g.backend.Run(g.uiFrame)
	} else {
		g.sdlLoop()
	}

	g.log.Info("frame loop stopped", zap.Uint64("frames", g.renderer.Stats().Frames))
	return g.err
}

func (g *Game) tick() float32 {
	now := time.Now()
	dt := now.Sub(g.last)
	g.last = now
	if g.panel != nil {
		g.panel.Timer().Tick(dt)
	}
	return float32(dt.Seconds())
}

func (g *Game) uiFrame() {
	if g.backend.ShouldQuit() {
		return
	}
	dt := g.tick()

	if ui.IsKeyPressed(imgui.KeyEscape) {
		g.backend.Quit()
		return
	}
	if err := g.resize(g.backend.Size()); err != nil {
		g.fail(err)
		g.backend.Quit()
		return
	}

	sc := g.demo.Scene
	g.uiInput.Poll()
	if g.uiInput.RightClicked() {
		g.panel.PickAt(g.uiInput.MousePos())
	}
	sc.Update(dt, g.uiInput)
	g.renderer.Frame(sc, dt)

	w, h := g.renderer.Size()
	ui.DrawSceneTexture(0, 0, float32(w), float32(h), glgfx.TextureID(g.renderer.Output()))
	g.panel.Render()
}

func (g *Game) sdlLoop() {
	sc := g.demo.Scene
	frames := 0
	fpsTimer := time.Now()

	for !g.window.ShouldQuit() {
		dt := g.tick()

		if g.input.Update() || g.input.KeyPressed(platform.KeyEscape) {
			g.window.Quit()
			break
		}
		if _, _, ok := g.input.Resized(); ok {
			if err := g.resize(g.window.Size()); err != nil {
				g.fail(err)
				break
			}
		}

		sc.Update(dt, g.input)
		g.renderer.Frame(sc, dt)

		frames++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps", zap.Int("count", frames), zap.Float32("dt_ms", dt*1000))
			frames = 0
			fpsTimer = time.Now()
		}
	}
}

// resize follows the window size. Minimized windows report zero and are
// skipped.
func (g *Game) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if w, h := g.renderer.Size(); w == width && h == height {
		return nil
	}
	if err := g.renderer.Resize(g.demo.Scene, width, height); err != nil {
		return fmt.Errorf("resizing to %dx%d: %w", width, height, err)
	}
	return nil
}

func (g *Game) fail(err error) {
	g.log.Error("frame loop failed", zap.Error(err))
	if g.err == nil {
		g.err = err
	}
}

func (g *Game) save() error {
	Capture(g.cfg, g.renderer, g.demo.Scene)
	if err := g.cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	g.log.Info("settings saved")
	return nil
}

// Scene returns the demo scene, or nil before New succeeded.
func (g *Game) Scene() *scene.Scene {
	if g.demo == nil {
		return nil
	}
	return g.demo.Scene
}

// Close releases everything New created, in reverse order.
func (g *Game) Close() {
	g.log.Info("closing")

	if g.demo != nil {
		g.demo.Release()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.dev != nil {
		g.dev.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
	if g.assets != nil {
		g.assets.Close()
	}
}
