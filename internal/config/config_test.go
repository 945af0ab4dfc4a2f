package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.DebugUI {
		t.Error("expected debug UI on by default")
	}

	if cfg.Camera.Near != 0.1 || cfg.Camera.Far != 100 {
		t.Errorf("expected clip range 0.1..100, got %g..%g", cfg.Camera.Near, cfg.Camera.Far)
	}
	if cfg.Camera.MoveSpeed != 5 {
		t.Errorf("expected move speed 5, got %g", cfg.Camera.MoveSpeed)
	}

	if cfg.Shadow.Resolution != 1024 {
		t.Errorf("expected shadow resolution 1024, got %d", cfg.Shadow.Resolution)
	}
	if cfg.Shadow.DepthBias != 1000 {
		t.Errorf("expected depth bias 1000, got %d", cfg.Shadow.DepthBias)
	}

	if cfg.Post.FogMode != "linear" {
		t.Errorf("expected linear fog, got %s", cfg.Post.FogMode)
	}
	if cfg.Post.BlurRadius != 0 {
		t.Errorf("expected blur radius 0, got %d", cfg.Post.BlurRadius)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  vsync: false
  clear_color: [0.1, 0.2, 0.3, 1]

camera:
  fov_degrees: 60
  far: 250

shadow:
  resolution: 2048
  projection_size: 40

post:
  blur_radius: 2
  fog_mode: exponential
  fog_density: 0.02
  height_fog: true

scene:
  assets_dir: "/srv/lumen/assets"

logging:
  level: "debug"
  log_file: "lumen.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.ClearColor != [4]float32{0.1, 0.2, 0.3, 1} {
		t.Errorf("unexpected clear color %v", cfg.Graphics.ClearColor)
	}

	if cfg.Camera.FOVDegrees != 60 || cfg.Camera.Far != 250 {
		t.Errorf("unexpected camera section %+v", cfg.Camera)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Camera.Near != 0.1 {
		t.Errorf("expected near to stay 0.1, got %g", cfg.Camera.Near)
	}

	if cfg.Shadow.Resolution != 2048 || cfg.Shadow.ProjectionSize != 40 {
		t.Errorf("unexpected shadow section %+v", cfg.Shadow)
	}
	if cfg.Post.FogMode != "exponential" || !cfg.Post.HeightFog || cfg.Post.BlurRadius != 2 {
		t.Errorf("unexpected post section %+v", cfg.Post)
	}
	if cfg.Scene.AssetsDir != "/srv/lumen/assets" {
		t.Errorf("expected assets dir from file, got %s", cfg.Scene.AssetsDir)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "lumen.log" {
		t.Errorf("unexpected logging section %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }},
		{"zero shadow resolution", func(c *Config) { c.Shadow.Resolution = 0 }},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }},
		{"negative blur", func(c *Config) { c.Post.BlurRadius = -1 }},
		{"unknown fog mode", func(c *Config) { c.Post.FogMode = "volumetric" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Fatal("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Post.FogMode = "smooth"
	cfg.Shadow.Resolution = 512
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Post.FogMode != "smooth" || loaded.Shadow.Resolution != 512 {
		t.Errorf("saved values not persisted: %+v %+v", loaded.Post, loaded.Shadow)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "assets flag",
			setup: func() { *flagAssets = "/tmp/assets" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.AssetsDir != "/tmp/assets" {
					t.Errorf("expected assets dir /tmp/assets, got %s", cfg.Scene.AssetsDir)
				}
			},
			teardown: func() { *flagAssets = "" },
		},
		{
			name:  "no-ui flag",
			setup: func() { *flagNoUI = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.DebugUI {
					t.Error("expected debug UI disabled")
				}
			},
			teardown: func() { *flagNoUI = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag beats file.
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	// File beats default.
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}
