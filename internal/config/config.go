// Package config handles renderer configuration loading and management.
package config

// Config holds all renderer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Shadow   ShadowConfig   `yaml:"shadow"`
	Post     PostConfig     `yaml:"post"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and window settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	DebugUI    bool       `yaml:"debug_ui"`
	ClearColor [4]float32 `yaml:"clear_color,flow"`
}

// CameraConfig holds defaults for the free-fly cameras.
type CameraConfig struct {
	FOVDegrees float32 `yaml:"fov_degrees"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
	MoveSpeed  float32 `yaml:"move_speed"`
	LookSpeed  float32 `yaml:"look_speed"`
}

// ShadowConfig holds shadow map settings.
type ShadowConfig struct {
	Resolution     int     `yaml:"resolution"`
	DepthBias      int     `yaml:"depth_bias"` // precision units, not world units
	SlopeBias      float32 `yaml:"slope_bias"`
	LightDistance  float32 `yaml:"light_distance"`
	ProjectionSize float32 `yaml:"projection_size"`
}

// PostConfig holds blur and fog settings.
type PostConfig struct {
	BlurRadius       int        `yaml:"blur_radius"`
	FogMode          string     `yaml:"fog_mode"` // linear, smooth, exponential
	FogColor         [3]float32 `yaml:"fog_color,flow"`
	FogStart         float32    `yaml:"fog_start"`
	FogEnd           float32    `yaml:"fog_end"`
	FogDensity       float32    `yaml:"fog_density"`
	HeightFog        bool       `yaml:"height_fog"`
	HeightFogDensity float32    `yaml:"height_fog_density"`
	HeightFogHeight  float32    `yaml:"height_fog_height"`
}

// SceneConfig holds asset locations.
type SceneConfig struct {
	AssetsDir string `yaml:"assets_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			DebugUI:    true,
			ClearColor: [4]float32{0.4, 0.6, 0.75, 1.0},
		},
		Camera: CameraConfig{
			FOVDegrees: 45,
			Near:       0.1,
			Far:        100,
			MoveSpeed:  5,
			LookSpeed:  0.002,
		},
		Shadow: ShadowConfig{
			Resolution:     1024,
			DepthBias:      1000,
			SlopeBias:      1.0,
			LightDistance:  20,
			ProjectionSize: 20,
		},
		Post: PostConfig{
			BlurRadius:       0,
			FogMode:          "linear",
			FogColor:         [3]float32{0.4, 0.6, 0.75},
			FogStart:         20,
			FogEnd:           60,
			FogDensity:       0.05,
			HeightFog:        false,
			HeightFogDensity: 0.3,
			HeightFogHeight:  0,
		},
		Scene: SceneConfig{
			AssetsDir: "assets",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
