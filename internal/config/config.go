// Package config handles tesstool configuration loading and management.
package config

import (
	gomath "math"

	"github.com/Faultbox/hmaptess/pkg/tess"
)

// Config holds all settings.
type Config struct {
	Tessellation TessellationConfig `yaml:"tessellation"`
	Camera       CameraConfig       `yaml:"camera"`
	Terrain      TerrainConfig      `yaml:"terrain"`
	Pass         PassConfig         `yaml:"pass"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// TessellationConfig holds the evaluator tunables.
type TessellationConfig struct {
	MaxLevel        int     `yaml:"max_level"`
	Precision       float32 `yaml:"precision"`         // Levels per screen-space unit of edge length
	FallOff         float32 `yaml:"falloff"`           // Screen-space cull margin, not pixels
	StrictEdgeDepth bool    `yaml:"strict_edge_depth"` // Check both endpoints of edge 2
}

// CameraConfig holds the orbit camera placement.
type CameraConfig struct {
	Fit      bool       `yaml:"fit"` // Frame the whole terrain, ignoring center/distance
	Center   [3]float32 `yaml:"center"`
	Distance float32    `yaml:"distance"`
	PitchDeg float32    `yaml:"pitch_deg"`
	YawDeg   float32    `yaml:"yaw_deg"`
	FovDeg   float32    `yaml:"fov_deg"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Width    int        `yaml:"width"`  // Viewport width, for aspect ratio
	Height   int        `yaml:"height"` // Viewport height
}

// TerrainConfig holds heightmap and patch grid settings.
type TerrainConfig struct {
	Heightmap     string  `yaml:"heightmap"` // Empty uses a flat grid
	GridWidth     int     `yaml:"grid_width"`
	GridDepth     int     `yaml:"grid_depth"`
	HeightScale   float32 `yaml:"height_scale"`
	TileSize      float32 `yaml:"tile_size"`
	CellsPerPatch int     `yaml:"cells_per_patch"`
}

// PassConfig holds batch evaluation settings.
type PassConfig struct {
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Tessellation: TessellationConfig{
			MaxLevel:        tess.DefaultMaxLevel,
			Precision:       tess.DefaultPrecision,
			FallOff:         tess.DefaultFallOff,
			StrictEdgeDepth: false,
		},
		Camera: CameraConfig{
			Fit:      true,
			Distance: 400,
			PitchDeg: 35,
			YawDeg:   0,
			FovDeg:   60,
			Near:     1,
			Far:      5000,
			Width:    1280,
			Height:   720,
		},
		Terrain: TerrainConfig{
			Heightmap:     "",
			GridWidth:     129,
			GridDepth:     129,
			HeightScale:   100,
			TileSize:      10,
			CellsPerPatch: 8,
		},
		Pass: PassConfig{
			Workers: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Settings returns the evaluator settings described by the config.
func (t TessellationConfig) Settings() tess.Settings {
	return tess.Settings{
		MaxLevel:        float32(t.MaxLevel),
		Precision:       t.Precision,
		FallOff:         t.FallOff,
		StrictEdgeDepth: t.StrictEdgeDepth,
	}
}

// Aspect returns the viewport aspect ratio, or 1 for a degenerate viewport.
func (c CameraConfig) Aspect() float32 {
	if c.Width <= 0 || c.Height <= 0 {
		return 1
	}
	return float32(c.Width) / float32(c.Height)
}

func radians(deg float32) float32 {
	return deg * gomath.Pi / 180
}

// Pitch returns the camera pitch in radians.
func (c CameraConfig) Pitch() float32 { return radians(c.PitchDeg) }

// Yaw returns the camera yaw in radians.
func (c CameraConfig) Yaw() float32 { return radians(c.YawDeg) }

// FovY returns the vertical field of view in radians.
func (c CameraConfig) FovY() float32 { return radians(c.FovDeg) }
