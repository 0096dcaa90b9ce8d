package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects settings the evaluator would silently mishandle.
// The evaluator itself never checks its inputs; this is the host's job.
func (c *Config) Validate() error {
	t := c.Tessellation
	if t.MaxLevel < 1 {
		return fmt.Errorf("%w: tessellation.max_level must be >= 1, got %d", ErrInvalidConfig, t.MaxLevel)
	}
	if t.Precision < 0 {
		return fmt.Errorf("%w: tessellation.precision must not be negative, got %v", ErrInvalidConfig, t.Precision)
	}
	if t.FallOff <= 0 {
		return fmt.Errorf("%w: tessellation.falloff must be positive, got %v", ErrInvalidConfig, t.FallOff)
	}

	tr := c.Terrain
	if tr.TileSize <= 0 {
		return fmt.Errorf("%w: terrain.tile_size must be positive, got %v", ErrInvalidConfig, tr.TileSize)
	}
	if tr.CellsPerPatch < 1 {
		return fmt.Errorf("%w: terrain.cells_per_patch must be >= 1, got %d", ErrInvalidConfig, tr.CellsPerPatch)
	}
	if tr.Heightmap == "" && (tr.GridWidth < 2 || tr.GridDepth < 2) {
		return fmt.Errorf("%w: terrain grid must be at least 2x2, got %dx%d", ErrInvalidConfig, tr.GridWidth, tr.GridDepth)
	}

	cam := c.Camera
	if cam.Near <= 0 || cam.Far <= cam.Near {
		return fmt.Errorf("%w: camera near/far must satisfy 0 < near < far, got %v/%v", ErrInvalidConfig, cam.Near, cam.Far)
	}
	if cam.FovDeg <= 0 || cam.FovDeg >= 180 {
		return fmt.Errorf("%w: camera.fov_deg must be in (0, 180), got %v", ErrInvalidConfig, cam.FovDeg)
	}
	return nil
}
