// Package pipeline runs the terrain tessellation pass: it projects terrain
// patches through the camera, evaluates their tessellation levels and
// summarizes the result.
package pipeline

import (
	"context"
	"fmt"
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/hmaptess/internal/config"
	"github.com/Faultbox/hmaptess/internal/engine/camera"
	"github.com/Faultbox/hmaptess/internal/engine/terrain"
	"github.com/Faultbox/hmaptess/internal/logger"
	"github.com/Faultbox/hmaptess/pkg/tess"
)

// Pass evaluates tessellation levels for a set of terrain patches.
type Pass struct {
	Settings tess.Settings
	Camera   *camera.OrbitCamera
	Aspect   float32
	Workers  int

	log *zap.Logger
}

// NewPass creates a pass. The logger is taken from the global logger at
// construction time.
func NewPass(settings tess.Settings, cam *camera.OrbitCamera, aspect float32, workers int) *Pass {
	return &Pass{
		Settings: settings,
		Camera:   cam,
		Aspect:   aspect,
		Workers:  workers,
		log:      logger.Named("pass"),
	}
}

// Report summarizes one pass.
type Report struct {
	Patches int
	Culled  int
	Outputs []tess.Output
	// Histogram counts outer edges by ceil(level), index 0 through MaxLevel.
	// Culled patches contribute four zero-level edges.
	Histogram []int
	// MeanInner is the mean of both inner levels over visible patches.
	MeanInner float32
	Elapsed   time.Duration
}

// Visible returns the number of patches that survived culling.
func (r *Report) Visible() int {
	return r.Patches - r.Culled
}

// Run projects and evaluates every patch.
func (p *Pass) Run(ctx context.Context, patches []terrain.Patch) (*Report, error) {
	start := time.Now()

	vp := p.Camera.ViewProjection(p.Aspect)
	projected := make([]tess.Patch, len(patches))
	for i, tp := range patches {
		projected[i] = camera.Project(vp, tp.Corners)
	}

	outputs, err := tess.EvaluateAll(ctx, projected, p.Settings, p.Workers)
	if err != nil {
		return nil, fmt.Errorf("evaluating patches: %w", err)
	}

	r := summarize(outputs, p.Settings.MaxLevel)
	r.Elapsed = time.Since(start)

	p.log.Info("tessellation pass",
		zap.Int("patches", r.Patches),
		zap.Int("culled", r.Culled),
		zap.Float32("mean_inner", r.MeanInner),
		zap.Duration("elapsed", r.Elapsed),
	)
	if r.Patches > 0 && r.Culled == r.Patches {
		p.log.Warn("every patch was culled; check camera placement")
	}
	return r, nil
}

func summarize(outputs []tess.Output, maxLevel float32) *Report {
	r := &Report{
		Patches:   len(outputs),
		Outputs:   outputs,
		Histogram: make([]int, int(gomath.Ceil(float64(maxLevel)))+1),
	}

	var innerSum float64
	for _, o := range outputs {
		l := o.Levels
		if l.Culled() {
			r.Culled++
		} else {
			innerSum += float64(l.Inner0) + float64(l.Inner1)
		}
		for _, v := range l.Outer() {
			bucket := int(gomath.Ceil(float64(v)))
			bucket = min(max(bucket, 0), len(r.Histogram)-1)
			r.Histogram[bucket]++
		}
	}
	if visible := r.Visible(); visible > 0 {
		r.MeanInner = float32(innerSum / float64(2*visible))
	}
	return r
}

// LoadTerrain builds the patch grid described by the config.
func LoadTerrain(cfg config.TerrainConfig) (*terrain.Heightmap, []terrain.Patch, error) {
	var h *terrain.Heightmap
	if cfg.Heightmap != "" {
		var err error
		h, err = terrain.Load(cfg.Heightmap, cfg.HeightScale)
		if err != nil {
			return nil, nil, err
		}
	} else {
		h = terrain.NewHeightmap(cfg.GridWidth, cfg.GridDepth)
	}

	patches, err := terrain.BuildPatches(h, cfg.TileSize, cfg.CellsPerPatch)
	if err != nil {
		return nil, nil, fmt.Errorf("building patches: %w", err)
	}
	logger.Debug("terrain loaded",
		zap.String("heightmap", cfg.Heightmap),
		zap.Int("width", h.Width),
		zap.Int("depth", h.Depth),
		zap.Int("patches", len(patches)),
	)
	return h, patches, nil
}

// NewCamera builds the orbit camera from config. With Fit set, the camera
// frames the given bounds instead of using the configured center/distance.
func NewCamera(cfg config.CameraConfig, bounds terrain.Bounds) *camera.OrbitCamera {
	cam := camera.NewOrbitCamera()
	cam.FovY = cfg.FovY()
	cam.Near = cfg.Near
	cam.Far = cfg.Far
	cam.MaxDistance = max(cam.MaxDistance, cfg.Far)

	if cfg.Fit {
		cam.FitToBounds(bounds.Min, bounds.Max)
	} else {
		cam.Center.X, cam.Center.Y, cam.Center.Z = cfg.Center[0], cfg.Center[1], cfg.Center[2]
		cam.SetDistance(cfg.Distance)
	}
	cam.Pitch = cfg.Pitch()
	cam.Yaw = cfg.Yaw()
	return cam
}
