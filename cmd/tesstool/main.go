// tesstool evaluates terrain tessellation levels from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/hmaptess/internal/config"
	"github.com/Faultbox/hmaptess/internal/logger"
	"github.com/Faultbox/hmaptess/internal/pipeline"
	"github.com/Faultbox/hmaptess/pkg/math"
	"github.com/Faultbox/hmaptess/pkg/tess"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	switch command {
	case "eval":
		err = cmdEval(cfg, args)
	case "grid":
		err = cmdGrid(cfg)
	case "config":
		err = cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tesstool - heightmap terrain tessellation levels

Usage:
  tesstool [flags] <command> [args]

Commands:
  eval x0 y0 z0 x1 y1 z1 x2 y2 z2 x3 y3 z3   Evaluate one patch (reference-space corners)
  grid                                      Evaluate every patch of the configured terrain
  config [save [path]]                      Print or save the effective config

Flags:
  -config <file>       Config file (default ./config.yaml or user config dir)
  -heightmap <file>    Heightmap image (png, bmp, tiff, tga)
  -max-level <n>       Maximum tessellation level (default 16)
  -precision <f>       Levels per screen-space unit of edge length (default 50)
  -falloff <f>         Screen-space cull margin (default 1.5)
  -strict-edges        Check both endpoints of every edge against the camera plane
  -workers <n>         Evaluation workers, 0 = all CPUs
  -debug               Enable debug logging

Examples:
  tesstool eval 0 0 2 1 0 2 0 1 2 1 1 2
  tesstool -heightmap hills.png -max-level 32 grid
  tesstool config save ./config.yaml`)
}

func cmdEval(cfg *config.Config, args []string) error {
	if len(args) != 12 {
		return fmt.Errorf("eval needs 12 numbers (4 corners x 3 components), got %d", len(args))
	}

	var v [12]float32
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return fmt.Errorf("argument %d: %w", i+1, err)
		}
		v[i] = float32(f)
	}

	p := tess.Patch{
		C0: math.Vec3{X: v[0], Y: v[1], Z: v[2]},
		C1: math.Vec3{X: v[3], Y: v[4], Z: v[5]},
		C2: math.Vec3{X: v[6], Y: v[7], Z: v[8]},
		C3: math.Vec3{X: v[9], Y: v[10], Z: v[11]},
	}
	out := tess.Evaluate(p, cfg.Tessellation.Settings())
	logger.Debug("evaluated patch", zap.Bool("culled", out.Levels.Culled()))

	l := out.Levels
	if l.Culled() {
		fmt.Println("culled")
	}
	fmt.Printf("outer: %.3f %.3f %.3f %.3f\n", l.Outer0, l.Outer1, l.Outer2, l.Outer3)
	fmt.Printf("inner: %.3f %.3f\n", l.Inner0, l.Inner1)
	return nil
}

func cmdGrid(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	h, patches, err := pipeline.LoadTerrain(cfg.Terrain)
	if err != nil {
		return err
	}

	cam := pipeline.NewCamera(cfg.Camera, h.Bounds(cfg.Terrain.TileSize))
	pass := pipeline.NewPass(cfg.Tessellation.Settings(), cam, cfg.Camera.Aspect(), cfg.Pass.Workers)

	r, err := pass.Run(ctx, patches)
	if err != nil {
		return err
	}

	fmt.Printf("Terrain:    %dx%d samples, %d patches\n", h.Width, h.Depth, r.Patches)
	fmt.Printf("Visible:    %d (culled %d)\n", r.Visible(), r.Culled)
	fmt.Printf("Mean inner: %.2f\n", r.MeanInner)
	fmt.Printf("Elapsed:    %v\n", r.Elapsed)
	fmt.Println("\nOuter level histogram:")

	peak := 0
	for _, n := range r.Histogram {
		peak = max(peak, n)
	}
	for level, n := range r.Histogram {
		if n == 0 {
			continue
		}
		bar := 0
		if peak > 0 {
			bar = n * 40 / peak
		}
		fmt.Printf("  %3d  %6d  %s\n", level, n, strings.Repeat("#", max(bar, 1)))
	}
	return nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) > 0 && args[0] == "save" {
		if len(args) > 1 {
			if err := cfg.SaveTo(args[1]); err != nil {
				return err
			}
			logger.Info("config saved", zap.String("path", args[1]))
			fmt.Printf("Saved %s\n", args[1])
			return nil
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
		fmt.Printf("Saved to %s\n", config.ConfigDir())
		return nil
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
