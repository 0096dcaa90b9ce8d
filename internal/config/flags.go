package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagHeightmap   = flag.String("heightmap", "", "Heightmap image (png, bmp, tiff, tga)")
	flagMaxLevel    = flag.Int("max-level", 0, "Maximum tessellation level")
	flagPrecision   = flag.Float64("precision", -1, "Levels per screen-space unit of edge length")
	flagFallOff     = flag.Float64("falloff", 0, "Screen-space cull margin")
	flagStrictEdges = flag.Bool("strict-edges", false, "Check both endpoints of every edge against the camera plane")
	flagWorkers     = flag.Int("workers", -1, "Evaluation workers (0 = GOMAXPROCS)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagHeightmap != "" {
		cfg.Terrain.Heightmap = *flagHeightmap
	}
	if *flagMaxLevel > 0 {
		cfg.Tessellation.MaxLevel = *flagMaxLevel
	}
	if *flagPrecision >= 0 {
		cfg.Tessellation.Precision = float32(*flagPrecision)
	}
	if *flagFallOff > 0 {
		cfg.Tessellation.FallOff = float32(*flagFallOff)
	}
	if *flagStrictEdges {
		cfg.Tessellation.StrictEdgeDepth = true
	}
	if *flagWorkers >= 0 {
		cfg.Pass.Workers = *flagWorkers
	}
}
