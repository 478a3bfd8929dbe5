package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagPoints     = flag.String("points", "", "Path to a control points file")
	flagSize       = flag.Int("size", 0, "Height grid points per side")
	flagAlgo       = flag.String("algo", "", "Griding algorithm (rbf, kriging)")
	flagSeed       = flag.Uint64("seed", 0, "Random seed, 0 seeds from the clock")
	flagStream     = flag.String("stream", "", "Serve the websocket stream on this address")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Graphics.ShowFPS = true
	}
	if *flagPoints != "" {
		cfg.Terrain.PointsFile = *flagPoints
	}
	if *flagSize > 0 {
		cfg.Terrain.GridSize = *flagSize
	}
	if *flagAlgo != "" {
		cfg.Terrain.Algo = *flagAlgo
	}
	if *flagSeed != 0 {
		cfg.Simulation.Seed = *flagSeed
	}
	if *flagStream != "" {
		cfg.Stream.Addr = *flagStream
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
