package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/mod1/internal/sim/water"
	"github.com/Faultbox/mod1/pkg/heightfield"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Terrain.GridSize != 100 {
		t.Errorf("expected grid size 100, got %d", cfg.Terrain.GridSize)
	}
	if cfg.Terrain.Algo != "rbf" {
		t.Errorf("expected algo 'rbf', got %s", cfg.Terrain.Algo)
	}
	if cfg.Terrain.PointsFile != "" {
		t.Errorf("expected no points file, got %s", cfg.Terrain.PointsFile)
	}

	if got := cfg.Simulation.Params(); got != water.DefaultParams() {
		t.Errorf("expected default water params, got %+v", got)
	}
	if cfg.ColumnHeight() != 50 {
		t.Errorf("expected column height 50, got %d", cfg.ColumnHeight())
	}

	if cfg.Stream.Addr != "" {
		t.Errorf("expected stream disabled, got %s", cfg.Stream.Addr)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true

terrain:
  points_file: "resources/demo1.mod1"
  grid_size: 64
  algo: kriging
  power: 3

simulation:
  height: 40
  gravity_gain: 12
  fall_speed: 2
  seed: 42
  tick_rate: 20ms

stream:
  addr: ":8090"
  interval: 250ms

logging:
  level: "debug"
  log_file: "mod1.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || !cfg.Graphics.Fullscreen {
		t.Errorf("graphics not loaded: %+v", cfg.Graphics)
	}
	if cfg.Terrain.PointsFile != "resources/demo1.mod1" || cfg.Terrain.GridSize != 64 {
		t.Errorf("terrain not loaded: %+v", cfg.Terrain)
	}
	if cfg.Terrain.Power != 3 {
		t.Errorf("expected power 3, got %v", cfg.Terrain.Power)
	}
	// untouched keys keep their defaults
	if cfg.Terrain.RBFShape != 5 {
		t.Errorf("expected default rbf shape 5, got %v", cfg.Terrain.RBFShape)
	}
	if cfg.Simulation.GravityGain != 12 || cfg.Simulation.FallSpeed != 2 || cfg.Simulation.Seed != 42 {
		t.Errorf("simulation not loaded: %+v", cfg.Simulation)
	}
	if cfg.Simulation.PrimaryMoveCost != 1 {
		t.Errorf("expected default primary cost 1, got %d", cfg.Simulation.PrimaryMoveCost)
	}
	if cfg.Simulation.TickRate != 20*time.Millisecond {
		t.Errorf("expected tick rate 20ms, got %v", cfg.Simulation.TickRate)
	}
	if cfg.ColumnHeight() != 40 {
		t.Errorf("expected column height 40, got %d", cfg.ColumnHeight())
	}
	if cfg.Stream.Addr != ":8090" || cfg.Stream.Interval != 250*time.Millisecond {
		t.Errorf("stream not loaded: %+v", cfg.Stream)
	}
	if cfg.Logging.LogFile != "mod1.log" {
		t.Errorf("expected log file 'mod1.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
terrain:
  grid_size: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"kriging", func(c *Config) { c.Terrain.Algo = "kriging" }, true},
		{"unknown algo", func(c *Config) { c.Terrain.Algo = "spline" }, false},
		{"tiny grid", func(c *Config) { c.Terrain.GridSize = 2 }, false},
		{"negative pad", func(c *Config) { c.Terrain.PadSteps = -1 }, false},
		{"negative rbf shape", func(c *Config) { c.Terrain.RBFShape = -5 }, false},
		{"zero power", func(c *Config) { c.Terrain.Power = 0 }, false},
		{"negative power", func(c *Config) { c.Terrain.Power = -2 }, false},
		{"short columns", func(c *Config) { c.Simulation.Height = 2 }, false},
		{"negative cost", func(c *Config) { c.Simulation.AlternateMoveCost = -1 }, false},
		{"zero tick rate", func(c *Config) { c.Simulation.TickRate = 0 }, false},
		{"stream without interval", func(c *Config) {
			c.Stream.Addr = ":0"
			c.Stream.Interval = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestValidateKernelOptions(t *testing.T) {
	cfg := Default()
	cfg.Terrain.RBFShape = -1
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalid) || !errors.Is(err, heightfield.ErrInvalidOptions) {
		t.Errorf("Validate() error = %v, want ErrInvalid wrapping ErrInvalidOptions", err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvConfig, "")

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("config.yaml", []byte("terrain:\n  grid_size: 50\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}

	t.Setenv(EnvConfig, "elsewhere.yaml")
	if path := findConfigFile(); path != "elsewhere.yaml" {
		t.Errorf("findConfigFile() = %q, want the %s path", path, EnvConfig)
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
				if !cfg.Graphics.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "terrain flags",
			setup: func() {
				*flagPoints = "map.mod1"
				*flagSize = 40
				*flagAlgo = "kriging"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.PointsFile != "map.mod1" {
					t.Errorf("expected points file map.mod1, got %s", cfg.Terrain.PointsFile)
				}
				if cfg.Terrain.GridSize != 40 {
					t.Errorf("expected grid size 40, got %d", cfg.Terrain.GridSize)
				}
				if cfg.Terrain.Algo != "kriging" {
					t.Errorf("expected algo kriging, got %s", cfg.Terrain.Algo)
				}
			},
			teardown: func() {
				*flagPoints = ""
				*flagSize = 0
				*flagAlgo = ""
			},
		},
		{
			name: "seed and stream flags",
			setup: func() {
				*flagSeed = 7
				*flagStream = "127.0.0.1:9000"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Simulation.Seed != 7 {
					t.Errorf("expected seed 7, got %d", cfg.Simulation.Seed)
				}
				if cfg.Stream.Addr != "127.0.0.1:9000" {
					t.Errorf("expected stream addr, got %s", cfg.Stream.Addr)
				}
			},
			teardown: func() {
				*flagSeed = 0
				*flagStream = ""
			},
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
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
terrain:
  grid_size: 60
  algo: kriging
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagSize = 80
	defer func() {
		*flagConfig = ""
		*flagSize = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Terrain.GridSize != 80 {
		t.Errorf("expected grid size 80 from flag, got %d", cfg.Terrain.GridSize)
	}
	if cfg.Terrain.Algo != "kriging" {
		t.Errorf("expected algo kriging from file, got %s", cfg.Terrain.Algo)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("terrain:\n  algo: spline\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Terrain.GridSize = 33
	cfg.Simulation.TickRate = 5 * time.Millisecond
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Terrain.GridSize != 33 || loaded.Simulation.TickRate != 5*time.Millisecond {
		t.Errorf("saved values lost: grid %d tick %v", loaded.Terrain.GridSize, loaded.Simulation.TickRate)
	}
}
