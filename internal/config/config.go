// Package config handles simulator configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/mod1/internal/sim/water"
	"github.com/Faultbox/mod1/pkg/heightfield"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulator settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Simulation SimulationConfig `yaml:"simulation"`
	Stream     StreamConfig     `yaml:"stream"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Fullscreen    bool    `yaml:"fullscreen"`
	VSync         bool    `yaml:"vsync"`
	FPSLimit      int     `yaml:"fps_limit"`
	ShowFPS       bool    `yaml:"show_fps"`
	Samples       int     `yaml:"samples"` // MSAA, 0 disables
	SunAzimuth    float32 `yaml:"sun_azimuth"`   // degrees around Y
	SunElevation  float32 `yaml:"sun_elevation"` // degrees above the horizon
	ScreenshotDir string  `yaml:"screenshot_dir"`
}

// TerrainConfig controls how the height grid is built.
type TerrainConfig struct {
	PointsFile    string  `yaml:"points_file"` // empty uses the built-in demo terrain
	GridSize      int     `yaml:"grid_size"`   // lattice points per side
	Algo          string  `yaml:"algo"`        // rbf or kriging
	RBFShape      float64 `yaml:"rbf_shape"`
	Power         float64 `yaml:"power"`
	DistanceFloor float64 `yaml:"distance_floor"`
	PadBoundary   bool    `yaml:"pad_boundary"`
	PadSteps      int     `yaml:"pad_steps"`
}

// SimulationConfig holds the automaton tuning.
type SimulationConfig struct {
	Height            int           `yaml:"height"` // cells per column, 0 uses grid_size/2
	GravityGain       int32         `yaml:"gravity_gain"`
	PrimaryMoveCost   int32         `yaml:"primary_move_cost"`
	AlternateMoveCost int32         `yaml:"alternate_move_cost"`
	CollisionGain     int32         `yaml:"collision_gain"`
	FallSpeed         int           `yaml:"fall_speed"`
	RainDrops         int           `yaml:"rain_drops"`
	WaveEnergy        int32         `yaml:"wave_energy"`
	WaveFraction      float64       `yaml:"wave_fraction"`
	PruneLevel        int           `yaml:"prune_level"`
	Seed              uint64        `yaml:"seed"` // 0 seeds from the clock
	TickRate          time.Duration `yaml:"tick_rate"`
	RainOnStart       bool          `yaml:"rain_on_start"`
}

// StreamConfig holds the websocket stream settings.
type StreamConfig struct {
	Addr     string        `yaml:"addr"` // empty disables the stream
	Interval time.Duration `yaml:"interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	p := water.DefaultParams()
	o := heightfield.DefaultOptions()
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			VSync:         true,
			Samples:       4,
			SunAzimuth:    35,
			SunElevation:  55,
			ScreenshotDir: "screenshots",
		},
		Terrain: TerrainConfig{
			GridSize:      100,
			Algo:          heightfield.AlgoRBF.String(),
			RBFShape:      o.RBFShape,
			Power:         o.Power,
			DistanceFloor: o.DistanceFloor,
			PadBoundary:   true,
			PadSteps:      20,
		},
		Simulation: SimulationConfig{
			GravityGain:       p.GravityGain,
			PrimaryMoveCost:   p.PrimaryMoveCost,
			AlternateMoveCost: p.AlternateMoveCost,
			CollisionGain:     p.CollisionGain,
			FallSpeed:         p.FallSpeed,
			RainDrops:         p.RainDrops,
			WaveEnergy:        p.WaveEnergy,
			WaveFraction:      p.WaveFraction,
			PruneLevel:        p.PruneLevel,
			TickRate:          16 * time.Millisecond,
		},
		Stream: StreamConfig{
			Interval: 100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the settings that would otherwise fail deep in startup.
func (c *Config) Validate() error {
	if _, err := heightfield.ParseAlgo(c.Terrain.Algo); err != nil {
		return fmt.Errorf("%w: terrain: %w", ErrInvalid, err)
	}
	if c.Terrain.GridSize < 3 {
		return fmt.Errorf("%w: terrain grid_size %d, need at least 3", ErrInvalid, c.Terrain.GridSize)
	}
	if c.Terrain.PadSteps < 0 {
		return fmt.Errorf("%w: terrain pad_steps %d", ErrInvalid, c.Terrain.PadSteps)
	}
	if err := heightfield.NewOptions(c.Terrain.Options()...).Validate(); err != nil {
		return fmt.Errorf("%w: terrain: %w", ErrInvalid, err)
	}
	if h := c.Simulation.Height; h != 0 && h < 3 {
		return fmt.Errorf("%w: simulation height %d, need at least 3", ErrInvalid, h)
	}
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("%w: simulation tick_rate %v", ErrInvalid, c.Simulation.TickRate)
	}
	if err := c.Simulation.Params().Validate(); err != nil {
		return fmt.Errorf("%w: simulation: %w", ErrInvalid, err)
	}
	if c.Stream.Addr != "" && c.Stream.Interval <= 0 {
		return fmt.Errorf("%w: stream interval %v", ErrInvalid, c.Stream.Interval)
	}
	return nil
}

// Params converts the simulation section into automaton tuning.
func (s SimulationConfig) Params() water.Params {
	return water.Params{
		GravityGain:       s.GravityGain,
		PrimaryMoveCost:   s.PrimaryMoveCost,
		AlternateMoveCost: s.AlternateMoveCost,
		CollisionGain:     s.CollisionGain,
		FallSpeed:         s.FallSpeed,
		RainDrops:         s.RainDrops,
		WaveEnergy:        s.WaveEnergy,
		WaveFraction:      s.WaveFraction,
		PruneLevel:        s.PruneLevel,
	}
}

// ColumnHeight returns the voxel column height for the configured grid.
func (c *Config) ColumnHeight() int {
	if c.Simulation.Height > 0 {
		return c.Simulation.Height
	}
	return max(3, c.Terrain.GridSize/2)
}

// Options converts the terrain section into interpolation options.
func (t TerrainConfig) Options() []heightfield.Option {
	return []heightfield.Option{
		heightfield.WithRBFShape(t.RBFShape),
		heightfield.WithPower(t.Power),
		heightfield.WithDistanceFloor(t.DistanceFloor),
	}
}
