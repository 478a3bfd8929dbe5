package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/mod1/internal/config"
	"github.com/Faultbox/mod1/internal/sim/voxel"
	"github.com/Faultbox/mod1/internal/sim/water"
	"github.com/Faultbox/mod1/internal/stream"
)

// Session owns one running simulation: its terrain, automaton and controls.
// It must be used from a single goroutine.
type Session struct {
	Terrain  *Terrain
	Sim      *water.Automaton
	Controls *Controls

	cfg *config.Config
	log *zap.Logger
}

// NewSession loads the configured terrain and starts an automaton on it.
func NewSession(cfg *config.Config, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}

	t, err := LoadTerrain(cfg.Terrain, cfg.ColumnHeight(), log.Named("terrain"))
	if err != nil {
		return nil, err
	}

	opts := []water.Option{
		water.WithParams(cfg.Simulation.Params()),
		water.WithLogger(log.Named("water")),
	}
	if cfg.Simulation.Seed != 0 {
		opts = append(opts, water.WithSeed(cfg.Simulation.Seed))
	}
	sim, err := water.New(t.Voxels, opts...)
	if err != nil {
		return nil, fmt.Errorf("starting water automaton: %w", err)
	}

	controls := NewControls(log.Named("controls"))
	controls.Rain = cfg.Simulation.RainOnStart

	return &Session{
		Terrain:  t,
		Sim:      sim,
		Controls: controls,
		cfg:      cfg,
		log:      log,
	}, nil
}

// Handle applies an action. quit is true when the user asked to exit.
func (s *Session) Handle(a Action) (quit bool, err error) {
	if s.Controls.Apply(s.Sim, a) {
		return false, nil
	}
	switch a {
	case ActionQuit:
		return true, nil
	case ActionRegrid:
		return false, s.Regrid()
	}
	return false, nil
}

// Regrid reloads the points file and restarts the water on the new terrain.
// On failure the current terrain stays in place.
func (s *Session) Regrid() error {
	t, err := LoadTerrain(s.cfg.Terrain, s.cfg.ColumnHeight(), s.log.Named("terrain"))
	if err != nil {
		return fmt.Errorf("regrid: %w", err)
	}
	if err := s.Sim.SetGrid(t.Voxels); err != nil {
		return fmt.Errorf("regrid: %w", err)
	}
	s.Terrain = t
	return nil
}

// PourAt drops one particle into the voxel column under world position
// (x, z), which spans [-1, 1] on both axes. It returns false when the point
// is off the terrain or the drop cell is taken.
func (s *Session) PourAt(x, z float32) bool {
	g := s.Sim.Grid()
	col := int((x + 1) / 2 * float32(g.Width))
	row := int((z + 1) / 2 * float32(g.Width))
	if x < -1 || z < -1 || col >= g.Width || row >= g.Width {
		return false
	}
	return s.Sim.Inject(col, g.Height-2, row, voxel.South, s.Sim.Params().GravityGain)
}

// TerrainFrame describes the current terrain and render lattice.
func (s *Session) TerrainFrame() stream.Frame {
	lat := s.Sim.Lattice()
	vertices, _ := s.Sim.Geometry()
	return stream.Frame{
		Type:     stream.FrameTerrain,
		Size:     s.Terrain.Heights.Size,
		Heights:  s.Terrain.Heights.Heights,
		Lattice:  &stream.Lattice{Wxz: lat.Wxz, Hy: lat.Hy},
		Vertices: vertices,
		Level:    s.Sim.Level(),
	}
}

// WaterFrame carries the last published water indices.
func (s *Session) WaterFrame() stream.Frame {
	_, indices := s.Sim.Geometry()
	st := s.Sim.Stats()
	return stream.Frame{
		Type:    stream.FrameWater,
		Tick:    st.Tick,
		Level:   st.Level,
		Active:  st.Active,
		Indices: indices,
	}
}
