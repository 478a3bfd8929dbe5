// Package water implements the voxel water-flow automaton.
package water

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/mod1/internal/sim/geometry"
	"github.com/Faultbox/mod1/internal/sim/voxel"
)

// Automaton errors.
var (
	ErrNilGrid       = errors.New("nil voxel grid")
	ErrInvalidParams = errors.New("invalid water params")
)

// Params holds the tuning constants of the automaton.
type Params struct {
	GravityGain       int32   // energy gained per cell fallen
	PrimaryMoveCost   int32   // energy spent moving along the flow direction
	AlternateMoveCost int32   // energy spent side-stepping on the other axis
	CollisionGain     int32   // energy given to a particle landed on
	FallSpeed         int     // cells fallen per tick, 0 falls until landing
	RainDrops         int     // drops per rain call, 0 derives from grid volume
	WaveEnergy        int32   // energy of wave particles, 0 derives from grid width
	WaveFraction      float64 // share of the column height filled by a wave
	PruneLevel        int     // settled particles are pruned once the level passes this
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		GravityGain:       10,
		PrimaryMoveCost:   1,
		AlternateMoveCost: 3,
		CollisionGain:     1,
		WaveFraction:      1.0 / 3.0,
		PruneLevel:        3,
	}
}

// Validate checks that the params are usable.
func (p Params) Validate() error {
	switch {
	case p.GravityGain < 0, p.PrimaryMoveCost < 0, p.AlternateMoveCost < 0, p.CollisionGain < 0:
		return fmt.Errorf("%w: energy constants must not be negative", ErrInvalidParams)
	case p.FallSpeed < 0, p.RainDrops < 0, p.WaveEnergy < 0, p.PruneLevel < 0:
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidParams)
	case p.WaveFraction <= 0 || p.WaveFraction > 1:
		return fmt.Errorf("%w: wave fraction %v not in (0, 1]", ErrInvalidParams, p.WaveFraction)
	}
	return nil
}

// resolve fills the grid-derived defaults.
func (p Params) resolve(g *voxel.Grid) Params {
	if p.RainDrops == 0 {
		p.RainDrops = int(float64(g.Width*g.Height)*0.0001) + 1
	}
	if p.WaveEnergy == 0 {
		side := int32(g.Width + 1)
		p.WaveEnergy = side * side
	}
	return p
}

// Option configures an Automaton.
type Option func(*Automaton)

// WithParams replaces the default tuning.
func WithParams(p Params) Option {
	return func(a *Automaton) { a.tuning = p }
}

// WithRand sets the randomness source.
func WithRand(src Source) Option {
	return func(a *Automaton) { a.rng = src }
}

// WithSeed seeds a deterministic randomness source.
func WithSeed(seed uint64) Option {
	return func(a *Automaton) { a.rng = NewSource(seed) }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Automaton) { a.log = l }
}

// Automaton owns the voxel grid, the water level and the active particles.
// It is not safe for concurrent use.
type Automaton struct {
	tuning   Params // as configured
	params   Params // resolved against the current grid
	grid     *voxel.Grid
	index    *geometry.Index
	vertices []float32
	level    int
	ticks    uint64

	rng Source
	log *zap.Logger
}

// New creates an automaton over a voxelized terrain grid.
func New(grid *voxel.Grid, opts ...Option) (*Automaton, error) {
	a := &Automaton{
		tuning: DefaultParams(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = defaultSource()
	}
	if err := a.tuning.Validate(); err != nil {
		return nil, err
	}
	if err := a.SetGrid(grid); err != nil {
		return nil, err
	}
	return a, nil
}

// SetGrid replaces the terrain. All water is dropped and the level resets.
func (a *Automaton) SetGrid(grid *voxel.Grid) error {
	if grid == nil {
		return ErrNilGrid
	}

	lat := geometry.Lattice{Wxz: uint32(grid.Width + 1), Hy: uint32(grid.Height)}
	a.grid = grid
	a.grid.Reset()
	a.params = a.tuning.resolve(grid)
	a.index = geometry.NewIndex(lat)
	a.vertices = geometry.Vertices(lat)
	a.level = 0
	a.index.Publish()

	a.log.Info("water grid set",
		zap.Int("width", grid.Width),
		zap.Int("height", grid.Height),
		zap.Int("borders", grid.Count(voxel.Border)),
	)
	return nil
}

// Params returns the resolved tuning.
func (a *Automaton) Params() Params {
	return a.params
}

// Grid returns the voxel grid. Callers must not modify it.
func (a *Automaton) Grid() *voxel.Grid {
	return a.grid
}

// Level returns the current water level.
func (a *Automaton) Level() int {
	return a.level
}

// MaxLevel returns the highest water level the automaton will reach.
func (a *Automaton) MaxLevel() int {
	return a.grid.Height - 2
}

// ActiveCount returns the number of simulated particles.
func (a *Automaton) ActiveCount() int {
	return a.index.Len()
}

// Particle returns the location and voxel of active particle i.
func (a *Automaton) Particle(i int) (geometry.Location, voxel.Voxel) {
	loc := a.index.Location(i)
	v, _ := a.grid.At(loc.X, loc.Y, loc.Z)
	return loc, v
}

// Shape returns the quad of active particle i.
func (a *Automaton) Shape(i int) geometry.Shape {
	return a.index.Shape(i)
}

// Lattice returns the render lattice dimensions.
func (a *Automaton) Lattice() geometry.Lattice {
	return a.index.Lattice()
}

// Geometry returns the static lattice vertex buffer and the index buffer
// published by the last completed operation.
func (a *Automaton) Geometry() (vertices []float32, indices []uint32) {
	return a.vertices, a.index.Indices()
}

// Stats is a snapshot of the automaton counters.
type Stats struct {
	Tick   uint64
	Level  int
	Active int
	Water  int
}

// Stats returns the current counters. Counting water voxels walks the grid.
func (a *Automaton) Stats() Stats {
	return Stats{
		Tick:   a.ticks,
		Level:  a.level,
		Active: a.index.Len(),
		Water:  a.grid.Count(voxel.Water),
	}
}
