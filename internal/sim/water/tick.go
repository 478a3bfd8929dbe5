package water

import (
	"go.uber.org/zap"

	"github.com/Faultbox/mod1/internal/sim/geometry"
	"github.com/Faultbox/mod1/internal/sim/voxel"
)

// Tick advances every unsettled particle by one step, raises the water level
// when its layer is full and publishes the new geometry.
func (a *Automaton) Tick() {
	a.ticks++
	for i := range a.index.Len() {
		a.step(i)
	}
	a.updateWaterLevel()
	a.index.Publish()
}

func (a *Automaton) step(i int) {
	loc := a.index.Location(i)
	v, ok := a.grid.At(loc.X, loc.Y, loc.Z)
	if !ok || v.Kind != voxel.Water {
		a.log.Warn("particle lost its voxel", zap.Stringer("loc", loc), zap.Stringer("voxel", v))
		return
	}
	if loc.Y < a.level || v.Energy <= 0 {
		return
	}
	dir, energy := v.Dir, v.Energy

	// y == 0 has nothing below and behaves as solid floor
	if below, ok := a.grid.At(loc.X, loc.Y-1, loc.Z); ok {
		switch below.Kind {
		case voxel.Empty:
			a.fall(i, loc, dir, energy)
			return
		case voxel.Border:
			dir = below.Dir
			a.grid.Set(loc.X, loc.Y, loc.Z, voxel.NewWater(dir, energy))
		case voxel.Water:
			a.grid.Set(loc.X, loc.Y-1, loc.Z, voxel.NewWater(a.randomDirection(), below.Energy+a.params.CollisionGain))
		}
	}

	a.flow(i, loc, dir, energy)
}

// fall drops particle i straight down until it lands or FallSpeed cells pass.
func (a *Automaton) fall(i int, loc geometry.Location, dir voxel.Direction, energy int32) {
	for n := 1; ; n++ {
		energy += a.params.GravityGain
		a.grid.Set(loc.X, loc.Y, loc.Z, voxel.Voxel{})
		a.grid.Set(loc.X, loc.Y-1, loc.Z, voxel.NewWater(dir, energy))
		loc = a.index.Move(i, geometry.Down)

		if a.params.FallSpeed > 0 && n >= a.params.FallSpeed {
			return
		}
		if !a.grid.IsEmpty(loc.X, loc.Y-1, loc.Z) {
			return
		}
	}
}

// flow moves particle i one cell sideways: along dir when free, otherwise
// onto the perpendicular axis in coin-flipped order.
func (a *Automaton) flow(i int, loc geometry.Location, dir voxel.Direction, energy int32) {
	dx, dz := dir.Step()
	if !a.grid.InBounds(loc.X+dx, loc.Y, loc.Z+dz) {
		a.grid.Set(loc.X, loc.Y, loc.Z, voxel.NewWater(a.randomDirection(), energy))
		return
	}
	if a.grid.IsEmpty(loc.X+dx, loc.Y, loc.Z+dz) {
		a.shift(i, loc, dir, dir, energy-a.params.PrimaryMoveCost)
		return
	}

	first, second := alternates(dir)
	if !a.coin() {
		first, second = second, first
	}
	for _, side := range [2]voxel.Direction{first, second} {
		sx, sz := side.Step()
		if a.grid.IsEmpty(loc.X+sx, loc.Y, loc.Z+sz) {
			a.shift(i, loc, side, dir, energy-a.params.AlternateMoveCost)
			return
		}
	}
}

// shift moves particle i one cell toward `to`, keeping its flow direction.
func (a *Automaton) shift(i int, loc geometry.Location, to, dir voxel.Direction, energy int32) {
	dx, dz := to.Step()
	a.grid.Set(loc.X, loc.Y, loc.Z, voxel.Voxel{})
	a.grid.Set(loc.X+dx, loc.Y, loc.Z+dz, voxel.NewWater(dir, energy))
	a.index.Move(i, moveFor(to))
}

// alternates returns the perpendicular side-steps of dir in coin-heads order.
func alternates(dir voxel.Direction) (voxel.Direction, voxel.Direction) {
	switch dir {
	case voxel.North:
		return voxel.West, voxel.East
	case voxel.South:
		return voxel.East, voxel.West
	case voxel.East:
		return voxel.South, voxel.North
	default:
		return voxel.North, voxel.South
	}
}

func moveFor(d voxel.Direction) geometry.Move {
	switch d {
	case voxel.North:
		return geometry.North
	case voxel.South:
		return geometry.South
	case voxel.East:
		return geometry.East
	default:
		return geometry.West
	}
}

// updateWaterLevel raises the level once its layer has no empty cell, then
// prunes settled interior particles from the active list.
func (a *Automaton) updateWaterLevel() {
	if a.level >= a.MaxLevel() || !a.grid.LayerFull(a.level) {
		return
	}
	a.level++

	pruned := 0
	if a.level > a.params.PruneLevel {
		pruned = a.index.Retain(func(l geometry.Location) bool {
			return !(a.grid.Interior(l.X, l.Z) && l.Y < a.level-1)
		})
	}

	a.log.Debug("water level rose",
		zap.Int("level", a.level),
		zap.Int("pruned", pruned),
		zap.Int("active", a.index.Len()),
	)
}
