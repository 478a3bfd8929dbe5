package water

import (
	"go.uber.org/zap"

	"github.com/Faultbox/mod1/internal/sim/geometry"
	"github.com/Faultbox/mod1/internal/sim/voxel"
)

// IncreaseWaterLevel raises the level by one, up to MaxLevel, and floods the
// empty cells of the new layer with resting particles.
func (a *Automaton) IncreaseWaterLevel() {
	a.level = min(a.level+1, a.MaxLevel())
	added := a.fillWaterLevel(a.level)
	a.index.Publish()

	a.log.Debug("water level increased", zap.Int("level", a.level), zap.Int("added", added))
}

// fillWaterLevel converts every empty cell of layer y into water.
func (a *Automaton) fillWaterLevel(y int) int {
	added := 0
	for z := range a.grid.Width {
		for x := range a.grid.Width {
			if a.add(x, y, z, voxel.NewWater(voxel.East, 0)) {
				added++
			}
		}
	}
	return added
}

// CycleWaterLevel raises the level until it reaches half the column height,
// then flushes and starts over.
func (a *Automaton) CycleWaterLevel() {
	if a.level+1 >= a.grid.Height/2 {
		a.Flush()
		return
	}
	a.IncreaseWaterLevel()
}

// AddRainParticles drops a few particles into random interior columns just
// below the top. Grids narrower than 3 have no interior and get no rain.
func (a *Automaton) AddRainParticles() {
	if a.grid.Width < 3 {
		return
	}
	y := a.grid.Height - 2
	added := 0
	for range a.params.RainDrops {
		x := 1 + a.rng.IntN(a.grid.Width-2)
		z := 1 + a.rng.IntN(a.grid.Width-2)
		if a.add(x, y, z, voxel.NewWater(a.randomDirection(), a.params.GravityGain)) {
			added++
		}
	}
	if added > 0 {
		a.index.Publish()
	}
}

// AddWaveParticles fills the boundary slab on the `from` side of the domain,
// over the lower WaveFraction of the height, with particles heading away
// from that side.
func (a *Automaton) AddWaveParticles(from voxel.Direction) {
	w := a.grid.Width
	depth := max(1, int(float64(a.grid.Height)*a.params.WaveFraction))

	xs, zs := [2]int{0, w}, [2]int{0, w}
	switch from {
	case voxel.North:
		zs = [2]int{0, 1}
	case voxel.South:
		zs = [2]int{w - 1, w}
	case voxel.East:
		xs = [2]int{w - 1, w}
	case voxel.West:
		xs = [2]int{0, 1}
	}

	water := voxel.NewWater(from.Opposite(), a.params.WaveEnergy)
	added := 0
	for z := zs[0]; z < zs[1]; z++ {
		for x := xs[0]; x < xs[1]; x++ {
			for y := range depth {
				if a.add(x, y, z, water) {
					added++
				}
			}
		}
	}
	a.index.Publish()

	a.log.Debug("wave added", zap.Stringer("from", from), zap.Int("added", added))
}

// Inject places a single particle. It returns false when the cell is
// occupied or outside the grid.
func (a *Automaton) Inject(x, y, z int, dir voxel.Direction, energy int32) bool {
	if !a.add(x, y, z, voxel.NewWater(dir, energy)) {
		return false
	}
	a.index.Publish()
	return true
}

// Flush removes all water and resets the level. Calling it twice is harmless.
func (a *Automaton) Flush() {
	a.level = 0
	a.grid.Reset()
	a.index.Reset()
	a.index.Publish()

	a.log.Debug("water flushed")
}

// add turns an empty cell into water and registers it as active.
func (a *Automaton) add(x, y, z int, v voxel.Voxel) bool {
	if !a.grid.IsEmpty(x, y, z) {
		return false
	}
	a.grid.Set(x, y, z, v)
	a.index.Add(geometry.Location{X: x, Y: y, Z: z})
	return true
}
