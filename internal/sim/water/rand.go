package water

import (
	"math/rand/v2"
	"time"

	"github.com/Faultbox/mod1/internal/sim/voxel"
)

// Source is the randomness the automaton draws from. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a deterministic PCG source for the given seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func defaultSource() *rand.Rand {
	return NewSource(uint64(time.Now().UnixNano()))
}

func (a *Automaton) coin() bool {
	return a.rng.IntN(2) == 1
}

func (a *Automaton) randomDirection() voxel.Direction {
	return voxel.Directions[a.rng.IntN(len(voxel.Directions))]
}
