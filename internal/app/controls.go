package app

import (
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/mod1/internal/sim/voxel"
	"github.com/Faultbox/mod1/internal/stream"
)

// Simulation is the part of the water automaton the controls drive.
type Simulation interface {
	Tick()
	Flush()
	IncreaseWaterLevel()
	CycleWaterLevel()
	AddRainParticles()
	AddWaveParticles(from voxel.Direction)
	Inject(x, y, z int, dir voxel.Direction, energy int32) bool
}

// DefaultCycleEvery is how many steps pass between level cycle raises.
const DefaultCycleEvery = 30

// Controls holds the toggles that persist between frames.
type Controls struct {
	Rain       bool // add rain every step
	Cycle      bool // raise the level periodically, flushing at half height
	CycleEvery int

	steps uint64
	log   *zap.Logger
}

// NewControls returns controls with rain and cycling off.
func NewControls(log *zap.Logger) *Controls {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controls{CycleEvery: DefaultCycleEvery, log: log}
}

// Apply performs a on sim. It returns false for actions the caller owns
// (quit and regrid) so the loop can handle them.
func (c *Controls) Apply(sim Simulation, a Action) bool {
	if d, ok := a.waveSide(); ok {
		sim.AddWaveParticles(d)
		c.log.Info("wave", zap.Stringer("from", d))
		return true
	}

	switch a {
	case ActionNone:
	case ActionFlush:
		sim.Flush()
		c.log.Info("flush")
	case ActionRaiseLevel:
		sim.IncreaseWaterLevel()
		c.log.Info("raise water level")
	case ActionToggleRain:
		c.Rain = !c.Rain
		c.log.Info("rain toggled", zap.Bool("on", c.Rain))
	case ActionToggleCycle:
		c.Cycle = !c.Cycle
		c.log.Info("level cycle toggled", zap.Bool("on", c.Cycle))
	default:
		return false
	}
	return true
}

// Command applies a stream command. Like Apply, it returns false when the
// resulting action belongs to the caller, along with that action.
func (c *Controls) Command(sim Simulation, cmd stream.Command) (Action, bool, error) {
	a, err := CommandAction(cmd)
	if err != nil {
		return ActionNone, true, err
	}
	if strings.EqualFold(cmd.Action, "inject") {
		d, ok := voxel.ParseDirection(cmd.Dir)
		if !ok {
			d = voxel.South
		}
		if !sim.Inject(cmd.X, cmd.Y, cmd.Z, d, cmd.Energy) {
			c.log.Debug("inject rejected", zap.Int("x", cmd.X), zap.Int("y", cmd.Y), zap.Int("z", cmd.Z))
		}
		return ActionNone, true, nil
	}
	return a, c.Apply(sim, a), nil
}

// Step advances one simulation step with the active toggles applied.
func (c *Controls) Step(sim Simulation) {
	c.steps++
	if c.Rain {
		sim.AddRainParticles()
	}
	if c.Cycle && c.CycleEvery > 0 && c.steps%uint64(c.CycleEvery) == 0 {
		sim.CycleWaterLevel()
	}
	sim.Tick()
}
