// Package app wires terrain loading, the water automaton, user controls and
// the websocket stream into runnable simulators.
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/mod1/internal/sim/voxel"
	"github.com/Faultbox/mod1/internal/stream"
)

// ErrUnknownCommand is returned for stream commands with no matching action.
var ErrUnknownCommand = errors.New("unknown command")

// Action is a user request, from the keyboard or a stream client.
type Action int

// Actions.
const (
	ActionNone Action = iota
	ActionQuit
	ActionFlush
	ActionRaiseLevel
	ActionToggleRain
	ActionToggleCycle
	ActionWaveNorth
	ActionWaveSouth
	ActionWaveEast
	ActionWaveWest
	ActionRegrid
)

var actionNames = map[Action]string{
	ActionNone:        "none",
	ActionQuit:        "quit",
	ActionFlush:       "flush",
	ActionRaiseLevel:  "raise",
	ActionToggleRain:  "rain",
	ActionToggleCycle: "cycle",
	ActionWaveNorth:   "wave north",
	ActionWaveSouth:   "wave south",
	ActionWaveEast:    "wave east",
	ActionWaveWest:    "wave west",
	ActionRegrid:      "regrid",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// WaveAction returns the action sending a wave from side d.
func WaveAction(d voxel.Direction) Action {
	switch d {
	case voxel.North:
		return ActionWaveNorth
	case voxel.South:
		return ActionWaveSouth
	case voxel.East:
		return ActionWaveEast
	default:
		return ActionWaveWest
	}
}

// waveSide is the inverse of WaveAction.
func (a Action) waveSide() (voxel.Direction, bool) {
	switch a {
	case ActionWaveNorth:
		return voxel.North, true
	case ActionWaveSouth:
		return voxel.South, true
	case ActionWaveEast:
		return voxel.East, true
	case ActionWaveWest:
		return voxel.West, true
	}
	return 0, false
}

// CommandAction maps a stream command to an action. Inject commands map to
// ActionNone and are applied through Controls.Command. Remote clients cannot
// quit the simulator.
func CommandAction(cmd stream.Command) (Action, error) {
	switch strings.ToLower(cmd.Action) {
	case "flush":
		return ActionFlush, nil
	case "raise", "add_water":
		return ActionRaiseLevel, nil
	case "rain":
		return ActionToggleRain, nil
	case "cycle":
		return ActionToggleCycle, nil
	case "regrid":
		return ActionRegrid, nil
	case "inject":
		return ActionNone, nil
	case "wave":
		d, ok := voxel.ParseDirection(cmd.Dir)
		if !ok {
			return ActionNone, fmt.Errorf("%w: wave direction %q", ErrUnknownCommand, cmd.Dir)
		}
		return WaveAction(d), nil
	}
	return ActionNone, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Action)
}
