// Package voxel holds the occupancy grid the water automaton runs on.
package voxel

import "fmt"

// Direction is the persistent lateral flow orientation of a voxel.
// North is -Z, South is +Z, West is -X, East is +X.
type Direction uint8

// Directions.
const (
	North Direction = iota
	South
	East
	West
)

// Directions lists every direction in declaration order.
var Directions = [4]Direction{North, South, East, West}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", d)
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// Step returns the (dx, dz) offset of one move in this direction.
func (d Direction) Step() (dx, dz int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	default:
		return -1, 0
	}
}

// ParseDirection converts a name ("north", "S", ...) into a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "north", "North", "n", "N":
		return North, true
	case "south", "South", "s", "S":
		return South, true
	case "east", "East", "e", "E":
		return East, true
	case "west", "West", "w", "W":
		return West, true
	}
	return 0, false
}

// Kind is the occupancy state of a voxel.
type Kind uint8

// Voxel kinds.
const (
	Empty Kind = iota
	Border
	Water
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "Empty"
	case Border:
		return "Border"
	case Water:
		return "Water"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Voxel is one cell of the grid. Dir is meaningful for Border and Water,
// Energy only for Water.
type Voxel struct {
	Kind   Kind
	Dir    Direction
	Energy int32
}

// NewBorder returns a terrain voxel sloping toward dir.
func NewBorder(dir Direction) Voxel {
	return Voxel{Kind: Border, Dir: dir}
}

// NewWater returns a water voxel.
func NewWater(dir Direction, energy int32) Voxel {
	return Voxel{Kind: Water, Dir: dir, Energy: energy}
}

// IsEmpty reports whether the voxel is unoccupied.
func (v Voxel) IsEmpty() bool {
	return v.Kind == Empty
}

// String returns a compact description, e.g. "Water(North, 10)".
func (v Voxel) String() string {
	switch v.Kind {
	case Border:
		return fmt.Sprintf("Border(%v)", v.Dir)
	case Water:
		return fmt.Sprintf("Water(%v, %d)", v.Dir, v.Energy)
	default:
		return "Empty"
	}
}
