package voxel

import (
	"fmt"
	"math"

	"github.com/Faultbox/mod1/pkg/heightfield"
)

// Voxelize turns a height grid into solid Border columns. A grid of S lattice
// points per side yields (S-1)×(S-1) columns of the given height; each column
// is filled up to the average of its four corner heights.
func Voxelize(hg *heightfield.Grid, height int) (*Grid, error) {
	if hg == nil {
		return nil, ErrNilHeightGrid
	}
	if hg.Size < 2 {
		return nil, fmt.Errorf("%w: height grid size %d", ErrInvalidDimensions, hg.Size)
	}

	g, err := NewGrid(hg.Size-1, height)
	if err != nil {
		return nil, err
	}

	step := 1 / float64(height-1)
	for z := range g.Width {
		for x := range g.Width {
			topLeft := hg.At(x, z)
			topRight := hg.At(x+1, z)
			botLeft := hg.At(x, z+1)
			botRight := hg.At(x+1, z+1)

			avg := float64(topLeft+topRight+botLeft+botRight) / 4
			count := int(math.Ceil(avg / step))
			count = max(0, min(count, height))

			dir := slopeDirection(topLeft, topRight, botLeft, botRight)
			for y := range count {
				g.cells[g.index(x, y, z)] = NewBorder(dir)
			}
		}
	}

	return g, nil
}

// slopeDirection picks the direction water runs off a cell: away from the
// highest pair of corners. Top is the low-z edge, left the low-x edge.
// Ties resolve South, North, East, West.
func slopeDirection(topLeft, topRight, botLeft, botRight float32) Direction {
	sides := [4]struct {
		sum float32
		dir Direction
	}{
		{topLeft + topRight, South},
		{botLeft + botRight, North},
		{topLeft + botLeft, East},
		{topRight + botRight, West},
	}

	best := sides[0]
	for _, s := range sides[1:] {
		if s.sum > best.sum {
			best = s
		}
	}
	return best.dir
}
