package voxel

import (
	"errors"
	"fmt"
)

// Grid errors.
var (
	ErrInvalidDimensions = errors.New("invalid voxel grid dimensions")
	ErrNilHeightGrid     = errors.New("nil height grid")
)

// Grid is a Width×Width×Height voxel volume stored flat, column-major by y:
// index (z*Width + x)*Height + y.
type Grid struct {
	Width  int // columns per side (x and z)
	Height int // cells per column (y)
	cells  []Voxel
}

// NewGrid returns an all-empty grid.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 3 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrInvalidDimensions, width, width, height)
	}
	return &Grid{
		Width:  width,
		Height: height,
		cells:  make([]Voxel, width*width*height),
	}, nil
}

// InBounds reports whether (x, y, z) is inside the grid.
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && z >= 0 && y >= 0 && x < g.Width && z < g.Width && y < g.Height
}

// Interior reports whether column (x, z) does not touch the domain edge.
func (g *Grid) Interior(x, z int) bool {
	return x > 0 && z > 0 && x < g.Width-1 && z < g.Width-1
}

func (g *Grid) index(x, y, z int) int {
	return (z*g.Width+x)*g.Height + y
}

// At returns the voxel at (x, y, z). ok is false when the cell does not exist.
func (g *Grid) At(x, y, z int) (v Voxel, ok bool) {
	if !g.InBounds(x, y, z) {
		return Voxel{}, false
	}
	return g.cells[g.index(x, y, z)], true
}

// Set stores a voxel. It returns false and does nothing when out of bounds.
func (g *Grid) Set(x, y, z int, v Voxel) bool {
	if !g.InBounds(x, y, z) {
		return false
	}
	g.cells[g.index(x, y, z)] = v
	return true
}

// IsEmpty reports whether (x, y, z) exists and is unoccupied.
func (g *Grid) IsEmpty(x, y, z int) bool {
	v, ok := g.At(x, y, z)
	return ok && v.Kind == Empty
}

// LayerFull reports whether every column holds a non-empty cell at height y.
func (g *Grid) LayerFull(y int) bool {
	if y < 0 || y >= g.Height {
		return false
	}
	for z := range g.Width {
		for x := range g.Width {
			if g.cells[g.index(x, y, z)].Kind == Empty {
				return false
			}
		}
	}
	return true
}

// ColumnHeight returns the number of Border cells at the bottom of column (x, z).
func (g *Grid) ColumnHeight(x, z int) int {
	n := 0
	for y := range g.Height {
		v, ok := g.At(x, y, z)
		if !ok || v.Kind != Border {
			break
		}
		n++
	}
	return n
}

// Reset turns every Water voxel back into Empty. Borders are kept.
func (g *Grid) Reset() {
	for i := range g.cells {
		if g.cells[i].Kind == Water {
			g.cells[i] = Voxel{}
		}
	}
}

// Count returns the number of voxels of the given kind.
func (g *Grid) Count(kind Kind) int {
	n := 0
	for _, v := range g.cells {
		if v.Kind == kind {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{Width: g.Width, Height: g.Height, cells: make([]Voxel, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}
