// Package geometry keeps the renderable quads of active water particles in
// step with their grid locations.
package geometry

import "fmt"

// IndicesPerShape is the number of element indices per particle quad.
const IndicesPerShape = 6

// Lattice describes the render vertex lattice: Wxz points along x and z,
// Hy points along y. A voxel grid of W columns uses Wxz = W+1.
type Lattice struct {
	Wxz uint32
	Hy  uint32
}

// Points returns the number of lattice vertices.
func (l Lattice) Points() int {
	return int(l.Wxz) * int(l.Wxz) * int(l.Hy)
}

// Location is a particle's voxel coordinate.
type Location struct {
	X, Y, Z int
}

func (l Location) String() string {
	return fmt.Sprintf("(%d, %d, %d)", l.X, l.Y, l.Z)
}

// Move is a single-cell particle displacement.
type Move uint8

// Moves.
const (
	Down Move = iota
	North
	South
	East
	West
)

// Offset returns the location change of a move.
func (m Move) Offset() (dx, dy, dz int) {
	switch m {
	case Down:
		return 0, -1, 0
	case North:
		return 0, 0, -1
	case South:
		return 0, 0, 1
	case East:
		return 1, 0, 0
	case West:
		return -1, 0, 0
	}
	return 0, 0, 0
}

// Delta returns the index offset a move applies to every corner of a shape.
func (l Lattice) Delta(m Move) int64 {
	row := int64(l.Wxz) * int64(l.Hy)
	switch m {
	case Down:
		return -1
	case North:
		return -row
	case South:
		return row
	case East:
		return int64(l.Hy)
	case West:
		return -int64(l.Hy)
	}
	return 0
}

// Shape is a particle quad: triangles (p0, p1, p2) and (p0, p3, p2).
type Shape [IndicesPerShape]uint32

// NewShape computes the canonical quad of a particle at loc.
func NewShape(loc Location, lat Lattice) Shape {
	p0 := uint32(loc.Z)*lat.Wxz*lat.Hy + uint32(loc.X)*lat.Hy + uint32(loc.Y) // top left
	p1 := p0 + lat.Hy                                                         // top right
	p2 := p0 + lat.Hy*(lat.Wxz+1)                                             // bottom right
	p3 := p0 + lat.Hy*lat.Wxz                                                 // bottom left
	return Shape{p0, p1, p2, p0, p3, p2}
}

// Translate shifts every corner index by delta.
func (s *Shape) Translate(delta int64) {
	for i := range s {
		s[i] = uint32(int64(s[i]) + delta)
	}
}

// Vertices returns one x,y,z position per lattice point in (z, x, y) order.
// x and z span [-1, 1], y spans [0, 1].
func Vertices(lat Lattice) []float32 {
	if lat.Wxz < 2 || lat.Hy < 2 {
		return nil
	}
	xzStep := 2 / float32(lat.Wxz-1)
	yStep := 1 / float32(lat.Hy-1)

	vertices := make([]float32, 0, lat.Points()*3)
	for z := range lat.Wxz {
		cz := -1 + float32(z)*xzStep
		for x := range lat.Wxz {
			cx := -1 + float32(x)*xzStep
			for y := range lat.Hy {
				vertices = append(vertices, cx, float32(y)*yStep, cz)
			}
		}
	}
	return vertices
}
