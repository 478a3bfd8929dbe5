package heightfield

// SurfaceMesh returns the terrain surface as a flat x,y,z vertex array (one
// vertex per lattice point, row-major by z) and two triangles per cell.
func (g *Grid) SurfaceMesh() ([]float32, []uint32) {
	if g.Size < 2 {
		return nil, nil
	}

	n := g.Size
	vertices := make([]float32, 0, n*n*3)
	for z := range n {
		cz := float32(Coord(z, n))
		for x := range n {
			vertices = append(vertices, float32(Coord(x, n)), g.Heights[z*n+x], cz)
		}
	}

	indices := make([]uint32, 0, (n-1)*(n-1)*6)
	for z := range n - 1 {
		for x := range n - 1 {
			tl := uint32(z*n + x)
			tr := tl + 1
			bl := tl + uint32(n)
			br := bl + 1
			indices = append(indices,
				tl, tr, br,
				tl, bl, br,
			)
		}
	}

	return vertices, indices
}

// Bounds returns the axis-aligned extents of the surface.
func (g *Grid) Bounds() (min, max [3]float32) {
	lo, hi, _ := g.Stats()
	return [3]float32{-1, lo, -1}, [3]float32{1, hi, 1}
}
