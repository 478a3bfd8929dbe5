package geometry

// Index is the particle arena: locations and shapes are parallel arrays that
// share one index. Shapes are computed once on Add and afterwards only
// translated by the delta of each move.
type Index struct {
	lat    Lattice
	locs   []Location
	shapes []Shape

	// front holds the indices of the last Publish; back is reused on the
	// next one so a published buffer is never written in place.
	front []uint32
	back  []uint32
}

// NewIndex returns an empty index over the given lattice.
func NewIndex(lat Lattice) *Index {
	return &Index{lat: lat}
}

// Lattice returns the lattice the shapes index into.
func (ix *Index) Lattice() Lattice {
	return ix.lat
}

// Len returns the number of particles.
func (ix *Index) Len() int {
	return len(ix.locs)
}

// Add appends a particle and returns its slot.
func (ix *Index) Add(loc Location) int {
	ix.locs = append(ix.locs, loc)
	ix.shapes = append(ix.shapes, NewShape(loc, ix.lat))
	return len(ix.locs) - 1
}

// Location returns the location of particle i.
func (ix *Index) Location(i int) Location {
	return ix.locs[i]
}

// Shape returns the quad of particle i.
func (ix *Index) Shape(i int) Shape {
	return ix.shapes[i]
}

// Move displaces particle i by one cell, updating location and shape together.
func (ix *Index) Move(i int, m Move) Location {
	dx, dy, dz := m.Offset()
	loc := &ix.locs[i]
	loc.X += dx
	loc.Y += dy
	loc.Z += dz
	ix.shapes[i].Translate(ix.lat.Delta(m))
	return *loc
}

// Retain keeps only the particles for which keep returns true, preserving
// order, and returns how many were dropped.
func (ix *Index) Retain(keep func(Location) bool) int {
	n := 0
	for i, loc := range ix.locs {
		if !keep(loc) {
			continue
		}
		ix.locs[n] = loc
		ix.shapes[n] = ix.shapes[i]
		n++
	}
	dropped := len(ix.locs) - n
	ix.locs = ix.locs[:n]
	ix.shapes = ix.shapes[:n]
	return dropped
}

// Reset drops every particle. Capacity is kept.
func (ix *Index) Reset() {
	ix.locs = ix.locs[:0]
	ix.shapes = ix.shapes[:0]
}

// Publish flattens the committed shapes into a fresh index buffer and makes
// it the one returned by Indices.
func (ix *Index) Publish() []uint32 {
	buf := ix.back[:0]
	for _, s := range ix.shapes {
		buf = append(buf, s[:]...)
	}
	ix.back = ix.front
	ix.front = buf
	return buf
}

// Indices returns the buffer of the last Publish. It stays valid until the
// Publish after next; copy it to keep it longer.
func (ix *Index) Indices() []uint32 {
	return ix.front
}
