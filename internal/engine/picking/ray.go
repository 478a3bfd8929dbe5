// Package picking turns screen positions into world rays and hit points.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/mod1/pkg/heightfield"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // normalized
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b mgl32.Vec3) AABB {
	var box AABB
	for i := range 3 {
		box.Min[i] = min(a[i], b[i])
		box.Max[i] = max(a[i], b[i])
	}
	return box
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // SDL has y down

	near := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, 1, 1})

	dir := far.Sub(near)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: near, Direction: dir}
}

func unproject(inv mgl32.Mat4, p mgl32.Vec4) mgl32.Vec3 {
	w := inv.Mul4x1(p)
	if w[3] != 0 {
		return w.Vec3().Mul(1 / w[3])
	}
	return w.Vec3()
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlaneY intersects the ray with the horizontal plane y = planeY.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if math.Abs(float64(r.Direction[1])) < 0.001 {
		return 0, 0, false
	}
	t := (planeY - r.Origin[1]) / r.Direction[1]
	if t < 0 {
		return 0, 0, false
	}
	p := r.At(t)
	return p[0], p[2], true
}

// IntersectAABB returns the entry and exit distances of the ray through box.
// A ray starting inside the box has a negative entry distance.
func (r Ray) IntersectAABB(box AABB) (tmin, tmax float32, hit bool) {
	tmin = -math.MaxFloat32
	tmax = math.MaxFloat32

	for i := range 3 {
		if r.Direction[i] == 0 {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return 0, 0, false
			}
			continue
		}
		t1 := (box.Min[i] - r.Origin[i]) / r.Direction[i]
		t2 := (box.Max[i] - r.Origin[i]) / r.Direction[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, 0, false
	}
	return tmin, tmax, true
}

// HitHeightfield marches the ray across the terrain surface of g, which
// spans [-1, 1] on x and z, and returns the first point at or below it.
func (r Ray) HitHeightfield(g *heightfield.Grid) (mgl32.Vec3, bool) {
	if g == nil || g.Size < 2 {
		return mgl32.Vec3{}, false
	}
	lo, hi := g.Bounds()
	tmin, tmax, ok := r.IntersectAABB(NewAABB(mgl32.Vec3(lo), mgl32.Vec3(hi)))
	if !ok {
		return mgl32.Vec3{}, false
	}

	step := 1 / float32(2*g.Size)
	for t := max(tmin, 0); t <= tmax+step; t += step {
		p := r.At(t)
		if p[1] <= surfaceHeight(g, p[0], p[2]) {
			return p, true
		}
	}
	return mgl32.Vec3{}, false
}

// surfaceHeight returns the height of the lattice point nearest to (x, z).
func surfaceHeight(g *heightfield.Grid, x, z float32) float32 {
	scale := float32(g.Size-1) / 2
	ix := int(math.Round(float64((x + 1) * scale)))
	iz := int(math.Round(float64((z + 1) * scale)))
	ix = min(max(ix, 0), g.Size-1)
	iz = min(max(iz, 0), g.Size-1)
	return g.At(ix, iz)
}
