package heightfield

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Build errors.
var (
	ErrInvalidSize = errors.New("grid size must be at least 2")
	ErrNoPoints    = errors.New("no control points")
	ErrUnknownAlgo = errors.New("unknown griding algorithm")
	// ErrInvalidOptions marks kernel settings whose weight would grow with distance.
	ErrInvalidOptions = errors.New("invalid kernel options")
)

// Algo selects how control point weights are turned into a height.
type Algo int

const (
	// AlgoRBF takes the maximum weighted height under a 1-k·d² kernel.
	AlgoRBF Algo = iota
	// AlgoKriging takes the normalized inverse-distance weighted average.
	AlgoKriging
)

// String returns the config name of the algorithm.
func (a Algo) String() string {
	switch a {
	case AlgoRBF:
		return "rbf"
	case AlgoKriging:
		return "kriging"
	default:
		return fmt.Sprintf("Algo(%d)", int(a))
	}
}

// ParseAlgo converts a config name into an Algo.
func ParseAlgo(name string) (Algo, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rbf", "":
		return AlgoRBF, nil
	case "kriging", "idw":
		return AlgoKriging, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgo, name)
}

// Options tunes the weighting kernels.
type Options struct {
	RBFShape      float64 // k in w = 1 - k·d²
	Power         float64 // p in w = 1 / d^p
	DistanceFloor float64 // minimum distance used by the inverse-distance kernel
}

// DefaultOptions returns the kernel settings used when none are given.
func DefaultOptions() Options {
	return Options{
		RBFShape:      5,
		Power:         2,
		DistanceFloor: 1e-6,
	}
}

// NewOptions applies opts over DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Validate checks that both kernels are non-increasing in distance.
func (o Options) Validate() error {
	switch {
	case math.IsNaN(o.RBFShape) || o.RBFShape < 0:
		return fmt.Errorf("%w: rbf shape %v must not be negative", ErrInvalidOptions, o.RBFShape)
	case math.IsNaN(o.Power) || o.Power <= 0:
		return fmt.Errorf("%w: power %v must be positive", ErrInvalidOptions, o.Power)
	case math.IsNaN(o.DistanceFloor) || o.DistanceFloor < 0:
		return fmt.Errorf("%w: distance floor %v must not be negative", ErrInvalidOptions, o.DistanceFloor)
	}
	return nil
}

// Option modifies Options.
type Option func(*Options)

// WithRBFShape sets the RBF kernel steepness.
func WithRBFShape(k float64) Option {
	return func(o *Options) { o.RBFShape = k }
}

// WithPower sets the inverse-distance exponent.
func WithPower(p float64) Option {
	return func(o *Options) { o.Power = p }
}

// WithDistanceFloor sets the minimum distance for the inverse-distance kernel.
func WithDistanceFloor(d float64) Option {
	return func(o *Options) { o.DistanceFloor = d }
}

// Grid is a square height grid. Heights are row-major: index z*Size + x.
type Grid struct {
	Size    int
	Heights []float32
}

// NewGrid returns an all-zero grid.
func NewGrid(size int) *Grid {
	return &Grid{
		Size:    size,
		Heights: make([]float32, size*size),
	}
}

// At returns the height at lattice point (x, z), or 0 when out of bounds.
func (g *Grid) At(x, z int) float32 {
	if x < 0 || z < 0 || x >= g.Size || z >= g.Size {
		return 0
	}
	return g.Heights[z*g.Size+x]
}

// Set stores a height at lattice point (x, z). Out-of-bounds writes are ignored.
func (g *Grid) Set(x, z int, h float32) {
	if x < 0 || z < 0 || x >= g.Size || z >= g.Size {
		return
	}
	g.Heights[z*g.Size+x] = h
}

// Stats returns the minimum, maximum and mean height.
func (g *Grid) Stats() (min, max, mean float32) {
	if len(g.Heights) == 0 {
		return 0, 0, 0
	}
	min, max = g.Heights[0], g.Heights[0]
	var sum float64
	for _, h := range g.Heights {
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
		sum += float64(h)
	}
	return min, max, float32(sum / float64(len(g.Heights)))
}

// Coord returns the [-1, 1] planar coordinate of lattice index i.
func (g *Grid) Coord(i int) float64 {
	return Coord(i, g.Size)
}

// Coord maps lattice index i of a size-point axis onto [-1, 1].
func Coord(i, size int) float64 {
	if size < 2 {
		return 0
	}
	return -1 + 2*float64(i)/float64(size-1)
}

// Build interpolates a size×size grid from control points.
// Any invalid point aborts the build; no partial grid is returned.
func Build(points []Point, size int, algo Algo, opts ...Option) (*Grid, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	for _, p := range points {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	o := NewOptions(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}

	var kernel func(distSq float64) float64
	var combine func(weights, heights, scratch []float64) float64
	switch algo {
	case AlgoRBF:
		kernel = rbfKernel(o.RBFShape)
		combine = maxWeighted
	case AlgoKriging:
		kernel = inverseDistanceKernel(o.Power, o.DistanceFloor)
		combine = weightedAverage
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownAlgo, algo)
	}

	heights := make([]float64, len(points))
	for i, p := range points {
		heights[i] = p.Y
	}
	weights := make([]float64, len(points))
	scratch := make([]float64, len(points))

	g := NewGrid(size)
	for z := range size {
		cz := Coord(z, size)
		for x := range size {
			cx := Coord(x, size)
			for i, p := range points {
				weights[i] = kernel(p.distSqXZ(cx, cz))
			}
			h := combine(weights, heights, scratch)
			g.Heights[z*size+x] = float32(clamp01(h))
		}
	}

	return g, nil
}

// rbfKernel returns w = max(0, 1 - k·d²).
func rbfKernel(k float64) func(float64) float64 {
	return func(distSq float64) float64 {
		return math.Max(0, 1-k*distSq)
	}
}

// inverseDistanceKernel returns w = 1 / max(d, floor)^p.
func inverseDistanceKernel(p, floor float64) func(float64) float64 {
	if floor <= 0 {
		floor = DefaultOptions().DistanceFloor
	}
	return func(distSq float64) float64 {
		d := math.Max(math.Sqrt(distSq), floor)
		return 1 / math.Pow(d, p)
	}
}

// maxWeighted returns max(w·y).
func maxWeighted(weights, heights, scratch []float64) float64 {
	floats.MulTo(scratch, weights, heights)
	return floats.Max(scratch)
}

// weightedAverage returns Σw·y / Σw, or 0 when every weight is zero. When
// the sum overflows, the height of the heaviest point wins.
func weightedAverage(weights, heights, _ []float64) float64 {
	total := floats.Sum(weights)
	if math.IsInf(total, 1) {
		return heights[floats.MaxIdx(weights)]
	}
	if total <= 0 {
		return 0
	}
	h := floats.Dot(weights, heights) / total
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return heights[floats.MaxIdx(weights)]
	}
	return h
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PadBoundary appends a ring of zero-height points along the domain edge,
// steps points per side, pulling the interpolated edges toward zero.
func PadBoundary(points []Point, steps int) []Point {
	if steps < 1 {
		return points
	}
	out := make([]Point, len(points), len(points)+4*steps)
	copy(out, points)
	for i := range steps {
		t := -1 + 2*float64(i)/float64(steps)
		out = append(out,
			Point{X: t, Y: 0, Z: -1},  // north edge, west to east
			Point{X: 1, Y: 0, Z: t},   // east edge, north to south
			Point{X: -t, Y: 0, Z: 1},  // south edge, east to west
			Point{X: -1, Y: 0, Z: -t}, // west edge, south to north
		)
	}
	return out
}
