package heightfield

import (
	"errors"
	"math"
	"testing"
)

func testPoints() []Point {
	return []Point{
		{X: 0, Y: 0.7, Z: 0},
		{X: -0.6, Y: 0.3, Z: 0.4},
		{X: 0.5, Y: 1, Z: -0.5},
		{X: 0.5, Y: 1, Z: -0.5}, // coincident on purpose
	}
}

func TestBuild_HeightsInRange(t *testing.T) {
	for _, algo := range []Algo{AlgoRBF, AlgoKriging} {
		t.Run(algo.String(), func(t *testing.T) {
			g, err := Build(PadBoundary(testPoints(), 8), 33, algo)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if len(g.Heights) != 33*33 {
				t.Fatalf("expected %d heights, got %d", 33*33, len(g.Heights))
			}
			for i, h := range g.Heights {
				if h < 0 || h > 1 {
					t.Fatalf("height %d = %v out of [0,1]", i, h)
				}
			}
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a, err := Build(testPoints(), 17, AlgoKriging)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	b, _ := Build(testPoints(), 17, AlgoKriging)
	for i := range a.Heights {
		if a.Heights[i] != b.Heights[i] {
			t.Fatalf("height %d differs: %v vs %v", i, a.Heights[i], b.Heights[i])
		}
	}
}

func TestBuild_RBFPeak(t *testing.T) {
	// size 3 puts lattice point (1,1) at the origin
	g, err := Build([]Point{{X: 0, Y: 0.8, Z: 0}}, 3, AlgoRBF)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := g.At(1, 1); got < 0.799 || got > 0.801 {
		t.Errorf("center height = %v, want 0.8", got)
	}
	// corners are at d² = 2, beyond the kernel support
	if got := g.At(0, 0); got != 0 {
		t.Errorf("corner height = %v, want 0", got)
	}
}

func TestBuild_KrigingHitsControlPoint(t *testing.T) {
	points := []Point{
		{X: -1, Y: 0.2, Z: -1},
		{X: 1, Y: 0.9, Z: 1},
	}
	g, err := Build(points, 5, AlgoKriging)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := g.At(0, 0); got < 0.199 || got > 0.201 {
		t.Errorf("height at first control point = %v, want 0.2", got)
	}
	if got := g.At(4, 4); got < 0.899 || got > 0.901 {
		t.Errorf("height at second control point = %v, want 0.9", got)
	}
	mid := g.At(2, 2)
	if mid < 0.2 || mid > 0.9 {
		t.Errorf("midpoint height %v not between control heights", mid)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		size   int
		algo   Algo
		want   error
	}{
		{"size too small", testPoints(), 1, AlgoRBF, ErrInvalidSize},
		{"no points", nil, 10, AlgoRBF, ErrNoPoints},
		{"unknown algo", testPoints(), 10, Algo(9), ErrUnknownAlgo},
		{"x out of range", []Point{{X: 2}}, 10, AlgoRBF, ErrXOutOfRange},
		{"y out of range", []Point{{Y: -1}}, 10, AlgoRBF, ErrYOutOfRange},
		{"z out of range", []Point{{Z: 1.5}}, 10, AlgoKriging, ErrZOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.points, tt.size, tt.algo)
			if !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
			if g != nil {
				t.Error("expected no grid on error")
			}
		})
	}
}

func TestBuild_InvalidOptions(t *testing.T) {
	center := []Point{{X: 0, Y: 0.5, Z: 0}}

	tests := []struct {
		name string
		algo Algo
		opt  Option
	}{
		{"negative rbf shape", AlgoRBF, WithRBFShape(-5)},
		{"negative power", AlgoKriging, WithPower(-2)},
		{"zero power", AlgoKriging, WithPower(0)},
		{"nan power", AlgoKriging, WithPower(math.NaN())},
		{"negative floor", AlgoKriging, WithDistanceFloor(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(center, 21, tt.algo, tt.opt)
			if !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("Build() error = %v, want ErrInvalidOptions", err)
			}
			if g != nil {
				t.Error("expected no grid on error")
			}
		})
	}

	if err := NewOptions(WithRBFShape(0), WithPower(0.5)).Validate(); err != nil {
		t.Errorf("Validate(flat rbf, fractional power) = %v", err)
	}
}

func TestBuild_RBFFallsWithDistance(t *testing.T) {
	g, err := Build([]Point{{X: 0, Y: 0.5, Z: 0}}, 21, AlgoRBF, WithRBFShape(5))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if center, corner := g.At(10, 10), g.At(0, 0); corner > center {
		t.Errorf("corner %v above center %v", corner, center)
	}
}

func TestBuild_KrigingOverflowKeepsCoincidentHeight(t *testing.T) {
	// 1e-6^200 underflows to 0, so the coincident weight is +Inf
	points := []Point{
		{X: 0, Y: 0.8, Z: 0},
		{X: 1, Y: 0.1, Z: 1},
	}
	g, err := Build(points, 3, AlgoKriging, WithPower(200))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if h := g.At(1, 1); math.Abs(float64(h)-0.8) > 1e-6 {
		t.Errorf("height at control point = %v, want 0.8", h)
	}
	if h := g.At(2, 2); math.Abs(float64(h)-0.1) > 1e-6 {
		t.Errorf("height at second control point = %v, want 0.1", h)
	}
}

func TestParseAlgo(t *testing.T) {
	tests := []struct {
		name string
		want Algo
	}{
		{"rbf", AlgoRBF},
		{"", AlgoRBF},
		{"Kriging", AlgoKriging},
		{"idw", AlgoKriging},
	}
	for _, tt := range tests {
		got, err := ParseAlgo(tt.name)
		if err != nil {
			t.Errorf("ParseAlgo(%q) failed: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAlgo(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, err := ParseAlgo("spline"); !errors.Is(err, ErrUnknownAlgo) {
		t.Errorf("expected ErrUnknownAlgo, got %v", err)
	}
}

func TestPadBoundary(t *testing.T) {
	base := []Point{{X: 0, Y: 1, Z: 0}}
	padded := PadBoundary(base, 4)
	if len(padded) != 1+16 {
		t.Fatalf("expected 17 points, got %d", len(padded))
	}
	for _, p := range padded[1:] {
		if p.Y != 0 {
			t.Errorf("padding point %v has non-zero height", p)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("padding point %v invalid: %v", p, err)
		}
		onEdge := p.X == -1 || p.X == 1 || p.Z == -1 || p.Z == 1
		if !onEdge {
			t.Errorf("padding point %v not on boundary", p)
		}
	}
	if len(PadBoundary(base, 0)) != 1 {
		t.Error("zero steps should not pad")
	}
}

func TestSurfaceMesh(t *testing.T) {
	g := NewGrid(3)
	g.Set(1, 1, 0.5)

	vertices, indices := g.SurfaceMesh()
	if len(vertices) != 9*3 {
		t.Fatalf("expected 27 vertex floats, got %d", len(vertices))
	}
	if len(indices) != 4*6 {
		t.Fatalf("expected 24 indices, got %d", len(indices))
	}
	// center vertex is index 4: (0, 0.5, 0)
	if vertices[12] != 0 || vertices[13] != 0.5 || vertices[14] != 0 {
		t.Errorf("center vertex = %v, want [0 0.5 0]", vertices[12:15])
	}
	for _, idx := range indices {
		if idx >= 9 {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestGridStats(t *testing.T) {
	g := NewGrid(2)
	copy(g.Heights, []float32{0, 0.5, 1, 0.5})
	lo, hi, mean := g.Stats()
	if lo != 0 || hi != 1 || mean != 0.5 {
		t.Errorf("Stats() = %v, %v, %v, want 0, 1, 0.5", lo, hi, mean)
	}
}
