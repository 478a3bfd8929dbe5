package app

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Faultbox/mod1/internal/config"
	"github.com/Faultbox/mod1/internal/sim/voxel"
	"github.com/Faultbox/mod1/internal/stream"
	"github.com/Faultbox/mod1/pkg/heightfield"
)

// fakeSim records the calls made on it.
type fakeSim struct {
	calls []string
	waves []voxel.Direction
}

func (f *fakeSim) Tick()               { f.calls = append(f.calls, "tick") }
func (f *fakeSim) Flush()              { f.calls = append(f.calls, "flush") }
func (f *fakeSim) IncreaseWaterLevel() { f.calls = append(f.calls, "raise") }
func (f *fakeSim) CycleWaterLevel()    { f.calls = append(f.calls, "cycle") }
func (f *fakeSim) AddRainParticles()   { f.calls = append(f.calls, "rain") }

func (f *fakeSim) AddWaveParticles(from voxel.Direction) {
	f.calls = append(f.calls, "wave")
	f.waves = append(f.waves, from)
}

func (f *fakeSim) Inject(x, y, z int, dir voxel.Direction, energy int32) bool {
	f.calls = append(f.calls, "inject")
	return true
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Terrain.GridSize = 17
	cfg.Terrain.PadSteps = 4
	cfg.Simulation.Seed = 1
	cfg.Simulation.TickRate = time.Millisecond
	cfg.Stream.Interval = 5 * time.Millisecond
	return cfg
}

func TestControlsApply(t *testing.T) {
	tests := []struct {
		action Action
		owned  bool
		calls  []string
	}{
		{ActionFlush, true, []string{"flush"}},
		{ActionRaiseLevel, true, []string{"raise"}},
		{ActionWaveNorth, true, []string{"wave"}},
		{ActionToggleRain, true, nil},
		{ActionNone, true, nil},
		{ActionQuit, false, nil},
		{ActionRegrid, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			sim := &fakeSim{}
			c := NewControls(nil)
			if got := c.Apply(sim, tt.action); got != tt.owned {
				t.Errorf("Apply() = %v, want %v", got, tt.owned)
			}
			if !slices.Equal(sim.calls, tt.calls) {
				t.Errorf("calls = %v, want %v", sim.calls, tt.calls)
			}
		})
	}
}

func TestWaveActions(t *testing.T) {
	for _, d := range voxel.Directions {
		sim := &fakeSim{}
		NewControls(nil).Apply(sim, WaveAction(d))
		if len(sim.waves) != 1 || sim.waves[0] != d {
			t.Errorf("WaveAction(%v) sent waves %v", d, sim.waves)
		}
	}
}

func TestControlsStep(t *testing.T) {
	sim := &fakeSim{}
	c := NewControls(nil)
	c.CycleEvery = 2

	c.Step(sim)
	c.Apply(sim, ActionToggleRain)
	c.Apply(sim, ActionToggleCycle)
	c.Step(sim)
	c.Step(sim)

	want := []string{"tick", "rain", "cycle", "tick", "rain", "tick"}
	if !slices.Equal(sim.calls, want) {
		t.Errorf("calls = %v, want %v", sim.calls, want)
	}

	c.Apply(sim, ActionToggleRain)
	if c.Rain {
		t.Error("rain still on after second toggle")
	}
}

func TestCommandAction(t *testing.T) {
	tests := []struct {
		cmd  stream.Command
		want Action
		err  bool
	}{
		{stream.Command{Action: "flush"}, ActionFlush, false},
		{stream.Command{Action: "RAISE"}, ActionRaiseLevel, false},
		{stream.Command{Action: "wave", Dir: "west"}, ActionWaveWest, false},
		{stream.Command{Action: "wave", Dir: "up"}, ActionNone, true},
		{stream.Command{Action: "regrid"}, ActionRegrid, false},
		{stream.Command{Action: "quit"}, ActionNone, true},
		{stream.Command{Action: "inject"}, ActionNone, false},
	}

	for _, tt := range tests {
		got, err := CommandAction(tt.cmd)
		if tt.err {
			if !errors.Is(err, ErrUnknownCommand) {
				t.Errorf("CommandAction(%+v) error = %v, want ErrUnknownCommand", tt.cmd, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("CommandAction(%+v) = %v, %v, want %v", tt.cmd, got, err, tt.want)
		}
	}
}

func TestControlsCommandInject(t *testing.T) {
	sim := &fakeSim{}
	c := NewControls(nil)

	a, done, err := c.Command(sim, stream.Command{Action: "inject", X: 1, Y: 2, Z: 3, Energy: 5})
	if err != nil || !done || a != ActionNone {
		t.Fatalf("Command(inject) = %v, %v, %v", a, done, err)
	}
	if !slices.Equal(sim.calls, []string{"inject"}) {
		t.Errorf("calls = %v", sim.calls)
	}

	a, done, err = c.Command(sim, stream.Command{Action: "regrid"})
	if err != nil || done || a != ActionRegrid {
		t.Errorf("Command(regrid) = %v, %v, %v, want caller-owned regrid", a, done, err)
	}
}

func TestDemoPoints(t *testing.T) {
	points, err := DemoPoints()
	if err != nil {
		t.Fatalf("DemoPoints() error = %v", err)
	}
	if len(points) == 0 {
		t.Fatal("no demo points")
	}
}

func TestLoadTerrain(t *testing.T) {
	cfg := testConfig()
	terrain, err := LoadTerrain(cfg.Terrain, cfg.ColumnHeight(), nil)
	if err != nil {
		t.Fatalf("LoadTerrain() error = %v", err)
	}
	if terrain.Source != "demo" {
		t.Errorf("Source = %q, want demo", terrain.Source)
	}
	if terrain.Heights.Size != 17 {
		t.Errorf("height grid size = %d, want 17", terrain.Heights.Size)
	}
	if terrain.Voxels.Width != 16 || terrain.Voxels.Height != 8 {
		t.Errorf("voxel grid = %dx%d, want 16x8", terrain.Voxels.Width, terrain.Voxels.Height)
	}
	if terrain.Voxels.Count(voxel.Border) == 0 {
		t.Error("demo terrain has no borders")
	}
}

func TestLoadTerrainErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.mod1")
	if err := os.WriteFile(bad, []byte("0,0.5,0\n0,2,0\n"), 0644); err != nil {
		t.Fatalf("write points: %v", err)
	}

	cfg := testConfig()
	cfg.Terrain.PointsFile = bad
	_, err := LoadTerrain(cfg.Terrain, 8, nil)
	if !errors.Is(err, heightfield.ErrYOutOfRange) {
		t.Errorf("LoadTerrain(bad file) error = %v, want ErrYOutOfRange", err)
	}
	if err != nil && strings.Count(err.Error(), bad) != 1 {
		t.Errorf("LoadTerrain(bad file) error = %q, want the path exactly once", err)
	}

	missing := filepath.Join(dir, "missing.mod1")
	cfg.Terrain.PointsFile = missing
	_, err = LoadTerrain(cfg.Terrain, 8, nil)
	if err == nil {
		t.Fatal("LoadTerrain(missing file) succeeded")
	}
	if strings.Count(err.Error(), missing) != 1 {
		t.Errorf("LoadTerrain(missing file) error = %q, want the path exactly once", err)
	}
}

func TestSessionRegrid(t *testing.T) {
	dir := t.TempDir()
	points := filepath.Join(dir, "hill.mod1")
	if err := os.WriteFile(points, []byte("0,0.9,0\n"), 0644); err != nil {
		t.Fatalf("write points: %v", err)
	}

	cfg := testConfig()
	s, err := NewSession(cfg, nil)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	s.Sim.AddWaveParticles(voxel.North)
	if s.Sim.ActiveCount() == 0 {
		t.Fatal("wave added no particles")
	}

	cfg.Terrain.PointsFile = points
	if quit, err := s.Handle(ActionRegrid); quit || err != nil {
		t.Fatalf("Handle(regrid) = %v, %v", quit, err)
	}
	if s.Terrain.Source != points {
		t.Errorf("Source = %q, want %q", s.Terrain.Source, points)
	}
	if s.Sim.ActiveCount() != 0 {
		t.Errorf("regrid kept %d particles", s.Sim.ActiveCount())
	}

	// a failed regrid keeps the old terrain
	os.Remove(points)
	before := s.Terrain
	if _, err := s.Handle(ActionRegrid); err == nil {
		t.Error("regrid of a missing file succeeded")
	}
	if s.Terrain != before {
		t.Error("failed regrid replaced the terrain")
	}

	if quit, _ := s.Handle(ActionQuit); !quit {
		t.Error("Handle(quit) did not ask to quit")
	}
}

func TestSessionPourAt(t *testing.T) {
	s, err := NewSession(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	g := s.Sim.Grid()

	if !s.PourAt(-1, 0.999) {
		t.Fatal("PourAt(corner) = false")
	}
	loc, v := s.Sim.Particle(0)
	if loc.X != 0 || loc.Z != g.Width-1 || loc.Y != g.Height-2 {
		t.Errorf("particle at %v, want column (0, %d) at y %d", loc, g.Width-1, g.Height-2)
	}
	if v.Kind != voxel.Water {
		t.Errorf("voxel = %v, want water", v)
	}

	if s.PourAt(-1, 0.999) {
		t.Error("PourAt(same cell) = true, want occupied")
	}
	for _, p := range [][2]float32{{1, 0}, {0, 1.5}, {-1.2, 0}} {
		if s.PourAt(p[0], p[1]) {
			t.Errorf("PourAt(%v) = true, want off terrain", p)
		}
	}
}

func TestHeadlessStream(t *testing.T) {
	h, err := NewHeadless(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewHeadless() error = %v", err)
	}
	srv := httptest.NewServer(h.Hub())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		cancel()
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var f stream.Frame
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&f); err != nil {
		cancel()
		t.Fatalf("read terrain frame: %v", err)
	}
	if f.Type != stream.FrameTerrain || f.Size != 17 || f.Lattice == nil || f.Lattice.Wxz != 17 {
		t.Errorf("terrain frame = type %q size %d lattice %+v", f.Type, f.Size, f.Lattice)
	}

	if err := conn.WriteJSON(stream.Command{Action: "wave", Dir: "south"}); err != nil {
		cancel()
		t.Fatalf("send command: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		if err := conn.ReadJSON(&f); err != nil {
			cancel()
			t.Fatalf("no water frame with particles: %v", err)
		}
		if f.Type == stream.FrameWater && f.Active > 0 {
			break
		}
	}
	if len(f.Indices) != f.Active*6 {
		t.Errorf("water frame has %d indices for %d particles", len(f.Indices), f.Active)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
