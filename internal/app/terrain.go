package app

import (
	"bytes"
	_ "embed"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/mod1/internal/config"
	"github.com/Faultbox/mod1/internal/sim/voxel"
	"github.com/Faultbox/mod1/pkg/heightfield"
)

//go:embed demo.mod1
var demoPoints []byte

// Terrain is a height grid together with its voxelized borders.
type Terrain struct {
	Heights *heightfield.Grid
	Voxels  *voxel.Grid
	Source  string // points file, or "demo"
}

// DemoPoints returns the built-in control points used when no points file
// is configured.
func DemoPoints() ([]heightfield.Point, error) {
	return heightfield.Parse(bytes.NewReader(demoPoints))
}

// LoadTerrain reads control points, interpolates the height grid and
// voxelizes it into columns of the given height.
func LoadTerrain(cfg config.TerrainConfig, height int, log *zap.Logger) (*Terrain, error) {
	if log == nil {
		log = zap.NewNop()
	}

	source := cfg.PointsFile
	var (
		points []heightfield.Point
		err    error
	)
	if source == "" {
		source = "demo"
		points, err = DemoPoints()
	} else {
		points, err = heightfield.ParseFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("reading control points: %w", err)
	}
	if cfg.PadBoundary {
		points = heightfield.PadBoundary(points, cfg.PadSteps)
	}

	algo, err := heightfield.ParseAlgo(cfg.Algo)
	if err != nil {
		return nil, err
	}
	heights, err := heightfield.Build(points, cfg.GridSize, algo, cfg.Options()...)
	if err != nil {
		return nil, fmt.Errorf("building height grid: %w", err)
	}
	voxels, err := voxel.Voxelize(heights, height)
	if err != nil {
		return nil, fmt.Errorf("voxelizing terrain: %w", err)
	}

	lo, hi, mean := heights.Stats()
	log.Info("terrain loaded",
		zap.String("source", source),
		zap.Int("points", len(points)),
		zap.Stringer("algo", algo),
		zap.Int("size", heights.Size),
		zap.Float32("min", lo),
		zap.Float32("max", hi),
		zap.Float32("mean", mean),
		zap.Int("borders", voxels.Count(voxel.Border)),
	)

	return &Terrain{Heights: heights, Voxels: voxels, Source: source}, nil
}
