// heightgrid is a CLI utility for checking control point files and
// inspecting the height grids built from them.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/mod1/internal/engine/debug"
	"github.com/Faultbox/mod1/internal/sim/voxel"
	"github.com/Faultbox/mod1/pkg/heightfield"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "check":
		cmdCheck(args)
	case "info":
		cmdInfo(args)
	case "preview", "p":
		cmdPreview(args)
	case "png":
		cmdPNG(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`heightgrid - control point and height grid utility

Usage:
  heightgrid <command> [options] <file>

Commands:
  check <file>                       Validate a control points file
  info [-size N] [-algo A] <file>    Build the grid and print statistics
  preview [-size N] [-algo A] <file> Print the grid as ASCII shading
  png [-o out.png] [options] <file>  Write the grid as a grayscale PNG

Options:
  -size N     lattice points per side (default 100, preview 40)
  -algo A     rbf or kriging (default rbf)
  -pad N      boundary padding steps, 0 disables (default 20)

Examples:
  heightgrid check resources/demo1.mod1
  heightgrid info -algo kriging resources/demo1.mod1
  heightgrid preview -size 60 resources/demo3.mod1
  heightgrid png -size 256 -o demo2.png resources/demo2.mod1`)
}

func cmdCheck(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: heightgrid check <file>")
		os.Exit(1)
	}

	points, err := heightfield.ParseFile(args[0])
	if err != nil {
		fail(err)
	}
	fmt.Printf("%s: %d points OK\n", args[0], len(points))
}

// gridFlags are the options shared by info and preview.
type gridFlags struct {
	fs   *flag.FlagSet
	size *int
	algo *string
	pad  *int
}

func newGridFlags(name string, size int) gridFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return gridFlags{
		fs:   fs,
		size: fs.Int("size", size, "Lattice points per side"),
		algo: fs.String("algo", "rbf", "Griding algorithm (rbf, kriging)"),
		pad:  fs.Int("pad", 20, "Boundary padding steps, 0 disables"),
	}
}

func (g gridFlags) build(args []string) (*heightfield.Grid, heightfield.Algo, int) {
	g.fs.Parse(args)
	if g.fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: heightgrid %s [options] <file>\n", g.fs.Name())
		os.Exit(1)
	}

	points, err := heightfield.ParseFile(g.fs.Arg(0))
	if err != nil {
		fail(err)
	}
	n := len(points)
	if *g.pad > 0 {
		points = heightfield.PadBoundary(points, *g.pad)
	}

	algo, err := heightfield.ParseAlgo(*g.algo)
	if err != nil {
		fail(err)
	}
	grid, err := heightfield.Build(points, *g.size, algo)
	if err != nil {
		fail(err)
	}
	return grid, algo, n
}

func cmdInfo(args []string) {
	g := newGridFlags("info", 100)
	grid, algo, n := g.build(args)

	lo, hi, mean := grid.Stats()
	fmt.Printf("File:    %s\n", g.fs.Arg(0))
	fmt.Printf("Points:  %d\n", n)
	fmt.Printf("Algo:    %s\n", algo)
	fmt.Printf("Grid:    %d x %d\n", grid.Size, grid.Size)
	fmt.Printf("Heights: min %.3f  max %.3f  mean %.3f\n", lo, hi, mean)

	height := max(3, grid.Size/2)
	voxels, err := voxel.Voxelize(grid, height)
	if err != nil {
		fail(err)
	}
	total := voxels.Width * voxels.Width * voxels.Height
	borders := voxels.Count(voxel.Border)
	fmt.Printf("Voxels:  %d x %d x %d, %d border (%.1f%%)\n",
		voxels.Width, voxels.Width, voxels.Height, borders, 100*float64(borders)/float64(total))
}

// shades runs from low to high terrain.
const shades = " .:-=+*#%@"

func cmdPreview(args []string) {
	g := newGridFlags("preview", 40)
	grid, _, _ := g.build(args)

	var b strings.Builder
	for z := range grid.Size {
		for x := range grid.Size {
			h := grid.At(x, z)
			i := min(int(h*float32(len(shades))), len(shades)-1)
			// double each cell so the preview keeps its aspect ratio
			b.WriteByte(shades[i])
			b.WriteByte(shades[i])
		}
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
}

func cmdPNG(args []string) {
	g := newGridFlags("png", 256)
	out := g.fs.String("o", "", "Output file (default: input name with .png)")
	grid, _, _ := g.build(args)

	path := *out
	if path == "" {
		path = strings.TrimSuffix(g.fs.Arg(0), filepath.Ext(g.fs.Arg(0))) + ".png"
	}
	if err := debug.WritePNG(path, debug.HeightImage(grid)); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", path, grid.Size, grid.Size)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
