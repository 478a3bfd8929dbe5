// Package heightfield builds dense terrain height grids from scattered control points.
package heightfield

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Points file errors.
var (
	ErrNotText                     = errors.New("points file is not text")
	ErrPointDoesNotHave3Components = errors.New("point does not have 3 components")
	ErrComponentNotNumeric         = errors.New("point component is not numeric")
	ErrXOutOfRange                 = errors.New("x out of range [-1, 1]")
	ErrYOutOfRange                 = errors.New("y out of range [0, 1]")
	ErrZOutOfRange                 = errors.New("z out of range [-1, 1]")
)

// ParseError describes the first malformed point in a points file.
type ParseError struct {
	Line    int    // 1-based, 0 when not tied to a line
	Literal string // offending text
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Literal)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Literal)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Point is a terrain control point. Y is the height, X and Z the planar position.
type Point struct {
	X, Y, Z float64
}

// String returns the point as "(x, y, z)".
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Validate reports the first out-of-range component.
func (p Point) Validate() error {
	if p.X < -1 || p.X > 1 {
		return &ParseError{Literal: strconv.FormatFloat(p.X, 'g', -1, 64), Err: ErrXOutOfRange}
	}
	if p.Y < 0 || p.Y > 1 {
		return &ParseError{Literal: strconv.FormatFloat(p.Y, 'g', -1, 64), Err: ErrYOutOfRange}
	}
	if p.Z < -1 || p.Z > 1 {
		return &ParseError{Literal: strconv.FormatFloat(p.Z, 'g', -1, 64), Err: ErrZOutOfRange}
	}
	return nil
}

// distSqXZ returns the squared planar distance between p and (x, z).
func (p Point) distSqXZ(x, z float64) float64 {
	dx := p.X - x
	dz := p.Z - z
	return dx*dx + dz*dz
}

// ParseLine parses a single "x,y,z" line.
func ParseLine(line string) (Point, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 3 {
		return Point{}, &ParseError{Literal: line, Err: ErrPointDoesNotHave3Components}
	}

	var vals [3]float64
	for i, part := range parts {
		s := strings.TrimSpace(part)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) {
			return Point{}, &ParseError{Literal: s, Err: ErrComponentNotNumeric}
		}
		vals[i] = v
	}

	p := Point{X: vals[0], Y: vals[1], Z: vals[2]}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Parse reads one point per line. Blank lines and '#' comments are skipped.
// The first malformed line aborts parsing and no points are returned.
func Parse(r io.Reader) ([]Point, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading points: %w", err)
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return nil, &ParseError{Literal: preview(data), Err: ErrNotText}
	}

	var points []Point
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p, err := ParseLine(line)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = lineNo
			}
			return nil, err
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning points: %w", err)
	}

	return points, nil
}

// ParseFile parses a points file from disk.
func ParseFile(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	points, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

// preview returns a short printable prefix of binary data for diagnostics.
func preview(data []byte) string {
	const n = 16
	if len(data) > n {
		data = data[:n]
	}
	return fmt.Sprintf("%x", data)
}
