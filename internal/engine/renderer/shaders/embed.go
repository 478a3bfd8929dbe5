// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// TerrainVertexShader is the vertex shader for the terrain surface.
//
//go:embed terrain.vert
var TerrainVertexShader string

// TerrainFragmentShader is the fragment shader for the terrain surface.
//
//go:embed terrain.frag
var TerrainFragmentShader string

// WaterVertexShader is the vertex shader for water particle quads.
//
//go:embed water.vert
var WaterVertexShader string

// WaterFragmentShader is the fragment shader for water particle quads.
//
//go:embed water.frag
var WaterFragmentShader string
