// Package renderer draws the terrain surface and the water particle quads.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/mod1/internal/engine/lighting"
	"github.com/Faultbox/mod1/internal/engine/renderer/shaders"
	"github.com/Faultbox/mod1/internal/engine/shader"
)

// Config holds renderer configuration.
type Config struct {
	Width        int
	Height       int
	SunAzimuth   float32
	SunElevation float32
}

// mesh is one VAO with a position buffer and an element buffer.
type mesh struct {
	vao, vbo, ebo uint32
	count         int32
}

func newMesh() *mesh {
	m := &mesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return m
}

func (m *mesh) setVertices(vertices []float32, usage uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(vertices) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, usage)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), usage)
}

func (m *mesh) setIndices(indices []uint32, usage uint32) {
	// the element buffer binding is VAO state
	gl.BindVertexArray(m.vao)
	m.count = int32(len(indices))
	if len(indices) == 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, usage)
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), usage)
	}
	gl.BindVertexArray(0)
}

func (m *mesh) draw() {
	if m.count == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (m *mesh) delete() {
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	terrainProg *shader.Program
	waterProg   *shader.Program
	terrain     *mesh
	water       *mesh

	TerrainLow  mgl32.Vec4
	TerrainHigh mgl32.Vec4
	WaterColor  mgl32.Vec4
	LightDir    mgl32.Vec3
}

// New creates a renderer. The OpenGL context must already exist.
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &Renderer{
		config:      cfg,
		log:         log,
		TerrainLow:  mgl32.Vec4{0.25, 0.45, 0.2, 1},
		TerrainHigh: mgl32.Vec4{0.6, 0.5, 0.4, 1},
		WaterColor:  mgl32.Vec4{0.15, 0.4, 0.85, 0.8},
		LightDir:    lighting.SunDirection(cfg.SunAzimuth, cfg.SunElevation),
	}

	var err error
	if r.terrainProg, err = shader.New(shaders.TerrainVertexShader, shaders.TerrainFragmentShader); err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	if r.waterProg, err = shader.New(shaders.WaterVertexShader, shaders.WaterFragmentShader); err != nil {
		r.terrainProg.Delete()
		return nil, fmt.Errorf("water shader: %w", err)
	}
	r.terrain = newMesh()
	r.water = newMesh()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.3, 0.3, 0.5, 1)
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// SetTerrain uploads the terrain surface mesh.
func (r *Renderer) SetTerrain(vertices []float32, indices []uint32) {
	r.terrain.setVertices(vertices, gl.STATIC_DRAW)
	r.terrain.setIndices(indices, gl.STATIC_DRAW)
	r.log.Debug("terrain uploaded", zap.Int("vertices", len(vertices)/3), zap.Int("triangles", len(indices)/3))
}

// SetLattice uploads the static vertex lattice the water indices refer to.
func (r *Renderer) SetLattice(vertices []float32) {
	r.water.setVertices(vertices, gl.STATIC_DRAW)
	r.water.setIndices(nil, gl.DYNAMIC_DRAW)
	r.log.Debug("water lattice uploaded", zap.Int("vertices", len(vertices)/3))
}

// UpdateWater replaces the water index buffer.
func (r *Renderer) UpdateWater(indices []uint32) {
	r.water.setIndices(indices, gl.DYNAMIC_DRAW)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Draw clears the frame and draws terrain then water.
func (r *Renderer) Draw(viewProj mgl32.Mat4) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.terrainProg.Use()
	r.terrainProg.SetMat4("uViewProj", viewProj)
	r.terrainProg.SetVec4("uLow", r.TerrainLow)
	r.terrainProg.SetVec4("uHigh", r.TerrainHigh)
	gl.Uniform3f(r.terrainProg.Uniform("uLightDir"), r.LightDir[0], r.LightDir[1], r.LightDir[2])
	r.terrain.draw()

	r.waterProg.Use()
	r.waterProg.SetMat4("uViewProj", viewProj)
	r.waterProg.SetVec4("uWaterColor", r.WaterColor)
	r.water.draw()
}

// ReadPixels reads the current back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Close frees GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.terrain.delete()
	r.water.delete()
	r.terrainProg.Delete()
	r.waterProg.Delete()
}
