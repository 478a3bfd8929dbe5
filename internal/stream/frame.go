// Package stream serves simulation geometry to websocket clients and relays
// their commands back to the simulation loop.
package stream

// Frame types.
const (
	FrameTerrain = "terrain" // sent on connect and after a re-grid
	FrameWater   = "water"   // sent every stream interval
)

// Frame is one JSON message sent to clients.
type Frame struct {
	Type string `json:"type"`

	// terrain frames
	Size     int       `json:"size,omitempty"`
	Heights  []float32 `json:"heights,omitempty"`
	Lattice  *Lattice  `json:"lattice,omitempty"`
	Vertices []float32 `json:"vertices,omitempty"`

	// water frames
	Tick    uint64   `json:"tick,omitempty"`
	Level   int      `json:"level"`
	Active  int      `json:"active"`
	Indices []uint32 `json:"indices,omitempty"`
}

// Lattice mirrors the render lattice dimensions the water indices refer to.
type Lattice struct {
	Wxz uint32 `json:"wxz"`
	Hy  uint32 `json:"hy"`
}

// Command is a client request, e.g. {"action":"wave","dir":"north"}.
type Command struct {
	Action string `json:"action"`
	Dir    string `json:"dir,omitempty"`

	// inject
	X      int   `json:"x,omitempty"`
	Y      int   `json:"y,omitempty"`
	Z      int   `json:"z,omitempty"`
	Energy int32 `json:"energy,omitempty"`
}
