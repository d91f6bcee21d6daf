package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is an axis-aligned box in local and world space.
type Bounds struct {
	Min    mgl64.Vec3 `json:"min"`
	Max    mgl64.Vec3 `json:"max"`
	Center mgl64.Vec3 `json:"center"`

	MinWorld    mgl64.Vec3 `json:"minWorld"`
	MaxWorld    mgl64.Vec3 `json:"maxWorld"`
	CenterWorld mgl64.Vec3 `json:"centerWorld"`
}

// Size is the world-space extent.
func (b Bounds) Size() mgl64.Vec3 { return b.MaxWorld.Sub(b.MinWorld) }

// Bounds computes the box of the mesh. An empty mesh has a zero box.
func (m Mesh) Bounds() Bounds {
	if m.VertexCount() == 0 {
		return Bounds{}
	}
	var b Bounds
	b.Min, b.Max = span(m.VertexCount(), m.Vertex)
	b.MinWorld, b.MaxWorld = span(m.VertexCount(), m.WorldVertex)
	b.Center = b.Min.Add(b.Max).Mul(0.5)
	b.CenterWorld = b.MinWorld.Add(b.MaxWorld).Mul(0.5)
	return b
}

func span(n int, at func(int) mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < n; i++ {
		v := at(i)
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], v[k])
			hi[k] = math.Max(hi[k], v[k])
		}
	}
	return lo, hi
}
