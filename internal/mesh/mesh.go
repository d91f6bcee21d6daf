// Package mesh holds triangulated county meshes and the bounding and
// containment queries the sampler runs against them.
package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"covidmap/internal/tessellate"
)

// Mesh is a triangle list in local coordinates plus a world transform.
// Every index is < len(Positions)/3 and len(Indices) is a multiple of 3.
type Mesh struct {
	ID    string `json:"id"`
	AGS   int    `json:"ags"`
	Label string `json:"label"`

	Positions []float64  `json:"positions"`
	Indices   []int      `json:"indices"`
	World     mgl64.Mat4 `json:"world"`
}

// FromExtraction builds a mesh placed at the origin.
func FromExtraction(ex tessellate.Extraction) Mesh {
	return Mesh{
		ID:        ex.RegionID,
		AGS:       ex.RegionAGS,
		Label:     ex.RegionLabel,
		Positions: ex.Positions,
		Indices:   ex.Indices,
		World:     mgl64.Ident4(),
	}
}

func (m Mesh) VertexCount() int   { return len(m.Positions) / 3 }
func (m Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Validate checks the index invariants.
func (m Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("mesh %s: %d positions is not a multiple of 3", m.ID, len(m.Positions))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %s: %d indices is not a multiple of 3", m.ID, len(m.Indices))
	}
	n := m.VertexCount()
	for _, i := range m.Indices {
		if i < 0 || i >= n {
			return fmt.Errorf("mesh %s: index %d out of range [0,%d)", m.ID, i, n)
		}
	}
	return nil
}

// Vertex returns vertex i in local space.
func (m Mesh) Vertex(i int) mgl64.Vec3 {
	return mgl64.Vec3{m.Positions[3*i], m.Positions[3*i+1], m.Positions[3*i+2]}
}

// WorldVertex returns vertex i transformed by World.
func (m Mesh) WorldVertex(i int) mgl64.Vec3 {
	return mgl64.TransformCoordinate(m.Vertex(i), m.world())
}

// world treats a zero matrix as identity so literal meshes need no transform.
func (m Mesh) world() mgl64.Mat4 {
	if m.World == (mgl64.Mat4{}) {
		return mgl64.Ident4()
	}
	return m.World
}

// Translate returns a copy moved by d in world space.
func (m Mesh) Translate(d mgl64.Vec3) Mesh {
	m.World = mgl64.Translate3D(d.X(), d.Y(), d.Z()).Mul4(m.world())
	return m
}

// Merge bakes every mesh's world transform into one mesh with an identity
// transform. The result is for bounding and containment only.
func Merge(meshes []Mesh) Mesh {
	out := Mesh{ID: "merged", World: mgl64.Ident4()}
	if len(meshes) == 1 {
		out.AGS, out.Label = meshes[0].AGS, meshes[0].Label
	}
	for _, m := range meshes {
		base := out.VertexCount()
		w := m.world()
		for i := 0; i < m.VertexCount(); i++ {
			v := mgl64.TransformCoordinate(m.Vertex(i), w)
			out.Positions = append(out.Positions, v[0], v[1], v[2])
		}
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	return out
}
