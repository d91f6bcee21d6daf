package mesh

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Solid is the world-space footprint of a flat mesh, one ring per triangle,
// prepared for repeated point-in-mesh queries.
type Solid struct {
	tris  orb.MultiPolygon
	bound orb.Bound
}

// Solid flattens the world-space triangles onto the xy plane.
func (m Mesh) Solid() Solid {
	s := Solid{tris: make(orb.MultiPolygon, 0, m.TriangleCount())}
	first := true
	for t := 0; t+2 < len(m.Indices); t += 3 {
		ring := make(orb.Ring, 3)
		for k := 0; k < 3; k++ {
			v := m.WorldVertex(m.Indices[t+k])
			ring[k] = orb.Point{v[0], v[1]}
			if first {
				s.bound = orb.Bound{Min: ring[k], Max: ring[k]}
				first = false
			} else {
				s.bound = s.bound.Extend(ring[k])
			}
		}
		s.tris = append(s.tris, orb.Polygon{ring})
	}
	return s
}

// Empty reports whether the solid has no triangles.
func (s Solid) Empty() bool { return len(s.tris) == 0 }

// Contains reports whether p lies on or inside any triangle, ignoring z.
func (s Solid) Contains(p mgl64.Vec3) bool {
	pt := orb.Point{p[0], p[1]}
	if s.Empty() || !s.bound.Contains(pt) {
		return false
	}
	return planar.MultiPolygonContains(s.tris, pt)
}

// Contains is a one-off point-in-mesh test.
func (m Mesh) Contains(p mgl64.Vec3) bool { return m.Solid().Contains(p) }
