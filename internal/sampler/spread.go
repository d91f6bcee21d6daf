package sampler

import (
	"math/rand"

	"github.com/fogleman/poissondisc"
	"github.com/go-gl/mathgl/mgl64"

	"covidmap/internal/mesh"
)

// spreadAttempts is the poisson-disc candidate count per active point.
const spreadAttempts = 10

// Spread fills the meshes with points no closer than spacing to each other.
// Points outside the mesh footprint are dropped. rnd may be nil.
func Spread(meshes []mesh.Mesh, spacing float64, rnd *rand.Rand) []mgl64.Vec3 {
	if spacing <= 0 {
		return nil
	}
	merged := mesh.Merge(meshes)
	solid := merged.Solid()
	if solid.Empty() {
		return nil
	}
	b := merged.Bounds()
	z := b.CenterWorld.Z()

	var out []mgl64.Vec3
	for _, p := range poissondisc.Sample(b.MinWorld.X(), b.MinWorld.Y(), b.MaxWorld.X(), b.MaxWorld.Y(), spacing, spreadAttempts, rnd) {
		v := mgl64.Vec3{p.X, p.Y, z}
		if solid.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}
