// Package sampler draws random interior points from a region's meshes.
//
// Sampling is bounded rejection: a point is drawn uniformly from the region's
// bounding rectangle and kept when it falls on the mesh. After MaxIterations
// consecutive misses the last draw is accepted anyway and the result is
// marked as exhausted. A region that yields no points at all gets its bounds
// center as the single fallback point.
package sampler

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"covidmap/internal/logger"
	"covidmap/internal/mesh"
)

const (
	DefaultCount         = 15
	DefaultMaxIterations = 500
)

type Options struct {
	// Count is the number of points to draw; zero yields the fallback point.
	Count int
	// MaxIterations caps consecutive misses per point (DefaultMaxIterations when <= 0).
	MaxIterations int
	// Rand seeds the draw; nil uses a time-seeded source.
	Rand *rand.Rand
	// Label names the region in log lines.
	Label  string
	Logger *slog.Logger
}

// Result is a region's bounds and sample points. Fallback is set when Points
// holds only the bounds center; Exhausted counts points accepted after the
// iteration cap.
type Result struct {
	Bounds    mesh.Bounds  `json:"bounds"`
	Points    []mgl64.Vec3 `json:"points"`
	Fallback  bool         `json:"fallback,omitempty"`
	Exhausted int          `json:"exhausted,omitempty"`
}

// Sample merges meshes, measures them and draws opts.Count interior points.
func Sample(meshes []mesh.Mesh, opts Options) Result {
	l := opts.Logger
	if l == nil {
		l = logger.L()
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	merged := mesh.Merge(meshes)
	res := Result{Bounds: merged.Bounds()}
	solid := merged.Solid()
	lo, hi := res.Bounds.MinWorld, res.Bounds.MaxWorld
	z := res.Bounds.CenterWorld.Z()

	if !solid.Empty() {
		for n := 0; n < opts.Count; n++ {
			var p mgl64.Vec3
			hit := false
			for i := 0; i < maxIter; i++ {
				p = mgl64.Vec3{
					lo.X() + rnd.Float64()*(hi.X()-lo.X()),
					lo.Y() + rnd.Float64()*(hi.Y()-lo.Y()),
					z,
				}
				if solid.Contains(p) {
					hit = true
					break
				}
			}
			if !hit {
				res.Exhausted++
			}
			res.Points = append(res.Points, p)
		}
	}
	if res.Exhausted > 0 {
		l.Warn("sampling_exhausted", "region", opts.Label, "points", res.Exhausted, "max_iterations", maxIter)
	}

	if len(res.Points) == 0 {
		res.Points = []mgl64.Vec3{res.Bounds.CenterWorld}
		res.Fallback = true
		l.Debug("sampling_fallback", "region", opts.Label, "center", res.Bounds.CenterWorld)
	}
	return res
}
