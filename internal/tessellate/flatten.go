// Package tessellate turns county polygons into triangle meshes.
package tessellate

import (
	"fmt"

	"github.com/paulmach/orb"

	"covidmap/internal/geom"
)

// Flat is one polygon part as an interleaved coordinate list. Holes holds the
// vertex index (not the float offset) at which each hole ring begins, which is
// what earcut expects.
type Flat struct {
	Vertices   []float64
	Holes      []int
	Dimensions int

	RegionID    string
	RegionAGS   int
	RegionLabel string
}

// Flattened is a county resolved once into its parts. A Polygon has exactly
// one part; a MultiPolygon has one per member polygon.
type Flattened struct {
	Kind  geom.Kind
	Parts []Flat
}

// Flatten converts every polygon of the county. Parts are tagged
// "<ags>-<partIndex>" so they can be regrouped after triangulation.
func Flatten(c geom.County) Flattened {
	out := Flattened{Kind: c.Geometry.Kind}
	polys := c.Geometry.Polygons
	if c.Geometry.Kind == geom.KindPolygon && len(polys) == 0 {
		// keep a part with no vertices so extraction reports it as missing
		polys = []orb.Polygon{nil}
	}
	for i, poly := range polys {
		f := FlattenPolygon(poly)
		f.RegionID = fmt.Sprintf("%d-%d", c.AGS, i)
		f.RegionAGS = c.AGS
		f.RegionLabel = c.Name
		out.Parts = append(out.Parts, f)
	}
	return out
}

// FlattenPolygon concatenates the rings of one polygon. A ring explicitly
// closed by repeating its first point loses the repeat. Hole rings with fewer
// than three distinct points are dropped, so every hole offset indexes a
// vertex.
func FlattenPolygon(poly orb.Polygon) Flat {
	f := Flat{Dimensions: 2}
	if poly == nil {
		return f
	}
	f.Vertices = make([]float64, 0, 2*countPoints(poly))
	for i, ring := range poly {
		n := len(ring)
		if n > 1 && ring[0] == ring[n-1] {
			n--
		}
		if i > 0 {
			if distinct(ring[:n]) < 3 {
				continue
			}
			f.Holes = append(f.Holes, len(f.Vertices)/2)
		}
		for _, p := range ring[:n] {
			f.Vertices = append(f.Vertices, p[0], p[1])
		}
	}
	return f
}

// distinct counts unique points, stopping at three.
func distinct(ring orb.Ring) int {
	var seen []orb.Point
	for _, p := range ring {
		dup := false
		for _, q := range seen {
			if p == q {
				dup = true
				break
			}
		}
		if !dup {
			if seen = append(seen, p); len(seen) == 3 {
				break
			}
		}
	}
	return len(seen)
}

func countPoints(poly orb.Polygon) int {
	n := 0
	for _, r := range poly {
		n += len(r)
	}
	return n
}
