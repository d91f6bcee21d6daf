package geom

import "github.com/paulmach/orb"

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Extend grows the box to include pt. A zero box is seeded by the first point
// when empty is true.
func (b BBox) Extend(pt orb.Point, empty bool) BBox {
	if empty {
		return BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
	}
	if pt[0] < b.MinX {
		b.MinX = pt[0]
	}
	if pt[1] < b.MinY {
		b.MinY = pt[1]
	}
	if pt[0] > b.MaxX {
		b.MaxX = pt[0]
	}
	if pt[1] > b.MaxY {
		b.MaxY = pt[1]
	}
	return b
}

// Corners returns [[west, south], [east, north]].
func (b BBox) Corners() [2][2]float64 {
	return [2][2]float64{{b.MinX, b.MinY}, {b.MaxX, b.MaxY}}
}

type Kind int

const (
	KindPolygon Kind = iota
	KindMultiPolygon
)

func (k Kind) String() string {
	if k == KindMultiPolygon {
		return "MultiPolygon"
	}
	return "Polygon"
}

// Geometry holds one polygon (KindPolygon) or several (KindMultiPolygon).
// Each polygon is a ring list: first ring outer, following rings holes.
// A zero Geometry has no rings at all and fails tessellation as missing.
type Geometry struct {
	Kind     Kind
	Polygons []orb.Polygon
}

// Map returns a deep copy with fn applied to every coordinate.
func (g Geometry) Map(fn func(orb.Point) orb.Point) Geometry {
	out := Geometry{Kind: g.Kind}
	if g.Polygons == nil {
		return out
	}
	out.Polygons = make([]orb.Polygon, len(g.Polygons))
	for i, poly := range g.Polygons {
		np := make(orb.Polygon, len(poly))
		for j, ring := range poly {
			nr := make(orb.Ring, len(ring))
			for k, p := range ring {
				nr[k] = fn(p)
			}
			np[j] = nr
		}
		out.Polygons[i] = np
	}
	return out
}

// County is one administrative region with its validated identity.
type County struct {
	AGS        int
	Name       string
	Geometry   Geometry
	Properties map[string]any
}

// Collection is an ordered, load-once list of counties.
type Collection struct {
	Counties []County
}

// Map returns a copy of the collection with fn applied to every coordinate.
func (c Collection) Map(fn func(orb.Point) orb.Point) Collection {
	out := Collection{Counties: make([]County, len(c.Counties))}
	for i, cty := range c.Counties {
		cty.Geometry = cty.Geometry.Map(fn)
		out.Counties[i] = cty
	}
	return out
}

// BBox returns the planar bounding box over every coordinate. For lon/lat
// input this is the [[west, south], [east, north]] geo bounds.
func (c Collection) BBox() BBox {
	var b BBox
	empty := true
	for _, cty := range c.Counties {
		for _, poly := range cty.Geometry.Polygons {
			for _, ring := range poly {
				for _, p := range ring {
					b = b.Extend(p, empty)
					empty = false
				}
			}
		}
	}
	return b
}
