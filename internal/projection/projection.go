// Package projection maps lon/lat coordinates onto a display plane.
//
// The Albers projection follows d3's geoAlbers: a conic equal-area projection
// with standard parallels 29.5/45.5, a [lambda, phi, gamma] rotation applied
// before projecting, and a center that is projected unrotated and moved to
// Translate. Projection is pointwise: no adaptive resampling or clipping.
package projection

import (
	"math"

	"github.com/paulmach/orb"

	"covidmap/internal/geom"
)

const (
	DefaultScale = 1070.0

	radians = math.Pi / 180
	epsilon = 1e-6
)

// Projector maps one planar or spherical coordinate to another.
type Projector interface {
	Project(p orb.Point) orb.Point
}

// Config is the rotation/centering derived from a collection's geo bounds.
type Config struct {
	RotationLongitude float64 `json:"rotationLongitude"`
	CenterX           float64 `json:"centerX"`
	CenterY           float64 `json:"centerY"`
}

// FromBounds derives the projection parameters from [[west, south], [east, north]].
// The rotation uses (east+west)/2 so that it cancels the center longitude.
func FromBounds(b geom.BBox) Config {
	west, south := b.MinX, b.MinY
	east, north := b.MaxX, b.MaxY
	rot := -(east + west) / 2
	return Config{
		RotationLongitude: rot,
		CenterX:           (east+west)/2 + rot,
		CenterY:           (north + south) / 2,
	}
}

// Albers returns the configured projection, centered on the origin.
func (c Config) Albers() *Albers {
	return NewAlbers(
		WithRotate(c.RotationLongitude, 0, 0),
		WithCenter(c.CenterX, c.CenterY),
	)
}

// Apply returns a copy of the collection with p applied to every coordinate.
func Apply(c geom.Collection, p Projector) geom.Collection {
	return c.Map(p.Project)
}

// Identity is a planar pass-through with optional axis reflection.
type Identity struct {
	ReflectX bool
	ReflectY bool
}

func (id Identity) Project(p orb.Point) orb.Point {
	if id.ReflectX {
		p[0] = -p[0]
	}
	if id.ReflectY {
		p[1] = -p[1]
	}
	return p
}

// ToDisplay projects lon/lat counties with the Albers configuration derived
// from their bounds, then flips Y so that screen Y grows downward.
func ToDisplay(c geom.Collection) (geom.Collection, Config) {
	cfg := FromBounds(c.BBox())
	projected := Apply(c, cfg.Albers())
	return Apply(projected, Identity{ReflectY: true}), cfg
}
