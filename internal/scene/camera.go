package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"covidmap/internal/mesh"
)

const (
	// DefaultFOV is the vertical field of view in radians.
	DefaultFOV = 0.8
	// frameMargin shrinks the map height on screen.
	frameMargin = 1.75
)

// Framing places a camera on the -z side looking at the map center.
type Framing struct {
	Target   mgl64.Vec3 `json:"target"`
	Position mgl64.Vec3 `json:"position"`
	Distance float64    `json:"distance"`
	FOV      float64    `json:"fov"`
	Aspect   float64    `json:"aspect"`
}

// Frame fits the world height of b into a camera with the given fov and
// aspect ratio. Non-positive inputs use DefaultFOV and an aspect of 1.
func Frame(b mesh.Bounds, fov, aspect float64) Framing {
	if fov <= 0 {
		fov = DefaultFOV
	}
	if aspect <= 0 {
		aspect = 1
	}
	height := b.MaxWorld.Y() - b.MinWorld.Y()
	dist := (height / frameMargin / aspect) / math.Tan(fov/2)
	c := b.CenterWorld
	return Framing{
		Target:   c,
		Position: mgl64.Vec3{c.X(), c.Y(), c.Z() - dist},
		Distance: dist,
		FOV:      fov,
		Aspect:   aspect,
	}
}
