package projection

import (
	"math"

	"github.com/paulmach/orb"
)

type Option func(*Albers)

func WithRotate(lambda, phi, gamma float64) Option {
	return func(a *Albers) { a.rotate = [3]float64{lambda, phi, gamma} }
}

func WithCenter(lon, lat float64) Option {
	return func(a *Albers) { a.center = [2]float64{lon, lat} }
}

func WithParallels(p0, p1 float64) Option {
	return func(a *Albers) { a.parallels = [2]float64{p0, p1} }
}

func WithScale(k float64) Option {
	return func(a *Albers) { a.scale = k }
}

func WithTranslate(x, y float64) Option {
	return func(a *Albers) { a.translate = [2]float64{x, y} }
}

// Albers is a conic equal-area projection. Zero translate puts the projected
// center on the origin.
type Albers struct {
	parallels [2]float64
	rotate    [3]float64
	center    [2]float64
	scale     float64
	translate [2]float64

	// derived by recenter
	n, c, r0  float64
	cylinder  bool
	cosPhi0   float64
	dx, dy    float64
	rotLambda float64
	rotPhi    bool
	cosDPhi   float64
	sinDPhi   float64
	cosDGamma float64
	sinDGamma float64
}

func NewAlbers(opts ...Option) *Albers {
	a := &Albers{
		parallels: [2]float64{29.5, 45.5},
		scale:     DefaultScale,
	}
	for _, o := range opts {
		o(a)
	}
	a.recenter()
	return a
}

func (a *Albers) Rotate() [3]float64    { return a.rotate }
func (a *Albers) Center() [2]float64    { return a.center }
func (a *Albers) Scale() float64        { return a.scale }
func (a *Albers) Translate() [2]float64 { return a.translate }

func (a *Albers) recenter() {
	y0 := a.parallels[0] * radians
	y1 := a.parallels[1] * radians
	sy0 := math.Sin(y0)
	a.n = (sy0 + math.Sin(y1)) / 2
	if math.Abs(a.n) < epsilon {
		a.cylinder = true
		a.cosPhi0 = math.Cos(y0)
	} else {
		a.c = 1 + sy0*(2*a.n-sy0)
		a.r0 = math.Sqrt(a.c) / a.n
	}

	a.rotLambda = math.Mod(a.rotate[0], 360) * radians
	dPhi := math.Mod(a.rotate[1], 360) * radians
	dGamma := math.Mod(a.rotate[2], 360) * radians
	a.rotPhi = dPhi != 0 || dGamma != 0
	a.cosDPhi, a.sinDPhi = math.Cos(dPhi), math.Sin(dPhi)
	a.cosDGamma, a.sinDGamma = math.Cos(dGamma), math.Sin(dGamma)

	cx, cy := a.raw(a.center[0]*radians, a.center[1]*radians)
	a.dx = a.translate[0] - a.scale*cx
	a.dy = a.translate[1] + a.scale*cy
}

// Project maps [lon, lat] in degrees to planar [x, y].
func (a *Albers) Project(p orb.Point) orb.Point {
	lambda, phi := a.rotatePoint(p[0]*radians, p[1]*radians)
	x, y := a.raw(lambda, phi)
	return orb.Point{a.dx + a.scale*x, a.dy - a.scale*y}
}

func (a *Albers) raw(lambda, phi float64) (float64, float64) {
	if a.cylinder {
		return lambda * a.cosPhi0, math.Sin(phi) / a.cosPhi0
	}
	r := math.Sqrt(a.c-2*a.n*math.Sin(phi)) / a.n
	x := lambda * a.n
	return r * math.Sin(x), a.r0 - r*math.Cos(x)
}

func (a *Albers) rotatePoint(lambda, phi float64) (float64, float64) {
	if a.rotLambda != 0 {
		lambda += a.rotLambda
		if lambda > math.Pi {
			lambda -= 2 * math.Pi
		} else if lambda < -math.Pi {
			lambda += 2 * math.Pi
		}
	}
	if !a.rotPhi {
		return lambda, phi
	}
	cosPhi := math.Cos(phi)
	x := math.Cos(lambda) * cosPhi
	y := math.Sin(lambda) * cosPhi
	z := math.Sin(phi)
	k := z*a.cosDPhi + x*a.sinDPhi
	return math.Atan2(y*a.cosDGamma-k*a.sinDGamma, x*a.cosDPhi-z*a.sinDPhi),
		math.Asin(k*a.cosDGamma + y*a.sinDGamma)
}
