package projection

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"covidmap/internal/geom"
)

var germany = geom.BBox{MinX: 5.866, MinY: 47.270, MaxX: 15.042, MaxY: 55.058}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestFromBounds(t *testing.T) {
	cfg := FromBounds(germany)
	if !near(cfg.RotationLongitude, -10.454, 1e-9) {
		t.Errorf("rotation = %v", cfg.RotationLongitude)
	}
	if !near(cfg.CenterX, 0, 1e-12) {
		t.Errorf("centerX = %v, want 0", cfg.CenterX)
	}
	if !near(cfg.CenterY, 51.164, 1e-9) {
		t.Errorf("centerY = %v", cfg.CenterY)
	}
	if again := FromBounds(germany); again != cfg {
		t.Errorf("not deterministic: %+v vs %+v", again, cfg)
	}
}

func TestAlbersMatchesD3Defaults(t *testing.T) {
	// d3.geoAlbers() defaults: rotate [96, 0], center [-0.6, 38.7], translate [480, 250].
	a := NewAlbers(WithRotate(96, 0, 0), WithCenter(-0.6, 38.7), WithTranslate(480, 250))
	got := a.Project(orb.Point{-96.6, 38.7})
	if !near(got[0], 480, 1e-9) || !near(got[1], 250, 1e-9) {
		t.Fatalf("center projects to %v, want [480 250]", got)
	}
	north := a.Project(orb.Point{-96.6, 45})
	if north[1] >= 250 {
		t.Errorf("north should be above center in screen space, got y=%v", north[1])
	}
	east := a.Project(orb.Point{-90, 38.7})
	if east[0] <= 480 {
		t.Errorf("east should be right of center, got x=%v", east[0])
	}
}

func TestAlbersCentersOnOrigin(t *testing.T) {
	a := FromBounds(germany).Albers()
	c := a.Project(orb.Point{(germany.MinX + germany.MaxX) / 2, (germany.MinY + germany.MaxY) / 2})
	if !near(c[0], 0, 1e-9) || !near(c[1], 0, 1e-9) {
		t.Errorf("bounds center projects to %v, want origin", c)
	}
	if a.Scale() != DefaultScale {
		t.Errorf("scale = %v", a.Scale())
	}
}

func TestAlbersRotationPhiGamma(t *testing.T) {
	a := NewAlbers(WithRotate(0, 10, 5))
	p := a.Project(orb.Point{3, 4})
	q := a.Project(orb.Point{3, 4})
	if p != q || math.IsNaN(p[0]) || math.IsNaN(p[1]) {
		t.Errorf("unstable projection: %v %v", p, q)
	}
}

func TestIdentityReflect(t *testing.T) {
	tests := []struct {
		id   Identity
		in   orb.Point
		want orb.Point
	}{
		{Identity{}, orb.Point{1, 2}, orb.Point{1, 2}},
		{Identity{ReflectY: true}, orb.Point{1, 2}, orb.Point{1, -2}},
		{Identity{ReflectX: true, ReflectY: true}, orb.Point{1, 2}, orb.Point{-1, -2}},
	}
	for _, tt := range tests {
		if got := tt.id.Project(tt.in); got != tt.want {
			t.Errorf("%+v.Project(%v) = %v, want %v", tt.id, tt.in, got, tt.want)
		}
	}
}

func TestToDisplayOrientation(t *testing.T) {
	c := geom.Collection{Counties: []geom.County{
		{AGS: 1001, Name: "North", Geometry: geom.Geometry{Polygons: []orb.Polygon{{{{9.4, 54.8}, {9.5, 54.8}, {9.5, 54.9}}}}}},
		{AGS: 9162, Name: "South", Geometry: geom.Geometry{Polygons: []orb.Polygon{{{{11.5, 48.1}, {11.6, 48.1}, {11.6, 48.2}}}}}},
	}}
	out, cfg := ToDisplay(c)
	if cfg != FromBounds(c.BBox()) {
		t.Errorf("config mismatch")
	}
	n := out.Counties[0].Geometry.Polygons[0][0][0]
	s := out.Counties[1].Geometry.Polygons[0][0][0]
	if n[1] <= s[1] {
		t.Errorf("north y=%v should be greater than south y=%v after reflection", n[1], s[1])
	}
	if n[0] >= s[0] {
		t.Errorf("west x=%v should be less than east x=%v", n[0], s[0])
	}
	if c.Counties[0].Geometry.Polygons[0][0][0] != (orb.Point{9.4, 54.8}) {
		t.Errorf("input mutated")
	}
}
