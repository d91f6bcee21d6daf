package geom

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

const countiesFixture = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature",
     "properties": {"GEN": "Flensburg", "AGS": "01001"},
     "geometry": {"type": "Polygon", "coordinates": [[[9.4, 54.8], [9.5, 54.8], [9.5, 54.9], [9.4, 54.8]]]}},
    {"type": "Feature",
     "properties": {"GEN": "Nordfriesland", "AGS": 1054},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[8.0, 54.5], [8.5, 54.5], [8.5, 55.0], [8.0, 54.5]]],
       [[[8.6, 54.6], [8.7, 54.6], [8.7, 54.7], [8.6, 54.6]]]
     ]}},
    {"type": "Feature",
     "properties": {"GEN": "Nowhere", "AGS": "09999"},
     "geometry": {"type": "Point", "coordinates": [10, 50]}}
  ]
}`

func TestLoadCounties(t *testing.T) {
	c, err := LoadCounties([]byte(countiesFixture))
	if err != nil {
		t.Fatalf("LoadCounties: %v", err)
	}
	if len(c.Counties) != 3 {
		t.Fatalf("got %d counties, want 3", len(c.Counties))
	}
	tests := []struct {
		idx   int
		ags   int
		name  string
		kind  Kind
		polys int
	}{
		{0, 1001, "Flensburg", KindPolygon, 1},
		{1, 1054, "Nordfriesland", KindMultiPolygon, 2},
		{2, 9999, "Nowhere", KindPolygon, 0},
	}
	for _, tt := range tests {
		got := c.Counties[tt.idx]
		if got.AGS != tt.ags || got.Name != tt.name {
			t.Errorf("county %d: got %d/%q, want %d/%q", tt.idx, got.AGS, got.Name, tt.ags, tt.name)
		}
		if got.Geometry.Kind != tt.kind || len(got.Geometry.Polygons) != tt.polys {
			t.Errorf("county %d: got %v with %d polygons, want %v with %d", tt.idx, got.Geometry.Kind, len(got.Geometry.Polygons), tt.kind, tt.polys)
		}
	}
	b := c.BBox()
	if b.MinX != 8.0 || b.MinY != 54.5 || b.MaxX != 9.5 || b.MaxY != 55.0 {
		t.Errorf("unexpected bbox %+v", b)
	}
}

func TestLoadCountiesMissingProperties(t *testing.T) {
	tests := []struct {
		name  string
		props string
	}{
		{"no name", `{"AGS": "01001"}`},
		{"blank name", `{"GEN": "  ", "AGS": "01001"}`},
		{"no code", `{"GEN": "Flensburg"}`},
		{"bad code", `{"GEN": "Flensburg", "AGS": "x1"}`},
		{"null", `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":` + tt.props +
				`,"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}]}`
			_, err := LoadCounties([]byte(data))
			if !errors.Is(err, ErrMissingProperties) {
				t.Fatalf("got %v, want ErrMissingProperties", err)
			}
		})
	}
}

func TestLoadCountiesEmpty(t *testing.T) {
	if _, err := LoadCounties([]byte(`{"type":"FeatureCollection","features":[]}`)); err == nil {
		t.Fatal("expected error for empty collection")
	}
	if _, err := LoadCounties([]byte(`not json`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestGeometryMapCopies(t *testing.T) {
	g := Geometry{Kind: KindPolygon, Polygons: []orb.Polygon{{{{1, 2}, {3, 4}, {5, 6}}}}}
	m := g.Map(func(p orb.Point) orb.Point { return orb.Point{p[0] * 2, p[1] * 2} })
	if m.Polygons[0][0][1] != (orb.Point{6, 8}) {
		t.Errorf("mapped point = %v", m.Polygons[0][0][1])
	}
	if g.Polygons[0][0][1] != (orb.Point{3, 4}) {
		t.Errorf("source mutated: %v", g.Polygons[0][0][1])
	}
}

func TestParseWKT(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		kind  Kind
		polys int
		rings []int
	}{
		{"polygon", "POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))", KindPolygon, 1, []int{1}},
		{"polygon with hole", "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0), (2 2, 4 2, 4 4, 2 2))", KindPolygon, 1, []int{2}},
		{"multipolygon", "MULTIPOLYGON (((0 0, 1 0, 1 1, 0 0)), ((5 5, 6 5, 6 6, 5 5), (5.2 5.1, 5.8 5.1, 5.8 5.7, 5.2 5.1)))", KindMultiPolygon, 2, []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseWKT(tt.in)
			if err != nil {
				t.Fatalf("ParseWKT: %v", err)
			}
			if g.Kind != tt.kind || len(g.Polygons) != tt.polys {
				t.Fatalf("got %v/%d, want %v/%d", g.Kind, len(g.Polygons), tt.kind, tt.polys)
			}
			for i, n := range tt.rings {
				if len(g.Polygons[i]) != n {
					t.Errorf("polygon %d: got %d rings, want %d", i, len(g.Polygons[i]), n)
				}
			}
		})
	}
}

func TestParseWKTErrors(t *testing.T) {
	for _, in := range []string{"", "POINT(1 2)", "POLYGON(0 0)", "POLYGON((a b))", "MULTIPOLYGON((0 0))"} {
		if _, err := ParseWKT(in); err == nil {
			t.Errorf("ParseWKT(%q): expected error", in)
		}
	}
}
