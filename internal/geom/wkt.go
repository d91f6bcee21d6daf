package geom

import (
	"errors"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// ParseWKT parses a POLYGON or MULTIPOLYGON into a Geometry.
// Rings are separated by "),(" and polygons by ")),((" with any spacing.
func ParseWKT(wkt string) (Geometry, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return Geometry{}, errors.New("empty wkt")
	}
	up := strings.ToUpper(s)
	parseTuples := func(block string) orb.Ring {
		var out orb.Ring
		for _, tup := range strings.Split(block, ",") {
			parts := strings.Fields(strings.TrimSpace(tup))
			if len(parts) < 2 {
				continue
			}
			x, e1 := strconv.ParseFloat(parts[0], 64)
			y, e2 := strconv.ParseFloat(parts[1], 64)
			if e1 != nil || e2 != nil {
				continue
			}
			out = append(out, orb.Point{x, y})
		}
		return out
	}
	parsePolygon := func(block string) orb.Polygon {
		var poly orb.Polygon
		for _, rp := range strings.Split(block, "),(") {
			if r := parseTuples(rp); len(r) > 0 {
				poly = append(poly, r)
			}
		}
		return poly
	}
	switch {
	case strings.HasPrefix(up, "MULTIPOLYGON"):
		i := strings.Index(s, "(((")
		j := strings.LastIndex(s, ")))")
		if i < 0 || j <= i {
			return Geometry{}, errors.New("wkt multipolygon: invalid")
		}
		body := normalizeSeparators(s[i+3 : j])
		g := Geometry{Kind: KindMultiPolygon}
		for _, pp := range strings.Split(body, ")),((") {
			if poly := parsePolygon(pp); len(poly) > 0 {
				g.Polygons = append(g.Polygons, poly)
			}
		}
		if len(g.Polygons) == 0 {
			return Geometry{}, errors.New("wkt: no coordinates parsed")
		}
		return g, nil
	case strings.HasPrefix(up, "POLYGON"):
		i := strings.Index(s, "((")
		j := strings.LastIndex(s, "))")
		if i < 0 || j <= i {
			return Geometry{}, errors.New("wkt polygon: invalid")
		}
		poly := parsePolygon(normalizeSeparators(s[i+2 : j]))
		if len(poly) == 0 {
			return Geometry{}, errors.New("wkt: no coordinates parsed")
		}
		return Geometry{Kind: KindPolygon, Polygons: []orb.Polygon{poly}}, nil
	}
	return Geometry{}, errors.New("unsupported wkt type")
}

// normalizeSeparators removes whitespace around parentheses so ring and
// polygon separators can be split on literally.
func normalizeSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			prev, next := prevNonSpace(s, i), nextNonSpace(s, i)
			if prev == '(' || prev == ')' || next == '(' || next == ')' || (prev == ',' && next == '(') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func prevNonSpace(s string, i int) byte {
	for j := i - 1; j >= 0; j-- {
		if c := s[j]; c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return c
		}
	}
	return 0
}

func nextNonSpace(s string, i int) byte {
	for j := i + 1; j < len(s); j++ {
		if c := s[j]; c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return c
		}
	}
	return 0
}
