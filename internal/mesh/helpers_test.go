package mesh

import "github.com/paulmach/orb"

func orb2x2() orb.Polygon {
	return orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}}
}
