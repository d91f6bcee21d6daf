package tui

import (
	"context"
	"fmt"

	"covidmap/internal/geom"
	"covidmap/internal/projection"
	"covidmap/internal/sampler"
	"covidmap/internal/scene"
)

// previewKey registers the pasted region apart from real counties.
const previewKey = -1

// previewRegion runs a pasted lon/lat WKT polygon through the county pipeline,
// projected like the loaded scene.
func (m Model) previewRegion(wkt string) (*scene.Region, error) {
	g, err := geom.ParseWKT(wkt)
	if err != nil {
		return nil, err
	}
	c := geom.Collection{Counties: []geom.County{{AGS: previewKey, Name: "pasted", Geometry: g}}}
	var display geom.Collection
	if m.scene != nil {
		display = projection.Apply(projection.Apply(c, m.scene.Projection.Albers()), projection.Identity{ReflectY: true})
	} else {
		display, _ = projection.ToDisplay(c)
	}
	s, err := scene.Build(context.Background(), display, scene.Options{
		SampleCount: sampler.DefaultCount,
		Seed:        m.opts.Seed,
		Planar:      true,
		Logger:      m.log,
	})
	if err != nil {
		return nil, err
	}
	r, ok := s.Region(previewKey)
	if !ok {
		return nil, fmt.Errorf("preview: no region")
	}
	return r, nil
}
