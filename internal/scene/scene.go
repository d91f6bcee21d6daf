// Package scene runs the county pipeline (project, tessellate, sample) and
// keeps the result in an explicit registry keyed by county AGS.
package scene

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"covidmap/internal/geom"
	"covidmap/internal/logger"
	"covidmap/internal/mesh"
	"covidmap/internal/metrics"
	"covidmap/internal/projection"
	"covidmap/internal/sampler"
	"covidmap/internal/tessellate"
)

var ErrNoCounties = errors.New("scene: no counties")

type Options struct {
	// SampleCount is the number of points per region; negative uses
	// sampler.DefaultCount and zero leaves each region its center only.
	SampleCount   int
	MaxIterations int
	// Workers bounds concurrent region builds; <= 1 is sequential.
	Workers int
	// Seed makes sampling reproducible; zero seeds from the clock.
	Seed int64
	// Planar skips projection for collections already in display space.
	Planar bool
	FOV    float64
	Aspect float64
	Logger *slog.Logger
}

// Region is one drawn county.
type Region struct {
	AGS        int            `json:"ags"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
	Meshes     []mesh.Mesh    `json:"meshes"`
	Bounds     mesh.Bounds    `json:"bounds"`
	Samples    sampler.Result `json:"samples"`
	// Skipped lists parts that failed extraction.
	Skipped []tessellate.PartError `json:"-"`
}

type Stats struct {
	Counties       int `json:"counties"`
	Regions        int `json:"regions"`
	Meshes         int `json:"meshes"`
	FailedParts    int `json:"failedParts"`
	SkippedRegions int `json:"skippedRegions"`
	Duplicates     int `json:"duplicates"`
	Joined         int `json:"joined"`
	Exhausted      int `json:"exhausted"`
	Fallbacks      int `json:"fallbacks"`
}

// Scene is the prepared map. It is built once and read-only afterwards.
type Scene struct {
	Regions    map[int]*Region   `json:"-"`
	Order      []int             `json:"order"`
	Bounds     mesh.Bounds       `json:"bounds"`
	Projection projection.Config `json:"projection"`
	Camera     Framing           `json:"camera"`
	Stats      Stats             `json:"stats"`
}

// Region looks up a county, folding Berlin district keys onto Berlin.
func (s *Scene) Region(key int) (*Region, bool) {
	r, ok := s.Regions[NormalizeKey(key)]
	return r, ok
}

// Ordered returns the regions in input order.
func (s *Scene) Ordered() []*Region {
	out := make([]*Region, 0, len(s.Order))
	for _, k := range s.Order {
		out = append(out, s.Regions[k])
	}
	return out
}

// Meshes returns every region mesh in input order.
func (s *Scene) Meshes() []mesh.Mesh {
	var out []mesh.Mesh
	for _, r := range s.Ordered() {
		out = append(out, r.Meshes...)
	}
	return out
}

type slot struct {
	region *Region
	err    error
}

// Build projects the collection, triangulates every county and samples it.
// Counties whose parts all fail are logged and left out; a cancelled ctx
// aborts the build.
func Build(ctx context.Context, c geom.Collection, opts Options) (*Scene, error) {
	l := opts.Logger
	if l == nil {
		l = logger.L()
	}
	if len(c.Counties) == 0 {
		return nil, ErrNoCounties
	}
	s := &Scene{Regions: make(map[int]*Region, len(c.Counties))}

	display := c
	if !opts.Planar {
		done := stage(l, "project")
		display, s.Projection = projection.ToDisplay(c)
		done("counties", len(c.Counties))
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	done := stage(l, "mesh")
	slots := make([]slot, len(display.Counties))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range display.Counties {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := buildRegion(display.Counties[i], opts, rand.New(rand.NewSource(seed+int64(i))), l)
			slots[i] = slot{region: r, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}

	s.Stats.Counties = len(display.Counties)
	seen := make(map[int]bool, len(slots))
	var merged []int
	for i, sl := range slots {
		if sl.region != nil {
			s.Stats.FailedParts += len(sl.region.Skipped)
		}
		if sl.err != nil {
			county := display.Counties[i]
			l.Error("region_skipped", "ags", county.AGS, "label", county.Name, "err", sl.err)
			metrics.RegionsSkippedTotal.Inc()
			s.Stats.SkippedRegions++
			continue
		}
		if key, ok := s.add(sl.region, seen, l); ok && !slices.Contains(merged, key) {
			merged = append(merged, key)
		}
	}
	for i, key := range merged {
		r := s.Regions[key]
		sampleRegion(r, opts, rand.New(rand.NewSource(seed+int64(len(slots)+i))), l)
	}
	for _, r := range s.Regions {
		s.Stats.Exhausted += r.Samples.Exhausted
		if r.Samples.Fallback {
			s.Stats.Fallbacks++
		}
	}
	s.Stats.Regions = len(s.Regions)
	done("regions", s.Stats.Regions, "meshes", s.Stats.Meshes)

	if len(s.Regions) != s.Stats.Counties-s.Stats.Joined {
		l.Error("drawn_count_mismatch", "drawn", len(s.Regions), "counties", s.Stats.Counties)
	}
	if len(s.Regions) == 0 {
		return nil, fmt.Errorf("build scene: %w", tessellate.ErrRegionWithoutGeometry)
	}

	global := sampler.Sample(s.Meshes(), sampler.Options{Label: "global", Logger: l})
	s.Bounds = global.Bounds
	s.Camera = Frame(s.Bounds, opts.FOV, opts.Aspect)
	return s, nil
}

// add registers r under its normalised key. Another Berlin district joins
// the Berlin region instead of replacing it; add then returns the key of the
// region that must be sampled again. A repeated AGS replaces the earlier
// region, except inside a joined Berlin region, which keeps its first copy.
func (s *Scene) add(r *Region, seen map[int]bool, l *slog.Logger) (int, bool) {
	key := NormalizeKey(r.AGS)
	prev, ok := s.Regions[key]
	switch {
	case !ok:
		s.Order = append(s.Order, key)
	case !seen[r.AGS]:
		l.Info("region_joined", "ags", key, "part", r.AGS, "label", r.Label, "into", prev.Label)
		if prev.AGS != key {
			prev.AGS, prev.Label = key, BerlinLabel
		}
		prev.Meshes = append(prev.Meshes, r.Meshes...)
		prev.Skipped = append(prev.Skipped, r.Skipped...)
		seen[r.AGS] = true
		s.Stats.Joined++
		s.Stats.Meshes += len(r.Meshes)
		return key, true
	case prev.AGS != r.AGS:
		l.Error("region_duplicate_dropped", "ags", r.AGS, "label", r.Label, "region", prev.Label)
		s.Stats.Duplicates++
		return 0, false
	default:
		l.Error("region_overwritten", "ags", key, "label", r.Label, "previous", prev.Label)
		s.Stats.Duplicates++
		s.Stats.Meshes -= len(prev.Meshes)
	}
	seen[r.AGS] = true
	s.Regions[key] = r
	s.Stats.Meshes += len(r.Meshes)
	return 0, false
}

// buildRegion turns one projected county into meshes and samples.
func buildRegion(c geom.County, opts Options, rnd *rand.Rand, l *slog.Logger) (*Region, error) {
	batch, err := tessellate.ExtractAll(tessellate.Flatten(c), l)
	for _, pe := range batch.Skipped {
		metrics.PartsFailedTotal.WithLabelValues(reason(pe.Err)).Inc()
	}
	r := &Region{AGS: c.AGS, Label: c.Name, Properties: c.Properties, Skipped: batch.Skipped}
	if err != nil {
		return r, err
	}
	for _, ex := range batch.Extractions {
		r.Meshes = append(r.Meshes, mesh.FromExtraction(ex))
	}
	sampleRegion(r, opts, rnd, l)
	metrics.RegionsBuiltTotal.Inc()
	metrics.SamplingExhaustedTotal.Add(float64(r.Samples.Exhausted))
	if r.Samples.Fallback {
		metrics.SamplingFallbackTotal.Inc()
	}
	return r, nil
}

// sampleRegion draws the sample points of r and sets its bounds.
func sampleRegion(r *Region, opts Options, rnd *rand.Rand, l *slog.Logger) {
	count := opts.SampleCount
	if count < 0 {
		count = sampler.DefaultCount
	}
	r.Samples = sampler.Sample(r.Meshes, sampler.Options{
		Count:         count,
		MaxIterations: opts.MaxIterations,
		Rand:          rnd,
		Label:         r.Label,
		Logger:        l,
	})
	r.Bounds = r.Samples.Bounds
}

func reason(err error) string {
	switch {
	case errors.Is(err, tessellate.ErrMissingGeometry):
		return "missing_geometry"
	case errors.Is(err, tessellate.ErrDegenerateTriangulation):
		return "degenerate"
	}
	return "other"
}
