package cases

import (
	"log/slog"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"covidmap/internal/logger"
	"covidmap/internal/scene"
)

const (
	jitterMin  = 0.08
	jitterSpan = 0.079
	// EmitterOffset lifts burst origins toward the camera.
	EmitterOffset = -1.0
)

// Burst is the visual emission for one report: Count cases rising from
// Origin inside the county.
type Burst struct {
	AGS    int        `json:"ags"`
	Label  string     `json:"label"`
	Count  int        `json:"count"`
	Origin mgl64.Vec3 `json:"origin"`
}

// Jitter moves p by 0.08..0.159 on x and y, each with a random sign.
func Jitter(p mgl64.Vec3, rnd *rand.Rand) mgl64.Vec3 {
	dx := jitterMin + rnd.Float64()*jitterSpan
	dy := jitterMin + rnd.Float64()*jitterSpan
	if rnd.Float64() < 0.5 {
		dx = -dx
	}
	if rnd.Float64() < 0.5 {
		dy = -dy
	}
	return mgl64.Vec3{p.X() + dx, p.Y() + dy, p.Z()}
}

// Bursts resolves a day's reports against the scene. Reports with fewer
// than one case are dropped, as are reports for unknown counties (logged).
// Each burst starts at one of the region's sample points, or near its
// center when the region only has the fallback point.
func Bursts(d Day, s *scene.Scene, rnd *rand.Rand, l *slog.Logger) []Burst {
	if l == nil {
		l = logger.L()
	}
	out := make([]Burst, 0, len(d.Reports))
	for _, r := range d.Reports {
		if r.Cases < 1 {
			continue
		}
		region, ok := s.Region(r.CountyKey)
		if !ok {
			l.Error("no_drawn_county", "key", r.CountyKey, "day", d.Date)
			continue
		}
		pts := region.Samples.Points
		if len(pts) == 0 {
			continue
		}
		origin := pts[rnd.Intn(len(pts))]
		if region.Samples.Fallback {
			origin = Jitter(origin, rnd)
		}
		origin[2] += EmitterOffset
		out = append(out, Burst{AGS: region.AGS, Label: region.Label, Count: r.Cases, Origin: origin})
	}
	return out
}
