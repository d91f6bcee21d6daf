package tui

import (
	"fmt"
	"math/rand"
	"sort"

	list "github.com/charmbracelet/bubbles/list"
	"github.com/go-gl/mathgl/mgl64"

	"covidmap/internal/cases"
	"covidmap/internal/mesh"
	"covidmap/internal/sampler"
	"covidmap/internal/scene"
)

type countyItem struct {
	title, desc string
	ags         int
}

func (c countyItem) Title() string       { return c.title }
func (c countyItem) Description() string { return c.desc }
func (c countyItem) FilterValue() string { return c.title }

func countyItems(s *scene.Scene) []list.Item {
	items := make([]list.Item, 0, len(s.Order))
	for _, k := range s.Order {
		r := s.Regions[k]
		items = append(items, countyItem{
			title: r.Label,
			desc:  fmt.Sprintf("%05d  %d pts", r.AGS, len(r.Samples.Points)),
			ags:   k,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(countyItem).title < items[j].(countyItem).title })
	return items
}

func countyStatus(s *scene.Scene, tl cases.Timeline) string {
	st := s.Stats
	msg := fmt.Sprintf("loaded: %d counties  %d meshes", st.Regions, st.Meshes)
	if st.SkippedRegions > 0 || st.FailedParts > 0 {
		msg += fmt.Sprintf("  skipped=%d failed parts=%d", st.SkippedRegions, st.FailedParts)
	}
	if n := len(tl.Days); n > 0 {
		msg += fmt.Sprintf("  %d report days", n)
	}
	return msg
}

type edgeKey struct{ a, b int }

// outline returns the mesh boundary: edges used by exactly one triangle.
func outline(m mesh.Mesh) [][2]mgl64.Vec3 {
	count := make(map[edgeKey]int, len(m.Indices))
	order := make([]edgeKey, 0, len(m.Indices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		for k := 0; k < 3; k++ {
			a, b := m.Indices[t+k], m.Indices[t+(k+1)%3]
			if a > b {
				a, b = b, a
			}
			e := edgeKey{a, b}
			if count[e] == 0 {
				order = append(order, e)
			}
			count[e]++
		}
	}
	var out [][2]mgl64.Vec3
	for _, e := range order {
		if count[e] == 1 {
			out = append(out, [2]mgl64.Vec3{m.WorldVertex(e.a), m.WorldVertex(e.b)})
		}
	}
	return out
}

func spreadRegion(r *scene.Region, spacing float64, rnd *rand.Rand) []mgl64.Vec3 {
	return sampler.Spread(r.Meshes, spacing, rnd)
}

// regionAt returns the key of the county whose footprint contains p.
func (m Model) regionAt(p mgl64.Vec3) (int, bool) {
	if m.scene == nil {
		return 0, false
	}
	for _, k := range m.scene.Order {
		if m.solids[k].Contains(p) {
			return k, true
		}
	}
	return 0, false
}
