package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"covidmap/internal/mesh"
)

// viewport maps display coordinates onto the braille microgrid (2x4 per
// cell), keeping the aspect ratio and applying zoom and pan.
type viewport struct {
	scale  float64
	cx, cy float64
	halfW  float64
	halfH  float64
}

func (m Model) viewport(w, h int) (viewport, bool) {
	b := m.bbox
	if !(b.MaxX > b.MinX && b.MaxY > b.MinY) || w <= 1 || h <= 1 {
		return viewport{}, false
	}
	wMic, hMic := float64(w*2-1), float64(h*4-1)
	s := math.Min(wMic/(b.MaxX-b.MinX), hMic/(b.MaxY-b.MinY)) * m.zoom
	return viewport{
		scale: s,
		cx:    (b.MinX + b.MaxX) / 2,
		cy:    (b.MinY + b.MaxY) / 2,
		halfW: wMic/2 + float64(m.offsetX*2),
		halfH: hMic/2 + float64(m.offsetY*4),
	}, true
}

// micro maps a display point to microgrid coordinates; y grows downward.
func (v viewport) micro(p mgl64.Vec3) (int, int) {
	x := v.halfW + (p.X()-v.cx)*v.scale
	y := v.halfH - (p.Y()-v.cy)*v.scale
	return int(math.Round(x)), int(math.Round(y))
}

// world is the inverse of micro at z = 0.
func (v viewport) world(mx, my float64) mgl64.Vec3 {
	return mgl64.Vec3{v.cx + (mx-v.halfW)/v.scale, v.cy - (my-v.halfH)/v.scale, 0}
}

// cellToWorld converts a map cell to display coordinates at its center.
func (m Model) cellToWorld(cx, cy, w, h int) (mgl64.Vec3, bool) {
	v, ok := m.viewport(w, h)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return v.world(float64(cx*2)+0.5, float64(cy*4)+1.5), true
}

func (v viewport) fillMesh(br *brailleBuf, msh mesh.Mesh) {
	for t := 0; t+2 < len(msh.Indices); t += 3 {
		ax, ay := v.micro(msh.WorldVertex(msh.Indices[t]))
		bx, by := v.micro(msh.WorldVertex(msh.Indices[t+1]))
		cx, cy := v.micro(msh.WorldVertex(msh.Indices[t+2]))
		br.fillTriangle(ax, ay, bx, by, cx, cy)
	}
}

func (v viewport) drawEdges(br *brailleBuf, edges [][2]mgl64.Vec3) {
	for _, e := range edges {
		x0, y0 := v.micro(e[0])
		x1, y1 := v.micro(e[1])
		br.drawLineMicro(x0, y0, x1, y1)
	}
}

func (m Model) renderMap(w, h int) string {
	v, ok := m.viewport(w, h)
	if !ok {
		if m.loading {
			return m.spin.View() + " preparing counties..."
		}
		return dimStyle.Render("no counties loaded")
	}
	br := newBrailleBuf(w, h)

	if m.scene != nil {
		for _, k := range m.scene.Order {
			if m.showTexture {
				for _, p := range m.texture[k] {
					br.setPixel(v.micro(p))
				}
			}
			if m.showFill || k == m.selected {
				for _, msh := range m.scene.Regions[k].Meshes {
					v.fillMesh(br, msh)
				}
			}
			v.drawEdges(br, m.edges[k])
		}
	}
	if m.preview != nil {
		for _, msh := range m.preview.Meshes {
			v.fillMesh(br, msh)
		}
	}

	ov := newOverlay(w, h)
	if m.showSamples {
		if m.scene != nil {
			for _, r := range m.scene.Ordered() {
				for _, p := range r.Samples.Points {
					ov.put(v, p, '·', sampleStyle)
				}
			}
		}
		if m.preview != nil {
			for _, p := range m.preview.Samples.Points {
				ov.put(v, p, '•', previewStyle)
			}
		}
	}
	if m.hovering {
		ov.set(m.hoverCellX, m.hoverCellY, '◯', hoverStyle)
	}
	if m.showBursts {
		for i := len(m.trail) - 1; i >= 0; i-- {
			b := m.trail[i]
			ov.put(v, b.pos, burstGlyph(b.count), burstStyles[min(b.age, len(burstStyles)-1)])
		}
	}
	return ov.compose(br.toLines())
}

func burstGlyph(n int) rune {
	switch {
	case n >= 50:
		return '◉'
	case n >= 10:
		return '●'
	}
	return '•'
}

// overlay holds styled glyphs drawn over the braille layer, one per cell.
type overlay struct {
	w, h  int
	cells map[[2]int]string
}

func newOverlay(w, h int) *overlay {
	return &overlay{w: w, h: h, cells: make(map[[2]int]string)}
}

func (o *overlay) set(cx, cy int, r rune, st lipgloss.Style) {
	if cx < 0 || cy < 0 || cx >= o.w || cy >= o.h {
		return
	}
	o.cells[[2]int{cx, cy}] = st.Render(string(r))
}

func (o *overlay) put(v viewport, p mgl64.Vec3, r rune, st lipgloss.Style) {
	mx, my := v.micro(p)
	if mx < 0 || my < 0 {
		return
	}
	o.set(mx/2, my/4, r, st)
}

func (o *overlay) compose(base []string) string {
	var sb strings.Builder
	for y, line := range base {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x, r := range []rune(line) {
			if s, ok := o.cells[[2]int{x, y}]; ok {
				sb.WriteString(s)
				continue
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
