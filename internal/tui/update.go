package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	spinner "github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		lo := m.layout()
		m.l.SetSize(sidebarWidth-2, lo.contentH-2)
		m.bar.Width = max(10, min(60, lo.contentW/3))
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "load error: " + msg.err.Error()
			m.log.Error("load_failed", "err", msg.err)
			return m, nil
		}
		m.setScene(msg.scene, msg.timeline)
		return m, nil
	case frameMsg, playbackDoneMsg:
		return m, m.handlePlayback(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// If list is visible and filtering, send keys to list and ignore global commands
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.pasteMode {
		switch msg.String() {
		case "esc":
			m.pasteMode = false
			m.ta.Blur()
			return m, nil
		case "enter":
			w := strings.TrimSpace(m.ta.Value())
			if w == "" {
				m.status = "paste: empty"
				return m, nil
			}
			r, err := m.previewRegion(w)
			if err != nil {
				m.status = "preview error: " + err.Error()
				return m, nil
			}
			m.preview = r
			if m.scene == nil {
				m.bbox = boundsBBox(r.Bounds)
			}
			tris := 0
			for _, msh := range r.Meshes {
				tris += msh.TriangleCount()
			}
			m.status = fmt.Sprintf("preview: %d parts  %d triangles  %d samples  fallback=%v",
				len(r.Meshes), tris, len(r.Samples.Points), r.Samples.Fallback)
			m.pasteMode = false
			m.ta.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.ta, cmd = m.ta.Update(msg)
		return m, cmd
	}
	if m.showTable {
		switch msg.String() {
		case "up", "down", "pgup", "pgdown", "home", "end", "k", "j":
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
	}
	switch msg.String() {
	case "ctrl+c", "q":
		m.stopPlayback()
		return m, tea.Quit
	case " ":
		if m.playing {
			m.stopPlayback()
			m.status = "pausing"
			return m, nil
		}
		return m, m.startPlayback()
	case "r":
		m.stopPlayback()
		m.next, m.trail = 0, nil
		return m, m.startPlayback()
	case "1":
		m.showFill = !m.showFill
		m.status = fmt.Sprintf("fill: %v", m.showFill)
	case "2":
		m.showSamples = !m.showSamples
		m.status = fmt.Sprintf("samples: %v", m.showSamples)
	case "3":
		m.showBursts = !m.showBursts
		m.status = fmt.Sprintf("bursts: %v", m.showBursts)
	case "4":
		m.showTexture = !m.showTexture
		m.status = fmt.Sprintf("texture: %v", m.showTexture)
	case "+", "=":
		if m.zoom < 64 {
			m.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "-", "_":
		if m.zoom > 0.05 {
			m.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "0":
		m.zoom, m.offsetX, m.offsetY = 1, 0, 0
		m.status = "view reset"
	case "tab":
		m.showSidebar = !m.showSidebar
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		return m, m.ta.Focus()
	case "x":
		m.preview = nil
		m.status = "preview cleared"
	case "h":
		m.helpVisible = !m.helpVisible
	case "t":
		m.showTable = !m.showTable
		if m.showTable {
			m.refreshTable()
		}
	case "i":
		m.inspectPopup = m.inspect()
	case "esc":
		m.inspectPopup = ""
		m.selected = 0
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(countyItem); ok {
				m.selected = it.ags
				m.status = "selected: " + it.title
			}
		}
	case "up":
		m.offsetY += 1
	case "down":
		m.offsetY -= 1
	case "left":
		m.offsetX += 2
	case "right":
		m.offsetX -= 2
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleMouse tracks the county under the pointer.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	lo := m.layout()
	cx, cy := msg.X, msg.Y
	if cx < lo.mapX || cx >= lo.mapX+lo.mapW || cy < lo.mapY || cy >= lo.mapY+lo.mapH {
		m.hovering = false
		m.hoverAGS = 0
		return
	}
	m.hovering = true
	m.hoverCellX = cx - lo.mapX
	m.hoverCellY = cy - lo.mapY
	pos, ok := m.cellToWorld(m.hoverCellX, m.hoverCellY, lo.mapW, lo.mapH)
	if !ok {
		return
	}
	m.hoverPos = pos
	m.hoverAGS, _ = m.regionAt(pos)
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.hoverAGS != 0 {
		m.selected = m.hoverAGS
	}
}

// inspect describes the hovered county, else the selected one.
func (m Model) inspect() string {
	key := m.hoverAGS
	if key == 0 {
		key = m.selected
	}
	if m.scene == nil || key == 0 {
		return "no county under cursor"
	}
	r, ok := m.scene.Regions[key]
	if !ok {
		return "no county under cursor"
	}
	tris := 0
	for _, msh := range r.Meshes {
		tris += msh.TriangleCount()
	}
	lines := []string{
		fmt.Sprintf("county: %s", r.Label),
		fmt.Sprintf("ags: %05d", r.AGS),
		fmt.Sprintf("meshes: %d  triangles: %d", len(r.Meshes), tris),
		fmt.Sprintf("samples: %d  exhausted: %d", len(r.Samples.Points), r.Samples.Exhausted),
		fmt.Sprintf("fallback: %s", yesNo(r.Samples.Fallback)),
		fmt.Sprintf("center: %s", fmtVec(r.Bounds.CenterWorld)),
		fmt.Sprintf("size: %s", fmtVec(r.Bounds.Size())),
	}
	if len(r.Skipped) > 0 {
		lines = append(lines, fmt.Sprintf("skipped parts: %d", len(r.Skipped)))
	}
	return strings.Join(lines, "\n")
}
