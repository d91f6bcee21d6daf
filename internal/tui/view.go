package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lo := m.layout()

	// Header
	title := " covidmap ─ county case playback "
	if m.frame.Display != "" {
		title += " " + dateStyle.Render(m.frame.Display) + " "
	}
	header := titleStyle.Render(title)
	header = lipgloss.NewStyle().Width(lo.contentW).Padding(0).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(lo.sidebarW).Render(m.l.View())
	}

	// track map size for inspect
	m.mapW = max(8, lo.mapW)
	m.mapH = max(4, lo.mapH)
	var mapView string
	switch {
	case m.showTable:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, lo.contentW-6)
		}
		maxW := min(lo.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lo.mapH-2, 20))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lo.mapW, lo.mapH, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(m.mapW)
		m.ta.SetHeight(min(m.mapH, 12))
		mapView = lipgloss.NewStyle().Width(lo.mapW).Height(lo.mapH).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(lo.mapW).Height(lo.mapH).Render(m.renderMap(m.mapW, m.mapH))
	}

	// inspect popup, center-left overlay
	popup := ""
	if m.inspectPopup != "" && !m.showTable {
		maxPopupW := max(20, min(48, lo.contentW/2))
		box := boxStyle.MaxWidth(maxPopupW).Render(m.inspectPopup)
		popup = lipgloss.Place(lo.contentW, lipgloss.Height(box), lipgloss.Left, lipgloss.Center, box)
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, m.renderFooter(lo.contentW))
	return appStyle.Width(lo.contentW).Height(m.height).Render(ui)
}

func (m Model) renderFooter(width int) string {
	status := dimStyle.Render(" " + m.status + " ")
	if m.loading {
		status = m.spin.View() + status
	}
	coords := ""
	if m.hovering && m.bbox.MaxX > m.bbox.MinX {
		coords = fmt.Sprintf("  x=%.1f y=%.1f", m.hoverPos.X(), m.hoverPos.Y())
		if m.scene != nil && m.hoverAGS != 0 {
			r := m.scene.Regions[m.hoverAGS]
			coords += fmt.Sprintf("  %s (%05d)", r.Label, r.AGS)
		}
		coords = dimStyle.Render(coords + "  ")
	}
	spacerW := max(0, width-lipgloss.Width(status)-lipgloss.Width(coords))
	line1 := lipgloss.JoinHorizontal(lipgloss.Bottom, status, strings.Repeat(" ", spacerW), coords)

	line2 := m.renderHelp()
	if len(m.timeline.Days) > 0 {
		state := "paused"
		if m.playing {
			state = "playing"
		}
		bar := fmt.Sprintf(" %s %d/%d %s", m.bar.ViewAs(m.progressPercent()), m.next, len(m.timeline.Days), dimStyle.Render(state))
		line2 = lipgloss.JoinHorizontal(lipgloss.Bottom, bar, line2)
	}
	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, line1, line2))
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"space play",
		"r restart",
		"↑↓←→ pan",
		"+/- zoom",
		"Tab counties",
		"1-4 layers",
		"p paste",
		"t table",
		"i inspect",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
