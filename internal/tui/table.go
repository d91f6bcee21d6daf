package tui

import (
	"fmt"
	"sort"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
	jsoniter "github.com/json-iterator/go"

	"covidmap/internal/geom"
	"covidmap/internal/scene"
)

// maxPropCols caps the property columns appended to the county table.
const maxPropCols = 6

// refreshTable rebuilds the county table from the loaded scene.
func (m *Model) refreshTable() {
	if m.scene == nil || len(m.scene.Order) == 0 {
		m.showTable = false
		m.status = "no counties loaded"
		return
	}
	cols, rows := countyTable(m.scene)
	tcols := make([]table.Column, 0, len(cols))
	maxColW := 24
	for _, c := range cols {
		w := len(c) + 2
		for _, r := range rows {
			if i := len(tcols); i < len(r) && len(r[i])+1 > w {
				w = len(r[i]) + 1
			}
		}
		tcols = append(tcols, table.Column{Title: c, Width: min(w, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		trows = append(trows, table.Row(r))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// countyTable returns one row per region in input order: fixed pipeline
// columns followed by the alphabetically first property keys.
func countyTable(s *scene.Scene) ([]string, [][]string) {
	cols := []string{"#", "AGS", "County", "Meshes", "Tris", "Samples", "Fallback", "Exhausted"}
	var props []string
	seen := map[string]bool{geom.PropAGS: true, geom.PropName: true}
	for _, r := range s.Ordered() {
		for k := range r.Properties {
			if !seen[k] {
				seen[k] = true
				props = append(props, k)
			}
		}
	}
	sort.Strings(props)
	if len(props) > maxPropCols {
		props = props[:maxPropCols]
	}
	cols = append(cols, props...)

	rows := make([][]string, 0, len(s.Order))
	for i, r := range s.Ordered() {
		tris := 0
		for _, msh := range r.Meshes {
			tris += msh.TriangleCount()
		}
		row := []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%05d", r.AGS),
			r.Label,
			strconv.Itoa(len(r.Meshes)),
			strconv.Itoa(tris),
			strconv.Itoa(len(r.Samples.Points)),
			yesNo(r.Samples.Fallback),
			strconv.Itoa(r.Samples.Exhausted),
		}
		for _, k := range props {
			row = append(row, propString(r.Properties[k]))
		}
		rows = append(rows, row)
	}
	return cols, rows
}

func propString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		bs, _ := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(t)
		return string(bs)
	}
}
