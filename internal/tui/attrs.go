package tui

import (
	"encoding/json"
	"fmt"
	"sort"

	table "github.com/charmbracelet/bubbles/table"
)

const maxColW = 24

// refreshAttrsFromCurrent rebuilds the table columns/rows from the loaded features.
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := m.buildAttributes()
	if len(rows) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(len(c)+2, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(tcols))
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, r...)
		trows = append(trows, table.Row(row))
	}
	// clear rows first so the table never sees rows wider than its columns
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes returns one row per feature: kind, vertex counts before and
// after, the simplifier error if any, then the union of property keys.
func (m *Model) buildAttributes() ([]string, [][]string) {
	var keys []string
	seen := map[string]bool{}
	for _, f := range m.features {
		var fkeys []string
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				fkeys = append(fkeys, k)
			}
		}
		sort.Strings(fkeys)
		keys = append(keys, fkeys...)
	}
	cols := append([]string{"kind", "in", "out", "error"}, keys...)

	rows := make([][]string, 0, len(m.features))
	for i, f := range m.features {
		row := []string{string(f.Geometry.Kind), fmt.Sprintf("%d", f.Geometry.NumCoords()), "", ""}
		if i < len(m.results) {
			if err := m.results[i].err; err != nil {
				row[3] = err.Error()
			} else {
				row[2] = fmt.Sprintf("%d", m.results[i].out.Geometry.NumCoords())
			}
		}
		for _, k := range keys {
			v, ok := f.Properties[k]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatValue(v))
		}
		rows = append(rows, row)
	}
	return cols, rows
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
