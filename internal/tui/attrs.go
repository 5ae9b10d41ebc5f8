package tui

import (
	"encoding/json"
	"sort"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
	"github.com/paulmach/orb/geojson"

	"georeduce/internal/reduce"
)

// refreshAttrsFromCurrent rebuilds the table columns/rows from the loaded document
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := m.buildAttributes()
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	for i, c := range cols {
		w := len(c)
		for _, r := range rows {
			w = max(w, len(r[i]))
		}
		tcols = append(tcols, table.Column{Title: c, Width: min(w+2, 24)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make(table.Row, len(tcols))
		row[0] = strconv.Itoa(i + 1)
		copy(row[1:], r)
		trows = append(trows, row)
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes lists one row per feature: its geometry, the first ring size before
// and after reduction, then the union of property keys.
func (m *Model) buildAttributes() ([]string, [][]string) {
	if m.doc == nil {
		return nil, nil
	}
	in := m.doc.Collection.Features
	var out []*geojson.Feature
	if m.res != nil {
		out = m.res.Reduced.Features
	}

	seen := map[string]bool{}
	var keys []string
	for _, f := range in {
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)

	cols := append([]string{"geometry", "points", "reduced"}, keys...)
	rows := make([][]string, 0, len(in))
	for i, f := range in {
		row := make([]string, 0, len(cols))
		gt := ""
		if f.Geometry != nil {
			gt = f.Geometry.GeoJSONType()
		}
		reduced := "-"
		if i < len(out) {
			reduced = strconv.Itoa(len(reduce.FirstRing(out[i])))
		}
		row = append(row, gt, strconv.Itoa(len(reduce.FirstRing(f))), reduced)
		for _, k := range keys {
			row = append(row, formatValue(f.Properties[k]))
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
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
