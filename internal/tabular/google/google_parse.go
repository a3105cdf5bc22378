package google

import (
	"fmt"
	"strings"

	"timetrack/internal/tabular"
)

// rowsFromValues converts a values matrix (as returned by the Sheets API)
// into header-keyed rows. The first row is the header; cells are
// stringified and trimmed. Rows with no non-empty cell are dropped.
func rowsFromValues(values [][]interface{}) []tabular.Row {
	if len(values) < 2 {
		return nil
	}
	header := toStrings(values[0])
	var rows []tabular.Row
	for _, raw := range values[1:] {
		cells := toStrings(raw)
		row := make(tabular.Row, len(header))
		empty := true
		for i, name := range header {
			if name == "" || i >= len(cells) {
				continue
			}
			row[name] = cells[i]
			if cells[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
