package model

import (
	"sort"
	"strings"
)

// RawRow is one loosely-typed spreadsheet row: column header to cell
// text, exactly as the ingestion layer hands it over. Headers vary in
// spelling and casing between tenants, so consumers probe an ordered
// list of candidate keys per logical field instead of assuming one.
type RawRow map[string]string

// First returns the trimmed value of the first candidate key that holds
// a non-empty cell. Keys are tried in order, first against the row as
// written and then case-insensitively.
func (r RawRow) First(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[k]); v != "" {
			return v
		}
	}
	for _, k := range keys {
		// Map iteration order is random; collect and sort the matching
		// columns so rows with case-variant duplicates resolve the same
		// way on every run.
		var cols []string
		for col := range r {
			if strings.EqualFold(strings.TrimSpace(col), k) {
				cols = append(cols, col)
			}
		}
		sort.Strings(cols)
		for _, col := range cols {
			if v := strings.TrimSpace(r[col]); v != "" {
				return v
			}
		}
	}
	return ""
}
