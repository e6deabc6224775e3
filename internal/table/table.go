// Package table implements the tabular record set produced by search and
// download operations: ordered columns, loosely typed cells, UID-aware
// sorting, CSV persistence and console presentation.
package table

import (
	"sort"
	"strings"

	"github.com/hirsch-lab/kheops-client/internal/uid"
)

// Table is an ordered-column record set. Cells hold nil (missing), string,
// []string (multi-valued attribute) or int64 (byte size).
type Table struct {
	columns []string
	rows    [][]any
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{columns: append([]string(nil), columns...)}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// ColumnIndex returns the position of a column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AppendRow adds one row from a name-to-value map. Columns missing from
// the map become nil cells; map keys without a column are ignored.
func (t *Table) AppendRow(values map[string]any) {
	row := make([]any, len(t.columns))
	for i, c := range t.columns {
		row[i] = values[c]
	}
	t.rows = append(t.rows, row)
}

// Value returns the cell at (row, column), nil when the column is absent.
func (t *Table) Value(row int, column string) any {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil
	}
	return t.rows[row][idx]
}

// Column returns all cells of a column, or nil when the column is absent.
func (t *Table) Column(name string) []any {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out
}

// Strings returns the string cells of a column in row order, skipping nil
// and non-string cells.
func (t *Table) Strings(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		if s, ok := row[idx].(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Concat appends the rows of every table to a new table with the first
// table's column order. Rows are matched by column name, so tables with
// additional or reordered columns lose nothing they share with the first.
func Concat(tables ...*Table) *Table {
	var out *Table
	for _, t := range tables {
		if t == nil {
			continue
		}
		if out == nil {
			out = New(t.columns...)
		}
		for i := range t.rows {
			values := make(map[string]any, len(t.columns))
			for j, c := range t.columns {
				values[c] = t.rows[i][j]
			}
			out.AppendRow(values)
		}
	}
	if out == nil {
		out = New()
	}
	return out
}

// SortByUID stably sorts the rows by a UID column using numeric-tuple
// comparison. Rows with missing values sort first.
func (t *Table) SortByUID(column string) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return
	}
	keys := make([]uid.Key, len(t.rows))
	for i, row := range t.rows {
		s, _ := row[idx].(string)
		keys[i] = uid.NewKey(s)
	}
	order := make([]int, len(t.rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return keys[order[a]].Compare(keys[order[b]]) < 0
	})
	rows := make([][]any, len(t.rows))
	for i, o := range order {
		rows[i] = t.rows[o]
	}
	t.rows = rows
}

// InsertColumn adds a column with the given cells at position idx.
// Positions beyond the current width append at the end.
func (t *Table) InsertColumn(idx int, name string, cells []any) {
	if idx < 0 || idx > len(t.columns) {
		idx = len(t.columns)
	}
	t.columns = append(t.columns, "")
	copy(t.columns[idx+1:], t.columns[idx:])
	t.columns[idx] = name
	for i := range t.rows {
		var cell any
		if i < len(cells) {
			cell = cells[i]
		}
		t.rows[i] = append(t.rows[i], nil)
		copy(t.rows[i][idx+1:], t.rows[i][idx:])
		t.rows[i][idx] = cell
	}
}

// MergeInt64By appends a new int64 column whose cells are looked up from
// values by the string key in keyColumn. Rows without a match get nil.
func (t *Table) MergeInt64By(keyColumn, newColumn string, values map[string]int64) {
	keyIdx := t.ColumnIndex(keyColumn)
	cells := make([]any, len(t.rows))
	for i, row := range t.rows {
		if keyIdx < 0 {
			continue
		}
		key, _ := row[keyIdx].(string)
		if size, ok := values[key]; ok {
			cells[i] = size
		}
	}
	t.InsertColumn(len(t.columns), newColumn, cells)
}

// DistinctStrings returns the distinct string values of a column in first
// occurrence order.
func (t *Table) DistinctStrings(column string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range t.Strings(column) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// SumInt64 sums the int64 cells of a column.
func (t *Table) SumInt64(column string) int64 {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return 0
	}
	var sum int64
	for _, row := range t.rows {
		if n, ok := row[idx].(int64); ok {
			sum += n
		}
	}
	return sum
}

// TrimSpace strips leading and trailing whitespace from every string cell.
func (t *Table) TrimSpace() {
	for _, row := range t.rows {
		for j, cell := range row {
			switch v := cell.(type) {
			case string:
				row[j] = strings.TrimSpace(v)
			case []string:
				for k := range v {
					v[k] = strings.TrimSpace(v[k])
				}
			}
		}
	}
}
