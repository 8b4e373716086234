// Package tracking holds the core logic for interpreting tracking-sheet
// snapshots: classifying raw cell statuses, grouping outstanding work by
// customer, and diffing a morning baseline against the current sheet.
// Everything here is pure computation over in-memory snapshots; fetching
// and persisting sheets is the caller's problem.
package tracking

import "encoding/json"

// Row is an ordered mapping of column name to cell value. Column order is
// the sheet's header order, which downstream report ordering depends on.
type Row struct {
	cols   []string
	values map[string]string
}

// NewRow creates an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]string)}
}

// Set stores a cell value, recording the column on first sight so that
// insertion order is preserved.
func (r *Row) Set(column, value string) {
	if _, seen := r.values[column]; !seen {
		r.cols = append(r.cols, column)
	}
	r.values[column] = value
}

// Get returns the cell value for a column. A missing column reads as an
// empty cell.
func (r *Row) Get(column string) string {
	return r.values[column]
}

// Columns returns the column names in insertion order. The returned slice
// is shared; callers must not mutate it.
func (r *Row) Columns() []string {
	return r.cols
}

// Len returns the number of columns in the row.
func (r *Row) Len() int {
	return len(r.cols)
}

// Snapshot is one whole-sheet capture: data rows in sheet order. Ingestion
// (internal/sheets) drops fully-empty rows before a Snapshot is built.
type Snapshot []*Row

// MarshalJSON encodes the row as an array of [column, value] pairs so
// column order survives persistence.
func (r *Row) MarshalJSON() ([]byte, error) {
	pairs := make([][2]string, 0, len(r.cols))
	for _, col := range r.cols {
		pairs = append(pairs, [2]string{col, r.values[col]})
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes the pair-array form produced by MarshalJSON.
func (r *Row) UnmarshalJSON(data []byte) error {
	var pairs [][2]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	r.cols = nil
	r.values = make(map[string]string, len(pairs))
	for _, p := range pairs {
		r.Set(p[0], p[1])
	}
	return nil
}
