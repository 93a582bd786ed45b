// Package frames provides a small ordered-column table used for dataset
// descriptions and per-window metadata.
//
// A Frame keeps its columns in first-seen order and its rows aligned to the
// full column set; cells for columns a row never supplied are nil. Every
// frame owns a fresh, contiguous 0..n-1 row index: indices are assigned at
// construction and never inherited from source frames.
package frames

import (
	"fmt"
	"strings"
)

// Frame is an ordered-column, row-major table of scalar cells.
type Frame struct {
	cols   []string
	colPos map[string]int
	rows   [][]any
}

// New returns an empty frame with the given columns, in order.
func New(cols ...string) *Frame {
	f := &Frame{colPos: make(map[string]int, len(cols))}
	for _, c := range cols {
		f.addColumn(c)
	}
	return f
}

func (f *Frame) addColumn(name string) int {
	if pos, ok := f.colPos[name]; ok {
		return pos
	}
	pos := len(f.cols)
	f.cols = append(f.cols, name)
	f.colPos[name] = pos
	for i, row := range f.rows {
		f.rows[i] = append(row, nil)
	}
	return pos
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// Columns returns the column names in order. The returned slice is a copy.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.cols))
	copy(out, f.cols)
	return out
}

// HasColumn reports whether the frame has a column with the given name.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.colPos[name]
	return ok
}

// AppendRow appends one row. Cells are given as name/value pairs; columns
// not yet present in the frame are added (union-of-columns semantics), and
// columns the row does not mention are left nil.
func (f *Frame) AppendRow(cells []Cell) {
	row := make([]any, len(f.cols))
	for _, cell := range cells {
		pos := f.addColumn(cell.Name)
		if pos >= len(row) {
			grown := make([]any, len(f.cols))
			copy(grown, row)
			row = grown
		}
		row[pos] = cell.Value
	}
	if len(row) < len(f.cols) {
		grown := make([]any, len(f.cols))
		copy(grown, row)
		row = grown
	}
	f.rows = append(f.rows, row)
}

// Cell is one named value inside a row.
type Cell struct {
	Name  string
	Value any
}

// At returns the cell at (row, column name). It returns an error when the
// row is out of range or the column does not exist.
func (f *Frame) At(row int, col string) (any, error) {
	if row < 0 || row >= len(f.rows) {
		return nil, fmt.Errorf("row %d out of range [0, %d)", row, len(f.rows))
	}
	pos, ok := f.colPos[col]
	if !ok {
		return nil, fmt.Errorf("column %q not found", col)
	}
	return f.rows[row][pos], nil
}

// Col returns all cells of one column in row order.
func (f *Frame) Col(name string) ([]any, error) {
	pos, ok := f.colPos[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]any, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[pos]
	}
	return out, nil
}

// Index returns the row index, always the fresh range 0..n-1 assigned at
// construction.
func (f *Frame) Index() []int {
	idx := make([]int, len(f.rows))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// Row returns row i as name/value cells in column order, skipping nil cells.
func (f *Frame) Row(i int) ([]Cell, error) {
	if i < 0 || i >= len(f.rows) {
		return nil, fmt.Errorf("row %d out of range [0, %d)", i, len(f.rows))
	}
	cells := make([]Cell, 0, len(f.cols))
	for pos, name := range f.cols {
		if v := f.rows[i][pos]; v != nil {
			cells = append(cells, Cell{Name: name, Value: v})
		}
	}
	return cells, nil
}

// Concat returns a new frame holding the rows of all given frames in order.
// Columns are the union of the inputs' columns, in first-seen order; the
// result's row index is reset to 0..n-1.
func Concat(fs ...*Frame) *Frame {
	out := New()
	for _, f := range fs {
		if f == nil {
			continue
		}
		for _, c := range f.cols {
			out.addColumn(c)
		}
		for i := range f.rows {
			cells, _ := f.Row(i)
			out.AppendRow(cells)
		}
	}
	return out
}

// String renders the frame for logging and debugging.
func (f *Frame) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(f.cols, "\t"))
	b.WriteByte('\n')
	for _, row := range f.rows {
		for pos := range f.cols {
			if pos > 0 {
				b.WriteByte('\t')
			}
			fmt.Fprintf(&b, "%v", row[pos])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
