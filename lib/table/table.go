package table

import (
	"fmt"
	"strings"

	"github.com/mbeckers/serdex/lib/tensor"
)

// --------------------------------------------------------------------------
// Table Type
// --------------------------------------------------------------------------

// Table is an ordered collection of named columns. Every column is a dense
// array, column names are unique and all columns hold the same number of
// rows. Column order is preserved from insertion and survives serialization.
type Table struct {
	names []string
	cols  []*tensor.Dense
	index map[string]int
}

// New creates an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// FromColumns creates a table from parallel name and column slices.
func FromColumns(names []string, cols []*tensor.Dense) (*Table, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("table: %d names for %d columns", len(names), len(cols))
	}
	t := New()
	for i, name := range names {
		if err := t.AddColumn(name, cols[i]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn appends a column. The name must be unused and the column must
// match the row count of the existing columns.
func (t *Table) AddColumn(name string, col *tensor.Dense) error {
	if name == "" {
		return fmt.Errorf("table: column name must not be empty")
	}
	if col == nil {
		return fmt.Errorf("table: column %q is nil", name)
	}
	if _, exists := t.index[name]; exists {
		return fmt.Errorf("table: duplicate column name %q", name)
	}
	if len(t.cols) > 0 && col.Rows() != t.NumRows() {
		return fmt.Errorf("table: column %q has %d rows, table has %d",
			name, col.Rows(), t.NumRows())
	}
	t.index[name] = len(t.cols)
	t.names = append(t.names, name)
	t.cols = append(t.cols, col)
	return nil
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// NumRows returns the number of rows, 0 for an empty table.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Rows()
}

// Names returns the column names in insertion order.
func (t *Table) Names() []string {
	cp := make([]string, len(t.names))
	copy(cp, t.names)
	return cp
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*tensor.Dense, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// ColumnAt returns the i-th column and its name.
func (t *Table) ColumnAt(i int) (string, *tensor.Dense, error) {
	if i < 0 || i >= len(t.cols) {
		return "", nil, fmt.Errorf("table: column index %d out of range [0,%d)", i, len(t.cols))
	}
	return t.names[i], t.cols[i], nil
}

// Equal reports whether two tables have the same columns in the same order.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.cols) != len(other.cols) {
		return false
	}
	for i := range t.cols {
		if t.names[i] != other.names[i] || !t.cols[i].Equal(other.cols[i]) {
			return false
		}
	}
	return true
}

// String returns a short human-readable description of the table.
func (t *Table) String() string {
	return fmt.Sprintf("Table(%d rows, columns [%s])", t.NumRows(), strings.Join(t.names, ", "))
}
