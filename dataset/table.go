package dataset

import (
	"errors"
	"fmt"
	"math"
)

// ErrColumnNotFound reports a lookup of a column the table does not carry.
var ErrColumnNotFound = errors.New("dataset: column not found")

// Kind discriminates the value vector a Column carries.
type Kind int

const (
	KindString Kind = iota
	KindFloat
)

// Column is a named, typed value vector. Exactly one of the value slices is
// populated, selected by Kind. Fields are exported for the gob codec.
type Column struct {
	Name    string
	Kind    Kind
	Strings []string
	Floats  []float64
}

// Strings returns a string column.
func Strings(name string, vals ...string) Column {
	return Column{Name: name, Kind: KindString, Strings: vals}
}

// Floats returns a float column.
func Floats(name string, vals ...float64) Column {
	return Column{Name: name, Kind: KindFloat, Floats: vals}
}

func (c Column) rows() int {
	if c.Kind == KindFloat {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// Table is an ordered collection of equal-length, uniquely named columns.
// Transforms return new Tables; column storage may be shared with the
// inputs, so treat value slices as read-only.
type Table struct {
	Cols []Column
}

// NewTable assembles a table, validating that column names are unique and
// non-empty and that all columns have the same number of rows.
func NewTable(cols ...Column) (*Table, error) {
	seen := make(map[string]struct{}, len(cols))
	rows := -1
	for _, c := range cols {
		if c.Name == "" {
			return nil, errors.New("dataset: column with empty name")
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("dataset: duplicate column %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		if rows == -1 {
			rows = c.rows()
			continue
		}
		if c.rows() != rows {
			return nil, fmt.Errorf("dataset: column %q has %d rows, want %d", c.Name, c.rows(), rows)
		}
	}
	return &Table{Cols: cols}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.Cols) == 0 {
		return 0
	}
	return t.Cols[0].rows()
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Cols))
	for i, c := range t.Cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, error) {
	for _, c := range t.Cols {
		if c.Name == name {
			return c, nil
		}
	}
	return Column{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// FloatColumn returns the raw values of a float column.
func (t *Table) FloatColumn(name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindFloat {
		return nil, fmt.Errorf("dataset: column %q holds strings, not floats", name)
	}
	return c.Floats, nil
}

// StringColumn returns the raw values of a string column.
func (t *Table) StringColumn(name string) ([]string, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindString {
		return nil, fmt.Errorf("dataset: column %q holds floats, not strings", name)
	}
	return c.Strings, nil
}

// Rename returns a table with fn applied to every column name.
func (t *Table) Rename(fn func(string) string) *Table {
	cols := make([]Column, len(t.Cols))
	for i, c := range t.Cols {
		c.Name = fn(c.Name)
		cols[i] = c
	}
	return &Table{Cols: cols}
}

// Filter returns the rows whose string column col equals value.
func (t *Table) Filter(col, value string) (*Table, error) {
	vals, err := t.StringColumn(col)
	if err != nil {
		return nil, err
	}
	var rows []int
	for i, v := range vals {
		if v == value {
			rows = append(rows, i)
		}
	}
	cols := make([]Column, len(t.Cols))
	for i, c := range t.Cols {
		cols[i] = pick(c, rows)
	}
	return NewTable(cols...)
}

// LeftJoin joins right onto t, matching t's leftKey values against right's
// rightKey values. Every left row appears exactly once in the result; when
// right keys repeat, the first match wins. The right key column is dropped
// from the result, and unmatched left rows are filled with the kind's
// missing value (NaN for floats, "" for strings).
func (t *Table) LeftJoin(right *Table, leftKey, rightKey string) (*Table, error) {
	lk, err := t.StringColumn(leftKey)
	if err != nil {
		return nil, err
	}
	rk, err := right.StringColumn(rightKey)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]int, len(rk))
	for i, k := range rk {
		if _, ok := byKey[k]; !ok {
			byKey[k] = i
		}
	}
	rows := make([]int, len(lk))
	for i, k := range lk {
		if j, ok := byKey[k]; ok {
			rows[i] = j
		} else {
			rows[i] = -1
		}
	}

	cols := make([]Column, 0, len(t.Cols)+len(right.Cols)-1)
	cols = append(cols, t.Cols...)
	for _, c := range right.Cols {
		if c.Name == rightKey {
			continue
		}
		cols = append(cols, pick(c, rows))
	}
	return NewTable(cols...)
}

// pick projects c onto the given row indices; a -1 index marks an unmatched
// row and fills the kind's missing value.
func pick(c Column, rows []int) Column {
	if c.Kind == KindFloat {
		vals := make([]float64, len(rows))
		for i, j := range rows {
			if j < 0 {
				vals[i] = math.NaN()
				continue
			}
			vals[i] = c.Floats[j]
		}
		return Floats(c.Name, vals...)
	}
	vals := make([]string, len(rows))
	for i, j := range rows {
		if j >= 0 {
			vals[i] = c.Strings[j]
		}
	}
	return Strings(c.Name, vals...)
}
