package dataset

import (
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind int

const (
	Text Kind = iota
	Integer
	Float
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Float:
		return "float"
	default:
		return "text"
	}
}

// Numeric reports whether the kind holds numbers.
func (k Kind) Numeric() bool { return k == Integer || k == Float }

// Value is a single cell. Num is meaningful for numeric columns, Str for text.
type Value struct {
	Null bool
	Num  float64
	Str  string
}

// NullValue is the missing-value marker.
var NullValue = Value{Null: true}

// Column is a named, ordered sequence of values.
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Null {
			n++
		}
	}
	return n
}

// AllNull reports whether every cell is null. An empty column is all null.
func (c *Column) AllNull() bool { return c.NullCount() == len(c.Values) }

// Numbers returns the non-null numeric values in row order.
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.Null {
			out = append(out, v.Num)
		}
	}
	return out
}

// Fill replaces every null with x and returns how many cells changed.
// An Integer column is promoted to Float when x has a fractional part.
func (c *Column) Fill(x float64) int {
	n := 0
	for i := range c.Values {
		if c.Values[i].Null {
			c.Values[i] = Value{Num: x}
			n++
		}
	}
	if n > 0 && c.Kind == Integer && x != float64(int64(x)) {
		c.Kind = Float
	}
	return n
}

// Format renders a cell the way it is written back to disk. Nulls render empty.
func (c *Column) Format(i int) string {
	v := c.Values[i]
	if v.Null {
		return ""
	}
	switch c.Kind {
	case Integer:
		return strconv.FormatInt(int64(v.Num), 10)
	case Float:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return v.Str
	}
}

// Format identifies the on-disk layout a dataset was read from.
type Format string

const (
	FormatDelimited Format = "delimited"
	FormatXLSX      Format = "xlsx"
)

// Dataset is an in-memory table: ordered columns with positionally aligned rows.
type Dataset struct {
	Name      string
	Path      string
	Format    Format
	Delimiter rune
	Sheet     string
	Columns   []*Column

	rows int
}

// New builds an empty dataset with the given headers.
func New(name string, headers []string) *Dataset {
	d := &Dataset{Name: name, Format: FormatDelimited, Delimiter: ','}
	for _, h := range headers {
		d.Columns = append(d.Columns, &Column{Name: h})
	}
	return d
}

// AppendRow adds a row of already-typed values. Missing trailing values become null.
func (d *Dataset) AppendRow(vals []Value) {
	for j, c := range d.Columns {
		v := NullValue
		if j < len(vals) {
			v = vals[j]
		}
		c.Values = append(c.Values, v)
	}
	d.rows++
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int { return d.rows }

// NumCols returns the column count.
func (d *Dataset) NumCols() int { return len(d.Columns) }

// Headers returns the column names in order.
func (d *Dataset) Headers() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// Column returns the first column with the given name, or nil.
func (d *Dataset) Column(name string) *Column {
	for _, c := range d.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// NumericColumns returns numeric columns in column order.
func (d *Dataset) NumericColumns() []*Column {
	var out []*Column
	for _, c := range d.Columns {
		if c.Kind.Numeric() {
			out = append(out, c)
		}
	}
	return out
}

// DropColumns removes the named columns, preserving the order of the rest.
// It returns the number of columns removed.
func (d *Dataset) DropColumns(names ...string) int {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	return len(d.DropColumnsFunc(func(c *Column) bool { return drop[c.Name] }))
}

// DropColumnsFunc removes every column for which drop returns true, preserving
// the order of the rest, and returns the names of the removed columns.
// Columns are judged individually, so a header shared by several columns
// only loses the ones drop selects.
func (d *Dataset) DropColumnsFunc(drop func(*Column) bool) []string {
	var removed []string
	kept := d.Columns[:0]
	for _, c := range d.Columns {
		if drop(c) {
			removed = append(removed, c.Name)
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(d.Columns); i++ {
		d.Columns[i] = nil
	}
	d.Columns = kept
	return removed
}

// KeepRows retains rows where keep[i] is true, in original order, and returns
// the number removed. keep must have NumRows entries.
func (d *Dataset) KeepRows(keep []bool) int {
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	for _, c := range d.Columns {
		vals := make([]Value, 0, n)
		for i, v := range c.Values {
			if keep[i] {
				vals = append(vals, v)
			}
		}
		c.Values = vals
	}
	removed := d.rows - n
	d.rows = n
	return removed
}

// RowKey returns a string identifying the row's values across all columns.
// Rows with equal keys are duplicates. Text cells are length-prefixed so no
// cell content can imitate a field boundary.
func (d *Dataset) RowKey(i int) string {
	var b strings.Builder
	for _, c := range d.Columns {
		v := c.Values[i]
		switch {
		case v.Null:
			b.WriteString("n;")
		case c.Kind.Numeric():
			b.WriteByte('f')
			b.WriteString(strconv.FormatFloat(v.Num, 'g', -1, 64))
			b.WriteByte(';')
		default:
			b.WriteByte('s')
			b.WriteString(strconv.Itoa(len(v.Str)))
			b.WriteByte(':')
			b.WriteString(v.Str)
		}
	}
	return b.String()
}

// Record renders row i as strings.
func (d *Dataset) Record(i int) []string {
	out := make([]string, len(d.Columns))
	for j, c := range d.Columns {
		out[j] = c.Format(i)
	}
	return out
}

// Duplicated marks rows whose values repeat another row. With last false the
// first occurrence of each group is unmarked; with last true the final one is.
func (d *Dataset) Duplicated(last bool) []bool {
	out := make([]bool, d.rows)
	seen := make(map[string]bool, d.rows)
	mark := func(i int) {
		k := d.RowKey(i)
		if seen[k] {
			out[i] = true
			return
		}
		seen[k] = true
	}
	if last {
		for i := d.rows - 1; i >= 0; i-- {
			mark(i)
		}
	} else {
		for i := 0; i < d.rows; i++ {
			mark(i)
		}
	}
	return out
}

// DuplicateCount returns how many rows repeat an earlier row.
func (d *Dataset) DuplicateCount() int {
	n := 0
	for _, dup := range d.Duplicated(false) {
		if dup {
			n++
		}
	}
	return n
}
