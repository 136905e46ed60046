package dataset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "radpulse/internal/errors"
)

// Kind identifies the data type of a column.
type Kind int

const (
	KindString Kind = iota
	KindFloat
	KindBool
	KindTime
)

// String returns the pandas-style dtype name for the kind.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float64"
	case KindBool:
		return "bool"
	case KindTime:
		return "datetime"
	default:
		return "string"
	}
}

// Column is one named, typed column of the table. Exactly one of the value
// slices is populated, selected by kind. The missing flags run parallel to
// the values.
type Column struct {
	name    string
	kind    Kind
	strs    []string
	floats  []float64
	bools   []bool
	times   []time.Time
	layout  string
	missing []bool
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the column's data type.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows in the column.
func (c *Column) Len() int { return len(c.missing) }

// cell renders row i as a string, for display and export.
func (c *Column) cell(i int) string {
	if c.missing[i] {
		return ""
	}
	switch c.kind {
	case KindFloat:
		return strconv.FormatFloat(c.floats[i], 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.bools[i])
	case KindTime:
		return c.times[i].Format(c.layout)
	default:
		return c.strs[i]
	}
}

// ColumnKind pairs a column name with its kind, in table order.
type ColumnKind struct {
	Name string
	Kind Kind
}

// ColumnCount pairs a column name with a per-column count, in table order.
type ColumnCount struct {
	Column string
	Count  int
}

// CategoryCount is one category of a column and how many rows carry it.
type CategoryCount struct {
	Category string
	Count    int
}

// Table is an in-memory column-oriented table of radiology case records.
// All columns share one length; mutations that would break that invariant
// return an error.
type Table struct {
	cols   []*Column
	byName map[string]*Column
	rows   int
}

// New returns an empty table.
func New() *Table {
	return &Table{byName: make(map[string]*Column)}
}

// Shape returns the number of rows and columns.
func (t *Table) Shape() (rows, cols int) {
	return t.rows, len(t.cols)
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// DTypes returns the name and kind of every column in table order.
func (t *Table) DTypes() []ColumnKind {
	kinds := make([]ColumnKind, len(t.cols))
	for i, c := range t.cols {
		kinds[i] = ColumnKind{Name: c.name, Kind: c.kind}
	}
	return kinds
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, error) {
	c, ok := t.byName[name]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("column %q", name))
	}
	return c, nil
}

// ColumnsOfKind returns the names of all columns of the given kind,
// in table order.
func (t *Table) ColumnsOfKind(kind Kind) []string {
	var names []string
	for _, c := range t.cols {
		if c.kind == kind {
			names = append(names, c.name)
		}
	}
	return names
}

// addColumn appends a column, enforcing unique names and the shared length.
func (t *Table) addColumn(c *Column) error {
	if _, exists := t.byName[c.name]; exists {
		return apperrors.NewValidationError(fmt.Sprintf("column %q already exists", c.name))
	}
	if len(t.cols) > 0 && c.Len() != t.rows {
		return apperrors.NewValidationError(fmt.Sprintf(
			"column %q has %d rows, table has %d", c.name, c.Len(), t.rows))
	}
	if len(t.cols) == 0 {
		t.rows = c.Len()
	}
	t.cols = append(t.cols, c)
	t.byName[c.name] = c
	return nil
}

// AddFloat appends a new float column.
func (t *Table) AddFloat(name string, values []float64) error {
	return t.addColumn(&Column{
		name:    name,
		kind:    KindFloat,
		floats:  values,
		missing: make([]bool, len(values)),
	})
}

// AddString appends a new string column.
func (t *Table) AddString(name string, values []string) error {
	return t.addColumn(&Column{
		name:    name,
		kind:    KindString,
		strs:    values,
		missing: make([]bool, len(values)),
	})
}

// Floats returns the values of a float column.
func (t *Table) Floats(name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.kind != KindFloat {
		return nil, apperrors.NewValidationError(fmt.Sprintf(
			"column %q is %s, not float64", name, c.kind))
	}
	return c.floats, nil
}

// Strings returns the values of a string column.
func (t *Table) Strings(name string) ([]string, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.kind != KindString {
		return nil, apperrors.NewValidationError(fmt.Sprintf(
			"column %q is %s, not string", name, c.kind))
	}
	return c.strs, nil
}

// Bools returns the values of a bool column.
func (t *Table) Bools(name string) ([]bool, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.kind != KindBool {
		return nil, apperrors.NewValidationError(fmt.Sprintf(
			"column %q is %s, not bool", name, c.kind))
	}
	return c.bools, nil
}

// Times returns the values of a datetime column.
func (t *Table) Times(name string) ([]time.Time, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.kind != KindTime {
		return nil, apperrors.NewValidationError(fmt.Sprintf(
			"column %q is %s, not datetime", name, c.kind))
	}
	return c.times, nil
}

// ReplaceStrings overwrites a column's values with strings, changing its
// kind if needed. The length invariant must hold.
func (t *Table) ReplaceStrings(name string, values []string) error {
	c, err := t.Column(name)
	if err != nil {
		return err
	}
	if len(values) != t.rows {
		return apperrors.NewValidationError(fmt.Sprintf(
			"replacement for column %q has %d rows, table has %d", name, len(values), t.rows))
	}
	c.kind = KindString
	c.strs = values
	c.floats, c.bools, c.times = nil, nil, nil
	c.layout = ""
	return nil
}

// ReplacePattern applies a regexp replacement to every value of a string
// column in place.
func (t *Table) ReplacePattern(name string, re *regexp.Regexp, repl string) error {
	vals, err := t.Strings(name)
	if err != nil {
		return err
	}
	for i, v := range vals {
		vals[i] = re.ReplaceAllString(v, repl)
	}
	return nil
}

// ParseTime converts a string column to a datetime column in place using
// the given layout. Any unparseable value fails the call.
func (t *Table) ParseTime(name, layout string) error {
	c, err := t.Column(name)
	if err != nil {
		return err
	}
	if c.kind != KindString {
		return apperrors.NewValidationError(fmt.Sprintf(
			"column %q is %s, cannot parse as datetime", name, c.kind))
	}

	times := make([]time.Time, len(c.strs))
	for i, v := range c.strs {
		if c.missing[i] {
			continue
		}
		parsed, err := time.Parse(layout, v)
		if err != nil {
			return apperrors.NewParsingError(fmt.Sprintf(
				"column %q row %d: cannot parse %q with layout %q", name, i, v, layout), err)
		}
		times[i] = parsed
	}

	c.kind = KindTime
	c.times = times
	c.layout = layout
	c.strs = nil
	return nil
}

// ValueCounts returns how many rows fall into each category of a string
// column, in first-seen order.
func (t *Table) ValueCounts(name string) ([]CategoryCount, error) {
	vals, err := t.Strings(name)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var counts []CategoryCount
	for _, v := range vals {
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, CategoryCount{Category: v, Count: 1})
	}
	return counts, nil
}

// MissingCounts returns the number of missing values per column,
// in table order.
func (t *Table) MissingCounts() []ColumnCount {
	counts := make([]ColumnCount, len(t.cols))
	for i, c := range t.cols {
		n := 0
		for _, m := range c.missing {
			if m {
				n++
			}
		}
		counts[i] = ColumnCount{Column: c.name, Count: n}
	}
	return counts
}

// DuplicateRows returns how many rows are exact duplicates of an earlier row.
func (t *Table) DuplicateRows() int {
	seen := make(map[string]bool, t.rows)
	dups := 0
	for i := 0; i < t.rows; i++ {
		key := strings.Join(t.rowCells(i), "\x1f")
		if seen[key] {
			dups++
			continue
		}
		seen[key] = true
	}
	return dups
}

// DropMissing removes every row that has a missing value in any column and
// returns the number of rows removed.
func (t *Table) DropMissing() int {
	keep := make([]bool, t.rows)
	kept := 0
	for i := 0; i < t.rows; i++ {
		keep[i] = true
		for _, c := range t.cols {
			if c.missing[i] {
				keep[i] = false
				break
			}
		}
		if keep[i] {
			kept++
		}
	}

	if kept == t.rows {
		return 0
	}

	for _, c := range t.cols {
		c.filter(keep, kept)
	}
	dropped := t.rows - kept
	t.rows = kept
	return dropped
}

// filter compacts the column to the rows marked keep.
func (c *Column) filter(keep []bool, kept int) {
	missing := make([]bool, 0, kept)
	switch c.kind {
	case KindFloat:
		vals := make([]float64, 0, kept)
		for i, k := range keep {
			if k {
				vals = append(vals, c.floats[i])
				missing = append(missing, c.missing[i])
			}
		}
		c.floats = vals
	case KindBool:
		vals := make([]bool, 0, kept)
		for i, k := range keep {
			if k {
				vals = append(vals, c.bools[i])
				missing = append(missing, c.missing[i])
			}
		}
		c.bools = vals
	case KindTime:
		vals := make([]time.Time, 0, kept)
		for i, k := range keep {
			if k {
				vals = append(vals, c.times[i])
				missing = append(missing, c.missing[i])
			}
		}
		c.times = vals
	default:
		vals := make([]string, 0, kept)
		for i, k := range keep {
			if k {
				vals = append(vals, c.strs[i])
				missing = append(missing, c.missing[i])
			}
		}
		c.strs = vals
	}
	c.missing = missing
}

// rowCells renders row i across all columns.
func (t *Table) rowCells(i int) []string {
	cells := make([]string, len(t.cols))
	for j, c := range t.cols {
		cells[j] = c.cell(i)
	}
	return cells
}

// Records renders the whole table as header plus rows of strings,
// ready for CSV export.
func (t *Table) Records() (header []string, rows [][]string) {
	header = t.Columns()
	rows = make([][]string, t.rows)
	for i := 0; i < t.rows; i++ {
		rows[i] = t.rowCells(i)
	}
	return header, rows
}

// Head renders the first n rows as an aligned text table for console display.
func (t *Table) Head(n int) string {
	if n > t.rows {
		n = t.rows
	}

	widths := make([]int, len(t.cols))
	for j, c := range t.cols {
		widths[j] = len(c.name)
		for i := 0; i < n; i++ {
			if l := len(c.cell(i)); l > widths[j] {
				widths[j] = l
			}
		}
	}

	var b strings.Builder
	for j, c := range t.cols {
		if j > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "%-*s", widths[j], c.name)
	}
	b.WriteString("\n")
	for i := 0; i < n; i++ {
		for j, c := range t.cols {
			if j > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[j], c.cell(i))
		}
		b.WriteString("\n")
	}
	return b.String()
}
