package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrColumnNotFound is returned when a query references a column that does
// not exist in the table after header normalization.
var ErrColumnNotFound = errors.New("column not found")

// Quantity is a numeric cell value. Valid is false when the cell was empty
// or held a non-numeric token; such cells never contribute to sums.
type Quantity struct {
	Value float64
	Valid bool
}

// GroupSum is one group produced by SumBy, in first-occurrence order.
type GroupSum struct {
	Key   string
	Label string
	Sum   float64
	Count int
}

// Dataset is an immutable row-oriented table whose column keys have all been
// passed through NormalizeKey. It is built once per uploaded file and never
// mutated afterwards, so it is safe to share within a session.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New builds a table from a raw header row and data rows.
// Duplicate post-normalization keys are an ingestion error; short rows are
// padded so every row is column-aligned.
func New(headers []string, rows [][]string) (*Dataset, error) {
	if len(headers) == 0 {
		return nil, errors.New("header row is empty")
	}

	columns := make([]string, len(headers))
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := NormalizeKey(h)
		if key == "" {
			key = fmt.Sprintf("column_%d", i+1)
		}
		if prev, exists := index[key]; exists {
			return nil, fmt.Errorf("columns %q and %q both normalize to %q", headers[prev], h, key)
		}
		columns[i] = key
		index[key] = i
	}

	aligned := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, row)
			row = padded
		}
		aligned[i] = row[:len(columns)]
	}

	return &Dataset{columns: columns, index: index, rows: aligned}, nil
}

// Columns returns the normalized column keys in source order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// HasColumn reports whether a normalized column key exists.
func (d *Dataset) HasColumn(key string) bool {
	_, ok := d.index[key]
	return ok
}

// RowCount returns the number of data rows.
func (d *Dataset) RowCount() int {
	return len(d.rows)
}

// Value returns the raw cell text at (row, key), or "" if either is missing.
func (d *Dataset) Value(row int, key string) string {
	col, ok := d.index[key]
	if !ok || row < 0 || row >= len(d.rows) {
		return ""
	}
	return d.rows[row][col]
}

// Number returns the cell at (row, key) coerced to a Quantity.
func (d *Dataset) Number(row int, key string) Quantity {
	return ParseQuantity(d.Value(row, key))
}

// NumericColumn returns every cell of a column coerced to a Quantity.
func (d *Dataset) NumericColumn(key string) ([]Quantity, error) {
	col, ok := d.index[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, key)
	}
	out := make([]Quantity, len(d.rows))
	for i, row := range d.rows {
		out[i] = ParseQuantity(row[col])
	}
	return out, nil
}

// FilterEqual returns the indices of rows whose cell in the given column
// equals value after trimming and case folding.
func (d *Dataset) FilterEqual(key, value string) ([]int, error) {
	col, ok := d.index[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, key)
	}
	want := foldCell(value)
	var matches []int
	for i, row := range d.rows {
		if foldCell(row[col]) == want {
			matches = append(matches, i)
		}
	}
	return matches, nil
}

// SumColumn sums the valid quantities of a column over the given row indices.
// A nil index slice means every row.
func (d *Dataset) SumColumn(key string, indices []int) (float64, error) {
	col, ok := d.index[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, key)
	}
	if indices == nil {
		indices = d.allRows()
	}
	var total float64
	for _, i := range indices {
		if q := ParseQuantity(d.rows[i][col]); q.Valid {
			total += q.Value
		}
	}
	return total, nil
}

// SumBy groups rows by the trimmed, case-folded value of groupKey and sums
// the valid quantities of valueKey per group. Groups appear in the order
// their key first occurs in the table.
func (d *Dataset) SumBy(groupKey, valueKey string) ([]GroupSum, error) {
	groupCol, ok := d.index[groupKey]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, groupKey)
	}
	valueCol, ok := d.index[valueKey]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, valueKey)
	}

	var order []string
	sums := make(map[string]*GroupSum)
	for _, row := range d.rows {
		key := foldCell(row[groupCol])
		g, exists := sums[key]
		if !exists {
			g = &GroupSum{Key: key, Label: strings.TrimSpace(row[groupCol])}
			sums[key] = g
			order = append(order, key)
		}
		if q := ParseQuantity(row[valueCol]); q.Valid {
			g.Sum += q.Value
		}
		g.Count++
	}

	out := make([]GroupSum, len(order))
	for i, key := range order {
		out[i] = *sums[key]
	}
	return out, nil
}

func (d *Dataset) allRows() []int {
	indices := make([]int, len(d.rows))
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// ParseQuantity coerces raw cell text to a numeric quantity. Thousands
// separators are tolerated; anything else non-numeric yields an invalid
// Quantity rather than a zero.
func ParseQuantity(raw string) Quantity {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Quantity{}
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Quantity{}
	}
	return Quantity{Value: v, Valid: true}
}

func foldCell(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
