package forecast

import "fmt"

// ResultKind discriminates the outcome of a query function. Every query
// returns exactly one kind; presentation logic switches over it exhaustively
// instead of sniffing strings.
type ResultKind string

const (
	// KindScalar is a single numeric answer with a label.
	KindScalar ResultKind = "scalar"
	// KindTable is an ordered-columns, ordered-rows answer.
	KindTable ResultKind = "table"
	// KindAllClear means the filter matched nothing and that is the good
	// outcome (e.g. no pending lab dips).
	KindAllClear ResultKind = "all_clear"
	// KindNotFound means no error occurred but no qualifying data exists.
	KindNotFound ResultKind = "not_found"
	// KindMissingColumn means an expected column is absent from the uploaded
	// table after normalization.
	KindMissingColumn ResultKind = "missing_column"
)

// Table is a tabular query answer.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Result is the discriminated outcome of one query function.
type Result struct {
	Kind   ResultKind
	Label  string
	Value  float64
	Unit   string
	Table  *Table
	Reason string
	Column string
}

// Scalar builds a single-value result.
func Scalar(value float64, unit, label string) Result {
	return Result{Kind: KindScalar, Value: value, Unit: unit, Label: label}
}

// Tabular builds a table result.
func Tabular(label string, table *Table) Result {
	return Result{Kind: KindTable, Label: label, Table: table}
}

// AllClear builds an explicit empty-is-good result.
func AllClear(label string) Result {
	return Result{Kind: KindAllClear, Label: label}
}

// NotFound builds a no-qualifying-data result.
func NotFound(format string, args ...any) Result {
	return Result{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...)}
}

// MissingColumn builds a schema-failure result naming the absent column.
func MissingColumn(key string) Result {
	return Result{
		Kind:   KindMissingColumn,
		Column: key,
		Reason: fmt.Sprintf("the uploaded file has no %q column", key),
	}
}
