package forecast

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/dataset"
)

// Normalized column keys the forecast table is expected to carry.
const (
	ColCollection  = "style_collection"
	ColStyleNumber = "style_number"
	ColDescription = "description"
	ColColor       = "color"
)

// unitLabel is the unit attached to every scalar quantity answer.
const unitLabel = "units"

// Lookup sums forecast quantities for one collection at one period, with an
// optional color filter. Collection matching is case/space-insensitive.
func Lookup(d *dataset.Dataset, collection, month string, year int, color string) Result {
	period, ok := ResolvePeriod(month, year)
	if !ok {
		return NotFound("no forecast data available for %s %d", month, year)
	}
	if !d.HasColumn(period.Column) {
		return MissingColumn(period.Column)
	}

	rows, res := collectionRows(d, collection, color)
	if res != nil {
		return *res
	}

	total, err := d.SumColumn(period.Column, rows)
	if err != nil {
		return MissingColumn(period.Column)
	}

	label := fmt.Sprintf("Forecasted demand for %s in %s", collection, period.Label())
	if color != "" {
		label = fmt.Sprintf("Forecasted demand for %s (%s) in %s", collection, color, period.Label())
	}
	return Scalar(total, unitLabel, label)
}

// Total sums forecast quantities for one collection across every calendar
// period, skipping periods whose column is absent from the uploaded table.
func Total(d *dataset.Dataset, collection string) Result {
	rows, res := collectionRows(d, collection, "")
	if res != nil {
		return *res
	}

	var total float64
	covered := 0
	for _, p := range Calendar() {
		if !d.HasColumn(p.Column) {
			continue
		}
		sum, err := d.SumColumn(p.Column, rows)
		if err != nil {
			continue
		}
		total += sum
		covered++
	}
	if covered == 0 {
		return MissingColumn(calendar[0].Column)
	}

	return Scalar(total, unitLabel, fmt.Sprintf("Total forecasted demand for %s across %d periods", collection, covered))
}

// TopCollection finds the collection with the highest summed quantity at one
// period. Ties keep the collection that appears first in the table.
func TopCollection(d *dataset.Dataset, month string, year int) Result {
	period, ok := ResolvePeriod(month, year)
	if !ok {
		return NotFound("no forecast data available for %s %d", month, year)
	}

	groups, err := d.SumBy(ColCollection, period.Column)
	if err != nil {
		if !d.HasColumn(ColCollection) {
			return MissingColumn(ColCollection)
		}
		return MissingColumn(period.Column)
	}
	if len(groups) == 0 {
		return NotFound("the uploaded forecast has no rows")
	}

	top := groups[0]
	for _, g := range groups[1:] {
		if g.Sum > top.Sum {
			top = g
		}
	}

	return Scalar(top.Sum, unitLabel, fmt.Sprintf("%s leads the forecast for %s", top.Label, period.Label()))
}

// TopStyles returns up to three rows of one collection ranked by quantity at
// one period, descending. Fewer than three matching rows is not an error.
func TopStyles(d *dataset.Dataset, collection, month string, year int, color string) Result {
	period, ok := ResolvePeriod(month, year)
	if !ok {
		return NotFound("no forecast data available for %s %d", month, year)
	}
	if !d.HasColumn(period.Column) {
		return MissingColumn(period.Column)
	}

	rows, res := collectionRows(d, collection, color)
	if res != nil {
		return *res
	}

	// Stable sort keeps source order for equal quantities.
	sort.SliceStable(rows, func(i, j int) bool {
		return quantityOrZero(d, rows[i], period.Column) > quantityOrZero(d, rows[j], period.Column)
	})
	if len(rows) > 3 {
		rows = rows[:3]
	}

	hasColor := d.HasColumn(ColColor)
	table := &Table{Columns: []string{"Style Number", "Description", "Quantity"}}
	if hasColor {
		table.Columns = []string{"Style Number", "Description", "Color", "Quantity"}
	}
	for _, i := range rows {
		qty := formatQuantity(quantityOrZero(d, i, period.Column))
		if hasColor {
			table.Rows = append(table.Rows, []string{
				d.Value(i, ColStyleNumber), d.Value(i, ColDescription), d.Value(i, ColColor), qty,
			})
		} else {
			table.Rows = append(table.Rows, []string{
				d.Value(i, ColStyleNumber), d.Value(i, ColDescription), qty,
			})
		}
	}

	return Tabular(fmt.Sprintf("Top styles for %s in %s", collection, period.Label()), table)
}

// Trend computes per-period totals for one collection across the calendar,
// plus the change from the previous period. The first period's change is
// defined as zero. With percent=true the change column reports percent
// change instead; percent change from a zero base is defined as zero.
func Trend(d *dataset.Dataset, collection string, percent bool) Result {
	rows, res := collectionRows(d, collection, "")
	if res != nil {
		return *res
	}

	type point struct {
		period Period
		total  float64
	}
	var points []point
	for _, p := range Calendar() {
		if !d.HasColumn(p.Column) {
			continue
		}
		sum, err := d.SumColumn(p.Column, rows)
		if err != nil {
			continue
		}
		points = append(points, point{period: p, total: sum})
	}
	if len(points) == 0 {
		return MissingColumn(calendar[0].Column)
	}

	changeHeader := "Change"
	if percent {
		changeHeader = "Change %"
	}
	table := &Table{Columns: []string{"Period", "Quantity", changeHeader}}
	for i, pt := range points {
		var change float64
		if i > 0 {
			prev := points[i-1].total
			if percent {
				if prev != 0 {
					change = (pt.total - prev) / prev * 100
				}
			} else {
				change = pt.total - prev
			}
		}
		changeCell := formatQuantity(change)
		if percent {
			changeCell = strconv.FormatFloat(change, 'f', 1, 64) + "%"
		}
		table.Rows = append(table.Rows, []string{pt.period.Label(), formatQuantity(pt.total), changeCell})
	}

	mode := "period-over-period change"
	if percent {
		mode = "period-over-period % change"
	}
	return Tabular(fmt.Sprintf("Forecast trend for %s (%s)", collection, mode), table)
}

// collectionRows filters the forecast table to one collection (and optional
// color). It returns a non-nil Result when filtering cannot proceed or
// matches nothing, so callers can return it directly.
func collectionRows(d *dataset.Dataset, collection, color string) ([]int, *Result) {
	rows, err := d.FilterEqual(ColCollection, collection)
	if err != nil {
		r := MissingColumn(ColCollection)
		return nil, &r
	}
	if color != "" {
		colorRows, err := d.FilterEqual(ColColor, color)
		if err != nil {
			r := MissingColumn(ColColor)
			return nil, &r
		}
		rows = intersect(rows, colorRows)
	}
	if len(rows) == 0 {
		label := collection
		if color != "" {
			label = collection + " / " + color
		}
		r := NotFound("no forecast rows match %q", label)
		return nil, &r
	}
	return rows, nil
}

func intersect(a, b []int) []int {
	inB := make(map[int]bool, len(b))
	for _, i := range b {
		inB[i] = true
	}
	var out []int
	for _, i := range a {
		if inB[i] {
			out = append(out, i)
		}
	}
	return out
}

func quantityOrZero(d *dataset.Dataset, row int, key string) float64 {
	q := d.Number(row, key)
	if !q.Valid {
		return 0
	}
	return q.Value
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
