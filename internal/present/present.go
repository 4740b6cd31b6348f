// Package present turns query results into render-ready payloads: reply
// text, table data, and chart config. The front end never re-derives
// semantics from raw results.
package present

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/forecast"
)

// TablePayload is a render-ready table.
type TablePayload struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ChartPoint is one labelled value of a chart series.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartConfig tells the front end how to draw a chart.
type ChartConfig struct {
	ChartType string       `json:"chartType"`
	Title     string       `json:"title"`
	Points    []ChartPoint `json:"points"`
}

// Response is the render-ready answer to one question.
type Response struct {
	Kind  string        `json:"kind"`
	Reply string        `json:"reply"`
	Table *TablePayload `json:"table,omitempty"`
	Chart *ChartConfig  `json:"chart,omitempty"`
}

// Render converts a query result into a response, switching exhaustively
// over the result kind.
func Render(res forecast.Result) Response {
	switch res.Kind {
	case forecast.KindScalar:
		return Response{
			Kind:  string(res.Kind),
			Reply: fmt.Sprintf("%s is %s %s.", res.Label, formatNumber(res.Value), res.Unit),
		}

	case forecast.KindTable:
		table := &TablePayload{
			Title:   res.Label,
			Columns: res.Table.Columns,
			Rows:    res.Table.Rows,
		}
		return Response{
			Kind:  string(res.Kind),
			Reply: fmt.Sprintf("%s (%d rows).", res.Label, len(res.Table.Rows)),
			Table: table,
			Chart: buildChart(table),
		}

	case forecast.KindAllClear:
		return Response{
			Kind:  string(res.Kind),
			Reply: res.Label + ".",
		}

	case forecast.KindNotFound:
		return Response{
			Kind:  string(res.Kind),
			Reply: "Sorry, " + res.Reason + ".",
		}

	case forecast.KindMissingColumn:
		return Response{
			Kind:  string(res.Kind),
			Reply: fmt.Sprintf("Cannot answer that: %s. Check the uploaded file's headers.", res.Reason),
		}

	default:
		return Response{
			Kind:  string(forecast.KindNotFound),
			Reply: "Sorry, that query produced no displayable result.",
		}
	}
}

// buildChart derives a chart from a table whose second column is numeric in
// every row, using the first column as labels. Period series render as a
// line chart, other groupings as bars. Tables that do not chart return nil.
func buildChart(table *TablePayload) *ChartConfig {
	if len(table.Columns) < 2 || len(table.Rows) < 2 {
		return nil
	}

	points := make([]ChartPoint, 0, len(table.Rows))
	for _, row := range table.Rows {
		if len(row) < 2 {
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil
		}
		points = append(points, ChartPoint{Label: row[0], Value: v})
	}

	chartType := "bar"
	if strings.EqualFold(table.Columns[0], "period") {
		chartType = "line"
	}
	return &ChartConfig{ChartType: chartType, Title: table.Title, Points: points}
}

// formatNumber renders a quantity with thousands separators, e.g. 12500 →
// "12,500".
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String()
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}
