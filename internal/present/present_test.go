package present

import (
	"strings"
	"testing"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/forecast"
)

func TestRender_Scalar(t *testing.T) {
	t.Parallel()

	resp := Render(forecast.Scalar(12500, "units", "Forecasted demand for Accolade in April 2026"))
	if resp.Kind != "scalar" {
		t.Fatalf("kind = %q", resp.Kind)
	}
	if !strings.Contains(resp.Reply, "12,500 units") {
		t.Fatalf("scalar reply should carry the formatted total: %q", resp.Reply)
	}
}

func TestRender_TableWithTrendChart(t *testing.T) {
	t.Parallel()

	res := forecast.Tabular("Forecast trend for Accolade", &forecast.Table{
		Columns: []string{"Period", "Quantity", "Change"},
		Rows: [][]string{
			{"April 2026", "10", "0"},
			{"May 2026", "15", "5"},
		},
	})
	resp := Render(res)
	if resp.Table == nil || len(resp.Table.Rows) != 2 {
		t.Fatalf("table payload missing: %+v", resp)
	}
	if resp.Chart == nil || resp.Chart.ChartType != "line" {
		t.Fatalf("period table should chart as a line, got %+v", resp.Chart)
	}
	if resp.Chart.Points[1].Value != 15 {
		t.Fatalf("chart point mismatch: %+v", resp.Chart.Points)
	}
}

func TestRender_TableWithoutNumericColumnHasNoChart(t *testing.T) {
	t.Parallel()

	res := forecast.Tabular("Pending lab dips", &forecast.Table{
		Columns: []string{"Style Number", "Description"},
		Rows: [][]string{
			{"A-1", "tee"},
			{"A-2", "tank"},
		},
	})
	if resp := Render(res); resp.Chart != nil {
		t.Fatalf("non-numeric table must not chart: %+v", resp.Chart)
	}
}

func TestRender_AllClearDistinctFromNotFound(t *testing.T) {
	t.Parallel()

	clear := Render(forecast.AllClear("No lab dips are pending"))
	miss := Render(forecast.NotFound("no forecast rows match %q", "Zephyr"))
	if clear.Kind == miss.Kind {
		t.Fatalf("all-clear and not-found must stay distinguishable: %q vs %q", clear.Kind, miss.Kind)
	}
}

func TestRender_MissingColumn(t *testing.T) {
	t.Parallel()

	resp := Render(forecast.MissingColumn("su26_m1"))
	if resp.Kind != "missing_column" || !strings.Contains(resp.Reply, "su26_m1") {
		t.Fatalf("missing column reply should name the column: %+v", resp)
	}
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		0:        "0",
		120:      "120",
		1250:     "1,250",
		1234567:  "1,234,567",
		-4500:    "-4,500",
		1250.5:   "1,250.5",
	}
	for in, want := range cases {
		if got := formatNumber(in); got != want {
			t.Fatalf("formatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteXLSX_RoundTripSize(t *testing.T) {
	t.Parallel()

	buf, err := WriteXLSX(&TablePayload{
		Title:   "Top styles",
		Columns: []string{"Style Number", "Quantity"},
		Rows:    [][]string{{"A-1", "120"}, {"A-2", "90"}},
	})
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("workbook buffer is empty")
	}
}
