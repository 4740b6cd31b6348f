package forecast

import (
	"testing"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/dataset"
)

var forecastHeaders = []string{
	"Style Collection", "Style Number", "Description", "Color",
	"SU26 M1", "SU26 M2", "SU26 M3", "FAL26 M1", "FAL26 M2", "FAL26 M3",
}

func forecastTable(t *testing.T, rows [][]string) *dataset.Dataset {
	t.Helper()
	d, err := dataset.New(forecastHeaders, rows)
	if err != nil {
		t.Fatalf("build forecast table: %v", err)
	}
	return d
}

func TestLookup_SumConsistent(t *testing.T) {
	t.Parallel()

	d := forecastTable(t, [][]string{
		{"A", "A-1", "tee", "Navy", "10", "0", "0", "0", "0", "0"},
		{"A", "A-2", "tank", "White", "5", "0", "0", "0", "0", "0"},
		{"B", "B-1", "hoodie", "Navy", "100", "0", "0", "0", "0", "0"},
	})

	res := Lookup(d, "A", "April", 2026, "")
	if res.Kind != KindScalar {
		t.Fatalf("want scalar, got %s (%s)", res.Kind, res.Reason)
	}
	if res.Value != 15 {
		t.Fatalf("lookup for A must sum only A rows: want 15, got %v", res.Value)
	}
}

func TestLookup_ColorFilter(t *testing.T) {
	t.Parallel()

	d := forecastTable(t, [][]string{
		{"A", "A-1", "tee", "Navy", "10", "0", "0", "0", "0", "0"},
		{"A", "A-2", "tank", "White", "5", "0", "0", "0", "0", "0"},
	})

	res := Lookup(d, "A", "April", 2026, "navy")
	if res.Kind != KindScalar || res.Value != 10 {
		t.Fatalf("color-filtered lookup: want scalar 10, got %+v", res)
	}
}

func TestLookup_UnmappedPeriod(t *testing.T) {
	t.Parallel()

	d := forecastTable(t, [][]string{
		{"A", "A-1", "tee", "Navy", "10", "0", "0", "0", "0", "0"},
	})

	res := Lookup(d, "A", "January", 2026, "")
	if res.Kind != KindNotFound {
		t.Fatalf("unmapped period must be NotFound, got %s", res.Kind)
	}
}

func TestLookup_UnknownCollection(t *testing.T) {
	t.Parallel()

	d := forecastTable(t, [][]string{
		{"A", "A-1", "tee", "Navy", "10", "0", "0", "0", "0", "0"},
	})

	res := Lookup(d, "Zephyr", "April", 2026, "")
	if res.Kind != KindNotFound {
		t.Fatalf("unknown collection must be NotFound, got %s", res.Kind)
	}
}

func TestLookup_MissingPeriodColumn(t *testing.T) {
	t.Parallel()

	d, err := dataset.New(
		[]string{"Style Collection", "Style Number", "Description", "SU26 M1"},
		[][]string{{"A", "A-1", "tee", "10"}},
	)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	res := Lookup(d, "A", "May", 2026, "")
	if res.Kind != KindMissingColumn || res.Column != "su26_m2" {
		t.Fatalf("want missing su26_m2, got %+v", res)
	}
}

func TestTotal_SkipsAbsentPeriods(t *testing.T) {
	t.Parallel()

	d, err := dataset.New(
		[]string{"Style Collection", "Style Number", "Description", "SU26 M1", "SU26 M2"},
		[][]string{
			{"A", "A-1", "tee", "10", "20"},
			{"A", "A-2", "tank", "5", "5"},
		},
	)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	res := Total(d, "A")
	if res.Kind != KindScalar || res.Value != 40 {
		t.Fatalf("total across present periods: want 40, got %+v", res)
	}
}

func TestTopCollection_TieKeepsFirstOccurrence(t *testing.T) {
	t.Parallel()

	d := forecastTable(t, [][]string{
		{"A", "A-1", "tee", "Navy", "50", "0", "0", "0", "0", "0"},
		{"B", "B-1", "hoodie", "Navy", "50", "0", "0", "0", "0", "0"},
	})

	res := TopCollection(d, "April", 2026)
	if res.Kind != KindScalar {
		t.Fatalf("want scalar, got %s", res.Kind)
	}
	if res.Value != 50 || res.Label != "A leads the forecast for April 2026" {
		t.Fatalf("tie must keep first grouped collection: %+v", res)
	}
}

func TestTopCollection_EmptyTable(t *testing.T) {
	t.Parallel()

	d := forecastTable(t, nil)
	if res := TopCollection(d, "April", 2026); res.Kind != KindNotFound {
		t.Fatalf("empty table must be NotFound, got %s", res.Kind)
	}
}

func TestTopStyles_RanksAndTruncates(t *testing.T) {
	t.Parallel()

	d := forecastTable(t, [][]string{
		{"A", "A-1", "tee", "Navy", "10", "0", "0", "0", "0", "0"},
		{"A", "A-2", "tank", "White", "40", "0", "0", "0", "0", "0"},
		{"A", "A-3", "crew", "Red", "25", "0", "0", "0", "0", "0"},
		{"A", "A-4", "polo", "Blue", "5", "0", "0", "0", "0", "0"},
	})

	res := TopStyles(d, "A", "April", 2026, "")
	if res.Kind != KindTable {
		t.Fatalf("want table, got %s (%s)", res.Kind, res.Reason)
	}
	if len(res.Table.Rows) != 3 {
		t.Fatalf("want top 3 rows, got %d", len(res.Table.Rows))
	}
	if res.Table.Rows[0][0] != "A-2" || res.Table.Rows[1][0] != "A-3" || res.Table.Rows[2][0] != "A-1" {
		t.Fatalf("unexpected ranking: %v", res.Table.Rows)
	}
}

func TestTopStyles_FewerThanThree(t *testing.T) {
	t.Parallel()

	d := forecastTable(t, [][]string{
		{"A", "A-1", "tee", "Navy", "10", "0", "0", "0", "0", "0"},
	})

	res := TopStyles(d, "A", "April", 2026, "")
	if res.Kind != KindTable || len(res.Table.Rows) != 1 {
		t.Fatalf("one matching row is a one-row table, got %+v", res)
	}
}

func TestTrend_DeltaSequence(t *testing.T) {
	t.Parallel()

	// Period sums per calendar month: 10, 15, 5, 5, 20, 0.
	d := forecastTable(t, [][]string{
		{"A", "A-1", "tee", "Navy", "10", "15", "5", "5", "20", "0"},
	})

	res := Trend(d, "A", false)
	if res.Kind != KindTable {
		t.Fatalf("want table, got %s (%s)", res.Kind, res.Reason)
	}
	wantDeltas := []string{"0", "5", "-10", "0", "15", "-20"}
	if len(res.Table.Rows) != len(wantDeltas) {
		t.Fatalf("want %d rows, got %d", len(wantDeltas), len(res.Table.Rows))
	}
	for i, want := range wantDeltas {
		if got := res.Table.Rows[i][2]; got != want {
			t.Fatalf("delta[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestTrend_PercentFromZeroBaseIsZero(t *testing.T) {
	t.Parallel()

	// April sum 0, May sum 10: percent change from a zero base must be a
	// defined 0, never an infinity or a fault.
	d := forecastTable(t, [][]string{
		{"A", "A-1", "tee", "Navy", "0", "10", "0", "0", "0", "0"},
	})

	res := Trend(d, "A", true)
	if res.Kind != KindTable {
		t.Fatalf("want table, got %s", res.Kind)
	}
	if got := res.Table.Rows[1][2]; got != "0.0%" {
		t.Fatalf("percent change from zero base = %q, want 0.0%%", got)
	}
	if got := res.Table.Rows[0][2]; got != "0.0%" {
		t.Fatalf("first period change = %q, want 0.0%%", got)
	}
}
