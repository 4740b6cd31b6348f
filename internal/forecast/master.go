package forecast

import (
	"fmt"
	"time"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/dataset"
)

// Normalized column keys the style master table is expected to carry.
const (
	ColFabric         = "fabric"
	ColVendor         = "vendor"
	ColLabDipStatus   = "lab_dip_status"
	ColShelfLifeEnd   = "shelf_life_end_date"
	ColSustainability = "sustainability"
)

// DefaultSustainabilityThreshold is the percentage used when the caller
// supplies none.
const DefaultSustainabilityThreshold = 50

// ShelfLifeWindow is how far ahead ExpiringShelfLife looks.
const ShelfLifeWindow = 30 * 24 * time.Hour

// pendingStatus is the lab-dip sentinel value the status filter matches.
const pendingStatus = "pending"

// SustainableStyles selects master rows whose sustainability percentage,
// parsed from free text like "62% recycled", is at or above the threshold.
// Rows whose text holds no parseable number are excluded, not zeroed.
func SustainableStyles(m *dataset.Dataset, threshold float64) Result {
	for _, key := range []string{ColStyleNumber, ColSustainability} {
		if !m.HasColumn(key) {
			return MissingColumn(key)
		}
	}

	table := &Table{Columns: []string{"Style Number", "Description", "Sustainability"}}
	for i := 0; i < m.RowCount(); i++ {
		raw := m.Value(i, ColSustainability)
		pct, ok := ParsePercent(raw)
		if !ok || pct < threshold {
			continue
		}
		table.Rows = append(table.Rows, []string{
			m.Value(i, ColStyleNumber), m.Value(i, ColDescription), raw,
		})
	}
	if len(table.Rows) == 0 {
		return NotFound("no styles at or above %v%% sustainable content", threshold)
	}

	return Tabular(fmt.Sprintf("Styles with at least %v%% sustainable content", threshold), table)
}

// PendingLabDips selects master rows whose lab-dip status equals "pending",
// case/space-insensitive. No matches is an explicit all-clear, not a miss.
func PendingLabDips(m *dataset.Dataset) Result {
	if !m.HasColumn(ColStyleNumber) {
		return MissingColumn(ColStyleNumber)
	}
	rows, err := m.FilterEqual(ColLabDipStatus, pendingStatus)
	if err != nil {
		return MissingColumn(ColLabDipStatus)
	}
	if len(rows) == 0 {
		return AllClear("No lab dips are pending; all styles are approved")
	}

	table := &Table{Columns: []string{"Style Number", "Description", "Vendor", "Lab Dip Status"}}
	for _, i := range rows {
		table.Rows = append(table.Rows, []string{
			m.Value(i, ColStyleNumber), m.Value(i, ColDescription),
			m.Value(i, ColVendor), m.Value(i, ColLabDipStatus),
		})
	}
	return Tabular(fmt.Sprintf("%d styles with pending lab dips", len(rows)), table)
}

// ExpiringShelfLife selects master rows whose shelf-life end date falls
// strictly before now plus the 30-day window. Rows with dates that fail to
// parse are excluded; they are never treated as expiring or as far-future.
func ExpiringShelfLife(m *dataset.Dataset, now time.Time) Result {
	for _, key := range []string{ColStyleNumber, ColShelfLifeEnd} {
		if !m.HasColumn(key) {
			return MissingColumn(key)
		}
	}

	cutoff := now.Add(ShelfLifeWindow)
	table := &Table{Columns: []string{"Style Number", "Description", "Shelf Life End"}}
	for i := 0; i < m.RowCount(); i++ {
		raw := m.Value(i, ColShelfLifeEnd)
		end, ok := ParseDate(raw)
		if !ok || !end.Before(cutoff) {
			continue
		}
		table.Rows = append(table.Rows, []string{
			m.Value(i, ColStyleNumber), m.Value(i, ColDescription), raw,
		})
	}
	if len(table.Rows) == 0 {
		return NotFound("no styles reach end of shelf life within 30 days")
	}

	return Tabular("Styles reaching end of shelf life within 30 days", table)
}
