package forecast

import (
	"fmt"
	"strings"
)

// Period is one forecast month with its fixed data column. The mapping is a
// closed lookup table over the current rolling-forecast horizon; nothing is
// guessed or fuzz-matched for months outside it.
type Period struct {
	Month  string
	Year   int
	Column string
}

// Label returns the display form, e.g. "April 2026".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// calendar is the fixed period sequence, in calendar order: two three-month
// blocks (SU26, FAL26) of the 2026 rolling forecast.
var calendar = []Period{
	{Month: "April", Year: 2026, Column: "su26_m1"},
	{Month: "May", Year: 2026, Column: "su26_m2"},
	{Month: "June", Year: 2026, Column: "su26_m3"},
	{Month: "July", Year: 2026, Column: "fal26_m1"},
	{Month: "August", Year: 2026, Column: "fal26_m2"},
	{Month: "September", Year: 2026, Column: "fal26_m3"},
}

// Calendar returns the fixed period sequence in calendar order.
func Calendar() []Period {
	out := make([]Period, len(calendar))
	copy(out, calendar)
	return out
}

// ResolvePeriod maps a (month, year) pair to its forecast column. Month names
// match case-insensitively; an unmapped pair reports false.
func ResolvePeriod(month string, year int) (Period, bool) {
	want := strings.ToLower(strings.TrimSpace(month))
	for _, p := range calendar {
		if p.Year == year && strings.ToLower(p.Month) == want {
			return p, true
		}
	}
	return Period{}, false
}
