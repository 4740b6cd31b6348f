package forecast

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// percentPattern matches the first number in free text like "62% recycled
// polyester" or "recycled content: 48.5%".
var percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// ParsePercent extracts a numeric percentage from free text. Text with no
// digits reports false; callers must exclude such rows rather than treat
// them as zero.
func ParsePercent(s string) (float64, bool) {
	m := percentPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// dateLayouts are the textual date formats accepted in master sheets.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
	time.RFC3339,
}

// ParseDate parses a date cell, trying each accepted layout in order.
// An unparseable value reports false; it is never interpreted as "now" or
// some far-future default.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
