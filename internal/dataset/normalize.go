package dataset

import "strings"

// NormalizeKey canonicalizes a raw spreadsheet header into a column key.
// Any maximal run of characters that are not ASCII letters or digits becomes
// a single underscore, the result is lower-cased, and leading/trailing
// underscores are stripped. "SU26 M1" and " su26-m1 " both map to "su26_m1".
// The function is pure and idempotent.
func NormalizeKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingSep := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r + ('a' - 'A'))
		default:
			pendingSep = true
		}
	}

	return b.String()
}
