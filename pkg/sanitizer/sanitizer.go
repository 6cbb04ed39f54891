// Package sanitizer normalizes client-supplied cargo data before
// validation and persistence. All functions are idempotent.
package sanitizer

import "strings"

// NormalizeAirportCode trims surrounding whitespace and upper-cases an
// airport code, so " del " and "DEL" refer to the same airport everywhere
// downstream (guards, cache keys, queries).
func NormalizeAirportCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeRef normalizes a booking reference the same way airport codes
// are normalized; references are stored upper-case.
func NormalizeRef(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}

// NormalizeText collapses inner whitespace runs and trims free-text fields
// such as notes and flight numbers.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
