// Package slug derives stable category keys from display labels.
package slug

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks after NFD decomposition, turning
// "Participação" into "Participacao".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC) //nolint:gochecknoglobals // stateless transformer chain

// Make derives a key from a label: lowercase, diacritics stripped,
// non-alphanumeric runs collapsed to a single underscore, trimmed.
// An empty result falls back to a timestamp-based key.
func Make(label string) string {
	s, _, err := transform.String(stripMarks, label)
	if err != nil {
		s = label
	}
	s = strings.ToLower(s)

	var b strings.Builder
	lastSep := true // suppress a leading separator
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSep = false
		default:
			if !lastSep {
				b.WriteByte('_')
				lastSep = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "_")
	if out == "" {
		return "cat_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return out
}

// Unique resolves key collisions by appending _2, _3, ... until taken
// reports the candidate as free.
func Unique(key string, taken func(string) bool) string {
	if !taken(key) {
		return key
	}
	for i := 2; ; i++ {
		candidate := key + "_" + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}
