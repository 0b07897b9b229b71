// Package normalize canonicalizes scraped comment text so that the same
// comment compares equal across poll cycles.
package normalize

import (
	"regexp"
	"strings"
)

// relativeTimeRegex matches platform-injected relative timestamps such as
// "3d ago" or "12h ago" that get appended to rendered comment text.
var relativeTimeRegex = regexp.MustCompile(`\d+[a-z]+ ago`)

var spaceRegex = regexp.MustCompile(`\s+`)

// Normalize lowercases the input, strips relative-timestamp noise, and
// trims whitespace. It is deterministic and idempotent.
//
// Stripping a timestamp can splice the surrounding text into a new
// timestamp ("3d 1x agoago" becomes "3d ago"), so the strip-and-collapse
// step repeats until the text stops changing. Each pass never grows the
// string, so the loop terminates.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	for {
		next := relativeTimeRegex.ReplaceAllString(s, "")
		next = spaceRegex.ReplaceAllString(next, " ")
		next = strings.TrimSpace(next)
		if next == s {
			return next
		}
		s = next
	}
}
