package fieldtype

import (
	"regexp"
	"strings"
	"time"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reNonDigit   = regexp.MustCompile(`\D`)
	reCodeSep    = regexp.MustCompile(`[\s-]`)
	reSpaceComma = regexp.MustCompile(` +,`)
	reOrdinalDay = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)`)
)

func normalizeText(v string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(v, " "))
}

func normalizeAddress(v string) string {
	return reSpaceComma.ReplaceAllString(normalizeText(v), ",")
}

func normalizeCode(v string) string {
	return strings.ToUpper(reCodeSep.ReplaceAllString(v, ""))
}

func normalizePhone(v string) string {
	return reNonDigit.ReplaceAllString(v, "")
}

func normalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func normalizeDate(v string) string {
	t, ok := ParseDate(v)
	if !ok {
		// Parse failure degrades to pass-through, never an error.
		return v
	}
	return t.Format(time.DateOnly)
}

// dateLayouts are tried in order. Ambiguous numeric dates are read
// month-first, matching the documents this service is tuned for.
var dateLayouts = []string{
	time.DateOnly,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1-2-2006",
	"01.02.2006",
	"1.2.2006",
	"01/02/06",
	"1/2/06",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 January, 2006",
	"2 Jan 2006",
	"2 Jan, 2006",
	time.RFC3339,
}

// ParseDate parses the date formats that appear on scanned documents:
// ISO, slash/dot/dash numeric forms (month first), and spelled-out month
// forms with optional ordinal suffixes ("21st June, 2023").
func ParseDate(v string) (time.Time, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return time.Time{}, false
	}
	s = reOrdinalDay.ReplaceAllString(s, "$1")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
