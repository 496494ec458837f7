// Package match compares an extracted field value against a submitted one
// and reports whether they agree, with a confidence for the comparison.
// The comparison strategy follows the value's kind: dates agree when they
// name the same calendar day, numbers when they are numerically equal,
// and free text by normalized edit distance.
package match

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/agext/levenshtein"

	"veridoc/internal/fieldtype"
)

// Kind selects the comparison strategy for a field.
type Kind string

const (
	KindDate   Kind = "date"
	KindNumber Kind = "number"
	KindText   Kind = "text"
)

// Similarity below which two text values are considered different.
const textThresholdPercent = 85

// Result is the outcome of comparing one field.
type Result struct {
	Match      bool    `json:"match"`
	Confidence float64 `json:"confidence"`
}

// KindForType maps a field type to its comparison kind.
func KindForType(t fieldtype.Type) Kind {
	switch t {
	case fieldtype.TypeDate:
		return KindDate
	case fieldtype.TypeID, fieldtype.TypeContactNumber:
		return KindNumber
	default:
		return KindText
	}
}

// Compare evaluates agreement between an extracted value and a submitted
// value. A nil pointer means the side has no value: two absent values
// agree perfectly, one absent value is a certain mismatch.
func Compare(extracted, submitted *string, kind Kind) Result {
	if extracted == nil && submitted == nil {
		return Result{Match: true, Confidence: 1}
	}
	if extracted == nil || submitted == nil {
		return Result{Match: false, Confidence: 0}
	}

	switch kind {
	case KindDate:
		return compareDates(*extracted, *submitted)
	case KindNumber:
		return compareNumbers(*extracted, *submitted)
	default:
		return compareText(*extracted, *submitted)
	}
}

// compareDates matches on the calendar day regardless of formatting. When
// either side fails to parse as a date, the raw strings decide.
func compareDates(a, b string) Result {
	ta, okA := fieldtype.ParseDate(a)
	tb, okB := fieldtype.ParseDate(b)
	if okA && okB {
		if ta.Format(time.DateOnly) == tb.Format(time.DateOnly) {
			return Result{Match: true, Confidence: 1}
		}
		return Result{Match: false, Confidence: 0}
	}
	if strings.TrimSpace(a) == strings.TrimSpace(b) {
		return Result{Match: true, Confidence: 1}
	}
	return Result{Match: false, Confidence: 0}
}

// compareNumbers matches on numeric value, tolerating grouping commas and
// surrounding space. Unparseable values fall back to string equality.
func compareNumbers(a, b string) Result {
	fa, errA := parseNumber(a)
	fb, errB := parseNumber(b)
	if errA == nil && errB == nil {
		if fa == fb {
			return Result{Match: true, Confidence: 1}
		}
		return Result{Match: false, Confidence: 0}
	}
	if strings.TrimSpace(a) == strings.TrimSpace(b) {
		return Result{Match: true, Confidence: 1}
	}
	return Result{Match: false, Confidence: 0}
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return strconv.ParseFloat(s, 64)
}

// compareText scores similarity as 1 - distance/maxLen over the
// case-folded strings and matches at 85% or better. The threshold check
// runs in integer space so a similarity of exactly 85% always passes.
func compareText(a, b string) Result {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return Result{Match: true, Confidence: 1}
	}

	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return Result{Match: true, Confidence: 1}
	}

	dist := levenshtein.Distance(a, b, nil)
	similarity := float64(maxLen-dist) / float64(maxLen)
	return Result{
		Match:      100*(maxLen-dist) >= textThresholdPercent*maxLen,
		Confidence: round2(similarity),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
