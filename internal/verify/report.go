package verify

import (
	"math"

	"veridoc/internal/fieldtype"
	"veridoc/internal/match"
)

// BuildReport compares every submitted field against its extracted
// counterpart. The submitted set drives the iteration: a field the caller
// did not submit is never reported, and a submitted field with no
// extracted counterpart is a certain mismatch. Both sides are normalized
// by the field's semantic type before comparison, so formatting
// differences (spacing, separators, date layout) never count against a
// match; the report still carries the values as given.
func BuildReport(extracted map[string]ExtractedField, submitted map[string]string) Report {
	report := Report{
		Matches:     make(map[string]Comparison),
		Mismatches:  make(map[string]Comparison),
		TotalFields: len(submitted),
	}

	var confidenceSum float64
	for name, submittedValue := range submitted {
		ftype := fieldtype.TypeForField(name)

		var extractedNorm *string
		var extractedRaw *string
		if f, ok := extracted[name]; ok {
			norm := fieldtype.NormalizeValue(f.Value, ftype)
			extractedNorm = &norm
			raw := f.Value
			extractedRaw = &raw
		}
		submittedNorm := fieldtype.NormalizeValue(submittedValue, ftype)

		res := match.Compare(extractedNorm, &submittedNorm, match.KindForType(ftype))
		confidenceSum += res.Confidence

		entry := Comparison{
			Extracted:  extractedRaw,
			Submitted:  submittedValue,
			Confidence: res.Confidence,
		}
		if res.Match {
			report.Matches[name] = entry
		} else {
			report.Mismatches[name] = entry
		}
	}

	report.MatchedFields = len(report.Matches)
	if report.TotalFields > 0 {
		report.OverallConfidence = round2(confidenceSum / float64(report.TotalFields))
	}
	return report
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
