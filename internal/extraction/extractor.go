// Package extraction turns recognized document text into typed, normalized
// fields with confidence scores. Extraction never fails on missing data:
// a field whose pattern finds nothing is simply absent from the result.
package extraction

import (
	"strings"

	"veridoc/internal/doctype"
	"veridoc/internal/fieldtype"
	"veridoc/internal/ocr"
)

// Field is one extracted value with the confidence inherited from the
// recognized words that produced it, scaled to [0,1].
type Field struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Extract applies every pattern of the document type against the
// recognized text. The first match wins per field; the captured group is
// the raw value, or the whole match when the pattern has no group.
// Confidence per field is the mean confidence of the recognized words
// whose spans overlap the match, 0 when no word-level data is available.
func Extract(text string, words []ocr.Word, def doctype.Definition) map[string]Field {
	spans := wordSpans(text, words)

	out := make(map[string]Field)
	for _, name := range def.Fields() {
		re, ok := def.Patterns[name]
		if !ok {
			continue
		}
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		start, end := loc[0], loc[1]
		if len(loc) >= 4 && loc[2] >= 0 {
			start, end = loc[2], loc[3]
		}
		// Greedy captures with whitespace classes can run past the end of
		// the line into the next label; a field value never spans lines.
		if nl := strings.IndexByte(text[start:end], '\n'); nl >= 0 {
			end = start + nl
		}
		value := strings.TrimSpace(text[start:end])
		if value == "" {
			continue
		}
		out[name] = Field{
			Value:      value,
			Confidence: round2(spanConfidence(spans, start, end)),
		}
	}
	return out
}

// ExtractNormalized extracts and then normalizes each value by the
// field's semantic type.
func ExtractNormalized(text string, words []ocr.Word, def doctype.Definition) map[string]Field {
	out := Extract(text, words, def)
	for name, f := range out {
		f.Value = fieldtype.NormalizeValue(f.Value, fieldtype.TypeForField(name))
		out[name] = f
	}
	return out
}

type span struct {
	start, end int
	confidence float64
}

// wordSpans locates each recognized word inside the full text, scanning
// left to right so repeated tokens land on distinct occurrences.
func wordSpans(text string, words []ocr.Word) []span {
	spans := make([]span, 0, len(words))
	offset := 0
	for _, w := range words {
		if w.Text == "" {
			continue
		}
		idx := strings.Index(text[offset:], w.Text)
		if idx < 0 {
			continue
		}
		start := offset + idx
		end := start + len(w.Text)
		spans = append(spans, span{start: start, end: end, confidence: w.Confidence / 100})
		offset = end
	}
	return spans
}

// spanConfidence averages the confidence of words overlapping [start,end).
func spanConfidence(spans []span, start, end int) float64 {
	var sum float64
	var n int
	for _, s := range spans {
		if s.start < end && s.end > start {
			sum += s.confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
