package extraction

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/doctype"
	"veridoc/internal/ocr"
)

func idCardDef(t *testing.T) doctype.Definition {
	t.Helper()
	def, ok := doctype.Default().Lookup("id_card")
	require.True(t, ok)
	return def
}

func TestExtract_IDCard(t *testing.T) {
	text := "Full Name: John Smith\nID Number: AB-1234\nDOB: 05/01/1990"
	words := []ocr.Word{
		{Text: "Full", Confidence: 96},
		{Text: "Name:", Confidence: 94},
		{Text: "John", Confidence: 92},
		{Text: "Smith", Confidence: 88},
		{Text: "ID", Confidence: 97},
		{Text: "Number:", Confidence: 95},
		{Text: "AB-1234", Confidence: 90},
		{Text: "DOB:", Confidence: 93},
		{Text: "05/01/1990", Confidence: 80},
	}

	got := Extract(text, words, idCardDef(t))

	require.Contains(t, got, "name")
	assert.Equal(t, "John Smith", got["name"].Value)
	// Words "John" and "Smith" overlap the capture.
	assert.Equal(t, 0.9, got["name"].Confidence)

	require.Contains(t, got, "id")
	assert.Equal(t, "AB-1234", got["id"].Value)
	assert.Equal(t, 0.9, got["id"].Confidence)

	require.Contains(t, got, "dateOfBirth")
	assert.Equal(t, "05/01/1990", got["dateOfBirth"].Value)
	assert.Equal(t, 0.8, got["dateOfBirth"].Confidence)

	// No pattern matched, so the field is absent rather than empty.
	assert.NotContains(t, got, "address")
	assert.NotContains(t, got, "expiryDate")
}

func TestExtract_FirstMatchWins(t *testing.T) {
	text := "Full Name: John Smith\nName: Someone Else"
	got := Extract(text, nil, idCardDef(t))
	require.Contains(t, got, "name")
	assert.Equal(t, "John Smith", got["name"].Value)
}

func TestExtract_NoWordDataDefaultsToZeroConfidence(t *testing.T) {
	got := Extract("Full Name: John Smith", nil, idCardDef(t))
	require.Contains(t, got, "name")
	assert.Equal(t, 0.0, got["name"].Confidence)
}

func TestExtract_SignatureKeyword(t *testing.T) {
	def, ok := doctype.Default().Lookup("form")
	require.True(t, ok)

	got := Extract("Applicant Name: Ada Lovelace\nForm No: F-1\nDate: 01/02/2024\nSignature", nil, def)
	require.Contains(t, got, "signaturePresent")
	assert.Equal(t, "Signature", got["signaturePresent"].Value)
}

func TestExtract_WholeMatchWhenNoCaptureGroup(t *testing.T) {
	def := doctype.Definition{
		Key:      "stamp",
		Name:     "Stamp",
		Required: []string{"approved"},
		Patterns: map[string]*regexp.Regexp{
			"approved": regexp.MustCompile(`(?i)APPROVED`),
		},
	}
	got := Extract("Status: Approved by clerk", nil, def)
	require.Contains(t, got, "approved")
	assert.Equal(t, "Approved", got["approved"].Value)
}

func TestExtract_ValueStopsAtLineBreak(t *testing.T) {
	// The name capture class is greedy across whitespace; the extracted
	// value must still end at its own line.
	got := Extract("Name: John Smith\nIssued Here", nil, idCardDef(t))
	require.Contains(t, got, "name")
	assert.Equal(t, "John Smith", got["name"].Value)
}

func TestExtract_NothingMatches(t *testing.T) {
	got := Extract("completely unrelated text", nil, idCardDef(t))
	assert.Empty(t, got)
}

func TestExtractNormalized_AppliesTypeNormalizers(t *testing.T) {
	text := "Full Name: John   Smith\nID Number: ab-1234\nDOB: 05/01/1990"
	got := ExtractNormalized(text, nil, idCardDef(t))

	assert.Equal(t, "John Smith", got["name"].Value)
	assert.Equal(t, "AB1234", got["id"].Value)
	assert.Equal(t, "1990-05-01", got["dateOfBirth"].Value)
}

func TestWordSpans_RepeatedTokensLandOnDistinctOccurrences(t *testing.T) {
	text := "Name: Ann Ann"
	spans := wordSpans(text, []ocr.Word{
		{Text: "Ann", Confidence: 90},
		{Text: "Ann", Confidence: 50},
	})
	require.Len(t, spans, 2)
	assert.Equal(t, 6, spans[0].start)
	assert.Equal(t, 10, spans[1].start)
}

func TestWordSpans_SkipsWordsAbsentFromText(t *testing.T) {
	spans := wordSpans("short text", []ocr.Word{
		{Text: "short", Confidence: 90},
		{Text: "missing", Confidence: 10},
		{Text: "text", Confidence: 80},
	})
	require.Len(t, spans, 2)
	assert.Equal(t, "short text"[spans[1].start:spans[1].end], "text")
}
