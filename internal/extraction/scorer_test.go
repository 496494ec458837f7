package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"veridoc/internal/doctype"
	"veridoc/internal/ocr"
)

func uniformWords(conf float64, n int) []ocr.Word {
	out := make([]ocr.Word, n)
	for i := range out {
		out[i] = ocr.Word{Text: "w", Confidence: conf}
	}
	return out
}

func TestScore_EmptyWordListIsWorstCase(t *testing.T) {
	got := Score(nil, map[string]Field{"name": {Value: "John"}}, []string{"name", "id", "dateOfBirth"})

	assert.Equal(t, 0.0, got.Overall)
	assert.Equal(t, 0.0, got.WordLevelConfidence)
	assert.Equal(t, 0.0, got.FieldDetectionConfidence)
	assert.Equal(t, 0.0, got.ImageQuality.OverallQuality)
	assert.Equal(t, 1.0, got.ImageQuality.ConfidenceVariance)
}

func TestScore_UniformConfidence(t *testing.T) {
	words := uniformWords(90, 4)
	extracted := map[string]Field{
		"name":        {Value: "John Smith"},
		"id":          {Value: "AB1234"},
		"dateOfBirth": {Value: "1990-05-01"},
	}

	got := Score(words, extracted, doctype.Default().ExpectedFields("id_card"))

	// Zero variance: perfect quality. All expected fields found.
	assert.Equal(t, 0.9, got.WordLevelConfidence)
	assert.Equal(t, 1.0, got.FieldDetectionConfidence)
	assert.Equal(t, 1.0, got.ImageQuality.OverallQuality)
	assert.Equal(t, 0.0, got.ImageQuality.ConfidenceVariance)
	// 0.9*0.6 + 1.0*0.3 + 1.0*0.1
	assert.Equal(t, 0.94, got.Overall)
}

func TestScore_PartialFieldDetection(t *testing.T) {
	words := uniformWords(90, 3)
	extracted := map[string]Field{"name": {Value: "John Smith"}}

	got := Score(words, extracted, doctype.Default().ExpectedFields("id_card"))

	// One of three expected fields found.
	assert.Equal(t, 0.33, got.FieldDetectionConfidence)
}

func TestScore_UnknownTypeVacuouslyComplete(t *testing.T) {
	got := Score(uniformWords(80, 2), nil, nil)
	assert.Equal(t, 1.0, got.FieldDetectionConfidence)
}

func TestScore_VariancePenalizesQuality(t *testing.T) {
	// Confidences 1.0 and 0.5: mean 0.75, variance 0.0625, stddev 0.25.
	words := []ocr.Word{
		{Text: "a", Confidence: 100},
		{Text: "b", Confidence: 50},
	}
	got := Score(words, nil, nil)

	assert.Equal(t, 0.0625, got.ImageQuality.ConfidenceVariance)
	// 1 - 0.25*2.5 = 0.375
	assert.Equal(t, 0.38, got.ImageQuality.OverallQuality)
}

func TestScore_QualityFloorsAtZero(t *testing.T) {
	// Spread wide enough that the penalty exceeds 1.
	words := []ocr.Word{
		{Text: "a", Confidence: 100},
		{Text: "b", Confidence: 0},
		{Text: "c", Confidence: 100},
		{Text: "d", Confidence: 0},
	}
	got := Score(words, nil, nil)
	assert.Equal(t, 0.0, got.ImageQuality.OverallQuality)
}

func TestScore_OverallStaysInRange(t *testing.T) {
	for _, conf := range []float64{0, 12.5, 50, 87.5, 100} {
		for _, n := range []int{1, 2, 7} {
			got := Score(uniformWords(conf, n), nil, []string{"name"})
			assert.GreaterOrEqual(t, got.Overall, 0.0)
			assert.LessOrEqual(t, got.Overall, 1.0)
		}
	}
}
