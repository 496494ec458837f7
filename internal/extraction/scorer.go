package extraction

import (
	"math"

	"veridoc/internal/ocr"
)

// Fixed weights of the combined confidence score. They sum to 1.0 so the
// overall figure stays a convex combination of its components.
const (
	weightWordLevel      = 0.60
	weightFieldDetection = 0.30
	weightImageQuality   = 0.10
)

// ImageQuality is a proxy for capture quality derived from the spread of
// word confidences. Uneven confidence across a page tracks blur, shadow
// and skew better than the mean alone.
type ImageQuality struct {
	OverallQuality     float64 `json:"overallQuality"`
	ConfidenceVariance float64 `json:"confidenceVariance"`
}

// ScoredResult is the combined confidence assessment for one extraction.
type ScoredResult struct {
	Overall                  float64      `json:"overall"`
	WordLevelConfidence      float64      `json:"wordLevelConfidence"`
	FieldDetectionConfidence float64      `json:"fieldDetectionConfidence"`
	ImageQuality             ImageQuality `json:"imageQuality"`
}

// Score combines word-level confidence, the fill rate of the document
// type's expected fields, and the image-quality proxy into one overall
// figure. An empty word list is the worst case across the board. A
// document type with no expected-field list scores field detection 1.0,
// vacuously.
func Score(words []ocr.Word, extracted map[string]Field, expectedFields []string) ScoredResult {
	if len(words) == 0 {
		return ScoredResult{
			ImageQuality: ImageQuality{OverallQuality: 0, ConfidenceVariance: 1},
		}
	}

	var sum float64
	for _, w := range words {
		sum += w.Confidence
	}
	wordLevel := sum / float64(len(words)) / 100

	fieldDetection := 1.0
	if len(expectedFields) > 0 {
		found := 0
		for _, name := range expectedFields {
			if _, ok := extracted[name]; ok {
				found++
			}
		}
		fieldDetection = float64(found) / float64(len(expectedFields))
	}

	quality := assessImageQuality(words)

	overall := wordLevel*weightWordLevel +
		fieldDetection*weightFieldDetection +
		quality.OverallQuality*weightImageQuality

	return ScoredResult{
		Overall:                  round2(overall),
		WordLevelConfidence:      round2(wordLevel),
		FieldDetectionConfidence: round2(fieldDetection),
		ImageQuality:             quality,
	}
}

func assessImageQuality(words []ocr.Word) ImageQuality {
	if len(words) == 0 {
		return ImageQuality{OverallQuality: 0, ConfidenceVariance: 1}
	}

	confidences := make([]float64, len(words))
	var sum float64
	for i, w := range words {
		confidences[i] = w.Confidence / 100
		sum += confidences[i]
	}
	mean := sum / float64(len(confidences))

	var variance float64
	for _, c := range confidences {
		variance += (c - mean) * (c - mean)
	}
	variance /= float64(len(confidences))

	quality := 1 - math.Sqrt(variance)*2.5
	if quality < 0 {
		quality = 0
	}
	return ImageQuality{
		OverallQuality:     round2(quality),
		ConfidenceVariance: round4(variance),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
