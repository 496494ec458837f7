package handler

import (
	"sort"

	"veridoc/internal/extraction"
)

// ExtractResponse is the HTTP response for POST /v1/extraction/extract.
type ExtractResponse struct {
	DocumentType string                   `json:"document_type"`
	Fields       map[string]FieldResponse `json:"fields"`
	Score        ScoreResponse            `json:"score"`
}

// FieldResponse is one extracted field.
type FieldResponse struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ScoreResponse is the combined confidence assessment.
type ScoreResponse struct {
	Overall                  float64              `json:"overall"`
	WordLevelConfidence      float64              `json:"word_level_confidence"`
	FieldDetectionConfidence float64              `json:"field_detection_confidence"`
	ImageQuality             ImageQualityResponse `json:"image_quality"`
}

// ImageQualityResponse is the image-quality proxy portion of the score.
type ImageQualityResponse struct {
	OverallQuality     float64 `json:"overall_quality"`
	ConfidenceVariance float64 `json:"confidence_variance"`
}

// DocumentTypesResponse is the HTTP response for GET /v1/doctypes.
type DocumentTypesResponse struct {
	DocumentTypes []string `json:"document_types"`
}

// FromResult converts a domain Result to an HTTP response.
func FromResult(res *extraction.Result) *ExtractResponse {
	fields := make(map[string]FieldResponse, len(res.Fields))
	for name, f := range res.Fields {
		fields[name] = FieldResponse{Value: f.Value, Confidence: f.Confidence}
	}
	return &ExtractResponse{
		DocumentType: res.DocumentType,
		Fields:       fields,
		Score: ScoreResponse{
			Overall:                  res.Score.Overall,
			WordLevelConfidence:      res.Score.WordLevelConfidence,
			FieldDetectionConfidence: res.Score.FieldDetectionConfidence,
			ImageQuality: ImageQualityResponse{
				OverallQuality:     res.Score.ImageQuality.OverallQuality,
				ConfidenceVariance: res.Score.ImageQuality.ConfidenceVariance,
			},
		},
	}
}

// FromDocumentTypes builds the document type listing response.
func FromDocumentTypes(keys []string) *DocumentTypesResponse {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	return &DocumentTypesResponse{DocumentTypes: sorted}
}
