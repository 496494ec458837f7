package extraction

import "veridoc/internal/ocr"

// Request asks for extraction from already-recognized text.
type Request struct {
	DocumentType string
	Text         string
	Words        []ocr.Word
}

// ImageRequest asks for extraction from one or more page images that
// still need recognition.
type ImageRequest struct {
	DocumentType string
	ImagePaths   []string
}

// Result is the complete outcome of one extraction.
type Result struct {
	DocumentType string           `json:"documentType"`
	Fields       map[string]Field `json:"fields"`
	Score        ScoredResult     `json:"score"`
	Text         string           `json:"text"`
}
