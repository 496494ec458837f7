// Package ocr defines the recognition boundary: engines turn a document
// image into recognized text plus per-word confidence, and the rest of
// the pipeline never learns which engine produced them.
package ocr

import "context"

// Word is a single recognized token with the engine's confidence for it,
// on the engine-native 0..100 scale.
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Result is the output of recognizing one page.
type Result struct {
	Text  string `json:"text"`
	Words []Word `json:"words"`
}

// Engine recognizes the contents of a document image.
type Engine interface {
	Recognize(ctx context.Context, imagePath string) (Result, error)
}
