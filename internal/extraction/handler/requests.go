package handler

import (
	"strings"

	"veridoc/internal/ocr"
	dErrors "veridoc/pkg/domain-errors"
)

const maxWords = 50_000

// ExtractRequest is the HTTP request body for POST /v1/extraction/extract.
// It carries pre-recognized text; image uploads use the multipart variant
// of the same endpoint.
type ExtractRequest struct {
	DocumentType string        `json:"document_type"`
	Text         string        `json:"text"`
	Words        []WordPayload `json:"words"`
}

// WordPayload is one recognized word with its engine confidence (0-100).
type WordPayload struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ExtractRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.DocumentType = strings.TrimSpace(r.DocumentType)
	if r.DocumentType == "" {
		return dErrors.New(dErrors.CodeValidation, "document_type is required")
	}
	if strings.TrimSpace(r.Text) == "" {
		return dErrors.New(dErrors.CodeValidation, "text is required")
	}
	if len(r.Words) > maxWords {
		return dErrors.New(dErrors.CodeValidation, "too many words")
	}
	for _, w := range r.Words {
		if w.Confidence < 0 || w.Confidence > 100 {
			return dErrors.New(dErrors.CodeValidation, "word confidence must be between 0 and 100")
		}
	}
	return nil
}

// OCRWords converts the payload words to the recognition type.
func (r *ExtractRequest) OCRWords() []ocr.Word {
	if len(r.Words) == 0 {
		return nil
	}
	out := make([]ocr.Word, len(r.Words))
	for i, w := range r.Words {
		out[i] = ocr.Word{Text: w.Text, Confidence: w.Confidence}
	}
	return out
}
