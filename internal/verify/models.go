// Package verify compares extracted document fields against a
// caller-submitted record and produces a confidence-scored match report.
package verify

import (
	"time"

	"github.com/google/uuid"
)

// ExtractedField is one extracted value with its extraction confidence,
// as supplied by the caller or a prior extraction run.
type ExtractedField struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Request carries the two field sets to verify against each other.
type Request struct {
	DocumentType  string
	ExtractedData map[string]ExtractedField
	SubmittedData map[string]string
}

// Comparison is the outcome of comparing one field. Extracted is nil when
// the field was not extracted from the document.
type Comparison struct {
	Extracted  *string `json:"extracted"`
	Submitted  string  `json:"submitted"`
	Confidence float64 `json:"confidence"`
}

// Report is the result of one verification run. Matches and Mismatches
// partition the submitted field set; OverallConfidence averages the
// comparison confidences across all submitted fields, measuring aggregate
// extraction fidelity rather than pass rate.
type Report struct {
	ID                uuid.UUID             `json:"id"`
	DocumentType      string                `json:"documentType,omitempty"`
	Matches           map[string]Comparison `json:"matches"`
	Mismatches        map[string]Comparison `json:"mismatches"`
	OverallConfidence float64               `json:"overallConfidence"`
	TotalFields       int                   `json:"totalFields"`
	MatchedFields     int                   `json:"matchedFields"`
	CreatedAt         time.Time             `json:"createdAt"`
}
