package handler

import (
	"time"

	"veridoc/internal/verify"
)

// VerifyResponse is the HTTP response for POST /v1/verification/verify
// and GET /v1/verification/reports/{id}.
type VerifyResponse struct {
	ID                string                        `json:"id"`
	DocumentType      string                        `json:"document_type,omitempty"`
	Matches           map[string]ComparisonResponse `json:"matches"`
	Mismatches        map[string]ComparisonResponse `json:"mismatches"`
	OverallConfidence float64                       `json:"overall_confidence"`
	TotalFields       int                           `json:"total_fields"`
	MatchedFields     int                           `json:"matched_fields"`
	CreatedAt         time.Time                     `json:"created_at"`
}

// ComparisonResponse is one compared field.
type ComparisonResponse struct {
	Extracted  *string `json:"extracted"`
	Submitted  string  `json:"submitted"`
	Confidence float64 `json:"confidence"`
}

// FromReport converts a domain Report to an HTTP response.
func FromReport(report *verify.Report) *VerifyResponse {
	return &VerifyResponse{
		ID:                report.ID.String(),
		DocumentType:      report.DocumentType,
		Matches:           comparisons(report.Matches),
		Mismatches:        comparisons(report.Mismatches),
		OverallConfidence: report.OverallConfidence,
		TotalFields:       report.TotalFields,
		MatchedFields:     report.MatchedFields,
		CreatedAt:         report.CreatedAt,
	}
}

func comparisons(in map[string]verify.Comparison) map[string]ComparisonResponse {
	out := make(map[string]ComparisonResponse, len(in))
	for name, c := range in {
		out[name] = ComparisonResponse{
			Extracted:  c.Extracted,
			Submitted:  c.Submitted,
			Confidence: c.Confidence,
		}
	}
	return out
}
