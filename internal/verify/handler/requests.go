package handler

import (
	"strings"

	"veridoc/internal/verify"
	dErrors "veridoc/pkg/domain-errors"
)

const maxFields = 200

// VerifyRequest is the HTTP request body for POST /v1/verification/verify.
type VerifyRequest struct {
	DocumentType  string                    `json:"document_type"`
	ExtractedData map[string]ExtractedField `json:"extracted_data"`
	SubmittedData map[string]string         `json:"submitted_data"`
}

// ExtractedField is one extracted value with its extraction confidence.
type ExtractedField struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.DocumentType = strings.TrimSpace(r.DocumentType)

	if len(r.ExtractedData) == 0 {
		return dErrors.New(dErrors.CodeValidation, "extracted_data is required")
	}
	if len(r.SubmittedData) == 0 {
		return dErrors.New(dErrors.CodeValidation, "submitted_data is required")
	}
	if len(r.ExtractedData) > maxFields || len(r.SubmittedData) > maxFields {
		return dErrors.New(dErrors.CodeValidation, "too many fields")
	}
	for name := range r.SubmittedData {
		if strings.TrimSpace(name) == "" {
			return dErrors.New(dErrors.CodeValidation, "field names must be non-empty")
		}
	}
	for name, f := range r.ExtractedData {
		if strings.TrimSpace(name) == "" {
			return dErrors.New(dErrors.CodeValidation, "field names must be non-empty")
		}
		if f.Confidence < 0 || f.Confidence > 1 {
			return dErrors.New(dErrors.CodeValidation, "extraction confidence must be between 0 and 1")
		}
	}
	return nil
}

// DomainRequest converts the payload to the domain request.
func (r *VerifyRequest) DomainRequest() verify.Request {
	extracted := make(map[string]verify.ExtractedField, len(r.ExtractedData))
	for name, f := range r.ExtractedData {
		extracted[name] = verify.ExtractedField{Value: f.Value, Confidence: f.Confidence}
	}
	return verify.Request{
		DocumentType:  r.DocumentType,
		ExtractedData: extracted,
		SubmittedData: r.SubmittedData,
	}
}
