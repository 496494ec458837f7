// Package httputil centralizes JSON encoding and domain error translation
// for HTTP handlers so every endpoint returns the same envelopes.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "veridoc/pkg/domain-errors"
)

// maxBodyBytes caps request bodies; document text can be large but bounded.
const maxBodyBytes = 4 << 20

// Validatable is implemented by request types that validate and parse
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into a JSON error envelope.
// Internal errors omit the description so internals never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		if msg := dErrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}

// DecodeAndPrepare decodes the JSON request body into T and runs its
// Validate method. On failure it writes the error response and returns
// ok=false; handlers should simply return in that case.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	req := PT(new(T))

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(req); err != nil {
		var maxErr *http.MaxBytesError
		msg := "request body is not valid JSON"
		if errors.As(err, &maxErr) {
			msg = "request body too large"
		} else if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		if logger != nil {
			logger.WarnContext(ctx, "request decode failed",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, msg))
		return nil, false
	}

	if err := req.Validate(); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request validation failed",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, err)
		return nil, false
	}

	return req, true
}
