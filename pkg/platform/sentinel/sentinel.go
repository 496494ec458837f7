// Package sentinel holds sentinel errors for infrastructure facts. Stores
// return these (optionally wrapped) so services can translate them into
// domain errors. They represent factual states about resources, not
// validation failures; for bad input use pkg/domain-errors directly.
package sentinel

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
