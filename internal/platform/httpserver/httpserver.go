// Package httpserver builds the HTTP server with sane defaults.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with project-wide timeouts.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// OCR on large page images can take a while; keep write generous.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
