package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Allow(t *testing.T) {
	t.Run("burst is honored then exhausted", func(t *testing.T) {
		l := New(1, 3)
		for i := 0; i < 3; i++ {
			assert.True(t, l.Allow("10.0.0.1"), "request %d within burst", i)
		}
		assert.False(t, l.Allow("10.0.0.1"), "burst exhausted")
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		l := New(1, 1)
		require.True(t, l.Allow("10.0.0.1"))
		require.False(t, l.Allow("10.0.0.1"))
		assert.True(t, l.Allow("10.0.0.2"), "separate client has its own bucket")
	})
}

func TestLimiter_Middleware(t *testing.T) {
	l := New(1, 1)
	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:1234"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}
