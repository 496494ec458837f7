package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"veridoc/pkg/requestcontext"
)

const chromeOnMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name string
		prep func(r *http.Request)
		want string
	}{
		{"x-forwarded-for single", func(r *http.Request) {
			r.Header.Set("X-Forwarded-For", "203.0.113.7")
		}, "203.0.113.7"},
		{"x-forwarded-for chain takes first", func(r *http.Request) {
			r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		}, "203.0.113.7"},
		{"x-real-ip", func(r *http.Request) {
			r.Header.Set("X-Real-IP", "198.51.100.2")
		}, "198.51.100.2"},
		{"remote addr fallback", func(r *http.Request) {
			r.RemoteAddr = "192.0.2.1:5432"
		}, "192.0.2.1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.prep(req)
			assert.Equal(t, tc.want, ClientIPFromRequest(req))
		})
	}
}

func TestDescribeUserAgent(t *testing.T) {
	assert.Equal(t, "", DescribeUserAgent(""))

	desc := DescribeUserAgent(chromeOnMac)
	assert.Contains(t, desc, "Chrome")
	assert.Contains(t, desc, "Mac OS X")

	// Unparseable agents pass through truncated.
	raw := "custom-agent/1.0"
	assert.Equal(t, raw, DescribeUserAgent(raw))
}

func TestClientMetadata_ContextCarriesParsedAgent(t *testing.T) {
	var gotIP, gotUA string
	h := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = requestcontext.ClientIP(r.Context())
		gotUA = requestcontext.UserAgent(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.2")
	req.Header.Set("User-Agent", chromeOnMac)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "198.51.100.2", gotIP)
	assert.Contains(t, gotUA, "Chrome")
	assert.NotContains(t, gotUA, "AppleWebKit")
}
