package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heartmarshall/words/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestCORS_Origins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		allowed     string
		credentials bool
		origin      string
		wantOrigin  string
		wantCreds   string
	}{
		{"listed origin", "https://words.example,https://other.example", true, "https://words.example", "https://words.example", "true"},
		{"listed origin without credentials", "https://words.example", false, "https://words.example", "https://words.example", ""},
		{"unlisted origin", "https://words.example", true, "https://evil.example", "", ""},
		{"wildcard", "*", false, "https://any.example", "*", ""},
		{"wildcard never grants credentials", "*", true, "https://any.example", "*", ""},
		{"listed origin beside wildcard", "*, https://words.example", true, "https://words.example", "https://words.example", "true"},
		{"no origin header", "*", true, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			h := CORS(config.CORSConfig{
				AllowedOrigins:   tt.allowed,
				AllowedMethods:   "GET,POST,OPTIONS",
				AllowedHeaders:   "Content-Type",
				AllowCredentials: tt.credentials,
				MaxAge:           3600,
			})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.True(t, called)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, rec.Header().Get("Access-Control-Allow-Credentials"))
			assert.Contains(t, rec.Header().Values("Vary"), "Origin")
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	h := CORS(config.CORSConfig{
		AllowedOrigins:   "https://words.example",
		AllowedMethods:   "GET,POST,OPTIONS",
		AllowedHeaders:   "Content-Type,X-Request-Id",
		AllowCredentials: true,
		MaxAge:           86400,
	})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("preflight must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/lookup", nil)
	req.Header.Set("Origin", "https://words.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://words.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type,X-Request-Id", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
}
