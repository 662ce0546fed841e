package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/heartmarshall/words/internal/config"
	"github.com/heartmarshall/words/pkg/ctxutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSessionCfg = config.SessionConfig{CookieName: "words_session"}

func sessionCapture(got *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := ctxutil.SessionIDFromCtx(r.Context())
		if ok {
			*got = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestSession_IssuesCookieWhenMissing(t *testing.T) {
	t.Parallel()

	var got uuid.UUID
	wrapped := Session(testSessionCfg)(sessionCapture(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	require.NotEqual(t, uuid.Nil, got)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "words_session", cookies[0].Name)
	assert.Equal(t, got.String(), cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)
}

func TestSession_ReusesValidCookie(t *testing.T) {
	t.Parallel()

	existing := uuid.New()
	var got uuid.UUID
	wrapped := Session(testSessionCfg)(sessionCapture(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "words_session", Value: existing.String()})
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, existing, got)
	assert.Empty(t, rec.Result().Cookies(), "no new cookie for a known session")
}

func TestSession_ReplacesMalformedCookie(t *testing.T) {
	t.Parallel()

	cases := []string{"not-a-uuid", uuid.Nil.String(), ""}

	for _, value := range cases {
		t.Run(value, func(t *testing.T) {
			t.Parallel()

			var got uuid.UUID
			wrapped := Session(testSessionCfg)(sessionCapture(&got))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: "words_session", Value: value})
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)

			assert.NotEqual(t, uuid.Nil, got)
			require.Len(t, rec.Result().Cookies(), 1)
			assert.Equal(t, got.String(), rec.Result().Cookies()[0].Value)
		})
	}
}

func TestSession_SecureFlag(t *testing.T) {
	t.Parallel()

	var got uuid.UUID
	wrapped := Session(config.SessionConfig{CookieName: "sid", Secure: true})(sessionCapture(&got))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, "sid", rec.Result().Cookies()[0].Name)
	assert.True(t, rec.Result().Cookies()[0].Secure)
}
