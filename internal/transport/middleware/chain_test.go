package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/heartmarshall/words/internal/config"
	"github.com/heartmarshall/words/internal/domain"
	"github.com/heartmarshall/words/internal/service/lookup"
	"github.com/heartmarshall/words/internal/transport/middleware"
	"github.com/heartmarshall/words/internal/transport/rest"
	"github.com/heartmarshall/words/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "words_session"

// dictionaryStub finds every word except "explode", which panics.
type dictionaryStub struct{}

func (dictionaryStub) FetchEntries(_ context.Context, term string) ([]domain.WordEntry, error) {
	if term == "explode" {
		panic("dictionary exploded")
	}
	return []domain.WordEntry{{Word: term}}, nil
}

func (dictionaryStub) Ping(context.Context) error { return nil }

type stackEnv struct {
	handler http.Handler
	logger  *slog.Logger
	logs    *bytes.Buffer
}

func newStackEnv(t *testing.T, cors config.CORSConfig) *stackEnv {
	t.Helper()

	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, nil))

	registry := lookup.NewRegistry(logger, dictionaryStub{}, time.Hour, time.Hour)
	t.Cleanup(registry.Stop)

	router := rest.NewRouter(rest.Handlers{
		Lookup: rest.NewLookupHandler(registry, renderer, view.PolicyCollapsed, logger),
		Stream: rest.NewStateStream(registry, view.PolicyCollapsed, logger),
		Health: rest.NewHealthHandler(dictionaryStub{}, registry, "test"),
	}, middleware.Session(config.SessionConfig{CookieName: cookieName}))

	return &stackEnv{handler: middleware.Stack(logger, cors)(router), logger: logger, logs: logs}
}

func defaultCORS() config.CORSConfig {
	return config.CORSConfig{
		AllowedOrigins: "*",
		AllowedMethods: "GET,POST,OPTIONS",
		AllowedHeaders: "Content-Type",
		MaxAge:         86400,
	}
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+"-before")
				next.ServeHTTP(w, r)
				order = append(order, name+"-after")
			})
		}
	}

	h := middleware.Chain(mark("outer"), mark("inner"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer-before", "inner-before", "handler", "inner-after", "outer-after"}, order)
}

func TestStack_LookupCarriesSessionAndRequestID(t *testing.T) {
	t.Parallel()
	env := newStackEnv(t, defaultCORS())

	req := httptest.NewRequest(http.MethodGet, "/api/lookup?term=hello", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-lookup-1")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-lookup-1", rec.Header().Get(middleware.RequestIDHeader))

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			session = c
		}
	}
	require.NotNil(t, session, "lookup routes run inside the session group")

	type logLine struct {
		Msg       string `json:"msg"`
		RequestID string `json:"request_id"`
		SessionID string `json:"session_id"`
		Status    int    `json:"status"`
	}
	var line logLine
	dec := json.NewDecoder(env.logs)
	found := false
	for dec.More() {
		var l logLine
		require.NoError(t, dec.Decode(&l))
		if l.Msg == "http.request" {
			line, found = l, true
			break
		}
	}
	require.True(t, found, "request log line written")
	assert.Equal(t, "req-lookup-1", line.RequestID)
	assert.Equal(t, session.Value, line.SessionID)
	assert.Equal(t, http.StatusOK, line.Status)
}

func TestStack_PreflightOnLookupRoute(t *testing.T) {
	t.Parallel()
	env := newStackEnv(t, defaultCORS())

	req := httptest.NewRequest(http.MethodOptions, "/api/lookup", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Empty(t, rec.Result().Cookies(), "preflight never reaches the session group")
}
