package rest

import (
	"context"
	"log/slog"
	"sync"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/heartmarshall/words/internal/view"
	"github.com/heartmarshall/words/pkg/ctxutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialStream(t *testing.T, srv *httptest.Server, session *http.Cookie) *websocket.Conn {
	t.Helper()

	header := http.Header{}
	header.Set("Cookie", session.String())

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", header)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readPage(t *testing.T, conn *websocket.Conn) view.Page {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var p view.Page
	require.NoError(t, conn.ReadJSON(&p))
	return p
}

func TestStateStream_SendsCurrentThenUpdates(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, view.PolicyCollapsed)
	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	session := &http.Cookie{Name: cookieName, Value: uuid.New().String()}
	conn := dialStream(t, srv, session)

	initial := readPage(t, conn)
	assert.Equal(t, "not_searched", initial.Status)
	assert.False(t, initial.Busy)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/lookup?term=hello", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	busy := readPage(t, conn)
	assert.True(t, busy.Busy)
	assert.Equal(t, "not_searched", busy.Status, "result is replaced only when the lookup settles")

	settled := readPage(t, conn)
	assert.False(t, settled.Busy)
	assert.Equal(t, "found", settled.Status)
	assert.Equal(t, "hello", settled.Headword)
	assert.EqualValues(t, 1, settled.Seq)
}

func TestStateStream_IgnoresOtherSessions(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, view.PolicyCollapsed)
	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	watcher := &http.Cookie{Name: cookieName, Value: uuid.New().String()}
	conn := dialStream(t, srv, watcher)
	readPage(t, conn)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/lookup?term=hello", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: uuid.New().String()})
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "no update expected for another session's lookup")
}

// recordingHandler keeps the context of every record it sees.
type recordingHandler struct {
	mu   sync.Mutex
	ctxs []context.Context
	msgs []string
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctxs = append(h.ctxs, ctx)
	h.msgs = append(h.msgs, r.Message)
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestStateStream_WriteFailureLogsWithRequestContext(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, view.PolicyCollapsed)
	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	conn := dialStream(t, srv, &http.Cookie{Name: cookieName, Value: uuid.New().String()})
	require.NoError(t, conn.Close())

	rec := &recordingHandler{}
	stream := NewStateStream(env.registry, view.PolicyCollapsed, slog.New(rec))
	ctx := ctxutil.WithRequestID(context.Background(), "req-ws-1")

	err := stream.send(ctx, conn, view.Page{Status: "not_searched"})
	require.Error(t, err)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Equal(t, []string{"ws write failed"}, rec.msgs)
	assert.Equal(t, "req-ws-1", ctxutil.RequestIDFromCtx(rec.ctxs[0]))
}
