package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/heartmarshall/words/internal/view"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// StateStream pushes the session's view model over a WebSocket every time
// the controller publishes a new state.
type StateStream struct {
	sessions sessionRegistry
	policy   view.Policy
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewStateStream creates a StateStream.
func NewStateStream(sessions sessionRegistry, policy view.Policy, logger *slog.Logger) *StateStream {
	return &StateStream{
		sessions: sessions,
		policy:   policy,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
		log:      logger.With("handler", "ws"),
	}
}

// ServeHTTP handles GET /ws. The current state is sent right after the
// upgrade, then every published state until the client goes away.
func (s *StateStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := sessionController(s.sessions, r)

	updates, cancel := c.Subscribe()
	defer cancel()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WarnContext(r.Context(), "upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// Reads only drive control frames; a read error means the client left.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(wsPongWait)) //nolint:errcheck
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.send(r.Context(), conn, view.Build(c.State(), s.policy)); err != nil {
		return
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case st, ok := <-updates:
			if !ok {
				conn.WriteControl(websocket.CloseMessage, //nolint:errcheck
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session expired"),
					time.Now().Add(wsWriteWait))
				return
			}
			if err := s.send(r.Context(), conn, view.Build(st, s.policy)); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-gone:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (s *StateStream) send(ctx context.Context, conn *websocket.Conn, page view.Page) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait)) //nolint:errcheck
	if err := conn.WriteJSON(page); err != nil {
		s.log.DebugContext(ctx, "ws write failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
