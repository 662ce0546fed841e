package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/words/internal/config"
	"github.com/heartmarshall/words/pkg/ctxutil"
)

type sessionRecorder interface {
	recordSession(id uuid.UUID)
}

// Session attaches a browser session ID to the request. A missing or
// malformed cookie is replaced by a fresh random UUID.
func Session(cfg config.SessionConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := sessionFromCookie(r, cfg.CookieName)
			if !ok {
				id = uuid.New()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    id.String(),
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			if rec, ok := w.(sessionRecorder); ok {
				rec.recordSession(id)
			}
			ctx := ctxutil.WithSessionID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromCookie(r *http.Request, name string) (uuid.UUID, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
