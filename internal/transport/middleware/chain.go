package middleware

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/words/internal/config"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes mws so that the first one runs outermost.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}

// Stack is the chain every request to the server passes through. The
// request ID is assigned first so a recovered panic can report it.
func Stack(logger *slog.Logger, cors config.CORSConfig) Middleware {
	return Chain(
		RequestID(),
		Recovery(logger),
		Logger(logger),
		CORS(cors),
	)
}
