package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Lookup *LookupHandler
	Stream *StateStream
	Health *HealthHandler
}

// NewRouter wires the routes. Probes stay outside the session middleware so
// they never mint cookies.
func NewRouter(h Handlers, session func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/live", h.Health.Live)
	r.Get("/ready", h.Health.Ready)
	r.Get("/health", h.Health.Health)

	r.Group(func(r chi.Router) {
		r.Use(session)

		r.Get("/", h.Lookup.Page)
		r.Post("/search", h.Lookup.Search)
		r.Get("/ws", h.Stream.ServeHTTP)

		r.Route("/api", func(r chi.Router) {
			r.Get("/lookup", h.Lookup.APILookup)
			r.Get("/state", h.Lookup.APIState)
		})
	})

	r.NotFound(h.Lookup.NotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	return r
}
