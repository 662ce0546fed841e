package lookup

import (
	"log/slog"
	"sync"
	"time"
)

// Registry hands out one Controller per session and drops controllers that
// stay idle longer than the configured TTL. Call Stop on shutdown.
type Registry struct {
	log      *slog.Logger
	base     *slog.Logger
	provider dictionaryProvider
	idleTTL  time.Duration

	sessions sync.Map // map[string]*Controller
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a registry with a background sweeper running every
// cleanupInterval.
func NewRegistry(logger *slog.Logger, provider dictionaryProvider, idleTTL, cleanupInterval time.Duration) *Registry {
	r := &Registry{
		log:      logger.With("service", "lookup_registry"),
		base:     logger,
		provider: provider,
		idleTTL:  idleTTL,
		stop:     make(chan struct{}),
	}
	go r.cleanup(cleanupInterval)
	return r
}

// Get returns the controller for sessionID, creating it on first use. Every
// call counts as activity and resets the session's idle clock.
func (r *Registry) Get(sessionID string) *Controller {
	for {
		v, ok := r.sessions.Load(sessionID)
		if !ok {
			var loaded bool
			v, loaded = r.sessions.LoadOrStore(sessionID, NewController(r.base, r.provider))
			if !loaded {
				r.log.Debug("session started", slog.String("session_id", sessionID))
			}
		}

		c := v.(*Controller)
		if c.touch() {
			return c
		}
		// Retired by a concurrent sweep; drop it and start over.
		r.sessions.CompareAndDelete(sessionID, c)
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	n := 0
	r.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Stop terminates the background sweeper. It is safe to call more than once.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *Registry) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			if n := r.sweep(time.Now()); n > 0 {
				r.log.Debug("idle sessions evicted", slog.Int("count", n))
			}
		}
	}
}

// sweep evicts controllers idle for longer than idleTTL. Busy or observed
// controllers are never evicted.
func (r *Registry) sweep(now time.Time) int {
	evicted := 0
	r.sessions.Range(func(key, value any) bool {
		c := value.(*Controller)
		if c.tryEvict(now, r.idleTTL) {
			r.sessions.CompareAndDelete(key, c)
			c.Close()
			evicted++
		}
		return true
	})
	return evicted
}
