// Package lookup owns the per-session lookup state: it validates search
// terms, queries the dictionary provider, and publishes the resulting
// state to observers.
package lookup

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/words/internal/domain"
)

const observerBuffer = 16

// ErrClosed is returned by Submit once the registry has evicted the
// controller. Fetch a fresh controller from the registry and retry.
var ErrClosed = errors.New("lookup: session closed")

type dictionaryProvider interface {
	FetchEntries(ctx context.Context, term string) ([]domain.WordEntry, error)
}

// State is an immutable snapshot of a controller.
type State struct {
	Result domain.LookupResult
	// Term is the search term that produced Result; empty while NotSearched.
	Term string
	// Busy is true while at least one lookup is outstanding.
	Busy bool
	// Seq is the sequence number of the submission that produced Result.
	Seq uint64
}

// Controller drives Idle(NotSearched) -> Busy -> Settled(NotFound|Found) -> Busy ...
// for one session. Overlapping submissions are not cancelled; a response is
// applied only if no newer submission has been applied already.
type Controller struct {
	log      *slog.Logger
	provider dictionaryProvider

	mu       sync.Mutex
	state    State
	issued   uint64
	inflight int
	lastUsed time.Time
	retired  bool

	obsMu     sync.RWMutex
	observers map[chan State]struct{}
	closed    bool
}

// NewController creates a controller in the NotSearched state.
func NewController(logger *slog.Logger, provider dictionaryProvider) *Controller {
	return &Controller{
		log:       logger.With("service", "lookup"),
		provider:  provider,
		state:     State{Result: domain.NotSearched()},
		lastUsed:  time.Now(),
		observers: make(map[chan State]struct{}),
	}
}

// Validate rejects empty (after trimming) terms before any request is made.
func (c *Controller) Validate(term string) (domain.SearchTerm, error) {
	return domain.NewSearchTerm(term)
}

// Lookup issues exactly one provider call and maps the outcome onto a
// LookupResult. It never fails: every failure cause becomes NotFound.
func (c *Controller) Lookup(ctx context.Context, term domain.SearchTerm) domain.LookupResult {
	entries, err := c.provider.FetchEntries(ctx, term.String())
	if err != nil {
		var failure *domain.LookupFailure
		if !errors.As(err, &failure) {
			failure = domain.NewNetworkFailure(err)
		}
		return domain.NotFound(failure)
	}
	if len(entries) == 0 {
		return domain.NotFound(&domain.LookupFailure{Kind: domain.FailureNotFoundByService})
	}
	return domain.Found(entries)
}

// Submit validates raw and, when valid, performs a lookup and publishes the
// settled state. A validation error leaves the state untouched and issues no
// request. The lookup outlives cancellation of ctx.
func (c *Controller) Submit(ctx context.Context, raw string) (State, error) {
	term, err := c.Validate(raw)
	if err != nil {
		return c.State(), err
	}

	c.mu.Lock()
	if c.retired {
		c.mu.Unlock()
		return State{}, ErrClosed
	}
	c.issued++
	seq := c.issued
	c.inflight++
	c.lastUsed = time.Now()
	busy := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(busy)

	result := c.Lookup(context.WithoutCancel(ctx), term)

	c.mu.Lock()
	c.inflight--
	stale := seq < c.state.Seq
	if !stale {
		c.state = State{Result: result, Term: term.String(), Seq: seq}
	}
	c.lastUsed = time.Now()
	settled := c.snapshotLocked()
	c.mu.Unlock()

	c.log.DebugContext(ctx, "lookup settled",
		slog.String("term", term.String()),
		slog.String("result", result.Kind().String()),
		slog.Uint64("seq", seq),
		slog.Bool("stale", stale),
	)

	c.publish(settled)
	return settled, nil
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Busy reports whether a lookup is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Subscribe registers an observer that receives every published snapshot.
// Slow observers miss snapshots rather than block the controller. The
// returned cancel func unregisters and closes the channel.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, observerBuffer)

	c.obsMu.Lock()
	if c.closed {
		close(ch)
		c.obsMu.Unlock()
		return ch, func() {}
	}
	c.observers[ch] = struct{}{}
	c.obsMu.Unlock()

	return ch, func() { c.unsubscribe(ch) }
}

// Close unregisters and closes every observer. Later subscriptions receive
// an already-closed channel.
func (c *Controller) Close() {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for ch := range c.observers {
		delete(c.observers, ch)
		close(ch)
	}
}

func (c *Controller) unsubscribe(ch chan State) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	if _, ok := c.observers[ch]; ok {
		delete(c.observers, ch)
		close(ch)
	}
}

func (c *Controller) publish(s State) {
	c.obsMu.RLock()
	defer c.obsMu.RUnlock()
	for ch := range c.observers {
		select {
		case ch <- s:
		default:
			// Observer full, skip it.
		}
	}
}

// touch marks the controller as used now. It reports false once the
// controller has been retired by the registry.
func (c *Controller) touch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.retired {
		return false
	}
	c.lastUsed = time.Now()
	return true
}

// tryEvict retires the controller when it has been unused for longer than
// ttl, has no lookup in flight and no observers. A retired controller
// rejects new submissions and is never handed out again.
func (c *Controller) tryEvict(now time.Time, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.retired || c.inflight > 0 || now.Sub(c.lastUsed) <= ttl {
		return false
	}

	c.obsMu.RLock()
	observed := len(c.observers) > 0
	c.obsMu.RUnlock()
	if observed {
		return false
	}

	c.retired = true
	return true
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	s.Busy = c.inflight > 0
	return s
}
