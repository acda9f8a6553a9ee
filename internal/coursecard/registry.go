package coursecard

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/jonboulle/clockwork"
)

// StoreFactory builds the store for a new session.
type StoreFactory func(sessionID string) *Store

// Registry keeps one Store per session. Sessions idle for longer than the
// TTL are dropped, and when the registry is full the least recently used
// session makes room for a new one. Dropped stores are still covered by
// Wait until their in-flight fetches resolve.
type Registry struct {
	mu       sync.Mutex
	sessions *simplelru.LRU[string, *registryEntry]
	factory  StoreFactory
	ttl      time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger

	// retired counts evicted stores whose fetches may still be running.
	retired sync.WaitGroup
}

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

// NewRegistry creates a registry. maxSessions <= 0 means no size limit and
// ttl <= 0 means sessions never expire.
func NewRegistry(factory StoreFactory, maxSessions int, ttl time.Duration, clock clockwork.Clock, logger *slog.Logger) *Registry {
	if maxSessions <= 0 {
		maxSessions = math.MaxInt
	}
	r := &Registry{
		factory: factory,
		ttl:     ttl,
		clock:   clock,
		logger:  logger.With("component", "coursecard_registry"),
	}
	// NewLRU only fails for a non-positive size.
	r.sessions, _ = simplelru.NewLRU[string, *registryEntry](maxSessions, r.retire)
	return r
}

// Get returns the session's store, creating it on first use.
func (r *Registry) Get(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	r.expireLocked(now)
	if e, ok := r.sessions.Get(sessionID); ok {
		e.lastSeen = now
		return e.store
	}

	e := &registryEntry{store: r.factory(sessionID), lastSeen: now}
	if r.sessions.Add(sessionID, e) {
		r.logger.Info("evicted least recently used session", "session_count", r.sessions.Len())
	}
	r.logger.Debug("created course card store", "session_count", r.sessions.Len())
	return e.store
}

// Lookup returns the session's store without creating one.
func (r *Registry) Lookup(sessionID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions.Peek(sessionID)
	if !ok || r.expired(e, r.clock.Now()) {
		return nil, false
	}
	return e.store, true
}

// Len reports how many sessions are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Len()
}

// Wait blocks until every store's in-flight fetches have resolved,
// including stores already evicted.
func (r *Registry) Wait() {
	r.mu.Lock()
	entries := r.sessions.Values()
	r.mu.Unlock()

	for _, e := range entries {
		e.store.Wait()
	}
	r.retired.Wait()
}

func (r *Registry) expired(e *registryEntry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.lastSeen) > r.ttl
}

// expireLocked drops idle sessions. Recency order matches lastSeen order,
// so only the oldest entries need checking.
func (r *Registry) expireLocked(now time.Time) {
	for {
		_, e, ok := r.sessions.GetOldest()
		if !ok || !r.expired(e, now) {
			return
		}
		r.sessions.RemoveOldest()
	}
}

// retire is the eviction callback. It runs with r.mu held.
func (r *Registry) retire(_ string, e *registryEntry) {
	r.retired.Add(1)
	go func() {
		defer r.retired.Done()
		e.store.Wait()
	}()
	r.logger.Debug("retired course card store")
}
