// ABOUTME: TTL guard against re-delivered Telegram callback queries
// ABOUTME: A replayed button click must not restart or advance a provisioning flow twice

package dedupe

import (
	"sync"
	"time"
)

// Guard remembers recently handled callback IDs for a bounded window.
// Telegram re-delivers callback queries that are not acknowledged fast
// enough; without the guard a re-delivered "tambahuser" would silently
// restart an operator's flow mid-way.
type Guard struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	ttl    time.Duration
	max    int
	done   chan struct{}
	closed bool
}

// New creates a guard that forgets callback IDs after ttl and never
// tracks more than max at once. A background goroutine sweeps expired
// entries once a minute.
func New(ttl time.Duration, max int) *Guard {
	g := &Guard{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		max:  max,
		done: make(chan struct{}),
	}
	go g.sweepLoop()
	return g
}

// Seen atomically checks whether the callback ID was already handled and
// marks it if not. Returns true for a duplicate delivery.
func (g *Guard) Seen(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if ts, ok := g.seen[id]; ok && time.Since(ts) < g.ttl {
		return true
	}

	if len(g.seen) >= g.max {
		g.evictOldestLocked()
	}
	g.seen[id] = time.Now()
	return false
}

// evictOldestLocked drops the entry with the oldest timestamp. Must be
// called with mu held. The map stays small enough that a linear scan is
// fine for a handful of operators.
func (g *Guard) evictOldestLocked() {
	var oldestID string
	var oldestTS time.Time
	for id, ts := range g.seen {
		if oldestID == "" || ts.Before(oldestTS) {
			oldestID = id
			oldestTS = ts
		}
	}
	if oldestID != "" {
		delete(g.seen, oldestID)
	}
}

// sweepLoop periodically removes expired entries.
func (g *Guard) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.sweep()
		case <-g.done:
			return
		}
	}
}

// sweep removes all expired entries.
func (g *Guard) sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for id, ts := range g.seen {
		if now.Sub(ts) > g.ttl {
			delete(g.seen, id)
		}
	}
}

// Close stops the background sweeper. Safe to call multiple times.
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.closed {
		close(g.done)
		g.closed = true
	}
}
