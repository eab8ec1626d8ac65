package resilience

import "sync"

// SingleFlight collapses concurrent calls that share a key into one
// execution; waiters receive the leader's result.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flight
}

type flight struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn once per key at a time. The third return reports whether
// the result came from another caller's execution.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*flight)
	}
	if f, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-f.done
		return f.val, f.err, true
	}

	f := &flight{done: make(chan struct{})}
	g.inflight[key] = f
	g.mu.Unlock()

	f.val, f.err = fn()

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()
	close(f.done)

	return f.val, f.err, false
}
