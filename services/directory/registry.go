package directory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EngineIdleTTL is how long an unused engine is kept.
const EngineIdleTTL = 15 * time.Minute

type registryKey struct {
	sessionID string
	kind      Kind
}

type registryEntry struct {
	engine   *Engine
	lastUsed time.Time
}

// Registry holds one Engine per (web session, directory kind).
type Registry struct {
	svc     *Service
	idleTTL time.Duration
	now     func() time.Time

	mu      sync.Mutex
	engines map[registryKey]*registryEntry
}

func NewRegistry(svc *Service, idleTTL time.Duration) *Registry {
	if idleTTL <= 0 {
		idleTTL = EngineIdleTTL
	}
	return &Registry{
		svc:     svc,
		idleTTL: idleTTL,
		now:     time.Now,
		engines: make(map[registryKey]*registryEntry),
	}
}

// Engine returns the visitor's engine for kind, creating and loading it on
// first use.
func (r *Registry) Engine(sessionID string, kind Kind) *Engine {
	key := registryKey{sessionID: sessionID, kind: kind}

	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.engines[key]; ok {
		entry.lastUsed = r.now()
		return entry.engine
	}
	e := NewEngine(r.svc, kind)
	r.engines[key] = &registryEntry{engine: e, lastUsed: r.now()}
	e.Load()
	return e
}

// Drop closes every engine of a session.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, entry := range r.engines {
		if key.sessionID == sessionID {
			entry.engine.Close()
			delete(r.engines, key)
		}
	}
}

// Sweep closes engines idle for longer than the TTL and reports how many.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for key, entry := range r.engines {
		if entry.lastUsed.Before(cutoff) {
			entry.engine.Close()
			delete(r.engines, key)
			evicted++
		}
	}
	return evicted
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

// Run sweeps every interval until ctx ends, then closes all engines.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.svc.logger.Debug("Evicted idle directory engines", zap.Int("count", n))
			}
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, entry := range r.engines {
		entry.engine.Close()
		delete(r.engines, key)
	}
}
