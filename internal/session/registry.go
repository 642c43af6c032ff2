package session

import (
	"context"
	"sync"
	"time"
)

// StorageFactory returns the storage of one browser session.
type StorageFactory func(sid string) Storage

type entry struct {
	store    *Store
	lastSeen time.Time
}

// Registry hands out one Store per browser session id, opening it lazily.
// Idle stores are dropped by Cleanup; their persisted keys are kept, so a
// returning browser is rehydrated.
type Registry struct {
	opts       Options
	newStorage StorageFactory
	now        func() time.Time

	mu     sync.Mutex
	stores map[string]*entry
}

func NewRegistry(newStorage StorageFactory, opts Options) *Registry {
	return &Registry{
		opts:       opts,
		newStorage: newStorage,
		now:        time.Now,
		stores:     map[string]*entry{},
	}
}

// Get returns the store of sid, rehydrating it from storage on first use.
func (r *Registry) Get(ctx context.Context, sid string) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.stores[sid]; ok {
		e.lastSeen = r.now()
		return e.store, nil
	}

	s, err := Open(ctx, r.newStorage(sid), r.opts)
	if err != nil {
		return nil, err
	}
	r.stores[sid] = &entry{store: s, lastSeen: r.now()}
	return s, nil
}

// Forget drops the in-memory store of sid; persisted keys are kept.
func (r *Registry) Forget(sid string) {
	r.mu.Lock()
	delete(r.stores, sid)
	r.mu.Unlock()
}

// Cleanup drops stores unused for longer than maxIdle. Stores with a live
// subscriber are kept.
func (r *Registry) Cleanup(maxIdle time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for sid, e := range r.stores {
		if r.now().Sub(e.lastSeen) > maxIdle && !e.store.watched() {
			delete(r.stores, sid)
		}
	}
}

// Run cleans up every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Cleanup(maxIdle)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
