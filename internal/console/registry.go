package console

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type entry struct {
	workspace *Workspace
	lastSeen  time.Time
}

// Registry keeps one Workspace per browser session. Workspaces unused for
// longer than the idle limit are dropped by Cleanup.
type Registry struct {
	backend Backend
	log     zerolog.Logger
	now     func() time.Time

	mu         sync.Mutex
	workspaces map[string]*entry
}

func NewRegistry(b Backend, logger zerolog.Logger) *Registry {
	return &Registry{
		backend:    b,
		log:        logger,
		now:        time.Now,
		workspaces: map[string]*entry{},
	}
}

// Get returns the workspace of sid, creating it on first use.
func (r *Registry) Get(sid string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.workspaces[sid]
	if !ok {
		e = &entry{workspace: NewWorkspace(r.backend, r.log.With().Str("sid", sid).Logger())}
		r.workspaces[sid] = e
	}
	e.lastSeen = r.now()
	return e.workspace
}

// Forget drops the workspace of sid, discarding its views and dialogs.
func (r *Registry) Forget(sid string) {
	r.mu.Lock()
	delete(r.workspaces, sid)
	r.mu.Unlock()
}

// Cleanup drops workspaces unused for longer than maxIdle.
func (r *Registry) Cleanup(maxIdle time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for sid, e := range r.workspaces {
		if r.now().Sub(e.lastSeen) > maxIdle {
			delete(r.workspaces, sid)
			r.log.Debug().Str("sid", sid).Msg("idle workspace dropped")
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
	return len(r.workspaces)
}
