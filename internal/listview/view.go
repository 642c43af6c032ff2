package listview

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/admin-console/internal/models"
	"github.com/rs/zerolog"
)

// Loader fetches the working collection of a screen.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Messages shown by a screen. An empty message is not shown.
type Messages struct {
	LoadError     string
	DeleteSuccess string
	DeleteError   string
}

// Config wires a View to its data source.
type Config[T any] struct {
	Name    string
	Columns []Column[T]
	Load    Loader[T]
	// Fallback is tried when Load fails, before reporting the failure.
	Fallback Loader[T]
	Delete   func(ctx context.Context, id models.ID) error
	Messages Messages
	Notifier *Notifier
	Logger   zerolog.Logger
}

// View is the controller of one list screen. Loads are never cancelled: when
// two overlap, the response that arrives last wins.
type View[T any] struct {
	cfg   Config[T]
	table *Table[T]
	log   zerolog.Logger

	mu      sync.Mutex
	loading bool
	loaded  bool
}

func NewView[T any](cfg Config[T]) *View[T] {
	if cfg.Notifier == nil {
		cfg.Notifier = NewNotifier()
	}
	return &View[T]{
		cfg:   cfg,
		table: NewTable(cfg.Columns...),
		log:   cfg.Logger.With().Str("view", cfg.Name).Logger(),
	}
}

func (v *View[T]) Table() *Table[T] {
	return v.table
}

func (v *View[T]) Notifier() *Notifier {
	return v.cfg.Notifier
}

func (v *View[T]) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Loaded reports whether a load has completed, successfully or not.
func (v *View[T]) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

func (v *View[T]) setLoading(b bool) {
	v.mu.Lock()
	v.loading = b
	if !b {
		v.loaded = true
	}
	v.mu.Unlock()
}

// Load refreshes the working collection. On failure the previous data stays
// in place, the error is logged and an error notification is queued.
func (v *View[T]) Load(ctx context.Context) error {
	v.setLoading(true)
	defer v.setLoading(false)

	rows, err := v.cfg.Load(ctx)
	if err != nil && v.cfg.Fallback != nil {
		v.log.Warn().Err(err).Msg("primary load failed, using fallback")
		rows, err = v.cfg.Fallback(ctx)
	}
	if err != nil {
		v.log.Error().Err(err).Msg("loading collection")
		if v.cfg.Messages.LoadError != "" {
			v.cfg.Notifier.Error(v.cfg.Messages.LoadError)
		}
		return err
	}

	v.table.SetData(rows)
	return nil
}

// AfterDialogClose reloads only when the dialog reported a change.
func (v *View[T]) AfterDialogClose(ctx context.Context, changed bool) {
	if changed {
		_ = v.Load(ctx)
	}
}

// Delete removes a record once the user confirmed. The row only disappears
// after the backend call succeeded and the collection was reloaded; a failed
// delete leaves the table untouched.
func (v *View[T]) Delete(ctx context.Context, id models.ID, confirmed bool) error {
	return v.Mutate(ctx, confirmed, func(ctx context.Context) error {
		return v.cfg.Delete(ctx, id)
	}, v.cfg.Messages.DeleteSuccess, v.cfg.Messages.DeleteError)
}

// Mutate runs a confirmed change, then reloads and notifies. Nothing happens
// without confirmation.
func (v *View[T]) Mutate(ctx context.Context, confirmed bool, change func(context.Context) error, success, failure string) error {
	if !confirmed {
		return nil
	}

	if err := change(ctx); err != nil {
		v.log.Error().Err(err).Msg("mutating record")
		if failure != "" {
			v.cfg.Notifier.Error(failure)
		}
		return err
	}

	_ = v.Load(ctx)
	if success != "" {
		v.cfg.Notifier.Success(success)
	}
	return nil
}
