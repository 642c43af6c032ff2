// Package console holds the per-session screen state of the admin console:
// one list view per screen plus the dialog currently open on it.
package console

import (
	"context"
	"errors"
	"sync"

	"github.com/rogerio-castellano/admin-console/internal/form"
	"github.com/rogerio-castellano/admin-console/internal/listview"
	"github.com/rogerio-castellano/admin-console/internal/models"
	"github.com/rs/zerolog"
)

// ErrNoDialog is returned when a dialog action finds no open dialog.
var ErrNoDialog = errors.New("no dialog open")

// Screen is a list view with its modal add/edit dialog.
type Screen[T any] struct {
	Name string

	view     *listview.View[T]
	schema   form.Schema[T]
	get      func(ctx context.Context, id models.ID) (T, error)
	prepare  func(ctx context.Context, d *form.Dialog[T])
	notifier *listview.Notifier
	log      zerolog.Logger

	mu     sync.Mutex
	dialog *form.Dialog[T]
}

func (s *Screen[T]) View() *listview.View[T] {
	return s.view
}

// OpenDialog opens a create dialog, or an edit dialog for id after fetching
// the record. Any dialog already open is replaced.
func (s *Screen[T]) OpenDialog(ctx context.Context, id *models.ID) (*form.Dialog[T], error) {
	var d *form.Dialog[T]
	if id == nil {
		d = form.New(s.schema, s.notifier, s.log, 0, nil)
	} else {
		rec, err := s.get(ctx, *id)
		if err != nil {
			s.log.Error().Err(err).Str("id", id.String()).Msg("opening edit dialog")
			return nil, err
		}
		d = form.New(s.schema, s.notifier, s.log, *id, &rec)
	}

	if s.prepare != nil {
		s.prepare(ctx, d)
	}

	s.mu.Lock()
	s.dialog = d
	s.mu.Unlock()
	return d, nil
}

// Dialog returns the open dialog.
func (s *Screen[T]) Dialog() (*form.Dialog[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog == nil {
		return nil, ErrNoDialog
	}
	return s.dialog, nil
}

// SubmitDialog submits the open dialog. When it closes, the dialog slot is
// freed and the list reloads if the record changed.
func (s *Screen[T]) SubmitDialog(ctx context.Context, values form.Values) (form.Outcome, error) {
	d, err := s.Dialog()
	if err != nil {
		return form.Outcome{}, err
	}

	out, err := d.Submit(ctx, values)
	if out.Closed && !errors.Is(err, form.ErrClosed) {
		s.release(d)
		s.view.AfterDialogClose(ctx, out.Changed)
	}
	return out, err
}

// CancelDialog closes the open dialog without a request.
func (s *Screen[T]) CancelDialog(ctx context.Context) (form.Outcome, error) {
	d, err := s.Dialog()
	if err != nil {
		return form.Outcome{}, err
	}

	out, err := d.Cancel()
	if err == nil {
		s.release(d)
		s.view.AfterDialogClose(ctx, out.Changed)
	}
	return out, err
}

func (s *Screen[T]) release(d *form.Dialog[T]) {
	s.mu.Lock()
	if s.dialog == d {
		s.dialog = nil
	}
	s.mu.Unlock()
}
