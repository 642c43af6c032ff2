package form

import (
	"context"
	"errors"
	"sync"

	"github.com/rogerio-castellano/admin-console/internal/listview"
	"github.com/rogerio-castellano/admin-console/internal/models"
	"github.com/rs/zerolog"
)

// State of a dialog.
type State string

const (
	Idle            State = "idle"
	Submitting      State = "submitting"
	ClosedSuccess   State = "closed-success"
	ClosedCancelled State = "closed-cancelled"
)

// Mode of a dialog.
type Mode string

const (
	Create Mode = "create"
	Edit   Mode = "edit"
)

var (
	ErrBusy   = errors.New("dialog is submitting")
	ErrClosed = errors.New("dialog is closed")
)

// Field describes one input of a form.
type Field struct {
	Name string `json:"name"`
	// Required holds in both modes; CreateOnly fields are required on create.
	Required   bool `json:"required"`
	CreateOnly bool `json:"-"`
}

// Option is an entry of a select field.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Messages shown when a submit settles.
type Messages struct {
	Created      string
	Updated      string
	CreateFailed string
	UpdateFailed string
}

// Schema binds a field set to the resource operations it submits through.
type Schema[T any] struct {
	Name   string
	Fields []Field
	// Build coerces and validates values. original is nil in create mode.
	Build func(values Values, original *T) (T, FieldErrors)
	// Seed renders a record as form values.
	Seed     func(T) Values
	Create   func(ctx context.Context, rec T) (T, error)
	Update   func(ctx context.Context, id models.ID, rec T) (T, error)
	Messages Messages
}

// Outcome reports how a dialog closed. Changed tells the owning list view
// to reload.
type Outcome struct {
	State   State `json:"state"`
	Closed  bool  `json:"closed"`
	Changed bool  `json:"changed"`
}

// FieldModel is the rendered state of a field.
type FieldModel struct {
	Field
	Disabled bool     `json:"disabled"`
	Options  []Option `json:"options,omitempty"`
}

// Model is what the browser renders for an open dialog.
type Model struct {
	Name   string       `json:"name"`
	Mode   Mode         `json:"mode"`
	ID     models.ID    `json:"id,omitempty"`
	State  State        `json:"state"`
	Values Values       `json:"values"`
	Fields []FieldModel `json:"fields"`
	Errors FieldErrors  `json:"errors,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Dialog is a modal add/edit form.
type Dialog[T any] struct {
	schema   Schema[T]
	notifier *listview.Notifier
	log      zerolog.Logger

	mode     Mode
	id       models.ID
	original *T

	mu       sync.Mutex
	state    State
	values   Values
	errs     FieldErrors
	lastErr  string
	disabled map[string]bool
	options  map[string][]Option
}

// New opens a create dialog when record is nil, an edit dialog otherwise.
func New[T any](schema Schema[T], notifier *listview.Notifier, logger zerolog.Logger, id models.ID, record *T) *Dialog[T] {
	if notifier == nil {
		notifier = listview.NewNotifier()
	}
	d := &Dialog[T]{
		schema:   schema,
		notifier: notifier,
		log:      logger.With().Str("dialog", schema.Name).Logger(),
		mode:     Create,
		state:    Idle,
		values:   Values{},
		disabled: map[string]bool{},
		options:  map[string][]Option{},
	}
	if record != nil {
		rec := *record
		d.mode = Edit
		d.id = id
		d.original = &rec
		if schema.Seed != nil {
			d.values = schema.Seed(rec)
		}
	}
	return d
}

func (d *Dialog[T]) Mode() Mode {
	return d.mode
}

func (d *Dialog[T]) ID() models.ID {
	return d.id
}

func (d *Dialog[T]) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Dialog[T]) closed() bool {
	return d.state == ClosedSuccess || d.state == ClosedCancelled
}

// Disabled reports whether field is currently disabled.
func (d *Dialog[T]) Disabled(field string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disabled[field]
}

// LoadOptions fills a select field. The field is disabled while load runs
// and enabled again whatever the result.
func (d *Dialog[T]) LoadOptions(ctx context.Context, field string, load func(context.Context) ([]Option, error)) error {
	d.mu.Lock()
	d.disabled[field] = true
	d.mu.Unlock()

	opts, err := load(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.disabled[field] = false
	if err != nil {
		d.log.Error().Err(err).Str("field", field).Msg("loading options")
		return err
	}
	d.options[field] = opts
	return nil
}

// Submit validates values and sends them. Validation failures keep the
// dialog idle without a request. A failed request keeps it open with an
// error notification; success closes it with Changed set.
func (d *Dialog[T]) Submit(ctx context.Context, values Values) (Outcome, error) {
	d.mu.Lock()
	if d.state == Submitting {
		d.mu.Unlock()
		return Outcome{State: Submitting}, ErrBusy
	}
	if d.closed() {
		state := d.state
		d.mu.Unlock()
		return Outcome{State: state, Closed: true}, ErrClosed
	}

	d.values = values
	rec, errs := d.schema.Build(values, d.original)
	if len(errs) > 0 {
		d.errs = errs
		d.mu.Unlock()
		return Outcome{State: Idle}, errs
	}
	d.errs = nil
	d.lastErr = ""
	d.state = Submitting
	d.mu.Unlock()

	var err error
	if d.mode == Edit {
		_, err = d.schema.Update(ctx, d.id, rec)
	} else {
		_, err = d.schema.Create(ctx, rec)
	}

	success, failure := d.schema.Messages.Created, d.schema.Messages.CreateFailed
	if d.mode == Edit {
		success, failure = d.schema.Messages.Updated, d.schema.Messages.UpdateFailed
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.state = Idle
		d.lastErr = failure
		d.log.Error().Err(err).Str("mode", string(d.mode)).Msg("saving record")
		d.notifier.Error(failure)
		return Outcome{State: Idle}, err
	}

	d.state = ClosedSuccess
	d.notifier.Success(success)
	return Outcome{State: ClosedSuccess, Closed: true, Changed: true}, nil
}

// Cancel closes the dialog without a request.
func (d *Dialog[T]) Cancel() (Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Submitting {
		return Outcome{State: Submitting}, ErrBusy
	}
	if d.closed() {
		return Outcome{State: d.state, Closed: true}, ErrClosed
	}
	d.state = ClosedCancelled
	return Outcome{State: ClosedCancelled, Closed: true}, nil
}

// Model renders the dialog.
func (d *Dialog[T]) Model() Model {
	d.mu.Lock()
	defer d.mu.Unlock()

	fields := make([]FieldModel, len(d.schema.Fields))
	for i, f := range d.schema.Fields {
		f.Required = f.Required || (f.CreateOnly && d.mode == Create)
		fields[i] = FieldModel{
			Field:    f,
			Disabled: d.disabled[f.Name],
			Options:  d.options[f.Name],
		}
	}

	values := make(Values, len(d.values))
	for k, v := range d.values {
		values[k] = v
	}
	return Model{
		Name:   d.schema.Name,
		Mode:   d.mode,
		ID:     d.id,
		State:  d.state,
		Values: values,
		Fields: fields,
		Errors: d.errs,
		Error:  d.lastErr,
	}
}
