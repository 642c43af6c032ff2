package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/admin-console/internal/client"
	"github.com/rogerio-castellano/admin-console/internal/console"
	"github.com/rogerio-castellano/admin-console/internal/form"
	"github.com/rogerio-castellano/admin-console/internal/listview"
	"github.com/rogerio-castellano/admin-console/internal/models"
)

// screenAPI is the endpoint set shared by the list screens.
type screenAPI interface {
	navigate(w http.ResponseWriter, r *http.Request, ws *console.Workspace)
	page(w http.ResponseWriter, r *http.Request, ws *console.Workspace)
	reload(w http.ResponseWriter, r *http.Request, ws *console.Workspace)
	openForm(w http.ResponseWriter, r *http.Request, ws *console.Workspace)
	submitForm(w http.ResponseWriter, r *http.Request, ws *console.Workspace)
	save(w http.ResponseWriter, r *http.Request, ws *console.Workspace, id *models.ID)
	cancelForm(w http.ResponseWriter, r *http.Request, ws *console.Workspace)
	remove(w http.ResponseWriter, r *http.Request, ws *console.Workspace, id models.ID)
}

type screenHandler[T any] struct {
	name string
	pick func(*console.Workspace) *console.Screen[T]
}

func (h screenHandler[T]) respondScreen(w http.ResponseWriter, status int, ws *console.Workspace) {
	view := h.pick(ws).View()
	respond(w, status, ScreenResponse{
		Screen:        h.name,
		Page:          view.Table().View(),
		Loading:       view.Loading(),
		Notifications: ws.Notifier.Drain(),
	})
}

func (h screenHandler[T]) navigate(w http.ResponseWriter, r *http.Request, ws *console.Workspace) {
	_ = h.pick(ws).View().Load(r.Context())
	h.respondScreen(w, http.StatusOK, ws)
}

func (h screenHandler[T]) page(w http.ResponseWriter, r *http.Request, ws *console.Workspace) {
	view := h.pick(ws).View()
	if !view.Loaded() {
		_ = view.Load(r.Context())
	}

	if err := applyQuery(view.Table(), r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondScreen(w, http.StatusOK, ws)
}

func (h screenHandler[T]) reload(w http.ResponseWriter, r *http.Request, ws *console.Workspace) {
	status := http.StatusOK
	if err := h.pick(ws).View().Load(r.Context()); err != nil {
		status = backendStatus(err)
	}
	h.respondScreen(w, status, ws)
}

func (h screenHandler[T]) openForm(w http.ResponseWriter, r *http.Request, ws *console.Workspace) {
	var id *models.ID
	if raw := r.URL.Query().Get("id"); raw != "" {
		parsed, err := models.ParseID(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		id = &parsed
	}

	d, err := h.pick(ws).OpenDialog(r.Context(), id)
	if err != nil {
		writeError(w, backendStatus(err), "could not load record")
		return
	}
	model := d.Model()
	respond(w, http.StatusOK, DialogResponse{
		Outcome:       form.Outcome{State: model.State},
		Dialog:        &model,
		Notifications: ws.Notifier.Drain(),
	})
}

func (h screenHandler[T]) submitForm(w http.ResponseWriter, r *http.Request, ws *console.Workspace) {
	values, err := readValues(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	h.submit(w, r, ws, values)
}

// save submits the open dialog when it matches id, opening one otherwise.
// A nil id means a create.
func (h screenHandler[T]) save(w http.ResponseWriter, r *http.Request, ws *console.Workspace, id *models.ID) {
	values, err := readValues(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	screen := h.pick(ws)
	d, err := screen.Dialog()
	matches := err == nil &&
		((id == nil && d.Mode() == form.Create) || (id != nil && d.Mode() == form.Edit && d.ID() == *id))
	if !matches {
		if _, err := screen.OpenDialog(r.Context(), id); err != nil {
			writeError(w, backendStatus(err), "could not load record")
			return
		}
	}
	h.submit(w, r, ws, values)
}

func (h screenHandler[T]) submit(w http.ResponseWriter, r *http.Request, ws *console.Workspace, values form.Values) {
	screen := h.pick(ws)
	out, err := screen.SubmitDialog(r.Context(), values)

	var fields form.FieldErrors
	switch {
	case err == nil:
		respond(w, http.StatusOK, DialogResponse{Outcome: out, Notifications: ws.Notifier.Drain()})
	case errors.As(err, &fields):
		writeValidation(w, fields)
	case errors.Is(err, console.ErrNoDialog), errors.Is(err, form.ErrBusy), errors.Is(err, form.ErrClosed):
		writeError(w, http.StatusConflict, err.Error())
	default:
		resp := DialogResponse{Outcome: out, Notifications: ws.Notifier.Drain()}
		if d, derr := screen.Dialog(); derr == nil {
			model := d.Model()
			resp.Dialog = &model
			resp.Detail = model.Error
		}
		respond(w, backendStatus(err), resp)
	}
}

func (h screenHandler[T]) cancelForm(w http.ResponseWriter, r *http.Request, ws *console.Workspace) {
	out, err := h.pick(ws).CancelDialog(r.Context())
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	respond(w, http.StatusOK, DialogResponse{Outcome: out, Notifications: ws.Notifier.Drain()})
}

func (h screenHandler[T]) remove(w http.ResponseWriter, r *http.Request, ws *console.Workspace, id models.ID) {
	if !confirmed(r) {
		writeError(w, http.StatusPreconditionRequired, "confirmation required")
		return
	}

	status := http.StatusOK
	if err := h.pick(ws).View().Delete(r.Context(), id, true); err != nil {
		status = backendStatus(err)
	}
	h.respondScreen(w, status, ws)
}

// applyQuery reads filter, sort, dir, page and size into the table.
func applyQuery[T any](t *listview.Table[T], r *http.Request) error {
	q := r.URL.Query()
	if q.Has("filter") {
		t.SetFilter(q.Get("filter"))
	}
	if q.Has("sort") {
		if err := t.SetSort(q.Get("sort"), listview.Direction(q.Get("dir"))); err != nil {
			return err
		}
	}
	if q.Has("page") || q.Has("size") {
		current := t.View()
		index, size := current.PageIndex, 0
		if raw := q.Get("page"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return listview.ErrInvalidPage
			}
			index = n
		}
		if raw := q.Get("size"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return listview.ErrInvalidPageSize
			}
			size = n
		}
		if err := t.SetPage(index, size); err != nil {
			return err
		}
	}
	return nil
}

// backendStatus maps a resource client failure to the status the console
// answers with.
func backendStatus(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (s *Server) screen(w http.ResponseWriter, r *http.Request) (screenAPI, bool) {
	h, ok := s.screens[chi.URLParam(r, "screen")]
	if !ok {
		s.NotFoundHandler(w, r)
	}
	return h, ok
}

// ScreenPageHandler godoc
// @Summary Navigate to a list screen: reload its collection and show the page
// @Tags screens
// @Produce json
// @Param screen path string true "personas, productos or usuarios"
// @Success 200 {object} ScreenResponse
// @Router /{screen} [get]
func (s *Server) ScreenPageHandler(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.screen(w, r); ok {
		h.navigate(w, r, workspace(r))
	}
}

// ListHandler godoc
// @Summary Current page of a list screen
// @Description filter matches any visible column, case-insensitively. Changing it goes back to the first page.
// @Tags screens
// @Produce json
// @Param screen path string true "personas, productos or usuarios"
// @Param filter query string false "free text filter"
// @Param sort query string false "column key"
// @Param dir query string false "asc or desc"
// @Param page query int false "page index, from 0"
// @Param size query int false "5, 10, 25 or 100"
// @Success 200 {object} ScreenResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/{screen} [get]
func (s *Server) ListHandler(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.screen(w, r); ok {
		h.page(w, r, workspace(r))
	}
}

// ReloadHandler godoc
// @Summary Refetch the collection of a list screen
// @Description On failure the previous rows stay and an error notification is queued.
// @Tags screens
// @Produce json
// @Param screen path string true "personas, productos or usuarios"
// @Success 200 {object} ScreenResponse
// @Failure 502 {object} ScreenResponse
// @Router /api/{screen}/reload [post]
func (s *Server) ReloadHandler(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.screen(w, r); ok {
		h.reload(w, r, workspace(r))
	}
}

// OpenFormHandler godoc
// @Summary Open the add dialog, or the edit dialog when id is given
// @Tags screens
// @Produce json
// @Param screen path string true "personas, productos or usuarios"
// @Param id query int false "record to edit"
// @Success 200 {object} DialogResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/{screen}/form [get]
func (s *Server) OpenFormHandler(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.screen(w, r); ok {
		h.openForm(w, r, workspace(r))
	}
}

// SubmitFormHandler godoc
// @Summary Submit the open dialog
// @Tags screens
// @Accept json
// @Produce json
// @Param screen path string true "personas, productos or usuarios"
// @Param values body map[string]any true "form values"
// @Success 200 {object} DialogResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} DialogResponse
// @Router /api/{screen}/form [post]
func (s *Server) SubmitFormHandler(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.screen(w, r); ok {
		h.submitForm(w, r, workspace(r))
	}
}

// CancelFormHandler godoc
// @Summary Close the open dialog without saving
// @Tags screens
// @Produce json
// @Param screen path string true "personas, productos or usuarios"
// @Success 200 {object} DialogResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/{screen}/form [delete]
func (s *Server) CancelFormHandler(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.screen(w, r); ok {
		h.cancelForm(w, r, workspace(r))
	}
}

// CreateHandler godoc
// @Summary Create a record through the add dialog
// @Tags screens
// @Accept json
// @Produce json
// @Param screen path string true "personas, productos or usuarios"
// @Param values body map[string]any true "form values"
// @Success 200 {object} DialogResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 502 {object} DialogResponse
// @Router /api/{screen} [post]
func (s *Server) CreateHandler(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.screen(w, r); ok {
		h.save(w, r, workspace(r), nil)
	}
}

// UpdateHandler godoc
// @Summary Update a record through the edit dialog
// @Tags screens
// @Accept json
// @Produce json
// @Param screen path string true "personas, productos or usuarios"
// @Param id path int true "record id"
// @Param values body map[string]any true "form values"
// @Success 200 {object} DialogResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} DialogResponse
// @Router /api/{screen}/{id} [put]
func (s *Server) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	h, ok := s.screen(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.save(w, r, workspace(r), &id)
}

// DeleteHandler godoc
// @Summary Delete a record once confirmed
// @Description Without confirm=true nothing is sent to the backend.
// @Tags screens
// @Produce json
// @Param screen path string true "personas, productos or usuarios"
// @Param id path int true "record id"
// @Param confirm query bool true "user confirmed the deletion"
// @Success 200 {object} ScreenResponse
// @Failure 428 {object} ErrorResponse
// @Failure 502 {object} ScreenResponse
// @Router /api/{screen}/{id} [delete]
func (s *Server) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	h, ok := s.screen(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.remove(w, r, workspace(r), id)
}

// ToggleUserHandler godoc
// @Summary Activate or deactivate a user once confirmed
// @Tags screens
// @Produce json
// @Param id path int true "user id"
// @Param confirm query bool true "user confirmed the change"
// @Success 200 {object} ScreenResponse
// @Failure 428 {object} ErrorResponse
// @Failure 502 {object} ScreenResponse
// @Router /api/usuarios/{id}/toggle [post]
func (s *Server) ToggleUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if !confirmed(r) {
		writeError(w, http.StatusPreconditionRequired, "confirmation required")
		return
	}

	ws := workspace(r)
	status := http.StatusOK
	if err := ws.ToggleUser(r.Context(), id, true); err != nil {
		status = backendStatus(err)
	}
	s.screens["usuarios"].(screenHandler[models.User]).respondScreen(w, status, ws)
}

// LocateHandler godoc
// @Summary Coordinates of a person for the map dialog
// @Tags screens
// @Produce json
// @Param id path int true "person id"
// @Success 200 {object} LocationResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/personas/{id}/mapa [get]
func (s *Server) LocateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := workspace(r).Locate(r.Context(), id)
	switch {
	case errors.Is(err, console.ErrNoCoordinates):
		writeError(w, http.StatusNotFound, console.MsgNoCoordinates)
	case err != nil:
		writeError(w, backendStatus(err), "could not load person")
	default:
		respond(w, http.StatusOK, LocationResponse{ID: p.ID, Nombre: p.FullName(), Coordenadas: p.Coordenadas})
	}
}
