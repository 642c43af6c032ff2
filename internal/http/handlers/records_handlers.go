package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/admin-console/internal/repo"
	"github.com/rs/zerolog"
)

// RecordStore serves the REST backend the console talks to: schemaless JSON
// collections with numeric ids.
type RecordStore struct {
	records repo.RecordRepository
	log     zerolog.Logger
}

func NewRecordStore(records repo.RecordRepository, logger zerolog.Logger) *RecordStore {
	return &RecordStore{records: records, log: logger}
}

func (s *RecordStore) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, repo.ErrUnknownCollection):
		writeError(w, http.StatusNotFound, "unknown collection")
	case errors.Is(err, repo.ErrInvalidRecordValue):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repo.ErrIDConflict):
		writeError(w, http.StatusConflict, "record id already taken")
	default:
		s.log.Error().Err(err).Msg("record store")
		writeError(w, http.StatusInternalServerError, "could not process record")
	}
}

func recordParams(r *http.Request) (string, int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return chi.URLParam(r, "collection"), id, err == nil
}

// ListRecordsHandler godoc
// @Summary List a collection
// @Description Every query parameter is an equality filter on a top-level field.
// @Tags records
// @Produce json
// @Param collection path string true "collection name"
// @Success 200 {array} map[string]any
// @Failure 404 {object} ErrorResponse
// @Router /{collection} [get]
func (s *RecordStore) ListRecordsHandler(w http.ResponseWriter, r *http.Request) {
	filter := map[string]string{}
	for k, v := range r.URL.Query() {
		if strings.HasPrefix(k, "_") || len(v) == 0 {
			continue
		}
		filter[k] = v[0]
	}

	recs, err := s.records.List(r.Context(), chi.URLParam(r, "collection"), filter)
	if err != nil {
		s.fail(w, err)
		return
	}
	respond(w, http.StatusOK, recs)
}

// GetRecordHandler godoc
// @Summary Get a record by id
// @Tags records
// @Produce json
// @Param collection path string true "collection name"
// @Param id path int true "record id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} ErrorResponse
// @Router /{collection}/{id} [get]
func (s *RecordStore) GetRecordHandler(w http.ResponseWriter, r *http.Request) {
	collection, id, ok := recordParams(r)
	if !ok {
		s.fail(w, repo.ErrRecordNotFound)
		return
	}

	rec, err := s.records.GetByID(r.Context(), collection, id)
	if err != nil {
		s.fail(w, err)
		return
	}
	respond(w, http.StatusOK, rec)
}

// CreateRecordHandler godoc
// @Summary Create a record with the next numeric id
// @Tags records
// @Accept json
// @Produce json
// @Param collection path string true "collection name"
// @Param record body map[string]any true "record"
// @Success 201 {object} map[string]any
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /{collection} [post]
func (s *RecordStore) CreateRecordHandler(w http.ResponseWriter, r *http.Request) {
	var rec repo.Record
	if err := readJSON(w, r, &rec); err != nil || rec == nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	created, err := s.records.Create(r.Context(), chi.URLParam(r, "collection"), rec)
	if err != nil {
		s.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

// ReplaceRecordHandler godoc
// @Summary Replace a record
// @Tags records
// @Accept json
// @Produce json
// @Param collection path string true "collection name"
// @Param id path int true "record id"
// @Param record body map[string]any true "record"
// @Success 200 {object} map[string]any
// @Failure 404 {object} ErrorResponse
// @Router /{collection}/{id} [put]
func (s *RecordStore) ReplaceRecordHandler(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, s.records.Replace)
}

// MergeRecordHandler godoc
// @Summary Merge fields into a record
// @Tags records
// @Accept json
// @Produce json
// @Param collection path string true "collection name"
// @Param id path int true "record id"
// @Param fields body map[string]any true "fields to overwrite"
// @Success 200 {object} map[string]any
// @Failure 404 {object} ErrorResponse
// @Router /{collection}/{id} [patch]
func (s *RecordStore) MergeRecordHandler(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, s.records.Merge)
}

type recordWriter func(ctx context.Context, collection string, id int, rec repo.Record) (repo.Record, error)

func (s *RecordStore) write(w http.ResponseWriter, r *http.Request, op recordWriter) {
	collection, id, ok := recordParams(r)
	if !ok {
		s.fail(w, repo.ErrRecordNotFound)
		return
	}

	var rec repo.Record
	if err := readJSON(w, r, &rec); err != nil || rec == nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	stored, err := op(r.Context(), collection, id, rec)
	if err != nil {
		s.fail(w, err)
		return
	}
	respond(w, http.StatusOK, stored)
}

// DeleteRecordHandler godoc
// @Summary Delete a record
// @Tags records
// @Produce json
// @Param collection path string true "collection name"
// @Param id path int true "record id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} ErrorResponse
// @Router /{collection}/{id} [delete]
func (s *RecordStore) DeleteRecordHandler(w http.ResponseWriter, r *http.Request) {
	collection, id, ok := recordParams(r)
	if !ok {
		s.fail(w, repo.ErrRecordNotFound)
		return
	}

	if err := s.records.Delete(r.Context(), collection, id); err != nil {
		s.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{})
}
