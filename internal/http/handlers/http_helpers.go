package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/admin-console/internal/form"
	"github.com/rogerio-castellano/admin-console/internal/models"
	"github.com/rs/zerolog/log"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// respond writes data and logs a failed write.
func respond(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		log.Error().Err(err).Msg("writing response")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	respond(w, status, ErrorResponse{Detail: detail})
}

func writeValidation(w http.ResponseWriter, fields form.FieldErrors) {
	respond(w, http.StatusBadRequest, ValidationErrorResponse{Detail: "validation failed", Fields: fields})
}

// readValues reads a form either as a JSON object or url-encoded.
func readValues(w http.ResponseWriter, r *http.Request) (form.Values, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		values := form.Values{}
		for k := range r.PostForm {
			values[k] = r.PostForm.Get(k)
		}
		return values, nil
	}

	values := form.Values{}
	if err := readJSON(w, r, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func pathID(r *http.Request, param string) (models.ID, error) {
	return models.ParseID(chi.URLParam(r, param))
}

// confirmed reads the confirmation flag of destructive actions.
func confirmed(r *http.Request) bool {
	v := r.URL.Query().Get("confirm")
	return v == "true" || v == "1"
}

// clientIP is the connection address, or the forwarded one when the router
// trusts a proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
