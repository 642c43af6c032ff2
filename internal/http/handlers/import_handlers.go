package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/admin-console/internal/repo"
)

type ImportError struct {
	Row         int    `json:"row"`
	Description string `json:"description"`
}

type ImportRecordsResult struct {
	Imported int           `json:"imported"`
	Errors   []ImportError `json:"errors"`
}

// parseCSV reads a header row of field names followed by one record per row.
func parseCSV(r io.Reader) ([]repo.Record, error) {
	reader := csv.NewReader(r)
	headers, err := reader.Read()
	if err != nil {
		return nil, errors.New("invalid CSV header")
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	var rows []repo.Record
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		row := repo.Record{}
		for i, cell := range cells {
			if cell = strings.TrimSpace(cell); cell != "" && headers[i] != "" {
				row[headers[i]] = parseCell(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseCell types a CSV cell: integers, decimals and booleans become JSON
// numbers and booleans. Codes with leading zeros stay strings.
func parseCell(s string) any {
	if len(s) > 1 && s[0] == '0' && s[1] != '.' {
		return s
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}

// ImportRecordsHandler godoc
// @Summary Import records into a collection via CSV
// @Description With key set, rows whose key already exists are skipped (mode=skip) or merged (mode=update).
// @Tags records
// @Accept multipart/form-data
// @Produce json
// @Param collection path string true "collection name"
// @Param file formData file true "CSV file"
// @Param key query string false "field identifying duplicates"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportRecordsResult
// @Failure 400 {object} ErrorResponse
// @Router /{collection}/import [post]
func (s *RecordStore) ImportRecordsHandler(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	key := r.URL.Query().Get("key")
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	rows, err := parseCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := ImportRecordsResult{Errors: []ImportError{}}
	for i, rec := range rows {
		rowNum := i + 2 // header is row 1
		delete(rec, "id")
		if len(rec) == 0 {
			result.Errors = append(result.Errors, ImportError{Row: rowNum, Description: "empty row"})
			continue
		}

		if key != "" {
			value, ok := rec[key]
			if !ok {
				result.Errors = append(result.Errors, ImportError{Row: rowNum, Description: fmt.Sprintf("missing %s", key)})
				continue
			}
			existing, err := s.records.List(r.Context(), collection, map[string]string{key: fmt.Sprint(value)})
			if err != nil {
				s.fail(w, err)
				return
			}
			if len(existing) > 0 {
				if mode == "skip" {
					result.Errors = append(result.Errors, ImportError{Row: rowNum, Description: fmt.Sprintf("%s '%v' already exists", key, value)})
					continue
				}
				id, _ := strconv.Atoi(fmt.Sprint(existing[0]["id"]))
				if _, err := s.records.Merge(r.Context(), collection, id, rec); err != nil {
					result.Errors = append(result.Errors, ImportError{Row: rowNum, Description: err.Error()})
					continue
				}
				result.Imported++
				continue
			}
		}

		if _, err := s.records.Create(r.Context(), collection, rec); err != nil {
			if errors.Is(err, repo.ErrUnknownCollection) {
				s.fail(w, err)
				return
			}
			result.Errors = append(result.Errors, ImportError{Row: rowNum, Description: err.Error()})
			continue
		}
		result.Imported++
	}

	respond(w, http.StatusOK, result)
}
