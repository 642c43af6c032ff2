package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/admin-console/internal/repo"
)

// StatsHandler godoc
// @Summary Record count per collection
// @Tags records
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 500 {object} ErrorResponse
// @Router /_stats [get]
func (s *RecordStore) StatsHandler(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int, len(repo.Collections))
	for _, c := range repo.Collections {
		recs, err := s.records.List(r.Context(), c, nil)
		if err != nil {
			s.fail(w, err)
			return
		}
		counts[c] = len(recs)
	}
	respond(w, http.StatusOK, counts)
}
