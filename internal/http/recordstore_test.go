package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/rogerio-castellano/admin-console/internal/http"
	"github.com/rogerio-castellano/admin-console/internal/http/handlers"
	"github.com/rogerio-castellano/admin-console/internal/logging"
	"github.com/rogerio-castellano/admin-console/internal/repo"
)

func newRecordStore(t *testing.T) (http.Handler, *repo.InMemoryRecordRepository) {
	t.Helper()
	records := repo.NewInMemoryRecordRepository()
	data, err := repo.ReadSeed("")
	if err != nil {
		t.Fatalf("reading seed: %v", err)
	}
	if err := repo.Seed(context.Background(), records, data); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	r := api.NewRecordStoreRouter(handlers.NewRecordStore(records, logging.Nop()), api.RouterOptions{Logger: logging.Nop()})
	return r, records
}

func serve(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&payload).Encode(body)
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeRecorder[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return out
}

func TestListRecordsHandler_Filters(t *testing.T) {
	r, _ := newRecordStore(t)

	tests := []struct {
		name   string
		path   string
		expect int
	}{
		{"All", "/usuarios", 3},
		{"Active", "/usuarios?activo=true", 2},
		{"Credentials", "/usuarios?username=admin&password=admin123&activo=true", 1},
		{"Wrong password", "/usuarios?username=admin&password=x", 0},
		{"Underscore params ignored", "/products?categoriaId=1&_sort=precio", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, tt.path, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if got := len(decodeRecorder[[]repo.Record](t, w)); got != tt.expect {
				t.Errorf("expected %d records, got %d", tt.expect, got)
			}
		})
	}
}

func TestListRecordsHandler_UnknownCollection(t *testing.T) {
	r, _ := newRecordStore(t)

	w := serve(r, http.MethodGet, "/movements", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRecordHandlers_CRUD(t *testing.T) {
	r, _ := newRecordStore(t)

	w := serve(r, http.MethodPost, "/categories", map[string]any{"nombre": "Redes"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	created := decodeRecorder[repo.Record](t, w)
	if created["id"] != float64(4) {
		t.Fatalf("expected next id 4, got %v", created["id"])
	}

	w = serve(r, http.MethodPatch, "/categories/4", map[string]any{"descripcion": "Routers"})
	merged := decodeRecorder[repo.Record](t, w)
	if merged["nombre"] != "Redes" || merged["descripcion"] != "Routers" {
		t.Errorf("expected merged record, got %v", merged)
	}

	w = serve(r, http.MethodPut, "/categories/4", map[string]any{"nombre": "Conectividad"})
	replaced := decodeRecorder[repo.Record](t, w)
	if _, ok := replaced["descripcion"]; ok || replaced["nombre"] != "Conectividad" {
		t.Errorf("expected replaced record, got %v", replaced)
	}

	if w = serve(r, http.MethodDelete, "/categories/4", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", w.Code)
	}
	if w = serve(r, http.MethodGet, "/categories/4", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestRecordHandlers_InvalidInput(t *testing.T) {
	r, _ := newRecordStore(t)

	req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", w.Code)
	}

	if w := serve(r, http.MethodPut, "/categories/abc", map[string]any{"nombre": "x"}); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for non-numeric id, got %d", w.Code)
	}
}

func importCSV(t *testing.T, r http.Handler, path, csv string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "records.csv")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	part.Write([]byte(csv))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportRecordsHandler(t *testing.T) {
	r, records := newRecordStore(t)

	csv := "codigo,nombre,categoriaId,precio,stock,activo\n" +
		"PER-001,Teclado actualizado,1,199.9,20,true\n" +
		"MON-009,Monitor curvo,2,1599,4,true\n" +
		",,,,,\n"

	w := importCSV(t, r, "/products/import?key=codigo", csv)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	result := decodeRecorder[handlers.ImportRecordsResult](t, w)
	if result.Imported != 1 {
		t.Errorf("expected 1 imported, got %d", result.Imported)
	}
	if len(result.Errors) != 2 || result.Errors[0].Row != 2 || result.Errors[1].Description != "empty row" {
		t.Errorf("unexpected errors %+v", result.Errors)
	}

	w = importCSV(t, r, "/products/import?key=codigo&mode=update", csv)
	result = decodeRecorder[handlers.ImportRecordsResult](t, w)
	if result.Imported != 2 {
		t.Errorf("expected 2 imported in update mode, got %d", result.Imported)
	}

	existing, _ := records.List(context.Background(), "products", map[string]string{"codigo": "PER-001"})
	if len(existing) != 1 || existing[0]["nombre"] != "Teclado actualizado" || existing[0]["stock"] != 20 {
		t.Errorf("expected PER-001 merged, got %v", existing)
	}
	added, _ := records.List(context.Background(), "products", map[string]string{"codigo": "MON-009"})
	if len(added) != 1 || added[0]["precio"] != 1599 {
		t.Errorf("expected MON-009 once, got %v", added)
	}
}

func TestImportRecordsHandler_MissingFile(t *testing.T) {
	r, _ := newRecordStore(t)

	w := serve(r, http.MethodPost, "/products/import", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestStatsHandler(t *testing.T) {
	r, _ := newRecordStore(t)

	w := serve(r, http.MethodGet, "/_stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	counts := decodeRecorder[map[string]int](t, w)
	want := map[string]int{"usuarios": 3, "products": 4, "categories": 3, "persons": 2, "distritos": 3}
	for c, n := range want {
		if counts[c] != n {
			t.Errorf("%s: expected %d, got %d", c, n, counts[c])
		}
	}
}

// takenIDs loses every race for the next id.
type takenIDs struct {
	repo.RecordRepository
}

func (takenIDs) Create(context.Context, string, repo.Record) (repo.Record, error) {
	return nil, repo.ErrIDConflict
}

func TestCreateRecordHandler_IDConflict(t *testing.T) {
	_, records := newRecordStore(t)
	r := api.NewRecordStoreRouter(handlers.NewRecordStore(takenIDs{records}, logging.Nop()), api.RouterOptions{Logger: logging.Nop()})

	w := serve(r, http.MethodPost, "/categories", map[string]any{"nombre": "Redes"})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}
