package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/admin-console/internal/logging"
	"github.com/rogerio-castellano/admin-console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{
		BaseURL: srv.URL,
		Logger:  logging.Nop(),
		Now:     func() time.Time { return time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestResource_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		w.Write([]byte(`[{"id":"1","codigo":"A1","nombre":"Mouse","categoriaId":2,"precio":10.5,"stock":3,"activo":true}]`))
	})

	products, err := NewProducts(c).List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, models.ID(1), products[0].ID)
	assert.Equal(t, 10.5, products[0].Precio)
}

func TestResource_ListNullBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	products, err := NewProducts(c).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestResource_StatusFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusNotFound)
	})

	_, err := NewProducts(c).GetByID(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestFailed))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/products/7", apiErr.Path)
}

func TestResource_TransportFailure(t *testing.T) {
	c, err := New(Options{BaseURL: "http://127.0.0.1:1", Logger: logging.Nop()})
	require.NoError(t, err)

	err = NewProducts(c).Delete(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestFailed))
}

func TestResource_VerbsAndPaths(t *testing.T) {
	var got []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write([]byte(`{"id":5}`))
	})
	res := NewProducts(c)
	ctx := context.Background()

	_, err := res.Create(ctx, models.Product{Nombre: "x"})
	require.NoError(t, err)
	_, err = res.Update(ctx, 5, models.Product{Nombre: "y"})
	require.NoError(t, err)
	_, err = res.Patch(ctx, 5, map[string]any{"activo": false})
	require.NoError(t, err)
	require.NoError(t, res.Delete(ctx, 5))

	assert.Equal(t, []string{"POST /products", "PUT /products/5", "PATCH /products/5", "DELETE /products/5"}, got)
}

func TestProducts_ListWithCategory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			w.Write([]byte(`[{"id":1,"categoriaId":1},{"id":2,"categoriaId":9}]`))
		case "/categories":
			w.Write([]byte(`[{"id":"1","nombre":"Periféricos"}]`))
		}
	})

	products, err := NewProducts(c).ListWithCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Periféricos", products[0].CategoriaNombre)
	assert.Equal(t, models.CategoryPlaceholder, products[1].CategoriaNombre)
}

func TestProducts_ListWithCategory_CategoryFailureFallsBack(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/categories" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"id":1,"categoriaId":1},{"id":2,"categoriaId":2}]`))
	})

	products, err := NewProducts(c).ListWithCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, "—", p.CategoriaNombre)
	}
}

func TestProducts_ListWithCategory_ProductFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/products" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	})

	_, err := NewProducts(c).ListWithCategory(context.Background())
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestUsers_CreateInjectsDefaults(t *testing.T) {
	var sent map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &sent))
		w.WriteHeader(http.StatusCreated)
		w.Write(body)
	})

	created, err := NewUsers(c).Create(context.Background(), models.User{Username: "maria", Password: "secret1", Correo: "m@x.pe"})
	require.NoError(t, err)

	assert.Equal(t, true, sent["activo"])
	assert.Equal(t, "2026-03-09", sent["fechaCreacion"])
	assert.True(t, created.IsActive())
}

func TestUsers_CreateKeepsExplicitInactive(t *testing.T) {
	var sent map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		w.Write([]byte(`{}`))
	})

	_, err := NewUsers(c).Create(context.Background(), models.User{Username: "pepe", Activo: models.Bool(false)})
	require.NoError(t, err)
	assert.Equal(t, false, sent["activo"])
}

func TestUsers_LoginQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/usuarios", r.URL.Path)
		assert.Equal(t, "admin", q.Get("username"))
		assert.Equal(t, "p&ss", q.Get("password"))
		assert.Equal(t, "true", q.Get("activo"))
		w.Write([]byte(`[{"id":1,"username":"admin"}]`))
	})

	users, err := NewUsers(c).Login(context.Background(), "admin", "p&ss")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUsers_PatchHelpers(t *testing.T) {
	var bodies []map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var m map[string]any
		json.NewDecoder(r.Body).Decode(&m)
		bodies = append(bodies, m)
		w.Write([]byte(`{"id":3}`))
	})
	users := NewUsers(c)

	_, err := users.ChangePassword(context.Background(), 3, "nueva123")
	require.NoError(t, err)
	_, err = users.SetActive(context.Background(), 3, false)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"password": "nueva123"}, bodies[0])
	assert.Equal(t, map[string]any{"activo": false}, bodies[1])
}

func TestUsers_EditWithoutPasswordMerges(t *testing.T) {
	var method string
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"id":4}`))
	})

	_, err := NewUsers(c).Edit(context.Background(), 4, models.User{Username: "maria", Correo: "m@x.pe", Activo: models.Bool(false)})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, method)
	assert.NotContains(t, body, "password")
	assert.Equal(t, false, body["activo"])
}

func TestUsers_EditWithPasswordReplaces(t *testing.T) {
	var method string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.Write([]byte(`{"id":4}`))
	})

	_, err := NewUsers(c).Edit(context.Background(), 4, models.User{Username: "maria", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
}

func TestPeople_ListWithLocation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/persons":
			w.Write([]byte(`[{"id":1,"nombre":"Ana","paisId":1,"departamentoId":2,"provinciaId":3,"distritoId":4}]`))
		case "/paises":
			w.Write([]byte(`[{"id":1,"nombre":"Perú"}]`))
		case "/departamentos":
			w.Write([]byte(`[{"id":2,"nombre":"Lima"}]`))
		case "/provincias":
			w.Write([]byte(`[{"id":3,"nombre":"Lima"}]`))
		case "/distritos":
			w.Write([]byte(`[{"id":4,"nombre":"Miraflores"}]`))
		}
	})

	people, err := NewPeople(c).ListWithLocation(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Perú", people[0].PaisNombre)
	assert.Equal(t, "Miraflores", people[0].DistritoNombre)
}

func TestPeople_ListWithLocation_LookupFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/distritos" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	})

	_, err := NewPeople(c).ListWithLocation(context.Background())
	assert.ErrorIs(t, err, ErrRequestFailed)
}
