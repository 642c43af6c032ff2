package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rogerio-castellano/admin-console/internal/models"
)

// Resource is the CRUD surface of one backend collection.
type Resource[T any] struct {
	c       *Client
	segment string
}

// NewResource binds a collection path segment (e.g. "products") to a client.
func NewResource[T any](c *Client, segment string) *Resource[T] {
	return &Resource[T]{c: c, segment: "/" + segment}
}

func (r *Resource[T]) itemPath(id models.ID) string {
	return r.segment + "/" + url.PathEscape(id.String())
}

// List fetches the whole collection. A null body yields an empty slice.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	return r.Query(ctx, nil)
}

// Query fetches the records matching every equality filter in params.
func (r *Resource[T]) Query(ctx context.Context, params url.Values) ([]T, error) {
	var out []T
	if err := r.c.do(ctx, http.MethodGet, r.segment, params, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r *Resource[T]) GetByID(ctx context.Context, id models.ID) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &out)
	return out, err
}

func (r *Resource[T]) Create(ctx context.Context, record T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, r.segment, nil, record, &out)
	return out, err
}

// Update replaces the record (PUT).
func (r *Resource[T]) Update(ctx context.Context, id models.ID, record T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPut, r.itemPath(id), nil, record, &out)
	return out, err
}

// Patch merges fields into the record (PATCH).
func (r *Resource[T]) Patch(ctx context.Context, id models.ID, fields map[string]any) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPatch, r.itemPath(id), nil, fields, &out)
	return out, err
}

func (r *Resource[T]) Delete(ctx context.Context, id models.ID) error {
	return r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}
