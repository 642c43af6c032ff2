package client

import (
	"context"

	"github.com/rogerio-castellano/admin-console/internal/models"
	"golang.org/x/sync/errgroup"
)

// Products is the product resource plus its read-only category lookup.
type Products struct {
	*Resource[models.Product]
	categories *Resource[models.Category]
}

func NewProducts(c *Client) *Products {
	return &Products{
		Resource:   NewResource[models.Product](c, "products"),
		categories: NewResource[models.Category](c, "categories"),
	}
}

func (p *Products) Categories(ctx context.Context) ([]models.Category, error) {
	return p.categories.List(ctx)
}

// ListWithCategory fetches products and categories concurrently and fills
// CategoriaNombre. Only a products failure fails the call: when categories
// cannot be fetched every product shows the placeholder.
func (p *Products) ListWithCategory(ctx context.Context) ([]models.Product, error) {
	var (
		products   []models.Product
		categories []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = p.List(gctx)
		return err
	})
	g.Go(func() error {
		cats, err := p.Categories(gctx)
		if err != nil {
			p.categories.c.log.Warn().Err(err).Msg("category lookup failed, using placeholder names")
			return nil
		}
		categories = cats
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return JoinCategories(products, categories), nil
}

// JoinCategories returns a copy of products with CategoriaNombre resolved
// against categories.
func JoinCategories(products []models.Product, categories []models.Category) []models.Product {
	names := make(map[int]string, len(categories))
	for _, c := range categories {
		names[int(c.ID)] = c.Nombre
	}

	out := make([]models.Product, len(products))
	for i, prod := range products {
		name, ok := names[prod.CategoriaID]
		if !ok {
			name = models.CategoryPlaceholder
		}
		prod.CategoriaNombre = name
		out[i] = prod
	}
	return out
}
