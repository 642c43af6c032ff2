package form

import (
	"context"
	"time"

	"github.com/rogerio-castellano/admin-console/internal/models"
)

// ProductSaver is the part of the product client a dialog submits through.
type ProductSaver interface {
	Create(ctx context.Context, p models.Product) (models.Product, error)
	Update(ctx context.Context, id models.ID, p models.Product) (models.Product, error)
}

type productDraft struct {
	Codigo      string   `json:"codigo" validate:"required,max=30"`
	Nombre      string   `json:"nombre" validate:"required,max=120"`
	Descripcion string   `json:"descripcion" validate:"max=500"`
	CategoriaID *int     `json:"categoriaId" validate:"required"`
	Precio      *float64 `json:"precio" validate:"required,min=0"`
	Stock       *int     `json:"stock" validate:"required,min=0"`
	Activo      *bool    `json:"activo"`
}

// ProductSchema is the add/edit product form. now stamps the record dates.
func ProductSchema(saver ProductSaver, now func() time.Time) Schema[models.Product] {
	if now == nil {
		now = time.Now
	}
	return Schema[models.Product]{
		Name: "producto",
		Fields: []Field{
			{Name: "codigo", Required: true},
			{Name: "nombre", Required: true},
			{Name: "descripcion"},
			{Name: "categoriaId", Required: true},
			{Name: "precio", Required: true},
			{Name: "stock", Required: true},
			{Name: "activo"},
		},
		Build: func(v Values, original *models.Product) (models.Product, FieldErrors) {
			errs := FieldErrors{}
			draft := productDraft{
				Codigo:      v.String("codigo"),
				Nombre:      v.String("nombre"),
				Descripcion: v.String("descripcion"),
				CategoriaID: v.Int("categoriaId", errs),
				Precio:      v.Float("precio", errs),
				Stock:       v.Int("stock", errs),
				Activo:      v.Bool("activo", true, errs),
			}
			check(draft, errs)
			if len(errs) > 0 {
				return models.Product{}, errs
			}

			today := now().UTC().Format(time.DateOnly)
			p := models.Product{
				Codigo:        draft.Codigo,
				Nombre:        draft.Nombre,
				Descripcion:   draft.Descripcion,
				CategoriaID:   *draft.CategoriaID,
				Precio:        *draft.Precio,
				Stock:         *draft.Stock,
				Activo:        *draft.Activo,
				FechaCreacion: today,
			}
			if original != nil {
				p.ID = original.ID
				p.FechaCreacion = original.FechaCreacion
				p.FechaActualizacion = today
			}
			return p, nil
		},
		Seed: func(p models.Product) Values {
			return Values{
				"codigo":      p.Codigo,
				"nombre":      p.Nombre,
				"descripcion": p.Descripcion,
				"categoriaId": p.CategoriaID,
				"precio":      p.Precio,
				"stock":       p.Stock,
				"activo":      p.Activo,
			}
		},
		Create: saver.Create,
		Update: saver.Update,
		Messages: Messages{
			Created:      "Producto guardado correctamente",
			Updated:      "Producto guardado correctamente",
			CreateFailed: "Error al guardar el producto",
			UpdateFailed: "Error al guardar el producto",
		},
	}
}

// CategoryOptions adapts a category lister to LoadOptions.
func CategoryOptions(list func(context.Context) ([]models.Category, error)) func(context.Context) ([]Option, error) {
	return func(ctx context.Context) ([]Option, error) {
		cats, err := list(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]Option, len(cats))
		for i, c := range cats {
			opts[i] = Option{Value: int(c.ID), Label: c.Nombre}
		}
		return opts, nil
	}
}
