package form

import (
	"context"

	"github.com/rogerio-castellano/admin-console/internal/format"
	"github.com/rogerio-castellano/admin-console/internal/models"
)

// PersonSaver is the part of the people client a dialog submits through.
type PersonSaver interface {
	Create(ctx context.Context, p models.Person) (models.Person, error)
	Update(ctx context.Context, id models.ID, p models.Person) (models.Person, error)
}

type personDraft struct {
	Nombre         string   `json:"nombre" validate:"required,max=100"`
	Apellidos      string   `json:"apellidos" validate:"required,max=100"`
	DNI            string   `json:"dni" validate:"required,len=8,numeric"`
	Correo         string   `json:"correo" validate:"required,email"`
	Telefono       string   `json:"telefono" validate:"omitempty,len=9,numeric"`
	Direccion      string   `json:"direccion" validate:"max=200"`
	PaisID         *int     `json:"paisId" validate:"required"`
	DepartamentoID *int     `json:"departamentoId" validate:"required"`
	ProvinciaID    *int     `json:"provinciaId" validate:"required"`
	DistritoID     *int     `json:"distritoId" validate:"required"`
	Lat            *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng            *float64 `json:"lng" validate:"omitempty,min=-180,max=180"`
}

// PersonSchema is the add/edit person form. DNI and phone are reduced to
// their digits before validation.
func PersonSchema(saver PersonSaver) Schema[models.Person] {
	return Schema[models.Person]{
		Name: "persona",
		Fields: []Field{
			{Name: "nombre", Required: true},
			{Name: "apellidos", Required: true},
			{Name: "dni", Required: true},
			{Name: "correo", Required: true},
			{Name: "telefono"},
			{Name: "direccion"},
			{Name: "paisId", Required: true},
			{Name: "departamentoId", Required: true},
			{Name: "provinciaId", Required: true},
			{Name: "distritoId", Required: true},
			{Name: "lat"},
			{Name: "lng"},
		},
		Build: func(v Values, original *models.Person) (models.Person, FieldErrors) {
			errs := FieldErrors{}
			draft := personDraft{
				Nombre:         v.String("nombre"),
				Apellidos:      v.String("apellidos"),
				DNI:            format.DNI(v.String("dni")),
				Correo:         v.String("correo"),
				Telefono:       phoneDigits(v.String("telefono")),
				Direccion:      v.String("direccion"),
				PaisID:         v.Int("paisId", errs),
				DepartamentoID: v.Int("departamentoId", errs),
				ProvinciaID:    v.Int("provinciaId", errs),
				DistritoID:     v.Int("distritoId", errs),
				Lat:            v.Float("lat", errs),
				Lng:            v.Float("lng", errs),
			}
			check(draft, errs)
			// coordinates come as a pair or not at all
			if (draft.Lat == nil) != (draft.Lng == nil) {
				if draft.Lat == nil {
					errs.add("lat", msgRequired)
				} else {
					errs.add("lng", msgRequired)
				}
			}
			if len(errs) > 0 {
				return models.Person{}, errs
			}

			p := models.Person{
				Nombre:         draft.Nombre,
				Apellidos:      draft.Apellidos,
				DNI:            draft.DNI,
				Correo:         draft.Correo,
				Telefono:       draft.Telefono,
				Direccion:      draft.Direccion,
				PaisID:         *draft.PaisID,
				DepartamentoID: *draft.DepartamentoID,
				ProvinciaID:    *draft.ProvinciaID,
				DistritoID:     *draft.DistritoID,
			}
			if draft.Lat != nil && draft.Lng != nil {
				p.Coordenadas = &models.Coordinates{Lat: *draft.Lat, Lng: *draft.Lng}
			}
			if original != nil {
				p.ID = original.ID
			}
			return p, nil
		},
		Seed: func(p models.Person) Values {
			v := Values{
				"nombre":         p.Nombre,
				"apellidos":      p.Apellidos,
				"dni":            p.DNI,
				"correo":         p.Correo,
				"telefono":       p.Telefono,
				"direccion":      p.Direccion,
				"paisId":         p.PaisID,
				"departamentoId": p.DepartamentoID,
				"provinciaId":    p.ProvinciaID,
				"distritoId":     p.DistritoID,
			}
			if p.Coordenadas != nil {
				v["lat"] = p.Coordenadas.Lat
				v["lng"] = p.Coordenadas.Lng
			}
			return v
		},
		Create: saver.Create,
		Update: saver.Update,
		Messages: Messages{
			Created:      "Persona registrada correctamente",
			Updated:      "Persona actualizada correctamente",
			CreateFailed: "Error al guardar la persona",
			UpdateFailed: "Error al guardar la persona",
		},
	}
}

// LocationOptions adapts a location lister to LoadOptions.
func LocationOptions(list func(context.Context) ([]models.Location, error)) func(context.Context) ([]Option, error) {
	return func(ctx context.Context) ([]Option, error) {
		locs, err := list(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]Option, len(locs))
		for i, l := range locs {
			opts[i] = Option{Value: int(l.ID), Label: l.Nombre}
		}
		return opts, nil
	}
}

// phoneDigits keeps the raw text when it has no digits so that validation
// still rejects it.
func phoneDigits(raw string) string {
	if d := format.Digits(raw); d != "" {
		return d
	}
	return raw
}
