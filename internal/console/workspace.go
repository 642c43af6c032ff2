package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rogerio-castellano/admin-console/internal/client"
	"github.com/rogerio-castellano/admin-console/internal/form"
	"github.com/rogerio-castellano/admin-console/internal/format"
	"github.com/rogerio-castellano/admin-console/internal/listview"
	"github.com/rogerio-castellano/admin-console/internal/models"
	"github.com/rs/zerolog"
)

// MsgNoCoordinates is notified when a person without coordinates is mapped.
const MsgNoCoordinates = "No hay coordenadas disponibles para esta persona"

var ErrNoCoordinates = errors.New("person has no coordinates")

// Backend bundles the resource clients every workspace talks through.
type Backend struct {
	People   *client.People
	Products *client.Products
	Users    *client.Users
	// Now stamps product dates. Defaults to time.Now.
	Now func() time.Time
}

// Workspace is the screen state of one browser session. All screens share
// one notifier.
type Workspace struct {
	Notifier *listview.Notifier
	People   *Screen[models.Person]
	Products *Screen[models.Product]
	Users    *Screen[models.User]

	backend Backend
	log     zerolog.Logger
}

func NewWorkspace(b Backend, logger zerolog.Logger) *Workspace {
	notifier := listview.NewNotifier()
	w := &Workspace{
		Notifier: notifier,
		backend:  b,
		log:      logger,
	}

	w.People = &Screen[models.Person]{
		Name: "personas",
		view: listview.NewView(listview.Config[models.Person]{
			Name:     "personas",
			Columns:  personColumns(),
			Load:     b.People.ListWithLocation,
			Fallback: b.People.List,
			Delete:   b.People.Delete,
			Messages: listview.Messages{
				LoadError:     "Error al cargar las personas",
				DeleteSuccess: "Persona eliminada correctamente",
				DeleteError:   "Error al eliminar la persona",
			},
			Notifier: notifier,
			Logger:   logger,
		}),
		schema:   form.PersonSchema(b.People),
		get:      b.People.GetByID,
		prepare:  w.loadLocations,
		notifier: notifier,
		log:      logger,
	}

	w.Products = &Screen[models.Product]{
		Name: "productos",
		view: listview.NewView(listview.Config[models.Product]{
			Name:    "productos",
			Columns: productColumns(),
			Load:    b.Products.ListWithCategory,
			Delete:  b.Products.Delete,
			Messages: listview.Messages{
				LoadError:     "Error al cargar productos",
				DeleteSuccess: "Producto eliminado correctamente",
				DeleteError:   "Error al eliminar el producto",
			},
			Notifier: notifier,
			Logger:   logger,
		}),
		schema: form.ProductSchema(b.Products, b.Now),
		get:    b.Products.GetByID,
		prepare: func(ctx context.Context, d *form.Dialog[models.Product]) {
			_ = d.LoadOptions(ctx, "categoriaId", form.CategoryOptions(b.Products.Categories))
		},
		notifier: notifier,
		log:      logger,
	}

	w.Users = &Screen[models.User]{
		Name: "usuarios",
		view: listview.NewView(listview.Config[models.User]{
			Name:    "usuarios",
			Columns: userColumns(),
			Load:    listUsers(b.Users),
			Delete:  b.Users.Delete,
			Messages: listview.Messages{
				LoadError:     "Error al cargar los usuarios",
				DeleteSuccess: "Usuario eliminado correctamente",
				DeleteError:   "Error al eliminar el usuario",
			},
			Notifier: notifier,
			Logger:   logger,
		}),
		schema:   form.UserSchema(b.Users),
		get:      b.Users.GetByID,
		notifier: notifier,
		log:      logger,
	}

	return w
}

func (w *Workspace) loadLocations(ctx context.Context, d *form.Dialog[models.Person]) {
	lookups := map[string]func(context.Context) ([]models.Location, error){
		"paisId":         w.backend.People.Countries,
		"departamentoId": w.backend.People.Departments,
		"provinciaId":    w.backend.People.Provinces,
		"distritoId":     w.backend.People.Districts,
	}
	for field, list := range lookups {
		_ = d.LoadOptions(ctx, field, form.LocationOptions(list))
	}
}

// ToggleUser flips the active flag of a user once confirmed.
func (w *Workspace) ToggleUser(ctx context.Context, id models.ID, confirmed bool) error {
	if !confirmed {
		return nil
	}

	u, err := w.backend.Users.GetByID(ctx, id)
	if err != nil {
		w.log.Error().Err(err).Str("id", id.String()).Msg("fetching user to toggle")
		w.Notifier.Error("Error al cambiar el estado del usuario")
		return err
	}

	activate := !u.IsActive()
	success, failure := "Usuario desactivado correctamente", "Error al desactivar el usuario"
	if activate {
		success, failure = "Usuario activado correctamente", "Error al activar el usuario"
	}

	return w.Users.View().Mutate(ctx, true, func(ctx context.Context) error {
		_, err := w.backend.Users.SetActive(ctx, id, activate)
		return err
	}, success, failure)
}

// Locate returns a person for the map view. A person without coordinates
// fails with ErrNoCoordinates and an error notification.
func (w *Workspace) Locate(ctx context.Context, id models.ID) (models.Person, error) {
	p, err := w.backend.People.GetByID(ctx, id)
	if err != nil {
		w.log.Error().Err(err).Str("id", id.String()).Msg("fetching person to locate")
		return models.Person{}, err
	}
	if p.Coordenadas == nil {
		w.Notifier.Error(MsgNoCoordinates)
		return models.Person{}, ErrNoCoordinates
	}
	return p, nil
}

// listUsers never lets stored passwords reach a list row.
func listUsers(users *client.Users) listview.Loader[models.User] {
	return func(ctx context.Context) ([]models.User, error) {
		list, err := users.List(ctx)
		for i := range list {
			list[i].Password = ""
		}
		return list, err
	}
}

func personColumns() []listview.Column[models.Person] {
	return []listview.Column[models.Person]{
		{Key: "nombre", Label: "Nombre", Text: func(p models.Person) string { return p.Nombre }},
		{Key: "apellidos", Label: "Apellidos", Text: func(p models.Person) string { return p.Apellidos }},
		{Key: "dni", Label: "DNI", Text: func(p models.Person) string { return format.DNI(p.DNI) }},
		{Key: "correo", Label: "Correo", Text: func(p models.Person) string { return p.Correo }},
		{Key: "telefono", Label: "Teléfono", Text: func(p models.Person) string { return format.Phone(p.Telefono) }},
		{Key: "direccion", Label: "Dirección", Text: func(p models.Person) string { return p.Direccion }},
		{Key: "pais", Label: "País", Text: func(p models.Person) string { return p.PaisNombre }},
		{Key: "departamento", Label: "Departamento", Text: func(p models.Person) string { return p.DepartamentoNombre }},
		{Key: "provincia", Label: "Provincia", Text: func(p models.Person) string { return p.ProvinciaNombre }},
		{Key: "distrito", Label: "Distrito", Text: func(p models.Person) string { return p.DistritoNombre }},
	}
}

func productColumns() []listview.Column[models.Product] {
	return []listview.Column[models.Product]{
		{Key: "codigo", Label: "Código", Text: func(p models.Product) string { return p.Codigo }},
		{Key: "nombre", Label: "Nombre", Text: func(p models.Product) string { return p.Nombre }},
		{Key: "categoria", Label: "Categoría", Text: func(p models.Product) string { return p.CategoriaNombre }},
		{
			Key:    "precio",
			Label:  "Precio",
			Text:   func(p models.Product) string { return fmt.Sprintf("%.2f", p.Precio) },
			Number: func(p models.Product) float64 { return p.Precio },
		},
		{
			Key:    "stock",
			Label:  "Stock",
			Text:   func(p models.Product) string { return strconv.Itoa(p.Stock) },
			Number: func(p models.Product) float64 { return float64(p.Stock) },
		},
		{Key: "activo", Label: "Estado", Text: func(p models.Product) string { return activeLabel(p.Activo) }},
	}
}

func userColumns() []listview.Column[models.User] {
	return []listview.Column[models.User]{
		{Key: "username", Label: "Usuario", Text: func(u models.User) string { return u.Username }},
		{Key: "correo", Label: "Correo", Text: func(u models.User) string { return u.Correo }},
		{Key: "telefono", Label: "Teléfono", Text: func(u models.User) string { return format.Phone(u.Telefono) }},
		{Key: "activo", Label: "Estado", Text: func(u models.User) string { return activeLabel(u.IsActive()) }},
		{Key: "fechaCreacion", Label: "Fecha de creación", Text: func(u models.User) string { return u.FechaCreacion }},
	}
}

func activeLabel(active bool) string {
	if active {
		return "Activo"
	}
	return "Inactivo"
}
