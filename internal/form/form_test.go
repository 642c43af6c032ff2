package form

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rogerio-castellano/admin-console/internal/listview"
	"github.com/rogerio-castellano/admin-console/internal/logging"
	"github.com/rogerio-castellano/admin-console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }

type fakeProducts struct {
	mu      sync.Mutex
	created []models.Product
	updated map[models.ID]models.Product
	err     error
	block   chan struct{}
}

func (f *fakeProducts) Create(_ context.Context, p models.Product) (models.Product, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Product{}, f.err
	}
	f.created = append(f.created, p)
	p.ID = models.ID(len(f.created))
	return p, nil
}

func (f *fakeProducts) Update(_ context.Context, id models.ID, p models.Product) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Product{}, f.err
	}
	if f.updated == nil {
		f.updated = map[models.ID]models.Product{}
	}
	f.updated[id] = p
	return p, nil
}

type fakeUsers struct {
	created []models.User
	edited  []models.User
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsers) Edit(_ context.Context, id models.ID, u models.User) (models.User, error) {
	f.edited = append(f.edited, u)
	return u, nil
}

func validProduct() Values {
	return Values{
		"codigo":      "P-001",
		"nombre":      "Teclado",
		"categoriaId": "2",
		"precio":      "49.90",
		"stock":       "12",
		"activo":      true,
	}
}

func TestProductForm_NumericFieldsAreNumbers(t *testing.T) {
	saver := &fakeProducts{}
	d := New(ProductSchema(saver, fixedNow), nil, logging.Nop(), 0, nil)

	out, err := d.Submit(context.Background(), validProduct())
	require.NoError(t, err)
	assert.Equal(t, Outcome{State: ClosedSuccess, Closed: true, Changed: true}, out)

	require.Len(t, saver.created, 1)
	body, err := json.Marshal(saver.created[0])
	require.NoError(t, err)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(body, &sent))
	assert.Equal(t, float64(2), sent["categoriaId"])
	assert.Equal(t, 49.9, sent["precio"])
	assert.Equal(t, float64(12), sent["stock"])
	assert.Equal(t, "2026-03-09", sent["fechaCreacion"])
}

func TestProductForm_ValidationErrors(t *testing.T) {
	saver := &fakeProducts{}
	d := New(ProductSchema(saver, fixedNow), nil, logging.Nop(), 0, nil)

	_, err := d.Submit(context.Background(), Values{
		"codigo": "",
		"nombre": "Teclado",
		"precio": "-1",
		"stock":  "1.5",
	})
	require.ErrorIs(t, err, ErrValidation)

	var errs FieldErrors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "Este campo es requerido", errs["codigo"])
	assert.Equal(t, "Este campo es requerido", errs["categoriaId"])
	assert.Equal(t, "El valor mínimo es 0", errs["precio"])
	assert.Equal(t, "Debe ser un número entero", errs["stock"])
	assert.Empty(t, saver.created)
	assert.Equal(t, Idle, d.State())
}

func TestValues_IntOutOfRange(t *testing.T) {
	for _, raw := range []any{"1e30", -1e30, 9.3e18} {
		errs := FieldErrors{}

		n := Values{"stock": raw}.Int("stock", errs)

		assert.Nil(t, n, "%v", raw)
		assert.Equal(t, "Debe ser un número", errs["stock"], "%v", raw)
	}

	errs := FieldErrors{}
	n := Values{"stock": "1e3"}.Int("stock", errs)
	require.NotNil(t, n)
	assert.Equal(t, 1000, *n)
	assert.Empty(t, errs)
}

func TestProductForm_HugeStockRejected(t *testing.T) {
	saver := &fakeProducts{}
	d := New(ProductSchema(saver, fixedNow), nil, logging.Nop(), 0, nil)

	values := validProduct()
	values["stock"] = 1e30
	_, err := d.Submit(context.Background(), values)

	var errs FieldErrors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "Debe ser un número", errs["stock"])
	assert.Empty(t, saver.created)
}

func TestProductForm_MaxLength(t *testing.T) {
	d := New(ProductSchema(&fakeProducts{}, fixedNow), nil, logging.Nop(), 0, nil)

	values := validProduct()
	values["codigo"] = "1234567890123456789012345678901"
	_, err := d.Submit(context.Background(), values)

	var errs FieldErrors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "Máximo 30 caracteres", errs["codigo"])
}

func TestProductForm_EditKeepsCreationDate(t *testing.T) {
	saver := &fakeProducts{}
	original := models.Product{ID: 7, Codigo: "P-7", Nombre: "Mouse", CategoriaID: 1, Precio: 10, Stock: 3, Activo: true, FechaCreacion: "2025-01-01"}
	d := New(ProductSchema(saver, fixedNow), nil, logging.Nop(), 7, &original)

	assert.Equal(t, Edit, d.Mode())
	values := d.Model().Values
	values["nombre"] = "Mouse inalámbrico"

	_, err := d.Submit(context.Background(), values)
	require.NoError(t, err)

	got := saver.updated[7]
	assert.Equal(t, "Mouse inalámbrico", got.Nombre)
	assert.Equal(t, "2025-01-01", got.FechaCreacion)
	assert.Equal(t, "2026-03-09", got.FechaActualizacion)
	assert.Equal(t, 10.0, got.Precio)
}

func TestDialog_FailureKeepsDialogOpen(t *testing.T) {
	notifier := listview.NewNotifier()
	saver := &fakeProducts{err: errors.New("boom")}
	d := New(ProductSchema(saver, fixedNow), notifier, logging.Nop(), 0, nil)

	out, err := d.Submit(context.Background(), validProduct())
	require.Error(t, err)
	assert.False(t, out.Closed)
	assert.Equal(t, Idle, d.State())
	assert.Equal(t, "Error al guardar el producto", d.Model().Error)

	notes := notifier.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, listview.Error, notes[0].Kind)

	saver.err = nil
	out, err = d.Submit(context.Background(), validProduct())
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, "Producto guardado correctamente", notifier.Drain()[0].Message)
}

func TestDialog_RejectsSubmitWhileSubmitting(t *testing.T) {
	saver := &fakeProducts{block: make(chan struct{})}
	d := New(ProductSchema(saver, fixedNow), nil, logging.Nop(), 0, nil)

	done := make(chan error, 1)
	go func() {
		_, err := d.Submit(context.Background(), validProduct())
		done <- err
	}()

	require.Eventually(t, func() bool { return d.State() == Submitting }, time.Second, time.Millisecond)

	_, err := d.Submit(context.Background(), validProduct())
	assert.ErrorIs(t, err, ErrBusy)
	_, err = d.Cancel()
	assert.ErrorIs(t, err, ErrBusy)

	close(saver.block)
	require.NoError(t, <-done)
	assert.Len(t, saver.created, 1)
}

func TestDialog_CancelClosesWithoutRequest(t *testing.T) {
	saver := &fakeProducts{}
	d := New(ProductSchema(saver, fixedNow), nil, logging.Nop(), 0, nil)

	out, err := d.Cancel()
	require.NoError(t, err)
	assert.Equal(t, Outcome{State: ClosedCancelled, Closed: true}, out)

	_, err = d.Submit(context.Background(), validProduct())
	assert.ErrorIs(t, err, ErrClosed)
	_, err = d.Cancel()
	assert.ErrorIs(t, err, ErrClosed)
	assert.Empty(t, saver.created)
}

func TestDialog_LoadOptionsDisablesField(t *testing.T) {
	d := New(ProductSchema(&fakeProducts{}, fixedNow), nil, logging.Nop(), 0, nil)

	var during bool
	err := d.LoadOptions(context.Background(), "categoriaId", func(context.Context) ([]Option, error) {
		during = d.Disabled("categoriaId")
		return []Option{{Value: 1, Label: "Periféricos"}}, nil
	})
	require.NoError(t, err)
	assert.True(t, during)
	assert.False(t, d.Disabled("categoriaId"))

	var field FieldModel
	for _, f := range d.Model().Fields {
		if f.Name == "categoriaId" {
			field = f
		}
	}
	assert.Equal(t, []Option{{Value: 1, Label: "Periféricos"}}, field.Options)
}

func TestDialog_LoadOptionsFailureReenablesField(t *testing.T) {
	d := New(ProductSchema(&fakeProducts{}, fixedNow), nil, logging.Nop(), 0, nil)

	load := CategoryOptions(func(context.Context) ([]models.Category, error) {
		return nil, errors.New("down")
	})
	err := d.LoadOptions(context.Background(), "categoriaId", load)
	require.Error(t, err)
	assert.False(t, d.Disabled("categoriaId"))
}

func TestUserForm_CreateRequiresPassword(t *testing.T) {
	saver := &fakeUsers{}
	d := New(UserSchema(saver), nil, logging.Nop(), 0, nil)

	_, err := d.Submit(context.Background(), Values{"username": "jo", "correo": "no-es-correo"})
	var errs FieldErrors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "Mínimo 3 caracteres", errs["username"])
	assert.Equal(t, "Formato de correo inválido", errs["correo"])
	assert.Equal(t, "Este campo es requerido", errs["password"])

	_, err = d.Submit(context.Background(), Values{"username": "maria", "correo": "maria@x.pe", "password": "123"})
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "Mínimo 6 caracteres", errs["password"])

	_, err = d.Submit(context.Background(), Values{"username": "maria", "correo": "maria@x.pe", "password": "secreto"})
	require.NoError(t, err)
	require.Len(t, saver.created, 1)
	assert.Equal(t, "secreto", saver.created[0].Password)
	assert.True(t, *saver.created[0].Activo)
}

func TestUserForm_EditWithoutPasswordOmitsIt(t *testing.T) {
	saver := &fakeUsers{}
	original := models.User{ID: 4, Username: "maria", Password: "secreto", Correo: "maria@x.pe", FechaCreacion: "2025-05-05"}
	d := New(UserSchema(saver), nil, logging.Nop(), 4, &original)

	values := d.Model().Values
	assert.Equal(t, "", values["password"])
	values["correo"] = "maria@y.pe"

	_, err := d.Submit(context.Background(), values)
	require.NoError(t, err)
	require.Len(t, saver.edited, 1)

	body, err := json.Marshal(saver.edited[0])
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.Equal(t, "2025-05-05", saver.edited[0].FechaCreacion)
}

func TestUserForm_PasswordOnlyRequiredOnCreate(t *testing.T) {
	create := New(UserSchema(&fakeUsers{}), nil, logging.Nop(), 0, nil).Model()
	edit := New(UserSchema(&fakeUsers{}), nil, logging.Nop(), 1, &models.User{ID: 1}).Model()

	required := func(m Model, name string) bool {
		for _, f := range m.Fields {
			if f.Name == name {
				return f.Required
			}
		}
		return false
	}
	assert.True(t, required(create, "password"))
	assert.False(t, required(edit, "password"))
}

type fakePeople struct{ created []models.Person }

func (f *fakePeople) Create(_ context.Context, p models.Person) (models.Person, error) {
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakePeople) Update(_ context.Context, _ models.ID, p models.Person) (models.Person, error) {
	return p, nil
}

func TestPersonForm(t *testing.T) {
	saver := &fakePeople{}
	d := New(PersonSchema(saver), nil, logging.Nop(), 0, nil)

	_, err := d.Submit(context.Background(), Values{
		"nombre":         "Ana",
		"apellidos":      "Quispe",
		"dni":            "1234-567",
		"correo":         "ana@x.pe",
		"telefono":       "12345",
		"paisId":         1,
		"departamentoId": "15",
		"provinciaId":    "1501",
		"lat":            -12.05,
	})
	var errs FieldErrors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "Debe tener 8 dígitos", errs["dni"])
	assert.Equal(t, "Debe tener 9 dígitos", errs["telefono"])
	assert.Equal(t, "Este campo es requerido", errs["distritoId"])
	assert.Equal(t, "Este campo es requerido", errs["lng"])

	_, err = d.Submit(context.Background(), Values{
		"nombre":         "Ana",
		"apellidos":      "Quispe",
		"dni":            "12345678",
		"correo":         "ana@x.pe",
		"telefono":       "987 654 321",
		"paisId":         1,
		"departamentoId": "15",
		"provinciaId":    "1501",
		"distritoId":     "150101",
		"lat":            -12.05,
		"lng":            "-77.04",
	})
	require.NoError(t, err)
	require.Len(t, saver.created, 1)

	p := saver.created[0]
	assert.Equal(t, "987654321", p.Telefono)
	assert.Equal(t, 150101, p.DistritoID)
	assert.Equal(t, &models.Coordinates{Lat: -12.05, Lng: -77.04}, p.Coordenadas)
}
