package form

import (
	"context"

	"github.com/rogerio-castellano/admin-console/internal/models"
)

// UserSaver is the part of the user client a dialog submits through.
type UserSaver interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	Edit(ctx context.Context, id models.ID, u models.User) (models.User, error)
}

type userDraft struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Correo   string `json:"correo" validate:"required,email"`
	Telefono string `json:"telefono" validate:"max=20"`
	Activo   *bool  `json:"activo"`
}

// UserSchema is the add/edit account form. The password is required on
// create; left blank on edit it is not sent at all.
func UserSchema(saver UserSaver) Schema[models.User] {
	return Schema[models.User]{
		Name: "usuario",
		Fields: []Field{
			{Name: "username", Required: true},
			{Name: "password", CreateOnly: true},
			{Name: "correo", Required: true},
			{Name: "telefono"},
			{Name: "activo"},
		},
		Build: func(v Values, original *models.User) (models.User, FieldErrors) {
			errs := FieldErrors{}
			draft := userDraft{
				Username: v.String("username"),
				Correo:   v.String("correo"),
				Telefono: v.String("telefono"),
				Activo:   v.Bool("activo", true, errs),
			}
			check(draft, errs)

			password := v.String("password")
			if original == nil {
				checkVar("password", password, "required,min=6", errs)
			} else {
				checkVar("password", password, "omitempty,min=6", errs)
			}
			if len(errs) > 0 {
				return models.User{}, errs
			}

			u := models.User{
				Username: draft.Username,
				Password: password,
				Correo:   draft.Correo,
				Telefono: draft.Telefono,
				Activo:   draft.Activo,
			}
			if original != nil {
				u.ID = original.ID
				u.FechaCreacion = original.FechaCreacion
			}
			return u, nil
		},
		Seed: func(u models.User) Values {
			return Values{
				"username": u.Username,
				"password": "",
				"correo":   u.Correo,
				"telefono": u.Telefono,
				"activo":   u.IsActive(),
			}
		},
		Create: saver.Create,
		Update: saver.Edit,
		Messages: Messages{
			Created:      "Usuario creado correctamente",
			Updated:      "Usuario actualizado correctamente",
			CreateFailed: "Error al crear el usuario",
			UpdateFailed: "Error al actualizar el usuario",
		},
	}
}
