package client

import (
	"context"
	"net/url"
	"time"

	"github.com/rogerio-castellano/admin-console/internal/models"
)

// Users is the account resource. Create fills the defaults the backend does
// not assign itself, and Login is a filtered list query.
type Users struct {
	*Resource[models.User]
}

func NewUsers(c *Client) *Users {
	return &Users{Resource: NewResource[models.User](c, "usuarios")}
}

// Create sends the user with activo=true when unset and fechaCreacion set to
// today's date (YYYY-MM-DD, UTC).
func (u *Users) Create(ctx context.Context, user models.User) (models.User, error) {
	if user.Activo == nil {
		user.Activo = models.Bool(true)
	}
	user.FechaCreacion = u.c.now().UTC().Format(time.DateOnly)
	return u.Resource.Create(ctx, user)
}

// Login returns the active users matching username and password exactly.
// Zero or one entries are expected.
func (u *Users) Login(ctx context.Context, username, password string) ([]models.User, error) {
	return u.Query(ctx, url.Values{
		"username": {username},
		"password": {password},
		"activo":   {"true"},
	})
}

func (u *Users) ByUsername(ctx context.Context, username string) ([]models.User, error) {
	return u.Query(ctx, url.Values{"username": {username}})
}

func (u *Users) ChangePassword(ctx context.Context, id models.ID, password string) (models.User, error) {
	return u.Patch(ctx, id, map[string]any{"password": password})
}

func (u *Users) SetActive(ctx context.Context, id models.ID, active bool) (models.User, error) {
	return u.Patch(ctx, id, map[string]any{"activo": active})
}

// Edit saves an edited account. Without a new password the other fields are
// merged (PATCH) so the stored password survives; otherwise the record is
// replaced. A PUT without the password would erase it on a json-server style
// store, which is why edits are not PUT-only here.
func (u *Users) Edit(ctx context.Context, id models.ID, user models.User) (models.User, error) {
	if user.Password != "" {
		return u.Update(ctx, id, user)
	}

	fields := map[string]any{
		"username": user.Username,
		"correo":   user.Correo,
		"telefono": user.Telefono,
	}
	if user.Activo != nil {
		fields["activo"] = *user.Activo
	}
	return u.Patch(ctx, id, fields)
}
