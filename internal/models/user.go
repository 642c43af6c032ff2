package models

// AdminUsername is the only username granted the admin screens.
const AdminUsername = "admin"

// User is an account of the console. Activo is a pointer so that "not set"
// can be told apart from false when a record is created.
type User struct {
	ID            ID     `json:"id,omitempty"`
	Username      string `json:"username"`
	Password      string `json:"password,omitempty"`
	Correo        string `json:"correo"`
	Telefono      string `json:"telefono,omitempty"`
	Activo        *bool  `json:"activo,omitempty"`
	FechaCreacion string `json:"fechaCreacion,omitempty"`
}

// IsActive treats an unset flag as active, the backend default.
func (u User) IsActive() bool {
	return u.Activo == nil || *u.Activo
}

// IsAdmin reports whether the account is the hardcoded administrator.
func (u User) IsAdmin() bool {
	return u.Username == AdminUsername
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
