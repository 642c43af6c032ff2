package models

// Coordinates locate a person's address on a map.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Person is a registered individual. The location chain goes
// country → department → province → district; the *Nombre fields are
// filled by the location join and are not persisted.
type Person struct {
	ID                 ID           `json:"id,omitempty"`
	Nombre             string       `json:"nombre"`
	Apellidos          string       `json:"apellidos"`
	DNI                string       `json:"dni"`
	Correo             string       `json:"correo"`
	Telefono           string       `json:"telefono,omitempty"`
	Direccion          string       `json:"direccion,omitempty"`
	PaisID             int          `json:"paisId"`
	DepartamentoID     int          `json:"departamentoId"`
	ProvinciaID        int          `json:"provinciaId"`
	DistritoID         int          `json:"distritoId"`
	Coordenadas        *Coordinates `json:"coordenadas,omitempty"`
	PaisNombre         string       `json:"paisNombre,omitempty"`
	DepartamentoNombre string       `json:"departamentoNombre,omitempty"`
	ProvinciaNombre    string       `json:"provinciaNombre,omitempty"`
	DistritoNombre     string       `json:"distritoNombre,omitempty"`
}

// FullName joins name and surname.
func (p Person) FullName() string {
	if p.Apellidos == "" {
		return p.Nombre
	}
	return p.Nombre + " " + p.Apellidos
}

// Location is an entry of one of the four location lookup collections.
type Location struct {
	ID       ID     `json:"id"`
	Nombre   string `json:"nombre"`
	ParentID int    `json:"parentId,omitempty"`
}
