package models

// CategoryPlaceholder is displayed when a product's category does not resolve.
const CategoryPlaceholder = "—"

// Product represents a catalog product as stored by the REST backend.
// CategoriaNombre is never sent back; it is filled by the category join.
type Product struct {
	ID                 ID      `json:"id,omitempty"`
	Codigo             string  `json:"codigo"`
	Nombre             string  `json:"nombre"`
	Descripcion        string  `json:"descripcion,omitempty"`
	CategoriaID        int     `json:"categoriaId"`
	CategoriaNombre    string  `json:"categoriaNombre,omitempty"`
	Precio             float64 `json:"precio"`
	Stock              int     `json:"stock"`
	Activo             bool    `json:"activo"`
	FechaCreacion      string  `json:"fechaCreacion,omitempty"`
	FechaActualizacion string  `json:"fechaActualizacion,omitempty"`
}

// Category is read-only from the product screens.
type Category struct {
	ID     ID     `json:"id"`
	Nombre string `json:"nombre"`
}
