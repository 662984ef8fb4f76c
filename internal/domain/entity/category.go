package entity

// Category categoría de un producto del catálogo.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
