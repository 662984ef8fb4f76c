package entity

// Provider proveedor registrado en el servicio de proveedores. Solo interesa su existencia;
// el ID lo asigna el cliente con el valor consultado.
type Provider struct {
	ID    string `json:"-"`
	Name  string `json:"name"`
	NIT   string `json:"nit,omitempty"`
	Email string `json:"email,omitempty"`
}
