package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("validación fallida")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Recursos conocidos para los errores NotFound.
const (
	ResourceStock    = "stock"
	ResourceKardex   = "kardex"
	ResourceProduct  = "producto"
	ResourceProvider = "proveedor"
)

// Error error de negocio con mensaje para el usuario. Unwrap devuelve el tipo
// (ErrNotFound, ErrValidation, ErrInsufficientStock) para usar errors.Is.
type Error struct {
	Kind     error
	Resource string
	Message  string
	// Expired indica que el faltante de stock se debe a lotes vencidos.
	Expired bool
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NotFound construye un error de recurso inexistente.
func NotFound(resource, id string) *Error {
	return &Error{
		Kind:     ErrNotFound,
		Resource: resource,
		Message:  fmt.Sprintf("%s no encontrado: %s", resource, id),
	}
}

// Validation construye un error de regla de negocio.
func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

// Validationf igual que Validation con formato.
func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

// InsufficientStock construye un error de faltante de stock.
func InsufficientStock(msg string, expired bool) *Error {
	return &Error{Kind: ErrInsufficientStock, Resource: ResourceStock, Message: msg, Expired: expired}
}

// UserMessage devuelve el mensaje apto para el usuario final.
func UserMessage(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
