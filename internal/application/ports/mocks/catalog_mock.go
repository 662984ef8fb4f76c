package mocks

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-kardex/internal/application/ports"
	"github.com/jhoicas/Inventario-kardex/internal/domain"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

var (
	_ ports.ProductCatalog   = (*MockProductCatalog)(nil)
	_ ports.ProviderRegistry = (*MockProviderRegistry)(nil)
)

// MockProductCatalog catálogo en memoria. Un código desconocido responde como el servicio
// remoto: error de validación con el mensaje del catálogo.
type MockProductCatalog struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	errs     map[string]error

	// GetCalls códigos consultados, en orden de llegada.
	GetCalls []string
}

// NewMockProductCatalog crea el mock con los productos dados.
func NewMockProductCatalog(products ...entity.Product) *MockProductCatalog {
	m := &MockProductCatalog{
		products: make(map[string]*entity.Product),
		errs:     make(map[string]error),
	}
	for _, p := range products {
		m.Add(p)
	}
	return m
}

// Add registra un producto.
func (m *MockProductCatalog) Add(p entity.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.Cod] = &p
}

// FailWith hace que la consulta de cod devuelva err.
func (m *MockProductCatalog) FailWith(cod string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[cod] = err
}

// GetProduct devuelve una copia del producto registrado.
func (m *MockProductCatalog) GetProduct(_ context.Context, cod string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, cod)
	if err, ok := m.errs[cod]; ok {
		return nil, err
	}
	p, ok := m.products[cod]
	if !ok {
		return nil, domain.Validationf("Producto con código %s no existe", cod)
	}
	cp := *p
	return &cp, nil
}

// Calls cantidad de consultas realizadas.
func (m *MockProductCatalog) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GetCalls)
}

// MockProviderRegistry registro de proveedores en memoria.
type MockProviderRegistry struct {
	mu        sync.Mutex
	providers map[string]*entity.Provider

	GetCalls []string
}

// NewMockProviderRegistry crea el mock con los ids dados.
func NewMockProviderRegistry(ids ...string) *MockProviderRegistry {
	m := &MockProviderRegistry{providers: make(map[string]*entity.Provider)}
	for _, id := range ids {
		m.providers[id] = &entity.Provider{ID: id, Name: "Proveedor " + id}
	}
	return m
}

// GetProvider devuelve el proveedor o un error de validación si no existe.
func (m *MockProviderRegistry) GetProvider(_ context.Context, id string) (*entity.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, id)
	p, ok := m.providers[id]
	if !ok {
		return nil, domain.Validationf("Proveedor con id %s no existe", id)
	}
	cp := *p
	return &cp, nil
}
