// Package catalog implementa los clientes HTTP de los servicios de productos y proveedores.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-kardex/internal/application/ports"
	"github.com/jhoicas/Inventario-kardex/internal/domain"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

var (
	_ ports.ProductCatalog   = (*ProductClient)(nil)
	_ ports.ProviderRegistry = (*ProviderClient)(nil)
)

// UnknownErrorMessage mensaje usado cuando el servicio remoto no envía userMessage.
const UnknownErrorMessage = "unknown error"

const maxBodyBytes = 1 << 20

type errorBody struct {
	UserMessage string `json:"userMessage"`
}

// ProductClient consulta GET {base}/product/{cod}.
type ProductClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewProductClient construye el cliente con el timeout de red indicado.
func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetProduct devuelve el producto. Cualquier fallo remoto llega como domain.ErrValidation.
func (c *ProductClient) GetProduct(ctx context.Context, cod string) (*entity.Product, error) {
	var p entity.Product
	if err := getJSON(ctx, c.httpClient, c.baseURL+"/product/"+url.PathEscape(cod), &p); err != nil {
		return nil, err
	}
	if p.Cod == "" {
		p.Cod = cod
	}
	return &p, nil
}

// ProviderClient consulta GET {base}/provider/{id}.
type ProviderClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewProviderClient construye el cliente con el timeout de red indicado.
func NewProviderClient(baseURL string, timeout time.Duration) *ProviderClient {
	return &ProviderClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ProviderClient) GetProvider(ctx context.Context, id string) (*entity.Provider, error) {
	var p entity.Provider
	if err := getJSON(ctx, c.httpClient, c.baseURL+"/provider/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("crear request %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return domain.Validation(transportMessage(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Validation(transportMessage(err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Validation(userMessage(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.Validationf("respuesta inválida de %s: %v", endpoint, err)
	}
	return nil
}

// userMessage extrae {"userMessage": "..."} del cuerpo de error.
func userMessage(body []byte) string {
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil || strings.TrimSpace(e.UserMessage) == "" {
		return UnknownErrorMessage
	}
	return e.UserMessage
}

func transportMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "tiempo de espera agotado consultando el servicio remoto"
	}
	return err.Error()
}
