package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-kardex/internal/application/ports"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

var _ ports.ProductCatalog = (*CachedProductCatalog)(nil)

const productKeyPrefix = "kardex:product:"

// Cache almacenamiento clave/valor con expiración. Get devuelve (nil, nil) si la clave no existe.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache implementa Cache sobre go-redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache envuelve un cliente ya configurado.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// CachedProductCatalog consulta la caché antes del catálogo remoto. Solo se guardan respuestas
// exitosas; un fallo de la caché se registra y se consulta el catálogo directamente.
type CachedProductCatalog struct {
	next  ports.ProductCatalog
	cache Cache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCachedProductCatalog decora next con la caché.
func NewCachedProductCatalog(next ports.ProductCatalog, cache Cache, ttl time.Duration, log zerolog.Logger) *CachedProductCatalog {
	return &CachedProductCatalog{next: next, cache: cache, ttl: ttl, log: log}
}

func (c *CachedProductCatalog) GetProduct(ctx context.Context, cod string) (*entity.Product, error) {
	key := productKeyPrefix + cod

	raw, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.log.Warn().Err(err).Str("product_id", cod).Msg("caché de productos no disponible")
	case raw != nil:
		var p entity.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
		c.log.Warn().Str("product_id", cod).Msg("entrada de caché corrupta, se ignora")
	}

	p, err := c.next.GetProduct(ctx, cod)
	if err != nil || p == nil {
		return p, err
	}
	if val, err := json.Marshal(p); err == nil {
		if err := c.cache.Set(ctx, key, val, c.ttl); err != nil {
			c.log.Warn().Err(err).Str("product_id", cod).Msg("no se pudo guardar el producto en caché")
		}
	}
	return p, nil
}
