package content

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pristeneo/storefront/internal/catalog"
	"github.com/pristeneo/storefront/pkg/logger"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	ContentKey(digest string) string
}

// CachedSource serves query results from redis for the revalidation window
// before asking the wrapped source again. Cache faults fall through to the
// source.
type CachedSource struct {
	next  Source
	cache cacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewCachedSource wraps next. A non-positive ttl disables caching and returns
// next unchanged.
func NewCachedSource(next Source, cache cacheStore, ttl time.Duration, logg *logger.Logger) (Source, error) {
	if next == nil {
		return nil, errors.New("content source required")
	}
	if cache == nil || ttl <= 0 {
		return next, nil
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &CachedSource{next: next, cache: cache, ttl: ttl, logg: logg}, nil
}

func (c *CachedSource) Products(ctx context.Context) ([]catalog.Product, error) {
	return cached(ctx, c, "products", func() ([]catalog.Product, error) {
		return c.next.Products(ctx)
	})
}

func (c *CachedSource) ProductBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	return cached(ctx, c, "product:"+slug, func() (*catalog.Product, error) {
		return c.next.ProductBySlug(ctx, slug)
	})
}

func (c *CachedSource) ProductSlugs(ctx context.Context) ([]string, error) {
	return cached(ctx, c, "product_slugs", func() ([]string, error) {
		return c.next.ProductSlugs(ctx)
	})
}

func (c *CachedSource) PageBySlug(ctx context.Context, slug string) (*Page, error) {
	return cached(ctx, c, "page:"+slug, func() (*Page, error) {
		return c.next.PageBySlug(ctx, slug)
	})
}

func (c *CachedSource) PageSlugs(ctx context.Context) ([]string, error) {
	return cached(ctx, c, "page_slugs", func() ([]string, error) {
		return c.next.PageSlugs(ctx)
	})
}

func cached[T any](ctx context.Context, c *CachedSource, name string, load func() (T, error)) (T, error) {
	key := c.cache.ContentKey(name)

	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var value T
		if jsonErr := json.Unmarshal([]byte(raw), &value); jsonErr == nil {
			return value, nil
		}
		c.logg.Warn(c.logg.WithField(ctx, "cache_key", key), "discarding undecodable content cache entry")
	case !errors.Is(err, goredis.Nil):
		c.logg.WarnFields(ctx, "content cache read failed", map[string]any{"cache_key": key, "error": err.Error()})
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	encoded, err := json.Marshal(value)
	if err == nil {
		if setErr := c.cache.Set(ctx, key, string(encoded), c.ttl); setErr != nil {
			c.logg.WarnFields(ctx, "content cache write failed", map[string]any{"cache_key": key, "error": setErr.Error()})
		}
	}
	return value, nil
}
