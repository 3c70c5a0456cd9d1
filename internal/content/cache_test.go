package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pristeneo/storefront/internal/catalog"
	"github.com/pristeneo/storefront/pkg/logger"
)

type memoryCache struct {
	values map[string]string
	getErr error
	ttl    time.Duration
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = fmt.Sprint(value)
	m.ttl = ttl
	return nil
}

func (m *memoryCache) ContentKey(digest string) string { return "pristeneo:content:" + digest }

type countingSource struct {
	Source
	products int
	pages    int
}

func (c *countingSource) Products(context.Context) ([]catalog.Product, error) {
	c.products++
	return []catalog.Product{{ID: "p1", Slug: "oil", Title: "Oil"}}, nil
}

func (c *countingSource) PageBySlug(context.Context, string) (*Page, error) {
	c.pages++
	return nil, nil
}

func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: buf})
}

func TestCachedSourceServesFromCache(t *testing.T) {
	var buf bytes.Buffer
	next := &countingSource{}
	cache := &memoryCache{values: map[string]string{}}
	src, err := NewCachedSource(next, cache, time.Minute, testLogger(&buf))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		products, err := src.Products(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "oil", products[0].Slug)
	}
	assert.Equal(t, 1, next.products)
	assert.Equal(t, time.Minute, cache.ttl)
	assert.Contains(t, cache.values, "pristeneo:content:products")
}

func TestCachedSourceCachesMisses(t *testing.T) {
	var buf bytes.Buffer
	next := &countingSource{}
	src, err := NewCachedSource(next, &memoryCache{values: map[string]string{}}, time.Minute, testLogger(&buf))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		page, err := src.PageBySlug(context.Background(), "about")
		require.NoError(t, err)
		assert.Nil(t, page)
	}
	assert.Equal(t, 1, next.pages)
}

func TestCachedSourceFallsThroughOnCacheError(t *testing.T) {
	var buf bytes.Buffer
	next := &countingSource{}
	cache := &memoryCache{values: map[string]string{}, getErr: errors.New("redis down")}
	src, err := NewCachedSource(next, cache, time.Minute, testLogger(&buf))
	require.NoError(t, err)

	_, err = src.Products(context.Background())
	require.NoError(t, err)
	_, err = src.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, next.products)
	assert.Contains(t, buf.String(), "content cache read failed")
}

func TestCachedSourceDiscardsCorruptEntries(t *testing.T) {
	var buf bytes.Buffer
	next := &countingSource{}
	cache := &memoryCache{values: map[string]string{"pristeneo:content:products": "{oops"}}
	src, err := NewCachedSource(next, cache, time.Minute, testLogger(&buf))
	require.NoError(t, err)

	products, err := src.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, next.products)
}

func TestNewCachedSourceDisabled(t *testing.T) {
	next := &countingSource{}
	src, err := NewCachedSource(next, nil, time.Minute, nil)
	require.NoError(t, err)
	assert.Same(t, next, src)

	src, err = NewCachedSource(next, &memoryCache{}, 0, nil)
	require.NoError(t, err)
	assert.Same(t, next, src)
}
