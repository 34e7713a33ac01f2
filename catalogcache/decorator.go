package catalogcache

import (
	"context"
	"log/slog"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/catalog"
)

// DefaultNamespace prefixes every key written by the decorator.
const DefaultNamespace = "catalog"

const (
	methodListProducts    = "ListProducts"
	methodProductBySlug   = "ProductBySlug"
	methodRelatedProducts = "RelatedProducts"
	methodListCategories  = "ListCategories"
	methodListLocations   = "ListLocations"
)

var _ catalog.Service = (*CachedService)(nil)

// CachedService decorates a catalog.Service with caching.
type CachedService struct {
	base          catalog.Service
	cache         cache.CacheService
	keySerializer cache.KeySerializer
	namespace     string
	logger        *slog.Logger

	keyRegistry *xsync.MapOf[string, struct{}]
	tagIndex    *xsync.MapOf[string, *xsync.MapOf[string, struct{}]]
}

// Option configures a CachedService.
type Option func(*CachedService)

// WithNamespace replaces DefaultNamespace. The name is normalized to
// snake_case.
func WithNamespace(name string) Option {
	return func(c *CachedService) {
		if ns := toSnake(name); ns != "" {
			c.namespace = ns
		}
	}
}

// WithLogger sets the logger used for invalidation records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CachedService) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New wraps base with cacheService. A nil keySerializer selects the default
// one.
func New(base catalog.Service, cacheService cache.CacheService, keySerializer cache.KeySerializer, opts ...Option) *CachedService {
	if keySerializer == nil {
		keySerializer = cache.NewDefaultKeySerializer()
	}
	c := &CachedService{
		base:          base,
		cache:         cacheService,
		keySerializer: keySerializer,
		namespace:     DefaultNamespace,
		logger:        slog.New(slog.DiscardHandler),
		keyRegistry:   xsync.NewMapOf[string, struct{}](),
		tagIndex:      xsync.NewMapOf[string, *xsync.MapOf[string, struct{}]](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the decorated service.
func (c *CachedService) Base() catalog.Service {
	return c.base
}

func (c *CachedService) ListProducts(ctx context.Context, q catalog.ProductQuery) ([]catalog.Product, error) {
	return cachedFetch(ctx, c, c.key(methodListProducts, q), func(ctx context.Context) ([]catalog.Product, error) {
		return c.base.ListProducts(ctx, q)
	})
}

func (c *CachedService) ProductBySlug(ctx context.Context, slug string) (catalog.Product, error) {
	return cachedFetch(ctx, c, c.key(methodProductBySlug, slug), func(ctx context.Context) (catalog.Product, error) {
		return c.base.ProductBySlug(ctx, slug)
	})
}

func (c *CachedService) RelatedProducts(ctx context.Context, slug string) ([]catalog.Product, error) {
	return cachedFetch(ctx, c, c.key(methodRelatedProducts, slug), func(ctx context.Context) ([]catalog.Product, error) {
		return c.base.RelatedProducts(ctx, slug)
	})
}

func (c *CachedService) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return cachedFetch(ctx, c, c.key(methodListCategories), func(ctx context.Context) ([]catalog.Category, error) {
		return c.base.ListCategories(ctx)
	})
}

func (c *CachedService) ListLocations(ctx context.Context, origin string) ([]catalog.Location, error) {
	return cachedFetch(ctx, c, c.key(methodListLocations, origin), func(ctx context.Context) ([]catalog.Location, error) {
		return c.base.ListLocations(ctx, origin)
	})
}

// cachedFetch registers key, honours refresh requests and reads through
// the cache.
func cachedFetch[T any](ctx context.Context, c *CachedService, key string, fetch cache.FetchFn[T]) (T, error) {
	c.trackKey(ctx, key)
	if cache.RefreshRequested(ctx) {
		if err := c.cache.Delete(ctx, key); err != nil {
			c.logger.Warn("cache refresh delete failed", "key", key, "error", err)
		}
	}
	return cache.GetOrFetch(ctx, c.cache, key, fetch)
}

func (c *CachedService) key(method string, args ...any) string {
	return c.namespace + cache.KeySeparator + c.keySerializer.SerializeKey(method, args...)
}

// trackKey registers key and indexes it under the context tags.
func (c *CachedService) trackKey(ctx context.Context, key string) {
	c.keyRegistry.Store(key, struct{}{})
	for _, tag := range cacheTagsFromContext(ctx) {
		keys, _ := c.tagIndex.LoadOrCompute(tag, func() *xsync.MapOf[string, struct{}] {
			return xsync.NewMapOf[string, struct{}]()
		})
		keys.Store(key, struct{}{})
	}
}

// Keys returns the registered keys.
func (c *CachedService) Keys() []string {
	keys := make([]string, 0, c.keyRegistry.Size())
	c.keyRegistry.Range(func(key string, _ struct{}) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Invalidate drops every registered key below the namespace starting with
// prefix, e.g. "ListProducts" or "ProductBySlug::laptop".
func (c *CachedService) Invalidate(ctx context.Context, prefix string) error {
	return c.invalidateByPrefix(ctx, c.namespace+cache.KeySeparator+prefix)
}

// InvalidateAll drops every key of the namespace, including keys written
// by other decorators sharing the cache.
func (c *CachedService) InvalidateAll(ctx context.Context) error {
	prefix := c.namespace + cache.KeySeparator
	if err := c.cache.DeleteByPrefix(ctx, prefix); err != nil {
		return err
	}
	c.keyRegistry.Clear()
	c.tagIndex.Clear()
	c.logger.Debug("catalog cache cleared", "namespace", c.namespace)
	return nil
}

// InvalidateTag drops the keys read under tag.
func (c *CachedService) InvalidateTag(ctx context.Context, tag string) error {
	keys, ok := c.tagIndex.LoadAndDelete(strings.TrimSpace(tag))
	if !ok {
		return nil
	}
	var toDelete []string
	keys.Range(func(key string, _ struct{}) bool {
		toDelete = append(toDelete, key)
		return true
	})
	return c.deleteKeys(ctx, toDelete)
}

func (c *CachedService) invalidateByPrefix(ctx context.Context, prefix string) error {
	var toDelete []string
	c.keyRegistry.Range(func(key string, _ struct{}) bool {
		if strings.HasPrefix(key, prefix) {
			toDelete = append(toDelete, key)
		}
		return true
	})
	return c.deleteKeys(ctx, toDelete)
}

func (c *CachedService) deleteKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.cache.InvalidateKeys(ctx, keys); err != nil {
		return err
	}
	for _, key := range keys {
		c.keyRegistry.Delete(key)
	}
	c.logger.Debug("catalog cache keys invalidated", "keys", len(keys))
	return nil
}
