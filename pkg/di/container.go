package di

import (
	"context"
	"errors"
	"log/slog"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/cart"
	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/catalog/httpapi"
	"github.com/goliatone/go-storefront/catalog/sqlstore"
	"github.com/goliatone/go-storefront/catalogcache"
	"github.com/goliatone/go-storefront/pages"
	"github.com/goliatone/go-storefront/pkg/config"
	"github.com/goliatone/go-storefront/reactive"
)

// Container owns the storefront singletons: the reactive runtime, the
// cache, the catalog source and the cart. Pages are created through its
// factory methods so they share those singletons.
type Container struct {
	config config.Config
	logger *slog.Logger

	runtime       *reactive.Runtime
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer

	base    catalog.Service
	store   *sqlstore.Store
	cached  *catalogcache.CachedService
	catalog catalog.Service
	cart    *cart.Store
}

// Option configures a Container.
type Option func(*Container)

// WithLogger replaces the logger built from the log config.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCatalog uses svc as the catalog source instead of the one selected by
// the config. It is still wrapped by the cache when the cache is enabled.
func WithCatalog(svc catalog.Service) Option {
	return func(c *Container) {
		c.base = svc
	}
}

// NewContainer validates cfg and wires every component. A SQL catalog is
// opened and migrated here.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{
		config: cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.runtime = reactive.NewRuntime(
		reactive.WithLogger(c.logger.With("component", "reactive")),
		reactive.WithMaxEffectRuns(cfg.Runtime.MaxEffectRuns),
	)
	c.keySerializer = cache.NewKeySerializer(cfg.Cache)

	if c.base == nil {
		base, err := c.openCatalog(ctx)
		if err != nil {
			c.runtime.Close()
			return nil, err
		}
		c.base = base
	}

	c.catalog = c.base
	if cfg.Cache.Enabled {
		svc, err := cache.NewCacheService(cfg.Cache, c.logger.With("component", "cache"))
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.cacheService = svc
		c.cached = c.NewCachedCatalog(c.base, catalogcache.WithNamespace(cfg.Catalog.CacheNamespace))
		c.catalog = c.cached
	}

	c.cart = cart.New(c.runtime)
	c.logger.Debug("container ready",
		"source", cfg.Catalog.Source,
		"cache", cfg.Cache.Enabled,
	)
	return c, nil
}

// NewContainerWithDefaults wires config.Default.
func NewContainerWithDefaults(ctx context.Context, opts ...Option) (*Container, error) {
	return NewContainer(ctx, config.Default(), opts...)
}

func (c *Container) openCatalog(ctx context.Context) (catalog.Service, error) {
	cfg := c.config.Catalog
	switch cfg.Source {
	case config.SourceSQL:
		store, err := sqlstore.Open(ctx, cfg.Driver, cfg.DSN,
			sqlstore.WithLogger(c.logger.With("component", "sqlstore")))
		if err != nil {
			return nil, err
		}
		c.store = store
		return store, nil
	default:
		return httpapi.New(cfg.BaseURL,
			httpapi.WithTimeout(cfg.Timeout),
			httpapi.WithLogger(c.logger.With("component", "httpapi")),
		)
	}
}

// Config returns the configuration the container was built with.
func (c *Container) Config() config.Config {
	return c.config
}

// Logger returns the root logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Runtime returns the reactive runtime every page runs on.
func (c *Container) Runtime() *reactive.Runtime {
	return c.runtime
}

// CacheService returns the shared cache, or nil when caching is disabled.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the serializer used for catalog cache keys.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Catalog returns the catalog pages read from, cached when enabled.
func (c *Container) Catalog() catalog.Service {
	return c.catalog
}

// CachedCatalog returns the cache decorator, or nil when caching is
// disabled.
func (c *Container) CachedCatalog() *catalogcache.CachedService {
	return c.cached
}

// SQLStore returns the SQL catalog when the config selects it.
func (c *Container) SQLStore() (*sqlstore.Store, bool) {
	return c.store, c.store != nil
}

// Cart returns the cart shared by every page.
func (c *Container) Cart() *cart.Store {
	return c.cart
}

// NewCachedCatalog wraps base with the shared cache and key serializer.
// It panics when caching is disabled.
func (c *Container) NewCachedCatalog(base catalog.Service, opts ...catalogcache.Option) *catalogcache.CachedService {
	if c.cacheService == nil {
		panic("di: cache is disabled")
	}
	opts = append([]catalogcache.Option{catalogcache.WithLogger(c.logger.With("component", "catalogcache"))}, opts...)
	return catalogcache.New(base, c.cacheService, c.keySerializer, opts...)
}

// NewListPage creates a list page on the container catalog and cart.
func (c *Container) NewListPage() *pages.ListPage {
	return pages.NewListPage(c.runtime, c.catalog, c.cart)
}

// NewDetailPage creates a product detail page.
func (c *Container) NewDetailPage() *pages.DetailPage {
	return pages.NewDetailPage(c.runtime, c.catalog, c.cart)
}

// NewRelatedWidget creates a related products widget.
func (c *Container) NewRelatedWidget() *pages.RelatedWidget {
	return pages.NewRelatedWidget(c.runtime, c.catalog)
}

// NewLocationsPage creates a store locations page.
func (c *Container) NewLocationsPage() *pages.LocationsPage {
	return pages.NewLocationsPage(c.runtime, c.catalog)
}

// NewAboutPage creates the about page.
func (c *Container) NewAboutPage() *pages.AboutPage {
	return pages.NewAboutPage(c.runtime)
}

// NewHeader creates a header bound to the shared cart.
func (c *Container) NewHeader() *pages.Header {
	return pages.NewHeader(c.runtime, c.cart)
}

// Close stops the runtime and closes the SQL catalog if one was opened.
func (c *Container) Close() error {
	c.runtime.Close()
	var errs []error
	if c.store != nil {
		errs = append(errs, c.store.Close())
		c.store = nil
	}
	return errors.Join(errs...)
}
