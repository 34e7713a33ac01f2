package di

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/pkg/config"
	"github.com/goliatone/go-storefront/pkg/testsupport"
	"github.com/goliatone/go-storefront/resource"
)

func sqlConfig() config.Config {
	cfg := testConfig()
	cfg.Catalog.Source = config.SourceSQL
	cfg.Catalog.DSN = ":memory:"
	return cfg
}

func newSeededContainer(t *testing.T) *Container {
	t.Helper()
	ctx := context.Background()
	container, err := NewContainer(ctx, sqlConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	store, ok := container.SQLStore()
	require.True(t, ok)
	_, err = store.Seed(ctx, testsupport.SampleSeed())
	require.NoError(t, err)
	return container
}

func wait(t *testing.T, c *Container) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Runtime().Wait(ctx))
}

func TestEndToEndStorefrontFlow(t *testing.T) {
	c := newSeededContainer(t)

	list := c.NewListPage()
	header := c.NewHeader()
	wait(t, c)

	require.Equal(t, resource.Resolved, list.Products.Status())
	assert.Len(t, list.Products.Value(), 5)
	assert.Len(t, list.Categories.Value(), 2)

	list.SetSlug("electronics")
	wait(t, c)
	products := list.Products.Value()
	require.Len(t, products, 3)
	assert.Equal(t, "Electronics", products[0].Category.Name)

	detail := c.NewDetailPage()
	related := c.NewRelatedWidget()
	detail.SetSlug("laptop")
	related.SetSlug("laptop")
	wait(t, c)

	assert.Equal(t, "laptop-1.png", detail.Cover())
	assert.Len(t, related.Related.Value(), 2)

	require.True(t, detail.AddToCart())
	list.AddToCart(products[1])
	assert.Equal(t, 2, header.Count())
	assert.InDelta(t, 1499.49, header.Total(), 1e-9)

	locations := c.NewLocationsPage()
	locations.SetOrigin(40.4, -3.7)
	wait(t, c)
	require.NotEmpty(t, locations.Locations.Value())
	assert.Equal(t, "Madrid", locations.Locations.Value()[0].Name)
}

func TestCachedReadsAndReload(t *testing.T) {
	c := newSeededContainer(t)
	ctx := context.Background()

	list := c.NewListPage()
	wait(t, c)
	before := len(c.CachedCatalog().Keys())
	require.Positive(t, before)

	store, _ := c.SQLStore()
	seed := testsupport.SampleSeed()
	seed.Categories = append(seed.Categories, catalog.Category{ID: 3, Name: "Books", Slug: "books"})
	_, err := store.Seed(ctx, seed)
	require.NoError(t, err)

	other := c.NewListPage()
	wait(t, c)
	assert.Len(t, other.Categories.Value(), 2, "second page is served from the cache")

	require.True(t, list.ReloadCategories())
	wait(t, c)
	assert.Len(t, list.Categories.Value(), 3, "reload refreshes the cache entry")

	require.NoError(t, c.CachedCatalog().InvalidateAll(ctx))
	assert.Empty(t, c.CachedCatalog().Keys())
}

func TestCacheKeysAreNamespaced(t *testing.T) {
	cfg := sqlConfig()
	cfg.Catalog.CacheNamespace = "LocalCatalog"
	container, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer container.Close()

	_, err = container.Catalog().ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"local_catalog" + cache.KeySeparator + "ListCategories"}, container.CachedCatalog().Keys())
}

func TestErrorPropagation(t *testing.T) {
	c := newSeededContainer(t)

	detail := c.NewDetailPage()
	detail.SetSlug("does-not-exist")
	wait(t, c)

	assert.Equal(t, resource.Error, detail.Product.Status())
	assert.True(t, catalog.IsNotFound(detail.Product.Err()))
}

func TestClose(t *testing.T) {
	container, err := NewContainer(context.Background(), sqlConfig())
	require.NoError(t, err)

	require.NoError(t, container.Close())
	require.NoError(t, container.Close())
	_, ok := container.SQLStore()
	assert.False(t, ok)

	list := container.NewListPage()
	assert.Equal(t, resource.Loading, list.Products.Status())
	assert.Zero(t, container.Runtime().Pending())
}
