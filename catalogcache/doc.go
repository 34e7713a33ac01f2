// Package catalogcache decorates a catalog.Service with a read-through
// cache.
//
// Every read is keyed namespace::Method::args and served through
// cache.GetOrFetch, so concurrent misses for the same key share one
// upstream call:
//
//	cached := catalogcache.New(client, cacheService, cache.NewDefaultKeySerializer())
//	products, err := cached.ListProducts(ctx, catalog.ProductQuery{CategorySlug: "shoes"})
//
// # Invalidation
//
// Keys are recorded in a registry as they are read. Invalidate drops the
// keys of one method (or any other key prefix below the namespace),
// InvalidateAll drops everything. Reads made with a context carrying
// WithCacheTags are also indexed under those tags so InvalidateTag can drop
// a group of unrelated keys at once:
//
//	ctx = catalogcache.WithCacheTags(ctx, "category:shoes")
//	cached.ListProducts(ctx, q)
//	...
//	cached.InvalidateTag(ctx, "category:shoes")
//
// # Refresh
//
// A context marked with cache.WithRefresh drops the stored entry before the
// read, which is how resource reloads reach the upstream service.
package catalogcache
