// Package cache is the read-through cache used in front of the catalog
// service.
//
// CacheService is implemented by internal/cacheinfra on top of sturdyc.
// Callers go through the typed GetOrFetch helper:
//
//	products, err := cache.GetOrFetch(ctx, svc, key, func(ctx context.Context) ([]catalog.Product, error) {
//		return base.ListProducts(ctx, q)
//	})
//
// Keys are built by a KeySerializer as method::arg::arg. The default
// serializer is reflection based; function arguments are keyed by pointer
// and are therefore only stable within one process. NewHashedKeySerializer
// bounds key length by hashing the argument segments with xxhash while
// keeping the method segment, so DeleteByPrefix keeps working.
//
// WithRefresh marks a context so the next read for a key bypasses the stored
// entry. Resource reloads set it.
package cache
