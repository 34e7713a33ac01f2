package catalog

import "context"

// Service is the product, category and location source the storefront
// reads from. Implementations: httpapi.Client, sqlstore.Store and the
// catalogcache decorator.
type Service interface {
	ListProducts(ctx context.Context, q ProductQuery) ([]Product, error)
	ProductBySlug(ctx context.Context, slug string) (Product, error)
	RelatedProducts(ctx context.Context, slug string) ([]Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	// ListLocations returns the stores, nearest first when origin is a
	// "lat,lng" pair.
	ListLocations(ctx context.Context, origin string) ([]Location, error)
}
