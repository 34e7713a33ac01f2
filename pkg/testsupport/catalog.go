package testsupport

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/goliatone/go-storefront/catalog"
)

// SampleSeed is a small catalog used across package tests.
func SampleSeed() catalog.Seed {
	electronics := catalog.Category{ID: 1, Name: "Electronics", Slug: "electronics"}
	clothing := catalog.Category{ID: 2, Name: "Clothing", Slug: "clothing"}
	created := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	return catalog.Seed{
		Categories: []catalog.Category{electronics, clothing},
		Products: []catalog.Product{
			{ID: 1, Title: "Laptop", Slug: "laptop", Price: 999.99, Images: []string{"laptop-1.png", "laptop-2.png"}, CreationAt: created, Category: electronics},
			{ID: 2, Title: "Phone", Slug: "phone", Price: 499.5, Images: []string{"phone.png"}, CreationAt: created, Category: electronics},
			{ID: 3, Title: "Cable", Slug: "cable", Price: 0, Images: []string{}, CreationAt: created, Category: electronics},
			{ID: 4, Title: "T-Shirt", Slug: "t-shirt", Price: 20, Images: []string{"tshirt.png"}, CreationAt: created, Category: clothing},
			{ID: 5, Title: "Store credit", Slug: "store-credit", Price: -5, Images: []string{}, CreationAt: created, Category: clothing},
		},
		Locations: []catalog.Location{
			{ID: 1, Name: "Madrid", Latitude: 40.4168, Longitude: -3.7038},
			{ID: 2, Name: "Bogota", Latitude: 4.711, Longitude: -74.0721},
			{ID: 3, Name: "Medellin", Latitude: 6.2442, Longitude: -75.5812},
		},
	}
}

// FakeCatalog is an in-memory catalog.Service that counts calls.
type FakeCatalog struct {
	// Hook runs at the start of every call with the method name and its
	// argument; returning an error fails the call. Tests use it to block
	// or fail specific requests.
	Hook func(ctx context.Context, method, arg string) error

	mu    sync.Mutex
	seed  catalog.Seed
	calls map[string]int
}

var _ catalog.Service = (*FakeCatalog)(nil)

// NewFakeCatalog serves seed.
func NewFakeCatalog(seed catalog.Seed) *FakeCatalog {
	return &FakeCatalog{seed: seed, calls: map[string]int{}}
}

// Calls returns how many times method was invoked.
func (f *FakeCatalog) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// SetSeed replaces the served data.
func (f *FakeCatalog) SetSeed(seed catalog.Seed) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seed = seed
}

func (f *FakeCatalog) enter(ctx context.Context, method, arg string) (catalog.Seed, error) {
	f.mu.Lock()
	f.calls[method]++
	seed := f.seed
	hook := f.Hook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, method, arg); err != nil {
			return catalog.Seed{}, err
		}
	}
	return seed, ctx.Err()
}

func (f *FakeCatalog) ListProducts(ctx context.Context, q catalog.ProductQuery) ([]catalog.Product, error) {
	seed, err := f.enter(ctx, "ListProducts", q.CategorySlug)
	if err != nil {
		return nil, err
	}
	out := []catalog.Product{}
	for _, p := range seed.Products {
		if q.CategoryID != 0 && p.Category.ID != q.CategoryID {
			continue
		}
		if q.CategorySlug != "" && p.Category.Slug != q.CategorySlug {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *FakeCatalog) ProductBySlug(ctx context.Context, slug string) (catalog.Product, error) {
	seed, err := f.enter(ctx, "ProductBySlug", slug)
	if err != nil {
		return catalog.Product{}, err
	}
	for _, p := range seed.Products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return catalog.Product{}, catalog.NotFound("product", slug)
}

func (f *FakeCatalog) RelatedProducts(ctx context.Context, slug string) ([]catalog.Product, error) {
	seed, err := f.enter(ctx, "RelatedProducts", slug)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(seed.Products, func(p catalog.Product) bool { return p.Slug == slug })
	if idx < 0 {
		return nil, catalog.NotFound("product", slug)
	}
	product := seed.Products[idx]
	out := []catalog.Product{}
	for _, p := range seed.Products {
		if p.Category.ID == product.Category.ID && p.ID != product.ID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *FakeCatalog) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	seed, err := f.enter(ctx, "ListCategories", "")
	if err != nil {
		return nil, err
	}
	return slices.Clone(seed.Categories), nil
}

func (f *FakeCatalog) ListLocations(ctx context.Context, origin string) ([]catalog.Location, error) {
	seed, err := f.enter(ctx, "ListLocations", origin)
	if err != nil {
		return nil, err
	}
	return catalog.SortByDistance(slices.Clone(seed.Locations), origin), nil
}
