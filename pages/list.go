package pages

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/reactive"
	"github.com/goliatone/go-storefront/resource"
)

// ProductsKey keys the product list. The zero value lists every product.
type ProductsKey struct {
	CategorySlug string
}

// ListView is the filtered product list shown to the user.
type ListView struct {
	Products []catalog.Product
	Err      error
}

// ListPage backs "/" and "/category/:slug".
type ListPage struct {
	rt     *reactive.Runtime
	cart   Cart
	logger *slog.Logger

	slug   *reactive.Cell[string]
	filter *reactive.Cell[string]
	search *reactive.Cell[string]

	Categories *resource.Resource[struct{}, []catalog.Category]
	Products   *resource.Resource[ProductsKey, []catalog.Product]

	compiled *reactive.Derived[compiledFilter]
	visible  *reactive.Derived[ListView]
}

// NewListPage starts loading categories and the unfiltered product list.
func NewListPage(rt *reactive.Runtime, svc catalog.Service, c Cart, opts ...Option) *ListPage {
	s := newSettings(rt.Logger(), opts)
	p := &ListPage{
		rt:     rt,
		cart:   c,
		logger: s.logger.With("page", "list"),
		slug:   reactive.NewCell(rt, "", reactive.WithName[string]("list.slug")),
		filter: reactive.NewCell(rt, "", reactive.WithName[string]("list.filter")),
		search: reactive.NewCell(rt, "", reactive.WithName[string]("list.search")),
	}

	p.Categories = resource.New(rt,
		resource.Static(struct{}{}),
		func(ctx context.Context, _ struct{}) ([]catalog.Category, error) {
			return svc.ListCategories(ctx)
		},
		resource.WithName("list.categories"),
		resource.WithLogger(s.logger),
		resource.WithInitialValue([]catalog.Category{}),
	)
	p.Products = resource.New(rt,
		func() (ProductsKey, bool) {
			return ProductsKey{CategorySlug: p.slug.Get()}, true
		},
		func(ctx context.Context, key ProductsKey) ([]catalog.Product, error) {
			return svc.ListProducts(ctx, catalog.ProductQuery{CategorySlug: key.CategorySlug})
		},
		resource.WithName("list.products"),
		resource.WithLogger(s.logger),
		resource.WithInitialValue([]catalog.Product{}),
	)

	p.compiled = reactive.NewNamedDerived(rt, "list.compiled_filter", func() compiledFilter {
		return compileFilter(p.filter.Get())
	})
	p.visible = reactive.NewNamedDerived(rt, "list.visible", func() ListView {
		products, err := p.compiled.Get().apply(p.Products.Value(), p.search.Get())
		return ListView{Products: products, Err: err}
	})
	return p
}

// Slug returns the category slug; ok is false on the unfiltered list.
func (p *ListPage) Slug() (string, bool) {
	s := p.slug.Get()
	return s, s != ""
}

// SetSlug switches to a category. The product list refetches.
func (p *ListPage) SetSlug(slug string) {
	p.slug.Set(slug)
}

// ClearSlug switches back to every product.
func (p *ListPage) ClearSlug() {
	p.slug.Set("")
}

// ResetCategories empties the category list without fetching.
func (p *ListPage) ResetCategories() {
	p.Categories.Reset([]catalog.Category{})
}

// ReloadCategories fetches the categories again.
func (p *ListPage) ReloadCategories() bool {
	return p.Categories.Reload()
}

// ReloadProducts fetches the current product list again.
func (p *ListPage) ReloadProducts() bool {
	return p.Products.Reload()
}

// AddToCart puts product in the cart.
func (p *ListPage) AddToCart(product catalog.Product) {
	line := p.cart.AddToCart(product)
	p.logger.Debug("added to cart", "product", product.Slug, "line", line.ID)
}

// SetFilter sets an expr-lang boolean expression over the product fields
// id, title, slug, description, price, category and images. An empty
// expression shows every product.
func (p *ListPage) SetFilter(expression string) {
	p.filter.Set(expression)
}

// SetSearch narrows the view to titles containing q, case-insensitively.
func (p *ListPage) SetSearch(q string) {
	p.search.Set(q)
}

// Search returns the current search text.
func (p *ListPage) Search() string {
	return p.search.Get()
}

// Visible is the product list after search and filter. A filter that fails
// to compile or evaluate is reported in ListView.Err.
func (p *ListPage) Visible() ListView {
	return p.visible.Get()
}

// Destroy stops both resources and releases the filter view.
func (p *ListPage) Destroy() {
	p.visible.Dispose()
	p.compiled.Dispose()
	p.Categories.Destroy()
	p.Products.Destroy()
	p.slug.Dispose()
	p.filter.Dispose()
	p.search.Dispose()
}
