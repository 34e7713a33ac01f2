package pages

import (
	"log/slog"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/reactive"
	"github.com/goliatone/go-storefront/resource"
)

// DetailPage backs "/product/:slug".
type DetailPage struct {
	rt     *reactive.Runtime
	cart   Cart
	logger *slog.Logger

	slug  *reactive.Cell[string]
	cover *reactive.Cell[string]

	Product *resource.Resource[string, catalog.Product]

	coverSync *reactive.Effect
}

// NewDetailPage creates the page with no product selected.
func NewDetailPage(rt *reactive.Runtime, svc catalog.Service, c Cart, opts ...Option) *DetailPage {
	s := newSettings(rt.Logger(), opts)
	p := &DetailPage{
		rt:     rt,
		cart:   c,
		logger: s.logger.With("page", "detail"),
		slug:   reactive.NewCell(rt, "", reactive.WithName[string]("detail.slug")),
		cover:  reactive.NewCell(rt, "", reactive.WithName[string]("detail.cover")),
	}
	p.Product = resource.New(rt,
		func() (string, bool) {
			slug := p.slug.Get()
			return slug, slug != ""
		},
		svc.ProductBySlug,
		resource.WithName("detail.product"),
		resource.WithLogger(s.logger),
	)
	// a newly applied product resets the cover to its first image
	p.coverSync = reactive.NewNamedEffect(rt, "detail.cover_sync", func() {
		p.cover.Set(p.Product.Value().Cover())
	})
	return p
}

// SetSlug selects the product to show.
func (p *DetailPage) SetSlug(slug string) {
	p.slug.Set(slug)
}

// Slug returns the selected slug.
func (p *DetailPage) Slug() string {
	return p.slug.Get()
}

// Cover is the image shown large; "" when the product has none.
func (p *DetailPage) Cover() string {
	return p.cover.Get()
}

// SelectImage shows url as the cover.
func (p *DetailPage) SelectImage(url string) {
	p.cover.Set(url)
}

// AddToCart adds the loaded product. It returns false while nothing is
// loaded.
func (p *DetailPage) AddToCart() bool {
	if p.Product.Status() != resource.Resolved {
		return false
	}
	product := p.Product.Value()
	line := p.cart.AddToCart(product)
	p.logger.Debug("added to cart", "product", product.Slug, "line", line.ID)
	return true
}

// Destroy stops the product resource and the cover effect.
func (p *DetailPage) Destroy() {
	p.coverSync.Stop()
	p.Product.Destroy()
	p.slug.Dispose()
	p.cover.Dispose()
}

// RelatedWidget lists products of the same category as a product.
type RelatedWidget struct {
	slug    *reactive.Cell[string]
	Related *resource.Resource[string, []catalog.Product]
}

// NewRelatedWidget creates the widget with no product selected.
func NewRelatedWidget(rt *reactive.Runtime, svc catalog.Service, opts ...Option) *RelatedWidget {
	s := newSettings(rt.Logger(), opts)
	w := &RelatedWidget{
		slug: reactive.NewCell(rt, "", reactive.WithName[string]("related.slug")),
	}
	w.Related = resource.New(rt,
		func() (string, bool) {
			slug := w.slug.Get()
			return slug, slug != ""
		},
		svc.RelatedProducts,
		resource.WithName("related.products"),
		resource.WithLogger(s.logger),
		resource.WithInitialValue([]catalog.Product{}),
	)
	return w
}

// SetSlug selects the product whose neighbours are listed.
func (w *RelatedWidget) SetSlug(slug string) {
	w.slug.Set(slug)
}

// Slug returns the selected slug.
func (w *RelatedWidget) Slug() string {
	return w.slug.Get()
}

// Destroy stops the resource.
func (w *RelatedWidget) Destroy() {
	w.Related.Destroy()
	w.slug.Dispose()
}
