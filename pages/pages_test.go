package pages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront/cart"
	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/pkg/testsupport"
	"github.com/goliatone/go-storefront/reactive"
	"github.com/goliatone/go-storefront/resource"
)

type fixture struct {
	rt   *reactive.Runtime
	svc  *testsupport.FakeCatalog
	cart *cart.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	rt := reactive.NewRuntime()
	t.Cleanup(rt.Close)
	return fixture{
		rt:   rt,
		svc:  testsupport.NewFakeCatalog(testsupport.SampleSeed()),
		cart: cart.New(rt),
	}
}

func (f fixture) wait(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.rt.Wait(ctx))
}

func slugs(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Slug
	}
	return out
}

func TestListPage_LoadsOnCreate(t *testing.T) {
	f := newFixture(t)
	page := NewListPage(f.rt, f.svc, f.cart)

	assert.Equal(t, resource.Loading, page.Categories.Status())
	assert.Equal(t, resource.Loading, page.Products.Status())
	assert.Empty(t, page.Categories.Value())

	f.wait(t)
	assert.Equal(t, resource.Resolved, page.Categories.Status())
	assert.Len(t, page.Categories.Value(), 2)
	assert.Len(t, page.Products.Value(), 5)

	_, ok := page.Slug()
	assert.False(t, ok)
	assert.Equal(t, 1, f.svc.Calls("ListCategories"))
	assert.Equal(t, 1, f.svc.Calls("ListProducts"))
}

func TestListPage_SlugSwitchesProducts(t *testing.T) {
	f := newFixture(t)
	page := NewListPage(f.rt, f.svc, f.cart)
	f.wait(t)

	page.SetSlug("electronics")
	assert.Equal(t, resource.Loading, page.Products.Status())
	f.wait(t)
	assert.Equal(t, []string{"laptop", "phone", "cable"}, slugs(page.Products.Value()))

	page.SetSlug("clothing")
	f.wait(t)
	assert.Equal(t, []string{"t-shirt", "store-credit"}, slugs(page.Products.Value()))

	page.ClearSlug()
	f.wait(t)
	assert.Len(t, page.Products.Value(), 5)
	assert.Equal(t, 4, f.svc.Calls("ListProducts"))
	assert.Equal(t, 1, f.svc.Calls("ListCategories"))
}

func TestListPage_LastSlugWins(t *testing.T) {
	f := newFixture(t)
	release := make(chan struct{})
	f.svc.Hook = func(ctx context.Context, method, arg string) error {
		if method == "ListProducts" && arg == "electronics" {
			<-release
		}
		return nil
	}
	page := NewListPage(f.rt, f.svc, f.cart)
	page.SetSlug("electronics")
	page.SetSlug("clothing")

	require.Eventually(t, func() bool { return f.rt.Pending() == 1 }, time.Second, time.Millisecond)
	f.rt.Drain()
	assert.Equal(t, resource.Resolved, page.Products.Status())
	assert.Equal(t, []string{"t-shirt", "store-credit"}, slugs(page.Products.Value()))

	close(release)
	f.wait(t)
	assert.Equal(t, resource.Resolved, page.Products.Status())
	assert.Equal(t, []string{"t-shirt", "store-credit"}, slugs(page.Products.Value()))
	assert.NoError(t, page.Products.Err())
}

func TestListPage_CategoriesResetAndReload(t *testing.T) {
	f := newFixture(t)
	page := NewListPage(f.rt, f.svc, f.cart)
	f.wait(t)

	page.ResetCategories()
	assert.Equal(t, resource.Idle, page.Categories.Status())
	assert.Equal(t, []catalog.Category{}, page.Categories.Value())

	require.True(t, page.ReloadCategories())
	f.wait(t)
	assert.Len(t, page.Categories.Value(), 2)
	assert.Equal(t, 2, f.svc.Calls("ListCategories"))

	require.True(t, page.ReloadProducts())
	f.wait(t)
	assert.Equal(t, 2, f.svc.Calls("ListProducts"))
}

func TestListPage_FetchError(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("catalog offline")
	f.svc.Hook = func(ctx context.Context, method, arg string) error {
		if method == "ListCategories" {
			return boom
		}
		return nil
	}
	page := NewListPage(f.rt, f.svc, f.cart)
	f.wait(t)

	assert.Equal(t, resource.Error, page.Categories.Status())
	assert.ErrorIs(t, page.Categories.Err(), boom)
	assert.Equal(t, resource.Resolved, page.Products.Status())
}

func TestListPage_Visible(t *testing.T) {
	f := newFixture(t)
	page := NewListPage(f.rt, f.svc, f.cart)
	f.wait(t)

	assert.Len(t, page.Visible().Products, 5)

	page.SetFilter(`price > 100`)
	assert.Equal(t, []string{"laptop", "phone"}, slugs(page.Visible().Products))

	page.SetFilter(`category == "clothing" && price <= 0`)
	assert.Equal(t, []string{"store-credit"}, slugs(page.Visible().Products))

	page.SetFilter(`images == 0`)
	assert.Equal(t, []string{"cable", "store-credit"}, slugs(page.Visible().Products))

	page.SetFilter("")
	page.SetSearch("PHO")
	assert.Equal(t, "PHO", page.Search())
	assert.Equal(t, []string{"phone"}, slugs(page.Visible().Products))
}

func TestListPage_InvalidFilter(t *testing.T) {
	f := newFixture(t)
	page := NewListPage(f.rt, f.svc, f.cart)
	f.wait(t)

	for _, expression := range []string{`price >`, `price + 1`, `unknown_field == 1`} {
		page.SetFilter(expression)
		view := page.Visible()
		assert.Nil(t, view.Products, expression)
		require.Error(t, view.Err, expression)
	}

	page.SetFilter(`price > 0`)
	view := page.Visible()
	assert.NoError(t, view.Err)
	assert.Len(t, view.Products, 3)
}

func TestListPage_FilterCompiledOnce(t *testing.T) {
	f := newFixture(t)
	page := NewListPage(f.rt, f.svc, f.cart)
	page.SetFilter(`price > 10`)
	f.wait(t)

	page.Visible()
	page.SetSlug("electronics")
	f.wait(t)
	page.Visible()
	assert.Equal(t, 1, page.compiled.Computations())
}

func TestListPage_AddToCart(t *testing.T) {
	f := newFixture(t)
	page := NewListPage(f.rt, f.svc, f.cart)
	f.wait(t)

	products := page.Products.Value()
	page.AddToCart(products[3])
	page.AddToCart(products[4])
	page.AddToCart(products[3])

	assert.Equal(t, 3, f.cart.Count())
	assert.Equal(t, 35.0, f.cart.Total())
}

func TestListPage_Destroy(t *testing.T) {
	f := newFixture(t)
	page := NewListPage(f.rt, f.svc, f.cart)
	page.Destroy()
	f.wait(t)

	assert.Equal(t, resource.Loading, page.Products.Status())
	page.SetSlug("electronics")
	f.wait(t)
	assert.Equal(t, 1, f.svc.Calls("ListProducts"))
	assert.False(t, page.ReloadProducts())
}

func TestDetailPage(t *testing.T) {
	f := newFixture(t)
	page := NewDetailPage(f.rt, f.svc, f.cart)

	assert.Equal(t, resource.Idle, page.Product.Status())
	assert.Equal(t, "", page.Cover())
	assert.False(t, page.AddToCart())
	assert.Zero(t, f.svc.Calls("ProductBySlug"))

	page.SetSlug("laptop")
	f.wait(t)
	assert.Equal(t, "Laptop", page.Product.Value().Title)
	assert.Equal(t, "laptop-1.png", page.Cover())

	page.SelectImage("laptop-2.png")
	assert.Equal(t, "laptop-2.png", page.Cover())

	require.True(t, page.AddToCart())
	assert.Equal(t, 999.99, f.cart.Total())

	page.SetSlug("cable")
	f.wait(t)
	assert.Equal(t, "cable", page.Slug())
	assert.Equal(t, "", page.Cover())
}

func TestDetailPage_NotFound(t *testing.T) {
	f := newFixture(t)
	page := NewDetailPage(f.rt, f.svc, f.cart)
	page.SetSlug("missing")
	f.wait(t)

	assert.Equal(t, resource.Error, page.Product.Status())
	assert.True(t, catalog.IsNotFound(page.Product.Err()))
	assert.False(t, page.AddToCart())

	page.Destroy()
	page.SetSlug("laptop")
	f.wait(t)
	assert.Equal(t, 1, f.svc.Calls("ProductBySlug"))
}

func TestRelatedWidget(t *testing.T) {
	f := newFixture(t)
	w := NewRelatedWidget(f.rt, f.svc)
	assert.Equal(t, resource.Idle, w.Related.Status())

	w.SetSlug("phone")
	f.wait(t)
	assert.Equal(t, "phone", w.Slug())
	assert.Equal(t, []string{"laptop", "cable"}, slugs(w.Related.Value()))

	w.SetSlug("t-shirt")
	f.wait(t)
	assert.Equal(t, []string{"store-credit"}, slugs(w.Related.Value()))
	assert.Equal(t, 2, f.svc.Calls("RelatedProducts"))

	w.Destroy()
	w.SetSlug("laptop")
	f.wait(t)
	assert.Equal(t, 2, f.svc.Calls("RelatedProducts"))
}

func TestAboutPage(t *testing.T) {
	f := newFixture(t)
	page := NewAboutPage(f.rt)
	defer page.Destroy()

	assert.Equal(t, 1000, page.Duration.Get())
	assert.Equal(t, "Hola", page.Message.Get())
	assert.Equal(t, "init value", page.WithInit.Get())
	assert.Equal(t, "----", page.WithoutInit.Get())
	assert.Equal(t, 2000, page.Counter.DoubleDuration.Get())

	for _, tt := range []struct {
		input string
		want  int
	}{
		{"5000", 5000},
		{"0", 0},
		{"-1000", -1000},
		{" 300 ", 300},
		{"abc", 300},
		{"", 300},
		{"1.5", 300},
	} {
		page.ChangeDuration(tt.input)
		assert.Equal(t, tt.want, page.Duration.Get(), tt.input)
	}
	assert.Equal(t, 600, page.Counter.DoubleDuration.Get())

	page.ChangeMessage("Hello World")
	assert.Equal(t, "Hello World", page.Counter.Message.Get())

	page.EmitWithInit()
	page.EmitWithoutInit()
	assert.Equal(t, "new value", page.WithInit.Get())
	assert.Equal(t, "*****", page.WithoutInit.Get())
}

func TestCounter(t *testing.T) {
	f := newFixture(t)
	c := NewCounter(f.rt,
		reactive.NewCell(f.rt, 500),
		reactive.NewCell(f.rt, "Test Message"),
	)
	defer c.Destroy()

	assert.Equal(t, 0, c.Counter.Get())
	assert.Equal(t, 1000, c.DoubleDuration.Get())
	c.Duration.Set(250)
	assert.Equal(t, 500, c.DoubleDuration.Get())

	c.Tick()
	c.Tick()
	assert.Equal(t, 2, c.Counter.Get())

	assert.Error(t, c.Start(context.Background(), 0))
	require.NoError(t, c.Start(context.Background(), time.Millisecond))
	assert.True(t, c.Running())
	assert.Error(t, c.Start(context.Background(), time.Millisecond))

	deadline := time.Now().Add(time.Second)
	for c.Counter.Peek() < 4 && time.Now().Before(deadline) {
		f.rt.Drain()
		time.Sleep(time.Millisecond)
	}
	assert.GreaterOrEqual(t, c.Counter.Peek(), 4)

	c.Stop()
	assert.False(t, c.Running())
}

func TestLocationsPage(t *testing.T) {
	f := newFixture(t)
	page := NewLocationsPage(f.rt, f.svc)
	defer page.Destroy()

	assert.Equal(t, "", page.Origin.Get())
	assert.Equal(t, resource.Idle, page.Locations.Status())
	f.wait(t)
	assert.Zero(t, f.svc.Calls("ListLocations"))

	page.SetOrigin(6.25, -75.56)
	assert.Equal(t, "6.25,-75.56", page.Origin.Get())
	f.wait(t)
	names := []string{}
	for _, loc := range page.Locations.Value() {
		names = append(names, loc.Name)
	}
	assert.Equal(t, []string{"Medellin", "Bogota", "Madrid"}, names)

	page.ClearOrigin()
	assert.Equal(t, resource.Idle, page.Locations.Status())
	assert.Nil(t, page.Locations.Value())
	assert.Equal(t, 1, f.svc.Calls("ListLocations"))
}

func TestHeader(t *testing.T) {
	f := newFixture(t)
	h := NewHeader(f.rt, f.cart)

	assert.False(t, h.ShowMenu())
	assert.True(t, h.HideSideMenu())
	h.ToggleMenu()
	h.ToggleSideMenu()
	assert.True(t, h.ShowMenu())
	assert.False(t, h.HideSideMenu())

	assert.Zero(t, h.Count())
	assert.Zero(t, h.Total())
	assert.Empty(t, h.Items())

	var badges []int
	reactive.NewEffect(f.rt, func() { badges = append(badges, h.Count()) })
	f.cart.AddToCart(catalog.Product{Slug: "a", Price: 10, Images: []string{}})
	f.cart.AddToCart(catalog.Product{Slug: "b", Price: 20})

	assert.Equal(t, 2, h.Count())
	assert.Equal(t, 30.0, h.Total())
	assert.Len(t, h.Items(), 2)
	assert.Equal(t, []int{0, 1, 2}, badges)
}

func TestDestroy_ReleasesGraphNodes(t *testing.T) {
	f := newFixture(t)
	base := f.rt.Nodes()

	for range 5 {
		list := NewListPage(f.rt, f.svc, f.cart)
		list.SetSlug("electronics")
		list.SetFilter("price > 0")
		detail := NewDetailPage(f.rt, f.svc, f.cart)
		detail.SetSlug("laptop")
		related := NewRelatedWidget(f.rt, f.svc)
		related.SetSlug("laptop")
		locations := NewLocationsPage(f.rt, f.svc)
		locations.SetOrigin(6.25, -75.56)
		about := NewAboutPage(f.rt)
		header := NewHeader(f.rt, f.cart)
		f.wait(t)

		assert.NotEmpty(t, list.Visible().Products)
		assert.Greater(t, f.rt.Nodes(), base)

		list.Destroy()
		detail.Destroy()
		related.Destroy()
		locations.Destroy()
		about.Destroy()
		header.Destroy()
	}

	assert.Equal(t, base, f.rt.Nodes())

	f.cart.AddToCart(catalog.Product{Slug: "a", Price: 1})
	assert.Equal(t, 1.0, f.cart.Total())
}
