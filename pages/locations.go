package pages

import (
	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/reactive"
	"github.com/goliatone/go-storefront/resource"
)

// LocationsPage backs "/locations". Stores load once an origin is known,
// nearest first.
type LocationsPage struct {
	Origin    *reactive.Cell[string]
	Locations *resource.Resource[string, []catalog.Location]
}

// NewLocationsPage creates the page with no origin; the resource stays
// idle until SetOrigin.
func NewLocationsPage(rt *reactive.Runtime, svc catalog.Service, opts ...Option) *LocationsPage {
	s := newSettings(rt.Logger(), opts)
	p := &LocationsPage{
		Origin: reactive.NewCell(rt, "", reactive.WithName[string]("locations.origin")),
	}
	p.Locations = resource.New(rt,
		func() (string, bool) {
			origin := p.Origin.Get()
			return origin, origin != ""
		},
		svc.ListLocations,
		resource.WithName("locations.list"),
		resource.WithLogger(s.logger),
		resource.WithInitialValue([]catalog.Location{}),
	)
	return p
}

// SetOrigin sets the user position.
func (p *LocationsPage) SetOrigin(lat, lng float64) {
	p.Origin.Set(catalog.FormatOrigin(lat, lng))
}

// ClearOrigin forgets the position and returns the page to idle.
func (p *LocationsPage) ClearOrigin() {
	p.Origin.Set("")
}

// Destroy stops the locations resource and releases the origin cell.
func (p *LocationsPage) Destroy() {
	p.Locations.Destroy()
	p.Origin.Dispose()
}
