// Package cart holds the shopping cart shared by every page.
package cart

import (
	"slices"

	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/reactive"
)

// Line is one entry of the cart. Adding the same product twice yields two
// lines with distinct IDs.
type Line struct {
	ID      uuid.UUID       `json:"id"`
	Product catalog.Product `json:"product"`
}

// Store is the cart. Prices are summed as given: zero and negative prices
// are accepted and nothing is rounded.
type Store struct {
	rt    *reactive.Runtime
	lines *reactive.Cell[[]Line]
	total *reactive.Derived[float64]
	count *reactive.Derived[int]
}

// New creates an empty cart bound to rt.
func New(rt *reactive.Runtime) *Store {
	s := &Store{
		rt:    rt,
		lines: reactive.NewCell(rt, []Line{}, reactive.WithName[[]Line]("cart.lines")),
	}
	s.total = reactive.NewNamedDerived(rt, "cart.total", func() float64 {
		var sum float64
		for _, line := range s.lines.Get() {
			sum += line.Product.Price
		}
		return sum
	})
	s.count = reactive.NewNamedDerived(rt, "cart.count", func() int {
		return len(s.lines.Get())
	})
	return s
}

// AddToCart appends p. Order is kept and duplicates are allowed.
func (s *Store) AddToCart(p catalog.Product) Line {
	line := Line{ID: uuid.New(), Product: p}
	s.lines.Update(func(lines []Line) []Line {
		next := make([]Line, len(lines), len(lines)+1)
		copy(next, lines)
		return append(next, line)
	})
	s.rt.Logger().Debug("cart line added", "product", p.Slug, "line", line.ID, "count", len(s.lines.Peek()))
	return line
}

// Cart returns a copy of the products in insertion order. The read is
// tracked.
func (s *Store) Cart() []catalog.Product {
	lines := s.lines.Get()
	out := make([]catalog.Product, len(lines))
	for i, line := range lines {
		out[i] = line.Product
	}
	return out
}

// Lines returns a copy of the cart lines. The read is tracked.
func (s *Store) Lines() []Line {
	return slices.Clone(s.lines.Get())
}

// Total is the sum of the prices in insertion order; 0 when empty.
func (s *Store) Total() float64 {
	return s.total.Get()
}

// Count is the number of lines.
func (s *Store) Count() int {
	return s.count.Get()
}

// TotalComputations reports how often Total was recomputed.
func (s *Store) TotalComputations() int {
	return s.total.Computations()
}
