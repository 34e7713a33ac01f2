package pages

import (
	"log/slog"

	"github.com/goliatone/go-storefront/cart"
	"github.com/goliatone/go-storefront/catalog"
)

// Cart is the part of the cart store a page can write to.
type Cart interface {
	AddToCart(p catalog.Product) cart.Line
}

// CartSummary is the read side of the cart shown in the header.
type CartSummary interface {
	Cart() []catalog.Product
	Count() int
	Total() float64
}

type settings struct {
	logger *slog.Logger
}

// Option configures a page controller.
type Option func(*settings)

// WithLogger overrides the runtime logger for one controller.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func newSettings(fallback *slog.Logger, opts []Option) settings {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = fallback
	}
	return s
}
