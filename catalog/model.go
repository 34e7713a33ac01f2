package catalog

import "time"

// Category groups products.
type Category struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Slug  string `json:"slug" yaml:"slug"`
	Image string `json:"image" yaml:"image"`
}

// Product is an immutable catalog record. Price is taken verbatim: zero and
// negative prices are not rejected.
type Product struct {
	ID          int64     `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Slug        string    `json:"slug" yaml:"slug"`
	Description string    `json:"description" yaml:"description"`
	Price       float64   `json:"price" yaml:"price"`
	Images      []string  `json:"images" yaml:"images"`
	CreationAt  time.Time `json:"creationAt" yaml:"creation_at"`
	Category    Category  `json:"category" yaml:"category"`
}

// Cover returns the first image or "".
func (p Product) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Location is a physical store.
type Location struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Latitude    float64 `json:"latitude" yaml:"latitude"`
	Longitude   float64 `json:"longitude" yaml:"longitude"`
}

// ProductQuery filters ListProducts. The zero value lists every product.
type ProductQuery struct {
	CategoryID   int64  `json:"categoryId,omitempty"`
	CategorySlug string `json:"categorySlug,omitempty"`
}

// IsZero reports whether q applies no filter.
func (q ProductQuery) IsZero() bool {
	return q.CategoryID == 0 && q.CategorySlug == ""
}

// Seed is a full catalog snapshot used to populate a store.
type Seed struct {
	Categories []Category `json:"categories" yaml:"categories"`
	Products   []Product  `json:"products" yaml:"products"`
	Locations  []Location `json:"locations" yaml:"locations"`
}
