package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSeed() Seed {
	shoes := Category{ID: 1, Name: "Shoes", Slug: "shoes"}
	return Seed{
		Categories: []Category{shoes, {ID: 2, Name: "Hats", Slug: "hats"}},
		Products: []Product{
			{ID: 10, Title: "Runner", Slug: "runner", Price: 99.99, Category: shoes},
			{ID: 11, Title: "Refund voucher", Slug: "refund-voucher", Price: -5, Category: shoes},
		},
		Locations: []Location{{ID: 1, Name: "Centro", Latitude: 4.6, Longitude: -74.08}},
	}
}

func TestProduct_Cover(t *testing.T) {
	assert.Equal(t, "", Product{}.Cover())
	assert.Equal(t, "a.png", Product{Images: []string{"a.png", "b.png"}}.Cover())
}

func TestProductQuery_IsZero(t *testing.T) {
	assert.True(t, ProductQuery{}.IsZero())
	assert.False(t, ProductQuery{CategorySlug: "shoes"}.IsZero())
	assert.False(t, ProductQuery{CategoryID: 3}.IsZero())
}

func TestSeed_Validate(t *testing.T) {
	require.NoError(t, validSeed().Validate(), "negative prices are accepted")

	tests := []struct {
		name   string
		mutate func(*Seed)
	}{
		{"category without slug", func(s *Seed) { s.Categories[0].Slug = "" }},
		{"category slug with spaces", func(s *Seed) { s.Categories[1].Slug = "big hats" }},
		{"duplicate category", func(s *Seed) { s.Categories[1].ID = 1 }},
		{"product without title", func(s *Seed) { s.Products[0].Title = "" }},
		{"product with unknown category", func(s *Seed) { s.Products[0].Category.ID = 99 }},
		{"duplicate product slug", func(s *Seed) { s.Products[1].Slug = "runner" }},
		{"latitude out of range", func(s *Seed) { s.Locations[0].Latitude = 91 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := validSeed()
			tt.mutate(&seed)
			err := seed.Validate()
			require.Error(t, err)
			assert.Equal(t, ErrCodeInvalidRecord, TextCode(err))
		})
	}
}

func TestErrors(t *testing.T) {
	err := NotFound("product", "ghost")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 404, StatusCode(err))
	assert.Equal(t, ErrCodeNotFound, TextCode(err))
	assert.Contains(t, err.Error(), "ghost")

	plain := errors.New("plain")
	assert.False(t, IsNotFound(plain))
	assert.Equal(t, 0, StatusCode(plain))
	assert.Equal(t, "", TextCode(plain))
}
