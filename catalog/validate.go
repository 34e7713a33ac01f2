package catalog

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validate checks the fields a store needs to index a category.
func (c Category) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Slug, validation.Required, validation.Match(slugPattern)),
	)
}

// Validate checks identity fields only; price is accepted as is.
func (p Product) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required, validation.Min(int64(1))),
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Slug, validation.Required, validation.Match(slugPattern)),
	)
}

// Validate checks a location's identity and coordinates.
func (l Location) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.ID, validation.Required, validation.Min(int64(1))),
		validation.Field(&l.Name, validation.Required),
		validation.Field(&l.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&l.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

// Validate checks every record and that product categories and slugs are
// consistent. The first problem is returned as a categorized error.
func (s Seed) Validate() error {
	categories := make(map[int64]bool, len(s.Categories))
	for i, c := range s.Categories {
		if err := c.Validate(); err != nil {
			return invalidRecord(fmt.Sprintf("categories[%d]", i), err)
		}
		if categories[c.ID] {
			return invalidRecord(fmt.Sprintf("categories[%d]", i), fmt.Errorf("duplicate id %d", c.ID))
		}
		categories[c.ID] = true
	}

	slugs := make(map[string]bool, len(s.Products))
	for i, p := range s.Products {
		if err := p.Validate(); err != nil {
			return invalidRecord(fmt.Sprintf("products[%d]", i), err)
		}
		if !categories[p.Category.ID] {
			return invalidRecord(fmt.Sprintf("products[%d]", i), fmt.Errorf("unknown category %d", p.Category.ID))
		}
		if slugs[p.Slug] {
			return invalidRecord(fmt.Sprintf("products[%d]", i), fmt.Errorf("duplicate slug %q", p.Slug))
		}
		slugs[p.Slug] = true
	}

	for i, l := range s.Locations {
		if err := l.Validate(); err != nil {
			return invalidRecord(fmt.Sprintf("locations[%d]", i), err)
		}
	}
	return nil
}

func invalidRecord(path string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, path+": invalid record").
		WithTextCode(ErrCodeInvalidRecord)
}
