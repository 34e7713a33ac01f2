package sqlstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/catalog"
)

// Rows carry a uuid primary key for the repositories and the numeric
// catalog id as Ref.

type categoryRow struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID    uuid.UUID `bun:"id,pk,type:uuid"`
	Ref   int64     `bun:"ref,notnull,unique"`
	Name  string    `bun:"name,notnull"`
	Slug  string    `bun:"slug,notnull,unique"`
	Image string    `bun:"image"`
}

type productRow struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          uuid.UUID    `bun:"id,pk,type:uuid"`
	Ref         int64        `bun:"ref,notnull,unique"`
	Title       string       `bun:"title,notnull"`
	Slug        string       `bun:"slug,notnull,unique"`
	Description string       `bun:"description"`
	Price       float64      `bun:"price,notnull"`
	Images      []string     `bun:"images"`
	CreationAt  time.Time    `bun:"creation_at,notnull"`
	CategoryID  uuid.UUID    `bun:"category_id,type:uuid,notnull"`
	Category    *categoryRow `bun:"rel:belongs-to,join:category_id=id"`
}

type locationRow struct {
	bun.BaseModel `bun:"table:locations,alias:loc"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Ref         int64     `bun:"ref,notnull,unique"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	Latitude    float64   `bun:"latitude,notnull"`
	Longitude   float64   `bun:"longitude,notnull"`
}

func (r *categoryRow) toCatalog() catalog.Category {
	if r == nil {
		return catalog.Category{}
	}
	return catalog.Category{ID: r.Ref, Name: r.Name, Slug: r.Slug, Image: r.Image}
}

func (r *productRow) toCatalog() catalog.Product {
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return catalog.Product{
		ID:          r.Ref,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		Price:       r.Price,
		Images:      images,
		CreationAt:  r.CreationAt.UTC(),
		Category:    r.Category.toCatalog(),
	}
}

func (r *locationRow) toCatalog() catalog.Location {
	return catalog.Location{
		ID:          r.Ref,
		Name:        r.Name,
		Description: r.Description,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
	}
}

func categoryFromCatalog(c catalog.Category) *categoryRow {
	return &categoryRow{ID: uuid.New(), Ref: c.ID, Name: c.Name, Slug: c.Slug, Image: c.Image}
}

func productFromCatalog(p catalog.Product, categoryID uuid.UUID) *productRow {
	created := p.CreationAt
	if created.IsZero() {
		created = time.Now()
	}
	return &productRow{
		ID:          uuid.New(),
		Ref:         p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Images:      append([]string{}, p.Images...),
		CreationAt:  created.UTC(),
		CategoryID:  categoryID,
	}
}

func locationFromCatalog(l catalog.Location) *locationRow {
	return &locationRow{
		ID:          uuid.New(),
		Ref:         l.ID,
		Name:        l.Name,
		Description: l.Description,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
	}
}
